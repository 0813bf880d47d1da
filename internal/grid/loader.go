package grid

import (
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"sync"

	"github.com/disintegration/imaging"
)

// GridCache provides thread-safe caching of loaded grids to avoid redundant
// disk reads and decoding.
//
// Grids are keyed by the exact path string passed to Load. Different paths to
// the same file (relative vs absolute) produce separate entries.
//
// # Memory Management
//
// Cached grids stay in memory until Evict or Clear is called. A global
// quarter-degree field is about 8 MB, so long-running servers handling many
// files should evict what they no longer need.
type GridCache struct {
	mu    sync.RWMutex
	grids map[string]*Grid
}

// NewGridCache creates an empty cache ready for concurrent use.
func NewGridCache() *GridCache {
	return &GridCache{
		grids: make(map[string]*Grid),
	}
}

// Load returns the cached grid for path, reading it from disk on first use.
//
// The returned grid is shared with other callers and must not be modified.
func (c *GridCache) Load(path string) (*Grid, error) {
	c.mu.RLock()
	if g, ok := c.grids[path]; ok {
		c.mu.RUnlock()
		return g, nil
	}
	c.mu.RUnlock()

	g, err := LoadGrid(path)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.grids[path] = g
	c.mu.Unlock()

	return g, nil
}

// Clear removes every grid from the cache.
func (c *GridCache) Clear() {
	c.mu.Lock()
	c.grids = make(map[string]*Grid)
	c.mu.Unlock()
}

// Evict removes one grid from the cache. Unknown paths are ignored.
func (c *GridCache) Evict(path string) {
	c.mu.Lock()
	delete(c.grids, path)
	c.mu.Unlock()
}

// Len reports the number of cached grids.
func (c *GridCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.grids)
}

// gridFile is the on-disk JSON description of a grid.
type gridFile struct {
	Name  string `json:"name"`
	Units string `json:"units"`

	Lon []float64 `json:"lon"`
	Lat []float64 `json:"lat"`

	// Regular axes, used when Lon or Lat is omitted.
	LonStart *float64 `json:"lon_start"`
	LonStep  float64  `json:"lon_step"`
	LatStart *float64 `json:"lat_start"`
	LatStep  float64  `json:"lat_step"`

	// Inline values; null marks a missing cell.
	Values [][]*float64 `json:"values"`

	// Raster values.
	Image    string   `json:"image"`
	ValueMin float64  `json:"value_min"`
	ValueMax float64  `json:"value_max"`
	NorthUp  *bool    `json:"north_up"`
	Missing  *float64 `json:"missing_value"`
}

// LoadGrid reads a grid description from a JSON file.
//
// Parameters:
//   - path: Path to the JSON grid file. A raster referenced by the "image"
//     key is resolved relative to the JSON file's directory.
//
// Returns:
//   - *Grid: The decoded and validated grid.
//   - error: Non-nil if the file cannot be read or decoded, the raster cannot
//     be opened, or the values do not match the axes.
//
// # Raster Decoding
//
// Rasters are opened with imaging.Open, so PNG, JPEG, GIF, TIFF, and BMP are
// all accepted. 16-bit grayscale PNG keeps the most precision.
func LoadGrid(path string) (*Grid, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read grid: %w", err)
	}

	var gf gridFile
	if err := json.Unmarshal(data, &gf); err != nil {
		return nil, fmt.Errorf("failed to decode grid: %w", err)
	}

	g := &Grid{
		Name:   gf.Name,
		Units:  gf.Units,
		Lon:    gf.Lon,
		Lat:    gf.Lat,
		Source: path,
	}

	switch {
	case gf.Image != "" && gf.Values != nil:
		return nil, fmt.Errorf("grid %s sets both values and image", path)
	case gf.Image != "":
		rasterPath := gf.Image
		if !filepath.IsAbs(rasterPath) {
			rasterPath = filepath.Join(filepath.Dir(path), rasterPath)
		}
		img, err := imaging.Open(rasterPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open raster: %w", err)
		}
		northUp := gf.NorthUp == nil || *gf.NorthUp
		g.Values = rasterValues(img, gf.ValueMin, gf.ValueMax, northUp)
	default:
		g.Values = inlineValues(gf.Values, gf.Missing)
	}

	rows := len(g.Values)
	cols := 0
	if rows > 0 {
		cols = len(g.Values[0])
	}
	if g.Lon == nil && gf.LonStart != nil {
		g.Lon = regularAxis(*gf.LonStart, gf.LonStep, cols)
	}
	if g.Lat == nil && gf.LatStart != nil {
		g.Lat = regularAxis(*gf.LatStart, gf.LatStep, rows)
	}

	if err := g.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}

func regularAxis(start, step float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	return out
}

// inlineValues converts JSON rows into NaN-marked float rows. Cells equal to
// missing (when set) are treated like nulls.
func inlineValues(rows [][]*float64, missing *float64) [][]float64 {
	out := make([][]float64, len(rows))
	for r, row := range rows {
		out[r] = make([]float64, len(row))
		for c, v := range row {
			switch {
			case v == nil:
				out[r][c] = math.NaN()
			case missing != nil && *v == *missing:
				out[r][c] = math.NaN()
			default:
				out[r][c] = *v
			}
		}
	}
	return out
}

// rasterValues scales a raster's 16-bit gray level into [lo, hi].
//
// Partial alpha does not affect the value: the level is read from the
// un-premultiplied colour. Only fully transparent pixels are missing.
//
// North-up rasters have their rows reversed so row 0 is the southernmost, to
// match an increasing latitude axis.
func rasterValues(img image.Image, lo, hi float64, northUp bool) [][]float64 {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	out := make([][]float64, height)
	for y := 0; y < height; y++ {
		row := y
		if northUp {
			row = height - 1 - y
		}
		out[row] = make([]float64, width)
		for x := 0; x < width; x++ {
			px := color.NRGBA64Model.Convert(img.At(x+bounds.Min.X, y+bounds.Min.Y)).(color.NRGBA64)
			if px.A == 0 {
				out[row][x] = math.NaN()
				continue
			}
			// Gray16Model premultiplies; feed it the straight colour as opaque.
			px.A = 0xffff
			gray := color.Gray16Model.Convert(px).(color.Gray16)
			out[row][x] = lo + (hi-lo)*float64(gray.Y)/0xffff
		}
	}
	return out
}
