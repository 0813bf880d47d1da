package grid

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"

	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/storm-tools-mcp/internal/storms"
)

// Default colormap: a diverging blue-yellow-red ramp.
const (
	DefaultLowColor  = "#2c7bb6"
	DefaultMidColor  = "#ffffbf"
	DefaultHighColor = "#d7191c"
)

// RenderOptions controls how a grid is drawn.
type RenderOptions struct {
	// Scale is the size of one grid cell in output pixels. Values below 1
	// are treated as 1.
	Scale int

	// Graticule is the spacing of longitude/latitude lines in degrees.
	// Zero disables the graticule.
	Graticule float64

	// LowColor, MidColor, and HighColor are hex colours for the minimum,
	// midpoint, and maximum of the value range. Empty means the default.
	LowColor  string
	MidColor  string
	HighColor string
}

// RenderResult contains a rendered grid encoded as base64 PNG.
type RenderResult struct {
	Width       int     `json:"width"`
	Height      int     `json:"height"`
	ImageBase64 string  `json:"image_base64"`
	MimeType    string  `json:"mime_type"`
	ValueMin    float64 `json:"value_min"`
	ValueMax    float64 `json:"value_max"`
	StormCount  int     `json:"storm_count"`
}

// Render draws g as a colormapped, north-up PNG.
//
// Parameters:
//   - g: The grid to draw.
//   - found: Optional detection result. Each storm is marked with a cross:
//     black for cyclones, white for anticyclones.
//   - opts: Scale, graticule, and colormap settings.
//
// # Colormap
//
// Values are normalised over the defined range and blended in CIE L*a*b*
// from LowColor through MidColor to HighColor, which keeps perceived
// lightness changes even. Missing cells are transparent. A constant grid is
// drawn entirely in MidColor.
func Render(g *Grid, found *storms.Result, opts RenderOptions) (*RenderResult, error) {
	low, err := hexOrDefault(opts.LowColor, DefaultLowColor)
	if err != nil {
		return nil, err
	}
	mid, err := hexOrDefault(opts.MidColor, DefaultMidColor)
	if err != nil {
		return nil, err
	}
	high, err := hexOrDefault(opts.HighColor, DefaultHighColor)
	if err != nil {
		return nil, err
	}
	scale := opts.Scale
	if scale < 1 {
		scale = 1
	}

	info := Describe(g)
	rows, cols := g.Rows(), g.Cols()

	if err := checkGraticule(g, opts.Graticule); err != nil {
		return nil, err
	}

	// Row 0 is south; draw as-is and flip afterwards.
	base := image.NewNRGBA(image.Rect(0, 0, cols, rows))
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			v := g.Values[r][c]
			if math.IsNaN(v) {
				base.Set(c, r, color.NRGBA{})
				continue
			}
			t := 0.5
			if info.ValueMax > info.ValueMin {
				t = (v - info.ValueMin) / (info.ValueMax - info.ValueMin)
			}
			var cc colorful.Color
			if t < 0.5 {
				cc = low.BlendLab(mid, t*2)
			} else {
				cc = mid.BlendLab(high, (t-0.5)*2)
			}
			base.Set(c, r, cc.Clamped())
		}
	}

	out := imaging.Resize(imaging.FlipV(base), cols*scale, rows*scale, imaging.NearestNeighbor)

	// toPixel maps fractional (row, col) indices to the centre of the scaled,
	// flipped cell.
	toPixel := func(row, col float64) (int, int) {
		x := int(math.Round((col + 0.5) * float64(scale)))
		y := int(math.Round((float64(rows-1) - row + 0.5) * float64(scale)))
		return x, y
	}

	if opts.Graticule > 0 {
		drawGraticule(out, g, opts.Graticule, toPixel)
	}

	count := 0
	if found != nil {
		marker := color.NRGBA{0, 0, 0, 255}
		if found.Polarity == storms.Anticyclonic {
			marker = color.NRGBA{255, 255, 255, 255}
		}
		arm := 2 * scale
		if arm < 3 {
			arm = 3
		}
		for _, s := range found.Storms {
			x, y := toPixel(s.Row, s.Col)
			drawCross(out, x, y, arm, marker)
			count++
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, out); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	return &RenderResult{
		Width:       out.Bounds().Dx(),
		Height:      out.Bounds().Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
		ValueMin:    info.ValueMin,
		ValueMax:    info.ValueMax,
		StormCount:  count,
	}, nil
}

func hexOrDefault(s, def string) (colorful.Color, error) {
	if s == "" {
		s = def
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return colorful.Color{}, fmt.Errorf("invalid colour %q: %w", s, err)
	}
	return c, nil
}

// checkGraticule rejects spacings that are negative or would draw more lines
// than the grid has columns and rows.
func checkGraticule(g *Grid, step float64) error {
	if step == 0 {
		return nil
	}
	if !(step > 0) {
		return fmt.Errorf("invalid graticule spacing %g: must be positive", step)
	}
	lonSpan := g.Lon[len(g.Lon)-1] - g.Lon[0]
	latSpan := g.Lat[len(g.Lat)-1] - g.Lat[0]
	lines := math.Floor(lonSpan/step) + math.Floor(latSpan/step) + 2
	if limit := g.Cols() + g.Rows(); lines > float64(limit) {
		return fmt.Errorf("graticule spacing %g would draw %.0f lines on a %dx%d grid (limit %d)",
			step, lines, g.Rows(), g.Cols(), limit)
	}
	return nil
}

// drawGraticule draws semi-transparent lines at every multiple of step
// degrees inside the grid's longitude and latitude ranges.
func drawGraticule(img *image.NRGBA, g *Grid, step float64, toPixel func(row, col float64) (int, int)) {
	line := color.NRGBA{64, 64, 64, 160}
	bounds := img.Bounds()

	lonMin, lonMax := g.Lon[0], g.Lon[len(g.Lon)-1]
	for l := math.Ceil(lonMin/step) * step; l <= lonMax; l += step {
		x, _ := toPixel(0, fractionalIndex(g.Lon, l))
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			blend(img, x, y, line)
		}
	}

	latMin, latMax := g.Lat[0], g.Lat[len(g.Lat)-1]
	for l := math.Ceil(latMin/step) * step; l <= latMax; l += step {
		_, y := toPixel(fractionalIndex(g.Lat, l), 0)
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			blend(img, x, y, line)
		}
	}
}

// drawCross draws a plus-shaped marker centred on (x, y), clipped to the
// image bounds.
func drawCross(img *image.NRGBA, x, y, arm int, c color.NRGBA) {
	for d := -arm; d <= arm; d++ {
		setInBounds(img, x+d, y, c)
		setInBounds(img, x, y+d, c)
	}
}

func setInBounds(img *image.NRGBA, x, y int, c color.NRGBA) {
	if image.Pt(x, y).In(img.Bounds()) {
		img.SetNRGBA(x, y, c)
	}
}

// blend composites c over the pixel at (x, y) using c's alpha.
func blend(img *image.NRGBA, x, y int, c color.NRGBA) {
	if !image.Pt(x, y).In(img.Bounds()) {
		return
	}
	dst := img.NRGBAAt(x, y)
	a := float64(c.A) / 255
	mix := func(s, d uint8) uint8 {
		return uint8(math.Round(float64(s)*a + float64(d)*(1-a)))
	}
	img.SetNRGBA(x, y, color.NRGBA{
		R: mix(c.R, dst.R),
		G: mix(c.G, dst.G),
		B: mix(c.B, dst.B),
		A: uint8(math.Max(float64(dst.A), float64(c.A))),
	})
}
