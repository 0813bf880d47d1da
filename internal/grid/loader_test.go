package grid

import (
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

// writeFile writes content into dir/name and returns the path.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

// writeGrayPNG writes a 16-bit grayscale PNG whose pixel (x, y) has level
// pixel(x, y). A negative level produces a fully transparent pixel.
func writeGrayPNG(t *testing.T, dir, name string, width, height int, pixel func(x, y int) int) string {
	t.Helper()
	img := image.NewNRGBA64(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			lvl := pixel(x, y)
			if lvl < 0 {
				img.Set(x, y, color.NRGBA64{})
				continue
			}
			v := uint16(lvl)
			img.Set(x, y, color.NRGBA64{R: v, G: v, B: v, A: 0xffff})
		}
	}

	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create %s: %v", name, err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("failed to encode %s: %v", name, err)
	}
	return path
}

const inlineGrid = `{
  "name": "msl",
  "units": "hPa",
  "lon": [0, 10, 20],
  "lat": [-10, 0],
  "values": [[1000, null, 1002], [1003, 1004, 9999]],
  "missing_value": 9999
}`

func TestLoadGrid_Inline(t *testing.T) {
	path := writeFile(t, t.TempDir(), "msl.json", inlineGrid)

	g, err := LoadGrid(path)
	if err != nil {
		t.Fatalf("LoadGrid failed: %v", err)
	}

	if g.Name != "msl" || g.Units != "hPa" || g.Source != path {
		t.Errorf("metadata: got name=%q units=%q source=%q", g.Name, g.Units, g.Source)
	}
	if g.Rows() != 2 || g.Cols() != 3 {
		t.Fatalf("shape: got %dx%d, want 2x3", g.Rows(), g.Cols())
	}
	if g.Values[0][0] != 1000 || g.Values[1][1] != 1004 {
		t.Errorf("values: got %v", g.Values)
	}
	if !math.IsNaN(g.Values[0][1]) {
		t.Errorf("null cell: got %v, want NaN", g.Values[0][1])
	}
	if !math.IsNaN(g.Values[1][2]) {
		t.Errorf("missing_value cell: got %v, want NaN", g.Values[1][2])
	}
}

func TestLoadGrid_RegularAxes(t *testing.T) {
	path := writeFile(t, t.TempDir(), "reg.json", `{
  "lon_start": 350, "lon_step": 2.5,
  "lat_start": 40, "lat_step": 1,
  "values": [[1, 2, 3, 4], [5, 6, 7, 8]]
}`)

	g, err := LoadGrid(path)
	if err != nil {
		t.Fatalf("LoadGrid failed: %v", err)
	}

	wantLon := []float64{350, 352.5, 355, 357.5}
	for i, want := range wantLon {
		if g.Lon[i] != want {
			t.Errorf("Lon[%d]: got %v, want %v", i, g.Lon[i], want)
		}
	}
	if g.Lat[0] != 40 || g.Lat[1] != 41 {
		t.Errorf("Lat: got %v, want [40 41]", g.Lat)
	}
}

func TestLoadGrid_Raster(t *testing.T) {
	dir := t.TempDir()
	// Top image row is 0, bottom image row is full scale; one pixel is transparent.
	writeGrayPNG(t, dir, "msl.png", 4, 3, func(x, y int) int {
		if x == 3 && y == 1 {
			return -1
		}
		return y * 0xffff / 2
	})
	path := writeFile(t, dir, "msl.json", `{
  "lon_start": 0, "lon_step": 90,
  "lat_start": -60, "lat_step": 60,
  "image": "msl.png", "value_min": 950, "value_max": 1050
}`)

	g, err := LoadGrid(path)
	if err != nil {
		t.Fatalf("LoadGrid failed: %v", err)
	}
	if g.Rows() != 3 || g.Cols() != 4 {
		t.Fatalf("shape: got %dx%d, want 3x4", g.Rows(), g.Cols())
	}

	// North-up: image top row becomes the last (northernmost) grid row.
	if got := g.Values[2][0]; math.Abs(got-950) > 1e-9 {
		t.Errorf("north row: got %v, want 950", got)
	}
	if got := g.Values[0][0]; math.Abs(got-1050) > 1e-9 {
		t.Errorf("south row: got %v, want 1050", got)
	}
	if got := g.Values[1][0]; math.Abs(got-1000) > 0.01 {
		t.Errorf("middle row: got %v, want ~1000", got)
	}
	if !math.IsNaN(g.Values[1][3]) {
		t.Errorf("transparent pixel: got %v, want NaN", g.Values[1][3])
	}
}

func TestRasterValues_PartialAlpha(t *testing.T) {
	img := image.NewNRGBA64(image.Rect(0, 0, 3, 1))
	img.Set(0, 0, color.NRGBA64{R: 0x8000, G: 0x8000, B: 0x8000, A: 0xffff})
	img.Set(1, 0, color.NRGBA64{R: 0x8000, G: 0x8000, B: 0x8000, A: 0x4000})
	img.Set(2, 0, color.NRGBA64{R: 0x8000, G: 0x8000, B: 0x8000, A: 0})

	got := rasterValues(img, 0, 100, true)

	if got[0][1] != got[0][0] {
		t.Errorf("semi-transparent pixel: got %v, want %v (same as opaque)", got[0][1], got[0][0])
	}
	if math.Abs(got[0][0]-50) > 0.01 {
		t.Errorf("opaque pixel: got %v, want ~50", got[0][0])
	}
	if !math.IsNaN(got[0][2]) {
		t.Errorf("transparent pixel: got %v, want NaN", got[0][2])
	}
}

func TestLoadGrid_RasterSouthUp(t *testing.T) {
	dir := t.TempDir()
	writeGrayPNG(t, dir, "f.png", 2, 2, func(x, y int) int { return y * 0xffff })
	path := writeFile(t, dir, "f.json", `{
  "lon": [0, 1], "lat": [0, 1],
  "image": "f.png", "value_min": 0, "value_max": 1, "north_up": false
}`)

	g, err := LoadGrid(path)
	if err != nil {
		t.Fatalf("LoadGrid failed: %v", err)
	}
	if g.Values[0][0] != 0 || g.Values[1][0] != 1 {
		t.Errorf("rows should keep image order: got %v", g.Values)
	}
}

func TestLoadGrid_Errors(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name    string
		content string
	}{
		{"bad json", `{"lon": [0,`},
		{"shape mismatch", `{"lon": [0, 1], "lat": [0], "values": [[1, 2, 3]]}`},
		{"decreasing axis", `{"lon": [1, 0], "lat": [0], "values": [[1, 2]]}`},
		{"no axes", `{"values": [[1, 2]]}`},
		{"values and image", `{"lon": [0], "lat": [0], "values": [[1]], "image": "x.png"}`},
		{"missing raster", `{"lon": [0], "lat": [0], "image": "nope.png"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, dir, "bad.json", tt.content)
			if _, err := LoadGrid(path); err == nil {
				t.Error("expected error")
			}
		})
	}

	if _, err := LoadGrid(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestGridCache(t *testing.T) {
	path := writeFile(t, t.TempDir(), "msl.json", inlineGrid)
	cache := NewGridCache()

	g1, err := cache.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	g2, err := cache.Load(path)
	if err != nil {
		t.Fatalf("second Load failed: %v", err)
	}
	if g1 != g2 {
		t.Error("second Load should return the cached grid")
	}
	if cache.Len() != 1 {
		t.Errorf("Len: got %d, want 1", cache.Len())
	}

	cache.Evict(path)
	if cache.Len() != 0 {
		t.Errorf("Len after Evict: got %d, want 0", cache.Len())
	}
	g3, err := cache.Load(path)
	if err != nil {
		t.Fatalf("Load after Evict failed: %v", err)
	}
	if g3 == g1 {
		t.Error("Load after Evict should reread the file")
	}

	cache.Clear()
	if cache.Len() != 0 {
		t.Errorf("Len after Clear: got %d, want 0", cache.Len())
	}
}

func TestGridCache_Concurrent(t *testing.T) {
	path := writeFile(t, t.TempDir(), "msl.json", inlineGrid)
	cache := NewGridCache()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := cache.Load(path); err != nil {
				t.Errorf("Load failed: %v", err)
			}
		}()
	}
	wg.Wait()

	if cache.Len() != 1 {
		t.Errorf("Len: got %d, want 1", cache.Len())
	}
}

func TestDescribe(t *testing.T) {
	path := writeFile(t, t.TempDir(), "msl.json", inlineGrid)
	g, err := LoadGrid(path)
	if err != nil {
		t.Fatalf("LoadGrid failed: %v", err)
	}

	info := Describe(g)
	if info.Rows != 2 || info.Cols != 3 {
		t.Errorf("shape: got %dx%d", info.Rows, info.Cols)
	}
	if info.Missing != 2 {
		t.Errorf("Missing: got %d, want 2", info.Missing)
	}
	if info.ValueMin != 1000 || info.ValueMax != 1004 {
		t.Errorf("range: got %v..%v, want 1000..1004", info.ValueMin, info.ValueMax)
	}
	if math.Abs(info.ValueMean-(1000+1002+1003+1004)/4.0) > 1e-9 {
		t.Errorf("ValueMean: got %v", info.ValueMean)
	}
	if info.Global {
		t.Error("regional grid reported as global")
	}

	global := &Grid{
		Lon:    regularAxis(0, 2.5, 144),
		Lat:    []float64{0},
		Values: [][]float64{make([]float64, 144)},
	}
	if !Describe(global).Global {
		t.Error("0..357.5 grid should be global")
	}
}
