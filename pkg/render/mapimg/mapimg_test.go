package mapimg

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/project"

	"github.com/matzehuels/santamap/pkg/basemap"
	"github.com/matzehuels/santamap/pkg/features"
	"github.com/matzehuels/santamap/pkg/geo"
	"github.com/matzehuels/santamap/pkg/land"
	"github.com/matzehuels/santamap/pkg/locations"
	"github.com/matzehuels/santamap/pkg/render/palette"
)

func defaultFeatures(t *testing.T) []features.Feature {
	t.Helper()
	table, err := locations.Default()
	if err != nil {
		t.Fatal(err)
	}
	return features.Enrich(table, features.Options{})
}

func encode(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestRenderSize(t *testing.T) {
	r, err := New(Options{Width: 800})
	if err != nil {
		t.Fatal(err)
	}
	img, err := r.Render(defaultFeatures(t), basemap.Unavailable("disabled"))
	if err != nil {
		t.Fatal(err)
	}

	l := r.Layout()
	if img.Bounds() != l.Canvas {
		t.Errorf("image bounds %v, want %v", img.Bounds(), l.Canvas)
	}
	if l.Canvas.Dx() != 800 || l.Map.Dy() <= 0 || l.Map.Max.Y >= l.Canvas.Max.Y {
		t.Errorf("unexpected layout %+v", l)
	}
}

func TestRenderExplicitHeight(t *testing.T) {
	r, err := New(Options{Width: 640, Height: 480})
	if err != nil {
		t.Fatal(err)
	}
	img, err := r.Render(defaultFeatures(t), basemap.Layer{})
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != 640 || img.Bounds().Dy() != 480 {
		t.Errorf("size = %v", img.Bounds().Size())
	}
}

func TestRenderDeterministic(t *testing.T) {
	fs := defaultFeatures(t)
	render := func() []byte {
		r, err := New(Options{Width: 640, Seed: 7})
		if err != nil {
			t.Fatal(err)
		}
		img, err := r.Render(fs, basemap.Unavailable("disabled"))
		if err != nil {
			t.Fatal(err)
		}
		return encode(t, img)
	}
	if !bytes.Equal(render(), render()) {
		t.Error("identical inputs produced different images")
	}
}

func TestRenderSeedChangesSnow(t *testing.T) {
	fs := defaultFeatures(t)
	render := func(seed uint64) []byte {
		r, _ := New(Options{Width: 640, Seed: seed})
		img, _ := r.Render(fs, basemap.Layer{})
		return encode(t, img)
	}
	if bytes.Equal(render(1), render(2)) {
		t.Error("different seeds should scatter snow differently")
	}
}

func TestRenderUnknownTradition(t *testing.T) {
	p := orb.Point{10, 45}
	fs := []features.Feature{{
		Record:        locations.Record{Name: "Mystery Santa", Tradition: "Unknown Tradition", Place: "Nowhere", Latitude: 45, Longitude: 10},
		Point:         p,
		Buffer:        geo.Buffer(p, geo.DefaultBufferMeters, geo.DefaultSegments),
		UTCOffset:     1,
		TimezoneLabel: "UTC+1",
	}}

	r, err := New(Options{Width: 640})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := r.Render(fs, basemap.Layer{}); err != nil {
		t.Fatalf("unknown tradition should render with fallback color: %v", err)
	}

	names, colors := r.legendEntries(fs)
	fallback, _ := colorful.Hex(palette.Charcoal)
	if len(names) != 1 || colors[0] != fallback {
		t.Errorf("legend = %v %v, want fallback color", names, colors)
	}
}

func TestRenderAntimeridianAndPole(t *testing.T) {
	var fs []features.Feature
	for _, p := range []orb.Point{{179.5, -17}, {-179.9, 10}, {0, 89.9}} {
		fs = append(fs, features.Feature{
			Record: locations.Record{Name: "Edge", Tradition: "Oceania", Latitude: p.Lat(), Longitude: p.Lon()},
			Point:  p,
			Buffer: geo.Buffer(p, geo.DefaultBufferMeters, geo.DefaultSegments),
		})
	}
	r, err := New(Options{Width: 640})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := r.Render(fs, basemap.Layer{}); err != nil {
		t.Fatalf("edge geometry should render: %v", err)
	}
}

func TestRenderRejectsMissingBuffer(t *testing.T) {
	r, _ := New(Options{Width: 640})
	fs := []features.Feature{{Record: locations.Record{Name: "Broken"}}}
	if _, err := r.Render(fs, basemap.Layer{}); err == nil {
		t.Error("expected error for a feature without buffer")
	}
}

func TestRenderDrawsBasemap(t *testing.T) {
	r, err := New(Options{Width: 640})
	if err != nil {
		t.Fatal(err)
	}
	m := r.Layout().Map

	tiles := image.NewNRGBA(image.Rect(0, 0, m.Dx(), m.Dy()))
	for y := range m.Dy() {
		for x := range m.Dx() {
			tiles.Set(x, y, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
		}
	}

	without, _ := r.Render(nil, basemap.Layer{})
	with, _ := r.Render(nil, basemap.Layer{Image: tiles})

	// sample bottom-right of the map, away from legend and labels
	pt := image.Pt(m.Max.X-5, m.Max.Y-5)
	r0, _, _, _ := without.At(pt.X, pt.Y).RGBA()
	r1, _, _, _ := with.At(pt.X, pt.Y).RGBA()
	if r1 <= r0 {
		t.Errorf("white basemap should brighten the map: without=%d with=%d", r0, r1)
	}
}

func TestRenderDrawsLand(t *testing.T) {
	r, err := New(Options{Width: 800})
	if err != nil {
		t.Fatal(err)
	}
	img, err := r.Render(nil, basemap.Unavailable("disabled"))
	if err != nil {
		t.Fatal(err)
	}
	proj := newProjector(geo.DefaultViewport, r.Layout().Map)

	red := func(lon, lat float64) uint32 {
		x, y := proj.point(lon, lat)
		v, _, _, _ := img.At(int(x), int(y)).RGBA()
		return v >> 8
	}
	tests := []struct {
		name     string
		lon, lat float64
		land     bool
	}{
		{"Sahara", 15, 20, true},
		{"Kazakh steppe", 70, 48, true},
		{"Outback", 134, -25, true},
		{"South Atlantic", -20, -35, false},
		{"central Pacific", -140, 10, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := red(tt.lon, tt.lat)
			if tt.land && got < 200 {
				t.Errorf("land pixel red = %d, want snow white", got)
			}
			if !tt.land && got > 120 {
				t.Errorf("ocean pixel red = %d, want dark blue", got)
			}
		})
	}
}

func TestRenderSnowStaysOnLand(t *testing.T) {
	fs := defaultFeatures(t)
	render := func(flakes int) image.Image {
		r, err := New(Options{Width: 640, Snowflakes: flakes})
		if err != nil {
			t.Fatal(err)
		}
		img, err := r.Render(fs, basemap.Layer{})
		if err != nil {
			t.Fatal(err)
		}
		return img
	}
	few, many := render(1), render(5000)

	r, _ := New(Options{Width: 640})
	proj := newProjector(geo.DefaultViewport, r.Layout().Map)
	mask, err := land.Default()
	if err != nil {
		t.Fatal(err)
	}
	b := few.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if few.At(x, y) == many.At(x, y) {
				continue
			}
			if pt := unproject(proj, float64(x)+0.5, float64(y)+0.5); !nearLand(mask, pt) {
				t.Fatalf("snow drawn over open ocean at pixel (%d, %d) = %.1f, %.1f", x, y, pt.Lon(), pt.Lat())
			}
		}
	}
}

// unproject maps a canvas pixel back to lon/lat.
func unproject(p projector, x, y float64) orb.Point {
	mx := p.view.Min.X() + (x-float64(p.rect.Min.X))/p.sx
	my := p.view.Max.Y() - (y-float64(p.rect.Min.Y))/p.sy
	return project.Mercator.ToWGS84(orb.Point{mx, my})
}

// nearLand allows for flake arms and anti-aliasing spilling past the coast.
func nearLand(mask *land.Mask, pt orb.Point) bool {
	if mask.Contains(pt) {
		return true
	}
	for dx := -4.0; dx <= 4; dx++ {
		for dy := -4.0; dy <= 4; dy++ {
			if mask.Contains(orb.Point{pt.Lon() + dx, pt.Lat() + dy}) {
				return true
			}
		}
	}
	return false
}

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name string
		opts Options
	}{
		{"too narrow", Options{Width: 100}},
		{"too tall", Options{Width: 800, Height: 100_000}},
		{"no room for map", Options{Width: 800, Height: 60}},
		{"negative snow", Options{Width: 800, Snowflakes: -3}},
		{"bad viewport", Options{Width: 800, Viewport: orb.Bound{Min: orb.Point{10, 10}, Max: orb.Point{0, 0}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.opts); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLabelOffset(t *testing.T) {
	tests := []struct {
		i      int
		name   string
		dx, dy float64
	}{
		{0, "Rovaniemi", 10, 10},
		{1, "Somewhere", 10, -12},
		{8, "Wraps", 10, 10},
		{3, "Hoteiosho", -12, -12 - pointsPerCm},
		{4, "Ded Moroz (Father Frost)", 18 + pointsPerCm, 0},
	}
	for _, tt := range tests {
		dx, dy := LabelOffset(tt.i, tt.name)
		if dx != tt.dx || dy != tt.dy {
			t.Errorf("LabelOffset(%d, %q) = (%v, %v), want (%v, %v)", tt.i, tt.name, dx, dy, tt.dx, tt.dy)
		}
	}
}

func TestProjectorCorners(t *testing.T) {
	rect := image.Rect(0, 100, 1000, 700)
	p := newProjector(geo.DefaultViewport, rect)

	x, y := p.point(-180, 80)
	if abs(x) > 1e-6 || abs(y-100) > 1e-6 {
		t.Errorf("top-left = (%v, %v)", x, y)
	}
	x, y = p.point(180, -60)
	if abs(x-1000) > 1e-6 || abs(y-700) > 1e-6 {
		t.Errorf("bottom-right = (%v, %v)", x, y)
	}
	if abs(p.worldWidth()-1000) > 1e-6 {
		t.Errorf("worldWidth = %v", p.worldWidth())
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
