package geo

import (
	"math"
	"testing"

	"github.com/paulmach/orb"
	orbgeo "github.com/paulmach/orb/geo"
	"github.com/paulmach/orb/planar"

	"github.com/matzehuels/santamap/pkg/locations"
)

func TestUTCOffset(t *testing.T) {
	tests := []struct {
		name string
		lon  float64
		want int
	}{
		{"rovaniemi", 25.7, 2},
		{"sydney", 151.2, 10},
		{"greenwich", 0, 0},
		{"rio", -43.1729, -3},
		{"half rounds away from zero", 7.5, 1},
		{"negative half", -7.5, -1},
		{"date line east", 180, 12},
		{"date line west", -180, -12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UTCOffset(tt.lon); got != tt.want {
				t.Errorf("UTCOffset(%v) = %d, want %d", tt.lon, got, tt.want)
			}
		})
	}
}

func TestUTCOffsetMatchesFormulaForTable(t *testing.T) {
	table, err := locations.Default()
	if err != nil {
		t.Fatal(err)
	}
	for _, r := range table.Records() {
		want := int(math.Round(r.Longitude / 15))
		if got := UTCOffset(r.Longitude); got != want {
			t.Errorf("%s: UTCOffset = %d, want %d", r.Name, got, want)
		}
	}
}

func TestTimezoneLabel(t *testing.T) {
	tests := []struct {
		offset int
		want   string
	}{
		{2, "UTC+2"},
		{0, "UTC+0"},
		{-3, "UTC-3"},
		{12, "UTC+12"},
	}
	for _, tt := range tests {
		if got := TimezoneLabel(tt.offset); got != tt.want {
			t.Errorf("TimezoneLabel(%d) = %q, want %q", tt.offset, got, tt.want)
		}
	}
}

func TestAzimuthalEquidistantRoundTrip(t *testing.T) {
	centers := []orb.Point{
		{25.7294, 66.5039},
		{151.2093, -33.8688},
		{-147.3494, 64.7511},
		{0, 0},
	}
	for _, c := range centers {
		fwd, inv := AzimuthalEquidistant(c)

		origin := fwd(c)
		if math.Abs(origin.X()) > 1e-6 || math.Abs(origin.Y()) > 1e-6 {
			t.Errorf("center %v should project to origin, got %v", c, origin)
		}

		p := orb.Point{c.Lon() + 2, c.Lat() - 1}
		back := inv(fwd(p))
		if math.Abs(back.Lon()-p.Lon()) > 1e-9 || math.Abs(back.Lat()-p.Lat()) > 1e-9 {
			t.Errorf("round trip of %v around %v = %v", p, c, back)
		}
	}
}

func TestAzimuthalEquidistantPreservesDistance(t *testing.T) {
	c := orb.Point{25.7294, 66.5039}
	fwd, _ := AzimuthalEquidistant(c)

	p := orb.Point{30, 64}
	projected := fwd(p)
	got := math.Hypot(projected.X(), projected.Y())
	want := orbgeo.Distance(c, p)
	if math.Abs(got-want) > 1 {
		t.Errorf("projected distance = %.1f m, want %.1f m", got, want)
	}
}

func TestBufferRadius(t *testing.T) {
	table, err := locations.Default()
	if err != nil {
		t.Fatal(err)
	}

	for _, r := range table.Records() {
		center := orb.Point{r.Longitude, r.Latitude}
		poly := Buffer(center, DefaultBufferMeters, DefaultSegments)

		if len(poly) != 1 {
			t.Fatalf("%s: Buffer returned %d rings, want 1", r.Name, len(poly))
		}
		ring := poly[0]
		if len(ring) != DefaultSegments+1 {
			t.Errorf("%s: ring has %d vertices, want %d", r.Name, len(ring), DefaultSegments+1)
		}
		if !ring.Closed() {
			t.Errorf("%s: ring should be closed", r.Name)
		}
		for _, v := range ring {
			d := orbgeo.Distance(center, v)
			if math.Abs(d-DefaultBufferMeters)/DefaultBufferMeters > 0.005 {
				t.Errorf("%s: vertex %v is %.0f m from center, want ~%.0f", r.Name, v, d, DefaultBufferMeters)
				break
			}
		}
	}
}

func TestBufferCentroidNearPoint(t *testing.T) {
	table, err := locations.Default()
	if err != nil {
		t.Fatal(err)
	}

	for _, r := range table.Records() {
		center := orb.Point{r.Longitude, r.Latitude}
		poly := Buffer(center, DefaultBufferMeters, DefaultSegments)

		centroid, _ := planar.CentroidArea(poly)
		if math.Abs(centroid.Lon()-center.Lon()) > 0.25 || math.Abs(centroid.Lat()-center.Lat()) > 0.25 {
			t.Errorf("%s: centroid %v too far from point %v", r.Name, centroid, center)
		}
	}
}

func TestBufferMinimumSegments(t *testing.T) {
	poly := Buffer(orb.Point{10, 10}, 1000, 3)
	if got := len(poly[0]); got != minSegments+1 {
		t.Errorf("ring has %d vertices, want %d", got, minSegments+1)
	}
}

func TestBufferNearPoleDoesNotFail(t *testing.T) {
	poly := Buffer(orb.Point{0, 89.5}, DefaultBufferMeters, DefaultSegments)
	for _, v := range poly[0] {
		if math.IsNaN(v.Lon()) || math.IsNaN(v.Lat()) {
			t.Fatalf("polar buffer produced NaN vertex %v", v)
		}
	}
	if !CrossesAntimeridian(poly) {
		t.Error("a buffer enclosing the pole should wrap in longitude")
	}

	projected := PolygonToWebMercator(poly)
	for _, v := range projected[0] {
		if math.IsInf(v.Y(), 0) || math.IsNaN(v.Y()) {
			t.Fatalf("projected polar vertex is not finite: %v", v)
		}
	}
}

func TestUnwrap(t *testing.T) {
	poly := Buffer(orb.Point{179.5, -17}, DefaultBufferMeters, DefaultSegments)
	if !CrossesAntimeridian(poly) {
		t.Fatal("buffer at 179.5E should cross the antimeridian")
	}
	unwrapped := Unwrap(poly)
	if CrossesAntimeridian(unwrapped) {
		t.Error("Unwrap result should not jump across the antimeridian")
	}
	if len(unwrapped[0]) != len(poly[0]) {
		t.Errorf("Unwrap changed vertex count: %d != %d", len(unwrapped[0]), len(poly[0]))
	}
}

func TestWebMercator(t *testing.T) {
	p := ToWebMercator(orb.Point{180, 0})
	if math.Abs(p.X()-MercatorExtent) > 1 {
		t.Errorf("lon 180 projects to x=%v, want %v", p.X(), MercatorExtent)
	}

	top := ToWebMercator(orb.Point{0, 90})
	if math.IsInf(top.Y(), 0) || top.Y() > MercatorExtent+1 {
		t.Errorf("lat 90 should clamp, got y=%v", top.Y())
	}

	back := FromWebMercator(ToWebMercator(orb.Point{25.7294, 66.5039}))
	if math.Abs(back.Lon()-25.7294) > 1e-6 || math.Abs(back.Lat()-66.5039) > 1e-6 {
		t.Errorf("mercator round trip = %v", back)
	}
}

func TestDefaultViewport(t *testing.T) {
	if err := ValidateViewport(DefaultViewport); err != nil {
		t.Fatalf("default viewport invalid: %v", err)
	}
	ratio := AspectRatio(DefaultViewport)
	if ratio < 0.5 || ratio > 0.8 {
		t.Errorf("AspectRatio = %v, want roughly 0.65", ratio)
	}
}

func TestValidateViewport(t *testing.T) {
	tests := []struct {
		name string
		b    orb.Bound
	}{
		{"lon out of range", orb.Bound{Min: orb.Point{-190, 0}, Max: orb.Point{10, 10}}},
		{"lat out of range", orb.Bound{Min: orb.Point{0, -95}, Max: orb.Point{10, 10}}},
		{"empty", orb.Bound{Min: orb.Point{10, 10}, Max: orb.Point{10, 20}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidateViewport(tt.b); err == nil {
				t.Error("expected error")
			}
		})
	}
}
