package palette

import (
	"testing"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/santamap/pkg/locations"
)

func TestDefaultCoversTable(t *testing.T) {
	table, err := locations.Default()
	if err != nil {
		t.Fatal(err)
	}
	p := Default()
	for _, tr := range table.Traditions() {
		if !p.Has(tr) {
			t.Errorf("tradition %q has no explicit color", tr)
		}
	}
}

func TestColorFallback(t *testing.T) {
	p := Default()
	got := p.Color("Martian Santa")
	if got != p.fallback {
		t.Errorf("unknown tradition = %v, want fallback %v", got.Hex(), p.fallback.Hex())
	}
	if p.Has("Martian Santa") {
		t.Error("Has should be false for unknown tradition")
	}
}

func TestSummerIsTeal(t *testing.T) {
	if got := Default().Color(SummerTradition).Hex(); got != SummerTeal {
		t.Errorf("summer color = %s, want %s", got, SummerTeal)
	}
}

func TestNewRejectsBadHex(t *testing.T) {
	tests := []struct {
		name     string
		entries  map[string]string
		fallback string
	}{
		{"bad fallback", nil, "charcoal"},
		{"bad entry", map[string]string{"Nordic": "#12"}, Charcoal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.entries, tt.fallback); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestTraditionsSorted(t *testing.T) {
	p, err := New(map[string]string{"b": Gold, "a": Pine, "c": IcyBlue}, Charcoal)
	if err != nil {
		t.Fatal(err)
	}
	got := p.Traditions()
	want := []string{"a", "b", "c"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Traditions() = %v, want %v", got, want)
		}
	}
}

func TestWithAlpha(t *testing.T) {
	c, _ := colorful.Hex("#ff0000")
	got := WithAlpha(c, 0.5)
	if got.R != 255 || got.G != 0 || got.A != 128 {
		t.Errorf("WithAlpha = %+v", got)
	}
	if WithAlpha(c, 2).A != 255 {
		t.Error("alpha should clamp to 1")
	}
}

func TestLightenDarken(t *testing.T) {
	c, _ := colorful.Hex(Cranberry)
	if Lighten(c, 1).Hex() != "#ffffff" {
		t.Errorf("Lighten(1) = %s", Lighten(c, 1).Hex())
	}
	if Darken(c, 1).Hex() != "#000000" {
		t.Errorf("Darken(1) = %s", Darken(c, 1).Hex())
	}
	if Lighten(c, 0).Hex() != Cranberry {
		t.Errorf("Lighten(0) = %s", Lighten(c, 0).Hex())
	}
}
