// Package palette maps tradition names to marker colors.
//
// Every lookup succeeds: traditions without an explicit entry receive the
// palette's fallback color, so an unknown tradition never stops a render.
package palette

import (
	"fmt"
	"image/color"
	"maps"
	"slices"

	"github.com/lucasb-eyer/go-colorful"
)

// Festive colors.
const (
	Cranberry    = "#cc2633"
	Pine         = "#1a8047"
	Gold         = "#f5bd33"
	IcyBlue      = "#59b3db"
	WinterPurple = "#8c59c7"
	WarmOrange   = "#f27a2e"
	BerryPink    = "#e64d8c"
	SummerTeal   = "#0dbfa6"
	Charcoal     = "#333340"
)

// SummerTradition always draws in SummerTeal so the southern summer Santa
// stands apart from the winter colors.
const SummerTradition = "Southern Hemisphere (Summer)"

var defaultEntries = map[string]string{
	"Official Santa": Cranberry,
	"Nordic":         IcyBlue,
	"Slavic":         WinterPurple,
	"Western Europe": Gold,
	"Americas":       WarmOrange,
	"East Asia":      BerryPink,
	"Oceania":        Pine,
	SummerTradition:  SummerTeal,
}

// Palette is an immutable tradition → color table with a fallback.
type Palette struct {
	entries  map[string]colorful.Color
	fallback colorful.Color
}

// New parses hex colors ("#rrggbb") for each tradition and the fallback.
func New(entries map[string]string, fallback string) (*Palette, error) {
	fb, err := colorful.Hex(fallback)
	if err != nil {
		return nil, fmt.Errorf("fallback color %q: %w", fallback, err)
	}
	p := &Palette{
		entries:  make(map[string]colorful.Color, len(entries)),
		fallback: fb,
	}
	for name, hex := range entries {
		c, err := colorful.Hex(hex)
		if err != nil {
			return nil, fmt.Errorf("color for %q: %w", name, err)
		}
		p.entries[name] = c
	}
	return p, nil
}

// Default returns the built-in festive palette with a charcoal fallback.
func Default() *Palette {
	p, err := New(defaultEntries, Charcoal)
	if err != nil {
		panic(err) // constants above are valid hex
	}
	return p
}

// Color returns the tradition's color, or the fallback.
func (p *Palette) Color(tradition string) colorful.Color {
	if c, ok := p.entries[tradition]; ok {
		return c
	}
	return p.fallback
}

// Has reports whether tradition has an explicit entry.
func (p *Palette) Has(tradition string) bool {
	_, ok := p.entries[tradition]
	return ok
}

// Traditions returns the explicitly colored traditions, sorted.
func (p *Palette) Traditions() []string {
	return slices.Sorted(maps.Keys(p.entries))
}

// WithAlpha converts c to a non-premultiplied color with the given opacity.
func WithAlpha(c colorful.Color, alpha float64) color.NRGBA {
	r, g, b := c.Clamped().RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: uint8(clamp01(alpha)*255 + 0.5)}
}

// Lighten blends c toward white in Lab space. t=0 returns c, t=1 white.
func Lighten(c colorful.Color, t float64) colorful.Color {
	return c.BlendLab(colorful.Color{R: 1, G: 1, B: 1}, clamp01(t)).Clamped()
}

// Darken blends c toward black in Lab space.
func Darken(c colorful.Color, t float64) colorful.Color {
	return c.BlendLab(colorful.Color{}, clamp01(t)).Clamped()
}

func clamp01(v float64) float64 {
	return max(0, min(1, v))
}
