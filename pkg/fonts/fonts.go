// Package fonts provides the typefaces used to draw map text.
//
// The Go font family (golang.org/x/image/font/gofont) is compiled into the
// binary, so rendering never depends on fonts installed on the host. Parsed
// fonts are cached after first use; faces are cheap and created per size.
package fonts

import (
	"fmt"
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"
)

// Style selects a typeface.
type Style int

const (
	Regular Style = iota
	Bold
	Italic
)

func (s Style) String() string {
	switch s {
	case Regular:
		return "regular"
	case Bold:
		return "bold"
	case Italic:
		return "italic"
	}
	return fmt.Sprintf("Style(%d)", int(s))
}

var sources = map[Style][]byte{
	Regular: goregular.TTF,
	Bold:    gobold.TTF,
	Italic:  goitalic.TTF,
}

var (
	mu     sync.Mutex
	parsed = map[Style]*truetype.Font{}
)

// Font returns the parsed TrueType font for s.
func Font(s Style) (*truetype.Font, error) {
	mu.Lock()
	defer mu.Unlock()

	if f, ok := parsed[s]; ok {
		return f, nil
	}
	src, ok := sources[s]
	if !ok {
		return nil, fmt.Errorf("unknown font style %v", s)
	}
	f, err := truetype.Parse(src)
	if err != nil {
		return nil, fmt.Errorf("parse %v font: %w", s, err)
	}
	parsed[s] = f
	return f, nil
}

// Face returns a font face of the given point size at 72 DPI, so one point
// equals one pixel on the canvas.
func Face(s Style, points float64) (font.Face, error) {
	f, err := Font(s)
	if err != nil {
		return nil, err
	}
	return truetype.NewFace(f, &truetype.Options{
		Size:    points,
		DPI:     72,
		Hinting: font.HintingFull,
	}), nil
}
