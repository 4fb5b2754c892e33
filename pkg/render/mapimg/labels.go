package mapimg

import (
	"fmt"
	"math"
	"slices"

	"github.com/fogleman/gg"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/santamap/pkg/features"
	"github.com/matzehuels/santamap/pkg/render/palette"
)

// pointsPerCm converts the nudge distances below from centimetres.
const pointsPerCm = 72.0 / 2.54

// labelOffsets cycles by feature index. Units are points, +y is up.
var labelOffsets = [][2]float64{
	{10, 10}, {10, -12}, {-12, 10}, {-12, -12},
	{18, 0}, {-18, 0}, {0, 18}, {0, -18},
}

// labelNudges moves crowded labels clear of their neighbours.
var labelNudges = map[string][2]float64{
	"Hoteiosho":                {0, -pointsPerCm},
	"Père Noël":                {0, -pointsPerCm},
	"Surfing Santa":            {0, -pointsPerCm},
	"Papai Noel":               {0, -pointsPerCm},
	"Ded Moroz (Father Frost)": {pointsPerCm, 0},
}

// LabelOffset returns the label displacement in points for the i-th
// feature named name. Positive y points up.
func LabelOffset(i int, name string) (dx, dy float64) {
	o := labelOffsets[i%len(labelOffsets)]
	n := labelNudges[name]
	return o[0] + n[0], o[1] + n[1]
}

// drawLabel draws "<name> · <UTC label>" over the place name in a rounded
// box, joined to the marker by a thin leader line. The box grows away from
// the marker in the direction of the offset.
func (r *Renderer) drawLabel(dc *gg.Context, p projector, i int, f features.Feature) {
	s := r.layout.Scale
	px, py := p.point(f.Point.Lon(), f.Point.Lat())
	ox, oy := LabelOffset(i, f.Name)
	ax, ay := px+ox*s, py-oy*s

	title := f.Label()
	dc.SetFontFace(r.faces.label)
	tw, th := dc.MeasureString(title)
	pw, ph := 0.0, 0.0
	if f.Place != "" {
		dc.SetFontFace(r.faces.place)
		pw, ph = dc.MeasureString(f.Place)
	}

	pad := 3.2 * s
	gap := 0.0
	if f.Place != "" {
		gap = 2 * s
	}
	w := math.Max(tw, pw) + 2*pad
	h := th + gap + ph + 2*pad

	bx := ax
	if ox < 0 {
		bx = ax - w
	}
	by := ay - h
	if oy < 0 {
		by = ay
	}

	dc.SetRGBA(1, 1, 1, 0.35)
	dc.SetLineWidth(math.Max(0.7, 0.5*s))
	dc.DrawLine(px, py, ax, ay)
	dc.Stroke()

	dc.SetRGBA(1, 1, 1, 0.86)
	dc.DrawRoundedRectangle(bx, by, w, h, 3*s)
	dc.Fill()

	dc.SetColor(inkColor)
	dc.SetFontFace(r.faces.label)
	dc.DrawStringAnchored(title, bx+pad, by+pad, 0, 1)
	if f.Place != "" {
		dc.SetFontFace(r.faces.place)
		dc.SetRGBA(0.05, 0.08, 0.12, 0.75)
		dc.DrawStringAnchored(f.Place, bx+pad, by+pad+th+gap, 0, 1)
	}
}

// legendEntries returns the traditions present in fs, sorted, each with
// the color it is drawn in.
func (r *Renderer) legendEntries(fs []features.Feature) ([]string, []colorful.Color) {
	var names []string
	for _, f := range fs {
		if !slices.Contains(names, f.Tradition) {
			names = append(names, f.Tradition)
		}
	}
	slices.Sort(names)
	colors := make([]colorful.Color, len(names))
	for i, n := range names {
		colors[i] = r.opts.Palette.Color(n)
	}
	return names, colors
}

func (r *Renderer) drawLegend(dc *gg.Context, fs []features.Feature) {
	names, colors := r.legendEntries(fs)
	if len(names) == 0 {
		return
	}

	s := r.layout.Scale
	m := r.layout.Map
	pad := 8 * s
	row := 17 * s
	swatch := 5 * s

	dc.SetFontFace(r.faces.legendTitle)
	_, titleH := dc.MeasureString("Legend")
	dc.SetFontFace(r.faces.legend)
	textW := 0.0
	for _, n := range names {
		w, _ := dc.MeasureString(n)
		textW = math.Max(textW, w)
	}

	x := float64(m.Min.X) + 10*s
	y := float64(m.Min.Y) + 10*s
	w := pad + 2*swatch + 6*s + textW + pad
	h := pad + titleH + 6*s + float64(len(names))*row + pad/2

	dc.DrawRoundedRectangle(x, y, w, h, 5*s)
	dc.SetRGBA(0.10, 0.12, 0.18, 0.65)
	dc.FillPreserve()
	dc.SetRGBA(1, 1, 1, 0.12)
	dc.SetLineWidth(1)
	dc.Stroke()

	dc.SetRGBA(1, 1, 1, 1)
	dc.SetFontFace(r.faces.legendTitle)
	dc.DrawStringAnchored("Legend", x+pad, y+pad, 0, 1)

	dc.SetFontFace(r.faces.legend)
	cy := y + pad + titleH + 6*s + row/2
	for i, n := range names {
		cx := x + pad + swatch
		dc.DrawCircle(cx, cy, swatch)
		dc.SetColor(palette.WithAlpha(colors[i], 0.98))
		dc.FillPreserve()
		dc.SetRGBA(1, 1, 1, 1)
		dc.SetLineWidth(math.Max(1, 0.8*s))
		dc.Stroke()

		dc.DrawStringAnchored(n, cx+swatch+6*s, cy, 0, 0.35)
		cy += row
	}
}

func (r *Renderer) drawTitle(dc *gg.Context) {
	l := r.layout
	dc.SetRGBA(1, 1, 1, 1)
	dc.SetFontFace(r.faces.title)
	dc.DrawStringAnchored(r.opts.Title, float64(l.Canvas.Dx())/2, float64(l.Map.Min.Y)/2, 0.5, 0.35)
}

func (r *Renderer) drawFooter(dc *gg.Context, basemap bool) {
	l := r.layout
	text := r.opts.Footer
	if text == "" {
		text = DefaultFooter(0)
	}
	if basemap && r.opts.Attribution != "" {
		text += "  |  " + r.opts.Attribution
	}
	dc.SetRGBA(1, 1, 1, 0.7)
	dc.SetFontFace(r.faces.footer)
	y := float64(l.Map.Max.Y) + float64(l.Canvas.Max.Y-l.Map.Max.Y)/2
	dc.DrawStringAnchored(text, float64(l.Canvas.Dx())/2, y, 0.5, 0.35)
}

// DefaultFooter notes that the map is decorative. A zero radius omits it.
func DefaultFooter(radiusKm float64) string {
	if radiusKm <= 0 {
		return "Circles are decorative influence radii. Time zones are round(longitude / 15), not legal zones."
	}
	return fmt.Sprintf("Circles are decorative %g km influence radii. Time zones are round(longitude / 15), not legal zones.", radiusKm)
}

func mustHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}
