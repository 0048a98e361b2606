package strand

import (
	"image/color"

	"github.com/fogleman/gg"
)

// FadeFloor is the alpha multiplier reached at the last vertex of a strand.
const FadeFloor = 0.3

// Style controls how a strand is stroked.
type Style struct {
	Thickness float64
	Glow      float64 // alpha multiplier at the first vertex
}

// VertexAlpha returns the stroke alpha of vertex j in a path of n vertices,
// fading linearly from glow at j=0 to FadeFloor at j=n-1.
func VertexAlpha(j, n int, glow float64) uint8 {
	t := 0.0
	if n > 1 {
		t = float64(j) / float64(n-1)
	}
	return clampByte(255 * (glow + (FadeFloor-glow)*t))
}

// Render strokes path as a Catmull-Rom curve through every vertex. Each segment
// is a cubic Bezier stroked in base's RGB with the alpha of its first vertex.
// Paths with fewer than two points draw nothing.
func Render(dc *gg.Context, path []Point, base color.NRGBA, style Style) {
	n := len(path)
	if n < 2 {
		return
	}

	dc.SetLineWidth(style.Thickness)
	dc.SetLineCap(gg.LineCapButt)
	for j := 0; j < n-1; j++ {
		p0 := path[max(j-1, 0)]
		p1 := path[j]
		p2 := path[j+1]
		p3 := path[min(j+2, n-1)]

		c1 := Point{X: p1.X + (p2.X-p0.X)/6, Y: p1.Y + (p2.Y-p0.Y)/6}
		c2 := Point{X: p2.X - (p3.X-p1.X)/6, Y: p2.Y - (p3.Y-p1.Y)/6}

		dc.SetColor(color.NRGBA{R: base.R, G: base.G, B: base.B, A: VertexAlpha(j, n, style.Glow)})
		dc.MoveTo(p1.X, p1.Y)
		dc.CubicTo(c1.X, c1.Y, c2.X, c2.Y, p2.X, p2.Y)
		dc.Stroke()
	}
}
