package canvas

import (
	"image"
	"image/color"
	"math"

	"candlescope/pkg/colorutil"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// textFace is the fixed-width face used for axis labels, markers and tooltips.
var textFace font.Face = basicfont.Face7x13

const (
	textHeight = 13
	textAscent = 11
	dashOn     = 4
	dashOff    = 3
)

// setPixel composites col over the output pixel at (x, y).
func setPixel(output *image.RGBA, x, y int, col color.RGBA) {
	if !(image.Point{X: x, Y: y}).In(output.Rect) {
		return
	}
	if col.A == 255 {
		output.SetRGBA(x, y, col)
		return
	}
	output.SetRGBA(x, y, colorutil.Blend(output.RGBAAt(x, y), col))
}

// drawLine draws a line between two points using Bresenham's algorithm.
// Dashed lines alternate dashOn drawn and dashOff skipped steps.
func drawLine(output *image.RGBA, x1, y1, x2, y2 int, col color.RGBA, thickness int, dashed bool) {
	if thickness < 1 {
		thickness = 1
	}
	dx := x2 - x1
	dy := y2 - y1
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}

	sx := 1
	if x1 > x2 {
		sx = -1
	}
	sy := 1
	if y1 > y2 {
		sy = -1
	}

	err := dx - dy
	step := 0

	for {
		if !dashed || step%(dashOn+dashOff) < dashOn {
			for t := -thickness / 2; t <= (thickness-1)/2; t++ {
				if dx >= dy {
					setPixel(output, x1, y1+t, col)
				} else {
					setPixel(output, x1+t, y1, col)
				}
			}
		}
		step++

		if x1 == x2 && y1 == y2 {
			break
		}

		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

// fillRect fills the inclusive rectangle (x1,y1)-(x2,y2), blending by alpha.
func fillRect(output *image.RGBA, x1, y1, x2, y2 int, col color.RGBA) {
	if x1 > x2 {
		x1, x2 = x2, x1
	}
	if y1 > y2 {
		y1, y2 = y2, y1
	}
	r := image.Rect(x1, y1, x2+1, y2+1).Intersect(output.Rect)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			setPixel(output, x, y, col)
		}
	}
}

// strokeRect outlines the inclusive rectangle (x1,y1)-(x2,y2).
func strokeRect(output *image.RGBA, x1, y1, x2, y2 int, col color.RGBA, thickness int) {
	drawLine(output, x1, y1, x2, y1, col, thickness, false)
	drawLine(output, x2, y1, x2, y2, col, thickness, false)
	drawLine(output, x2, y2, x1, y2, col, thickness, false)
	drawLine(output, x1, y2, x1, y1, col, thickness, false)
}

// textWidth returns the advance of s in pixels.
func textWidth(s string) int {
	return font.MeasureString(textFace, s).Ceil()
}

// drawText draws s with its top-left corner at (x, y).
func drawText(output *image.RGBA, s string, x, y int, col color.RGBA) {
	d := &font.Drawer{
		Dst:  output,
		Src:  image.NewUniform(col),
		Face: textFace,
		Dot:  fixed.P(x, y+textAscent),
	}
	d.DrawString(s)
}

// drawLabel draws a centered label inside a rectangle.
func drawLabel(output *image.RGBA, label string, x1, y1, x2, y2 int, col color.RGBA) {
	w := textWidth(label)
	drawText(output, label, (x1+x2)/2-w/2, (y1+y2)/2-textHeight/2, col)
}

// fillTriangle fills the triangle a-b-c with a scanline pass over its bounds.
func fillTriangle(output *image.RGBA, a, b, c [2]float64, col color.RGBA) {
	minX := int(math.Floor(math.Min(a[0], math.Min(b[0], c[0]))))
	maxX := int(math.Ceil(math.Max(a[0], math.Max(b[0], c[0]))))
	minY := int(math.Floor(math.Min(a[1], math.Min(b[1], c[1]))))
	maxY := int(math.Ceil(math.Max(a[1], math.Max(b[1], c[1]))))

	edge := func(p, q [2]float64, x, y float64) float64 {
		return (q[0]-p[0])*(y-p[1]) - (q[1]-p[1])*(x-p[0])
	}
	area := edge(a, b, c[0], c[1])
	if area == 0 {
		return
	}
	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			px, py := float64(x)+0.5, float64(y)+0.5
			w0 := edge(b, c, px, py) / area
			w1 := edge(c, a, px, py) / area
			w2 := edge(a, b, px, py) / area
			if w0 >= 0 && w1 >= 0 && w2 >= 0 {
				setPixel(output, x, y, col)
			}
		}
	}
}

// drawArrowHead draws a filled arrowhead of the given size centred on (cx, cy)
// pointing at rotation degrees (0 right, 90 down).
func drawArrowHead(output *image.RGBA, cx, cy, size, rotation float64, col color.RGBA) {
	rad := rotation * math.Pi / 180
	cos, sin := math.Cos(rad), math.Sin(rad)
	rot := func(x, y float64) [2]float64 {
		return [2]float64{cx + x*cos - y*sin, cy + x*sin + y*cos}
	}
	h := size / 2
	fillTriangle(output, rot(h, 0), rot(-h, -h), rot(-h, h), col)
}

// drawDeleteGlyph draws the delete affordance: a framed square with a cross.
func drawDeleteGlyph(output *image.RGBA, cx, cy, size float64) {
	h := int(size / 2)
	x, y := int(cx), int(cy)
	fillRect(output, x-h, y-h, x+h, y+h, colorutil.DeleteBG)
	strokeRect(output, x-h, y-h, x+h, y+h, colorutil.DeleteStroke, 1)
	in := h / 2
	drawLine(output, x-in, y-in, x+in, y+in, colorutil.DeleteCross, 2, false)
	drawLine(output, x-in, y+in, x+in, y-in, colorutil.DeleteCross, 2, false)
}

// drawHandle draws a square drag handle.
func drawHandle(output *image.RGBA, cx, cy, size float64, col color.RGBA) {
	h := int(size / 2)
	x, y := int(cx), int(cy)
	fillRect(output, x-h, y-h, x+h, y+h, colorutil.Background)
	strokeRect(output, x-h, y-h, x+h, y+h, col, 1)
}
