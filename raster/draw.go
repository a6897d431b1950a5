// Package raster provides the pixel-level drawing primitives shared by
// the page renderer, the stroke compositor and the raster annotation
// editor.
package raster

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// Line draws a one-pixel Bresenham line.
func Line(img *image.RGBA, x0, y0, x1, y1 int, col color.Color) {
	dx := math.Abs(float64(x1 - x0))
	dy := math.Abs(float64(y1 - y0))
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy
	for {
		if image.Pt(x0, y0).In(img.Bounds()) {
			img.Set(x0, y0, col)
		}
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// Disc fills a circle of the given radius.
func Disc(img *image.RGBA, cx, cy, r int, col color.Color) {
	if r <= 0 {
		if image.Pt(cx, cy).In(img.Bounds()) {
			img.Set(cx, cy, col)
		}
		return
	}
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if dx*dx+dy*dy <= r*r {
				if image.Pt(cx+dx, cy+dy).In(img.Bounds()) {
					img.Set(cx+dx, cy+dy, col)
				}
			}
		}
	}
}

// ThickLine draws a line with the given width by stamping discs along the
// segment. Width is in pixels; 1 falls back to Line.
func ThickLine(img *image.RGBA, x0, y0, x1, y1 int, width int, col color.Color) {
	if width <= 1 {
		Line(img, x0, y0, x1, y1, col)
		return
	}
	r := width / 2
	length := math.Hypot(float64(x1-x0), float64(y1-y0))
	steps := int(length) + 1
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		x := int(math.Round(float64(x0) + t*float64(x1-x0)))
		y := int(math.Round(float64(y0) + t*float64(y1-y0)))
		Disc(img, x, y, r, col)
	}
}

// FillRect fills the rectangle with a solid color.
func FillRect(img *image.RGBA, r image.Rectangle, col color.Color) {
	draw.Draw(img, r.Intersect(img.Bounds()), image.NewUniform(col), image.Point{}, draw.Src)
}

// StrokeRect outlines the rectangle.
func StrokeRect(img *image.RGBA, r image.Rectangle, width int, col color.Color) {
	ThickLine(img, r.Min.X, r.Min.Y, r.Max.X, r.Min.Y, width, col)
	ThickLine(img, r.Max.X, r.Min.Y, r.Max.X, r.Max.Y, width, col)
	ThickLine(img, r.Max.X, r.Max.Y, r.Min.X, r.Max.Y, width, col)
	ThickLine(img, r.Min.X, r.Max.Y, r.Min.X, r.Min.Y, width, col)
}

// Ellipse strokes the ellipse inscribed in the rectangle.
func Ellipse(img *image.RGBA, r image.Rectangle, width int, col color.Color) {
	cx := float64(r.Min.X+r.Max.X) / 2
	cy := float64(r.Min.Y+r.Max.Y) / 2
	rx := float64(r.Dx()) / 2
	ry := float64(r.Dy()) / 2
	if rx < 1 || ry < 1 {
		return
	}
	// Enough steps that adjacent samples are under a pixel apart.
	steps := int(2*math.Pi*math.Max(rx, ry)) + 8
	px := int(math.Round(cx + rx))
	py := int(math.Round(cy))
	for i := 1; i <= steps; i++ {
		a := 2 * math.Pi * float64(i) / float64(steps)
		x := int(math.Round(cx + rx*math.Cos(a)))
		y := int(math.Round(cy + ry*math.Sin(a)))
		ThickLine(img, px, py, x, y, width, col)
		px, py = x, y
	}
}

// Arrow draws a line with an arrowhead at (x1, y1). Head size scales with
// the stroke width.
func Arrow(img *image.RGBA, x0, y0, x1, y1 int, width int, col color.Color) {
	ThickLine(img, x0, y0, x1, y1, width, col)

	angle := math.Atan2(float64(y1-y0), float64(x1-x0))
	headLen := float64(8 + 3*width)
	spread := math.Pi / 7
	for _, a := range []float64{angle + math.Pi - spread, angle + math.Pi + spread} {
		hx := int(math.Round(float64(x1) + headLen*math.Cos(a)))
		hy := int(math.Round(float64(y1) + headLen*math.Sin(a)))
		ThickLine(img, x1, y1, hx, hy, width, col)
	}
}

// Text draws a string at the baseline point using the given face.
func Text(img *image.RGBA, s string, x, y int, face font.Face, col color.Color) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}

// OutlinedText draws the string with a one-pixel outline in the outline
// color, then fills with the fill color, keeping it legible over any
// background.
func OutlinedText(img *image.RGBA, s string, x, y int, face font.Face, fill, outline color.Color) {
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			Text(img, s, x+dx, y+dy, face, outline)
		}
	}
	Text(img, s, x, y, face, fill)
}
