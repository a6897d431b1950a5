package capture

import (
	"image"
	"image/color"
	"math"

	"github.com/hauspek/reportkit/doc"
	"github.com/hauspek/reportkit/raster"
)

// Stroke widths on the capture surface, in pixels at scale 1.
const (
	inkWidth   = 3
	eraseWidth = 24
)

var inkColor = color.RGBA{33, 37, 41, 255}

// Replay draws the full stroke log onto a fresh transparent surface of
// the given size. After a resize the live overlay is rebuilt this way
// from the log, never scaled up from a stale rasterization. scale is the
// ratio of the new surface width to the capture-time surface width.
func Replay(log *doc.StrokeLog, size image.Point, scale float64) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size.X, size.Y))
	if log == nil {
		return img
	}
	for _, s := range log.Strokes {
		col := color.Color(inkColor)
		width := int(math.Round(inkWidth * scale))
		if s.Kind == doc.StrokeErase {
			// Erase clears overlay pixels back to transparent.
			col = color.RGBA{}
			width = int(math.Round(eraseWidth * scale))
		}
		for i := 1; i < len(s.Points); i++ {
			p0, p1 := s.Points[i-1], s.Points[i]
			raster.ThickLine(img,
				int(math.Round(p0.X*scale)), int(math.Round(p0.Y*scale)),
				int(math.Round(p1.X*scale)), int(math.Round(p1.Y*scale)),
				width, col)
		}
	}
	return img
}
