// Package composite burns captured annotations into rendered pages. Two
// paths exist: replaying the stroke log segment-by-segment, or slicing a
// flattened raster snapshot of the whole annotation surface. Both are
// deterministic: identical inputs yield identical pixels.
package composite

import (
	"image"
	"image/color"
	"math"

	xdraw "golang.org/x/image/draw"

	"github.com/hauspek/reportkit/doc"
	"github.com/hauspek/reportkit/observability"
	"github.com/hauspek/reportkit/raster"
)

// Stroke widths in document units.
const (
	inkWidthDoc   = 0.9
	eraseWidthDoc = 6.0
)

var inkColor = color.RGBA{33, 37, 41, 255}

// eraseColor is fully opaque white: on the final document, erasing means
// clearing back to the page background.
var eraseColor = color.RGBA{255, 255, 255, 255}

// Surface describes the screen-space geometry the strokes were captured
// over: a vertical scroll of pages separated by a fixed gap.
type Surface struct {
	ContainerWidth float64 // page width on screen, px
	PageHeight     float64 // page height on screen, px
	Gap            float64 // inter-page gap, px
}

// Strokes maps every stroke segment from scroll space onto its page and
// draws it. Segments whose endpoints fall on different pages cannot cross
// the gap and are silently dropped. pages are the rendered page rasters;
// docPageWidth is the page width in document units and scale the raster's
// pixels per document unit. Returns the number of segments drawn.
func Strokes(pages []*image.RGBA, log *doc.StrokeLog, surf Surface, docPageWidth, scale float64, logger observability.Logger) int {
	if log == nil || len(pages) == 0 || surf.ContainerWidth <= 0 || surf.PageHeight <= 0 {
		return 0
	}
	if logger == nil {
		logger = observability.NopLogger{}
	}

	stride := surf.PageHeight + surf.Gap
	toDoc := docPageWidth / surf.ContainerWidth
	drawn, dropped := 0, 0

	for _, s := range log.Strokes {
		col := color.Color(inkColor)
		widthDoc := inkWidthDoc
		if s.Kind == doc.StrokeErase {
			col = eraseColor
			widthDoc = eraseWidthDoc
		}
		widthPx := int(math.Round(widthDoc * scale))
		if widthPx < 1 {
			widthPx = 1
		}

		for i := 1; i < len(s.Points); i++ {
			p0, p1 := s.Points[i-1], s.Points[i]
			page0 := int(math.Floor(p0.Y / stride))
			page1 := int(math.Floor(p1.Y / stride))
			if page0 != page1 {
				dropped++
				continue
			}
			if page0 < 0 || page0 >= len(pages) {
				dropped++
				continue
			}
			local0 := p0.Y - float64(page0)*stride
			local1 := p1.Y - float64(page0)*stride

			raster.ThickLine(pages[page0],
				int(math.Round(p0.X*toDoc*scale)), int(math.Round(local0*toDoc*scale)),
				int(math.Round(p1.X*toDoc*scale)), int(math.Round(local1*toDoc*scale)),
				widthPx, col)
			drawn++
		}
	}
	if dropped > 0 {
		logger.Debug("cross-page segments dropped", observability.Int("count", dropped))
	}
	logger.Debug("strokes composited", observability.Int(observability.MetricStrokesApplied, drawn))
	return drawn
}

// Snapshot describes a flattened raster of the whole scrollable
// annotation surface.
type Snapshot struct {
	Image            image.Image
	PageHeight       float64 // screen px per page
	Gap              float64 // screen px between pages
	CropX            float64 // content-width crop offset, screen px
	CropWidth        float64 // content width, screen px
	DevicePixelRatio float64
}

// FromSnapshot slices the snapshot into one crop per page, scales each
// slice to the page raster's width and composites it over the page.
func FromSnapshot(pages []*image.RGBA, snap Snapshot) {
	if snap.Image == nil || snap.PageHeight <= 0 || snap.CropWidth <= 0 {
		return
	}
	dpr := snap.DevicePixelRatio
	if dpr <= 0 {
		dpr = 1
	}
	stride := (snap.PageHeight + snap.Gap) * dpr
	pageHPx := snap.PageHeight * dpr
	x0 := int(math.Round(snap.CropX * dpr))
	x1 := int(math.Round((snap.CropX + snap.CropWidth) * dpr))

	for i, page := range pages {
		y0 := int(math.Round(float64(i) * stride))
		y1 := int(math.Round(float64(i)*stride + pageHPx))
		src := image.Rect(x0, y0, x1, y1).Intersect(snap.Image.Bounds())
		if src.Empty() {
			continue
		}
		xdraw.ApproxBiLinear.Scale(page, page.Bounds(), snap.Image, src, xdraw.Over, nil)
	}
}

