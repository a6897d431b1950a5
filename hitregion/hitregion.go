// Package hitregion resolves pointer input against the hit-region
// registry and toggles marks. It mutates only the caller-owned mark
// state, never the laid-out document.
package hitregion

import (
	"github.com/hauspek/reportkit/coords"
	"github.com/hauspek/reportkit/doc"
	"github.com/hauspek/reportkit/geo"
)

// checkboxTolerance pads checkbox rects during hit testing, in document
// units. Checkboxes are small targets; photos are not.
const checkboxTolerance = 1.5

// HitTest converts a screen-space point on the given page into document
// units and returns the first matching region, or nil. Checkbox regions
// are tested before photo regions so a checkbox near a photo edge wins.
func HitTest(reg *doc.Registry, pageIndex int, screen geo.Point, containerWidth, docPageWidth float64) *doc.HitRegion {
	if reg == nil || containerWidth <= 0 {
		return nil
	}
	p := coords.ScreenToDoc(screen, containerWidth, docPageWidth)
	all := reg.All()

	for _, kind := range []doc.RegionKind{doc.RegionCheckbox, doc.RegionPhoto} {
		pad := 0.0
		if kind == doc.RegionCheckbox {
			pad = checkboxTolerance
		}
		for i, r := range all {
			if r.Kind != kind || r.Page != pageIndex {
				continue
			}
			if r.Rect.Inset(-pad).Contains(p.X, p.Y) {
				return &all[i]
			}
		}
	}
	return nil
}

// Toggle flips the region's symbol in the mark state: applying it when
// absent, clearing it when present. Toggling twice restores the original
// state.
func Toggle(marks doc.MarkState, region *doc.HitRegion) {
	if marks == nil || region == nil {
		return
	}
	var sym doc.Symbol
	switch region.Kind {
	case doc.RegionCheckbox:
		sym = doc.SymbolCheck
	case doc.RegionPhoto:
		sym = doc.SymbolX
	default:
		return
	}
	if marks.Has(region.ID, sym) {
		marks.Remove(region.ID, sym)
	} else {
		marks.Apply(region.ID, sym)
	}
}
