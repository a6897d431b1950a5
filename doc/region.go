package doc

import "github.com/hauspek/reportkit/geo"

// HitRegion is a rectangle in document units that responds to pointer
// input. Checkbox regions additionally record the rects of the text lines
// they govern, so a checked box can strike through exactly those lines at
// render time.
type HitRegion struct {
	ID        string     `json:"id"`
	Page      int        `json:"page"`
	Rect      geo.Rect   `json:"rect"`
	Kind      RegionKind `json:"kind"`
	LineRects []geo.Rect `json:"lineRects,omitempty"`
}

// Registry is the ordered set of hit regions produced by layout. Order is
// the layout walk order; hit testing relies on it to test checkboxes
// before photos.
type Registry struct {
	regions []HitRegion
	byID    map[string]int
}

// NewRegistry builds a registry from the given regions. Duplicate ids keep
// the first occurrence; layout guarantees uniqueness for well-formed
// content.
func NewRegistry(regions []HitRegion) *Registry {
	r := &Registry{regions: regions, byID: make(map[string]int, len(regions))}
	for i, reg := range regions {
		if _, ok := r.byID[reg.ID]; !ok {
			r.byID[reg.ID] = i
		}
	}
	return r
}

// Add appends a region during layout.
func (r *Registry) Add(reg HitRegion) {
	if r.byID == nil {
		r.byID = make(map[string]int)
	}
	if _, ok := r.byID[reg.ID]; ok {
		return
	}
	r.byID[reg.ID] = len(r.regions)
	r.regions = append(r.regions, reg)
}

// ByID returns the region with the given id, or nil.
func (r *Registry) ByID(id string) *HitRegion {
	if r == nil {
		return nil
	}
	i, ok := r.byID[id]
	if !ok {
		return nil
	}
	return &r.regions[i]
}

// All returns the regions in layout order.
func (r *Registry) All() []HitRegion {
	if r == nil {
		return nil
	}
	return r.regions
}

// Len returns the number of registered regions.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.regions)
}
