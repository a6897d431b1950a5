// Package doc holds the data model shared by the layout, render and
// compositing stages: hit regions, mark state and stroke logs. Mark state
// and stroke logs are JSON-serializable; the host application owns their
// persistence and round-trips them through generation calls.
package doc

import (
	"encoding/json"
	"fmt"
	"sort"
)

// Kind selects which document variant is generated.
type Kind string

const (
	KindReport  Kind = "report"
	KindSignOff Kind = "signoff"
)

// Standard page geometry in document units (millimetres, A4).
const (
	PageWidth  = 210.0
	PageHeight = 297.0
)

// RegionKind distinguishes the two interactive region types.
type RegionKind string

const (
	RegionCheckbox RegionKind = "checkbox"
	RegionPhoto    RegionKind = "photo"
)

// Symbol is a mark a user can apply to a hit region.
type Symbol string

const (
	SymbolCheck Symbol = "check"
	SymbolX     Symbol = "x"
)

// Accepts reports whether a region kind admits the given symbol.
func (k RegionKind) Accepts(s Symbol) bool {
	switch k {
	case RegionCheckbox:
		return s == SymbolCheck
	case RegionPhoto:
		return s == SymbolX
	}
	return false
}

// CheckboxRegionID derives the stable region id for an issue's checkbox.
// Ids come from content identity, not render order, so marks survive
// regeneration.
func CheckboxRegionID(issueID string) string { return issueID }

// PhotoRegionID derives the stable region id for a photo thumbnail.
func PhotoRegionID(issueID string, photoIndex int) string {
	return fmt.Sprintf("%s/photo-%d", issueID, photoIndex)
}

// MarkState maps hit-region ids to the set of symbols applied to them.
// It is caller-owned and mutated only through Apply/Remove.
type MarkState map[string][]Symbol

// Has reports whether the symbol is applied to the region.
func (m MarkState) Has(id string, s Symbol) bool {
	for _, v := range m[id] {
		if v == s {
			return true
		}
	}
	return false
}

// Apply adds the symbol to the region. Applying an already-present symbol
// is a no-op.
func (m MarkState) Apply(id string, s Symbol) {
	if m.Has(id, s) {
		return
	}
	m[id] = append(m[id], s)
}

// Remove deletes the symbol from the region. Empty entries are dropped so
// serialized state stays minimal.
func (m MarkState) Remove(id string, s Symbol) {
	syms := m[id]
	for i, v := range syms {
		if v == s {
			syms = append(syms[:i], syms[i+1:]...)
			break
		}
	}
	if len(syms) == 0 {
		delete(m, id)
	} else {
		m[id] = syms
	}
}

// Prune drops entries whose id is not present in the registry. The engine
// calls this before burning marks in, so stale ids from deleted content
// never produce orphan glyphs.
func (m MarkState) Prune(reg *Registry) {
	for id := range m {
		if reg.ByID(id) == nil {
			delete(m, id)
		}
	}
}

// MarshalJSON emits keys in sorted order so serialized state is stable.
func (m MarkState) MarshalJSON() ([]byte, error) {
	ids := make([]string, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	buf := []byte{'{'}
	for i, id := range ids {
		if i > 0 {
			buf = append(buf, ',')
		}
		k, err := json.Marshal(id)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(m[id])
		if err != nil {
			return nil, err
		}
		buf = append(buf, k...)
		buf = append(buf, ':')
		buf = append(buf, v...)
	}
	return append(buf, '}'), nil
}
