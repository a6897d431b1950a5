// Package content defines the structured input the engine lays out. The
// surrounding application assembles these records from its own storage and
// hands them over per generation request; the engine never mutates them.
package content

import (
	"encoding/json"
	"sort"
	"strings"
)

// NotesLocationName marks the free-form notes section. It always sorts
// after every regular location regardless of name order.
const NotesLocationName = "Notes"

// LabeledField is one line of project metadata (address, builder, date...)
// rendered into the summary card.
type LabeledField struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Photo is an image attached to an issue.
type Photo struct {
	URL     string `json:"url"`
	Caption string `json:"caption,omitempty"`
}

// Issue is one inspection finding. ID must be stable across regenerations;
// hit-region ids derive from it.
type Issue struct {
	ID          string  `json:"id"`
	Description string  `json:"description"`
	Photos      []Photo `json:"photos,omitempty"`
}

// Location groups issues under a named area of the property.
type Location struct {
	Name   string  `json:"name"`
	Issues []Issue `json:"issues"`
}

// Content is the full input for one generation request.
type Content struct {
	Project   string         `json:"project"`
	Fields    []LabeledField `json:"fields,omitempty"`
	Locations []Location     `json:"locations"`
}

// Parse decodes content JSON.
func Parse(data []byte) (*Content, error) {
	var c Content
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// SortedLocations returns the locations in layout walk order: input order
// preserved, except the notes location always comes last.
func (c *Content) SortedLocations() []Location {
	out := make([]Location, len(c.Locations))
	copy(out, c.Locations)
	sort.SliceStable(out, func(i, j int) bool {
		ni := strings.EqualFold(out[i].Name, NotesLocationName)
		nj := strings.EqualFold(out[j].Name, NotesLocationName)
		return !ni && nj
	})
	return out
}

// IsNotes reports whether the location is the designated notes section.
func (l Location) IsNotes() bool {
	return strings.EqualFold(l.Name, NotesLocationName)
}
