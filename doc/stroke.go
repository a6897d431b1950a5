package doc

import "github.com/hauspek/reportkit/geo"

// StrokeKind tags a stroke as ink or erase.
type StrokeKind string

const (
	StrokeInk   StrokeKind = "ink"
	StrokeErase StrokeKind = "erase"
)

// Stroke is the point sequence from one continuous pointer-down-to-up
// gesture, in capture-surface pixel space. Strokes are immutable once
// committed.
type Stroke struct {
	Kind   StrokeKind  `json:"kind"`
	Points []geo.Point `json:"points"`
}

// Clone returns a deep copy. Committing always clones so later edits to a
// builder's point buffer cannot reach into the log.
func (s Stroke) Clone() Stroke {
	pts := make([]geo.Point, len(s.Points))
	copy(pts, s.Points)
	return Stroke{Kind: s.Kind, Points: pts}
}

// StrokeLog is an append-only sequence of committed strokes. Re-rendering
// at a new surface size replays the whole log; nothing is ever mutated in
// place.
type StrokeLog struct {
	Strokes []Stroke `json:"strokes"`
}

// Append commits a stroke to the log. Empty strokes are dropped.
func (l *StrokeLog) Append(s Stroke) {
	if len(s.Points) == 0 {
		return
	}
	l.Strokes = append(l.Strokes, s.Clone())
}

// Len returns the number of committed strokes.
func (l *StrokeLog) Len() int {
	if l == nil {
		return 0
	}
	return len(l.Strokes)
}
