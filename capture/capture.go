// Package capture is the pointer/gesture state machine that turns raw
// pointer events over rendered pages into an ordered stroke log. It
// replaces scattered boolean flags with one explicit machine: at any
// instant at most one of inking, erasing or panning is active.
package capture

import (
	"github.com/hauspek/reportkit/doc"
	"github.com/hauspek/reportkit/geo"
	"github.com/hauspek/reportkit/observability"
)

// State is the machine's current mode.
type State int

const (
	StateIdle State = iota
	StateInking
	StateErasing
	StatePanning
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateInking:
		return "inking"
	case StateErasing:
		return "erasing"
	case StatePanning:
		return "panning"
	}
	return "unknown"
}

// PointerKind is the input device class reported with a pointer-down.
type PointerKind int

const (
	KindPen PointerKind = iota
	KindMouse
	KindTouch
)

// ScrollFunc receives container scroll deltas from panning and wheel
// events.
type ScrollFunc func(dx, dy float64)

type pointer struct {
	kind PointerKind
	last geo.Point
}

// Machine consumes pointer events and appends committed strokes to the
// log. Event handling is serialized by the caller's event loop; the
// machine itself keeps no locks.
type Machine struct {
	state    State
	pointers map[int]pointer
	drawID   int // pointer id currently drawing, valid in Inking/Erasing

	stroke doc.Stroke // in-progress stroke
	log    *doc.StrokeLog

	lastCentroid geo.Point

	scroll ScrollFunc
	logger observability.Logger
}

// Option configures the machine.
type Option func(*Machine)

// WithScroll installs the scroll sink for panning and wheel events.
func WithScroll(fn ScrollFunc) Option {
	return func(m *Machine) { m.scroll = fn }
}

// WithLogger installs a logger.
func WithLogger(l observability.Logger) Option {
	return func(m *Machine) { m.logger = l }
}

// NewMachine creates a machine appending to the given log.
func NewMachine(log *doc.StrokeLog, opts ...Option) *Machine {
	m := &Machine{
		pointers: make(map[int]pointer),
		log:      log,
		scroll:   func(float64, float64) {},
		logger:   observability.NopLogger{},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// State returns the current state.
func (m *Machine) State() State { return m.state }

// Log returns the stroke log the machine appends to.
func (m *Machine) Log() *doc.StrokeLog { return m.log }

func (m *Machine) touchCount() int {
	n := 0
	for _, p := range m.pointers {
		if p.kind == KindTouch {
			n++
		}
	}
	return n
}

// commit finalizes the in-progress stroke, if any, into the log.
func (m *Machine) commit() {
	if len(m.stroke.Points) > 0 {
		m.log.Append(m.stroke)
		m.logger.Debug("stroke committed",
			observability.String("kind", string(m.stroke.Kind)),
			observability.Int("points", len(m.stroke.Points)))
	}
	m.stroke = doc.Stroke{}
}

func (m *Machine) begin(kind doc.StrokeKind, id int, pos geo.Point) {
	m.stroke = doc.Stroke{Kind: kind, Points: []geo.Point{pos}}
	m.drawID = id
}

// PointerDown feeds a pointer-down event.
func (m *Machine) PointerDown(id int, kind PointerKind, pos geo.Point) {
	firstTouch := kind == KindTouch && m.touchCount() == 0
	m.pointers[id] = pointer{kind: kind, last: pos}

	// Two active touch pointers always means panning, whatever was in
	// progress; the pending stroke commits first so nothing is dropped.
	if m.touchCount() >= 2 {
		m.commit()
		m.state = StatePanning
		m.lastCentroid = m.centroid()
		return
	}

	switch m.state {
	case StateIdle:
		switch {
		case kind == KindPen || kind == KindMouse:
			if len(m.pointers) == 1 {
				m.state = StateInking
				m.begin(doc.StrokeInk, id, pos)
			}
		case firstTouch:
			m.state = StateErasing
			m.begin(doc.StrokeErase, id, pos)
		}
	case StateInking, StateErasing:
		if firstTouch {
			m.commit()
			m.state = StateErasing
			m.begin(doc.StrokeErase, id, pos)
		}
	}
}

// PointerMove feeds a pointer-move event.
func (m *Machine) PointerMove(id int, pos geo.Point) {
	p, ok := m.pointers[id]
	if !ok {
		return
	}
	p.last = pos
	m.pointers[id] = p

	switch m.state {
	case StateInking, StateErasing:
		if id == m.drawID {
			m.stroke.Points = append(m.stroke.Points, pos)
		}
	case StatePanning:
		c := m.centroid()
		m.scroll(c.X-m.lastCentroid.X, c.Y-m.lastCentroid.Y)
		m.lastCentroid = c
	}
}

// PointerUp feeds a pointer-up event. An unknown id clears defensively
// and re-evaluates state instead of failing.
func (m *Machine) PointerUp(id int) {
	if _, ok := m.pointers[id]; !ok {
		m.logger.Warn("pointer-up for unknown pointer", observability.Int("id", id))
		m.reevaluate()
		return
	}
	wasDrawing := (m.state == StateInking || m.state == StateErasing) && id == m.drawID
	delete(m.pointers, id)

	switch {
	case m.state == StatePanning && len(m.pointers) < 2:
		// Panning never emits a stroke.
		m.state = StateIdle
	case wasDrawing:
		m.commit()
		m.state = StateIdle
	}
}

// Wheel feeds a wheel event. It always maps to container scroll and never
// touches stroke state.
func (m *Machine) Wheel(dx, dy float64) {
	m.scroll(dx, dy)
}

// reevaluate resets state to match the active pointer set after an
// inconsistency.
func (m *Machine) reevaluate() {
	switch {
	case m.touchCount() >= 2:
		m.state = StatePanning
		m.lastCentroid = m.centroid()
	case len(m.pointers) == 0:
		m.commit()
		m.state = StateIdle
	}
}

// centroid averages the active touch pointer positions.
func (m *Machine) centroid() geo.Point {
	var sum geo.Point
	n := 0
	for _, p := range m.pointers {
		if p.kind == KindTouch {
			sum.X += p.last.X
			sum.Y += p.last.Y
			n++
		}
	}
	if n == 0 {
		return sum
	}
	return geo.Point{X: sum.X / float64(n), Y: sum.Y / float64(n)}
}
