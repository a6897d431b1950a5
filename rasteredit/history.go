package rasteredit

import "image"

// DefaultHistoryCapacity bounds how many past states an editing session
// retains.
const DefaultHistoryCapacity = 15

// History is a bounded window of full-frame snapshots with a cursor. The
// entry at the cursor is the current state; entries before it are the
// undo past, entries after it the redo future. The window holds at most
// capacity past states plus the current one; committing beyond that
// evicts the oldest entry.
type History struct {
	capacity int
	states   []*image.RGBA
	cursor   int
}

// NewHistory creates a history seeded with the initial state.
func NewHistory(capacity int, initial *image.RGBA) *History {
	if capacity <= 0 {
		capacity = DefaultHistoryCapacity
	}
	return &History{capacity: capacity, states: []*image.RGBA{cloneRGBA(initial)}}
}

// Reset discards everything and reseeds with the given state. Loading a
// new image into a session goes through here so history never leaks
// across image swaps.
func (h *History) Reset(initial *image.RGBA) {
	h.states = []*image.RGBA{cloneRGBA(initial)}
	h.cursor = 0
}

// Commit records a new current state: any redo branch beyond the cursor
// is truncated, the snapshot is pushed, and the oldest entry is evicted
// once the window is full.
func (h *History) Commit(state *image.RGBA) {
	h.states = append(h.states[:h.cursor+1], cloneRGBA(state))
	if len(h.states) > h.capacity+1 {
		h.states = h.states[1:]
	}
	h.cursor = len(h.states) - 1
}

// CanUndo reports whether a past state is available.
func (h *History) CanUndo() bool { return h.cursor > 0 }

// CanRedo reports whether an undone state is available.
func (h *History) CanRedo() bool { return h.cursor < len(h.states)-1 }

// Undo moves the cursor back and returns the restored snapshot. No new
// entry is allocated; the caller must not mutate the returned image.
func (h *History) Undo() (*image.RGBA, bool) {
	if !h.CanUndo() {
		return nil, false
	}
	h.cursor--
	return h.states[h.cursor], true
}

// Redo moves the cursor forward and returns the restored snapshot.
func (h *History) Redo() (*image.RGBA, bool) {
	if !h.CanRedo() {
		return nil, false
	}
	h.cursor++
	return h.states[h.cursor], true
}

// Len returns the number of retained snapshots.
func (h *History) Len() int { return len(h.states) }

func cloneRGBA(src *image.RGBA) *image.RGBA {
	dst := image.NewRGBA(src.Bounds())
	copy(dst.Pix, src.Pix)
	return dst
}
