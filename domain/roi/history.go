package roi

// History is a linear undo/redo stack of scene snapshots. Index is -1 when
// empty and otherwise points at the snapshot matching the current scene.
type History struct {
	snaps []Snapshot
	index int
	limit int
}

// NewHistory returns an empty stack. A positive limit caps the number of
// snapshots kept; the oldest ones are dropped first.
func NewHistory(limit int) *History {
	return &History{index: -1, limit: limit}
}

// Push appends s, discarding any redo branch after the current index.
func (h *History) Push(s Snapshot) {
	if h.index < len(h.snaps)-1 {
		h.snaps = h.snaps[:h.index+1]
	}
	h.snaps = append(h.snaps, s)
	if h.limit > 0 && len(h.snaps) > h.limit {
		h.snaps = h.snaps[len(h.snaps)-h.limit:]
	}
	h.index = len(h.snaps) - 1
}

// At returns the snapshot at i.
func (h *History) At(i int) (Snapshot, bool) {
	if i < 0 || i >= len(h.snaps) {
		return nil, false
	}
	return h.snaps[i], true
}

// Seek moves the index to i. Out-of-range values are ignored.
func (h *History) Seek(i int) bool {
	if i < 0 || i >= len(h.snaps) {
		return false
	}
	h.index = i
	return true
}

func (h *History) CanUndo() bool { return h.index > 0 }
func (h *History) CanRedo() bool { return h.index < len(h.snaps)-1 }
func (h *History) Index() int    { return h.index }
func (h *History) Len() int      { return len(h.snaps) }

// Size is the total number of snapshot bytes held.
func (h *History) Size() int {
	n := 0
	for _, s := range h.snaps {
		n += len(s)
	}
	return n
}

// Reset empties the stack.
func (h *History) Reset() {
	h.snaps = nil
	h.index = -1
}
