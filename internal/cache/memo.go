package cache

import "github.com/roach88/riposte/internal/combat"

// FrameMemo is the strict per-frame memoization tier: a single entry
// matching on exact input and frame stamp. A second distinct input in the
// same frame overwrites it; a new frame invalidates it implicitly.
type FrameMemo struct {
	input    combat.ActionID
	resolved combat.ActionID
	frame    combat.FrameStamp
	valid    bool
}

// Get returns the memoized resolution when both input and frame match.
func (m *FrameMemo) Get(input combat.ActionID, frame combat.FrameStamp) (combat.ActionID, bool) {
	if m.valid && m.input == input && m.frame == frame {
		return m.resolved, true
	}
	return 0, false
}

// Put records a resolution for this frame.
func (m *FrameMemo) Put(input, resolved combat.ActionID, frame combat.FrameStamp) {
	m.input = input
	m.resolved = resolved
	m.frame = frame
	m.valid = true
}

// Clear invalidates the memo.
func (m *FrameMemo) Clear() {
	m.valid = false
}
