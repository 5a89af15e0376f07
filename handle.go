package eink

import "fmt"

// Handle identifies an element attached to a Stack. Handles are comparable;
// two handles are equal only if they name the same attachment. A handle
// goes stale when its element is removed, and stays stale if the element
// is attached again later.
type Handle struct {
	index uint32
	gen   uint32
}

// IsZero reports whether h was never issued.
func (h Handle) IsZero() bool {
	return h.gen == 0
}

func (h Handle) String() string {
	if h.IsZero() {
		return "handle(none)"
	}
	return fmt.Sprintf("handle(%d/%d)", h.index, h.gen)
}

type slot struct {
	gen  uint32
	elem *Element
}

// arena issues handles. Freed slots are reused with a bumped generation.
type arena struct {
	slots []slot
	free  []uint32
}

func (a *arena) alloc(e *Element) Handle {
	if n := len(a.free); n > 0 {
		idx := a.free[n-1]
		a.free = a.free[:n-1]
		a.slots[idx].elem = e
		return Handle{index: idx, gen: a.slots[idx].gen}
	}
	a.slots = append(a.slots, slot{gen: 1, elem: e})
	return Handle{index: uint32(len(a.slots) - 1), gen: 1}
}

func (a *arena) release(h Handle) {
	if !a.live(h) {
		return
	}
	s := &a.slots[h.index]
	s.elem = nil
	s.gen++
	if s.gen == 0 {
		s.gen = 1
	}
	a.free = append(a.free, h.index)
}

func (a *arena) live(h Handle) bool {
	if h.IsZero() || int(h.index) >= len(a.slots) {
		return false
	}
	s := a.slots[h.index]
	return s.gen == h.gen && s.elem != nil
}

func (a *arena) get(h Handle) (*Element, bool) {
	if !a.live(h) {
		return nil, false
	}
	return a.slots[h.index].elem, true
}

func (a *arena) len() int {
	return len(a.slots) - len(a.free)
}
