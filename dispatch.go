package eink

// Dispatch routes a tap to the topmost element containing (x, y) and
// returns the element that received it, or nil when nothing was hit.
//
// The first top-level element containing the point ends the search even
// if it has no click behavior. Containers are searched recursively
// through their Hit method: a container's own handler runs first, then
// the tap moves to the child it returned. The final element is inverted
// if it asked for click inversion, then its built-in click behavior and
// its handler run.
func (s *Stack) Dispatch(x, y int) *Element {
	for i := len(s.elems) - 1; i >= 0; i-- {
		e := s.elems[i]
		if !e.hasArea || !e.area.Contains(x, y) {
			continue
		}
		return s.dispatchTo(e, x, y)
	}
	return nil
}

func (s *Stack) dispatchTo(e *Element, x, y int) *Element {
	for {
		c, ok := e.kind.(Container)
		if !ok {
			break
		}
		if e.onClick != nil {
			e.onClick(e, x, y)
			if !s.arena.live(e.handle) {
				return e
			}
		}
		child := c.Hit(x, y)
		if child == nil || !s.arena.live(child.handle) {
			return e
		}
		e = child
	}

	if e.invertOnClick {
		if err := s.InvertElement(e, e.invertDuration); err != nil {
			s.log.Warnf("invert %s on click: %v", e.handle, err)
		}
	}
	if k, ok := e.kind.(clicker); ok {
		k.click(s, e, x, y)
	}
	if e.onClick != nil {
		e.onClick(e, x, y)
	}
	return e
}
