package eink

// Invalidate marks the element as needing regeneration and passes the
// invalidation up through every enclosing element, so the next paint
// re-composites them. Propagation follows parent handles and therefore
// needs the element to be attached to a stack.
func (e *Element) Invalidate() {
	e.dirty = true
	e.invalidateParents()
}

// invalidateParents marks only the enclosing elements. Used when the
// element's own bitmap is still valid but the way it is composited
// changed, as with local inversion.
func (e *Element) invalidateParents() {
	for p := e.Parent(); p != nil; p = p.Parent() {
		p.dirty = true
	}
}
