package eink

import "testing"

func TestArena_AllocRelease(t *testing.T) {
	var a arena
	e1, e2 := &Element{}, &Element{}

	h1 := a.alloc(e1)
	h2 := a.alloc(e2)
	if h1 == h2 {
		t.Fatalf("handles should differ, both %v", h1)
	}
	if got, ok := a.get(h1); !ok || got != e1 {
		t.Errorf("get(h1) = %v, %v, want e1, true", got, ok)
	}
	if a.len() != 2 {
		t.Errorf("len() = %d, want 2", a.len())
	}

	a.release(h1)
	if a.live(h1) {
		t.Error("h1 should be stale after release")
	}

	h3 := a.alloc(e1)
	if h3.index != h1.index {
		t.Errorf("slot not reused: got index %d, want %d", h3.index, h1.index)
	}
	if h3 == h1 || a.live(h1) {
		t.Error("reused slot must not revive the old handle")
	}
	if !a.live(h3) || !a.live(h2) {
		t.Error("h2 and h3 should be live")
	}
}

func TestArena_ZeroHandle(t *testing.T) {
	var a arena
	a.alloc(&Element{})
	if a.live(Handle{}) {
		t.Error("zero handle must never be live")
	}
	if !(Handle{}).IsZero() {
		t.Error("Handle{}.IsZero() = false")
	}
	a.release(Handle{index: 7, gen: 3})
	if a.len() != 1 {
		t.Errorf("releasing an unknown handle changed len to %d", a.len())
	}
}

func TestStack_HandlesGoStaleOnRemove(t *testing.T) {
	s, _, _ := newTestStack(t, 100, 100)
	child := solid(Black)
	root := NewLayout([]Row{R(Flex(), C(child, Flex()))}, WithArea(NewRect(0, 0, 100, 100)))

	if err := s.Add(root); err != nil {
		t.Fatalf("Add: %v", err)
	}
	rh, ch := root.Handle(), child.Handle()
	if rh.IsZero() || ch.IsZero() {
		t.Fatalf("attached elements should have handles, got %v %v", rh, ch)
	}
	if child.Parent() != root {
		t.Error("child.Parent() should be the layout")
	}
	if got, ok := s.Find(ch); !ok || got != child {
		t.Errorf("Find(child) = %v, %v", got, ok)
	}

	if err := s.Remove(root); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, ok := s.Find(rh); ok {
		t.Error("root handle should be stale")
	}
	if _, ok := s.Find(ch); ok {
		t.Error("child handle should be stale")
	}
	if !root.Handle().IsZero() || child.Stack() != nil {
		t.Error("removed elements should be detached")
	}

	if err := s.Add(root); err != nil {
		t.Fatalf("re-Add: %v", err)
	}
	if root.Handle() == rh {
		t.Error("re-attached element must get a fresh handle")
	}
}
