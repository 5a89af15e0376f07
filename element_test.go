package eink

import (
	"bytes"
	"errors"
	"testing"
)

func TestElement_GenerateIsIdempotent(t *testing.T) {
	type tc struct {
		elem *Element
	}

	tests := map[string]tc{
		"rectangle": {elem: NewRectangle(Style{Background: Gray(8), Radius: 6})},
		"button":    {elem: NewButton("Hello world", WithStyle(Style{FontSize: Px(14)}))},
		"line":      {elem: NewLine(Line{Width: 3, Vertical: true})},
		"layout": {elem: NewLayout([]Row{
			R(Flex(), C(solid(Black), Flex()), Gap(Px(10)), C(NewButton("x"), Expr("w/3"))),
			R(Expr("?*2"), C(solid(Gray(4)), Flex())),
		})},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			area := NewRect(10, 20, 120, 80)
			first, err := tt.elem.GenerateAt(area)
			if err != nil {
				t.Fatalf("first generate: %v", err)
			}
			want := bytes.Clone(first.Pix)

			second, err := tt.elem.GenerateAt(area)
			if err != nil {
				t.Fatalf("second generate: %v", err)
			}
			if second != first {
				t.Error("unchanged element should return its cached bitmap")
			}

			tt.elem.Invalidate()
			third, err := tt.elem.Generate()
			if err != nil {
				t.Fatalf("regenerate: %v", err)
			}
			if !bytes.Equal(third.Pix, want) {
				t.Error("regenerating with the same inputs should be bit-identical")
			}
			if b := third.Bounds(); b.Dx() != area.Width || b.Dy() != area.Height {
				t.Errorf("bitmap is %dx%d, want %dx%d", b.Dx(), b.Dy(), area.Width, area.Height)
			}
		})
	}
}

func TestElement_GenerateWithoutArea(t *testing.T) {
	_, err := solid(Black).Generate()
	if !errors.Is(err, ErrNoArea) {
		t.Errorf("Generate() error = %v, want ErrNoArea", err)
	}
}

func TestElement_SetAreaInvalidates(t *testing.T) {
	e := solid(Black, WithArea(NewRect(0, 0, 10, 10)))
	if _, err := e.Generate(); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if e.Dirty() {
		t.Fatal("generated element should be clean")
	}

	e.SetArea(NewRect(0, 0, 10, 10))
	if e.Dirty() {
		t.Error("setting the same area should keep the cache")
	}
	e.SetArea(NewRect(5, 5, 20, 10))
	if !e.Dirty() {
		t.Error("moving the element should invalidate it")
	}
	img, err := e.Generate()
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if img.Bounds().Dx() != 20 {
		t.Errorf("width = %d, want 20", img.Bounds().Dx())
	}
}

func TestElement_InvalidatePropagatesToParents(t *testing.T) {
	s, _, _ := newTestStack(t, 100, 100)
	leaf := solid(Black)
	inner := NewLayout([]Row{R(Flex(), C(leaf, Flex()))})
	outer := NewLayout([]Row{R(Flex(), C(inner, Flex()))}, WithArea(NewRect(0, 0, 100, 100)))
	if err := s.Add(outer); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if outer.Dirty() || inner.Dirty() || leaf.Dirty() {
		t.Fatal("all elements should be clean after Add")
	}

	leaf.Invalidate()
	if !leaf.Dirty() || !inner.Dirty() || !outer.Dirty() {
		t.Errorf("dirty = leaf:%v inner:%v outer:%v, want all true", leaf.Dirty(), inner.Dirty(), outer.Dirty())
	}
}

func TestElement_DimensionErrorSurfaces(t *testing.T) {
	s, _, _ := newTestStack(t, 100, 100)
	bad := NewLayout([]Row{R(Expr("W/"), C(solid(Black), Flex()))}, WithArea(NewRect(0, 0, 100, 100)))

	err := s.Add(bad)
	var de *DimensionError
	if !errors.As(err, &de) {
		t.Fatalf("Add() error = %v, want *DimensionError", err)
	}
	if !errors.Is(err, ErrDimension) {
		t.Error("error should match ErrDimension")
	}
	if s.Level(bad) >= 0 {
		t.Error("element that failed to generate should not stay on the stack")
	}
}
