package ast

import (
	"testing"

	"rocheck/internal/source"
)

func span(start, end uint32) source.Span {
	return source.Span{File: 1, Start: start, End: end}
}

func TestWrapReadonly_KeepsParentLinks(t *testing.T) {
	b := NewBuilder(Hints{}, nil)
	x := b.Exprs.NewLvar(span(0, 2), b.Intern("$x"))
	prop := b.Exprs.NewObjGet(span(0, 7), x, b.Intern("prop"), false)
	call := b.Exprs.NewCall(span(0, 11), b.Exprs.NewName(ExprId, span(0, 1), b.Intern("f")), []ExprID{prop})

	inner, wrapped := b.Exprs.WrapReadonly(prop)
	if !wrapped {
		t.Fatalf("expected wrapper to be inserted")
	}
	data, _ := b.Exprs.Call(call)
	if data.Args[0] != prop {
		t.Fatalf("parent must keep the original id")
	}
	wrapper := b.Exprs.Get(prop)
	if wrapper.Kind != ExprReadonly || wrapper.Flags&ExprSynthetic == 0 {
		t.Fatalf("slot must hold a synthetic readonly wrapper, got %v", wrapper.Kind)
	}
	if wrapper.Span != span(0, 7) {
		t.Fatalf("wrapper must keep the span, got %v", wrapper.Span)
	}
	w, _ := b.Exprs.Wrap(prop)
	if w.Inner != inner {
		t.Fatalf("wrapper must point at moved node")
	}
	moved, ok := b.Exprs.ObjGet(inner)
	if !ok || moved.Target != x {
		t.Fatalf("moved node lost its payload")
	}
}

func TestWrapReadonly_Idempotent(t *testing.T) {
	b := NewBuilder(Hints{}, nil)
	x := b.Exprs.NewLvar(span(0, 2), b.Intern("$x"))
	first, ok := b.Exprs.WrapReadonly(x)
	if !ok {
		t.Fatalf("first wrap must succeed")
	}
	count := b.Exprs.Arena.Len()
	second, ok := b.Exprs.WrapReadonly(x)
	if ok {
		t.Fatalf("second wrap must be a no-op")
	}
	if second != first || b.Exprs.Arena.Len() != count {
		t.Fatalf("second wrap allocated or changed the inner node")
	}
}

func TestWrapReadonly_Invalid(t *testing.T) {
	b := NewBuilder(Hints{}, nil)
	if id, ok := b.Exprs.WrapReadonly(NoExprID); ok || id.IsValid() {
		t.Fatalf("wrapping an absent node must fail")
	}
}
