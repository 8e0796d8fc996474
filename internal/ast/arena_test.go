package ast

import "testing"

func TestArena_OneBased(t *testing.T) {
	a := NewArena[int](0)
	if got := a.Get(0); got != nil {
		t.Fatalf("index 0 must be absent, got %v", *got)
	}
	first := a.Allocate(10)
	second := a.Allocate(20)
	if first != 1 || second != 2 {
		t.Fatalf("expected ids 1,2, got %d,%d", first, second)
	}
	if *a.Get(second) != 20 {
		t.Fatalf("unexpected value %d", *a.Get(second))
	}
	if a.Get(3) != nil {
		t.Fatalf("out of range index must be nil")
	}
	if a.Len() != 2 || len(a.Slice()) != 2 {
		t.Fatalf("expected len 2, got %d", a.Len())
	}
}

func TestStmtAccessorsCheckKind(t *testing.T) {
	b := NewBuilder(Hints{}, nil)
	ret := b.Stmts.NewReturn(span(0, 6), NoExprID)
	if _, ok := b.Stmts.Block(ret); ok {
		t.Fatalf("return statement must not read as block")
	}
	data, ok := b.Stmts.ExprData(ret)
	if !ok || data.Expr.IsValid() {
		t.Fatalf("expected empty return payload, got %+v ok=%v", data, ok)
	}
}

func TestNamesRoundTrip(t *testing.T) {
	for k := ExprReadonly; k <= ExprList; k++ {
		back, ok := ExprKindByName(k.String())
		if !ok || back != k {
			t.Fatalf("expr kind %d: name %q maps back to %d (ok=%v)", k, k.String(), back, ok)
		}
	}
	for op := ExprBinaryAdd; op <= ExprBinaryCoalesceAssign; op++ {
		back, ok := BinaryOpByName(op.String())
		if !ok || back != op {
			t.Fatalf("binary op %q does not round-trip", op.String())
		}
	}
	if !ExprBinaryConcatAssign.IsAssign() || ExprBinaryNullCoalescing.IsAssign() {
		t.Fatalf("IsAssign classification is wrong")
	}
}
