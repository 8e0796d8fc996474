package readonly

import (
	"testing"

	"rocheck/internal/ast"
)

func TestClassify(t *testing.T) {
	f := newTestBuilder(t)
	ctx := NewContext(Mutable, Readonly)
	ctx.Record(f.intern("$r"), Binding{Mutability: Readonly})
	ctx.Record(f.intern("$m"), Binding{Mutability: Mutable})
	cl := Classifier{Exprs: f.b.Exprs, Interner: f.b.StringsInterner}

	r := func() ast.ExprID { return f.lvar("$r") }
	m := func() ast.ExprID { return f.lvar("$m") }
	e := f.b.Exprs
	sp := f.sp

	cases := []struct {
		name string
		expr ast.ExprID
		want Mutability
	}{
		{"explicit wrapper", f.ro(f.lit()), Readonly},
		{"readonly local", r(), Readonly},
		{"mutable local", m(), Mutable},
		{"unknown local", f.lvar("$u"), Mutable},
		{"this node", f.this(), Readonly},
		{"this local", f.lvar("$this"), Readonly},
		{"member of readonly", f.prop(r(), "p"), Readonly},
		{"member of mutable", f.prop(m(), "p"), Mutable},
		{"index of readonly", f.index(r(), f.lit()), Readonly},
		{"vec join", f.vec(m(), r()), Readonly},
		{"vec mutable", f.vec(m(), f.lit()), Mutable},
		{"dict values", f.dict(m(), r()), Readonly},
		{"dict keys ignored", e.NewFields(ast.ExprShape, sp(), 0, []ast.ExprField{{Key: r(), Value: m()}}), Mutable},
		{"tuple", e.NewList(ast.ExprTuple, sp(), 0, []ast.ExprID{r()}), Readonly},
		{"keyset", e.NewList(ast.ExprValCollection, sp(), 0, []ast.ExprID{r()}), Readonly},
		{"map", e.NewFields(ast.ExprKeyValCollection, sp(), 0, []ast.ExprField{{Key: f.lit(), Value: r()}}), Readonly},
		{"collection value only", e.NewFields(ast.ExprCollection, sp(), 0, []ast.ExprField{{Value: r()}}), Readonly},
		{"record", e.NewFields(ast.ExprRecord, sp(), 0, []ast.ExprField{{Key: f.lit(), Value: r()}}), Readonly},
		{"pair", e.NewPair(ast.ExprPair, sp(), m(), r()), Readonly},
		{"ternary else", f.tern(m(), m(), r()), Readonly},
		{"ternary both mutable", f.tern(r(), m(), m()), Mutable},
		{"elvis uses else only", f.tern(r(), ast.NoExprID, m()), Mutable},
		{"as", e.NewTypeTest(ast.ExprAs, sp(), r(), 0, false), Readonly},
		{"await", e.NewWrap(ast.ExprAwait, sp(), r()), Readonly},
		{"hole", e.NewWrap(ast.ExprHole, sp(), r()), Readonly},
		{"inout", e.NewWrap(ast.ExprInout, sp(), r()), Readonly},
		{"is", e.NewTypeTest(ast.ExprIs, sp(), r(), 0, false), Mutable},
		{"cast", e.NewTypeTest(ast.ExprCast, sp(), r(), 0, false), Mutable},
		{"clone", e.NewWrap(ast.ExprClone, sp(), r()), Mutable},
		{"yield", e.NewWrap(ast.ExprYield, sp(), r()), Mutable},
		{"call", f.call("f", r()), Mutable},
		{"new", f.newObj("C", r()), Mutable},
		{"binary", e.NewBinary(sp(), ast.ExprBinaryAdd, r(), r()), Mutable},
		{"unary", e.NewUnary(sp(), ast.ExprUnaryNot, r()), Mutable},
		{"pipe", e.NewPair(ast.ExprPipe, sp(), r(), e.NewPlaceholder(sp())), Mutable},
		{"class const", e.NewClassRef(ast.ExprClassConst, sp(), 0, 0), Mutable},
		{"list destructuring", e.NewList(ast.ExprList, sp(), 0, []ast.ExprID{r()}), Mutable},
		{"lambda", e.NewLambda(sp(), nil, ast.NoStmtID), Mutable},
		{"function pointer", e.NewName(ast.ExprFunPtr, sp(), f.intern("f")), Mutable},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := cl.Classify(tc.expr, ctx); got != tc.want {
				t.Fatalf("got %s, want %s", got, tc.want)
			}
		})
	}
}

func TestClassify_DoesNotMutate(t *testing.T) {
	f := newTestBuilder(t)
	ctx := NewContext(Mutable, Mutable)
	cl := Classifier{Exprs: f.b.Exprs, Interner: f.b.StringsInterner}
	x := f.vec(f.ro(f.lvar("$x")))
	size := f.b.Exprs.Arena.Len()
	cl.Classify(x, ctx)
	if f.b.Exprs.Arena.Len() != size || ctx.Len() != 0 {
		t.Fatalf("classification must be read-only")
	}
}
