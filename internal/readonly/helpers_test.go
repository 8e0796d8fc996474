package readonly

import (
	"slices"
	"testing"

	"rocheck/internal/ast"
	"rocheck/internal/diag"
	"rocheck/internal/source"
)

type fixture struct {
	t    *testing.T
	b    *ast.Builder
	file ast.FileID
	pos  uint32
}

func newTestBuilder(t *testing.T) *fixture {
	t.Helper()
	b := ast.NewBuilder(ast.Hints{}, source.NewInterner())
	file := b.NewFile(source.Span{File: 1})
	return &fixture{t: t, b: b, file: file}
}

// sp hands out distinct spans so diagnostics can be told apart.
func (f *fixture) sp() source.Span {
	s := source.Span{File: 1, Start: f.pos, End: f.pos + 4}
	f.pos += 5
	return s
}

func (f *fixture) intern(s string) source.StringID { return f.b.Intern(s) }

func (f *fixture) lvar(name string) ast.ExprID { return f.b.Exprs.NewLvar(f.sp(), f.intern(name)) }
func (f *fixture) this() ast.ExprID { return f.b.Exprs.NewThis(f.sp()) }
func (f *fixture) ro(e ast.ExprID) ast.ExprID { return f.b.Exprs.NewReadonly(f.sp(), e) }
func (f *fixture) lit() ast.ExprID {
	return f.b.Exprs.NewLiteral(f.sp(), ast.ExprLitInt, f.intern("1"))
}

func (f *fixture) prop(target ast.ExprID, member string) ast.ExprID {
	return f.b.Exprs.NewObjGet(f.sp(), target, f.intern(member), false)
}

func (f *fixture) index(target, idx ast.ExprID) ast.ExprID {
	return f.b.Exprs.NewArrayGet(f.sp(), target, idx)
}

func (f *fixture) assign(l, r ast.ExprID) ast.ExprID { return f.b.Exprs.NewAssign(f.sp(), l, r) }

func (f *fixture) compound(op ast.ExprBinaryOp, l, r ast.ExprID) ast.ExprID {
	return f.b.Exprs.NewBinary(f.sp(), op, l, r)
}

func (f *fixture) call(name string, args ...ast.ExprID) ast.ExprID {
	callee := f.b.Exprs.NewName(ast.ExprId, f.sp(), f.intern(name))
	return f.b.Exprs.NewCall(f.sp(), callee, args)
}

func (f *fixture) newObj(class string, args ...ast.ExprID) ast.ExprID {
	callee := f.b.Exprs.NewName(ast.ExprId, f.sp(), f.intern(class))
	return f.b.Exprs.NewNew(f.sp(), callee, args)
}

func (f *fixture) vec(elems ...ast.ExprID) ast.ExprID {
	return f.b.Exprs.NewList(ast.ExprVarray, f.sp(), f.intern("vec"), elems)
}

func (f *fixture) dict(values ...ast.ExprID) ast.ExprID {
	fields := make([]ast.ExprField, 0, len(values))
	for _, v := range values {
		fields = append(fields, ast.ExprField{Key: f.lit(), Value: v})
	}
	return f.b.Exprs.NewFields(ast.ExprDarray, f.sp(), f.intern("dict"), fields)
}

func (f *fixture) tern(cond, then, els ast.ExprID) ast.ExprID {
	return f.b.Exprs.NewTernary(f.sp(), cond, then, els)
}

func (f *fixture) stmt(e ast.ExprID) ast.StmtID { return f.b.Stmts.NewExpr(f.sp(), e) }
func (f *fixture) ret(e ast.ExprID) ast.StmtID { return f.b.Stmts.NewReturn(f.sp(), e) }
func (f *fixture) block(s ...ast.StmtID) ast.StmtID { return f.b.Stmts.NewBlock(f.sp(), s) }

func (f *fixture) param(name string, readonly bool) ast.ParamID {
	return f.b.Items.NewParam(f.sp(), f.intern(name), readonly)
}

type funOpts struct {
	params         []ast.ParamID
	readonlyReturn bool
}

func (f *fixture) addFunction(name string, opts funOpts, body ...ast.StmtID) ast.ItemID {
	item := f.b.Items.NewFun(ast.FunItem{
		Name:           f.intern(name),
		Params:         opts.params,
		ReadonlyReturn: opts.readonlyReturn,
		Body:           f.block(body...),
		Span:           f.sp(),
	})
	f.b.PushItem(f.file, item)
	return item
}

func (f *fixture) method(name string, readonlyThis, readonlyReturn bool, params []ast.ParamID, body ...ast.StmtID) ast.MethodID {
	return f.b.Items.NewMethod(ast.MethodDecl{
		Name:           f.intern(name),
		Params:         params,
		ReadonlyReturn: readonlyReturn,
		ReadonlyThis:   readonlyThis,
		Body:           f.block(body...),
		Span:           f.sp(),
	})
}

func (f *fixture) addClass(name string, methods ...ast.MethodID) ast.ItemID {
	item := f.b.Items.NewClass(f.sp(), f.intern(name), methods)
	f.b.PushItem(f.file, item)
	return item
}

func (f *fixture) addTopStmt(s ast.StmtID) {
	f.b.PushItem(f.file, f.b.Items.NewStmtItem(f.sp(), s))
}

func (f *fixture) span(e ast.ExprID) source.Span { return f.b.Exprs.Get(e).Span }

func (f *fixture) kind(e ast.ExprID) ast.ExprKind { return f.b.Exprs.Get(e).Kind }

func runCheck(f *fixture) ([]diag.Diagnostic, Result) {
	f.t.Helper()
	bag := diag.NewBag(0)
	res := Check(f.t.Context(), f.b, f.file, Options{Reporter: diag.BagReporter{Bag: bag}})
	return bag.Items(), res
}

func diagCodes(diags []diag.Diagnostic) []diag.Code {
	out := make([]diag.Code, 0, len(diags))
	for _, d := range diags {
		out = append(out, d.Code)
	}
	return out
}

func hasCode(diags []diag.Diagnostic, code diag.Code) bool {
	return slices.Contains(diagCodes(diags), code)
}

func expectCodes(t *testing.T, diags []diag.Diagnostic, want ...diag.Code) {
	t.Helper()
	if got := diagCodes(diags); !slices.Equal(got, want) {
		t.Fatalf("diagnostics: want %v, got %v (%+v)", want, got, diags)
	}
}
