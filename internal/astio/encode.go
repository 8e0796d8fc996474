package astio

import (
	"fmt"

	"rocheck/internal/ast"
)

// Encode converts the tree rooted at fileID back into a document.
// Readonly wrappers inserted by a pass come out as `readonly` nodes flagged
// synthetic.
func Encode(b *ast.Builder, fileID ast.FileID, sourcePath string) (*Document, error) {
	file := b.Files.Get(fileID)
	if file == nil {
		return nil, fmt.Errorf("astio: file %d not found", fileID)
	}
	e := &encoder{b: b}
	doc := &Document{
		Version: SchemaVersion,
		Source:  sourcePath,
		Items:   make([]*Node, 0, len(file.Items)),
	}
	for _, id := range file.Items {
		n, err := e.item(id)
		if err != nil {
			return nil, err
		}
		doc.Items = append(doc.Items, n)
	}
	return doc, nil
}

type encoder struct {
	b *ast.Builder
}

func (e *encoder) item(id ast.ItemID) (*Node, error) {
	item := e.b.Items.Get(id)
	if item == nil {
		return nil, fmt.Errorf("astio: item %d not found", id)
	}
	switch item.Kind {
	case ast.ItemFun:
		fn, _ := e.b.Items.Fun(id)
		return e.fun(fn)
	case ast.ItemClass:
		cls, _ := e.b.Items.Class(id)
		n := &Node{Kind: KindClass, Start: cls.Span.Start, End: cls.Span.End, Name: e.b.Lookup(cls.Name)}
		for _, mid := range cls.Methods {
			m := e.b.Items.Method(mid)
			if m == nil {
				return nil, fmt.Errorf("astio: method %d not found", mid)
			}
			mn := &Node{Kind: KindMethod, Start: m.Span.Start, End: m.Span.End, Name: e.b.Lookup(m.Name)}
			mn.setFlag(FlagReadonlyReturn, m.ReadonlyReturn)
			mn.setFlag(FlagReadonlyThis, m.ReadonlyThis)
			mn.setFlag(FlagStatic, m.Static)
			mn.Params = e.params(m.Params)
			body, err := e.stmt(m.Body)
			if err != nil {
				return nil, err
			}
			mn.Body = body
			n.Methods = append(n.Methods, mn)
		}
		return n, nil
	case ast.ItemStmt:
		data, _ := e.b.Items.StmtItem(id)
		return e.stmt(data.Stmt)
	}
	return nil, fmt.Errorf("astio: unexpected item kind %s", item.Kind)
}

func (e *encoder) fun(fn *ast.FunItem) (*Node, error) {
	n := &Node{Kind: KindFun, Start: fn.Span.Start, End: fn.Span.End, Name: e.b.Lookup(fn.Name)}
	n.setFlag(FlagReadonlyReturn, fn.ReadonlyReturn)
	n.setFlag(FlagReadonlyThis, fn.ThisKind == ast.ReadonlyKindReadonly)
	n.Params = e.params(fn.Params)
	body, err := e.stmt(fn.Body)
	if err != nil {
		return nil, err
	}
	n.Body = body
	return n, nil
}

func (e *encoder) params(ids []ast.ParamID) []*Node {
	if len(ids) == 0 {
		return nil
	}
	out := make([]*Node, 0, len(ids))
	for _, id := range ids {
		p := e.b.Items.Param(id)
		if p == nil {
			continue
		}
		n := &Node{Kind: KindParam, Start: p.Span.Start, End: p.Span.End, Name: e.b.Lookup(p.Name)}
		n.setFlag(FlagReadonly, p.Readonly)
		out = append(out, n)
	}
	return out
}

func (e *encoder) stmts(ids []ast.StmtID) ([]*Node, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	out := make([]*Node, 0, len(ids))
	for _, id := range ids {
		n, err := e.stmt(id)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

// stmt returns nil for NoStmtID.
func (e *encoder) stmt(id ast.StmtID) (*Node, error) {
	if !id.IsValid() {
		return nil, nil
	}
	st := e.b.Stmts.Get(id)
	if st == nil {
		return nil, fmt.Errorf("astio: statement %d not found", id)
	}
	if st.Kind == ast.StmtFun {
		data, _ := e.b.Stmts.Fun(id)
		return e.fun(e.b.Items.FunDecl(data.Fun))
	}
	n := &Node{Kind: st.Kind.String(), Start: st.Span.Start, End: st.Span.End}
	var err error

	switch st.Kind {
	case ast.StmtNoop, ast.StmtBreak, ast.StmtContinue:
	case ast.StmtExpr, ast.StmtReturn, ast.StmtThrow:
		data, _ := e.b.Stmts.ExprData(id)
		n.Expr, err = e.expr(data.Expr)
	case ast.StmtBlock:
		data, _ := e.b.Stmts.Block(id)
		n.Stmts, err = e.stmts(data.Stmts)
	case ast.StmtIf:
		data, _ := e.b.Stmts.If(id)
		if n.Cond, err = e.expr(data.Cond); err != nil {
			return nil, err
		}
		if n.Then, err = e.stmt(data.Then); err != nil {
			return nil, err
		}
		n.Else, err = e.stmt(data.Else)
	case ast.StmtWhile, ast.StmtDoWhile:
		data, _ := e.b.Stmts.While(id)
		if n.Cond, err = e.expr(data.Cond); err != nil {
			return nil, err
		}
		n.Body, err = e.stmt(data.Body)
	case ast.StmtFor:
		data, _ := e.b.Stmts.For(id)
		if n.Init, err = e.exprs(data.Init); err != nil {
			return nil, err
		}
		if n.Test, err = e.exprs(data.Cond); err != nil {
			return nil, err
		}
		if n.Step, err = e.exprs(data.Step); err != nil {
			return nil, err
		}
		n.Body, err = e.stmt(data.Body)
	case ast.StmtForeach:
		data, _ := e.b.Stmts.Foreach(id)
		if n.Expr, err = e.expr(data.Collection); err != nil {
			return nil, err
		}
		if n.Key, err = e.expr(data.Key); err != nil {
			return nil, err
		}
		if n.Val, err = e.expr(data.Value); err != nil {
			return nil, err
		}
		n.Body, err = e.stmt(data.Body)
	case ast.StmtSwitch:
		data, _ := e.b.Stmts.Switch(id)
		if n.Expr, err = e.expr(data.Subject); err != nil {
			return nil, err
		}
		for _, c := range data.Cases {
			cn := &Node{Kind: KindCase}
			if cn.Expr, err = e.expr(c.Value); err != nil {
				return nil, err
			}
			if cn.Stmts, err = e.stmts(c.Body); err != nil {
				return nil, err
			}
			n.Cases = append(n.Cases, cn)
		}
	case ast.StmtTry:
		data, _ := e.b.Stmts.Try(id)
		if n.Body, err = e.stmt(data.Body); err != nil {
			return nil, err
		}
		for _, c := range data.Catches {
			cn := &Node{Kind: KindCatch, Value: e.b.Lookup(c.Class), Name: e.b.Lookup(c.Var)}
			if cn.Body, err = e.stmt(c.Body); err != nil {
				return nil, err
			}
			n.Catches = append(n.Catches, cn)
		}
		n.Finally, err = e.stmt(data.Finally)
	default:
		return nil, fmt.Errorf("astio: unexpected statement kind %s", st.Kind)
	}
	if err != nil {
		return nil, err
	}
	return n, nil
}

func (e *encoder) exprs(ids []ast.ExprID) ([]*Node, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	out := make([]*Node, 0, len(ids))
	for _, id := range ids {
		n, err := e.expr(id)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

// expr returns nil for NoExprID.
func (e *encoder) expr(id ast.ExprID) (*Node, error) {
	if !id.IsValid() {
		return nil, nil
	}
	x := e.b.Exprs.Get(id)
	if x == nil {
		return nil, fmt.Errorf("astio: expression %d not found", id)
	}
	n := &Node{Kind: x.Kind.String(), Start: x.Span.Start, End: x.Span.End}
	n.setFlag(FlagSynthetic, x.Flags&ast.ExprSynthetic != 0)
	exprs := e.b.Exprs
	var err error

	switch x.Kind {
	case ast.ExprReadonly, ast.ExprAwait, ast.ExprHole, ast.ExprInout, ast.ExprClone, ast.ExprYield:
		w, _ := exprs.Wrap(id)
		n.Expr, err = e.expr(w.Inner)
	case ast.ExprLvar, ast.ExprId, ast.ExprFunPtr:
		nm, _ := exprs.Name(id)
		n.Name = e.b.Lookup(nm.Name)
	case ast.ExprThis, ast.ExprPlaceholder:
	case ast.ExprObjGet:
		g, _ := exprs.ObjGet(id)
		n.Name = e.b.Lookup(g.Member)
		n.setFlag(FlagNullSafe, g.NullSafe)
		n.Target, err = e.expr(g.Target)
	case ast.ExprArrayGet:
		g, _ := exprs.ArrayGet(id)
		if n.Target, err = e.expr(g.Target); err != nil {
			return nil, err
		}
		n.Index, err = e.expr(g.Index)
	case ast.ExprClassGet, ast.ExprClassConst:
		r, _ := exprs.ClassRef(id)
		n.Value = e.b.Lookup(r.Class)
		n.Name = e.b.Lookup(r.Name)
	case ast.ExprVarray, ast.ExprTuple, ast.ExprValCollection, ast.ExprList:
		l, _ := exprs.List(id)
		n.Value = e.b.Lookup(l.Class)
		n.Elems, err = e.exprs(l.Elems)
	case ast.ExprDarray, ast.ExprShape, ast.ExprKeyValCollection, ast.ExprCollection, ast.ExprRecord:
		f, _ := exprs.Fields(id)
		n.Value = e.b.Lookup(f.Class)
		for _, field := range f.Fields {
			fn := &Node{Kind: KindField}
			if fn.Key, err = e.expr(field.Key); err != nil {
				return nil, err
			}
			if fn.Val, err = e.expr(field.Value); err != nil {
				return nil, err
			}
			n.Fields = append(n.Fields, fn)
		}
	case ast.ExprPair, ast.ExprPipe:
		p, _ := exprs.Pair(id)
		if n.Left, err = e.expr(p.First); err != nil {
			return nil, err
		}
		n.Right, err = e.expr(p.Second)
	case ast.ExprTernary:
		t, _ := exprs.Ternary(id)
		if n.Cond, err = e.expr(t.Cond); err != nil {
			return nil, err
		}
		if n.Then, err = e.expr(t.Then); err != nil {
			return nil, err
		}
		n.Else, err = e.expr(t.Else)
	case ast.ExprAs, ast.ExprIs, ast.ExprCast:
		t, _ := exprs.TypeTest(id)
		n.Value = e.b.Lookup(t.Type)
		n.setFlag(FlagNullable, t.Nullable)
		n.Expr, err = e.expr(t.Value)
	case ast.ExprLit:
		l, _ := exprs.Literal(id)
		n.Lit = l.Kind.String()
		n.Value = e.b.Lookup(l.Value)
	case ast.ExprUnary:
		u, _ := exprs.Unary(id)
		n.Op = u.Op.String()
		n.Expr, err = e.expr(u.Operand)
	case ast.ExprBinary:
		bin, _ := exprs.Binary(id)
		n.Op = bin.Op.String()
		if n.Left, err = e.expr(bin.Left); err != nil {
			return nil, err
		}
		n.Right, err = e.expr(bin.Right)
	case ast.ExprCall, ast.ExprNew:
		c, _ := exprs.Call(id)
		if n.Target, err = e.expr(c.Callee); err != nil {
			return nil, err
		}
		n.Args, err = e.exprs(c.Args)
	case ast.ExprLambda:
		l, _ := exprs.Lambda(id)
		n.Params = e.params(l.Params)
		n.Body, err = e.stmt(l.Body)
	default:
		return nil, fmt.Errorf("astio: unexpected expression kind %s", x.Kind)
	}
	if err != nil {
		return nil, err
	}
	return n, nil
}
