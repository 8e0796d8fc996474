package ast

// Children returns the immediate sub-expressions of id in source order.
// Absent optional operands are skipped. Lambda bodies are statements and are
// not reported.
func (e *Exprs) Children(id ExprID) []ExprID {
	expr := e.Get(id)
	if expr == nil {
		return nil
	}
	var out []ExprID
	add := func(ids ...ExprID) {
		for _, c := range ids {
			if c.IsValid() {
				out = append(out, c)
			}
		}
	}

	switch expr.Kind {
	case ExprReadonly, ExprAwait, ExprHole, ExprInout, ExprClone, ExprYield:
		if w, ok := e.Wrap(id); ok {
			add(w.Inner)
		}
	case ExprObjGet:
		if g, ok := e.ObjGet(id); ok {
			add(g.Target)
		}
	case ExprArrayGet:
		if g, ok := e.ArrayGet(id); ok {
			add(g.Target, g.Index)
		}
	case ExprVarray, ExprTuple, ExprValCollection, ExprList:
		if l, ok := e.List(id); ok {
			add(l.Elems...)
		}
	case ExprDarray, ExprShape, ExprKeyValCollection, ExprCollection, ExprRecord:
		if f, ok := e.Fields(id); ok {
			for _, field := range f.Fields {
				add(field.Key, field.Value)
			}
		}
	case ExprPair, ExprPipe:
		if p, ok := e.Pair(id); ok {
			add(p.First, p.Second)
		}
	case ExprTernary:
		if t, ok := e.Ternary(id); ok {
			add(t.Cond, t.Then, t.Else)
		}
	case ExprAs, ExprIs, ExprCast:
		if t, ok := e.TypeTest(id); ok {
			add(t.Value)
		}
	case ExprUnary:
		if u, ok := e.Unary(id); ok {
			add(u.Operand)
		}
	case ExprBinary:
		if b, ok := e.Binary(id); ok {
			add(b.Left, b.Right)
		}
	case ExprCall, ExprNew:
		if c, ok := e.Call(id); ok {
			add(c.Callee)
			add(c.Args...)
		}
	case ExprLvar, ExprThis, ExprId, ExprFunPtr, ExprClassGet, ExprClassConst,
		ExprLit, ExprPlaceholder, ExprLambda:
	}
	return out
}
