package astio

import (
	"strconv"

	"rocheck/internal/ast"
	"rocheck/internal/source"
)

// Decoder builds arena trees from documents.
type Decoder struct {
	// File is stamped into every span.
	File source.FileID
	// Interner is shared with the returned builder; nil means a fresh one.
	Interner *source.Interner
	// Hints sizes the arenas.
	Hints ast.Hints
}

// Decode converts doc into a fresh builder using default options.
func Decode(doc *Document) (*ast.Builder, ast.FileID, error) {
	return Decoder{}.Decode(doc)
}

// Decode converts doc into a fresh builder. The first malformed node aborts
// decoding with an *Error.
func (dc Decoder) Decode(doc *Document) (*ast.Builder, ast.FileID, error) {
	if doc == nil {
		return nil, ast.NoFileID, &Error{Path: "document", Err: ErrMissingSlot}
	}
	if doc.Version < 0 || doc.Version > SchemaVersion {
		return nil, ast.NoFileID, &Error{Path: "version", Err: ErrUnsupportedVersion, Msg: strconv.Itoa(doc.Version)}
	}
	d := &decoder{
		b:    ast.NewBuilder(dc.Hints, dc.Interner),
		file: dc.File,
	}
	var fileSpan source.Span
	items := make([]ast.ItemID, 0, len(doc.Items))
	for i, n := range doc.Items {
		path := index("", "items", i)
		id, err := d.item(n, path)
		if err != nil {
			return nil, ast.NoFileID, err
		}
		sp := d.b.Items.Get(id).Span
		if i == 0 {
			fileSpan = sp
		} else {
			fileSpan = fileSpan.Cover(sp)
		}
		items = append(items, id)
	}
	if len(items) == 0 {
		fileSpan = source.Span{File: d.file}
	}
	fileID := d.b.NewFile(fileSpan)
	for _, id := range items {
		d.b.PushItem(fileID, id)
	}
	return d.b, fileID, nil
}

type decoder struct {
	b    *ast.Builder
	file source.FileID
}

func (d *decoder) span(n *Node, path string) (source.Span, error) {
	if n.End < n.Start {
		return source.Span{}, nodeError(path, n, ErrInvalidValue, "end before start")
	}
	return source.Span{File: d.file, Start: n.Start, End: n.End}, nil
}

func (d *decoder) name(n *Node, path string) (source.StringID, error) {
	if n.Name == "" {
		return source.NoStringID, nodeError(slot(path, "name"), n, ErrMissingSlot, "%s needs a name", n.Kind)
	}
	return d.b.Intern(n.Name), nil
}

// optString interns s; an empty string stays NoStringID.
func (d *decoder) optString(s string) source.StringID {
	if s == "" {
		return source.NoStringID
	}
	return d.b.Intern(s)
}

func (d *decoder) checkFlags(n *Node, path string, allowed ...string) error {
	for _, f := range n.Flags {
		ok := false
		for _, a := range allowed {
			if f == a {
				ok = true
				break
			}
		}
		if !ok {
			return nodeError(slot(path, "flags"), n, ErrInvalidValue, "flag %q is not valid on %s", f, n.Kind)
		}
	}
	return nil
}

// Items.

func (d *decoder) item(n *Node, path string) (ast.ItemID, error) {
	if n == nil {
		return ast.NoItemID, nodeError(path, nil, ErrMissingSlot, "null item")
	}
	switch n.Kind {
	case KindFun:
		fn, err := d.fun(n, path)
		if err != nil {
			return ast.NoItemID, err
		}
		return d.b.Items.NewFun(fn), nil
	case KindClass:
		return d.class(n, path)
	default:
		st, err := d.stmt(n, path)
		if err != nil {
			return ast.NoItemID, err
		}
		return d.b.Items.NewStmtItem(d.b.Stmts.Get(st).Span, st), nil
	}
}

func (d *decoder) fun(n *Node, path string) (ast.FunItem, error) {
	if err := d.checkFlags(n, path, FlagReadonlyReturn, FlagReadonlyThis); err != nil {
		return ast.FunItem{}, err
	}
	sp, err := d.span(n, path)
	if err != nil {
		return ast.FunItem{}, err
	}
	name, err := d.name(n, path)
	if err != nil {
		return ast.FunItem{}, err
	}
	params, err := d.params(n.Params, path)
	if err != nil {
		return ast.FunItem{}, err
	}
	body, err := d.optStmt(n.Body, slot(path, "body"))
	if err != nil {
		return ast.FunItem{}, err
	}
	fn := ast.FunItem{
		Name:           name,
		Params:         params,
		ReadonlyReturn: n.HasFlag(FlagReadonlyReturn),
		Body:           body,
		Span:           sp,
	}
	if n.HasFlag(FlagReadonlyThis) {
		fn.ThisKind = ast.ReadonlyKindReadonly
	}
	return fn, nil
}

func (d *decoder) class(n *Node, path string) (ast.ItemID, error) {
	if err := d.checkFlags(n, path); err != nil {
		return ast.NoItemID, err
	}
	sp, err := d.span(n, path)
	if err != nil {
		return ast.NoItemID, err
	}
	name, err := d.name(n, path)
	if err != nil {
		return ast.NoItemID, err
	}
	methods := make([]ast.MethodID, 0, len(n.Methods))
	for i, m := range n.Methods {
		id, err := d.method(m, index(path, "methods", i))
		if err != nil {
			return ast.NoItemID, err
		}
		methods = append(methods, id)
	}
	return d.b.Items.NewClass(sp, name, methods), nil
}

func (d *decoder) method(n *Node, path string) (ast.MethodID, error) {
	if n == nil {
		return ast.NoMethodID, nodeError(path, nil, ErrMissingSlot, "null method")
	}
	if n.Kind != KindMethod {
		return ast.NoMethodID, nodeError(path, n, ErrUnknownKind, "expected %s, got %q", KindMethod, n.Kind)
	}
	if err := d.checkFlags(n, path, FlagReadonlyReturn, FlagReadonlyThis, FlagStatic); err != nil {
		return ast.NoMethodID, err
	}
	sp, err := d.span(n, path)
	if err != nil {
		return ast.NoMethodID, err
	}
	name, err := d.name(n, path)
	if err != nil {
		return ast.NoMethodID, err
	}
	params, err := d.params(n.Params, path)
	if err != nil {
		return ast.NoMethodID, err
	}
	body, err := d.optStmt(n.Body, slot(path, "body"))
	if err != nil {
		return ast.NoMethodID, err
	}
	return d.b.Items.NewMethod(ast.MethodDecl{
		Name:           name,
		Params:         params,
		ReadonlyReturn: n.HasFlag(FlagReadonlyReturn),
		ReadonlyThis:   n.HasFlag(FlagReadonlyThis),
		Static:         n.HasFlag(FlagStatic),
		Body:           body,
		Span:           sp,
	}), nil
}

func (d *decoder) params(nodes []*Node, path string) ([]ast.ParamID, error) {
	out := make([]ast.ParamID, 0, len(nodes))
	for i, n := range nodes {
		p := index(path, "params", i)
		if n == nil {
			return nil, nodeError(p, nil, ErrMissingSlot, "null param")
		}
		if n.Kind != KindParam {
			return nil, nodeError(p, n, ErrUnknownKind, "expected %s, got %q", KindParam, n.Kind)
		}
		if err := d.checkFlags(n, p, FlagReadonly); err != nil {
			return nil, err
		}
		sp, err := d.span(n, p)
		if err != nil {
			return nil, err
		}
		name, err := d.name(n, p)
		if err != nil {
			return nil, err
		}
		out = append(out, d.b.Items.NewParam(sp, name, n.HasFlag(FlagReadonly)))
	}
	return out, nil
}

// Statements.

func (d *decoder) optStmt(n *Node, path string) (ast.StmtID, error) {
	if n == nil {
		return ast.NoStmtID, nil
	}
	return d.stmt(n, path)
}

func (d *decoder) reqStmt(n *Node, path string) (ast.StmtID, error) {
	if n == nil {
		return ast.NoStmtID, nodeError(path, nil, ErrMissingSlot, "statement required")
	}
	return d.stmt(n, path)
}

func (d *decoder) stmtList(nodes []*Node, path, name string) ([]ast.StmtID, error) {
	out := make([]ast.StmtID, 0, len(nodes))
	for i, n := range nodes {
		id, err := d.reqStmt(n, index(path, name, i))
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}

func (d *decoder) stmt(n *Node, path string) (ast.StmtID, error) {
	if n.Kind == KindFun {
		fn, err := d.fun(n, path)
		if err != nil {
			return ast.NoStmtID, err
		}
		return d.b.Stmts.NewFun(fn.Span, d.b.Items.NewFunDecl(fn)), nil
	}
	kind, ok := ast.StmtKindByName(n.Kind)
	if !ok {
		return ast.NoStmtID, nodeError(path, n, ErrUnknownKind, "statement %q", n.Kind)
	}
	if err := d.checkFlags(n, path); err != nil {
		return ast.NoStmtID, err
	}
	sp, err := d.span(n, path)
	if err != nil {
		return ast.NoStmtID, err
	}
	stmts := d.b.Stmts

	switch kind {
	case ast.StmtNoop, ast.StmtBreak, ast.StmtContinue:
		return stmts.New(kind, sp), nil

	case ast.StmtExpr, ast.StmtThrow:
		e, err := d.reqExpr(n.Expr, slot(path, "expr"))
		if err != nil {
			return ast.NoStmtID, err
		}
		if kind == ast.StmtThrow {
			return stmts.NewThrow(sp, e), nil
		}
		return stmts.NewExpr(sp, e), nil

	case ast.StmtReturn:
		e, err := d.optExpr(n.Expr, slot(path, "expr"))
		if err != nil {
			return ast.NoStmtID, err
		}
		return stmts.NewReturn(sp, e), nil

	case ast.StmtBlock:
		list, err := d.stmtList(n.Stmts, path, "stmts")
		if err != nil {
			return ast.NoStmtID, err
		}
		return stmts.NewBlock(sp, list), nil

	case ast.StmtIf:
		cond, err := d.reqExpr(n.Cond, slot(path, "cond"))
		if err != nil {
			return ast.NoStmtID, err
		}
		then, err := d.reqStmt(n.Then, slot(path, "then"))
		if err != nil {
			return ast.NoStmtID, err
		}
		els, err := d.optStmt(n.Else, slot(path, "else"))
		if err != nil {
			return ast.NoStmtID, err
		}
		return stmts.NewIf(sp, cond, then, els), nil

	case ast.StmtWhile, ast.StmtDoWhile:
		cond, err := d.reqExpr(n.Cond, slot(path, "cond"))
		if err != nil {
			return ast.NoStmtID, err
		}
		body, err := d.reqStmt(n.Body, slot(path, "body"))
		if err != nil {
			return ast.NoStmtID, err
		}
		if kind == ast.StmtDoWhile {
			return stmts.NewDoWhile(sp, body, cond), nil
		}
		return stmts.NewWhile(sp, cond, body), nil

	case ast.StmtFor:
		var data ast.StmtForData
		if data.Init, err = d.exprList(n.Init, path, "init"); err != nil {
			return ast.NoStmtID, err
		}
		if data.Cond, err = d.exprList(n.Test, path, "test"); err != nil {
			return ast.NoStmtID, err
		}
		if data.Step, err = d.exprList(n.Step, path, "step"); err != nil {
			return ast.NoStmtID, err
		}
		if data.Body, err = d.reqStmt(n.Body, slot(path, "body")); err != nil {
			return ast.NoStmtID, err
		}
		return stmts.NewFor(sp, data), nil

	case ast.StmtForeach:
		var data ast.StmtForeachData
		if data.Collection, err = d.reqExpr(n.Expr, slot(path, "expr")); err != nil {
			return ast.NoStmtID, err
		}
		if data.Key, err = d.optExpr(n.Key, slot(path, "key")); err != nil {
			return ast.NoStmtID, err
		}
		if data.Value, err = d.reqExpr(n.Val, slot(path, "val")); err != nil {
			return ast.NoStmtID, err
		}
		if data.Body, err = d.reqStmt(n.Body, slot(path, "body")); err != nil {
			return ast.NoStmtID, err
		}
		return stmts.NewForeach(sp, data), nil

	case ast.StmtSwitch:
		subject, err := d.reqExpr(n.Expr, slot(path, "expr"))
		if err != nil {
			return ast.NoStmtID, err
		}
		cases := make([]ast.SwitchCase, 0, len(n.Cases))
		for i, c := range n.Cases {
			p := index(path, "cases", i)
			if c == nil || c.Kind != KindCase {
				return ast.NoStmtID, nodeError(p, c, ErrUnknownKind, "expected %s", KindCase)
			}
			value, err := d.optExpr(c.Expr, slot(p, "expr"))
			if err != nil {
				return ast.NoStmtID, err
			}
			body, err := d.stmtList(c.Stmts, p, "stmts")
			if err != nil {
				return ast.NoStmtID, err
			}
			cases = append(cases, ast.SwitchCase{Value: value, Body: body})
		}
		return stmts.NewSwitch(sp, subject, cases), nil

	case ast.StmtTry:
		body, err := d.reqStmt(n.Body, slot(path, "body"))
		if err != nil {
			return ast.NoStmtID, err
		}
		catches := make([]ast.CatchClause, 0, len(n.Catches))
		for i, c := range n.Catches {
			p := index(path, "catches", i)
			if c == nil || c.Kind != KindCatch {
				return ast.NoStmtID, nodeError(p, c, ErrUnknownKind, "expected %s", KindCatch)
			}
			cbody, err := d.reqStmt(c.Body, slot(p, "body"))
			if err != nil {
				return ast.NoStmtID, err
			}
			catches = append(catches, ast.CatchClause{
				Class: d.optString(c.Value),
				Var:   d.optString(c.Name),
				Body:  cbody,
			})
		}
		finally, err := d.optStmt(n.Finally, slot(path, "finally"))
		if err != nil {
			return ast.NoStmtID, err
		}
		return stmts.NewTry(sp, body, catches, finally), nil
	}
	return ast.NoStmtID, nodeError(path, n, ErrUnknownKind, "statement %q", n.Kind)
}

// Expressions.

func (d *decoder) optExpr(n *Node, path string) (ast.ExprID, error) {
	if n == nil {
		return ast.NoExprID, nil
	}
	return d.expr(n, path)
}

func (d *decoder) reqExpr(n *Node, path string) (ast.ExprID, error) {
	if n == nil {
		return ast.NoExprID, nodeError(path, nil, ErrMissingSlot, "expression required")
	}
	return d.expr(n, path)
}

func (d *decoder) exprList(nodes []*Node, path, name string) ([]ast.ExprID, error) {
	out := make([]ast.ExprID, 0, len(nodes))
	for i, n := range nodes {
		id, err := d.reqExpr(n, index(path, name, i))
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}

func (d *decoder) expr(n *Node, path string) (ast.ExprID, error) {
	kind, ok := ast.ExprKindByName(n.Kind)
	if !ok {
		return ast.NoExprID, nodeError(path, n, ErrUnknownKind, "expression %q", n.Kind)
	}
	allowed := []string{FlagSynthetic}
	switch kind {
	case ast.ExprObjGet:
		allowed = append(allowed, FlagNullSafe)
	case ast.ExprAs, ast.ExprIs, ast.ExprCast:
		allowed = append(allowed, FlagNullable)
	}
	if err := d.checkFlags(n, path, allowed...); err != nil {
		return ast.NoExprID, err
	}
	sp, err := d.span(n, path)
	if err != nil {
		return ast.NoExprID, err
	}
	id, err := d.exprKind(kind, sp, n, path)
	if err != nil {
		return ast.NoExprID, err
	}
	if n.HasFlag(FlagSynthetic) {
		d.b.Exprs.Get(id).Flags |= ast.ExprSynthetic
	}
	return id, nil
}

func (d *decoder) exprKind(kind ast.ExprKind, sp source.Span, n *Node, path string) (ast.ExprID, error) {
	exprs := d.b.Exprs

	switch kind {
	case ast.ExprReadonly, ast.ExprAwait, ast.ExprHole, ast.ExprInout, ast.ExprClone, ast.ExprYield:
		var inner ast.ExprID
		var err error
		if kind == ast.ExprYield {
			inner, err = d.optExpr(n.Expr, slot(path, "expr"))
		} else {
			inner, err = d.reqExpr(n.Expr, slot(path, "expr"))
		}
		if err != nil {
			return ast.NoExprID, err
		}
		return exprs.NewWrap(kind, sp, inner), nil

	case ast.ExprLvar, ast.ExprId, ast.ExprFunPtr:
		name, err := d.name(n, path)
		if err != nil {
			return ast.NoExprID, err
		}
		return exprs.NewName(kind, sp, name), nil

	case ast.ExprThis:
		return exprs.NewThis(sp), nil

	case ast.ExprPlaceholder:
		return exprs.NewPlaceholder(sp), nil

	case ast.ExprObjGet:
		target, err := d.reqExpr(n.Target, slot(path, "target"))
		if err != nil {
			return ast.NoExprID, err
		}
		member, err := d.name(n, path)
		if err != nil {
			return ast.NoExprID, err
		}
		return exprs.NewObjGet(sp, target, member, n.HasFlag(FlagNullSafe)), nil

	case ast.ExprArrayGet:
		target, err := d.reqExpr(n.Target, slot(path, "target"))
		if err != nil {
			return ast.NoExprID, err
		}
		idx, err := d.optExpr(n.Index, slot(path, "index"))
		if err != nil {
			return ast.NoExprID, err
		}
		return exprs.NewArrayGet(sp, target, idx), nil

	case ast.ExprClassGet, ast.ExprClassConst:
		if n.Value == "" {
			return ast.NoExprID, nodeError(slot(path, "value"), n, ErrMissingSlot, "%s needs a class", n.Kind)
		}
		name, err := d.name(n, path)
		if err != nil {
			return ast.NoExprID, err
		}
		return exprs.NewClassRef(kind, sp, d.b.Intern(n.Value), name), nil

	case ast.ExprVarray, ast.ExprTuple, ast.ExprValCollection, ast.ExprList:
		elems, err := d.exprList(n.Elems, path, "elems")
		if err != nil {
			return ast.NoExprID, err
		}
		return exprs.NewList(kind, sp, d.optString(n.Value), elems), nil

	case ast.ExprDarray, ast.ExprShape, ast.ExprKeyValCollection, ast.ExprCollection, ast.ExprRecord:
		fields := make([]ast.ExprField, 0, len(n.Fields))
		for i, f := range n.Fields {
			p := index(path, "fields", i)
			if f == nil || f.Kind != KindField {
				return ast.NoExprID, nodeError(p, f, ErrUnknownKind, "expected %s", KindField)
			}
			key, err := d.optExpr(f.Key, slot(p, "key"))
			if err != nil {
				return ast.NoExprID, err
			}
			val, err := d.reqExpr(f.Val, slot(p, "val"))
			if err != nil {
				return ast.NoExprID, err
			}
			fields = append(fields, ast.ExprField{Key: key, Value: val})
		}
		return exprs.NewFields(kind, sp, d.optString(n.Value), fields), nil

	case ast.ExprPair, ast.ExprPipe:
		left, err := d.reqExpr(n.Left, slot(path, "left"))
		if err != nil {
			return ast.NoExprID, err
		}
		right, err := d.reqExpr(n.Right, slot(path, "right"))
		if err != nil {
			return ast.NoExprID, err
		}
		return exprs.NewPair(kind, sp, left, right), nil

	case ast.ExprTernary:
		cond, err := d.reqExpr(n.Cond, slot(path, "cond"))
		if err != nil {
			return ast.NoExprID, err
		}
		then, err := d.optExpr(n.Then, slot(path, "then"))
		if err != nil {
			return ast.NoExprID, err
		}
		els, err := d.reqExpr(n.Else, slot(path, "else"))
		if err != nil {
			return ast.NoExprID, err
		}
		return exprs.NewTernary(sp, cond, then, els), nil

	case ast.ExprAs, ast.ExprIs, ast.ExprCast:
		value, err := d.reqExpr(n.Expr, slot(path, "expr"))
		if err != nil {
			return ast.NoExprID, err
		}
		return exprs.NewTypeTest(kind, sp, value, d.optString(n.Value), n.HasFlag(FlagNullable)), nil

	case ast.ExprLit:
		lk, ok := ast.LitKindByName(n.Lit)
		if !ok {
			return ast.NoExprID, nodeError(slot(path, "lit"), n, ErrInvalidValue, "literal kind %q", n.Lit)
		}
		return exprs.NewLiteral(sp, lk, d.optString(n.Value)), nil

	case ast.ExprUnary:
		op, ok := ast.UnaryOpByName(n.Op)
		if !ok {
			return ast.NoExprID, nodeError(slot(path, "op"), n, ErrInvalidValue, "unary operator %q", n.Op)
		}
		operand, err := d.reqExpr(n.Expr, slot(path, "expr"))
		if err != nil {
			return ast.NoExprID, err
		}
		return exprs.NewUnary(sp, op, operand), nil

	case ast.ExprBinary:
		op, ok := ast.BinaryOpByName(n.Op)
		if !ok {
			return ast.NoExprID, nodeError(slot(path, "op"), n, ErrInvalidValue, "binary operator %q", n.Op)
		}
		left, err := d.reqExpr(n.Left, slot(path, "left"))
		if err != nil {
			return ast.NoExprID, err
		}
		right, err := d.reqExpr(n.Right, slot(path, "right"))
		if err != nil {
			return ast.NoExprID, err
		}
		return exprs.NewBinary(sp, op, left, right), nil

	case ast.ExprCall, ast.ExprNew:
		target, err := d.reqExpr(n.Target, slot(path, "target"))
		if err != nil {
			return ast.NoExprID, err
		}
		args, err := d.exprList(n.Args, path, "args")
		if err != nil {
			return ast.NoExprID, err
		}
		if kind == ast.ExprNew {
			return exprs.NewNew(sp, target, args), nil
		}
		return exprs.NewCall(sp, target, args), nil

	case ast.ExprLambda:
		params, err := d.params(n.Params, path)
		if err != nil {
			return ast.NoExprID, err
		}
		body, err := d.reqStmt(n.Body, slot(path, "body"))
		if err != nil {
			return ast.NoExprID, err
		}
		return exprs.NewLambda(sp, params, body), nil
	}
	return ast.NoExprID, nodeError(path, n, ErrUnknownKind, "expression %q", n.Kind)
}
