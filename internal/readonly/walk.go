package readonly

import (
	"strconv"

	"rocheck/internal/ast"
	"rocheck/internal/trace"
)

func (c *checker) walkItem(id ast.ItemID) {
	item := c.builder.Items.Get(id)
	if item == nil {
		return
	}
	switch item.Kind {
	case ast.ItemFun:
		if fn, ok := c.builder.Items.Fun(id); ok && fn != nil {
			c.walkFun(fn)
		}
	case ast.ItemClass:
		class, ok := c.builder.Items.Class(id)
		if !ok || class == nil {
			return
		}
		for _, mid := range class.Methods {
			if m := c.builder.Items.Method(mid); m != nil {
				c.walkScope(MethodScope(m), m.Body)
			}
		}
	case ast.ItemStmt:
		// вне объявлений действует контекст программы
		if data, ok := c.builder.Items.StmtItem(id); ok && data != nil {
			c.walkStmt(data.Stmt)
		}
	}
}

func (c *checker) walkFun(fn *ast.FunItem) {
	c.walkScope(FunScope(fn), fn.Body)
}

// walkScope checks body under a fresh context built from scope and restores
// the enclosing context afterwards.
func (c *checker) walkScope(scope Scope, body ast.StmtID) {
	outer := c.ctx
	c.ctx = NewScopeContext(c.builder.Items, scope)
	c.result.Scopes++
	defer func() { c.ctx = outer }()

	if trace.Enabled(c.tracer, trace.ScopeDecl) {
		span := c.span.Child(trace.ScopeDecl, scope.Kind.String()+" "+c.builder.Lookup(scope.Name))
		wraps, diags := c.result.Wraps, c.result.Diagnostics
		defer func() {
			span.WithExtra("locals", strconv.Itoa(c.ctx.Len())).
				WithExtra("wraps", strconv.Itoa(c.result.Wraps-wraps)).
				WithExtra("diagnostics", strconv.Itoa(c.result.Diagnostics-diags)).
				End("")
		}()
	}

	c.walkStmt(body)
}

func (c *checker) walkStmt(id ast.StmtID) {
	stmt := c.builder.Stmts.Get(id)
	if stmt == nil {
		return
	}
	stmts := c.builder.Stmts

	switch stmt.Kind {
	case ast.StmtExpr, ast.StmtThrow:
		if data, ok := stmts.ExprData(id); ok {
			c.walkExpr(data.Expr)
		}
	case ast.StmtReturn:
		if data, ok := stmts.ExprData(id); ok && data.Expr.IsValid() {
			c.checkReturn(data.Expr)
			c.walkExpr(data.Expr)
		}
	case ast.StmtBlock:
		if data, ok := stmts.Block(id); ok {
			for _, child := range data.Stmts {
				c.walkStmt(child)
			}
		}
	case ast.StmtIf:
		if data, ok := stmts.If(id); ok {
			c.walkExpr(data.Cond)
			c.walkStmt(data.Then)
			c.walkStmt(data.Else)
		}
	case ast.StmtWhile:
		if data, ok := stmts.While(id); ok {
			c.walkExpr(data.Cond)
			c.walkStmt(data.Body)
		}
	case ast.StmtDoWhile:
		if data, ok := stmts.While(id); ok {
			c.walkStmt(data.Body)
			c.walkExpr(data.Cond)
		}
	case ast.StmtFor:
		// порядок полей: init, cond, step, body
		if data, ok := stmts.For(id); ok {
			c.walkExprs(data.Init)
			c.walkExprs(data.Cond)
			c.walkExprs(data.Step)
			c.walkStmt(data.Body)
		}
	case ast.StmtForeach:
		if data, ok := stmts.Foreach(id); ok {
			c.walkExpr(data.Collection)
			c.walkExpr(data.Key)
			c.walkExpr(data.Value)
			c.walkStmt(data.Body)
		}
	case ast.StmtSwitch:
		if data, ok := stmts.Switch(id); ok {
			c.walkExpr(data.Subject)
			for _, cs := range data.Cases {
				c.walkExpr(cs.Value)
				for _, child := range cs.Body {
					c.walkStmt(child)
				}
			}
		}
	case ast.StmtTry:
		if data, ok := stmts.Try(id); ok {
			c.walkStmt(data.Body)
			for _, catch := range data.Catches {
				c.walkStmt(catch.Body)
			}
			c.walkStmt(data.Finally)
		}
	case ast.StmtFun:
		if data, ok := stmts.Fun(id); ok {
			if fn := c.builder.Items.FunDecl(data.Fun); fn != nil {
				c.walkFun(fn)
			}
		}
	case ast.StmtNoop, ast.StmtBreak, ast.StmtContinue:
	}
}

func (c *checker) walkExprs(ids []ast.ExprID) {
	for _, id := range ids {
		c.walkExpr(id)
	}
}

// walkExpr handles the node first and then its children, so a wrapper
// inserted for the node itself is descended into as well.
func (c *checker) walkExpr(id ast.ExprID) {
	expr := c.exprs.Get(id)
	if expr == nil {
		return
	}
	switch expr.Kind {
	case ast.ExprBinary:
		if data, ok := c.exprs.Assignment(id); ok {
			c.checkAssignment(id, data)
		}
	case ast.ExprCall:
		c.explicitArgs(id)
	}
	for _, child := range c.exprs.Children(id) {
		c.walkExpr(child)
	}
}
