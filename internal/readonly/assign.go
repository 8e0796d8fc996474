package readonly

import (
	"fmt"

	"rocheck/internal/ast"
	"rocheck/internal/diag"
	"rocheck/internal/source"
)

// checkAssignment validates `lhs = rhs` and `lhs op= rhs`.
func (c *checker) checkAssignment(id ast.ExprID, data *ast.ExprBinaryData) {
	lhs := c.exprs.Get(data.Left)
	if lhs == nil {
		return
	}
	span := c.exprs.Get(id).Span

	switch lhs.Kind {
	case ast.ExprLvar:
		name, _ := c.exprs.Lvar(data.Left)
		rhs := c.classify(data.Right)
		prev, first := c.ctx.Record(name.Name, Binding{Mutability: rhs, Span: span})
		if first || prev.Mutability == rhs {
			return
		}
		c.reportMismatch(span, c.builder.Lookup(name.Name), prev, rhs)

	case ast.ExprObjGet:
		if c.classify(data.Left) == Readonly {
			c.report(diag.SemaReadonlyAssignmentViolation, span,
				"cannot modify a property of a readonly value").Emit()
		}
		c.makeExplicit(data.Right)

	case ast.ExprArrayGet:
		// запись в элемент readonly-коллекции допустима: значение копируется
		target, _ := c.exprs.ArrayGet(data.Left)
		c.makeExplicit(target.Target)
		c.makeExplicit(data.Right)
	}
}

func (c *checker) reportMismatch(span source.Span, name string, prev Binding, got Mutability) {
	msg := fmt.Sprintf("variable %s already holds a %s value and cannot be assigned a %s one; a local keeps the mutability of its first assignment",
		name, prev.Mutability, got)
	note := fmt.Sprintf("%s became %s here", name, prev.Mutability)
	if prev.Param {
		note = fmt.Sprintf("%s is declared as a %s parameter here", name, prev.Mutability)
	}
	c.report(diag.SemaMutabilityMismatch, span, msg).WithNote(prev.Span, note).Emit()
}
