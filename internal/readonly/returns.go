package readonly

import (
	"rocheck/internal/ast"
	"rocheck/internal/diag"
	"rocheck/internal/source"
)

const returnMismatchMsg = "this expression is readonly, but the function returns a mutable value. " +
	"Mark the function to return readonly if that is intended"

// checkReturn flags a readonly value returned from a scope without a
// readonly return. The diagnostic points at the returned expression.
func (c *checker) checkReturn(id ast.ExprID) {
	got := c.classify(id)
	if Subtype(got, c.ctx.ReadonlyReturn()) {
		return
	}
	c.report(diag.SemaReturnMutabilityViolation, c.exprs.Get(id).Span, returnMismatchMsg).Emit()
}

func (c *checker) report(code diag.Code, span source.Span, msg string) *diag.ReportBuilder {
	c.result.Diagnostics++
	return diag.ReportError(c.reporter, code, span, msg)
}
