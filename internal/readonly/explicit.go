package readonly

import (
	"rocheck/internal/ast"
)

// makeExplicit wraps id into a readonly wrapper when it classifies Readonly
// and is not already one.
func (c *checker) makeExplicit(id ast.ExprID) {
	if !id.IsValid() || c.classify(id) != Readonly {
		return
	}
	if _, wrapped := c.exprs.WrapReadonly(id); wrapped {
		c.result.Wraps++
	}
}

// explicitArgs makes every readonly argument of a call explicit. The callee
// itself is left alone. Constructor arguments of `new` are not rewritten.
func (c *checker) explicitArgs(id ast.ExprID) {
	data, ok := c.exprs.Call(id)
	if !ok {
		return
	}
	for _, arg := range data.Args {
		c.makeExplicit(arg)
	}
}
