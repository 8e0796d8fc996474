package readonly

import (
	"rocheck/internal/ast"
	"rocheck/internal/source"
)

// ThisName is the spelling of the self reference when it appears as a local.
const ThisName = "$this"

// Classifier computes the mutability of expressions under one context.
type Classifier struct {
	Exprs    *ast.Exprs
	Interner *source.Interner
}

// Classify returns the mutability of id under ctx. It reads the tree and
// the context and changes neither.
func (cl Classifier) Classify(id ast.ExprID, ctx *Context) Mutability {
	expr := cl.Exprs.Get(id)
	if expr == nil {
		return Mutable
	}

	switch expr.Kind {
	case ast.ExprReadonly:
		return Readonly

	case ast.ExprThis:
		return ctx.ThisMutability()

	case ast.ExprLvar:
		data, _ := cl.Exprs.Lvar(id)
		if cl.isThis(data.Name) {
			return ctx.ThisMutability()
		}
		return ctx.LocalMutability(data.Name)

	case ast.ExprObjGet:
		data, _ := cl.Exprs.ObjGet(id)
		return cl.Classify(data.Target, ctx)

	case ast.ExprArrayGet:
		data, _ := cl.Exprs.ArrayGet(id)
		return cl.Classify(data.Target, ctx)

	case ast.ExprVarray, ast.ExprTuple, ast.ExprValCollection:
		data, _ := cl.Exprs.List(id)
		return cl.any(data.Elems, ctx)

	case ast.ExprDarray, ast.ExprShape, ast.ExprKeyValCollection, ast.ExprCollection, ast.ExprRecord:
		// только значения; ключи не влияют
		data, _ := cl.Exprs.Fields(id)
		for _, f := range data.Fields {
			if cl.Classify(f.Value, ctx) == Readonly {
				return Readonly
			}
		}
		return Mutable

	case ast.ExprTernary:
		data, _ := cl.Exprs.Ternary(id)
		if !data.Then.IsValid() {
			return cl.Classify(data.Else, ctx)
		}
		return cl.Classify(data.Then, ctx).Join(cl.Classify(data.Else, ctx))

	case ast.ExprPair:
		data, _ := cl.Exprs.Pair(id)
		return cl.Classify(data.First, ctx).Join(cl.Classify(data.Second, ctx))

	case ast.ExprAs:
		data, _ := cl.Exprs.TypeTest(id)
		return cl.Classify(data.Value, ctx)

	case ast.ExprAwait, ast.ExprHole, ast.ExprInout:
		data, _ := cl.Exprs.Wrap(id)
		return cl.Classify(data.Inner, ctx)

	case ast.ExprLit, ast.ExprId, ast.ExprFunPtr, ast.ExprUnary, ast.ExprBinary, ast.ExprPipe,
		ast.ExprCast, ast.ExprIs, ast.ExprNew, ast.ExprCall, ast.ExprClassGet, ast.ExprClassConst,
		ast.ExprLambda, ast.ExprList, ast.ExprClone, ast.ExprPlaceholder, ast.ExprYield:
		return Mutable
	}
	return Mutable
}

func (cl Classifier) any(ids []ast.ExprID, ctx *Context) Mutability {
	for _, id := range ids {
		if cl.Classify(id, ctx) == Readonly {
			return Readonly
		}
	}
	return Mutable
}

func (cl Classifier) isThis(name source.StringID) bool {
	if cl.Interner == nil {
		return false
	}
	s, ok := cl.Interner.Lookup(name)
	return ok && s == ThisName
}
