package readonly

import (
	"rocheck/internal/ast"
	"rocheck/internal/source"
)

// Binding is what a context remembers about a local: the mutability of its
// first write and where that write happened.
type Binding struct {
	Mutability Mutability
	Span       source.Span
	Param      bool
}

// Context is the per-scope state of the pass. The return and this
// mutabilities are fixed at creation; a local keeps the mutability of its
// first write for the rest of the scope.
type Context struct {
	readonlyReturn Mutability
	thisMutability Mutability
	locals         map[source.StringID]Binding
}

func NewContext(readonlyReturn, thisMutability Mutability) *Context {
	return &Context{
		readonlyReturn: readonlyReturn,
		thisMutability: thisMutability,
		locals:         make(map[source.StringID]Binding),
	}
}

// ProgramContext is the context used outside any function or method.
func ProgramContext() *Context {
	return NewContext(Mutable, Mutable)
}

func (c *Context) ReadonlyReturn() Mutability { return c.readonlyReturn }
func (c *Context) ThisMutability() Mutability { return c.thisMutability }

// Lookup returns the binding of name, if any.
func (c *Context) Lookup(name source.StringID) (Binding, bool) {
	b, ok := c.locals[name]
	return b, ok
}

// LocalMutability is the recorded mutability of name; unknown locals are Mutable.
func (c *Context) LocalMutability(name source.StringID) Mutability {
	if b, ok := c.locals[name]; ok {
		return b.Mutability
	}
	return Mutable
}

// Record binds name on its first write. When name is already bound the
// existing binding is returned untouched together with false.
func (c *Context) Record(name source.StringID, b Binding) (Binding, bool) {
	if prev, ok := c.locals[name]; ok {
		return prev, false
	}
	c.locals[name] = b
	return b, true
}

func (c *Context) Len() int {
	return len(c.locals)
}

type ScopeKind uint8

const (
	ScopeProgram ScopeKind = iota
	ScopeFunction
	ScopeMethod
)

func (k ScopeKind) String() string {
	switch k {
	case ScopeFunction:
		return "function"
	case ScopeMethod:
		return "method"
	}
	return "program"
}

// Scope describes the declaration a context is opened for.
type Scope struct {
	Kind           ScopeKind
	Name           source.StringID
	ReadonlyReturn bool
	ReadonlyThis   bool             // methods
	ThisKind       ast.ReadonlyKind // functions
	Params         []ast.ParamID
}

// FunScope builds the scope of a function declaration.
func FunScope(fn *ast.FunItem) Scope {
	return Scope{
		Kind:           ScopeFunction,
		Name:           fn.Name,
		ReadonlyReturn: fn.ReadonlyReturn,
		ThisKind:       fn.ThisKind,
		Params:         fn.Params,
	}
}

// MethodScope builds the scope of a method declaration.
func MethodScope(m *ast.MethodDecl) Scope {
	return Scope{
		Kind:           ScopeMethod,
		Name:           m.Name,
		ReadonlyReturn: m.ReadonlyReturn,
		ReadonlyThis:   m.ReadonlyThis,
		Params:         m.Params,
	}
}

func (s Scope) thisMutability() Mutability {
	switch s.Kind {
	case ScopeMethod:
		return FromFlag(s.ReadonlyThis)
	case ScopeFunction:
		return FromFlag(s.ThisKind == ast.ReadonlyKindReadonly)
	}
	return Mutable
}

// NewScopeContext opens a context for s and seeds it with the parameters:
// a `readonly` parameter starts Readonly, any other starts Mutable.
func NewScopeContext(items *ast.Items, s Scope) *Context {
	ctx := NewContext(FromFlag(s.ReadonlyReturn), s.thisMutability())
	if items == nil {
		return ctx
	}
	for _, pid := range s.Params {
		p := items.Param(pid)
		if p == nil {
			continue
		}
		ctx.Record(p.Name, Binding{Mutability: FromFlag(p.Readonly), Span: p.Span, Param: true})
	}
	return ctx
}
