package ast

import (
	"fmt"

	"rocheck/internal/source"
)

// Exprs manages allocation of expressions.
type Exprs struct {
	Arena     *Arena[Expr]
	Wraps     *Arena[ExprWrapData]
	Names     *Arena[ExprNameData]
	ObjGets   *Arena[ExprObjGetData]
	ArrayGets *Arena[ExprArrayGetData]
	ClassRefs *Arena[ExprClassRefData]
	Lists     *Arena[ExprListData]
	FieldSets *Arena[ExprFieldsData]
	Pairs     *Arena[ExprPairData]
	Ternaries *Arena[ExprTernaryData]
	TypeTests *Arena[ExprTypeData]
	Literals  *Arena[ExprLiteralData]
	Unaries   *Arena[ExprUnaryData]
	Binaries  *Arena[ExprBinaryData]
	Calls     *Arena[ExprCallData]
	Lambdas   *Arena[ExprLambdaData]
}

// NewExprs creates a new Exprs with per-kind arenas preallocated using capHint.
// If capHint is 0, a default capacity of 1<<8 is used.
func NewExprs(capHint uint) *Exprs {
	if capHint == 0 {
		capHint = 1 << 8
	}
	return &Exprs{
		Arena:     NewArena[Expr](capHint),
		Wraps:     NewArena[ExprWrapData](capHint),
		Names:     NewArena[ExprNameData](capHint),
		ObjGets:   NewArena[ExprObjGetData](capHint),
		ArrayGets: NewArena[ExprArrayGetData](capHint),
		ClassRefs: NewArena[ExprClassRefData](capHint),
		Lists:     NewArena[ExprListData](capHint),
		FieldSets: NewArena[ExprFieldsData](capHint),
		Pairs:     NewArena[ExprPairData](capHint),
		Ternaries: NewArena[ExprTernaryData](capHint),
		TypeTests: NewArena[ExprTypeData](capHint),
		Literals:  NewArena[ExprLiteralData](capHint),
		Unaries:   NewArena[ExprUnaryData](capHint),
		Binaries:  NewArena[ExprBinaryData](capHint),
		Calls:     NewArena[ExprCallData](capHint),
		Lambdas:   NewArena[ExprLambdaData](capHint),
	}
}

func (e *Exprs) new(kind ExprKind, span source.Span, payload PayloadID) ExprID {
	return ExprID(e.Arena.Allocate(Expr{
		Kind:    kind,
		Span:    span,
		Payload: payload,
	}))
}

// Get returns the expression with the given ID.
func (e *Exprs) Get(id ExprID) *Expr {
	return e.Arena.Get(uint32(id))
}

func (e *Exprs) payload(id ExprID, kinds ...ExprKind) (uint32, bool) {
	expr := e.Get(id)
	if expr == nil {
		return 0, false
	}
	for _, k := range kinds {
		if expr.Kind == k {
			return uint32(expr.Payload), true
		}
	}
	return 0, false
}

func mustKind(kind ExprKind, allowed ...ExprKind) {
	for _, k := range allowed {
		if k == kind {
			return
		}
	}
	panic(fmt.Errorf("ast: expression kind %d does not fit this constructor", kind))
}

// Single-operand wrappers.

var wrapKinds = []ExprKind{ExprReadonly, ExprAwait, ExprHole, ExprInout, ExprClone, ExprYield}

// NewWrap creates readonly, await, hole, inout, clone and yield nodes.
func (e *Exprs) NewWrap(kind ExprKind, span source.Span, inner ExprID) ExprID {
	mustKind(kind, wrapKinds...)
	payload := e.Wraps.Allocate(ExprWrapData{Inner: inner})
	return e.new(kind, span, PayloadID(payload))
}

func (e *Exprs) NewReadonly(span source.Span, inner ExprID) ExprID {
	return e.NewWrap(ExprReadonly, span, inner)
}

func (e *Exprs) Wrap(id ExprID) (*ExprWrapData, bool) {
	p, ok := e.payload(id, wrapKinds...)
	if !ok {
		return nil, false
	}
	return e.Wraps.Get(p), true
}

// Names.

func (e *Exprs) NewName(kind ExprKind, span source.Span, name source.StringID) ExprID {
	mustKind(kind, ExprLvar, ExprId, ExprFunPtr)
	payload := e.Names.Allocate(ExprNameData{Name: name})
	return e.new(kind, span, PayloadID(payload))
}

// NewLvar creates a local variable reference.
func (e *Exprs) NewLvar(span source.Span, name source.StringID) ExprID {
	return e.NewName(ExprLvar, span, name)
}

func (e *Exprs) Name(id ExprID) (*ExprNameData, bool) {
	p, ok := e.payload(id, ExprLvar, ExprId, ExprFunPtr)
	if !ok {
		return nil, false
	}
	return e.Names.Get(p), true
}

// Lvar returns the name data only for local variables.
func (e *Exprs) Lvar(id ExprID) (*ExprNameData, bool) {
	p, ok := e.payload(id, ExprLvar)
	if !ok {
		return nil, false
	}
	return e.Names.Get(p), true
}

func (e *Exprs) NewThis(span source.Span) ExprID {
	return e.new(ExprThis, span, NoPayloadID)
}

func (e *Exprs) NewPlaceholder(span source.Span) ExprID {
	return e.new(ExprPlaceholder, span, NoPayloadID)
}

// Accesses.

func (e *Exprs) NewObjGet(span source.Span, target ExprID, member source.StringID, nullSafe bool) ExprID {
	payload := e.ObjGets.Allocate(ExprObjGetData{Target: target, Member: member, NullSafe: nullSafe})
	return e.new(ExprObjGet, span, PayloadID(payload))
}

func (e *Exprs) ObjGet(id ExprID) (*ExprObjGetData, bool) {
	p, ok := e.payload(id, ExprObjGet)
	if !ok {
		return nil, false
	}
	return e.ObjGets.Get(p), true
}

// NewArrayGet creates `target[index]`; index may be NoExprID.
func (e *Exprs) NewArrayGet(span source.Span, target, index ExprID) ExprID {
	payload := e.ArrayGets.Allocate(ExprArrayGetData{Target: target, Index: index})
	return e.new(ExprArrayGet, span, PayloadID(payload))
}

func (e *Exprs) ArrayGet(id ExprID) (*ExprArrayGetData, bool) {
	p, ok := e.payload(id, ExprArrayGet)
	if !ok {
		return nil, false
	}
	return e.ArrayGets.Get(p), true
}

func (e *Exprs) NewClassRef(kind ExprKind, span source.Span, class, name source.StringID) ExprID {
	mustKind(kind, ExprClassGet, ExprClassConst)
	payload := e.ClassRefs.Allocate(ExprClassRefData{Class: class, Name: name})
	return e.new(kind, span, PayloadID(payload))
}

func (e *Exprs) ClassRef(id ExprID) (*ExprClassRefData, bool) {
	p, ok := e.payload(id, ExprClassGet, ExprClassConst)
	if !ok {
		return nil, false
	}
	return e.ClassRefs.Get(p), true
}

// Composite literals.

var listKinds = []ExprKind{ExprVarray, ExprTuple, ExprValCollection, ExprList}

func (e *Exprs) NewList(kind ExprKind, span source.Span, class source.StringID, elems []ExprID) ExprID {
	mustKind(kind, listKinds...)
	payload := e.Lists.Allocate(ExprListData{Class: class, Elems: append([]ExprID(nil), elems...)})
	return e.new(kind, span, PayloadID(payload))
}

func (e *Exprs) List(id ExprID) (*ExprListData, bool) {
	p, ok := e.payload(id, listKinds...)
	if !ok {
		return nil, false
	}
	return e.Lists.Get(p), true
}

var fieldKinds = []ExprKind{ExprDarray, ExprShape, ExprKeyValCollection, ExprCollection, ExprRecord}

func (e *Exprs) NewFields(kind ExprKind, span source.Span, class source.StringID, fields []ExprField) ExprID {
	mustKind(kind, fieldKinds...)
	payload := e.FieldSets.Allocate(ExprFieldsData{Class: class, Fields: append([]ExprField(nil), fields...)})
	return e.new(kind, span, PayloadID(payload))
}

func (e *Exprs) Fields(id ExprID) (*ExprFieldsData, bool) {
	p, ok := e.payload(id, fieldKinds...)
	if !ok {
		return nil, false
	}
	return e.FieldSets.Get(p), true
}

func (e *Exprs) NewPair(kind ExprKind, span source.Span, first, second ExprID) ExprID {
	mustKind(kind, ExprPair, ExprPipe)
	payload := e.Pairs.Allocate(ExprPairData{First: first, Second: second})
	return e.new(kind, span, PayloadID(payload))
}

func (e *Exprs) Pair(id ExprID) (*ExprPairData, bool) {
	p, ok := e.payload(id, ExprPair, ExprPipe)
	if !ok {
		return nil, false
	}
	return e.Pairs.Get(p), true
}

// NewTernary creates `cond ? then : els`; then == NoExprID gives `cond ?: els`.
func (e *Exprs) NewTernary(span source.Span, cond, then, els ExprID) ExprID {
	payload := e.Ternaries.Allocate(ExprTernaryData{Cond: cond, Then: then, Else: els})
	return e.new(ExprTernary, span, PayloadID(payload))
}

func (e *Exprs) Ternary(id ExprID) (*ExprTernaryData, bool) {
	p, ok := e.payload(id, ExprTernary)
	if !ok {
		return nil, false
	}
	return e.Ternaries.Get(p), true
}

func (e *Exprs) NewTypeTest(kind ExprKind, span source.Span, value ExprID, typ source.StringID, nullable bool) ExprID {
	mustKind(kind, ExprAs, ExprIs, ExprCast)
	payload := e.TypeTests.Allocate(ExprTypeData{Value: value, Type: typ, Nullable: nullable})
	return e.new(kind, span, PayloadID(payload))
}

func (e *Exprs) TypeTest(id ExprID) (*ExprTypeData, bool) {
	p, ok := e.payload(id, ExprAs, ExprIs, ExprCast)
	if !ok {
		return nil, false
	}
	return e.TypeTests.Get(p), true
}

// Operators and literals.

// NewLiteral creates a new literal expression.
func (e *Exprs) NewLiteral(span source.Span, kind ExprLitKind, value source.StringID) ExprID {
	payload := e.Literals.Allocate(ExprLiteralData{Kind: kind, Value: value})
	return e.new(ExprLit, span, PayloadID(payload))
}

// Literal returns the literal data for the given expression ID.
func (e *Exprs) Literal(id ExprID) (*ExprLiteralData, bool) {
	p, ok := e.payload(id, ExprLit)
	if !ok {
		return nil, false
	}
	return e.Literals.Get(p), true
}

func (e *Exprs) NewUnary(span source.Span, op ExprUnaryOp, operand ExprID) ExprID {
	payload := e.Unaries.Allocate(ExprUnaryData{Op: op, Operand: operand})
	return e.new(ExprUnary, span, PayloadID(payload))
}

func (e *Exprs) Unary(id ExprID) (*ExprUnaryData, bool) {
	p, ok := e.payload(id, ExprUnary)
	if !ok {
		return nil, false
	}
	return e.Unaries.Get(p), true
}

// NewBinary creates a new binary expression.
func (e *Exprs) NewBinary(span source.Span, op ExprBinaryOp, left, right ExprID) ExprID {
	payload := e.Binaries.Allocate(ExprBinaryData{Op: op, Left: left, Right: right})
	return e.new(ExprBinary, span, PayloadID(payload))
}

// NewAssign is shorthand for a plain `left = right`.
func (e *Exprs) NewAssign(span source.Span, left, right ExprID) ExprID {
	return e.NewBinary(span, ExprBinaryAssign, left, right)
}

func (e *Exprs) Binary(id ExprID) (*ExprBinaryData, bool) {
	p, ok := e.payload(id, ExprBinary)
	if !ok {
		return nil, false
	}
	return e.Binaries.Get(p), true
}

// Assignment returns the binary data when id is a plain or compound assignment.
func (e *Exprs) Assignment(id ExprID) (*ExprBinaryData, bool) {
	data, ok := e.Binary(id)
	if !ok || !data.Op.IsAssign() {
		return nil, false
	}
	return data, true
}

// Calls.

func (e *Exprs) NewCall(span source.Span, callee ExprID, args []ExprID) ExprID {
	payload := e.Calls.Allocate(ExprCallData{Callee: callee, Args: append([]ExprID(nil), args...)})
	return e.new(ExprCall, span, PayloadID(payload))
}

// NewNew creates `new C(args)`; class is usually an ExprId node.
func (e *Exprs) NewNew(span source.Span, class ExprID, args []ExprID) ExprID {
	payload := e.Calls.Allocate(ExprCallData{Callee: class, Args: append([]ExprID(nil), args...)})
	return e.new(ExprNew, span, PayloadID(payload))
}

// Call returns the payload of calls and `new` expressions.
func (e *Exprs) Call(id ExprID) (*ExprCallData, bool) {
	p, ok := e.payload(id, ExprCall, ExprNew)
	if !ok {
		return nil, false
	}
	return e.Calls.Get(p), true
}

func (e *Exprs) NewLambda(span source.Span, params []ParamID, body StmtID) ExprID {
	payload := e.Lambdas.Allocate(ExprLambdaData{Params: append([]ParamID(nil), params...), Body: body})
	return e.new(ExprLambda, span, PayloadID(payload))
}

func (e *Exprs) Lambda(id ExprID) (*ExprLambdaData, bool) {
	p, ok := e.payload(id, ExprLambda)
	if !ok {
		return nil, false
	}
	return e.Lambdas.Get(p), true
}
