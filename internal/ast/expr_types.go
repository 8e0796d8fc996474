package ast

import (
	"rocheck/internal/source"
)

// ExprKind enumerates the different kinds of expressions.
type ExprKind uint8

const (
	// ExprReadonly is an explicit `readonly e` wrapper, written by the user or inserted by the readonly pass.
	ExprReadonly ExprKind = iota
	// ExprLvar is a local variable reference such as `$x` (and `$this` written as a variable).
	ExprLvar
	// ExprThis is the dedicated self reference.
	ExprThis
	// ExprObjGet is a property access `$obj->prop` / `$obj?->prop`.
	ExprObjGet
	// ExprArrayGet is an element access `$arr[$k]` or an append target `$arr[]`.
	ExprArrayGet
	// ExprClassGet is a static property access `C::$p`.
	ExprClassGet
	// ExprClassConst is a class constant access `C::X`.
	ExprClassConst

	// Literals of composite values.

	ExprVarray        // vec[...], varray[...]
	ExprDarray        // dict[...], darray[...]
	ExprTuple         // tuple(...)
	ExprShape         // shape('k' => v)
	ExprValCollection // keyset[...], Vector {...}, Set {...}
	ExprKeyValCollection
	ExprCollection // untyped collection with mixed value / key=>value fields
	ExprRecord
	ExprPair

	ExprTernary
	ExprAs    // $x as T
	ExprIs    // $x is T
	ExprCast  // (int)$x
	ExprAwait // await $x
	ExprHole
	ExprInout // inout $x at a call site
	ExprClone
	ExprYield

	ExprLit
	ExprId     // bare name (constant, function name)
	ExprFunPtr // foo<>, C::bar<>, meth_caller(...)
	ExprUnary
	ExprBinary
	ExprPipe
	ExprPlaceholder // $$ or _
	ExprNew
	ExprCall
	ExprLambda
	ExprList // list($a, $b) destructuring target
)

// ExprFlags carries per-node markers.
type ExprFlags uint8

const (
	// ExprSynthetic marks nodes created by a compiler pass rather than the parser.
	ExprSynthetic ExprFlags = 1 << iota
)

// Expr represents an expression node in the AST.
type Expr struct {
	Kind    ExprKind
	Flags   ExprFlags
	Span    source.Span
	Payload PayloadID
}

// ExprLitKind enumerates literal kinds.
type ExprLitKind uint8

const (
	ExprLitNull ExprLitKind = iota
	ExprLitTrue
	ExprLitFalse
	ExprLitInt
	ExprLitFloat
	ExprLitString
)

// ExprUnaryOp enumerates unary operator kinds.
type ExprUnaryOp uint8

const (
	ExprUnaryNot ExprUnaryOp = iota
	ExprUnaryNeg
	ExprUnaryPlus
	ExprUnaryBitNot
	ExprUnaryPreInc
	ExprUnaryPreDec
	ExprUnaryPostInc
	ExprUnaryPostDec
	ExprUnarySilence // @expr
)

// ExprBinaryOp enumerates binary operator kinds.
type ExprBinaryOp uint8

const (
	// Арифметические

	ExprBinaryAdd ExprBinaryOp = iota
	ExprBinarySub
	ExprBinaryMul
	ExprBinaryDiv
	ExprBinaryMod
	ExprBinaryPow
	ExprBinaryConcat

	// Битовые

	ExprBinaryBitAnd
	ExprBinaryBitOr
	ExprBinaryBitXor
	ExprBinaryShiftLeft
	ExprBinaryShiftRight

	// Логические и сравнения

	ExprBinaryLogicalAnd
	ExprBinaryLogicalOr
	ExprBinaryEq
	ExprBinaryNotEq
	ExprBinaryIdentical
	ExprBinaryNotIdentical
	ExprBinaryLess
	ExprBinaryLessEq
	ExprBinaryGreater
	ExprBinaryGreaterEq
	ExprBinaryCmp
	ExprBinaryNullCoalescing

	// Присваивание

	// ExprBinaryAssign represents the plain assignment operator (=).
	ExprBinaryAssign
	ExprBinaryAddAssign
	ExprBinarySubAssign
	ExprBinaryMulAssign
	ExprBinaryDivAssign
	ExprBinaryModAssign
	ExprBinaryPowAssign
	ExprBinaryConcatAssign
	ExprBinaryBitAndAssign
	ExprBinaryBitOrAssign
	ExprBinaryBitXorAssign
	ExprBinaryShlAssign
	ExprBinaryShrAssign
	ExprBinaryCoalesceAssign
)

// IsAssign reports whether op writes its left operand (plain or compound).
func (op ExprBinaryOp) IsAssign() bool {
	return op >= ExprBinaryAssign && op <= ExprBinaryCoalesceAssign
}

// ExprWrapData is the payload of single-operand wrappers:
// readonly, await, hole, inout, clone, yield.
type ExprWrapData struct {
	Inner ExprID
}

// ExprNameData is the payload of Lvar, Id and FunPtr.
type ExprNameData struct {
	Name source.StringID
}

// ExprObjGetData is the payload of ExprObjGet.
type ExprObjGetData struct {
	Target   ExprID
	Member   source.StringID
	NullSafe bool
}

// ExprArrayGetData is the payload of ExprArrayGet. Index is NoExprID for `$a[]`.
type ExprArrayGetData struct {
	Target ExprID
	Index  ExprID
}

// ExprClassRefData is the payload of ExprClassGet and ExprClassConst.
type ExprClassRefData struct {
	Class source.StringID
	Name  source.StringID
}

// ExprListData is the payload of Varray, Tuple, ValCollection and List.
type ExprListData struct {
	Class source.StringID // vec, varray, keyset, Vector, Set, ...
	Elems []ExprID
}

// ExprField is one entry of a keyed literal. Key is NoExprID for value-only
// entries of a mixed collection.
type ExprField struct {
	Key   ExprID
	Value ExprID
}

// ExprFieldsData is the payload of Darray, Shape, KeyValCollection, Collection and Record.
type ExprFieldsData struct {
	Class  source.StringID
	Fields []ExprField
}

// ExprPairData is the payload of Pair and Pipe.
type ExprPairData struct {
	First  ExprID
	Second ExprID
}

// ExprTernaryData is the payload of ExprTernary. Then is NoExprID for `a ?: b`.
type ExprTernaryData struct {
	Cond ExprID
	Then ExprID
	Else ExprID
}

// ExprTypeData is the payload of As, Is and Cast.
type ExprTypeData struct {
	Value    ExprID
	Type     source.StringID
	Nullable bool // ?as
}

// ExprLiteralData is the payload of ExprLit.
type ExprLiteralData struct {
	Kind  ExprLitKind
	Value source.StringID
}

// ExprUnaryData is the payload of ExprUnary.
type ExprUnaryData struct {
	Op      ExprUnaryOp
	Operand ExprID
}

// ExprBinaryData is the payload of ExprBinary.
type ExprBinaryData struct {
	Op    ExprBinaryOp
	Left  ExprID
	Right ExprID
}

// ExprCallData is the payload of Call and New. For New, Callee names the class.
type ExprCallData struct {
	Callee ExprID
	Args   []ExprID
}

// ExprLambdaData is the payload of ExprLambda.
type ExprLambdaData struct {
	Params []ParamID
	Body   StmtID
}
