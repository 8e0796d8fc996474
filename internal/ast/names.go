package ast

// Canonical lower-case names used by the tree codec and the tree dump.

var exprKindNames = [...]string{
	ExprReadonly:         "readonly",
	ExprLvar:             "lvar",
	ExprThis:             "this",
	ExprObjGet:           "obj_get",
	ExprArrayGet:         "array_get",
	ExprClassGet:         "class_get",
	ExprClassConst:       "class_const",
	ExprVarray:           "varray",
	ExprDarray:           "darray",
	ExprTuple:            "tuple",
	ExprShape:            "shape",
	ExprValCollection:    "val_collection",
	ExprKeyValCollection: "key_val_collection",
	ExprCollection:       "collection",
	ExprRecord:           "record",
	ExprPair:             "pair",
	ExprTernary:          "ternary",
	ExprAs:               "as",
	ExprIs:               "is",
	ExprCast:             "cast",
	ExprAwait:            "await",
	ExprHole:             "hole",
	ExprInout:            "inout",
	ExprClone:            "clone",
	ExprYield:            "yield",
	ExprLit:              "lit",
	ExprId:               "id",
	ExprFunPtr:           "fun_ptr",
	ExprUnary:            "unary",
	ExprBinary:           "binary",
	ExprPipe:             "pipe",
	ExprPlaceholder:      "placeholder",
	ExprNew:              "new",
	ExprCall:             "call",
	ExprLambda:           "lambda",
	ExprList:             "list",
}

func (k ExprKind) String() string {
	if int(k) < len(exprKindNames) && exprKindNames[k] != "" {
		return exprKindNames[k]
	}
	return "expr?"
}

var stmtKindNames = [...]string{
	StmtNoop:     "noop",
	StmtExpr:     "expr",
	StmtReturn:   "return",
	StmtBlock:    "block",
	StmtIf:       "if",
	StmtWhile:    "while",
	StmtDoWhile:  "do_while",
	StmtFor:      "for",
	StmtForeach:  "foreach",
	StmtSwitch:   "switch",
	StmtTry:      "try",
	StmtThrow:    "throw",
	StmtBreak:    "break",
	StmtContinue: "continue",
	StmtFun:      "fun",
}

func (k StmtKind) String() string {
	if int(k) < len(stmtKindNames) && stmtKindNames[k] != "" {
		return stmtKindNames[k]
	}
	return "stmt?"
}

var itemKindNames = [...]string{
	ItemFun:   "fun",
	ItemClass: "class",
	ItemStmt:  "stmt",
}

func (k ItemKind) String() string {
	if int(k) < len(itemKindNames) {
		return itemKindNames[k]
	}
	return "item?"
}

var litKindNames = [...]string{
	ExprLitNull:   "null",
	ExprLitTrue:   "true",
	ExprLitFalse:  "false",
	ExprLitInt:    "int",
	ExprLitFloat:  "float",
	ExprLitString: "string",
}

func (k ExprLitKind) String() string {
	if int(k) < len(litKindNames) {
		return litKindNames[k]
	}
	return "lit?"
}

var unaryOpNames = [...]string{
	ExprUnaryNot:     "!",
	ExprUnaryNeg:     "-",
	ExprUnaryPlus:    "+",
	ExprUnaryBitNot:  "~",
	ExprUnaryPreInc:  "++x",
	ExprUnaryPreDec:  "--x",
	ExprUnaryPostInc: "x++",
	ExprUnaryPostDec: "x--",
	ExprUnarySilence: "@",
}

func (op ExprUnaryOp) String() string {
	if int(op) < len(unaryOpNames) {
		return unaryOpNames[op]
	}
	return "unary?"
}

var binaryOpNames = [...]string{
	ExprBinaryAdd:            "+",
	ExprBinarySub:            "-",
	ExprBinaryMul:            "*",
	ExprBinaryDiv:            "/",
	ExprBinaryMod:            "%",
	ExprBinaryPow:            "**",
	ExprBinaryConcat:         ".",
	ExprBinaryBitAnd:         "&",
	ExprBinaryBitOr:          "|",
	ExprBinaryBitXor:         "^",
	ExprBinaryShiftLeft:      "<<",
	ExprBinaryShiftRight:     ">>",
	ExprBinaryLogicalAnd:     "&&",
	ExprBinaryLogicalOr:      "||",
	ExprBinaryEq:             "==",
	ExprBinaryNotEq:          "!=",
	ExprBinaryIdentical:      "===",
	ExprBinaryNotIdentical:   "!==",
	ExprBinaryLess:           "<",
	ExprBinaryLessEq:         "<=",
	ExprBinaryGreater:        ">",
	ExprBinaryGreaterEq:      ">=",
	ExprBinaryCmp:            "<=>",
	ExprBinaryNullCoalescing: "??",
	ExprBinaryAssign:         "=",
	ExprBinaryAddAssign:      "+=",
	ExprBinarySubAssign:      "-=",
	ExprBinaryMulAssign:      "*=",
	ExprBinaryDivAssign:      "/=",
	ExprBinaryModAssign:      "%=",
	ExprBinaryPowAssign:      "**=",
	ExprBinaryConcatAssign:   ".=",
	ExprBinaryBitAndAssign:   "&=",
	ExprBinaryBitOrAssign:    "|=",
	ExprBinaryBitXorAssign:   "^=",
	ExprBinaryShlAssign:      "<<=",
	ExprBinaryShrAssign:      ">>=",
	ExprBinaryCoalesceAssign: "??=",
}

func (op ExprBinaryOp) String() string {
	if int(op) < len(binaryOpNames) {
		return binaryOpNames[op]
	}
	return "binary?"
}

var (
	exprKindByName = reverse(exprKindNames[:], func(i int) ExprKind { return ExprKind(i) })
	stmtKindByName = reverse(stmtKindNames[:], func(i int) StmtKind { return StmtKind(i) })
	litKindByName  = reverse(litKindNames[:], func(i int) ExprLitKind { return ExprLitKind(i) })
	unaryOpByName  = reverse(unaryOpNames[:], func(i int) ExprUnaryOp { return ExprUnaryOp(i) })
	binaryOpByName = reverse(binaryOpNames[:], func(i int) ExprBinaryOp { return ExprBinaryOp(i) })
)

func reverse[T any](names []string, conv func(int) T) map[string]T {
	m := make(map[string]T, len(names))
	for i, n := range names {
		if n != "" {
			m[n] = conv(i)
		}
	}
	return m
}

func ExprKindByName(name string) (ExprKind, bool) {
	k, ok := exprKindByName[name]
	return k, ok
}

func StmtKindByName(name string) (StmtKind, bool) {
	k, ok := stmtKindByName[name]
	return k, ok
}

func LitKindByName(name string) (ExprLitKind, bool) {
	k, ok := litKindByName[name]
	return k, ok
}

func UnaryOpByName(name string) (ExprUnaryOp, bool) {
	op, ok := unaryOpByName[name]
	return op, ok
}

func BinaryOpByName(name string) (ExprBinaryOp, bool) {
	op, ok := binaryOpByName[name]
	return op, ok
}
