package astio

// SchemaVersion is the newest document layout this package reads and writes.
const SchemaVersion = 1

// Document is one program tree as handed over by the external parser.
type Document struct {
	Version int     `json:"version,omitempty" msgpack:"version,omitempty"`
	Source  string  `json:"source,omitempty" msgpack:"source,omitempty"`
	Items   []*Node `json:"items" msgpack:"items"`
}

// Node is a generic tagged record. Kind selects which slots are meaningful;
// the decoder checks required slots and ignores nothing silently.
//
// Slot usage by kind:
//
//	fun, method      name, params, body, flags readonly_return|readonly_this|static
//	param            name, flags readonly
//	class            name, methods
//	lvar, id, fun_ptr name
//	obj_get          target, name, flags nullsafe
//	array_get        target, index?
//	class_get/const  value (class), name
//	list kinds       value (class), elems
//	keyed kinds      value (class), fields (kind "field": key?, val)
//	pair, pipe       left, right
//	ternary          cond, then?, else
//	as, is, cast     expr, value (type), flags nullable
//	wrappers         expr
//	lit              lit, value
//	unary            op, expr
//	binary           op, left, right
//	call, new        target, args
//	lambda           params, body
//	expr, throw      expr;  return expr?
//	block            stmts
//	if               cond, then, else?
//	while, do_while  cond, body
//	for              init, test, step, body
//	foreach          expr, key?, val, body
//	switch           expr, cases (kind "case": expr?, stmts)
//	try              body, catches (kind "catch": value, name, body), finally?
type Node struct {
	Kind  string   `json:"kind" msgpack:"kind"`
	Start uint32   `json:"start" msgpack:"start"`
	End   uint32   `json:"end" msgpack:"end"`
	Name  string   `json:"name,omitempty" msgpack:"name,omitempty"`
	Value string   `json:"value,omitempty" msgpack:"value,omitempty"`
	Op    string   `json:"op,omitempty" msgpack:"op,omitempty"`
	Lit   string   `json:"lit,omitempty" msgpack:"lit,omitempty"`
	Flags []string `json:"flags,omitempty" msgpack:"flags,omitempty"`

	Expr   *Node   `json:"expr,omitempty" msgpack:"expr,omitempty"`
	Target *Node   `json:"target,omitempty" msgpack:"target,omitempty"`
	Index  *Node   `json:"index,omitempty" msgpack:"index,omitempty"`
	Left   *Node   `json:"left,omitempty" msgpack:"left,omitempty"`
	Right  *Node   `json:"right,omitempty" msgpack:"right,omitempty"`
	Cond   *Node   `json:"cond,omitempty" msgpack:"cond,omitempty"`
	Then   *Node   `json:"then,omitempty" msgpack:"then,omitempty"`
	Else   *Node   `json:"else,omitempty" msgpack:"else,omitempty"`
	Key    *Node   `json:"key,omitempty" msgpack:"key,omitempty"`
	Val    *Node   `json:"val,omitempty" msgpack:"val,omitempty"`
	Elems  []*Node `json:"elems,omitempty" msgpack:"elems,omitempty"`
	Fields []*Node `json:"fields,omitempty" msgpack:"fields,omitempty"`
	Args   []*Node `json:"args,omitempty" msgpack:"args,omitempty"`

	Params  []*Node `json:"params,omitempty" msgpack:"params,omitempty"`
	Body    *Node   `json:"body,omitempty" msgpack:"body,omitempty"`
	Methods []*Node `json:"methods,omitempty" msgpack:"methods,omitempty"`

	Stmts   []*Node `json:"stmts,omitempty" msgpack:"stmts,omitempty"`
	Init    []*Node `json:"init,omitempty" msgpack:"init,omitempty"`
	Test    []*Node `json:"test,omitempty" msgpack:"test,omitempty"`
	Step    []*Node `json:"step,omitempty" msgpack:"step,omitempty"`
	Cases   []*Node `json:"cases,omitempty" msgpack:"cases,omitempty"`
	Catches []*Node `json:"catches,omitempty" msgpack:"catches,omitempty"`
	Finally *Node   `json:"finally,omitempty" msgpack:"finally,omitempty"`
}

// Node flags.
const (
	FlagReadonly       = "readonly"
	FlagReadonlyReturn = "readonly_return"
	FlagReadonlyThis   = "readonly_this"
	FlagStatic         = "static"
	FlagNullSafe       = "nullsafe"
	FlagNullable       = "nullable"
	FlagSynthetic      = "synthetic"
)

// Kinds that are not expression or statement kinds.
const (
	KindFun    = "fun"
	KindClass  = "class"
	KindMethod = "method"
	KindParam  = "param"
	KindField  = "field"
	KindCase   = "case"
	KindCatch  = "catch"
)

// HasFlag reports whether n carries flag.
func (n *Node) HasFlag(flag string) bool {
	if n == nil {
		return false
	}
	for _, f := range n.Flags {
		if f == flag {
			return true
		}
	}
	return false
}

func (n *Node) setFlag(flag string, on bool) {
	if on {
		n.Flags = append(n.Flags, flag)
	}
}
