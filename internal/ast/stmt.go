package ast

import (
	"rocheck/internal/source"
)

type StmtKind uint8

const (
	StmtNoop StmtKind = iota
	StmtExpr
	StmtReturn
	StmtBlock
	StmtIf
	StmtWhile
	StmtDoWhile
	StmtFor
	StmtForeach
	StmtSwitch
	StmtTry
	StmtThrow
	StmtBreak
	StmtContinue
	// StmtFun is a function declared inside a body; it gets its own scope.
	StmtFun
)

type Stmt struct {
	Kind    StmtKind
	Span    source.Span
	Payload PayloadID
}

// StmtExprData backs expr, return and throw statements. Return may have no value.
type StmtExprData struct {
	Expr ExprID
}

type StmtBlockData struct {
	Stmts []StmtID
}

type StmtIfData struct {
	Cond ExprID
	Then StmtID
	Else StmtID
}

// StmtWhileData backs while and do-while loops.
type StmtWhileData struct {
	Cond ExprID
	Body StmtID
}

type StmtForData struct {
	Init []ExprID
	Cond []ExprID
	Step []ExprID
	Body StmtID
}

// StmtForeachData describes `foreach ($coll as $k => $v)`. Key is NoExprID when absent.
type StmtForeachData struct {
	Collection ExprID
	Key        ExprID
	Value      ExprID
	Body       StmtID
}

// SwitchCase with Value == NoExprID is the default case.
type SwitchCase struct {
	Value ExprID
	Body  []StmtID
}

type StmtSwitchData struct {
	Subject ExprID
	Cases   []SwitchCase
}

type CatchClause struct {
	Class source.StringID
	Var   source.StringID
	Body  StmtID
}

type StmtTryData struct {
	Body    StmtID
	Catches []CatchClause
	Finally StmtID
}

type StmtFunData struct {
	Fun PayloadID // index into Items.Funs
}

type Stmts struct {
	Arena    *Arena[Stmt]
	Exprs    *Arena[StmtExprData]
	Blocks   *Arena[StmtBlockData]
	Ifs      *Arena[StmtIfData]
	Whiles   *Arena[StmtWhileData]
	Fors     *Arena[StmtForData]
	Foreachs *Arena[StmtForeachData]
	Switches *Arena[StmtSwitchData]
	Tries    *Arena[StmtTryData]
	Funs     *Arena[StmtFunData]
}

func NewStmts(capHint uint) *Stmts {
	if capHint == 0 {
		capHint = 1 << 8
	}
	return &Stmts{
		Arena:    NewArena[Stmt](capHint),
		Exprs:    NewArena[StmtExprData](capHint),
		Blocks:   NewArena[StmtBlockData](capHint),
		Ifs:      NewArena[StmtIfData](capHint),
		Whiles:   NewArena[StmtWhileData](capHint),
		Fors:     NewArena[StmtForData](capHint),
		Foreachs: NewArena[StmtForeachData](capHint),
		Switches: NewArena[StmtSwitchData](capHint),
		Tries:    NewArena[StmtTryData](capHint),
		Funs:     NewArena[StmtFunData](capHint),
	}
}

func (s *Stmts) New(kind StmtKind, span source.Span) StmtID {
	return s.new(kind, span, NoPayloadID)
}

func (s *Stmts) new(kind StmtKind, span source.Span, payload PayloadID) StmtID {
	return StmtID(s.Arena.Allocate(Stmt{
		Kind:    kind,
		Span:    span,
		Payload: payload,
	}))
}

func (s *Stmts) Get(id StmtID) *Stmt {
	return s.Arena.Get(uint32(id))
}

func (s *Stmts) payload(id StmtID, kinds ...StmtKind) (uint32, bool) {
	st := s.Get(id)
	if st == nil {
		return 0, false
	}
	for _, k := range kinds {
		if st.Kind == k {
			return uint32(st.Payload), true
		}
	}
	return 0, false
}

func (s *Stmts) NewExpr(span source.Span, expr ExprID) StmtID {
	payload := s.Exprs.Allocate(StmtExprData{Expr: expr})
	return s.new(StmtExpr, span, PayloadID(payload))
}

// NewReturn creates a return statement; expr may be NoExprID.
func (s *Stmts) NewReturn(span source.Span, expr ExprID) StmtID {
	payload := s.Exprs.Allocate(StmtExprData{Expr: expr})
	return s.new(StmtReturn, span, PayloadID(payload))
}

func (s *Stmts) NewThrow(span source.Span, expr ExprID) StmtID {
	payload := s.Exprs.Allocate(StmtExprData{Expr: expr})
	return s.new(StmtThrow, span, PayloadID(payload))
}

// ExprData returns the payload of expr, return and throw statements.
func (s *Stmts) ExprData(id StmtID) (*StmtExprData, bool) {
	p, ok := s.payload(id, StmtExpr, StmtReturn, StmtThrow)
	if !ok {
		return nil, false
	}
	return s.Exprs.Get(p), true
}

func (s *Stmts) NewBlock(span source.Span, stmts []StmtID) StmtID {
	payload := s.Blocks.Allocate(StmtBlockData{Stmts: append([]StmtID(nil), stmts...)})
	return s.new(StmtBlock, span, PayloadID(payload))
}

func (s *Stmts) Block(id StmtID) (*StmtBlockData, bool) {
	p, ok := s.payload(id, StmtBlock)
	if !ok {
		return nil, false
	}
	return s.Blocks.Get(p), true
}

func (s *Stmts) NewIf(span source.Span, cond ExprID, then, els StmtID) StmtID {
	payload := s.Ifs.Allocate(StmtIfData{Cond: cond, Then: then, Else: els})
	return s.new(StmtIf, span, PayloadID(payload))
}

func (s *Stmts) If(id StmtID) (*StmtIfData, bool) {
	p, ok := s.payload(id, StmtIf)
	if !ok {
		return nil, false
	}
	return s.Ifs.Get(p), true
}

func (s *Stmts) NewWhile(span source.Span, cond ExprID, body StmtID) StmtID {
	payload := s.Whiles.Allocate(StmtWhileData{Cond: cond, Body: body})
	return s.new(StmtWhile, span, PayloadID(payload))
}

func (s *Stmts) NewDoWhile(span source.Span, body StmtID, cond ExprID) StmtID {
	payload := s.Whiles.Allocate(StmtWhileData{Cond: cond, Body: body})
	return s.new(StmtDoWhile, span, PayloadID(payload))
}

// While returns the payload of while and do-while statements.
func (s *Stmts) While(id StmtID) (*StmtWhileData, bool) {
	p, ok := s.payload(id, StmtWhile, StmtDoWhile)
	if !ok {
		return nil, false
	}
	return s.Whiles.Get(p), true
}

func (s *Stmts) NewFor(span source.Span, data StmtForData) StmtID {
	payload := s.Fors.Allocate(data)
	return s.new(StmtFor, span, PayloadID(payload))
}

func (s *Stmts) For(id StmtID) (*StmtForData, bool) {
	p, ok := s.payload(id, StmtFor)
	if !ok {
		return nil, false
	}
	return s.Fors.Get(p), true
}

func (s *Stmts) NewForeach(span source.Span, data StmtForeachData) StmtID {
	payload := s.Foreachs.Allocate(data)
	return s.new(StmtForeach, span, PayloadID(payload))
}

func (s *Stmts) Foreach(id StmtID) (*StmtForeachData, bool) {
	p, ok := s.payload(id, StmtForeach)
	if !ok {
		return nil, false
	}
	return s.Foreachs.Get(p), true
}

func (s *Stmts) NewSwitch(span source.Span, subject ExprID, cases []SwitchCase) StmtID {
	payload := s.Switches.Allocate(StmtSwitchData{Subject: subject, Cases: append([]SwitchCase(nil), cases...)})
	return s.new(StmtSwitch, span, PayloadID(payload))
}

func (s *Stmts) Switch(id StmtID) (*StmtSwitchData, bool) {
	p, ok := s.payload(id, StmtSwitch)
	if !ok {
		return nil, false
	}
	return s.Switches.Get(p), true
}

func (s *Stmts) NewTry(span source.Span, body StmtID, catches []CatchClause, finally StmtID) StmtID {
	payload := s.Tries.Allocate(StmtTryData{Body: body, Catches: append([]CatchClause(nil), catches...), Finally: finally})
	return s.new(StmtTry, span, PayloadID(payload))
}

func (s *Stmts) Try(id StmtID) (*StmtTryData, bool) {
	p, ok := s.payload(id, StmtTry)
	if !ok {
		return nil, false
	}
	return s.Tries.Get(p), true
}

func (s *Stmts) NewFun(span source.Span, fun PayloadID) StmtID {
	payload := s.Funs.Allocate(StmtFunData{Fun: fun})
	return s.new(StmtFun, span, PayloadID(payload))
}

func (s *Stmts) Fun(id StmtID) (*StmtFunData, bool) {
	p, ok := s.payload(id, StmtFun)
	if !ok {
		return nil, false
	}
	return s.Funs.Get(p), true
}
