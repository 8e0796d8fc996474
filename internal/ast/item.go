package ast

import (
	"rocheck/internal/source"
)

type ItemKind uint8

const (
	// ItemFun is a top-level function declaration.
	ItemFun ItemKind = iota
	// ItemClass is a class with its methods.
	ItemClass
	// ItemStmt is a statement at program level, outside any declaration.
	ItemStmt
)

type Item struct {
	Kind    ItemKind
	Span    source.Span
	Payload PayloadID
}

// ReadonlyKind is the declared this-mutability of a free function.
type ReadonlyKind uint8

const (
	ReadonlyKindNone ReadonlyKind = iota
	ReadonlyKindReadonly
)

// FunItem describes a function declaration. The same record backs
// top-level functions and functions declared inside a body.
type FunItem struct {
	Name           source.StringID
	Params         []ParamID
	ReadonlyReturn bool
	ThisKind       ReadonlyKind
	Body           StmtID
	Span           source.Span
}

// ClassItem groups methods under a class name.
type ClassItem struct {
	Name    source.StringID
	Methods []MethodID
	Span    source.Span
}

// MethodDecl is a method of a class. ReadonlyThis marks `readonly function`.
type MethodDecl struct {
	Name           source.StringID
	Params         []ParamID
	ReadonlyReturn bool
	ReadonlyThis   bool
	Static         bool
	Body           StmtID
	Span           source.Span
}

// Param is a function, method or lambda parameter.
type Param struct {
	Name     source.StringID
	Readonly bool
	Span     source.Span
}

type ItemStmtData struct {
	Stmt StmtID
}

type Items struct {
	Arena   *Arena[Item]
	Funs    *Arena[FunItem]
	Classes *Arena[ClassItem]
	Methods *Arena[MethodDecl]
	Params  *Arena[Param]
	Stmts   *Arena[ItemStmtData]
}

// NewItems creates per-kind item arenas. If capHint is 0 a default of 1<<7 is used.
func NewItems(capHint uint) *Items {
	if capHint == 0 {
		capHint = 1 << 7
	}
	return &Items{
		Arena:   NewArena[Item](capHint),
		Funs:    NewArena[FunItem](capHint),
		Classes: NewArena[ClassItem](capHint),
		Methods: NewArena[MethodDecl](capHint),
		Params:  NewArena[Param](capHint),
		Stmts:   NewArena[ItemStmtData](capHint),
	}
}

func (i *Items) Get(id ItemID) *Item {
	return i.Arena.Get(uint32(id))
}

func (i *Items) new(kind ItemKind, span source.Span, payload PayloadID) ItemID {
	return ItemID(i.Arena.Allocate(Item{Kind: kind, Span: span, Payload: payload}))
}

// NewParam allocates a parameter record.
func (i *Items) NewParam(span source.Span, name source.StringID, readonly bool) ParamID {
	return ParamID(i.Params.Allocate(Param{Name: name, Readonly: readonly, Span: span}))
}

func (i *Items) Param(id ParamID) *Param {
	return i.Params.Get(uint32(id))
}

// NewFunDecl allocates a function record without wrapping it into an Item.
// Local function statements point at such records directly.
func (i *Items) NewFunDecl(fn FunItem) PayloadID {
	fn.Params = append([]ParamID(nil), fn.Params...)
	return PayloadID(i.Funs.Allocate(fn))
}

func (i *Items) FunDecl(id PayloadID) *FunItem {
	return i.Funs.Get(uint32(id))
}

func (i *Items) NewFun(fn FunItem) ItemID {
	payload := i.NewFunDecl(fn)
	return i.new(ItemFun, fn.Span, payload)
}

func (i *Items) Fun(id ItemID) (*FunItem, bool) {
	item := i.Get(id)
	if item == nil || item.Kind != ItemFun {
		return nil, false
	}
	return i.Funs.Get(uint32(item.Payload)), true
}

func (i *Items) NewMethod(decl MethodDecl) MethodID {
	decl.Params = append([]ParamID(nil), decl.Params...)
	return MethodID(i.Methods.Allocate(decl))
}

func (i *Items) Method(id MethodID) *MethodDecl {
	return i.Methods.Get(uint32(id))
}

func (i *Items) NewClass(span source.Span, name source.StringID, methods []MethodID) ItemID {
	payload := i.Classes.Allocate(ClassItem{
		Name:    name,
		Methods: append([]MethodID(nil), methods...),
		Span:    span,
	})
	return i.new(ItemClass, span, PayloadID(payload))
}

func (i *Items) Class(id ItemID) (*ClassItem, bool) {
	item := i.Get(id)
	if item == nil || item.Kind != ItemClass {
		return nil, false
	}
	return i.Classes.Get(uint32(item.Payload)), true
}

func (i *Items) NewStmtItem(span source.Span, stmt StmtID) ItemID {
	payload := i.Stmts.Allocate(ItemStmtData{Stmt: stmt})
	return i.new(ItemStmt, span, PayloadID(payload))
}

func (i *Items) StmtItem(id ItemID) (*ItemStmtData, bool) {
	item := i.Get(id)
	if item == nil || item.Kind != ItemStmt {
		return nil, false
	}
	return i.Stmts.Get(uint32(item.Payload)), true
}
