package ast

// WrapReadonly turns the node at id into an explicit readonly wrapper in place.
// The original node is moved to a fresh slot and the slot at id becomes
// ExprReadonly pointing at it, so every parent that refers to id now sees the
// wrapper. The returned id is the moved node.
//
// A node that already is ExprReadonly is left alone; the call reports false and
// returns the existing inner node.
func (e *Exprs) WrapReadonly(id ExprID) (ExprID, bool) {
	expr := e.Get(id)
	if expr == nil {
		return NoExprID, false
	}
	if expr.Kind == ExprReadonly {
		return e.Wraps.Get(uint32(expr.Payload)).Inner, false
	}

	moved := *expr // копия до Allocate: указатель станет невалидным
	inner := ExprID(e.Arena.Allocate(moved))
	payload := e.Wraps.Allocate(ExprWrapData{Inner: inner})

	slot := e.Get(id)
	slot.Kind = ExprReadonly
	slot.Payload = PayloadID(payload)
	slot.Flags = ExprSynthetic
	return inner, true
}

// IsSynthetic reports whether id was created by a pass.
func (e *Exprs) IsSynthetic(id ExprID) bool {
	expr := e.Get(id)
	return expr != nil && expr.Flags&ExprSynthetic != 0
}
