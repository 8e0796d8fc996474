package testkit

import (
	"fmt"

	"rocheck/internal/ast"
	"rocheck/internal/source"
)

// CheckSpanInvariants runs span sanity checks on a decoded file:
// no item span is inverted or points into another source file,
// and the file span covers every item.
func CheckSpanInvariants(b *ast.Builder, fileID ast.FileID) error {
	if b == nil {
		return fmt.Errorf("nil builder")
	}
	f := b.Files.Get(fileID)
	if f == nil {
		return fmt.Errorf("file node not found")
	}
	if f.Span.End < f.Span.Start {
		return fmt.Errorf("file span is inverted: %v", f.Span)
	}
	for _, it := range f.Items {
		item := b.Items.Get(it)
		if item == nil {
			return fmt.Errorf("nil item for id=%d", it)
		}
		sp := item.Span
		if sp.End < sp.Start {
			return fmt.Errorf("inverted item span: %v", sp)
		}
		if sp.File != f.Span.File {
			return fmt.Errorf("item span file mismatch: got=%d want=%d", sp.File, f.Span.File)
		}
		if !f.Span.Contains(sp) {
			return fmt.Errorf("item span %v is outside file span %v", sp, f.Span)
		}
	}
	return nil
}

// CheckWrapInvariants verifies the shape of pass-made wrappers across the
// whole expression arena: every synthetic node is a readonly wrapper with the
// span of the node it wraps, and a readonly node is never wrapped again.
// It returns the number of synthetic wrappers.
func CheckWrapInvariants(b *ast.Builder) (int, error) {
	if b == nil {
		return 0, fmt.Errorf("nil builder")
	}
	count := 0
	for i := uint32(1); i <= b.Exprs.Arena.Len(); i++ {
		id := ast.ExprID(i)
		if !b.Exprs.IsSynthetic(id) {
			continue
		}
		count++
		wrapper := b.Exprs.Get(id)
		data, ok := b.Exprs.Wrap(id)
		if wrapper.Kind != ast.ExprReadonly || !ok {
			return count, fmt.Errorf("synthetic expr %d is not a readonly wrapper", id)
		}
		inner := b.Exprs.Get(data.Inner)
		if inner == nil {
			return count, fmt.Errorf("wrapper %d points at missing expr %d", id, data.Inner)
		}
		if inner.Kind == ast.ExprReadonly {
			return count, fmt.Errorf("wrapper %d wraps readonly expr %d", id, data.Inner)
		}
		if inner.Span != wrapper.Span {
			return count, fmt.Errorf("wrapper %d span %v differs from inner %v", id, wrapper.Span, inner.Span)
		}
	}
	return count, nil
}

// SpanText returns the source text under sp or "" when out of range.
func SpanText(f *source.File, sp source.Span) string {
	if f == nil || sp.End < sp.Start || int(sp.End) > len(f.Content) {
		return ""
	}
	return string(f.Content[sp.Start:sp.End])
}
