// Package testkit holds invariant checks shared by tests that assemble
// resolved trees by hand.
package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"vela/internal/ast"
	"vela/internal/source"
)

// CheckUnitInvariants runs a minimal set of span invariants on a unit:
// 1) unit.Span is non-empty and within file content bounds
// 2) every top-level decl span is non-empty and fully contained in unit.Span
// 3) every decl's NameSpan sits inside its Span
func CheckUnitInvariants(b *ast.Builder, unitID ast.UnitID, sf *source.File) error {
	if b == nil || sf == nil {
		return fmt.Errorf("nil builder or file")
	}
	unit := b.Units.Get(unitID)
	if unit == nil {
		return fmt.Errorf("unit not found")
	}

	if unit.Span.End <= unit.Span.Start {
		return fmt.Errorf("unit span is empty: %v", unit.Span)
	}
	if unit.Span.File != sf.ID {
		return fmt.Errorf("unit span points to different file id: got=%d want=%d", unit.Span.File, sf.ID)
	}
	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	if unit.Span.End > lenContent {
		return fmt.Errorf("unit span end beyond content: %d > %d", unit.Span.End, lenContent)
	}

	for _, id := range unit.Decls {
		decl := b.Decls.Get(id)
		if decl == nil {
			return fmt.Errorf("nil decl for id=%d", id)
		}
		sp := decl.Span
		if sp.End <= sp.Start {
			return fmt.Errorf("empty decl span: %v", sp)
		}
		if sp.File != sf.ID {
			return fmt.Errorf("decl span file mismatch: got=%d want=%d", sp.File, sf.ID)
		}
		if sp.Start < unit.Span.Start || sp.End > unit.Span.End {
			return fmt.Errorf("decl span %v is outside unit span %v", sp, unit.Span)
		}
		if !decl.NameSpan.Empty() {
			if decl.NameSpan.Start < sp.Start || decl.NameSpan.End > sp.End {
				return fmt.Errorf("decl name span %v is outside decl span %v", decl.NameSpan, sp)
			}
		}
	}
	return nil
}
