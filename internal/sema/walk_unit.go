package sema

import (
	"vela/internal/ast"
	"vela/internal/diag"
)

func (v *verifier) walkUnit(id ast.UnitID) {
	unit := v.builder.Units.Get(id)
	if !v.contract(unit != nil, "unit must exist") {
		return
	}
	ctx := context{unit: id, library: unit.Library, isStatic: true}
	v.checkDirectives(unit)
	for _, d := range unit.Decls {
		v.walkTopDecl(d, ctx)
	}
}

// checkDirectives applies the import/export hygiene rules over the whole
// directive list in source order.
func (v *verifier) checkDirectives(unit *ast.Unit) {
	if v.libs == nil {
		return
	}
	type firstSeen struct {
		dir ast.DirectiveID
	}
	importNames := make(map[string]firstSeen)
	exportNames := make(map[string]firstSeen)
	deferredPrefixes := make(map[string]firstSeen)
	fromPlatform := v.libs.IsPlatform(unit.Library)

	for _, did := range unit.Directives {
		d := v.builder.Units.Directive(did)
		if d == nil || !d.Target.IsValid() {
			continue // unresolved import: upstream already complained
		}
		name := v.libs.Name(d.Target)
		switch d.Kind {
		case ast.DirImport:
			if name != "" {
				if prev, ok := importNames[name]; ok {
					if prevDir := v.builder.Units.Directive(prev.dir); prevDir != nil && prevDir.Target != d.Target {
						v.reportNote(diag.SemaDuplicateImportLibraryName, d.Span, d.Span,
							prevDir.Span, "other library imported here",
							"imported libraries both declare the name '%s'", name)
					}
				} else {
					importNames[name] = firstSeen{dir: did}
				}
			}
			if v.libs.IsInternal(d.Target) && !fromPlatform {
				v.report(diag.SemaInternalLibraryImport, d.Span, d.Span,
					"internal library '%s' cannot be imported", v.name(d.URI))
			}
			if d.Deferred && d.Prefix != 0 {
				prefix := v.name(d.Prefix)
				if prev, ok := deferredPrefixes[prefix]; ok {
					prevDir := v.builder.Units.Directive(prev.dir)
					noteSpan := d.Span
					if prevDir != nil {
						noteSpan = prevDir.Span
					}
					v.reportNote(diag.SemaSharedDeferredPrefix, d.Span, d.Span,
						noteSpan, "other deferred import here",
						"deferred imports cannot share the prefix '%s'", prefix)
				} else {
					deferredPrefixes[prefix] = firstSeen{dir: did}
				}
			}
		case ast.DirExport:
			if name != "" {
				if prev, ok := exportNames[name]; ok {
					if prevDir := v.builder.Units.Directive(prev.dir); prevDir != nil && prevDir.Target != d.Target {
						v.reportNote(diag.SemaDuplicateExportLibraryName, d.Span, d.Span,
							prevDir.Span, "other library exported here",
							"exported libraries both declare the name '%s'", name)
					}
				} else {
					exportNames[name] = firstSeen{dir: did}
				}
			}
			if v.libs.IsInternal(d.Target) && !fromPlatform {
				v.report(diag.SemaInternalLibraryExport, d.Span, d.Span,
					"internal library '%s' cannot be exported", v.name(d.URI))
			}
		}
	}
}
