package sema

import (
	"slices"

	"vela/internal/diag"
	"vela/internal/source"
)

// supersedes is the single global precedence table between overlapping
// diagnostics: once a key code has fired for a site, the listed codes stay
// silent for the same site within the same pass. "More specific wins" is
// fixed here rather than decided per call site.
var supersedes = map[diag.Code][]diag.Code{
	// A misused void result explains every downstream type mismatch of the
	// same expression.
	diag.SemaUseOfVoidResult: {
		diag.SemaArgumentNotAssignable,
		diag.SemaInvalidAssignment,
		diag.SemaReturnOfInvalidType,
		diag.SemaYieldOfInvalidType,
		diag.SemaListElementNotAssignable,
	},
	// A const constructor in a class with mutable state cannot be fixed by
	// changing the super call.
	diag.SemaConstCtorNonFinalField: {
		diag.SemaConstCtorNonConstSuper,
	},
	// A redirect cycle makes every per-target redirect complaint noise.
	diag.SemaRecursiveCtorRedirect: {
		diag.SemaConstCtorRedirectNonConst,
	},
	// When the default super constructor is missing entirely, its shape is
	// irrelevant.
	diag.SemaMissingDefaultSuperCtor: {
		diag.SemaNonGenerativeSuperCtor,
		diag.SemaImplicitSuperHasRequiredParams,
	},
}

// superseded reports whether a code already reported for site outranks code.
func (v *verifier) superseded(site source.Span, code diag.Code) bool {
	prior, ok := v.fired[site]
	if !ok {
		return false
	}
	for _, p := range prior {
		if slices.Contains(supersedes[p], code) {
			return true
		}
	}
	return false
}
