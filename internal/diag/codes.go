package diag

import (
	"fmt"
)

// Code identifies one diagnostic kind. Codes are stable across releases: new
// checks append inside their band, removed checks leave holes.
type Code uint16

const (
	UnknownCode Code = 0

	// Semantic verification (band 3000-3999).
	SemaInfo Code = 3000

	// Scope chain.
	SemaReferencedBeforeDeclaration Code = 3001

	// Assignability.
	SemaUseOfVoidResult         Code = 3010
	SemaArgumentNotAssignable   Code = 3011
	SemaInvalidAssignment       Code = 3012
	SemaReturnOfInvalidType     Code = 3013
	SemaYieldOfInvalidType      Code = 3014
	SemaListElementNotAssignable Code = 3015

	// Constructors.
	SemaConstCtorNonFinalField         Code = 3030
	SemaConstCtorNonConstSuper         Code = 3031
	SemaConstCtorRedirectNonConst      Code = 3032
	SemaRecursiveCtorRedirect          Code = 3033
	SemaMissingDefaultSuperCtor        Code = 3034
	SemaNonGenerativeSuperCtor         Code = 3035
	SemaImplicitSuperHasRequiredParams Code = 3036
	SemaFinalFieldNotInitialized       Code = 3037
	SemaNonNullableFieldNotInitialized Code = 3038

	// Inheritance and mixin application legality.
	SemaExtendsDisallowedType           Code = 3050
	SemaImplementsDisallowedType        Code = 3051
	SemaMixinOfDisallowedType           Code = 3052
	SemaExtendsDeferredType             Code = 3053
	SemaImplementsDeferredType          Code = 3054
	SemaMixinDeferredType               Code = 3055
	SemaMixinConstraintNotSatisfied     Code = 3056
	SemaMixinSuperInvokedMemberMissing  Code = 3057
	SemaMixinSuperInvokedMemberMismatch Code = 3058

	// Mixin type-argument inference.
	SemaMixinInferenceNoMatch           Code = 3060
	SemaMixinInferenceInconsistentMatch Code = 3061
	SemaMixinInferenceNoUnification     Code = 3062

	// Variance legality.
	SemaVarianceInvalidPosition       Code = 3070
	SemaVarianceInvalidSuperinterface Code = 3071

	// Control flow: returns, yields, switches.
	SemaReturnInGenerator               Code = 3080
	SemaReturnInGenerativeCtor          Code = 3081
	SemaReturnWithoutValue              Code = 3082
	SemaIllegalAsyncReturnType          Code = 3083
	SemaIllegalAsyncGeneratorReturnType Code = 3084
	SemaIllegalSyncGeneratorReturnType  Code = 3085
	SemaYieldOutsideGenerator           Code = 3086
	SemaSwitchMissingEnumConstant       Code = 3087
	SemaSwitchCaseFallsThrough          Code = 3088
	SemaRethrowOutsideCatch             Code = 3089

	// Reference legality.
	SemaStaticAccessThroughInstance Code = 3100
	SemaInstanceAccessThroughType   Code = 3101
	SemaThisInStaticMember          Code = 3102
	SemaThisInFactory               Code = 3103
	SemaThisInInitializer           Code = 3104
	SemaThisInFieldInitializer      Code = 3105
	SemaUnqualifiedAncestorStatic   Code = 3106

	// Import/export hygiene.
	SemaDuplicateImportLibraryName Code = 3120
	SemaDuplicateExportLibraryName Code = 3121
	SemaInternalLibraryImport      Code = 3122
	SemaInternalLibraryExport      Code = 3123
	SemaSharedDeferredPrefix       Code = 3124

	// Driver / IO (band 4000-4999).
	IOReadFailed Code = 4001
	IOCacheWrite Code = 4002

	// Project configuration (band 5000-5999).
	PrjBadManifest Code = 5001
)

var codeDescription = map[Code]string{
	UnknownCode: "unknown diagnostic",

	SemaInfo:                        "semantic info",
	SemaReferencedBeforeDeclaration: "identifier referenced before its declaration",

	SemaUseOfVoidResult:          "void result used as a value",
	SemaArgumentNotAssignable:    "argument type is not assignable to parameter type",
	SemaInvalidAssignment:        "value type is not assignable to target type",
	SemaReturnOfInvalidType:      "returned value type does not match return type",
	SemaYieldOfInvalidType:       "yielded value type does not match element type",
	SemaListElementNotAssignable: "collection element type is not assignable",

	SemaConstCtorNonFinalField:         "const constructor in class with non-final field",
	SemaConstCtorNonConstSuper:         "const constructor invokes non-const super constructor",
	SemaConstCtorRedirectNonConst:      "const constructor redirects to non-const constructor",
	SemaRecursiveCtorRedirect:          "constructor redirection forms a cycle",
	SemaMissingDefaultSuperCtor:        "superclass has no default constructor",
	SemaNonGenerativeSuperCtor:         "implicitly invoked super constructor is a factory",
	SemaImplicitSuperHasRequiredParams: "implicitly invoked super constructor requires arguments",
	SemaFinalFieldNotInitialized:       "final field is not initialized",
	SemaNonNullableFieldNotInitialized: "non-nullable field is not initialized",

	SemaExtendsDisallowedType:           "class extends a disallowed type",
	SemaImplementsDisallowedType:        "class implements a disallowed type",
	SemaMixinOfDisallowedType:           "class mixes in a disallowed type",
	SemaExtendsDeferredType:             "class extends a deferred type",
	SemaImplementsDeferredType:          "class implements a deferred type",
	SemaMixinDeferredType:               "class mixes in a deferred type",
	SemaMixinConstraintNotSatisfied:     "mixin application does not implement required interface",
	SemaMixinSuperInvokedMemberMissing:  "no concrete implementation for super-invoked member",
	SemaMixinSuperInvokedMemberMismatch: "concrete implementation of super-invoked member has incompatible type",

	SemaMixinInferenceNoMatch:           "no matching superclass constraint for mixin type inference",
	SemaMixinInferenceInconsistentMatch: "conflicting superclass constraint matches for mixin type inference",
	SemaMixinInferenceNoUnification:     "mixin type arguments cannot be inferred consistently",

	SemaVarianceInvalidPosition:       "type parameter used in an incompatible variance position",
	SemaVarianceInvalidSuperinterface: "type parameter variance incompatible with superinterface position",

	SemaReturnInGenerator:               "generators cannot return a value",
	SemaReturnInGenerativeCtor:          "generative constructors cannot return a value",
	SemaReturnWithoutValue:              "missing return value",
	SemaIllegalAsyncReturnType:          "async function return type is not a supertype of Future",
	SemaIllegalAsyncGeneratorReturnType: "async generator return type is not a supertype of Stream",
	SemaIllegalSyncGeneratorReturnType:  "sync generator return type is not a supertype of Iterable",
	SemaYieldOutsideGenerator:           "yield used outside a generator",
	SemaSwitchMissingEnumConstant:       "switch over enum does not cover constant",
	SemaSwitchCaseFallsThrough:          "switch case falls through",
	SemaRethrowOutsideCatch:             "rethrow used outside a catch clause",

	SemaStaticAccessThroughInstance: "static member accessed through an instance",
	SemaInstanceAccessThroughType:   "instance member accessed through a type",
	SemaThisInStaticMember:          "self-reference in a static member",
	SemaThisInFactory:               "self-reference in a factory constructor",
	SemaThisInInitializer:           "self-reference in a constructor initializer",
	SemaThisInFieldInitializer:      "self-reference in an instance field initializer",
	SemaUnqualifiedAncestorStatic:   "unqualified reference to a static member of an ancestor class",

	SemaDuplicateImportLibraryName: "imported libraries declare the same name",
	SemaDuplicateExportLibraryName: "exported libraries declare the same name",
	SemaInternalLibraryImport:      "internal platform library cannot be imported",
	SemaInternalLibraryExport:      "internal platform library cannot be exported",
	SemaSharedDeferredPrefix:       "deferred imports share a prefix",

	IOReadFailed:   "failed to read source file",
	IOCacheWrite:   "failed to persist diagnostic cache entry",
	PrjBadManifest: "invalid project manifest",
}

// ID returns the stable external form, e.g. "SEM3033".
func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("SEM%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("PRJ%04d", ic)
	}
	return "E0000"
}

// Title returns the short human description of the code.
func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}

// ParseCodeID parses the external form produced by ID, e.g. "SEM3033".
func ParseCodeID(s string) (Code, bool) {
	var n int
	if _, err := fmt.Sscanf(s, "SEM%d", &n); err != nil {
		if _, err := fmt.Sscanf(s, "IO%d", &n); err != nil {
			if _, err := fmt.Sscanf(s, "PRJ%d", &n); err != nil {
				return UnknownCode, false
			}
		}
	}
	if n < 0 || n > 0xFFFF {
		return UnknownCode, false
	}
	c := Code(n)
	if c.ID() != s {
		return UnknownCode, false
	}
	if _, known := codeDescription[c]; !known {
		return UnknownCode, false
	}
	return c, true
}
