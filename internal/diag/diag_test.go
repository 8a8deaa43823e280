package diag

import (
	"testing"

	"vela/internal/source"
)

func spanAt(file source.FileID, start, end uint32) source.Span {
	return source.Span{File: file, Start: start, End: end}
}

func TestBagCap(t *testing.T) {
	bag := NewBag(2)
	if !bag.Add(Diagnostic{Code: SemaInfo}) || !bag.Add(Diagnostic{Code: SemaInfo}) {
		t.Fatal("adds under the cap rejected")
	}
	if bag.Add(Diagnostic{Code: SemaInfo}) {
		t.Error("add over the cap accepted")
	}
	if bag.Len() != 2 || bag.Cap() != 2 {
		t.Errorf("len=%d cap=%d", bag.Len(), bag.Cap())
	}
}

func TestBagSeverityQueries(t *testing.T) {
	bag := NewBag(8)
	bag.Add(Diagnostic{Severity: SevInfo, Code: SemaInfo})
	if bag.HasErrors() || bag.HasWarnings() {
		t.Error("info-only bag reports issues")
	}
	bag.Add(Diagnostic{Severity: SevWarning, Code: SemaInstanceAccessThroughType})
	if bag.HasErrors() || !bag.HasWarnings() {
		t.Error("warning not surfaced")
	}
	bag.Add(Diagnostic{Severity: SevError, Code: SemaReferencedBeforeDeclaration})
	if !bag.HasErrors() {
		t.Error("error not surfaced")
	}
}

func TestBagSort(t *testing.T) {
	bag := NewBag(8)
	bag.Add(Diagnostic{Severity: SevError, Code: SemaInvalidAssignment, Primary: spanAt(2, 5, 9)})
	bag.Add(Diagnostic{Severity: SevError, Code: SemaReferencedBeforeDeclaration, Primary: spanAt(1, 20, 24)})
	bag.Add(Diagnostic{Severity: SevWarning, Code: SemaStaticAccessThroughInstance, Primary: spanAt(1, 4, 8)})
	bag.Add(Diagnostic{Severity: SevError, Code: SemaUseOfVoidResult, Primary: spanAt(1, 4, 8)})
	bag.Sort()

	items := bag.Items()
	want := []Code{SemaUseOfVoidResult, SemaStaticAccessThroughInstance, SemaReferencedBeforeDeclaration, SemaInvalidAssignment}
	for i, code := range want {
		if items[i].Code != code {
			t.Fatalf("items[%d].Code = %v, want %v", i, items[i].Code, code)
		}
	}
}

func TestBagMergeGrowsCap(t *testing.T) {
	a := NewBag(1)
	a.Add(Diagnostic{Code: SemaInfo, Primary: spanAt(1, 0, 1)})
	b := NewBag(2)
	b.Add(Diagnostic{Code: SemaUseOfVoidResult, Primary: spanAt(2, 0, 1)})
	b.Add(Diagnostic{Code: SemaInvalidAssignment, Primary: spanAt(2, 2, 3)})

	a.Merge(b)
	if a.Len() != 3 {
		t.Fatalf("merged len = %d", a.Len())
	}
	if a.Items()[1].Code != SemaUseOfVoidResult || a.Items()[2].Code != SemaInvalidAssignment {
		t.Error("merge broke relative order")
	}
}

func TestReportBuilder(t *testing.T) {
	bag := NewBag(4)
	ReportError(BagReporter{Bag: bag}, SemaArgumentNotAssignable, spanAt(1, 10, 14), "argument of type int is not assignable").
		WithArgs("int", "String").
		WithNote(spanAt(1, 2, 6), "parameter declared here").
		Emit()

	if bag.Len() != 1 {
		t.Fatalf("bag len = %d", bag.Len())
	}
	d := bag.Items()[0]
	if d.Severity != SevError || d.Code != SemaArgumentNotAssignable {
		t.Errorf("header = %v %v", d.Severity, d.Code)
	}
	if len(d.Args) != 2 || d.Args[1] != "String" {
		t.Errorf("args = %v", d.Args)
	}
	if len(d.Notes) != 1 || d.Notes[0].Msg != "parameter declared here" {
		t.Errorf("notes = %v", d.Notes)
	}
}

func TestReportBuilderEmitsOnce(t *testing.T) {
	bag := NewBag(4)
	b := ReportWarning(BagReporter{Bag: bag}, SemaStaticAccessThroughInstance, spanAt(1, 0, 3), "static member accessed through instance")
	b.Emit()
	b.Emit()
	if bag.Len() != 1 {
		t.Errorf("bag len = %d, want 1", bag.Len())
	}
}

func TestDedupReporter(t *testing.T) {
	bag := NewBag(8)
	r := NewDedupReporter(BagReporter{Bag: bag})

	d := Diagnostic{Severity: SevError, Code: SemaInvalidAssignment, Primary: spanAt(1, 4, 8), Message: "bad assignment"}
	r.Report(d)
	r.Report(d)
	if bag.Len() != 1 {
		t.Fatalf("duplicate not suppressed: len = %d", bag.Len())
	}

	shifted := d
	shifted.Primary.Start = 5
	r.Report(shifted)
	reworded := d
	reworded.Message = "other message"
	r.Report(reworded)
	if bag.Len() != 3 {
		t.Errorf("distinct diagnostics suppressed: len = %d", bag.Len())
	}
}

func TestCodeID(t *testing.T) {
	cases := []struct {
		code Code
		want string
	}{
		{SemaReferencedBeforeDeclaration, "SEM3001"},
		{SemaRecursiveCtorRedirect, "SEM3033"},
		{IOReadFailed, "IO4001"},
		{PrjBadManifest, "PRJ5001"},
	}
	for _, tc := range cases {
		if got := tc.code.ID(); got != tc.want {
			t.Errorf("%d.ID() = %q, want %q", tc.code, got, tc.want)
		}
	}
}

func TestParseCodeID(t *testing.T) {
	if code, ok := ParseCodeID("SEM3033"); !ok || code != SemaRecursiveCtorRedirect {
		t.Errorf("ParseCodeID(SEM3033) = %v %v", code, ok)
	}
	if code, ok := ParseCodeID("IO4002"); !ok || code != IOCacheWrite {
		t.Errorf("ParseCodeID(IO4002) = %v %v", code, ok)
	}
	for _, bad := range []string{"SEM9999", "SEM3001x", "sem3001", "XYZ1", ""} {
		if _, ok := ParseCodeID(bad); ok {
			t.Errorf("ParseCodeID(%q) accepted", bad)
		}
	}
}

func TestParseSeverity(t *testing.T) {
	if sev, ok := ParseSeverity("warn"); !ok || sev != SevWarning {
		t.Errorf("warn = %v %v", sev, ok)
	}
	if sev, ok := ParseSeverity("error"); !ok || sev != SevError {
		t.Errorf("error = %v %v", sev, ok)
	}
	if _, ok := ParseSeverity("fatal"); ok {
		t.Error("fatal accepted")
	}
}
