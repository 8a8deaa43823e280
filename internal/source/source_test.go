package source

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSpanBasics(t *testing.T) {
	s := Span{File: 1, Start: 4, End: 9}
	if s.Empty() || s.Len() != 5 {
		t.Errorf("span arithmetic broken: %v", s)
	}
	if !s.Contains(4) || !s.Contains(8) || s.Contains(9) {
		t.Error("half-open containment broken")
	}

	covered := s.Cover(Span{File: 1, Start: 12, End: 20})
	if covered.Start != 4 || covered.End != 20 {
		t.Errorf("cover = %v", covered)
	}
	crossFile := s.Cover(Span{File: 2, Start: 0, End: 1})
	if crossFile != s {
		t.Errorf("cross-file cover changed the span: %v", crossFile)
	}
}

func TestAddVirtualAndResolve(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("main.vl", []byte("first\nsecond\nthird\n"))

	start, end := fs.Resolve(Span{File: id, Start: 6, End: 11})
	if start.Line != 2 || start.Col != 1 {
		t.Errorf("start = %+v, want 2:1", start)
	}
	if end.Line != 2 || end.Col != 6 {
		t.Errorf("end = %+v, want 2:6", end)
	}

	f := fs.Get(id)
	if f.Line(2) != "second" {
		t.Errorf("Line(2) = %q", f.Line(2))
	}
	if f.Line(99) != "" {
		t.Errorf("out-of-range line = %q", f.Line(99))
	}
	if f.Flags&FileVirtual == 0 {
		t.Error("virtual flag not set")
	}
}

func TestLoadNormalizesLineEndingsAndBOM(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "main.vl")
	raw := append([]byte{0xEF, 0xBB, 0xBF}, []byte("a\r\nb\r\n")...)
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		t.Fatal(err)
	}

	fs := NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	f := fs.Get(id)
	if string(f.Content) != "a\nb\n" {
		t.Errorf("content = %q, want normalized", f.Content)
	}
	if f.Flags&FileHadBOM == 0 || f.Flags&FileNormalizedCRLF == 0 {
		t.Errorf("normalization flags missing: %v", f.Flags)
	}
}

func TestHashIgnoresEncodingQuirks(t *testing.T) {
	dir := t.TempDir()
	plain := filepath.Join(dir, "plain.vl")
	quirky := filepath.Join(dir, "quirky.vl")
	if err := os.WriteFile(plain, []byte("x\ny\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	raw := append([]byte{0xEF, 0xBB, 0xBF}, []byte("x\r\ny\r\n")...)
	if err := os.WriteFile(quirky, raw, 0o644); err != nil {
		t.Fatal(err)
	}

	fs := NewFileSet()
	a, err := fs.Load(plain)
	if err != nil {
		t.Fatal(err)
	}
	b, err := fs.Load(quirky)
	if err != nil {
		t.Fatal(err)
	}
	if fs.Get(a).Hash != fs.Get(b).Hash {
		t.Error("equivalent sources hash differently")
	}
}

func TestGetLatestTracksReload(t *testing.T) {
	fs := NewFileSet()
	first := fs.AddVirtual("main.vl", []byte("one"))
	second := fs.AddVirtual("main.vl", []byte("two"))
	if first == second {
		t.Fatal("reload reused the file id")
	}
	latest, ok := fs.GetLatest("main.vl")
	if !ok || latest != second {
		t.Errorf("GetLatest = %v ok=%v, want %v", latest, ok, second)
	}
}

func TestInterner(t *testing.T) {
	in := NewInterner()
	a := in.Intern("foo")
	b := in.Intern("foo")
	c := in.Intern("bar")

	if a == NoStringID || a != b {
		t.Errorf("interning unstable: %v %v", a, b)
	}
	if c == a {
		t.Error("distinct strings share an id")
	}
	if s, ok := in.Lookup(a); !ok || s != "foo" {
		t.Errorf("Lookup = %q ok=%v", s, ok)
	}
	if s, ok := in.Lookup(NoStringID); !ok || s != "" {
		t.Errorf("empty string id = %q ok=%v", s, ok)
	}
	if _, ok := in.Lookup(StringID(99)); ok {
		t.Error("out-of-range id resolved")
	}
	if got := in.Snapshot(); len(got) != 3 || got[c] != "bar" {
		t.Errorf("snapshot = %v", got)
	}
}
