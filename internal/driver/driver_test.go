package driver

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"vela/internal/ast"
	"vela/internal/diag"
	"vela/internal/members"
	"vela/internal/meta"
	"vela/internal/project"
	"vela/internal/sema"
	"vela/internal/source"
	"vela/internal/testkit"
	"vela/internal/types"
)

// fakeFrontend resolves each file into a one-function unit whose body
// references a local before declaring it, so every unit yields exactly one
// deterministic diagnostic. Spans stay within the real file content.
type fakeFrontend struct{}

func (fakeFrontend) Resolve(_ context.Context, fset *source.FileSet, files []source.FileID) (*Program, error) {
	ts := types.NewSystem()
	libs := meta.NewRegistry()
	prog := &Program{
		Types:     ts,
		Members:   members.NewResolver(),
		Libraries: libs,
	}

	for _, id := range files {
		file := fset.Get(id)
		b := ast.NewBuilder(ast.Hints{})
		lib := libs.Add(meta.Library{Name: "app", URI: "package:" + file.Path, NullSafe: true})
		clen := uint32(len(file.Content))
		sp := func(start, end uint32) source.Span {
			return source.Span{File: id, Start: start, End: end}
		}
		unit := b.Units.New(lib, b.Strings.Intern("app"), sp(0, clen))

		ints := ts.Builtins().Int
		v := b.Decls.New(ast.DeclVar, b.Strings.Intern("x"), sp(8, 9), sp(8, 9), 0)
		b.Decls.SetVar(v, ast.VarDecl{VKind: ast.VarLocal, Type: ints})
		use := b.Exprs.NewIdent(sp(4, 5), ints, ast.IdentExpr{
			Name:  b.Strings.Intern("x"),
			Ref:   v,
			State: ast.RefResolved,
		})
		body := b.Stmts.NewBlock(sp(0, clen), []ast.StmtID{
			b.Stmts.NewExpr(sp(4, 5), use),
			b.Stmts.NewVarDecl(sp(8, 9), v),
		})
		fn := b.Decls.New(ast.DeclFunc, b.Strings.Intern("main"), sp(0, clen), sp(0, 4), 0)
		b.Decls.SetFunc(fn, ast.FuncDecl{
			FKind:      ast.FuncTopLevel,
			Return:     ts.Builtins().Void,
			ReturnSpan: sp(0, 4),
			Body:       body,
		})
		b.Units.PushDecl(unit, fn)

		prog.Units = append(prog.Units, Unit{Path: file.Path, File: id, Builder: b, AST: unit})
	}
	return prog, nil
}

// skewedFrontend resolves each file into a unit that fires two diagnostics
// whose primary spans run backwards: the first use sits at a higher offset
// than the second.
type skewedFrontend struct{}

func (skewedFrontend) Resolve(_ context.Context, fset *source.FileSet, files []source.FileID) (*Program, error) {
	ts := types.NewSystem()
	libs := meta.NewRegistry()
	prog := &Program{
		Types:     ts,
		Members:   members.NewResolver(),
		Libraries: libs,
	}

	for _, id := range files {
		file := fset.Get(id)
		b := ast.NewBuilder(ast.Hints{})
		lib := libs.Add(meta.Library{Name: "app", URI: "package:" + file.Path, NullSafe: true})
		sp := func(start, end uint32) source.Span {
			return source.Span{File: id, Start: start, End: end}
		}
		unit := b.Units.New(lib, b.Strings.Intern("app"), sp(0, uint32(len(file.Content))))

		ints := ts.Builtins().Int
		v := b.Decls.New(ast.DeclVar, b.Strings.Intern("x"), sp(8, 9), sp(8, 9), 0)
		b.Decls.SetVar(v, ast.VarDecl{VKind: ast.VarLocal, Type: ints})
		ident := func(span source.Span) ast.ExprID {
			return b.Exprs.NewIdent(span, ints, ast.IdentExpr{
				Name:  b.Strings.Intern("x"),
				Ref:   v,
				State: ast.RefResolved,
			})
		}
		body := b.Stmts.NewBlock(sp(0, 10), []ast.StmtID{
			b.Stmts.NewExpr(sp(6, 7), ident(sp(6, 7))),
			b.Stmts.NewExpr(sp(2, 3), ident(sp(2, 3))),
			b.Stmts.NewVarDecl(sp(8, 9), v),
		})
		fn := b.Decls.New(ast.DeclFunc, b.Strings.Intern("main"), sp(0, 10), sp(0, 4), 0)
		b.Decls.SetFunc(fn, ast.FuncDecl{
			FKind:      ast.FuncTopLevel,
			Return:     ts.Builtins().Void,
			ReturnSpan: sp(0, 4),
			Body:       body,
		})
		b.Units.PushDecl(unit, fn)

		prog.Units = append(prog.Units, Unit{Path: file.Path, File: id, Builder: b, AST: unit})
	}
	return prog, nil
}

var _ sema.TypeOracle = (*types.System)(nil)

func writeSources(t *testing.T, names map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range names {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestVerifyDirReportsPerUnit(t *testing.T) {
	dir := writeSources(t, map[string]string{
		"b.vl": "var x = 2;",
		"a.vl": "var x = 1;",
	})

	_, results, err := VerifyDir(context.Background(), dir, fakeFrontend{}, Options{Jobs: 2, Strict: true})
	if err != nil {
		t.Fatalf("VerifyDir: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	if filepath.Base(results[0].Path) != "a.vl" || filepath.Base(results[1].Path) != "b.vl" {
		t.Errorf("results out of order: %q, %q", results[0].Path, results[1].Path)
	}
	for _, r := range results {
		items := r.Bag.Items()
		if len(items) != 1 || items[0].Code != diag.SemaReferencedBeforeDeclaration {
			t.Errorf("%s: unexpected diagnostics %v", r.Path, items)
		}
	}

	merged := MergeResults(results, 0)
	if merged.Len() != 2 {
		t.Errorf("merged %d diagnostics, want 2", merged.Len())
	}
}

func TestResolvedUnitsSatisfySpanInvariants(t *testing.T) {
	dir := writeSources(t, map[string]string{"a.vl": "var x = 1;"})
	files, err := ListSourceFiles(dir)
	if err != nil {
		t.Fatalf("ListSourceFiles: %v", err)
	}
	fset := source.NewFileSet()
	var loaded []source.FileID
	for _, path := range files {
		id, err := fset.Load(path)
		if err != nil {
			t.Fatalf("Load(%s): %v", path, err)
		}
		loaded = append(loaded, id)
	}

	prog, err := fakeFrontend{}.Resolve(context.Background(), fset, loaded)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	for _, u := range prog.Units {
		if err := testkit.CheckUnitInvariants(u.Builder, u.AST, fset.Get(u.File)); err != nil {
			t.Errorf("%s: %v", u.Path, err)
		}
	}
}

func TestVerifyDirDeterministic(t *testing.T) {
	dir := writeSources(t, map[string]string{
		"a.vl": "var x = 1;",
		"b.vl": "var x = 2;",
		"c.vl": "var x = 3;",
	})

	run := func() []diag.Diagnostic {
		_, results, err := VerifyDir(context.Background(), dir, fakeFrontend{}, Options{Jobs: 3})
		if err != nil {
			t.Fatalf("VerifyDir: %v", err)
		}
		return MergeResults(results, 0).Items()
	}

	first := run()
	second := run()
	if !reflect.DeepEqual(first, second) {
		t.Errorf("runs differ:\n%v\n%v", first, second)
	}
}

func TestTraversalOrderSurvivesDriverAndCache(t *testing.T) {
	cache, err := OpenDiskCacheAt(filepath.Join(t.TempDir(), "cache"))
	if err != nil {
		t.Fatalf("OpenDiskCacheAt: %v", err)
	}
	dir := writeSources(t, map[string]string{"a.vl": "var x = 1;"})
	opts := Options{Cache: cache, Strict: true}

	_, cold, err := VerifyDir(context.Background(), dir, skewedFrontend{}, opts)
	if err != nil {
		t.Fatalf("cold run: %v", err)
	}
	items := cold[0].Bag.Items()
	if len(items) != 2 {
		t.Fatalf("got %d diagnostics, want 2: %v", len(items), items)
	}
	// The later occurrence in the source is visited first; the driver must
	// hand the sequence back exactly as emitted, not sorted by position.
	if items[0].Primary.Start != 6 || items[1].Primary.Start != 2 {
		t.Fatalf("emission order not preserved: starts %d, %d",
			items[0].Primary.Start, items[1].Primary.Start)
	}

	_, warm, err := VerifyDir(context.Background(), dir, skewedFrontend{}, opts)
	if err != nil {
		t.Fatalf("warm run: %v", err)
	}
	if !warm[0].FromCache {
		t.Fatal("warm run missed the cache")
	}
	if !reflect.DeepEqual(cold[0].Bag.Items(), warm[0].Bag.Items()) {
		t.Errorf("replay reordered diagnostics:\n%v\n%v", cold[0].Bag.Items(), warm[0].Bag.Items())
	}
}

func TestVerifyDirWithoutFrontend(t *testing.T) {
	_, _, err := VerifyDir(context.Background(), t.TempDir(), nil, Options{})
	if err == nil {
		t.Fatal("expected an error without a front end")
	}
}

func TestSeverityOverrideAtSink(t *testing.T) {
	dir := writeSources(t, map[string]string{"a.vl": "var x = 1;"})

	_, results, err := VerifyDir(context.Background(), dir, fakeFrontend{}, Options{
		Overrides: map[diag.Code]diag.Severity{
			diag.SemaReferencedBeforeDeclaration: diag.SevWarning,
		},
	})
	if err != nil {
		t.Fatalf("VerifyDir: %v", err)
	}
	bag := results[0].Bag
	if bag.HasErrors() {
		t.Error("override did not demote the diagnostic")
	}
	if !bag.HasWarnings() {
		t.Error("demoted diagnostic missing from bag")
	}
}

func TestCacheReplay(t *testing.T) {
	cache, err := OpenDiskCacheAt(filepath.Join(t.TempDir(), "cache"))
	if err != nil {
		t.Fatalf("OpenDiskCacheAt: %v", err)
	}
	dir := writeSources(t, map[string]string{"a.vl": "var x = 1;"})
	opts := Options{Cache: cache}

	_, cold, err := VerifyDir(context.Background(), dir, fakeFrontend{}, opts)
	if err != nil {
		t.Fatalf("cold run: %v", err)
	}
	if cold[0].FromCache {
		t.Fatal("cold run claims a cache hit")
	}

	_, warm, err := VerifyDir(context.Background(), dir, fakeFrontend{}, opts)
	if err != nil {
		t.Fatalf("warm run: %v", err)
	}
	if !warm[0].FromCache {
		t.Fatal("warm run missed the cache")
	}
	if !reflect.DeepEqual(cold[0].Bag.Items(), warm[0].Bag.Items()) {
		t.Errorf("replayed diagnostics differ:\n%v\n%v", cold[0].Bag.Items(), warm[0].Bag.Items())
	}
}

func TestCacheInvalidatedByAnyFileChange(t *testing.T) {
	cache, err := OpenDiskCacheAt(filepath.Join(t.TempDir(), "cache"))
	if err != nil {
		t.Fatalf("OpenDiskCacheAt: %v", err)
	}
	dir := writeSources(t, map[string]string{
		"a.vl": "var x = 1;",
		"b.vl": "var x = 2;",
	})
	opts := Options{Cache: cache}

	if _, _, err := VerifyDir(context.Background(), dir, fakeFrontend{}, opts); err != nil {
		t.Fatalf("first run: %v", err)
	}

	// Member lookup crosses units, so touching one file invalidates all.
	if err := os.WriteFile(filepath.Join(dir, "b.vl"), []byte("var y = 3;"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, results, err := VerifyDir(context.Background(), dir, fakeFrontend{}, opts)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	for _, r := range results {
		if r.FromCache {
			t.Errorf("%s replayed from cache despite program change", r.Path)
		}
	}
}

func TestPayloadRoundTrip(t *testing.T) {
	fset := source.NewFileSet()
	main := fset.AddVirtual("a.vl", []byte("var x = 1;"))
	other := fset.AddVirtual("b.vl", []byte("var y = 2;"))

	bag := diag.NewBag(8)
	bag.Add(diag.Diagnostic{
		Severity: diag.SevError,
		Code:     diag.SemaRecursiveCtorRedirect,
		Message:  "constructor redirects to itself",
		Args:     []string{"C"},
		Primary:  source.Span{File: main, Start: 10, End: 14},
		Notes: []diag.Note{
			{Span: source.Span{File: main, Start: 2, End: 5}, Msg: "declared here"},
			{Span: source.Span{File: other, Start: 4, End: 9}, Msg: "redirect target declared here"},
		},
	})

	cache, err := OpenDiskCacheAt(filepath.Join(t.TempDir(), "cache"))
	if err != nil {
		t.Fatalf("OpenDiskCacheAt: %v", err)
	}
	key := project.Digest{1}
	if err := cache.Put(key, encodePayload(bag, main, fset)); err != nil {
		t.Fatalf("Put: %v", err)
	}

	var payload Payload
	hit, err := cache.Get(key, &payload)
	if err != nil || !hit {
		t.Fatalf("Get: hit=%v err=%v", hit, err)
	}
	if got := payload.Diags[0].Notes[1].Path; got != "b.vl" {
		t.Fatalf("foreign note path = %q, want %q", got, "b.vl")
	}

	// A note into another unit must come back attributed to that unit, not
	// restamped onto the replaying one.
	replayed := diag.NewBag(8)
	payload.Replay(main, fset, replayed)
	if !reflect.DeepEqual(replayed.Items(), bag.Items()) {
		t.Errorf("round trip mismatch:\ngot  %+v\nwant %+v", replayed.Items(), bag.Items())
	}
}

func TestGetMissingEntry(t *testing.T) {
	cache, err := OpenDiskCacheAt(filepath.Join(t.TempDir(), "cache"))
	if err != nil {
		t.Fatalf("OpenDiskCacheAt: %v", err)
	}
	var payload Payload
	hit, err := cache.Get(project.Digest{42}, &payload)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if hit {
		t.Error("unexpected hit on empty cache")
	}
}
