// Package driver orchestrates a verification pass: it loads source files,
// hands them to the front end, verifies the resolved units in parallel and
// merges the per-unit diagnostics deterministically.
package driver

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"vela/internal/diag"
	"vela/internal/project"
	"vela/internal/sema"
	"vela/internal/source"
)

// SourceExt is the extension of vela source files.
const SourceExt = ".vl"

// Options tunes one verification pass.
type Options struct {
	// Jobs caps worker parallelism; 0 means GOMAXPROCS.
	Jobs int
	// MaxDiagnostics caps each per-unit bag; 0 falls back to the project
	// default.
	MaxDiagnostics int
	// Cache, when non-nil, replays unchanged units from disk.
	Cache *DiskCache
	// Overrides rewrites severities at the sink boundary.
	Overrides map[diag.Code]diag.Severity
	// Strict makes verifier contract violations panic. Tests only.
	Strict bool
}

func (o Options) jobs(n int) int {
	j := o.Jobs
	if j <= 0 {
		j = runtime.GOMAXPROCS(0)
	}
	return min(j, n)
}

func (o Options) maxDiagnostics() int {
	if o.MaxDiagnostics <= 0 {
		return project.DefaultMaxDiagnostics
	}
	return o.MaxDiagnostics
}

// UnitResult is the verification outcome for one unit. Bags keep the
// traversal order of the pass; nothing downstream may reorder them.
type UnitResult struct {
	Path      string
	File      source.FileID
	Bag       *diag.Bag
	FromCache bool
}

// ListSourceFiles returns every *.vl file under dir, sorted for a
// deterministic pass order.
func ListSourceFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, SourceExt) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// VerifyDir loads every source file under dir, resolves them through the
// front end and verifies the resulting units. Files that fail to load
// surface as I/O diagnostics in their own result rather than aborting the
// pass.
func VerifyDir(ctx context.Context, dir string, fe Frontend, opts Options) (*source.FileSet, []UnitResult, error) {
	if fe == nil {
		return nil, nil, fmt.Errorf("no front end registered; link one and call RegisterFrontend")
	}
	files, err := ListSourceFiles(dir)
	if err != nil {
		return nil, nil, err
	}

	fset := source.NewFileSetWithBase(dir)
	var loaded []source.FileID
	var results []UnitResult
	for _, path := range files {
		fileID, err := fset.Load(path)
		if err != nil {
			bag := diag.NewBag(opts.maxDiagnostics())
			bag.Add(diag.NewError(diag.IOReadFailed, source.Span{},
				fmt.Sprintf("failed to read %s: %v", path, err)))
			results = append(results, UnitResult{Path: path, Bag: bag})
			continue
		}
		loaded = append(loaded, fileID)
	}

	prog, err := fe.Resolve(ctx, fset, loaded)
	if err != nil {
		return fset, results, err
	}
	verified, err := VerifyProgram(ctx, fset, prog, opts)
	if err != nil {
		return fset, results, err
	}
	results = append(results, verified...)
	sort.Slice(results, func(i, j int) bool { return results[i].Path < results[j].Path })
	return fset, results, nil
}

// VerifyProgram verifies every unit of prog in parallel. Each unit gets its
// own bag; result order is by path regardless of completion order.
func VerifyProgram(ctx context.Context, fset *source.FileSet, prog *Program, opts Options) ([]UnitResult, error) {
	if prog == nil || len(prog.Units) == 0 {
		return nil, nil
	}

	// A unit's cached outcome depends on every file in the program: member
	// lookup crosses unit boundaries. The aggregate digest invalidates the
	// whole cache when any input changes.
	progHash := programDigest(fset, prog.Units)

	results := make([]UnitResult, len(prog.Units))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.jobs(len(prog.Units)))

	for i, unit := range prog.Units {
		i, unit := i, unit
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			bag := diag.NewBag(opts.maxDiagnostics())
			res := UnitResult{Path: unit.Path, File: unit.File, Bag: bag}

			key := project.Digest(fset.Get(unit.File).Hash).Combine(progHash)
			var payload Payload
			if hit, err := opts.Cache.Get(key, &payload); err == nil && hit {
				payload.Replay(unit.File, fset, bag)
				res.FromCache = true
				results[i] = res
				return nil
			}

			var reporter diag.Reporter = diag.BagReporter{Bag: bag}
			if len(opts.Overrides) > 0 {
				reporter = OverrideReporter{Next: reporter, Rules: opts.Overrides}
			}
			sema.Check(unit.Builder, unit.AST, sema.Options{
				Reporter:  reporter,
				Types:     prog.Types,
				Members:   prog.Members,
				Libraries: prog.Libraries,
				Strict:    opts.Strict,
			})

			if err := opts.Cache.Put(key, encodePayload(bag, unit.File, fset)); err != nil {
				bag.Add(diag.New(diag.SevWarning, diag.IOCacheWrite, source.Span{},
					fmt.Sprintf("failed to cache diagnostics for %s: %v", unit.Path, err)))
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(results, func(i, j int) bool { return results[i].Path < results[j].Path })
	return results, nil
}

// MergeResults folds per-unit bags into one, preserving the deterministic
// path order of results.
func MergeResults(results []UnitResult, maxDiagnostics int) *diag.Bag {
	if maxDiagnostics <= 0 {
		maxDiagnostics = project.DefaultMaxDiagnostics
	}
	out := diag.NewBag(maxDiagnostics)
	for _, r := range results {
		out.Merge(r.Bag)
	}
	return out
}

func programDigest(fset *source.FileSet, units []Unit) project.Digest {
	hashes := make([]project.Digest, 0, len(units))
	paths := make([]string, 0, len(units))
	for _, u := range units {
		paths = append(paths, u.Path)
	}
	sort.Strings(paths)
	seen := make(map[string]bool, len(units))
	byPath := make(map[string]project.Digest, len(units))
	for _, u := range units {
		byPath[u.Path] = project.Digest(fset.Get(u.File).Hash)
	}
	for _, p := range paths {
		if seen[p] {
			continue
		}
		seen[p] = true
		hashes = append(hashes, byPath[p])
	}
	return project.Digest{}.Combine(hashes...)
}
