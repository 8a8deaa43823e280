package driver

import (
	"context"
	"sync"

	"vela/internal/ast"
	"vela/internal/sema"
	"vela/internal/source"
)

// Unit is one compilation unit ready for verification: a resolved tree plus
// the file it came from.
type Unit struct {
	Path    string
	File    source.FileID
	Builder *ast.Builder
	AST     ast.UnitID
}

// Program bundles the resolved units of a project with the oracles the
// verifier consults. The front end that produced the trees owns both.
type Program struct {
	Units     []Unit
	Types     sema.TypeOracle
	Members   sema.MemberOracle
	Libraries sema.LibraryOracle
}

// Frontend turns loaded source files into a resolved Program. Parsing and
// name/type resolution live outside this module; the front end links itself
// in via RegisterFrontend.
type Frontend interface {
	Resolve(ctx context.Context, fset *source.FileSet, files []source.FileID) (*Program, error)
}

var (
	frontendMu sync.RWMutex
	frontend   Frontend
)

// RegisterFrontend installs the front end used by VerifyDir callers that do
// not pass one explicitly. Last registration wins.
func RegisterFrontend(fe Frontend) {
	frontendMu.Lock()
	defer frontendMu.Unlock()
	frontend = fe
}

// RegisteredFrontend returns the installed front end, or nil.
func RegisteredFrontend() Frontend {
	frontendMu.RLock()
	defer frontendMu.RUnlock()
	return frontend
}
