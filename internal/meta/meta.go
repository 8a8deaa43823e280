// Package meta is the Library Metadata oracle: per-library platform,
// internality and feature-set flags. The registry is populated by the driver
// before verification and is read-only during a pass.
package meta

import (
	"fmt"

	"fortio.org/safecast"
)

// LibraryID identifies one library within a Registry. 1-based; 0 is invalid.
type LibraryID uint32

const NoLibraryID LibraryID = 0

func (id LibraryID) IsValid() bool { return id != NoLibraryID }

// Library captures the metadata the verifier consults.
type Library struct {
	// Name is the declared library name ("" when the library is unnamed).
	Name string
	// URI is the canonical import string.
	URI string
	// Platform marks libraries shipped with the SDK.
	Platform bool
	// Internal marks platform libraries that user code may not import or
	// export. Implies Platform.
	Internal bool
	// NullSafe reports whether the library opts into sound null safety.
	NullSafe bool
}

// Registry stores libraries and hands out stable IDs.
type Registry struct {
	libs  []Library
	byURI map[string]LibraryID
}

func NewRegistry() *Registry {
	return &Registry{
		libs:  make([]Library, 1), // reserve 0 as invalid sentinel
		byURI: make(map[string]LibraryID, 16),
	}
}

// Add registers a library and returns its ID. Re-adding the same URI returns
// the existing ID without overwriting.
func (r *Registry) Add(lib Library) LibraryID {
	if id, ok := r.byURI[lib.URI]; ok {
		return id
	}
	lenLibs, err := safecast.Conv[uint32](len(r.libs))
	if err != nil {
		panic(fmt.Errorf("library count overflow: %w", err))
	}
	id := LibraryID(lenLibs)
	r.libs = append(r.libs, lib)
	r.byURI[lib.URI] = id
	return id
}

// Get returns the library record, or nil for an invalid ID.
func (r *Registry) Get(id LibraryID) *Library {
	if !id.IsValid() || int(id) >= len(r.libs) {
		return nil
	}
	return &r.libs[id]
}

// ByURI resolves an import string.
func (r *Registry) ByURI(uri string) (LibraryID, bool) {
	id, ok := r.byURI[uri]
	return id, ok
}

// Name returns the declared name of a library ("" for unknown IDs).
func (r *Registry) Name(id LibraryID) string {
	if lib := r.Get(id); lib != nil {
		return lib.Name
	}
	return ""
}

// IsInternal reports whether id names an internal platform library.
func (r *Registry) IsInternal(id LibraryID) bool {
	lib := r.Get(id)
	return lib != nil && lib.Internal
}

// IsPlatform reports whether id is shipped with the SDK.
func (r *Registry) IsPlatform(id LibraryID) bool {
	lib := r.Get(id)
	return lib != nil && lib.Platform
}
