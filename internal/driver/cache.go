package driver

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"vela/internal/diag"
	"vela/internal/project"
	"vela/internal/source"
)

// Current schema version - increment when Payload format changes.
const cacheSchemaVersion uint16 = 2

// DiskCache stores per-unit diagnostic payloads keyed by content digest.
// Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// Payload is one cached verification outcome. Spans are stored as raw byte
// offsets; Replay stamps them with the current FileID, so a payload stays
// valid across runs that load files in a different order.
type Payload struct {
	Schema uint16
	Diags  []CachedDiagnostic
}

type CachedDiagnostic struct {
	Severity uint8
	Code     uint16
	Message  string
	Args     []string
	Start    uint32
	End      uint32
	Notes    []CachedNote
}

// CachedNote keeps the note's file identity by path: notes can point into
// other units ("declared here" on a cross-unit member), and FileIDs are not
// stable across runs. An empty Path means the unit's own file.
type CachedNote struct {
	Msg   string
	Path  string
	Start uint32
	End   uint32
}

// OpenDiskCache initializes and returns a disk cache at the standard location.
func OpenDiskCache(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	dir := filepath.Join(base, app)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

// OpenDiskCacheAt opens a cache rooted at an explicit directory.
func OpenDiskCacheAt(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

func (c *DiskCache) pathFor(key project.Digest) string {
	hexKey := hex.EncodeToString(key[:])
	// Units get their own subdirectory so DropAll stays a single rename.
	return filepath.Join(c.dir, "units", hexKey+".mp")
}

// Put serializes and writes a payload to the disk cache.
func (c *DiskCache) Put(key project.Digest, payload *Payload) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(f.Name()) }()

	if err := msgpack.NewEncoder(f).Encode(payload); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	// Atomic replace.
	return os.Rename(f.Name(), p)
}

// Get reads and deserializes a payload from the disk cache. A missing entry
// is (false, nil), not an error.
func (c *DiskCache) Get(key project.Digest, out *Payload) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	p := c.pathFor(key)
	f, err := os.Open(p) // #nosec G304 -- path is derived from a hex digest
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer func() { _ = f.Close() }()

	if err := msgpack.NewDecoder(f).Decode(out); err != nil {
		return false, fmt.Errorf("decode cache entry: %w", err)
	}
	if out.Schema != cacheSchemaVersion {
		return false, nil
	}
	return true, nil
}

// DropAll invalidates the cache, useful after format changes.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		return err
	}
	return os.RemoveAll(old)
}

// encodePayload captures the bag in emission order. Primary spans always sit
// in the unit's own file; notes record their file by path when it differs.
func encodePayload(bag *diag.Bag, file source.FileID, fset *source.FileSet) *Payload {
	items := bag.Items()
	p := &Payload{Schema: cacheSchemaVersion, Diags: make([]CachedDiagnostic, 0, len(items))}
	for _, d := range items {
		cd := CachedDiagnostic{
			Severity: uint8(d.Severity),
			Code:     uint16(d.Code),
			Message:  d.Message,
			Args:     d.Args,
			Start:    d.Primary.Start,
			End:      d.Primary.End,
		}
		for _, n := range d.Notes {
			cn := CachedNote{Msg: n.Msg, Start: n.Span.Start, End: n.Span.End}
			if n.Span.File != file {
				cn.Path = fset.Get(n.Span.File).Path
			}
			cd.Notes = append(cd.Notes, cn)
		}
		p.Diags = append(p.Diags, cd)
	}
	return p
}

// Replay reconstructs the cached diagnostic sequence into bag in its stored
// order, stamping spans with the current run's FileIDs.
func (p *Payload) Replay(file source.FileID, fset *source.FileSet, bag *diag.Bag) {
	for _, cd := range p.Diags {
		d := diag.Diagnostic{
			Severity: diag.Severity(cd.Severity),
			Code:     diag.Code(cd.Code),
			Message:  cd.Message,
			Args:     cd.Args,
			Primary:  source.Span{File: file, Start: cd.Start, End: cd.End},
		}
		for _, n := range cd.Notes {
			noteFile := file
			if n.Path != "" {
				// The program digest guarantees every referenced file is
				// loaded on a hit; a miss means a stale entry.
				id, ok := fset.GetLatest(n.Path)
				if !ok {
					continue
				}
				noteFile = id
			}
			d.Notes = append(d.Notes, diag.Note{
				Span: source.Span{File: noteFile, Start: n.Start, End: n.End},
				Msg:  n.Msg,
			})
		}
		bag.Add(d)
	}
}
