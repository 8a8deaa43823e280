package project

import (
	"crypto/sha256"
)

// Digest is a fixed 256-bit hash, compatible with source.File.Hash.
type Digest [32]byte

// Combine chains d with deps into one aggregate digest. The cache key for a
// unit is its content digest combined with the program digest. Deps must come
// in a deterministic order.
func (d Digest) Combine(deps ...Digest) Digest {
	h := sha256.New()
	_, _ = h.Write(d[:])
	for _, dep := range deps {
		_, _ = h.Write(dep[:])
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}
