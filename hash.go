package bloom

import (
	"iter"

	"github.com/cespare/xxhash/v2"
)

// Hash64 computes a 64-bit digest of an item. It must be deterministic: the
// same item always produces the same digest.
type Hash64 func(item []byte) uint64

// HashKernel derives the bucket probe positions touched for one item. For a
// fixed kernel the positions of an item are deterministic and reproducible.
type HashKernel interface {
	// HashIter returns the item's probe positions in probe order.
	HashIter(item []byte) iter.Seq[int]
}

// HashKernelBuilder constructs hash kernels bound to a filter's geometry.
// Filters call it once at construction time.
type HashKernelBuilder interface {
	// WithK builds a kernel that yields k probe positions in [0, n).
	// Both k and n must be positive.
	WithK(k, n int) HashKernel
}

// DoubleHashing builds the default hash kernel. One digest is computed per
// item and split into two 32-bit halves h1 and h2; the i-th probe position
// is (Seed + h1 + i*h2) mod n in wrapping arithmetic, the
// Kirsch-Mitzenmacher construction. This costs a single hash while keeping
// the k positions close enough to independent.
//
// The zero value hashes with xxhash and a zero seed.
type DoubleHashing struct {
	// Seed offsets every probe position. Filters that exchange raw data must
	// be built with the same seed.
	Seed uint64
	// Hash is the digest function. nil means xxhash.Sum64.
	Hash Hash64
}

// WithK implements HashKernelBuilder.
func (d DoubleHashing) WithK(k, n int) HashKernel {
	hash := d.Hash
	if hash == nil {
		hash = xxhash.Sum64
	}
	return &doubleHashingKernel{
		k:    k,
		n:    uint64(n),
		seed: d.Seed,
		hash: hash,
	}
}

type doubleHashingKernel struct {
	k    int
	n    uint64
	seed uint64
	hash Hash64
}

func (hk *doubleHashingKernel) HashIter(item []byte) iter.Seq[int] {
	digest := hk.hash(item)
	h1 := uint64(uint32(digest))
	h2 := digest >> 32
	return func(yield func(int) bool) {
		for i := uint64(0); i < uint64(hk.k); i++ {
			if !yield(int((hk.seed + h1 + h2*i) % hk.n)) {
				return
			}
		}
	}
}

// splitmix64 returns the next value of a splitmix64 sequence, advancing the
// seed. Used for decay offsets and anywhere a cheap deterministic stream of
// random numbers is needed.
func splitmix64(seed *uint64) uint64 {
	*seed = *seed + 0x9E3779B97F4A7C15
	z := *seed
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	return z ^ (z >> 31)
}
