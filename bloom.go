// Package bloom implements Bloom filters: compact probabilistic set
// membership structures that answer "has this item been seen?" with no
// false negatives and a tunable false-positive rate.
//
// Three variants are provided. ClassicFilter is the textbook presence-only
// filter. CountingFilter widens every bucket to a small saturating counter
// so items can be removed. StableFilter decays a few random buckets on every
// insert, which keeps its false-positive rate bounded over unbounded input
// streams at the cost of eventually forgetting old items.
//
// Each variant owns a Buckets array of packed sub-byte counters and a
// HashKernel that maps an item to its probe positions. The default kernel is
// DoubleHashing over xxhash digests; any deterministic 64-bit digest source
// can be plugged in instead.
//
// Filters are not safe for concurrent mutation; callers that share one
// across goroutines must serialize access themselves.
package bloom

import (
	"errors"
	"math"
)

// Construction errors. Filters and bucket arrays reject parameters that
// would produce a structurally broken instance; once construction succeeds,
// no operation fails.
var (
	ErrInvalidBucketWidth = errors.New("bloom: bucket width must be between 1 and 7 bits")
	ErrInvalidBucketCount = errors.New("bloom: bucket count must be positive")
	ErrInvalidItemsCount  = errors.New("bloom: items count must be positive")
	ErrInvalidFPRate      = errors.New("bloom: false-positive rate must be in (0, 1)")
	ErrRawDataSize        = errors.New("bloom: raw data size mismatch")
)

// Filter is the interface shared by all filter variants.
type Filter interface {
	// Insert adds item to the set.
	Insert(item []byte)
	// Contains tells you whether item is likely part of the set.
	Contains(item []byte) bool
	// Reset restores the filter to its initial empty state.
	Reset()
}

// RemovableFilter is a Filter whose items can also be removed.
type RemovableFilter interface {
	Filter
	// Remove deletes one insertion of item.
	Remove(item []byte)
}

const ln2Squared = math.Ln2 * math.Ln2

// optimalBucketCount returns the optimal number of buckets, m, for the
// expected number of items and the desired rate of false positives,
// ceil(itemsCount * |ln fpRate| / (ln 2)^2).
func optimalBucketCount(itemsCount int, fpRate float64) int {
	return int(math.Ceil(float64(itemsCount) * math.Abs(math.Log(fpRate)) / ln2Squared))
}

// OptimalK returns the optimal number of probe positions for the target
// false-positive rate, ceil(|log2 fpRate|). fpRate must be in (0, 1).
func OptimalK(fpRate float64) int {
	return int(math.Ceil(math.Abs(math.Log2(fpRate))))
}
