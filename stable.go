package bloom

import (
	"math"
	"math/rand/v2"
)

// StableFilter is a stable Bloom filter as described by Deng and Rafiei in
// "Approximately Detecting Duplicates for Streaming Data using Stable Bloom
// Filters". Before every insert it decays p randomly chosen buckets by one,
// then sets the item's probe positions to the bucket maximum. Old items fade
// out as new ones arrive, so the filter never fills up: on an unbounded
// stream the false-positive rate converges to the configured bound instead
// of climbing toward one.
//
// The price is false negatives: an item inserted long ago may have decayed
// away. Use it to detect duplicates in a recent window of a stream, not for
// exact set membership.
type StableFilter struct {
	buckets *Buckets
	kernel  HashKernel
	p       int
	rng     uint64
}

// NewStableFilter builds a stable filter with bucketCount buckets of
// bucketWidth bits and a stationary false-positive rate of at most fpRate.
// The decay randomness is seeded from the global random source; use
// NewStableFilterWithSeed for reproducible behavior.
func NewStableFilter(bucketCount int, bucketWidth uint8, fpRate float64, builder HashKernelBuilder) (*StableFilter, error) {
	return NewStableFilterWithSeed(bucketCount, bucketWidth, fpRate, builder, rand.Uint64())
}

// NewStableFilterWithSeed is NewStableFilter with an explicit seed for the
// decay randomness. Two filters built with the same parameters, builder and
// seed see identical bucket states after identical insert sequences.
func NewStableFilterWithSeed(bucketCount int, bucketWidth uint8, fpRate float64, builder HashKernelBuilder, seed uint64) (*StableFilter, error) {
	if fpRate <= 0 || fpRate >= 1 {
		return nil, ErrInvalidFPRate
	}
	buckets, err := NewBuckets(bucketCount, bucketWidth)
	if err != nil {
		return nil, err
	}
	k := OptimalK(fpRate)
	if k > bucketCount {
		k = bucketCount
	} else if k == 0 {
		k = 1
	}
	return &StableFilter{
		buckets: buckets,
		kernel:  builder.WithK(k, bucketCount),
		p:       optimalDecayCount(bucketCount, k, bucketWidth, fpRate),
		rng:     seed,
	}, nil
}

// optimalDecayCount returns the number of buckets to decay per insert so
// that the stationary false-positive rate stays at most fpRate, following
// Deng and Rafiei.
func optimalDecayCount(m, k int, bucketWidth uint8, fpRate float64) int {
	max := float64(uint64(1)<<bucketWidth - 1)
	subDenom := math.Pow(1-math.Pow(fpRate, 1/float64(k)), 1/max)
	denom := (1/subDenom - 1) * (1/float64(k) - 1/float64(m))
	p := math.Ceil(1 / denom)
	// k == m makes denom vanish; decaying a single bucket per insert is the
	// weakest stable configuration.
	if math.IsInf(p, 1) || !(p > 0) {
		return 1
	}
	return int(p)
}

// decay decrements the p buckets of a contiguous window starting at a
// random offset, one random draw per insert.
func (f *StableFilter) decay() {
	r := splitmix64(&f.rng)
	n := uint64(f.buckets.Len())
	for i := 0; i < f.p; i++ {
		f.buckets.Increment(int((r+uint64(i))%n), -1)
	}
}

// Insert adds item to the filter, decaying older content to make room.
func (f *StableFilter) Insert(item []byte) {
	f.decay()
	max := f.buckets.MaxValue()
	for i := range f.kernel.HashIter(item) {
		f.buckets.Set(i, max)
	}
}

// Contains reports whether item was recently inserted. Both false positives
// and, for items long past, false negatives are possible.
func (f *StableFilter) Contains(item []byte) bool {
	for i := range f.kernel.HashIter(item) {
		if f.buckets.Get(i) == 0 {
			return false
		}
	}
	return true
}

// Reset clears the filter to empty. The decay randomness is not reseeded.
func (f *StableFilter) Reset() {
	f.buckets.Reset()
}

// RawData returns the filter's bucket data for persistence or exchange.
func (f *StableFilter) RawData() []byte {
	return f.buckets.RawData()
}

// Buckets exposes the underlying bucket array. The caller must not mutate
// it.
func (f *StableFilter) Buckets() *Buckets {
	return f.buckets
}
