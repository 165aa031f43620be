package bloom

// CountingFilter is a Bloom filter over multi-bit saturating counters, which
// makes removal possible: inserting increments the item's probe positions,
// removing decrements them, and membership requires all of them to be
// nonzero.
//
// Removal is only sound for items that were actually inserted. Removing an
// item that is absent, or removing one more often than it was inserted, can
// drive counters shared with other items to zero and introduce false
// negatives. Counters saturate at the bucket maximum, so an insert absorbed
// by a saturated counter cannot be fully undone either.
type CountingFilter struct {
	buckets *Buckets
	kernel  HashKernel
}

// NewCountingFilter builds a counting filter sized for itemsCount items at
// false-positive rate fpRate, with bucketWidth-bit counters. Wider counters
// saturate later but cost proportionally more memory.
func NewCountingFilter(itemsCount int, bucketWidth uint8, fpRate float64, builder HashKernelBuilder) (*CountingFilter, error) {
	buckets, err := NewBucketsWithFPRate(itemsCount, fpRate, bucketWidth)
	if err != nil {
		return nil, err
	}
	return &CountingFilter{
		buckets: buckets,
		kernel:  builder.WithK(OptimalK(fpRate), buckets.Len()),
	}, nil
}

// Insert adds item to the filter.
func (f *CountingFilter) Insert(item []byte) {
	for i := range f.kernel.HashIter(item) {
		f.buckets.Increment(i, 1)
	}
}

// Contains reports whether item is possibly in the filter.
func (f *CountingFilter) Contains(item []byte) bool {
	for i := range f.kernel.HashIter(item) {
		if f.buckets.Get(i) == 0 {
			return false
		}
	}
	return true
}

// Remove deletes one insertion of item from the filter. See the type comment
// for when removal is sound.
func (f *CountingFilter) Remove(item []byte) {
	for i := range f.kernel.HashIter(item) {
		f.buckets.Increment(i, -1)
	}
}

// Reset clears the filter to empty.
func (f *CountingFilter) Reset() {
	f.buckets.Reset()
}

// RawData returns the filter's bucket data for persistence or exchange.
func (f *CountingFilter) RawData() []byte {
	return f.buckets.RawData()
}

// Buckets exposes the underlying bucket array. The caller must not mutate
// it.
func (f *CountingFilter) Buckets() *Buckets {
	return f.buckets
}
