package bloom

// ClassicFilter is the textbook Bloom filter over one-bit buckets. Inserting
// sets the item's probe positions to 1, membership requires all of them to be
// 1. Lookups may report false positives at the configured rate but never
// false negatives, and items cannot be removed.
type ClassicFilter struct {
	buckets *Buckets
	kernel  HashKernel
}

// NewClassicFilter builds a classic filter sized for itemsCount items at
// false-positive rate fpRate. The bucket count and number of probes are
// derived from the standard optimal formulas.
func NewClassicFilter(itemsCount int, fpRate float64, builder HashKernelBuilder) (*ClassicFilter, error) {
	buckets, err := NewBucketsWithFPRate(itemsCount, fpRate, 1)
	if err != nil {
		return nil, err
	}
	return &ClassicFilter{
		buckets: buckets,
		kernel:  builder.WithK(OptimalK(fpRate), buckets.Len()),
	}, nil
}

// NewClassicFilterFromRawData rebuilds a classic filter from raw bucket data
// produced by RawData. Every byte of raw carries eight one-bit buckets, so
// the rebuilt filter has len(raw)*8 buckets. The probe count k and the
// builder must match the filter that produced the data, otherwise lookups
// are meaningless.
func NewClassicFilterFromRawData(raw []byte, k int, builder HashKernelBuilder) (*ClassicFilter, error) {
	buckets, err := NewBucketsFromRawData(len(raw)*8, 1, raw)
	if err != nil {
		return nil, err
	}
	return &ClassicFilter{
		buckets: buckets,
		kernel:  builder.WithK(k, buckets.Len()),
	}, nil
}

// Insert adds item to the filter.
func (f *ClassicFilter) Insert(item []byte) {
	for i := range f.kernel.HashIter(item) {
		f.buckets.Set(i, 1)
	}
}

// Contains reports whether item is possibly in the filter. A false result is
// definitive.
func (f *ClassicFilter) Contains(item []byte) bool {
	for i := range f.kernel.HashIter(item) {
		if f.buckets.Get(i) != 1 {
			return false
		}
	}
	return true
}

// Reset clears the filter to empty.
func (f *ClassicFilter) Reset() {
	f.buckets.Reset()
}

// Update merges raw bucket data from another filter of the same geometry
// into this one by bitwise OR. Afterwards the filter contains the union of
// both item sets.
func (f *ClassicFilter) Update(raw []byte) {
	f.buckets.Update(raw)
}

// RawData returns the filter's bucket data for persistence or exchange.
func (f *ClassicFilter) RawData() []byte {
	return f.buckets.RawData()
}

// Buckets exposes the underlying bucket array. The caller must not mutate
// it.
func (f *ClassicFilter) Buckets() *Buckets {
	return f.buckets
}
