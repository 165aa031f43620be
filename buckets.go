package bloom

import "fmt"

const (
	bytesPerWord = 8
	bitsPerWord  = bytesPerWord * 8
)

// Buckets is a packed array of fixed-width counters. Every bucket holds
// between 1 and 7 bits, so buckets are laid out back to back inside 64-bit
// words and a single bucket may straddle two adjacent words. Values written
// or incremented past a bucket's range are clamped, never wrapped.
//
// The bucket index passed to Get, Set and Increment must be in [0, Len());
// filters guarantee this by reducing probe positions modulo Len().
type Buckets struct {
	data  []uint64
	count int
	width uint8
	max   uint8
}

// NewBuckets creates a zeroed array of count buckets, each width bits wide.
func NewBuckets(count int, width uint8) (*Buckets, error) {
	if count <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidBucketCount, count)
	}
	if width == 0 || width >= 8 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidBucketWidth, width)
	}
	return &Buckets{
		data:  make([]uint64, wordsFor(count, width)),
		count: count,
		width: width,
		max:   1<<width - 1,
	}, nil
}

// NewBucketsWithFPRate creates a Buckets sized optimally for the expected
// number of items at the desired rate of false positives.
func NewBucketsWithFPRate(itemsCount int, fpRate float64, width uint8) (*Buckets, error) {
	if itemsCount <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidItemsCount, itemsCount)
	}
	if fpRate <= 0 || fpRate >= 1 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFPRate, fpRate)
	}
	return NewBuckets(optimalBucketCount(itemsCount, fpRate), width)
}

// wordsFor returns how many 64-bit words back count buckets of width bits.
func wordsFor(count int, width uint8) int {
	return (count*int(width) + bitsPerWord - 1) / bitsPerWord
}

// Len returns the number of buckets.
func (b *Buckets) Len() int { return b.count }

// MaxValue returns the largest value a bucket can hold, 2^width - 1.
func (b *Buckets) MaxValue() uint8 { return b.max }

// BucketWidth returns the width of one bucket in bits.
func (b *Buckets) BucketWidth() uint8 { return b.width }

// Get returns the value stored in the given bucket.
func (b *Buckets) Get(bucket int) uint8 {
	return uint8(b.getBits(uint64(bucket)*uint64(b.width), uint64(b.width)))
}

// Set stores value in the given bucket, clamping it to MaxValue.
func (b *Buckets) Set(bucket int, value uint8) {
	if value > b.max {
		value = b.max
	}
	b.setBits(uint64(bucket)*uint64(b.width), uint64(b.width), uint64(value))
}

// Increment adds delta to the given bucket, saturating at 0 and MaxValue.
func (b *Buckets) Increment(bucket int, delta int8) {
	v := int(b.Get(bucket)) + int(delta)
	switch {
	case v < 0:
		v = 0
	case v > int(b.max):
		v = int(b.max)
	}
	b.Set(bucket, uint8(v))
}

// Reset zeroes every bucket.
func (b *Buckets) Reset() {
	clear(b.data)
}

// getBits reads a length-bit field starting at bit offset. A field that
// straddles a word boundary is read in two parts, the low bits from the
// first word and the rest from the next, and recombined.
func (b *Buckets) getBits(offset, length uint64) uint64 {
	wordIndex := offset / bitsPerWord
	bitOffset := offset % bitsPerWord
	if bitOffset+length > bitsPerWord {
		remain := bitsPerWord - bitOffset
		return b.getBits(offset, remain) | b.getBits(offset+remain, length-remain)<<remain
	}
	mask := uint64(1)<<length - 1
	return b.data[wordIndex] >> bitOffset & mask
}

// setBits writes the low length bits of value at bit offset, splitting the
// field at the word boundary when it does not fit in one word.
func (b *Buckets) setBits(offset, length, value uint64) {
	wordIndex := offset / bitsPerWord
	bitOffset := offset % bitsPerWord
	if bitOffset+length > bitsPerWord {
		remain := bitsPerWord - bitOffset
		b.setBits(offset, remain, value)
		b.setBits(offset+remain, length-remain, value>>remain)
		return
	}
	mask := uint64(1)<<length - 1
	b.data[wordIndex] &^= mask << bitOffset
	b.data[wordIndex] |= (value & mask) << bitOffset
}
