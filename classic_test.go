package bloom

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassicFilterContains(t *testing.T) {
	filter, err := NewClassicFilter(100, 0.03, DoubleHashing{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	items := randomItems(16)
	for _, item := range items {
		assert.Equal(t, false, filter.Contains(item))
	}
	for _, item := range items {
		filter.Insert(item)
		assert.Equal(t, true, filter.Contains(item))
	}
	for _, item := range items {
		assert.Equal(t, true, filter.Contains(item))
	}
	filter.Reset()
	for _, item := range items {
		assert.Equal(t, false, filter.Contains(item))
	}
}

func TestClassicFilterFalsePositiveRate(t *testing.T) {
	filter, err := NewClassicFilter(100, 0.03, DoubleHashing{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < 100; i++ {
		filter.Insert(randomItem())
	}
	falsesize := 100000
	matches := 0
	for i := 0; i < falsesize; i++ {
		if filter.Contains(randomItem()) {
			matches++
		}
	}
	fpp := float64(matches) * 100.0 / float64(falsesize)
	fmt.Println("classic filter:")
	fmt.Println("false positive rate ", fpp)
	assert.Equal(t, true, fpp < 6.0)
}

func TestClassicFilterUnion(t *testing.T) {
	f1, err := NewClassicFilter(100, 0.03, DoubleHashing{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	f2, err := NewClassicFilter(100, 0.03, DoubleHashing{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	union, err := NewClassicFilter(100, 0.03, DoubleHashing{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	itemsA := randomItems(8)
	itemsB := randomItems(8)
	for _, item := range itemsA {
		f1.Insert(item)
		union.Insert(item)
	}
	for _, item := range itemsB {
		f2.Insert(item)
		union.Insert(item)
	}

	// OR-merging the raw data equals inserting the union of both item sets
	f1.Update(f2.RawData())
	assert.Equal(t, true, bytes.Equal(union.RawData(), f1.RawData()))
	for _, item := range itemsA {
		assert.Equal(t, true, f1.Contains(item))
	}
	for _, item := range itemsB {
		assert.Equal(t, true, f1.Contains(item))
	}
}

func TestClassicFilterFromRawData(t *testing.T) {
	const k = 6
	blank := make([]byte, 96)
	f1, err := NewClassicFilterFromRawData(blank, k, DoubleHashing{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assert.Equal(t, 768, f1.Buckets().Len())

	items := randomItems(10)
	for _, item := range items {
		f1.Insert(item)
	}

	f2, err := NewClassicFilterFromRawData(f1.RawData(), k, DoubleHashing{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, item := range items {
		assert.Equal(t, true, f2.Contains(item))
	}
	assert.Equal(t, true, bytes.Equal(f1.RawData(), f2.RawData()))
}

func TestClassicFilterFromRawDataInvalid(t *testing.T) {
	// 5 bytes hold 40 one-bit buckets, which still occupy a full 8-byte word
	_, err := NewClassicFilterFromRawData(make([]byte, 5), 6, DoubleHashing{})
	assert.Equal(t, true, errors.Is(err, ErrRawDataSize))
	_, err = NewClassicFilterFromRawData(nil, 6, DoubleHashing{})
	assert.Equal(t, true, errors.Is(err, ErrInvalidBucketCount))
}

func TestClassicFilterInvalid(t *testing.T) {
	_, err := NewClassicFilter(0, 0.03, DoubleHashing{})
	assert.Equal(t, true, errors.Is(err, ErrInvalidItemsCount))
	_, err = NewClassicFilter(100, 0, DoubleHashing{})
	assert.Equal(t, true, errors.Is(err, ErrInvalidFPRate))
	_, err = NewClassicFilter(100, 1.5, DoubleHashing{})
	assert.Equal(t, true, errors.Is(err, ErrInvalidFPRate))
}

func BenchmarkClassicFilterInsert(b *testing.B) {
	filter, _ := NewClassicFilter(1000000, 0.01, DoubleHashing{})
	items := randomItems(1024)

	b.ReportAllocs()
	b.ResetTimer()
	for n := 0; n < b.N; n++ {
		filter.Insert(items[n%len(items)])
	}
}

func BenchmarkClassicFilterContains(b *testing.B) {
	filter, _ := NewClassicFilter(1000000, 0.01, DoubleHashing{})
	items := randomItems(1024)
	for _, item := range items {
		filter.Insert(item)
	}

	b.ReportAllocs()
	b.ResetTimer()
	for n := 0; n < b.N; n++ {
		filter.Contains(items[n%len(items)])
	}
}
