package bloom

import (
	"encoding/binary"
	"fmt"
)

// RawData serializes the backing words as a flat byte slice, each word in
// little-endian order, concatenated in storage order. The layout carries no
// metadata: bucket count, bucket width and kernel parameters must travel out
// of band.
func (b *Buckets) RawData() []byte {
	raw := make([]byte, len(b.data)*bytesPerWord)
	for i, word := range b.data {
		binary.LittleEndian.PutUint64(raw[i*bytesPerWord:], word)
	}
	return raw
}

// NewBucketsFromRawData reconstructs a Buckets from bytes produced by
// RawData. The byte length must equal the storage size of (count, width)
// exactly.
func NewBucketsFromRawData(count int, width uint8, raw []byte) (*Buckets, error) {
	b, err := NewBuckets(count, width)
	if err != nil {
		return nil, err
	}
	if want := len(b.data) * bytesPerWord; len(raw) != want {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrRawDataSize, len(raw), want)
	}
	for i := range b.data {
		b.data[i] = binary.LittleEndian.Uint64(raw[i*bytesPerWord:])
	}
	return b, nil
}

// Update folds raw into the backing words with bitwise OR, pairing bytes to
// words in little-endian order. Folding stops at the end of the shorter
// side, so data serialized from a smaller array merges onto the prefix and
// excess input bytes are ignored.
func (b *Buckets) Update(raw []byte) {
	if size := len(b.data) * bytesPerWord; len(raw) > size {
		raw = raw[:size]
	}
	for i, v := range raw {
		b.data[i/bytesPerWord] |= uint64(v) << (8 * (i % bytesPerWord))
	}
}
