package io

import (
	"encoding/binary"
	"io"
	"iter"
)

// ROM_WORD_SIZE is the size in bytes of a single image word.
const ROM_WORD_SIZE = 4

// Rom is a program image of 32-bit instruction words.
type Rom struct {
	Data []uint32
}

var _ io.ReaderFrom = (*Rom)(nil)

// ReadFrom replaces the image with the little-endian words read from r.
func (rc *Rom) ReadFrom(r io.Reader) (n int64, err error) {
	data, err := io.ReadAll(r)
	n = int64(len(data))
	if err != nil {
		return
	}

	if len(data)%ROM_WORD_SIZE != 0 {
		err = ErrImageLength
		return
	}

	rc.Data = make([]uint32, 0, len(data)/ROM_WORD_SIZE)
	for len(data) > 0 {
		rc.Data = append(rc.Data, binary.LittleEndian.Uint32(data))
		data = data[ROM_WORD_SIZE:]
	}

	return
}

// Bytes returns the little-endian image.
func (rc *Rom) Bytes() (data []byte) {
	data = make([]byte, 0, len(rc.Data)*ROM_WORD_SIZE)
	for _, word := range rc.Data {
		data = binary.LittleEndian.AppendUint32(data, word)
	}
	return
}

// Len returns the size of the image in bytes.
func (rc *Rom) Len() int {
	return len(rc.Data) * ROM_WORD_SIZE
}

// Words iterates over the image words, with their byte offset.
func (rc *Rom) Words() iter.Seq2[int, uint32] {
	return func(yield func(offset int, word uint32) bool) {
		for n, word := range rc.Data {
			if !yield(n*ROM_WORD_SIZE, word) {
				return
			}
		}
	}
}
