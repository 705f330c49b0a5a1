package io

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRom_ReadFrom(t *testing.T) {
	assert := assert.New(t)

	rom := &Rom{}
	n, err := rom.ReadFrom(bytes.NewReader([]byte{
		0x13, 0x01, 0x50, 0x00,
		0xef, 0xbe, 0xad, 0xde,
	}))
	assert.NoError(err)
	assert.Equal(int64(8), n)
	assert.Equal([]uint32{0x00500113, 0xdeadbeef}, rom.Data)
	assert.Equal(8, rom.Len())
}

func TestRom_ReadFrom_Length(t *testing.T) {
	assert := assert.New(t)

	rom := &Rom{Data: []uint32{1}}
	_, err := rom.ReadFrom(bytes.NewReader([]byte{0x13, 0x01, 0x50}))
	assert.ErrorIs(err, ErrImageLength)
	assert.Equal([]uint32{1}, rom.Data)
}

func TestRom_ReadFrom_Empty(t *testing.T) {
	assert := assert.New(t)

	rom := &Rom{Data: []uint32{1}}
	n, err := rom.ReadFrom(bytes.NewReader(nil))
	assert.NoError(err)
	assert.Equal(int64(0), n)
	assert.Empty(rom.Data)
}

func TestRom_Bytes(t *testing.T) {
	assert := assert.New(t)

	rom := &Rom{Data: []uint32{0x00500113, 0xdeadbeef}}
	data := rom.Bytes()
	assert.Equal([]byte{0x13, 0x01, 0x50, 0x00, 0xef, 0xbe, 0xad, 0xde}, data)

	again := &Rom{}
	_, err := again.ReadFrom(bytes.NewReader(data))
	assert.NoError(err)
	assert.Equal(rom.Data, again.Data)
}

func TestRom_Words(t *testing.T) {
	assert := assert.New(t)

	rom := &Rom{Data: []uint32{10, 20, 30}}

	var offsets []int
	var words []uint32
	for offset, word := range rom.Words() {
		offsets = append(offsets, offset)
		words = append(words, word)
		if offset == 4 {
			break
		}
	}
	assert.Equal([]int{0, 4}, offsets)
	assert.Equal([]uint32{10, 20}, words)
}
