package io

import (
	"maps"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMemory(t *testing.T) {
	assert := assert.New(t)

	mem := NewMemory(16)
	assert.Equal(16, mem.Size())
	assert.Equal(map[string]string{"MEMORY_SIZE": "16"}, maps.Collect(mem.Defines()))

	assert.NoError(mem.Write64(0, 0x0807060504030201))
	assert.Equal([]byte{1, 2, 3, 4, 5, 6, 7, 8}, mem.Data[:8])

	v8, err := mem.Read8(7)
	assert.NoError(err)
	assert.Equal(uint8(8), v8)

	v16, err := mem.Read16(2)
	assert.NoError(err)
	assert.Equal(uint16(0x0403), v16)

	v32, err := mem.Read32(4)
	assert.NoError(err)
	assert.Equal(uint32(0x08070605), v32)

	assert.NoError(mem.Write8(8, 0xaa))
	assert.NoError(mem.Write16(9, 0xccbb))
	assert.NoError(mem.Write32(12, 0xdeadbeef))

	v64, err := mem.Read64(8)
	assert.NoError(err)
	assert.Equal(uint64(0xdeadbeef00ccbbaa), v64)

	mem.Reset()
	assert.Equal(make([]byte, 16), mem.Data)
}

func TestMemory_Bounds(t *testing.T) {
	assert := assert.New(t)

	mem := NewMemory(16)

	_, err := mem.Read64(9)
	assert.Equal(ErrAddress{Address: 9, Size: 8}, err)

	_, err = mem.Read8(16)
	assert.ErrorIs(err, ErrAddress{})

	_, err = mem.Read16(-1)
	assert.ErrorIs(err, ErrAddress{})

	err = mem.Write32(13, 0)
	assert.Equal(ErrAddress{Address: 13, Size: 4}, err)

	v64, err := mem.Read64(8)
	assert.NoError(err)
	assert.Equal(uint64(0), v64)
}

func TestMemory_Load(t *testing.T) {
	assert := assert.New(t)

	mem := NewMemory(8)

	assert.NoError(mem.Load(4, []byte{1, 2, 3, 4}))
	assert.Equal([]byte{0, 0, 0, 0, 1, 2, 3, 4}, mem.Data)

	err := mem.Load(6, []byte{1, 2, 3})
	assert.ErrorIs(err, ErrAddress{})
	assert.Equal([]byte{0, 0, 0, 0, 1, 2, 3, 4}, mem.Data)
}
