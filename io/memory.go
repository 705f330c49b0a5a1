package io

import (
	"encoding/binary"
	"fmt"
	"iter"
	"maps"
)

// MEMORY_SIZE is the default size of the data memory, in bytes.
const MEMORY_SIZE = 1 << 18

// Memory is a flat, byte addressed, little-endian data memory.
type Memory struct {
	Data []byte
}

// NewMemory creates a zeroed memory of 'size' bytes.
func NewMemory(size int) (mem *Memory) {
	mem = &Memory{
		Data: make([]byte, size),
	}
	return
}

// Defines returns the assembler equates describing the memory.
func (mem *Memory) Defines() iter.Seq2[string, string] {
	return maps.All(map[string]string{
		"MEMORY_SIZE": fmt.Sprintf("%d", mem.Size()),
	})
}

// Size returns the size of the memory in bytes.
func (mem *Memory) Size() int {
	return len(mem.Data)
}

// Reset zeroes the memory.
func (mem *Memory) Reset() {
	clear(mem.Data)
}

// slice returns the 'size' bytes at 'addr'.
func (mem *Memory) slice(addr int64, size int) (data []byte, err error) {
	if addr < 0 || addr > int64(len(mem.Data)-size) {
		err = ErrAddress{Address: addr, Size: size}
		return
	}

	data = mem.Data[addr : addr+int64(size)]
	return
}

// Load copies 'data' into memory at 'offset'.
func (mem *Memory) Load(offset int64, data []byte) (err error) {
	dst, err := mem.slice(offset, len(data))
	if err != nil {
		return
	}

	copy(dst, data)
	return
}

func (mem *Memory) Read8(addr int64) (value uint8, err error) {
	data, err := mem.slice(addr, 1)
	if err != nil {
		return
	}
	value = data[0]
	return
}

func (mem *Memory) Read16(addr int64) (value uint16, err error) {
	data, err := mem.slice(addr, 2)
	if err != nil {
		return
	}
	value = binary.LittleEndian.Uint16(data)
	return
}

func (mem *Memory) Read32(addr int64) (value uint32, err error) {
	data, err := mem.slice(addr, 4)
	if err != nil {
		return
	}
	value = binary.LittleEndian.Uint32(data)
	return
}

func (mem *Memory) Read64(addr int64) (value uint64, err error) {
	data, err := mem.slice(addr, 8)
	if err != nil {
		return
	}
	value = binary.LittleEndian.Uint64(data)
	return
}

func (mem *Memory) Write8(addr int64, value uint8) (err error) {
	data, err := mem.slice(addr, 1)
	if err != nil {
		return
	}
	data[0] = value
	return
}

func (mem *Memory) Write16(addr int64, value uint16) (err error) {
	data, err := mem.slice(addr, 2)
	if err != nil {
		return
	}
	binary.LittleEndian.PutUint16(data, value)
	return
}

func (mem *Memory) Write32(addr int64, value uint32) (err error) {
	data, err := mem.slice(addr, 4)
	if err != nil {
		return
	}
	binary.LittleEndian.PutUint32(data, value)
	return
}

func (mem *Memory) Write64(addr int64, value uint64) (err error) {
	data, err := mem.slice(addr, 8)
	if err != nil {
		return
	}
	binary.LittleEndian.PutUint64(data, value)
	return
}
