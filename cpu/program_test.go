package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProgram(t *testing.T) {
	assert := assert.New(t)

	prog := &Program{
		Opcodes: []Opcode{
			{LineNo: 1, Pc: 0, Codes: []Word{0x00500113}},
			{LineNo: 3, Pc: 4, Codes: []Word{0x123452b7, 0x6782829b}},
			{LineNo: 4, Pc: 12, Codes: []Word{0x00000073}},
		},
	}

	assert.Equal([]byte{
		0x13, 0x01, 0x50, 0x00,
		0xb7, 0x52, 0x34, 0x12,
		0x9b, 0x82, 0x82, 0x67,
		0x73, 0x00, 0x00, 0x00,
	}, prog.Binary())

	var pcs []int
	for pc := range prog.Codes() {
		pcs = append(pcs, pc)
	}
	assert.Equal([]int{0, 4, 8, 12}, pcs)

	dbg := prog.Debug(8)
	if assert.NotNil(dbg.Opcode) {
		assert.Equal(3, dbg.LineNo)
		assert.Equal(1, dbg.Index)
		assert.Equal(Word(0x6782829b), dbg.Codes[dbg.Index])
	}

	dbg = prog.Debug(16)
	assert.Nil(dbg.Opcode)
}
