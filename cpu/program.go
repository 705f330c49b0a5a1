package cpu

import (
	"encoding/binary"
	"iter"
)

// WORD_SIZE is the size in bytes of an instruction word.
const WORD_SIZE = 4

// Opcode represents a line of assembled code with its source location and
// generated instruction words.
type Opcode struct {
	LineNo    int
	Pc        int
	Words     []string
	Codes     []Word
	LinkLabel string

	// link re-encodes the last code once LinkLabel's pc is known.
	link func(offset int64) (Word, error)
}

// Program is an assembled program, starting at pc 0.
type Program struct {
	Opcodes []Opcode
}

type Debug struct {
	*Opcode
	Index int
}

// Debug returns the opcode that generated the word at pc.
// The Opcode is nil if no opcode covers pc.
func (prog *Program) Debug(pc int) (dbg Debug) {
	for n, op := range prog.Opcodes {
		if pc >= op.Pc && pc < op.Pc+WORD_SIZE*len(op.Codes) {
			dbg = Debug{
				Opcode: &prog.Opcodes[n],
				Index:  (pc - op.Pc) / WORD_SIZE,
			}
			break
		}
	}

	return
}

// Codes iterates over every word of the program, with its pc.
func (prog *Program) Codes() iter.Seq2[int, Word] {
	return func(yield func(pc int, code Word) bool) {
		for _, op := range prog.Opcodes {
			for n, code := range op.Codes {
				if !yield(op.Pc+WORD_SIZE*n, code) {
					return
				}
			}
		}
	}
}

// Binary returns the little-endian program image.
func (prog *Program) Binary() (bin []byte) {
	for _, code := range prog.Codes() {
		bin = binary.LittleEndian.AppendUint32(bin, uint32(code))
	}

	return
}
