package cpu

import (
	"encoding/binary"

	"golang.org/x/arch/riscv64/riscv64asm"
)

// Disassemble returns the GNU assembler syntax of an instruction word,
// or "?" if the word is not a valid RV64 instruction.
func Disassemble(word Word) string {
	var raw [4]byte
	binary.LittleEndian.PutUint32(raw[:], uint32(word))

	inst, err := riscv64asm.Decode(raw[:])
	if err != nil {
		return "?"
	}

	return riscv64asm.GNUSyntax(inst)
}
