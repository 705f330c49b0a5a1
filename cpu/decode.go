package cpu

import (
	"fmt"
	"strings"
)

// RegisterReader is read-only access to a register file.
type RegisterReader interface {
	// Register returns the value of register 'index', 0 through 31.
	Register(index uint8) int64
}

// RegisterFunc adapts a plain function to a RegisterReader.
type RegisterFunc func(index uint8) int64

func (rf RegisterFunc) Register(index uint8) int64 {
	return rf(index)
}

// Decoded is a single decoded instruction.
type Decoded struct {
	Word     Word         // Source instruction word.
	Category CodeCategory // Operation category.
	Rd       uint8        // Destination register index.
	Funct3   uint8        // Sub-opcode, R/I/S/B formats.
	Funct7   uint8        // Sub-opcode, R format (and I-format shifts).
	Offset   int64        // Offsets for BRANCH and STORE.
	Left     int64        // Typically the value of rs1.
	Right    int64        // Typically the value of rs2, or the immediate.
}

// Decode classifies an instruction word and extracts its operands.
// Register operands are read through regs.
func Decode(word Word, regs RegisterReader) (dec Decoded, err error) {
	if word.Size() != 0b11 {
		err = ErrNotA32Bit
		return
	}

	cat := word.Category()
	format, ok := cat.Format()
	if !ok {
		err = ErrUnsupportedOpcode{Row: word.Row(), Col: word.Col()}
		return
	}

	// Never trust the reader to mask the index.
	reg := func(index uint8) int64 {
		return regs.Register(index & 0x1f)
	}

	dec = Decoded{
		Word:     word,
		Category: cat,
		Rd:       word.Rd(),
	}

	switch format {
	case FORMAT_R:
		dec.Funct3 = word.Funct3()
		dec.Funct7 = word.Funct7()
		dec.Left = reg(word.Rs1())
		dec.Right = reg(word.Rs2())
	case FORMAT_I:
		dec.Funct3 = word.Funct3()
		dec.Funct7 = word.Funct7()
		dec.Left = reg(word.Rs1())
		dec.Right = word.ImmI()
	case FORMAT_S:
		dec.Funct3 = word.Funct3()
		dec.Left = reg(word.Rs1())
		dec.Right = reg(word.Rs2())
		dec.Offset = word.ImmS()
	case FORMAT_B:
		dec.Funct3 = word.Funct3()
		dec.Left = reg(word.Rs1())
		dec.Right = reg(word.Rs2())
		dec.Offset = word.ImmB()
	case FORMAT_U:
		dec.Right = word.ImmU()
	case FORMAT_J:
		dec.Right = word.ImmJ()
	}

	return
}

// String returns the decoded fields, one per line.
func (dec Decoded) String() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Operation: %v\n", dec.Category)
	fmt.Fprintf(&sb, "RD       : %d\n", dec.Rd)
	fmt.Fprintf(&sb, "funct3   : %d\n", dec.Funct3)
	fmt.Fprintf(&sb, "funct7   : %d\n", dec.Funct7)
	fmt.Fprintf(&sb, "offset   : %d\n", dec.Offset)
	fmt.Fprintf(&sb, "left     : %d\n", dec.Left)
	fmt.Fprintf(&sb, "right    : %d", dec.Right)

	return sb.String()
}
