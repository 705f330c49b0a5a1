package cpu

import (
	"errors"
	"fmt"
)

// CodeAluCmd is an ALU command.
type CodeAluCmd int

//go:generate go tool stringer -linecomment -type=CodeAluCmd
const (
	ALU_ADD = CodeAluCmd(0)  // add
	ALU_SUB = CodeAluCmd(1)  // sub
	ALU_MUL = CodeAluCmd(2)  // mul
	ALU_DIV = CodeAluCmd(3)  // div
	ALU_REM = CodeAluCmd(4)  // rem
	ALU_SLL = CodeAluCmd(5)  // sll
	ALU_SRL = CodeAluCmd(6)  // srl
	ALU_SRA = CodeAluCmd(7)  // sra
	ALU_AND = CodeAluCmd(8)  // and
	ALU_OR  = CodeAluCmd(9)  // or
	ALU_XOR = CodeAluCmd(10) // xor
	ALU_NOT = CodeAluCmd(11) // not
)

// funct7 values that select between overlapping commands.
const (
	FUNCT7_BASE = 0x00 // add, srl, xor, or
	FUNCT7_ALT  = 0x20 // sub, sra
	FUNCT7_MULD = 0x01 // mul, div, rem
)

// Flags are the condition flags produced by every ALU command.
type Flags struct {
	Negative bool
	Zero     bool
	Carry    bool
	Overflow bool
}

// String returns the flags as NZCV bits.
func (fl Flags) String() string {
	bit := func(b bool) int {
		if b {
			return 1
		}
		return 0
	}
	return fmt.Sprintf("%d%d%d%d", bit(fl.Negative), bit(fl.Zero), bit(fl.Carry), bit(fl.Overflow))
}

// Result is the output of a single execute.
type Result struct {
	Value int64
	Flags
}

func (res Result) String() string {
	return fmt.Sprintf("Result: %d [NZCV]: %v", res.Value, res.Flags)
}

// Operation is a selected ALU command and the operands presented to it.
type Operation struct {
	Command CodeAluCmd
	Left    int64
	Right   int64
}

// Select chooses the ALU command and operands for a decoded instruction.
func Select(dec Decoded, pc int64) (op Operation, err error) {
	op = Operation{Left: dec.Left, Right: dec.Right}

	switch dec.Category {
	case CATEGORY_BRANCH:
		// The flags tell the caller if the branch is taken.
		op.Command = ALU_SUB
	case CATEGORY_LOAD, CATEGORY_JALR:
		op.Command = ALU_ADD
	case CATEGORY_STORE:
		// rs2 is the data to store, the address is base + offset.
		op.Command = ALU_ADD
		op.Right = dec.Offset
	case CATEGORY_JAL, CATEGORY_SYSTEM:
		op.Command = ALU_ADD
		op.Left = 0
		op.Right = 0
	case CATEGORY_AUIPC:
		op.Command = ALU_ADD
		op.Left = pc
	case CATEGORY_LUI:
		op.Command = ALU_ADD
		op.Left = 0
	case CATEGORY_OP, CATEGORY_OP_32:
		if dec.Category == CATEGORY_OP_32 {
			op.Left = SignExtend(op.Left, 31)
			op.Right = SignExtend(op.Right, 31)
		}
		op.Command, err = selectOp(dec)
	case CATEGORY_OP_IMM, CATEGORY_OP_IMM_32:
		if dec.Category == CATEGORY_OP_IMM_32 {
			op.Left = SignExtend(op.Left, 31)
			op.Right = SignExtend(op.Right, 31)
		}
		op.Command, err = selectOpImm(dec)
	default:
		err = ErrUnsupportedOpcode{Row: dec.Word.Row(), Col: dec.Word.Col()}
	}

	return
}

// selectOp resolves the command of an OP or OP_32 instruction.
func selectOp(dec Decoded) (cmd CodeAluCmd, err error) {
	unsupported := ErrUnsupportedFunct{Category: dec.Category, Funct3: dec.Funct3, Funct7: dec.Funct7}

	switch dec.Funct3 {
	case 0b000:
		switch dec.Funct7 {
		case FUNCT7_BASE:
			cmd = ALU_ADD
		case FUNCT7_ALT:
			cmd = ALU_SUB
		case FUNCT7_MULD:
			cmd = ALU_MUL
		default:
			err = unsupported
		}
	case 0b001:
		cmd = ALU_SLL
	case 0b100:
		switch dec.Funct7 {
		case FUNCT7_BASE:
			cmd = ALU_XOR
		case FUNCT7_MULD:
			cmd = ALU_DIV
		default:
			err = unsupported
		}
	case 0b101:
		switch dec.Funct7 {
		case FUNCT7_BASE:
			cmd = ALU_SRL
		case FUNCT7_ALT:
			cmd = ALU_SRA
		default:
			err = unsupported
		}
	case 0b110:
		switch dec.Funct7 {
		case FUNCT7_BASE:
			cmd = ALU_OR
		case FUNCT7_MULD:
			cmd = ALU_REM
		default:
			err = unsupported
		}
	case 0b111:
		cmd = ALU_AND
	default:
		err = unsupported
	}

	return
}

// selectOpImm resolves the command of an OP_IMM or OP_IMM_32 instruction.
func selectOpImm(dec Decoded) (cmd CodeAluCmd, err error) {
	switch dec.Funct3 {
	case 0b000:
		cmd = ALU_ADD
	case 0b100:
		cmd = ALU_XOR
	case 0b110:
		cmd = ALU_OR
	case 0b111:
		cmd = ALU_AND
	case 0b001:
		cmd = ALU_SLL
	case 0b101:
		funct7 := dec.Funct7
		if dec.Category == CATEGORY_OP_IMM {
			// inst[25] is shamt[5] for 64-bit shifts.
			funct7 &^= 1
		}
		switch funct7 {
		case FUNCT7_BASE:
			cmd = ALU_SRL
		case FUNCT7_ALT:
			cmd = ALU_SRA
		default:
			err = ErrUnsupportedFunct{Category: dec.Category, Funct3: dec.Funct3, Funct7: dec.Funct7}
		}
	default:
		err = ErrUnsupportedFunct{Category: dec.Category, Funct3: dec.Funct3, Funct7: dec.Funct7}
	}

	return
}

// Alu performs the command on left and right, and computes the flags.
func Alu(cmd CodeAluCmd, left, right int64) (res Result, err error) {
	shamt := uint64(right) & 0x3f

	var value int64
	switch cmd {
	case ALU_ADD:
		value = left + right
	case ALU_SUB:
		value = left - right
	case ALU_MUL:
		value = left * right
	case ALU_DIV:
		if right == 0 {
			err = ErrDivisionByZero
			return
		}
		// math.MinInt64 / -1 wraps to math.MinInt64.
		value = left / right
	case ALU_REM:
		if right == 0 {
			err = ErrRemainderByZero
			return
		}
		value = left % right
	case ALU_SLL:
		value = left << shamt
	case ALU_SRL:
		value = int64(uint64(left) >> shamt)
	case ALU_SRA:
		value = left >> shamt
	case ALU_AND:
		value = left & right
	case ALU_OR:
		value = left | right
	case ALU_XOR:
		value = left ^ right
	case ALU_NOT:
		value = ^left
	default:
		err = ErrAluCommand
		return
	}

	signLeft := left < 0
	signRight := right < 0
	signValue := value < 0

	res = Result{
		Value: value,
		Flags: Flags{
			Negative: signValue,
			Zero:     value == 0,
			// Not a true carry-out; computed uniformly for every command.
			Carry:    value > left || value > right,
			Overflow: (!signLeft && !signRight && signValue) || (signLeft && signRight && !signValue),
		},
	}

	return
}

// Execute selects and performs the ALU command for a decoded instruction.
// pc is the address of the instruction, used by AUIPC.
func Execute(dec Decoded, pc int64) (res Result, err error) {
	defer func() {
		if err != nil {
			err = errors.Join(ErrWord(dec.Word), err)
		}
	}()

	op, err := Select(dec, pc)
	if err != nil {
		return
	}

	res, err = Alu(op.Command, op.Left, op.Right)

	return
}
