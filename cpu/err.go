package cpu

import (
	"errors"

	"github.com/ezrec/rvcore/translate"
)

var f = translate.From

var (
	// Decode errors
	ErrNotA32Bit = errors.New(f("not a 32-bit instruction"))

	// Execute errors
	ErrDivisionByZero  = errors.New(f("division by zero"))
	ErrRemainderByZero = errors.New(f("remainder by zero"))
	ErrAluCommand      = errors.New(f("alu command invalid"))

	// Assembler errors
	ErrEquateSyntax       = errors.New(f(".equ syntax"))
	ErrEquateDuplicate    = errors.New(f(".equ duplicated"))
	ErrLabelDuplicate     = errors.New(f("label duplicated"))
	ErrOpcodeExtraArgs    = errors.New(f("excessive arguments"))
	ErrOpcodeValueMissing = errors.New(f("value missing"))
	ErrRegisterInvalid    = errors.New(f("register invalid"))
	ErrInstructionInvalid = errors.New(f("instruction invalid"))
	ErrImmediateRange     = errors.New(f("immediate out of range"))
)

// ErrUnsupportedOpcode is returned when the opcode map resolves to
// CATEGORY_UNIMPL.
type ErrUnsupportedOpcode struct {
	Row uint8
	Col uint8
}

func (err ErrUnsupportedOpcode) Error() string {
	return f("unsupported opcode row %d column %d", err.Row, err.Col)
}

func (err ErrUnsupportedOpcode) Is(target error) (ok bool) {
	_, ok = target.(ErrUnsupportedOpcode)
	return
}

// ErrUnsupportedFunct is returned when no ALU command matches a
// funct3/funct7 pair.
type ErrUnsupportedFunct struct {
	Category CodeCategory
	Funct3   uint8
	Funct7   uint8
}

func (err ErrUnsupportedFunct) Error() string {
	return f("%v: unsupported funct3 0b%03b funct7 0x%02x", err.Category, err.Funct3, err.Funct7)
}

func (err ErrUnsupportedFunct) Unwrap() error {
	return ErrAluCommand
}

type ErrWord Word

func (ew ErrWord) Error() string {
	return f("bad instruction 0x%08x", uint32(ew))
}

func (ew ErrWord) Is(err error) (ok bool) {
	_, ok = err.(ErrWord)
	return
}

type ErrLabelMissing string

func (el ErrLabelMissing) Error() string {
	return f("label %v missing", string(el))
}

type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}

type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}
