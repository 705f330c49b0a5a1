package emulator

import (
	"github.com/ezrec/rvcore/translate"
)

var f = translate.From

// ErrRuntime indicates the location of a runtime error.
type ErrRuntime struct {
	Index  int   // Instruction index, pc / 4.
	Pc     int64 // Address of the instruction.
	LineNo int   // Source line, if the image was assembled.
	Err    error
}

func (err *ErrRuntime) Error() string {
	if err.LineNo > 0 {
		return f("instruction %d (pc 0x%x) line %d: %v", err.Index, err.Pc, err.LineNo, err.Err)
	}
	return f("instruction %d (pc 0x%x): %v", err.Index, err.Pc, err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}
