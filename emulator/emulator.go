// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"bytes"
	"fmt"
	"iter"
	"maps"

	"github.com/sirupsen/logrus"

	"github.com/ezrec/rvcore/cpu"
	"github.com/ezrec/rvcore/internal"
	"github.com/ezrec/rvcore/io"
)

var _emulator_defines = map[string]string{
	"XLEN":          "64",
	"STACK_POINTER": fmt.Sprintf("x%d", REGISTER_SP),
}

// Step is the trace of a single executed instruction.
type Step struct {
	Pc      int64       // Address of the instruction.
	Word    cpu.Word    // Fetched instruction word.
	Decoded cpu.Decoded // Decoded fields and operands.
	Result  cpu.Result  // ALU result and flags.
}

func (step Step) String() string {
	return fmt.Sprintf("Fetch: 0x%08x\n%v\n%v", uint32(step.Word), step.Decoded, step.Result)
}

// Emulator state. Registers + memory + the loaded image.
type Emulator struct {
	Verbose bool // If set, enables verbose logging.
	Registers
	Pc      int64        // Program counter.
	Program *cpu.Program // Reference to the assembled program listing, if any.
	Rom     io.Rom       // Program image.
	Memory  *io.Memory   // Data memory, holding the image at address 0.
	Last    Step         // Trace of the last executed instruction.
	Ticks   int          // Instructions executed since reset.
}

// NewEmulator creates a new emulator with 'memorySize' bytes of memory.
func NewEmulator(memorySize int) (emu *Emulator) {
	emu = &Emulator{
		Program: &cpu.Program{},
		Memory:  io.NewMemory(memorySize),
	}

	return
}

// Defines returns an iterator over all of the defines
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	return internal.IterSeq2Concat(maps.All(_emulator_defines),
		emu.Memory.Defines(),
	)
}

// Reset the emulator state, and load the image into memory.
//
// If a program is present it replaces the image in Rom.
func (emu *Emulator) Reset() (err error) {
	if emu.Program != nil && len(emu.Program.Opcodes) > 0 {
		_, err = emu.Rom.ReadFrom(bytes.NewReader(emu.Program.Binary()))
		if err != nil {
			return
		}
	}

	clear(emu.Registers[:])
	emu.Memory.Reset()
	emu.Pc = 0
	emu.Last = Step{}
	emu.Ticks = 0

	err = emu.Memory.Load(0, emu.Rom.Bytes())
	if err != nil {
		return
	}

	emu.SetRegister(REGISTER_SP, int64(emu.Memory.Size()))

	return
}

// LineNo returns the current line number for the executing opcode.
func (emu *Emulator) LineNo() int {
	if emu.Program == nil {
		return 0
	}

	dbg := emu.Program.Debug(int(emu.Pc))
	if dbg.Opcode == nil {
		return 0
	}

	return dbg.LineNo
}

// Index returns the instruction index of the pc.
func (emu *Emulator) Index() int {
	return int(emu.Pc / cpu.WORD_SIZE)
}

// Skip moves the pc past the current instruction.
func (emu *Emulator) Skip() {
	emu.Pc += cpu.WORD_SIZE
}

// Tick performs a single fetch, decode and execute.
// done is set when the pc has reached the end of the image.
func (emu *Emulator) Tick() (done bool, err error) {
	if emu.Pc >= int64(emu.Rom.Len()) {
		done = true
		return
	}

	pc := emu.Pc
	index := emu.Index()
	lineno := emu.LineNo()
	defer func() {
		if err != nil {
			err = &ErrRuntime{Index: index, Pc: pc, LineNo: lineno, Err: err}
		}
	}()

	word32, err := emu.Memory.Read32(pc)
	if err != nil {
		return
	}
	word := cpu.Word(word32)

	dec, err := cpu.Decode(word, &emu.Registers)
	if err != nil {
		return
	}

	res, err := cpu.Execute(dec, pc)
	if err != nil {
		return
	}

	emu.Last = Step{
		Pc:      pc,
		Word:    word,
		Decoded: dec,
		Result:  res,
	}

	if emu.Verbose {
		logrus.WithFields(logrus.Fields{
			"pc":       fmt.Sprintf("0x%x", pc),
			"word":     fmt.Sprintf("0x%08x", word32),
			"category": dec.Category,
			"asm":      cpu.Disassemble(word),
		}).Info(res)
	}

	emu.Pc += cpu.WORD_SIZE
	emu.Ticks++

	return
}
