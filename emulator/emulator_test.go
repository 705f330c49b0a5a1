package emulator

import (
	"bytes"
	"maps"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/rvcore/cpu"
	"github.com/ezrec/rvcore/io"
)

func TestEmulator(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator(io.MEMORY_SIZE)

	assert.False(emu.Verbose)
	assert.Equal(io.MEMORY_SIZE, emu.Memory.Size())

	assert.NoError(emu.Reset())
	assert.Equal(int64(0), emu.Pc)
	assert.Equal(int64(io.MEMORY_SIZE), emu.Register(REGISTER_SP))

	// Empty image is immediately done.
	done, err := emu.Tick()
	assert.NoError(err)
	assert.True(done)
}

func TestEmulatorDefines(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator(1024)

	expected := map[string]string{
		"XLEN":          "64",
		"STACK_POINTER": "x2",
		"MEMORY_SIZE":   "1024",
	}
	assert.Equal(expected, maps.Collect(emu.Defines()))
}

func TestRegisters(t *testing.T) {
	assert := assert.New(t)

	regs := &Registers{}

	regs.SetRegister(0, 123)
	assert.Equal(int64(0), regs.Register(0))
	assert.Equal(int64(0), regs[0])

	regs.SetRegister(5, -7)
	assert.Equal(int64(-7), regs.Register(5))
	assert.Equal(int64(-7), regs.Register(5+32))

	regs.SetRegister(31+32, 99)
	assert.Equal(int64(99), regs.Register(31))

	// x0 reads as zero even if the backing store is dirty.
	regs[0] = 55
	assert.Equal(int64(0), regs.Register(0))
	assert.Contains(regs.String(), "x5  0xfffffffffffffff9")
}

func doRun(emu *Emulator, program []string, t *testing.T) (steps []Step) {
	assert := assert.New(t)

	asm := &cpu.Assembler{}
	for key, value := range emu.Defines() {
		asm.Predefine(key, value)
	}
	prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	assert.NoError(err)
	if err != nil {
		t.Fatal(err)
	}
	emu.Program = prog

	err = emu.Reset()
	assert.NoError(err)

	for _, op := range prog.Opcodes {
		here := program[op.LineNo-1]
		for c := range len(op.Codes) {
			assert.Equal(op.LineNo, emu.LineNo(), here)
			assert.Equal(int64(op.Pc+c*cpu.WORD_SIZE), emu.Pc, here)
			done, err := emu.Tick()
			assert.NoError(err, here)
			if err != nil {
				t.Fatalf("%v", err)
			}
			assert.False(done, here)
			assert.Equal(op.Codes[c], emu.Last.Word, here)
			steps = append(steps, emu.Last)
		}
	}
	done, err := emu.Tick()
	assert.NoError(err)
	assert.True(done)

	return
}

func TestEmulatorRun(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator(4096)

	program := []string{
		"addi x2, x0, 5",
		"sub x3, x0, x0",
		"lui x4, 0xfffff",
		"add x5, sp, sp",
		"auipc x6, 1",
		"ld x7, -8(sp)",
		"sd x7, 16(x0)",
		"beq x0, x0, 8",
		"ecall",
		"li x8, 0x12345678",
		"addi x9, x0, $(MEMORY_SIZE // 4)",
	}

	steps := doRun(emu, program, t)
	if !assert.Len(steps, 12) {
		return
	}

	// No write-back: sp keeps its reset value.
	assert.Equal(int64(4096), emu.Register(REGISTER_SP))

	values := []int64{5, 0, -4096, 8192, 16 + 4096, 4088, 16, 0, 0, 0x12345000, 0x678, 1024}
	for n, step := range steps {
		assert.Equal(values[n], step.Result.Value, "step %d", n)
		assert.Equal(int64(n*cpu.WORD_SIZE), step.Pc)
	}

	assert.Equal(cpu.CATEGORY_BRANCH, steps[7].Decoded.Category)
	assert.True(steps[7].Result.Zero)
	assert.Equal(int64(8), steps[7].Decoded.Offset)

	// addiw reads x8, which is never written.
	assert.Equal(int64(0), steps[10].Decoded.Left)

	assert.Equal(12, emu.Ticks)
	assert.Equal(
		"Fetch: 0x00500113\n"+
			"Operation: OPIMM\n"+
			"RD       : 2\n"+
			"funct3   : 0\n"+
			"funct7   : 0\n"+
			"offset   : 0\n"+
			"left     : 0\n"+
			"right    : 5\n"+
			"Result: 5 [NZCV]: 0010",
		steps[0].String())
}

func TestEmulatorRom(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator(64)
	emu.Program = nil

	_, err := emu.Rom.ReadFrom(bytes.NewReader([]byte{
		0x13, 0x01, 0x50, 0x00, // addi x2, x0, 5
		0x33, 0x00, 0x00, 0x40, // sub x0, x0, x0
	}))
	assert.NoError(err)
	assert.NoError(emu.Reset())

	assert.Equal(0, emu.LineNo())

	done, err := emu.Tick()
	assert.NoError(err)
	assert.False(done)
	assert.Equal("Result: 5 [NZCV]: 0010", emu.Last.Result.String())

	done, err = emu.Tick()
	assert.NoError(err)
	assert.False(done)
	assert.True(emu.Last.Result.Zero)

	done, err = emu.Tick()
	assert.NoError(err)
	assert.True(done)
}

func TestEmulatorImageTooLarge(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator(4)
	emu.Rom.Data = []uint32{0x13, 0x13}

	err := emu.Reset()
	assert.ErrorIs(err, io.ErrAddress{})
}

func TestEmulatorErrors(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator(1024)

	program := []string{
		"addi x1, x0, 1",
		".word 0x00000000", // not a 32-bit instruction
		".word 0x0000000f", // MISC_MEM
		"div x1, x1, x0",
		"addi x1, x0, 2",
	}

	asm := &cpu.Assembler{}
	prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	assert.NoError(err)
	emu.Program = prog
	assert.NoError(emu.Reset())

	table := [](struct {
		index    int
		expected error
	}){
		{1, cpu.ErrNotA32Bit},
		{2, cpu.ErrUnsupportedOpcode{}},
		{3, cpu.ErrDivisionByZero},
	}

	done, err := emu.Tick()
	assert.NoError(err)
	assert.False(done)

	for _, entry := range table {
		done, err = emu.Tick()
		assert.False(done)
		assert.ErrorIs(err, entry.expected)

		var rterr *ErrRuntime
		if assert.ErrorAs(err, &rterr) {
			assert.Equal(entry.index, rterr.Index)
			assert.Equal(int64(entry.index*4), rterr.Pc)
			assert.Equal(entry.index+1, rterr.LineNo)
		}

		// Error does not advance the pc.
		assert.Equal(int64(entry.index*4), emu.Pc)
		emu.Skip()
	}

	done, err = emu.Tick()
	assert.NoError(err)
	assert.False(done)
	assert.Equal(int64(2), emu.Last.Result.Value)

	done, err = emu.Tick()
	assert.NoError(err)
	assert.True(done)
	assert.Equal(2, emu.Ticks)
}
