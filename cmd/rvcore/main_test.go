package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsSource(t *testing.T) {
	assert := assert.New(t)

	assert.True(isSource("prog.s"))
	assert.True(isSource("dir/prog.ASM"))
	assert.False(isSource("prog.bin"))
	assert.False(isSource("prog"))
}

func TestAsmAndRun(t *testing.T) {
	assert := assert.New(t)

	dir := t.TempDir()
	source := filepath.Join(dir, "prog.s")
	image := filepath.Join(dir, "prog.bin")

	program := []string{
		"addi x2, x0, 5",
		"sub x0, x0, x0",
		"addi x1, x0, $(MEMORY_SIZE // 1024)",
	}
	assert.NoError(os.WriteFile(source, []byte(strings.Join(program, "\n")), 0o644))

	cmd := newRootCmd()
	cmd.SetArgs([]string{"asm", source})
	assert.NoError(cmd.Execute())

	data, err := os.ReadFile(image)
	assert.NoError(err)
	assert.Equal([]byte{
		0x13, 0x01, 0x50, 0x00,
		0x33, 0x00, 0x00, 0x40,
		0x93, 0x00, 0x00, 0x10,
	}, data)

	for _, args := range [][]string{
		{"run", image},
		{"run", "--memory", "262144", source},
	} {
		cmd = newRootCmd()
		out := &bytes.Buffer{}
		cmd.SetOut(out)
		cmd.SetArgs(args)
		assert.NoError(cmd.Execute())

		text := out.String()
		assert.Contains(text, "Fetch: 0x00500113\nOperation: OPIMM\n")
		assert.Contains(text, "Fetch: 0x40000033\nOperation: OP\n")
		assert.Contains(text, "Result: 0 [NZCV]: 0100")
		assert.Contains(text, "Result: 256 [NZCV]: 0010")
	}
}
