package emulator

import (
	"fmt"
	"strings"
)

// REGISTER_SP is the stack pointer register.
const REGISTER_SP = 2

// Registers is the integer register file. x0 always reads as zero.
type Registers [32]int64

// Register returns the value of register 'index', masked to 0..31.
func (regs *Registers) Register(index uint8) int64 {
	index &= 0x1f
	if index == 0 {
		return 0
	}
	return regs[index]
}

// SetRegister sets register 'index', masked to 0..31. Writes to x0 are ignored.
func (regs *Registers) SetRegister(index uint8, value int64) {
	index &= 0x1f
	if index == 0 {
		return
	}
	regs[index] = value
}

func (regs *Registers) String() string {
	var sb strings.Builder
	for n := range regs {
		fmt.Fprintf(&sb, "x%-2d 0x%016x", n, uint64(regs.Register(uint8(n))))
		if n%4 == 3 {
			sb.WriteString("\n")
		} else {
			sb.WriteString("  ")
		}
	}
	return sb.String()
}
