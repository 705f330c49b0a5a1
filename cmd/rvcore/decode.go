package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/xlab/treeprint"

	"github.com/ezrec/rvcore/cpu"
)

// zeroRegisters reads every register as zero.
var zeroRegisters = cpu.RegisterFunc(func(index uint8) int64 { return 0 })

// parseWord parses a hexadecimal instruction word, with or without 0x.
func parseWord(text string) (word cpu.Word, err error) {
	text = strings.TrimPrefix(strings.ToLower(text), "0x")
	value, err := strconv.ParseUint(text, 16, 32)
	if err != nil {
		return
	}
	word = cpu.Word(value)
	return
}

// decodeTree builds the tree of decoded fields and the ALU selection.
func decodeTree(word cpu.Word) (tree treeprint.Tree) {
	tree = treeprint.NewWithRoot(fmt.Sprintf("0x%08x  %v", uint32(word), cpu.Disassemble(word)))

	dec, err := cpu.Decode(word, zeroRegisters)
	if err != nil {
		tree.AddMetaNode("error", err)
		return
	}

	fields := tree.AddBranch("decode")
	fields.AddMetaNode("category", dec.Category)
	if format, ok := dec.Category.Format(); ok {
		fields.AddMetaNode("format", format)
	}
	fields.AddMetaNode("rd", dec.Rd)
	fields.AddMetaNode("funct3", fmt.Sprintf("0b%03b", dec.Funct3))
	fields.AddMetaNode("funct7", fmt.Sprintf("0x%02x", dec.Funct7))
	fields.AddMetaNode("offset", dec.Offset)
	fields.AddMetaNode("left", dec.Left)
	fields.AddMetaNode("right", dec.Right)

	op, err := cpu.Select(dec, 0)
	if err != nil {
		tree.AddMetaNode("error", err)
		return
	}

	alu := tree.AddBranch("alu")
	alu.AddMetaNode("command", op.Command)
	alu.AddMetaNode("left", op.Left)
	alu.AddMetaNode("right", op.Right)

	res, err := cpu.Alu(op.Command, op.Left, op.Right)
	if err != nil {
		alu.AddMetaNode("error", err)
		return
	}
	alu.AddMetaNode("result", res.Value)
	alu.AddMetaNode("NZCV", res.Flags)

	return
}

func newDecodeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decode WORD...",
		Short: "Print the decoded fields of hexadecimal instruction words",
		Args:  cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			for _, arg := range args {
				word, err := parseWord(arg)
				if err != nil {
					logrus.Fatalf("%v: %v", arg, err)
				}
				fmt.Fprint(out, decodeTree(word).String())
			}
		},
	}

	return cmd
}
