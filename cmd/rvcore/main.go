// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ezrec/rvcore/cpu"
	"github.com/ezrec/rvcore/emulator"
	"github.com/ezrec/rvcore/io"
)

// assemble compiles an assembly source file.
func assemble(source string, verbose bool, defines map[string]string) (prog *cpu.Program, err error) {
	inf, err := os.Open(source)
	if err != nil {
		return
	}
	defer inf.Close()

	asm := &cpu.Assembler{Verbose: verbose}
	for key, value := range defines {
		asm.Predefine(key, value)
	}

	prog, err = asm.Parse(inf)
	return
}

// isSource reports if the file should be assembled before use.
func isSource(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".s", ".asm":
		return true
	}
	return false
}

func newRunCmd() *cobra.Command {
	var memorySize int
	var keepGoing bool
	var asmSource bool
	var verbose bool

	cmd := &cobra.Command{
		Use:   "run IMAGE",
		Short: "Fetch, decode and execute every instruction of an image",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			image := args[0]

			emu := emulator.NewEmulator(memorySize)
			emu.Verbose = verbose

			if asmSource || isSource(image) {
				defines := map[string]string{}
				for key, value := range emu.Defines() {
					defines[key] = value
				}
				prog, err := assemble(image, verbose, defines)
				if err != nil {
					logrus.Fatalf("%v: %v", image, err)
				}
				emu.Program = prog
			} else {
				inf, err := os.Open(image)
				if err != nil {
					logrus.Fatalf("%v: %v", image, err)
				}
				_, err = emu.Rom.ReadFrom(inf)
				inf.Close()
				if err != nil {
					logrus.Fatalf("%v: %v", image, err)
				}
			}

			err := emu.Reset()
			if err != nil {
				logrus.Fatalf("%v: %v", image, err)
			}

			out := cmd.OutOrStdout()
			for {
				done, err := emu.Tick()
				if done {
					break
				}
				if err != nil {
					if !keepGoing {
						logrus.Fatalf("%v: %v", image, err)
					}
					logrus.Warnf("%v: %v", image, err)
					emu.Skip()
					continue
				}
				fmt.Fprintf(out, "%v\n\n", emu.Last)
			}
		},
	}

	cmd.Flags().IntVarP(&memorySize, "memory", "m", io.MEMORY_SIZE, "Memory size in bytes")
	cmd.Flags().BoolVarP(&keepGoing, "keep-going", "k", false, "Report and skip failing instructions")
	cmd.Flags().BoolVarP(&asmSource, "asm", "a", false, "Assemble IMAGE before running")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Verbose mode")

	return cmd
}

func newAsmCmd() *cobra.Command {
	var output string
	var verbose bool

	cmd := &cobra.Command{
		Use:   "asm SOURCE",
		Short: "Assemble a source file into a raw little-endian image",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			source := args[0]

			if len(output) == 0 {
				output = strings.TrimSuffix(source, filepath.Ext(source)) + ".bin"
			}

			defines := map[string]string{}
			for key, value := range emulator.NewEmulator(io.MEMORY_SIZE).Defines() {
				defines[key] = value
			}

			prog, err := assemble(source, verbose, defines)
			if err != nil {
				logrus.Fatalf("%v: %v", source, err)
			}

			err = os.WriteFile(output, prog.Binary(), 0o644)
			if err != nil {
				logrus.Fatalf("%v: %v", output, err)
			}
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output image (default SOURCE with a .bin extension)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Verbose mode")

	return cmd
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "rvcore",
		Short: "RV64 instruction decode and execute",
	}
	root.CompletionOptions.DisableDefaultCmd = true

	root.AddCommand(newRunCmd(), newAsmCmd(), newDecodeCmd())

	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
