// Package cpu implements the decode and execute stages of a 64-bit RISC-V
// style processor.
//
// Decode classifies a 32-bit instruction word through a 4x8 opcode map
// indexed by inst[6:5] and inst[4:2], then extracts the R, I, S, B, U or J
// format fields, reading register operands through a RegisterReader.
//
// Execute selects one of twelve ALU commands from the category, funct3 and
// funct7, applies it to two 64-bit operands, and reports the result with
// negative, zero, carry and overflow flags.
//
// The package also provides instruction encoders and a small assembler for
// the supported instruction subset.
package cpu
