// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"bufio"
	"fmt"
	"io"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Predefined system equates
var sysEquate = map[string]string{
	"LINENO":    "0",
	"WORD_SIZE": fmt.Sprintf("%d", WORD_SIZE),
}

// Assembler is a single pass assembler for the supported RV64 subset.
type Assembler struct {
	Verbose bool     // If set, verbosely logs the assembler actions.
	Opcode  []Opcode // List of generated opcodes.

	predefine map[string]string // Predefines
	Label     map[string]int    // Map of labels to pc.
	Equate    map[string]string // Map of equates.
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

// regMap maps register names, including ABI names, to indexes.
var regMap = func() map[string]uint8 {
	regs := map[string]uint8{
		"zero": 0, "ra": 1, "sp": 2, "gp": 3, "tp": 4,
		"t0": 5, "t1": 6, "t2": 7,
		"s0": 8, "fp": 8, "s1": 9,
		"t3": 28, "t4": 29, "t5": 30, "t6": 31,
	}
	for n := range 32 {
		regs[fmt.Sprintf("x%d", n)] = uint8(n)
	}
	for n := range 8 {
		regs[fmt.Sprintf("a%d", n)] = uint8(10 + n)
	}
	for n := 2; n <= 11; n++ {
		regs[fmt.Sprintf("s%d", n)] = uint8(16 + n)
	}
	return regs
}()

type rInfo struct {
	cat    CodeCategory
	funct3 uint8
	funct7 uint8
}

var rMap = map[string]rInfo{
	"add":  {CATEGORY_OP, 0b000, FUNCT7_BASE},
	"sub":  {CATEGORY_OP, 0b000, FUNCT7_ALT},
	"sll":  {CATEGORY_OP, 0b001, FUNCT7_BASE},
	"xor":  {CATEGORY_OP, 0b100, FUNCT7_BASE},
	"srl":  {CATEGORY_OP, 0b101, FUNCT7_BASE},
	"sra":  {CATEGORY_OP, 0b101, FUNCT7_ALT},
	"or":   {CATEGORY_OP, 0b110, FUNCT7_BASE},
	"and":  {CATEGORY_OP, 0b111, FUNCT7_BASE},
	"mul":  {CATEGORY_OP, 0b000, FUNCT7_MULD},
	"div":  {CATEGORY_OP, 0b100, FUNCT7_MULD},
	"rem":  {CATEGORY_OP, 0b110, FUNCT7_MULD},
	"addw": {CATEGORY_OP_32, 0b000, FUNCT7_BASE},
	"subw": {CATEGORY_OP_32, 0b000, FUNCT7_ALT},
	"sllw": {CATEGORY_OP_32, 0b001, FUNCT7_BASE},
	"srlw": {CATEGORY_OP_32, 0b101, FUNCT7_BASE},
	"sraw": {CATEGORY_OP_32, 0b101, FUNCT7_ALT},
	"mulw": {CATEGORY_OP_32, 0b000, FUNCT7_MULD},
	"divw": {CATEGORY_OP_32, 0b100, FUNCT7_MULD},
	"remw": {CATEGORY_OP_32, 0b110, FUNCT7_MULD},
}

type iInfo struct {
	cat    CodeCategory
	funct3 uint8
}

var iMap = map[string]iInfo{
	"addi":  {CATEGORY_OP_IMM, 0b000},
	"xori":  {CATEGORY_OP_IMM, 0b100},
	"ori":   {CATEGORY_OP_IMM, 0b110},
	"andi":  {CATEGORY_OP_IMM, 0b111},
	"addiw": {CATEGORY_OP_IMM_32, 0b000},
}

// shiftMap holds the immediate shifts. funct7 lands in imm[11:5].
var shiftMap = map[string]rInfo{
	"slli":  {CATEGORY_OP_IMM, 0b001, FUNCT7_BASE},
	"srli":  {CATEGORY_OP_IMM, 0b101, FUNCT7_BASE},
	"srai":  {CATEGORY_OP_IMM, 0b101, FUNCT7_ALT},
	"slliw": {CATEGORY_OP_IMM_32, 0b001, FUNCT7_BASE},
	"srliw": {CATEGORY_OP_IMM_32, 0b101, FUNCT7_BASE},
	"sraiw": {CATEGORY_OP_IMM_32, 0b101, FUNCT7_ALT},
}

var loadMap = map[string]uint8{
	"lb": 0b000, "lh": 0b001, "lw": 0b010, "ld": 0b011,
	"lbu": 0b100, "lhu": 0b101, "lwu": 0b110,
}

var storeMap = map[string]uint8{
	"sb": 0b000, "sh": 0b001, "sw": 0b010, "sd": 0b011,
}

var branchMap = map[string]uint8{
	"beq": 0b000, "bne": 0b001, "blt": 0b100, "bge": 0b101,
	"bltu": 0b110, "bgeu": 0b111,
}

// valueOf returns the value of a simple word.
func (asm *Assembler) valueOf(word string) (value int64, err error) {
	value, err = strconv.ParseInt(word, 0, 64)
	if err != nil {
		uvalue, uerr := strconv.ParseUint(word, 0, 64)
		if uerr != nil {
			err = ErrParseNumber(word)
			return
		}
		value = int64(uvalue)
		err = nil
	}

	return
}

// register returns the index of a register name.
func (asm *Assembler) register(word string) (reg uint8, err error) {
	reg, ok := regMap[word]
	if !ok {
		err = fmt.Errorf("%w: %v", ErrRegisterInvalid, word)
	}
	return
}

// immediate parses a value and checks it against [low, high].
func (asm *Assembler) immediate(word string, low, high int64) (value int64, err error) {
	value, err = asm.valueOf(word)
	if err != nil {
		return
	}
	if value < low || value > high {
		err = fmt.Errorf("%w: %v", ErrImmediateRange, word)
	}
	return
}

var memRegexp = regexp.MustCompile(`^(.*)\(([a-z0-9]+)\)$`)

// memory parses an 'offset(register)' operand.
func (asm *Assembler) memory(word string) (offset int64, reg uint8, err error) {
	match := memRegexp.FindStringSubmatch(word)
	if match == nil {
		err = fmt.Errorf("%w: %v", ErrOpcodeValueMissing, word)
		return
	}
	if len(match[1]) > 0 {
		offset, err = asm.immediate(match[1], -2048, 2047)
		if err != nil {
			return
		}
	}
	reg, err = asm.register(match[2])
	return
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value int64, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		var value64 int64
		value64, err = asm.valueOf(str)
		if err != nil {
			// Ignore non-integer equates. They may be registers
			// or something else.
			continue
		}
		pred[key] = starlark.MakeInt64(value64)
	}
	err = nil
	for key, pc := range asm.Label {
		pred[key] = starlark.MakeInt(pc)
	}
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value, ok = st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	return
}

var parenRegexp = regexp.MustCompile(`\$\([^\$]*\)`)

// parseLine splits a single line into words, handling equates and labels.
func (asm *Assembler) parseLine(line string, lineno int) (words []string, err error) {
	// Set line number.
	asm.Equate["LINENO"] = fmt.Sprintf("%v", lineno)

	// Do $() evaluations
	line = parenRegexp.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil {
			err = _err
		}
		return fmt.Sprintf("%d", value)
	})
	if err != nil {
		return
	}

	words = strings.FieldsFunc(line, func(r rune) bool {
		return r == ' ' || r == '\t' || r == ','
	})

	if len(words) == 0 {
		return
	}

	// .equ CONST VALUE
	if words[0] == ".equ" {
		if len(words) != 3 {
			err = ErrEquateSyntax
			return
		}
		_, ok := asm.Equate[words[1]]
		if ok {
			err = ErrEquateDuplicate
			return
		}
		asm.Equate[words[1]] = words[2]
		words = words[:0]
		return
	}

	for n, word := range words {
		equate, ok := asm.Equate[word]
		if ok {
			words[n] = equate
		}
	}

	for len(words) > 0 && strings.HasSuffix(words[0], ":") {
		label := words[0][:len(words[0])-1]
		_, ok := asm.Label[label]
		if ok {
			err = ErrLabelDuplicate
			return
		}

		if asm.Label == nil {
			asm.Label = make(map[string]int, 16)
		}
		asm.Label[label] = asm.currentPc()
		words = words[1:]
	}

	return
}

// currentPc gets the pc of the next generated word.
func (asm *Assembler) currentPc() int {
	if len(asm.Opcode) == 0 {
		return 0
	}

	last := asm.Opcode[len(asm.Opcode)-1]

	return last.Pc + WORD_SIZE*len(last.Codes)
}

// Parse parses an input stream into a Program.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	scanner := bufio.NewScanner(input)

	var line string
	var lineno int

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	clear(asm.Label)
	asm.Opcode = asm.Opcode[:0]
	asm.Equate = maps.Clone(sysEquate)
	for attr, val := range asm.predefine {
		asm.Equate[attr] = val
	}

	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		if asm.Verbose {
			logrus.WithFields(logrus.Fields{"line": lineno}).Info(text)
		}

		line = text
		if idx := strings.IndexAny(line, ";#"); idx >= 0 {
			line = line[:idx]
		}
		line = strings.TrimSpace(line)

		var words []string
		words, err = asm.parseLine(line, lineno)
		if err != nil {
			return
		}

		err = asm.parseWords(words, lineno)
		if err != nil {
			return
		}
	}
	err = scanner.Err()
	if err != nil {
		return
	}

	// Final linking of labels.
	for n := range asm.Opcode {
		op := &asm.Opcode[n]

		if op.link == nil {
			continue
		}
		lineno = op.LineNo
		line = strings.Join(op.Words, " ")

		pc, ok := asm.Label[op.LinkLabel]
		if !ok {
			err = ErrLabelMissing(op.LinkLabel)
			return
		}
		var code Word
		code, err = op.link(int64(pc - op.Pc))
		if err != nil {
			return
		}
		op.Codes[len(op.Codes)-1] = code
		op.link = nil
	}

	prog = &Program{
		Opcodes: slices.Clone(asm.Opcode),
	}

	return
}

// checkArgs verifies the count of operands following the mnemonic.
func checkArgs(words []string, count int) (err error) {
	switch {
	case len(words)-1 < count:
		err = ErrOpcodeValueMissing
	case len(words)-1 > count:
		err = ErrOpcodeExtraArgs
	}
	return
}

// parseWords evaluates the words in a line of assembly text.
func (asm *Assembler) parseWords(words []string, lineno int) (err error) {
	var codes []Word
	var label string
	var link func(offset int64) (Word, error)

	// no-op
	if len(words) == 0 {
		return
	}

	initial_words := words

	defer func() {
		if len(codes) == 0 || err != nil {
			return
		}
		opcode := Opcode{
			LineNo:    lineno,
			Pc:        asm.currentPc(),
			Words:     initial_words,
			Codes:     codes,
			LinkLabel: label,
			link:      link,
		}
		asm.Opcode = append(asm.Opcode, opcode)
	}()

	// target resolves a branch or jump target, either a value or a label.
	target := func(word string, encode func(offset int64) (Word, error)) (code Word, err error) {
		offset, perr := asm.valueOf(word)
		if perr != nil {
			label = word
			link = encode
			// Placeholder until link time.
			return encode(0)
		}
		return encode(offset)
	}

	// Pseudo-instruction substitutions
	mnemonic := words[0]
	switch {
	case mnemonic == "nop" && len(words) == 1:
		words = []string{"addi", "x0", "x0", "0"}
	case mnemonic == "mv" && len(words) == 3:
		words = []string{"addi", words[1], words[2], "0"}
	case mnemonic == "j" && len(words) == 2:
		words = []string{"jal", "x0", words[1]}
	case mnemonic == "ret" && len(words) == 1:
		words = []string{"jalr", "x0", "0(x1)"}
	case mnemonic == "jal" && len(words) == 2:
		words = []string{"jal", "x1", words[1]}
	case mnemonic == "jalr" && len(words) == 2:
		words = []string{"jalr", "x1", "0(" + words[1] + ")"}
	}
	mnemonic = words[0]

	if info, ok := rMap[mnemonic]; ok {
		if err = checkArgs(words, 3); err != nil {
			return
		}
		var rd, rs1, rs2 uint8
		if rd, err = asm.register(words[1]); err != nil {
			return
		}
		if rs1, err = asm.register(words[2]); err != nil {
			return
		}
		if rs2, err = asm.register(words[3]); err != nil {
			return
		}
		codes = append(codes, MakeCodeR(info.cat, rd, info.funct3, rs1, rs2, info.funct7))
		return
	}

	if info, ok := iMap[mnemonic]; ok {
		if err = checkArgs(words, 3); err != nil {
			return
		}
		var rd, rs1 uint8
		var imm int64
		if rd, err = asm.register(words[1]); err != nil {
			return
		}
		if rs1, err = asm.register(words[2]); err != nil {
			return
		}
		if imm, err = asm.immediate(words[3], -2048, 2047); err != nil {
			return
		}
		codes = append(codes, MakeCodeI(info.cat, rd, info.funct3, rs1, imm))
		return
	}

	if info, ok := shiftMap[mnemonic]; ok {
		if err = checkArgs(words, 3); err != nil {
			return
		}
		var rd, rs1 uint8
		var shamt int64
		if rd, err = asm.register(words[1]); err != nil {
			return
		}
		if rs1, err = asm.register(words[2]); err != nil {
			return
		}
		limit := int64(63)
		if info.cat == CATEGORY_OP_IMM_32 {
			limit = 31
		}
		if shamt, err = asm.immediate(words[3], 0, limit); err != nil {
			return
		}
		imm := int64(info.funct7)<<5 | shamt
		codes = append(codes, MakeCodeI(info.cat, rd, info.funct3, rs1, imm))
		return
	}

	if funct3, ok := loadMap[mnemonic]; ok {
		if err = checkArgs(words, 2); err != nil {
			return
		}
		var rd, rs1 uint8
		var offset int64
		if rd, err = asm.register(words[1]); err != nil {
			return
		}
		if offset, rs1, err = asm.memory(words[2]); err != nil {
			return
		}
		codes = append(codes, MakeCodeI(CATEGORY_LOAD, rd, funct3, rs1, offset))
		return
	}

	if funct3, ok := storeMap[mnemonic]; ok {
		if err = checkArgs(words, 2); err != nil {
			return
		}
		var rs1, rs2 uint8
		var offset int64
		if rs2, err = asm.register(words[1]); err != nil {
			return
		}
		if offset, rs1, err = asm.memory(words[2]); err != nil {
			return
		}
		codes = append(codes, MakeCodeS(CATEGORY_STORE, funct3, rs1, rs2, offset))
		return
	}

	if funct3, ok := branchMap[mnemonic]; ok {
		if err = checkArgs(words, 3); err != nil {
			return
		}
		var rs1, rs2 uint8
		if rs1, err = asm.register(words[1]); err != nil {
			return
		}
		if rs2, err = asm.register(words[2]); err != nil {
			return
		}
		var code Word
		code, err = target(words[3], func(offset int64) (code Word, err error) {
			if offset%2 != 0 || offset < -4096 || offset > 4094 {
				err = fmt.Errorf("%w: %d", ErrImmediateRange, offset)
				return
			}
			code = MakeCodeB(CATEGORY_BRANCH, funct3, rs1, rs2, offset)
			return
		})
		if err != nil {
			return
		}
		codes = append(codes, code)
		return
	}

	switch mnemonic {
	case "lui", "auipc":
		if err = checkArgs(words, 2); err != nil {
			return
		}
		cat := CATEGORY_LUI
		if mnemonic == "auipc" {
			cat = CATEGORY_AUIPC
		}
		var rd uint8
		var imm int64
		if rd, err = asm.register(words[1]); err != nil {
			return
		}
		if imm, err = asm.immediate(words[2], -0x80000, 0xfffff); err != nil {
			return
		}
		codes = append(codes, MakeCodeU(cat, rd, imm<<12))
	case "jal":
		if err = checkArgs(words, 2); err != nil {
			return
		}
		var rd uint8
		if rd, err = asm.register(words[1]); err != nil {
			return
		}
		var code Word
		code, err = target(words[2], func(offset int64) (code Word, err error) {
			if offset%2 != 0 || offset < -(1<<20) || offset > (1<<20)-2 {
				err = fmt.Errorf("%w: %d", ErrImmediateRange, offset)
				return
			}
			code = MakeCodeJ(CATEGORY_JAL, rd, offset)
			return
		})
		if err != nil {
			return
		}
		codes = append(codes, code)
	case "jalr":
		if err = checkArgs(words, 2); err != nil {
			return
		}
		var rd, rs1 uint8
		var offset int64
		if rd, err = asm.register(words[1]); err != nil {
			return
		}
		if offset, rs1, err = asm.memory(words[2]); err != nil {
			return
		}
		codes = append(codes, MakeCodeI(CATEGORY_JALR, rd, 0b000, rs1, offset))
	case "ecall", "ebreak":
		if err = checkArgs(words, 0); err != nil {
			return
		}
		var imm int64
		if mnemonic == "ebreak" {
			imm = 1
		}
		codes = append(codes, MakeCodeI(CATEGORY_SYSTEM, 0, 0b000, 0, imm))
	case "li":
		if err = checkArgs(words, 2); err != nil {
			return
		}
		var rd uint8
		var imm int64
		if rd, err = asm.register(words[1]); err != nil {
			return
		}
		if imm, err = asm.immediate(words[2], -(1 << 31), (1<<31)-1); err != nil {
			return
		}
		if imm >= -2048 && imm <= 2047 {
			codes = append(codes, MakeCodeI(CATEGORY_OP_IMM, rd, 0b000, 0, imm))
			break
		}
		// Round the upper part so the sign-extended lower part adds back.
		hi := (imm + 0x800) >> 12
		lo := imm - hi<<12
		codes = append(codes,
			MakeCodeU(CATEGORY_LUI, rd, hi<<12),
			MakeCodeI(CATEGORY_OP_IMM_32, rd, 0b000, rd, lo),
		)
	case ".word":
		if err = checkArgs(words, 1); err != nil {
			return
		}
		var value int64
		if value, err = asm.immediate(words[1], -(1 << 31), (1<<32)-1); err != nil {
			return
		}
		codes = append(codes, Word(uint32(value)))
	default:
		err = fmt.Errorf("%w: %v", ErrInstructionInvalid, mnemonic)
	}

	return
}
