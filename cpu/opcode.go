package cpu

// CodeCategory is the operation category of an instruction word.
type CodeCategory int

//go:generate go tool stringer -linecomment -type=CodeCategory
const (
	CATEGORY_LOAD      = CodeCategory(0)  // LOAD
	CATEGORY_STORE     = CodeCategory(1)  // STORE
	CATEGORY_BRANCH    = CodeCategory(2)  // BRANCH
	CATEGORY_JALR      = CodeCategory(3)  // JALR
	CATEGORY_JAL       = CodeCategory(4)  // JAL
	CATEGORY_OP_IMM    = CodeCategory(5)  // OPIMM
	CATEGORY_OP        = CodeCategory(6)  // OP
	CATEGORY_AUIPC     = CodeCategory(7)  // AUIPC
	CATEGORY_LUI       = CodeCategory(8)  // LUI
	CATEGORY_OP_IMM_32 = CodeCategory(9)  // OPIMM32
	CATEGORY_OP_32     = CodeCategory(10) // OP32
	CATEGORY_SYSTEM    = CodeCategory(11) // SYSTEM
	CATEGORY_UNIMPL    = CodeCategory(12) // NOT-IMPLEMENTED
)

// CodeFormat is an instruction encoding format.
type CodeFormat int

//go:generate go tool stringer -linecomment -type=CodeFormat
const (
	FORMAT_R = CodeFormat(0) // R
	FORMAT_I = CodeFormat(1) // I
	FORMAT_S = CodeFormat(2) // S
	FORMAT_B = CodeFormat(3) // B
	FORMAT_U = CodeFormat(4) // U
	FORMAT_J = CodeFormat(5) // J
)

// Format returns the encoding format used by the category.
// The second return is false for CATEGORY_UNIMPL.
func (cat CodeCategory) Format() (format CodeFormat, ok bool) {
	ok = true
	switch cat {
	case CATEGORY_OP, CATEGORY_OP_32:
		format = FORMAT_R
	case CATEGORY_LOAD, CATEGORY_JALR, CATEGORY_OP_IMM, CATEGORY_OP_IMM_32, CATEGORY_SYSTEM:
		format = FORMAT_I
	case CATEGORY_STORE:
		format = FORMAT_S
	case CATEGORY_BRANCH:
		format = FORMAT_B
	case CATEGORY_AUIPC, CATEGORY_LUI:
		format = FORMAT_U
	case CATEGORY_JAL:
		format = FORMAT_J
	default:
		ok = false
	}

	return
}

// categoryMap is indexed by inst[6:5] (row) and inst[4:2] (column).
var categoryMap = [4][8]CodeCategory{
	{CATEGORY_LOAD, CATEGORY_UNIMPL, CATEGORY_UNIMPL, CATEGORY_UNIMPL, CATEGORY_OP_IMM, CATEGORY_AUIPC, CATEGORY_OP_IMM_32, CATEGORY_UNIMPL},
	{CATEGORY_STORE, CATEGORY_UNIMPL, CATEGORY_UNIMPL, CATEGORY_UNIMPL, CATEGORY_OP, CATEGORY_LUI, CATEGORY_OP_32, CATEGORY_UNIMPL},
	{CATEGORY_UNIMPL, CATEGORY_UNIMPL, CATEGORY_UNIMPL, CATEGORY_UNIMPL, CATEGORY_UNIMPL, CATEGORY_UNIMPL, CATEGORY_UNIMPL, CATEGORY_UNIMPL},
	{CATEGORY_BRANCH, CATEGORY_JALR, CATEGORY_UNIMPL, CATEGORY_JAL, CATEGORY_SYSTEM, CATEGORY_UNIMPL, CATEGORY_UNIMPL, CATEGORY_UNIMPL},
}

// LookupCategory returns the category at a row and column of the opcode map.
func LookupCategory(row, col uint8) CodeCategory {
	return categoryMap[row&0x3][col&0x7]
}

// OpcodeOf returns the 7-bit major opcode of a category, including the
// 0b11 length marker. CATEGORY_UNIMPL has no opcode.
func OpcodeOf(cat CodeCategory) (opcode uint32, ok bool) {
	for row := range categoryMap {
		for col, entry := range categoryMap[row] {
			if entry == cat && cat != CATEGORY_UNIMPL {
				opcode = uint32(row)<<5 | uint32(col)<<2 | 0b11
				ok = true
				return
			}
		}
	}

	return
}

// SignExtend replicates bit 'index' of value into every higher bit.
// Bits 0 to index are unchanged. An index of 63 or more returns value.
func SignExtend(value int64, index uint) (extended int64) {
	uvalue := uint64(value)
	// Go defines shifts of 64 or more as zero.
	high := ^uint64(0) << (index + 1)
	if index >= 63 {
		high = 0
	}

	if (uvalue>>index)&1 != 0 {
		extended = int64(uvalue | high)
	} else {
		extended = int64(uvalue &^ high)
	}

	return
}

// Word is a raw 32-bit instruction word.
type Word uint32

// Size returns the instruction length marker, inst[1:0].
// Full 32-bit instructions have a size of 0b11.
func (w Word) Size() uint8 {
	return uint8(w & 0x3)
}

// Row returns the opcode map row, inst[6:5].
func (w Word) Row() uint8 {
	return uint8((w >> 5) & 0x3)
}

// Col returns the opcode map column, inst[4:2].
func (w Word) Col() uint8 {
	return uint8((w >> 2) & 0x7)
}

// Category returns the operation category from the opcode map.
func (w Word) Category() CodeCategory {
	return LookupCategory(w.Row(), w.Col())
}

func (w Word) Rd() uint8 {
	return uint8((w >> 7) & 0x1f)
}

func (w Word) Funct3() uint8 {
	return uint8((w >> 12) & 0x7)
}

func (w Word) Rs1() uint8 {
	return uint8((w >> 15) & 0x1f)
}

func (w Word) Rs2() uint8 {
	return uint8((w >> 20) & 0x1f)
}

func (w Word) Funct7() uint8 {
	return uint8((w >> 25) & 0x7f)
}

// ImmI returns the sign-extended I-format immediate, imm[11:0].
func (w Word) ImmI() int64 {
	return SignExtend(int64((w>>20)&0xfff), 11)
}

// ImmS returns the sign-extended S-format immediate, imm[11:5] | imm[4:0].
func (w Word) ImmS() int64 {
	imm := ((w >> 7) & 0x1f) |
		(((w >> 25) & 0x7f) << 5)
	return SignExtend(int64(imm), 11)
}

// ImmB returns the sign-extended B-format immediate.
// Bit 0 is always zero.
func (w Word) ImmB() int64 {
	imm := (((w >> 31) & 0x1) << 12) |
		(((w >> 7) & 0x1) << 11) |
		(((w >> 25) & 0x3f) << 5) |
		(((w >> 8) & 0xf) << 1)
	return SignExtend(int64(imm), 12)
}

// ImmU returns the sign-extended U-format immediate, imm[31:12] << 12.
func (w Word) ImmU() int64 {
	return SignExtend(int64(((w>>12)&0xfffff)<<12), 31)
}

// ImmJ returns the sign-extended J-format immediate.
// Bit 0 is always zero.
func (w Word) ImmJ() int64 {
	imm := (((w >> 31) & 0x1) << 20) |
		(((w >> 12) & 0xff) << 12) |
		(((w >> 20) & 0x1) << 11) |
		(((w >> 21) & 0x3ff) << 1)
	return SignExtend(int64(imm), 20)
}

// makeOpcode returns the major opcode for a category, or panics
// for categories that have no encoding.
func makeOpcode(cat CodeCategory) Word {
	opcode, ok := OpcodeOf(cat)
	if !ok {
		panic("no opcode for " + cat.String())
	}
	return Word(opcode)
}

// MakeCodeR creates an R-format instruction.
func MakeCodeR(cat CodeCategory, rd, funct3, rs1, rs2, funct7 uint8) Word {
	return makeOpcode(cat) |
		(Word(rd&0x1f) << 7) |
		(Word(funct3&0x7) << 12) |
		(Word(rs1&0x1f) << 15) |
		(Word(rs2&0x1f) << 20) |
		(Word(funct7&0x7f) << 25)
}

// MakeCodeI creates an I-format instruction. Only imm[11:0] is encoded.
func MakeCodeI(cat CodeCategory, rd, funct3, rs1 uint8, imm int64) Word {
	return makeOpcode(cat) |
		(Word(rd&0x1f) << 7) |
		(Word(funct3&0x7) << 12) |
		(Word(rs1&0x1f) << 15) |
		(Word(uint64(imm)&0xfff) << 20)
}

// MakeCodeS creates an S-format instruction. Only imm[11:0] is encoded.
func MakeCodeS(cat CodeCategory, funct3, rs1, rs2 uint8, imm int64) Word {
	uimm := Word(uint64(imm) & 0xfff)
	return makeOpcode(cat) |
		((uimm & 0x1f) << 7) |
		(Word(funct3&0x7) << 12) |
		(Word(rs1&0x1f) << 15) |
		(Word(rs2&0x1f) << 20) |
		(((uimm >> 5) & 0x7f) << 25)
}

// MakeCodeB creates a B-format instruction. Only imm[12:1] is encoded.
func MakeCodeB(cat CodeCategory, funct3, rs1, rs2 uint8, imm int64) Word {
	uimm := Word(uint64(imm) & 0x1ffe)
	return makeOpcode(cat) |
		(((uimm >> 11) & 0x1) << 7) |
		(((uimm >> 1) & 0xf) << 8) |
		(Word(funct3&0x7) << 12) |
		(Word(rs1&0x1f) << 15) |
		(Word(rs2&0x1f) << 20) |
		(((uimm >> 5) & 0x3f) << 25) |
		(((uimm >> 12) & 0x1) << 31)
}

// MakeCodeU creates a U-format instruction from the upper 20 bits of imm.
func MakeCodeU(cat CodeCategory, rd uint8, imm int64) Word {
	return makeOpcode(cat) |
		(Word(rd&0x1f) << 7) |
		(Word(uint64(imm)) & 0xfffff000)
}

// MakeCodeJ creates a J-format instruction. Only imm[20:1] is encoded.
func MakeCodeJ(cat CodeCategory, rd uint8, imm int64) Word {
	uimm := Word(uint64(imm) & 0x1ffffe)
	return makeOpcode(cat) |
		(Word(rd&0x1f) << 7) |
		(((uimm >> 12) & 0xff) << 12) |
		(((uimm >> 11) & 0x1) << 20) |
		(((uimm >> 1) & 0x3ff) << 21) |
		(((uimm >> 20) & 0x1) << 31)
}
