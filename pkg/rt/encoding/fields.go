package encoding

import (
	"github.com/Manu343726/rtasm/pkg/utils"
)

func field(word uint32, bit, width int) uint32 {
	return utils.CreateBitView(&word).Read(bit, width)
}

// Returns the major opcode (bits 31..26)
func Opcode(word uint32) uint32 { return field(word, 26, 6) }

// Returns the rs / base field (bits 25..21)
func Rs(word uint32) uint32 { return field(word, 21, 5) }

// Returns the rt field (bits 20..16)
func Rt(word uint32) uint32 { return field(word, 16, 5) }

// Returns the rd field (bits 15..11)
func Rd(word uint32) uint32 { return field(word, 11, 5) }

// Returns the shift amount field (bits 10..6)
func Sa(word uint32) uint32 { return field(word, 6, 5) }

// Returns the SPECIAL function field (bits 5..0)
func Funct(word uint32) uint32 { return field(word, 0, 6) }

// Returns the unsigned 16 bit immediate field
func Imm16(word uint32) uint32 { return field(word, 0, 16) }

// Returns the 16 bit offset field, sign extended
func Off16(word uint32) int32 {
	return int32(utils.SignExtend(uint64(field(word, 0, 16)), 16))
}

// Returns the 21 bit offset field of beqzc/bnezc, sign extended
func Off21(word uint32) int32 {
	return int32(utils.SignExtend(uint64(field(word, 0, 21)), 21))
}

// Returns the 26 bit offset field of bc, sign extended
func Off26(word uint32) int32 {
	return int32(utils.SignExtend(uint64(field(word, 0, 26)), 26))
}

// Returns the MSA signed 10 bit element offset of ld.w/st.w, sign extended
func S10(word uint32) int32 {
	return int32(utils.SignExtend(uint64(field(word, 16, 10)), 10))
}

// Returns the MSA wt field (bits 20..16)
func Wt(word uint32) uint32 { return field(word, 16, 5) }

// Returns the MSA ws field (bits 15..11)
func Ws(word uint32) uint32 { return field(word, 11, 5) }

// Returns the MSA wd field (bits 10..6)
func Wd(word uint32) uint32 { return field(word, 6, 5) }

// Returns word with the low width bits replaced by offset
func WithOffset(word uint32, offset int32, width int) uint32 {
	mask := utils.AllOnes[uint32](width)
	return word&^mask | uint32(offset)&mask
}
