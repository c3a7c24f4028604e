package encoding

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPackers(t *testing.T) {
	// and $v1, $v1, $t7
	assert.Equal(t, uint32(0x006F1824), AND|MRM(3, 3, 15))
	// sll $t0, $t1, 4
	assert.Equal(t, uint32(0x00094100), SLL|MSM(8, 9, 4))
	// ori $s0, $zero, 0x1234
	assert.Equal(t, uint32(0x34101234), ORI|MTM(16, 0)|0x1234)
	// lw $at, -4($sp)
	assert.Equal(t, uint32(0x8FA1FFFC), LW|MDM(1, 29, 0xFFFFFFFC))
	// addiu $a0, $zero, 5
	assert.Equal(t, uint32(0x24040005), ADDIU|MIM(4, 0, 5))
	// addv.w $w1, $w2, $w3
	assert.Equal(t, uint32(0x7843104E), ADDV_W|MXM(1, 2, 3))
	// ld.w $w1, 16($v1) (s10 = 16 / 4)
	assert.Equal(t, uint32(0x78041862), LD_W|MPM(1, 3, 4))
}

func TestDext(t *testing.T) {
	// dext $a0, $a0, 0, 32
	assert.Equal(t, uint32(0x7C84F803), Dext(4, 4, 0, 32))
}

func TestFieldExtraction(t *testing.T) {
	word := AND | MRM(3, 3, 15)

	assert.Equal(t, uint32(0), Opcode(word))
	assert.Equal(t, uint32(3), Rs(word))
	assert.Equal(t, uint32(15), Rt(word))
	assert.Equal(t, uint32(3), Rd(word))
	assert.Equal(t, uint32(0), Sa(word))
	assert.Equal(t, uint32(0x24), Funct(word))
}

func TestOffsetRoundTrip(t *testing.T) {
	for _, offset := range []int32{0, 1, -1, 0x7FFF, -0x8000, 1234, -1234} {
		word := WithOffset(BEQ|MBM(3, 4, 0), offset, 16)
		assert.Equal(t, offset, Off16(word), "offset %v", offset)
		assert.Equal(t, uint32(3), Rs(word))
		assert.Equal(t, uint32(4), Rt(word))
	}

	for _, offset := range []int32{0, -1, 0xFFFFF, -0x100000} {
		word := WithOffset(BEQZC|24<<21, offset, 21)
		assert.Equal(t, offset, Off21(word), "offset %v", offset)
		assert.Equal(t, uint32(24), Rs(word))
	}

	for _, offset := range []int32{0, -1, 0x1FFFFFF, -0x2000000} {
		word := WithOffset(BC, offset, 26)
		assert.Equal(t, offset, Off26(word), "offset %v", offset)
		assert.Equal(t, uint32(0x32), Opcode(word))
	}
}

func TestImm16RoundTrip(t *testing.T) {
	for _, imm := range []uint32{0, 1, 0x7FFF, 0x8000, 0xFFFF} {
		assert.Equal(t, imm, Imm16(ORI|MTM(8, 0)|imm))
	}
}

func TestMSAFields(t *testing.T) {
	word := FADD_W | MXM(5, 6, 7)
	assert.Equal(t, uint32(5), Wd(word))
	assert.Equal(t, uint32(6), Ws(word))
	assert.Equal(t, uint32(7), Wt(word))

	word = ST_W | MPM(2, 3, uint32(0xFFFFFFFE))
	assert.Equal(t, int32(-2), S10(word))
}

func TestFormatOf(t *testing.T) {
	assert.Equal(t, Format_R, FormatOf(ADDU|MRM(1, 2, 3)))
	assert.Equal(t, Format_I, FormatOf(LW|MDM(1, 2, 0)))
	assert.Equal(t, Format_B26, FormatOf(BC))
	assert.Equal(t, Format_B21, FormatOf(BNEZC|1<<21))
	assert.Equal(t, Format_MSA_MI10, FormatOf(LD_W))
	assert.Equal(t, Format_MSA_MI10, FormatOf(ST_W))
	assert.Equal(t, Format_MSA2RF, FormatOf(FSQRT_W))
	assert.Equal(t, Format_MSA2RF, FormatOf(FILL_W))
	assert.Equal(t, Format_MSA3R, FormatOf(ADDV_W))
}

func TestFormatDescribe(t *testing.T) {
	assert.Equal(t, "opcode=0 rs=3 rt=15 rd=3 sa=0 funct=36", Format_R.Descriptor().Describe(AND|MRM(3, 3, 15)))
}

func TestFormatDocumentation(t *testing.T) {
	for _, f := range Formats() {
		doc := f.Documentation(0)
		assert.True(t, strings.HasPrefix(doc, f.Name+"\n"), f.Name)

		for _, field := range f.Fields {
			assert.Contains(t, doc, " "+field.Name+" ", "%v documents field %v", f.Name, field.Name)
		}
	}
}
