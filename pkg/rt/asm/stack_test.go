package asm

import (
	"testing"

	"github.com/Manu343726/rtasm/pkg/rt/config"
	"github.com/Manu343726/rtasm/pkg/rt/encoding"
	"github.com/Manu343726/rtasm/pkg/rt/operands"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStackSlots(t *testing.T) {
	require.Len(t, StackSlots, 22)
	assert.Equal(t, operands.RAxx, StackSlots[len(StackSlots)-1])

	for _, r := range StackSlots {
		assert.NotEqual(t, operands.SPxx, r)
		assert.NotEqual(t, operands.TZxx, r)
	}
}

func TestStackSaveLoad64(t *testing.T) {
	save := assemble(t, config.Default(), func(a *Assembler) error {
		assert.Equal(t, uint32(176), a.StackSpan())
		return a.StackSave()
	})
	load := assemble(t, config.Default(), func(a *Assembler) error { return a.StackLoad() })

	require.Len(t, save, 23)
	require.Len(t, load, 23)

	// daddiu $sp, $sp, -176 ... sd $ra, 168($sp)
	assert.Equal(t, uint32(0x67BDFF50), save[0])
	assert.Equal(t, uint32(0xFFBF00A8), save[22])

	// ld $ra, 168($sp) ... daddiu $sp, $sp, 176
	assert.Equal(t, uint32(0xDFBF00A8), load[0])
	assert.Equal(t, uint32(0x67BD00B0), load[22])

	for j := 0; j < 22; j++ {
		stored, loaded := save[22-j], load[j]

		assert.Equal(t, encoding.Opcode(encoding.SD), encoding.Opcode(stored))
		assert.Equal(t, encoding.Opcode(encoding.LD), encoding.Opcode(loaded))
		assert.Equal(t, encoding.Rt(stored), encoding.Rt(loaded))
		assert.Equal(t, encoding.Imm16(stored), encoding.Imm16(loaded))
		assert.Equal(t, operands.SPxx.Index, encoding.Rs(loaded))
	}
}

func TestStackSaveLoad32(t *testing.T) {
	words := assemble(t, mips32(), func(a *Assembler) error {
		assert.Equal(t, uint32(4), a.StackSlotSize())
		assert.Equal(t, uint32(88), a.StackSpan())

		if err := a.StackSave(); err != nil {
			return err
		}

		return a.StackLoad()
	})

	require.Len(t, words, 46)

	// addiu $sp, $sp, -88; sw $a0, 0($sp) ... sw $ra, 84($sp)
	assert.Equal(t, uint32(0x27BDFFA8), words[0])
	assert.Equal(t, encoding.SW|encoding.MDM(StackSlots[0].Index, operands.SPxx.Index, 0), words[1])
	assert.Equal(t, uint32(0xAFBF0054), words[22])

	// lw $ra, 84($sp) ... addiu $sp, $sp, 88
	assert.Equal(t, uint32(0x8FBF0054), words[23])
	assert.Equal(t, uint32(0x27BD0058), words[45])
}
