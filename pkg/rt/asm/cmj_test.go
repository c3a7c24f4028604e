package asm

import (
	"testing"

	"github.com/Manu343726/rtasm/pkg/rt/config"
	"github.com/Manu343726/rtasm/pkg/rt/emit"
	"github.com/Manu343726/rtasm/pkg/rt/encoding"
	"github.com/Manu343726/rtasm/pkg/rt/operands"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConditionTablesAreComplete(t *testing.T) {
	require.NoError(t, CheckConditionTables())

	for _, revision := range []int{5, 6} {
		tables := ConditionTables(revision)
		require.Len(t, tables, 3)

		for _, table := range tables {
			for cc := CC_EQ_x; cc.Compare(); cc++ {
				s, err := table.Entry(cc)
				require.NoError(t, err)
				assert.Equal(t, cc, s.Cond)
				assert.NotEmpty(t, s.Template)
			}

			_, err := table.Entry(CC_EZ_x)
			assert.ErrorIs(t, err, ErrInvalidCondition)
		}
	}
}

func TestIncompleteTableIsRejected(t *testing.T) {
	table := ConditionTable{Name: "CMR", Revision: 6, Entries: r6Conditions.cmr.Entries[:9]}
	assert.ErrorIs(t, checkConditionTable(&table), ErrIncompleteTable)

	entries := append([]Strategy{}, r6Conditions.cmz.Entries...)
	entries[CC_LT_n].Never = true
	table = ConditionTable{Name: "CMZ", Revision: 6, Entries: entries}
	assert.ErrorIs(t, checkConditionTable(&table), ErrInconsistentTable)

	entries = append([]Strategy{}, r6Conditions.cmr.Entries...)
	entries[CC_GE_x].Always = true
	table = ConditionTable{Name: "CMR", Revision: 6, Entries: entries}
	assert.ErrorIs(t, checkConditionTable(&table), ErrInconsistentTable)
}

func TestConditionCodes(t *testing.T) {
	for cc := CC_EQ_x; cc < CC_INVALID; cc++ {
		parsed, err := ParseCondition(cc.String())
		require.NoError(t, err)
		assert.Equal(t, cc, parsed)
		assert.Equal(t, cc, cc.Opposite().Opposite())

		for _, values := range [][2]uint64{{0, 0}, {1, 2}, {2, 1}, {0xFFFFFFFFFFFFFFFF, 1}} {
			assert.NotEqual(t, cc.Holds(values[0], values[1]), cc.Opposite().Holds(values[0], values[1]), cc.String())
		}
	}

	assert.True(t, CC_LT_n.Holds(0xFFFFFFFFFFFFFFFF, 1))
	assert.False(t, CC_LT_x.Holds(0xFFFFFFFFFFFFFFFF, 1))

	_, err := ParseCondition("LT_y")
	assert.ErrorIs(t, err, ErrInvalidCondition)
}

func TestCompareJumpImmediateR6(t *testing.T) {
	words := assemble(t, config.Default(), func(a *Assembler) error {
		lb := a.NewLabel("lb")

		if err := a.Cmj(MustInstr("cmpwx"), CC_LT_n, lb, operands.Recx, operands.IC(5)); err != nil {
			return err
		}

		return a.Bind(lb)
	})

	// addu $t8, $t7, $zero; addiu $t9, $zero, 5; bltc $t8, $t9, lb
	assert.Equal(t, []uint32{0x01E0C021, 0x24190005, 0x5F190000}, words)
	assert.Equal(t, encoding.BLTC|encoding.MBM(operands.TLxx.Index, operands.TRxx.Index, 0), words[2])
}

func TestCompareJumpImmediatePreR6(t *testing.T) {
	words := assemble(t, r5(), func(a *Assembler) error {
		lb := a.NewLabel("lb")

		if err := a.Cmj(MustInstr("cmpwx"), CC_LT_n, lb, operands.Recx, operands.IC(5)); err != nil {
			return err
		}

		return a.Bind(lb)
	})

	// addu $t8, $t7, $zero; slti $at, $t8, 5; bne $at, $zero, lb; nop
	assert.Equal(t, []uint32{0x01E0C021, 0x2B010005, 0x14200001, 0x00000000}, words)
}

func TestSignedAndUnsignedComparesDiffer(t *testing.T) {
	for _, cfg := range []config.Config{config.Default(), r5()} {
		cmj := func(cc ConditionCode) []uint32 {
			return assemble(t, cfg, func(a *Assembler) error {
				lb := a.NewLabel("lb")
				if err := a.Bind(lb); err != nil {
					return err
				}

				return a.Cmj(MustInstr("cmpwx"), cc, lb, operands.Reax, operands.Recx)
			})
		}

		for cc := CC_LT_x; cc <= CC_GE_x; cc++ {
			assert.NotEqual(t, cmj(cc), cmj(cc+CC_LT_n-CC_LT_x), cc.String())
		}
	}
}

func TestCompareJumpShapes(t *testing.T) {
	cases := []struct {
		name string
		args []operands.Operand
	}{
		{"rz", []operands.Operand{operands.Reax}},
		{"mz", []operands.Operand{operands.Mebx(operands.DP(4))}},
		{"ri", []operands.Operand{operands.Reax, operands.IW(0x12345678)}},
		{"mi", []operands.Operand{operands.Mebx(operands.DP(4)), operands.IC(1)}},
		{"rr", []operands.Operand{operands.Reax, operands.Recx}},
		{"ld", []operands.Operand{operands.Reax, operands.Mebx(operands.DH(0x8000))}},
		{"mr", []operands.Operand{operands.Iebx(operands.DP(4)), operands.Recx}},
	}

	for _, c := range cases {
		for _, cfg := range []config.Config{config.Default(), r5()} {
			for cc := CC_EQ_x; cc.Compare(); cc++ {
				buf := emit.NewCodeBuffer()
				a, err := New(cfg, buf)
				require.NoError(t, err)

				lb := a.NewLabel("lb")
				require.NoError(t, a.Cmj(MustInstr("cmpwx"), cc, lb, c.args...), "%v %v", c.name, cc)
				require.NoError(t, a.Bind(lb))
				require.NoError(t, a.Finish())
				assert.Zero(t, a.scope.size())
			}
		}
	}
}

func TestNeverAndAlwaysAgainstZero(t *testing.T) {
	for _, cfg := range []config.Config{config.Default(), r5()} {
		never := assemble(t, cfg, func(a *Assembler) error {
			lb := a.NewLabel("lb")
			if err := a.Cmj(MustInstr("cmpwx"), CC_LT_x, lb, operands.Reax); err != nil {
				return err
			}

			return a.Bind(lb)
		})
		assert.Empty(t, never)

		always := assemble(t, cfg, func(a *Assembler) error {
			lb := a.NewLabel("lb")
			if err := a.Cmj(MustInstr("cmpwx"), CC_GE_x, lb, operands.Reax); err != nil {
				return err
			}

			return a.Bind(lb)
		})

		jump := assemble(t, cfg, func(a *Assembler) error {
			lb := a.NewLabel("lb")
			if err := a.Jmp(lb); err != nil {
				return err
			}

			return a.Bind(lb)
		})
		assert.Equal(t, jump, always)
	}
}

func TestCompareJumpErrors(t *testing.T) {
	a, err := New(config.Default(), emit.NewCodeBuffer())
	require.NoError(t, err)
	lb := a.NewLabel("lb")
	assert.ErrorIs(t, a.Cmj(MustInstr("addwx"), CC_EQ_x, lb, operands.Reax, operands.Recx), ErrInvalidMnemonic)

	a, _ = New(config.Default(), emit.NewCodeBuffer())
	assert.ErrorIs(t, a.Cmj(MustInstr("cmpwx"), CC_EZ_x, lb, operands.Reax), ErrInvalidCondition)

	a, _ = New(config.Default(), emit.NewCodeBuffer())
	assert.ErrorIs(t, a.Cmj(MustInstr("cmpwx"), CC_EQ_x, lb, operands.IC(1), operands.Reax), ErrUnsupportedShape)

	a, _ = New(config.Default(), emit.NewCodeBuffer())
	assert.ErrorIs(t, a.Cmj(MustInstr("cmphn"), CC_EQ_x, lb, operands.Reax, operands.Recx), ErrUnsupportedShape)

	a, _ = New(config.Default(), emit.NewCodeBuffer())
	assert.ErrorIs(t, a.Cmj(MustInstr("cmpwx"), CC_EQ_x, lb, operands.TLxx, operands.Recx), ErrForbiddenOperand)
}

func TestCompareThenJump(t *testing.T) {
	words := assemble(t, config.Default(), func(a *Assembler) error {
		lb := a.NewLabel("lb")

		if err := a.Emit(MustInstr("cmpwx"), operands.Reax, operands.IC(7)); err != nil {
			return err
		}

		if err := a.Jcc(CC_EQ_x, lb); err != nil {
			return err
		}

		return a.Bind(lb)
	})

	// addu $t8, $a0, $zero; addiu $t9, $zero, 7; beqc $t8, $t9, lb
	assert.Equal(t, []uint32{0x0080C021, 0x24190007, encoding.BEQC | encoding.MBM(24, 25, 0)}, words)
}

func TestArithmeticJump(t *testing.T) {
	words := assemble(t, config.Default(), func(a *Assembler) error {
		lb := a.NewLabel("lb")

		if err := a.Arj(MustInstr("subwx"), CC_NZ_x, lb, operands.Reax, operands.IC(1)); err != nil {
			return err
		}

		return a.Bind(lb)
	})

	// addiu $a0, $a0, -1; addu $t8, $a0, $zero; bnezc $t8, lb
	assert.Equal(t, []uint32{0x2484FFFF, 0x0080C021, encoding.BNEZC | operands.TLxx.Index<<21}, words)

	flags := emitWords(t, config.Default(), "subwxZ", operands.Reax, operands.IC(1))
	assert.Equal(t, flags, words[:2])

	a, err := New(config.Default(), emit.NewCodeBuffer())
	require.NoError(t, err)
	assert.ErrorIs(t, a.Arj(MustInstr("movwx"), CC_EZ_x, a.NewLabel("lb"), operands.Reax, operands.Recx), ErrInvalidMnemonic)
}

func TestBackwardBranch(t *testing.T) {
	words := assemble(t, config.Default(), func(a *Assembler) error {
		top := a.NewLabel("top")
		if err := a.Bind(top); err != nil {
			return err
		}

		return a.Cmj(MustInstr("cmpwx"), CC_EQ_x, top, operands.Reax)
	})

	// beqzc $a0, top
	require.Len(t, words, 1)
	assert.Equal(t, uint32(0xD89FFFFF), words[0])
	assert.Equal(t, int32(-1), encoding.Off21(words[0]))
}

func TestForbiddenSlot(t *testing.T) {
	words := assemble(t, config.Default(), func(a *Assembler) error {
		top := a.NewLabel("top")
		if err := a.Bind(top); err != nil {
			return err
		}

		if err := a.Cmj(MustInstr("cmpwx"), CC_EQ_x, top, operands.Reax); err != nil {
			return err
		}

		return a.JmpReg(operands.Rebx)
	})

	// beqzc; nop in the forbidden slot; jic $v1, 0
	assert.Equal(t, []uint32{0xD89FFFFF, encoding.NOP, 0xD8030000}, words)

	words = assemble(t, config.Default(), func(a *Assembler) error {
		top := a.NewLabel("top")
		if err := a.Bind(top); err != nil {
			return err
		}

		if err := a.Cmj(MustInstr("cmpwx"), CC_EQ_x, top, operands.Reax); err != nil {
			return err
		}

		return a.Emit(MustInstr("addwx"), operands.Reax, operands.Recx)
	})

	assert.Len(t, words, 2)
}

func TestDelaySlots(t *testing.T) {
	words := assemble(t, r5(), func(a *Assembler) error {
		lb := a.NewLabel("lb")

		if err := a.Jmp(lb); err != nil {
			return err
		}

		if err := a.JmpReg(operands.Rebx); err != nil {
			return err
		}

		return a.Bind(lb)
	})

	// beq $zero, $zero, lb; nop; jr $v1; nop
	assert.Equal(t, []uint32{encoding.BEQ | 3, encoding.NOP, encoding.JR | encoding.MRM(0, 3, 0), encoding.NOP}, words)
}

func TestLabels(t *testing.T) {
	words := assemble(t, config.Default(), func(a *Assembler) error {
		lb := a.NewLabel("lb")

		if err := a.Jmp(lb); err != nil {
			return err
		}

		if err := a.Emit(MustInstr("addwx"), operands.Reax, operands.Recx); err != nil {
			return err
		}

		if err := a.Bind(lb); err != nil {
			return err
		}

		assert.True(t, lb.Bound())
		assert.Equal(t, 2, lb.Index())
		return nil
	})

	// bc lb patched with a one word offset
	assert.Equal(t, uint32(0xC8000001), words[0])
	assert.Equal(t, int32(1), encoding.Off26(words[0]))
}

func TestLabelErrors(t *testing.T) {
	a, err := New(config.Default(), emit.NewCodeBuffer())
	require.NoError(t, err)

	lb := a.NewLabel("missing")
	require.NoError(t, a.Jmp(lb))
	assert.ErrorIs(t, a.Finish(), ErrUnboundLabel)

	a, _ = New(config.Default(), emit.NewCodeBuffer())
	lb = a.NewLabel("twice")
	require.NoError(t, a.Bind(lb))
	assert.ErrorIs(t, a.Bind(lb), ErrLabelRebound)

	a, _ = New(config.Default(), emit.NewCodeBuffer())
	a.NewLabel("unused")
	assert.NoError(t, a.Finish())
}

func TestBranchOutOfRange(t *testing.T) {
	far := func(cfg config.Config) error {
		buf := emit.NewCodeBuffer()
		a, err := New(cfg, buf)
		require.NoError(t, err)

		top := a.NewLabel("top")
		require.NoError(t, a.Bind(top))

		for i := 0; i < 40000; i++ {
			buf.EmitW(encoding.NOP)
		}

		return a.Jmp(top)
	}

	assert.ErrorIs(t, far(r5()), ErrBranchOutOfRange)
	assert.NoError(t, far(config.Default()))

	buf := emit.NewCodeBuffer()
	a, err := New(r5(), buf)
	require.NoError(t, err)

	lb := a.NewLabel("lb")
	require.NoError(t, a.Jmp(lb))

	for i := 0; i < 40000; i++ {
		buf.EmitW(encoding.NOP)
	}

	assert.ErrorIs(t, a.Bind(lb), ErrBranchOutOfRange)
}
