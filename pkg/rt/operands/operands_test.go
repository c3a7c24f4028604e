package operands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImmediateMasking(t *testing.T) {
	assert.Equal(t, uint32(0x7F), IC(0xFF).Value)
	assert.Equal(t, uint32(0x34), IB(0x1234).Value)
	assert.Equal(t, uint32(0x234), IM(0x1234).Value)
	assert.Equal(t, uint32(0x7FFF), IG(-1).Value)
	assert.Equal(t, uint32(0xFFFF), IH(-1).Value)
	assert.Equal(t, uint32(0x7FFFFFFF), IV(-1).Value)
	assert.Equal(t, uint32(0xFFFFFFFF), IW(-1).Value)
}

func TestImmediateTiers(t *testing.T) {
	for _, imm := range []Immediate{IC(1), IB(1), IM(1), IG(1)} {
		assert.Equal(t, Tier_Native, imm.ArithmeticTier(), imm.String())
		assert.Equal(t, Tier_Native, imm.LogicTier(), imm.String())
	}

	assert.Equal(t, Tier_Single, IH(0x8000).ArithmeticTier())
	assert.Equal(t, Tier_Native, IH(0x8000).LogicTier())
	assert.Equal(t, Tier_Synthesized, IV(0x10000).ArithmeticTier())
	assert.Equal(t, Tier_Synthesized, IW(0x10000).LogicTier())
}

func TestImmClassifiesNarrowest(t *testing.T) {
	cases := []struct {
		value int64
		class ImmediateClass
	}{
		{0, ImmediateClass_IC},
		{0x7F, ImmediateClass_IC},
		{0x80, ImmediateClass_IB},
		{0x100, ImmediateClass_IM},
		{0x1000, ImmediateClass_IG},
		{0x7FFF, ImmediateClass_IG},
		{0x8000, ImmediateClass_IH},
		{0x10000, ImmediateClass_IV},
		{0x80000000, ImmediateClass_IW},
		{0xFFFFFFFF, ImmediateClass_IW},
	}

	for _, c := range cases {
		imm, err := Imm(c.value)
		require.NoError(t, err)
		assert.Equal(t, c.class, imm.Class, "value %#x", c.value)
		assert.Equal(t, uint32(c.value), imm.Value)
	}

	for _, value := range []int64{0x100000000, -1, -0x80000000} {
		_, err := Imm(value)
		assert.ErrorIs(t, err, ErrOutOfRange, "value %v", value)
	}
}

// A literal that fits a native class is never classified into a synthesized tier
func TestImmTierMonotonicity(t *testing.T) {
	for value := int64(0); value <= 0x20000; value += 0x3F {
		imm := MustImm(value)

		if value <= 0x7FFF {
			assert.Equal(t, Tier_Native, imm.ArithmeticTier(), "value %#x", value)
		} else {
			assert.NotEqual(t, Tier_Native, imm.ArithmeticTier(), "value %#x", value)
		}

		if value <= 0xFFFF {
			assert.Equal(t, Tier_Native, imm.LogicTier(), "value %#x", value)
		} else {
			assert.Equal(t, Tier_Synthesized, imm.LogicTier(), "value %#x", value)
		}
	}
}

func TestDisplacementClasses(t *testing.T) {
	assert.Equal(t, uint32(0xFFC), DP(0xFFF).Value)
	assert.Equal(t, uint32(0x7FFC), DG(0xFFFF).Value)

	d, err := Disp(0x7FFC)
	require.NoError(t, err)
	assert.Equal(t, DisplacementClass_DG, d.Class)
	assert.Equal(t, Tier_Native, d.Tier())

	d, err = Disp(0x8000)
	require.NoError(t, err)
	assert.Equal(t, DisplacementClass_DH, d.Class)
	assert.Equal(t, Tier_Single, d.Tier())

	d, err = Disp(0x10000)
	require.NoError(t, err)
	assert.Equal(t, DisplacementClass_DV, d.Class)
	assert.Equal(t, Tier_Synthesized, d.Tier())

	_, err = Disp(6)
	assert.ErrorIs(t, err, ErrMisaligned)

	_, err = Disp(-4)
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestDisplacementOr(t *testing.T) {
	upper := DP(0x20).Or(0x10)
	assert.Equal(t, uint32(0x30), upper.Value)
	assert.Equal(t, DisplacementClass_DP, upper.Class)

	upper = DG(0x7FE0).Or(0x10)
	assert.Equal(t, uint32(0x7FF0), upper.Value)
	assert.Equal(t, DisplacementClass_DG, upper.Class)
}

func TestRegisters(t *testing.T) {
	r, err := RegisterByName("Rebx")
	require.NoError(t, err)
	assert.Equal(t, uint32(3), r.Index)

	r, err = RegisterByName("$t8")
	require.NoError(t, err)
	assert.Equal(t, TLxx, r)

	_, err = RegisterByName("Rezz")
	assert.ErrorIs(t, err, ErrUnknownName)

	seen := map[uint32]string{}
	for _, r := range append(append(append([]Register{}, PublicRegisters...), ScratchRegisters...), FixedRegisters...) {
		other, dup := seen[r.Index]
		assert.False(t, dup, "%v shares index %v with %v", r.Alias, r.Index, other)
		seen[r.Index] = r.Alias
	}
}

func TestMemory(t *testing.T) {
	m := Iebx(DP(0x10))
	assert.True(t, m.NeedsSynthesis())
	assert.Equal(t, Reax, *m.Index)
	assert.Equal(t, Rebx, m.Base)
	assert.Equal(t, "[Rebx + Reax + DP(0x00000010)]", m.String())

	assert.False(t, Mebx(DG(0x100)).NeedsSynthesis())
	assert.True(t, Mebx(DH(0x8000)).NeedsSynthesis())
	assert.Equal(t, "[Rebx]", Oebx.String())
}

func TestVectorPairs(t *testing.T) {
	assert.Equal(t, uint32(3), Xmm3.Lane(0))
	assert.Equal(t, uint32(19), Xmm3.Lane(1))
	assert.Equal(t, "$w31", TmmM.Name(1))
}
