package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAsciiFrame_IFormat(t *testing.T) {
	fields := []AsciiFrameField{
		{Name: "imm", Begin: 0, Width: 16},
		{Name: "rt", Begin: 16, Width: 5},
		{Name: "rs", Begin: 21, Width: 5},
		{Name: "opcode", Begin: 26, Width: 6},
	}

	actual, err := AsciiFrame(fields, 32, 0)
	require.NoError(t, err)

	assert.Equal(t, ""+
		" 31    26 25  21 20  16 15  0\n"+
		"+--------+------+------+-----+\n"+
		"| opcode |  rs  |  rt  | imm |\n"+
		"+--------+------+------+-----+\n",
		actual)
}

func TestAsciiFrame_GapsAndPadding(t *testing.T) {
	actual, err := AsciiFrame([]AsciiFrameField{{Name: "x", Begin: 0, Width: 4}}, 8, 2)
	require.NoError(t, err)

	assert.Equal(t, ""+
		"   7        4 3 0\n"+
		"  +----------+---+\n"+
		"  | (unused) | x |\n"+
		"  +----------+---+\n",
		actual)
}

func TestAsciiFrame_NoFields(t *testing.T) {
	actual, err := AsciiFrame(nil, 16, 0)
	require.NoError(t, err)

	assert.Equal(t, ""+
		" 15      0\n"+
		"+----------+\n"+
		"| (unused) |\n"+
		"+----------+\n",
		actual)
}

func TestAsciiFrame_Errors(t *testing.T) {
	_, err := AsciiFrame([]AsciiFrameField{{Name: "a", Begin: 0, Width: 8}, {Name: "b", Begin: 4, Width: 8}}, 16, 0)
	assert.Error(t, err)

	_, err = AsciiFrame([]AsciiFrameField{{Name: "a", Begin: 8, Width: 16}}, 16, 0)
	assert.Error(t, err)
}
