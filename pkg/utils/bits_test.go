package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBitView_ReadWrite(t *testing.T) {
	var word uint32
	view := CreateBitView(&word)

	view.Write(0x1F, 21, 5)
	view.Write(0x03, 16, 5)
	view.Write(0x1FF, 11, 5) // truncated to 5 bits

	assert.Equal(t, uint32(0x03E3F800), view.Value())
	assert.Equal(t, uint32(0x1F), view.Read(21, 5))
	assert.Equal(t, uint32(0x03), view.Read(16, 5))
	assert.Equal(t, uint32(0x1F), view.Read(11, 5))
}

func TestSignExtend(t *testing.T) {
	assert.Equal(t, int64(-1), SignExtend(0xFFFF, 16))
	assert.Equal(t, int64(0x7FFF), SignExtend(0x7FFF, 16))
	assert.Equal(t, int64(-512), SignExtend(0x200, 10))
}

func TestFits(t *testing.T) {
	assert.True(t, FitsSigned(-32768, 16))
	assert.True(t, FitsSigned(32767, 16))
	assert.False(t, FitsSigned(32768, 16))
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "0x00000024", FormatWord(0x24))
	assert.Equal(t, "0x7F", FormatUintHex(0x7F, 2))
	assert.Equal(t, "1, 2, 3", FormatSlice([]int{1, 2, 3}, ", "))
}
