package operands

import (
	"fmt"
)

// Offset between the halves of a 256 bit register pair
const PairOffset = 16

// A 128 bit MSA register reference. In 256 bit mode it names the pair (Index, Index+16)
type VectorRegister struct {
	Index uint32
	Alias string
	Class RegisterClass
}

func (v VectorRegister) Kind() Kind {
	return Kind_Vector
}

func (v VectorRegister) String() string {
	return v.Alias
}

// Symbolic name of the register for the given half of a pair
func (v VectorRegister) Name(lane int) string {
	return fmt.Sprintf("$w%v", v.Lane(lane))
}

// Register number holding the given 128 bit lane (RYG for lane 1)
func (v VectorRegister) Lane(lane int) uint32 {
	return v.Index + uint32(lane)*PairOffset
}

func vector(index uint32, alias string, class RegisterClass) VectorRegister {
	if index >= PairOffset {
		panic(fmt.Sprintf("vector register %v index %v collides with the pair half", alias, index))
	}

	return VectorRegister{Index: index, Alias: alias, Class: class}
}

var (
	Xmm0 = vector(0x00, "Xmm0", RegisterClass_Public)
	Xmm1 = vector(0x01, "Xmm1", RegisterClass_Public)
	Xmm2 = vector(0x02, "Xmm2", RegisterClass_Public)
	Xmm3 = vector(0x03, "Xmm3", RegisterClass_Public)
	Xmm4 = vector(0x04, "Xmm4", RegisterClass_Public)
	Xmm5 = vector(0x05, "Xmm5", RegisterClass_Public)
	Xmm6 = vector(0x06, "Xmm6", RegisterClass_Public)
	Xmm7 = vector(0x07, "Xmm7", RegisterClass_Public)
	Xmm8 = vector(0x08, "Xmm8", RegisterClass_Public)
	Xmm9 = vector(0x09, "Xmm9", RegisterClass_Public)
	XmmA = vector(0x0A, "XmmA", RegisterClass_Public)
	XmmB = vector(0x0B, "XmmB", RegisterClass_Public)
	XmmC = vector(0x0C, "XmmC", RegisterClass_Public)
	XmmD = vector(0x0D, "XmmD", RegisterClass_Public)

	// Scratch for constants
	TmmQ = vector(0x0E, "TmmQ", RegisterClass_Scratch)
	// Scratch for memory operands
	TmmM = vector(0x0F, "TmmM", RegisterClass_Scratch)
)

var VectorRegisters = []VectorRegister{
	Xmm0, Xmm1, Xmm2, Xmm3, Xmm4, Xmm5, Xmm6, Xmm7,
	Xmm8, Xmm9, XmmA, XmmB, XmmC, XmmD,
}
