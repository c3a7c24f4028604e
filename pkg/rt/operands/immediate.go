package operands

import (
	"fmt"

	"github.com/Manu343726/rtasm/pkg/utils"
)

// Encoding class of an immediate operand, by increasing range
type ImmediateClass uint

const (
	ImmediateClass_IC ImmediateClass = iota
	ImmediateClass_IB
	ImmediateClass_IM
	ImmediateClass_IG
	ImmediateClass_IH
	ImmediateClass_IV
	ImmediateClass_IW

	TOTAL_IMMEDIATE_CLASSES
)

// Static description of an immediate class
type ImmediateClassDescriptor struct {
	Class ImmediateClass
	Name  string
	// Bits kept from the literal
	Mask uint32
	// Tier when the immediate is the operand of an arithmetic opcode (addiu, slti: sign-extended 16 bits)
	ArithmeticTier Tier
	// Tier when the immediate is the operand of a logic opcode (andi, ori, xori: zero-extended 16 bits)
	LogicTier Tier
}

var immediateClasses = [TOTAL_IMMEDIATE_CLASSES]ImmediateClassDescriptor{
	{ImmediateClass_IC, "IC", 0x7F, Tier_Native, Tier_Native},
	{ImmediateClass_IB, "IB", 0xFF, Tier_Native, Tier_Native},
	{ImmediateClass_IM, "IM", 0xFFF, Tier_Native, Tier_Native},
	{ImmediateClass_IG, "IG", 0x7FFF, Tier_Native, Tier_Native},
	{ImmediateClass_IH, "IH", 0xFFFF, Tier_Single, Tier_Native},
	{ImmediateClass_IV, "IV", 0x7FFFFFFF, Tier_Synthesized, Tier_Synthesized},
	{ImmediateClass_IW, "IW", 0xFFFFFFFF, Tier_Synthesized, Tier_Synthesized},
}

// Returns the descriptors of all immediate classes, by increasing range
func ImmediateClasses() []ImmediateClassDescriptor {
	return immediateClasses[:]
}

func (c ImmediateClass) Descriptor() *ImmediateClassDescriptor {
	return &immediateClasses[c]
}

func (c ImmediateClass) String() string {
	return c.Descriptor().Name
}

// An immediate operand: the literal masked to its class
type Immediate struct {
	Value uint32
	Class ImmediateClass
}

func (i Immediate) Kind() Kind {
	return Kind_Immediate
}

func (i Immediate) String() string {
	return fmt.Sprintf("%v(%v)", i.Class, utils.FormatUintHex(uint64(i.Value), 8))
}

// Tier of the immediate as first operand of arithmetic ops (add, sub, cmp)
func (i Immediate) ArithmeticTier() Tier {
	return i.Class.Descriptor().ArithmeticTier
}

// Tier of the immediate as second operand of logic ops (and, orr, xor)
func (i Immediate) LogicTier() Tier {
	return i.Class.Descriptor().LogicTier
}

// Low 16 bits of the value
func (i Immediate) Lo() uint32 {
	return i.Value & 0xFFFF
}

// High 16 bits of the value
func (i Immediate) Hi() uint32 {
	return i.Value >> 16
}

func immediate(class ImmediateClass, value int64) Immediate {
	return Immediate{Value: uint32(value) & class.Descriptor().Mask, Class: class}
}

// 7 bit immediate
func IC(value int64) Immediate { return immediate(ImmediateClass_IC, value) }

// 8 bit immediate
func IB(value int64) Immediate { return immediate(ImmediateClass_IB, value) }

// 12 bit immediate
func IM(value int64) Immediate { return immediate(ImmediateClass_IM, value) }

// 15 bit immediate
func IG(value int64) Immediate { return immediate(ImmediateClass_IG, value) }

// 16 bit immediate
func IH(value int64) Immediate { return immediate(ImmediateClass_IH, value) }

// 31 bit immediate
func IV(value int64) Immediate { return immediate(ImmediateClass_IV, value) }

// 32 bit immediate
func IW(value int64) Immediate { return immediate(ImmediateClass_IW, value) }

// Classifies a literal into the narrowest class holding it. Classes zero extend on 64 bit
// operations, so negative literals and literals wider than 32 bits are rejected
func Imm(value int64) (Immediate, error) {
	if value < 0 || value > 0xFFFFFFFF {
		return Immediate{}, utils.MakeError(ErrOutOfRange, "immediate %v is not an unsigned 32 bit value", value)
	}

	for _, c := range immediateClasses {
		if uint64(value) <= uint64(c.Mask) {
			return immediate(c.Class, value), nil
		}
	}

	panic("unreachable: IW holds every unsigned 32 bit value")
}

// Same as Imm(), panics on error
func MustImm(value int64) Immediate {
	imm, err := Imm(value)
	if err != nil {
		panic(err)
	}

	return imm
}
