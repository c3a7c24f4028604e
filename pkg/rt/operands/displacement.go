package operands

import (
	"fmt"

	"github.com/Manu343726/rtasm/pkg/utils"
)

// Encoding class of a memory displacement, by increasing range
type DisplacementClass uint

const (
	DisplacementClass_DP DisplacementClass = iota
	DisplacementClass_DE
	DisplacementClass_DF
	DisplacementClass_DG
	DisplacementClass_DH
	DisplacementClass_DV

	TOTAL_DISPLACEMENT_CLASSES
)

// Static description of a displacement class
type DisplacementClassDescriptor struct {
	Class DisplacementClass
	Name  string
	// Bits kept from the literal. Displacements are always 4 byte aligned
	Mask uint32
	// Native: fits the signed 16 bit offset of loads and stores.
	// Single: ori into TDxx and add to the base.
	// Synthesized: lui+ori into TDxx and add to the base
	Tier Tier
}

var displacementClasses = [TOTAL_DISPLACEMENT_CLASSES]DisplacementClassDescriptor{
	{DisplacementClass_DP, "DP", 0xFFC, Tier_Native},
	{DisplacementClass_DE, "DE", 0x1FFC, Tier_Native},
	{DisplacementClass_DF, "DF", 0x3FFC, Tier_Native},
	{DisplacementClass_DG, "DG", 0x7FFC, Tier_Native},
	{DisplacementClass_DH, "DH", 0xFFFC, Tier_Single},
	{DisplacementClass_DV, "DV", 0x7FFFFFFC, Tier_Synthesized},
}

// Returns the descriptors of all displacement classes, by increasing range
func DisplacementClasses() []DisplacementClassDescriptor {
	return displacementClasses[:]
}

func (c DisplacementClass) Descriptor() *DisplacementClassDescriptor {
	return &displacementClasses[c]
}

func (c DisplacementClass) String() string {
	return c.Descriptor().Name
}

// A memory displacement: the literal masked to its class
type Displacement struct {
	Value uint32
	Class DisplacementClass
}

func (d Displacement) String() string {
	return fmt.Sprintf("%v(%v)", d.Class, utils.FormatUintHex(uint64(d.Value), 8))
}

// Encoding tier of the displacement
func (d Displacement) Tier() Tier {
	return d.Class.Descriptor().Tier
}

// Low 16 bits of the value
func (d Displacement) Lo() uint32 {
	return d.Value & 0xFFFF
}

// High 16 bits of the value
func (d Displacement) Hi() uint32 {
	return d.Value >> 16
}

// Returns the displacement with extra bits or-ed in, reclassified to hold the result.
// The upper half of a 256 bit register pair lives at Or(0x10)
func (d Displacement) Or(bits uint32) Displacement {
	value := d.Value | bits

	for c := d.Class; c < TOTAL_DISPLACEMENT_CLASSES; c++ {
		if value&^c.Descriptor().Mask == 0 {
			return Displacement{Value: value, Class: c}
		}
	}

	return Displacement{Value: value & DisplacementClass_DV.Descriptor().Mask, Class: DisplacementClass_DV}
}

func displacement(class DisplacementClass, value int64) Displacement {
	return Displacement{Value: uint32(value) & class.Descriptor().Mask, Class: class}
}

// 12 bit displacement
func DP(value int64) Displacement { return displacement(DisplacementClass_DP, value) }

// 13 bit displacement
func DE(value int64) Displacement { return displacement(DisplacementClass_DE, value) }

// 14 bit displacement
func DF(value int64) Displacement { return displacement(DisplacementClass_DF, value) }

// 15 bit displacement
func DG(value int64) Displacement { return displacement(DisplacementClass_DG, value) }

// 16 bit displacement
func DH(value int64) Displacement { return displacement(DisplacementClass_DH, value) }

// 31 bit displacement
func DV(value int64) Displacement { return displacement(DisplacementClass_DV, value) }

// Classifies a literal displacement into the narrowest class holding it
func Disp(value int64) (Displacement, error) {
	if value&3 != 0 {
		return Displacement{}, utils.MakeError(ErrMisaligned, "displacement %v is not 4 byte aligned", value)
	}

	for _, c := range displacementClasses {
		if value >= 0 && uint64(value) <= uint64(c.Mask) {
			return displacement(c.Class, value), nil
		}
	}

	return Displacement{}, utils.MakeError(ErrOutOfRange, "displacement %v does not fit 31 bits", value)
}

// Same as Disp(), panics on error
func MustDisp(value int64) Displacement {
	d, err := Disp(value)
	if err != nil {
		panic(err)
	}

	return d
}
