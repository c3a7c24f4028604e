package operands

import (
	"fmt"

	"github.com/Manu343726/rtasm/pkg/utils"
)

// Role of a general purpose register within the encoder
type RegisterClass uint

const (
	// Registers available to callers of the encoder
	RegisterClass_Public RegisterClass = iota
	// Registers reserved by the encoder for multi-instruction sequences
	RegisterClass_Scratch
	// Hard-wired or ABI registers ($zero, $sp, $ra)
	RegisterClass_Fixed
)

func (rc RegisterClass) String() string {
	switch rc {
	case RegisterClass_Public:
		return "public"
	case RegisterClass_Scratch:
		return "scratch"
	case RegisterClass_Fixed:
		return "fixed"
	}

	panic("unreachable")
}

// A general purpose register reference
type Register struct {
	// Register number as encoded in 5 bit register fields
	Index uint32
	// Symbolic name for textual back-ends ("$a0")
	Name string
	// Friendly name used by the encoder API ("Reax")
	Alias string
	// Class of the register
	Class RegisterClass
}

func (r Register) Kind() Kind {
	return Kind_Register
}

func (r Register) String() string {
	return r.Alias
}

// Returns a memory operand addressing [r + disp]
func (r Register) Mem(disp Displacement) Memory {
	return Memory{Base: r, Disp: disp}
}

func register(index uint32, name, alias string, class RegisterClass) Register {
	if index > 31 {
		panic(fmt.Sprintf("register %v index %v does not fit a 5 bit field", alias, index))
	}

	return Register{Index: index, Name: name, Alias: alias, Class: class}
}

// Public registers
var (
	Reax = register(0x04, "$a0", "Reax", RegisterClass_Public)
	Recx = register(0x0F, "$t7", "Recx", RegisterClass_Public)
	Redx = register(0x02, "$v0", "Redx", RegisterClass_Public)
	Rebx = register(0x03, "$v1", "Rebx", RegisterClass_Public)
	Rebp = register(0x05, "$a1", "Rebp", RegisterClass_Public)
	Resi = register(0x06, "$a2", "Resi", RegisterClass_Public)
	Redi = register(0x07, "$a3", "Redi", RegisterClass_Public)
	Reg8 = register(0x08, "$t0", "Reg8", RegisterClass_Public)
	Reg9 = register(0x09, "$t1", "Reg9", RegisterClass_Public)
	RegA = register(0x0A, "$t2", "RegA", RegisterClass_Public)
	RegB = register(0x0B, "$t3", "RegB", RegisterClass_Public)
	RegC = register(0x0C, "$t4", "RegC", RegisterClass_Public)
	RegD = register(0x0D, "$t5", "RegD", RegisterClass_Public)
	RegE = register(0x0E, "$t6", "RegE", RegisterClass_Public)
)

// Scratch registers. Each one is owned by a single logical instruction emission at a time
var (
	// Memory operand value
	TMxx = register(0x01, "$at", "TMxx", RegisterClass_Scratch)
	// Immediate materialization
	TIxx = register(0x10, "$s0", "TIxx", RegisterClass_Scratch)
	// Displacement materialization
	TDxx = register(0x11, "$s1", "TDxx", RegisterClass_Scratch)
	// Synthesized address (base + index + displacement)
	TPxx = register(0x12, "$s2", "TPxx", RegisterClass_Scratch)
	TNxx = register(0x13, "$s3", "TNxx", RegisterClass_Scratch)
	TAxx = register(0x14, "$s4", "TAxx", RegisterClass_Scratch)
	TCxx = register(0x15, "$s5", "TCxx", RegisterClass_Scratch)
	TExx = register(0x16, "$s6", "TExx", RegisterClass_Scratch)
	// Left compare operand, also receives the result of flag-setting forms
	TLxx = register(0x18, "$t8", "TLxx", RegisterClass_Scratch)
	// Right compare operand
	TRxx = register(0x19, "$t9", "TRxx", RegisterClass_Scratch)
)

// Fixed registers
var (
	TZxx = register(0x00, "$zero", "TZxx", RegisterClass_Fixed)
	SPxx = register(0x1D, "$sp", "SPxx", RegisterClass_Fixed)
	RAxx = register(0x1F, "$ra", "RAxx", RegisterClass_Fixed)
)

// Public registers in index order of the encoder API
var PublicRegisters = []Register{
	Reax, Recx, Redx, Rebx, Rebp, Resi, Redi,
	Reg8, Reg9, RegA, RegB, RegC, RegD, RegE,
}

// Scratch registers
var ScratchRegisters = []Register{
	TMxx, TIxx, TDxx, TPxx, TNxx, TAxx, TCxx, TExx, TLxx, TRxx,
}

// Fixed registers
var FixedRegisters = []Register{TZxx, SPxx, RAxx}

var registersByAlias = utils.GenMap(append(append(append([]Register{}, PublicRegisters...), ScratchRegisters...), FixedRegisters...),
	func(r Register) string { return r.Alias })

// Returns a register given its alias ("Rebx") or symbolic name ("$v1")
func RegisterByName(name string) (Register, error) {
	if r, ok := registersByAlias[name]; ok {
		return r, nil
	}

	for _, r := range registersByAlias {
		if r.Name == name {
			return r, nil
		}
	}

	return Register{}, utils.MakeError(ErrUnknownName, "'%v'", name)
}

// Memory operands without displacement ("Oeax")
var (
	Oeax = Reax.Mem(DP(0))
	Oecx = Recx.Mem(DP(0))
	Oedx = Redx.Mem(DP(0))
	Oebx = Rebx.Mem(DP(0))
	Oebp = Rebp.Mem(DP(0))
	Oesi = Resi.Mem(DP(0))
	Oedi = Redi.Mem(DP(0))
)

// Memory operand [Rebx + disp] ("Mebx")
func Mebx(disp Displacement) Memory { return Rebx.Mem(disp) }

// Memory operand [Recx + disp]
func Mecx(disp Displacement) Memory { return Recx.Mem(disp) }

// Memory operand [Redx + disp]
func Medx(disp Displacement) Memory { return Redx.Mem(disp) }

// Memory operand [Reax + disp]
func Meax(disp Displacement) Memory { return Reax.Mem(disp) }

// Memory operand [Rebp + disp]
func Mebp(disp Displacement) Memory { return Rebp.Mem(disp) }

// Memory operand [Resi + disp]
func Mesi(disp Displacement) Memory { return Resi.Mem(disp) }

// Memory operand [Redi + disp]
func Medi(disp Displacement) Memory { return Redi.Mem(disp) }

// Indexed memory operand [Rebx + Reax + disp] ("Iebx")
func Iebx(disp Displacement) Memory { return Rebx.Mem(disp).Indexed(Reax) }

// Indexed memory operand [Recx + Reax + disp]
func Iecx(disp Displacement) Memory { return Recx.Mem(disp).Indexed(Reax) }

// Indexed memory operand [Resi + Reax + disp]
func Iesi(disp Displacement) Memory { return Resi.Mem(disp).Indexed(Reax) }

// Indexed memory operand [Redi + Reax + disp]
func Iedi(disp Displacement) Memory { return Redi.Mem(disp).Indexed(Reax) }
