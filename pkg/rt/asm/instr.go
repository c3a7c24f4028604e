package asm

import (
	"fmt"
	"strings"

	"github.com/Manu343726/rtasm/pkg/rt/operands"
	"github.com/Manu343726/rtasm/pkg/utils"
)

// Scalar operation
type Op uint

const (
	Op_MOV Op = iota
	Op_AND
	Op_ANN
	Op_ORR
	Op_ORN
	Op_XOR
	Op_NOT
	Op_NEG
	Op_ADD
	Op_SUB
	Op_SHL
	Op_SHR
	Op_ROR
	Op_MUL
	Op_DIV
	Op_REM
	Op_CMP

	TOTAL_OPS
)

// Operand width of a scalar instruction
type Size uint

const (
	// 8 bit memory operand, extended to the register width
	Size_B Size = iota
	// 16 bit memory operand, extended to the register width
	Size_H
	// 32 bit
	Size_W
	// 64 bit
	Size_Z
)

var sizeNames = []string{"b", "h", "w", "z"}

func (s Size) String() string {
	return sizeNames[s]
}

// Returns true for the 8 and 16 bit sizes
func (s Size) Narrow() bool {
	return s == Size_B || s == Size_H
}

// Signedness of a scalar instruction
type Sign uint

const (
	// Unsigned or signedness agnostic
	Sign_X Sign = iota
	// Signed: arithmetic shifts, signed multiply/divide/compare, sign extending narrow loads
	Sign_N
	// Zero extending narrow loads
	Sign_Z
)

var signNames = []string{"x", "n", "z"}

func (s Sign) String() string {
	return signNames[s]
}

// Operand shape of a scalar instruction, named after the operand kinds it takes
type Shape uint

const (
	// Register destination, implicit source (Recx for shifts)
	Shape_RX Shape = iota
	// Memory destination, implicit source
	Shape_MX
	// Register destination, immediate source
	Shape_RI
	// Memory destination, immediate source
	Shape_MI
	// Register destination, register source
	Shape_RR
	// Register destination, memory source
	Shape_LD
	// Memory destination, register source ("mr" for compares)
	Shape_ST
	// Implicit Redx:Reax destination, register source
	Shape_XR
	// Implicit Redx:Reax destination, memory source
	Shape_XM

	TOTAL_SHAPES
)

var shapeNames = []string{"rx", "mx", "ri", "mi", "rr", "ld", "st", "xr", "xm"}

func (s Shape) String() string {
	return shapeNames[s]
}

type shapeSet uint

func shapes(s ...Shape) shapeSet {
	return utils.Reduce(s, func(shape Shape, set shapeSet) shapeSet {
		return set | 1<<shape
	})
}

func (s shapeSet) Has(shape Shape) bool {
	return s&(1<<shape) != 0
}

// Returns the shapes in the set, in declaration order
func (s shapeSet) Shapes() []Shape {
	result := []Shape{}

	for shape := Shape(0); shape < TOTAL_SHAPES; shape++ {
		if s.Has(shape) {
			result = append(result, shape)
		}
	}

	return result
}

// Contains information describing a scalar operation
type OpDescriptor struct {
	Op   Op
	Name string
	// Shapes the operation can be encoded with
	Shapes shapeSet
	// The operation has a flag setting (Z) form
	SetsFlags bool
	// The operation takes 8/16 bit memory sources
	Narrow bool
	// Description (for documentation)
	Description string
}

var ops = [TOTAL_OPS]OpDescriptor{
	{Op_MOV, "mov", shapes(Shape_RI, Shape_MI, Shape_RR, Shape_LD, Shape_ST), false, true, "dst = src"},
	{Op_AND, "and", shapes(Shape_RI, Shape_MI, Shape_RR, Shape_LD, Shape_ST), true, true, "dst = dst & src"},
	{Op_ANN, "ann", shapes(Shape_RI, Shape_MI, Shape_RR, Shape_LD, Shape_ST), true, true, "dst = ~dst & src"},
	{Op_ORR, "orr", shapes(Shape_RI, Shape_MI, Shape_RR, Shape_LD, Shape_ST), true, true, "dst = dst | src"},
	{Op_ORN, "orn", shapes(Shape_RI, Shape_MI, Shape_RR, Shape_LD, Shape_ST), true, true, "dst = ~dst | src"},
	{Op_XOR, "xor", shapes(Shape_RI, Shape_MI, Shape_RR, Shape_LD, Shape_ST), true, true, "dst = dst ^ src"},
	{Op_NOT, "not", shapes(Shape_RX, Shape_MX), true, false, "dst = ~dst"},
	{Op_NEG, "neg", shapes(Shape_RX, Shape_MX), true, false, "dst = -dst"},
	{Op_ADD, "add", shapes(Shape_RI, Shape_MI, Shape_RR, Shape_LD, Shape_ST), true, true, "dst = dst + src"},
	{Op_SUB, "sub", shapes(Shape_RI, Shape_MI, Shape_RR, Shape_LD, Shape_ST), true, true, "dst = dst - src"},
	{Op_SHL, "shl", shapes(Shape_RX, Shape_MX, Shape_RI, Shape_MI, Shape_RR, Shape_LD, Shape_ST), true, false, "dst = dst << src (Recx when implicit)"},
	{Op_SHR, "shr", shapes(Shape_RX, Shape_MX, Shape_RI, Shape_MI, Shape_RR, Shape_LD, Shape_ST), true, false, "dst = dst >> src (Recx when implicit), arithmetic when signed"},
	{Op_ROR, "ror", shapes(Shape_RX, Shape_MX, Shape_RI, Shape_MI, Shape_RR, Shape_LD, Shape_ST), true, false, "dst = dst rotated right by src (Recx when implicit)"},
	{Op_MUL, "mul", shapes(Shape_RI, Shape_RR, Shape_LD, Shape_XR, Shape_XM), false, true, "dst = dst * src, or Redx:Reax = Reax * src"},
	{Op_DIV, "div", shapes(Shape_RI, Shape_RR, Shape_LD, Shape_XR, Shape_XM), false, true, "dst = dst / src, or Reax = Reax / src"},
	{Op_REM, "rem", shapes(Shape_RI, Shape_RR, Shape_LD, Shape_XR, Shape_XM), false, true, "dst = dst % src, or Redx = Reax % src"},
	{Op_CMP, "cmp", shapes(Shape_RI, Shape_MI, Shape_RR, Shape_LD, Shape_ST), false, true, "TLxx = lhs, TRxx = rhs for a later conditional jump"},
}

func init() {
	for i, op := range ops {
		if op.Op != Op(i) {
			panic(fmt.Sprintf("op descriptor %v registered at index %v", op.Name, i))
		}
	}
}

// Returns all scalar operation descriptors
func Ops() []OpDescriptor {
	return ops[:]
}

func (op Op) Descriptor() *OpDescriptor {
	return &ops[op]
}

func (op Op) String() string {
	return op.Descriptor().Name
}

var opsByName = utils.GenMap(ops[:], func(d OpDescriptor) string { return d.Name })

// A scalar instruction: operation, width, signedness and whether it sets TLxx for a later
// zero test. Written as [op][b|h|w|z][x|n|z][Z], e.g. "addwxZ", "addhn", "movzx"
type Instr struct {
	Op       Op
	Size     Size
	Sign     Sign
	SetFlags bool
}

func (in Instr) String() string {
	flags := ""
	if in.SetFlags {
		flags = "Z"
	}

	return fmt.Sprintf("%v%v%v%v", in.Op, in.Size, in.Sign, flags)
}

// Returns true if the instruction operates on 64 bit registers
func (in Instr) Wide() bool {
	return in.Size == Size_Z
}

// Returns true if the instruction is signed
func (in Instr) Signed() bool {
	return in.Sign == Sign_N
}

// Parses a scalar mnemonic
func ParseInstr(mnemonic string) (Instr, error) {
	if len(mnemonic) != 5 && !(len(mnemonic) == 6 && mnemonic[5] == 'Z') {
		return Instr{}, utils.MakeError(ErrInvalidMnemonic, "'%v' is not [op][size][sign][Z]", mnemonic)
	}

	op, ok := opsByName[mnemonic[:3]]
	if !ok {
		return Instr{}, utils.MakeError(ErrInvalidMnemonic, "unknown operation '%v' in '%v'", mnemonic[:3], mnemonic)
	}

	size := strings.Index("bhwz", mnemonic[3:4])
	sign := strings.Index("xnz", mnemonic[4:5])

	if size < 0 || sign < 0 {
		return Instr{}, utils.MakeError(ErrInvalidMnemonic, "unknown width or sign in '%v'", mnemonic)
	}

	in := Instr{
		Op:       op.Op,
		Size:     Size(size),
		Sign:     Sign(sign),
		SetFlags: len(mnemonic) == 6,
	}

	return in, in.Validate()
}

// Same as ParseInstr(), panics on error
func MustInstr(mnemonic string) Instr {
	in, err := ParseInstr(mnemonic)
	if err != nil {
		panic(err)
	}

	return in
}

// Checks the combination of operation, width, sign and flags is encodable
func (in Instr) Validate() error {
	if in.Op >= TOTAL_OPS {
		return utils.MakeError(ErrInvalidMnemonic, "unknown operation %v", uint(in.Op))
	}

	d := in.Op.Descriptor()

	if in.SetFlags && !d.SetsFlags {
		return utils.MakeError(ErrInvalidMnemonic, "'%v' has no flag setting form", d.Name)
	}

	if in.Size.Narrow() {
		if !d.Narrow {
			return utils.MakeError(ErrInvalidMnemonic, "'%v' has no 8/16 bit form", d.Name)
		}

		if in.Sign == Sign_X {
			return utils.MakeError(ErrInvalidMnemonic, "'%v': 8/16 bit forms must be sign (n) or zero (z) extending", in)
		}
	} else if in.Sign == Sign_Z {
		return utils.MakeError(ErrInvalidMnemonic, "'%v': zero extension only applies to 8/16 bit forms", in)
	}

	return nil
}

// Infers the shape of an instruction from its operands
func (in Instr) Shape(args ...operands.Operand) (Shape, error) {
	implicitDst := in.Op == Op_MUL || in.Op == Op_DIV || in.Op == Op_REM

	switch len(args) {
	case 1:
		switch args[0].Kind() {
		case operands.Kind_Register:
			if implicitDst {
				return Shape_XR, nil
			}
			return Shape_RX, nil
		case operands.Kind_Memory:
			if implicitDst {
				return Shape_XM, nil
			}
			return Shape_MX, nil
		}
	case 2:
		switch [2]operands.Kind{args[0].Kind(), args[1].Kind()} {
		case [2]operands.Kind{operands.Kind_Register, operands.Kind_Immediate}:
			return Shape_RI, nil
		case [2]operands.Kind{operands.Kind_Memory, operands.Kind_Immediate}:
			return Shape_MI, nil
		case [2]operands.Kind{operands.Kind_Register, operands.Kind_Register}:
			return Shape_RR, nil
		case [2]operands.Kind{operands.Kind_Register, operands.Kind_Memory}:
			return Shape_LD, nil
		case [2]operands.Kind{operands.Kind_Memory, operands.Kind_Register}:
			return Shape_ST, nil
		}
	}

	return 0, utils.MakeError(ErrUnsupportedShape, "%v(%v)", in, utils.FormatSlice(args, ", "))
}
