// Package operands implements the operand layer of the encoder: register references, memory
// addressing modes and the classification of immediates and displacements into encoding tiers.
package operands

import "errors"

// Represents the kind of an instruction operand
type Kind uint

const (
	Kind_Register Kind = iota
	Kind_Memory
	Kind_Immediate
	Kind_Vector
)

func (k Kind) String() string {
	switch k {
	case Kind_Register:
		return "register"
	case Kind_Memory:
		return "memory"
	case Kind_Immediate:
		return "immediate"
	case Kind_Vector:
		return "vector"
	}

	panic("unreachable")
}

// An instruction operand: Register, Memory, Immediate or VectorRegister
type Operand interface {
	Kind() Kind
	String() string
}

// Number of instructions needed to materialize a value in the form an opcode requires
type Tier uint

const (
	// Fits the instruction field directly
	Tier_Native Tier = iota
	// Needs one extra instruction (a secondary native field)
	Tier_Single
	// Needs multi-instruction synthesis (load upper + or lower)
	Tier_Synthesized
)

func (t Tier) String() string {
	switch t {
	case Tier_Native:
		return "native"
	case Tier_Single:
		return "single"
	case Tier_Synthesized:
		return "synthesized"
	}

	panic("unreachable")
}

var (
	ErrOutOfRange  = errors.New("value out of range")
	ErrMisaligned  = errors.New("misaligned displacement")
	ErrUnknownName = errors.New("unknown register")
)
