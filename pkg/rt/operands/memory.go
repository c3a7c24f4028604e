package operands

import (
	"strings"
)

// A memory addressing mode: base register, optional index register and displacement.
// The effective address is base + index + disp
type Memory struct {
	Base  Register
	Index *Register
	Disp  Displacement
}

func (m Memory) Kind() Kind {
	return Kind_Memory
}

func (m Memory) String() string {
	var builder strings.Builder

	builder.WriteString("[")
	builder.WriteString(m.Base.Alias)

	if m.Index != nil {
		builder.WriteString(" + ")
		builder.WriteString(m.Index.Alias)
	}

	if m.Disp.Value != 0 {
		builder.WriteString(" + ")
		builder.WriteString(m.Disp.String())
	}

	builder.WriteString("]")
	return builder.String()
}

// Returns the memory operand with an index register added to the address
func (m Memory) Indexed(index Register) Memory {
	m.Index = &index
	return m
}

// Returns the memory operand with a different displacement
func (m Memory) WithDisp(disp Displacement) Memory {
	m.Disp = disp
	return m
}

// Returns true if the effective address needs instructions before the access
// (indexed, or displacement beyond the native offset field)
func (m Memory) NeedsSynthesis() bool {
	return m.Index != nil || m.Disp.Tier() != Tier_Native
}
