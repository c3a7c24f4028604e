package encoding

import (
	"fmt"
	"strings"

	"github.com/Manu343726/rtasm/pkg/utils"
)

// Bits of every MIPS instruction word
const InstructionBits = 32

// Instruction word layout
type Format uint

const (
	// SPECIAL register format: opcode rs rt rd sa funct
	Format_R Format = iota
	// Immediate, load/store and 16 bit branch format: opcode rs rt imm16
	Format_I
	// r6 compact branch on zero: opcode rs off21
	Format_B21
	// r6 unconditional compact branch: opcode off26
	Format_B26
	// MSA three register format: minor opcode df wt ws wd minor
	Format_MSA3R
	// MSA 10 bit memory offset format: s10 rs wd
	Format_MSA_MI10
	// MSA two register float format: op df ws wd minor
	Format_MSA2RF

	TOTAL_FORMATS
)

// A named bit field within an instruction word
type FieldDescriptor struct {
	Name  string
	Begin int
	Width int
}

// Reads the field out of an instruction word
func (f *FieldDescriptor) Read(word uint32) uint32 {
	return field(word, f.Begin, f.Width)
}

// Contains information describing an instruction word format
type FormatDescriptor struct {
	Format      Format
	Name        string
	Description string
	Fields      []FieldDescriptor
}

var formats = [TOTAL_FORMATS]FormatDescriptor{
	{
		Format:      Format_R,
		Name:        "R",
		Description: "Register to register operations and shifts by immediate (SPECIAL major opcode)",
		Fields: []FieldDescriptor{
			{"funct", 0, 6}, {"sa", 6, 5}, {"rd", 11, 5}, {"rt", 16, 5}, {"rs", 21, 5}, {"opcode", 26, 6},
		},
	},
	{
		Format:      Format_I,
		Name:        "I",
		Description: "Operations with a 16 bit immediate, loads/stores with a 16 bit signed offset and two register branches",
		Fields: []FieldDescriptor{
			{"imm16", 0, 16}, {"rt", 16, 5}, {"rs", 21, 5}, {"opcode", 26, 6},
		},
	},
	{
		Format:      Format_B21,
		Name:        "B21",
		Description: "Compact branches comparing a register against zero (beqzc, bnezc) and jic",
		Fields: []FieldDescriptor{
			{"off21", 0, 21}, {"rs", 21, 5}, {"opcode", 26, 6},
		},
	},
	{
		Format:      Format_B26,
		Name:        "B26",
		Description: "Unconditional compact branch (bc)",
		Fields: []FieldDescriptor{
			{"off26", 0, 26}, {"opcode", 26, 6},
		},
	},
	{
		Format:      Format_MSA3R,
		Name:        "MSA-3R",
		Description: "MSA vector operations with two source and one destination vector registers",
		Fields: []FieldDescriptor{
			{"minor", 0, 6}, {"wd", 6, 5}, {"ws", 11, 5}, {"wt", 16, 5}, {"df", 21, 2}, {"op", 23, 3}, {"msa", 26, 6},
		},
	},
	{
		Format:      Format_MSA_MI10,
		Name:        "MSA-MI10",
		Description: "MSA vector loads and stores with a signed 10 bit element offset",
		Fields: []FieldDescriptor{
			{"df", 0, 2}, {"minor", 2, 4}, {"wd", 6, 5}, {"rs", 11, 5}, {"s10", 16, 10}, {"msa", 26, 6},
		},
	},
	{
		Format:      Format_MSA2RF,
		Name:        "MSA-2RF",
		Description: "MSA single source vector operations (fill, square root, reciprocal, conversions)",
		Fields: []FieldDescriptor{
			{"minor", 0, 6}, {"wd", 6, 5}, {"ws", 11, 5}, {"df", 16, 1}, {"op", 17, 9}, {"msa", 26, 6},
		},
	},
}

func init() {
	for i, f := range formats {
		if f.Format != Format(i) {
			panic(fmt.Sprintf("format descriptor %v registered at index %v", f.Name, i))
		}

		bits := utils.Reduce(f.Fields, func(field FieldDescriptor, total int) int {
			return total + field.Width
		})

		if bits != InstructionBits {
			panic(fmt.Sprintf("format %v covers %v bits", f.Name, bits))
		}
	}
}

// Returns all instruction word formats
func Formats() []FormatDescriptor {
	return formats[:]
}

func (f Format) Descriptor() *FormatDescriptor {
	return &formats[f]
}

func (f Format) String() string {
	return f.Descriptor().Name
}

// Returns the format of an emitted word, as far as it can be told from the major opcode
func FormatOf(word uint32) Format {
	switch Opcode(word) {
	case 0x00:
		return Format_R
	case 0x32:
		return Format_B26
	case 0x36, 0x3E:
		return Format_B21
	case 0x1E:
		switch {
		case word&0x38 == 0x20:
			return Format_MSA_MI10
		case Funct(word) == 0x1E && Rs(word)&0x18 == 0x18:
			return Format_MSA2RF
		default:
			return Format_MSA3R
		}
	}

	return Format_I
}

// Returns the fields of a word, e.g. "opcode=0 rs=3 rt=15 rd=3 sa=0 funct=36"
func (d *FormatDescriptor) Describe(word uint32) string {
	parts := make([]string, 0, len(d.Fields))

	for i := len(d.Fields) - 1; i >= 0; i-- {
		parts = append(parts, fmt.Sprintf("%v=%v", d.Fields[i].Name, d.Fields[i].Read(word)))
	}

	return strings.Join(parts, " ")
}

// Returns full documentation for the format
func (d *FormatDescriptor) Documentation(leftpad int) string {
	var builder strings.Builder
	leftpad_str := strings.Repeat(" ", leftpad)

	builder.WriteString(leftpad_str)
	builder.WriteString(fmt.Sprintf("%v\n\n", d.Name))

	leftpad_str += "  "
	leftpad += 2

	builder.WriteString(leftpad_str)
	builder.WriteString("Description:\n\n  ")
	builder.WriteString(leftpad_str)
	builder.WriteString(d.Description)
	builder.WriteString("\n\n")
	builder.WriteString(leftpad_str)
	builder.WriteString("Layout:\n\n")

	fields := utils.Map(d.Fields, func(f FieldDescriptor) utils.AsciiFrameField {
		return utils.AsciiFrameField{Name: f.Name, Begin: f.Begin, Width: f.Width}
	})

	asciiFrame, err := utils.AsciiFrame(fields, InstructionBits, leftpad+2)
	if err != nil {
		panic(fmt.Errorf("error generating documentation for format %s: %w", d.Name, err))
	}

	builder.WriteString(asciiFrame)
	builder.WriteString("\n")
	return builder.String()
}
