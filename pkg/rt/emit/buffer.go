// Package emit implements the sinks receiving the 32 bit instruction words produced by the assembler.
package emit

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/Manu343726/rtasm/pkg/rt/encoding"
	"github.com/Manu343726/rtasm/pkg/utils"
)

// Receives instruction words. Words are addressed by index, the byte offset of a word being 4*index
type Buffer interface {
	// Appends a word
	EmitW(word uint32)
	// Returns the number of words emitted so far
	Len() int
	// Returns a previously emitted word
	Word(index int) uint32
	// Overwrites a previously emitted word (label fix-ups)
	PatchW(index int, word uint32)
}

// Buffers able to record which logical instruction produced each word
type Marker interface {
	Mark(index int, origin string)
}

// In-memory code buffer
type CodeBuffer struct {
	words []uint32
	marks map[int]string
}

// Returns an empty code buffer
func NewCodeBuffer() *CodeBuffer {
	return &CodeBuffer{
		marks: make(map[int]string),
	}
}

func (b *CodeBuffer) EmitW(word uint32) {
	b.words = append(b.words, word)
}

func (b *CodeBuffer) Len() int {
	return len(b.words)
}

func (b *CodeBuffer) Word(index int) uint32 {
	return b.words[index]
}

func (b *CodeBuffer) PatchW(index int, word uint32) {
	b.words[index] = word
}

// Records that the logical instruction origin starts at word index
func (b *CodeBuffer) Mark(index int, origin string) {
	b.marks[index] = origin
}

// Returns a copy of the emitted words
func (b *CodeBuffer) Words() []uint32 {
	return append([]uint32{}, b.words...)
}

// Returns the emitted code as bytes in the given byte order
func (b *CodeBuffer) Bytes(order binary.ByteOrder) []byte {
	result := make([]byte, 4*len(b.words))

	for i, word := range b.words {
		order.PutUint32(result[4*i:], word)
	}

	return result
}

// Drops all emitted words and marks
func (b *CodeBuffer) Reset() {
	b.words = b.words[:0]
	b.marks = make(map[int]string)
}

// A line of a code listing
type Line struct {
	// Byte offset of the word
	Offset int `yaml:"offset"`
	// Instruction word
	Word uint32 `yaml:"word"`
	// Word layout
	Format encoding.Format `yaml:"-"`
	// Decoded fields of the word
	Fields string `yaml:"fields"`
	// Logical instruction starting at this word, if any
	Origin string `yaml:"origin,omitempty"`
}

func (l Line) String() string {
	origin := ""
	if l.Origin != "" {
		origin = "  ; " + l.Origin
	}

	return fmt.Sprintf("%04x: %v  %-8v %v%v", l.Offset, utils.FormatWord(l.Word), l.Format, l.Fields, origin)
}

// Returns the listing of the emitted code
func (b *CodeBuffer) Listing() []Line {
	return utils.Iota(len(b.words), func(i int) Line {
		format := encoding.FormatOf(b.words[i])

		return Line{
			Offset: 4 * i,
			Word:   b.words[i],
			Format: format,
			Fields: format.Descriptor().Describe(b.words[i]),
			Origin: b.marks[i],
		}
	})
}

// Returns the listing as text, one word per line
func (b *CodeBuffer) String() string {
	var builder strings.Builder

	for _, line := range b.Listing() {
		builder.WriteString(line.String())
		builder.WriteString("\n")
	}

	return builder.String()
}
