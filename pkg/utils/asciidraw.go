package utils

import (
	"fmt"
	"strings"
)

// A named range of bits of a frame
type AsciiFrameField struct {
	Name string
	// First (least significant) bit of the field
	Begin int
	Width int
}

// The most significant bit of the field
func (f *AsciiFrameField) TopBit() int {
	return f.Begin + f.Width - 1
}

// Returns the fields sorted by Begin with the gaps between them (and up to frameWidth) filled
// with "(unused)" fields
func fillAsciiFrameGaps(fields []AsciiFrameField, frameWidth int) ([]AsciiFrameField, error) {
	result := make([]AsciiFrameField, 0, len(fields)+1)
	next := 0

	gap := func(to int) {
		if to > next {
			result = append(result, AsciiFrameField{Name: "(unused)", Begin: next, Width: to - next})
		}
	}

	for _, field := range fields {
		if field.Begin < next {
			return nil, fmt.Errorf("field '%v' begins at bit %v, overlapping the previous field (fields must be sorted by position)", field.Name, field.Begin)
		}

		gap(field.Begin)
		result = append(result, field)
		next = field.Begin + field.Width
	}

	if next > frameWidth {
		return nil, fmt.Errorf("fields take %v bits, frame is %v bits wide", next, frameWidth)
	}

	gap(frameWidth)
	return result, nil
}

func center(text string, width int) string {
	left := (width - len(text)) / 2
	return strings.Repeat(" ", left) + text + strings.Repeat(" ", width-left-len(text))
}

// Draws a frame of frameWidth bits split in fields, most significant bit on the left:
//
//	 31    26 25  21 20  16 15  0
//	+--------+------+------+-----+
//	| opcode |  rs  |  rt  | imm |
//	+--------+------+------+-----+
func AsciiFrame(fields []AsciiFrameField, frameWidth int, leftpad int) (string, error) {
	all, err := fillAsciiFrameGaps(fields, frameWidth)
	if err != nil {
		return "", err
	}

	var indices, border, body strings.Builder

	for i := len(all) - 1; i >= 0; i-- {
		top, low := fmt.Sprint(all[i].TopBit()), fmt.Sprint(all[i].Begin)
		width := Max([]int{len(all[i].Name) + 2, len(top) + len(low) + 2})

		indices.WriteString(" " + top + strings.Repeat(" ", width-len(top)-len(low)) + low)
		border.WriteString("+" + strings.Repeat("-", width))
		body.WriteString("|" + center(all[i].Name, width))
	}

	border.WriteString("+")
	body.WriteString("|")

	pad := strings.Repeat(" ", leftpad)
	rows := []string{indices.String(), border.String(), body.String(), border.String()}

	var result strings.Builder
	for _, row := range rows {
		result.WriteString(pad + row + "\n")
	}

	return result.String(), nil
}
