package utils

import (
	"fmt"
	"strings"
)

// Formats an uint value into a fixed width hex string of n digits
func FormatUintHex(value uint64, digits int) string {
	return fmt.Sprintf("0x%0*X", digits, value)
}

// Formats a 32 bit instruction word as 0xXXXXXXXX
func FormatWord(word uint32) string {
	return FormatUintHex(uint64(word), 8)
}

// Returns an string containing all formatted sequence items separated by a given separator
func FormatSlice[T any](input []T, separator string) string {
	var builder strings.Builder

	for i, value := range input {
		builder.WriteString(fmt.Sprint(value))

		if i < len(input)-1 {
			builder.WriteString(separator)
		}
	}

	return builder.String()
}
