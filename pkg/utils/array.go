package utils

import (
	"golang.org/x/exp/constraints"
)

// Generates a sequence of n elements given a generation function
func Iota[T any](n int, gen func(int) T) []T {
	values := make([]T, n)

	for i := range values {
		values[i] = gen(i)
	}

	return values
}

// Generates a map from a sequence of items and a function that generates a key from an item
func GenMap[T any, Key comparable](input []T, keyFunc func(T) Key) map[Key]T {
	output := make(map[Key]T, len(input))

	for _, value := range input {
		output[keyFunc(value)] = value
	}

	return output
}

// Reduces a sequence to a value given an accumulation function
func Reduce[T any, U any](input []T, foldFunc func(T, U) U) U {
	var result U

	for _, value := range input {
		result = foldFunc(value, result)
	}

	return result
}

// Returns the biggest item of a sequence
func Max[T constraints.Ordered](input []T) T {
	max := input[0]

	for _, item := range input {
		if item > max {
			max = item
		}
	}

	return max
}
