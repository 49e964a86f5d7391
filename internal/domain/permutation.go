package domain

import "fmt"

// maxPermutationLength is the decimal digit packing limit: positions are
// written as single digits 1-9, so a code cannot describe a tenth answer.
const maxPermutationLength = 9

// EncodePermutation packs 0-based positions, in selection order, into a base-10
// integer whose digits are the 1-based positions. [1 0 2] encodes as 213.
func EncodePermutation(positions []int) (int, error) {
	if len(positions) > maxPermutationLength {
		return 0, fmt.Errorf("%w: got %d", ErrPermutationTooLong, len(positions))
	}

	code := 0
	for _, position := range positions {
		if position < 0 {
			return 0, fmt.Errorf("%w: position %d", ErrMalformedPermutation, position)
		}
		if position >= maxPermutationLength {
			return 0, fmt.Errorf("%w: position %d", ErrPermutationTooLong, position)
		}
		code = code*10 + position + 1
	}
	return code, nil
}

// DecodePermutation is the inverse of EncodePermutation. Zero decodes to an
// empty permutation.
func DecodePermutation(code int) ([]int, error) {
	if code < 0 {
		return nil, fmt.Errorf("%w: %d", ErrMalformedPermutation, code)
	}

	var reversed []int
	for rest := code; rest > 0; rest /= 10 {
		digit := rest % 10
		if digit == 0 {
			return nil, fmt.Errorf("%w: %d contains a zero digit", ErrMalformedPermutation, code)
		}
		reversed = append(reversed, digit-1)
	}
	if len(reversed) > maxPermutationLength {
		return nil, fmt.Errorf("%w: %d", ErrPermutationTooLong, code)
	}

	positions := make([]int, len(reversed))
	for i, position := range reversed {
		positions[len(reversed)-1-i] = position
	}
	return positions, nil
}

func positionsOf(prompt *Prompt, answers []*Answer) []int {
	positions := make([]int, 0, len(answers))
	for _, answer := range answers {
		positions = append(positions, prompt.IndexOf(answer))
	}
	return positions
}
