package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

type Subtype string

const (
	SubtypeStandard        Subtype = "standard"
	SubtypeBinaryChoice    Subtype = "binary_choice"
	SubtypeFreeInput       Subtype = "free_input"
	SubtypeOrderedSequence Subtype = "ordered_sequence"
)

func (s Subtype) Valid() bool {
	switch s {
	case SubtypeStandard, SubtypeBinaryChoice, SubtypeFreeInput, SubtypeOrderedSequence:
		return true
	default:
		return false
	}
}

type RuleKind string

const (
	RuleMatch       RuleKind = "match"
	RuleUnique      RuleKind = "unique"
	RuleSpecific    RuleKind = "specific"
	RuleOneSpecific RuleKind = "one_specific"
	RuleAnyValid    RuleKind = "any_valid"
)

type Prompt struct {
	ID               string
	Image            string
	Text             string
	Subtype          Subtype
	Rule             RuleKind
	ConditionA       int
	ConditionB       int
	Answers          []*Answer
	RepeatOnMismatch bool
	SkipAfter        time.Duration
}

// IndexOf returns the position of answer in the prompt, or -1.
func (p *Prompt) IndexOf(answer *Answer) int {
	for i, candidate := range p.Answers {
		if candidate == answer {
			return i
		}
	}
	return -1
}

func (p *Prompt) AnswerAt(index int) (*Answer, bool) {
	if index < 0 || index >= len(p.Answers) {
		return nil, false
	}
	return p.Answers[index], true
}

// IndexForNumber maps keypad input to the answer whose text is that number.
// It returns -1 when no answer matches, which callers send as "no answer".
func (p *Prompt) IndexForNumber(n int) int {
	for i, answer := range p.Answers {
		value, err := strconv.Atoi(strings.TrimSpace(answer.Text))
		if err == nil && value == n {
			return i
		}
	}
	return -1
}

// RequiredSelections is the selection count at which a half is complete.
func (p *Prompt) RequiredSelections() int {
	if p.Subtype == SubtypeOrderedSequence {
		return len(p.Answers)
	}
	return 1
}

func (p *Prompt) Title() string {
	if p.Text != "" {
		return p.Text
	}
	if p.Image != "" {
		return p.Image
	}
	return p.ID
}

func (p *Prompt) Validate() error {
	if !p.Subtype.Valid() {
		return fmt.Errorf("prompt %q: %w: %q", p.Title(), ErrUnknownSubtype, p.Subtype)
	}
	if len(p.Answers) == 0 {
		return fmt.Errorf("prompt %q: %w", p.Title(), ErrNoAnswers)
	}
	if _, err := comparerFor(p.Subtype); err != nil {
		return fmt.Errorf("prompt %q: %w", p.Title(), err)
	}

	switch p.Rule {
	case RuleMatch, RuleUnique, RuleAnyValid:
		return nil
	case RuleSpecific:
		if err := p.validateCondition(p.ConditionB); err != nil {
			return fmt.Errorf("prompt %q condition_b: %w", p.Title(), err)
		}
		fallthrough
	case RuleOneSpecific:
		if err := p.validateCondition(p.ConditionA); err != nil {
			return fmt.Errorf("prompt %q condition_a: %w", p.Title(), err)
		}
		return nil
	default:
		return fmt.Errorf("prompt %q: %w: %q", p.Title(), ErrUnknownRule, p.Rule)
	}
}

func (p *Prompt) validateCondition(condition int) error {
	if p.Subtype != SubtypeOrderedSequence {
		if condition < 0 || condition >= len(p.Answers) {
			return fmt.Errorf("%w: %d not in [0,%d)", ErrConditionOutOfRange, condition, len(p.Answers))
		}
		return nil
	}

	if len(p.Answers) > maxPermutationLength {
		return fmt.Errorf("%w: prompt has %d answers", ErrPermutationTooLong, len(p.Answers))
	}
	positions, err := DecodePermutation(condition)
	if err != nil {
		return err
	}
	// A half completes with every answer selected once, so only a full
	// permutation of the answers can ever match.
	if len(positions) != len(p.Answers) {
		return fmt.Errorf("%w: permutation %d has %d positions, prompt has %d answers", ErrMalformedPermutation, condition, len(positions), len(p.Answers))
	}
	seen := make([]bool, len(p.Answers))
	for _, position := range positions {
		if position >= len(p.Answers) {
			return fmt.Errorf("%w: permutation %d names position %d of %d", ErrConditionOutOfRange, condition, position+1, len(p.Answers))
		}
		if seen[position] {
			return fmt.Errorf("%w: permutation %d repeats position %d", ErrMalformedPermutation, condition, position+1)
		}
		seen[position] = true
	}
	return nil
}
