package domain

import "fmt"

// comparer holds the subtype-specific halves of the rule engine. Match,
// Unique and AnyValid are shared by every subtype.
type comparer struct {
	specific    func(left, right []*Answer, prompt *Prompt) (bool, error)
	oneSpecific func(left []*Answer, prompt *Prompt) (bool, error)
}

var (
	standardComparer = comparer{
		specific:    membershipSpecific,
		oneSpecific: membershipOneSpecific,
	}
	orderedComparer = comparer{
		specific:    permutationSpecific,
		oneSpecific: permutationOneSpecific,
	}

	comparers = map[Subtype]comparer{
		SubtypeStandard:        standardComparer,
		SubtypeBinaryChoice:    standardComparer,
		SubtypeFreeInput:       standardComparer,
		SubtypeOrderedSequence: orderedComparer,
	}
)

func comparerFor(subtype Subtype) (comparer, error) {
	c, ok := comparers[subtype]
	if !ok {
		return comparer{}, fmt.Errorf("%w: %q", ErrUnknownSubtype, subtype)
	}
	return c, nil
}

// Check reports whether the two halves' selections are compatible under rule.
// It is pure: the result depends only on its arguments.
func Check(rule RuleKind, left, right []*Answer, prompt *Prompt) (bool, error) {
	switch rule {
	case RuleMatch:
		return sameSequence(left, right), nil
	case RuleUnique:
		return !sameSequence(left, right), nil
	case RuleAnyValid:
		return true, nil
	case RuleSpecific, RuleOneSpecific:
	default:
		return false, fmt.Errorf("check: %w: %q", ErrUnknownRule, rule)
	}

	if prompt == nil {
		return false, fmt.Errorf("check %s: %w", rule, ErrUndefinedBundle)
	}
	c, err := comparerFor(prompt.Subtype)
	if err != nil {
		return false, fmt.Errorf("check %s: %w", rule, err)
	}
	if rule == RuleSpecific {
		return c.specific(left, right, prompt)
	}
	return c.oneSpecific(left, prompt)
}

func membershipSpecific(left, right []*Answer, prompt *Prompt) (bool, error) {
	wantLeft, ok := prompt.AnswerAt(prompt.ConditionA)
	if !ok {
		return false, fmt.Errorf("specific condition_a %d: %w", prompt.ConditionA, ErrConditionOutOfRange)
	}
	wantRight, ok := prompt.AnswerAt(prompt.ConditionB)
	if !ok {
		return false, fmt.Errorf("specific condition_b %d: %w", prompt.ConditionB, ErrConditionOutOfRange)
	}
	return containsAnswer(left, wantLeft) && containsAnswer(right, wantRight), nil
}

func membershipOneSpecific(left []*Answer, prompt *Prompt) (bool, error) {
	want, ok := prompt.AnswerAt(prompt.ConditionA)
	if !ok {
		return false, fmt.Errorf("one_specific condition_a %d: %w", prompt.ConditionA, ErrConditionOutOfRange)
	}
	return containsAnswer(left, want), nil
}

func permutationSpecific(left, right []*Answer, prompt *Prompt) (bool, error) {
	leftCode, err := EncodePermutation(positionsOf(prompt, left))
	if err != nil {
		return false, fmt.Errorf("encode left selection: %w", err)
	}
	rightCode, err := EncodePermutation(positionsOf(prompt, right))
	if err != nil {
		return false, fmt.Errorf("encode right selection: %w", err)
	}
	return leftCode == prompt.ConditionA && rightCode == prompt.ConditionB, nil
}

func permutationOneSpecific(left []*Answer, prompt *Prompt) (bool, error) {
	code, err := EncodePermutation(positionsOf(prompt, left))
	if err != nil {
		return false, fmt.Errorf("encode left selection: %w", err)
	}
	return code == prompt.ConditionA, nil
}
