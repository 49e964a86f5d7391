package domain

import (
	"slices"
	"strings"
)

// Outcome is the frozen result of one completed selection phase. Result is
// computed once when the outcome is built and never re-evaluated.
type Outcome struct {
	Prompt *Prompt
	Left   []*Answer
	Right  []*Answer
	Result bool
}

func NewOutcome(prompt *Prompt, left, right []*Answer, result bool) Outcome {
	return Outcome{
		Prompt: prompt,
		Left:   slices.Clone(left),
		Right:  slices.Clone(right),
		Result: result,
	}
}

func (o Outcome) Answers(h Half) []*Answer {
	if h == HalfLeft {
		return o.Left
	}
	return o.Right
}

// Info joins the non-empty answer texts of one half with sep.
func (o Outcome) Info(h Half, sep string) string {
	parts := make([]string, 0, len(o.Answers(h)))
	for _, answer := range o.Answers(h) {
		if answer != nil && answer.Text != "" {
			parts = append(parts, answer.Text)
		}
	}
	return strings.Join(parts, sep)
}
