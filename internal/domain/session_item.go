package domain

import (
	"fmt"
	"slices"
)

// SelectionChange describes the effect of one mutation of a SessionItem.
type SelectionChange struct {
	Half      Half
	Index     int
	Answer    *Answer
	Selected  bool
	Completed bool
	Flipped   bool
}

// SessionItem is the runtime instance of a prompt for one half. Completion is
// derived from the selection after every mutation and cannot be set directly.
type SessionItem struct {
	prompt    *Prompt
	half      Half
	required  int
	selected  []*Answer
	completed bool
}

func NewSessionItem(prompt *Prompt, half Half) (*SessionItem, error) {
	if prompt == nil {
		return nil, ErrUndefinedBundle
	}
	if !prompt.Subtype.Valid() {
		return nil, fmt.Errorf("new session item: %w: %q", ErrUnknownSubtype, prompt.Subtype)
	}

	return &SessionItem{
		prompt:   prompt,
		half:     half,
		required: prompt.RequiredSelections(),
	}, nil
}

func (s *SessionItem) Prompt() *Prompt { return s.prompt }

func (s *SessionItem) Half() Half { return s.half }

func (s *SessionItem) Completed() bool { return s.completed }

// Selected returns the selection in insertion order.
func (s *SessionItem) Selected() []*Answer {
	return slices.Clone(s.selected)
}

func (s *SessionItem) IsSelected(answer *Answer) bool {
	return containsAnswer(s.selected, answer)
}

// Toggle adds the answer at index to the selection, or removes it when it is
// already selected.
func (s *SessionItem) Toggle(index int) (SelectionChange, error) {
	answer, ok := s.prompt.AnswerAt(index)
	if !ok {
		return SelectionChange{}, fmt.Errorf("%w: %d of %d", ErrAnswerOutOfRange, index, len(s.prompt.Answers))
	}

	if i := slices.Index(s.selected, answer); i >= 0 {
		s.selected = slices.Delete(s.selected, i, i+1)
	} else {
		s.selected = append(s.selected, answer)
	}

	flipped := s.recompute()
	return SelectionChange{
		Half:      s.half,
		Index:     index,
		Answer:    answer,
		Selected:  s.IsSelected(answer),
		Completed: s.completed,
		Flipped:   flipped,
	}, nil
}

func (s *SessionItem) recompute() bool {
	completed := len(s.selected) == s.required
	flipped := completed != s.completed
	s.completed = completed
	return flipped
}
