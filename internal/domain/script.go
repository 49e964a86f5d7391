package domain

import (
	"errors"
	"fmt"
	"time"
)

type ItemKind string

const (
	ItemKindPrompt  ItemKind = "prompt"
	ItemKindSummary ItemKind = "summary"
	ItemKindDisplay ItemKind = "display"
)

type SummaryMode string

const (
	SummaryModePrevious SummaryMode = "previous"
	SummaryModeAllPast  SummaryMode = "all_past"
)

type SummaryItem struct {
	Mode      SummaryMode
	SkipAfter time.Duration
}

type AggregateKind string

const (
	AggregateNone         AggregateKind = ""
	AggregateMostSelected AggregateKind = "most_selected"
)

type DisplayItem struct {
	Text      string
	Aggregate AggregateKind
	// Descriptions replace the raw aggregate key with authored text; the first
	// description whose Key matches wins.
	Descriptions []*Answer
	SkipAfter    time.Duration
}

// Hooks are per-bundle side effects fired after a prompt outcome is decided.
type Hooks struct {
	OnCorrect   func()
	OnIncorrect func()
}

// Bundle is one scheduled unit of a script. Its pointer is the identity under
// which outcomes are stored in the ledger.
type Bundle struct {
	ID      string
	Kind    ItemKind
	Prompt  *Prompt
	Summary *SummaryItem
	Display *DisplayItem
	Hooks   Hooks
}

func (b *Bundle) SkipAfter() time.Duration {
	switch {
	case b == nil:
		return 0
	case b.Kind == ItemKindPrompt && b.Prompt != nil:
		return b.Prompt.SkipAfter
	case b.Kind == ItemKindSummary && b.Summary != nil:
		return b.Summary.SkipAfter
	case b.Kind == ItemKindDisplay && b.Display != nil:
		return b.Display.SkipAfter
	default:
		return 0
	}
}

func (b *Bundle) Label() string {
	if b == nil {
		return ""
	}
	if b.ID != "" {
		return b.ID
	}
	if b.Kind == ItemKindPrompt && b.Prompt != nil {
		return b.Prompt.Title()
	}
	return string(b.Kind)
}

func (b *Bundle) Validate() error {
	if b == nil {
		return ErrUndefinedBundle
	}

	switch b.Kind {
	case ItemKindPrompt:
		if b.Prompt == nil {
			return fmt.Errorf("item %q: %w", b.Label(), ErrUndefinedBundle)
		}
		return b.Prompt.Validate()
	case ItemKindSummary:
		if b.Summary == nil {
			return fmt.Errorf("item %q: %w", b.Label(), ErrUndefinedBundle)
		}
		if b.Summary.Mode != SummaryModePrevious && b.Summary.Mode != SummaryModeAllPast {
			return fmt.Errorf("item %q: unsupported summary mode %q", b.Label(), b.Summary.Mode)
		}
		return nil
	case ItemKindDisplay:
		if b.Display == nil {
			return fmt.Errorf("item %q: %w", b.Label(), ErrUndefinedBundle)
		}
		if b.Display.Aggregate != AggregateNone && b.Display.Aggregate != AggregateMostSelected {
			return fmt.Errorf("item %q: unsupported aggregate %q", b.Label(), b.Display.Aggregate)
		}
		return nil
	default:
		return fmt.Errorf("item %q: %w: %q", b.Label(), ErrUnknownItemKind, b.Kind)
	}
}

// Script is the ordered, fixed sequence of bundles a session walks through.
type Script struct {
	Name             string
	Bundles          []*Bundle
	ClearLedgerAtEnd bool
}

func (s *Script) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Bundles)
}

func (s *Script) At(index int) (*Bundle, bool) {
	if s == nil || index < 0 || index >= len(s.Bundles) {
		return nil, false
	}
	return s.Bundles[index], true
}

// Validate reports every configuration error in the script.
func (s *Script) Validate() error {
	if s.Len() == 0 {
		return ErrEmptyScript
	}

	var errs []error
	for i, bundle := range s.Bundles {
		if err := bundle.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("item %d: %w", i, err))
		}
	}
	return errors.Join(errs...)
}
