package toml

import (
	"fmt"
	"time"

	"github.com/bnema/questionnaire/internal/domain"
)

const currentSchemaVersion = 1

type scriptSchema struct {
	Version          int          `toml:"version"`
	Name             string       `toml:"name"`
	ClearLedgerAtEnd bool         `toml:"clear_ledger_at_end"`
	Items            []itemSchema `toml:"items"`
}

type itemSchema struct {
	ID        string `toml:"id"`
	Kind      string `toml:"kind"`
	SkipAfter string `toml:"skip_after"`

	// prompt
	Text             string         `toml:"text"`
	Image            string         `toml:"image"`
	Subtype          string         `toml:"subtype"`
	Rule             string         `toml:"rule"`
	ConditionA       int            `toml:"condition_a"`
	ConditionB       int            `toml:"condition_b"`
	RepeatOnMismatch bool           `toml:"repeat_on_mismatch"`
	Answers          []answerSchema `toml:"answers"`

	// summary
	Mode string `toml:"mode"`

	// display
	Aggregate    string         `toml:"aggregate"`
	Descriptions []answerSchema `toml:"descriptions"`
}

type answerSchema struct {
	Kind  string `toml:"kind"`
	Text  string `toml:"text"`
	Image string `toml:"image"`
}

func (s *scriptSchema) applyDefaults() {
	if s.Version == 0 {
		s.Version = currentSchemaVersion
	}
}

func (s scriptSchema) validateVersion() error {
	if s.Version > currentSchemaVersion {
		return fmt.Errorf("unsupported script schema version %d (current %d)", s.Version, currentSchemaVersion)
	}

	return nil
}

func (s scriptSchema) toScript() (*domain.Script, error) {
	script := &domain.Script{
		Name:             s.Name,
		ClearLedgerAtEnd: s.ClearLedgerAtEnd,
		Bundles:          make([]*domain.Bundle, 0, len(s.Items)),
	}
	for i, item := range s.Items {
		bundle, err := item.toBundle()
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		script.Bundles = append(script.Bundles, bundle)
	}
	return script, nil
}

func (s itemSchema) toBundle() (*domain.Bundle, error) {
	skip, err := parseSkip(s.SkipAfter)
	if err != nil {
		return nil, err
	}

	bundle := &domain.Bundle{ID: s.ID, Kind: domain.ItemKind(s.Kind)}
	switch bundle.Kind {
	case domain.ItemKindPrompt:
		subtype := domain.Subtype(s.Subtype)
		if subtype == "" {
			subtype = domain.SubtypeStandard
		}
		bundle.Prompt = &domain.Prompt{
			ID:               s.ID,
			Image:            s.Image,
			Text:             s.Text,
			Subtype:          subtype,
			Rule:             domain.RuleKind(s.Rule),
			ConditionA:       s.ConditionA,
			ConditionB:       s.ConditionB,
			Answers:          toAnswers(s.Answers),
			RepeatOnMismatch: s.RepeatOnMismatch,
			SkipAfter:        skip,
		}
	case domain.ItemKindSummary:
		mode := domain.SummaryMode(s.Mode)
		if mode == "" {
			mode = domain.SummaryModePrevious
		}
		bundle.Summary = &domain.SummaryItem{Mode: mode, SkipAfter: skip}
	case domain.ItemKindDisplay:
		bundle.Display = &domain.DisplayItem{
			Text:         s.Text,
			Aggregate:    domain.AggregateKind(s.Aggregate),
			Descriptions: toAnswers(s.Descriptions),
			SkipAfter:    skip,
		}
	}
	return bundle, nil
}

func toAnswers(answers []answerSchema) []*domain.Answer {
	converted := make([]*domain.Answer, 0, len(answers))
	for _, answer := range answers {
		kind := domain.AnswerKind(answer.Kind)
		if kind == "" {
			kind = domain.AnswerKindText
			if answer.Text == "" && answer.Image != "" {
				kind = domain.AnswerKindIcon
			}
		}
		converted = append(converted, &domain.Answer{Kind: kind, Text: answer.Text, Image: answer.Image})
	}
	return converted
}

func parseSkip(raw string) (time.Duration, error) {
	if raw == "" {
		return 0, nil
	}

	skip, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("parse skip_after %q: %w", raw, err)
	}
	if skip < 0 {
		return 0, fmt.Errorf("skip_after %q is negative", raw)
	}
	return skip, nil
}
