package domain

import "time"

// HistorySeparator joins the answers of one half in a saved entry.
const HistorySeparator = ";"

// History is the persisted digest of a finished session. WasRight records which
// half the local viewer played and only affects display.
type History struct {
	SavedAt  time.Time
	WasRight bool
	Entries  []HistoryEntry
}

type HistoryEntry struct {
	PromptText   string
	LeftAnswers  string
	RightAnswers string
}

func NewHistory(outcomes []Outcome, wasRight bool) History {
	entries := make([]HistoryEntry, 0, len(outcomes))
	for _, outcome := range outcomes {
		entry := HistoryEntry{
			LeftAnswers:  outcome.Info(HalfLeft, HistorySeparator),
			RightAnswers: outcome.Info(HalfRight, HistorySeparator),
		}
		if outcome.Prompt != nil {
			entry.PromptText = outcome.Prompt.Text
		}
		entries = append(entries, entry)
	}
	return History{WasRight: wasRight, Entries: entries}
}

// ViewerHalf is the half the local viewer played.
func (h History) ViewerHalf() Half {
	if h.WasRight {
		return HalfRight
	}
	return HalfLeft
}

// ViewerAnswers returns the answers the local viewer gave for entry.
func (h History) ViewerAnswers(entry HistoryEntry) string {
	return entry.Answers(h.ViewerHalf())
}

// PartnerAnswers returns the answers of the other half for entry.
func (h History) PartnerAnswers(entry HistoryEntry) string {
	return entry.Answers(h.ViewerHalf().Other())
}

func (e HistoryEntry) Answers(half Half) string {
	if half == HalfRight {
		return e.RightAnswers
	}
	return e.LeftAnswers
}
