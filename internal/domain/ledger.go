package domain

type ledgerEntry struct {
	key     *Bundle
	outcome Outcome
}

// SummaryLedger stores the outcome of each bundle. Adding under an existing key
// replaces the stored outcome in place.
type SummaryLedger struct {
	entries []ledgerEntry
}

func NewSummaryLedger() *SummaryLedger {
	return &SummaryLedger{}
}

func (l *SummaryLedger) Add(key *Bundle, outcome Outcome) {
	for i := range l.entries {
		if l.entries[i].key == key {
			l.entries[i].outcome = outcome
			return
		}
	}
	l.entries = append(l.entries, ledgerEntry{key: key, outcome: outcome})
}

func (l *SummaryLedger) Remove(key *Bundle) bool {
	for i := range l.entries {
		if l.entries[i].key == key {
			l.entries = append(l.entries[:i], l.entries[i+1:]...)
			return true
		}
	}
	return false
}

func (l *SummaryLedger) Get(key *Bundle) (Outcome, bool) {
	for _, entry := range l.entries {
		if entry.key == key {
			return entry.outcome, true
		}
	}
	return Outcome{}, false
}

// GetAll returns a copy of every stored outcome.
func (l *SummaryLedger) GetAll() []Outcome {
	outcomes := make([]Outcome, 0, len(l.entries))
	for _, entry := range l.entries {
		outcomes = append(outcomes, entry.outcome)
	}
	return outcomes
}

func (l *SummaryLedger) Len() int {
	return len(l.entries)
}

func (l *SummaryLedger) ClearAll() {
	l.entries = nil
}
