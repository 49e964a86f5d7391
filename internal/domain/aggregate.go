package domain

import "sort"

// AnswerTally is one group of the most-selected aggregate.
type AnswerTally struct {
	Key    string
	Count  int
	Sample *Answer
}

// MostSelected pools the answers of both halves across outcomes, groups them
// by Answer.Key and returns the largest group. Ties go to the smallest key.
func MostSelected(outcomes []Outcome) (AnswerTally, bool) {
	tallies := TallyAnswers(outcomes)
	if len(tallies) == 0 {
		return AnswerTally{}, false
	}
	return tallies[0], true
}

// TallyAnswers returns every group ordered by descending count, then key.
func TallyAnswers(outcomes []Outcome) []AnswerTally {
	byKey := map[string]*AnswerTally{}
	for _, outcome := range outcomes {
		for _, answers := range [][]*Answer{outcome.Left, outcome.Right} {
			for _, answer := range answers {
				if answer == nil {
					continue
				}
				key := answer.Key()
				tally, ok := byKey[key]
				if !ok {
					tally = &AnswerTally{Key: key, Sample: answer}
					byKey[key] = tally
				}
				tally.Count++
			}
		}
	}

	tallies := make([]AnswerTally, 0, len(byKey))
	for _, tally := range byKey {
		tallies = append(tallies, *tally)
	}
	sort.Slice(tallies, func(i, j int) bool {
		if tallies[i].Count == tallies[j].Count {
			return tallies[i].Key < tallies[j].Key
		}
		return tallies[i].Count > tallies[j].Count
	})
	return tallies
}

// Describe returns the text for a tally: the first description sharing its key,
// or the sample answer's label.
func (d *DisplayItem) Describe(tally AnswerTally) *Answer {
	if d != nil {
		for _, description := range d.Descriptions {
			if description != nil && description.Key() == tally.Key {
				return description
			}
		}
	}
	return tally.Sample
}
