package domain

type AnswerKind string

const (
	AnswerKindText AnswerKind = "text"
	AnswerKindIcon AnswerKind = "icon"
)

// Answer is compared by identity. Two answers with the same text in different
// slots are different answers.
type Answer struct {
	Kind  AnswerKind
	Text  string
	Image string
}

// Key groups answers for aggregation: the image reference when present,
// otherwise the text.
func (a *Answer) Key() string {
	if a == nil {
		return ""
	}
	if a.Image != "" {
		return a.Image
	}
	return a.Text
}

// Label is what a text-only sink shows for the answer.
func (a *Answer) Label() string {
	if a == nil {
		return ""
	}
	if a.Text != "" {
		return a.Text
	}
	return a.Image
}

func containsAnswer(answers []*Answer, target *Answer) bool {
	for _, answer := range answers {
		if answer == target {
			return true
		}
	}
	return false
}

func sameSequence(left, right []*Answer) bool {
	if len(left) != len(right) {
		return false
	}
	for i := range left {
		if left[i] != right[i] {
			return false
		}
	}
	return true
}
