package domain

func textAnswers(texts ...string) []*Answer {
	answers := make([]*Answer, 0, len(texts))
	for _, text := range texts {
		answers = append(answers, &Answer{Kind: AnswerKindText, Text: text})
	}
	return answers
}

func newPrompt(subtype Subtype, rule RuleKind, answers ...string) *Prompt {
	return &Prompt{
		ID:      "p",
		Text:    "Pick one",
		Subtype: subtype,
		Rule:    rule,
		Answers: textAnswers(answers...),
	}
}
