package quiz

import "strings"

// AnswerFieldPrefix prefixes every question id in submitted answer forms.
const AnswerFieldPrefix = "answer-"

// AnswerSet maps question id to the learner's answer text.
type AnswerSet map[string]string

// Get returns the answer for id, or "" when the learner left it blank.
func (a AnswerSet) Get(id string) string {
	if a == nil {
		return ""
	}
	return a[id]
}

// AnswersFromForm converts "answer-{id}" keyed form fields into an AnswerSet.
// Fields without the prefix are ignored.
func AnswersFromForm(fields map[string]string) AnswerSet {
	answers := make(AnswerSet, len(fields))
	for k, v := range fields {
		id, ok := strings.CutPrefix(k, AnswerFieldPrefix)
		if !ok || id == "" {
			continue
		}
		answers[id] = v
	}
	return answers
}
