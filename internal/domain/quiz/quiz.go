package quiz

import (
	"strings"
	"time"
)

type QuestionType string

const (
	QuestionTypeMCQ         QuestionType = "mcq"
	QuestionTypeShortAnswer QuestionType = "short_answer"
)

// MCQOptionCount is the number of candidate options every MCQ carries.
const MCQOptionCount = 4

// Quiz is the structured quiz produced by a generation call.
// Question order is significant and is preserved through grading.
type Quiz struct {
	Title     string     `json:"title"`
	Topic     string     `json:"topic"`
	Metadata  Metadata   `json:"metadata"`
	Questions []Question `json:"questions"`
}

type Metadata struct {
	Difficulty   string    `json:"difficulty"`
	NumQuestions int       `json:"num_questions"`
	GeneratedAt  time.Time `json:"generated_at"`
}

type Question struct {
	ID            string       `json:"id"`
	Type          QuestionType `json:"type"`
	Question      string       `json:"question"`
	Options       []string     `json:"options,omitempty"` // only for mcq
	CorrectAnswer string       `json:"correct_answer"`
	Explanation   string       `json:"explanation"`
}

// IsMCQ reports whether the question is graded by local string comparison.
func (q Question) IsMCQ() bool {
	return QuestionType(strings.ToLower(string(q.Type))) == QuestionTypeMCQ
}

// Count returns how many questions of each type the quiz holds.
func (qz Quiz) Count() Mix {
	var m Mix
	for _, q := range qz.Questions {
		if q.IsMCQ() {
			m.MCQ++
		} else {
			m.ShortAnswer++
		}
	}
	return m
}

// Audience carries the learner's dashboard selections for a single request.
type Audience struct {
	ClassName string
	Subjects  []string
}

func (a Audience) IsZero() bool {
	return strings.TrimSpace(a.ClassName) == "" && len(a.Subjects) == 0
}
