package grader

import (
	"context"

	"github.com/studymate-ai/backend/internal/schema"
)

// Item is everything needed to judge one short answer.
type Item struct {
	QuestionID  string
	Question    string
	Reference   string // the quiz's canonical answer
	Explanation string // the quiz's stored explanation, used as grading context
	UserAnswer  string
}

// Grader judges a short answer by meaning rather than exact wording.
// Implementations may call an LLM, use heuristics, or return canned results (for tests).
type Grader interface {
	GradeShortAnswer(ctx context.Context, item Item) (schema.Verdict, error)
}
