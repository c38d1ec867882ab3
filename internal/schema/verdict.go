package schema

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/studymate-ai/backend/internal/llm"
)

// VerdictSchema is the strict output contract of a semantic grading call.
const VerdictSchema = `{
	"type": "object",
	"properties": {
		"is_correct": {"type": "boolean"},
		"llm_explanation": {"type": "string"}
	},
	"required": ["is_correct", "llm_explanation"]
}`

var verdictSchema = mustCompile("verdict", VerdictSchema)

// Verdict is the model's judgement of one short answer.
type Verdict struct {
	IsCorrect   bool   `json:"is_correct"`
	Explanation string `json:"llm_explanation"`
}

// ParseVerdict parses a grading reply. Code fences are stripped first; the
// remainder must be a single JSON object matching VerdictSchema.
func ParseVerdict(raw string) (Verdict, error) {
	body := llm.StripCodeFence(raw)
	if body == "" || body[0] != '{' {
		return Verdict{}, ErrNoJSON
	}

	if err := validate(verdictSchema, []byte(body)); err != nil {
		return Verdict{}, err
	}

	var v Verdict
	if err := json.Unmarshal([]byte(body), &v); err != nil {
		return Verdict{}, fmt.Errorf("decode verdict: %w", err)
	}
	v.Explanation = strings.TrimSpace(v.Explanation)
	return v, nil
}
