package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/studymate-ai/backend/internal/domain/quiz"
	"github.com/studymate-ai/backend/internal/llm"
)

// QuizSchema is the JSON Schema a generated quiz must satisfy. The reply may
// wrap it in a {"quiz": ...} envelope.
const QuizSchema = `{
	"type": "object",
	"properties": {
		"title": {"type": "string"},
		"topic": {"type": "string"},
		"metadata": {"type": ["object", "null"]},
		"questions": {
			"type": "array",
			"items": {
				"type": "object",
				"properties": {
					"id": {"type": ["string", "integer"]},
					"type": {"type": "string"},
					"question": {"type": "string", "minLength": 1},
					"options": {"type": ["array", "null"]},
					"correct_answer": {"type": "string"},
					"explanation": {"type": "string"}
				},
				"required": ["id", "type", "question", "correct_answer", "explanation"]
			}
		}
	},
	"required": ["title", "topic", "questions"]
}`

var quizSchema = mustCompile("quiz", QuizSchema)

type wireQuiz struct {
	Title    string `json:"title"`
	Topic    string `json:"topic"`
	Metadata struct {
		Difficulty   json.RawMessage `json:"difficulty"`
		NumQuestions json.RawMessage `json:"num_questions"`
	} `json:"metadata"`
	Questions []wireQuestion `json:"questions"`
}

type wireQuestion struct {
	ID            json.RawMessage `json:"id"`
	Type          string          `json:"type"`
	Question      string          `json:"question"`
	Options       json.RawMessage `json:"options"`
	CorrectAnswer string          `json:"correct_answer"`
	Explanation   string          `json:"explanation"`
}

// ParseQuiz turns a raw model reply into a Quiz. The reply may be fenced in
// Markdown, surrounded by prose, and wrapped in a {"quiz": ...} envelope.
// Metadata is read leniently since the engine restamps it; generated_at is
// never read from the reply. Question types are matched case-insensitively and
// options are kept for MCQs only.
func ParseQuiz(raw string) (quiz.Quiz, error) {
	doc, err := objectFrom(raw)
	if err != nil {
		return quiz.Quiz{}, err
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(doc, &envelope); err != nil {
		return quiz.Quiz{}, fmt.Errorf("invalid JSON: %w", err)
	}
	if inner, ok := envelope["quiz"]; ok && len(bytes.TrimSpace(inner)) > 0 && bytes.TrimSpace(inner)[0] == '{' {
		doc = inner
	}

	if err := validate(quizSchema, doc); err != nil {
		return quiz.Quiz{}, err
	}

	var w wireQuiz
	if err := json.Unmarshal(doc, &w); err != nil {
		return quiz.Quiz{}, fmt.Errorf("decode quiz: %w", err)
	}

	q := quiz.Quiz{
		Title: strings.TrimSpace(w.Title),
		Topic: strings.TrimSpace(w.Topic),
		Metadata: quiz.Metadata{
			Difficulty:   rawString(w.Metadata.Difficulty),
			NumQuestions: rawCount(w.Metadata.NumQuestions),
		},
		Questions: make([]quiz.Question, 0, len(w.Questions)),
	}

	c := &issueCollector{}
	for i, wq := range w.Questions {
		prefix := fmt.Sprintf("questions.%d", i)
		question := quiz.Question{
			ID:            rawID(wq.ID),
			Type:          quiz.QuestionType(strings.ToLower(strings.TrimSpace(wq.Type))),
			Question:      strings.TrimSpace(wq.Question),
			CorrectAnswer: strings.TrimSpace(wq.CorrectAnswer),
			Explanation:   strings.TrimSpace(wq.Explanation),
		}
		switch question.Type {
		case quiz.QuestionTypeMCQ:
			if len(wq.Options) > 0 && string(wq.Options) != "null" {
				if err := json.Unmarshal(wq.Options, &question.Options); err != nil {
					c.add(prefix+".options", "must be an array of strings")
				}
			}
		case quiz.QuestionTypeShortAnswer:
		default:
			c.add(prefix+".type", fmt.Sprintf("%q is not one of mcq, short_answer", wq.Type))
		}
		q.Questions = append(q.Questions, question)
	}
	if err := c.result(); err != nil {
		return quiz.Quiz{}, err
	}
	return q, nil
}

// CheckContract re-validates a parsed quiz against what was requested:
// question count, type mix, the 4-option rule and MCQ answer membership.
func CheckContract(q quiz.Quiz, want quiz.Mix) []Issue {
	c := &issueCollector{}

	if len(q.Questions) != want.Total() {
		c.add("questions", fmt.Sprintf("expected %d questions, got %d", want.Total(), len(q.Questions)))
	}
	if got := q.Count(); got != want {
		c.add("questions", fmt.Sprintf("expected %d mcq and %d short_answer, got %d and %d",
			want.MCQ, want.ShortAnswer, got.MCQ, got.ShortAnswer))
	}

	seen := make(map[string]struct{}, len(q.Questions))
	for i, question := range q.Questions {
		prefix := fmt.Sprintf("questions[%d]", i)

		if question.ID == "" {
			c.add(prefix+".id", "is required")
		} else if _, dup := seen[question.ID]; dup {
			c.add(prefix+".id", fmt.Sprintf("duplicate id %q", question.ID))
		} else {
			seen[question.ID] = struct{}{}
		}

		if question.CorrectAnswer == "" {
			c.add(prefix+".correct_answer", "is required")
		}

		if !question.IsMCQ() {
			continue
		}
		if len(question.Options) != quiz.MCQOptionCount {
			c.add(prefix+".options", fmt.Sprintf("expected %d options, got %d", quiz.MCQOptionCount, len(question.Options)))
		}
		if question.CorrectAnswer != "" && !containsFold(question.Options, question.CorrectAnswer) {
			c.add(prefix+".correct_answer", fmt.Sprintf("%q is not one of the options", question.CorrectAnswer))
		}
	}

	return c.issues
}

func objectFrom(raw string) ([]byte, error) {
	obj := llm.ExtractJSON(llm.StripCodeFence(raw))
	if obj == "" {
		return nil, ErrNoJSON
	}
	return []byte(obj), nil
}

func rawID(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(string(raw))
}

// rawString returns a JSON string value, or "" for anything else.
func rawString(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return strings.TrimSpace(s)
}

// rawCount accepts a count written as a number or a numeric string.
func rawCount(raw json.RawMessage) int {
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil && n >= 0 {
		return int(n)
	}
	if n, err := strconv.Atoi(rawString(raw)); err == nil && n >= 0 {
		return n
	}
	return 0
}

func containsFold(options []string, answer string) bool {
	answer = strings.TrimSpace(answer)
	for _, o := range options {
		if strings.EqualFold(strings.TrimSpace(o), answer) {
			return true
		}
	}
	return false
}
