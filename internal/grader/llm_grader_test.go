package grader_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/studymate-ai/backend/internal/grader"
	"github.com/studymate-ai/backend/internal/llm"
)

// clientFunc adapts a function to llm.Client.
type clientFunc func(ctx context.Context, req llm.Request) (string, error)

func (f clientFunc) Complete(ctx context.Context, req llm.Request) (string, error) {
	return f(ctx, req)
}

var item = grader.Item{
	QuestionID:  "q3",
	Question:    "What gas do plants absorb?",
	Reference:   "Carbon dioxide",
	Explanation: "Plants take in CO2 for photosynthesis.",
	UserAnswer:  "carbon dioxid",
}

func TestGradeShortAnswer_ParsesVerdict(t *testing.T) {
	var got llm.Request
	g := grader.NewLLMGrader(clientFunc(func(_ context.Context, req llm.Request) (string, error) {
		got = req
		return "```json\n{\"is_correct\": true, \"llm_explanation\": \"Same concept, minor typo.\"}\n```", nil
	}), grader.Options{})

	v, err := g.GradeShortAnswer(context.Background(), item)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !v.IsCorrect || v.Explanation != "Same concept, minor typo." {
		t.Errorf("unexpected verdict: %+v", v)
	}

	if got.Timeout != grader.DefaultTimeout {
		t.Errorf("expected %v timeout, got %v", grader.DefaultTimeout, got.Timeout)
	}
	if got.Temperature != 0 || got.MaxTokens != 300 {
		t.Errorf("unexpected sampling settings: %+v", got)
	}
	for _, want := range []string{item.Question, item.Reference, item.Explanation, item.UserAnswer} {
		if !strings.Contains(got.UserPrompt, want) {
			t.Errorf("expected prompt to contain %q", want)
		}
	}
	if !strings.Contains(got.SystemPrompt, "is_correct") || !strings.Contains(got.SystemPrompt, "llm_explanation") {
		t.Error("expected system prompt to spell out the output contract")
	}
}

func TestGradeShortAnswer_EmptyAnswerIsMarked(t *testing.T) {
	var prompt string
	g := grader.NewLLMGrader(clientFunc(func(_ context.Context, req llm.Request) (string, error) {
		prompt = req.UserPrompt
		return `{"is_correct": false, "llm_explanation": ""}`, nil
	}), grader.Options{})

	blank := item
	blank.UserAnswer = "  "
	v, err := g.GradeShortAnswer(context.Background(), blank)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(prompt, "(no answer)") {
		t.Errorf("expected blank answer placeholder in prompt, got %q", prompt)
	}
	if v.IsCorrect || !strings.Contains(v.Explanation, "Carbon dioxide") {
		t.Errorf("expected default explanation restating the reference, got %+v", v)
	}
}

func TestGradeShortAnswer_MalformedReply(t *testing.T) {
	g := grader.NewLLMGrader(clientFunc(func(context.Context, llm.Request) (string, error) {
		return "Looks right to me!", nil
	}), grader.Options{})

	_, err := g.GradeShortAnswer(context.Background(), item)

	var gErr *grader.GradeError
	if !errors.As(err, &gErr) {
		t.Fatalf("expected GradeError, got %v", err)
	}
	if gErr.Raw != "Looks right to me!" {
		t.Errorf("expected raw reply to be kept, got %q", gErr.Raw)
	}
}

func TestFallback(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"timeout", &grader.GradeError{Reason: "model call failed", Wrapped: &llm.TimeoutError{After: 15 * time.Second}}, "timed out"},
		{"upstream", &grader.GradeError{Reason: "model call failed", Wrapped: &llm.UpstreamError{StatusCode: 503}}, "status 503"},
		{"transport", &llm.TransportError{Err: errors.New("connection refused")}, "unreachable"},
		{"config", &llm.ConfigurationError{Reason: "API key is not set"}, "not configured"},
		{"malformed", &grader.GradeError{Reason: "invalid verdict from model", Raw: "nope", Wrapped: errors.New("x")}, "malformed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := grader.Fallback(item, tt.err)
			if v.IsCorrect {
				t.Error("expected fallback to be incorrect")
			}
			if !strings.Contains(v.Explanation, tt.want) {
				t.Errorf("expected explanation to mention %q, got %q", tt.want, v.Explanation)
			}
			if !strings.Contains(v.Explanation, item.Reference) {
				t.Errorf("expected explanation to restate the reference, got %q", v.Explanation)
			}
			if !strings.HasPrefix(v.Explanation, item.Explanation) {
				t.Errorf("expected stored explanation first, got %q", v.Explanation)
			}
		})
	}
}
