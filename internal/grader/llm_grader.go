package grader

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/studymate-ai/backend/internal/llm"
	"github.com/studymate-ai/backend/internal/schema"
)

// DefaultTimeout bounds a single semantic grading call.
const DefaultTimeout = 15 * time.Second

// LLMGrader grades short answers by asking a chat model for a verdict.
type LLMGrader struct {
	client llm.Client
	opts   Options
}

// Options tunes the grading sub-call.
type Options struct {
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

// DefaultOptions returns deterministic, short, 15s-bounded grading calls.
func DefaultOptions() Options {
	return Options{
		Temperature: 0,
		MaxTokens:   300,
		Timeout:     DefaultTimeout,
	}
}

// Compile-time check: *LLMGrader satisfies the Grader interface.
var _ Grader = (*LLMGrader)(nil)

// GradeError is returned when grading fails so the caller can distinguish
// between "LLM returned a bad verdict" and "LLM was unreachable."
type GradeError struct {
	Reason  string
	Raw     string // model reply, when there was one
	Wrapped error
}

func (e *GradeError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("grading failed: %s: %v", e.Reason, e.Wrapped)
	}
	return fmt.Sprintf("grading failed: %s", e.Reason)
}

func (e *GradeError) Unwrap() error {
	return e.Wrapped
}

// NewLLMGrader creates a grader on top of the given model client.
// Zero-valued option fields fall back to DefaultOptions.
func NewLLMGrader(client llm.Client, opts Options) *LLMGrader {
	def := DefaultOptions()
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = def.MaxTokens
	}
	if opts.Timeout <= 0 {
		opts.Timeout = def.Timeout
	}
	return &LLMGrader{client: client, opts: opts}
}

// GradeShortAnswer makes one model call and parses its strict verdict.
// It never retries; the caller decides how to degrade on error.
func (g *LLMGrader) GradeShortAnswer(ctx context.Context, item Item) (schema.Verdict, error) {
	raw, err := g.client.Complete(ctx, llm.Request{
		SystemPrompt: gradingSystemPrompt,
		UserPrompt:   buildGradingPrompt(item),
		Temperature:  g.opts.Temperature,
		MaxTokens:    g.opts.MaxTokens,
		Timeout:      g.opts.Timeout,
	})
	if err != nil {
		return schema.Verdict{}, &GradeError{Reason: "model call failed", Wrapped: err}
	}

	verdict, err := schema.ParseVerdict(raw)
	if err != nil {
		return schema.Verdict{}, &GradeError{Reason: "invalid verdict from model", Raw: raw, Wrapped: err}
	}
	if verdict.Explanation == "" {
		if verdict.IsCorrect {
			verdict.Explanation = "Correct."
		} else {
			verdict.Explanation = "Incorrect. Expected: " + item.Reference
		}
	}
	return verdict, nil
}

// Fallback is the verdict recorded when semantic grading fails: the answer is
// marked incorrect, and the note names the failure and restates the reference.
func Fallback(item Item, err error) schema.Verdict {
	note := fmt.Sprintf("Automatic grading failed (%s). Reference answer: %s", failureReason(err), item.Reference)
	explanation := note
	if stored := strings.TrimSpace(item.Explanation); stored != "" {
		explanation = stored + " [" + note + "]"
	}
	return schema.Verdict{IsCorrect: false, Explanation: explanation}
}

func failureReason(err error) string {
	var (
		timeoutErr  *llm.TimeoutError
		upstreamErr *llm.UpstreamError
		transErr    *llm.TransportError
		configErr   *llm.ConfigurationError
		gradeErr    *GradeError
	)
	switch {
	case err == nil:
		return "unknown error"
	case errors.As(err, &timeoutErr):
		return "grading request timed out"
	case errors.Is(err, context.DeadlineExceeded):
		return "grading request timed out"
	case errors.As(err, &upstreamErr):
		return fmt.Sprintf("grading service returned status %d", upstreamErr.StatusCode)
	case errors.As(err, &configErr):
		return "grading service is not configured"
	case errors.As(err, &transErr):
		return "grading service unreachable"
	case errors.As(err, &gradeErr) && gradeErr.Raw != "":
		return "grader returned a malformed reply"
	default:
		return "unexpected grading error"
	}
}

// ============================================================================
// Prompts
// ============================================================================

const gradingSystemPrompt = `You are a lenient but fair grader for a student's study quiz.
Decide whether the student's answer to a short-answer question is correct.

RULES:
- The answer is CORRECT if it expresses the same core concept as the reference answer,
  even with different wording, synonyms, spelling mistakes or poor grammar.
- The answer is INCORRECT if the core concept is missing, wrong, or contradicts the reference.
- An empty answer is INCORRECT.
- Use the explanation only as context for what the question is testing.

Respond with ONLY one JSON object, no markdown, no extra text:
{"is_correct": true or false, "llm_explanation": "one or two sentences of feedback for the student"}`

func buildGradingPrompt(item Item) string {
	answer := strings.TrimSpace(item.UserAnswer)
	if answer == "" {
		answer = "(no answer)"
	}
	return fmt.Sprintf(`QUESTION:
%s

REFERENCE ANSWER:
%s

EXPLANATION:
%s

STUDENT'S ANSWER:
%s`, item.Question, item.Reference, item.Explanation, answer)
}
