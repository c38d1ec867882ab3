package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/studymate-ai/backend/internal/domain/quiz"
	"github.com/studymate-ai/backend/internal/id"
	"github.com/studymate-ai/backend/internal/llm"
	"github.com/studymate-ai/backend/internal/schema"
)

const (
	DefaultNumQuestions = 10
	DefaultDifficulty   = "Medium"
	DefaultMCQPercent   = 70
)

// GenerateParams are the per-request inputs of a generation call.
type GenerateParams struct {
	Prompt       string
	NumQuestions int
	Difficulty   string
	MCQPercent   int
	RAGContext   string        // optional retrieved passages, treated as untrusted text
	Audience     quiz.Audience // optional learner selections
}

// DefaultGenerateParams returns params for prompt with the default size, difficulty and mix.
func DefaultGenerateParams(prompt string) GenerateParams {
	return GenerateParams{
		Prompt:       prompt,
		NumQuestions: DefaultNumQuestions,
		Difficulty:   DefaultDifficulty,
		MCQPercent:   DefaultMCQPercent,
	}
}

// GenerationOptions tunes the generation call.
type GenerationOptions struct {
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
	// Strict rejects quizzes whose question count, type mix or MCQ options
	// differ from what was requested. When false such issues are only logged.
	Strict bool
}

func DefaultGenerationOptions() GenerationOptions {
	return GenerationOptions{
		Temperature: 0.7,
		MaxTokens:   8000,
		Timeout:     120 * time.Second,
		Strict:      true,
	}
}

// ParamError reports an invalid generation request. No model call is made.
type ParamError struct {
	Field   string
	Message string
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// ModelResponseError means the model answered, but not with a usable quiz.
// Raw holds the reply for diagnostics.
type ModelResponseError struct {
	Raw    string
	Issues []schema.Issue
	Err    error
}

func (e *ModelResponseError) Error() string {
	return fmt.Sprintf("model returned an invalid quiz: %v", e.Err)
}

func (e *ModelResponseError) Unwrap() error {
	return e.Err
}

// QuizGenerator turns a topic prompt into a validated Quiz with one model call.
type QuizGenerator struct {
	client llm.Client
	opts   GenerationOptions
	logger *slog.Logger
}

// configurable is implemented by clients that can tell whether they hold a credential.
type configurable interface {
	Configured() bool
}

// NewQuizGenerator creates a QuizGenerator.
func NewQuizGenerator(client llm.Client, opts GenerationOptions, logger *slog.Logger) *QuizGenerator {
	return &QuizGenerator{
		client: client,
		opts:   opts,
		logger: orDiscard(logger),
	}
}

// Generate builds the prompts, makes a single model call and validates the reply.
// It returns either a complete quiz or an error; never a partial quiz.
func (g *QuizGenerator) Generate(ctx context.Context, p GenerateParams) (quiz.Quiz, error) {
	if c, ok := g.client.(configurable); ok && !c.Configured() {
		return quiz.Quiz{}, &llm.ConfigurationError{Reason: "API key is not set"}
	}
	if err := validateParams(&p); err != nil {
		return quiz.Quiz{}, err
	}

	opID := id.NewOperationID()
	mix := quiz.SplitMix(p.NumQuestions, p.MCQPercent)
	logger := g.logger.With("op_id", id.Short(opID))

	logger.Info("generating quiz",
		"num_questions", p.NumQuestions,
		"mcq", mix.MCQ,
		"short_answer", mix.ShortAnswer,
		"difficulty", p.Difficulty,
		"rag", p.RAGContext != "",
	)

	start := time.Now()
	raw, err := g.client.Complete(ctx, llm.Request{
		SystemPrompt: buildGenerationSystemPrompt(p, mix),
		UserPrompt:   buildGenerationUserPrompt(p),
		Temperature:  g.opts.Temperature,
		MaxTokens:    g.opts.MaxTokens,
		Timeout:      g.opts.Timeout,
	})
	if err != nil {
		logger.Error("quiz generation call failed", "error", err, "duration", time.Since(start))
		return quiz.Quiz{}, fmt.Errorf("generate quiz: %w", err)
	}

	q, err := schema.ParseQuiz(raw)
	if err != nil {
		logger.Error("model returned an invalid quiz", "error", err, "response", raw)
		return quiz.Quiz{}, &ModelResponseError{Raw: raw, Err: err}
	}

	if issues := schema.CheckContract(q, mix); len(issues) > 0 {
		if g.opts.Strict {
			logger.Error("quiz violates the requested contract", "issues", issueStrings(issues))
			return quiz.Quiz{}, &ModelResponseError{Raw: raw, Issues: issues, Err: &schema.ValidationError{Issues: issues}}
		}
		logger.Warn("quiz differs from the requested contract", "issues", issueStrings(issues))
	}

	if q.Metadata.Difficulty == "" {
		q.Metadata.Difficulty = p.Difficulty
	}
	q.Metadata.NumQuestions = len(q.Questions)
	q.Metadata.GeneratedAt = time.Now().UTC()

	logger.Info("quiz generated",
		"title", q.Title,
		"questions", len(q.Questions),
		"duration", time.Since(start),
	)
	return q, nil
}

func validateParams(p *GenerateParams) error {
	p.Prompt = strings.TrimSpace(p.Prompt)
	if p.Prompt == "" {
		return &ParamError{Field: "prompt", Message: "is required"}
	}
	if p.NumQuestions < 0 {
		return &ParamError{Field: "num_questions", Message: "must be >= 0"}
	}
	if p.MCQPercent < 0 || p.MCQPercent > 100 {
		return &ParamError{Field: "mcq_percent", Message: "must be between 0 and 100"}
	}
	p.Difficulty = strings.TrimSpace(p.Difficulty)
	if p.Difficulty == "" {
		p.Difficulty = DefaultDifficulty
	}
	return nil
}

func issueStrings(issues []schema.Issue) []string {
	out := make([]string, len(issues))
	for i, issue := range issues {
		out[i] = issue.String()
	}
	return out
}
