// internal/service/grading.go
package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/studymate-ai/backend/internal/domain/quiz"
	"github.com/studymate-ai/backend/internal/grader"
	"github.com/studymate-ai/backend/internal/id"
	"github.com/studymate-ai/backend/internal/worker"
)

// DefaultGradingWorkers caps concurrent semantic grading calls per grading run.
const DefaultGradingWorkers = 8

type GradingOptions struct {
	Workers int
}

func DefaultGradingOptions() GradingOptions {
	return GradingOptions{Workers: DefaultGradingWorkers}
}

// GradingService grades a learner's answers against a quiz.
// MCQs are compared locally; short answers fan out to the grader on a
// bounded worker pool and fan back in by question position.
type GradingService struct {
	grader  grader.Grader
	workers int
	logger  *slog.Logger
}

// NewGradingService creates a GradingService.
func NewGradingService(g grader.Grader, opts GradingOptions, logger *slog.Logger) *GradingService {
	workers := opts.Workers
	if workers < 1 {
		workers = DefaultGradingWorkers
	}
	return &GradingService{
		grader:  g,
		workers: workers,
		logger:  orDiscard(logger),
	}
}

// shortAnswerOutcome is either a model verdict or a fallback; Fallback holds
// the reason when the model verdict could not be obtained.
type shortAnswerOutcome struct {
	Result   quiz.GradingResult
	Fallback error
}

// Grade always returns a complete report with one result per question, in
// quiz order. A failed semantic grading call degrades only its own question.
//
// Grading runs to completion even if ctx is cancelled: each call is bounded
// by its own timeout instead.
func (gs *GradingService) Grade(ctx context.Context, qz quiz.Quiz, answers quiz.AnswerSet) quiz.GradingReport {
	ctx = context.WithoutCancel(ctx)
	opID := id.NewOperationID()
	logger := gs.logger.With("op_id", id.Short(opID))
	start := time.Now()

	results := make([]quiz.GradingResult, len(qz.Questions))
	var pending []int // positions of short-answer questions

	for i, q := range qz.Questions {
		if q.IsMCQ() {
			results[i] = gradeMCQ(q, answers.Get(q.ID))
			continue
		}
		pending = append(pending, i)
	}

	outcomes := worker.Map(gs.workers, pending, func(_ int, pos int) shortAnswerOutcome {
		q := qz.Questions[pos]
		return gs.gradeShortAnswer(ctx, logger, q, answers.Get(q.ID))
	})

	fallbacks := 0
	for k, pos := range pending {
		results[pos] = outcomes[k].Result
		if outcomes[k].Fallback != nil {
			fallbacks++
		}
	}

	score, percent := Aggregate(results)

	logger.Info("quiz graded",
		"questions", len(results),
		"short_answer", len(pending),
		"fallbacks", fallbacks,
		"score", score,
		"duration", time.Since(start),
	)

	return quiz.GradingReport{
		Status:  quiz.ReportStatusSuccess,
		Score:   score,
		Percent: percent,
		Results: results,
	}
}

// gradeMCQ is a trimmed, case-insensitive exact match.
func gradeMCQ(q quiz.Question, answer string) quiz.GradingResult {
	return quiz.GradingResult{
		ID:            q.ID,
		IsCorrect:     strings.EqualFold(strings.TrimSpace(answer), strings.TrimSpace(q.CorrectAnswer)),
		UserAnswer:    answer,
		CorrectAnswer: q.CorrectAnswer,
		Explanation:   q.Explanation,
	}
}

// gradeShortAnswer never returns an error: any failure, including a panic in
// the grader, becomes a fallback result for this question only.
func (gs *GradingService) gradeShortAnswer(ctx context.Context, logger *slog.Logger, q quiz.Question, answer string) (out shortAnswerOutcome) {
	item := grader.Item{
		QuestionID:  q.ID,
		Question:    q.Question,
		Reference:   q.CorrectAnswer,
		Explanation: q.Explanation,
		UserAnswer:  answer,
	}

	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("grader panic: %v", r)
			logger.Error("grading panic", "question_id", q.ID, "error", err)
			out = fallbackOutcome(item, err)
		}
	}()

	verdict, err := gs.grader.GradeShortAnswer(ctx, item)
	if err != nil {
		logger.Warn("grading error, using fallback",
			"question_id", q.ID,
			"error", err,
		)
		return fallbackOutcome(item, err)
	}

	return shortAnswerOutcome{
		Result: quiz.GradingResult{
			ID:            q.ID,
			IsCorrect:     verdict.IsCorrect,
			UserAnswer:    answer,
			CorrectAnswer: q.CorrectAnswer,
			Explanation:   verdict.Explanation,
		},
	}
}

func fallbackOutcome(item grader.Item, err error) shortAnswerOutcome {
	verdict := grader.Fallback(item, err)
	return shortAnswerOutcome{
		Result: quiz.GradingResult{
			ID:            item.QuestionID,
			IsCorrect:     false,
			UserAnswer:    item.UserAnswer,
			CorrectAnswer: item.Reference,
			Explanation:   verdict.Explanation,
		},
		Fallback: err,
	}
}

func orDiscard(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return logger
}
