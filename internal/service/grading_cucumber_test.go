//go:build cucumber

package service_test

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cucumber/godog"

	"github.com/studymate-ai/backend/internal/domain/quiz"
	"github.com/studymate-ai/backend/internal/grader"
	"github.com/studymate-ai/backend/internal/llm"
	"github.com/studymate-ai/backend/internal/schema"
	"github.com/studymate-ai/backend/internal/service"
)

// TestGradingScenarios runs the grading feature scenarios.
func TestGradingScenarios(t *testing.T) {
	suite := godog.TestSuite{
		Name:                "grading",
		ScenarioInitializer: initializeGradingScenario,
		Options: &godog.Options{
			Format:    "pretty",
			Paths:     []string{filepath.Join("testdata", "grading.feature")},
			Strict:    true,
			TestingT:  t,
			Randomize: 0,
		},
	}
	if suite.Run() != 0 {
		t.Fatalf("non-zero godog status")
	}
}

func initializeGradingScenario(ctx *godog.ScenarioContext) {
	state := &gradingScenarioState{}
	ctx.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		state.reset()
		return ctx, nil
	})

	ctx.Step(`^a multiple-choice question "([^"]+)" with answer "([^"]+)"$`, state.givenMCQ)
	ctx.Step(`^a short-answer question "([^"]+)" with answer "([^"]+)"$`, state.givenShortAnswer)
	ctx.Step(`^grading "([^"]+)" times out$`, state.givenTimeout)
	ctx.Step(`^the learner answers "([^"]+)" with "([^"]*)"$`, state.whenAnswer)
	ctx.Step(`^the quiz is graded$`, state.whenGraded)
	ctx.Step(`^question "([^"]+)" is correct$`, state.thenCorrect)
	ctx.Step(`^question "([^"]+)" is incorrect with a note containing "([^"]+)"$`, state.thenIncorrectWithNote)
	ctx.Step(`^the report has (\d+) results in quiz order$`, state.thenResultsInOrder)
	ctx.Step(`^the score is "([^"]+)" at (\d+) percent$`, state.thenScore)
}

// gradingScenarioState holds scenario state for grading feature tests.
type gradingScenarioState struct {
	quiz     quiz.Quiz
	answers  quiz.AnswerSet
	timeouts map[string]bool
	report   quiz.GradingReport
}

func (s *gradingScenarioState) reset() {
	s.quiz = quiz.Quiz{}
	s.answers = quiz.AnswerSet{}
	s.timeouts = map[string]bool{}
	s.report = quiz.GradingReport{}
}

func (s *gradingScenarioState) givenMCQ(id, answer string) error {
	s.quiz.Questions = append(s.quiz.Questions, mcq(id, answer))
	return nil
}

func (s *gradingScenarioState) givenShortAnswer(id, answer string) error {
	s.quiz.Questions = append(s.quiz.Questions, shortAnswer(id, answer))
	return nil
}

func (s *gradingScenarioState) givenTimeout(id string) error {
	s.timeouts[id] = true
	return nil
}

func (s *gradingScenarioState) whenAnswer(id, answer string) error {
	s.answers[id] = answer
	return nil
}

func (s *gradingScenarioState) whenGraded() error {
	g := graderFunc(func(ctx context.Context, item grader.Item) (schema.Verdict, error) {
		if s.timeouts[item.QuestionID] {
			return schema.Verdict{}, &grader.GradeError{Reason: "model call failed", Wrapped: &llm.TimeoutError{After: grader.DefaultTimeout}}
		}
		return exactGrader(ctx, item)
	})
	gs := service.NewGradingService(g, service.DefaultGradingOptions(), nil)
	s.report = gs.Grade(context.Background(), s.quiz, s.answers)
	return nil
}

func (s *gradingScenarioState) result(id string) (quiz.GradingResult, error) {
	for _, r := range s.report.Results {
		if r.ID == id {
			return r, nil
		}
	}
	return quiz.GradingResult{}, fmt.Errorf("no result for question %q", id)
}

func (s *gradingScenarioState) thenCorrect(id string) error {
	r, err := s.result(id)
	if err != nil {
		return err
	}
	if !r.IsCorrect {
		return fmt.Errorf("expected %q to be correct: %+v", id, r)
	}
	return nil
}

func (s *gradingScenarioState) thenIncorrectWithNote(id, note string) error {
	r, err := s.result(id)
	if err != nil {
		return err
	}
	if r.IsCorrect {
		return fmt.Errorf("expected %q to be incorrect", id)
	}
	if !strings.Contains(r.Explanation, note) {
		return fmt.Errorf("expected explanation of %q to contain %q, got %q", id, note, r.Explanation)
	}
	return nil
}

func (s *gradingScenarioState) thenResultsInOrder(n int) error {
	if len(s.report.Results) != n {
		return fmt.Errorf("expected %d results, got %d", n, len(s.report.Results))
	}
	for i, r := range s.report.Results {
		if r.ID != s.quiz.Questions[i].ID {
			return fmt.Errorf("results[%d] is %q, want %q", i, r.ID, s.quiz.Questions[i].ID)
		}
	}
	return nil
}

func (s *gradingScenarioState) thenScore(score string, percent int) error {
	if s.report.Score != score || s.report.Percent != percent {
		return fmt.Errorf("expected %s at %d%%, got %s at %d%%", score, percent, s.report.Score, s.report.Percent)
	}
	return nil
}
