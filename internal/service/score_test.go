package service_test

import (
	"testing"

	"github.com/studymate-ai/backend/internal/domain/quiz"
	"github.com/studymate-ai/backend/internal/service"
)

func results(correct, total int) []quiz.GradingResult {
	out := make([]quiz.GradingResult, total)
	for i := 0; i < correct; i++ {
		out[i].IsCorrect = true
	}
	return out
}

func TestAggregate(t *testing.T) {
	tests := []struct {
		correct, total int
		score          string
		percent        int
	}{
		{0, 0, "0/0", 0},
		{0, 3, "0/3", 0},
		{1, 3, "1/3", 33},
		{2, 3, "2/3", 67},
		{1, 8, "1/8", 13},
		{4, 5, "4/5", 80},
		{7, 7, "7/7", 100},
	}

	for _, tt := range tests {
		score, percent := service.Aggregate(results(tt.correct, tt.total))
		if score != tt.score || percent != tt.percent {
			t.Errorf("Aggregate(%d of %d) = %q, %d; want %q, %d", tt.correct, tt.total, score, percent, tt.score, tt.percent)
		}
	}
}
