package service

import (
	"fmt"
	"math"

	"github.com/studymate-ai/backend/internal/domain/quiz"
)

// Aggregate reduces per-question results to a "correct/total" score and a
// rounded percentage. An empty quiz scores "0/0" and 0%.
func Aggregate(results []quiz.GradingResult) (score string, percent int) {
	correct := 0
	for _, r := range results {
		if r.IsCorrect {
			correct++
		}
	}

	total := len(results)
	if total > 0 {
		percent = int(math.Round(100 * float64(correct) / float64(total)))
	}
	return fmt.Sprintf("%d/%d", correct, total), percent
}
