package quiz

import "math"

// Mix is the split between question types requested from (or found in) a quiz.
type Mix struct {
	MCQ         int
	ShortAnswer int
}

func (m Mix) Total() int {
	return m.MCQ + m.ShortAnswer
}

// SplitMix computes how many MCQ and short-answer questions make up numQuestions.
// num_mcq = round(numQuestions * mcqPercent / 100), the rest are short answer.
// Inputs outside their valid ranges are clamped.
func SplitMix(numQuestions, mcqPercent int) Mix {
	if numQuestions < 0 {
		numQuestions = 0
	}
	if mcqPercent < 0 {
		mcqPercent = 0
	}
	if mcqPercent > 100 {
		mcqPercent = 100
	}

	mcq := int(math.Round(float64(numQuestions) * float64(mcqPercent) / 100))
	return Mix{
		MCQ:         mcq,
		ShortAnswer: numQuestions - mcq,
	}
}
