package quiz

// ReportStatusSuccess is the only status a grading report carries; grading
// degrades per question instead of failing as a whole.
const ReportStatusSuccess = "success"

// GradingResult is the outcome for one question.
type GradingResult struct {
	ID            string `json:"id"`
	IsCorrect     bool   `json:"is_correct"`
	UserAnswer    string `json:"user_answer"`
	CorrectAnswer string `json:"correct_answer"`
	Explanation   string `json:"explanation"`
}

// GradingReport is the scored outcome of one grading call.
// Results mirror the order of the graded quiz's questions.
type GradingReport struct {
	Status  string          `json:"status"`
	Score   string          `json:"score"`
	Percent int             `json:"percent"`
	Results []GradingResult `json:"results"`
}
