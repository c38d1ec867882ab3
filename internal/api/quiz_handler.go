package api

import (
	"net/http"
	"strings"

	"github.com/studymate-ai/backend/internal/domain/quiz"
	"github.com/studymate-ai/backend/internal/service"
	"github.com/studymate-ai/backend/internal/store"
)

// ── Request / Response types ────────────────────────────────────────────────

type GenerateQuizRequest struct {
	Prompt       string   `json:"prompt" validate:"required,max=2000" example:"Photosynthesis in plants"`
	NumQuestions *int     `json:"num_questions,omitempty" validate:"omitempty,min=0,max=50" example:"10"`
	Difficulty   string   `json:"difficulty,omitempty" validate:"omitempty,max=32" example:"Medium"`
	MCQPercent   *int     `json:"mcq_percent,omitempty" validate:"omitempty,min=0,max=100" example:"70"`
	BookName     string   `json:"book_name,omitempty" validate:"omitempty,max=255" example:"Biology 101.pdf"`
	ClassName    string   `json:"class_name,omitempty" validate:"omitempty,max=100" example:"Grade 8"`
	Subjects     []string `json:"subjects,omitempty" validate:"omitempty,max=20,dive,max=100"`
}

// params converts the request into generation params, filling defaults.
func (r *GenerateQuizRequest) params() service.GenerateParams {
	p := service.DefaultGenerateParams(strings.TrimSpace(r.Prompt))
	if r.NumQuestions != nil {
		p.NumQuestions = *r.NumQuestions
	}
	if d := strings.TrimSpace(r.Difficulty); d != "" {
		p.Difficulty = d
	}
	if r.MCQPercent != nil {
		p.MCQPercent = *r.MCQPercent
	}
	p.Audience = quiz.Audience{ClassName: strings.TrimSpace(r.ClassName), Subjects: r.Subjects}
	return p
}

type GenerateQuizResponse struct {
	Status string    `json:"status" example:"success"`
	Quiz   quiz.Quiz `json:"quiz"`
}

type GradeQuizRequest struct {
	Quiz quiz.Quiz `json:"quiz"`
	// UserAnswers is keyed "answer-{question id}".
	UserAnswers map[string]string `json:"user_answers"`
}

// ── Handlers ────────────────────────────────────────────────────────────────

// generateQuiz generates a quiz, optionally grounded in an indexed book.
// @Summary      Generate a quiz
// @Description  Generates a quiz on a topic with one model call. When book_name is set, the best matching passages of that book are used as the only source material.
// @Tags         Quizzes
// @Accept       json
// @Produce      json
// @Param        body  body      GenerateQuizRequest   true  "Quiz request"
// @Success      200   {object}  GenerateQuizResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      502   {object}  ErrorResponse  "model reply was unusable"
// @Failure      503   {object}  ErrorResponse  "model provider is not configured"
// @Failure      504   {object}  ErrorResponse  "model call timed out"
// @Router       /api/quizzes [post]
func (h *Handler) generateQuiz(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req GenerateQuizRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	p := req.params()

	if book := store.NormalizeBookName(req.BookName); book != "" {
		ragContext, err := h.store.ContextFor(ctx, book, p.Prompt, store.DefaultSearchLimit)
		if h.handleServiceError(w, err, "book lookup") {
			return
		}
		p.RAGContext = ragContext
	}

	qz, err := h.generator.Generate(ctx, p)
	if h.handleServiceError(w, err, "quiz generation") {
		return
	}

	respondJSON(w, http.StatusOK, GenerateQuizResponse{Status: "success", Quiz: qz})
}

// gradeQuiz grades a submitted quiz.
// @Summary      Grade a quiz
// @Description  Grades every question of the submitted quiz. MCQs are compared locally, short answers are judged by the model. A failed judgement only affects its own question.
// @Tags         Quizzes
// @Accept       json
// @Produce      json
// @Param        body  body      GradeQuizRequest  true  "Quiz and answers"
// @Success      200   {object}  quiz.GradingReport
// @Failure      400   {object}  ErrorResponse
// @Router       /api/quizzes/grade [post]
func (h *Handler) gradeQuiz(w http.ResponseWriter, r *http.Request) {
	var req GradeQuizRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	report := h.grader.Grade(r.Context(), req.Quiz, quiz.AnswersFromForm(req.UserAnswers))

	respondJSON(w, http.StatusOK, report)
}
