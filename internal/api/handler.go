// internal/api/handler.go
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/studymate-ai/backend/internal/domain/quiz"
	"github.com/studymate-ai/backend/internal/llm"
	"github.com/studymate-ai/backend/internal/service"
	"github.com/studymate-ai/backend/internal/store"
)

// maxBodyBytes caps request bodies; a graded quiz with answers is well under it.
const maxBodyBytes = 1 << 20

// QuizGenerator produces a validated quiz from request parameters.
type QuizGenerator interface {
	Generate(ctx context.Context, p service.GenerateParams) (quiz.Quiz, error)
}

// QuizGrader grades submitted answers against a quiz.
type QuizGrader interface {
	Grade(ctx context.Context, qz quiz.Quiz, answers quiz.AnswerSet) quiz.GradingReport
}

// PassageStore indexes book passages and serves them back as context.
type PassageStore interface {
	AddPassages(ctx context.Context, book string, passages []string) (int, error)
	Search(ctx context.Context, book, query string, k int) ([]string, error)
	ContextFor(ctx context.Context, book, query string, k int) (string, error)
}

// Handler holds all dependencies needed by HTTP handlers.
// Instead of relying on package-level globals, every handler method
// receives its dependencies through this struct.
type Handler struct {
	generator QuizGenerator
	grader    QuizGrader
	store     PassageStore
	validate  *validator.Validate
	logger    *slog.Logger
}

// NewHandler creates a Handler with the given dependencies.
func NewHandler(gen QuizGenerator, gr QuizGrader, s PassageStore, logger *slog.Logger) *Handler {
	return &Handler{
		generator: gen,
		grader:    gr,
		store:     s,
		validate:  newValidator(),
		logger:    logger,
	}
}

// newValidator reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Status  string `json:"status" example:"error"`
	Message string `json:"message" example:"num_questions must be at least 0"`
}

// respondJSON writes a JSON response with the given status code.
func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{Status: "error", Message: message})
}

// decodeAndValidate reads a JSON body into dst and runs its validate tags.
// Returns false after writing a 400 response.
func (h *Handler) decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		respondError(w, http.StatusBadRequest, validationMessage(err))
		return false
	}
	return true
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := fe.Field()
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, field+" is required")
		case "min":
			msgs = append(msgs, fmt.Sprintf("%s must be at least %s", field, fe.Param()))
		case "max":
			msgs = append(msgs, fmt.Sprintf("%s must be at most %s", field, fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %s validation", field, fe.Tag()))
		}
	}
	return strings.Join(msgs, "; ")
}

// handleServiceError maps generation, model and store failures to a status
// code. Returns true if an error was handled (caller should return).
func (h *Handler) handleServiceError(w http.ResponseWriter, err error, op string) bool {
	if err == nil {
		return false
	}

	var (
		paramErr    *service.ParamError
		modelErr    *service.ModelResponseError
		configErr   *llm.ConfigurationError
		timeoutErr  *llm.TimeoutError
		upstreamErr *llm.UpstreamError
		transErr    *llm.TransportError
	)
	switch {
	case errors.As(err, &paramErr):
		respondError(w, http.StatusBadRequest, paramErr.Error())
	case errors.Is(err, store.ErrNotFound):
		respondError(w, http.StatusBadRequest, "book not found")
	case errors.As(err, &configErr):
		h.logger.Error(op+" failed", "error", err)
		respondError(w, http.StatusServiceUnavailable, "quiz service is not configured")
	case errors.As(err, &timeoutErr):
		h.logger.Warn(op+" failed", "error", err)
		respondError(w, http.StatusGatewayTimeout, "the model did not answer in time")
	case errors.As(err, &modelErr):
		h.logger.Warn(op+" failed", "error", err, "raw_len", len(modelErr.Raw))
		respondError(w, http.StatusBadGateway, "the model returned an invalid quiz")
	case errors.As(err, &upstreamErr):
		h.logger.Warn(op+" failed", "error", err, "upstream_status", upstreamErr.StatusCode)
		respondError(w, http.StatusBadGateway, fmt.Sprintf("model provider returned status %d", upstreamErr.StatusCode))
	case errors.As(err, &transErr):
		h.logger.Warn(op+" failed", "error", err)
		respondError(w, http.StatusBadGateway, "model provider unreachable")
	default:
		h.logger.Error(op+" failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal error")
	}
	return true
}
