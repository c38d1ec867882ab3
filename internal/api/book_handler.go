package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/studymate-ai/backend/internal/store"
)

// maxSearchResults caps k on the search endpoint.
const maxSearchResults = 20

type AddPassagesRequest struct {
	Passages []string `json:"passages" validate:"required,min=1,max=500"`
}

type AddPassagesResponse struct {
	Book  string `json:"book" example:"Biology_101"`
	Added int    `json:"added" example:"12"`
}

type SearchResponse struct {
	Book     string   `json:"book" example:"Biology_101"`
	Passages []string `json:"passages"`
}

// addPassages indexes text passages for a book.
// @Summary      Index book passages
// @Description  Adds passages to a book's index. The book name is normalised: ".pdf" is dropped and spaces become underscores.
// @Tags         Books
// @Accept       json
// @Produce      json
// @Param        book  path      string               true  "Book name"
// @Param        body  body      AddPassagesRequest   true  "Passages"
// @Success      201   {object}  AddPassagesResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      500   {object}  ErrorResponse
// @Router       /api/books/{book}/passages [post]
func (h *Handler) addPassages(w http.ResponseWriter, r *http.Request) {
	book := store.NormalizeBookName(chi.URLParam(r, "book"))
	if book == "" {
		respondError(w, http.StatusBadRequest, "book is required")
		return
	}

	var req AddPassagesRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	added, err := h.store.AddPassages(r.Context(), book, req.Passages)
	if err != nil {
		h.logger.Error("store error", "error", err, "book", book)
		respondError(w, http.StatusInternalServerError, "failed to index passages")
		return
	}

	respondJSON(w, http.StatusCreated, AddPassagesResponse{Book: book, Added: added})
}

// searchBook returns the passages of a book that best match a query.
// @Summary      Search a book
// @Tags         Books
// @Produce      json
// @Param        book  path      string  true   "Book name"
// @Param        q     query     string  false  "Search text"
// @Param        k     query     int     false  "Number of passages (default 4)"
// @Success      200   {object}  SearchResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Router       /api/books/{book}/search [get]
func (h *Handler) searchBook(w http.ResponseWriter, r *http.Request) {
	book := store.NormalizeBookName(chi.URLParam(r, "book"))

	k := store.DefaultSearchLimit
	if raw := r.URL.Query().Get("k"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxSearchResults {
			respondError(w, http.StatusBadRequest, "k must be between 1 and "+strconv.Itoa(maxSearchResults))
			return
		}
		k = n
	}

	passages, err := h.store.Search(r.Context(), book, r.URL.Query().Get("q"), k)
	if errors.Is(err, store.ErrNotFound) {
		respondError(w, http.StatusNotFound, "book not found")
		return
	}
	if err != nil {
		h.logger.Error("store error", "error", err, "book", book)
		respondError(w, http.StatusInternalServerError, "search failed")
		return
	}
	if passages == nil {
		passages = []string{}
	}

	respondJSON(w, http.StatusOK, SearchResponse{Book: book, Passages: passages})
}
