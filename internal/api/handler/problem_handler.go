package handler

import (
	"net/http"

	"sqldrill/internal/common"
	"sqldrill/internal/domain/catalog"

	"github.com/go-chi/chi/v5"
)

// ProblemHandler serves the static problem catalog.
type ProblemHandler struct {
	catalog *catalog.Catalog
}

func NewProblemHandler(cat *catalog.Catalog) *ProblemHandler {
	return &ProblemHandler{catalog: cat}
}

func (h *ProblemHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.listProblems)            // GET /api/v1/problems
	r.Get("/{problemSlug}", h.getProblem) // GET /api/v1/problems/female-customers
}

// problemSummary is the listing shape: no solutions, no expected results.
type problemSummary struct {
	ID          string `json:"id"`
	Slug        string `json:"slug"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

func (h *ProblemHandler) listProblems(w http.ResponseWriter, r *http.Request) {
	problems := h.catalog.Problems()
	summaries := make([]problemSummary, len(problems))
	for i, p := range problems {
		summaries[i] = problemSummary{ID: p.ID, Slug: p.Slug, Title: p.Title, Description: p.Description}
	}

	type problemListResponse struct {
		Problems []problemSummary `json:"problems"`
		Total    int              `json:"total"`
	}
	common.RespondWithJSON(w, http.StatusOK, problemListResponse{Problems: summaries, Total: len(summaries)})
}

func (h *ProblemHandler) getProblem(w http.ResponseWriter, r *http.Request) {
	problemSlug := chi.URLParam(r, "problemSlug")

	problem, err := h.catalog.BySlug(problemSlug)
	if err != nil {
		common.RespondWithError(w, http.StatusNotFound, common.ErrNotFound.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, problem)
}
