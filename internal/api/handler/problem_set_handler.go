package handler

import (
	"encoding/json"
	"net/http"

	"sqldrill/internal/api/middleware"
	"sqldrill/internal/app/service"
	"sqldrill/internal/common"
	"sqldrill/internal/domain/model"
	"sqldrill/internal/share"

	"github.com/go-chi/chi/v5"
)

type ProblemSetHandler struct {
	setService *service.ProblemSetService
	// shareBaseURL is the public base used when building share links.
	shareBaseURL string
}

func NewProblemSetHandler(setService *service.ProblemSetService, shareBaseURL string) *ProblemSetHandler {
	return &ProblemSetHandler{setService: setService, shareBaseURL: shareBaseURL}
}

func (h *ProblemSetHandler) RegisterRoutes(r chi.Router) {
	r.Use(middleware.Authenticator)
	r.Get("/", h.listProblemSets)
	r.Post("/", h.createProblemSet)
	r.Put("/{setID}", h.updateProblemSet)
	r.Delete("/{setID}", h.removeProblemSet)
	r.Get("/{setID}/share", h.shareProblemSet)
	r.Post("/import", h.importProblemSet)
}

func (h *ProblemSetHandler) listProblemSets(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	sets, err := h.setService.List(r.Context(), userID)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}

	type problemSetListResponse struct {
		ProblemSets []model.ProblemSet `json:"problem_sets"`
	}
	common.RespondWithJSON(w, http.StatusOK, problemSetListResponse{ProblemSets: sets})
}

func (h *ProblemSetHandler) createProblemSet(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	var req service.ProblemSetFormData
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	set, err := h.setService.Add(r.Context(), userID, req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, set)
}

func (h *ProblemSetHandler) updateProblemSet(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	var req service.ProblemSetFormData
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	if err := h.setService.Update(r.Context(), userID, chi.URLParam(r, "setID"), req); err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ProblemSetHandler) removeProblemSet(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	if err := h.setService.Remove(r.Context(), userID, chi.URLParam(r, "setID")); err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ProblemSetHandler) shareProblemSet(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	set, err := h.setService.Get(r.Context(), userID, chi.URLParam(r, "setID"))
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}

	shareURL, err := share.EncodeURL(h.shareBaseURL, *set)
	if err != nil {
		common.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	type shareResponse struct {
		URL string `json:"url"`
	}
	common.RespondWithJSON(w, http.StatusOK, shareResponse{URL: shareURL})
}

// importProblemSet accepts either a raw problem-set JSON body or a share URL
// and stores the set locally, keeping its id.
func (h *ProblemSetHandler) importProblemSet(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	type importRequest struct {
		URL        *string           `json:"url,omitempty"`
		ProblemSet *model.ProblemSet `json:"problem_set,omitempty"`
	}
	var req importRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	var set model.ProblemSet
	switch {
	case req.ProblemSet != nil:
		set = *req.ProblemSet
	case req.URL != nil:
		decoded, err := share.DecodeURL(*req.URL)
		if err != nil {
			common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
			return
		}
		set = decoded
	default:
		common.RespondWithError(w, http.StatusBadRequest, "url or problem_set is required")
		return
	}

	if err := h.setService.Import(r.Context(), userID, set); err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
