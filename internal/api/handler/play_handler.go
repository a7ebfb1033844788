package handler

import (
	"encoding/json"
	"net/http"

	"sqldrill/internal/api/middleware"
	"sqldrill/internal/app/service"
	"sqldrill/internal/common"
	"sqldrill/internal/domain/play"

	"github.com/go-chi/chi/v5"
)

// PlayHandler drives active play sessions: start, state, attempts and
// navigation.
type PlayHandler struct {
	playService *service.PlayService
}

func NewPlayHandler(playService *service.PlayService) *PlayHandler {
	return &PlayHandler{playService: playService}
}

func (h *PlayHandler) RegisterRoutes(r chi.Router) {
	r.Use(middleware.Authenticator)
	r.Post("/", h.startSession)
	r.Get("/{sessionID}", h.getSession)
	r.Delete("/{sessionID}", h.endSession)
	r.Post("/{sessionID}/attempts", h.submitAttempt)
	r.Post("/{sessionID}/select", h.selectProblem)
	r.Post("/{sessionID}/next", h.nextProblem)
	r.Post("/{sessionID}/prev", h.prevProblem)
	r.Post("/{sessionID}/reset", h.resetSession)
}

func (h *PlayHandler) startSession(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	var req service.StartPlayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	state, err := h.playService.Start(r.Context(), userID, req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, state)
}

func (h *PlayHandler) getSession(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	state, err := h.playService.State(chi.URLParam(r, "sessionID"), userID)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, state)
}

func (h *PlayHandler) endSession(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	h.playService.End(chi.URLParam(r, "sessionID"), userID)
	w.WriteHeader(http.StatusNoContent)
}

func (h *PlayHandler) submitAttempt(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	type attemptRequest struct {
		ProblemID string `json:"problem_id"`
		SQL       string `json:"sql"`
	}
	var req attemptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}
	if req.ProblemID == "" || req.SQL == "" {
		common.RespondWithError(w, http.StatusBadRequest, "problem_id and sql are required")
		return
	}

	problem, err := h.playService.SubmitAttempt(r.Context(), chi.URLParam(r, "sessionID"), userID, req.ProblemID, req.SQL)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, problem)
}

func (h *PlayHandler) selectProblem(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	type selectRequest struct {
		ProblemID string `json:"problem_id"`
	}
	var req selectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	state, err := h.playService.Select(chi.URLParam(r, "sessionID"), userID, req.ProblemID)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, state)
}

func (h *PlayHandler) nextProblem(w http.ResponseWriter, r *http.Request) {
	h.navigate(w, r, h.playService.Next)
}

func (h *PlayHandler) prevProblem(w http.ResponseWriter, r *http.Request) {
	h.navigate(w, r, h.playService.Prev)
}

func (h *PlayHandler) resetSession(w http.ResponseWriter, r *http.Request) {
	h.navigate(w, r, h.playService.Reset)
}

func (h *PlayHandler) navigate(w http.ResponseWriter, r *http.Request, op func(sessionID, userID string) (play.State, error)) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	state, err := op(chi.URLParam(r, "sessionID"), userID)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, state)
}
