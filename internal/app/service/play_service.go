package service

import (
	"context"
	"fmt"
	"sync"

	"sqldrill/internal/app/runner"
	"sqldrill/internal/common"
	"sqldrill/internal/domain/catalog"
	"sqldrill/internal/domain/model"
	"sqldrill/internal/domain/play"
	"sqldrill/internal/platform/metrics"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// PlayService owns the in-memory registry of active play sessions. Sessions
// are keyed by id, scoped to the user that started them, and discarded on End.
type PlayService struct {
	setService *ProblemSetService
	catalog    *catalog.Catalog
	run        runner.Runner
	rowCap     int

	mu       sync.RWMutex
	sessions map[string]*play.Session
}

func NewPlayService(setService *ProblemSetService, cat *catalog.Catalog, run runner.Runner, rowCap int) *PlayService {
	return &PlayService{
		setService: setService,
		catalog:    cat,
		run:        run,
		rowCap:     rowCap,
		sessions:   make(map[string]*play.Session),
	}
}

// StartPlayRequest starts a session either from one of the user's stored sets
// (by id) or from a share-link payload carrying the whole set definition.
type StartPlayRequest struct {
	ProblemSetID string            `json:"problem_set_id,omitempty"`
	ProblemSet   *model.ProblemSet `json:"problem_set,omitempty"`
}

func (s *PlayService) Start(ctx context.Context, userID string, req StartPlayRequest) (play.State, error) {
	var set model.ProblemSet
	isShared := false

	switch {
	case req.ProblemSetID != "":
		found, err := s.setService.Get(ctx, userID, req.ProblemSetID)
		if err != nil {
			return play.State{}, err
		}
		set = *found
	case req.ProblemSet != nil:
		set = *req.ProblemSet
		stored, err := s.setService.IsStored(ctx, userID, set.ID)
		if err != nil {
			return play.State{}, err
		}
		isShared = !stored
	default:
		return play.State{}, fmt.Errorf("problem_set_id or problem_set is required: %w", common.ErrBadRequest)
	}

	session, err := play.NewSession(set, s.catalog, play.Options{
		Runner:        s.run,
		DisplayRowCap: s.rowCap,
		IsShared:      isShared,
		OnAllRight: func() {
			metrics.SetsCompletedTotal.Inc()
			logrus.WithFields(logrus.Fields{"user_id": userID, "set_id": set.ID}).
				Info("Problem set completed")
		},
	})
	if err != nil {
		// An unresolved problem id aborts session start entirely.
		return play.State{}, fmt.Errorf("%v: %w", err, common.ErrBadRequest)
	}
	session.ID = uuid.NewString()
	session.OwnerID = userID

	s.mu.Lock()
	s.sessions[session.ID] = session
	s.mu.Unlock()

	metrics.PlaySessionsTotal.Inc()
	logrus.WithFields(logrus.Fields{"session_id": session.ID, "set_id": set.ID, "user_id": userID}).
		Info("Play session started")
	return session.State(), nil
}

func (s *PlayService) session(sessionID, userID string) (*play.Session, error) {
	s.mu.RLock()
	session, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if !ok || session.OwnerID != userID {
		return nil, common.ErrNotFound
	}
	return session, nil
}

func (s *PlayService) State(sessionID, userID string) (play.State, error) {
	session, err := s.session(sessionID, userID)
	if err != nil {
		return play.State{}, err
	}
	return session.State(), nil
}

// SubmitAttempt evaluates one attempt. Execution failures surface as the
// problem's error status inside the returned problem, not as an error.
func (s *PlayService) SubmitAttempt(ctx context.Context, sessionID, userID, problemID, sql string) (play.PlayableProblem, error) {
	session, err := s.session(sessionID, userID)
	if err != nil {
		return play.PlayableProblem{}, err
	}

	problem, err := session.SubmitAttempt(ctx, problemID, sql)
	if err != nil {
		return play.PlayableProblem{}, fmt.Errorf("%v: %w", err, common.ErrBadRequest)
	}

	metrics.AttemptsTotal.WithLabelValues(string(problem.Status)).Inc()
	logrus.WithFields(logrus.Fields{
		"session_id": sessionID,
		"problem_id": problemID,
		"verdict":    problem.Status,
	}).Debug("Attempt evaluated")
	return problem, nil
}

func (s *PlayService) Select(sessionID, userID, problemID string) (play.State, error) {
	session, err := s.session(sessionID, userID)
	if err != nil {
		return play.State{}, err
	}
	session.Select(problemID)
	return session.State(), nil
}

func (s *PlayService) Next(sessionID, userID string) (play.State, error) {
	session, err := s.session(sessionID, userID)
	if err != nil {
		return play.State{}, err
	}
	session.Next()
	return session.State(), nil
}

func (s *PlayService) Prev(sessionID, userID string) (play.State, error) {
	session, err := s.session(sessionID, userID)
	if err != nil {
		return play.State{}, err
	}
	session.Prev()
	return session.State(), nil
}

func (s *PlayService) Reset(sessionID, userID string) (play.State, error) {
	session, err := s.session(sessionID, userID)
	if err != nil {
		return play.State{}, err
	}
	session.Reset()
	return session.State(), nil
}

// End discards the session. Ending an unknown session is a no-op.
func (s *PlayService) End(sessionID, userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if session, ok := s.sessions[sessionID]; ok && session.OwnerID == userID {
		delete(s.sessions, sessionID)
	}
}
