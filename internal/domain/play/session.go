// Package play implements the problem-set play session: a shuffled,
// session-scoped copy of a problem set with live per-problem status, attempt
// evaluation and navigation.
package play

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"sqldrill/internal/app/runner"
	"sqldrill/internal/domain/catalog"
	"sqldrill/internal/domain/model"
)

type ProblemStatus string

const (
	StatusIdle  ProblemStatus = "idle"
	StatusError ProblemStatus = "error"
	StatusRight ProblemStatus = "right"
	StatusWrong ProblemStatus = "wrong"
)

// PlayableProblem is a catalog problem joined with session-scoped attempt
// state. Message is set only for StatusError; Result and SolutionResults only
// for StatusRight and StatusWrong.
type PlayableProblem struct {
	model.Problem
	Status          ProblemStatus       `json:"status"`
	Message         string              `json:"message,omitempty"`
	Result          *model.QueryResult  `json:"result,omitempty"`
	SolutionResults []model.QueryResult `json:"solution_results,omitempty"`
}

// Options configures a session. Rand is injectable so tests can pin the
// shuffle order; when nil a time-seeded source is used.
type Options struct {
	Runner        runner.Runner
	DisplayRowCap int
	Rand          *rand.Rand
	// OnAllRight fires once per completion, after the status change that made
	// every problem right. Reset re-arms it.
	OnAllRight func()
	// IsShared marks a set that arrived via a share link rather than the
	// owner's own stored sets.
	IsShared bool
}

// Session owns one active play-through of a problem set. Attempt evaluation
// runs without the lock so a slow query never blocks navigation; results are
// applied to the problem id they were invoked for, so a stale response cannot
// cross-contaminate another problem.
type Session struct {
	ID        string
	OwnerID   string
	SetID     string
	Title     string
	IsBuildIn bool
	IsShared  bool

	run        runner.Runner
	rowCap     int
	rng        *rand.Rand
	onAllRight func()

	mu        sync.Mutex
	problems  []*PlayableProblem
	index     int
	completed bool
}

// NewSession resolves the set's problem ids against the catalog and returns a
// shuffled, all-idle session. Any unresolved id is fatal: no partial session
// is ever produced.
func NewSession(set model.ProblemSet, cat *catalog.Catalog, opts Options) (*Session, error) {
	if opts.Runner == nil {
		return nil, fmt.Errorf("play: runner is required")
	}
	if opts.DisplayRowCap <= 0 {
		opts.DisplayRowCap = 100
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	if len(set.ProblemIDs) == 0 {
		return nil, fmt.Errorf("play: problem set %q has no problems", set.ID)
	}

	problems := make([]*PlayableProblem, 0, len(set.ProblemIDs))
	for _, id := range set.ProblemIDs {
		p, err := cat.ByID(id)
		if err != nil {
			return nil, err
		}
		problems = append(problems, &PlayableProblem{Problem: *p, Status: StatusIdle})
	}

	s := &Session{
		SetID:      set.ID,
		Title:      set.Title,
		IsBuildIn:  set.IsBuildIn,
		IsShared:   opts.IsShared,
		run:        opts.Runner,
		rowCap:     opts.DisplayRowCap,
		rng:        opts.Rand,
		onAllRight: opts.OnAllRight,
		problems:   problems,
	}
	s.shuffle()
	return s, nil
}

func (s *Session) shuffle() {
	s.rng.Shuffle(len(s.problems), func(i, j int) {
		s.problems[i], s.problems[j] = s.problems[j], s.problems[i]
	})
}

// SubmitAttempt runs sql and every accepted solution of the problem inside
// one rolled-back transaction and applies the verdict. Execution failures are
// captured into the problem's error status, never returned; the only error
// case is an id that is not part of this session.
func (s *Session) SubmitAttempt(ctx context.Context, problemID, sql string) (PlayableProblem, error) {
	s.mu.Lock()
	target := s.find(problemID)
	if target == nil {
		s.mu.Unlock()
		return PlayableProblem{}, fmt.Errorf("%w: %s", catalog.ErrProblemNotFound, problemID)
	}
	solutions := target.Solutions
	s.mu.Unlock()

	scripts := make([]string, 0, len(solutions)+1)
	scripts = append(scripts, sql)
	for _, sol := range solutions {
		scripts = append(scripts, sol.SQL)
	}

	results, err := s.run.RunInRollbackTransaction(ctx, scripts...)
	if err != nil {
		return s.applyError(problemID, err.Error()), nil
	}

	full := model.QueryResult{Fields: results[0].Fields, Rows: results[0].Rows}

	solutionResults := make([]model.QueryResult, 0, len(results)-1)
	isRight := false
	for _, res := range results[1:] {
		// Verdict is computed on the untruncated attempt against the
		// untruncated, freshly executed solution result.
		if model.ResultsEqual(full, model.ExpectedResult{Fields: res.Fields, Rows: res.Rows}) {
			isRight = true
		}
		solutionResults = append(solutionResults, model.QueryResult{Fields: res.Fields, Rows: res.Rows})
	}

	status := StatusWrong
	if isRight {
		status = StatusRight
	}
	display := full.Truncate(s.rowCap)
	return s.applyVerdict(problemID, status, display, solutionResults), nil
}

func (s *Session) applyError(problemID, message string) PlayableProblem {
	s.mu.Lock()
	defer s.mu.Unlock()
	target := s.find(problemID)
	if target == nil {
		return PlayableProblem{}
	}
	target.Status = StatusError
	target.Message = message
	target.Result = nil
	target.SolutionResults = nil
	return *target
}

func (s *Session) applyVerdict(problemID string, status ProblemStatus, result model.QueryResult, solutionResults []model.QueryResult) PlayableProblem {
	s.mu.Lock()
	target := s.find(problemID)
	if target == nil {
		s.mu.Unlock()
		return PlayableProblem{}
	}
	target.Status = status
	target.Message = ""
	target.Result = &result
	target.SolutionResults = solutionResults
	snapshot := *target

	fire := false
	if !s.completed && s.allRight() {
		s.completed = true
		fire = s.onAllRight != nil
	}
	s.mu.Unlock()

	if fire {
		s.onAllRight()
	}
	return snapshot
}

func (s *Session) find(problemID string) *PlayableProblem {
	for _, p := range s.problems {
		if p.ID == problemID {
			return p
		}
	}
	return nil
}

func (s *Session) allRight() bool {
	for _, p := range s.problems {
		if p.Status != StatusRight {
			return false
		}
	}
	return true
}

// Select moves the current position to the problem with the given id. It is a
// no-op when the id is not part of the session.
func (s *Session) Select(problemID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, p := range s.problems {
		if p.ID == problemID {
			s.index = i
			return
		}
	}
}

// Next advances by one problem, clamped at the end of the set.
func (s *Session) Next() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.index+1 < len(s.problems) {
		s.index++
	}
}

// Prev moves back by one problem, clamped at the start of the set.
func (s *Session) Prev() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.index > 0 {
		s.index--
	}
}

// Reset returns every problem to idle, reshuffles the order and re-arms the
// completion hook.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.problems {
		p.Status = StatusIdle
		p.Message = ""
		p.Result = nil
		p.SolutionResults = nil
	}
	s.shuffle()
	s.index = 0
	s.completed = false
}

// State is a point-in-time snapshot of the session for rendering.
type State struct {
	ID           string            `json:"id"`
	SetID        string            `json:"set_id"`
	Title        string            `json:"title"`
	IsBuildIn    bool              `json:"isBuildIn"`
	IsShared     bool              `json:"is_shared"`
	Problems     []PlayableProblem `json:"problems"`
	CurrentIndex int               `json:"current_index"`
	ProgressRate float64           `json:"progress_rate"`
	IsFirst      bool              `json:"is_first_problem"`
	IsLast       bool              `json:"is_last_problem"`
	Completed    bool              `json:"completed"`
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	problems := make([]PlayableProblem, len(s.problems))
	for i, p := range s.problems {
		problems[i] = *p
	}
	return State{
		ID:           s.ID,
		SetID:        s.SetID,
		Title:        s.Title,
		IsBuildIn:    s.IsBuildIn,
		IsShared:     s.IsShared,
		Problems:     problems,
		CurrentIndex: s.index,
		ProgressRate: float64(s.index+1) / float64(len(s.problems)) * 100,
		IsFirst:      s.index == 0,
		IsLast:       s.index+1 >= len(s.problems),
		Completed:    s.completed,
	}
}

// Current returns the problem at the current position.
func (s *Session) Current() PlayableProblem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.problems[s.index]
}
