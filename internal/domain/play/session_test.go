package play

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"sqldrill/internal/app/runner"
	"sqldrill/internal/domain/catalog"
	"sqldrill/internal/domain/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedRunner resolves each script from a fixed table instead of a
// database. The learner's SQL and every solution SQL resolve independently,
// mirroring the real runner's one-transaction contract.
type scriptedRunner struct {
	results map[string]runner.RawResult
	err     error
}

func (r *scriptedRunner) RunInRollbackTransaction(_ context.Context, scripts ...string) ([]runner.RawResult, error) {
	if r.err != nil {
		return nil, r.err
	}
	out := make([]runner.RawResult, len(scripts))
	for i, script := range scripts {
		res, ok := r.results[script]
		if !ok {
			return nil, errors.New("unexpected script: " + script)
		}
		out[i] = res
	}
	return out, nil
}

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.New()
	require.NoError(t, err)
	return cat
}

// fixedRand pins the shuffle so navigation assertions are stable.
func fixedRand() *rand.Rand {
	return rand.New(rand.NewSource(1))
}

func singleRow(fields []string, row []string) runner.RawResult {
	return runner.RawResult{Fields: fields, Rows: [][]string{row}}
}

func newTestSession(t *testing.T, ids []string, run runner.Runner, onAllRight func()) *Session {
	t.Helper()
	s, err := NewSession(
		model.ProblemSet{ID: "set-1", Title: "Test set", ProblemIDs: ids},
		testCatalog(t),
		Options{Runner: run, Rand: fixedRand(), OnAllRight: onAllRight},
	)
	require.NoError(t, err)
	return s
}

func solutionSQL(t *testing.T, cat *catalog.Catalog, problemID string, i int) string {
	t.Helper()
	p, err := cat.ByID(problemID)
	require.NoError(t, err)
	require.Greater(t, len(p.Solutions), i)
	return p.Solutions[i].SQL
}

func TestNewSession(t *testing.T) {
	t.Run("UnresolvedProblemIDIsFatal", func(t *testing.T) {
		_, err := NewSession(
			model.ProblemSet{ID: "s", Title: "t", ProblemIDs: []string{"1", "no-such-problem"}},
			testCatalog(t),
			Options{Runner: &scriptedRunner{}},
		)
		require.Error(t, err)
		assert.ErrorIs(t, err, catalog.ErrProblemNotFound)
		assert.Contains(t, err.Error(), "no-such-problem")
	})

	t.Run("AllProblemsStartIdle", func(t *testing.T) {
		s := newTestSession(t, []string{"1", "2", "3"}, &scriptedRunner{}, nil)
		state := s.State()
		require.Len(t, state.Problems, 3)
		for _, p := range state.Problems {
			assert.Equal(t, StatusIdle, p.Status)
		}
		assert.Equal(t, 0, state.CurrentIndex)
		assert.False(t, state.Completed)
	})

	t.Run("SessionOrderIsShuffledCopy", func(t *testing.T) {
		s := newTestSession(t, []string{"1", "2", "3", "4", "5", "6", "7", "8"}, &scriptedRunner{}, nil)
		state := s.State()

		got := make([]string, len(state.Problems))
		for i, p := range state.Problems {
			got[i] = p.ID
		}
		assert.ElementsMatch(t, []string{"1", "2", "3", "4", "5", "6", "7", "8"}, got)
	})

	t.Run("EmptySetRejected", func(t *testing.T) {
		_, err := NewSession(model.ProblemSet{ID: "s", Title: "t"}, testCatalog(t), Options{Runner: &scriptedRunner{}})
		require.Error(t, err)
	})
}

func TestNavigation(t *testing.T) {
	s := newTestSession(t, []string{"1", "2", "3"}, &scriptedRunner{}, nil)

	t.Run("PrevClampsAtStart", func(t *testing.T) {
		require.Equal(t, 0, s.State().CurrentIndex)
		assert.True(t, s.State().IsFirst)
		s.Prev()
		assert.Equal(t, 0, s.State().CurrentIndex)
	})

	t.Run("NextClampsAtEnd", func(t *testing.T) {
		s.Next()
		s.Next()
		state := s.State()
		assert.Equal(t, 2, state.CurrentIndex)
		assert.True(t, state.IsLast)
		s.Next()
		assert.Equal(t, 2, s.State().CurrentIndex)
	})

	t.Run("ProgressRate", func(t *testing.T) {
		assert.InDelta(t, 100.0, s.State().ProgressRate, 0.001)
		s.Prev()
		assert.InDelta(t, float64(2)/3*100, s.State().ProgressRate, 0.001)
	})

	t.Run("SelectByID", func(t *testing.T) {
		target := s.State().Problems[1].ID
		s.Select(target)
		assert.Equal(t, 1, s.State().CurrentIndex)
	})

	t.Run("SelectUnknownIsNoop", func(t *testing.T) {
		s.Select("no-such-problem")
		assert.Equal(t, 1, s.State().CurrentIndex)
	})
}

func TestSubmitAttempt(t *testing.T) {
	ctx := context.Background()
	cat := testCatalog(t)

	right := singleRow([]string{"a", "b"}, []string{"1", "2"})

	t.Run("MatchingResultIsRight", func(t *testing.T) {
		run := &scriptedRunner{results: map[string]runner.RawResult{
			"SELECT my answer": right,
			solutionSQL(t, cat, "1", 0): right,
		}}
		s := newTestSession(t, []string{"1"}, run, nil)

		p, err := s.SubmitAttempt(ctx, "1", "SELECT my answer")
		require.NoError(t, err)
		assert.Equal(t, StatusRight, p.Status)
		require.NotNil(t, p.Result)
		assert.Equal(t, [][]string{{"1", "2"}}, p.Result.Rows)
		require.Len(t, p.SolutionResults, 1)
	})

	t.Run("MismatchedResultIsWrong", func(t *testing.T) {
		run := &scriptedRunner{results: map[string]runner.RawResult{
			"SELECT my answer": singleRow([]string{"a", "b"}, []string{"1", "3"}),
			solutionSQL(t, cat, "1", 0): right,
		}}
		s := newTestSession(t, []string{"1"}, run, nil)

		p, err := s.SubmitAttempt(ctx, "1", "SELECT my answer")
		require.NoError(t, err)
		assert.Equal(t, StatusWrong, p.Status)
	})

	t.Run("MatchingAnySolutionIsRight", func(t *testing.T) {
		// Problem 2 has two accepted solutions; match only the second.
		second := singleRow([]string{"x"}, []string{"second"})
		run := &scriptedRunner{results: map[string]runner.RawResult{
			"SELECT my answer": second,
			solutionSQL(t, cat, "2", 0): singleRow([]string{"x"}, []string{"first"}),
			solutionSQL(t, cat, "2", 1): second,
		}}
		s := newTestSession(t, []string{"2"}, run, nil)

		p, err := s.SubmitAttempt(ctx, "2", "SELECT my answer")
		require.NoError(t, err)
		assert.Equal(t, StatusRight, p.Status)
	})

	t.Run("ExecutionErrorBecomesErrorStatus", func(t *testing.T) {
		run := &scriptedRunner{err: errors.New(`relation "nope" does not exist`)}
		s := newTestSession(t, []string{"1"}, run, nil)

		p, err := s.SubmitAttempt(ctx, "1", "SELECT * FROM nope")
		require.NoError(t, err)
		assert.Equal(t, StatusError, p.Status)
		assert.Equal(t, `relation "nope" does not exist`, p.Message)
		assert.Nil(t, p.Result)
	})

	t.Run("ErrorThenRightRecovers", func(t *testing.T) {
		run := &scriptedRunner{err: errors.New("boom")}
		s := newTestSession(t, []string{"1"}, run, nil)

		_, err := s.SubmitAttempt(ctx, "1", "bad")
		require.NoError(t, err)

		run.err = nil
		run.results = map[string]runner.RawResult{
			"good": right,
			solutionSQL(t, cat, "1", 0): right,
		}
		p, err := s.SubmitAttempt(ctx, "1", "good")
		require.NoError(t, err)
		assert.Equal(t, StatusRight, p.Status)
		assert.Empty(t, p.Message)
	})

	t.Run("UnknownProblemIDIsError", func(t *testing.T) {
		s := newTestSession(t, []string{"1"}, &scriptedRunner{}, nil)
		_, err := s.SubmitAttempt(ctx, "99", "SELECT 1")
		require.Error(t, err)
		assert.ErrorIs(t, err, catalog.ErrProblemNotFound)
	})

	t.Run("StatusKeyedByProblemIDNotCurrentPointer", func(t *testing.T) {
		run := &scriptedRunner{results: map[string]runner.RawResult{
			"SELECT my answer": right,
			solutionSQL(t, cat, "1", 0): right,
		}}
		s := newTestSession(t, []string{"1", "3"}, run, nil)

		// Navigate away before the (conceptually in-flight) attempt lands.
		s.Select("3")
		_, err := s.SubmitAttempt(ctx, "1", "SELECT my answer")
		require.NoError(t, err)

		for _, p := range s.State().Problems {
			switch p.ID {
			case "1":
				assert.Equal(t, StatusRight, p.Status)
			case "3":
				assert.Equal(t, StatusIdle, p.Status)
			}
		}
	})

	t.Run("TruncatesDisplayButComparesFullResult", func(t *testing.T) {
		rows := make([][]string, 150)
		for i := range rows {
			rows[i] = []string{"v"}
		}
		big := runner.RawResult{Fields: []string{"a"}, Rows: rows}
		run := &scriptedRunner{results: map[string]runner.RawResult{
			"SELECT all the rows": big,
			solutionSQL(t, cat, "1", 0): big,
		}}
		s := newTestSession(t, []string{"1"}, run, nil)

		p, err := s.SubmitAttempt(ctx, "1", "SELECT all the rows")
		require.NoError(t, err)
		// Verdict saw all 150 rows; the displayed result keeps 100.
		assert.Equal(t, StatusRight, p.Status)
		require.NotNil(t, p.Result)
		assert.Len(t, p.Result.Rows, 100)
		assert.True(t, p.Result.IsTruncated)
		require.Len(t, p.SolutionResults, 1)
		assert.Len(t, p.SolutionResults[0].Rows, 150)
		assert.False(t, p.SolutionResults[0].IsTruncated)
	})
}

func TestCompletionHook(t *testing.T) {
	ctx := context.Background()
	cat := testCatalog(t)
	right := singleRow([]string{"a"}, []string{"1"})

	run := &scriptedRunner{results: map[string]runner.RawResult{
		"answer": right,
		solutionSQL(t, cat, "1", 0): right,
		solutionSQL(t, cat, "3", 0): right,
	}}

	fired := 0
	s := newTestSession(t, []string{"1", "3"}, run, func() { fired++ })

	_, err := s.SubmitAttempt(ctx, "1", "answer")
	require.NoError(t, err)
	assert.Equal(t, 0, fired)

	_, err = s.SubmitAttempt(ctx, "3", "answer")
	require.NoError(t, err)
	assert.Equal(t, 1, fired)
	assert.True(t, s.State().Completed)

	// Re-submitting while already complete must not fire again.
	_, err = s.SubmitAttempt(ctx, "1", "answer")
	require.NoError(t, err)
	assert.Equal(t, 1, fired)
}

func TestReset(t *testing.T) {
	ctx := context.Background()
	cat := testCatalog(t)
	right := singleRow([]string{"a"}, []string{"1"})

	run := &scriptedRunner{results: map[string]runner.RawResult{
		"answer": right,
		solutionSQL(t, cat, "1", 0): right,
		solutionSQL(t, cat, "3", 0): right,
	}}

	fired := 0
	s := newTestSession(t, []string{"1", "3"}, run, func() { fired++ })

	_, err := s.SubmitAttempt(ctx, "1", "answer")
	require.NoError(t, err)
	_, err = s.SubmitAttempt(ctx, "3", "answer")
	require.NoError(t, err)
	require.Equal(t, 1, fired)
	s.Next()

	s.Reset()

	state := s.State()
	assert.Equal(t, 0, state.CurrentIndex)
	assert.False(t, state.Completed)
	for _, p := range state.Problems {
		assert.Equal(t, StatusIdle, p.Status)
		assert.Nil(t, p.Result)
		assert.Empty(t, p.Message)
	}

	// The completion hook is re-armed: solving everything again fires again.
	_, err = s.SubmitAttempt(ctx, "1", "answer")
	require.NoError(t, err)
	_, err = s.SubmitAttempt(ctx, "3", "answer")
	require.NoError(t, err)
	assert.Equal(t, 2, fired)
}
