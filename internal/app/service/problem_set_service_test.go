package service

import (
	"context"
	"testing"

	"sqldrill/internal/common"
	"sqldrill/internal/domain/catalog"
	"sqldrill/internal/domain/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memorySetRepo keeps each user's sets in a map, matching the repository
// contract of returning an empty slice for unknown users.
type memorySetRepo struct {
	sets map[string][]model.ProblemSet
}

func newMemorySetRepo() *memorySetRepo {
	return &memorySetRepo{sets: make(map[string][]model.ProblemSet)}
}

func (r *memorySetRepo) Load(_ context.Context, userID string) ([]model.ProblemSet, error) {
	return r.sets[userID], nil
}

func (r *memorySetRepo) Store(_ context.Context, userID string, sets []model.ProblemSet) error {
	r.sets[userID] = sets
	return nil
}

func newTestSetService(t *testing.T) (*ProblemSetService, *memorySetRepo) {
	t.Helper()
	cat, err := catalog.New()
	require.NoError(t, err)
	repo := newMemorySetRepo()
	return NewProblemSetService(repo, cat), repo
}

const testUserID = "user-1"

func TestProblemSetList(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestSetService(t)

	t.Run("BuiltInsAlwaysPresent", func(t *testing.T) {
		sets, err := svc.List(ctx, testUserID)
		require.NoError(t, err)
		require.NotEmpty(t, sets)
		assert.Equal(t, "1", sets[0].ID)
		assert.True(t, sets[0].IsBuildIn)
	})

	t.Run("CustomsAfterBuiltIns", func(t *testing.T) {
		created, err := svc.Add(ctx, testUserID, ProblemSetFormData{Title: "Mine", ProblemIDs: []string{"1", "2"}})
		require.NoError(t, err)

		sets, err := svc.List(ctx, testUserID)
		require.NoError(t, err)
		last := sets[len(sets)-1]
		assert.Equal(t, created.ID, last.ID)
		assert.False(t, last.IsBuildIn)
	})

	t.Run("SetsAreScopedPerUser", func(t *testing.T) {
		sets, err := svc.List(ctx, "someone-else")
		require.NoError(t, err)
		for _, set := range sets {
			assert.True(t, set.IsBuildIn)
		}
	})
}

func TestProblemSetAdd(t *testing.T) {
	ctx := context.Background()

	t.Run("AssignsFreshIDAndStores", func(t *testing.T) {
		svc, repo := newTestSetService(t)
		created, err := svc.Add(ctx, testUserID, ProblemSetFormData{Title: "Joins", ProblemIDs: []string{"3", "4"}})
		require.NoError(t, err)
		assert.NotEmpty(t, created.ID)
		assert.False(t, created.IsBuildIn)
		require.Len(t, repo.sets[testUserID], 1)
		assert.Equal(t, []string{"3", "4"}, repo.sets[testUserID][0].ProblemIDs)
	})

	t.Run("RejectsEmptyTitle", func(t *testing.T) {
		svc, _ := newTestSetService(t)
		_, err := svc.Add(ctx, testUserID, ProblemSetFormData{ProblemIDs: []string{"1"}})
		assert.ErrorIs(t, err, common.ErrValidation)
	})

	t.Run("RejectsEmptyProblemList", func(t *testing.T) {
		svc, _ := newTestSetService(t)
		_, err := svc.Add(ctx, testUserID, ProblemSetFormData{Title: "Empty"})
		assert.ErrorIs(t, err, common.ErrValidation)
	})

	t.Run("RejectsUnknownProblemID", func(t *testing.T) {
		svc, _ := newTestSetService(t)
		_, err := svc.Add(ctx, testUserID, ProblemSetFormData{Title: "Bad", ProblemIDs: []string{"1", "no-such"}})
		assert.ErrorIs(t, err, common.ErrValidation)
	})
}

func TestProblemSetUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("ReplacesTitleAndProblems", func(t *testing.T) {
		svc, _ := newTestSetService(t)
		created, err := svc.Add(ctx, testUserID, ProblemSetFormData{Title: "Old", ProblemIDs: []string{"1"}})
		require.NoError(t, err)

		err = svc.Update(ctx, testUserID, created.ID, ProblemSetFormData{Title: "New", ProblemIDs: []string{"2", "3"}})
		require.NoError(t, err)

		got, err := svc.Get(ctx, testUserID, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "New", got.Title)
		assert.Equal(t, []string{"2", "3"}, got.ProblemIDs)
	})

	t.Run("BuiltInIsNoop", func(t *testing.T) {
		svc, _ := newTestSetService(t)
		err := svc.Update(ctx, testUserID, "1", ProblemSetFormData{Title: "Hijacked", ProblemIDs: []string{"1"}})
		require.NoError(t, err)

		got, err := svc.Get(ctx, testUserID, "1")
		require.NoError(t, err)
		assert.NotEqual(t, "Hijacked", got.Title)
		assert.True(t, got.IsBuildIn)
	})

	t.Run("MissingIDIsNoop", func(t *testing.T) {
		svc, repo := newTestSetService(t)
		err := svc.Update(ctx, testUserID, "no-such", ProblemSetFormData{Title: "X", ProblemIDs: []string{"1"}})
		require.NoError(t, err)
		assert.Empty(t, repo.sets[testUserID])
	})
}

func TestProblemSetRemove(t *testing.T) {
	ctx := context.Background()

	t.Run("DeletesStoredSet", func(t *testing.T) {
		svc, _ := newTestSetService(t)
		created, err := svc.Add(ctx, testUserID, ProblemSetFormData{Title: "Gone soon", ProblemIDs: []string{"1"}})
		require.NoError(t, err)

		require.NoError(t, svc.Remove(ctx, testUserID, created.ID))

		_, err = svc.Get(ctx, testUserID, created.ID)
		assert.ErrorIs(t, err, common.ErrNotFound)
	})

	t.Run("BuiltInIsNoop", func(t *testing.T) {
		svc, _ := newTestSetService(t)
		require.NoError(t, svc.Remove(ctx, testUserID, "1"))

		got, err := svc.Get(ctx, testUserID, "1")
		require.NoError(t, err)
		assert.True(t, got.IsBuildIn)
	})

	t.Run("MissingIDIsNoop", func(t *testing.T) {
		svc, _ := newTestSetService(t)
		assert.NoError(t, svc.Remove(ctx, testUserID, "no-such"))
	})
}

func TestProblemSetImport(t *testing.T) {
	ctx := context.Background()
	shared := model.ProblemSet{ID: "shared-1", Title: "From a friend", ProblemIDs: []string{"1", "2"}}

	t.Run("StoresIncomingSetWithItsID", func(t *testing.T) {
		svc, _ := newTestSetService(t)
		require.NoError(t, svc.Import(ctx, testUserID, shared))

		got, err := svc.Get(ctx, testUserID, "shared-1")
		require.NoError(t, err)
		assert.Equal(t, "From a friend", got.Title)
	})

	t.Run("ExistingIDIsNoop", func(t *testing.T) {
		svc, _ := newTestSetService(t)
		require.NoError(t, svc.Import(ctx, testUserID, shared))

		renamed := shared
		renamed.Title = "Renamed"
		require.NoError(t, svc.Import(ctx, testUserID, renamed))

		got, err := svc.Get(ctx, testUserID, "shared-1")
		require.NoError(t, err)
		assert.Equal(t, "From a friend", got.Title)
	})

	t.Run("ClaimedBuiltInIsNoop", func(t *testing.T) {
		svc, repo := newTestSetService(t)
		forged := model.ProblemSet{ID: "forged", Title: "Fake built-in", ProblemIDs: []string{"1"}, IsBuildIn: true}
		require.NoError(t, svc.Import(ctx, testUserID, forged))
		assert.Empty(t, repo.sets[testUserID])
	})

	t.Run("BuiltInIDCollisionIsNoop", func(t *testing.T) {
		svc, repo := newTestSetService(t)
		shadow := model.ProblemSet{ID: "1", Title: "Shadow", ProblemIDs: []string{"1"}}
		require.NoError(t, svc.Import(ctx, testUserID, shadow))
		assert.Empty(t, repo.sets[testUserID])
	})

	t.Run("InvalidSetRejected", func(t *testing.T) {
		svc, _ := newTestSetService(t)
		err := svc.Import(ctx, testUserID, model.ProblemSet{ID: "x", Title: "No problems"})
		assert.ErrorIs(t, err, common.ErrValidation)
	})
}

func TestProblemSetIsStored(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestSetService(t)

	stored, err := svc.IsStored(ctx, testUserID, "1")
	require.NoError(t, err)
	assert.True(t, stored)

	stored, err = svc.IsStored(ctx, testUserID, "from-a-link")
	require.NoError(t, err)
	assert.False(t, stored)
}
