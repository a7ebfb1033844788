package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"sqldrill/internal/domain/model"

	"github.com/redis/go-redis/v9"
)

// ProblemSetRepository persists a user's custom problem sets. The whole
// collection is one value: loaded in full, written back in full on every
// mutation (read-modify-write, last-writer-wins).
type ProblemSetRepository interface {
	Load(ctx context.Context, userID string) ([]model.ProblemSet, error)
	Store(ctx context.Context, userID string, sets []model.ProblemSet) error
}

const problemSetKeyPrefix = "problem_sets:"

type redisProblemSetRepository struct {
	rdb redis.Cmdable
}

func NewRedisProblemSetRepository(rdb redis.Cmdable) ProblemSetRepository {
	return &redisProblemSetRepository{rdb: rdb}
}

func (r *redisProblemSetRepository) Load(ctx context.Context, userID string) ([]model.ProblemSet, error) {
	raw, err := r.rdb.Get(ctx, problemSetKeyPrefix+userID).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return []model.ProblemSet{}, nil
		}
		return nil, fmt.Errorf("redisProblemSetRepository.Load: %w", err)
	}

	var sets []model.ProblemSet
	if err := json.Unmarshal([]byte(raw), &sets); err != nil {
		return nil, fmt.Errorf("redisProblemSetRepository.Load unmarshal: %w", err)
	}
	return sets, nil
}

func (r *redisProblemSetRepository) Store(ctx context.Context, userID string, sets []model.ProblemSet) error {
	raw, err := json.Marshal(sets)
	if err != nil {
		return fmt.Errorf("redisProblemSetRepository.Store marshal: %w", err)
	}
	if err := r.rdb.Set(ctx, problemSetKeyPrefix+userID, raw, 0).Err(); err != nil {
		return fmt.Errorf("redisProblemSetRepository.Store: %w", err)
	}
	return nil
}
