package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"sqldrill/internal/common"
	"sqldrill/internal/domain/model"

	"github.com/redis/go-redis/v9"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	FindByID(ctx context.Context, id string) (*model.User, error)
}

const (
	userKeyPrefix          = "user:id:"
	userEmailIndexPrefix   = "user:email:"
	userNameIndexPrefix    = "user:username:"
)

type redisUserRepository struct {
	rdb redis.Cmdable
}

// storedUser is the persisted shape. model.User hides the password hash from
// API responses via its json tag, so storage uses its own.
type storedUser struct {
	ID             string    `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	HashedPassword string    `json:"hashed_password"`
	CreatedAt      time.Time `json:"created_at"`
}

func toStored(u *model.User) storedUser {
	return storedUser{
		ID:             u.ID,
		Username:       u.Username,
		Email:          u.Email,
		HashedPassword: u.HashedPassword,
		CreatedAt:      u.CreatedAt,
	}
}

func (s storedUser) toModel() *model.User {
	return &model.User{
		ID:             s.ID,
		Username:       s.Username,
		Email:          s.Email,
		HashedPassword: s.HashedPassword,
		CreatedAt:      s.CreatedAt,
	}
}

func NewRedisUserRepository(rdb redis.Cmdable) UserRepository {
	return &redisUserRepository{rdb: rdb}
}

func (r *redisUserRepository) Create(ctx context.Context, user *model.User) error {
	// Claim the unique indexes first so duplicate signups lose cleanly.
	ok, err := r.rdb.SetNX(ctx, userEmailIndexPrefix+user.Email, user.ID, 0).Result()
	if err != nil {
		return fmt.Errorf("redisUserRepository.Create email index: %w", err)
	}
	if !ok {
		return fmt.Errorf("user with given email already exists: %w", common.ErrConflict)
	}
	ok, err = r.rdb.SetNX(ctx, userNameIndexPrefix+user.Username, user.ID, 0).Result()
	if err != nil {
		return fmt.Errorf("redisUserRepository.Create username index: %w", err)
	}
	if !ok {
		r.rdb.Del(ctx, userEmailIndexPrefix+user.Email)
		return fmt.Errorf("user with given username already exists: %w", common.ErrConflict)
	}

	raw, err := json.Marshal(toStored(user))
	if err != nil {
		return fmt.Errorf("redisUserRepository.Create marshal: %w", err)
	}
	if err := r.rdb.Set(ctx, userKeyPrefix+user.ID, raw, 0).Err(); err != nil {
		return fmt.Errorf("redisUserRepository.Create: %w", err)
	}
	return nil
}

func (r *redisUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.findByIndex(ctx, userEmailIndexPrefix+email)
}

func (r *redisUserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	return r.findByIndex(ctx, userNameIndexPrefix+username)
}

func (r *redisUserRepository) findByIndex(ctx context.Context, indexKey string) (*model.User, error) {
	id, err := r.rdb.Get(ctx, indexKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("redisUserRepository index lookup: %w", err)
	}
	return r.FindByID(ctx, id)
}

func (r *redisUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	raw, err := r.rdb.Get(ctx, userKeyPrefix+id).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("redisUserRepository.FindByID: %w", err)
	}

	var stored storedUser
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		return nil, fmt.Errorf("redisUserRepository.FindByID unmarshal: %w", err)
	}
	return stored.toModel(), nil
}
