package service

import (
	"context"
	"errors"
	"fmt"

	"sqldrill/internal/common"
	"sqldrill/internal/domain/catalog"
	"sqldrill/internal/domain/model"
	"sqldrill/internal/domain/repository"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// ProblemSetService merges the immutable built-in sets with a user's stored
// custom sets and owns all mutations of the latter. Built-ins can never be
// updated, removed or forged through import.
type ProblemSetService struct {
	setRepo  repository.ProblemSetRepository
	catalog  *catalog.Catalog
	validate *validator.Validate
}

func NewProblemSetService(setRepo repository.ProblemSetRepository, cat *catalog.Catalog) *ProblemSetService {
	return &ProblemSetService{
		setRepo:  setRepo,
		catalog:  cat,
		validate: validator.New(),
	}
}

type ProblemSetFormData struct {
	Title      string   `json:"title" validate:"required"`
	ProblemIDs []string `json:"problemIds" validate:"required,min=1,dive,required"`
}

// List returns built-in sets first, in stable order, followed by the user's
// stored custom sets.
func (s *ProblemSetService) List(ctx context.Context, userID string) ([]model.ProblemSet, error) {
	customs, err := s.setRepo.Load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return append(s.catalog.BuiltInSets(), customs...), nil
}

// Get resolves one set by id, built-in or custom.
func (s *ProblemSetService) Get(ctx context.Context, userID, id string) (*model.ProblemSet, error) {
	sets, err := s.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	for i := range sets {
		if sets[i].ID == id {
			return &sets[i], nil
		}
	}
	return nil, common.ErrNotFound
}

// IsStored reports whether the id refers to one of the user's own sets
// (built-in or stored custom). A playable set whose id is not stored arrived
// via a share link.
func (s *ProblemSetService) IsStored(ctx context.Context, userID, id string) (bool, error) {
	_, err := s.Get(ctx, userID, id)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, common.ErrNotFound) {
		return false, nil
	}
	return false, err
}

// Add stores a new custom set under a fresh id.
func (s *ProblemSetService) Add(ctx context.Context, userID string, data ProblemSetFormData) (*model.ProblemSet, error) {
	if err := s.validateForm(data); err != nil {
		return nil, err
	}

	customs, err := s.setRepo.Load(ctx, userID)
	if err != nil {
		return nil, err
	}

	set := model.ProblemSet{
		ID:         uuid.NewString(),
		Title:      data.Title,
		ProblemIDs: data.ProblemIDs,
		IsBuildIn:  false,
	}
	if err := s.setRepo.Store(ctx, userID, append(customs, set)); err != nil {
		return nil, err
	}
	return &set, nil
}

// Remove deletes a stored custom set. Built-in ids and unknown ids are a
// no-op: built-ins never reach storage, so the lookup below cannot find them.
func (s *ProblemSetService) Remove(ctx context.Context, userID, id string) error {
	customs, err := s.setRepo.Load(ctx, userID)
	if err != nil {
		return err
	}

	kept := customs[:0]
	found := false
	for _, set := range customs {
		if set.ID == id && !set.IsBuildIn {
			found = true
			continue
		}
		kept = append(kept, set)
	}
	if !found {
		return nil
	}
	return s.setRepo.Store(ctx, userID, kept)
}

// Update replaces the title and problem list of a stored custom set in place,
// preserving its identity. Built-in or missing targets are a no-op.
func (s *ProblemSetService) Update(ctx context.Context, userID, id string, data ProblemSetFormData) error {
	if err := s.validateForm(data); err != nil {
		return err
	}

	customs, err := s.setRepo.Load(ctx, userID)
	if err != nil {
		return err
	}

	found := false
	for i := range customs {
		if customs[i].ID == id && !customs[i].IsBuildIn {
			customs[i].Title = data.Title
			customs[i].ProblemIDs = data.ProblemIDs
			found = true
		}
	}
	if !found {
		return nil
	}
	return s.setRepo.Store(ctx, userID, customs)
}

// Import appends a set received via a share link, preserving its id. It is a
// no-op when a set with that id already exists locally or when the incoming
// set claims to be built-in (built-in identity cannot be imported).
func (s *ProblemSetService) Import(ctx context.Context, userID string, set model.ProblemSet) error {
	if set.IsBuildIn {
		return nil
	}
	if err := s.validate.Struct(set); err != nil {
		return fmt.Errorf("invalid problem set: %v: %w", err, common.ErrValidation)
	}

	// Existing ids, built-in or custom, win over the incoming copy.
	if _, err := s.Get(ctx, userID, set.ID); err == nil {
		return nil
	} else if !errors.Is(err, common.ErrNotFound) {
		return err
	}

	customs, err := s.setRepo.Load(ctx, userID)
	if err != nil {
		return err
	}
	return s.setRepo.Store(ctx, userID, append(customs, set))
}

func (s *ProblemSetService) validateForm(data ProblemSetFormData) error {
	if err := s.validate.Struct(data); err != nil {
		return fmt.Errorf("invalid problem set data: %v: %w", err, common.ErrValidation)
	}
	// Reject references to problems the catalog does not know, so a stored
	// set can always be materialized at play time.
	for _, id := range data.ProblemIDs {
		if _, err := s.catalog.ByID(id); err != nil {
			return fmt.Errorf("%v: %w", err, common.ErrValidation)
		}
	}
	return nil
}
