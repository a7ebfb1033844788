// Package catalog holds the fixed set of practice problems and their accepted
// solutions. The catalog is constructed once at startup, validated, and
// materialized: every solution is executed against the bundled dataset to
// precompute its expected result set.
package catalog

import (
	"context"
	"errors"
	"fmt"

	"sqldrill/internal/app/runner"
	"sqldrill/internal/domain/model"

	"github.com/gosimple/slug"
)

var ErrProblemNotFound = errors.New("problem not found")

type Catalog struct {
	problems []model.Problem
	byID     map[string]*model.Problem
	bySlug   map[string]*model.Problem
}

// New builds the catalog from the static problem definitions. It fails on a
// broken catalog (duplicate id, missing title, problem without solutions)
// rather than serving a partial one.
func New() (*Catalog, error) {
	c := &Catalog{
		problems: allProblems(),
		byID:     make(map[string]*model.Problem),
		bySlug:   make(map[string]*model.Problem),
	}

	for i := range c.problems {
		p := &c.problems[i]
		if p.ID == "" || p.Title == "" {
			return nil, fmt.Errorf("catalog: problem %d has no id or title", i)
		}
		if len(p.Solutions) == 0 {
			return nil, fmt.Errorf("catalog: problem %s has no solutions", p.ID)
		}
		if _, exists := c.byID[p.ID]; exists {
			return nil, fmt.Errorf("catalog: duplicate problem id %s", p.ID)
		}
		p.Slug = slug.Make(p.Title)
		if _, exists := c.bySlug[p.Slug]; exists {
			return nil, fmt.Errorf("catalog: duplicate problem slug %s", p.Slug)
		}
		c.byID[p.ID] = p
		c.bySlug[p.Slug] = p
	}
	return c, nil
}

// Materialize runs every solution once against the dataset and stores its
// result set as the solution's canonical expected result. Any failure is a
// catalog-integrity error and aborts startup.
func (c *Catalog) Materialize(ctx context.Context, r runner.Runner) error {
	for i := range c.problems {
		p := &c.problems[i]

		scripts := make([]string, len(p.Solutions))
		for j, s := range p.Solutions {
			scripts[j] = s.SQL
		}

		results, err := r.RunInRollbackTransaction(ctx, scripts...)
		if err != nil {
			return fmt.Errorf("catalog: materialize problem %s: %w", p.ID, err)
		}
		for j, res := range results {
			p.Solutions[j].Expected = model.ExpectedResult{Fields: res.Fields, Rows: res.Rows}
		}
	}
	return nil
}

// Problems returns the catalog in definition order.
func (c *Catalog) Problems() []model.Problem {
	return c.problems
}

func (c *Catalog) ByID(id string) (*model.Problem, error) {
	p, ok := c.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrProblemNotFound, id)
	}
	return p, nil
}

func (c *Catalog) BySlug(s string) (*model.Problem, error) {
	p, ok := c.bySlug[s]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrProblemNotFound, s)
	}
	return p, nil
}

// BuiltInSets returns the immutable problem sets that ship with the catalog.
func (c *Catalog) BuiltInSets() []model.ProblemSet {
	ids := make([]string, len(c.problems))
	for i, p := range c.problems {
		ids[i] = p.ID
	}
	return []model.ProblemSet{
		{
			ID:         "1",
			Title:      "All problems",
			ProblemIDs: ids,
			IsBuildIn:  true,
		},
	}
}
