// Package permission decides whether a caller may act on a cafe and on the
// resources nested under it.
package permission

import (
	"context"
	"errors"

	"cafehere/apperr"
	"cafehere/model"
	"cafehere/repository"

	"github.com/google/uuid"
)

type Decision int

const (
	Allowed Decision = iota
	Forbidden
	NotFound
)

func (d Decision) String() string {
	switch d {
	case Allowed:
		return "allowed"
	case Forbidden:
		return "forbidden"
	default:
		return "not_found"
	}
}

// Scope tells the authorizer how to treat a missing cafe: listing or creating
// under it reports NotFound, while acting on the cafe itself reports Forbidden.
type Scope int

const (
	ScopeCollection Scope = iota
	ScopeItem
)

type Request struct {
	CafeUUID      uuid.UUID
	Scope         Scope
	CategoryID    *uint
	OptionGroupID *uint
}

type Result struct {
	Decision Decision
	Reason   string
	// Cafe is set only when Decision is Allowed.
	Cafe *model.Cafe
}

// Err converts a denial into the matching apperr; nil when allowed.
func (r Result) Err() error {
	switch r.Decision {
	case Allowed:
		return nil
	case Forbidden:
		return apperr.Forbidden(r.Reason)
	default:
		return apperr.NotFound(r.Reason)
	}
}

type Authorizer interface {
	Authorize(ctx context.Context, caller *model.User, req Request) (Result, error)
}

const (
	reasonNotOwner = "You do not have permission to perform this action."
	reasonNotFound = "Not found."
)

// CafeOwnership allows a caller only on cafes they own. Superusers get no bypass.
type CafeOwnership struct {
	cafes        repository.CafeRepository
	categories   repository.CategoryRepository
	optionGroups repository.OptionGroupRepository
}

func NewCafeOwnership(store *repository.Store) *CafeOwnership {
	return &CafeOwnership{
		cafes:        store.Cafes,
		categories:   store.Categories,
		optionGroups: store.OptionGroups,
	}
}

func (a *CafeOwnership) Authorize(ctx context.Context, caller *model.User, req Request) (Result, error) {
	if caller == nil {
		return Result{}, apperr.Unauthorized("Authentication credentials were not provided.")
	}

	cafe, err := a.cafes.FindByUUID(ctx, req.CafeUUID)
	if errors.Is(err, repository.ErrNotFound) {
		if req.Scope == ScopeCollection {
			return Result{Decision: NotFound, Reason: reasonNotFound}, nil
		}
		return Result{Decision: Forbidden, Reason: reasonNotOwner}, nil
	}
	if err != nil {
		return Result{}, apperr.Internal(err)
	}
	if !cafe.OwnedBy(caller) {
		return Result{Decision: Forbidden, Reason: reasonNotOwner}, nil
	}

	if req.CategoryID != nil {
		if res, err := a.nested(a.categories.FindInCafe(ctx, cafe.ID, *req.CategoryID)); res != nil || err != nil {
			return *res, err
		}
	}
	if req.OptionGroupID != nil {
		if res, err := a.nested(a.optionGroups.FindInCafe(ctx, cafe.ID, *req.OptionGroupID)); res != nil || err != nil {
			return *res, err
		}
	}
	return Result{Decision: Allowed, Cafe: cafe}, nil
}

// nested returns a non-nil Result when the lookup denies the request.
func (a *CafeOwnership) nested(_ any, err error) (*Result, error) {
	if err == nil {
		return nil, nil
	}
	if errors.Is(err, repository.ErrNotFound) {
		return &Result{Decision: NotFound, Reason: reasonNotFound}, nil
	}
	return &Result{}, apperr.Internal(err)
}
