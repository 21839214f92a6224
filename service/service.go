// Package service holds the catalog business rules. Every method receives the
// cafe the caller was already authorized for, so lookups never leave it.
package service

import (
	"context"
	"errors"

	"cafehere/apperr"
	"cafehere/repository"
	"cafehere/storage"

	"github.com/rs/zerolog/log"
)

const (
	msgCafeNameTaken        = "The fields name, owner must make a unique set."
	msgCategoryNameTaken    = "Category name must be unique."
	msgOptionGroupNameTaken = "Option group name must be unique."
	msgOptionNameRepeated   = "Option names must be unique within the group."
	msgProductNameTaken     = "Product name must be unique within the category."
	msgForeignCategory      = "You can only select categories for that cafe."
	msgForeignOptionGroups  = "You can only select option groups for that cafe."
	msgNotFound             = "Not found."
)

type Services struct {
	Cafes        *CafeService
	Categories   *CategoryService
	OptionGroups *OptionGroupService
	Products     *ProductService
}

func New(store *repository.Store, files storage.Storage, maxImageSize int64) *Services {
	return &Services{
		Cafes:        NewCafeService(store.Cafes, store.Products, files),
		Categories:   NewCategoryService(store.Categories, files),
		OptionGroups: NewOptionGroupService(store.OptionGroups),
		Products:     NewProductService(store, files, maxImageSize),
	}
}

// storeError maps repository sentinels: a duplicate becomes a validation error
// on field, a missing row a 404, anything else a 500.
func storeError(err error, field, msg string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrDuplicate):
		return apperr.Field(field, msg)
	case errors.Is(err, repository.ErrNotFound):
		return apperr.NotFound(msgNotFound)
	default:
		return apperr.Internal(err)
	}
}

// removeFiles deletes stored objects after their rows are gone. Failures only
// leave orphans behind, so they are logged and not returned.
func removeFiles(ctx context.Context, files storage.Storage, keys ...string) {
	for _, key := range keys {
		if key == "" {
			continue
		}
		if err := files.Delete(ctx, key); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("failed to remove stored file")
		}
	}
}
