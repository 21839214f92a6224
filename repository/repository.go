// Package repository persists the catalog. Every nested lookup takes the owning
// cafe (or category) id so a row from another tenant never resolves.
package repository

import (
	"context"
	"errors"

	"cafehere/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

const uniqueViolation = "23505"

// translate maps driver errors onto the package sentinels.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicate
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return ErrDuplicate
	}
	return err
}

// Translate exposes the sentinel mapping to gorm stores kept outside this package.
func Translate(err error) error { return translate(err) }

type UserRepository interface {
	Create(ctx context.Context, u *model.User) error
	FindByMobile(ctx context.Context, mobile string) (*model.User, error)
	FindByUUID(ctx context.Context, id uuid.UUID) (*model.User, error)
	ExistsByMobile(ctx context.Context, mobile string) (bool, error)
	Update(ctx context.Context, u *model.User) error
}

type CafeRepository interface {
	Create(ctx context.Context, c *model.Cafe) error
	FindByUUID(ctx context.Context, id uuid.UUID) (*model.Cafe, error)
	ListByOwner(ctx context.Context, ownerID uint) ([]model.Cafe, error)
	// ExistsByName ignores the cafe with excludeID (0 excludes nothing).
	ExistsByName(ctx context.Context, ownerID uint, name string, excludeID uint) (bool, error)
	Update(ctx context.Context, c *model.Cafe) error
	// Delete removes the cafe with its categories, option groups and products.
	Delete(ctx context.Context, c *model.Cafe) error
}

type CategoryRepository interface {
	Create(ctx context.Context, c *model.Category) error
	FindInCafe(ctx context.Context, cafeID, id uint) (*model.Category, error)
	FindByNameInCafe(ctx context.Context, cafeID uint, name string) (*model.Category, error)
	// ListByCafe preloads each category's products.
	ListByCafe(ctx context.Context, cafeID uint) ([]model.Category, error)
	ExistsByName(ctx context.Context, cafeID uint, name string, excludeID uint) (bool, error)
	Update(ctx context.Context, c *model.Category) error
	Delete(ctx context.Context, c *model.Category) error
}

// OptionChanges is the reconciliation plan applied to a group's options in one transaction.
type OptionChanges struct {
	Create []model.Option
	Update []model.Option
	Delete []model.Option
}

type OptionGroupRepository interface {
	// Create inserts the group together with its options.
	Create(ctx context.Context, g *model.OptionGroup) error
	// FindInCafe preloads options.
	FindInCafe(ctx context.Context, cafeID, id uint) (*model.OptionGroup, error)
	FindManyInCafe(ctx context.Context, cafeID uint, ids []uint) ([]model.OptionGroup, error)
	ListByCafe(ctx context.Context, cafeID uint) ([]model.OptionGroup, error)
	ExistsByName(ctx context.Context, cafeID uint, name string, excludeID uint) (bool, error)
	// Update saves the group row and applies changes atomically.
	Update(ctx context.Context, g *model.OptionGroup, changes OptionChanges) error
	Delete(ctx context.Context, g *model.OptionGroup) error
}

// ProductFilter narrows a product listing. Empty fields do not filter.
type ProductFilter struct {
	// Search matches a case-insensitive substring of the name or of its initial consonants.
	Search string
	// Category is an exact category name.
	Category string
}

type ProductRepository interface {
	// Create inserts the product and its option group links.
	Create(ctx context.Context, p *model.Product) error
	// CreateBatch inserts all products or none.
	CreateBatch(ctx context.Context, products []*model.Product) error
	// FindInCafe resolves the product through category → cafe and preloads category and option groups.
	FindInCafe(ctx context.Context, cafeID, id uint) (*model.Product, error)
	ListByCafe(ctx context.Context, cafeID uint, filter ProductFilter) ([]model.Product, error)
	ExistsByName(ctx context.Context, categoryID uint, name string, excludeID uint) (bool, error)
	// Update saves the row and replaces its option group links atomically.
	Update(ctx context.Context, p *model.Product) error
	Delete(ctx context.Context, p *model.Product) error
}

// Store bundles the repositories a running service needs.
type Store struct {
	Users        UserRepository
	Cafes        CafeRepository
	Categories   CategoryRepository
	OptionGroups OptionGroupRepository
	Products     ProductRepository
}

// NewGormStore builds every repository on db.
func NewGormStore(db *gorm.DB) *Store {
	return &Store{
		Users:        NewUserRepository(db),
		Cafes:        NewCafeRepository(db),
		Categories:   NewCategoryRepository(db),
		OptionGroups: NewOptionGroupRepository(db),
		Products:     NewProductRepository(db),
	}
}
