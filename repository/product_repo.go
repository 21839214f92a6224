package repository

import (
	"context"
	"strings"

	"cafehere/model"

	"gorm.io/gorm"
)

type productRepo struct{ db *gorm.DB }

func NewProductRepository(db *gorm.DB) ProductRepository { return &productRepo{db: db} }

// OptionGroups.* links existing groups without upserting them.
func (r *productRepo) Create(ctx context.Context, p *model.Product) error {
	return translate(r.db.WithContext(ctx).Omit("Category", "OptionGroups.*").Create(p).Error)
}

func (r *productRepo) CreateBatch(ctx context.Context, products []*model.Product) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, p := range products {
			if err := tx.Omit("Category", "OptionGroups.*").Create(p).Error; err != nil {
				return err
			}
		}
		return nil
	})
	return translate(err)
}

func (r *productRepo) scoped(ctx context.Context, cafeID uint) *gorm.DB {
	return r.db.WithContext(ctx).
		Joins("Category").
		Where(`"Category"."cafe_id" = ?`, cafeID).
		Preload("OptionGroups", orderByID)
}

func (r *productRepo) FindInCafe(ctx context.Context, cafeID, id uint) (*model.Product, error) {
	var p model.Product
	if err := r.scoped(ctx, cafeID).Where("products.id = ?", id).First(&p).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (r *productRepo) ListByCafe(ctx context.Context, cafeID uint, filter ProductFilter) ([]model.Product, error) {
	q := r.scoped(ctx, cafeID)
	if filter.Category != "" {
		q = q.Where(`"Category"."name" = ?`, filter.Category)
	}
	if filter.Search != "" {
		pattern := "%" + escapeLike(strings.ToLower(filter.Search)) + "%"
		q = q.Where(`(LOWER(products.name) LIKE ? ESCAPE '\' OR LOWER(products.initial_consonant) LIKE ? ESCAPE '\')`, pattern, pattern)
	}
	products := []model.Product{}
	err := q.Order("products.id desc").Find(&products).Error
	return products, err
}

func (r *productRepo) ExistsByName(ctx context.Context, categoryID uint, name string, excludeID uint) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&model.Product{}).Where("category_id = ? AND name = ?", categoryID, name)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	err := q.Count(&count).Error
	return count > 0, err
}

func (r *productRepo) Update(ctx context.Context, p *model.Product) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Category", "OptionGroups").Save(p).Error; err != nil {
			return err
		}
		links := tx.Model(p).Omit("OptionGroups.*").Association("OptionGroups")
		if len(p.OptionGroups) == 0 {
			return links.Clear()
		}
		return links.Replace(p.OptionGroups)
	})
	return translate(err)
}

func (r *productRepo) Delete(ctx context.Context, p *model.Product) error {
	return translate(r.db.WithContext(ctx).Delete(&model.Product{}, p.ID).Error)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike quotes LIKE wildcards so user input matches literally.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
