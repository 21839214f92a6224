package repository

import (
	"context"

	"cafehere/model"

	"gorm.io/gorm"
)

type categoryRepo struct{ db *gorm.DB }

func NewCategoryRepository(db *gorm.DB) CategoryRepository { return &categoryRepo{db: db} }

func (r *categoryRepo) Create(ctx context.Context, c *model.Category) error {
	return translate(r.db.WithContext(ctx).Omit("Cafe", "Products").Create(c).Error)
}

func (r *categoryRepo) FindInCafe(ctx context.Context, cafeID, id uint) (*model.Category, error) {
	var c model.Category
	err := r.db.WithContext(ctx).
		Where("id = ? AND cafe_id = ?", id, cafeID).
		Preload("Products", orderByID).
		First(&c).Error
	if err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

func (r *categoryRepo) FindByNameInCafe(ctx context.Context, cafeID uint, name string) (*model.Category, error) {
	var c model.Category
	if err := r.db.WithContext(ctx).Where("cafe_id = ? AND name = ?", cafeID, name).First(&c).Error; err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

func (r *categoryRepo) ListByCafe(ctx context.Context, cafeID uint) ([]model.Category, error) {
	categories := []model.Category{}
	err := r.db.WithContext(ctx).
		Where("cafe_id = ?", cafeID).
		Preload("Products", orderByID).
		Order("id asc").
		Find(&categories).Error
	return categories, err
}

func (r *categoryRepo) ExistsByName(ctx context.Context, cafeID uint, name string, excludeID uint) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&model.Category{}).Where("cafe_id = ? AND name = ?", cafeID, name)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	err := q.Count(&count).Error
	return count > 0, err
}

func (r *categoryRepo) Update(ctx context.Context, c *model.Category) error {
	return translate(r.db.WithContext(ctx).Omit("Cafe", "Products").Save(c).Error)
}

func (r *categoryRepo) Delete(ctx context.Context, c *model.Category) error {
	return translate(r.db.WithContext(ctx).Delete(&model.Category{}, c.ID).Error)
}

func orderByID(db *gorm.DB) *gorm.DB {
	return db.Order("id asc")
}
