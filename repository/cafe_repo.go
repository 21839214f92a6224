package repository

import (
	"context"

	"cafehere/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type cafeRepo struct{ db *gorm.DB }

func NewCafeRepository(db *gorm.DB) CafeRepository { return &cafeRepo{db: db} }

func (r *cafeRepo) Create(ctx context.Context, c *model.Cafe) error {
	return translate(r.db.WithContext(ctx).Omit("Owner").Create(c).Error)
}

func (r *cafeRepo) FindByUUID(ctx context.Context, id uuid.UUID) (*model.Cafe, error) {
	var c model.Cafe
	if err := r.db.WithContext(ctx).Where("uuid = ?", id).First(&c).Error; err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

func (r *cafeRepo) ListByOwner(ctx context.Context, ownerID uint) ([]model.Cafe, error) {
	cafes := []model.Cafe{}
	err := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).Order("id asc").Find(&cafes).Error
	return cafes, err
}

func (r *cafeRepo) ExistsByName(ctx context.Context, ownerID uint, name string, excludeID uint) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&model.Cafe{}).Where("owner_id = ? AND name = ?", ownerID, name)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	err := q.Count(&count).Error
	return count > 0, err
}

func (r *cafeRepo) Update(ctx context.Context, c *model.Cafe) error {
	return translate(r.db.WithContext(ctx).Omit("Owner").Save(c).Error)
}

// Delete relies on ON DELETE CASCADE for categories, option groups and products.
func (r *cafeRepo) Delete(ctx context.Context, c *model.Cafe) error {
	return translate(r.db.WithContext(ctx).Delete(&model.Cafe{}, c.ID).Error)
}
