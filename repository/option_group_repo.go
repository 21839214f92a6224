package repository

import (
	"context"

	"cafehere/model"

	"gorm.io/gorm"
)

type optionGroupRepo struct{ db *gorm.DB }

func NewOptionGroupRepository(db *gorm.DB) OptionGroupRepository { return &optionGroupRepo{db: db} }

func (r *optionGroupRepo) Create(ctx context.Context, g *model.OptionGroup) error {
	return translate(r.db.WithContext(ctx).Omit("Cafe").Create(g).Error)
}

func (r *optionGroupRepo) FindInCafe(ctx context.Context, cafeID, id uint) (*model.OptionGroup, error) {
	var g model.OptionGroup
	err := r.db.WithContext(ctx).
		Where("id = ? AND cafe_id = ?", id, cafeID).
		Preload("Options", orderByID).
		First(&g).Error
	if err != nil {
		return nil, translate(err)
	}
	return &g, nil
}

func (r *optionGroupRepo) FindManyInCafe(ctx context.Context, cafeID uint, ids []uint) ([]model.OptionGroup, error) {
	groups := []model.OptionGroup{}
	if len(ids) == 0 {
		return groups, nil
	}
	err := r.db.WithContext(ctx).Where("cafe_id = ? AND id IN ?", cafeID, ids).Order("id asc").Find(&groups).Error
	return groups, err
}

func (r *optionGroupRepo) ListByCafe(ctx context.Context, cafeID uint) ([]model.OptionGroup, error) {
	groups := []model.OptionGroup{}
	err := r.db.WithContext(ctx).
		Where("cafe_id = ?", cafeID).
		Preload("Options", orderByID).
		Order("id asc").
		Find(&groups).Error
	return groups, err
}

func (r *optionGroupRepo) ExistsByName(ctx context.Context, cafeID uint, name string, excludeID uint) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&model.OptionGroup{}).Where("cafe_id = ? AND name = ?", cafeID, name)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	err := q.Count(&count).Error
	return count > 0, err
}

func (r *optionGroupRepo) Update(ctx context.Context, g *model.OptionGroup, changes OptionChanges) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.OptionGroup{}).Where("id = ?", g.ID).Update("name", g.Name).Error; err != nil {
			return err
		}
		// Deletes run first so a removed name can be reused in the same request.
		for _, o := range changes.Delete {
			if err := tx.Where("option_group_id = ?", g.ID).Delete(&model.Option{}, o.ID).Error; err != nil {
				return err
			}
		}
		for _, o := range changes.Update {
			err := tx.Model(&model.Option{}).
				Where("id = ? AND option_group_id = ?", o.ID, g.ID).
				Update("add_price", o.AddPrice).Error
			if err != nil {
				return err
			}
		}
		if len(changes.Create) > 0 {
			created := make([]model.Option, len(changes.Create))
			for i, o := range changes.Create {
				created[i] = model.Option{Name: o.Name, AddPrice: o.AddPrice, OptionGroupID: g.ID}
			}
			if err := tx.Omit("OptionGroup").Create(&created).Error; err != nil {
				return err
			}
		}
		return tx.Where("option_group_id = ?", g.ID).Order("id asc").Find(&g.Options).Error
	})
	return translate(err)
}

func (r *optionGroupRepo) Delete(ctx context.Context, g *model.OptionGroup) error {
	return translate(r.db.WithContext(ctx).Delete(&model.OptionGroup{}, g.ID).Error)
}
