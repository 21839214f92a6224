package repository

import (
	"context"

	"cafehere/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type userRepo struct{ db *gorm.DB }

func NewUserRepository(db *gorm.DB) UserRepository { return &userRepo{db: db} }

func (r *userRepo) Create(ctx context.Context, u *model.User) error {
	return translate(r.db.WithContext(ctx).Create(u).Error)
}

func (r *userRepo) FindByMobile(ctx context.Context, mobile string) (*model.User, error) {
	var u model.User
	if err := r.db.WithContext(ctx).Where("mobile = ?", mobile).First(&u).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (r *userRepo) FindByUUID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var u model.User
	if err := r.db.WithContext(ctx).Where("uuid = ?", id).First(&u).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (r *userRepo) ExistsByMobile(ctx context.Context, mobile string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.User{}).Where("mobile = ?", mobile).Count(&count).Error
	return count > 0, err
}

func (r *userRepo) Update(ctx context.Context, u *model.User) error {
	return translate(r.db.WithContext(ctx).Save(u).Error)
}
