package service

import (
	"context"

	"cafehere/apperr"
	"cafehere/dto"
	"cafehere/model"
	"cafehere/repository"
	"cafehere/storage"
)

type CategoryService struct {
	categories repository.CategoryRepository
	files      storage.Storage
}

func NewCategoryService(categories repository.CategoryRepository, files storage.Storage) *CategoryService {
	return &CategoryService{categories: categories, files: files}
}

// List returns an empty slice, not an error, for a cafe without categories.
func (s *CategoryService) List(ctx context.Context, cafe *model.Cafe) ([]model.Category, error) {
	categories, err := s.categories.ListByCafe(ctx, cafe.ID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return categories, nil
}

func (s *CategoryService) Get(ctx context.Context, cafe *model.Cafe, id uint) (*model.Category, error) {
	c, err := s.categories.FindInCafe(ctx, cafe.ID, id)
	if err != nil {
		return nil, storeError(err, "", "")
	}
	return c, nil
}

func (s *CategoryService) Create(ctx context.Context, cafe *model.Cafe, req dto.CategoryRequest) (*model.Category, error) {
	if err := s.checkName(ctx, cafe.ID, req.Name, 0); err != nil {
		return nil, err
	}
	c := &model.Category{Name: req.Name, CafeID: cafe.ID}
	if err := s.categories.Create(ctx, c); err != nil {
		return nil, storeError(err, "name", msgCategoryNameTaken)
	}
	c.Products = []model.Product{}
	return c, nil
}

func (s *CategoryService) Update(ctx context.Context, cafe *model.Cafe, id uint, req dto.CategoryRequest) (*model.Category, error) {
	c, err := s.Get(ctx, cafe, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkName(ctx, cafe.ID, req.Name, c.ID); err != nil {
		return nil, err
	}
	c.Name = req.Name
	if err := s.categories.Update(ctx, c); err != nil {
		return nil, storeError(err, "name", msgCategoryNameTaken)
	}
	return c, nil
}

// Delete cascades to the category's products and removes their images.
func (s *CategoryService) Delete(ctx context.Context, cafe *model.Cafe, id uint) error {
	c, err := s.Get(ctx, cafe, id)
	if err != nil {
		return err
	}
	if err := s.categories.Delete(ctx, c); err != nil {
		return storeError(err, "", "")
	}
	keys := make([]string, 0, len(c.Products))
	for _, p := range c.Products {
		keys = append(keys, p.Image)
	}
	removeFiles(ctx, s.files, keys...)
	return nil
}

func (s *CategoryService) checkName(ctx context.Context, cafeID uint, name string, excludeID uint) error {
	taken, err := s.categories.ExistsByName(ctx, cafeID, name, excludeID)
	if err != nil {
		return apperr.Internal(err)
	}
	if taken {
		return apperr.Field("name", msgCategoryNameTaken)
	}
	return nil
}
