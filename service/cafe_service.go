package service

import (
	"context"

	"cafehere/apperr"
	"cafehere/dto"
	"cafehere/model"
	"cafehere/repository"
	"cafehere/storage"
)

type CafeService struct {
	cafes    repository.CafeRepository
	products repository.ProductRepository
	files    storage.Storage
}

func NewCafeService(cafes repository.CafeRepository, products repository.ProductRepository, files storage.Storage) *CafeService {
	return &CafeService{cafes: cafes, products: products, files: files}
}

func (s *CafeService) List(ctx context.Context, owner *model.User) ([]model.Cafe, error) {
	cafes, err := s.cafes.ListByOwner(ctx, owner.ID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return cafes, nil
}

// Create assigns the caller as owner; the body cannot choose one.
func (s *CafeService) Create(ctx context.Context, owner *model.User, req dto.CafeRequest) (*model.Cafe, error) {
	taken, err := s.cafes.ExistsByName(ctx, owner.ID, req.Name, 0)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if taken {
		return nil, apperr.Field("name", msgCafeNameTaken)
	}
	cafe := &model.Cafe{Name: req.Name, OwnerID: owner.ID}
	if err := s.cafes.Create(ctx, cafe); err != nil {
		return nil, storeError(err, "name", msgCafeNameTaken)
	}
	return cafe, nil
}

func (s *CafeService) Update(ctx context.Context, cafe *model.Cafe, req dto.CafeRequest) (*model.Cafe, error) {
	taken, err := s.cafes.ExistsByName(ctx, cafe.OwnerID, req.Name, cafe.ID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if taken {
		return nil, apperr.Field("name", msgCafeNameTaken)
	}
	updated := *cafe
	updated.Name = req.Name
	if err := s.cafes.Update(ctx, &updated); err != nil {
		return nil, storeError(err, "name", msgCafeNameTaken)
	}
	return &updated, nil
}

// Delete removes the cafe with everything under it, then the product images.
func (s *CafeService) Delete(ctx context.Context, cafe *model.Cafe) error {
	products, err := s.products.ListByCafe(ctx, cafe.ID, repository.ProductFilter{})
	if err != nil {
		return apperr.Internal(err)
	}
	if err := s.cafes.Delete(ctx, cafe); err != nil {
		return storeError(err, "", "")
	}
	keys := make([]string, 0, len(products))
	for _, p := range products {
		keys = append(keys, p.Image)
	}
	removeFiles(ctx, s.files, keys...)
	return nil
}
