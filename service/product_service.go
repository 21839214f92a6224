package service

import (
	"context"
	"errors"
	"io"
	"slices"

	"cafehere/apperr"
	"cafehere/dto"
	"cafehere/model"
	"cafehere/repository"
	"cafehere/storage"

	"github.com/rs/zerolog/log"
)

type ProductService struct {
	products     repository.ProductRepository
	categories   repository.CategoryRepository
	groups       repository.OptionGroupRepository
	files        storage.Storage
	maxImageSize int64
}

func NewProductService(store *repository.Store, files storage.Storage, maxImageSize int64) *ProductService {
	return &ProductService{
		products:     store.Products,
		categories:   store.Categories,
		groups:       store.OptionGroups,
		files:        files,
		maxImageSize: maxImageSize,
	}
}

func (s *ProductService) List(ctx context.Context, cafe *model.Cafe, q dto.ProductListQuery) ([]model.Product, error) {
	products, err := s.products.ListByCafe(ctx, cafe.ID, repository.ProductFilter{Search: q.Search, Category: q.Category})
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return products, nil
}

func (s *ProductService) Get(ctx context.Context, cafe *model.Cafe, id uint) (*model.Product, error) {
	p, err := s.products.FindInCafe(ctx, cafe.ID, id)
	if err != nil {
		return nil, storeError(err, "", "")
	}
	return p, nil
}

func (s *ProductService) Create(ctx context.Context, cafe *model.Cafe, req dto.CreateProductRequest) (*model.Product, error) {
	category, err := s.category(ctx, cafe, req.Category)
	if err != nil {
		return nil, err
	}
	groups, err := s.optionGroups(ctx, cafe, req.OptionGroups)
	if err != nil {
		return nil, err
	}
	if err := s.checkName(ctx, category.ID, req.Name, 0); err != nil {
		return nil, err
	}

	p := &model.Product{CategoryID: category.ID, OptionGroups: groups}
	applyFields(p, req.ProductFields)
	if err := s.products.Create(ctx, p); err != nil {
		return nil, storeError(err, "name", msgProductNameTaken)
	}
	p.Category = category
	return p, nil
}

func (s *ProductService) Update(ctx context.Context, cafe *model.Cafe, id uint, req dto.UpdateProductRequest) (*model.Product, error) {
	p, err := s.Get(ctx, cafe, id)
	if err != nil {
		return nil, err
	}
	category := p.Category
	if req.Category != nil && *req.Category != p.CategoryID {
		if category, err = s.category(ctx, cafe, *req.Category); err != nil {
			return nil, err
		}
	}
	groups, err := s.optionGroups(ctx, cafe, req.OptionGroups)
	if err != nil {
		return nil, err
	}
	if err := s.checkName(ctx, category.ID, req.Name, p.ID); err != nil {
		return nil, err
	}

	p.CategoryID, p.Category, p.OptionGroups = category.ID, category, groups
	applyFields(p, req.ProductFields)
	if err := s.products.Update(ctx, p); err != nil {
		return nil, storeError(err, "name", msgProductNameTaken)
	}
	return p, nil
}

func (s *ProductService) Delete(ctx context.Context, cafe *model.Cafe, id uint) error {
	p, err := s.Get(ctx, cafe, id)
	if err != nil {
		return err
	}
	if err := s.products.Delete(ctx, p); err != nil {
		return storeError(err, "", "")
	}
	removeFiles(ctx, s.files, p.Image)
	return nil
}

// SetImage stores a new image for the product and removes the one it replaces.
func (s *ProductService) SetImage(ctx context.Context, cafe *model.Cafe, id uint, filename string, size int64, r io.Reader) (*model.Product, error) {
	ext, contentType, err := storage.ValidateImage(filename, size, s.maxImageSize)
	if err != nil {
		return nil, err
	}
	p, err := s.Get(ctx, cafe, id)
	if err != nil {
		return nil, err
	}

	key := storage.ProductImageKey(p.ID, ext)
	if err := s.files.Save(ctx, key, r, size, contentType); err != nil {
		return nil, apperr.Internal(err)
	}
	previous := p.Image
	p.Image = key
	if err := s.products.Update(ctx, p); err != nil {
		removeFiles(ctx, s.files, key)
		return nil, storeError(err, "name", msgProductNameTaken)
	}
	removeFiles(ctx, s.files, previous)
	return p, nil
}

// ImageURL returns "" when the product has no image or the URL cannot be built.
func (s *ProductService) ImageURL(ctx context.Context, p *model.Product) string {
	if p.Image == "" {
		return ""
	}
	url, err := s.files.URL(ctx, p.Image)
	if err != nil {
		log.Warn().Err(err).Uint("product", p.ID).Msg("failed to build image url")
		return ""
	}
	return url
}

func (s *ProductService) category(ctx context.Context, cafe *model.Cafe, id uint) (*model.Category, error) {
	c, err := s.categories.FindInCafe(ctx, cafe.ID, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.Field("category", msgForeignCategory)
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return c, nil
}

// optionGroups resolves ids within the cafe; any id outside it fails the whole request.
func (s *ProductService) optionGroups(ctx context.Context, cafe *model.Cafe, ids []uint) ([]model.OptionGroup, error) {
	unique := slices.Compact(slices.Sorted(slices.Values(ids)))
	groups, err := s.groups.FindManyInCafe(ctx, cafe.ID, unique)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if len(groups) != len(unique) {
		return nil, apperr.Field("option_groups", msgForeignOptionGroups)
	}
	return groups, nil
}

func (s *ProductService) checkName(ctx context.Context, categoryID uint, name string, excludeID uint) error {
	taken, err := s.products.ExistsByName(ctx, categoryID, name, excludeID)
	if err != nil {
		return apperr.Internal(err)
	}
	if taken {
		return apperr.Field("name", msgProductNameTaken)
	}
	return nil
}

func applyFields(p *model.Product, f dto.ProductFields) {
	p.Name = f.Name
	p.Description = f.Description
	p.Cost = *f.Cost
	p.Price = *f.Price
	p.ExpirationDate = f.ExpirationDate.UTC()
	p.SyncInitialConsonant()
}
