package dto

import (
	"testing"
	"time"

	"cafehere/model"

	"github.com/stretchr/testify/assert"
)

func TestCategoryResponseCountsProducts(t *testing.T) {
	c := &model.Category{ID: 3, Name: "coffee", Products: []model.Product{{Name: "latte"}, {Name: "mocha"}}}
	resp := NewCategoryResponse(c)
	assert.Equal(t, []string{"latte", "mocha"}, resp.Products)
	assert.Equal(t, 2, resp.ProductsCount)

	empty := NewCategoryResponse(&model.Category{Name: "tea"})
	assert.NotNil(t, empty.Products)
	assert.Zero(t, empty.ProductsCount)
}

func TestOptionGroupResponse(t *testing.T) {
	g := &model.OptionGroup{Name: "size", Options: []model.Option{{Name: "large", AddPrice: 500}}}
	resp := NewOptionGroupResponse(g)
	assert.Equal(t, []OptionResponse{{Name: "large", AddPrice: 500}}, resp.Options)
	assert.Equal(t, 1, resp.OptionsCount)
}

func TestProductResponse(t *testing.T) {
	exp := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	p := &model.Product{
		ID:             9,
		Name:           "latte",
		Price:          4500,
		ExpirationDate: exp,
		CategoryID:     2,
		Category:       &model.Category{ID: 2, Name: "coffee"},
		OptionGroups:   []model.OptionGroup{{ID: 4}, {ID: 5}},
	}
	resp := NewProductResponse(p, "/uploads/products/x.png")
	assert.Equal(t, "coffee", resp.CategoryName)
	assert.Equal(t, []uint{4, 5}, resp.OptionGroups)
	assert.Equal(t, "/uploads/products/x.png", resp.Image)
	assert.Equal(t, exp, resp.ExpirationDate)

	assert.Empty(t, NewCafeListResponse(nil))
	assert.NotNil(t, NewCafeListResponse(nil))
}
