package dto

import (
	"cafehere/model"

	"github.com/google/uuid"
)

// ─── Category ────────────────────────────────────────────────────────────────

type CategoryRequest struct {
	Name string `json:"name" form:"name" binding:"required,max=30"`
}

type CategoryResponse struct {
	ID            uint      `json:"id"`
	UUID          uuid.UUID `json:"uuid"`
	Name          string    `json:"name"`
	Products      []string  `json:"products"`
	ProductsCount int       `json:"products_count"`
}

func NewCategoryResponse(c *model.Category) CategoryResponse {
	names := make([]string, 0, len(c.Products))
	for _, p := range c.Products {
		names = append(names, p.Name)
	}
	return CategoryResponse{ID: c.ID, UUID: c.UUID, Name: c.Name, Products: names, ProductsCount: len(names)}
}

func NewCategoryListResponse(categories []model.Category) []CategoryResponse {
	out := make([]CategoryResponse, 0, len(categories))
	for i := range categories {
		out = append(out, NewCategoryResponse(&categories[i]))
	}
	return out
}

// ─── Option group ────────────────────────────────────────────────────────────

// AddPrice is a pointer so an explicit 0 passes "required".
type OptionRequest struct {
	Name     string `json:"name" form:"name" binding:"required,max=30"`
	AddPrice *int   `json:"add_price" form:"add_price" binding:"required,min=0"`
}

type OptionGroupRequest struct {
	Name    string          `json:"name" form:"name" binding:"required,max=30"`
	Options []OptionRequest `json:"options" form:"options" binding:"required,dive"`
}

type OptionResponse struct {
	Name     string `json:"name"`
	AddPrice int    `json:"add_price"`
}

type OptionGroupResponse struct {
	ID           uint             `json:"id"`
	UUID         uuid.UUID        `json:"uuid"`
	Name         string           `json:"name"`
	Options      []OptionResponse `json:"options"`
	OptionsCount int              `json:"options_count"`
}

func NewOptionGroupResponse(g *model.OptionGroup) OptionGroupResponse {
	options := make([]OptionResponse, 0, len(g.Options))
	for _, o := range g.Options {
		options = append(options, OptionResponse{Name: o.Name, AddPrice: o.AddPrice})
	}
	return OptionGroupResponse{ID: g.ID, UUID: g.UUID, Name: g.Name, Options: options, OptionsCount: len(options)}
}

func NewOptionGroupListResponse(groups []model.OptionGroup) []OptionGroupResponse {
	out := make([]OptionGroupResponse, 0, len(groups))
	for i := range groups {
		out = append(out, NewOptionGroupResponse(&groups[i]))
	}
	return out
}
