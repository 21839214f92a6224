package dto

import (
	"time"

	"cafehere/model"

	"github.com/google/uuid"
)

// ProductFields are shared by create and update. Cost and Price are pointers
// so an explicit 0 passes "required".
type ProductFields struct {
	Name           string     `json:"name" form:"name" binding:"required,max=30"`
	Description    string     `json:"description" form:"description" binding:"required,max=30"`
	Cost           *int       `json:"cost" form:"cost" binding:"required,min=0"`
	Price          *int       `json:"price" form:"price" binding:"required,min=0"`
	ExpirationDate *time.Time `json:"expiration_date" form:"expiration_date" binding:"required" time_format:"2006-01-02T15:04:05Z07:00"`
	OptionGroups   []uint     `json:"option_groups" form:"option_groups"`
}

type CreateProductRequest struct {
	ProductFields
	Category uint `json:"category" form:"category" binding:"required"`
}

// UpdateProductRequest keeps the current category when Category is omitted.
type UpdateProductRequest struct {
	ProductFields
	Category *uint `json:"category" form:"category"`
}

type ProductListQuery struct {
	Search   string `form:"search"`
	Category string `form:"category"`
}

type ProductResponse struct {
	ID             uint      `json:"id"`
	UUID           uuid.UUID `json:"uuid"`
	Name           string    `json:"name"`
	Description    string    `json:"description"`
	Cost           int       `json:"cost"`
	Price          int       `json:"price"`
	ExpirationDate time.Time `json:"expiration_date"`
	Category       uint      `json:"category"`
	CategoryName   string    `json:"category_name"`
	OptionGroups   []uint    `json:"option_groups"`
	Image          string    `json:"image,omitempty"`
	Created        time.Time `json:"created"`
	Modified       time.Time `json:"modified"`
}

// NewProductResponse renders p; imageURL is the public URL of p.Image, if any.
func NewProductResponse(p *model.Product, imageURL string) ProductResponse {
	groups := make([]uint, 0, len(p.OptionGroups))
	for _, g := range p.OptionGroups {
		groups = append(groups, g.ID)
	}
	return ProductResponse{
		ID:             p.ID,
		UUID:           p.UUID,
		Name:           p.Name,
		Description:    p.Description,
		Cost:           p.Cost,
		Price:          p.Price,
		ExpirationDate: p.ExpirationDate,
		Category:       p.CategoryID,
		CategoryName:   p.CategoryName(),
		OptionGroups:   groups,
		Image:          imageURL,
		Created:        p.CreatedAt,
		Modified:       p.UpdatedAt,
	}
}

// ─── Bulk import ─────────────────────────────────────────────────────────────

type ImportSkip struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

type ImportResult struct {
	Created int          `json:"created"`
	Skipped []ImportSkip `json:"skipped"`
}
