package dto

import (
	"time"

	"cafehere/model"

	"github.com/google/uuid"
)

type CafeRequest struct {
	Name string `json:"name" form:"name" binding:"required,max=30"`
}

type CafeResponse struct {
	UUID     uuid.UUID `json:"uuid"`
	Name     string    `json:"name"`
	Created  time.Time `json:"created"`
	Modified time.Time `json:"modified"`
}

func NewCafeResponse(c *model.Cafe) CafeResponse {
	return CafeResponse{UUID: c.UUID, Name: c.Name, Created: c.CreatedAt, Modified: c.UpdatedAt}
}

func NewCafeListResponse(cafes []model.Cafe) []CafeResponse {
	out := make([]CafeResponse, 0, len(cafes))
	for i := range cafes {
		out = append(out, NewCafeResponse(&cafes[i]))
	}
	return out
}
