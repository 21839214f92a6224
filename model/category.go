package model

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Category is deleted together with its cafe. Names are unique within a cafe.
type Category struct {
	ID       uint      `json:"id" gorm:"primaryKey"`
	UUID     uuid.UUID `json:"uuid" gorm:"type:uuid;uniqueIndex;not null"`
	Name     string    `json:"name" gorm:"size:30;not null;uniqueIndex:unique_category_per_cafe"`
	CafeID   uint      `json:"-" gorm:"not null;index;uniqueIndex:unique_category_per_cafe"`
	Cafe     *Cafe     `json:"-" gorm:"foreignKey:CafeID;constraint:OnDelete:CASCADE"`
	Products []Product `json:"-" gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE"`
}

func (Category) TableName() string { return "categories" }

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.UUID == uuid.Nil {
		c.UUID = uuid.New()
	}
	return nil
}
