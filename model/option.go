package model

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OptionGroup groups selectable add-ons, e.g. "Size" with "small", "medium", "large".
// Group names are unique within a cafe.
type OptionGroup struct {
	ID      uint      `json:"id" gorm:"primaryKey"`
	UUID    uuid.UUID `json:"uuid" gorm:"type:uuid;uniqueIndex;not null"`
	Name    string    `json:"name" gorm:"size:30;not null;uniqueIndex:unique_option_group_per_cafe"`
	CafeID  uint      `json:"-" gorm:"not null;index;uniqueIndex:unique_option_group_per_cafe"`
	Cafe    *Cafe     `json:"-" gorm:"foreignKey:CafeID;constraint:OnDelete:CASCADE"`
	Options []Option  `json:"options" gorm:"foreignKey:OptionGroupID;constraint:OnDelete:CASCADE"`
}

func (o *OptionGroup) BeforeCreate(tx *gorm.DB) error {
	if o.UUID == uuid.Nil {
		o.UUID = uuid.New()
	}
	return nil
}

// Option names are unique within their group.
type Option struct {
	ID            uint         `json:"-" gorm:"primaryKey"`
	Name          string       `json:"name" gorm:"size:30;not null;uniqueIndex:unique_option_per_option_group"`
	AddPrice      int          `json:"add_price" gorm:"not null;check:add_price >= 0"`
	OptionGroupID uint         `json:"-" gorm:"not null;index;uniqueIndex:unique_option_per_option_group"`
	OptionGroup   *OptionGroup `json:"-" gorm:"foreignKey:OptionGroupID;constraint:OnDelete:CASCADE"`
}
