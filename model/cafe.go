package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Cafe names are unique per owner, not globally.
type Cafe struct {
	ID        uint      `json:"-" gorm:"primaryKey"`
	UUID      uuid.UUID `json:"uuid" gorm:"type:uuid;uniqueIndex;not null"`
	Name      string    `json:"name" gorm:"size:30;not null;uniqueIndex:unique_cafe_name_per_user"`
	OwnerID   uint      `json:"-" gorm:"not null;index;uniqueIndex:unique_cafe_name_per_user"`
	Owner     *User     `json:"-" gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time `json:"created" gorm:"column:created"`
	UpdatedAt time.Time `json:"modified" gorm:"column:modified"`
}

func (Cafe) TableName() string { return "cafes" }

func (c *Cafe) BeforeCreate(tx *gorm.DB) error {
	if c.UUID == uuid.Nil {
		c.UUID = uuid.New()
	}
	return nil
}

func (c *Cafe) OwnedBy(user *User) bool {
	return user != nil && c.OwnerID == user.ID
}
