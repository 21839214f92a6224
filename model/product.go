package model

import (
	"time"

	"cafehere/hangul"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Product belongs to one category; its cafe is the category's cafe.
// Names are unique within a category.
type Product struct {
	ID               uint          `json:"id" gorm:"primaryKey"`
	UUID             uuid.UUID     `json:"uuid" gorm:"type:uuid;uniqueIndex;not null"`
	Name             string        `json:"name" gorm:"size:30;not null;uniqueIndex:unique_product_per_category"`
	Description      string        `json:"description" gorm:"type:text;not null"`
	Cost             int           `json:"cost" gorm:"not null;check:cost >= 0"`
	Price            int           `json:"price" gorm:"not null;check:price >= 0"`
	ExpirationDate   time.Time     `json:"expiration_date" gorm:"not null"`
	InitialConsonant string        `json:"-" gorm:"size:30;not null;index"`
	Image            string        `json:"-" gorm:"size:255"`
	CategoryID       uint          `json:"-" gorm:"not null;index;uniqueIndex:unique_product_per_category"`
	Category         *Category     `json:"-" gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE"`
	OptionGroups     []OptionGroup `json:"-" gorm:"many2many:product_option_groups;constraint:OnDelete:CASCADE"`
	CreatedAt        time.Time     `json:"created" gorm:"column:created"`
	UpdatedAt        time.Time     `json:"modified" gorm:"column:modified"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.UUID == uuid.Nil {
		p.UUID = uuid.New()
	}
	return nil
}

// BeforeSave keeps the search key in sync with the name on every write.
func (p *Product) BeforeSave(tx *gorm.DB) error {
	p.SyncInitialConsonant()
	return nil
}

func (p *Product) SyncInitialConsonant() {
	p.InitialConsonant = hangul.InitialConsonants(p.Name)
}

// CategoryName returns the preloaded category name, or "" when it was not loaded.
func (p *Product) CategoryName() string {
	if p.Category == nil {
		return ""
	}
	return p.Category.Name
}
