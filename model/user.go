package model

import (
	"regexp"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MobilePattern is the accepted mobile-number format: "+" country code "-" subscriber number.
var MobilePattern = regexp.MustCompile(`^\+[0-9]{1,4}-[0-9]{1,14}$`)

// MobileMaxLength is the width of the mobile column. MobilePattern alone admits longer numbers.
const MobileMaxLength = 18

// ValidMobile reports whether mobile matches MobilePattern.
func ValidMobile(mobile string) bool {
	return MobilePattern.MatchString(mobile)
}

type User struct {
	ID           uint       `json:"-" gorm:"primaryKey"`
	UUID         uuid.UUID  `json:"uuid" gorm:"type:uuid;uniqueIndex;not null"`
	Mobile       string     `json:"mobile" gorm:"size:18;uniqueIndex;not null"`
	PasswordHash string     `json:"-" gorm:"column:password;not null"`
	IsActive     bool       `json:"is_active" gorm:"not null;default:true"`
	IsStaff      bool       `json:"is_staff" gorm:"not null;default:false"`
	IsSuperuser  bool       `json:"is_superuser" gorm:"not null;default:false"`
	LastLogin    *time.Time `json:"last_login"`
	CreatedAt    time.Time  `json:"created" gorm:"column:created"`
	UpdatedAt    time.Time  `json:"modified" gorm:"column:modified"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.UUID == uuid.Nil {
		u.UUID = uuid.New()
	}
	return nil
}
