package model

import (
	"time"

	"github.com/google/uuid"
)

// BlacklistedToken records a refresh token that may never be used again,
// either because it was rotated or because its owner logged out.
type BlacklistedToken struct {
	ID            uint      `gorm:"primaryKey"`
	JTI           string    `gorm:"column:jti;size:64;uniqueIndex;not null"`
	UserUUID      uuid.UUID `gorm:"type:uuid;index"`
	ExpiresAt     time.Time `gorm:"not null;index"`
	BlacklistedAt time.Time `gorm:"not null"`
}
