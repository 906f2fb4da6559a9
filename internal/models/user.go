package models

import "time"

type User struct {
	BaseModel
	Email               string     `gorm:"uniqueIndex;not null" json:"email"`
	Name                string     `json:"name"`
	PasswordHash        string     `json:"-"`
	MustChangePassword  bool       `gorm:"not null;default:false" json:"must_change_password"`
	MagicTokenHash      string     `gorm:"index" json:"-"`
	MagicTokenExpiresAt *time.Time `json:"-"`
	LastSignInAt        *time.Time `json:"last_sign_in_at,omitempty"`

	Role    *UserRole `gorm:"foreignKey:UserID" json:"role,omitempty"`
	Profile *Profile  `gorm:"foreignKey:UserID" json:"profile,omitempty"`
}

// UserRole - one role per user
type UserRole struct {
	BaseModel
	UserID string `gorm:"type:varchar(36);uniqueIndex;not null" json:"user_id"`
	Role   Role   `gorm:"type:varchar(20);not null" json:"role"`
}
