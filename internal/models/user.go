package models

import "time"

type User struct {
	BaseModel
	Name         string   `gorm:"not null" json:"name"`
	Email        string   `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string   `gorm:"not null" json:"-"`
	Role         UserRole `gorm:"type:varchar(20);not null;default:'user'" json:"role"`

	// Password reset: only the SHA-256 hex of the token is persisted,
	// the plaintext goes to the user by email.
	ResetPasswordToken  string     `json:"-"`
	ResetPasswordExpire *time.Time `json:"-"`

	// Relations
	Bootcamps []Bootcamp `gorm:"foreignKey:UserID" json:"-"`
}
