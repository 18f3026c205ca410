package model

import (
	"time"
)

const (
	UserStatusActive  = "active"
	UserStatusDeleted = "deleted"
)

type User struct {
	ID           uint64     `gorm:"primaryKey"`
	Username     string     `gorm:"type:varchar(50);uniqueIndex:idx_username;not null"`
	Email        string     `gorm:"type:varchar(100);uniqueIndex:idx_email;not null"`
	Fullname     string     `gorm:"type:varchar(100)"`
	Status       string     `gorm:"type:varchar(16);not null;default:active"`
	IsVerified   bool       `gorm:"not null;default:false"`
	OTP          *string    `gorm:"type:varchar(10)"`
	OTPExpiresAt *time.Time `gorm:"column:otp_expires_at"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (User) TableName() string {
	return "users"
}

func (u *User) IsActive() bool {
	return u != nil && u.Status == UserStatusActive
}
