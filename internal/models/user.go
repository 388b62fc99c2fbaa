package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

type User struct {
	BaseEntity
	Username         string     `gorm:"uniqueIndex;size:50;not null" json:"username"`
	Email            string     `gorm:"uniqueIndex;size:100;not null" json:"email"`
	Password         string     `gorm:"size:255;not null" json:"-"`
	FirstName        *string    `gorm:"size:100" json:"first_name,omitempty"`
	LastName         *string    `gorm:"size:100" json:"last_name,omitempty"`
	Role             string     `gorm:"size:20;default:'user'" json:"role"`
	TwoFactorEnabled bool       `gorm:"default:false" json:"two_factor_enabled"`
	TwoFactorSecret  string     `gorm:"size:100" json:"-"`
	LastLoginAt      *time.Time `json:"last_login_at,omitempty"`
}

func (u *User) SetPassword(password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hash)
	return nil
}

func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
	return err == nil
}

func (u *User) IsAdmin() bool {
	return u.Role == "admin"
}
