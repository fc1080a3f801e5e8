package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Role labels carried in auth tokens.
const (
	RoleAdmin   = "admin"
	RoleTeacher = "teacher"
)

// User is a login account. Admin accounts carry a password credential;
// teacher accounts are created lazily at first login and have none.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"size:255;not null" json:"name"`
	Email        string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"size:256" json:"-"`
	IsAdmin      bool      `gorm:"not null;default:false" json:"is_admin"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// SetPassword hashes and stores the given password.
func (u *User) SetPassword(password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	u.PasswordHash = string(hash)
	return nil
}

// CheckPassword reports whether the given password matches the stored hash.
func (u User) CheckPassword(password string) bool {
	if u.PasswordHash == "" {
		return false
	}

	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// Role returns the role label used in auth tokens.
func (u User) Role() string {
	if u.IsAdmin {
		return RoleAdmin
	}

	return RoleTeacher
}
