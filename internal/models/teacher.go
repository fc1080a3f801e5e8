package models

import "time"

// Teacher is a staff member who clocks in to shifts. A teacher may be linked
// to a login account; the link is created the first time they log in.
type Teacher struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Email     string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Active    bool      `gorm:"not null;default:true" json:"active"`
	UserID    *uint     `gorm:"uniqueIndex" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HasAccount reports whether the teacher is linked to a login account.
func (t Teacher) HasAccount() bool {
	return t.UserID != nil
}
