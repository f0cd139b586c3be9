package models

// User is the ownership anchor for categories and transactions.
// Deactivated users keep their row with IsActive=false.
type User struct {
	Base
	Email       string `gorm:"size:255;uniqueIndex;not null" json:"email"`
	FirstName   string `gorm:"size:100;not null" json:"first_name"`
	LastName    string `gorm:"size:100;not null" json:"last_name"`
	PhoneNumber string `gorm:"size:32" json:"phone_number,omitempty"`
	AvatarURL   string `gorm:"size:512" json:"avatar_url,omitempty"`
	IsActive    bool   `gorm:"not null;default:true" json:"is_active"`
}
