package domain

import "time"

// User Model
type User struct {
	ID             uint       `gorm:"primaryKey" json:"id"`              // Primary key
	Name           string     `gorm:"not null" json:"name"`              // Display name
	Email          string     `gorm:"uniqueIndex;not null" json:"email"` // Unique, stored lowercased and trimmed
	PasswordDigest string     `gorm:"not null" json:"-"`                 // bcrypt hash, never serialized
	AuthToken      *string    `gorm:"uniqueIndex" json:"-"`              // Active bearer token, nil when logged out
	TokenExpiresAt *time.Time `json:"-"`                                 // Set together with AuthToken, cleared together
	CreatedAt      time.Time  `json:"-"`

	Incomes  []Income  `gorm:"constraint:OnDelete:CASCADE;" json:"-"` // Owned records, removed with the user
	Expenses []Expense `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
	Budgets  []Budget  `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
}

// PublicUser is the subset of user fields safe to return to a client
type PublicUser struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Public returns the client-facing view of the user (no hash, no token)
func (u *User) Public() PublicUser {
	return PublicUser{ID: u.ID, Name: u.Name, Email: u.Email}
}
