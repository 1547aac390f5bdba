package domain

import "time"

// Income Model
type Income struct {
	ID        uint      `gorm:"primaryKey" json:"id"`          // Primary key
	UserID    uint      `gorm:"index;not null" json:"user_id"` // Owning user
	Amount    float64   `gorm:"not null" json:"amount"`        // Income amount
	Month     string    `json:"month"`                         // Free-form month label, e.g. "2026-02"
	CreatedAt time.Time `json:"created_at"`
}
