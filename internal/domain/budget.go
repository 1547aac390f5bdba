package domain

import "time"

// Budget Model
type Budget struct {
	ID             uint      `gorm:"primaryKey" json:"id"`          // Primary key
	UserID         uint      `gorm:"index;not null" json:"user_id"` // Owning user
	NeedsPercent   int       `json:"needs_percent"`                 // Share allocated to needs
	WantsPercent   int       `json:"wants_percent"`                 // Share allocated to wants
	SavingsPercent int       `json:"savings_percent"`               // Share allocated to savings
	CreatedAt      time.Time `json:"created_at"`
}

// Validate returns human-readable validation messages, empty when the record is valid.
// The three percentages must sum to exactly 100; a near miss is never corrected silently.
func (b *Budget) Validate() []string {
	var errs []string
	if b.NeedsPercent+b.WantsPercent+b.SavingsPercent != 100 {
		errs = append(errs, "The total allocation must equal 100%")
	}
	return errs
}
