package domain

import "time"

// Expense categories follow the 50/30/20 budgeting split.
const (
	CategoryNeed   = "Need"
	CategoryWant   = "Want"
	CategorySaving = "Saving"
)

// Expense Model
type Expense struct {
	ID        uint      `gorm:"primaryKey" json:"id"`          // Primary key
	UserID    uint      `gorm:"index;not null" json:"user_id"` // Owning user
	Amount    float64   `gorm:"not null" json:"amount"`        // Spent amount
	Category  string    `gorm:"not null" json:"category"`      // One of Need, Want, Saving
	Note      string    `json:"note"`                          // Optional free text
	CreatedAt time.Time `json:"created_at"`
}

// ValidCategory reports whether c is one of the accepted expense categories
func ValidCategory(c string) bool {
	return c == CategoryNeed || c == CategoryWant || c == CategorySaving
}

// Validate returns human-readable validation messages, empty when the record is valid
func (e *Expense) Validate() []string {
	var errs []string
	if !ValidCategory(e.Category) {
		errs = append(errs, "Category is not included in the list")
	}
	return errs
}
