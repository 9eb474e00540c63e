package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is a single income or expense entry in a user's books.
type Transaction struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	UserID      uint            `gorm:"index;not null" json:"user_id"`
	Type        string          `gorm:"size:16;not null" json:"type"` // income | expense
	Category    string          `gorm:"size:64" json:"category"`
	Description string          `gorm:"size:255" json:"description"`
	Amount      decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"amount"`
	Date        string          `gorm:"size:10;not null" json:"date"` // YYYY-MM-DD
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
