package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Bill statuses.
const (
	BillStatusUnpaid = "unpaid"
	BillStatusPaid   = "paid"
)

// Bill is a payable owed by the user to a vendor.
type Bill struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	UserID    uint            `gorm:"index;not null" json:"user_id"`
	Vendor    string          `gorm:"size:128;not null" json:"vendor"`
	Amount    decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"amount"`
	DueDate   string          `gorm:"size:10" json:"due_date"` // YYYY-MM-DD
	Status    string          `gorm:"size:16;default:'unpaid'" json:"status"`
	PaidAt    *time.Time      `json:"paid_at"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}
