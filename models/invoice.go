package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Invoice statuses. An invoice moves draft -> sent -> paid; send is the
// action that emails the customer and counts as gamified activity.
const (
	InvoiceStatusDraft = "draft"
	InvoiceStatusSent  = "sent"
	InvoiceStatusPaid  = "paid"
)

// Invoice is a billable document addressed to one of the user's customers.
type Invoice struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	UserID        uint            `gorm:"index;not null" json:"user_id"`
	CustomerID    uint            `gorm:"index;not null" json:"customer_id"`
	InvoiceNumber string          `gorm:"size:32;not null" json:"invoice_number"`
	Amount        decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"amount"`
	Status        string          `gorm:"size:16;default:'draft'" json:"status"`
	DueDate       string          `gorm:"size:10" json:"due_date"` // YYYY-MM-DD
	Notes         string          `gorm:"type:text" json:"notes"`
	SentAt        *time.Time      `json:"sent_at"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	Customer      Customer        `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"customer"`
}
