package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PurchaseOrder statuses.
const (
	PurchaseOrderStatusOpen     = "open"
	PurchaseOrderStatusReceived = "received"
	PurchaseOrderStatusClosed   = "closed"
)

// PurchaseOrder is an order placed with a vendor.
type PurchaseOrder struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	UserID      uint            `gorm:"index;not null" json:"user_id"`
	OrderNumber string          `gorm:"size:32;not null" json:"order_number"`
	Vendor      string          `gorm:"size:128;not null" json:"vendor"`
	Amount      decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"amount"`
	Status      string          `gorm:"size:16;default:'open'" json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
