package models

import "time"

// UserStats is the per-user gamification snapshot, one row per user.
// TotalPoints and Level are always recomputed from the counters at write
// time and never mutated independently.
//
// JSON tags are camelCase because this payload is consumed by the frontend
// through the gamification dispatch endpoint, which predates this server.
type UserStats struct {
	ID                    uint      `gorm:"primaryKey" json:"-"`
	UserID                uint      `gorm:"uniqueIndex;not null" json:"userId"`
	TransactionsCreated   int       `gorm:"default:0" json:"transactionsCreated"`
	InvoicesSent          int       `gorm:"default:0" json:"invoicesSent"`
	CustomersAdded        int       `gorm:"default:0" json:"customersAdded"`
	BillsCreated          int       `gorm:"default:0" json:"billsCreated"`
	BillsPaid             int       `gorm:"default:0" json:"billsPaid"`
	PurchaseOrdersCreated int       `gorm:"default:0" json:"purchaseOrdersCreated"`
	VoiceCommandsUsed     int       `gorm:"default:0" json:"voiceCommandsUsed"`
	AIConversations       int       `gorm:"column:ai_conversations;default:0" json:"aiConversations"`
	DaysActive            int       `gorm:"default:0" json:"daysActive"`
	StreakDays            int       `gorm:"default:0" json:"streakDays"`
	LastActivityDate      string    `gorm:"size:10" json:"lastActivityDate"` // YYYY-MM-DD
	TotalPoints           int       `gorm:"default:0" json:"totalPoints"`
	Level                 int       `gorm:"default:1" json:"level"`
	CreatedAt             time.Time `json:"-"`
	UpdatedAt             time.Time `json:"updatedAt"`
}
