package gamification

import (
	"context"
	"time"

	"github.com/buckai/buckai-server/models"
	"github.com/buckai/buckai-server/utils"
)

// Achievement is a catalog entry: a one-time badge with an embedded unlock
// predicate over the stat snapshot. Points on the badge are informational
// only and are deliberately not folded into UserStats.TotalPoints: level
// arithmetic stays a pure function of the activity counters.
type Achievement struct {
	Type        string                             `json:"type"`
	Name        string                             `json:"name"`
	Description string                             `json:"description"`
	Points      int                                `json:"points"`
	BadgeIcon   string                             `json:"badgeIcon"`
	Condition   func(stats *models.UserStats) bool `json:"-"`
}

// Catalog is the fixed achievement table, evaluated in declaration order.
// Immutable at runtime.
var Catalog = []Achievement{
	{
		Type:        "first_transaction",
		Name:        "First Steps",
		Description: "Record your first transaction",
		Points:      10,
		BadgeIcon:   "🧾",
		Condition:   func(s *models.UserStats) bool { return s.TransactionsCreated >= 1 },
	},
	{
		Type:        "transaction_master",
		Name:        "Transaction Master",
		Description: "Record 50 transactions",
		Points:      100,
		BadgeIcon:   "📊",
		Condition:   func(s *models.UserStats) bool { return s.TransactionsCreated >= 50 },
	},
	{
		Type:        "first_invoice",
		Name:        "Getting Paid",
		Description: "Send your first invoice",
		Points:      15,
		BadgeIcon:   "💌",
		Condition:   func(s *models.UserStats) bool { return s.InvoicesSent >= 1 },
	},
	{
		Type:        "invoice_pro",
		Name:        "Invoice Pro",
		Description: "Send 25 invoices",
		Points:      75,
		BadgeIcon:   "📮",
		Condition:   func(s *models.UserStats) bool { return s.InvoicesSent >= 25 },
	},
	{
		Type:        "customer_builder",
		Name:        "People Person",
		Description: "Add 10 customers",
		Points:      50,
		BadgeIcon:   "🤝",
		Condition:   func(s *models.UserStats) bool { return s.CustomersAdded >= 10 },
	},
	{
		Type:        "bill_crusher",
		Name:        "Bill Crusher",
		Description: "Pay 20 bills",
		Points:      80,
		BadgeIcon:   "💸",
		Condition:   func(s *models.UserStats) bool { return s.BillsPaid >= 20 },
	},
	{
		Type:        "po_expert",
		Name:        "Procurement Expert",
		Description: "Create 10 purchase orders",
		Points:      60,
		BadgeIcon:   "📦",
		Condition:   func(s *models.UserStats) bool { return s.PurchaseOrdersCreated >= 10 },
	},
	{
		Type:        "voice_pioneer",
		Name:        "Voice Pioneer",
		Description: "Use 5 voice commands",
		Points:      25,
		BadgeIcon:   "🎙️",
		Condition:   func(s *models.UserStats) bool { return s.VoiceCommandsUsed >= 5 },
	},
	{
		Type:        "ai_friend",
		Name:        "AI Companion",
		Description: "Have 10 conversations with the assistant",
		Points:      30,
		BadgeIcon:   "🤖",
		Condition:   func(s *models.UserStats) bool { return s.AIConversations >= 10 },
	},
	{
		Type:        "week_warrior",
		Name:        "Week Warrior",
		Description: "Stay active 7 days in a row",
		Points:      70,
		BadgeIcon:   "🔥",
		Condition:   func(s *models.UserStats) bool { return s.StreakDays >= 7 },
	},
	{
		Type:        "dedicated_user",
		Name:        "Dedicated",
		Description: "Be active on 30 different days",
		Points:      150,
		BadgeIcon:   "🏆",
		Condition:   func(s *models.UserStats) bool { return s.DaysActive >= 30 },
	},
}

// checkAchievements diffs a stat snapshot against the user's existing
// unlocks and persists anything newly satisfied, in catalog order. Each
// insert is isolated: a failed write drops that badge from this call's
// result and leaves it to be re-earned on the next event, since its
// condition stays true and no record was stored. A duplicate-key failure
// means a concurrent event got there first and is treated as already
// unlocked.
func checkAchievements(ctx context.Context, unlocks UnlockStore, userID uint, stats *models.UserStats, now time.Time) []Achievement {
	existing, err := unlocks.ListTypes(ctx, userID)
	if err != nil {
		utils.Sugar.Warnw("achievement unlock list failed", "user_id", userID, "err", err)
		return nil
	}

	unlocked := make(map[string]bool, len(existing))
	for _, t := range existing {
		unlocked[t] = true
	}

	var newly []Achievement
	for _, a := range Catalog {
		if unlocked[a.Type] || !a.Condition(stats) {
			continue
		}
		record := &models.UserAchievement{
			UserID:          userID,
			AchievementType: a.Type,
			UnlockedAt:      now,
		}
		if err := unlocks.Create(ctx, record); err != nil {
			if err != ErrAlreadyUnlocked {
				utils.Sugar.Warnw("achievement unlock write failed", "user_id", userID, "type", a.Type, "err", err)
			}
			continue
		}
		newly = append(newly, a)
	}
	return newly
}
