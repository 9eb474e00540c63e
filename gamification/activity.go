// Package gamification implements Buck AI's activity scoring engine:
// cumulative per-user stats, derived points and level, one-time achievement
// unlocks and per-day challenges. The engine is triggered best-effort from
// the primary CRUD actions; its failures must never abort those actions.
package gamification

import (
	"time"

	"github.com/buckai/buckai-server/models"
)

// ActivityType identifies a gamified user action.
type ActivityType string

const (
	ActivityTransactionCreated   ActivityType = "transaction_created"
	ActivityInvoiceSent          ActivityType = "invoice_sent"
	ActivityCustomerAdded        ActivityType = "customer_added"
	ActivityBillCreated          ActivityType = "bill_created"
	ActivityBillPaid             ActivityType = "bill_paid"
	ActivityPurchaseOrderCreated ActivityType = "purchase_order_created"
	ActivityVoiceCommandUsed     ActivityType = "voice_command_used"
	ActivityAIConversation       ActivityType = "ai_conversation"
)

const dateLayout = "2006-01-02"

// DateOf formats t as the calendar date used throughout the engine.
func DateOf(t time.Time) string {
	return t.Format(dateLayout)
}

func yesterdayOf(date string) string {
	t, err := time.Parse(dateLayout, date)
	if err != nil {
		return ""
	}
	return t.AddDate(0, 0, -1).Format(dateLayout)
}

// applyActivity mutates a stat snapshot in place for one activity event:
// bump the matching counter (unknown types bump nothing), roll the calendar
// streak, and recompute the derived points and level. The date/streak rule:
// a day already recorded leaves streakDays and daysActive untouched; a new
// day increments daysActive and either extends the streak (yesterday active)
// or resets it to 1.
func applyActivity(stats *models.UserStats, activity ActivityType, today string) {
	switch activity {
	case ActivityTransactionCreated:
		stats.TransactionsCreated++
	case ActivityInvoiceSent:
		stats.InvoicesSent++
	case ActivityCustomerAdded:
		stats.CustomersAdded++
	case ActivityBillCreated:
		stats.BillsCreated++
	case ActivityBillPaid:
		stats.BillsPaid++
	case ActivityPurchaseOrderCreated:
		stats.PurchaseOrdersCreated++
	case ActivityVoiceCommandUsed:
		stats.VoiceCommandsUsed++
	case ActivityAIConversation:
		stats.AIConversations++
	default:
		// Unrecognized activity types still pass through the streak logic.
	}

	if stats.LastActivityDate != today {
		if stats.LastActivityDate == yesterdayOf(today) {
			stats.StreakDays++
		} else {
			stats.StreakDays = 1
		}
		stats.DaysActive++
		stats.LastActivityDate = today
	}

	stats.TotalPoints = ComputePoints(stats)
	stats.Level = LevelFor(stats.TotalPoints)
}

// defaultStats returns the snapshot a user starts from. lastActivityDate is
// primed with today so the very first event changes only its own counter.
func defaultStats(userID uint, today string) *models.UserStats {
	return &models.UserStats{
		UserID:           userID,
		LastActivityDate: today,
		Level:            1,
	}
}
