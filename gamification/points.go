package gamification

import "github.com/buckai/buckai-server/models"

// Point weights per counter. Fixed constants; levels depend on them, so
// changing a weight is a user-visible migration, not a tuning knob.
const (
	weightTransaction   = 2
	weightInvoiceSent   = 5
	weightCustomer      = 3
	weightBillCreated   = 3
	weightBillPaid      = 4
	weightPurchaseOrder = 4
	weightVoiceCommand  = 2
	weightAIChat        = 1
	weightDayActive     = 10
	weightStreakDay     = 5
)

const pointsPerLevel = 100

// ComputePoints derives the total score from a stat snapshot. Pure.
func ComputePoints(stats *models.UserStats) int {
	return stats.TransactionsCreated*weightTransaction +
		stats.InvoicesSent*weightInvoiceSent +
		stats.CustomersAdded*weightCustomer +
		stats.BillsCreated*weightBillCreated +
		stats.BillsPaid*weightBillPaid +
		stats.PurchaseOrdersCreated*weightPurchaseOrder +
		stats.VoiceCommandsUsed*weightVoiceCommand +
		stats.AIConversations*weightAIChat +
		stats.DaysActive*weightDayActive +
		stats.StreakDays*weightStreakDay
}

// LevelFor maps a point total to a level: level 1 spans 0-99, level 2 spans
// 100-199, and so on.
func LevelFor(points int) int {
	return points/pointsPerLevel + 1
}
