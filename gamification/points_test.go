package gamification

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/buckai/buckai-server/models"
)

func TestComputePointsZeroStats(t *testing.T) {
	assert.Equal(t, 0, ComputePoints(&models.UserStats{}))
}

func TestComputePointsWeights(t *testing.T) {
	cases := []struct {
		name  string
		stats models.UserStats
		want  int
	}{
		{"transactions", models.UserStats{TransactionsCreated: 3}, 6},
		{"invoices", models.UserStats{InvoicesSent: 2}, 10},
		{"customers", models.UserStats{CustomersAdded: 4}, 12},
		{"bills created", models.UserStats{BillsCreated: 2}, 6},
		{"bills paid", models.UserStats{BillsPaid: 3}, 12},
		{"purchase orders", models.UserStats{PurchaseOrdersCreated: 2}, 8},
		{"voice commands", models.UserStats{VoiceCommandsUsed: 5}, 10},
		{"ai conversations", models.UserStats{AIConversations: 7}, 7},
		{"days active", models.UserStats{DaysActive: 3}, 30},
		{"streak days", models.UserStats{StreakDays: 4}, 20},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ComputePoints(&tc.stats))
		})
	}
}

func TestComputePointsSumsAllCounters(t *testing.T) {
	stats := models.UserStats{
		TransactionsCreated:   1, // 2
		InvoicesSent:          1, // 5
		CustomersAdded:        1, // 3
		BillsCreated:          1, // 3
		BillsPaid:             1, // 4
		PurchaseOrdersCreated: 1, // 4
		VoiceCommandsUsed:     1, // 2
		AIConversations:       1, // 1
		DaysActive:            1, // 10
		StreakDays:            1, // 5
	}
	assert.Equal(t, 39, ComputePoints(&stats))
}

func TestLevelForBoundaries(t *testing.T) {
	assert.Equal(t, 1, LevelFor(0))
	assert.Equal(t, 1, LevelFor(99))
	assert.Equal(t, 2, LevelFor(100))
	assert.Equal(t, 2, LevelFor(199))
	assert.Equal(t, 3, LevelFor(200))
	assert.Equal(t, 11, LevelFor(1000))
}

func TestComputePointsIsPure(t *testing.T) {
	stats := models.UserStats{TransactionsCreated: 5, DaysActive: 2}
	before := stats
	_ = ComputePoints(&stats)
	assert.Equal(t, before, stats)
}
