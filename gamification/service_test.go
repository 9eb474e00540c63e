package gamification

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/buckai/buckai-server/models"
)

type testEnv struct {
	svc        *Service
	stats      *memStatStore
	unlocks    *memUnlockStore
	challenges *memChallengeStore
	clock      *fakeClock
}

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestEnv(t *testing.T, opts ...Option) *testEnv {
	t.Helper()
	env := &testEnv{
		stats:      newMemStatStore(),
		unlocks:    newMemUnlockStore(),
		challenges: newMemChallengeStore(),
		clock:      &fakeClock{now: time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC)},
	}
	all := append([]Option{
		WithClock(env.clock.Now),
		WithRand(rand.New(rand.NewSource(1))),
	}, opts...)
	env.svc = NewService(Stores{
		Stats:      env.stats,
		Unlocks:    env.unlocks,
		Challenges: env.challenges,
	}, all...)
	return env
}

func TestTrackActivityFreshUserFirstTransaction(t *testing.T) {
	env := newTestEnv(t)

	res, err := env.svc.TrackActivity(context.Background(), 1, ActivityTransactionCreated)
	require.NoError(t, err)

	assert.Equal(t, 1, res.Stats.TransactionsCreated)
	assert.Equal(t, 2, res.Stats.TotalPoints)
	assert.Equal(t, 1, res.Stats.Level)
	assert.Equal(t, 2, res.PointsEarned)
	require.Len(t, res.NewAchievements, 1)
	assert.Equal(t, "first_transaction", res.NewAchievements[0].Type)
}

func TestTrackActivityUnknownTypeBumpsNoCounter(t *testing.T) {
	env := newTestEnv(t)

	res, err := env.svc.TrackActivity(context.Background(), 1, ActivityType("mystery_event"))
	require.NoError(t, err)

	assert.Equal(t, 0, res.Stats.TransactionsCreated)
	assert.Equal(t, 0, res.Stats.InvoicesSent)
	assert.Equal(t, 0, res.Stats.TotalPoints)
	assert.Empty(t, res.NewAchievements)
}

func TestTrackActivitySameDayKeepsStreakAndDaysActive(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.TrackActivity(context.Background(), 1, ActivityTransactionCreated)
	require.NoError(t, err)
	res, err := env.svc.TrackActivity(context.Background(), 1, ActivityTransactionCreated)
	require.NoError(t, err)

	assert.Equal(t, 2, res.Stats.TransactionsCreated)
	assert.Equal(t, 0, res.Stats.StreakDays)
	assert.Equal(t, 0, res.Stats.DaysActive)
}

func TestTrackActivityYesterdayExtendsStreak(t *testing.T) {
	env := newTestEnv(t)
	env.stats.seed(&models.UserStats{
		UserID:           1,
		StreakDays:       3,
		DaysActive:       5,
		LastActivityDate: "2025-03-09",
	})

	res, err := env.svc.TrackActivity(context.Background(), 1, ActivityCustomerAdded)
	require.NoError(t, err)

	assert.Equal(t, 4, res.Stats.StreakDays)
	assert.Equal(t, 6, res.Stats.DaysActive)
	assert.Equal(t, "2025-03-10", res.Stats.LastActivityDate)
}

func TestTrackActivityGapResetsStreakToOne(t *testing.T) {
	env := newTestEnv(t)
	env.stats.seed(&models.UserStats{
		UserID:           1,
		StreakDays:       9,
		DaysActive:       12,
		LastActivityDate: "2025-03-01",
	})

	res, err := env.svc.TrackActivity(context.Background(), 1, ActivityCustomerAdded)
	require.NoError(t, err)

	assert.Equal(t, 1, res.Stats.StreakDays)
	assert.Equal(t, 13, res.Stats.DaysActive)
}

func TestTrackActivityPointsEarnedIncludesStreakRoll(t *testing.T) {
	env := newTestEnv(t)
	env.stats.seed(func() *models.UserStats {
		st := &models.UserStats{
			UserID:           1,
			StreakDays:       2,
			DaysActive:       4,
			LastActivityDate: "2025-03-09",
		}
		st.TotalPoints = ComputePoints(st)
		st.Level = LevelFor(st.TotalPoints)
		return st
	}())

	res, err := env.svc.TrackActivity(context.Background(), 1, ActivityTransactionCreated)
	require.NoError(t, err)

	// +2 transaction, +10 new active day, +5 streak extension
	assert.Equal(t, 17, res.PointsEarned)
}

func TestTrackActivityTransactionMasterAtFifty(t *testing.T) {
	env := newTestEnv(t)
	env.stats.seed(&models.UserStats{
		UserID:              1,
		TransactionsCreated: 49,
		LastActivityDate:    "2025-03-10",
	})
	// first_transaction was unlocked long ago
	require.NoError(t, env.unlocks.Create(context.Background(), &models.UserAchievement{
		UserID:          1,
		AchievementType: "first_transaction",
		UnlockedAt:      time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}))

	res, err := env.svc.TrackActivity(context.Background(), 1, ActivityTransactionCreated)
	require.NoError(t, err)

	assert.Equal(t, 50, res.Stats.TransactionsCreated)
	require.Len(t, res.NewAchievements, 1)
	assert.Equal(t, "transaction_master", res.NewAchievements[0].Type)

	// A later event must not re-report the standing unlock as new.
	res2, err := env.svc.TrackActivity(context.Background(), 1, ActivityTransactionCreated)
	require.NoError(t, err)
	assert.Empty(t, res2.NewAchievements)

	records, err := env.svc.Achievements(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestTrackActivityLevelMonotonicity(t *testing.T) {
	env := newTestEnv(t)
	lastPoints, lastLevel := 0, 1
	for i := 0; i < 120; i++ {
		res, err := env.svc.TrackActivity(context.Background(), 1, ActivityInvoiceSent)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, res.Stats.TotalPoints, lastPoints)
		assert.GreaterOrEqual(t, res.Stats.Level, lastLevel)
		lastPoints, lastLevel = res.Stats.TotalPoints, res.Stats.Level
	}
	assert.Equal(t, 600, lastPoints)
	assert.Equal(t, 7, lastLevel)
}

func TestTrackActivityDegradedStoreReturnsTransientSnapshot(t *testing.T) {
	env := newTestEnv(t)
	env.stats.failing = true

	res, err := env.svc.TrackActivity(context.Background(), 1, ActivityTransactionCreated)
	require.NoError(t, err)

	assert.Equal(t, 1, res.Stats.TransactionsCreated)
	assert.Equal(t, 2, res.Stats.TotalPoints)
}

func TestTrackActivityFailLoudSurfacesStoreError(t *testing.T) {
	env := newTestEnv(t, WithDegradeSilently(false))
	env.stats.failing = true

	_, err := env.svc.TrackActivity(context.Background(), 1, ActivityTransactionCreated)
	assert.Error(t, err)
}

func TestStatsDefaultsForUnknownUser(t *testing.T) {
	env := newTestEnv(t)

	stats, err := env.svc.Stats(context.Background(), 42)
	require.NoError(t, err)

	assert.Equal(t, uint(42), stats.UserID)
	assert.Equal(t, 0, stats.TotalPoints)
	assert.Equal(t, 1, stats.Level)
	assert.Equal(t, "2025-03-10", stats.LastActivityDate)
}

func TestAchievementsDegradedReturnsEmptyList(t *testing.T) {
	env := newTestEnv(t)
	env.unlocks.failing = true

	records, err := env.svc.Achievements(context.Background(), 1)
	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestCheckAchievementsDuplicateInsertIsolated(t *testing.T) {
	env := newTestEnv(t)
	// Simulate a concurrent unlock that landed between list and insert.
	require.NoError(t, env.unlocks.Create(context.Background(), &models.UserAchievement{
		UserID:          1,
		AchievementType: "first_invoice",
		UnlockedAt:      env.clock.Now(),
	}))

	stats := &models.UserStats{UserID: 1, TransactionsCreated: 1, InvoicesSent: 1}
	// ListTypes already knows first_invoice, so only first_transaction is new;
	// exercise the duplicate path directly through the store.
	err := env.unlocks.Create(context.Background(), &models.UserAchievement{
		UserID:          1,
		AchievementType: "first_invoice",
		UnlockedAt:      env.clock.Now(),
	})
	assert.ErrorIs(t, err, ErrAlreadyUnlocked)

	newly := checkAchievements(context.Background(), env.unlocks, 1, stats, env.clock.Now())
	require.Len(t, newly, 1)
	assert.Equal(t, "first_transaction", newly[0].Type)
}

func TestCatalogOrderIsStable(t *testing.T) {
	require.GreaterOrEqual(t, len(Catalog), 2)
	assert.Equal(t, "first_transaction", Catalog[0].Type)
	assert.Equal(t, "transaction_master", Catalog[1].Type)
	seen := map[string]bool{}
	for _, a := range Catalog {
		assert.False(t, seen[a.Type], "duplicate catalog type %s", a.Type)
		seen[a.Type] = true
		assert.NotNil(t, a.Condition)
	}
}
