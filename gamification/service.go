package gamification

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/buckai/buckai-server/models"
	"github.com/buckai/buckai-server/utils"
)

// Service is the engine entry point. One instance is shared by all request
// handlers; the stores carry all mutable state.
type Service struct {
	stats      StatStore
	unlocks    UnlockStore
	challenges ChallengeStore

	// degradeSilently keeps the user-facing flow alive when a store fails:
	// the call logs, falls back to a transient default snapshot, and still
	// returns a response. Off, store failures surface as errors (used by
	// tests and by operators who prefer loud failures over lost points).
	degradeSilently bool

	now func() time.Time

	// rng feeds challenge selection. rand.Rand is not safe for concurrent
	// use, so every draw goes through perm, which holds rngMu.
	rngMu sync.Mutex
	rng   *rand.Rand
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the engine's notion of now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithRand overrides the randomness source used for challenge selection.
func WithRand(rng *rand.Rand) Option {
	return func(s *Service) { s.rng = rng }
}

// WithDegradeSilently toggles the swallow-and-default error policy.
func WithDegradeSilently(on bool) Option {
	return func(s *Service) { s.degradeSilently = on }
}

// NewService assembles the engine from its stores.
func NewService(stores Stores, opts ...Option) *Service {
	s := &Service{
		stats:           stores.Stats,
		unlocks:         stores.Unlocks,
		challenges:      stores.Challenges,
		degradeSilently: true,
		now:             time.Now,
		rng:             rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// TrackResult is the outcome of one tracked activity event.
type TrackResult struct {
	Stats           *models.UserStats `json:"stats"`
	NewAchievements []Achievement     `json:"newAchievements"`
	PointsEarned    int               `json:"pointsEarned"`
}

// TrackActivity records one activity event for a user: bump the counter and
// streak, recompute points and level, persist, then synchronously evaluate
// achievements and advance today's challenges. Downstream steps run on the
// updated snapshot as part of the same call, not fire-and-forget.
func (s *Service) TrackActivity(ctx context.Context, userID uint, activity ActivityType) (*TrackResult, error) {
	now := s.now()
	today := DateOf(now)

	var pointsBefore int
	stats, err := s.stats.Mutate(ctx, userID, func(id uint) *models.UserStats {
		return defaultStats(id, today)
	}, func(st *models.UserStats) {
		pointsBefore = st.TotalPoints
		applyActivity(st, activity, today)
	})
	if err != nil {
		if !s.degradeSilently {
			return nil, err
		}
		// Stat store is down: serve a transient snapshot for this call only.
		// The increment is lost; there is no retry queue.
		utils.Sugar.Errorw("stat store degraded, serving transient snapshot", "user_id", userID, "activity", activity, "err", err)
		stats = defaultStats(userID, today)
		pointsBefore = 0
		applyActivity(stats, activity, today)
	}

	newAchievements := checkAchievements(ctx, s.unlocks, userID, stats, now)
	if newAchievements == nil {
		newAchievements = []Achievement{}
	}

	if err := updateDailyChallenges(ctx, s.challenges, userID, activity, now); err != nil {
		utils.Sugar.Warnw("daily challenge progress skipped", "user_id", userID, "err", err)
	}

	return &TrackResult{
		Stats:           stats,
		NewAchievements: newAchievements,
		PointsEarned:    stats.TotalPoints - pointsBefore,
	}, nil
}

// Stats returns the user's snapshot, default-initialized when the user has
// no recorded activity yet.
func (s *Service) Stats(ctx context.Context, userID uint) (*models.UserStats, error) {
	stats, err := s.stats.Load(ctx, userID)
	if err == nil {
		return stats, nil
	}
	if s.degradeSilently {
		return defaultStats(userID, DateOf(s.now())), nil
	}
	return nil, err
}

// Achievements lists the user's unlock records in unlock order.
func (s *Service) Achievements(ctx context.Context, userID uint) ([]models.UserAchievement, error) {
	records, err := s.unlocks.List(ctx, userID)
	if err != nil {
		if s.degradeSilently {
			utils.Sugar.Warnw("achievement list degraded", "user_id", userID, "err", err)
			return []models.UserAchievement{}, nil
		}
		return nil, err
	}
	if records == nil {
		records = []models.UserAchievement{}
	}
	return records, nil
}

// DailyChallenges returns today's challenges without creating any.
func (s *Service) DailyChallenges(ctx context.Context, userID uint) ([]models.DailyChallenge, error) {
	challenges, err := s.challenges.ListByDate(ctx, userID, DateOf(s.now()))
	if err != nil {
		if s.degradeSilently {
			utils.Sugar.Warnw("daily challenge list degraded", "user_id", userID, "err", err)
			return []models.DailyChallenge{}, nil
		}
		return nil, err
	}
	if challenges == nil {
		challenges = []models.DailyChallenge{}
	}
	return challenges, nil
}

// perm draws a random permutation of [0, n) under the rng lock.
func (s *Service) perm(n int) []int {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	return s.rng.Perm(n)
}

// GenerateDailyChallenges creates today's challenge pair on first request
// and returns existing rows unchanged on every later call that day.
func (s *Service) GenerateDailyChallenges(ctx context.Context, userID uint) ([]models.DailyChallenge, error) {
	challenges, err := generateDailyChallenges(ctx, s.challenges, s.perm, userID, s.now())
	if err != nil {
		if s.degradeSilently {
			utils.Sugar.Warnw("daily challenge generation degraded", "user_id", userID, "err", err)
			return []models.DailyChallenge{}, nil
		}
		return nil, err
	}
	return challenges, nil
}
