package gamification

import (
	"context"
	"errors"

	"github.com/buckai/buckai-server/models"
)

// Store errors.
var (
	// ErrAlreadyUnlocked reports a duplicate unlock insert. Callers treat it
	// as "someone got there first", not as a failure.
	ErrAlreadyUnlocked = errors.New("achievement already unlocked")

	// ErrChallengeExists reports a duplicate challenge insert for one
	// user-day-type. Generation treats it as "the day is already generated".
	ErrChallengeExists = errors.New("daily challenge already exists")
)

// StatStore persists per-user stat snapshots.
//
// Mutate applies fn to the user's current snapshot (default-initialized when
// absent) and persists the result. Implementations must serialize concurrent
// Mutate calls for the same user so that two simultaneous activity events
// cannot both read the same stale snapshot and silently lose an increment.
type StatStore interface {
	Load(ctx context.Context, userID uint) (*models.UserStats, error)
	Mutate(ctx context.Context, userID uint, init func(userID uint) *models.UserStats, fn func(*models.UserStats)) (*models.UserStats, error)
}

// UnlockStore persists append-only achievement unlock records.
// Create returns ErrAlreadyUnlocked when the (user, type) pair exists.
type UnlockStore interface {
	ListTypes(ctx context.Context, userID uint) ([]string, error)
	List(ctx context.Context, userID uint) ([]models.UserAchievement, error)
	Create(ctx context.Context, record *models.UserAchievement) error
}

// ChallengeStore persists per-day challenge instances.
// Create returns ErrChallengeExists when the (user, date, type) triple
// exists; Delete removes a row a losing generator inserted before noticing.
type ChallengeStore interface {
	ListByDate(ctx context.Context, userID uint, date string) ([]models.DailyChallenge, error)
	Create(ctx context.Context, challenge *models.DailyChallenge) error
	Update(ctx context.Context, challenge *models.DailyChallenge) error
	Delete(ctx context.Context, id uint) error
}
