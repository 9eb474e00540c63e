package gamification

import (
	"context"
	"errors"
	"sync"

	"github.com/buckai/buckai-server/models"
)

// In-memory store fakes. They mirror the GORM implementations closely
// enough for engine tests: missing snapshots surface as errNotFound, unlock
// inserts enforce (user, type) uniqueness, and a failing flag simulates a
// store outage.

var errNotFound = errors.New("record not found")
var errStoreDown = errors.New("store unavailable")

type memStatStore struct {
	mu      sync.Mutex
	stats   map[uint]*models.UserStats
	failing bool
}

func newMemStatStore() *memStatStore {
	return &memStatStore{stats: map[uint]*models.UserStats{}}
}

func (m *memStatStore) Load(_ context.Context, userID uint) (*models.UserStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failing {
		return nil, errStoreDown
	}
	st, ok := m.stats[userID]
	if !ok {
		return nil, errNotFound
	}
	cp := *st
	return &cp, nil
}

func (m *memStatStore) Mutate(_ context.Context, userID uint, init func(uint) *models.UserStats, fn func(*models.UserStats)) (*models.UserStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failing {
		return nil, errStoreDown
	}
	st, ok := m.stats[userID]
	if !ok {
		st = init(userID)
	}
	fn(st)
	m.stats[userID] = st
	cp := *st
	return &cp, nil
}

func (m *memStatStore) seed(st *models.UserStats) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *st
	m.stats[st.UserID] = &cp
}

type memUnlockStore struct {
	mu      sync.Mutex
	records []models.UserAchievement
	nextID  uint
	failing bool
}

func newMemUnlockStore() *memUnlockStore {
	return &memUnlockStore{}
}

func (m *memUnlockStore) ListTypes(_ context.Context, userID uint) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failing {
		return nil, errStoreDown
	}
	var types []string
	for _, r := range m.records {
		if r.UserID == userID {
			types = append(types, r.AchievementType)
		}
	}
	return types, nil
}

func (m *memUnlockStore) List(_ context.Context, userID uint) ([]models.UserAchievement, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failing {
		return nil, errStoreDown
	}
	var out []models.UserAchievement
	for _, r := range m.records {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memUnlockStore) Create(_ context.Context, record *models.UserAchievement) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failing {
		return errStoreDown
	}
	for _, r := range m.records {
		if r.UserID == record.UserID && r.AchievementType == record.AchievementType {
			return ErrAlreadyUnlocked
		}
	}
	m.nextID++
	record.ID = m.nextID
	m.records = append(m.records, *record)
	return nil
}

type memChallengeStore struct {
	mu         sync.Mutex
	challenges []models.DailyChallenge
	nextID     uint
	failing    bool
}

func newMemChallengeStore() *memChallengeStore {
	return &memChallengeStore{}
}

func (m *memChallengeStore) ListByDate(_ context.Context, userID uint, date string) ([]models.DailyChallenge, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failing {
		return nil, errStoreDown
	}
	var out []models.DailyChallenge
	for _, c := range m.challenges {
		if c.UserID == userID && c.ChallengeDate == date {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *memChallengeStore) Create(_ context.Context, challenge *models.DailyChallenge) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failing {
		return errStoreDown
	}
	for _, c := range m.challenges {
		if c.UserID == challenge.UserID && c.ChallengeDate == challenge.ChallengeDate && c.ChallengeType == challenge.ChallengeType {
			return ErrChallengeExists
		}
	}
	m.nextID++
	challenge.ID = m.nextID
	m.challenges = append(m.challenges, *challenge)
	return nil
}

func (m *memChallengeStore) Update(_ context.Context, challenge *models.DailyChallenge) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failing {
		return errStoreDown
	}
	for i := range m.challenges {
		if m.challenges[i].ID == challenge.ID {
			m.challenges[i] = *challenge
			return nil
		}
	}
	return errNotFound
}

func (m *memChallengeStore) Delete(_ context.Context, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failing {
		return errStoreDown
	}
	for i := range m.challenges {
		if m.challenges[i].ID == id {
			m.challenges = append(m.challenges[:i], m.challenges[i+1:]...)
			return nil
		}
	}
	return errNotFound
}
