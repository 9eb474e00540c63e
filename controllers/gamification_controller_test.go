package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/buckai/buckai-server/gamification"
	"github.com/buckai/buckai-server/models"
)

type fakeStatStore struct {
	stats map[uint]*models.UserStats
}

func (f *fakeStatStore) Load(_ context.Context, userID uint) (*models.UserStats, error) {
	if st, ok := f.stats[userID]; ok {
		cp := *st
		return &cp, nil
	}
	return nil, errStatMissing
}

var errStatMissing = errors.New("stats not found")

func (f *fakeStatStore) Mutate(_ context.Context, userID uint, init func(uint) *models.UserStats, fn func(*models.UserStats)) (*models.UserStats, error) {
	st, ok := f.stats[userID]
	if !ok {
		st = init(userID)
	}
	fn(st)
	f.stats[userID] = st
	cp := *st
	return &cp, nil
}

type fakeUnlockStore struct {
	records []models.UserAchievement
}

func (f *fakeUnlockStore) ListTypes(_ context.Context, userID uint) ([]string, error) {
	var types []string
	for _, r := range f.records {
		if r.UserID == userID {
			types = append(types, r.AchievementType)
		}
	}
	return types, nil
}

func (f *fakeUnlockStore) List(_ context.Context, userID uint) ([]models.UserAchievement, error) {
	var out []models.UserAchievement
	for _, r := range f.records {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeUnlockStore) Create(_ context.Context, record *models.UserAchievement) error {
	for _, r := range f.records {
		if r.UserID == record.UserID && r.AchievementType == record.AchievementType {
			return gamification.ErrAlreadyUnlocked
		}
	}
	record.ID = uint(len(f.records) + 1)
	f.records = append(f.records, *record)
	return nil
}

type fakeChallengeStore struct {
	challenges []models.DailyChallenge
}

func (f *fakeChallengeStore) ListByDate(_ context.Context, userID uint, date string) ([]models.DailyChallenge, error) {
	var out []models.DailyChallenge
	for _, c := range f.challenges {
		if c.UserID == userID && c.ChallengeDate == date {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeChallengeStore) Create(_ context.Context, challenge *models.DailyChallenge) error {
	challenge.ID = uint(len(f.challenges) + 1)
	f.challenges = append(f.challenges, *challenge)
	return nil
}

func (f *fakeChallengeStore) Update(_ context.Context, challenge *models.DailyChallenge) error {
	for i := range f.challenges {
		if f.challenges[i].ID == challenge.ID {
			f.challenges[i] = *challenge
		}
	}
	return nil
}

func (f *fakeChallengeStore) Delete(_ context.Context, id uint) error {
	for i := range f.challenges {
		if f.challenges[i].ID == id {
			f.challenges = append(f.challenges[:i], f.challenges[i+1:]...)
			return nil
		}
	}
	return nil
}

func newDispatchRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	svc := gamification.NewService(gamification.Stores{
		Stats:      &fakeStatStore{stats: map[uint]*models.UserStats{}},
		Unlocks:    &fakeUnlockStore{},
		Challenges: &fakeChallengeStore{},
	})
	ctrl := NewGamificationController(svc)

	r := gin.New()
	r.POST("/api/gamification", ctrl.Dispatch)
	r.OPTIONS("/api/gamification", ctrl.Options)
	return r
}

func postJSON(t *testing.T, r *gin.Engine, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/gamification", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestDispatchUnknownAction(t *testing.T) {
	r := newDispatchRouter(t)

	w := postJSON(t, r, gin.H{"action": "destroy_everything", "userId": 1})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Invalid action", resp["error"])
}

func TestDispatchMissingAction(t *testing.T) {
	r := newDispatchRouter(t)

	w := postJSON(t, r, gin.H{"userId": 1})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDispatchTrackActivity(t *testing.T) {
	r := newDispatchRouter(t)

	w := postJSON(t, r, gin.H{
		"action":       "track_activity",
		"userId":       1,
		"activityType": "transaction_created",
		"data":         gin.H{},
	})

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Stats struct {
			TransactionsCreated int `json:"transactionsCreated"`
			TotalPoints         int `json:"totalPoints"`
			Level               int `json:"level"`
		} `json:"stats"`
		NewAchievements []struct {
			Type string `json:"type"`
		} `json:"newAchievements"`
		PointsEarned int `json:"pointsEarned"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, 1, resp.Stats.TransactionsCreated)
	assert.Equal(t, 2, resp.Stats.TotalPoints)
	assert.Equal(t, 1, resp.Stats.Level)
	assert.Equal(t, 2, resp.PointsEarned)
	require.Len(t, resp.NewAchievements, 1)
	assert.Equal(t, "first_transaction", resp.NewAchievements[0].Type)
}

func TestDispatchGetUserStatsReturnsRawSnapshot(t *testing.T) {
	r := newDispatchRouter(t)

	w := postJSON(t, r, gin.H{"action": "get_user_stats", "userId": 5})

	require.Equal(t, http.StatusOK, w.Code)
	var stats map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	// Raw snapshot, not the {code,message,data} envelope.
	assert.NotContains(t, stats, "code")
	assert.EqualValues(t, 5, stats["userId"])
	assert.EqualValues(t, 1, stats["level"])
}

func TestDispatchGetAchievementsEmptyIsArray(t *testing.T) {
	r := newDispatchRouter(t)

	w := postJSON(t, r, gin.H{"action": "get_achievements", "userId": 9})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", string(bytes.TrimSpace(w.Body.Bytes())))
}

func TestDispatchGenerateThenGetDailyChallenges(t *testing.T) {
	r := newDispatchRouter(t)

	w := postJSON(t, r, gin.H{"action": "generate_daily_challenges", "userId": 1})
	require.Equal(t, http.StatusOK, w.Code)
	var generated []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &generated))
	require.Len(t, generated, 2)

	w2 := postJSON(t, r, gin.H{"action": "get_daily_challenges", "userId": 1})
	require.Equal(t, http.StatusOK, w2.Code)
	var listed []map[string]interface{}
	require.NoError(t, json.Unmarshal(w2.Body.Bytes(), &listed))
	assert.Len(t, listed, 2)
}

func TestDispatchOptionsPreflight(t *testing.T) {
	r := newDispatchRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/gamification", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
