package gamification

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/buckai/buckai-server/models"
)

// Stores bundles the MySQL-backed store implementations for wiring.
type Stores struct {
	Stats      StatStore
	Unlocks    UnlockStore
	Challenges ChallengeStore
}

// NewGormStores returns GORM implementations of all engine stores.
func NewGormStores(db *gorm.DB) Stores {
	return Stores{
		Stats:      &gormStatStore{db: db},
		Unlocks:    &gormUnlockStore{db: db},
		Challenges: &gormChallengeStore{db: db},
	}
}

type gormStatStore struct {
	db *gorm.DB
}

func (s *gormStatStore) Load(ctx context.Context, userID uint) (*models.UserStats, error) {
	var stats models.UserStats
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&stats).Error
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

// Mutate serializes concurrent updates for one user behind a row lock, the
// same way the rest of the app serializes streak updates: SELECT ... FOR
// UPDATE inside a transaction, then save.
func (s *gormStatStore) Mutate(ctx context.Context, userID uint, init func(uint) *models.UserStats, fn func(*models.UserStats)) (*models.UserStats, error) {
	var result *models.UserStats
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var stats models.UserStats
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ?", userID).
			First(&stats).Error
		switch {
		case err == nil:
			result = &stats
		case errors.Is(err, gorm.ErrRecordNotFound):
			result = init(userID)
		default:
			return err
		}

		fn(result)
		return tx.Save(result).Error
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

type gormUnlockStore struct {
	db *gorm.DB
}

func (s *gormUnlockStore) ListTypes(ctx context.Context, userID uint) ([]string, error) {
	var types []string
	err := s.db.WithContext(ctx).Model(&models.UserAchievement{}).
		Where("user_id = ?", userID).
		Pluck("achievement_type", &types).Error
	if err != nil {
		return nil, err
	}
	return types, nil
}

func (s *gormUnlockStore) List(ctx context.Context, userID uint) ([]models.UserAchievement, error) {
	var records []models.UserAchievement
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("unlocked_at ASC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (s *gormUnlockStore) Create(ctx context.Context, record *models.UserAchievement) error {
	err := s.db.WithContext(ctx).Create(record).Error
	if err != nil && isDuplicateKey(err) {
		return ErrAlreadyUnlocked
	}
	return err
}

// isDuplicateKey matches the unique-index violation raised by the MySQL
// driver. GORM translates it when error translation is on; the message check
// covers drivers that do not.
func isDuplicateKey(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey) ||
		strings.Contains(err.Error(), "Duplicate entry")
}

type gormChallengeStore struct {
	db *gorm.DB
}

func (s *gormChallengeStore) ListByDate(ctx context.Context, userID uint, date string) ([]models.DailyChallenge, error) {
	var challenges []models.DailyChallenge
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND challenge_date = ?", userID, date).
		Order("id ASC").
		Find(&challenges).Error
	if err != nil {
		return nil, err
	}
	return challenges, nil
}

func (s *gormChallengeStore) Create(ctx context.Context, challenge *models.DailyChallenge) error {
	err := s.db.WithContext(ctx).Create(challenge).Error
	if err != nil && isDuplicateKey(err) {
		return ErrChallengeExists
	}
	return err
}

func (s *gormChallengeStore) Update(ctx context.Context, challenge *models.DailyChallenge) error {
	return s.db.WithContext(ctx).Save(challenge).Error
}

func (s *gormChallengeStore) Delete(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Delete(&models.DailyChallenge{}, id).Error
}
