package models

import "time"

// UserAchievement is an append-only unlock record. The composite unique
// index closes the check-then-act race between concurrent activity events:
// a duplicate insert fails at the database instead of double-awarding.
type UserAchievement struct {
	ID              uint      `gorm:"primaryKey" json:"-"`
	UserID          uint      `gorm:"index:idx_user_achievement,unique;not null" json:"userId"`
	AchievementType string    `gorm:"index:idx_user_achievement,unique;size:64;not null" json:"achievementType"`
	UnlockedAt      time.Time `gorm:"not null" json:"unlockedAt"`
}
