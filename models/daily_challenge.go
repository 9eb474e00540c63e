package models

import "time"

// DailyChallenge is one user-day instance of a challenge template.
// Progress only moves forward; a completed challenge is never reopened.
// The unique index makes first-of-day generation race-safe: two concurrent
// generators cannot both insert the same user-day-type row, and the loser
// sees a duplicate-key error instead of doubling the day's challenges.
// Rows implicitly expire after their date and are pruned by the background
// challenge cleaner.
type DailyChallenge struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	UserID          uint      `gorm:"index:idx_challenge_user_day_type,unique,priority:1;not null" json:"userId"`
	ChallengeType   string    `gorm:"index:idx_challenge_user_day_type,unique,priority:3;size:64;not null" json:"challengeType"`
	Description     string    `gorm:"size:255" json:"description"`
	TargetValue     int       `gorm:"not null" json:"targetValue"`
	CurrentProgress int       `gorm:"default:0" json:"currentProgress"`
	IsCompleted     bool      `gorm:"default:false" json:"isCompleted"`
	ChallengeDate   string    `gorm:"index:idx_challenge_user_day_type,unique,priority:2;size:10;not null" json:"challengeDate"` // YYYY-MM-DD
	ExpiresAt       time.Time `gorm:"index;not null" json:"expiresAt"`
	CreatedAt       time.Time `json:"-"`
	UpdatedAt       time.Time `json:"-"`
}
