package gamification

import (
	"context"
	"errors"
	"time"

	"github.com/buckai/buckai-server/models"
	"github.com/buckai/buckai-server/utils"
)

// ChallengeTemplate describes one entry in the fixed daily-challenge
// catalog: the activity that advances it and the target count for the day.
type ChallengeTemplate struct {
	Type        string
	Description string
	Trigger     ActivityType
	Target      int
}

// ChallengeTemplates is the fixed template catalog. Two of these are drawn
// per user per day, uniformly without replacement.
var ChallengeTemplates = []ChallengeTemplate{
	{
		Type:        "daily_transactions",
		Description: "Record 3 transactions today",
		Trigger:     ActivityTransactionCreated,
		Target:      3,
	},
	{
		Type:        "daily_invoice",
		Description: "Send an invoice today",
		Trigger:     ActivityInvoiceSent,
		Target:      1,
	},
	{
		Type:        "daily_ai_chat",
		Description: "Ask the assistant 2 questions today",
		Trigger:     ActivityAIConversation,
		Target:      2,
	},
}

// challengesPerDay is how many templates are instantiated per user per day.
const challengesPerDay = 2

func templateByType(challengeType string) (ChallengeTemplate, bool) {
	for _, t := range ChallengeTemplates {
		if t.Type == challengeType {
			return t, true
		}
	}
	return ChallengeTemplate{}, false
}

// generateDailyChallenges returns today's challenges for the user, creating
// them on first request. Idempotent per calendar day: existing rows are
// returned unchanged. When two first-of-day requests race, the unique index
// on (user, date, type) stops the loser at its first overlapping insert; the
// loser rolls back any row it placed before that and returns the winner's
// pair.
func generateDailyChallenges(ctx context.Context, store ChallengeStore, perm func(n int) []int, userID uint, now time.Time) ([]models.DailyChallenge, error) {
	today := DateOf(now)

	existing, err := store.ListByDate(ctx, userID, today)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return existing, nil
	}

	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	expires := midnight.AddDate(0, 0, 1)

	picks := perm(len(ChallengeTemplates))[:challengesPerDay]
	challenges := make([]models.DailyChallenge, 0, challengesPerDay)
	for _, i := range picks {
		tpl := ChallengeTemplates[i]
		c := models.DailyChallenge{
			UserID:        userID,
			ChallengeType: tpl.Type,
			Description:   tpl.Description,
			TargetValue:   tpl.Target,
			ChallengeDate: today,
			ExpiresAt:     expires,
		}
		err := store.Create(ctx, &c)
		if errors.Is(err, ErrChallengeExists) {
			// Another request generated this day first. Drop whatever this
			// call inserted and hand back the winner's rows.
			for _, created := range challenges {
				if delErr := store.Delete(ctx, created.ID); delErr != nil {
					utils.Sugar.Warnw("daily challenge rollback failed", "user_id", userID, "id", created.ID, "err", delErr)
				}
			}
			return store.ListByDate(ctx, userID, today)
		}
		if err != nil {
			utils.Sugar.Warnw("daily challenge create failed", "user_id", userID, "type", tpl.Type, "err", err)
			continue
		}
		challenges = append(challenges, c)
	}
	return challenges, nil
}

// updateDailyChallenges advances today's incomplete challenges whose trigger
// matches the activity. Completion is terminal; progress never decreases.
// When no challenges exist for today (generation is caller-initiated) there
// is nothing to update, which is accepted behavior.
func updateDailyChallenges(ctx context.Context, store ChallengeStore, userID uint, activity ActivityType, now time.Time) error {
	challenges, err := store.ListByDate(ctx, userID, DateOf(now))
	if err != nil {
		return err
	}

	for i := range challenges {
		c := &challenges[i]
		if c.IsCompleted {
			continue
		}
		tpl, ok := templateByType(c.ChallengeType)
		if !ok || tpl.Trigger != activity {
			continue
		}
		c.CurrentProgress++
		c.IsCompleted = c.CurrentProgress >= c.TargetValue
		if err := store.Update(ctx, c); err != nil {
			utils.Sugar.Warnw("daily challenge update failed", "user_id", userID, "type", c.ChallengeType, "err", err)
		}
	}
	return nil
}
