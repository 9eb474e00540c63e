package controllers

import (
	"context"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/buckai/buckai-server/gamification"
	"github.com/buckai/buckai-server/middleware"
	"github.com/buckai/buckai-server/utils"
)

func uintStr(v uint) string {
	return strconv.Itoa(int(v))
}

// validDate accepts calendar dates in YYYY-MM-DD form.
func validDate(s string) bool {
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}

func parsePagination(pageStr, sizeStr string) (int, int) {
	page := 1
	pageSize := 10
	if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
		page = p
	}
	if s, err := strconv.Atoi(sizeStr); err == nil && s > 0 && s <= 100 {
		pageSize = s
	}
	return page, pageSize
}

func getUserID(ctx *gin.Context) (uint, bool) {
	value, exists := ctx.Get(middleware.ContextUserIDKey)
	if !exists {
		return 0, false
	}

	switch v := value.(type) {
	case uint:
		return v, true
	case int:
		return uint(v), true
	case int64:
		return uint(v), true
	case float64:
		return uint(v), true
	default:
		return 0, false
	}
}

// fireActivity records a gamified activity event after a primary action
// succeeded. Best-effort: failure is logged and never aborts the request.
func fireActivity(svc *gamification.Service, userID uint, activity gamification.ActivityType) {
	if svc == nil {
		return
	}
	if _, err := svc.TrackActivity(context.Background(), userID, activity); err != nil {
		utils.Sugar.Warnw("activity event dropped", "user_id", userID, "activity", activity, "err", err)
	}
}
