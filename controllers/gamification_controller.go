package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/buckai/buckai-server/gamification"
	"github.com/buckai/buckai-server/utils"
)

// GamificationController exposes the engine through a single action-dispatch
// endpoint. The endpoint keeps the serverless function contract the frontend
// already speaks: raw JSON bodies, not the envelope the rest of the API uses.
type GamificationController struct {
	svc *gamification.Service
}

// NewGamificationController creates a new GamificationController instance.
func NewGamificationController(svc *gamification.Service) *GamificationController {
	return &GamificationController{svc: svc}
}

type gamificationRequest struct {
	Action       string                 `json:"action"`
	UserID       uint                   `json:"userId"`
	ActivityType string                 `json:"activityType"`
	Data         map[string]interface{} `json:"data"`
}

// Dispatch handles POST requests keyed on the action field.
func (g *GamificationController) Dispatch(ctx *gin.Context) {
	defer func() {
		if r := recover(); r != nil {
			utils.Sugar.Errorw("gamification dispatch panic", "err", r)
			ctx.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprint(r)})
		}
	}()

	var req gamificationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	switch req.Action {
	case "track_activity":
		result, err := g.svc.TrackActivity(ctx.Request.Context(), req.UserID, gamification.ActivityType(req.ActivityType))
		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		ctx.JSON(http.StatusOK, result)
	case "get_user_stats":
		stats, err := g.svc.Stats(ctx.Request.Context(), req.UserID)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		ctx.JSON(http.StatusOK, stats)
	case "get_achievements":
		records, err := g.svc.Achievements(ctx.Request.Context(), req.UserID)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		ctx.JSON(http.StatusOK, records)
	case "get_daily_challenges":
		challenges, err := g.svc.DailyChallenges(ctx.Request.Context(), req.UserID)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		ctx.JSON(http.StatusOK, challenges)
	case "generate_daily_challenges":
		challenges, err := g.svc.GenerateDailyChallenges(ctx.Request.Context(), req.UserID)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		ctx.JSON(http.StatusOK, challenges)
	default:
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid action"})
	}
}

// Options answers CORS preflight for the dispatch endpoint.
func (g *GamificationController) Options(ctx *gin.Context) {
	ctx.Status(http.StatusOK)
}
