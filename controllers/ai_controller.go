package controllers

import (
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/buckai/buckai-server/config"
	"github.com/buckai/buckai-server/gamification"
	"github.com/buckai/buckai-server/models"
	"github.com/buckai/buckai-server/utils"
)

const aiSystemPrompt = "You are Buck, a concise bookkeeping assistant for small-business owners. " +
	"Answer questions about transactions, invoices, customers, bills and purchase orders. " +
	"Keep answers short and practical."

// AIController proxies assistant prompts to the upstream completion API.
type AIController struct {
	db  *gorm.DB
	svc *gamification.Service
}

// NewAIController creates a new AIController instance.
func NewAIController(db *gorm.DB, svc *gamification.Service) *AIController {
	return &AIController{db: db, svc: svc}
}

// Chat forwards a prompt to the completion API and stores the exchange.
// Identical prompts within the cache TTL are served from Redis without an
// upstream call.
func (a *AIController) Chat(ctx *gin.Context) {
	a.complete(ctx, models.AISourceChat, gamification.ActivityAIConversation)
}

// Voice accepts transcribed speech and routes it through the same proxy.
func (a *AIController) Voice(ctx *gin.Context) {
	a.complete(ctx, models.AISourceVoice, gamification.ActivityVoiceCommandUsed)
}

func (a *AIController) complete(ctx *gin.Context, source string, activity gamification.ActivityType) {
	var req struct {
		Message        string `json:"message" binding:"required,min=1"`
		ConversationID string `json:"conversation_id"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40080, "invalid request payload")
		return
	}

	prompt := strings.TrimSpace(req.Message)
	if prompt == "" {
		utils.Error(ctx, http.StatusBadRequest, 40081, "message cannot be empty")
		return
	}
	if len(prompt) > 4000 {
		utils.Error(ctx, http.StatusBadRequest, 40082, "message too long")
		return
	}

	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	conversationID := strings.TrimSpace(req.ConversationID)
	if conversationID == "" {
		conversationID = uuid.NewString()
	}

	// Cache key on the prompt digest, not the raw text, to bound key size.
	sum := sha256.Sum256([]byte(prompt))
	cacheKey := "cache:ai:" + hex.EncodeToString(sum[:])

	var reply string
	cached := false
	if b, ok := utils.CacheGetBytes(cacheKey); ok {
		reply = string(b)
		cached = true
	} else {
		var err error
		reply, err = utils.CompleteChat(ctx.Request.Context(), []utils.ChatMessage{
			{Role: "system", Content: aiSystemPrompt},
			{Role: "user", Content: prompt},
		})
		if err != nil {
			utils.Sugar.Errorw("ai completion failed", "user_id", userID, "err", err)
			utils.Error(ctx, http.StatusBadGateway, 50280, "assistant is unavailable")
			return
		}
		ttl := time.Duration(config.Get().AICacheTTLMin) * time.Minute
		utils.CacheSetBytes(cacheKey, []byte(reply), ttl)
	}

	msg := models.AIMessage{
		UserID:         userID,
		ConversationID: conversationID,
		Source:         source,
		Prompt:         prompt,
		Reply:          reply,
		Cached:         cached,
	}
	if err := a.db.Create(&msg).Error; err != nil {
		// History write failure should not hide a good reply.
		utils.Sugar.Warnw("ai message not persisted", "user_id", userID, "err", err)
	}

	fireActivity(a.svc, userID, activity)

	utils.Success(ctx, gin.H{
		"reply":           reply,
		"conversation_id": conversationID,
		"cached":          cached,
	})
}

// History returns the user's recent assistant exchanges.
func (a *AIController) History(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}
	page, pageSize := parsePagination(ctx.Query("page"), ctx.Query("page_size"))
	conversationID := strings.TrimSpace(ctx.Query("conversation_id"))

	var items []models.AIMessage
	var total int64
	q := a.db.Where("user_id = ?", userID).Order("created_at DESC")
	if conversationID != "" {
		q = q.Where("conversation_id = ?", conversationID)
	}
	if err := q.Model(&models.AIMessage{}).Count(&total).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50081, "failed to count messages")
		return
	}
	if err := q.Offset((page - 1) * pageSize).Limit(pageSize).Find(&items).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50082, "failed to list messages")
		return
	}
	utils.Success(ctx, gin.H{
		"items": items,
		"pagination": gin.H{
			"page":        page,
			"page_size":   pageSize,
			"total":       total,
			"total_pages": int((total + int64(pageSize) - 1) / int64(pageSize)),
		},
	})
}
