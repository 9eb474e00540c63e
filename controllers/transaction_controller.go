package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/buckai/buckai-server/gamification"
	"github.com/buckai/buckai-server/models"
	"github.com/buckai/buckai-server/utils"
)

// TransactionController manages income and expense entries.
type TransactionController struct {
	db  *gorm.DB
	svc *gamification.Service
}

// NewTransactionController creates a new TransactionController instance.
func NewTransactionController(db *gorm.DB, svc *gamification.Service) *TransactionController {
	return &TransactionController{db: db, svc: svc}
}

// CreateTransaction records a new income or expense entry.
func (t *TransactionController) CreateTransaction(ctx *gin.Context) {
	var req struct {
		Type        string          `json:"type" binding:"required,oneof=income expense"`
		Category    string          `json:"category"`
		Description string          `json:"description"`
		Amount      decimal.Decimal `json:"amount" binding:"required"`
		Date        string          `json:"date" binding:"required"`
	}

	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40030, "invalid request payload")
		return
	}
	if req.Amount.IsNegative() {
		utils.Error(ctx, http.StatusBadRequest, 40031, "amount cannot be negative")
		return
	}
	if !validDate(req.Date) {
		utils.Error(ctx, http.StatusBadRequest, 40032, "date must be YYYY-MM-DD")
		return
	}

	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	txn := models.Transaction{
		UserID:      userID,
		Type:        req.Type,
		Category:    utils.Sanitize(req.Category),
		Description: utils.Sanitize(req.Description),
		Amount:      req.Amount,
		Date:        req.Date,
	}
	if err := t.db.Create(&txn).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50030, "failed to create transaction")
		return
	}

	fireActivity(t.svc, userID, gamification.ActivityTransactionCreated)
	utils.InvalidateByPrefix("cache:dashboard:" + uintStr(userID))

	utils.Success(ctx, gin.H{"transaction": txn})
}

// ListTransactions returns the user's entries, newest first, with pagination.
func (t *TransactionController) ListTransactions(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}
	page, pageSize := parsePagination(ctx.Query("page"), ctx.Query("page_size"))
	search := strings.TrimSpace(ctx.Query("search"))
	txType := strings.TrimSpace(ctx.Query("type"))

	var items []models.Transaction
	var total int64
	q := t.db.Where("user_id = ?", userID).Order("date DESC, id DESC")
	if search != "" {
		q = q.Where("description LIKE ? OR category LIKE ?", "%"+search+"%", "%"+search+"%")
	}
	if txType != "" {
		q = q.Where("type = ?", txType)
	}
	if err := q.Model(&models.Transaction{}).Count(&total).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50031, "failed to count transactions")
		return
	}
	if err := q.Offset((page - 1) * pageSize).Limit(pageSize).Find(&items).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50032, "failed to list transactions")
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

// UpdateTransaction modifies an entry owned by the user.
func (t *TransactionController) UpdateTransaction(ctx *gin.Context) {
	var req struct {
		Type        string          `json:"type" binding:"required,oneof=income expense"`
		Category    string          `json:"category"`
		Description string          `json:"description"`
		Amount      decimal.Decimal `json:"amount" binding:"required"`
		Date        string          `json:"date" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40033, "invalid request payload")
		return
	}
	if req.Amount.IsNegative() {
		utils.Error(ctx, http.StatusBadRequest, 40031, "amount cannot be negative")
		return
	}
	if !validDate(req.Date) {
		utils.Error(ctx, http.StatusBadRequest, 40032, "date must be YYYY-MM-DD")
		return
	}

	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var txn models.Transaction
	if err := t.db.First(&txn, ctx.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40430, "transaction not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50033, "failed to load transaction")
		return
	}
	if txn.UserID != userID {
		utils.Error(ctx, http.StatusForbidden, 40330, "you can only update your own transactions")
		return
	}

	txn.Type = req.Type
	txn.Category = utils.Sanitize(req.Category)
	txn.Description = utils.Sanitize(req.Description)
	txn.Amount = req.Amount
	txn.Date = req.Date
	if err := t.db.Save(&txn).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50034, "failed to update transaction")
		return
	}

	utils.InvalidateByPrefix("cache:dashboard:" + uintStr(userID))
	utils.Success(ctx, gin.H{"transaction": txn})
}

// DeleteTransaction removes an entry owned by the user.
func (t *TransactionController) DeleteTransaction(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}
	var txn models.Transaction
	if err := t.db.First(&txn, ctx.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40430, "transaction not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50035, "failed to load transaction")
		return
	}
	if txn.UserID != userID {
		utils.Error(ctx, http.StatusForbidden, 40331, "you can only delete your own transactions")
		return
	}
	if err := t.db.Delete(&txn).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50036, "failed to delete transaction")
		return
	}
	utils.InvalidateByPrefix("cache:dashboard:" + uintStr(userID))
	utils.Success(ctx, gin.H{"message": "transaction deleted"})
}
