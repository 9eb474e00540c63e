package controllers

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/buckai/buckai-server/models"
	"github.com/buckai/buckai-server/utils"
)

// StatsController provides dashboard aggregates for one business workspace.
type StatsController struct {
	db *gorm.DB
}

// NewStatsController creates a new StatsController instance.
func NewStatsController(db *gorm.DB) *StatsController {
	return &StatsController{db: db}
}

// GetDashboard returns aggregate counts and revenue for the user's books.
// Each aggregate falls back to zero instead of failing the whole endpoint.
func (s *StatsController) GetDashboard(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, 401, 40110, "unauthorized")
		return
	}

	cacheKey := fmt.Sprintf("cache:dashboard:%d", userID)
	if b, ok := utils.CacheGetBytes(cacheKey); ok {
		ctx.Data(200, "application/json", b)
		return
	}

	var transactionCount int64
	var invoiceCount int64
	var customerCount int64
	var unpaidBillCount int64
	var openOrderCount int64

	if err := s.db.Model(&models.Transaction{}).Where("user_id = ?", userID).Count(&transactionCount).Error; err != nil {
		transactionCount = 0
	}
	if err := s.db.Model(&models.Invoice{}).Where("user_id = ?", userID).Count(&invoiceCount).Error; err != nil {
		invoiceCount = 0
	}
	if err := s.db.Model(&models.Customer{}).Where("user_id = ?", userID).Count(&customerCount).Error; err != nil {
		customerCount = 0
	}
	if err := s.db.Model(&models.Bill{}).Where("user_id = ? AND status = ?", userID, models.BillStatusUnpaid).Count(&unpaidBillCount).Error; err != nil {
		unpaidBillCount = 0
	}
	if err := s.db.Model(&models.PurchaseOrder{}).Where("user_id = ? AND status = ?", userID, models.PurchaseOrderStatusOpen).Count(&openOrderCount).Error; err != nil {
		openOrderCount = 0
	}

	var revenue decimal.Decimal
	if err := s.db.Model(&models.Transaction{}).
		Where("user_id = ? AND type = ?", userID, "income").
		Select("COALESCE(SUM(amount),0)").
		Scan(&revenue).Error; err != nil {
		revenue = decimal.Zero
	}

	var expenses decimal.Decimal
	if err := s.db.Model(&models.Transaction{}).
		Where("user_id = ? AND type = ?", userID, "expense").
		Select("COALESCE(SUM(amount),0)").
		Scan(&expenses).Error; err != nil {
		expenses = decimal.Zero
	}

	payload := gin.H{
		"transaction_count": transactionCount,
		"invoice_count":     invoiceCount,
		"customer_count":    customerCount,
		"unpaid_bill_count": unpaidBillCount,
		"open_order_count":  openOrderCount,
		"revenue":           revenue,
		"expenses":          expenses,
		"net":               revenue.Sub(expenses),
	}
	wrapper := struct {
		Code    int         `json:"code"`
		Message string      `json:"message"`
		Data    interface{} `json:"data"`
	}{Code: 0, Message: "success", Data: payload}
	utils.CacheSetJSON(cacheKey, wrapper, 2*time.Minute)
	utils.Success(ctx, payload)
}
