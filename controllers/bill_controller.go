package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/buckai/buckai-server/gamification"
	"github.com/buckai/buckai-server/models"
	"github.com/buckai/buckai-server/utils"
)

// BillController manages payables owed to vendors.
type BillController struct {
	db  *gorm.DB
	svc *gamification.Service
}

// NewBillController creates a new BillController instance.
func NewBillController(db *gorm.DB, svc *gamification.Service) *BillController {
	return &BillController{db: db, svc: svc}
}

// CreateBill records a payable.
func (b *BillController) CreateBill(ctx *gin.Context) {
	var req struct {
		Vendor  string          `json:"vendor" binding:"required,min=1"`
		Amount  decimal.Decimal `json:"amount" binding:"required"`
		DueDate string          `json:"due_date"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40060, "invalid request payload")
		return
	}
	if req.Amount.IsNegative() {
		utils.Error(ctx, http.StatusBadRequest, 40061, "amount cannot be negative")
		return
	}
	if req.DueDate != "" && !validDate(req.DueDate) {
		utils.Error(ctx, http.StatusBadRequest, 40062, "due_date must be YYYY-MM-DD")
		return
	}

	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	bill := models.Bill{
		UserID:  userID,
		Vendor:  utils.Sanitize(strings.TrimSpace(req.Vendor)),
		Amount:  req.Amount,
		DueDate: req.DueDate,
		Status:  models.BillStatusUnpaid,
	}
	if err := b.db.Create(&bill).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50060, "failed to create bill")
		return
	}

	fireActivity(b.svc, userID, gamification.ActivityBillCreated)
	utils.Success(ctx, gin.H{"bill": bill})
}

// ListBills returns the user's payables, soonest due first.
func (b *BillController) ListBills(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}
	page, pageSize := parsePagination(ctx.Query("page"), ctx.Query("page_size"))
	status := strings.TrimSpace(ctx.Query("status"))

	var items []models.Bill
	var total int64
	q := b.db.Where("user_id = ?", userID).Order("due_date ASC, id DESC")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if err := q.Model(&models.Bill{}).Count(&total).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50061, "failed to count bills")
		return
	}
	if err := q.Offset((page - 1) * pageSize).Limit(pageSize).Find(&items).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50062, "failed to list bills")
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

// PayBill marks a payable as settled.
func (b *BillController) PayBill(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var bill models.Bill
	if err := b.db.First(&bill, ctx.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40460, "bill not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50063, "failed to load bill")
		return
	}
	if bill.UserID != userID {
		utils.Error(ctx, http.StatusForbidden, 40360, "you can only pay your own bills")
		return
	}
	if bill.Status == models.BillStatusPaid {
		utils.Error(ctx, http.StatusBadRequest, 40063, "bill is already paid")
		return
	}

	now := time.Now()
	bill.Status = models.BillStatusPaid
	bill.PaidAt = &now
	if err := b.db.Save(&bill).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50064, "failed to update bill")
		return
	}

	fireActivity(b.svc, userID, gamification.ActivityBillPaid)
	utils.Success(ctx, gin.H{"bill": bill})
}

// DeleteBill removes a payable owned by the user.
func (b *BillController) DeleteBill(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}
	var bill models.Bill
	if err := b.db.First(&bill, ctx.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40460, "bill not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50065, "failed to load bill")
		return
	}
	if bill.UserID != userID {
		utils.Error(ctx, http.StatusForbidden, 40361, "you can only delete your own bills")
		return
	}
	if err := b.db.Delete(&bill).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50066, "failed to delete bill")
		return
	}
	utils.Success(ctx, gin.H{"message": "bill deleted"})
}
