package controllers

import (
	"fmt"
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

// PurchaseOrderController manages vendor orders.
type PurchaseOrderController struct {
	db  *gorm.DB
	svc *gamification.Service
}

// NewPurchaseOrderController creates a new PurchaseOrderController instance.
func NewPurchaseOrderController(db *gorm.DB, svc *gamification.Service) *PurchaseOrderController {
	return &PurchaseOrderController{db: db, svc: svc}
}

// CreatePurchaseOrder places a vendor order.
func (p *PurchaseOrderController) CreatePurchaseOrder(ctx *gin.Context) {
	var req struct {
		OrderNumber string          `json:"order_number"`
		Vendor      string          `json:"vendor" binding:"required,min=1"`
		Amount      decimal.Decimal `json:"amount" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40070, "invalid request payload")
		return
	}
	if req.Amount.IsNegative() {
		utils.Error(ctx, http.StatusBadRequest, 40071, "amount cannot be negative")
		return
	}

	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	number := strings.TrimSpace(req.OrderNumber)
	if number == "" {
		number = fmt.Sprintf("PO-%d", time.Now().UnixMilli())
	}

	order := models.PurchaseOrder{
		UserID:      userID,
		OrderNumber: number,
		Vendor:      utils.Sanitize(strings.TrimSpace(req.Vendor)),
		Amount:      req.Amount,
		Status:      models.PurchaseOrderStatusOpen,
	}
	if err := p.db.Create(&order).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50070, "failed to create purchase order")
		return
	}

	fireActivity(p.svc, userID, gamification.ActivityPurchaseOrderCreated)
	utils.Success(ctx, gin.H{"purchase_order": order})
}

// ListPurchaseOrders returns the user's orders, newest first.
func (p *PurchaseOrderController) ListPurchaseOrders(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}
	page, pageSize := parsePagination(ctx.Query("page"), ctx.Query("page_size"))
	status := strings.TrimSpace(ctx.Query("status"))

	var items []models.PurchaseOrder
	var total int64
	q := p.db.Where("user_id = ?", userID).Order("created_at DESC")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if err := q.Model(&models.PurchaseOrder{}).Count(&total).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50071, "failed to count purchase orders")
		return
	}
	if err := q.Offset((page - 1) * pageSize).Limit(pageSize).Find(&items).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50072, "failed to list purchase orders")
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

// UpdatePurchaseOrderStatus moves an order through open -> received -> closed.
func (p *PurchaseOrderController) UpdatePurchaseOrderStatus(ctx *gin.Context) {
	var req struct {
		Status string `json:"status" binding:"required,oneof=open received closed"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40072, "invalid request payload")
		return
	}

	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var order models.PurchaseOrder
	if err := p.db.First(&order, ctx.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40470, "purchase order not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50073, "failed to load purchase order")
		return
	}
	if order.UserID != userID {
		utils.Error(ctx, http.StatusForbidden, 40370, "you can only update your own purchase orders")
		return
	}

	order.Status = req.Status
	if err := p.db.Save(&order).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50074, "failed to update purchase order")
		return
	}
	utils.Success(ctx, gin.H{"purchase_order": order})
}

// DeletePurchaseOrder removes an order owned by the user.
func (p *PurchaseOrderController) DeletePurchaseOrder(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}
	var order models.PurchaseOrder
	if err := p.db.First(&order, ctx.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40470, "purchase order not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50075, "failed to load purchase order")
		return
	}
	if order.UserID != userID {
		utils.Error(ctx, http.StatusForbidden, 40371, "you can only delete your own purchase orders")
		return
	}
	if err := p.db.Delete(&order).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50076, "failed to delete purchase order")
		return
	}
	utils.Success(ctx, gin.H{"message": "purchase order deleted"})
}
