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

// InvoiceController manages billable documents and the send flow.
type InvoiceController struct {
	db  *gorm.DB
	svc *gamification.Service
}

// NewInvoiceController creates a new InvoiceController instance.
func NewInvoiceController(db *gorm.DB, svc *gamification.Service) *InvoiceController {
	return &InvoiceController{db: db, svc: svc}
}

// CreateInvoice creates a draft invoice for one of the user's customers.
func (i *InvoiceController) CreateInvoice(ctx *gin.Context) {
	var req struct {
		CustomerID    uint            `json:"customer_id" binding:"required"`
		InvoiceNumber string          `json:"invoice_number"`
		Amount        decimal.Decimal `json:"amount" binding:"required"`
		DueDate       string          `json:"due_date"`
		Notes         string          `json:"notes"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40050, "invalid request payload")
		return
	}
	if req.Amount.IsNegative() {
		utils.Error(ctx, http.StatusBadRequest, 40051, "amount cannot be negative")
		return
	}
	if req.DueDate != "" && !validDate(req.DueDate) {
		utils.Error(ctx, http.StatusBadRequest, 40052, "due_date must be YYYY-MM-DD")
		return
	}

	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	// The customer must belong to the requesting user.
	var customer models.Customer
	if err := i.db.Where("id = ? AND user_id = ?", req.CustomerID, userID).First(&customer).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40450, "customer not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50050, "failed to load customer")
		return
	}

	number := strings.TrimSpace(req.InvoiceNumber)
	if number == "" {
		number = fmt.Sprintf("INV-%d", time.Now().UnixMilli())
	}

	invoice := models.Invoice{
		UserID:        userID,
		CustomerID:    customer.ID,
		InvoiceNumber: number,
		Amount:        req.Amount,
		Status:        models.InvoiceStatusDraft,
		DueDate:       req.DueDate,
		Notes:         utils.Sanitize(req.Notes),
		Customer:      customer,
	}
	if err := i.db.Create(&invoice).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50051, "failed to create invoice")
		return
	}

	utils.InvalidateByPrefix("cache:dashboard:" + uintStr(userID))
	utils.Success(ctx, gin.H{"invoice": invoice})
}

// ListInvoices returns the user's invoices, newest first.
func (i *InvoiceController) ListInvoices(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}
	page, pageSize := parsePagination(ctx.Query("page"), ctx.Query("page_size"))
	status := strings.TrimSpace(ctx.Query("status"))

	var items []models.Invoice
	var total int64
	q := i.db.Where("user_id = ?", userID).Preload("Customer").Order("created_at DESC")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if err := q.Model(&models.Invoice{}).Count(&total).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50052, "failed to count invoices")
		return
	}
	if err := q.Offset((page - 1) * pageSize).Limit(pageSize).Find(&items).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50053, "failed to list invoices")
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

// SendInvoice emails the invoice to its customer and marks it sent.
func (i *InvoiceController) SendInvoice(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var invoice models.Invoice
	if err := i.db.Preload("Customer").First(&invoice, ctx.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40451, "invoice not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50054, "failed to load invoice")
		return
	}
	if invoice.UserID != userID {
		utils.Error(ctx, http.StatusForbidden, 40350, "you can only send your own invoices")
		return
	}
	if invoice.Status == models.InvoiceStatusPaid {
		utils.Error(ctx, http.StatusBadRequest, 40053, "invoice is already paid")
		return
	}

	if invoice.Customer.Email != "" {
		subject := fmt.Sprintf("Invoice %s", invoice.InvoiceNumber)
		body := fmt.Sprintf("Hello %s,\r\n\r\nInvoice %s for %s is due %s.\r\n\r\nThank you.",
			invoice.Customer.Name, invoice.InvoiceNumber, invoice.Amount.StringFixed(2), invoice.DueDate)
		if err := utils.SendMail(invoice.Customer.Email, subject, body); err != nil {
			// Delivery failure does not block the status change.
			utils.Sugar.Warnw("invoice mail failed", "invoice_id", invoice.ID, "err", err)
		}
	}

	now := time.Now()
	invoice.Status = models.InvoiceStatusSent
	invoice.SentAt = &now
	if err := i.db.Save(&invoice).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50055, "failed to update invoice")
		return
	}

	fireActivity(i.svc, userID, gamification.ActivityInvoiceSent)
	utils.InvalidateByPrefix("cache:dashboard:" + uintStr(userID))

	utils.Success(ctx, gin.H{"invoice": invoice})
}

// UpdateInvoice modifies a draft invoice owned by the user.
func (i *InvoiceController) UpdateInvoice(ctx *gin.Context) {
	var req struct {
		Amount  decimal.Decimal `json:"amount" binding:"required"`
		DueDate string          `json:"due_date"`
		Notes   string          `json:"notes"`
		Status  string          `json:"status"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40054, "invalid request payload")
		return
	}
	if req.Amount.IsNegative() {
		utils.Error(ctx, http.StatusBadRequest, 40051, "amount cannot be negative")
		return
	}
	if req.DueDate != "" && !validDate(req.DueDate) {
		utils.Error(ctx, http.StatusBadRequest, 40052, "due_date must be YYYY-MM-DD")
		return
	}
	if req.Status != "" && req.Status != models.InvoiceStatusDraft &&
		req.Status != models.InvoiceStatusSent && req.Status != models.InvoiceStatusPaid {
		utils.Error(ctx, http.StatusBadRequest, 40055, "invalid status")
		return
	}

	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var invoice models.Invoice
	if err := i.db.First(&invoice, ctx.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40451, "invoice not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50056, "failed to load invoice")
		return
	}
	if invoice.UserID != userID {
		utils.Error(ctx, http.StatusForbidden, 40351, "you can only update your own invoices")
		return
	}

	invoice.Amount = req.Amount
	invoice.DueDate = req.DueDate
	invoice.Notes = utils.Sanitize(req.Notes)
	if req.Status != "" {
		invoice.Status = req.Status
	}
	if err := i.db.Save(&invoice).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50057, "failed to update invoice")
		return
	}

	utils.InvalidateByPrefix("cache:dashboard:" + uintStr(userID))
	utils.Success(ctx, gin.H{"invoice": invoice})
}

// DeleteInvoice removes an invoice owned by the user.
func (i *InvoiceController) DeleteInvoice(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}
	var invoice models.Invoice
	if err := i.db.First(&invoice, ctx.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40451, "invoice not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50058, "failed to load invoice")
		return
	}
	if invoice.UserID != userID {
		utils.Error(ctx, http.StatusForbidden, 40352, "you can only delete your own invoices")
		return
	}
	if err := i.db.Delete(&invoice).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50059, "failed to delete invoice")
		return
	}
	utils.InvalidateByPrefix("cache:dashboard:" + uintStr(userID))
	utils.Success(ctx, gin.H{"message": "invoice deleted"})
}
