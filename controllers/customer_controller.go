package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/buckai/buckai-server/gamification"
	"github.com/buckai/buckai-server/models"
	"github.com/buckai/buckai-server/utils"
)

// CustomerController manages client records.
type CustomerController struct {
	db  *gorm.DB
	svc *gamification.Service
}

// NewCustomerController creates a new CustomerController instance.
func NewCustomerController(db *gorm.DB, svc *gamification.Service) *CustomerController {
	return &CustomerController{db: db, svc: svc}
}

// CreateCustomer adds a client record.
func (c *CustomerController) CreateCustomer(ctx *gin.Context) {
	var req struct {
		Name    string `json:"name" binding:"required,min=1"`
		Email   string `json:"email"`
		Phone   string `json:"phone"`
		Company string `json:"company"`
		Notes   string `json:"notes"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40040, "invalid request payload")
		return
	}

	name := utils.Sanitize(strings.TrimSpace(req.Name))
	if name == "" {
		utils.Error(ctx, http.StatusBadRequest, 40041, "name cannot be empty")
		return
	}

	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	customer := models.Customer{
		UserID:  userID,
		Name:    name,
		Email:   strings.TrimSpace(req.Email),
		Phone:   strings.TrimSpace(req.Phone),
		Company: utils.Sanitize(req.Company),
		Notes:   utils.Sanitize(req.Notes),
	}
	if err := c.db.Create(&customer).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50040, "failed to create customer")
		return
	}

	fireActivity(c.svc, userID, gamification.ActivityCustomerAdded)
	utils.InvalidateByPrefix("cache:dashboard:" + uintStr(userID))

	utils.Success(ctx, gin.H{"customer": customer})
}

// ListCustomers returns the user's clients with pagination and search.
func (c *CustomerController) ListCustomers(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}
	page, pageSize := parsePagination(ctx.Query("page"), ctx.Query("page_size"))
	search := strings.TrimSpace(ctx.Query("search"))

	var items []models.Customer
	var total int64
	q := c.db.Where("user_id = ?", userID).Order("name ASC")
	if search != "" {
		q = q.Where("name LIKE ? OR company LIKE ? OR email LIKE ?", "%"+search+"%", "%"+search+"%", "%"+search+"%")
	}
	if err := q.Model(&models.Customer{}).Count(&total).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50041, "failed to count customers")
		return
	}
	if err := q.Offset((page - 1) * pageSize).Limit(pageSize).Find(&items).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50042, "failed to list customers")
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

// UpdateCustomer modifies a client record owned by the user.
func (c *CustomerController) UpdateCustomer(ctx *gin.Context) {
	var req struct {
		Name    string `json:"name" binding:"required,min=1"`
		Email   string `json:"email"`
		Phone   string `json:"phone"`
		Company string `json:"company"`
		Notes   string `json:"notes"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40042, "invalid request payload")
		return
	}

	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var customer models.Customer
	if err := c.db.First(&customer, ctx.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40440, "customer not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50043, "failed to load customer")
		return
	}
	if customer.UserID != userID {
		utils.Error(ctx, http.StatusForbidden, 40340, "you can only update your own customers")
		return
	}

	customer.Name = utils.Sanitize(strings.TrimSpace(req.Name))
	customer.Email = strings.TrimSpace(req.Email)
	customer.Phone = strings.TrimSpace(req.Phone)
	customer.Company = utils.Sanitize(req.Company)
	customer.Notes = utils.Sanitize(req.Notes)
	if err := c.db.Save(&customer).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50044, "failed to update customer")
		return
	}
	utils.Success(ctx, gin.H{"customer": customer})
}

// DeleteCustomer removes a client record owned by the user.
func (c *CustomerController) DeleteCustomer(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}
	var customer models.Customer
	if err := c.db.First(&customer, ctx.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40440, "customer not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50045, "failed to load customer")
		return
	}
	if customer.UserID != userID {
		utils.Error(ctx, http.StatusForbidden, 40341, "you can only delete your own customers")
		return
	}
	if err := c.db.Delete(&customer).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50046, "failed to delete customer")
		return
	}
	utils.InvalidateByPrefix("cache:dashboard:" + uintStr(userID))
	utils.Success(ctx, gin.H{"message": "customer deleted"})
}
