package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/buckai/buckai-server/config"
	"github.com/buckai/buckai-server/controllers"
	"github.com/buckai/buckai-server/gamification"
	"github.com/buckai/buckai-server/middleware"
	"github.com/buckai/buckai-server/utils"
)

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(db *gorm.DB, svc *gamification.Service) *gin.Engine {
	cfg := config.Get()
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	// Replace default console logger with file-based zap logger
	gl, err := utils.NewRollingFileLogger(cfg.GinPath, cfg.LogLevel, cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays, cfg.LogCompress)
	if err == nil {
		r.Use(utils.Ginzap(gl, time.RFC3339, true))
		r.Use(utils.RecoveryWithZap(gl, false))
	} else {
		r.Use(gin.Recovery())
	}

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
		corsCfg.AllowCredentials = false
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	// Record per-route usage counts after each request
	r.Use(middleware.APIUsageRecorder(db))

	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok"})
	})

	authController := controllers.NewAuthController(db)
	gamificationController := controllers.NewGamificationController(svc)
	transactionController := controllers.NewTransactionController(db, svc)
	customerController := controllers.NewCustomerController(db, svc)
	invoiceController := controllers.NewInvoiceController(db, svc)
	billController := controllers.NewBillController(db, svc)
	purchaseOrderController := controllers.NewPurchaseOrderController(db, svc)
	aiController := controllers.NewAIController(db, svc)
	statsController := controllers.NewStatsController(db)

	api := r.Group("/api")

	// Gamification dispatch mirrors the serverless function contract: one POST
	// keyed on the action field, open CORS, OPTIONS answered with 200.
	api.POST("/gamification", gamificationController.Dispatch)
	api.OPTIONS("/gamification", gamificationController.Options)

	authGroup := api.Group("/auth")
	authGroup.Use(middleware.RateLimitMiddleware())
	authGroup.POST("/register", authController.Register)
	authGroup.POST("/login", authController.Login)
	authGroup.POST("/send-email-code", authController.SendEmailCode)
	authGroup.GET("/captcha", authController.Captcha)
	authGroup.GET("/oauth/:provider/login", authController.OAuthRedirect)
	authGroup.GET("/oauth/:provider/callback", authController.OAuthCallback)
	authGroup.POST("/logout", middleware.AuthRequired(), authController.Logout)
	authGroup.GET("/me", middleware.AuthRequired(), authController.Me)
	authGroup.PATCH("/profile", middleware.AuthRequired(), authController.UpdateProfile)

	protected := api.Group("")
	protected.Use(middleware.AuthRequired(), middleware.RateLimitMiddleware())

	protected.GET("/transactions", transactionController.ListTransactions)
	protected.POST("/transactions", transactionController.CreateTransaction)
	protected.PUT("/transactions/:id", transactionController.UpdateTransaction)
	protected.DELETE("/transactions/:id", transactionController.DeleteTransaction)

	protected.GET("/customers", customerController.ListCustomers)
	protected.POST("/customers", customerController.CreateCustomer)
	protected.PUT("/customers/:id", customerController.UpdateCustomer)
	protected.DELETE("/customers/:id", customerController.DeleteCustomer)

	protected.GET("/invoices", invoiceController.ListInvoices)
	protected.POST("/invoices", invoiceController.CreateInvoice)
	protected.PUT("/invoices/:id", invoiceController.UpdateInvoice)
	protected.POST("/invoices/:id/send", invoiceController.SendInvoice)
	protected.DELETE("/invoices/:id", invoiceController.DeleteInvoice)

	protected.GET("/bills", billController.ListBills)
	protected.POST("/bills", billController.CreateBill)
	protected.POST("/bills/:id/pay", billController.PayBill)
	protected.DELETE("/bills/:id", billController.DeleteBill)

	protected.GET("/purchase-orders", purchaseOrderController.ListPurchaseOrders)
	protected.POST("/purchase-orders", purchaseOrderController.CreatePurchaseOrder)
	protected.PATCH("/purchase-orders/:id/status", purchaseOrderController.UpdatePurchaseOrderStatus)
	protected.DELETE("/purchase-orders/:id", purchaseOrderController.DeletePurchaseOrder)

	protected.POST("/ai/chat", aiController.Chat)
	protected.POST("/ai/voice", aiController.Voice)
	protected.GET("/ai/history", aiController.History)

	protected.GET("/dashboard", statsController.GetDashboard)

	r.NoRoute(func(ctx *gin.Context) {
		utils.Error(ctx, http.StatusNotFound, 40400, "api route not found")
	})

	return r
}
