package main

import (
	"log"
	"os"
	"time"

	"glow-pos/internal/database"
	"glow-pos/internal/handlers"
	"glow-pos/internal/middleware"
	"glow-pos/internal/models"
	"glow-pos/internal/scheduler"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: No .env file found")
	}

	database.Connect()

	// Valuation chart needs a first point on a fresh install
	var snapshots int64
	database.DB.Model(&models.StockSnapshot{}).Count(&snapshots)
	if snapshots == 0 {
		scheduler.TakeStockSnapshot()
	}

	sched := scheduler.New()
	sched.Start()
	defer sched.Stop()

	r := gin.Default()

	allowedOrigin := os.Getenv("FRONTEND_ORIGIN")
	if allowedOrigin == "" {
		allowedOrigin = "http://localhost:5173"
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{allowedOrigin},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"status": "online"}) })
	r.POST("/login", handlers.Login)

	// --- PROTECTED ROUTES ---
	api := r.Group("/api")
	api.Use(middleware.AuthMiddleware())
	{
		// STAFF & ADMIN: the till and the stock screens
		api.GET("/system/status", handlers.GetSystemStatus)
		api.GET("/settings", handlers.GetSettings)

		api.GET("/products", handlers.GetProducts)
		api.GET("/products/scan/:barcode", handlers.ScanProduct)
		api.POST("/scan", handlers.ScanEvent)
		api.POST("/scan/batch", handlers.BatchScan)

		api.POST("/checkout", handlers.ProcessSale)
		api.POST("/refunds", handlers.CreateRefundRequest)

		api.GET("/clients", handlers.GetClients)
		api.POST("/clients", handlers.AddClient)
		api.GET("/families", handlers.GetFamilies)

		// ADMIN ONLY: catalogue edits, money, people, settings
		admin := api.Group("/")
		admin.Use(middleware.RequireRole("admin"))
		{
			admin.POST("/ask", handlers.AskAI)

			admin.POST("/products", handlers.AddProduct)
			admin.PUT("/products/:id", handlers.UpdateProduct)
			admin.DELETE("/products/:id", handlers.DeleteProduct)
			admin.POST("/products/import-canned", handlers.ImportCanned)

			admin.GET("/orders", handlers.GetOrders)
			admin.POST("/orders", handlers.CreateOrder)
			admin.POST("/orders/:id/receive", handlers.ReceiveOrder)
			admin.POST("/orders/:id/cancel", handlers.CancelOrder)

			admin.GET("/finance/summary", handlers.GetFinanceSummary)
			admin.POST("/finance/expenses", handlers.RecordExpense)
			admin.GET("/finance/refunds", handlers.GetRefundRequests)
			admin.POST("/finance/refunds/:id/approve", handlers.ApproveRefund)
			admin.POST("/finance/refunds/:id/reject", handlers.RejectRefund)

			admin.GET("/reports", handlers.GetSalesReport)
			admin.GET("/reports/top-sellers", handlers.GetTopSellers)
			admin.GET("/reports/valuation", handlers.GetStockValuation)
			admin.GET("/reports/valuation/history", handlers.GetValuationHistory)

			admin.GET("/backup/export", handlers.ExportBackup)
			admin.POST("/backup/import", handlers.ImportBackup)

			admin.GET("/users", handlers.GetUsers)
			admin.POST("/users", handlers.AddUser)
			admin.POST("/users/:id/toggle", handlers.ToggleUserActive)
			admin.DELETE("/users/:id", handlers.DeleteUser)

			admin.POST("/families", handlers.AddFamily)
			admin.DELETE("/families/:id", handlers.DeleteFamily)

			admin.GET("/suppliers", handlers.GetSuppliers)
			admin.POST("/suppliers", handlers.AddSupplier)
			admin.PUT("/suppliers/:id", handlers.UpdateSupplier)
			admin.DELETE("/suppliers/:id", handlers.DeleteSupplier)

			admin.PUT("/clients/:id", handlers.UpdateClient)
			admin.DELETE("/clients/:id", handlers.DeleteClient)

			admin.PUT("/settings", handlers.UpdateSettings)
		}
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	baseURL := os.Getenv("BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:" + port
	}
	log.Println("🚀 Server starting on " + baseURL)
	if err := r.Run(":" + port); err != nil {
		log.Fatal("Server failed to start:", err)
	}
}
