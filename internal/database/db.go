package database

import (
	"log"
	"os"
	"time"

	"glow-pos/internal/models"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func Connect() {
	// 1. Get Credentials from .env file
	dsn := os.Getenv("DB_DSN")

	if dsn == "" {
		log.Fatal("❌ Error: DB_DSN not found in .env file. Please configure your database.")
	}

	var err error

	// 2. Connect with GORM (Wait for DB to be ready)
	for i := 0; i < 5; i++ {
		DB, err = gorm.Open(mysql.Open(dsn), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Info),
		})
		if err == nil {
			break
		}
		log.Printf("Failed to connect to database. Retrying in 2 seconds... (%d/5)", i+1)
		time.Sleep(2 * time.Second)
	}

	if err != nil {
		log.Fatal("Failed to connect to database after 5 attempts:", err)
	}

	log.Println("✅ Successfully connected to MySQL!")

	if err := Migrate(DB); err != nil {
		log.Fatal("Failed to migrate schema:", err)
	}

	log.Println("✅ Database Schema Synced!")
}

// LockForUpdate takes a row lock on dialects that have one. SQLite (used in
// tests) has no SELECT ... FOR UPDATE; its writes are serialized anyway.
func LockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

// Migrate syncs every collection's schema and seeds the single brand row.
// Split out of Connect so tests can run it against their own database.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.PurchaseOrder{},
		&models.OrderItem{},
		&models.Transaction{},
		&models.TransactionItem{},
		&models.RefundRequest{},
		&models.RefundItem{},
		&models.Supplier{},
		&models.Client{},
		&models.Family{},
		&models.ShopSettings{},
		&models.StockSnapshot{},
	)
	if err != nil {
		return err
	}

	// Seed the brand record so receipts always have something to print
	var count int64
	db.Model(&models.ShopSettings{}).Count(&count)
	if count == 0 {
		settings := models.DefaultSettings()
		if err := db.Create(&settings).Error; err != nil {
			return err
		}
	}

	return nil
}
