package handlers

import (
	"net/http"
	"time"

	"glow-pos/internal/database"
	"glow-pos/internal/models"

	"github.com/gin-gonic/gin"
)

// --- GET: /api/reports/sales?start=YYYY-MM-DD&end=YYYY-MM-DD ---
// Ranged revenue plus the detail list for the period. Defaults to today.
func GetSalesReport(c *gin.Context) {
	now := time.Now()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	end := start.AddDate(0, 0, 1)

	if s := c.Query("start"); s != "" {
		parsed, err := time.Parse("2006-01-02", s)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid start date, expected YYYY-MM-DD"})
			return
		}
		start = parsed
	}
	if e := c.Query("end"); e != "" {
		parsed, err := time.Parse("2006-01-02", e)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid end date, expected YYYY-MM-DD"})
			return
		}
		// The end date is inclusive: push to the next midnight
		end = parsed.AddDate(0, 0, 1)
	}

	report, err := database.GetSalesReport(start, end)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build sales report"})
		return
	}

	var sales []models.Transaction
	if err := database.DB.Preload("Items").
		Where("type = ? AND date BETWEEN ? AND ?", models.TxIn, start, end).
		Order("date desc").Find(&sales).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch sales"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"start":         start.Format("2006-01-02"),
		"end":           end.AddDate(0, 0, -1).Format("2006-01-02"),
		"total_revenue": report.TotalRevenue,
		"total_count":   report.TotalCount,
		"sales":         sales,
	})
}

// TopSeller aggregates sold quantities per product
type TopSeller struct {
	ProductID uint    `json:"product_id"`
	Name      string  `json:"name"`
	Sold      int     `json:"sold"`
	Revenue   float64 `json:"revenue"`
}

// --- GET: /api/reports/top-sellers ---
// Best-selling products, computed off the denormalized sale lines so
// deleted products still show up in the ranking.
func GetTopSellers(c *gin.Context) {
	var sellers []TopSeller

	err := database.DB.Model(&models.TransactionItem{}).
		Select("product_id, name, SUM(quantity) as sold, SUM(quantity * price) as revenue").
		Group("product_id, name").
		Order("sold desc").
		Limit(10).
		Scan(&sellers).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to rank products"})
		return
	}

	c.JSON(http.StatusOK, sellers)
}

// CategoryValuation is one row of the stock valuation breakdown
type CategoryValuation struct {
	Category  string  `json:"category"`
	Units     int     `json:"units"`
	CostValue float64 `json:"cost_value"`
	SellValue float64 `json:"sell_value"`
}

// --- GET: /api/reports/valuation ---
// What the shelf is worth right now: totals plus a per-family breakdown.
func GetStockValuation(c *gin.Context) {
	total, itemCount, err := database.GetStockValue()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to value stock"})
		return
	}

	var byCategory []CategoryValuation
	err = database.DB.Model(&models.Product{}).
		Select("category, SUM(stock) as units, SUM(stock * cost_price) as cost_value, SUM(stock * sell_price) as sell_value").
		Where("stock > 0").
		Group("category").
		Order("cost_value desc").
		Scan(&byCategory).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to break down stock"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total_value": total,
		"item_count":  itemCount,
		"by_category": byCategory,
	})
}

// --- GET: /api/reports/valuation/history ---
// The nightly snapshot series for the valuation chart, oldest first.
func GetValuationHistory(c *gin.Context) {
	var snapshots []models.StockSnapshot
	if err := database.DB.Order("taken_at").Limit(365).Find(&snapshots).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch valuation history"})
		return
	}
	c.JSON(http.StatusOK, snapshots)
}
