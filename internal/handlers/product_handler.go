package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"glow-pos/internal/database"
	"glow-pos/internal/models"
	"glow-pos/internal/scanner"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// One debouncer per process: the till hammers the scan endpoint with the
// same code while the cashier holds the scanner on a label.
var scanDebouncer = scanner.NewDebouncer(scanner.DefaultWindow)

// --- GET: List all products ---
func GetProducts(c *gin.Context) {
	var products []models.Product

	query := database.DB.Order("name")
	if q := c.Query("q"); q != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(q)+"%")
	}

	if err := query.Find(&products).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
		return
	}

	c.JSON(http.StatusOK, products)
}

// --- POST: Add a new product ---
// Only the name is required; prices and stock default to zero.
func AddProduct(c *gin.Context) {
	var newProduct models.Product

	if err := c.ShouldBindJSON(&newProduct); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	if strings.TrimSpace(newProduct.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Product name is required"})
		return
	}

	if err := database.DB.Create(&newProduct).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create product"})
		return
	}

	c.JSON(http.StatusCreated, newProduct)
}

// --- PUT: Update a product ---
func UpdateProduct(c *gin.Context) {
	idStr := c.Param("id")
	id, err := strconv.Atoi(idStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid Product ID"})
		return
	}

	var product models.Product
	if err := database.DB.First(&product, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	// We use a map so we only update what was sent (partial update)
	var updateData map[string]interface{}
	if err := c.ShouldBindJSON(&updateData); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	if err := database.DB.Model(&product).Updates(updateData).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update product"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product updated successfully", "product": product})
}

// --- DELETE: Remove a product ---
// Unconditional: open orders and past sales keep their own denormalized
// copies, so nothing dangles.
func DeleteProduct(c *gin.Context) {
	id := c.Param("id")

	if err := database.DB.Delete(&models.Product{}, id).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not delete product"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
}

// --- GET: Exact barcode lookup (the POS scan path) ---
func ScanProduct(c *gin.Context) {
	barcode := c.Param("barcode")

	var product models.Product
	if err := database.DB.Where("barcode = ?", barcode).First(&product).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No product with this barcode"})
		return
	}

	c.JSON(http.StatusOK, product)
}

type ScanEventRequest struct {
	Code string `json:"code" binding:"required"`
}

// --- POST: Capture endpoint for camera decodes and manual entry ---
// Identical codes inside the de-duplication window collapse to one event;
// callers see accepted=false and must not register the article twice.
func ScanEvent(c *gin.Context) {
	var req ScanEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Code is required"})
		return
	}

	if !scanDebouncer.Accept(req.Code) {
		c.JSON(http.StatusOK, gin.H{"accepted": false, "reason": "duplicate scan"})
		return
	}

	var product models.Product
	if err := database.DB.Where("barcode = ?", req.Code).First(&product).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Produit inconnu : " + req.Code})
		return
	}

	c.JSON(http.StatusOK, gin.H{"accepted": true, "product": product})
}

type BatchScanRequest struct {
	Counts []struct {
		Barcode  string `json:"barcode"`
		Quantity int    `json:"quantity"`
	} `json:"counts" binding:"required"`
}

// --- POST: Bulk stock increments accumulated by the batch-scan screen ---
// Strict: every barcode must already exist in the catalogue (receiving is
// the only flow allowed to create products), and the whole batch commits or
// nothing does.
func BatchScan(c *gin.Context) {
	var req BatchScanRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.Counts) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No scanned counts provided"})
		return
	}

	tx := database.DB.Begin()

	var updated []models.Product
	for _, count := range req.Counts {
		if count.Quantity <= 0 {
			tx.Rollback()
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Invalid quantity for %s", count.Barcode)})
			return
		}

		var product models.Product
		if err := database.LockForUpdate(tx).
			Where("barcode = ?", count.Barcode).First(&product).Error; err != nil {
			tx.Rollback()
			c.JSON(http.StatusNotFound, gin.H{"error": "Unknown barcode: " + count.Barcode})
			return
		}

		product.Stock += count.Quantity
		if err := tx.Save(&product).Error; err != nil {
			tx.Rollback()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update stock"})
			return
		}
		updated = append(updated, product)
	}

	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to commit batch"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Stock updated", "products": updated})
}

type ImportCannedRequest struct {
	Names []string `json:"names" binding:"required"`
}

// --- POST: Import stubs from the built-in catalogue ---
// Selected names become zero-price, zero-stock products; anything already
// in the catalogue (case-insensitive) is skipped, not duplicated.
func ImportCanned(c *gin.Context) {
	var req ImportCannedRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.Names) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No articles selected"})
		return
	}

	selected := make(map[string]bool, len(req.Names))
	for _, name := range req.Names {
		selected[strings.ToLower(name)] = true
	}

	imported := 0
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		for _, canned := range models.CannedCatalog {
			if !selected[strings.ToLower(canned.Name)] {
				continue
			}

			var existing int64
			if err := tx.Model(&models.Product{}).
				Where("LOWER(name) = ?", strings.ToLower(canned.Name)).
				Count(&existing).Error; err != nil {
				return err
			}
			if existing > 0 {
				continue
			}

			stub := models.Product{Name: canned.Name, Category: canned.Category}
			if err := tx.Create(&stub).Error; err != nil {
				return err
			}
			imported++
		}
		return nil
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to import catalogue"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("%d articles importés !", imported), "imported": imported})
}
