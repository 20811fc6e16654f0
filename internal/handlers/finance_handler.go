package handlers

import (
	"net/http"
	"strconv"
	"time"

	"glow-pos/internal/database"
	"glow-pos/internal/models"

	"github.com/gin-gonic/gin"
)

// --- GET: /api/finance/summary ---
// Revenue, expenses and profit straight off the ledger, plus the latest
// movements for the dashboard list.
func GetFinanceSummary(c *gin.Context) {
	summary, err := database.GetFinanceSummary()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to aggregate ledger"})
		return
	}

	var recent []models.Transaction
	if err := database.DB.Preload("Items").Order("date desc").Limit(10).Find(&recent).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch recent transactions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"revenue":  summary.Revenue,
		"expenses": summary.Expenses,
		"profit":   summary.Profit,
		"recent":   recent,
	})
}

type ExpenseRequest struct {
	Description string  `json:"description" binding:"required"`
	Amount      float64 `json:"amount" binding:"required"`
	Method      string  `json:"method"`
}

// --- POST: /api/finance/expenses ---
// Manual OUT entry ("Sortie Directe"): rent, transport, petty cash.
func RecordExpense(c *gin.Context) {
	var req ExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Description and amount are required"})
		return
	}

	if req.Amount <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Amount must be positive"})
		return
	}

	method := req.Method
	if method == "" {
		method = "CASH_GNF"
	}

	expense := models.Transaction{
		Date:        time.Now(),
		UserID:      c.MustGet("userID").(uint),
		Type:        models.TxOut,
		Amount:      req.Amount,
		Method:      method,
		Description: req.Description,
		Category:    "Dépense",
	}

	if err := database.DB.Create(&expense).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record expense"})
		return
	}

	c.JSON(http.StatusCreated, expense)
}

// --- GET: /api/finance/refunds ---
func GetRefundRequests(c *gin.Context) {
	var requests []models.RefundRequest
	if err := database.DB.Preload("Items").Order("date desc").Find(&requests).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch refund requests"})
		return
	}
	c.JSON(http.StatusOK, requests)
}

// --- POST: /api/finance/refunds/:id/approve ---
// Approval does three things at once: appends the OUT transaction,
// reinstates the returned stock, and clears the pending request. A partial
// outcome would corrupt the books, so it's a single transaction.
func ApproveRefund(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request ID"})
		return
	}

	tx := database.DB.Begin()

	// Lock the request row so two admins approving at once can't both pay
	// out; the loser finds the row already gone.
	var request models.RefundRequest
	if err := database.LockForUpdate(tx).Preload("Items").First(&request, id).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusNotFound, gin.H{"error": "Refund request not found"})
		return
	}

	refund := models.Transaction{
		Date:        time.Now(),
		UserID:      c.MustGet("userID").(uint),
		Type:        models.TxOut,
		Amount:      request.Amount,
		Method:      "CASH_GNF",
		Description: "Remboursement validé : " + request.ClientName,
		Category:    "Retour",
		ClientID:    request.ClientID,
	}
	if err := tx.Create(&refund).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record refund"})
		return
	}

	for _, item := range request.Items {
		var product models.Product
		if err := database.LockForUpdate(tx).First(&product, item.ProductID).Error; err != nil {
			// Product deleted since the request was filed; the money still
			// goes back, the stock line just has nowhere to land.
			continue
		}
		product.Stock += item.Quantity
		if err := tx.Save(&product).Error; err != nil {
			tx.Rollback()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reinstate stock"})
			return
		}
	}

	if request.ClientID != nil {
		var client models.Client
		if err := tx.First(&client, *request.ClientID).Error; err == nil {
			client.Balance -= request.Amount
			if err := tx.Save(&client).Error; err != nil {
				tx.Rollback()
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update client balance"})
				return
			}
		}
	}

	if err := tx.Where("refund_request_id = ?", request.ID).Delete(&models.RefundItem{}).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear refund request"})
		return
	}
	res := tx.Delete(&request)
	if res.Error != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear refund request"})
		return
	}
	if res.RowsAffected == 0 {
		tx.Rollback()
		c.JSON(http.StatusConflict, gin.H{"error": "Request already processed"})
		return
	}

	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to commit refund"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Remboursement validé et stock réintégré !", "transaction": refund})
}

// --- POST: /api/finance/refunds/:id/reject ---
// Discards the request. No trace is kept, matching the pending-set model.
func RejectRefund(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request ID"})
		return
	}

	tx := database.DB.Begin()

	// Same lock as approval: a reject racing an approve must lose cleanly
	// instead of deleting the request out from under it.
	var request models.RefundRequest
	if err := database.LockForUpdate(tx).First(&request, id).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusNotFound, gin.H{"error": "Refund request not found"})
		return
	}

	if err := tx.Where("refund_request_id = ?", request.ID).Delete(&models.RefundItem{}).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reject request"})
		return
	}
	if err := tx.Delete(&request).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reject request"})
		return
	}

	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reject request"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Demande rejetée"})
}

// --- GET: /api/backup/export ---
func ExportBackup(c *gin.Context) {
	doc, err := database.ExportAll()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to export data"})
		return
	}

	filename := "GLOW_POS_SAVE_" + time.Now().Format("2006-01-02") + ".json"
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.JSON(http.StatusOK, doc)
}

// --- POST: /api/backup/import ---
func ImportBackup(c *gin.Context) {
	var doc database.BackupDocument
	if err := c.ShouldBindJSON(&doc); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Fichier invalide."})
		return
	}

	if err := database.ImportAll(&doc); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Fichier invalide."})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Données restaurées avec succès !"})
}
