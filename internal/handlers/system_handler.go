package handlers

import (
	"net/http"

	"glow-pos/internal/database"
	"glow-pos/internal/models"
	"glow-pos/internal/utils"

	"github.com/gin-gonic/gin"
)

// GetSystemStatus reports the terminal identity and collection counts so the
// frontend can show what a restore would overwrite before importing a backup.
func GetSystemStatus(c *gin.Context) {
	counts := gin.H{}
	for name, model := range map[string]interface{}{
		"products":     &models.Product{},
		"transactions": &models.Transaction{},
		"orders":       &models.PurchaseOrder{},
		"clients":      &models.Client{},
		"suppliers":    &models.Supplier{},
		"families":     &models.Family{},
		"refunds":      &models.RefundRequest{},
		"users":        &models.User{},
	} {
		var n int64
		if err := database.DB.Model(model).Count(&n).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count records"})
			return
		}
		counts[name] = n
	}

	c.JSON(http.StatusOK, gin.H{
		"terminal_id": utils.GetTerminalID(),
		"counts":      counts,
	})
}
