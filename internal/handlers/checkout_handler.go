package handlers

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"glow-pos/internal/database"
	"glow-pos/internal/models"
	"glow-pos/internal/pricing"
	"glow-pos/internal/utils"
	"glow-pos/internal/whatsapp"

	"github.com/gin-gonic/gin"
)

// Optional Cloud API sender; nil when WHATSAPP_* credentials are absent,
// in which case clients only get the wa.me deep link. Resolved on first
// use rather than at init, because main loads .env after this package is
// initialized.
var (
	waSenderOnce sync.Once
	waSender     *whatsapp.Client
)

func cloudSender() *whatsapp.Client {
	waSenderOnce.Do(func() {
		waSender = whatsapp.NewClientFromEnv()
	})
	return waSender
}

var validMethods = map[string]bool{
	"OM": true, "MTN": true, "CASH_GNF": true, "USD": true, "EUR": true, "CFA": true,
}

// SaleRequest defines what the till sends us
type SaleRequest struct {
	Items []struct {
		ProductID uint `json:"product_id"`
		Quantity  int  `json:"quantity"`
	} `json:"items"`
	Method       string  `json:"method"`
	ClientID     *uint   `json:"client_id,omitempty"`
	CashReceived float64 `json:"cash_received"`
}

// ProcessSale commits a checkout: stock decrements, the IN ledger entry and
// the client balance move together or not at all.
func ProcessSale(c *gin.Context) {
	var req SaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if len(req.Items) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cart is empty"})
		return
	}

	if !validMethods[req.Method] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown payment method"})
		return
	}

	userID := c.MustGet("userID").(uint)

	tx := database.DB.Begin()

	var totalAmount float64
	var saleItems []models.TransactionItem

	for _, item := range req.Items {
		if item.Quantity <= 0 {
			tx.Rollback()
			c.JSON(http.StatusBadRequest, gin.H{"error": "Quantities must be positive"})
			return
		}

		var product models.Product

		// Lock the row to prevent race conditions between tills
		if err := database.LockForUpdate(tx).First(&product, item.ProductID).Error; err != nil {
			tx.Rollback()
			c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("Product %d not found", item.ProductID)})
			return
		}

		// Stock never goes negative: refuse instead of overselling
		if product.Stock < item.Quantity {
			tx.Rollback()
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Stock insuffisant : %s", product.Name)})
			return
		}

		product.Stock -= item.Quantity
		if err := tx.Save(&product).Error; err != nil {
			tx.Rollback()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update stock"})
			return
		}

		totalAmount += product.SellPrice * float64(item.Quantity)

		saleItems = append(saleItems, models.TransactionItem{
			ProductID: product.ID,
			Name:      product.Name,
			Quantity:  item.Quantity,
			Price:     product.SellPrice,
		})
	}

	sale := models.Transaction{
		Date:        time.Now(),
		UserID:      userID,
		Type:        models.TxIn,
		Amount:      totalAmount,
		Method:      req.Method,
		Description: "Vente POS",
		Category:    "Vente",
		ClientID:    req.ClientID,
		Reference:   fmt.Sprintf("%s-%d", utils.GetTerminalID(), time.Now().UnixMilli()),
		Items:       saleItems,
	}

	if err := tx.Create(&sale).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create sale record"})
		return
	}

	// Running net spend for regulars
	var client models.Client
	if req.ClientID != nil {
		if err := tx.First(&client, *req.ClientID).Error; err != nil {
			tx.Rollback()
			c.JSON(http.StatusNotFound, gin.H{"error": "Client not found"})
			return
		}
		client.Balance += totalAmount
		if err := tx.Save(&client).Error; err != nil {
			tx.Rollback()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update client balance"})
			return
		}
	}

	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to commit sale"})
		return
	}

	// Receipt: deep link always, Cloud API push when configured.
	// The sale is already committed; a messaging failure only costs the push.
	var brand models.ShopSettings
	database.DB.First(&brand)

	receiptText := whatsapp.ReceiptText(brand, sale.Reference, saleItems, totalAmount, req.Method)
	receiptPhone := brand.WhatsApp
	if req.ClientID != nil && client.Phone != "" {
		receiptPhone = client.Phone
	}

	if sender := cloudSender(); sender != nil && receiptPhone != "" {
		go func(phone, text string) {
			ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
			defer cancel()
			if _, err := sender.SendText(ctx, phone, text); err != nil {
				log.Println("WhatsApp receipt push failed:", err)
			}
		}(receiptPhone, receiptText)
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      "Sale successful!",
		"sale_id":      sale.ID,
		"reference":    sale.Reference,
		"total":        totalAmount,
		"change_due":   pricing.ChangeDue(req.CashReceived, totalAmount),
		"receipt":      receiptText,
		"receipt_link": whatsapp.DeepLink(receiptPhone, receiptText),
	})
}

// RefundRequestInput mirrors the sale cart: same lines, opposite intent.
type RefundRequestInput struct {
	ClientID   *uint  `json:"client_id,omitempty"`
	ClientName string `json:"client_name"`
	Items      []struct {
		ProductID uint `json:"product_id"`
		Quantity  int  `json:"quantity"`
	} `json:"items"`
}

// CreateRefundRequest files a pending return. Nothing moves until an admin
// approves it from the finance screen.
func CreateRefundRequest(c *gin.Context) {
	var req RefundRequestInput
	if err := c.ShouldBindJSON(&req); err != nil || len(req.Items) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No items to return"})
		return
	}

	userID := c.MustGet("userID").(uint)

	var amount float64
	var items []models.RefundItem
	for _, item := range req.Items {
		if item.Quantity <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Quantities must be positive"})
			return
		}

		var product models.Product
		if err := database.DB.First(&product, item.ProductID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("Product %d not found", item.ProductID)})
			return
		}

		amount += product.SellPrice * float64(item.Quantity)
		items = append(items, models.RefundItem{
			ProductID: product.ID,
			Name:      product.Name,
			Quantity:  item.Quantity,
		})
	}

	clientName := req.ClientName
	if clientName == "" && req.ClientID != nil {
		var client models.Client
		if err := database.DB.First(&client, *req.ClientID).Error; err == nil {
			clientName = client.Name
		}
	}

	request := models.RefundRequest{
		Date:       time.Now(),
		UserID:     userID,
		ClientID:   req.ClientID,
		ClientName: clientName,
		Amount:     amount,
		Items:      items,
	}

	if err := database.DB.Create(&request).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to file refund request"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Demande de retour enregistrée", "request": request})
}
