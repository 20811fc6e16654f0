package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"glow-pos/internal/database"
	"glow-pos/internal/models"
	"glow-pos/internal/pricing"
	"glow-pos/internal/whatsapp"

	"github.com/gin-gonic/gin"
)

type OrderRequest struct {
	SupplierID       uint    `json:"supplier_id"`
	Reference        string  `json:"reference"`
	Origin           string  `json:"origin"`
	ExpectedDelivery string  `json:"expected_delivery"` // YYYY-MM-DD
	OverheadTotal    float64 `json:"overhead_total"`
	Items            []struct {
		Name     string  `json:"name"`
		Barcode  string  `json:"barcode"`
		BuyPrice float64 `json:"buy_price"`
		Quantity int     `json:"quantity"`
	} `json:"items"`
}

// CreateOrder registers a pending supplier order. Nothing touches stock
// until reception is pointed item by item.
func CreateOrder(c *gin.Context) {
	var req OrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if req.SupplierID == 0 || len(req.Items) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Veuillez choisir un fournisseur et ajouter des articles."})
		return
	}

	var supplier models.Supplier
	if err := database.DB.First(&supplier, req.SupplierID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Supplier not found"})
		return
	}

	userID := c.MustGet("userID").(uint)

	var totalArticles int
	var goodsCost float64
	var items []models.OrderItem
	for _, it := range req.Items {
		if strings.TrimSpace(it.Name) == "" || it.Quantity <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Each line needs a name and a positive quantity"})
			return
		}
		totalArticles += it.Quantity
		goodsCost += it.BuyPrice * float64(it.Quantity)
		items = append(items, models.OrderItem{
			Name:     it.Name,
			Barcode:  it.Barcode,
			BuyPrice: it.BuyPrice,
			Quantity: it.Quantity,
		})
	}

	order := models.PurchaseOrder{
		Date:          time.Now(),
		UserID:        userID,
		SupplierID:    req.SupplierID,
		Reference:     req.Reference,
		Origin:        req.Origin,
		OverheadTotal: req.OverheadTotal,
		TotalArticles: totalArticles,
		TotalCost:     goodsCost + req.OverheadTotal,
		Status:        models.OrderPending,
		Items:         items,
	}

	if req.ExpectedDelivery != "" {
		if expected, err := time.Parse("2006-01-02", req.ExpectedDelivery); err == nil {
			order.ExpectedDelivery = &expected
		}
	}

	if err := database.DB.Create(&order).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create order"})
		return
	}

	c.JSON(http.StatusCreated, order)
}

// GetOrders lists the order history, newest first.
func GetOrders(c *gin.Context) {
	var orders []models.PurchaseOrder
	if err := database.DB.Preload("Items").Order("date desc").Find(&orders).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
		return
	}
	c.JSON(http.StatusOK, orders)
}

type ReceiveRequest struct {
	ReceivedItemIDs []uint `json:"received_item_ids"`
}

// ReceiveOrder reconciles a delivery against the order. For every line
// pointed as received the product catalogue is upserted: barcode match
// first, then case-insensitive name match, first hit wins; a miss creates
// the product. Landed cost = buy price + overhead share per ordered unit.
// The whole reception is one transaction, and a RECEIVED order is frozen.
func ReceiveOrder(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
		return
	}

	var req ReceiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	receivedSet := make(map[uint]bool, len(req.ReceivedItemIDs))
	for _, itemID := range req.ReceivedItemIDs {
		receivedSet[itemID] = true
	}

	tx := database.DB.Begin()

	// Read the order under lock inside the transaction: two tills pointing
	// the same delivery must not both pass the status check.
	var order models.PurchaseOrder
	if err := database.LockForUpdate(tx).Preload("Items").First(&order, id).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}

	if order.Status != models.OrderPending {
		tx.Rollback()
		c.JSON(http.StatusConflict, gin.H{"error": "Order is already " + order.Status})
		return
	}

	unitOverhead := pricing.UnitOverhead(order.OverheadTotal, order.TotalArticles)

	for i := range order.Items {
		item := &order.Items[i]
		item.Received = receivedSet[item.ID]
		if err := tx.Save(item).Error; err != nil {
			tx.Rollback()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update order items"})
			return
		}

		if !item.Received {
			continue
		}

		landedCost := pricing.LandedCost(item.BuyPrice, unitOverhead)

		var product models.Product
		found := false

		if item.Barcode != "" {
			if err := database.LockForUpdate(tx).
				Where("barcode = ?", item.Barcode).
				Order("id").First(&product).Error; err == nil {
				found = true
			}
		}
		if !found {
			name := strings.ToLower(strings.TrimSpace(item.Name))
			if err := database.LockForUpdate(tx).
				Where("LOWER(TRIM(name)) = ?", name).
				Order("id").First(&product).Error; err == nil {
				found = true
			}
		}

		if found {
			product.Stock += item.Quantity
			product.CostPrice = landedCost
			if err := tx.Save(&product).Error; err != nil {
				tx.Rollback()
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update stock"})
				return
			}
		} else {
			supplierID := order.SupplierID
			newProduct := models.Product{
				Name:       item.Name,
				Category:   "Cosmétique",
				Barcode:    item.Barcode,
				CostPrice:  landedCost,
				SellPrice:  pricing.DefaultSellPrice(landedCost),
				Stock:      item.Quantity,
				SupplierID: &supplierID,
			}
			if err := tx.Create(&newProduct).Error; err != nil {
				tx.Rollback()
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create product"})
				return
			}
		}
	}

	// Status only moves forward: the flip is conditional so a concurrent
	// transition can never be overwritten.
	res := tx.Model(&models.PurchaseOrder{}).
		Where("id = ? AND status = ?", order.ID, models.OrderPending).
		Update("status", models.OrderReceived)
	if res.Error != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update order status"})
		return
	}
	if res.RowsAffected == 0 {
		tx.Rollback()
		c.JSON(http.StatusConflict, gin.H{"error": "Order is no longer pending"})
		return
	}
	order.Status = models.OrderReceived

	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to commit reception"})
		return
	}

	// Delivery report for the supplier: what arrived, what's still missing
	var brand models.ShopSettings
	database.DB.First(&brand)
	var supplier models.Supplier
	database.DB.First(&supplier, order.SupplierID)

	report := whatsapp.DeliveryReportText(brand, order, time.Now().Format("02/01/2006"))

	c.JSON(http.StatusOK, gin.H{
		"message":     "Stock mis à jour !",
		"order":       order,
		"report":      report,
		"report_link": whatsapp.DeepLink(supplier.Phone, report),
	})
}

// CancelOrder aborts a pending order. Received and cancelled orders are
// terminal; status only ever moves forward.
func CancelOrder(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
		return
	}

	var order models.PurchaseOrder
	if err := database.DB.First(&order, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}

	// Conditional flip: a reception that slipped in between the read and
	// this update wins, and the cancel reports the conflict.
	res := database.DB.Model(&models.PurchaseOrder{}).
		Where("id = ? AND status = ?", order.ID, models.OrderPending).
		Update("status", models.OrderCancelled)
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to cancel order"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Only pending orders can be cancelled"})
		return
	}

	order.Status = models.OrderCancelled
	c.JSON(http.StatusOK, gin.H{"message": "Order cancelled", "order": order})
}
