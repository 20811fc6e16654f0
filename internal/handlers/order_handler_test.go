package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"glow-pos/internal/database"
	"glow-pos/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedSupplier(t *testing.T) models.Supplier {
	t.Helper()
	supplier := models.Supplier{Name: "Dubai Cosmetics", Phone: "971500000001"}
	require.NoError(t, database.DB.Create(&supplier).Error)
	return supplier
}

func TestCreateOrderComputesTotals(t *testing.T) {
	setupTestDB(t)
	supplier := seedSupplier(t)

	r := testRouter("admin")
	r.POST("/api/orders", CreateOrder)

	w := performJSON(t, r, "POST", "/api/orders", map[string]interface{}{
		"supplier_id":    supplier.ID,
		"reference":      "CMD001",
		"origin":         "Dubaï",
		"overhead_total": 50000,
		"items": []map[string]interface{}{
			{"name": "Crème Mains", "barcode": "611", "buy_price": 10000, "quantity": 10},
			{"name": "Gel Douche", "buy_price": 5000, "quantity": 20},
		},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var order models.PurchaseOrder
	require.NoError(t, database.DB.Preload("Items").First(&order).Error)
	assert.Equal(t, models.OrderPending, order.Status)
	assert.Equal(t, 30, order.TotalArticles)
	// 10×10000 + 20×5000 + 50000 overhead
	assert.Equal(t, 250000.0, order.TotalCost)
	require.Len(t, order.Items, 2)

	// Nothing on the shelf yet
	var products int64
	database.DB.Model(&models.Product{}).Count(&products)
	assert.Zero(t, products)
}

func TestCreateOrderNeedsSupplierAndItems(t *testing.T) {
	setupTestDB(t)

	r := testRouter("admin")
	r.POST("/api/orders", CreateOrder)

	w := performJSON(t, r, "POST", "/api/orders", map[string]interface{}{
		"items": []map[string]interface{}{},
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "fournisseur")
}

func TestReceiveOrderUpsertsWithLandedCost(t *testing.T) {
	setupTestDB(t)
	supplier := seedSupplier(t)

	existing := models.Product{Name: "Crème Mains", Barcode: "611", CostPrice: 9000, SellPrice: 20000, Stock: 3}
	require.NoError(t, database.DB.Create(&existing).Error)

	// Overhead 30000 over 30 units ordered = 1000 per unit, exactly
	order := models.PurchaseOrder{
		UserID: 1, SupplierID: supplier.ID, Status: models.OrderPending,
		OverheadTotal: 30000, TotalArticles: 30,
		Items: []models.OrderItem{
			{Name: "Crème Mains", Barcode: "611", BuyPrice: 10000, Quantity: 10},
			{Name: "Huile d'Argan", BuyPrice: 15000, Quantity: 20},
		},
	}
	require.NoError(t, database.DB.Create(&order).Error)

	r := testRouter("admin")
	r.POST("/api/orders/:id/receive", ReceiveOrder)

	w := performJSON(t, r, "POST", fmt.Sprintf("/api/orders/%d/receive", order.ID), map[string]interface{}{
		"received_item_ids": []uint{order.Items[0].ID, order.Items[1].ID},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// Barcode match: stock topped up, landed cost replaces the old cost,
	// sell price untouched
	var matched models.Product
	require.NoError(t, database.DB.First(&matched, existing.ID).Error)
	assert.Equal(t, 13, matched.Stock)
	assert.Equal(t, 11000.0, matched.CostPrice)
	assert.Equal(t, 20000.0, matched.SellPrice)

	// Miss: product created with the default margin on the landed cost
	var created models.Product
	require.NoError(t, database.DB.Where("name = ?", "Huile d'Argan").First(&created).Error)
	assert.Equal(t, 20, created.Stock)
	assert.Equal(t, 16000.0, created.CostPrice)
	assert.InDelta(t, 20800.0, created.SellPrice, 0.0001)
	require.NotNil(t, created.SupplierID)
	assert.Equal(t, supplier.ID, *created.SupplierID)

	var refreshed models.PurchaseOrder
	require.NoError(t, database.DB.First(&refreshed, order.ID).Error)
	assert.Equal(t, models.OrderReceived, refreshed.Status)
}

func TestReceiveOrderMatchesNameCaseInsensitive(t *testing.T) {
	setupTestDB(t)
	supplier := seedSupplier(t)

	existing := models.Product{Name: "Beurre de Karité", CostPrice: 8000, SellPrice: 18000, Stock: 1}
	require.NoError(t, database.DB.Create(&existing).Error)

	order := models.PurchaseOrder{
		UserID: 1, SupplierID: supplier.ID, Status: models.OrderPending,
		TotalArticles: 5,
		Items: []models.OrderItem{
			{Name: "  beurre de karité ", BuyPrice: 8500, Quantity: 5},
		},
	}
	require.NoError(t, database.DB.Create(&order).Error)

	r := testRouter("admin")
	r.POST("/api/orders/:id/receive", ReceiveOrder)

	w := performJSON(t, r, "POST", fmt.Sprintf("/api/orders/%d/receive", order.ID), map[string]interface{}{
		"received_item_ids": []uint{order.Items[0].ID},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// Matched the existing record instead of creating a duplicate
	var count int64
	database.DB.Model(&models.Product{}).Count(&count)
	assert.Equal(t, int64(1), count)

	var matched models.Product
	require.NoError(t, database.DB.First(&matched, existing.ID).Error)
	assert.Equal(t, 6, matched.Stock)
}

func TestReceiveOrderPartialDelivery(t *testing.T) {
	setupTestDB(t)
	supplier := seedSupplier(t)

	order := models.PurchaseOrder{
		UserID: 1, SupplierID: supplier.ID, Status: models.OrderPending,
		TotalArticles: 15,
		Items: []models.OrderItem{
			{Name: "Mascara Noir", BuyPrice: 12000, Quantity: 5},
			{Name: "Vernis Rouge", BuyPrice: 6000, Quantity: 10},
		},
	}
	require.NoError(t, database.DB.Create(&order).Error)

	r := testRouter("admin")
	r.POST("/api/orders/:id/receive", ReceiveOrder)

	w := performJSON(t, r, "POST", fmt.Sprintf("/api/orders/%d/receive", order.ID), map[string]interface{}{
		"received_item_ids": []uint{order.Items[0].ID},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// Only the pointed line entered stock; the missing one left no product
	var count int64
	database.DB.Model(&models.Product{}).Count(&count)
	assert.Equal(t, int64(1), count)

	var items []models.OrderItem
	require.NoError(t, database.DB.Where("order_id = ?", order.ID).Order("id").Find(&items).Error)
	assert.True(t, items[0].Received)
	assert.False(t, items[1].Received)

	// The report names the missing line
	assert.Contains(t, w.Body.String(), "Vernis Rouge")
}

func TestReceivedOrderIsFrozen(t *testing.T) {
	setupTestDB(t)
	supplier := seedSupplier(t)

	order := models.PurchaseOrder{
		UserID: 1, SupplierID: supplier.ID, Status: models.OrderReceived,
		Items: []models.OrderItem{{Name: "Gommage Sucre", BuyPrice: 7000, Quantity: 3}},
	}
	require.NoError(t, database.DB.Create(&order).Error)

	r := testRouter("admin")
	r.POST("/api/orders/:id/receive", ReceiveOrder)
	r.POST("/api/orders/:id/cancel", CancelOrder)

	w := performJSON(t, r, "POST", fmt.Sprintf("/api/orders/%d/receive", order.ID), map[string]interface{}{
		"received_item_ids": []uint{order.Items[0].ID},
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = performJSON(t, r, "POST", fmt.Sprintf("/api/orders/%d/cancel", order.ID), nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	// Double reception never double-counts stock
	var count int64
	database.DB.Model(&models.Product{}).Count(&count)
	assert.Zero(t, count)
}

func TestCancelPendingOrder(t *testing.T) {
	setupTestDB(t)
	supplier := seedSupplier(t)

	order := models.PurchaseOrder{
		UserID: 1, SupplierID: supplier.ID, Status: models.OrderPending,
		Items: []models.OrderItem{{Name: "Démaquillant", BuyPrice: 4000, Quantity: 2}},
	}
	require.NoError(t, database.DB.Create(&order).Error)

	r := testRouter("admin")
	r.POST("/api/orders/:id/cancel", CancelOrder)

	w := performJSON(t, r, "POST", fmt.Sprintf("/api/orders/%d/cancel", order.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var refreshed models.PurchaseOrder
	require.NoError(t, database.DB.First(&refreshed, order.ID).Error)
	assert.Equal(t, models.OrderCancelled, refreshed.Status)

	// Terminal: a repeated cancel hits the conditional flip and conflicts
	w = performJSON(t, r, "POST", fmt.Sprintf("/api/orders/%d/cancel", order.ID), nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestReceiveAppliesStockExactlyOnce(t *testing.T) {
	setupTestDB(t)
	supplier := seedSupplier(t)

	order := models.PurchaseOrder{
		UserID: 1, SupplierID: supplier.ID, Status: models.OrderPending,
		TotalArticles: 4,
		Items:         []models.OrderItem{{Name: "Eau Florale", BuyPrice: 9000, Quantity: 4}},
	}
	require.NoError(t, database.DB.Create(&order).Error)

	r := testRouter("admin")
	r.POST("/api/orders/:id/receive", ReceiveOrder)

	body := map[string]interface{}{"received_item_ids": []uint{order.Items[0].ID}}

	w := performJSON(t, r, "POST", fmt.Sprintf("/api/orders/%d/receive", order.ID), body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = performJSON(t, r, "POST", fmt.Sprintf("/api/orders/%d/receive", order.ID), body)
	assert.Equal(t, http.StatusConflict, w.Code)

	// One delivery, one stock landing
	var product models.Product
	require.NoError(t, database.DB.Where("name = ?", "Eau Florale").First(&product).Error)
	assert.Equal(t, 4, product.Stock)
}
