package handlers

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"glow-pos/internal/database"
	"glow-pos/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFinanceSummaryAggregatesLedger(t *testing.T) {
	setupTestDB(t)

	require.NoError(t, database.DB.Create(&[]models.Transaction{
		{Date: time.Now(), UserID: 1, Type: models.TxIn, Amount: 100000, Method: "OM", Category: "Vente"},
		{Date: time.Now(), UserID: 1, Type: models.TxIn, Amount: 50000, Method: "CASH_GNF", Category: "Vente"},
		{Date: time.Now(), UserID: 1, Type: models.TxOut, Amount: 30000, Method: "CASH_GNF", Category: "Dépense"},
	}).Error)

	r := testRouter("admin")
	r.GET("/api/finance/summary", GetFinanceSummary)

	w := performJSON(t, r, "GET", "/api/finance/summary", nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, 150000.0, body["revenue"])
	assert.Equal(t, 30000.0, body["expenses"])
	assert.Equal(t, 120000.0, body["profit"])
}

func TestRecordExpense(t *testing.T) {
	setupTestDB(t)

	r := testRouter("admin")
	r.POST("/api/finance/expenses", RecordExpense)

	w := performJSON(t, r, "POST", "/api/finance/expenses", map[string]interface{}{
		"description": "Transport marchandises",
		"amount":      25000,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var expense models.Transaction
	require.NoError(t, database.DB.First(&expense).Error)
	assert.Equal(t, models.TxOut, expense.Type)
	assert.Equal(t, "Dépense", expense.Category)
	assert.Equal(t, "CASH_GNF", expense.Method)
	assert.Equal(t, 25000.0, expense.Amount)

	// Negative amounts never enter the ledger
	w = performJSON(t, r, "POST", "/api/finance/expenses", map[string]interface{}{
		"description": "n/a", "amount": -500,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func seedRefundRequest(t *testing.T, productStock int) (models.Product, models.Client, models.RefundRequest) {
	t.Helper()

	product := models.Product{Name: "Sérum Vitamine C", SellPrice: 40000, Stock: productStock}
	require.NoError(t, database.DB.Create(&product).Error)
	client := models.Client{Name: "Fatou", Balance: 100000}
	require.NoError(t, database.DB.Create(&client).Error)

	request := models.RefundRequest{
		Date: time.Now(), UserID: 1, ClientID: &client.ID, ClientName: client.Name,
		Amount: 80000,
		Items:  []models.RefundItem{{ProductID: product.ID, Name: product.Name, Quantity: 2}},
	}
	require.NoError(t, database.DB.Create(&request).Error)
	return product, client, request
}

func TestApproveRefundRoundTrip(t *testing.T) {
	setupTestDB(t)
	product, client, request := seedRefundRequest(t, 5)

	r := testRouter("admin")
	r.POST("/api/finance/refunds/:id/approve", ApproveRefund)

	w := performJSON(t, r, "POST", fmt.Sprintf("/api/finance/refunds/%d/approve", request.ID), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// OUT entry on the ledger
	var refund models.Transaction
	require.NoError(t, database.DB.Where("type = ?", models.TxOut).First(&refund).Error)
	assert.Equal(t, 80000.0, refund.Amount)
	assert.Equal(t, "Retour", refund.Category)

	// Stock reinstated
	var updated models.Product
	require.NoError(t, database.DB.First(&updated, product.ID).Error)
	assert.Equal(t, 7, updated.Stock)

	// Net spend walked back
	var regular models.Client
	require.NoError(t, database.DB.First(&regular, client.ID).Error)
	assert.Equal(t, 20000.0, regular.Balance)

	// Request and its lines are gone
	var requests, items int64
	database.DB.Model(&models.RefundRequest{}).Count(&requests)
	database.DB.Model(&models.RefundItem{}).Count(&items)
	assert.Zero(t, requests)
	assert.Zero(t, items)
}

func TestApproveRefundPaysOutExactlyOnce(t *testing.T) {
	setupTestDB(t)
	product, client, request := seedRefundRequest(t, 5)

	r := testRouter("admin")
	r.POST("/api/finance/refunds/:id/approve", ApproveRefund)
	r.POST("/api/finance/refunds/:id/reject", RejectRefund)

	w := performJSON(t, r, "POST", fmt.Sprintf("/api/finance/refunds/%d/approve", request.ID), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// A second approval (or a late reject) finds the request gone
	w = performJSON(t, r, "POST", fmt.Sprintf("/api/finance/refunds/%d/approve", request.ID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = performJSON(t, r, "POST", fmt.Sprintf("/api/finance/refunds/%d/reject", request.ID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Money and stock moved exactly once
	var outCount int64
	database.DB.Model(&models.Transaction{}).Where("type = ?", models.TxOut).Count(&outCount)
	assert.Equal(t, int64(1), outCount)

	var updated models.Product
	require.NoError(t, database.DB.First(&updated, product.ID).Error)
	assert.Equal(t, 7, updated.Stock)

	var regular models.Client
	require.NoError(t, database.DB.First(&regular, client.ID).Error)
	assert.Equal(t, 20000.0, regular.Balance)
}

func TestRejectRefundLeavesBooksAlone(t *testing.T) {
	setupTestDB(t)
	product, client, request := seedRefundRequest(t, 5)

	r := testRouter("admin")
	r.POST("/api/finance/refunds/:id/reject", RejectRefund)

	w := performJSON(t, r, "POST", fmt.Sprintf("/api/finance/refunds/%d/reject", request.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var txCount int64
	database.DB.Model(&models.Transaction{}).Count(&txCount)
	assert.Zero(t, txCount)

	var updated models.Product
	require.NoError(t, database.DB.First(&updated, product.ID).Error)
	assert.Equal(t, 5, updated.Stock)

	var regular models.Client
	require.NoError(t, database.DB.First(&regular, client.ID).Error)
	assert.Equal(t, 100000.0, regular.Balance)

	var requests int64
	database.DB.Model(&models.RefundRequest{}).Count(&requests)
	assert.Zero(t, requests)
}

func TestBackupExportImportRoundTrip(t *testing.T) {
	setupTestDB(t)

	product := models.Product{Name: "Masque Argile", SellPrice: 22000, Stock: 8}
	require.NoError(t, database.DB.Create(&product).Error)
	client := models.Client{Name: "Binta", Balance: 15000}
	require.NoError(t, database.DB.Create(&client).Error)
	sale := models.Transaction{
		Date: time.Now(), UserID: 1, Type: models.TxIn, Amount: 22000, Method: "MTN", Category: "Vente",
		Items: []models.TransactionItem{{ProductID: product.ID, Name: product.Name, Quantity: 1, Price: 22000}},
	}
	require.NoError(t, database.DB.Create(&sale).Error)

	doc, err := database.ExportAll()
	require.NoError(t, err)
	assert.NotEmpty(t, doc.ExportDate)

	// Wipe the catalogue, then restore from the backup
	require.NoError(t, database.DB.Where("1 = 1").Delete(&models.Product{}).Error)

	r := testRouter("admin")
	r.POST("/api/backup/import", ImportBackup)

	w := performJSON(t, r, "POST", "/api/backup/import", doc)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var restored models.Product
	require.NoError(t, database.DB.Where("name = ?", "Masque Argile").First(&restored).Error)
	assert.Equal(t, 8, restored.Stock)
	assert.Equal(t, 22000.0, restored.SellPrice)

	// A second import of the same document changes nothing
	w = performJSON(t, r, "POST", "/api/backup/import", doc)
	require.Equal(t, http.StatusOK, w.Code)

	again, err := database.ExportAll()
	require.NoError(t, err)
	assert.Equal(t, doc.Products, again.Products)
	assert.Equal(t, doc.Clients, again.Clients)
	assert.Equal(t, doc.Transactions, again.Transactions)
}

func TestImportBackupRejectsGarbage(t *testing.T) {
	setupTestDB(t)

	product := models.Product{Name: "Crème Solaire", Stock: 3}
	require.NoError(t, database.DB.Create(&product).Error)

	r := testRouter("admin")
	r.POST("/api/backup/import", ImportBackup)

	w := performJSON(t, r, "POST", "/api/backup/import", map[string]interface{}{
		"products": "this is not json",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Fichier invalide")

	// The failed restore rolled back, nothing was lost
	var count int64
	database.DB.Model(&models.Product{}).Count(&count)
	assert.Equal(t, int64(1), count)
}
