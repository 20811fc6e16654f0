package database

import (
	"time"

	"glow-pos/internal/models"
)

// FinanceSummary holds the ledger aggregates the dashboard (and the AI
// assistant) read.
type FinanceSummary struct {
	Revenue  float64 `json:"revenue"`
	Expenses float64 `json:"expenses"`
	Profit   float64 `json:"profit"`
}

// GetFinanceSummary sums the transaction ledger by direction.
// Profit is revenue minus expenses; no cost-of-goods estimate here, the
// valuation report covers that side.
func GetFinanceSummary() (*FinanceSummary, error) {
	var summary FinanceSummary

	// COALESCE ensures we get 0 instead of NULL on an empty ledger
	err := DB.Model(&models.Transaction{}).
		Where("type = ?", models.TxIn).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&summary.Revenue).Error
	if err != nil {
		return nil, err
	}

	err = DB.Model(&models.Transaction{}).
		Where("type = ?", models.TxOut).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&summary.Expenses).Error
	if err != nil {
		return nil, err
	}

	summary.Profit = summary.Revenue - summary.Expenses
	return &summary, nil
}

// SalesReportResult holds ranged sales numbers
type SalesReportResult struct {
	TotalRevenue float64
	TotalCount   int64
}

// GetSalesReport calculates sales (IN transactions) within a date range
func GetSalesReport(start, end time.Time) (*SalesReportResult, error) {
	var result SalesReportResult

	err := DB.Model(&models.Transaction{}).
		Where("type = ? AND date BETWEEN ? AND ?", models.TxIn, start, end).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&result.TotalRevenue).Error
	if err != nil {
		return nil, err
	}

	err = DB.Model(&models.Transaction{}).
		Where("type = ? AND date BETWEEN ? AND ?", models.TxIn, start, end).
		Count(&result.TotalCount).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

// GetStockValue totals stock × cost price across the catalogue and counts
// products actually in stock. Used by the nightly snapshot job.
func GetStockValue() (total float64, itemCount int64, err error) {
	err = DB.Model(&models.Product{}).
		Select("COALESCE(SUM(stock * cost_price), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, 0, err
	}

	err = DB.Model(&models.Product{}).
		Where("stock > 0").
		Count(&itemCount).Error
	if err != nil {
		return 0, 0, err
	}

	return total, itemCount, nil
}
