// Package pricing holds the cost and cart arithmetic shared by receiving,
// checkout and the reports, so every workflow prices goods the same way.
package pricing

// DefaultMargin is the markup applied when receiving creates a product the
// catalogue has never seen (sell = landed cost × 1.3).
const DefaultMargin = 1.3

// UnitOverhead amortizes the order-level freight/incidental charges over
// every unit ordered. Zero units ordered means nothing to amortize.
func UnitOverhead(overheadTotal float64, totalUnits int) float64 {
	if totalUnits <= 0 {
		return 0
	}
	return overheadTotal / float64(totalUnits)
}

// LandedCost is the per-unit cost basis used for margins: the supplier buy
// price plus this unit's share of the order overhead.
func LandedCost(buyPrice, unitOverhead float64) float64 {
	return buyPrice + unitOverhead
}

// DefaultSellPrice derives a sell price for a freshly created product.
func DefaultSellPrice(landedCost float64) float64 {
	return landedCost * DefaultMargin
}

// CartLine is the minimal view of a cart entry the totals need.
type CartLine struct {
	Price    float64
	Quantity int
}

// CartTotal sums price × quantity over the cart.
func CartTotal(lines []CartLine) float64 {
	var total float64
	for _, l := range lines {
		total += l.Price * float64(l.Quantity)
	}
	return total
}

// ChangeDue is what the cashier hands back. Advisory only, never persisted.
func ChangeDue(cashReceived, total float64) float64 {
	if cashReceived > total {
		return cashReceived - total
	}
	return 0
}

// Margin is the per-unit gain at the current prices.
func Margin(sellPrice, costPrice float64) float64 {
	return sellPrice - costPrice
}
