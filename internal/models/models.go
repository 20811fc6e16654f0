package models

import (
	"time"
)

// User - The person behind the till (or the admin console)
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"uniqueIndex;size:50" json:"name"`
	PasswordHash string    `json:"-"`    // Never return this in JSON
	Role         string    `json:"role"` // 'admin', 'vendeur'
	IsActive     bool      `gorm:"default:true" json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}

// Product - The Inventory
type Product struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Name       string    `json:"name"`
	Category   string    `json:"category"` // Family name (Crème, Savon, Parfumerie...)
	Barcode    string    `gorm:"index;size:64" json:"barcode"`
	CostPrice  float64   `json:"cost_price"` // Landed cost: buy price + overhead share
	SellPrice  float64   `json:"sell_price"`
	Stock      int       `json:"stock"`
	SupplierID *uint     `json:"supplier_id,omitempty"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Order statuses
const (
	OrderPending   = "PENDING"
	OrderReceived  = "RECEIVED"
	OrderCancelled = "CANCELLED"
)

// PurchaseOrder - A supplier order waiting for (or past) delivery
type PurchaseOrder struct {
	ID               uint        `gorm:"primaryKey" json:"id"`
	Date             time.Time   `json:"date"`
	UserID           uint        `json:"user_id"` // Who placed it
	SupplierID       uint        `json:"supplier_id"`
	Reference        string      `gorm:"size:50" json:"reference"` // e.g. "CMD001"
	Origin           string      `json:"origin"`                   // Country/city the goods ship from
	ExpectedDelivery *time.Time  `json:"expected_delivery,omitempty"`
	OverheadTotal    float64     `json:"overhead_total"` // Freight + incidentals, amortized per unit
	TotalArticles    int         `json:"total_articles"`
	TotalCost        float64     `json:"total_cost"`
	Status           string      `gorm:"size:20;default:'PENDING'" json:"status"`
	Items            []OrderItem `gorm:"foreignKey:OrderID" json:"items"`
}

// OrderItem - One expected line on a purchase order
type OrderItem struct {
	ID       uint    `gorm:"primaryKey" json:"id"`
	OrderID  uint    `json:"order_id"`
	Name     string  `json:"name"`
	Barcode  string  `gorm:"size:64" json:"barcode"`
	BuyPrice float64 `json:"buy_price"`
	Quantity int     `json:"quantity"`
	Received bool    `json:"received"`
}

// Transaction directions
const (
	TxIn  = "IN"
	TxOut = "OUT"
)

// Transaction - The cash ledger. Append-only: every sale, expense and
// refund lands here, and finance reads nothing else.
type Transaction struct {
	ID          uint              `gorm:"primaryKey" json:"id"`
	Date        time.Time         `json:"date"`
	UserID      uint              `json:"user_id"`            // Who recorded it
	Type        string            `gorm:"size:3" json:"type"` // IN / OUT
	Amount      float64           `json:"amount"`
	Method      string            `gorm:"size:10" json:"method"` // OM, MTN, CASH_GNF, USD, EUR, CFA
	Description string            `json:"description"`
	Category    string            `json:"category"` // Vente, Dépense, Retour...
	ClientID    *uint             `json:"client_id,omitempty"`
	Reference   string            `gorm:"size:40" json:"reference"` // Receipt number (terminal-stamped)
	Items       []TransactionItem `gorm:"foreignKey:TransactionID" json:"items,omitempty"`
}

// TransactionItem - Denormalized snapshot of a sold cart line.
// Name and price are copied so later product edits don't rewrite history.
type TransactionItem struct {
	ID            uint    `gorm:"primaryKey" json:"id"`
	TransactionID uint    `json:"transaction_id"`
	ProductID     uint    `json:"product_id"`
	Name          string  `json:"name"`
	Quantity      int     `json:"quantity"`
	Price         float64 `json:"price"`
}

// RefundRequest - A return waiting for admin approval. Approval appends the
// OUT transaction and reinstates stock; until then nothing moves.
type RefundRequest struct {
	ID         uint         `gorm:"primaryKey" json:"id"`
	Date       time.Time    `json:"date"`
	UserID     uint         `json:"user_id"`
	ClientID   *uint        `json:"client_id,omitempty"`
	ClientName string       `json:"client_name"`
	Amount     float64      `json:"amount"`
	Items      []RefundItem `gorm:"foreignKey:RefundRequestID" json:"items"`
}

// RefundItem - One returned product line
type RefundItem struct {
	ID              uint   `gorm:"primaryKey" json:"id"`
	RefundRequestID uint   `json:"refund_request_id"`
	ProductID       uint   `json:"product_id"`
	Name            string `json:"name"`
	Quantity        int    `json:"quantity"`
}

// Supplier - Where the goods come from
type Supplier struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Name     string `json:"name"`
	Phone    string `gorm:"size:30" json:"phone"`
	Category string `json:"category"`
}

// Client - A regular customer. Balance tracks lifetime net spend:
// confirmed sales add to it, approved refunds subtract.
type Client struct {
	ID      uint    `gorm:"primaryKey" json:"id"`
	Name    string  `json:"name"`
	Phone   string  `gorm:"size:30" json:"phone"`
	Address string  `json:"address"`
	Balance float64 `json:"balance"`
}

// Family - A free-standing category tag for products
type Family struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"uniqueIndex;size:80" json:"name"`
}

// ShopSettings - Single-row brand record read by receipts and the frontend
type ShopSettings struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	Name       string `json:"name"`
	Tagline    string `json:"tagline"`
	PhoneGn    string `gorm:"size:30" json:"phone_gn"`
	PhoneSn    string `gorm:"size:30" json:"phone_sn"`
	WhatsApp   string `gorm:"size:30" json:"whatsapp"` // Digits only, used for wa.me links
	Socials    string `json:"socials"`
	MapAddress string `json:"map_address"`
	LogoURL    string `json:"logo_url"`
}

// StockSnapshot - Nightly valuation point for the history chart
type StockSnapshot struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	TakenAt    time.Time `json:"taken_at"`
	TotalValue float64   `json:"total_value"` // Σ stock × cost price
	ItemCount  int       `json:"item_count"`  // Distinct products with stock > 0
}
