package database

import (
	"encoding/json"
	"time"

	"glow-pos/internal/models"

	"gorm.io/gorm"
)

// BackupDocument is the single-file save format. Each collection is stored
// as its own serialized JSON string under a fixed key, so a backup taken by
// the old PWA restores here unchanged and vice versa.
type BackupDocument struct {
	Products     string `json:"products,omitempty"`
	Transactions string `json:"transactions,omitempty"`
	Orders       string `json:"orders,omitempty"`
	Clients      string `json:"clients,omitempty"`
	Suppliers    string `json:"suppliers,omitempty"`
	Families     string `json:"families,omitempty"`
	Refunds      string `json:"refunds,omitempty"`
	Brand        string `json:"brand,omitempty"`
	ExportDate   string `json:"export_date"`
}

// ExportAll serializes every collection into one backup document.
// User accounts are deliberately left out of backups.
func ExportAll() (*BackupDocument, error) {
	doc := &BackupDocument{ExportDate: time.Now().Format(time.RFC3339)}

	var products []models.Product
	if err := DB.Order("id").Find(&products).Error; err != nil {
		return nil, err
	}

	var transactions []models.Transaction
	if err := DB.Preload("Items").Order("id").Find(&transactions).Error; err != nil {
		return nil, err
	}

	var orders []models.PurchaseOrder
	if err := DB.Preload("Items").Order("id").Find(&orders).Error; err != nil {
		return nil, err
	}

	var clients []models.Client
	if err := DB.Order("id").Find(&clients).Error; err != nil {
		return nil, err
	}

	var suppliers []models.Supplier
	if err := DB.Order("id").Find(&suppliers).Error; err != nil {
		return nil, err
	}

	var families []models.Family
	if err := DB.Order("id").Find(&families).Error; err != nil {
		return nil, err
	}

	var refunds []models.RefundRequest
	if err := DB.Preload("Items").Order("id").Find(&refunds).Error; err != nil {
		return nil, err
	}

	var brand models.ShopSettings
	if err := DB.First(&brand).Error; err != nil {
		return nil, err
	}

	var err error
	if doc.Products, err = encode(products); err != nil {
		return nil, err
	}
	if doc.Transactions, err = encode(transactions); err != nil {
		return nil, err
	}
	if doc.Orders, err = encode(orders); err != nil {
		return nil, err
	}
	if doc.Clients, err = encode(clients); err != nil {
		return nil, err
	}
	if doc.Suppliers, err = encode(suppliers); err != nil {
		return nil, err
	}
	if doc.Families, err = encode(families); err != nil {
		return nil, err
	}
	if doc.Refunds, err = encode(refunds); err != nil {
		return nil, err
	}
	if doc.Brand, err = encode(brand); err != nil {
		return nil, err
	}

	return doc, nil
}

// ImportAll restores the collections present in the document, overwriting
// each one wholesale. Absent keys leave the current collection untouched.
// Everything runs in a single transaction: a malformed collection aborts
// the whole restore instead of leaving half the store replaced.
func ImportAll(doc *BackupDocument) error {
	return DB.Transaction(func(tx *gorm.DB) error {
		if doc.Products != "" {
			if err := replaceAll[models.Product](tx, doc.Products); err != nil {
				return err
			}
		}
		if doc.Transactions != "" {
			if err := tx.Where("1 = 1").Delete(&models.TransactionItem{}).Error; err != nil {
				return err
			}
			if err := replaceAll[models.Transaction](tx, doc.Transactions); err != nil {
				return err
			}
		}
		if doc.Orders != "" {
			if err := tx.Where("1 = 1").Delete(&models.OrderItem{}).Error; err != nil {
				return err
			}
			if err := replaceAll[models.PurchaseOrder](tx, doc.Orders); err != nil {
				return err
			}
		}
		if doc.Clients != "" {
			if err := replaceAll[models.Client](tx, doc.Clients); err != nil {
				return err
			}
		}
		if doc.Suppliers != "" {
			if err := replaceAll[models.Supplier](tx, doc.Suppliers); err != nil {
				return err
			}
		}
		if doc.Families != "" {
			if err := replaceAll[models.Family](tx, doc.Families); err != nil {
				return err
			}
		}
		if doc.Refunds != "" {
			if err := tx.Where("1 = 1").Delete(&models.RefundItem{}).Error; err != nil {
				return err
			}
			if err := replaceAll[models.RefundRequest](tx, doc.Refunds); err != nil {
				return err
			}
		}
		if doc.Brand != "" {
			var brand models.ShopSettings
			if err := json.Unmarshal([]byte(doc.Brand), &brand); err != nil {
				return err
			}
			if err := tx.Where("1 = 1").Delete(&models.ShopSettings{}).Error; err != nil {
				return err
			}
			if err := tx.Create(&brand).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func encode(v interface{}) (string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// replaceAll decodes a serialized collection and swaps the table contents
// for it. An empty collection just clears the table.
func replaceAll[T any](tx *gorm.DB, raw string) error {
	var records []T
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		return err
	}
	var model T
	if err := tx.Where("1 = 1").Delete(&model).Error; err != nil {
		return err
	}
	if len(records) == 0 {
		return nil
	}
	return tx.Create(&records).Error
}
