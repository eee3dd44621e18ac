package models

import "time"

// InventoryLedger rows are append-only. For one product, replaying entries
// oldest first gives NewQuantity[n] == NewQuantity[n-1] + QuantityChange[n].
type InventoryLedger struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	ProductID      uint      `json:"product_id" gorm:"not null;index"`
	ChangeType     string    `json:"change_type" gorm:"size:30;not null"`
	QuantityChange int       `json:"quantity_change" gorm:"not null"`
	NewQuantity    int       `json:"new_quantity" gorm:"not null"`
	UserID         *uint     `json:"user_id"`
	OrderID        *uint     `json:"order_id" gorm:"index"`
	Notes          string    `json:"notes" gorm:"type:text"`
	CreatedAt      time.Time `json:"created_at" gorm:"index"`
}

func (InventoryLedger) TableName() string {
	return "inventory_ledger"
}

type ChangeType string

const (
	ChangeInitialStock     ChangeType = "Initial Stock"
	ChangeSale             ChangeType = "Sale"
	ChangeManualAdjustment ChangeType = "Manual Adjustment"
	ChangeReturn           ChangeType = "Return"
)
