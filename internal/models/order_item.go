package models

import (
	"github.com/shopspring/decimal"
)

// OrderItem is immutable once its order is committed. ProductName and
// ProductPrice are copied from the catalog at checkout time so later price
// edits or product removal leave the order history intact.
type OrderItem struct {
	ID           uint            `json:"id" gorm:"primaryKey"`
	OrderID      uint            `json:"order_id" gorm:"not null;index"`
	ProductID    *uint           `json:"product_id" gorm:"index"`
	ProductName  string          `json:"product_name" gorm:"size:200;not null"`
	ProductPrice decimal.Decimal `json:"product_price" gorm:"type:numeric(12,2);not null"`
	Quantity     int             `json:"quantity" gorm:"not null;check:quantity > 0"`
	Subtotal     decimal.Decimal `json:"subtotal" gorm:"type:numeric(12,2);not null"`
}

// LineTotal is price x quantity.
func LineTotal(price decimal.Decimal, quantity int) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(int64(quantity)))
}
