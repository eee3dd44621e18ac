package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Order struct {
	ID             uint            `json:"id" gorm:"primaryKey"`
	UserID         *uint           `json:"user_id" gorm:"index"` // nil for guest checkout
	OrderReference string          `json:"order_reference" gorm:"size:32;uniqueIndex;not null"`
	TotalAmount    decimal.Decimal `json:"total_amount" gorm:"type:numeric(12,2);not null"`
	Status         string          `json:"status" gorm:"size:20;not null;default:'pending';index"`

	CustomerName  string `json:"customer_name" gorm:"size:100;not null"`
	CustomerEmail string `json:"customer_email" gorm:"size:100;not null"`
	CustomerPhone string `json:"customer_phone" gorm:"size:20"`

	ShippingAddress string `json:"shipping_address" gorm:"type:text;not null"`
	ShippingCity    string `json:"shipping_city" gorm:"size:50;not null"`
	ShippingCountry string `json:"shipping_country" gorm:"size:50"`
	BillingAddress  string `json:"billing_address" gorm:"type:text"`
	BillingCity     string `json:"billing_city" gorm:"size:50"`
	BillingCountry  string `json:"billing_country" gorm:"size:50"`

	PaymentMethod      string     `json:"payment_method" gorm:"size:50"`
	PaymentConfirmedAt *time.Time `json:"payment_confirmed_at"`
	PaymentNotes       string     `json:"payment_notes" gorm:"type:text"`

	Items     []OrderItem `json:"items" gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderPaid      OrderStatus = "paid"
	OrderShipped   OrderStatus = "shipped"
	OrderDelivered OrderStatus = "delivered"
	OrderCancelled OrderStatus = "cancelled"
)

// OrderStatuses lists every status an order may carry.
var OrderStatuses = []OrderStatus{OrderPending, OrderPaid, OrderShipped, OrderDelivered, OrderCancelled}

func (s OrderStatus) Valid() bool {
	for _, v := range OrderStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Terminal statuses accept no further transitions.
func (s OrderStatus) Terminal() bool {
	return s == OrderDelivered || s == OrderCancelled
}
