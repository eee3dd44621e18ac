// Package notification delivers order alerts after checkout commits and when a
// customer starts paying. Delivery failures are logged and never reach the
// customer.
package notification

import (
	"context"
	"fmt"
	"grocery_store/internal/models"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	EventOrderCreated   = "order_created"
	EventPaymentStarted = "payment_started"
)

type Notifier interface {
	Notify(ctx context.Context, order OrderSnapshot) error
}

type ItemSnapshot struct {
	ProductName string          `json:"product_name"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// OrderSnapshot is a detached copy of a committed order. An empty Event is
// read as EventOrderCreated.
type OrderSnapshot struct {
	Event           string          `json:"event"`
	OrderID         uint            `json:"order_id"`
	Reference       string          `json:"order_reference"`
	CustomerName    string          `json:"customer_name"`
	CustomerEmail   string          `json:"customer_email"`
	CustomerPhone   string          `json:"customer_phone"`
	ShippingAddress string          `json:"shipping_address"`
	ShippingCity    string          `json:"shipping_city"`
	ShippingCountry string          `json:"shipping_country"`
	PaymentMethod   string          `json:"payment_method"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	Items           []ItemSnapshot  `json:"items"`
	CreatedAt       time.Time       `json:"created_at"`
}

func NewSnapshot(order *models.Order) OrderSnapshot {
	items := make([]ItemSnapshot, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, ItemSnapshot{
			ProductName: item.ProductName,
			Price:       item.ProductPrice,
			Quantity:    item.Quantity,
			Subtotal:    item.Subtotal,
		})
	}
	return OrderSnapshot{
		Event:           EventOrderCreated,
		OrderID:         order.ID,
		Reference:       order.OrderReference,
		CustomerName:    order.CustomerName,
		CustomerEmail:   order.CustomerEmail,
		CustomerPhone:   order.CustomerPhone,
		ShippingAddress: order.ShippingAddress,
		ShippingCity:    order.ShippingCity,
		ShippingCountry: order.ShippingCountry,
		PaymentMethod:   order.PaymentMethod,
		TotalAmount:     order.TotalAmount,
		Items:           items,
		CreatedAt:       order.CreatedAt,
	}
}

// NewPaymentStartedSnapshot snapshots an order whose customer began paying.
func NewPaymentStartedSnapshot(order *models.Order) OrderSnapshot {
	snapshot := NewSnapshot(order)
	snapshot.Event = EventPaymentStarted
	return snapshot
}

// NotifiesCustomer reports whether the customer gets a copy of this event.
func (o OrderSnapshot) NotifiesCustomer() bool {
	return o.Event == EventPaymentStarted && o.CustomerEmail != ""
}

// Subject is the admin alert subject line.
func (o OrderSnapshot) Subject() string {
	if o.Event == EventPaymentStarted {
		return "Payment started: " + o.Reference
	}
	return "New order received: " + o.Reference
}

// Body renders the plain-text admin alert.
func (o OrderSnapshot) Body() string {
	if o.Event == EventPaymentStarted {
		return o.paymentStartedBody()
	}

	var b strings.Builder
	fmt.Fprintf(&b, "A new order has been placed.\n\n")
	fmt.Fprintf(&b, "Reference: %s\n", o.Reference)
	fmt.Fprintf(&b, "Customer:  %s <%s>", o.CustomerName, o.CustomerEmail)
	if o.CustomerPhone != "" {
		fmt.Fprintf(&b, " %s", o.CustomerPhone)
	}
	fmt.Fprintf(&b, "\nShip to:   %s, %s, %s\n", o.ShippingAddress, o.ShippingCity, o.ShippingCountry)
	fmt.Fprintf(&b, "Payment:   %s\n\nItems:\n", o.PaymentMethod)
	for _, item := range o.Items {
		fmt.Fprintf(&b, "  %d x %s @ %s = %s\n", item.Quantity, item.ProductName, item.Price.StringFixed(2), item.Subtotal.StringFixed(2))
	}
	fmt.Fprintf(&b, "\nTotal: %s\n", o.TotalAmount.StringFixed(2))
	return b.String()
}

func (o OrderSnapshot) paymentStartedBody() string {
	var b strings.Builder
	fmt.Fprintf(&b, "A customer started paying with %s.\n\n", o.PaymentMethod)
	fmt.Fprintf(&b, "Reference: %s\n", o.Reference)
	fmt.Fprintf(&b, "Customer:  %s <%s>", o.CustomerName, o.CustomerEmail)
	if o.CustomerPhone != "" {
		fmt.Fprintf(&b, " %s", o.CustomerPhone)
	}
	fmt.Fprintf(&b, "\nAmount:    %s\n\n", o.TotalAmount.StringFixed(2))
	fmt.Fprintf(&b, "Check the %s account for the transfer, then mark the order as paid.\n", o.PaymentMethod)
	return b.String()
}

// CustomerSubject is the subject of the customer's payment acknowledgement.
func (o OrderSnapshot) CustomerSubject() string {
	return "Order confirmation: " + o.Reference
}

// CustomerBody renders the customer's payment acknowledgement.
func (o OrderSnapshot) CustomerBody() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hello %s,\n\n", o.CustomerName)
	fmt.Fprintf(&b, "We received your payment request for order %s.\n\n", o.Reference)
	fmt.Fprintf(&b, "Reference: %s\n", o.Reference)
	fmt.Fprintf(&b, "Amount:    %s\n\n", o.TotalAmount.StringFixed(2))
	fmt.Fprintf(&b, "Next steps:\n")
	fmt.Fprintf(&b, "  1. Complete the payment with %s, mentioning the reference.\n", o.PaymentMethod)
	fmt.Fprintf(&b, "  2. We check the payment.\n")
	fmt.Fprintf(&b, "  3. We contact you to arrange delivery.\n")
	return b.String()
}
