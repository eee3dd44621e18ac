package services

import (
	"context"
	"errors"
	"fmt"
	"grocery_store/internal/config"
	"grocery_store/internal/models"
	"grocery_store/internal/repository"
	"math"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CartLine is one product/quantity pair with the price the client displayed.
type CartLine struct {
	ProductID uint            `json:"product_id" binding:"required"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"product_price"`
}

type CustomerInfo struct {
	Name  string `json:"customer_name" binding:"required"`
	Email string `json:"customer_email" binding:"required,email"`
	Phone string `json:"customer_phone"`
}

type AddressInfo struct {
	Address string `json:"address" binding:"required"`
	City    string `json:"city" binding:"required"`
	Country string `json:"country"`
}

type CheckoutRequest struct {
	Items    []CartLine   `json:"items" binding:"required,dive"`
	Customer CustomerInfo `json:"customer" binding:"required"`
	Shipping AddressInfo  `json:"shipping" binding:"required"`
	Billing  *AddressInfo `json:"billing"`
}

type OrderConfirmation struct {
	OrderID        uint            `json:"order_id"`
	OrderReference string          `json:"order_reference"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	CustomerEmail  string          `json:"customer_email"`
	Message        string          `json:"message"`

	// Order is the committed aggregate, items included.
	Order *models.Order `json:"-"`
}

type CheckoutService interface {
	// ValidateCart checks every line in submitted order and returns the first
	// failure. It performs reads only.
	ValidateCart(ctx context.Context, items []CartLine) ([]*models.Product, error)
	CreateOrder(ctx context.Context, req CheckoutRequest, actingUserID *uint) (*OrderConfirmation, error)
}

type checkoutService struct {
	products     repository.ProductRepository
	uow          repository.UnitOfWork
	cfg          config.CheckoutConfig
	newReference ReferenceGenerator
	logger       *zap.Logger
}

type CheckoutOption func(*checkoutService)

func WithReferenceGenerator(generate ReferenceGenerator) CheckoutOption {
	return func(s *checkoutService) {
		s.newReference = generate
	}
}

func NewCheckoutService(products repository.ProductRepository, uow repository.UnitOfWork, cfg config.CheckoutConfig, logger *zap.Logger, opts ...CheckoutOption) CheckoutService {
	if cfg.ReferenceAttempts <= 0 {
		cfg.ReferenceAttempts = 1
	}
	s := &checkoutService{
		products:     products,
		uow:          uow,
		cfg:          cfg,
		newReference: RandomReference,
		logger:       logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *checkoutService) ValidateCart(ctx context.Context, items []CartLine) ([]*models.Product, error) {
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	products := make([]*models.Product, len(items))
	seen := make(map[uint]*models.Product, len(items))
	requested := make(map[uint]int, len(items))

	for i, line := range items {
		if line.Quantity <= 0 {
			return nil, &CartLineError{Kind: ErrInvalidQuantity, Line: i, ProductID: line.ProductID, Requested: line.Quantity}
		}

		product, ok := seen[line.ProductID]
		if !ok {
			p, err := s.products.GetByID(ctx, line.ProductID)
			switch {
			case errors.Is(err, repository.ErrNotFound):
				return nil, &CartLineError{Kind: ErrProductNotFound, Line: i, ProductID: line.ProductID}
			case err != nil:
				return nil, fmt.Errorf("load product %d: %w", line.ProductID, err)
			}
			product = p
			seen[line.ProductID] = product
		}
		if err := s.checkLine(i, line, product); err != nil {
			return nil, err
		}

		// Repeated lines for one product draw from the same stock. Comparing
		// against the remainder keeps the running sum from overflowing.
		already := requested[line.ProductID]
		if line.Quantity > product.StockQuantity-already {
			total := math.MaxInt
			if line.Quantity <= math.MaxInt-already {
				total = already + line.Quantity
			}
			return nil, &CartLineError{
				Kind:        ErrInsufficientStock,
				Line:        i,
				ProductID:   product.ID,
				ProductName: product.Name,
				Requested:   total,
				Available:   product.StockQuantity,
			}
		}
		requested[line.ProductID] = already + line.Quantity

		products[i] = product
	}

	return products, nil
}

// checkLine rejects inactive products and prices outside the tolerance.
func (s *checkoutService) checkLine(i int, line CartLine, product *models.Product) error {
	if !product.IsActive {
		return &CartLineError{Kind: ErrProductNotFound, Line: i, ProductID: line.ProductID}
	}
	if product.Price.Sub(line.Price).Abs().GreaterThan(s.cfg.PriceTolerance) {
		return &CartLineError{
			Kind:        ErrPriceMismatch,
			Line:        i,
			ProductID:   product.ID,
			ProductName: product.Name,
			Expected:    product.Price,
			Got:         line.Price,
		}
	}
	return nil
}

func (s *checkoutService) CreateOrder(ctx context.Context, req CheckoutRequest, actingUserID *uint) (*OrderConfirmation, error) {
	if err := validateCheckoutRequest(req); err != nil {
		return nil, err
	}

	if _, err := s.ValidateCart(ctx, req.Items); err != nil {
		return nil, err
	}

	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}

	var order *models.Order
	err := s.uow.Do(ctx, func(repos repository.Repositories) error {
		reference, err := s.allocateReference(ctx, repos.Orders)
		if err != nil {
			return err
		}

		// The guarded decrement locks each product row, so the price and
		// status read back afterwards hold until commit.
		current := make([]*models.Product, len(req.Items))
		remaining := make([]int, len(req.Items))
		for i, line := range req.Items {
			newQuantity, err := repos.Products.DecrementStock(ctx, line.ProductID, line.Quantity)
			switch {
			case errors.Is(err, repository.ErrStockUnavailable):
				return fmt.Errorf("%w: product %d", ErrStockRaceLost, line.ProductID)
			case errors.Is(err, repository.ErrNotFound):
				return &CartLineError{Kind: ErrProductNotFound, Line: i, ProductID: line.ProductID}
			case err != nil:
				return fmt.Errorf("decrement stock for product %d: %w", line.ProductID, err)
			}

			product, err := repos.Products.GetByID(ctx, line.ProductID)
			switch {
			case errors.Is(err, repository.ErrNotFound):
				return &CartLineError{Kind: ErrProductNotFound, Line: i, ProductID: line.ProductID}
			case err != nil:
				return fmt.Errorf("reload product %d: %w", line.ProductID, err)
			}
			if err := s.checkLine(i, line, product); err != nil {
				return err
			}
			current[i] = product
			remaining[i] = newQuantity
		}

		order = s.newOrder(req, current, reference, actingUserID)
		if err := repos.Orders.Create(ctx, order); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return fmt.Errorf("%w: %s taken concurrently", ErrReferenceCollisionExhausted, reference)
			}
			return fmt.Errorf("insert order: %w", err)
		}

		for i, line := range req.Items {
			product := current[i]

			productID := product.ID
			item := models.OrderItem{
				OrderID:      order.ID,
				ProductID:    &productID,
				ProductName:  product.Name,
				ProductPrice: product.Price,
				Quantity:     line.Quantity,
				Subtotal:     models.LineTotal(product.Price, line.Quantity),
			}
			if err := repos.Orders.AddItem(ctx, &item); err != nil {
				return fmt.Errorf("insert order item: %w", err)
			}
			order.Items = append(order.Items, item)

			orderID := order.ID
			entry := &models.InventoryLedger{
				ProductID:      product.ID,
				ChangeType:     string(models.ChangeSale),
				QuantityChange: -line.Quantity,
				NewQuantity:    remaining[i],
				OrderID:        &orderID,
				UserID:         actingUserID,
				Notes:          "Order " + reference,
			}
			if err := repos.Ledger.Append(ctx, entry); err != nil {
				return fmt.Errorf("append ledger entry: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		if IsConflict(err) {
			s.logger.Warn("checkout conflict", zap.Error(err))
		} else if !IsValidation(err) {
			s.logger.Error("checkout failed", zap.Error(err))
		}
		return nil, err
	}

	s.logger.Info("order created",
		zap.Uint("order_id", order.ID),
		zap.String("reference", order.OrderReference),
		zap.String("total", order.TotalAmount.StringFixed(2)),
		zap.Int("items", len(order.Items)),
	)

	return &OrderConfirmation{
		OrderID:        order.ID,
		OrderReference: order.OrderReference,
		TotalAmount:    order.TotalAmount,
		CustomerEmail:  order.CustomerEmail,
		Message: fmt.Sprintf("Your order %s has been created. Please pay %s using %s and mention the reference %s.",
			order.OrderReference, order.TotalAmount.StringFixed(2), order.PaymentMethod, order.OrderReference),
		Order: order,
	}, nil
}

// allocateReference retries until an unused reference is found, up to the
// configured number of attempts.
func (s *checkoutService) allocateReference(ctx context.Context, orders repository.OrderRepository) (string, error) {
	for attempt := 0; attempt < s.cfg.ReferenceAttempts; attempt++ {
		suffix, err := s.newReference()
		if err != nil {
			return "", fmt.Errorf("generate order reference: %w", err)
		}
		reference := s.cfg.ReferencePrefix + "-" + suffix

		exists, err := orders.ReferenceExists(ctx, reference)
		if err != nil {
			return "", fmt.Errorf("check order reference: %w", err)
		}
		if !exists {
			return reference, nil
		}
		s.logger.Debug("order reference collision", zap.String("reference", reference), zap.Int("attempt", attempt+1))
	}
	return "", ErrReferenceCollisionExhausted
}

func (s *checkoutService) newOrder(req CheckoutRequest, products []*models.Product, reference string, actingUserID *uint) *models.Order {
	total := decimal.Zero
	for i, line := range req.Items {
		total = total.Add(models.LineTotal(products[i].Price, line.Quantity))
	}

	shippingCountry := strings.TrimSpace(req.Shipping.Country)
	if shippingCountry == "" {
		shippingCountry = s.cfg.DefaultShippingCountry
	}
	billing := AddressInfo{Address: req.Shipping.Address, City: req.Shipping.City, Country: shippingCountry}
	if req.Billing != nil {
		if req.Billing.Address != "" {
			billing.Address = req.Billing.Address
		}
		if req.Billing.City != "" {
			billing.City = req.Billing.City
		}
		if req.Billing.Country != "" {
			billing.Country = req.Billing.Country
		}
	}

	return &models.Order{
		UserID:          actingUserID,
		OrderReference:  reference,
		TotalAmount:     total,
		Status:          string(models.OrderPending),
		CustomerName:    strings.TrimSpace(req.Customer.Name),
		CustomerEmail:   strings.TrimSpace(req.Customer.Email),
		CustomerPhone:   strings.TrimSpace(req.Customer.Phone),
		ShippingAddress: req.Shipping.Address,
		ShippingCity:    req.Shipping.City,
		ShippingCountry: shippingCountry,
		BillingAddress:  billing.Address,
		BillingCity:     billing.City,
		BillingCountry:  billing.Country,
		PaymentMethod:   s.cfg.DefaultPaymentMethod,
	}
}

func validateCheckoutRequest(req CheckoutRequest) error {
	var missing []string
	if strings.TrimSpace(req.Customer.Name) == "" {
		missing = append(missing, "customer_name")
	}
	if strings.TrimSpace(req.Customer.Email) == "" {
		missing = append(missing, "customer_email")
	}
	if strings.TrimSpace(req.Shipping.Address) == "" {
		missing = append(missing, "shipping address")
	}
	if strings.TrimSpace(req.Shipping.City) == "" {
		missing = append(missing, "shipping city")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrInvalidInput, strings.Join(missing, ", "))
	}
	return nil
}
