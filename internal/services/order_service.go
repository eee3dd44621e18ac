package services

import (
	"context"
	"errors"
	"fmt"
	"grocery_store/internal/models"
	"grocery_store/internal/repository"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// allowedTransitions is the admin workflow graph. Statuses missing from the
// map (delivered, cancelled) are terminal.
var allowedTransitions = map[models.OrderStatus][]models.OrderStatus{
	models.OrderPending: {models.OrderPaid, models.OrderCancelled},
	models.OrderPaid:    {models.OrderShipped, models.OrderCancelled},
	models.OrderShipped: {models.OrderDelivered},
}

// CanTransition reports whether an order may move from one status to another.
func CanTransition(from, to models.OrderStatus) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// revenueStatuses are the statuses whose totals count as collected money.
var revenueStatuses = []string{string(models.OrderPaid), string(models.OrderShipped), string(models.OrderDelivered)}

type Dashboard struct {
	TotalOrders    int64            `json:"total_orders"`
	OrdersByStatus map[string]int64 `json:"orders_by_status"`
	Revenue        decimal.Decimal  `json:"revenue"`
	LowStockCount  int              `json:"low_stock_count"`
	RecentOrders   []models.Order   `json:"recent_orders"`
}

type OrderService interface {
	GetOrder(ctx context.Context, id uint) (*models.Order, error)
	GetOrderByReference(ctx context.Context, reference string) (*models.Order, error)
	GetUserOrders(ctx context.Context, userID uint, limit, offset int) ([]models.Order, error)
	ListOrders(ctx context.Context, filter repository.OrderFilter) ([]models.Order, error)
	ListPending(ctx context.Context) ([]models.Order, error)
	UpdateStatus(ctx context.Context, id uint, status string, notes string, actingUserID *uint) (*models.Order, error)
	// StartPayment records that the customer began paying a pending order.
	// It changes nothing; the order is returned for notification.
	StartPayment(ctx context.Context, reference string) (*models.Order, error)
	Dashboard(ctx context.Context) (*Dashboard, error)
}

type orderService struct {
	orders   repository.OrderRepository
	products repository.ProductRepository
	uow      repository.UnitOfWork
	now      func() time.Time
	logger   *zap.Logger
}

func NewOrderService(orders repository.OrderRepository, products repository.ProductRepository, uow repository.UnitOfWork, logger *zap.Logger) OrderService {
	return &orderService{
		orders:   orders,
		products: products,
		uow:      uow,
		now:      time.Now,
		logger:   logger,
	}
}

func (s *orderService) GetOrder(ctx context.Context, id uint) (*models.Order, error) {
	order, err := s.orders.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrOrderNotFound
	}
	return order, err
}

func (s *orderService) GetOrderByReference(ctx context.Context, reference string) (*models.Order, error) {
	order, err := s.orders.GetByReference(ctx, reference)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrOrderNotFound
	}
	return order, err
}

func (s *orderService) StartPayment(ctx context.Context, reference string) (*models.Order, error) {
	order, err := s.GetOrderByReference(ctx, reference)
	if err != nil {
		return nil, err
	}
	if order.Status != string(models.OrderPending) {
		return nil, fmt.Errorf("%w: order %s is %s", ErrInvalidTransition, order.OrderReference, order.Status)
	}
	s.logger.Info("payment started",
		zap.String("reference", order.OrderReference),
		zap.String("payment_method", order.PaymentMethod),
	)
	return order, nil
}

func (s *orderService) GetUserOrders(ctx context.Context, userID uint, limit, offset int) ([]models.Order, error) {
	return s.orders.GetByUserID(ctx, userID, limit, offset)
}

func (s *orderService) ListOrders(ctx context.Context, filter repository.OrderFilter) ([]models.Order, error) {
	if filter.Status != "" && !models.OrderStatus(filter.Status).Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, filter.Status)
	}
	return s.orders.List(ctx, filter)
}

func (s *orderService) ListPending(ctx context.Context) ([]models.Order, error) {
	return s.orders.List(ctx, repository.OrderFilter{Status: string(models.OrderPending), Limit: 500})
}

// UpdateStatus moves an order along the workflow graph. Reaching paid stamps
// PaymentConfirmedAt once; cancelling returns the items to stock.
func (s *orderService) UpdateStatus(ctx context.Context, id uint, status string, notes string, actingUserID *uint) (*models.Order, error) {
	next := models.OrderStatus(status)
	if !next.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	var order *models.Order
	err := s.uow.Do(ctx, func(repos repository.Repositories) error {
		current, err := repos.Orders.GetByID(ctx, id)
		if errors.Is(err, repository.ErrNotFound) {
			return ErrOrderNotFound
		}
		if err != nil {
			return err
		}

		from := models.OrderStatus(current.Status)
		if !CanTransition(from, next) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, next)
		}

		now := s.now()
		current.Status = string(next)
		current.UpdatedAt = now
		if next == models.OrderPaid && current.PaymentConfirmedAt == nil {
			current.PaymentConfirmedAt = &now
		}
		if notes != "" {
			current.PaymentNotes = notes
		}

		if err := repos.Orders.TransitionStatus(ctx, current, string(from)); err != nil {
			if errors.Is(err, repository.ErrStaleStatus) {
				return fmt.Errorf("%w: order %d was updated concurrently", ErrInvalidTransition, id)
			}
			return err
		}

		if next == models.OrderCancelled {
			if err := s.restock(ctx, repos, current, actingUserID); err != nil {
				return err
			}
		}

		order = current
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("order status updated",
		zap.Uint("order_id", order.ID),
		zap.String("reference", order.OrderReference),
		zap.String("status", order.Status),
	)
	return order, nil
}

// restock returns each line of a cancelled order to stock with a Return
// ledger entry. Lines whose product has since been removed are skipped.
func (s *orderService) restock(ctx context.Context, repos repository.Repositories, order *models.Order, actingUserID *uint) error {
	orderID := order.ID
	for _, item := range order.Items {
		if item.ProductID == nil {
			continue
		}

		newQuantity, err := repos.Products.AdjustStock(ctx, *item.ProductID, item.Quantity)
		if errors.Is(err, repository.ErrNotFound) {
			s.logger.Warn("skipping restock of removed product",
				zap.Uint("product_id", *item.ProductID),
				zap.String("reference", order.OrderReference),
			)
			continue
		}
		if err != nil {
			return fmt.Errorf("restock product %d: %w", *item.ProductID, err)
		}

		if err := repos.Ledger.Append(ctx, &models.InventoryLedger{
			ProductID:      *item.ProductID,
			ChangeType:     string(models.ChangeReturn),
			QuantityChange: item.Quantity,
			NewQuantity:    newQuantity,
			OrderID:        &orderID,
			UserID:         actingUserID,
			Notes:          "Order " + order.OrderReference + " cancelled",
		}); err != nil {
			return fmt.Errorf("append ledger entry: %w", err)
		}
	}
	return nil
}

func (s *orderService) Dashboard(ctx context.Context) (*Dashboard, error) {
	counts, err := s.orders.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	revenue, err := s.orders.Revenue(ctx, revenueStatuses)
	if err != nil {
		return nil, err
	}
	lowStock, err := s.products.LowStock(ctx)
	if err != nil {
		return nil, err
	}
	recent, err := s.orders.List(ctx, repository.OrderFilter{Limit: 10})
	if err != nil {
		return nil, err
	}

	var total int64
	for _, n := range counts {
		total += n
	}

	return &Dashboard{
		TotalOrders:    total,
		OrdersByStatus: counts,
		Revenue:        revenue,
		LowStockCount:  len(lowStock),
		RecentOrders:   recent,
	}, nil
}
