package services

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Validation errors. Returned before any write; never retried.
var (
	ErrEmptyCart         = errors.New("cart is empty")
	ErrInvalidQuantity   = errors.New("quantity must be positive")
	ErrProductNotFound   = errors.New("product not found")
	ErrPriceMismatch     = errors.New("price mismatch")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrInvalidInput      = errors.New("invalid input")
)

// Conflict errors. The caller may re-read stock and resubmit once.
var (
	ErrStockRaceLost               = errors.New("stock changed during checkout")
	ErrReferenceCollisionExhausted = errors.New("could not allocate a unique order reference")
)

var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrCategoryNotFound  = errors.New("category not found")
	ErrUnitNotFound      = errors.New("unit of measure not found")
	ErrInvalidStatus     = errors.New("invalid order status")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrNegativeStock     = errors.New("adjustment would make stock negative")
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already registered")
	ErrUnauthorized       = errors.New("authentication required")
	ErrForbidden          = errors.New("admin privileges required")
)

// CartLineError describes the first cart line that failed validation.
// errors.Is matches it against Kind.
type CartLineError struct {
	Kind        error
	Line        int
	ProductID   uint
	ProductName string
	Expected    decimal.Decimal
	Got         decimal.Decimal
	Requested   int
	Available   int
}

func (e *CartLineError) Error() string {
	switch e.Kind {
	case ErrProductNotFound:
		return fmt.Sprintf("product %d not found", e.ProductID)
	case ErrPriceMismatch:
		return fmt.Sprintf("price of %q changed: expected %s, got %s", e.ProductName, e.Expected.StringFixed(2), e.Got.StringFixed(2))
	case ErrInsufficientStock:
		return fmt.Sprintf("insufficient stock for %q: requested %d, available %d", e.ProductName, e.Requested, e.Available)
	case ErrInvalidQuantity:
		return fmt.Sprintf("line %d: quantity must be positive, got %d", e.Line+1, e.Requested)
	}
	return e.Kind.Error()
}

func (e *CartLineError) Unwrap() error {
	return e.Kind
}

// IsValidation reports errors the client can fix by editing the request.
func IsValidation(err error) bool {
	for _, target := range []error{ErrEmptyCart, ErrInvalidQuantity, ErrPriceMismatch, ErrInsufficientStock, ErrInvalidInput, ErrInvalidStatus, ErrNegativeStock} {
		if errors.Is(err, target) {
			return true
		}
	}
	var lineErr *CartLineError
	return errors.As(err, &lineErr)
}

// IsConflict reports errors caused by a lost race at commit time.
func IsConflict(err error) bool {
	return errors.Is(err, ErrStockRaceLost) || errors.Is(err, ErrReferenceCollisionExhausted)
}

// IsNotFound reports unknown ids on read and update paths.
func IsNotFound(err error) bool {
	var lineErr *CartLineError
	if errors.As(err, &lineErr) {
		return false
	}
	return errors.Is(err, ErrOrderNotFound) ||
		errors.Is(err, ErrProductNotFound) ||
		errors.Is(err, ErrCategoryNotFound) ||
		errors.Is(err, ErrUnitNotFound) ||
		errors.Is(err, ErrUserNotFound)
}
