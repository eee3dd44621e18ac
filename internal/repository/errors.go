package repository

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrNotFound           = errors.New("record not found")
	ErrStockUnavailable   = errors.New("stock unavailable")
	ErrDuplicate          = errors.New("duplicate record")
	ErrInvalidLedgerEntry = errors.New("invalid ledger entry")
	ErrStaleStatus        = errors.New("order status changed concurrently")
)

// translate maps gorm sentinel errors onto repository errors.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	}
	return err
}
