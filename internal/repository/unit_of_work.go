package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repositories bundles the repositories that share one transaction.
type Repositories struct {
	Products   ProductRepository
	Orders     OrderRepository
	Ledger     LedgerRepository
	Categories CategoryRepository
}

func NewRepositories(db *gorm.DB) Repositories {
	return Repositories{
		Products:   NewProductRepository(db),
		Orders:     NewOrderRepository(db),
		Ledger:     NewLedgerRepository(db),
		Categories: NewCategoryRepository(db),
	}
}

// UnitOfWork runs fn inside a single transaction. A non-nil error from fn, a
// panic, or cancellation of ctx rolls back every write made through repos.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(repos Repositories) error) error
}

type gormUnitOfWork struct {
	db *gorm.DB
}

func NewUnitOfWork(db *gorm.DB) UnitOfWork {
	return &gormUnitOfWork{db: db}
}

func (u *gormUnitOfWork) Do(ctx context.Context, fn func(repos Repositories) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepositories(tx))
	})
}
