package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Product struct {
	ID                uint            `json:"id" gorm:"primaryKey"`
	Name              string          `json:"name" gorm:"not null;index"`
	Description       string          `json:"description" gorm:"type:text;not null"`
	Price             decimal.Decimal `json:"price" gorm:"type:numeric(12,2);not null"`
	ImageURL          string          `json:"image_url"`
	StockQuantity     int             `json:"stock_quantity" gorm:"not null;default:0;check:stock_quantity >= 0"`
	LowStockThreshold int             `json:"low_stock_threshold" gorm:"not null;default:10"`
	IsActive          bool            `json:"is_active" gorm:"not null"`
	CategoryID        *uint           `json:"category_id" gorm:"index"`
	Category          *Category       `json:"category,omitempty"`
	UnitOfMeasureID   *uint           `json:"unit_of_measure_id"`
	UnitOfMeasure     *UnitOfMeasure  `json:"unit_of_measure,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
	DeletedAt         gorm.DeletedAt  `json:"-" gorm:"index"`
}

// IsLowStock reports whether the product is at or below its restock threshold.
func (p *Product) IsLowStock() bool {
	return p.StockQuantity <= p.LowStockThreshold
}

type Category struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	Name        string `json:"name" gorm:"unique;not null"`
	Description string `json:"description"`
	IsActive    bool   `json:"is_active" gorm:"not null"`
}

type UnitOfMeasure struct {
	ID           uint   `json:"id" gorm:"primaryKey"`
	Name         string `json:"name" gorm:"unique;not null"`
	Abbreviation string `json:"abbreviation"`
}

func (UnitOfMeasure) TableName() string {
	return "units_of_measure"
}
