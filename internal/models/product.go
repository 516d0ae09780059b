package models

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Prices go over the wire as JSON numbers, not strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// Product is a catalog item (table products).
type Product struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	Name        string          `gorm:"size:200;not null;index" json:"name"`
	Description string          `gorm:"type:text;not null" json:"description"`
	Price       decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	Image       string          `gorm:"size:1024" json:"image,omitempty"`
	CreatedAt   time.Time       `gorm:"index" json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// Fields are the user-editable parts of a Product.
type Fields struct {
	Name        string          `validate:"required,max=200"`
	Description string          `validate:"required"`
	Price       decimal.Decimal `validate:"-"`
	Image       string          `validate:"omitempty,http_url,max=1024"`
}

// Apply overwrites the editable fields of p.
func (p *Product) Apply(f Fields) {
	p.Name = f.Name
	p.Description = f.Description
	p.Price = f.Price
	p.Image = f.Image
}

// PriceString formats the price with two decimals for display.
func (p Product) PriceString() string {
	return p.Price.StringFixed(2)
}
