package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MoneyPlaces is the scale of every stored price and total.
const MoneyPlaces = 2

// MaxMoney is the largest amount a DECIMAL(10,2) column holds.
var MaxMoney = decimal.New(9999999999, -MoneyPlaces)

// RoundMoney rounds d half away from zero to whole cents.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(MoneyPlaces)
}

// Product is a catalog entry.
type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	SKU         string          `json:"sku"`
	Images      []string        `json:"images"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// ProductPatch holds the fields to override on Update. Nil means "keep".
type ProductPatch struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Category    *string          `json:"category"`
	SKU         *string          `json:"sku"`
	Images      *[]string        `json:"images"`
}

// NewProduct builds a product with a fresh id and equal created/updated timestamps.
// Price is rounded to cents but not range checked; callers validate it.
func NewProduct(name, description string, price decimal.Decimal, category, sku string, images []string) Product {
	ts := Now()
	return Product{
		ID:          uuid.NewString(),
		Name:        name,
		Description: description,
		Price:       RoundMoney(price),
		Category:    category,
		SKU:         sku,
		Images:      copyStrings(images),
		CreatedAt:   ts,
		UpdatedAt:   ts,
	}
}

// Update returns a copy with the patch applied. ID and CreatedAt never change.
func (p Product) Update(patch ProductPatch) Product {
	out := p
	out.Images = copyStrings(p.Images)
	if patch.Name != nil {
		out.Name = *patch.Name
	}
	if patch.Description != nil {
		out.Description = *patch.Description
	}
	if patch.Price != nil {
		out.Price = RoundMoney(*patch.Price)
	}
	if patch.Category != nil {
		out.Category = *patch.Category
	}
	if patch.SKU != nil {
		out.SKU = *patch.SKU
	}
	if patch.Images != nil {
		out.Images = copyStrings(*patch.Images)
	}
	out.UpdatedAt = Now()
	return out
}

func copyStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}
