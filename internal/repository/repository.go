package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"

	"backoffice/internal/domain"
)

// ErrNotFound is returned when the targeted row does not exist.
var ErrNotFound = domain.WrapNotFound("not found", errors.New("not found"))

// ErrDuplicateSKU is returned when a product sku is already taken.
var ErrDuplicateSKU = domain.Validation("sku already exists")

// ProductFilter narrows a product listing. Zero values match everything.
type ProductFilter struct {
	Category      string
	NameSubstring string
	MinPrice      *decimal.Decimal
	MaxPrice      *decimal.Decimal
}

func (f ProductFilter) match(p domain.Product) bool {
	if f.Category != "" && p.Category != f.Category {
		return false
	}
	if !containsIgnoreCase(p.Name, f.NameSubstring) {
		return false
	}
	if f.MinPrice != nil && p.Price.LessThan(*f.MinPrice) {
		return false
	}
	if f.MaxPrice != nil && p.Price.GreaterThan(*f.MaxPrice) {
		return false
	}
	return true
}

// InventoryFilter narrows an inventory listing.
type InventoryFilter struct {
	LowStockOnly bool
}

// OrderFilter narrows and pages an order listing. Limit <= 0 means no limit.
type OrderFilter struct {
	Status domain.OrderStatus
	Limit  int
	Offset int
}

// ProductRepository persists catalog entries.
type ProductRepository interface {
	List(ctx context.Context, f ProductFilter) ([]domain.Product, error)
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	Create(ctx context.Context, p domain.Product) error
	Update(ctx context.Context, p domain.Product) error
	Delete(ctx context.Context, id string) error
}

// InventoryRepository persists stock records keyed by product id.
type InventoryRepository interface {
	List(ctx context.Context, f InventoryFilter) ([]domain.Inventory, error)
	GetByProductID(ctx context.Context, productID string) (*domain.Inventory, error)
	// GetOrCreate inserts an empty record with the given threshold if none exists and returns
	// the stored record. The insert is atomic with respect to concurrent callers.
	GetOrCreate(ctx context.Context, productID string, lowStockThreshold int64) (*domain.Inventory, error)
	Create(ctx context.Context, inv domain.Inventory) error
	Update(ctx context.Context, inv domain.Inventory) error
}

// OrderRepository persists orders.
type OrderRepository interface {
	List(ctx context.Context, f OrderFilter) ([]domain.Order, error)
	// Count ignores Limit and Offset.
	Count(ctx context.Context, f OrderFilter) (int, error)
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	Create(ctx context.Context, o domain.Order) error
	Update(ctx context.Context, o domain.Order) error
	Delete(ctx context.Context, id string) error
}

// helper: case-insensitive contains
func containsIgnoreCase(s, substr string) bool {
	if substr == "" {
		return true
	}
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

func paginate[T any](in []T, limit, offset int) []T {
	if offset > 0 {
		if offset >= len(in) {
			return []T{}
		}
		in = in[offset:]
	}
	if limit > 0 && limit < len(in) {
		in = in[:limit]
	}
	return in
}
