package domain

import (
	"encoding/json"
	"math"
	"time"
)

// DefaultLowStockThreshold applies to inventory rows created implicitly.
const DefaultLowStockThreshold int64 = 10

// AdjustmentType selects how an adjustment quantity is applied.
type AdjustmentType string

const (
	AdjustmentAdd      AdjustmentType = "add"
	AdjustmentSubtract AdjustmentType = "subtract"
	AdjustmentSet      AdjustmentType = "set"
)

func (t AdjustmentType) Valid() bool {
	switch t {
	case AdjustmentAdd, AdjustmentSubtract, AdjustmentSet:
		return true
	}
	return false
}

// Adjustment is the audit record of the last Adjust call.
type Adjustment struct {
	Type      AdjustmentType `json:"type"`
	Quantity  int64          `json:"quantity"`
	Reason    string         `json:"reason"`
	Timestamp time.Time      `json:"timestamp"`
}

// Inventory tracks stock for one product.
type Inventory struct {
	ProductID         string      `json:"productId"`
	Quantity          int64       `json:"quantity"`
	LowStockThreshold int64       `json:"lowStockThreshold"`
	LastAdjustment    *Adjustment `json:"lastAdjustment,omitempty"`
	UpdatedAt         time.Time   `json:"updatedAt"`
}

// NewInventory returns an empty stock record.
func NewInventory(productID string, lowStockThreshold int64) Inventory {
	return Inventory{
		ProductID:         productID,
		LowStockThreshold: lowStockThreshold,
		UpdatedAt:         Now(),
	}
}

// MaxQuantity is the largest stock level the INTEGER quantity column holds.
const MaxQuantity = math.MaxInt32

// Adjust applies delta according to t. The receiver is left untouched on error.
func (i Inventory) Adjust(t AdjustmentType, delta int64, reason string) (Inventory, error) {
	if delta < 0 {
		return i, Validation("adjustment quantity cannot be negative")
	}
	if delta > MaxQuantity {
		return i, Validation("adjustment quantity cannot exceed %d", MaxQuantity)
	}

	next := i.Quantity
	switch t {
	case AdjustmentAdd:
		next += delta
	case AdjustmentSubtract:
		next -= delta
	case AdjustmentSet:
		next = delta
	default:
		return i, Validation("invalid adjustment type: %q", t)
	}
	if next < 0 {
		return i, Validation("inventory cannot be negative")
	}
	if next > MaxQuantity {
		return i, Validation("inventory cannot exceed %d", MaxQuantity)
	}

	ts := Now()
	out := i
	out.Quantity = next
	out.LastAdjustment = &Adjustment{Type: t, Quantity: delta, Reason: reason, Timestamp: ts}
	out.UpdatedAt = ts
	return out, nil
}

// UpdateQuantity sets the quantity directly without an audit record.
func (i Inventory) UpdateQuantity(q int64) (Inventory, error) {
	if q < 0 {
		return i, Validation("inventory cannot be negative")
	}
	if q > MaxQuantity {
		return i, Validation("inventory cannot exceed %d", MaxQuantity)
	}
	out := i
	out.Quantity = q
	out.UpdatedAt = Now()
	return out, nil
}

func (i Inventory) UpdateLowStockThreshold(t int64) (Inventory, error) {
	if t < 0 {
		return i, Validation("low stock threshold cannot be negative")
	}
	if t > MaxQuantity {
		return i, Validation("low stock threshold cannot exceed %d", MaxQuantity)
	}
	out := i
	out.LowStockThreshold = t
	out.UpdatedAt = Now()
	return out, nil
}

// IsLowStock reports quantity at or below the threshold.
func (i Inventory) IsLowStock() bool {
	return i.Quantity <= i.LowStockThreshold
}

// MarshalJSON adds the derived lowStock flag.
func (i Inventory) MarshalJSON() ([]byte, error) {
	type plain Inventory
	return json.Marshal(struct {
		plain
		LowStock bool `json:"lowStock"`
	}{plain(i), i.IsLowStock()})
}
