package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// OrderStatuses lists every known status in lifecycle order.
var OrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusProcessing,
	OrderStatusShipped,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

func (s OrderStatus) Valid() bool {
	for _, known := range OrderStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// OrderItem is a priced line of an order. Name and Price are snapshots taken at order time.
type OrderItem struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int64           `json:"quantity"`
}

type ShippingAddress struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zipCode"`
	Country string `json:"country"`
}

// Order is a customer order. Total always equals ItemsTotal(Items).
type Order struct {
	ID              string          `json:"id"`
	Items           []OrderItem     `json:"items"`
	CustomerName    string          `json:"customerName"`
	CustomerEmail   string          `json:"customerEmail"`
	ShippingAddress ShippingAddress `json:"shippingAddress"`
	Status          OrderStatus     `json:"status"`
	Total           decimal.Decimal `json:"total"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// OrderPatch holds the fields to merge on Update. Nil means "keep".
type OrderPatch struct {
	Items           *[]OrderItem     `json:"items"`
	CustomerName    *string          `json:"customerName"`
	CustomerEmail   *string          `json:"customerEmail"`
	ShippingAddress *ShippingAddress `json:"shippingAddress"`
	Status          *OrderStatus     `json:"status"`
}

// NewOrderID returns a time-sortable, globally unique order id.
func NewOrderID() string {
	return "ORD-" + uuid.Must(uuid.NewV7()).String()
}

// NewOrder builds a pending order from a non-empty item list.
func NewOrder(items []OrderItem, customerName, customerEmail string, addr ShippingAddress, newID func() string) (Order, error) {
	if err := validateItems(items); err != nil {
		return Order{}, err
	}
	ts := Now()
	return Order{
		ID:              newID(),
		Items:           copyItems(items),
		CustomerName:    customerName,
		CustomerEmail:   customerEmail,
		ShippingAddress: addr,
		Status:          OrderStatusPending,
		Total:           ItemsTotal(items),
		CreatedAt:       ts,
		UpdatedAt:       ts,
	}, nil
}

// UpdateStatus moves the order to s. Any known status may follow any other.
func (o Order) UpdateStatus(s OrderStatus) (Order, error) {
	if !s.Valid() {
		return o, Validation("invalid order status: %s", s)
	}
	out := o
	out.Items = copyItems(o.Items)
	out.Status = s
	out.UpdatedAt = Now()
	return out, nil
}

// Update merges the patch. Total is recomputed only when items are supplied.
func (o Order) Update(p OrderPatch) (Order, error) {
	out := o
	out.Items = copyItems(o.Items)
	if p.Items != nil {
		if err := validateItems(*p.Items); err != nil {
			return o, err
		}
		out.Items = copyItems(*p.Items)
		out.Total = ItemsTotal(out.Items)
	}
	if p.Status != nil {
		if !p.Status.Valid() {
			return o, Validation("invalid order status: %s", *p.Status)
		}
		out.Status = *p.Status
	}
	if p.CustomerName != nil {
		out.CustomerName = *p.CustomerName
	}
	if p.CustomerEmail != nil {
		out.CustomerEmail = *p.CustomerEmail
	}
	if p.ShippingAddress != nil {
		out.ShippingAddress = *p.ShippingAddress
	}
	out.UpdatedAt = Now()
	return out, nil
}

// ItemsTotal sums price*quantity over items, rounded to cents.
func ItemsTotal(items []OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Price.Mul(decimal.NewFromInt(it.Quantity)))
	}
	return RoundMoney(total)
}

func validateItems(items []OrderItem) error {
	if len(items) == 0 {
		return Validation("order must contain at least one item")
	}
	for _, it := range items {
		if it.ProductID == "" {
			return Validation("order item productId is required")
		}
		if it.Quantity <= 0 {
			return Validation("order item quantity must be positive")
		}
		if it.Price.IsNegative() {
			return Validation("order item price cannot be negative")
		}
	}
	if ItemsTotal(items).GreaterThan(MaxMoney) {
		return Validation("order total cannot exceed %s", MaxMoney)
	}
	return nil
}

func copyItems(in []OrderItem) []OrderItem {
	out := make([]OrderItem, len(in))
	copy(out, in)
	return out
}
