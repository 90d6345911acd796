package service

import (
	"context"
	"strings"

	"backoffice/internal/domain"
	"backoffice/internal/events"
	"backoffice/internal/repository"
)

const guestCustomer = "Guest"

// OrderService covers the order lifecycle.
type OrderService struct {
	orders repository.OrderRepository
	events events.Publisher
	newID  func() string
}

// NewOrderService builds the service. A nil newID falls back to domain.NewOrderID.
func NewOrderService(orders repository.OrderRepository, pub events.Publisher, newID func() string) *OrderService {
	if newID == nil {
		newID = domain.NewOrderID
	}
	return &OrderService{orders: orders, events: orNop(pub), newID: newID}
}

type CreateOrderInput struct {
	Items           []domain.OrderItem
	CustomerName    string
	CustomerEmail   string
	ShippingAddress *domain.ShippingAddress
}

// statusChange is the payload of order.status_changed.
type statusChange struct {
	OrderID string             `json:"orderId"`
	From    domain.OrderStatus `json:"from"`
	To      domain.OrderStatus `json:"to"`
}

// List returns one page of orders and the number of orders matching the filter.
func (s *OrderService) List(ctx context.Context, f repository.OrderFilter) ([]domain.Order, int, error) {
	orders, err := s.orders.List(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.orders.Count(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

func (s *OrderService) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	o, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "Order not found")
	}
	return o, nil
}

func (s *OrderService) Create(ctx context.Context, in CreateOrderInput) (*domain.Order, error) {
	if in.CustomerName == "" {
		in.CustomerName = guestCustomer
	}
	var addr domain.ShippingAddress
	if in.ShippingAddress != nil {
		addr = *in.ShippingAddress
	}

	o, err := domain.NewOrder(in.Items, in.CustomerName, in.CustomerEmail, addr, s.newID)
	if err != nil {
		return nil, err
	}
	if err := s.orders.Create(ctx, o); err != nil {
		return nil, err
	}
	publish(ctx, s.events, events.New(events.OrderCreated, o.ID, o))
	return &o, nil
}

// UpdateStatus moves an order to status. The status is checked before the lookup.
func (s *OrderService) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error) {
	if !status.Valid() {
		return nil, invalidStatus()
	}
	o, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updated, err := o.UpdateStatus(status)
	if err != nil {
		return nil, err
	}
	if err := s.orders.Update(ctx, updated); err != nil {
		return nil, notFound(err, "Order not found")
	}
	publish(ctx, s.events, events.New(events.OrderStatusChanged, updated.ID,
		statusChange{OrderID: updated.ID, From: o.Status, To: updated.Status}))
	return &updated, nil
}

func (s *OrderService) Update(ctx context.Context, id string, patch domain.OrderPatch) (*domain.Order, error) {
	o, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updated, err := o.Update(patch)
	if err != nil {
		return nil, err
	}
	if err := s.orders.Update(ctx, updated); err != nil {
		return nil, notFound(err, "Order not found")
	}
	publish(ctx, s.events, events.New(events.OrderUpdated, updated.ID, updated))
	return &updated, nil
}

func (s *OrderService) Delete(ctx context.Context, id string) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.orders.Delete(ctx, id); err != nil {
		return notFound(err, "Order not found")
	}
	publish(ctx, s.events, events.New(events.OrderDeleted, id, nil))
	return nil
}

func invalidStatus() error {
	names := make([]string, len(domain.OrderStatuses))
	for i, st := range domain.OrderStatuses {
		names[i] = string(st)
	}
	return domain.Validation("Invalid status. Must be one of: %s", strings.Join(names, ", "))
}
