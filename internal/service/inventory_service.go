package service

import (
	"context"

	"backoffice/internal/domain"
	"backoffice/internal/events"
	"backoffice/internal/repository"
)

const defaultAdjustReason = "Manual adjustment"

// InventoryService covers stock listing, adjustments and direct updates.
type InventoryService struct {
	repo   repository.InventoryRepository
	events events.Publisher
}

func NewInventoryService(repo repository.InventoryRepository, pub events.Publisher) *InventoryService {
	return &InventoryService{repo: repo, events: orNop(pub)}
}

// AdjustInventoryInput is an adjustment request. Type defaults to set.
type AdjustInventoryInput struct {
	ProductID string
	Quantity  *int64
	Type      domain.AdjustmentType
	Reason    string
}

// UpdateInventoryInput sets fields directly. Nil fields are left alone.
type UpdateInventoryInput struct {
	Quantity          *int64
	LowStockThreshold *int64
}

func (s *InventoryService) List(ctx context.Context, f repository.InventoryFilter) ([]domain.Inventory, error) {
	return s.repo.List(ctx, f)
}

func (s *InventoryService) GetByProductID(ctx context.Context, productID string) (*domain.Inventory, error) {
	inv, err := s.repo.GetByProductID(ctx, productID)
	if err != nil {
		return nil, notFound(err, "Inventory record not found for this product")
	}
	return inv, nil
}

// Adjust applies an adjustment, creating the record with the default threshold on first use.
func (s *InventoryService) Adjust(ctx context.Context, in AdjustInventoryInput) (*domain.Inventory, error) {
	if in.ProductID == "" || in.Quantity == nil {
		return nil, domain.Validation("Product ID and quantity are required")
	}
	if in.Type == "" {
		in.Type = domain.AdjustmentSet
	}
	if in.Reason == "" {
		in.Reason = defaultAdjustReason
	}

	inv, err := s.repo.GetOrCreate(ctx, in.ProductID, domain.DefaultLowStockThreshold)
	if err != nil {
		return nil, err
	}
	adjusted, err := inv.Adjust(in.Type, *in.Quantity, in.Reason)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, adjusted); err != nil {
		return nil, notFound(err, "Inventory record not found")
	}

	publish(ctx, s.events, events.New(events.InventoryAdjusted, adjusted.ProductID, adjusted))
	s.checkLowStock(ctx, adjusted)
	return &adjusted, nil
}

// Update sets quantity then threshold. The record must already exist.
func (s *InventoryService) Update(ctx context.Context, productID string, in UpdateInventoryInput) (*domain.Inventory, error) {
	inv, err := s.repo.GetByProductID(ctx, productID)
	if err != nil {
		return nil, notFound(err, "Inventory record not found")
	}

	updated := *inv
	if in.Quantity != nil {
		if updated, err = updated.UpdateQuantity(*in.Quantity); err != nil {
			return nil, err
		}
	}
	if in.LowStockThreshold != nil {
		if updated, err = updated.UpdateLowStockThreshold(*in.LowStockThreshold); err != nil {
			return nil, err
		}
	}
	if err := s.repo.Update(ctx, updated); err != nil {
		return nil, notFound(err, "Inventory record not found")
	}

	publish(ctx, s.events, events.New(events.InventoryUpdated, updated.ProductID, updated))
	s.checkLowStock(ctx, updated)
	return &updated, nil
}

func (s *InventoryService) checkLowStock(ctx context.Context, inv domain.Inventory) {
	if inv.IsLowStock() {
		publish(ctx, s.events, events.New(events.InventoryLowStock, inv.ProductID, inv))
	}
}
