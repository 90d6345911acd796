package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"backoffice/internal/domain"
)

func TestMemoryStore_ProductCRUD(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	p := domain.NewProduct("A", "", decimal.NewFromInt(10), "c", "S1", nil)
	if err := store.Create(ctx, p); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := store.GetByID(ctx, p.ID)
	if err != nil || got.ID != p.ID {
		t.Fatalf("get: %v", err)
	}

	price := decimal.NewFromInt(12)
	p = p.Update(domain.ProductPatch{Price: &price})
	if err := store.Update(ctx, p); err != nil {
		t.Fatalf("update: %v", err)
	}

	if err := store.Delete(ctx, p.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.GetByID(ctx, p.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err := store.Delete(ctx, p.ID); !domain.IsNotFound(err) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}

func TestMemoryStore_DuplicateSKU(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	a := domain.NewProduct("A", "", decimal.NewFromInt(1), "c", "S1", nil)
	b := domain.NewProduct("B", "", decimal.NewFromInt(1), "c", "S1", nil)
	if err := store.Create(ctx, a); err != nil {
		t.Fatal(err)
	}
	if err := store.Create(ctx, b); !domain.IsValidation(err) {
		t.Fatalf("expected duplicate sku, got %v", err)
	}
	// re-saving the same product keeps its own sku
	if err := store.Update(ctx, a); err != nil {
		t.Fatalf("update own sku: %v", err)
	}
}

func TestList_Filtering(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	add := func(n, cat string, price int64) {
		p := domain.NewProduct(n, "", decimal.NewFromInt(price), cat, n, nil)
		if err := store.Create(ctx, p); err != nil {
			t.Fatal(err)
		}
	}
	add("Aspirin", "pharma", 100)
	add("Paracetamol", "pharma", 50)
	add("Ibuprofen", "other", 150)
	add("Insulin", "other", 300)

	// name contains
	list, _ := store.List(ctx, ProductFilter{NameSubstring: "IN"})
	if len(list) != 2 {
		t.Fatalf("name filter: got %d", len(list))
	}
	for _, p := range list {
		if p.Name != "Aspirin" && p.Name != "Insulin" {
			t.Fatalf("name filter matched %q", p.Name)
		}
	}

	list, _ = store.List(ctx, ProductFilter{Category: "pharma"})
	if len(list) != 2 {
		t.Fatalf("category filter: got %d", len(list))
	}

	// min
	min := decimal.NewFromInt(100)
	list, _ = store.List(ctx, ProductFilter{MinPrice: &min})
	for _, p := range list {
		if p.Price.LessThan(min) {
			t.Fatalf("min filter fail")
		}
	}

	// max
	max := decimal.NewFromInt(100)
	list, _ = store.List(ctx, ProductFilter{MaxPrice: &max})
	for _, p := range list {
		if p.Price.GreaterThan(max) {
			t.Fatalf("max filter fail")
		}
	}
}

func TestMemoryInventory_GetOrCreateAndCascade(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	inv := store.Inventory()

	p := domain.NewProduct("A", "", decimal.NewFromInt(1), "c", "S1", nil)
	if err := store.Create(ctx, p); err != nil {
		t.Fatal(err)
	}

	first, err := inv.GetOrCreate(ctx, p.ID, domain.DefaultLowStockThreshold)
	if err != nil {
		t.Fatalf("get or create: %v", err)
	}
	if first.Quantity != 0 || first.LowStockThreshold != 10 {
		t.Fatalf("unexpected fresh row %+v", first)
	}

	adjusted, _ := first.Adjust(domain.AdjustmentAdd, 7, "")
	if err := inv.Update(ctx, adjusted); err != nil {
		t.Fatalf("update: %v", err)
	}
	again, _ := inv.GetOrCreate(ctx, p.ID, 99)
	if again.Quantity != 7 || again.LowStockThreshold != 10 {
		t.Fatalf("get or create must not overwrite, got %+v", again)
	}

	if err := store.Delete(ctx, p.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := inv.GetByProductID(ctx, p.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected cascade delete, got %v", err)
	}
	if err := inv.Update(ctx, adjusted); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found on update, got %v", err)
	}
}

func TestMemoryInventory_LowStockFilter(t *testing.T) {
	ctx := context.Background()
	inv := NewMemoryStore().Inventory()
	low := domain.NewInventory("P1", 10)
	high, _ := domain.NewInventory("P2", 10).UpdateQuantity(50)
	for _, i := range []domain.Inventory{low, high} {
		if err := inv.Create(ctx, i); err != nil {
			t.Fatal(err)
		}
	}
	list, _ := inv.List(ctx, InventoryFilter{LowStockOnly: true})
	if len(list) != 1 || list[0].ProductID != "P1" {
		t.Fatalf("low stock filter: %+v", list)
	}
	all, _ := inv.List(ctx, InventoryFilter{})
	if len(all) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(all))
	}
}

func TestMemoryOrders_ListPaging(t *testing.T) {
	ctx := context.Background()
	orders := NewMemoryStore().Orders()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	items := []domain.OrderItem{{ProductID: "P1", Price: decimal.NewFromInt(1), Quantity: 1}}

	for i := 0; i < 5; i++ {
		o, err := domain.NewOrder(items, "c", "", domain.ShippingAddress{}, domain.NewOrderID)
		if err != nil {
			t.Fatal(err)
		}
		o.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		if i%2 == 0 {
			o, _ = o.UpdateStatus(domain.OrderStatusShipped)
		}
		if err := orders.Create(ctx, o); err != nil {
			t.Fatal(err)
		}
	}

	all, _ := orders.List(ctx, OrderFilter{})
	if len(all) != 5 {
		t.Fatalf("expected 5, got %d", len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i].CreatedAt.After(all[i-1].CreatedAt) {
			t.Fatalf("not ordered by created desc")
		}
	}

	page, _ := orders.List(ctx, OrderFilter{Limit: 2, Offset: 1})
	if len(page) != 2 || page[0].ID != all[1].ID {
		t.Fatalf("paging: %+v", page)
	}

	shipped := OrderFilter{Status: domain.OrderStatusShipped, Limit: 1}
	page, _ = orders.List(ctx, shipped)
	n, _ := orders.Count(ctx, shipped)
	if len(page) != 1 || n != 3 {
		t.Fatalf("status filter: len=%d count=%d", len(page), n)
	}

	past, _ := orders.List(ctx, OrderFilter{Offset: 10})
	if len(past) != 0 {
		t.Fatalf("expected empty page past the end")
	}
}
