package repository

import (
	"context"
	"sort"
	"sync"

	"backoffice/internal/domain"
)

// MemoryStore is the in-process store for all three tables. Deleting a product also drops its
// inventory row, mirroring the foreign key of the SQL schema. Product existence is not checked
// on inventory writes.
type MemoryStore struct {
	mu          sync.RWMutex
	products    map[string]domain.Product
	inventories map[string]domain.Inventory
	orders      map[string]domain.Order
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		products:    make(map[string]domain.Product),
		inventories: make(map[string]domain.Inventory),
		orders:      make(map[string]domain.Order),
	}
}

// Ensure interfaces
var (
	_ ProductRepository   = (*MemoryStore)(nil)
	_ InventoryRepository = (*MemoryInventory)(nil)
	_ OrderRepository     = (*MemoryOrders)(nil)
)

// Inventory returns the inventory view over the same store.
func (m *MemoryStore) Inventory() *MemoryInventory { return &MemoryInventory{store: m} }

// Orders returns the order view over the same store.
func (m *MemoryStore) Orders() *MemoryOrders { return &MemoryOrders{store: m} }

// ProductRepository implementation
func (m *MemoryStore) Create(ctx context.Context, p domain.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.skuTaken(p.SKU, p.ID) {
		return ErrDuplicateSKU
	}
	m.products[p.ID] = p
	return nil
}

func (m *MemoryStore) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.products[id]
	if !ok {
		return nil, ErrNotFound
	}
	// return copy
	cp := p
	return &cp, nil
}

func (m *MemoryStore) Update(ctx context.Context, p domain.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.products[p.ID]; !ok {
		return ErrNotFound
	}
	if m.skuTaken(p.SKU, p.ID) {
		return ErrDuplicateSKU
	}
	m.products[p.ID] = p
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.products[id]; !ok {
		return ErrNotFound
	}
	delete(m.products, id)
	delete(m.inventories, id)
	return nil
}

func (m *MemoryStore) List(ctx context.Context, f ProductFilter) ([]domain.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]domain.Product, 0, len(m.products))
	for _, p := range m.products {
		if f.match(p) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (m *MemoryStore) skuTaken(sku, exceptID string) bool {
	for id, p := range m.products {
		if id != exceptID && p.SKU == sku {
			return true
		}
	}
	return false
}

// MemoryInventory is the InventoryRepository view of a MemoryStore.
type MemoryInventory struct{ store *MemoryStore }

func (mi *MemoryInventory) List(ctx context.Context, f InventoryFilter) ([]domain.Inventory, error) {
	mi.store.mu.RLock()
	defer mi.store.mu.RUnlock()
	out := make([]domain.Inventory, 0, len(mi.store.inventories))
	for _, inv := range mi.store.inventories {
		if f.LowStockOnly && !inv.IsLowStock() {
			continue
		}
		out = append(out, inv)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].ProductID < out[j].ProductID
		}
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out, nil
}

func (mi *MemoryInventory) GetByProductID(ctx context.Context, productID string) (*domain.Inventory, error) {
	mi.store.mu.RLock()
	defer mi.store.mu.RUnlock()
	inv, ok := mi.store.inventories[productID]
	if !ok {
		return nil, ErrNotFound
	}
	cp := inv
	return &cp, nil
}

func (mi *MemoryInventory) GetOrCreate(ctx context.Context, productID string, lowStockThreshold int64) (*domain.Inventory, error) {
	mi.store.mu.Lock()
	defer mi.store.mu.Unlock()
	inv, ok := mi.store.inventories[productID]
	if !ok {
		inv = domain.NewInventory(productID, lowStockThreshold)
		mi.store.inventories[productID] = inv
	}
	cp := inv
	return &cp, nil
}

func (mi *MemoryInventory) Create(ctx context.Context, inv domain.Inventory) error {
	mi.store.mu.Lock()
	defer mi.store.mu.Unlock()
	if _, ok := mi.store.inventories[inv.ProductID]; ok {
		return domain.Validation("inventory already exists for product %s", inv.ProductID)
	}
	mi.store.inventories[inv.ProductID] = inv
	return nil
}

func (mi *MemoryInventory) Update(ctx context.Context, inv domain.Inventory) error {
	mi.store.mu.Lock()
	defer mi.store.mu.Unlock()
	if _, ok := mi.store.inventories[inv.ProductID]; !ok {
		return ErrNotFound
	}
	mi.store.inventories[inv.ProductID] = inv
	return nil
}

// MemoryOrders is the OrderRepository view of a MemoryStore.
type MemoryOrders struct{ store *MemoryStore }

func (mo *MemoryOrders) List(ctx context.Context, f OrderFilter) ([]domain.Order, error) {
	mo.store.mu.RLock()
	defer mo.store.mu.RUnlock()
	out := mo.filtered(f)
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return paginate(out, f.Limit, f.Offset), nil
}

func (mo *MemoryOrders) Count(ctx context.Context, f OrderFilter) (int, error) {
	mo.store.mu.RLock()
	defer mo.store.mu.RUnlock()
	return len(mo.filtered(f)), nil
}

func (mo *MemoryOrders) filtered(f OrderFilter) []domain.Order {
	out := make([]domain.Order, 0, len(mo.store.orders))
	for _, o := range mo.store.orders {
		if f.Status != "" && o.Status != f.Status {
			continue
		}
		out = append(out, o)
	}
	return out
}

func (mo *MemoryOrders) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	mo.store.mu.RLock()
	defer mo.store.mu.RUnlock()
	o, ok := mo.store.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := o
	return &cp, nil
}

func (mo *MemoryOrders) Create(ctx context.Context, o domain.Order) error {
	mo.store.mu.Lock()
	defer mo.store.mu.Unlock()
	if _, ok := mo.store.orders[o.ID]; ok {
		return domain.Validation("order %s already exists", o.ID)
	}
	mo.store.orders[o.ID] = o
	return nil
}

func (mo *MemoryOrders) Update(ctx context.Context, o domain.Order) error {
	mo.store.mu.Lock()
	defer mo.store.mu.Unlock()
	if _, ok := mo.store.orders[o.ID]; !ok {
		return ErrNotFound
	}
	mo.store.orders[o.ID] = o
	return nil
}

func (mo *MemoryOrders) Delete(ctx context.Context, id string) error {
	mo.store.mu.Lock()
	defer mo.store.mu.Unlock()
	if _, ok := mo.store.orders[id]; !ok {
		return ErrNotFound
	}
	delete(mo.store.orders, id)
	return nil
}
