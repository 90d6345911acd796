package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"backoffice/internal/domain"
)

const inventoryColumns = `product_id, quantity, low_stock_threshold, last_adjustment, updated_at`

type inventoryRow struct {
	ProductID         string                         `db:"product_id"`
	Quantity          int64                          `db:"quantity"`
	LowStockThreshold int64                          `db:"low_stock_threshold"`
	LastAdjustment    jsonColumn[*domain.Adjustment] `db:"last_adjustment"`
	UpdatedAt         dbTime                         `db:"updated_at"`
}

func (r inventoryRow) toDomain() domain.Inventory {
	return domain.Inventory{
		ProductID:         r.ProductID,
		Quantity:          r.Quantity,
		LowStockThreshold: r.LowStockThreshold,
		LastAdjustment:    r.LastAdjustment.V,
		UpdatedAt:         r.UpdatedAt.Time,
	}
}

// SQLInventory is the InventoryRepository view of a SQLStore.
type SQLInventory struct{ s *SQLStore }

var _ InventoryRepository = (*SQLInventory)(nil)

func (r *SQLInventory) List(ctx context.Context, f InventoryFilter) ([]domain.Inventory, error) {
	query := "SELECT " + inventoryColumns + " FROM inventory"
	if f.LowStockOnly {
		query += " WHERE quantity <= low_stock_threshold"
	}
	query += " ORDER BY updated_at DESC, product_id"

	var rows []inventoryRow
	if err := r.s.sel(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("list inventory: %w", err)
	}
	out := make([]domain.Inventory, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *SQLInventory) GetByProductID(ctx context.Context, productID string) (*domain.Inventory, error) {
	var row inventoryRow
	err := r.s.get(ctx, &row, "SELECT "+inventoryColumns+" FROM inventory WHERE product_id = ?", productID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get inventory %s: %w", productID, err)
	}
	inv := row.toDomain()
	return &inv, nil
}

func (r *SQLInventory) GetOrCreate(ctx context.Context, productID string, lowStockThreshold int64) (*domain.Inventory, error) {
	fresh := domain.NewInventory(productID, lowStockThreshold)
	_, err := r.s.db.ExecContext(ctx, r.s.db.Rebind(`INSERT INTO inventory (product_id, quantity, low_stock_threshold, last_adjustment, updated_at)
		VALUES (?, ?, ?, NULL, ?)
		ON CONFLICT (product_id) DO NOTHING`),
		fresh.ProductID, fresh.Quantity, fresh.LowStockThreshold, fresh.UpdatedAt)
	if err != nil {
		return nil, inventoryWriteErr("create inventory", productID, err)
	}
	return r.GetByProductID(ctx, productID)
}

func (r *SQLInventory) Create(ctx context.Context, inv domain.Inventory) error {
	err := r.s.execOne(ctx, `INSERT INTO inventory (product_id, quantity, low_stock_threshold, last_adjustment, updated_at)
		VALUES (?, ?, ?, ?, ?)`,
		inv.ProductID, inv.Quantity, inv.LowStockThreshold, jsonColumn[*domain.Adjustment]{inv.LastAdjustment}, inv.UpdatedAt)
	return inventoryWriteErr("create inventory", inv.ProductID, err)
}

func (r *SQLInventory) Update(ctx context.Context, inv domain.Inventory) error {
	err := r.s.execOne(ctx, `UPDATE inventory
		SET quantity = ?, low_stock_threshold = ?, last_adjustment = ?, updated_at = ?
		WHERE product_id = ?`,
		inv.Quantity, inv.LowStockThreshold, jsonColumn[*domain.Adjustment]{inv.LastAdjustment}, inv.UpdatedAt, inv.ProductID)
	return inventoryWriteErr("update inventory", inv.ProductID, err)
}

func inventoryWriteErr(op, productID string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrNotFound):
		return err
	case violated(err) == constraintForeignKey:
		return domain.WrapNotFound("product not found", err)
	case violated(err) == constraintUnique:
		return domain.Validation("inventory already exists for product %s", productID)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
