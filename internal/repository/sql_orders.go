package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"backoffice/internal/domain"
)

const orderColumns = `id, items, customer_name, customer_email, shipping_address, status, total, created_at, updated_at`

type orderRow struct {
	ID              string                             `db:"id"`
	Items           jsonColumn[[]domain.OrderItem]     `db:"items"`
	CustomerName    string                             `db:"customer_name"`
	CustomerEmail   string                             `db:"customer_email"`
	ShippingAddress jsonColumn[domain.ShippingAddress] `db:"shipping_address"`
	Status          string                             `db:"status"`
	Total           decimal.Decimal                    `db:"total"`
	CreatedAt       dbTime                             `db:"created_at"`
	UpdatedAt       dbTime                             `db:"updated_at"`
}

func (r orderRow) toDomain() domain.Order {
	return domain.Order{
		ID:              r.ID,
		Items:           r.Items.V,
		CustomerName:    r.CustomerName,
		CustomerEmail:   r.CustomerEmail,
		ShippingAddress: r.ShippingAddress.V,
		Status:          domain.OrderStatus(r.Status),
		Total:           r.Total,
		CreatedAt:       r.CreatedAt.Time,
		UpdatedAt:       r.UpdatedAt.Time,
	}
}

// SQLOrders is the OrderRepository view of a SQLStore.
type SQLOrders struct{ s *SQLStore }

var _ OrderRepository = (*SQLOrders)(nil)

func orderWhere(f OrderFilter) (string, []any) {
	if f.Status == "" {
		return "", nil
	}
	return " WHERE status = ?", []any{string(f.Status)}
}

func (r *SQLOrders) List(ctx context.Context, f OrderFilter) ([]domain.Order, error) {
	where, args := orderWhere(f)
	query := "SELECT " + orderColumns + " FROM orders" + where + " ORDER BY created_at DESC, id DESC"
	switch {
	case f.Limit > 0:
		query += " LIMIT ?"
		args = append(args, f.Limit)
	case f.Offset > 0 && r.s.isSQLite():
		// sqlite only accepts OFFSET after LIMIT
		query += " LIMIT -1"
	}
	if f.Offset > 0 {
		query += " OFFSET ?"
		args = append(args, f.Offset)
	}

	var rows []orderRow
	if err := r.s.sel(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	out := make([]domain.Order, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *SQLOrders) Count(ctx context.Context, f OrderFilter) (int, error) {
	where, args := orderWhere(f)
	var n int
	if err := r.s.get(ctx, &n, "SELECT COUNT(*) FROM orders"+where, args...); err != nil {
		return 0, fmt.Errorf("count orders: %w", err)
	}
	return n, nil
}

func (r *SQLOrders) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	var row orderRow
	err := r.s.get(ctx, &row, "SELECT "+orderColumns+" FROM orders WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get order %s: %w", id, err)
	}
	o := row.toDomain()
	return &o, nil
}

func (r *SQLOrders) Create(ctx context.Context, o domain.Order) error {
	err := r.s.execOne(ctx, `INSERT INTO orders (id, items, customer_name, customer_email, shipping_address, status, total, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		o.ID, jsonColumn[[]domain.OrderItem]{o.Items}, o.CustomerName, o.CustomerEmail,
		jsonColumn[domain.ShippingAddress]{o.ShippingAddress}, string(o.Status), o.Total, o.CreatedAt, o.UpdatedAt)
	return orderWriteErr("create order", o.ID, err)
}

func (r *SQLOrders) Update(ctx context.Context, o domain.Order) error {
	err := r.s.execOne(ctx, `UPDATE orders
		SET items = ?, customer_name = ?, customer_email = ?, shipping_address = ?, status = ?, total = ?, updated_at = ?
		WHERE id = ?`,
		jsonColumn[[]domain.OrderItem]{o.Items}, o.CustomerName, o.CustomerEmail,
		jsonColumn[domain.ShippingAddress]{o.ShippingAddress}, string(o.Status), o.Total, o.UpdatedAt, o.ID)
	return orderWriteErr("update order", o.ID, err)
}

func (r *SQLOrders) Delete(ctx context.Context, id string) error {
	err := r.s.execOne(ctx, "DELETE FROM orders WHERE id = ?", id)
	return orderWriteErr("delete order", id, err)
}

func orderWriteErr(op, id string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrNotFound):
		return err
	case violated(err) == constraintUnique:
		return domain.Validation("order %s already exists", id)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
