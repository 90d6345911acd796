package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"backoffice/internal/domain"
)

const productColumns = `id, name, COALESCE(description, '') AS description, price, category, sku,
	COALESCE(images, '[]') AS images, created_at, updated_at`

type productRow struct {
	ID          string               `db:"id"`
	Name        string               `db:"name"`
	Description string               `db:"description"`
	Price       decimal.Decimal      `db:"price"`
	Category    string               `db:"category"`
	SKU         string               `db:"sku"`
	Images      jsonColumn[[]string] `db:"images"`
	CreatedAt   dbTime               `db:"created_at"`
	UpdatedAt   dbTime               `db:"updated_at"`
}

func (r productRow) toDomain() domain.Product {
	images := r.Images.V
	if images == nil {
		images = []string{}
	}
	return domain.Product{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		Category:    r.Category,
		SKU:         r.SKU,
		Images:      images,
		CreatedAt:   r.CreatedAt.Time,
		UpdatedAt:   r.UpdatedAt.Time,
	}
}

// SQLProducts is the ProductRepository view of a SQLStore.
type SQLProducts struct{ s *SQLStore }

var _ ProductRepository = (*SQLProducts)(nil)

func (r *SQLProducts) List(ctx context.Context, f ProductFilter) ([]domain.Product, error) {
	var (
		conds []string
		args  []any
	)
	if f.Category != "" {
		conds = append(conds, "category = ?")
		args = append(args, f.Category)
	}
	if f.NameSubstring != "" {
		conds = append(conds, "LOWER(name) LIKE ?")
		args = append(args, "%"+strings.ToLower(f.NameSubstring)+"%")
	}
	if f.MinPrice != nil {
		conds = append(conds, "price >= ?")
		args = append(args, *f.MinPrice)
	}
	if f.MaxPrice != nil {
		conds = append(conds, "price <= ?")
		args = append(args, *f.MaxPrice)
	}

	query := "SELECT " + productColumns + " FROM products"
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at DESC, id DESC"

	var rows []productRow
	if err := r.s.sel(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	out := make([]domain.Product, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *SQLProducts) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	var row productRow
	err := r.s.get(ctx, &row, "SELECT "+productColumns+" FROM products WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get product %s: %w", id, err)
	}
	p := row.toDomain()
	return &p, nil
}

func (r *SQLProducts) Create(ctx context.Context, p domain.Product) error {
	err := r.s.execOne(ctx, `INSERT INTO products (id, name, description, price, category, sku, images, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name, p.Description, p.Price, p.Category, p.SKU, jsonColumn[[]string]{p.Images}, p.CreatedAt, p.UpdatedAt)
	return productWriteErr("create product", err)
}

func (r *SQLProducts) Update(ctx context.Context, p domain.Product) error {
	err := r.s.execOne(ctx, `UPDATE products
		SET name = ?, description = ?, price = ?, category = ?, sku = ?, images = ?, updated_at = ?
		WHERE id = ?`,
		p.Name, p.Description, p.Price, p.Category, p.SKU, jsonColumn[[]string]{p.Images}, p.UpdatedAt, p.ID)
	return productWriteErr("update product", err)
}

func (r *SQLProducts) Delete(ctx context.Context, id string) error {
	err := r.s.execOne(ctx, "DELETE FROM products WHERE id = ?", id)
	return productWriteErr("delete product", err)
}

func productWriteErr(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrNotFound):
		return err
	case violated(err) == constraintUnique:
		return ErrDuplicateSKU
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
