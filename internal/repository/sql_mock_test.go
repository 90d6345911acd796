package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"backoffice/internal/domain"
)

func newMockStore(t *testing.T) (*SQLStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewSQLStore(sqlx.NewDb(db, DriverPostgres)), mock
}

var productRowColumns = []string{"id", "name", "description", "price", "category", "sku", "images", "created_at", "updated_at"}

func TestSQLProducts_GetByID(t *testing.T) {
	store, mock := newMockStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	rows := sqlmock.NewRows(productRowColumns).
		AddRow("p1", "Widget", "", "9.99", "tools", "W1", []byte(`["a.png"]`), now, now)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT " + productColumns + " FROM products WHERE id = $1")).
		WithArgs("p1").
		WillReturnRows(rows)

	p, err := store.Products().GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "W1", p.SKU)
	assert.True(t, p.Price.Equal(decimal.RequireFromString("9.99")))
	assert.Equal(t, []string{"a.png"}, p.Images)

	mock.ExpectQuery(regexp.QuoteMeta("FROM products WHERE id = $1")).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(productRowColumns))
	_, err = store.Products().GetByID(ctx, "missing")
	assert.True(t, errors.Is(err, ErrNotFound))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLProducts_List_BuildsFilter(t *testing.T) {
	store, mock := newMockStore(t)
	min := decimal.NewFromInt(5)

	query := "SELECT " + productColumns + " FROM products WHERE category = $1 AND LOWER(name) LIKE $2 AND price >= $3 ORDER BY created_at DESC, id DESC"
	mock.ExpectQuery(regexp.QuoteMeta(query)).
		WithArgs("tools", "%wid%", "5").
		WillReturnRows(sqlmock.NewRows(productRowColumns))

	list, err := store.Products().List(context.Background(), ProductFilter{Category: "tools", NameSubstring: "Wid", MinPrice: &min})
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLProducts_WriteErrors(t *testing.T) {
	store, mock := newMockStore(t)
	ctx := context.Background()
	p := domain.NewProduct("Widget", "", decimal.NewFromInt(1), "tools", "W1", nil)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO products")).
		WillReturnError(&pq.Error{Code: "23505"})
	err := store.Products().Create(ctx, p)
	assert.True(t, errors.Is(err, ErrDuplicateSKU))
	assert.True(t, domain.IsValidation(err))

	mock.ExpectExec(regexp.QuoteMeta("UPDATE products")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	assert.True(t, errors.Is(store.Products().Update(ctx, p), ErrNotFound))

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM products WHERE id = $1")).
		WithArgs(p.ID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	assert.NoError(t, store.Products().Delete(ctx, p.ID))

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM products")).
		WillReturnError(errors.New("connection reset"))
	err = store.Products().Delete(ctx, p.ID)
	assert.Error(t, err)
	assert.Equal(t, domain.KindInternal, domain.KindOf(err))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLInventory_GetOrCreate(t *testing.T) {
	store, mock := newMockStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO inventory")).
		WithArgs("P1", int64(0), int64(10), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	rows := sqlmock.NewRows([]string{"product_id", "quantity", "low_stock_threshold", "last_adjustment", "updated_at"})
	rows.AddRow("P1", 0, 10, nil, now)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT " + inventoryColumns + " FROM inventory WHERE product_id = $1")).
		WithArgs("P1").
		WillReturnRows(rows)

	inv, err := store.Inventory().GetOrCreate(ctx, "P1", domain.DefaultLowStockThreshold)
	require.NoError(t, err)
	assert.Equal(t, int64(0), inv.Quantity)
	assert.Equal(t, int64(10), inv.LowStockThreshold)
	assert.Nil(t, inv.LastAdjustment)

	mock.ExpectExec(regexp.QuoteMeta("ON CONFLICT (product_id) DO NOTHING")).
		WillReturnError(&pq.Error{Code: "23503"})
	_, err = store.Inventory().GetOrCreate(ctx, "ghost", domain.DefaultLowStockThreshold)
	assert.True(t, domain.IsNotFound(err))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLInventory_UpdateWritesAdjustment(t *testing.T) {
	store, mock := newMockStore(t)
	inv, err := domain.NewInventory("P1", 10).Adjust(domain.AdjustmentAdd, 4, "restock")
	require.NoError(t, err)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE inventory")).
		WithArgs(int64(4), int64(10), sqlmock.AnyArg(), sqlmock.AnyArg(), "P1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, store.Inventory().Update(context.Background(), inv))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLOrders_ListAndCount(t *testing.T) {
	store, mock := newMockStore(t)
	ctx := context.Background()
	now := time.Now().UTC()
	f := OrderFilter{Status: domain.OrderStatusPending, Limit: 10, Offset: 5}

	items := []byte(`[{"productId":"P1","name":"A","price":5,"quantity":2}]`)
	addr := []byte(`{"street":"","city":"Oslo","state":"","zipCode":"","country":"NO"}`)
	rows := sqlmock.NewRows([]string{"id", "items", "customer_name", "customer_email", "shipping_address", "status", "total", "created_at", "updated_at"})
	rows.AddRow("ORD-1", items, "Jane", "jane@example.com", addr, "pending", "10.00", now, now)
	query := "SELECT " + orderColumns + " FROM orders WHERE status = $1 ORDER BY created_at DESC, id DESC LIMIT $2 OFFSET $3"
	mock.ExpectQuery(regexp.QuoteMeta(query)).
		WithArgs("pending", int64(10), int64(5)).
		WillReturnRows(rows)

	list, err := store.Orders().List(ctx, f)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Oslo", list[0].ShippingAddress.City)
	assert.Equal(t, int64(2), list[0].Items[0].Quantity)
	assert.True(t, list[0].Total.Equal(decimal.NewFromInt(10)))

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM orders WHERE status = $1")).
		WithArgs("pending").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))
	n, err := store.Orders().Count(ctx, f)
	require.NoError(t, err)
	assert.Equal(t, 12, n)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLOrders_DeleteMissing(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM orders WHERE id = $1")).
		WithArgs("ORD-x").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := store.Orders().Delete(context.Background(), "ORD-x")
	assert.True(t, domain.IsNotFound(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}
