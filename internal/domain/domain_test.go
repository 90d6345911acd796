package domain

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stubClock(t *testing.T, start time.Time) {
	t.Helper()
	orig := Now
	cur := start
	Now = func() time.Time {
		cur = cur.Add(time.Millisecond)
		return cur
	}
	t.Cleanup(func() { Now = orig })
}

func TestNewProduct(t *testing.T) {
	p := NewProduct("Widget", "", decimal.RequireFromString("9.99"), "tools", "W1", nil)
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, p.CreatedAt, p.UpdatedAt)
	assert.NotNil(t, p.Images)
	assert.True(t, p.Price.Equal(decimal.RequireFromString("9.99")))
}

func TestProductUpdate_PreservesIdentity(t *testing.T) {
	stubClock(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	p := NewProduct("Widget", "d", decimal.NewFromInt(5), "tools", "W1", []string{"a.png"})

	name := "Gadget"
	images := []string{"b.png", "c.png"}
	up := p.Update(ProductPatch{Name: &name, Images: &images})

	assert.Equal(t, p.ID, up.ID)
	assert.Equal(t, p.CreatedAt, up.CreatedAt)
	assert.True(t, up.UpdatedAt.After(p.UpdatedAt))
	assert.Equal(t, "Gadget", up.Name)
	assert.Equal(t, "d", up.Description)
	assert.Equal(t, []string{"b.png", "c.png"}, up.Images)
	// original untouched
	assert.Equal(t, "Widget", p.Name)
	assert.Equal(t, []string{"a.png"}, p.Images)
}

func TestInventoryAdjust(t *testing.T) {
	inv := NewInventory("P1", DefaultLowStockThreshold)

	inv, err := inv.Adjust(AdjustmentSet, 50, "count")
	require.NoError(t, err)
	assert.Equal(t, int64(50), inv.Quantity)
	require.NotNil(t, inv.LastAdjustment)
	assert.Equal(t, AdjustmentSet, inv.LastAdjustment.Type)
	assert.Equal(t, int64(50), inv.LastAdjustment.Quantity)
	assert.Equal(t, "count", inv.LastAdjustment.Reason)

	inv, err = inv.Adjust(AdjustmentAdd, 5, "restock")
	require.NoError(t, err)
	assert.Equal(t, int64(55), inv.Quantity)

	inv, err = inv.Adjust(AdjustmentSubtract, 55, "sale")
	require.NoError(t, err)
	assert.Equal(t, int64(0), inv.Quantity)
	assert.True(t, inv.IsLowStock())
}

func TestInventoryAdjust_Rejects(t *testing.T) {
	inv, err := NewInventory("P1", 10).Adjust(AdjustmentSet, 50, "")
	require.NoError(t, err)

	got, err := inv.Adjust(AdjustmentSubtract, 60, "")
	assert.True(t, IsValidation(err))
	assert.Equal(t, inv, got)

	_, err = inv.Adjust(AdjustmentAdd, -1, "")
	assert.True(t, IsValidation(err))

	_, err = inv.Adjust("bogus", 1, "")
	assert.True(t, IsValidation(err))
}

func TestInventoryDirectUpdates(t *testing.T) {
	inv := NewInventory("P1", 10)
	inv, err := inv.UpdateQuantity(3)
	require.NoError(t, err)
	assert.Nil(t, inv.LastAdjustment)
	assert.True(t, inv.IsLowStock())

	_, err = inv.UpdateQuantity(-1)
	assert.True(t, IsValidation(err))

	inv, err = inv.UpdateLowStockThreshold(2)
	require.NoError(t, err)
	assert.False(t, inv.IsLowStock())

	_, err = inv.UpdateLowStockThreshold(-2)
	assert.True(t, IsValidation(err))
}

func TestInventoryJSON_LowStock(t *testing.T) {
	raw, err := json.Marshal(NewInventory("P1", 10))
	require.NoError(t, err)
	var m map[string]any
	require.NoError(t, json.Unmarshal(raw, &m))
	assert.Equal(t, true, m["lowStock"])
	assert.Equal(t, "P1", m["productId"])
	assert.NotContains(t, m, "lastAdjustment")
}

func twoItems() []OrderItem {
	return []OrderItem{
		{ProductID: "P1", Name: "A", Price: decimal.NewFromInt(5), Quantity: 2},
		{ProductID: "P2", Name: "B", Price: decimal.NewFromInt(10), Quantity: 1},
	}
}

func TestNewOrder(t *testing.T) {
	o, err := NewOrder(twoItems(), "Jane", "jane@example.com", ShippingAddress{City: "Oslo"}, NewOrderID)
	require.NoError(t, err)
	assert.True(t, o.Total.Equal(decimal.NewFromInt(20)))
	assert.Equal(t, OrderStatusPending, o.Status)
	assert.Regexp(t, `^ORD-[0-9a-f-]{36}$`, o.ID)

	_, err = NewOrder(nil, "Jane", "", ShippingAddress{}, NewOrderID)
	assert.True(t, IsValidation(err))

	_, err = NewOrder([]OrderItem{{ProductID: "P1", Quantity: 0}}, "Jane", "", ShippingAddress{}, NewOrderID)
	assert.True(t, IsValidation(err))
}

func TestOrderUpdateStatus(t *testing.T) {
	o, err := NewOrder(twoItems(), "Jane", "", ShippingAddress{}, NewOrderID)
	require.NoError(t, err)

	for _, s := range OrderStatuses {
		up, err := o.UpdateStatus(s)
		require.NoError(t, err)
		assert.Equal(t, s, up.Status)
		assert.True(t, up.Total.Equal(o.Total))
	}

	// cancelled orders can be reopened
	c, _ := o.UpdateStatus(OrderStatusCancelled)
	re, err := c.UpdateStatus(OrderStatusPending)
	require.NoError(t, err)
	assert.Equal(t, OrderStatusPending, re.Status)

	_, err = o.UpdateStatus("lost")
	assert.True(t, IsValidation(err))
}

func TestOrderUpdate(t *testing.T) {
	stubClock(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	o, err := NewOrder(twoItems(), "Jane", "", ShippingAddress{}, func() string { return "ORD-1" })
	require.NoError(t, err)

	name := "John"
	up, err := o.Update(OrderPatch{CustomerName: &name})
	require.NoError(t, err)
	assert.Equal(t, "John", up.CustomerName)
	assert.True(t, up.Total.Equal(o.Total))
	assert.Equal(t, "ORD-1", up.ID)
	assert.Equal(t, o.CreatedAt, up.CreatedAt)

	items := []OrderItem{{ProductID: "P3", Price: decimal.RequireFromString("1.25"), Quantity: 4}}
	up, err = o.Update(OrderPatch{Items: &items})
	require.NoError(t, err)
	assert.True(t, up.Total.Equal(decimal.NewFromInt(5)))

	empty := []OrderItem{}
	_, err = o.Update(OrderPatch{Items: &empty})
	assert.True(t, IsValidation(err))

	bad := OrderStatus("lost")
	_, err = o.Update(OrderPatch{Status: &bad})
	assert.True(t, IsValidation(err))
}

func TestErrorKinds(t *testing.T) {
	assert.Equal(t, KindValidation, KindOf(Validation("x")))
	assert.Equal(t, KindNotFound, KindOf(NotFound("x")))
	assert.Equal(t, KindInternal, KindOf(assert.AnError))
	assert.Equal(t, "not_found", KindNotFound.String())
}

func TestMoneyIsRoundedToCents(t *testing.T) {
	p := NewProduct("A", "", decimal.RequireFromString("9.999"), "c", "S", nil)
	assert.Equal(t, "10", p.Price.String())

	half := decimal.RequireFromString("1.005")
	up := p.Update(ProductPatch{Price: &half})
	assert.Equal(t, "1.01", up.Price.String())

	items := []OrderItem{{ProductID: "P1", Price: decimal.RequireFromString("0.333"), Quantity: 3}}
	o, err := NewOrder(items, "c", "", ShippingAddress{}, NewOrderID)
	require.NoError(t, err)
	assert.Equal(t, "1", o.Total.String())
}

func TestOrderTotalOverColumnLimit(t *testing.T) {
	items := []OrderItem{{ProductID: "P1", Price: MaxMoney, Quantity: 2}}
	_, err := NewOrder(items, "c", "", ShippingAddress{}, NewOrderID)
	assert.True(t, IsValidation(err))

	items[0].Quantity = 1
	o, err := NewOrder(items, "c", "", ShippingAddress{}, NewOrderID)
	require.NoError(t, err)
	assert.True(t, o.Total.Equal(MaxMoney))
}

func TestInventoryQuantityLimit(t *testing.T) {
	inv, err := NewInventory("P1", 10).UpdateQuantity(MaxQuantity)
	require.NoError(t, err)

	got, err := inv.Adjust(AdjustmentAdd, 1, "")
	assert.True(t, IsValidation(err))
	assert.Equal(t, inv, got)

	_, err = NewInventory("P1", 10).Adjust(AdjustmentSet, MaxQuantity+1, "")
	assert.True(t, IsValidation(err))
	_, err = NewInventory("P1", 10).Adjust(AdjustmentAdd, math.MaxInt64, "")
	assert.True(t, IsValidation(err))
	_, err = NewInventory("P1", 10).UpdateQuantity(MaxQuantity + 1)
	assert.True(t, IsValidation(err))
	_, err = NewInventory("P1", 10).UpdateLowStockThreshold(MaxQuantity + 1)
	assert.True(t, IsValidation(err))
}
