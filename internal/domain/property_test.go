package domain

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/shopspring/decimal"
)

// Property: Adjust(add, n) then Adjust(subtract, n) restores the quantity.
func TestInventoryAddSubtractRoundTrip(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("add then subtract is identity", prop.ForAll(
		func(start, n int64) bool {
			inv, err := NewInventory("P", 10).UpdateQuantity(start)
			if err != nil {
				return false
			}
			added, err := inv.Adjust(AdjustmentAdd, n, "")
			if err != nil {
				return false
			}
			back, err := added.Adjust(AdjustmentSubtract, n, "")
			if err != nil {
				return false
			}
			return back.Quantity == start
		},
		gen.Int64Range(0, 1_000_000),
		gen.Int64Range(0, 1_000_000),
	))

	properties.TestingRun(t)
}

// Property: subtracting more than available fails and leaves the value unchanged.
func TestInventorySubtractPastZero(t *testing.T) {
	properties := gopter.NewProperties(gopter.DefaultTestParameters())

	properties.Property("over-subtract is rejected", prop.ForAll(
		func(start, extra int64) bool {
			inv, _ := NewInventory("P", 10).UpdateQuantity(start)
			got, err := inv.Adjust(AdjustmentSubtract, start+extra, "")
			return IsValidation(err) && got == inv
		},
		gen.Int64Range(0, 10_000),
		gen.Int64Range(1, 10_000),
	))

	properties.TestingRun(t)
}

// Property: no sequence of adjustments drives quantity below zero.
func TestInventoryNeverNegative(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	types := []AdjustmentType{AdjustmentAdd, AdjustmentSubtract, AdjustmentSet}

	properties.Property("quantity stays non-negative", prop.ForAll(
		func(kinds []int, deltas []int64) bool {
			inv := NewInventory("P", DefaultLowStockThreshold)
			for i := 0; i < len(kinds) && i < len(deltas); i++ {
				next, err := inv.Adjust(types[kinds[i]], deltas[i], "")
				if err != nil {
					if next != inv {
						return false
					}
					continue
				}
				inv = next
				if inv.Quantity < 0 {
					return false
				}
			}
			return inv.Quantity >= 0
		},
		gen.SliceOf(gen.IntRange(0, 2)),
		gen.SliceOf(gen.Int64Range(0, 500)),
	))

	properties.TestingRun(t)
}

// Property: order total is the exact sum of price*quantity, before and after an items update.
func TestOrderTotalMatchesItems(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	build := func(cents, qtys []int64) ([]OrderItem, decimal.Decimal) {
		var items []OrderItem
		var sum int64
		for i := 0; i < len(cents) && i < len(qtys); i++ {
			items = append(items, OrderItem{ProductID: "P", Price: decimal.New(cents[i], -2), Quantity: qtys[i]})
			sum += cents[i] * qtys[i]
		}
		return items, decimal.New(sum, -2)
	}

	properties.Property("create and update keep total consistent", prop.ForAll(
		func(cents, qtys, cents2, qtys2 []int64) bool {
			items, want := build(cents, qtys)
			o, err := NewOrder(items, "c", "", ShippingAddress{}, NewOrderID)
			if len(items) == 0 {
				return IsValidation(err)
			}
			if err != nil || !o.Total.Equal(want) {
				return false
			}

			name := "other"
			same, err := o.Update(OrderPatch{CustomerName: &name})
			if err != nil || !same.Total.Equal(o.Total) {
				return false
			}

			items2, want2 := build(cents2, qtys2)
			up, err := o.Update(OrderPatch{Items: &items2})
			if len(items2) == 0 {
				return IsValidation(err) && o.Total.Equal(want)
			}
			return err == nil && up.Total.Equal(want2)
		},
		gen.SliceOf(gen.Int64Range(0, 100_000)),
		gen.SliceOf(gen.Int64Range(1, 50)),
		gen.SliceOf(gen.Int64Range(0, 100_000)),
		gen.SliceOf(gen.Int64Range(1, 50)),
	))

	properties.TestingRun(t)
}
