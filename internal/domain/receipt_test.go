package domain_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rdelacruz/receipt-ledger-service/internal/domain"
)

func TestLineItem_SetQuantityRecomputesAmount(t *testing.T) {
	tests := []struct {
		name       string
		quantity   float64
		unitPrice  float64
		wantAmount float64
	}{
		{name: "WholeNumbers", quantity: 3, unitPrice: 2, wantAmount: 6},
		{name: "FractionalPrice", quantity: 2, unitPrice: 1.5, wantAmount: 3},
		{name: "RoundsToCents", quantity: 3, unitPrice: 19.99, wantAmount: 59.97},
		{name: "ZeroPrice", quantity: 5, unitPrice: 0, wantAmount: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := domain.LineItem{UnitPrice: tt.unitPrice}
			item.SetQuantity(tt.quantity)
			assert.Equal(t, tt.wantAmount, item.Amount)
		})
	}
}

func TestLineItem_SetUnitPriceRecomputesAmount(t *testing.T) {
	item := domain.LineItem{Quantity: 2, UnitPrice: 1.5, Amount: 3}

	item.SetUnitPrice(2.25)

	assert.Equal(t, 2.25, item.UnitPrice)
	assert.Equal(t, 4.5, item.Amount)
}

func TestLineItem_NonFiniteInputNormalizesToZero(t *testing.T) {
	item := domain.LineItem{Quantity: 2, UnitPrice: 3, Amount: 6}

	item.SetQuantity(math.NaN())
	assert.Equal(t, 0.0, item.Quantity)
	assert.Equal(t, 0.0, item.Amount)

	item.SetQuantity(4)
	item.SetUnitPrice(math.Inf(1))
	assert.Equal(t, 0.0, item.UnitPrice)
	assert.Equal(t, 0.0, item.Amount)
}

func TestLineItem_SetNameLeavesAmountAlone(t *testing.T) {
	item := domain.LineItem{Name: "Cola", Quantity: 2, UnitPrice: 1.5, Amount: 3}

	item.SetName("Diet Cola")

	assert.Equal(t, "Diet Cola", item.Name)
	assert.Equal(t, 3.0, item.Amount)
}

func TestAddItem(t *testing.T) {
	items := []domain.LineItem{{Name: "Bread", Quantity: 1, UnitPrice: 4.29, Amount: 4.29}}

	items = domain.AddItem(items)

	require.Len(t, items, 2)
	assert.Equal(t, "Bread", items[0].Name)
	assert.Equal(t, domain.LineItem{Quantity: 1}, items[1])
}

func TestRemoveItem(t *testing.T) {
	items := []domain.LineItem{
		{Name: "first"},
		{Name: "second"},
		{Name: "third"},
	}

	got, err := domain.RemoveItem(items, 1)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "first", got[0].Name)
	assert.Equal(t, "third", got[1].Name)
}

func TestRemoveItem_OutOfRange(t *testing.T) {
	items := []domain.LineItem{{Name: "only"}}

	got, err := domain.RemoveItem(items, 3)
	assert.Error(t, err)
	assert.Equal(t, items, got)

	_, err = domain.RemoveItem(items, -1)
	assert.Error(t, err)
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 1.23, domain.Round2(1.2345))
	assert.Equal(t, 2.57, domain.Round2(2.5678))
	assert.Equal(t, 4.5, domain.Round2(4.50000001))
	assert.Equal(t, 0.0, domain.Round2(0))
}
