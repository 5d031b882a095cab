package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fptr(v float64) *float64 { return &v }

func TestDisplayName_FallbackChain(t *testing.T) {
	assert.Equal(t, "Small Bag", (&LineItem{Name: "Small Bag", PlanName: "Weekly"}).DisplayName())
	assert.Equal(t, "Weekly Plan", (&LineItem{PlanName: "Weekly Plan"}).DisplayName())
	assert.Equal(t, "Kitchen", (&LineItem{CategoryLabel: "Kitchen"}).DisplayName())
	assert.Equal(t, "Dry Cleaning", (&LineItem{ServiceType: "Dry Cleaning"}).DisplayName())
	assert.Equal(t, "Item", (&LineItem{}).DisplayName())
}

func TestResolvedUnitPrice_PrefersUnitPriceOverLegacy(t *testing.T) {
	li := &LineItem{UnitPrice: fptr(60), Price: fptr(45)}
	price, ok := li.ResolvedUnitPrice()
	require.True(t, ok)
	assert.Equal(t, 60.0, price)

	li = &LineItem{Price: fptr(45)}
	price, ok = li.ResolvedUnitPrice()
	require.True(t, ok)
	assert.Equal(t, 45.0, price)

	_, ok = (&LineItem{}).ResolvedUnitPrice()
	assert.False(t, ok)
}

func TestNormalizedQuantity(t *testing.T) {
	assert.Equal(t, 1, (&LineItem{}).NormalizedQuantity())
	assert.Equal(t, 1, (&LineItem{Quantity: -3}).NormalizedQuantity())
	assert.Equal(t, 5, (&LineItem{Quantity: 5}).NormalizedQuantity())
}

func TestPending(t *testing.T) {
	assert.True(t, (&LineItem{ServiceKey: "wash-dry-fold", Key: "small"}).Pending())
	assert.False(t, (&LineItem{ServiceKey: "wash-dry-fold", Key: "small", UnitPrice: fptr(60)}).Pending())
	assert.False(t, (&LineItem{Key: "small"}).Pending())
	assert.False(t, (&LineItem{ServiceKey: "wash-dry-fold"}).Pending())
}

func TestLineItem_UnknownFieldsRoundTrip(t *testing.T) {
	raw := []byte(`{"serviceType":"Subscription Plan","planKey":"weekly","planName":"Weekly Plan","priceLabel":"₵199 / cycle","cycle":"Weekly","quantity":1}`)

	var li LineItem
	require.NoError(t, json.Unmarshal(raw, &li))
	assert.Equal(t, "Weekly Plan", li.PlanName)
	assert.Equal(t, 1, li.Quantity)
	require.Contains(t, li.Extra, "planKey")
	require.Contains(t, li.Extra, "cycle")

	out, err := json.Marshal(li)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Equal(t, "weekly", decoded["planKey"])
	assert.Equal(t, "Weekly", decoded["cycle"])
	assert.Equal(t, "₵199 / cycle", decoded["priceLabel"])
}

func TestLineItem_AbsentFieldsNeverFailDecode(t *testing.T) {
	var li LineItem
	require.NoError(t, json.Unmarshal([]byte(`{}`), &li))
	assert.Nil(t, li.UnitPrice)
	assert.Nil(t, li.EstimatedMin)
	assert.Equal(t, 0, li.Quantity)
}
