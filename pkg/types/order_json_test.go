package types

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestOrderItemsScanFromStoredJSON(t *testing.T) {
	id := uuid.New()
	var items OrderItems
	raw := `[{"product_id":"` + id.String() + `","title":"Croissant","price":"85.50","qty":2}]`
	require.NoError(t, items.Scan([]byte(raw)))
	require.Len(t, items, 1)
	require.Equal(t, id, items[0].ProductID)
	require.True(t, items[0].LineTotal().Equal(decimal.RequireFromString("171")))
}

func TestOrderItemsNilValueIsEmptyArray(t *testing.T) {
	var items OrderItems
	v, err := items.Value()
	require.NoError(t, err)
	require.Equal(t, "[]", v)
}

func TestDeliveryAddressRejectsMissingStreet(t *testing.T) {
	_, err := DeliveryAddress{City: "Pune", State: "MH", Pincode: "411001"}.Value()
	require.Error(t, err)

	var addr DeliveryAddress
	require.NoError(t, addr.Scan(nil))
	require.Equal(t, DeliveryAddress{}, addr)
	require.Error(t, addr.Scan(42))
}
