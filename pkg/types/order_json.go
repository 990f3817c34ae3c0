package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DeliveryAddress is the customer's shipping address persisted as JSON.
type DeliveryAddress struct {
	Street  string `json:"street" validate:"required"`
	City    string `json:"city" validate:"required"`
	State   string `json:"state" validate:"required"`
	Pincode string `json:"pincode" validate:"required,numeric,len=6"`
}

// Value marshals the address into JSON.
func (a DeliveryAddress) Value() (driver.Value, error) {
	if strings.TrimSpace(a.Street) == "" {
		return nil, fmt.Errorf("address: missing street")
	}
	buf, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	return string(buf), nil
}

// Scan decodes a JSON column into the address.
func (a *DeliveryAddress) Scan(value interface{}) error {
	raw, err := jsonBytes("address", value)
	if err != nil {
		return err
	}
	if raw == nil {
		*a = DeliveryAddress{}
		return nil
	}
	return json.Unmarshal(raw, a)
}

// OrderItem snapshots a catalog product at the time of ordering.
type OrderItem struct {
	ProductID uuid.UUID       `json:"product_id"`
	Title     string          `json:"title"`
	Price     decimal.Decimal `json:"price"`
	Qty       int             `json:"qty"`
}

// LineTotal returns price times quantity.
func (i OrderItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Qty)))
}

// OrderItems is the JSON array of ordered lines.
type OrderItems []OrderItem

// Value marshals the items into JSON.
func (o OrderItems) Value() (driver.Value, error) {
	if o == nil {
		return "[]", nil
	}
	buf, err := json.Marshal(o)
	if err != nil {
		return nil, err
	}
	return string(buf), nil
}

// Scan decodes a JSON column into the items.
func (o *OrderItems) Scan(value interface{}) error {
	raw, err := jsonBytes("order items", value)
	if err != nil {
		return err
	}
	if raw == nil {
		*o = OrderItems{}
		return nil
	}
	var items OrderItems
	if err := json.Unmarshal(raw, &items); err != nil {
		return err
	}
	*o = items
	return nil
}

func jsonBytes(name string, value interface{}) ([]byte, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case string:
		return []byte(v), nil
	case []byte:
		return v, nil
	default:
		return nil, fmt.Errorf("%s: unsupported scan type %T", name, value)
	}
}
