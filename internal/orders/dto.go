package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/pratm1304/FouShack/pkg/db/models"
	"github.com/pratm1304/FouShack/pkg/enums"
	"github.com/pratm1304/FouShack/pkg/types"
	"github.com/shopspring/decimal"
)

// ItemInput is a single cart line.
type ItemInput struct {
	ProductID uuid.UUID
	Qty       int
}

// PlaceOrderInput captures a storefront checkout.
type PlaceOrderInput struct {
	Name         string
	MobileNumber string
	Address      types.DeliveryAddress
	Items        []ItemInput
}

// ConfirmPaymentInput carries the references returned by the payment gateway.
type ConfirmPaymentInput struct {
	GatewayOrderID string
	PaymentID      string
	Signature      string
}

// OrderDTO is the order payload returned to clients.
type OrderDTO struct {
	ID               uuid.UUID             `json:"id"`
	Name             string                `json:"name"`
	MobileNumber     string                `json:"mobile_number"`
	Address          types.DeliveryAddress `json:"address"`
	Items            types.OrderItems      `json:"items"`
	TotalAmount      decimal.Decimal       `json:"total_amount"`
	Currency         string                `json:"currency"`
	PaymentStatus    enums.PaymentStatus   `json:"payment_status"`
	GatewayOrderID   *string               `json:"gateway_order_id,omitempty"`
	GatewayPaymentID *string               `json:"gateway_payment_id,omitempty"`
	CreatedAt        time.Time             `json:"created_at"`
	UpdatedAt        time.Time             `json:"updated_at"`
}

// NewOrderDTO maps a persisted order.
func NewOrderDTO(order *models.Order, currency string) *OrderDTO {
	items := order.Items
	if items == nil {
		items = types.OrderItems{}
	}
	return &OrderDTO{
		ID:               order.ID,
		Name:             order.Name,
		MobileNumber:     order.MobileNumber,
		Address:          order.Address,
		Items:            items,
		TotalAmount:      order.TotalAmount.Round(2),
		Currency:         currency,
		PaymentStatus:    order.PaymentStatus,
		GatewayOrderID:   order.GatewayOrderID,
		GatewayPaymentID: order.GatewayPaymentID,
		CreatedAt:        order.CreatedAt,
		UpdatedAt:        order.UpdatedAt,
	}
}

// OrderListDTO is one page of the admin order listing.
type OrderListDTO struct {
	Orders     []OrderDTO `json:"orders"`
	NextCursor string     `json:"next_cursor,omitempty"`
}
