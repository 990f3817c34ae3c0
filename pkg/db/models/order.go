package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/pratm1304/FouShack/pkg/enums"
	"github.com/pratm1304/FouShack/pkg/types"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Order is a storefront purchase with its payment-gateway references.
type Order struct {
	ID               uuid.UUID             `gorm:"type:uuid;primaryKey"`
	Name             string                `gorm:"column:name;not null"`
	MobileNumber     string                `gorm:"column:mobile_number;not null"`
	Address          types.DeliveryAddress `gorm:"column:address;type:jsonb;not null"`
	Items            types.OrderItems      `gorm:"column:items;type:jsonb;not null"`
	TotalAmount      decimal.Decimal       `gorm:"column:total_amount;type:numeric(12,2);not null"`
	PaymentStatus    enums.PaymentStatus   `gorm:"column:payment_status;type:text;not null;default:pending"`
	GatewayOrderID   *string               `gorm:"column:gateway_order_id"`
	GatewayPaymentID *string               `gorm:"column:gateway_payment_id"`
	GatewaySignature *string               `gorm:"column:gateway_signature"`
	CreatedAt        time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}

func (o *Order) BeforeCreate(*gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}
