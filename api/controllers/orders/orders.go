package orders

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pratm1304/FouShack/api/responses"
	"github.com/pratm1304/FouShack/api/validators"
	ordersvc "github.com/pratm1304/FouShack/internal/orders"
	pkgerrors "github.com/pratm1304/FouShack/pkg/errors"
	"github.com/pratm1304/FouShack/pkg/logger"
	"github.com/pratm1304/FouShack/pkg/pagination"
	"github.com/pratm1304/FouShack/pkg/types"
)

const (
	maxNameLength   = 120
	maxStreetLength = 255
)

type orderItemRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Qty       int       `json:"qty" validate:"required,min=1,max=100"`
}

// placeOrderRequest allows an empty cart through decoding so the service can
// answer with its own "cart is empty" message.
type placeOrderRequest struct {
	Name         string                `json:"name" validate:"required"`
	MobileNumber string                `json:"mobile_number" validate:"required,numeric,len=10"`
	Address      types.DeliveryAddress `json:"address" validate:"required"`
	Items        []orderItemRequest    `json:"items" validate:"dive"`
}

func (p placeOrderRequest) toInput() ordersvc.PlaceOrderInput {
	items := make([]ordersvc.ItemInput, 0, len(p.Items))
	for _, item := range p.Items {
		items = append(items, ordersvc.ItemInput{ProductID: item.ProductID, Qty: item.Qty})
	}
	return ordersvc.PlaceOrderInput{
		Name:         validators.SanitizeString(p.Name, maxNameLength),
		MobileNumber: strings.TrimSpace(p.MobileNumber),
		Address: types.DeliveryAddress{
			Street:  validators.SanitizeString(p.Address.Street, maxStreetLength),
			City:    validators.SanitizeString(p.Address.City, maxNameLength),
			State:   validators.SanitizeString(p.Address.State, maxNameLength),
			Pincode: strings.TrimSpace(p.Address.Pincode),
		},
		Items: items,
	}
}

type confirmPaymentRequest struct {
	GatewayOrderID string `json:"gateway_order_id" validate:"required"`
	PaymentID      string `json:"payment_id" validate:"required"`
	Signature      string `json:"signature" validate:"required"`
}

// PlaceOrder records a storefront order awaiting payment.
func PlaceOrder(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		var payload placeOrderRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.PlaceOrder(r.Context(), payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}

// ConfirmPayment verifies the gateway signature and settles the order.
func ConfirmPayment(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		orderID, err := uuid.Parse(chi.URLParam(r, "orderId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order id"))
			return
		}

		var payload confirmPaymentRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.ConfirmPayment(r.Context(), orderID, ordersvc.ConfirmPaymentInput{
			GatewayOrderID: strings.TrimSpace(payload.GatewayOrderID),
			PaymentID:      strings.TrimSpace(payload.PaymentID),
			Signature:      strings.TrimSpace(payload.Signature),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// AdminListOrders returns the most recent orders, paged by ?limit and ?cursor.
func AdminListOrders(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.ListOrders(r.Context(), pagination.Params{
			Limit:  limit,
			Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}
