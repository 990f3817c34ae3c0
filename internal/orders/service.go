package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pratm1304/FouShack/pkg/db/models"
	"github.com/pratm1304/FouShack/pkg/enums"
	pkgerrors "github.com/pratm1304/FouShack/pkg/errors"
	"github.com/pratm1304/FouShack/pkg/logger"
	"github.com/pratm1304/FouShack/pkg/metrics"
	"github.com/pratm1304/FouShack/pkg/pagination"
	"github.com/pratm1304/FouShack/pkg/security"
	"github.com/pratm1304/FouShack/pkg/types"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	maxLineQty      = 100
	gatewayIDPrefix = "order_"
)

// Service captures storefront orders and confirms their payment.
type Service interface {
	PlaceOrder(ctx context.Context, input PlaceOrderInput) (*OrderDTO, error)
	ConfirmPayment(ctx context.Context, orderID uuid.UUID, input ConfirmPaymentInput) (*OrderDTO, error)
	ListOrders(ctx context.Context, params pagination.Params) (*OrderListDTO, error)
}

// ServiceParams configure the orders service.
type ServiceParams struct {
	Repo          Repository
	Tx            txRunner
	Catalog       Catalog
	Logger        *logger.Logger
	Metrics       *metrics.OrderMetrics
	PaymentSecret string
	Currency      string
}

type service struct {
	repo          Repository
	tx            txRunner
	catalog       Catalog
	logg          *logger.Logger
	metrics       *metrics.OrderMetrics
	paymentSecret string
	currency      string
}

// NewService builds the orders service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if params.Catalog == nil {
		return nil, fmt.Errorf("product catalog required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	currency := params.Currency
	if currency == "" {
		currency = "INR"
	}
	return &service{
		repo:          params.Repo,
		tx:            params.Tx,
		catalog:       params.Catalog,
		logg:          params.Logger,
		metrics:       params.Metrics,
		paymentSecret: params.PaymentSecret,
		currency:      currency,
	}, nil
}

func (s *service) PlaceOrder(ctx context.Context, input PlaceOrderInput) (*OrderDTO, error) {
	if len(input.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}

	qty, order := mergeLines(input.Items)
	for _, id := range order {
		if qty[id] <= 0 || qty[id] > maxLineQty {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("qty must be between 1 and %d", maxLineQty)).
				WithDetails(map[string]string{"product_id": id.String()})
		}
	}

	products, err := s.catalog.ProductsByID(ctx, order)
	if err != nil {
		return nil, err
	}

	items := make(types.OrderItems, 0, len(order))
	total := decimal.Zero
	for _, id := range order {
		product, ok := products[id]
		if !ok {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found").
				WithDetails(map[string]string{"product_id": id.String()})
		}
		item := types.OrderItem{ProductID: id, Title: product.Title, Price: product.Price, Qty: qty[id]}
		items = append(items, item)
		total = total.Add(item.LineTotal())
	}

	gatewayOrderID := gatewayIDPrefix + strings.ReplaceAll(uuid.NewString(), "-", "")
	created, err := s.repo.Create(ctx, &models.Order{
		Name:           name,
		MobileNumber:   strings.TrimSpace(input.MobileNumber),
		Address:        trimAddress(input.Address),
		Items:          items,
		TotalAmount:    total.Round(2),
		PaymentStatus:  enums.PaymentStatusPending,
		GatewayOrderID: &gatewayOrderID,
		CreatedAt:      time.Now().UTC(),
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert order")
	}

	s.metrics.IncOrder(string(enums.PaymentStatusPending))
	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"order_id":     created.ID.String(),
		"total_amount": created.TotalAmount.String(),
		"lines":        len(items),
	}), "order.placed")
	return NewOrderDTO(created, s.currency), nil
}

func (s *service) ConfirmPayment(ctx context.Context, orderID uuid.UUID, input ConfirmPaymentInput) (*OrderDTO, error) {
	if s.paymentSecret == "" {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "payment gateway is not configured")
	}
	gatewayOrderID := strings.TrimSpace(input.GatewayOrderID)
	paymentID := strings.TrimSpace(input.PaymentID)
	if gatewayOrderID == "" || paymentID == "" || strings.TrimSpace(input.Signature) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "gateway order id, payment id and signature are required")
	}

	var (
		confirmed *models.Order
		verifyErr error
	)
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := repo.FindByIDForUpdate(ctx, orderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load order")
		}
		if order.GatewayOrderID == nil || *order.GatewayOrderID != gatewayOrderID {
			return pkgerrors.New(pkgerrors.CodeValidation, "gateway order id does not match order")
		}

		if order.PaymentStatus == enums.PaymentStatusPaid {
			if order.GatewayPaymentID != nil && *order.GatewayPaymentID == paymentID {
				confirmed = order
				return nil
			}
			return pkgerrors.New(pkgerrors.CodeConflict, "order is already paid")
		}

		// A bad signature never changes the order.
		if !security.VerifyPaymentSignature(gatewayOrderID, paymentID, input.Signature, s.paymentSecret) {
			verifyErr = pkgerrors.New(pkgerrors.CodeUnauthorized, "payment signature mismatch")
			return nil
		}

		signature := strings.ToLower(strings.TrimSpace(input.Signature))
		if err := repo.UpdatePayment(ctx, orderID, map[string]any{
			"payment_status":     enums.PaymentStatusPaid,
			"gateway_payment_id": paymentID,
			"gateway_signature":  signature,
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: mark order paid")
		}
		confirmed, err = repo.FindByID(ctx, orderID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: reload order")
		}
		return nil
	})
	if err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "confirm payment")
	}

	ctx = s.logg.WithField(ctx, "order_id", orderID.String())
	if verifyErr != nil {
		s.metrics.IncSignatureMismatch()
		s.logg.Warn(s.logg.WithField(ctx, "payment_id", paymentID), "order.payment.signature_mismatch")
		return nil, verifyErr
	}
	s.metrics.IncOrder(string(enums.PaymentStatusPaid))
	s.logg.Info(ctx, "order.payment.confirmed")
	return NewOrderDTO(confirmed, s.currency), nil
}

// ListOrders returns one page of orders, newest first.
func (s *service) ListOrders(ctx context.Context, params pagination.Params) (*OrderListDTO, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	limit := pagination.NormalizeLimit(params.Limit)
	orders, err := s.repo.List(ctx, pagination.LimitWithBuffer(params.Limit), cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list orders")
	}

	list := &OrderListDTO{Orders: make([]OrderDTO, 0, limit)}
	if len(orders) > limit {
		last := orders[limit-1]
		list.NextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
		orders = orders[:limit]
	}
	for i := range orders {
		list.Orders = append(list.Orders, *NewOrderDTO(&orders[i], s.currency))
	}
	return list, nil
}

// mergeLines sums quantities per product, keeping first-seen order.
func mergeLines(items []ItemInput) (map[uuid.UUID]int, []uuid.UUID) {
	qty := make(map[uuid.UUID]int, len(items))
	order := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		if _, seen := qty[item.ProductID]; !seen {
			order = append(order, item.ProductID)
		}
		qty[item.ProductID] += item.Qty
	}
	return qty, order
}

func trimAddress(a types.DeliveryAddress) types.DeliveryAddress {
	return types.DeliveryAddress{
		Street:  strings.TrimSpace(a.Street),
		City:    strings.TrimSpace(a.City),
		State:   strings.TrimSpace(a.State),
		Pincode: strings.TrimSpace(a.Pincode),
	}
}
