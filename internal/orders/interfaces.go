package orders

import (
	"context"

	"github.com/google/uuid"
	"github.com/pratm1304/FouShack/pkg/db/models"
	"github.com/pratm1304/FouShack/pkg/pagination"
	"gorm.io/gorm"
)

// Repository exposes persistence operations for storefront orders.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, order *models.Order) (*models.Order, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Order, error)
	UpdatePayment(ctx context.Context, id uuid.UUID, updates map[string]any) error
	List(ctx context.Context, limit int, cursor *pagination.Cursor) ([]models.Order, error)
}

// Catalog resolves ordered products.
type Catalog interface {
	ProductsByID(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Product, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}
