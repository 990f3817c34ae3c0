package product

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/pratm1304/FouShack/pkg/db/models"
	pkgerrors "github.com/pratm1304/FouShack/pkg/errors"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

// Service exposes catalog management and the read helpers other domains rely on.
type Service interface {
	ListProducts(ctx context.Context) ([]ProductDTO, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*ProductDTO, error)
	CreateProduct(ctx context.Context, input CreateProductInput) (*ProductDTO, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*ProductDTO, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error

	Catalog
}

// Catalog is the read-only view of products used by inventory and orders.
type Catalog interface {
	// Snapshot returns every product currently in the catalog.
	Snapshot(ctx context.Context) ([]models.Product, error)
	// PriceIndex maps product id to unit price.
	PriceIndex(ctx context.Context) (map[uuid.UUID]decimal.Decimal, error)
	// ProductsByID resolves the ids that exist; unknown ids are absent from the map.
	ProductsByID(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Product, error)
}

// CreateProductInput holds the validated payload to create a product.
type CreateProductInput struct {
	Title    string
	Content  string
	Price    decimal.Decimal
	ImageURL string
}

// UpdateProductInput holds optional mutation values for a product.
type UpdateProductInput struct {
	Title    *string
	Content  *string
	Price    *decimal.Decimal
	ImageURL *string
}

type productRepository interface {
	List(ctx context.Context) ([]models.Product, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error)
	Create(ctx context.Context, product *models.Product) (*models.Product, error)
	Update(ctx context.Context, product *models.Product) (*models.Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo  productRepository
	group singleflight.Group
}

const snapshotKey = "catalog"

// NewService constructs a product service instance.
func NewService(repo productRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) ListProducts(ctx context.Context) ([]ProductDTO, error) {
	products, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list products")
	}
	return NewProductDTOs(products), nil
}

func (s *service) GetProduct(ctx context.Context, id uuid.UUID) (*ProductDTO, error) {
	product, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return NewProductDTO(product), nil
}

func (s *service) CreateProduct(ctx context.Context, input CreateProductInput) (*ProductDTO, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title is required")
	}
	if err := validatePrice(input.Price); err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, &models.Product{
		Title:    title,
		Content:  strings.TrimSpace(input.Content),
		Price:    input.Price.Round(2),
		ImageURL: strings.TrimSpace(input.ImageURL),
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert product")
	}
	return NewProductDTO(created), nil
}

func (s *service) UpdateProduct(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*ProductDTO, error) {
	if input.Price != nil {
		if err := validatePrice(*input.Price); err != nil {
			return nil, err
		}
	}
	if input.Title != nil && strings.TrimSpace(*input.Title) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title cannot be empty")
	}

	product, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	applyUpdateToProduct(product, input)

	updated, err := s.repo.Update(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update product")
	}
	return NewProductDTO(updated), nil
}

func (s *service) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete product")
	}
	return nil
}

// Snapshot shares one catalog read among concurrent callers.
func (s *service) Snapshot(ctx context.Context) ([]models.Product, error) {
	v, err, _ := s.group.Do(snapshotKey, func() (any, error) {
		return s.repo.List(ctx)
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load catalog")
	}
	products := v.([]models.Product)
	out := make([]models.Product, len(products))
	copy(out, products)
	return out, nil
}

func (s *service) PriceIndex(ctx context.Context) (map[uuid.UUID]decimal.Decimal, error) {
	products, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	index := make(map[uuid.UUID]decimal.Decimal, len(products))
	for _, p := range products {
		index[p.ID] = p.Price
	}
	return index, nil
}

func (s *service) ProductsByID(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Product, error) {
	products, err := s.repo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load products")
	}
	out := make(map[uuid.UUID]models.Product, len(products))
	for _, p := range products {
		out[p.ID] = p
	}
	return out, nil
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load product")
	}
	return product, nil
}

func applyUpdateToProduct(product *models.Product, input UpdateProductInput) {
	if input.Title != nil {
		product.Title = strings.TrimSpace(*input.Title)
	}
	if input.Content != nil {
		product.Content = strings.TrimSpace(*input.Content)
	}
	if input.Price != nil {
		product.Price = input.Price.Round(2)
	}
	if input.ImageURL != nil {
		product.ImageURL = strings.TrimSpace(*input.ImageURL)
	}
}

func validatePrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "price must be non-negative")
	}
	return nil
}
