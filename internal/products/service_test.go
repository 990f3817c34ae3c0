package product

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/pratm1304/FouShack/pkg/db/models"
	pkgerrors "github.com/pratm1304/FouShack/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (Service, *Repository) {
	t.Helper()
	repo := NewRepository(openTestDB(t))
	svc, err := NewService(repo)
	require.NoError(t, err)
	return svc, repo
}

func stringPtr(v string) *string { return &v }

func TestNewServiceRequiresRepo(t *testing.T) {
	_, err := NewService(nil)
	require.Error(t, err)
}

func TestCreateAndGetProduct(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateProduct(ctx, CreateProductInput{
		Title:    "  Croissant ",
		Content:  "Butter laminated",
		Price:    decimal.RequireFromString("120.505"),
		ImageURL: "https://cdn.example.com/croissant.jpg",
	})
	require.NoError(t, err)
	assert.Equal(t, "Croissant", created.Title)
	assert.True(t, created.Price.Equal(decimal.RequireFromString("120.51")))

	loaded, err := svc.GetProduct(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, loaded.ID)
	assert.Equal(t, "Butter laminated", loaded.Content)
}

func TestCreateProductValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateProduct(ctx, CreateProductInput{Title: " ", Price: decimal.NewFromInt(1)})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	_, err = svc.CreateProduct(ctx, CreateProductInput{Title: "Bun", Price: decimal.NewFromInt(-1)})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestUpdateProductPartial(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateProduct(ctx, CreateProductInput{Title: "Baguette", Content: "Crusty", Price: decimal.NewFromInt(80)})
	require.NoError(t, err)

	price := decimal.NewFromInt(90)
	updated, err := svc.UpdateProduct(ctx, created.ID, UpdateProductInput{Price: &price, Title: stringPtr(" French Baguette ")})
	require.NoError(t, err)
	assert.Equal(t, "French Baguette", updated.Title)
	assert.Equal(t, "Crusty", updated.Content)
	assert.True(t, updated.Price.Equal(price))

	_, err = svc.UpdateProduct(ctx, uuid.New(), UpdateProductInput{Title: stringPtr("x")})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestDeleteProduct(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateProduct(ctx, CreateProductInput{Title: "Muffin", Price: decimal.NewFromInt(50)})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteProduct(ctx, created.ID))
	err = svc.DeleteProduct(ctx, created.ID)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestPriceIndexAndProductsByID(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	a, err := svc.CreateProduct(ctx, CreateProductInput{Title: "A", Price: decimal.NewFromInt(10)})
	require.NoError(t, err)
	b, err := svc.CreateProduct(ctx, CreateProductInput{Title: "B", Price: decimal.RequireFromString("12.50")})
	require.NoError(t, err)

	index, err := svc.PriceIndex(ctx)
	require.NoError(t, err)
	require.Len(t, index, 2)
	assert.True(t, index[b.ID].Equal(decimal.RequireFromString("12.5")))

	missing := uuid.New()
	found, err := svc.ProductsByID(ctx, []uuid.UUID{a.ID, missing})
	require.NoError(t, err)
	assert.Contains(t, found, a.ID)
	assert.NotContains(t, found, missing)
}

type countingRepo struct {
	productRepository
	mu    sync.Mutex
	calls int
	gate  chan struct{}
}

func (r *countingRepo) List(ctx context.Context) ([]models.Product, error) {
	r.mu.Lock()
	r.calls++
	r.mu.Unlock()
	<-r.gate
	return []models.Product{{ID: uuid.New(), Title: "Loaf", Price: decimal.NewFromInt(40)}}, nil
}

func TestSnapshotSharesConcurrentReads(t *testing.T) {
	repo := &countingRepo{gate: make(chan struct{})}
	svc, err := NewService(repo)
	require.NoError(t, err)

	const callers = 5
	var started, done sync.WaitGroup
	started.Add(callers)
	done.Add(callers)
	for i := 0; i < callers; i++ {
		go func() {
			defer done.Done()
			started.Done()
			products, err := svc.Snapshot(context.Background())
			assert.NoError(t, err)
			assert.Len(t, products, 1)
		}()
	}
	started.Wait()
	close(repo.gate)
	done.Wait()

	repo.mu.Lock()
	defer repo.mu.Unlock()
	assert.GreaterOrEqual(t, repo.calls, 1)
	assert.LessOrEqual(t, repo.calls, callers)
}
