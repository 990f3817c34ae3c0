package inventory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pratm1304/FouShack/pkg/db/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:inventory_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&models.InventoryRecord{}))
	return conn
}

func intPtr(v int) *int { return &v }

func TestRepositoryUpsertCreatesWithZeroDefaults(t *testing.T) {
	repo := NewRepository(openTestDB(t))
	ctx := context.Background()
	productID := uuid.New()

	record, err := repo.Upsert(ctx, productID, Fields{Chef: intPtr(4)})
	require.NoError(t, err)
	assert.Equal(t, productID, record.ProductID)
	assert.Equal(t, 4, record.Chef)
	assert.Zero(t, record.YesterdayStock)
	assert.Zero(t, record.Admin)
	assert.Zero(t, record.Sales)
	assert.Zero(t, record.Zomato)
	assert.Nil(t, record.BaselineDate)
}

func TestRepositoryUpsertLeavesUnlistedColumns(t *testing.T) {
	repo := NewRepository(openTestDB(t))
	ctx := context.Background()
	productID := uuid.New()

	_, err := repo.Upsert(ctx, productID, Fields{YesterdayStock: intPtr(7), Admin: intPtr(3), Sales: intPtr(2)})
	require.NoError(t, err)

	record, err := repo.Upsert(ctx, productID, Fields{Sales: intPtr(5)})
	require.NoError(t, err)
	assert.Equal(t, 7, record.YesterdayStock)
	assert.Equal(t, 3, record.Admin)
	assert.Equal(t, 5, record.Sales)

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1, "upsert must never duplicate a product")
}

func TestRepositoryUpsertStampsBaseline(t *testing.T) {
	repo := NewRepository(openTestDB(t))
	ctx := context.Background()
	productID := uuid.New()
	date := "19 Oct 2026"
	at := time.Date(2026, 10, 19, 15, 0, 0, 0, time.UTC)

	record, err := repo.Upsert(ctx, productID, Fields{YesterdayStock: intPtr(11), BaselineDate: &date, BaselineAt: &at})
	require.NoError(t, err)
	require.NotNil(t, record.BaselineDate)
	assert.Equal(t, date, *record.BaselineDate)
	require.NotNil(t, record.BaselineAt)
	assert.True(t, record.BaselineAt.Equal(at))
}

func TestRepositoryUpsertRequiresFields(t *testing.T) {
	repo := NewRepository(openTestDB(t))
	_, err := repo.Upsert(context.Background(), uuid.New(), Fields{})
	require.Error(t, err)
}

func TestRepositoryGetMissing(t *testing.T) {
	repo := NewRepository(openTestDB(t))
	_, err := repo.Get(context.Background(), uuid.New())
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}
