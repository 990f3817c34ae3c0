package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pratm1304/FouShack/pkg/db/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Fields names the columns an upsert writes. Nil fields are left untouched on
// an existing record and default to zero on insert.
type Fields struct {
	YesterdayStock *int
	Admin          *int
	Chef           *int
	Sales          *int
	Zomato         *int
	BaselineDate   *string
	BaselineAt     *time.Time
}

func (f Fields) columns() []string {
	cols := make([]string, 0, 8)
	if f.YesterdayStock != nil {
		cols = append(cols, "yesterday_stock")
	}
	if f.Admin != nil {
		cols = append(cols, "admin")
	}
	if f.Chef != nil {
		cols = append(cols, "chef")
	}
	if f.Sales != nil {
		cols = append(cols, "sales")
	}
	if f.Zomato != nil {
		cols = append(cols, "zomato")
	}
	if f.BaselineDate != nil {
		cols = append(cols, "baseline_date")
	}
	if f.BaselineAt != nil {
		cols = append(cols, "baseline_at")
	}
	return cols
}

// Repository persists one inventory record per product.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// GetAll returns every stored record.
func (r *Repository) GetAll(ctx context.Context) ([]models.InventoryRecord, error) {
	var records []models.InventoryRecord
	if err := r.db.WithContext(ctx).Order("product_id").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// Get loads the record for a single product.
func (r *Repository) Get(ctx context.Context, productID uuid.UUID) (*models.InventoryRecord, error) {
	var record models.InventoryRecord
	if err := r.db.WithContext(ctx).First(&record, "product_id = ?", productID).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

// Upsert inserts or updates the record in one statement so a concurrent reader
// never sees a partially written row.
func (r *Repository) Upsert(ctx context.Context, productID uuid.UUID, fields Fields) (*models.InventoryRecord, error) {
	cols := fields.columns()
	if len(cols) == 0 {
		return nil, fmt.Errorf("upsert requires at least one field")
	}

	record := models.InventoryRecord{
		ProductID:      productID,
		YesterdayStock: deref(fields.YesterdayStock),
		Admin:          deref(fields.Admin),
		Chef:           deref(fields.Chef),
		Sales:          deref(fields.Sales),
		Zomato:         deref(fields.Zomato),
		BaselineDate:   fields.BaselineDate,
		BaselineAt:     fields.BaselineAt,
	}

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "product_id"}},
			DoUpdates: clause.AssignmentColumns(append(cols, "updated_at")),
		}).
		Create(&record).Error
	if err != nil {
		return nil, err
	}

	return r.Get(ctx, productID)
}

func deref(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
