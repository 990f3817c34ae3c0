package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/pratm1304/FouShack/pkg/db/models"
)

// RecordDTO is the wire shape of an inventory record.
type RecordDTO struct {
	ProductID      uuid.UUID `json:"productId"`
	YesterdayStock int       `json:"yesterdayStock"`
	Admin          int       `json:"admin"`
	Chef           int       `json:"chef"`
	Sales          int       `json:"sales"`
	Zomato         int       `json:"zomato"`
	Remaining      int       `json:"remaining"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// NewRecordDTO maps a stored record, deriving its remaining stock.
func NewRecordDTO(r models.InventoryRecord) RecordDTO {
	return RecordDTO{
		ProductID:      r.ProductID,
		YesterdayStock: r.YesterdayStock,
		Admin:          r.Admin,
		Chef:           r.Chef,
		Sales:          r.Sales,
		Zomato:         r.Zomato,
		Remaining:      RemainingStock(r),
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}

// BaselineDTO is one product's frozen opening stock.
type BaselineDTO struct {
	ProductID      uuid.UUID `json:"productId"`
	YesterdayStock int       `json:"yesterdayStock"`
}

// YesterdayDTO tags the baselines with the business date they were captured.
type YesterdayDTO struct {
	Date      string        `json:"date"`
	Inventory []BaselineDTO `json:"inventory"`
}

// DaySummaryDTO is the dashboard payload.
type DaySummaryDTO struct {
	Date string `json:"date"`
	Summary
}
