package models

import (
	"time"

	"github.com/google/uuid"
)

// InventoryRecord holds one product's counters for the current business day
// and the baseline carried over from the previous day-close.
type InventoryRecord struct {
	ProductID      uuid.UUID  `gorm:"column:product_id;type:uuid;primaryKey"`
	YesterdayStock int        `gorm:"column:yesterday_stock;not null;default:0"`
	Admin          int        `gorm:"column:admin;not null;default:0"`
	Chef           int        `gorm:"column:chef;not null;default:0"`
	Sales          int        `gorm:"column:sales;not null;default:0"`
	Zomato         int        `gorm:"column:zomato;not null;default:0"`
	BaselineDate   *string    `gorm:"column:baseline_date"`
	BaselineAt     *time.Time `gorm:"column:baseline_at"`
	CreatedAt      time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
