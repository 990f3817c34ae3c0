package inventory

import (
	"sort"

	"github.com/google/uuid"
	"github.com/pratm1304/FouShack/pkg/db/models"
	"github.com/shopspring/decimal"
)

// PriceLookup resolves a product price; ok is false when the product is not in the catalog.
type PriceLookup func(productID uuid.UUID) (price decimal.Decimal, ok bool)

// PricesFromMap adapts a price index to a PriceLookup.
func PricesFromMap(prices map[uuid.UUID]decimal.Decimal) PriceLookup {
	return func(productID uuid.UUID) (decimal.Decimal, bool) {
		price, ok := prices[productID]
		return price, ok
	}
}

// RemainingStock is yesterday + chef - sales - zomato. The admin counter is not
// part of the formula and the result may be negative.
func RemainingStock(r models.InventoryRecord) int {
	return r.YesterdayStock + r.Chef - r.Sales - r.Zomato
}

// UnitsSold counts counter and delivery-platform sales.
func UnitsSold(r models.InventoryRecord) int {
	return r.Sales + r.Zomato
}

// Revenue is the record's sold units priced through lookup, zero for unknown products.
func Revenue(r models.InventoryRecord, lookup PriceLookup) decimal.Decimal {
	if lookup == nil {
		return decimal.Zero
	}
	price, ok := lookup(r.ProductID)
	if !ok {
		return decimal.Zero
	}
	return price.Mul(decimal.NewFromInt(int64(UnitsSold(r))))
}

// DailyRevenue sums Revenue over records.
func DailyRevenue(records []models.InventoryRecord, lookup PriceLookup) decimal.Decimal {
	total := decimal.Zero
	for _, r := range records {
		total = total.Add(Revenue(r, lookup))
	}
	return total
}

// GrandTotal sums RemainingStock over records.
func GrandTotal(records []models.InventoryRecord) int {
	total := 0
	for _, r := range records {
		total += RemainingStock(r)
	}
	return total
}

// NegativeStockWarning reports a product that sold more than it had.
type NegativeStockWarning struct {
	ProductID uuid.UUID `json:"productId"`
	Remaining int       `json:"remaining"`
	Deficit   int       `json:"deficit"`
}

// Oversold returns a warning for every record with negative remaining stock.
func Oversold(records []models.InventoryRecord) []NegativeStockWarning {
	var warnings []NegativeStockWarning
	for _, r := range records {
		if remaining := RemainingStock(r); remaining < 0 {
			warnings = append(warnings, NegativeStockWarning{
				ProductID: r.ProductID,
				Remaining: remaining,
				Deficit:   -remaining,
			})
		}
	}
	return warnings
}

// SummaryRow is one product line of the daily dashboard.
type SummaryRow struct {
	ProductID      uuid.UUID       `json:"productId"`
	Title          string          `json:"title"`
	Price          decimal.Decimal `json:"price"`
	InCatalog      bool            `json:"inCatalog"`
	YesterdayStock int             `json:"yesterdayStock"`
	Admin          int             `json:"admin"`
	Chef           int             `json:"chef"`
	Sales          int             `json:"sales"`
	Zomato         int             `json:"zomato"`
	Remaining      int             `json:"remaining"`
	Revenue        decimal.Decimal `json:"revenue"`
}

// Summary aggregates the day across the whole catalog.
type Summary struct {
	Rows         []SummaryRow           `json:"rows"`
	GrandTotal   int                    `json:"grandTotal"`
	TotalRevenue decimal.Decimal        `json:"totalRevenue"`
	UnitsSold    int                    `json:"unitsSold"`
	Warnings     []NegativeStockWarning `json:"warnings"`
}

// Summarize joins the catalog with the stored records and prices them through
// lookup. Catalog products without a record appear with zero counters; records
// whose product left the catalog are kept with a zero price.
func Summarize(products []models.Product, records []models.InventoryRecord, lookup PriceLookup) Summary {
	joined := WithCatalogDefaults(products, records)

	titles := make(map[uuid.UUID]string, len(products))
	for _, p := range products {
		titles[p.ID] = p.Title
	}

	summary := Summary{
		Rows:         make([]SummaryRow, 0, len(joined)),
		GrandTotal:   GrandTotal(joined),
		TotalRevenue: DailyRevenue(joined, lookup).Round(2),
		Warnings:     Oversold(joined),
	}
	if summary.Warnings == nil {
		summary.Warnings = []NegativeStockWarning{}
	}
	for _, r := range joined {
		_, inCatalog := titles[r.ProductID]
		var price decimal.Decimal
		if lookup != nil {
			price, _ = lookup(r.ProductID)
		}
		summary.UnitsSold += UnitsSold(r)
		summary.Rows = append(summary.Rows, SummaryRow{
			ProductID:      r.ProductID,
			Title:          titles[r.ProductID],
			Price:          price,
			InCatalog:      inCatalog,
			YesterdayStock: r.YesterdayStock,
			Admin:          r.Admin,
			Chef:           r.Chef,
			Sales:          r.Sales,
			Zomato:         r.Zomato,
			Remaining:      RemainingStock(r),
			Revenue:        Revenue(r, lookup).Round(2),
		})
	}
	return summary
}

// WithCatalogDefaults returns records extended with a zero record for every
// catalog product that has none yet, ordered by product id.
func WithCatalogDefaults(products []models.Product, records []models.InventoryRecord) []models.InventoryRecord {
	seen := make(map[uuid.UUID]struct{}, len(records))
	out := make([]models.InventoryRecord, 0, len(records)+len(products))
	for _, r := range records {
		seen[r.ProductID] = struct{}{}
		out = append(out, r)
	}
	for _, p := range products {
		if _, ok := seen[p.ID]; ok {
			continue
		}
		seen[p.ID] = struct{}{}
		out = append(out, models.InventoryRecord{ProductID: p.ID})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ProductID.String() < out[j].ProductID.String()
	})
	return out
}
