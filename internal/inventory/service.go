package inventory

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pratm1304/FouShack/pkg/db/models"
	"github.com/pratm1304/FouShack/pkg/enums"
	pkgerrors "github.com/pratm1304/FouShack/pkg/errors"
	"github.com/pratm1304/FouShack/pkg/lock"
	"github.com/pratm1304/FouShack/pkg/logger"
	"github.com/pratm1304/FouShack/pkg/metrics"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
	"gorm.io/gorm"
)

// DateLayout renders business dates, e.g. "19 Oct 2026".
const DateLayout = "02 Jan 2006"

// MaxCount bounds every counter and baseline to the storage column width.
const MaxCount = math.MaxInt32

const endDayLockName = "inventory:end_day"

// Service is the request-facing contract of the daily stock cycle.
type Service interface {
	GetToday(ctx context.Context) ([]RecordDTO, error)
	GetYesterday(ctx context.Context) (*YesterdayDTO, error)
	SaveCounters(ctx context.Context, batch Batch[CounterUpdate]) (BatchResult, error)
	EndDay(ctx context.Context, batch Batch[FinalStock]) (BatchResult, error)
	Summary(ctx context.Context) (*DaySummaryDTO, error)
}

// Store is the persistence surface used by the gateway.
type Store interface {
	GetAll(ctx context.Context) ([]models.InventoryRecord, error)
	Get(ctx context.Context, productID uuid.UUID) (*models.InventoryRecord, error)
	Upsert(ctx context.Context, productID uuid.UUID, fields Fields) (*models.InventoryRecord, error)
}

// Catalog resolves products referenced by inventory.
type Catalog interface {
	Snapshot(ctx context.Context) ([]models.Product, error)
	PriceIndex(ctx context.Context) (map[uuid.UUID]decimal.Decimal, error)
	ProductsByID(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Product, error)
}

// PrivilegeCheck reports whether the caller on ctx may write admin-only fields.
type PrivilegeCheck func(ctx context.Context) bool

// ServiceParams configure the inventory service.
type ServiceParams struct {
	Store        Store
	Catalog      Catalog
	Locker       lock.Locker
	IsPrivileged PrivilegeCheck
	Logger       *logger.Logger
	Metrics      *metrics.InventoryMetrics
	Location     *time.Location
	Now          func() time.Time
}

type service struct {
	store        Store
	catalog      Catalog
	locker       lock.Locker
	isPrivileged PrivilegeCheck
	logg         *logger.Logger
	metrics      *metrics.InventoryMetrics
	loc          *time.Location
	now          func() time.Time
}

// NewService builds the inventory gateway.
func NewService(params ServiceParams) (Service, error) {
	if params.Store == nil {
		return nil, fmt.Errorf("inventory store required")
	}
	if params.Catalog == nil {
		return nil, fmt.Errorf("product catalog required")
	}
	if params.Locker == nil {
		return nil, fmt.Errorf("locker required")
	}
	if params.IsPrivileged == nil {
		return nil, fmt.Errorf("privilege check required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	loc := params.Location
	if loc == nil {
		loc = time.UTC
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		store:        params.Store,
		catalog:      params.Catalog,
		locker:       params.Locker,
		isPrivileged: params.IsPrivileged,
		logg:         params.Logger,
		metrics:      params.Metrics,
		loc:          loc,
		now:          now,
	}, nil
}

// GetToday returns every stored record plus a zero record for each catalog
// product that has not been counted yet.
func (s *service) GetToday(ctx context.Context) ([]RecordDTO, error) {
	records, err := s.store.GetAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list inventory")
	}
	products, err := s.catalog.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	joined := WithCatalogDefaults(products, records)
	out := make([]RecordDTO, 0, len(joined))
	for _, r := range joined {
		out = append(out, NewRecordDTO(r))
	}
	return out, nil
}

// GetYesterday returns the opening baseline of every catalog product and every
// stored record, labelled with the most recent end-day date.
func (s *service) GetYesterday(ctx context.Context) (*YesterdayDTO, error) {
	records, err := s.store.GetAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list inventory")
	}
	products, err := s.catalog.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	joined := WithCatalogDefaults(products, records)

	date := s.today()
	var latest time.Time
	out := &YesterdayDTO{Inventory: make([]BaselineDTO, 0, len(joined))}
	for _, r := range joined {
		out.Inventory = append(out.Inventory, BaselineDTO{ProductID: r.ProductID, YesterdayStock: r.YesterdayStock})
		if r.BaselineAt != nil && r.BaselineDate != nil && r.BaselineAt.After(latest) {
			latest = *r.BaselineAt
			date = *r.BaselineDate
		}
	}
	out.Date = date
	return out, nil
}

func (s *service) SaveCounters(ctx context.Context, batch Batch[CounterUpdate]) (BatchResult, error) {
	start := s.now()
	privileged := s.isPrivileged(ctx)

	items, accepted := precheck(batch.Invalid, batch.Entries, validateCounters)
	known, err := s.catalog.ProductsByID(ctx, keysOf(accepted))
	if err != nil {
		return BatchResult{}, err
	}

	for key, productID := range accepted {
		update := batch.Entries[key]
		if _, exists := known[productID]; !exists {
			items = append(items, failedItem(productID.String(), pkgerrors.New(pkgerrors.CodeNotFound, "product not found")))
			continue
		}

		fields := Fields{
			Chef:           intOrZero(update.Chef),
			Sales:          intOrZero(update.Sales),
			Zomato:         intOrZero(update.Zomato),
			YesterdayStock: update.YesterdayStock,
		}
		var rejected []FieldRejection
		if privileged {
			fields.Admin = intOrZero(update.Admin)
		} else if update.Admin != nil {
			forbidden := pkgerrors.New(pkgerrors.CodeForbidden, "admin counter requires an admin caller")
			if update.Chef == nil && update.Sales == nil && update.Zomato == nil && update.YesterdayStock == nil {
				items = append(items, failedItem(productID.String(), forbidden))
				continue
			}
			rejected = append(rejected, FieldRejection{Field: "admin", ItemError: *itemError(forbidden)})
		}

		record, err := s.store.Upsert(ctx, productID, fields)
		if err != nil {
			items = append(items, failedItem(productID.String(), pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: upsert inventory")))
			continue
		}
		dto := NewRecordDTO(*record)
		items = append(items, ItemResult{
			ProductID: productID.String(),
			Outcome:   enums.InventoryOutcomeApplied,
			Record:    &dto,
			Rejected:  rejected,
		})
	}

	result := newBatchResult(items)
	s.finish(ctx, "save", start, result)
	return result, nil
}

func (s *service) EndDay(ctx context.Context, batch Batch[FinalStock]) (BatchResult, error) {
	if !s.isPrivileged(ctx) {
		return BatchResult{}, pkgerrors.New(pkgerrors.CodeForbidden, "end day requires an admin caller")
	}

	lease, ok, err := s.locker.Acquire(ctx, endDayLockName)
	if err != nil {
		return BatchResult{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "acquire end-day lock")
	}
	if !ok {
		return BatchResult{}, pkgerrors.New(pkgerrors.CodeStateConflict, "end day is already running")
	}
	defer func() {
		if err := lease.Release(context.WithoutCancel(ctx)); err != nil {
			s.logg.Warn(ctx, "inventory.end_day.unlock_failed")
		}
	}()

	start := s.now()
	stampAt := start.UTC()
	stampDate := start.In(s.loc).Format(DateLayout)

	items, accepted := precheck(batch.Invalid, batch.Entries, func(f FinalStock) error {
		if f.YesterdayStock == nil {
			return nil
		}
		if *f.YesterdayStock < 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "yesterdayStock must be non-negative")
		}
		if *f.YesterdayStock > MaxCount {
			return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("yesterdayStock must be at most %d", MaxCount))
		}
		return nil
	})
	known, err := s.catalog.ProductsByID(ctx, keysOf(accepted))
	if err != nil {
		return BatchResult{}, err
	}

	zero := 0
	for key, productID := range accepted {
		final := batch.Entries[key]
		if _, exists := known[productID]; !exists {
			items = append(items, failedItem(productID.String(), pkgerrors.New(pkgerrors.CodeNotFound, "product not found")))
			continue
		}

		baseline, err := s.finalStock(ctx, productID, final)
		if err != nil {
			items = append(items, failedItem(productID.String(), err))
			continue
		}

		record, err := s.store.Upsert(ctx, productID, Fields{
			YesterdayStock: &baseline,
			Admin:          &zero,
			Chef:           &zero,
			Sales:          &zero,
			Zomato:         &zero,
			BaselineDate:   &stampDate,
			BaselineAt:     &stampAt,
		})
		if err != nil {
			items = append(items, failedItem(productID.String(), pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: roll inventory forward")))
			continue
		}
		dto := NewRecordDTO(*record)
		items = append(items, ItemResult{ProductID: productID.String(), Outcome: enums.InventoryOutcomeApplied, Record: &dto})
	}

	result := newBatchResult(items)
	s.finish(s.logg.WithBusinessDate(ctx, stampDate), "end_day", start, result)
	return result, nil
}

func (s *service) Summary(ctx context.Context) (*DaySummaryDTO, error) {
	records, err := s.store.GetAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list inventory")
	}
	products, err := s.catalog.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	prices, err := s.catalog.PriceIndex(ctx)
	if err != nil {
		return nil, err
	}

	summary := Summarize(products, records, PricesFromMap(prices))
	s.metrics.SetOversold(len(summary.Warnings))
	if len(summary.Warnings) > 0 {
		ids := make([]string, 0, len(summary.Warnings))
		for _, w := range summary.Warnings {
			ids = append(ids, fmt.Sprintf("%s(%d)", w.ProductID, w.Remaining))
		}
		s.logg.Warn(s.logg.WithFields(ctx, map[string]any{
			"oversold_count":    len(summary.Warnings),
			"oversold_products": strings.Join(ids, ","),
		}), "inventory.negative_stock")
	}
	return &DaySummaryDTO{Date: s.today(), Summary: summary}, nil
}

// precheck validates keys and payloads before any write. It returns failed
// items for rejected keys and the parsed product id of every accepted key.
// Keys naming the same product in different spellings are all rejected; every
// other item is reported under the canonical id.
func precheck[T any](invalid map[string]error, entries map[string]T, validate func(T) error) ([]ItemResult, map[string]uuid.UUID) {
	items := make([]ItemResult, 0, len(invalid)+len(entries))
	for key, err := range invalid {
		items = append(items, failedItem(key, err))
	}

	parsed := make(map[string]uuid.UUID, len(entries))
	spellings := make(map[uuid.UUID]int, len(entries))
	for key := range entries {
		id, err := uuid.Parse(strings.TrimSpace(key))
		if err != nil {
			items = append(items, failedItem(key, pkgerrors.New(pkgerrors.CodeValidation, "product id must be a UUID")))
			continue
		}
		parsed[key] = id
		spellings[id]++
	}
	for key := range invalid {
		if id, err := uuid.Parse(strings.TrimSpace(key)); err == nil {
			spellings[id]++
		}
	}

	accepted := make(map[string]uuid.UUID, len(parsed))
	for key, id := range parsed {
		if spellings[id] > 1 {
			items = append(items, failedItem(key, pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("product %s appears more than once in the batch", id))))
			continue
		}
		if err := validate(entries[key]); err != nil {
			items = append(items, failedItem(id.String(), err))
			continue
		}
		accepted[key] = id
	}
	return items, accepted
}

func keysOf(accepted map[string]uuid.UUID) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(accepted))
	for _, id := range accepted {
		ids = append(ids, id)
	}
	return ids
}

func (s *service) finalStock(ctx context.Context, productID uuid.UUID, final FinalStock) (int, error) {
	if final.YesterdayStock != nil {
		return *final.YesterdayStock, nil
	}
	record, err := s.store.Get(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load inventory")
	}
	remaining := RemainingStock(*record)
	if remaining < 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("remaining stock is negative (%d); supply yesterdayStock explicitly", remaining))
	}
	if remaining > MaxCount {
		return 0, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("remaining stock %d exceeds %d; supply yesterdayStock explicitly", remaining, MaxCount))
	}
	return remaining, nil
}

func (s *service) finish(ctx context.Context, op string, start time.Time, result BatchResult) {
	s.metrics.ObserveBatch(op, s.now().Sub(start), result.Applied, result.Failed)

	ctx = s.logg.WithFields(ctx, map[string]any{
		"applied": result.Applied,
		"failed":  result.Failed,
		"summary": result.Summary,
	})
	if err := multierr.Combine(result.Causes()...); err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), fmt.Sprintf("inventory.%s.partial", op))
		return
	}
	s.logg.Info(ctx, fmt.Sprintf("inventory.%s.completed", op))
}

func (s *service) today() string {
	return s.now().In(s.loc).Format(DateLayout)
}

func validateCounters(u CounterUpdate) error {
	details := map[string]string{}
	for _, field := range []struct {
		name  string
		value *int
	}{
		{"admin", u.Admin},
		{"chef", u.Chef},
		{"sales", u.Sales},
		{"zomato", u.Zomato},
		{"yesterdayStock", u.YesterdayStock},
	} {
		switch {
		case field.value == nil:
		case *field.value < 0:
			details[field.name] = "must be non-negative"
		case *field.value > MaxCount:
			details[field.name] = fmt.Sprintf("must be at most %d", MaxCount)
		}
	}
	if len(details) == 0 {
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("counters must be between 0 and %d", MaxCount)).WithDetails(details)
}

func intOrZero(v *int) *int {
	if v == nil {
		zero := 0
		return &zero
	}
	out := *v
	return &out
}
