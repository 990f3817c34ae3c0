package inventory

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/pratm1304/FouShack/api/responses"
	"github.com/pratm1304/FouShack/api/validators"
	inventorysvc "github.com/pratm1304/FouShack/internal/inventory"
	pkgerrors "github.com/pratm1304/FouShack/pkg/errors"
	"github.com/pratm1304/FouShack/pkg/logger"
)

// batchRequest is the bulk body shared by save and end-day:
// {"inventory": {"<productId>": {...}}}.
type batchRequest struct {
	Inventory map[string]json.RawMessage `json:"inventory" validate:"required,min=1"`
}

// Today lists the current counters for every product.
func Today(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		records, err := svc.GetToday(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, records)
	}
}

// Yesterday returns the baseline carried over by the last end-day.
func Yesterday(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		baseline, err := svc.GetYesterday(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, baseline)
	}
}

func Summary(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		summary, err := svc.Summary(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, summary)
	}
}

// Save applies staff counter updates product by product.
func Save(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		var body batchRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.SaveCounters(r.Context(), inventorysvc.DecodeBatch[inventorysvc.CounterUpdate](body.Inventory))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		writeBatchResult(r.Context(), logg, w, result)
	}
}

// EndDay closes the business day with the supplied final stock figures.
func EndDay(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		var body batchRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.EndDay(r.Context(), inventorysvc.DecodeBatch[inventorysvc.FinalStock](body.Inventory))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		writeBatchResult(r.Context(), logg, w, result)
	}
}

// writeBatchResult maps a batch outcome onto 200, 207 Multi-Status or 422.
func writeBatchResult(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, result inventorysvc.BatchResult) {
	switch {
	case result.Failed == 0:
		responses.WriteSuccess(w, result)
	case result.Applied > 0:
		responses.WriteSuccessStatus(w, http.StatusMultiStatus, result)
	default:
		responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeStateConflict, result.Summary).WithDetails(result))
	}
}
