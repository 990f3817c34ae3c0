package inventory

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/pratm1304/FouShack/pkg/enums"
	pkgerrors "github.com/pratm1304/FouShack/pkg/errors"
)

// CounterUpdate is the per-product payload of a save. Omitted counters are
// written as zero; YesterdayStock is written only when supplied.
type CounterUpdate struct {
	Admin          *int `json:"admin,omitempty"`
	Chef           *int `json:"chef,omitempty"`
	Sales          *int `json:"sales,omitempty"`
	Zomato         *int `json:"zomato,omitempty"`
	YesterdayStock *int `json:"yesterdayStock,omitempty"`
}

// FinalStock is the per-product payload of end-day. A nil YesterdayStock asks
// the gateway to compute the figure from the stored counters.
type FinalStock struct {
	YesterdayStock *int `json:"yesterdayStock"`
}

// Batch carries the decoded entries of a bulk request keyed by the raw product
// id, plus the entries that could not be decoded.
type Batch[T any] struct {
	Entries map[string]T
	Invalid map[string]error
}

// NewBatch wraps already-decoded entries.
func NewBatch[T any](entries map[string]T) Batch[T] {
	return Batch[T]{Entries: entries, Invalid: map[string]error{}}
}

// Len counts every key in the batch, decodable or not.
func (b Batch[T]) Len() int {
	return len(b.Entries) + len(b.Invalid)
}

// DecodeBatch decodes each entry independently so one malformed product does
// not reject the rest of the request.
func DecodeBatch[T any](raw map[string]json.RawMessage) Batch[T] {
	batch := Batch[T]{
		Entries: make(map[string]T, len(raw)),
		Invalid: map[string]error{},
	}
	for key, msg := range raw {
		var entry T
		decoder := json.NewDecoder(bytes.NewReader(msg))
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&entry); err != nil {
			batch.Invalid[key] = pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid counters")
			continue
		}
		batch.Entries[key] = entry
	}
	return batch
}

// ItemError describes why a product entry or one of its fields was rejected.
type ItemError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// FieldRejection reports a single field skipped while the rest of the entry applied.
type FieldRejection struct {
	Field string `json:"field"`
	ItemError
}

// ItemResult is the outcome for one product of a bulk write.
type ItemResult struct {
	ProductID string                 `json:"productId"`
	Outcome   enums.InventoryOutcome `json:"outcome"`
	Record    *RecordDTO             `json:"record,omitempty"`
	Error     *ItemError             `json:"error,omitempty"`
	Rejected  []FieldRejection       `json:"rejectedFields,omitempty"`

	cause error
}

// BatchResult aggregates per-product outcomes of saveCounters or endDay.
type BatchResult struct {
	Items   []ItemResult `json:"items"`
	Applied int          `json:"applied"`
	Failed  int          `json:"failed"`
	Summary string       `json:"summary"`
}

func itemError(err error) *ItemError {
	return &ItemError{
		Code:    string(pkgerrors.CodeOf(err)),
		Message: pkgerrors.PublicMessage(err),
	}
}

func failedItem(key string, err error) ItemResult {
	return ItemResult{
		ProductID: key,
		Outcome:   enums.InventoryOutcomeFailed,
		Error:     itemError(err),
		cause:     err,
	}
}

func newBatchResult(items []ItemResult) BatchResult {
	sort.Slice(items, func(i, j int) bool { return items[i].ProductID < items[j].ProductID })
	result := BatchResult{Items: items}

	var notes []string
	for _, item := range items {
		if item.Outcome == enums.InventoryOutcomeApplied {
			result.Applied++
		} else {
			result.Failed++
			notes = append(notes, fmt.Sprintf("product %s failed: %s", item.ProductID, item.Error.Message))
		}
		for _, rejected := range item.Rejected {
			notes = append(notes, fmt.Sprintf("product %s %s rejected: %s", item.ProductID, rejected.Field, rejected.Message))
		}
	}

	parts := append([]string{fmt.Sprintf("%d of %d products updated", result.Applied, len(items))}, notes...)
	result.Summary = strings.Join(parts, "; ")
	if result.Items == nil {
		result.Items = []ItemResult{}
	}
	return result
}

// Causes returns the underlying errors of failed items, for logging.
func (r BatchResult) Causes() []error {
	var out []error
	for _, item := range r.Items {
		if item.cause != nil {
			out = append(out, item.cause)
		}
	}
	return out
}
