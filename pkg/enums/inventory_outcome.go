package enums

// InventoryOutcome is the per-product result of a bulk inventory write.
type InventoryOutcome string

const (
	InventoryOutcomeApplied InventoryOutcome = "applied"
	InventoryOutcomeFailed  InventoryOutcome = "failed"
)

// String implements fmt.Stringer.
func (o InventoryOutcome) String() string {
	return string(o)
}
