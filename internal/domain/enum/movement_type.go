package enum

// MovementType classifies a stock movement
type MovementType string

const (
	MovementSale       MovementType = "sale"
	MovementReturn     MovementType = "return"
	MovementAdjustment MovementType = "adjustment"
	MovementReception  MovementType = "reception"
	MovementLoss       MovementType = "loss"
	MovementInventory  MovementType = "inventory"
)

// Valid reports whether the value is a known movement type
func (t MovementType) Valid() bool {
	switch t {
	case MovementSale, MovementReturn, MovementAdjustment,
		MovementReception, MovementLoss, MovementInventory:
		return true
	}
	return false
}
