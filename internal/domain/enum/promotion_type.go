package enum

// PromotionType identifies how a product promotion is priced
type PromotionType string

const (
	PromotionPercentage PromotionType = "percentage"
	PromotionFixed      PromotionType = "fixed"
	PromotionBuyXGetY   PromotionType = "buyXgetY"
)

// Valid reports whether the value is a known promotion type
func (t PromotionType) Valid() bool {
	switch t {
	case PromotionPercentage, PromotionFixed, PromotionBuyXGetY:
		return true
	}
	return false
}
