package enum

// LoyaltyTier is a customer loyalty level
type LoyaltyTier string

const (
	TierBronze   LoyaltyTier = "bronze"
	TierSilver   LoyaltyTier = "silver"
	TierGold     LoyaltyTier = "gold"
	TierPlatinum LoyaltyTier = "platinum"
)

// tier thresholds and benefits, lowest first
var tierTable = []struct {
	Tier             LoyaltyTier
	MinimumPoints    int
	DiscountPercent  int
	PointsMultiplier float64
}{
	{TierBronze, 0, 0, 1},
	{TierSilver, 100, 5, 1.2},
	{TierGold, 500, 10, 1.5},
	{TierPlatinum, 1000, 15, 2},
}

// TierForPoints returns the highest tier whose threshold the point
// balance reaches.
func TierForPoints(points int) LoyaltyTier {
	tier := TierBronze
	for _, row := range tierTable {
		if points >= row.MinimumPoints {
			tier = row.Tier
		}
	}
	return tier
}

// DiscountPercent returns the discount percentage granted to the tier.
func (t LoyaltyTier) DiscountPercent() int {
	for _, row := range tierTable {
		if row.Tier == t {
			return row.DiscountPercent
		}
	}
	return 0
}

// PointsMultiplier returns the earning multiplier for the tier.
func (t LoyaltyTier) PointsMultiplier() float64 {
	for _, row := range tierTable {
		if row.Tier == t {
			return row.PointsMultiplier
		}
	}
	return 1
}
