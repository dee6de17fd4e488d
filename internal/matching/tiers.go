package matching

// Tier buckets a match distance into a confidence band shared by store and
// product resolution.
type Tier string

const (
	TierExcellent Tier = "excellent"
	TierGood      Tier = "good"
	TierFair      Tier = "fair"
	TierPoor      Tier = "poor"
	TierLow       Tier = "low"
)

// Threshold is the largest distance still treated as a match.
const Threshold = 0.4

// FallbackScore is the fixed distance given to keyword-containment matches.
const FallbackScore = 0.5

// Classify maps a distance in [0,1] (0 is perfect) to its tier.
func Classify(score float64) Tier {
	switch {
	case score <= 0.1:
		return TierExcellent
	case score <= 0.2:
		return TierGood
	case score <= 0.3:
		return TierFair
	case score <= Threshold:
		return TierPoor
	default:
		return TierLow
	}
}

// Accepted reports whether the tier counts as a match for awarding points.
func (t Tier) Accepted() bool {
	return t != TierLow && t != ""
}

// AutoAccept reports whether the tier needs no manual review.
func (t Tier) AutoAccept() bool {
	return t == TierExcellent || t == TierGood
}
