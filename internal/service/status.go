package service

type GoalStatus string

const (
	StatusUnder    GoalStatus = "under"
	StatusOnTarget GoalStatus = "on_target"
	StatusOver     GoalStatus = "over"
	// StatusNeutral means there is no usable goal; render it like on-target.
	StatusNeutral GoalStatus = "neutral"
)

const (
	overRatio  = 1.10
	underRatio = 0.90
)

// Classify compares actual against goal with a 10% band either side.
func Classify(actual, goal float64) GoalStatus {
	if goal <= 0 {
		return StatusNeutral
	}
	ratio := actual / goal
	switch {
	case ratio > overRatio:
		return StatusOver
	case ratio < underRatio:
		return StatusUnder
	default:
		return StatusOnTarget
	}
}

// Percent returns actual/goal*100 capped at limit, or 0 without a goal.
func Percent(actual, goal, limit float64) float64 {
	if goal <= 0 {
		return 0
	}
	p := actual / goal * 100
	if p > limit {
		return limit
	}
	return p
}
