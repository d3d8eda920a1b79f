package service

import (
	"math"
	"time"

	"github.com/saadjs/nutri/internal/model"
)

type RebalanceInput struct {
	// Previous is the adjustment mapping from the last computation.
	Previous model.GoalAdjustments
	Logged   model.Ledger
	BaseGoal float64
	Enabled  bool
	Now      time.Time
}

// Rebalance derives the weekly calorie adjustments from scratch.
//
// Weeks run Sunday (0) through Saturday (6). The cumulative surplus of the days
// elapsed so far, today included, is split evenly across the days left after
// today: each of them gets max(0, base - surplus/daysRemaining). A day's planned
// goal is its previous adjustment when one exists, otherwise the base goal.
// Today's adjustment is carried over untouched and earlier days are dropped.
// Every remaining day receives the same value; there is no weighting.
func Rebalance(in RebalanceInput) model.GoalAdjustments {
	out := model.GoalAdjustments{}
	if !in.Enabled {
		return out
	}

	todayIndex := int(in.Now.Weekday())
	weekStart := StartOfWeek(in.Now)
	todayKey := DateKey(beginningOfDay(in.Now))
	weekEndKey := DateKey(weekStart.AddDate(0, 0, 6))

	var consumed, planned float64
	for i := 0; i <= todayIndex; i++ {
		key := DateKey(weekStart.AddDate(0, 0, i))
		consumed += DailyTotals(in.Logged, key).Calories
		if adj, ok := in.Previous[key]; ok {
			planned += adj
		} else {
			planned += in.BaseGoal
		}
	}

	// Only today and the rest of this week survive.
	for key, v := range in.Previous {
		if key >= todayKey && key <= weekEndKey {
			out[key] = v
		}
	}

	surplus := consumed - planned
	daysRemaining := 6 - todayIndex
	if daysRemaining > 0 {
		adjusted := math.Max(0, in.BaseGoal-surplus/float64(daysRemaining))
		for j := todayIndex + 1; j <= 6; j++ {
			out[DateKey(weekStart.AddDate(0, 0, j))] = adjusted
		}
	}
	return out
}

// AdjustedGoal is the calorie goal displayed for dateKey.
func AdjustedGoal(adjustments model.GoalAdjustments, dateKey string, baseGoal float64, enabled bool) float64 {
	if !enabled {
		return baseGoal
	}
	if v, ok := adjustments[dateKey]; ok {
		return v
	}
	return baseGoal
}
