package service

import "github.com/saadjs/nutri/internal/model"

// BuildDailySummary assembles the shareable view of one day. calorieGoal is the
// goal displayed for that day, adjusted or not.
func BuildDailySummary(dateKey string, entries []model.FoodEntry, goals model.BaseGoals, calorieGoal, water float64) model.DailySummary {
	items := make([]model.FoodEntry, len(entries))
	copy(items, entries)
	return model.DailySummary{
		Date:      dateKey,
		FoodItems: items,
		Totals:    Totals(entries),
		Goals: model.SummaryGoals{
			Calories: calorieGoal,
			Protein:  goals.Protein,
			Carbs:    goals.Carbs,
			Fat:      goals.Fat,
			Water:    goals.Water,
		},
		WaterIntake: water,
	}
}
