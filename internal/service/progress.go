package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/saadjs/nutri/internal/model"
)

type ProgressView string

const (
	ViewCalories ProgressView = "calories"
	ViewProtein  ProgressView = "protein"
	ViewCarbs    ProgressView = "carbs"
	ViewFat      ProgressView = "fat"
)

const (
	progressDays       = 7
	progressPercentCap = 150
)

func ParseProgressView(value string) (ProgressView, error) {
	switch v := ProgressView(strings.ToLower(strings.TrimSpace(value))); v {
	case "":
		return ViewCalories, nil
	case ViewCalories, ViewProtein, ViewCarbs, ViewFat:
		return v, nil
	default:
		return "", invalid("view", fmt.Sprintf("must be one of calories, protein, carbs, fat (got %q)", value))
	}
}

type ProgressPoint struct {
	Date    string     `json:"date"`
	Label   string     `json:"label"`
	Intake  float64    `json:"intake"`
	Goal    float64    `json:"goal"`
	Percent float64    `json:"percent"`
	Status  GoalStatus `json:"status"`
}

// Progress returns the seven days ending on now's day, oldest first. The
// calorie goal of a day is its adjustment when one exists; macro goals are the
// base goals.
func Progress(logged model.Ledger, goals model.BaseGoals, adjustments model.GoalAdjustments, view ProgressView, now time.Time) []ProgressPoint {
	today := beginningOfDay(now)
	points := make([]ProgressPoint, 0, progressDays)
	for i := progressDays - 1; i >= 0; i-- {
		day := today.AddDate(0, 0, -i)
		key := DateKey(day)
		totals := DailyTotals(logged, key)

		var intake, goal float64
		switch view {
		case ViewProtein:
			intake, goal = totals.Protein, goals.Protein
		case ViewCarbs:
			intake, goal = totals.Carbs, goals.Carbs
		case ViewFat:
			intake, goal = totals.Fat, goals.Fat
		default:
			intake, goal = totals.Calories, goals.Calories
			if adj, ok := adjustments[key]; ok {
				goal = adj
			}
		}
		points = append(points, ProgressPoint{
			Date:    key,
			Label:   day.Format("Mon"),
			Intake:  intake,
			Goal:    goal,
			Percent: Percent(intake, goal, progressPercentCap),
			Status:  Classify(intake, goal),
		})
	}
	return points
}
