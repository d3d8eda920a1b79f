package service

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/saadjs/nutri/internal/model"
)

const defaultServingUnit = "serving"

var servingSizePattern = regexp.MustCompile(`^(\d*\.?\d+)\s*(\w[\w\s]*)$`)

// ParseServingSize splits text like "100g" or "1.5 cup" into value and unit.
// Anything else yields (1, "serving").
func ParseServingSize(text string) (float64, string) {
	m := servingSizePattern.FindStringSubmatch(strings.TrimSpace(text))
	if m == nil {
		return 1, defaultServingUnit
	}
	value, err := strconv.ParseFloat(m[1], 64)
	if err != nil || value <= 0 {
		return 1, defaultServingUnit
	}
	return value, strings.TrimSpace(m[2])
}

// EntryFromEstimate turns an estimate into an entry draft without an id.
func EntryFromEstimate(est model.NutritionEstimate, mealType model.MealType, quantity float64) model.FoodEntry {
	if quantity <= 0 {
		quantity = 1
	}
	value, unit := ParseServingSize(est.ServingSize)
	name := strings.TrimSpace(est.Name)
	if name == "" {
		name = "Unknown Meal"
	}
	return model.FoodEntry{
		Name:         name,
		Calories:     est.Calories,
		Protein:      est.Protein,
		Carbs:        est.Carbs,
		Fat:          est.Fat,
		MealType:     mealType,
		Quantity:     quantity,
		ServingValue: value,
		ServingUnit:  unit,
	}
}

// InputFromEstimate is EntryFromEstimate shaped for AddFood and AddPlanned.
func InputFromEstimate(est model.NutritionEstimate, mealType model.MealType, quantity float64) EntryInput {
	e := EntryFromEstimate(est, mealType, quantity)
	return EntryInput{
		Name:         e.Name,
		Calories:     e.Calories,
		Protein:      e.Protein,
		Carbs:        e.Carbs,
		Fat:          e.Fat,
		MealType:     e.MealType,
		Quantity:     e.Quantity,
		ServingValue: e.ServingValue,
		ServingUnit:  e.ServingUnit,
	}
}
