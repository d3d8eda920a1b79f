package gemini

import (
	"fmt"

	"github.com/saadjs/nutri/internal/model"
)

const textEstimatePrompt = `Analyze the nutritional content of: %q

Calculate the TOTAL nutrition for the entire described meal or portion. Look up standard nutritional values for each ingredient, scale them to the stated quantities and sum them.

Return ONLY a valid JSON object with exactly these keys and numeric values:
{"name": "Brief descriptive name", "calories": 0, "protein": 0, "carbs": 0, "fat": 0, "servingSize": "description of total portion"}

Example for "100g chicken breast": {"name": "Chicken Breast", "calories": 165, "protein": 31, "carbs": 0, "fat": 3.6, "servingSize": "100g"}
Example for "1 apple": {"name": "Apple", "calories": 95, "protein": 0.5, "carbs": 25, "fat": 0.3, "servingSize": "1 medium apple"}`

const imageEstimatePrompt = `Analyze the food in this image and estimate its nutritional content. Include all keys: "name", "calories", "protein", "carbs", "fat" and "servingSize", with numeric values for the nutrition even if approximate. Return ONLY a single JSON object. For servingSize give a metric quantity (e.g. "100g") or a descriptive unit (e.g. "1 slice").`

const searchPrompt = `Find nutritional information for %q. Provide a list of common variations. Return ONLY a JSON array of up to 5 objects with keys "name", "calories", "protein", "carbs", "fat" and "servingSize". The serving size must be in metric units (e.g. "100g", "250ml"). If you can't find the food, return an empty array.`

const dayPlanPrompt = `Generate a one-day meal plan for Breakfast, Lunch, Dinner and Snack that totals approximately %.0f calories, %.0fg protein, %.0fg carbs and %.0fg fat. Use simple, common food items.

Return ONLY a valid JSON object with exactly these keys: "Breakfast", "Lunch", "Dinner", "Snack". Each key holds an array of food objects with keys "name", "calories", "protein", "carbs", "fat", "servingSize".`

const weekDayHint = `

This is day %d of a 7-day plan. Choose foods that differ from a typical day %d so the week has variety.`

const chatInstruction = `You are a friendly and helpful nutrition and fitness assistant. Provide concise and encouraging advice.`

func estimateSchema() map[string]any {
	return map[string]any{
		"type": "OBJECT",
		"properties": map[string]any{
			"name":        map[string]any{"type": "STRING"},
			"calories":    map[string]any{"type": "NUMBER"},
			"protein":     map[string]any{"type": "NUMBER"},
			"carbs":       map[string]any{"type": "NUMBER"},
			"fat":         map[string]any{"type": "NUMBER"},
			"servingSize": map[string]any{"type": "STRING"},
		},
		"required": []string{"name", "calories", "protein", "carbs", "fat", "servingSize"},
	}
}

func estimateListSchema() map[string]any {
	return map[string]any{
		"type":  "ARRAY",
		"items": estimateSchema(),
	}
}

func dayPlanSchema() map[string]any {
	props := map[string]any{}
	required := make([]string, 0, len(planMeals))
	for _, mt := range planMeals {
		props[string(mt)] = estimateListSchema()
		required = append(required, string(mt))
	}
	return map[string]any{
		"type":       "OBJECT",
		"properties": props,
		"required":   required,
	}
}

func dayPlanText(goals model.BaseGoals) string {
	return fmt.Sprintf(dayPlanPrompt, goals.Calories, goals.Protein, goals.Carbs, goals.Fat)
}
