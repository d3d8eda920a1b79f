package model

type MealType string

const (
	MealBreakfast MealType = "Breakfast"
	MealLunch     MealType = "Lunch"
	MealDinner    MealType = "Dinner"
	MealSnack     MealType = "Snack"
	MealDrinks    MealType = "Drinks"
)

// MealTypes lists meal types in display order.
var MealTypes = []MealType{MealBreakfast, MealLunch, MealDinner, MealSnack, MealDrinks}

func (m MealType) Valid() bool {
	for _, t := range MealTypes {
		if t == m {
			return true
		}
	}
	return false
}

type LedgerKind string

const (
	LedgerLogged LedgerKind = "logged"
	LedgerPlan   LedgerKind = "plan"
)

// FoodEntry holds nutrition for a single serving. Totals scale by Quantity.
type FoodEntry struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Calories     float64  `json:"calories"`
	Protein      float64  `json:"protein"`
	Carbs        float64  `json:"carbs"`
	Fat          float64  `json:"fat"`
	MealType     MealType `json:"mealType"`
	Quantity     float64  `json:"quantity"`
	ServingValue float64  `json:"servingValue"`
	ServingUnit  string   `json:"servingUnit"`
}

// Ledger maps a YYYY-MM-DD date key to entries in insertion order.
type Ledger map[string][]FoodEntry

// Entries returns the entries for a date, or nil when the date has none.
func (l Ledger) Entries(dateKey string) []FoodEntry {
	if l == nil {
		return nil
	}
	return l[dateKey]
}

// Clone returns a ledger that shares no slices with l.
func (l Ledger) Clone() Ledger {
	out := make(Ledger, len(l))
	for k, v := range l {
		if len(v) == 0 {
			continue
		}
		cp := make([]FoodEntry, len(v))
		copy(cp, v)
		out[k] = cp
	}
	return out
}

type Totals struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

// GoalAdjustments maps a date key to an adjusted calorie goal.
type GoalAdjustments map[string]float64

func (a GoalAdjustments) Clone() GoalAdjustments {
	out := make(GoalAdjustments, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

type BaseGoals struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
	Water    float64 `json:"water"`
}

// NutritionEstimate is what the estimation service returns for one food.
type NutritionEstimate struct {
	Name        string  `json:"name"`
	Calories    float64 `json:"calories"`
	Protein     float64 `json:"protein"`
	Carbs       float64 `json:"carbs"`
	Fat         float64 `json:"fat"`
	ServingSize string  `json:"servingSize"`
}

// SuggestedPlan groups estimates by meal type for one day.
type SuggestedPlan map[MealType][]NutritionEstimate

type SummaryGoals struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
	Water    float64 `json:"water"`
}

type DailySummary struct {
	Date        string       `json:"date"`
	FoodItems   []FoodEntry  `json:"foodItems"`
	Totals      Totals       `json:"totals"`
	Goals       SummaryGoals `json:"goals"`
	WaterIntake float64      `json:"waterIntake"`
}

type DayTotals struct {
	Date    string `json:"date"`
	HasData bool   `json:"hasData"`
	Totals
}
