package gemini

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/saadjs/nutri/internal/model"
)

const (
	defaultMealName    = "Unknown Meal"
	defaultServingSize = "1 serving"
)

// extractJSON returns the first balanced value opened by openCh in text. Braces
// inside string literals are ignored.
func extractJSON(text string, openCh, closeCh byte) (string, bool) {
	start := strings.IndexByte(text, openCh)
	if start < 0 {
		return "", false
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		ch := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case openCh:
			depth++
		case closeCh:
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		}
	}
	return "", false
}

// printableASCII drops everything outside 0x20-0x7E.
func printableASCII(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x20 && s[i] <= 0x7E {
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

type rawEstimate struct {
	Name        *string  `json:"name"`
	Calories    *float64 `json:"calories"`
	Protein     *float64 `json:"protein"`
	Carbs       *float64 `json:"carbs"`
	Fat         *float64 `json:"fat"`
	ServingSize *string  `json:"servingSize"`
}

// validate returns the estimate, or a reason it is unusable.
func (r rawEstimate) validate() (model.NutritionEstimate, string) {
	fields := []struct {
		name  string
		value *float64
	}{
		{"calories", r.Calories},
		{"protein", r.Protein},
		{"carbs", r.Carbs},
		{"fat", r.Fat},
	}
	for _, f := range fields {
		if f.value == nil {
			return model.NutritionEstimate{}, "missing " + f.name
		}
		if *f.value < 0 {
			return model.NutritionEstimate{}, "negative " + f.name
		}
	}

	name := ""
	if r.Name != nil {
		name = strings.TrimSpace(*r.Name)
	}
	if name == "" {
		name = defaultMealName
	}
	serving := ""
	if r.ServingSize != nil {
		serving = strings.TrimSpace(printableASCII(*r.ServingSize))
	}
	if serving == "" {
		serving = defaultServingSize
	}
	return model.NutritionEstimate{
		Name:        name,
		Calories:    *r.Calories,
		Protein:     *r.Protein,
		Carbs:       *r.Carbs,
		Fat:         *r.Fat,
		ServingSize: serving,
	}, ""
}

func parseEstimate(op, text string) (model.NutritionEstimate, error) {
	raw, ok := extractJSON(text, '{', '}')
	if !ok {
		return model.NutritionEstimate{}, &EstimateParseError{Op: op, Reason: "no JSON object found"}
	}
	var r rawEstimate
	if err := json.Unmarshal([]byte(raw), &r); err != nil {
		return model.NutritionEstimate{}, &EstimateParseError{Op: op, Reason: err.Error()}
	}
	est, reason := r.validate()
	if reason != "" {
		return model.NutritionEstimate{}, &EstimateParseError{Op: op, Reason: reason}
	}
	return est, nil
}

func parseEstimateList(op, text string) ([]model.NutritionEstimate, error) {
	if strings.TrimSpace(text) == "" {
		return []model.NutritionEstimate{}, nil
	}
	raw, ok := extractJSON(text, '[', ']')
	if !ok {
		return nil, &EstimateParseError{Op: op, Reason: "no JSON array found"}
	}
	var items []rawEstimate
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, &EstimateParseError{Op: op, Reason: err.Error()}
	}
	out := make([]model.NutritionEstimate, 0, len(items))
	for i, item := range items {
		est, reason := item.validate()
		if reason != "" {
			return nil, &EstimateParseError{Op: op, Reason: fmt.Sprintf("item %d: %s", i, reason)}
		}
		out = append(out, est)
	}
	return out, nil
}

// planMeals are the meal types a suggested day must contain.
var planMeals = []model.MealType{model.MealBreakfast, model.MealLunch, model.MealDinner, model.MealSnack}

func parseDayPlan(op, text string) (model.SuggestedPlan, error) {
	raw, ok := extractJSON(text, '{', '}')
	if !ok {
		return nil, &EstimateParseError{Op: op, Reason: "no JSON object found"}
	}
	var meals map[string][]rawEstimate
	if err := json.Unmarshal([]byte(raw), &meals); err != nil {
		return nil, &EstimateParseError{Op: op, Reason: err.Error()}
	}
	plan := model.SuggestedPlan{}
	for _, mt := range planMeals {
		items, ok := meals[string(mt)]
		if !ok {
			return nil, &EstimateParseError{Op: op, Reason: fmt.Sprintf("missing %s", mt)}
		}
		ests := make([]model.NutritionEstimate, 0, len(items))
		for i, item := range items {
			est, reason := item.validate()
			if reason != "" {
				return nil, &EstimateParseError{Op: op, Reason: fmt.Sprintf("%s item %d: %s", mt, i, reason)}
			}
			ests = append(ests, est)
		}
		plan[mt] = ests
	}
	return plan, nil
}
