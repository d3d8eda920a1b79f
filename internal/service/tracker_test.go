package service_test

import (
	"errors"
	"testing"

	"github.com/saadjs/nutri/internal/model"
	"github.com/saadjs/nutri/internal/service"
	"github.com/saadjs/nutri/internal/store"
)

type failingDays struct {
	*store.Repository
}

func (failingDays) SaveDay(model.LedgerKind, string, []model.FoodEntry) error {
	return errors.New("database is locked")
}

func TestTrackerAddAndRemoveFood(t *testing.T) {
	t.Parallel()
	repo := newTestRepo(t)
	tracker := newTestTracker(t, repo, weekDay(2, 12))

	in := food("Oatmeal", 150, model.MealBreakfast)
	in.Protein = 5
	in.Quantity = 2
	added, err := tracker.AddFood("2026-10-13", in)
	if err != nil {
		t.Fatalf("add food: %v", err)
	}
	if added.ID != "id-1" || added.ServingUnit != "serving" || added.ServingValue != 1 {
		t.Fatalf("unexpected entry: %+v", added)
	}

	day, err := tracker.Day("2026-10-13")
	if err != nil {
		t.Fatalf("day: %v", err)
	}
	if day.Totals.Calories != 300 || day.Totals.Protein != 10 {
		t.Fatalf("expected quantity-scaled totals, got %+v", day.Totals)
	}
	if day.CalorieGoal != 2000 || day.Status != service.StatusUnder {
		t.Fatalf("unexpected goal/status: %v %s", day.CalorieGoal, day.Status)
	}

	if err := tracker.RemoveFood("2026-10-13", added.ID); err != nil {
		t.Fatalf("remove food: %v", err)
	}
	if got := tracker.Entries(model.LedgerLogged, "2026-10-13"); len(got) != 0 {
		t.Fatalf("expected no entries, got %+v", got)
	}
	if err := tracker.RemoveFood("2026-10-13", added.ID); !errors.Is(err, service.ErrNotFound) {
		t.Fatalf("expected not found on second remove, got %v", err)
	}

	reloaded := newTestTracker(t, repo, weekDay(2, 12))
	if got := reloaded.Entries(model.LedgerLogged, "2026-10-13"); len(got) != 0 {
		t.Fatalf("expected removal to persist, got %+v", got)
	}
}

func TestTrackerRejectsInvalidInput(t *testing.T) {
	t.Parallel()
	tracker := newTestTracker(t, newTestRepo(t), weekDay(2, 12))

	tests := []struct {
		name  string
		date  string
		in    service.EntryInput
		field string
	}{
		{"missing name", "2026-10-13", food("  ", 100, model.MealLunch), "name"},
		{"negative calories", "2026-10-13", food("Toast", -1, model.MealLunch), "calories"},
		{"unknown meal", "2026-10-13", food("Toast", 100, "Brunch"), "mealType"},
		{"bad date", "13/10/2026", food("Toast", 100, model.MealLunch), "date"},
	}
	for _, tc := range tests {
		_, err := tracker.AddFood(tc.date, tc.in)
		var verr *service.ValidationError
		if !errors.As(err, &verr) || verr.Field != tc.field {
			t.Fatalf("%s: expected %s validation error, got %v", tc.name, tc.field, err)
		}
	}

	negative := food("Toast", 100, model.MealLunch)
	negative.Quantity = -2
	if _, err := tracker.AddFood("2026-10-13", negative); err == nil {
		t.Fatalf("expected negative quantity to fail")
	}
}

func TestTrackerWeeklyBalancing(t *testing.T) {
	t.Parallel()
	repo := newTestRepo(t)
	tracker := newTestTracker(t, repo, weekDay(2, 12))

	if err := tracker.SetWeeklyBalancing(true); err != nil {
		t.Fatalf("enable balancing: %v", err)
	}
	for date, cal := range map[string]float64{"2026-10-11": 2200, "2026-10-12": 2100, "2026-10-13": 1900} {
		if _, err := tracker.AddFood(date, food("Meal", cal, model.MealDinner)); err != nil {
			t.Fatalf("add food on %s: %v", date, err)
		}
	}

	adj := tracker.Adjustments()
	if len(adj) != 4 {
		t.Fatalf("expected four adjusted days, got %+v", adj)
	}
	for _, k := range []string{"2026-10-14", "2026-10-15", "2026-10-16", "2026-10-17"} {
		if adj[k] != 1950 {
			t.Fatalf("expected %s=1950, got %+v", k, adj)
		}
	}

	if got := tracker.CalorieGoal("2026-10-14"); got != 2000 {
		t.Fatalf("expected base goal before onboarding, got %v", got)
	}
	if err := tracker.CompleteOnboarding(); err != nil {
		t.Fatalf("complete onboarding: %v", err)
	}
	day, err := tracker.Day("2026-10-14")
	if err != nil {
		t.Fatalf("day: %v", err)
	}
	if day.CalorieGoal != 1950 || !day.Adjusted {
		t.Fatalf("expected adjusted goal 1950, got %v adjusted=%v", day.CalorieGoal, day.Adjusted)
	}
	if got := tracker.CalorieGoal("2026-10-13"); got != 2000 {
		t.Fatalf("expected today to keep the base goal, got %v", got)
	}

	reloaded := newTestTracker(t, repo, weekDay(2, 18))
	if got := reloaded.Adjustments()["2026-10-17"]; got != 1950 {
		t.Fatalf("expected adjustments to persist, got %+v", reloaded.Adjustments())
	}
	if !reloaded.Settings().OnboardingComplete {
		t.Fatalf("expected onboarding flag to persist")
	}

	if err := reloaded.SetWeeklyBalancing(false); err != nil {
		t.Fatalf("disable balancing: %v", err)
	}
	if got := reloaded.Adjustments(); len(got) != 0 {
		t.Fatalf("expected adjustments cleared, got %+v", got)
	}
	if got := reloaded.CalorieGoal("2026-10-14"); got != 2000 {
		t.Fatalf("expected base goal when disabled, got %v", got)
	}
	stored, err := repo.LoadAdjustments()
	if err != nil {
		t.Fatalf("load adjustments: %v", err)
	}
	if len(stored) != 0 {
		t.Fatalf("expected cleared adjustments to persist, got %+v", stored)
	}
}

func TestTrackerNextDayCarriesTodaysAdjustment(t *testing.T) {
	t.Parallel()
	repo := newTestRepo(t)
	monday := newTestTracker(t, repo, weekDay(1, 20))
	if err := monday.SetWeeklyBalancing(true); err != nil {
		t.Fatalf("enable balancing: %v", err)
	}
	if _, err := monday.AddFood("2026-10-12", food("Pizza", 2500, model.MealDinner)); err != nil {
		t.Fatalf("add food: %v", err)
	}
	tuesdayGoal := monday.Adjustments()["2026-10-13"]

	tuesday := newTestTracker(t, repo, weekDay(2, 7))
	adj := tuesday.Adjustments()
	if adj["2026-10-13"] != tuesdayGoal {
		t.Fatalf("expected tuesday adjustment %v carried over, got %+v", tuesdayGoal, adj)
	}
	if _, ok := adj["2026-10-12"]; ok {
		t.Fatalf("expected monday pruned, got %+v", adj)
	}
}

func TestTrackerBaseGoalChangeRecomputes(t *testing.T) {
	t.Parallel()
	tracker := newTestTracker(t, newTestRepo(t), weekDay(2, 12))
	if err := tracker.SetWeeklyBalancing(true); err != nil {
		t.Fatalf("enable balancing: %v", err)
	}
	if _, err := tracker.AddFood("2026-10-11", food("Brunch", 2200, model.MealLunch)); err != nil {
		t.Fatalf("add food: %v", err)
	}

	goals := service.DefaultGoals
	goals.Calories = 1800
	if err := tracker.SetBaseGoals(goals); err != nil {
		t.Fatalf("set goals: %v", err)
	}
	// 2200 eaten against 5400 planned leaves 3200 over four days.
	if got := tracker.Adjustments()["2026-10-14"]; got != 2600 {
		t.Fatalf("expected 2600 after goal change, got %+v", tracker.Adjustments())
	}
	if tracker.Settings().Goals.Calories != 1800 {
		t.Fatalf("expected calorie goal stored")
	}

	goals.Protein = -5
	var verr *service.ValidationError
	if err := tracker.SetBaseGoals(goals); !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestTrackerLogPlanTwiceDuplicates(t *testing.T) {
	t.Parallel()
	tracker := newTestTracker(t, newTestRepo(t), weekDay(3, 9))

	for _, in := range []service.EntryInput{food("Eggs", 140, model.MealBreakfast), food("Soup", 320, model.MealLunch)} {
		if _, err := tracker.AddPlanned("2026-10-14", in); err != nil {
			t.Fatalf("add planned: %v", err)
		}
	}
	first, err := tracker.LogPlan("2026-10-14")
	if err != nil {
		t.Fatalf("log plan: %v", err)
	}
	second, err := tracker.LogPlan("2026-10-14")
	if err != nil {
		t.Fatalf("log plan again: %v", err)
	}
	if len(first) != 2 || len(second) != 2 || first[0] == second[0] {
		t.Fatalf("expected fresh ids each time, got %v and %v", first, second)
	}
	if got := tracker.Entries(model.LedgerLogged, "2026-10-14"); len(got) != 4 {
		t.Fatalf("expected four logged entries, got %+v", got)
	}
	if got := tracker.Entries(model.LedgerPlan, "2026-10-14"); len(got) != 2 {
		t.Fatalf("expected plan untouched, got %+v", got)
	}

	ids, err := tracker.LogPlan("2026-10-15")
	if err != nil || len(ids) != 0 {
		t.Fatalf("expected empty promotion, got %v %v", ids, err)
	}
}

func TestTrackerUpdateFood(t *testing.T) {
	t.Parallel()
	tracker := newTestTracker(t, newTestRepo(t), weekDay(2, 12))

	added, err := tracker.AddFood("2026-10-13", food("Rice", 200, model.MealLunch))
	if err != nil {
		t.Fatalf("add food: %v", err)
	}
	qty := 2.5
	meal := model.MealDinner
	updated, err := tracker.UpdateFood("2026-10-13", added.ID, service.EntryUpdate{Quantity: &qty, MealType: &meal})
	if err != nil {
		t.Fatalf("update food: %v", err)
	}
	if updated.Quantity != 2.5 || updated.MealType != model.MealDinner || updated.Calories != 200 {
		t.Fatalf("unexpected update: %+v", updated)
	}
	day, _ := tracker.Day("2026-10-13")
	if day.Totals.Calories != 500 {
		t.Fatalf("expected 500 calories, got %v", day.Totals.Calories)
	}

	zero := 0.0
	var verr *service.ValidationError
	if _, err := tracker.UpdateFood("2026-10-13", added.ID, service.EntryUpdate{Quantity: &zero}); !errors.As(err, &verr) {
		t.Fatalf("expected quantity validation error, got %v", err)
	}
	if _, err := tracker.UpdateFood("2026-10-13", "missing", service.EntryUpdate{Quantity: &qty}); !errors.Is(err, service.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestTrackerFailedSaveLeavesLedgerUnchanged(t *testing.T) {
	t.Parallel()
	tracker := newTestTracker(t, failingDays{newTestRepo(t)}, weekDay(2, 12))

	if _, err := tracker.AddFood("2026-10-13", food("Toast", 90, model.MealBreakfast)); err == nil {
		t.Fatalf("expected save failure")
	}
	if got := tracker.Entries(model.LedgerLogged, "2026-10-13"); len(got) != 0 {
		t.Fatalf("expected ledger unchanged, got %+v", got)
	}
}

func TestTrackerWaterNeverNegative(t *testing.T) {
	t.Parallel()
	tracker := newTestTracker(t, newTestRepo(t), weekDay(2, 12))

	total, err := tracker.AddWater("2026-10-13", 500)
	if err != nil || total != 500 {
		t.Fatalf("expected 500ml, got %v %v", total, err)
	}
	total, err = tracker.AddWater("2026-10-13", -800)
	if err != nil || total != 0 {
		t.Fatalf("expected clamp at 0, got %v %v", total, err)
	}
}

func TestTrackerSuggestedPlanAndSummary(t *testing.T) {
	t.Parallel()
	tracker := newTestTracker(t, newTestRepo(t), weekDay(2, 12))

	added, err := tracker.ApplySuggestedPlan("2026-10-14", model.SuggestedPlan{
		model.MealLunch:     {{Name: "Chicken wrap", Calories: 450, Protein: 30, ServingSize: "1 wrap"}},
		model.MealBreakfast: {{Name: "Porridge", Calories: 300, ServingSize: "250 g"}},
	})
	if err != nil {
		t.Fatalf("apply plan: %v", err)
	}
	if len(added) != 2 || added[0].Name != "Porridge" || added[1].MealType != model.MealLunch {
		t.Fatalf("expected breakfast before lunch, got %+v", added)
	}
	if added[0].ServingValue != 250 || added[0].ServingUnit != "g" || added[0].Quantity != 1 {
		t.Fatalf("unexpected serving: %+v", added[0])
	}

	if _, err := tracker.LogPlan("2026-10-14"); err != nil {
		t.Fatalf("log plan: %v", err)
	}
	if _, err := tracker.AddWater("2026-10-14", 750); err != nil {
		t.Fatalf("add water: %v", err)
	}
	summary, err := tracker.Summary("2026-10-14")
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if len(summary.FoodItems) != 2 || summary.Totals.Calories != 750 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if summary.Goals.Calories != 2000 || summary.Goals.Water != 2000 || summary.WaterIntake != 750 {
		t.Fatalf("unexpected summary goals: %+v water=%v", summary.Goals, summary.WaterIntake)
	}
}
