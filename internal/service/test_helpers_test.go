package service_test

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/saadjs/nutri/internal/db"
	"github.com/saadjs/nutri/internal/model"
	"github.com/saadjs/nutri/internal/service"
	"github.com/saadjs/nutri/internal/store"
)

// 2026-10-11 is a Sunday.
func weekDay(offset int, hour int) time.Time {
	return time.Date(2026, time.October, 11+offset, hour, 0, 0, 0, time.UTC)
}

func newTestRepo(t *testing.T) *store.Repository {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nutri.db")
	sqldb, err := db.OpenAndMigrate(path)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { sqldb.Close() })
	return store.New(sqldb)
}

func newTestTracker(t *testing.T, repo service.Repository, now time.Time) *service.Tracker {
	t.Helper()
	seq := 0
	tracker, err := service.NewTracker(repo,
		service.WithClock(func() time.Time { return now }),
		service.WithIDGenerator(func() string {
			seq++
			return fmt.Sprintf("id-%d", seq)
		}),
	)
	if err != nil {
		t.Fatalf("new tracker: %v", err)
	}
	return tracker
}

func food(name string, calories float64, meal model.MealType) service.EntryInput {
	return service.EntryInput{Name: name, Calories: calories, MealType: meal, Quantity: 1}
}

func entry(id string, calories, quantity float64) model.FoodEntry {
	return model.FoodEntry{
		ID:           id,
		Name:         id,
		Calories:     calories,
		Protein:      calories / 20,
		Carbs:        calories / 10,
		Fat:          calories / 40,
		MealType:     model.MealLunch,
		Quantity:     quantity,
		ServingValue: 1,
		ServingUnit:  "serving",
	}
}
