// Package store persists the tracker state in SQLite.
package store

import (
	"database/sql"
	"fmt"

	"github.com/saadjs/nutri/internal/model"
)

type Repository struct {
	db *sql.DB
}

func New(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// LoadLedger returns every entry of one ledger grouped by date in insertion order.
func (r *Repository) LoadLedger(kind model.LedgerKind) (model.Ledger, error) {
	rows, err := r.db.Query(`
SELECT id, entry_date, name, calories, protein_g, carbs_g, fat_g, meal_type, quantity, serving_value, serving_unit
FROM food_entries
WHERE ledger = ?
ORDER BY entry_date ASC, position ASC
`, string(kind))
	if err != nil {
		return nil, fmt.Errorf("list %s entries: %w", kind, err)
	}
	defer rows.Close()

	ledger := model.Ledger{}
	for rows.Next() {
		var (
			e        model.FoodEntry
			date     string
			mealType string
		)
		if err := rows.Scan(&e.ID, &date, &e.Name, &e.Calories, &e.Protein, &e.Carbs, &e.Fat, &mealType, &e.Quantity, &e.ServingValue, &e.ServingUnit); err != nil {
			return nil, fmt.Errorf("scan %s entry: %w", kind, err)
		}
		e.MealType = model.MealType(mealType)
		ledger[date] = append(ledger[date], e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s entries: %w", kind, err)
	}
	return ledger, nil
}

// SaveDay replaces all entries of kind on dateKey in one transaction.
func (r *Repository) SaveDay(kind model.LedgerKind, dateKey string, entries []model.FoodEntry) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin save day tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM food_entries WHERE ledger = ? AND entry_date = ?`, string(kind), dateKey); err != nil {
		return fmt.Errorf("clear %s entries for %s: %w", kind, dateKey, err)
	}
	for i, e := range entries {
		_, err := tx.Exec(`
INSERT INTO food_entries(id, ledger, entry_date, position, name, calories, protein_g, carbs_g, fat_g, meal_type, quantity, serving_value, serving_unit)
VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`, e.ID, string(kind), dateKey, i, e.Name, e.Calories, e.Protein, e.Carbs, e.Fat, string(e.MealType), e.Quantity, e.ServingValue, e.ServingUnit)
		if err != nil {
			return fmt.Errorf("insert %s entry %q: %w", kind, e.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save day tx: %w", err)
	}
	return nil
}

func (r *Repository) LoadAdjustments() (model.GoalAdjustments, error) {
	rows, err := r.db.Query(`SELECT entry_date, calories FROM goal_adjustments ORDER BY entry_date ASC`)
	if err != nil {
		return nil, fmt.Errorf("list goal adjustments: %w", err)
	}
	defer rows.Close()
	out := model.GoalAdjustments{}
	for rows.Next() {
		var date string
		var calories float64
		if err := rows.Scan(&date, &calories); err != nil {
			return nil, fmt.Errorf("scan goal adjustment: %w", err)
		}
		out[date] = calories
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate goal adjustments: %w", err)
	}
	return out, nil
}

// SaveAdjustments replaces the stored mapping with adjustments.
func (r *Repository) SaveAdjustments(adjustments model.GoalAdjustments) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin adjustments tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM goal_adjustments`); err != nil {
		return fmt.Errorf("clear goal adjustments: %w", err)
	}
	for date, calories := range adjustments {
		if _, err := tx.Exec(`INSERT INTO goal_adjustments(entry_date, calories) VALUES(?, ?)`, date, calories); err != nil {
			return fmt.Errorf("insert goal adjustment for %s: %w", date, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit adjustments tx: %w", err)
	}
	return nil
}

func (r *Repository) LoadWater() (map[string]float64, error) {
	rows, err := r.db.Query(`SELECT entry_date, millilitres FROM water_intake`)
	if err != nil {
		return nil, fmt.Errorf("list water intake: %w", err)
	}
	defer rows.Close()
	out := map[string]float64{}
	for rows.Next() {
		var date string
		var ml float64
		if err := rows.Scan(&date, &ml); err != nil {
			return nil, fmt.Errorf("scan water intake: %w", err)
		}
		out[date] = ml
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate water intake: %w", err)
	}
	return out, nil
}

func (r *Repository) SaveWater(dateKey string, millilitres float64) error {
	if millilitres < 0 {
		return fmt.Errorf("water intake must be >= 0")
	}
	_, err := r.db.Exec(`
INSERT INTO water_intake(entry_date, millilitres, updated_at)
VALUES(?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(entry_date) DO UPDATE SET millilitres=excluded.millilitres, updated_at=excluded.updated_at
`, dateKey, millilitres)
	if err != nil {
		return fmt.Errorf("save water intake for %s: %w", dateKey, err)
	}
	return nil
}
