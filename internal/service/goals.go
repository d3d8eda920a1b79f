package service

import (
	"fmt"
	"math"
	"strconv"

	"github.com/saadjs/nutri/internal/log"
	"github.com/saadjs/nutri/internal/model"
)

const (
	SettingCalorieGoal        = "calorieGoal"
	SettingProteinGoal        = "proteinGoal"
	SettingCarbsGoal          = "carbsGoal"
	SettingFatGoal            = "fatGoal"
	SettingWaterGoal          = "waterGoal"
	SettingWeeklyBalancing    = "weeklyBalancingEnabled"
	SettingOnboardingComplete = "onboardingComplete"
)

// DefaultGoals apply when nothing usable has been stored.
var DefaultGoals = model.BaseGoals{
	Calories: 2000,
	Protein:  150,
	Carbs:    250,
	Fat:      65,
	Water:    2000,
}

// SettingsStore persists string scalars by key.
type SettingsStore interface {
	LoadScalar(key string) (string, bool, error)
	SaveScalar(key, value string) error
}

type Settings struct {
	Goals              model.BaseGoals `json:"goals"`
	WeeklyBalancing    bool            `json:"weeklyBalancingEnabled"`
	OnboardingComplete bool            `json:"onboardingComplete"`
}

// LoadSettings reads goals and flags. Missing or malformed values fall back to
// their defaults; only store failures are returned.
func LoadSettings(store SettingsStore, logger *log.Logger) (Settings, error) {
	if logger == nil {
		logger = log.Discard()
	}
	var s Settings
	floats := []struct {
		key string
		def float64
		dst *float64
	}{
		{SettingCalorieGoal, DefaultGoals.Calories, &s.Goals.Calories},
		{SettingProteinGoal, DefaultGoals.Protein, &s.Goals.Protein},
		{SettingCarbsGoal, DefaultGoals.Carbs, &s.Goals.Carbs},
		{SettingFatGoal, DefaultGoals.Fat, &s.Goals.Fat},
		{SettingWaterGoal, DefaultGoals.Water, &s.Goals.Water},
	}
	for _, f := range floats {
		v, err := loadFloat(store, logger, f.key, f.def)
		if err != nil {
			return Settings{}, err
		}
		*f.dst = v
	}

	var err error
	if s.WeeklyBalancing, err = loadBool(store, logger, SettingWeeklyBalancing); err != nil {
		return Settings{}, err
	}
	if s.OnboardingComplete, err = loadBool(store, logger, SettingOnboardingComplete); err != nil {
		return Settings{}, err
	}
	return s, nil
}

func loadFloat(store SettingsStore, logger *log.Logger, key string, def float64) (float64, error) {
	raw, ok, err := store.LoadScalar(key)
	if err != nil {
		return 0, fmt.Errorf("load %s: %w", key, err)
	}
	if !ok {
		return def, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		logger.Debug("ignoring malformed setting", log.FieldKey, key, "value", raw)
		return def, nil
	}
	return v, nil
}

func loadBool(store SettingsStore, logger *log.Logger, key string) (bool, error) {
	raw, ok, err := store.LoadScalar(key)
	if err != nil {
		return false, fmt.Errorf("load %s: %w", key, err)
	}
	if !ok {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		logger.Debug("ignoring malformed setting", log.FieldKey, key, "value", raw)
		return false, nil
	}
	return v, nil
}

func ValidateBaseGoals(g model.BaseGoals) error {
	checks := []struct {
		field string
		value float64
	}{
		{"calories", g.Calories},
		{"protein", g.Protein},
		{"carbs", g.Carbs},
		{"fat", g.Fat},
		{"water", g.Water},
	}
	for _, c := range checks {
		if math.IsNaN(c.value) || math.IsInf(c.value, 0) {
			return invalid(c.field, "must be a number")
		}
		if err := validateNonNegativeFloat(c.field, c.value); err != nil {
			return err
		}
	}
	return nil
}

func SaveBaseGoals(store SettingsStore, g model.BaseGoals) error {
	if err := ValidateBaseGoals(g); err != nil {
		return err
	}
	values := []struct {
		key   string
		value float64
	}{
		{SettingCalorieGoal, g.Calories},
		{SettingProteinGoal, g.Protein},
		{SettingCarbsGoal, g.Carbs},
		{SettingFatGoal, g.Fat},
		{SettingWaterGoal, g.Water},
	}
	for _, v := range values {
		if err := store.SaveScalar(v.key, formatFloat(v.value)); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}
	return nil
}

func saveBool(store SettingsStore, key string, value bool) error {
	if err := store.SaveScalar(key, strconv.FormatBool(value)); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
