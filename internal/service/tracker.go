package service

import (
	"errors"
	"fmt"
	"maps"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/saadjs/nutri/internal/log"
	"github.com/saadjs/nutri/internal/model"
)

var ErrNotFound = errors.New("not found")

// Repository is the persistence the tracker writes through.
type Repository interface {
	SettingsStore
	LoadLedger(kind model.LedgerKind) (model.Ledger, error)
	// SaveDay replaces every entry of one ledger on one date.
	SaveDay(kind model.LedgerKind, dateKey string, entries []model.FoodEntry) error
	LoadAdjustments() (model.GoalAdjustments, error)
	SaveAdjustments(adjustments model.GoalAdjustments) error
	LoadWater() (map[string]float64, error)
	SaveWater(dateKey string, millilitres float64) error
}

type EntryInput struct {
	Name         string         `json:"name"`
	Calories     float64        `json:"calories"`
	Protein      float64        `json:"protein"`
	Carbs        float64        `json:"carbs"`
	Fat          float64        `json:"fat"`
	MealType     model.MealType `json:"mealType"`
	Quantity     float64        `json:"quantity"`
	ServingValue float64        `json:"servingValue"`
	ServingUnit  string         `json:"servingUnit"`
}

// EntryUpdate carries the only fields editable after creation.
type EntryUpdate struct {
	Quantity *float64        `json:"quantity,omitempty"`
	MealType *model.MealType `json:"mealType,omitempty"`
}

type DayView struct {
	Date          string            `json:"date"`
	Entries       []model.FoodEntry `json:"entries"`
	Totals        model.Totals      `json:"totals"`
	Planned       []model.FoodEntry `json:"planned"`
	PlannedTotals model.Totals      `json:"plannedTotals"`
	Goals         model.BaseGoals   `json:"goals"`
	CalorieGoal   float64           `json:"calorieGoal"`
	Adjusted      bool              `json:"adjusted"`
	Status        GoalStatus        `json:"status"`
	MacroStatus   MacroStatus       `json:"macroStatus"`
	Water         float64           `json:"water"`
}

type MacroStatus struct {
	Protein GoalStatus `json:"protein"`
	Carbs   GoalStatus `json:"carbs"`
	Fat     GoalStatus `json:"fat"`
}

// Tracker owns the logged and plan ledgers, goals, flags and water log. Every
// mutation is persisted before it becomes visible, and the weekly adjustments
// are re-derived whenever their inputs change.
type Tracker struct {
	mu     sync.Mutex
	repo   Repository
	now    Clock
	logger *log.Logger
	newID  func() string

	logged      model.Ledger
	plan        model.Ledger
	settings    Settings
	water       map[string]float64
	adjustments model.GoalAdjustments
}

type TrackerOption func(*Tracker)

func WithClock(clock Clock) TrackerOption {
	return func(t *Tracker) {
		if clock != nil {
			t.now = clock
		}
	}
}

func WithLogger(logger *log.Logger) TrackerOption {
	return func(t *Tracker) {
		if logger != nil {
			t.logger = logger.WithComponent(log.ComponentTracker)
		}
	}
}

func WithIDGenerator(newID func() string) TrackerOption {
	return func(t *Tracker) {
		if newID != nil {
			t.newID = newID
		}
	}
}

// NewTracker loads all state from repo and brings the adjustments up to date
// for the current day.
func NewTracker(repo Repository, opts ...TrackerOption) (*Tracker, error) {
	t := &Tracker{
		repo:   repo,
		now:    time.Now,
		logger: log.Discard(),
		newID:  NewEntryID,
	}
	for _, opt := range opts {
		opt(t)
	}

	var err error
	if t.settings, err = LoadSettings(repo, t.logger); err != nil {
		return nil, err
	}
	if t.logged, err = repo.LoadLedger(model.LedgerLogged); err != nil {
		return nil, fmt.Errorf("load logged entries: %w", err)
	}
	if t.plan, err = repo.LoadLedger(model.LedgerPlan); err != nil {
		return nil, fmt.Errorf("load planned entries: %w", err)
	}
	if t.adjustments, err = repo.LoadAdjustments(); err != nil {
		return nil, fmt.Errorf("load goal adjustments: %w", err)
	}
	if t.water, err = repo.LoadWater(); err != nil {
		return nil, fmt.Errorf("load water intake: %w", err)
	}
	if t.logged == nil {
		t.logged = model.Ledger{}
	}
	if t.plan == nil {
		t.plan = model.Ledger{}
	}
	if t.adjustments == nil {
		t.adjustments = model.GoalAdjustments{}
	}
	if t.water == nil {
		t.water = map[string]float64{}
	}

	if err := t.recompute(); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *Tracker) Settings() Settings {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.settings
}

// Adjustments returns a copy of the current weekly adjustments.
func (t *Tracker) Adjustments() model.GoalAdjustments {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.adjustments.Clone()
}

func (t *Tracker) Today() string {
	return DateKey(t.now())
}

func (t *Tracker) AddFood(dateKey string, in EntryInput) (model.FoodEntry, error) {
	return t.addEntry(model.LedgerLogged, dateKey, in)
}

func (t *Tracker) AddPlanned(dateKey string, in EntryInput) (model.FoodEntry, error) {
	return t.addEntry(model.LedgerPlan, dateKey, in)
}

func (t *Tracker) RemoveFood(dateKey, id string) error {
	return t.removeEntry(model.LedgerLogged, dateKey, id)
}

func (t *Tracker) RemovePlanned(dateKey, id string) error {
	return t.removeEntry(model.LedgerPlan, dateKey, id)
}

// UpdateFood changes quantity and/or meal type of a logged entry.
func (t *Tracker) UpdateFood(dateKey, id string, upd EntryUpdate) (model.FoodEntry, error) {
	if err := validateDateKey(dateKey); err != nil {
		return model.FoodEntry{}, err
	}
	if upd.Quantity != nil {
		if err := validateQuantity(*upd.Quantity); err != nil {
			return model.FoodEntry{}, err
		}
	}
	if upd.MealType != nil && !upd.MealType.Valid() {
		return model.FoodEntry{}, invalid("mealType", fmt.Sprintf("unknown meal type %q", *upd.MealType))
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	current := t.logged.Entries(dateKey)
	idx := indexOf(current, id)
	if idx < 0 {
		return model.FoodEntry{}, entryNotFound(dateKey, id)
	}
	next := make([]model.FoodEntry, len(current))
	copy(next, current)
	if upd.Quantity != nil {
		next[idx].Quantity = *upd.Quantity
	}
	if upd.MealType != nil {
		next[idx].MealType = *upd.MealType
	}

	if err := t.commitDay(model.LedgerLogged, dateKey, next); err != nil {
		return model.FoodEntry{}, err
	}
	t.logger.Info("entry updated", log.FieldOperation, log.OpUpdate, log.FieldDate, dateKey, log.FieldEntryID, id)
	return next[idx], t.recompute()
}

// Entries returns a copy of one ledger's entries for dateKey.
func (t *Tracker) Entries(kind model.LedgerKind, dateKey string) []model.FoodEntry {
	t.mu.Lock()
	defer t.mu.Unlock()
	return cloneEntries(t.ledger(kind).Entries(dateKey))
}

// LogPlan copies the plan for dateKey into the logged ledger.
func (t *Tracker) LogPlan(dateKey string) ([]string, error) {
	if err := validateDateKey(dateKey); err != nil {
		return nil, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	updated, ids := PromotePlan(t.plan, t.logged, dateKey, t.newID)
	if len(ids) == 0 {
		return ids, nil
	}
	if err := t.commitDay(model.LedgerLogged, dateKey, updated[dateKey]); err != nil {
		return nil, err
	}
	t.logger.Info("plan logged", log.FieldOperation, log.OpPromote, log.FieldDate, dateKey, "count", len(ids))
	return ids, t.recompute()
}

// ApplySuggestedPlan appends every suggested item to the plan for dateKey,
// one serving each, in meal type order.
func (t *Tracker) ApplySuggestedPlan(dateKey string, plan model.SuggestedPlan) ([]model.FoodEntry, error) {
	if err := validateDateKey(dateKey); err != nil {
		return nil, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	current := t.plan.Entries(dateKey)
	next := cloneEntries(current)
	var added []model.FoodEntry
	for _, mt := range model.MealTypes {
		for _, est := range plan[mt] {
			e := EntryFromEstimate(est, mt, 1)
			e.ID = t.newID()
			next = append(next, e)
			added = append(added, e)
		}
	}
	if len(added) == 0 {
		return []model.FoodEntry{}, nil
	}
	if err := t.commitDay(model.LedgerPlan, dateKey, next); err != nil {
		return nil, err
	}
	return added, nil
}

// SetBaseGoals replaces all five goals. A new calorie goal re-derives the
// weekly adjustments.
func (t *Tracker) SetBaseGoals(goals model.BaseGoals) error {
	if err := ValidateBaseGoals(goals); err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if err := SaveBaseGoals(t.repo, goals); err != nil {
		return err
	}
	caloriesChanged := goals.Calories != t.settings.Goals.Calories
	t.settings.Goals = goals
	if caloriesChanged {
		return t.recompute()
	}
	return nil
}

// SetWeeklyBalancing turns weekly balancing on or off. Turning it on derives
// adjustments from the logged ledger alone; turning it off clears them.
func (t *Tracker) SetWeeklyBalancing(enabled bool) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := saveBool(t.repo, SettingWeeklyBalancing, enabled); err != nil {
		return err
	}
	t.settings.WeeklyBalancing = enabled
	return t.recompute()
}

func (t *Tracker) CompleteOnboarding() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := saveBool(t.repo, SettingOnboardingComplete, true); err != nil {
		return err
	}
	t.settings.OnboardingComplete = true
	return nil
}

// AddWater adds delta millilitres to dateKey. The total never drops below zero.
func (t *Tracker) AddWater(dateKey string, delta float64) (float64, error) {
	if err := validateDateKey(dateKey); err != nil {
		return 0, err
	}
	if math.IsNaN(delta) || math.IsInf(delta, 0) {
		return 0, invalid("amount", "must be a number")
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	total := math.Max(0, t.water[dateKey]+delta)
	if err := t.repo.SaveWater(dateKey, total); err != nil {
		return 0, fmt.Errorf("save water intake: %w", err)
	}
	t.water[dateKey] = total
	return total, nil
}

// CalorieGoal is the calorie goal displayed for dateKey.
func (t *Tracker) CalorieGoal(dateKey string) float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	goal, _ := t.calorieGoal(dateKey)
	return goal
}

func (t *Tracker) Day(dateKey string) (DayView, error) {
	if err := validateDateKey(dateKey); err != nil {
		return DayView{}, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	entries := cloneEntries(t.logged.Entries(dateKey))
	planned := cloneEntries(t.plan.Entries(dateKey))
	totals := Totals(entries)
	goals := t.settings.Goals
	calorieGoal, adjusted := t.calorieGoal(dateKey)

	return DayView{
		Date:          dateKey,
		Entries:       entries,
		Totals:        totals,
		Planned:       planned,
		PlannedTotals: Totals(planned),
		Goals:         goals,
		CalorieGoal:   calorieGoal,
		Adjusted:      adjusted,
		Status:        Classify(totals.Calories, calorieGoal),
		MacroStatus: MacroStatus{
			Protein: Classify(totals.Protein, goals.Protein),
			Carbs:   Classify(totals.Carbs, goals.Carbs),
			Fat:     Classify(totals.Fat, goals.Fat),
		},
		Water: t.water[dateKey],
	}, nil
}

func (t *Tracker) Progress(view ProgressView) []ProgressPoint {
	t.mu.Lock()
	defer t.mu.Unlock()
	return Progress(t.logged, t.settings.Goals, t.displayedAdjustments(), view, t.now())
}

func (t *Tracker) Summary(dateKey string) (model.DailySummary, error) {
	if err := validateDateKey(dateKey); err != nil {
		return model.DailySummary{}, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	goal, _ := t.calorieGoal(dateKey)
	return BuildDailySummary(dateKey, t.logged.Entries(dateKey), t.settings.Goals, goal, t.water[dateKey]), nil
}

// RangeTotals rolls the logged ledger up over an inclusive date range.
func (t *Tracker) RangeTotals(fromKey, toKey string) (*RangeReport, error) {
	from, err := ParseDateKey(fromKey, t.now().Location())
	if err != nil {
		return nil, invalid("from", "must be YYYY-MM-DD")
	}
	to, err := ParseDateKey(toKey, t.now().Location())
	if err != nil {
		return nil, invalid("to", "must be YYYY-MM-DD")
	}
	if from.After(to) {
		return nil, invalid("from", "must be on or before to")
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	return RangeTotals(t.logged, from, to)
}

func (t *Tracker) addEntry(kind model.LedgerKind, dateKey string, in EntryInput) (model.FoodEntry, error) {
	if err := validateDateKey(dateKey); err != nil {
		return model.FoodEntry{}, err
	}
	entry, err := newEntry(in)
	if err != nil {
		return model.FoodEntry{}, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	entry.ID = t.newID()
	next := append(cloneEntries(t.ledger(kind).Entries(dateKey)), entry)
	if err := t.commitDay(kind, dateKey, next); err != nil {
		return model.FoodEntry{}, err
	}
	t.logger.Info("entry added", log.FieldOperation, log.OpCreate, log.FieldLedger, kind, log.FieldDate, dateKey, log.FieldEntryID, entry.ID)
	if kind == model.LedgerLogged {
		return entry, t.recompute()
	}
	return entry, nil
}

func (t *Tracker) removeEntry(kind model.LedgerKind, dateKey, id string) error {
	if err := validateDateKey(dateKey); err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	current := t.ledger(kind).Entries(dateKey)
	idx := indexOf(current, id)
	if idx < 0 {
		return entryNotFound(dateKey, id)
	}
	next := make([]model.FoodEntry, 0, len(current)-1)
	next = append(next, current[:idx]...)
	next = append(next, current[idx+1:]...)
	if err := t.commitDay(kind, dateKey, next); err != nil {
		return err
	}
	t.logger.Info("entry removed", log.FieldOperation, log.OpDelete, log.FieldLedger, kind, log.FieldDate, dateKey, log.FieldEntryID, id)
	if kind == model.LedgerLogged {
		return t.recompute()
	}
	return nil
}

// commitDay persists one day of a ledger and then swaps it in memory. An empty
// day removes the date key. Callers hold t.mu.
func (t *Tracker) commitDay(kind model.LedgerKind, dateKey string, entries []model.FoodEntry) error {
	if err := t.repo.SaveDay(kind, dateKey, entries); err != nil {
		return fmt.Errorf("save %s entries for %s: %w", kind, dateKey, err)
	}
	ledger := t.ledger(kind)
	if len(entries) == 0 {
		delete(ledger, dateKey)
		return nil
	}
	ledger[dateKey] = entries
	return nil
}

// recompute re-derives the adjustments and persists them when they changed.
// Callers hold t.mu.
func (t *Tracker) recompute() error {
	next := Rebalance(RebalanceInput{
		Previous: t.adjustments,
		Logged:   t.logged,
		BaseGoal: t.settings.Goals.Calories,
		Enabled:  t.settings.WeeklyBalancing,
		Now:      t.now(),
	})
	if maps.Equal(next, t.adjustments) {
		return nil
	}
	if err := t.repo.SaveAdjustments(next); err != nil {
		return fmt.Errorf("save goal adjustments: %w", err)
	}
	t.adjustments = next
	t.logger.Debug("goal adjustments updated", log.FieldOperation, log.OpRebalance, "days", len(next))
	return nil
}

func (t *Tracker) ledger(kind model.LedgerKind) model.Ledger {
	if kind == model.LedgerPlan {
		return t.plan
	}
	return t.logged
}

// displayedAdjustments hides adjustments until onboarding is done.
func (t *Tracker) displayedAdjustments() model.GoalAdjustments {
	if !t.settings.WeeklyBalancing || !t.settings.OnboardingComplete {
		return nil
	}
	return t.adjustments
}

func (t *Tracker) calorieGoal(dateKey string) (float64, bool) {
	base := t.settings.Goals.Calories
	adj := t.displayedAdjustments()
	if adj == nil {
		return base, false
	}
	if v, ok := adj[dateKey]; ok {
		return v, true
	}
	return base, false
}

func newEntry(in EntryInput) (model.FoodEntry, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return model.FoodEntry{}, invalid("name", "is required")
	}
	for _, c := range []struct {
		field string
		value float64
	}{
		{"calories", in.Calories},
		{"protein", in.Protein},
		{"carbs", in.Carbs},
		{"fat", in.Fat},
	} {
		if math.IsNaN(c.value) || math.IsInf(c.value, 0) {
			return model.FoodEntry{}, invalid(c.field, "must be a number")
		}
		if err := validateNonNegativeFloat(c.field, c.value); err != nil {
			return model.FoodEntry{}, err
		}
	}
	if !in.MealType.Valid() {
		return model.FoodEntry{}, invalid("mealType", fmt.Sprintf("unknown meal type %q", in.MealType))
	}
	if in.Quantity == 0 {
		in.Quantity = 1
	}
	if err := validateQuantity(in.Quantity); err != nil {
		return model.FoodEntry{}, err
	}
	if in.ServingValue == 0 {
		in.ServingValue = 1
	}
	if err := validatePositiveFloat("servingValue", in.ServingValue); err != nil {
		return model.FoodEntry{}, err
	}
	unit := strings.TrimSpace(in.ServingUnit)
	if unit == "" {
		unit = defaultServingUnit
	}
	return model.FoodEntry{
		Name:         name,
		Calories:     in.Calories,
		Protein:      in.Protein,
		Carbs:        in.Carbs,
		Fat:          in.Fat,
		MealType:     in.MealType,
		Quantity:     in.Quantity,
		ServingValue: in.ServingValue,
		ServingUnit:  unit,
	}, nil
}

func validateQuantity(q float64) error {
	if math.IsNaN(q) || math.IsInf(q, 0) {
		return invalid("quantity", "must be a number")
	}
	return validatePositiveFloat("quantity", q)
}

func validateDateKey(dateKey string) error {
	if _, err := ParseDateKey(dateKey, nil); err != nil {
		return invalid("date", "must be YYYY-MM-DD")
	}
	return nil
}

func entryNotFound(dateKey, id string) error {
	return fmt.Errorf("entry %q on %s: %w", id, dateKey, ErrNotFound)
}

func indexOf(entries []model.FoodEntry, id string) int {
	for i, e := range entries {
		if e.ID == id {
			return i
		}
	}
	return -1
}

func cloneEntries(entries []model.FoodEntry) []model.FoodEntry {
	out := make([]model.FoodEntry, len(entries))
	copy(out, entries)
	return out
}
