package nutri

import (
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/saadjs/nutri/internal/app"
	"github.com/saadjs/nutri/internal/cache"
	"github.com/saadjs/nutri/internal/config"
	"github.com/saadjs/nutri/internal/db"
	"github.com/saadjs/nutri/internal/log"
	"github.com/saadjs/nutri/internal/model"
	"github.com/saadjs/nutri/internal/provider/gemini"
	"github.com/saadjs/nutri/internal/provider/openfoodfacts"
	"github.com/saadjs/nutri/internal/service"
	"github.com/saadjs/nutri/internal/store"
)

// session is everything a command needs once the database is open.
type session struct {
	cfg     *config.Config
	logger  *log.Logger
	repo    *store.Repository
	tracker *service.Tracker
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if dbPath != "" {
		cfg.DBPath = dbPath
	}
	return cfg, nil
}

func resolveDBPath() (string, error) {
	cfg, err := loadConfig()
	if err != nil {
		return "", err
	}
	return cfg.DBPath, nil
}

// cliLogger stays quiet below warn unless --verbose is set.
func cliLogger() *log.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return log.New(log.Config{Level: level, Output: os.Stderr})
}

func openDB(path string) (*sql.DB, error) {
	if err := app.EnsureDBDir(path); err != nil {
		return nil, err
	}
	return db.OpenAndMigrate(path)
}

func withSession(logger *log.Logger, run func(*session) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	sqldb, err := openDB(cfg.DBPath)
	if err != nil {
		return err
	}
	defer sqldb.Close()

	repo := store.New(sqldb)
	tracker, err := service.NewTracker(repo, service.WithLogger(logger))
	if err != nil {
		return err
	}
	return run(&session{cfg: cfg, logger: logger, repo: repo, tracker: tracker})
}

func withTracker(run func(*service.Tracker) error) error {
	return withSession(cliLogger(), func(s *session) error {
		return run(s.tracker)
	})
}

func newEstimator(cfg *config.Config, logger *log.Logger) (*gemini.Client, error) {
	if !cfg.AIEnabled() {
		return nil, fmt.Errorf("GEMINI_API_KEY is not set; AI features are disabled")
	}
	return &gemini.Client{
		APIKey:      cfg.GeminiAPIKey,
		Model:       cfg.GeminiModel,
		BaseURL:     cfg.GeminiBaseURL,
		Logger:      logger,
		SearchCache: cache.NewLRUCache[[]model.NutritionEstimate](cfg.SearchCacheSize, cfg.SearchCacheTTL),
	}, nil
}

// newFoodDatabase needs no key, so it is always available.
func newFoodDatabase(cfg *config.Config) *openfoodfacts.Client {
	return &openfoodfacts.Client{BaseURL: cfg.FoodDBBaseURL}
}

// parseMealType accepts any letter case.
func parseMealType(value string) (model.MealType, error) {
	for _, mt := range model.MealTypes {
		if strings.EqualFold(string(mt), strings.TrimSpace(value)) {
			return mt, nil
		}
	}
	names := make([]string, 0, len(model.MealTypes))
	for _, mt := range model.MealTypes {
		names = append(names, strings.ToLower(string(mt)))
	}
	return "", fmt.Errorf("invalid --meal %q (expected one of %s)", value, strings.Join(names, ", "))
}

func parseFloatArg(name, value string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", name, value)
	}
	return v, nil
}

func dateOrToday(date string, tracker *service.Tracker) string {
	if strings.TrimSpace(date) == "" {
		return tracker.Today()
	}
	return strings.TrimSpace(date)
}

// entryFlags are shared by "entry add" and "plan add".
type entryFlags struct {
	name     string
	calories float64
	protein  float64
	carbs    float64
	fat      float64
	meal     string
	quantity float64
	serving  string
	date     string
}

func (f *entryFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "Food name")
	cmd.Flags().Float64Var(&f.calories, "calories", 0, "Calories per serving")
	cmd.Flags().Float64Var(&f.protein, "protein", 0, "Protein grams per serving")
	cmd.Flags().Float64Var(&f.carbs, "carbs", 0, "Carb grams per serving")
	cmd.Flags().Float64Var(&f.fat, "fat", 0, "Fat grams per serving")
	cmd.Flags().StringVar(&f.meal, "meal", "snack", "Meal type: breakfast, lunch, dinner, snack or drinks")
	cmd.Flags().Float64Var(&f.quantity, "quantity", 1, "Number of servings")
	cmd.Flags().StringVar(&f.serving, "serving", "1 serving", "Serving size, e.g. 100g or \"1 cup\"")
	cmd.Flags().StringVar(&f.date, "date", "", "Date YYYY-MM-DD (default today)")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("calories")
}

func (f *entryFlags) input() (service.EntryInput, error) {
	mealType, err := parseMealType(f.meal)
	if err != nil {
		return service.EntryInput{}, err
	}
	value, unit := service.ParseServingSize(f.serving)
	return service.EntryInput{
		Name:         f.name,
		Calories:     f.calories,
		Protein:      f.protein,
		Carbs:        f.carbs,
		Fat:          f.fat,
		MealType:     mealType,
		Quantity:     f.quantity,
		ServingValue: value,
		ServingUnit:  unit,
	}, nil
}

func printEntries(w io.Writer, entries []model.FoodEntry) {
	fmt.Fprintln(w, "ID\tMEAL\tNAME\tQTY\tSERVING\tKCAL\tP\tC\tF")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%g\t%g %s\t%.0f\t%.1f\t%.1f\t%.1f\n",
			e.ID, e.MealType, e.Name, e.Quantity, e.ServingValue, e.ServingUnit,
			e.Calories*e.Quantity, e.Protein*e.Quantity, e.Carbs*e.Quantity, e.Fat*e.Quantity)
	}
}

func printEstimate(w io.Writer, est model.NutritionEstimate) {
	fmt.Fprintf(w, "Food: %s\n", est.Name)
	fmt.Fprintf(w, "Serving: %s\n", est.ServingSize)
	fmt.Fprintf(w, "Calories: %.0f\nProtein: %.1fg\nCarbs: %.1fg\nFat: %.1fg\n", est.Calories, est.Protein, est.Carbs, est.Fat)
}
