package nutri

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/saadjs/nutri/internal/model"
	"github.com/saadjs/nutri/internal/service"
)

var estimateCmd = &cobra.Command{
	Use:   "estimate",
	Short: "Estimate nutrition with Gemini or look up packaged foods",
}

var (
	estimateLog      bool
	estimatePlan     bool
	estimateMeal     string
	estimateQuantity float64
	estimateDate     string
	estimateJSON     bool
	estimateTimeout  time.Duration
	searchSource     string
)

// estimateAndRecord runs fetch and optionally stores the result as an entry.
func estimateAndRecord(cmd *cobra.Command, fetch func(ctx context.Context, s *session) (model.NutritionEstimate, error)) error {
	var mealType model.MealType
	if estimateLog || estimatePlan {
		if estimateLog && estimatePlan {
			return fmt.Errorf("use only one of --log and --plan")
		}
		mt, err := parseMealType(estimateMeal)
		if err != nil {
			return err
		}
		mealType = mt
	}
	return withSession(cliLogger(), func(s *session) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), estimateTimeout)
		defer cancel()

		est, err := fetch(ctx, s)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if estimateJSON {
			b, err := json.MarshalIndent(est, "", "  ")
			if err != nil {
				return fmt.Errorf("marshal estimate json: %w", err)
			}
			fmt.Fprintln(out, string(b))
		} else {
			printEstimate(out, est)
		}

		if !estimateLog && !estimatePlan {
			return nil
		}
		date := dateOrToday(estimateDate, s.tracker)
		in := service.InputFromEstimate(est, mealType, estimateQuantity)
		if estimatePlan {
			e, err := s.tracker.AddPlanned(date, in)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Planned entry %s\n", e.ID)
			return nil
		}
		e, err := s.tracker.AddFood(date, in)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Added entry %s\n", e.ID)
		return nil
	})
}

var estimateTextCmd = &cobra.Command{
	Use:   "text <description>",
	Short: "Estimate a meal from a description",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		description := strings.Join(args, " ")
		return estimateAndRecord(cmd, func(ctx context.Context, s *session) (model.NutritionEstimate, error) {
			estimator, err := newEstimator(s.cfg, s.logger)
			if err != nil {
				return model.NutritionEstimate{}, err
			}
			return estimator.EstimateFromText(ctx, description)
		})
	},
}

var estimateImageCmd = &cobra.Command{
	Use:   "image <path>",
	Short: "Estimate the food in a photo",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read image: %w", err)
		}
		mimeType := imageMimeType(args[0], data)
		if !strings.HasPrefix(mimeType, "image/") {
			return fmt.Errorf("%s does not look like an image (%s)", args[0], mimeType)
		}
		return estimateAndRecord(cmd, func(ctx context.Context, s *session) (model.NutritionEstimate, error) {
			estimator, err := newEstimator(s.cfg, s.logger)
			if err != nil {
				return model.NutritionEstimate{}, err
			}
			return estimator.EstimateFromImage(ctx, data, mimeType)
		})
	},
}

func imageMimeType(path string, data []byte) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".webp":
		return "image/webp"
	case ".heic":
		return "image/heic"
	}
	return http.DetectContentType(data)
}

var estimateSearchCmd = &cobra.Command{
	Use:   "search <food>",
	Short: "List common variations of a food",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := strings.Join(args, " ")
		return withSession(cliLogger(), func(s *session) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), estimateTimeout)
			defer cancel()

			var results []model.NutritionEstimate
			switch strings.ToLower(searchSource) {
			case "gemini":
				estimator, err := newEstimator(s.cfg, s.logger)
				if err != nil {
					return err
				}
				if results, err = estimator.SearchByName(ctx, query); err != nil {
					return err
				}
			case "openfoodfacts", "off":
				var err error
				if results, err = newFoodDatabase(s.cfg).SearchFoods(ctx, query, 10); err != nil {
					return err
				}
			default:
				return fmt.Errorf("invalid --source %q (expected gemini or openfoodfacts)", searchSource)
			}

			out := cmd.OutOrStdout()
			if estimateJSON {
				b, err := json.MarshalIndent(results, "", "  ")
				if err != nil {
					return fmt.Errorf("marshal search json: %w", err)
				}
				fmt.Fprintln(out, string(b))
				return nil
			}
			if len(results) == 0 {
				fmt.Fprintf(out, "No results for %q\n", query)
				return nil
			}
			fmt.Fprintln(out, "NAME\tSERVING\tKCAL\tP\tC\tF")
			for _, r := range results {
				fmt.Fprintf(out, "%s\t%s\t%.0f\t%.1f\t%.1f\t%.1f\n", r.Name, r.ServingSize, r.Calories, r.Protein, r.Carbs, r.Fat)
			}
			return nil
		})
	},
}

var estimateBarcodeCmd = &cobra.Command{
	Use:   "barcode <code>",
	Short: "Look up a packaged food on Open Food Facts",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return estimateAndRecord(cmd, func(ctx context.Context, s *session) (model.NutritionEstimate, error) {
			return newFoodDatabase(s.cfg).LookupBarcode(ctx, args[0])
		})
	},
}

func init() {
	rootCmd.AddCommand(estimateCmd)
	estimateCmd.AddCommand(estimateTextCmd, estimateImageCmd, estimateSearchCmd, estimateBarcodeCmd)

	estimateSearchCmd.Flags().StringVar(&searchSource, "source", "gemini", "Where to search: gemini or openfoodfacts")
	for _, c := range []*cobra.Command{estimateTextCmd, estimateImageCmd, estimateBarcodeCmd} {
		c.Flags().BoolVar(&estimateLog, "log", false, "Log the estimate as an entry")
		c.Flags().BoolVar(&estimatePlan, "plan", false, "Add the estimate to the plan instead")
		c.Flags().StringVar(&estimateMeal, "meal", "snack", "Meal type for --log/--plan")
		c.Flags().Float64Var(&estimateQuantity, "quantity", 1, "Servings for --log/--plan")
		c.Flags().StringVar(&estimateDate, "date", "", "Date YYYY-MM-DD for --log/--plan (default today)")
	}
	estimateCmd.PersistentFlags().BoolVar(&estimateJSON, "json", false, "Print JSON")
	estimateCmd.PersistentFlags().DurationVar(&estimateTimeout, "timeout", time.Minute, "Give up after this long")
}
