package nutri

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/saadjs/nutri/internal/model"
	"github.com/saadjs/nutri/internal/service"
)

var goalCmd = &cobra.Command{
	Use:   "goal",
	Short: "Manage daily calorie, macro and water goals",
}

var (
	goalCalories float64
	goalProtein  float64
	goalCarbs    float64
	goalFat      float64
	goalWater    float64
)

func registerGoalFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&goalCalories, "calories", 0, "Daily calories")
	cmd.Flags().Float64Var(&goalProtein, "protein", 0, "Daily protein grams")
	cmd.Flags().Float64Var(&goalCarbs, "carbs", 0, "Daily carb grams")
	cmd.Flags().Float64Var(&goalFat, "fat", 0, "Daily fat grams")
	cmd.Flags().Float64Var(&goalWater, "water", 0, "Daily water millilitres")
}

// goalsFromFlags overlays the changed flags on current.
func goalsFromFlags(cmd *cobra.Command, current model.BaseGoals) (model.BaseGoals, int) {
	changed := 0
	set := func(flag string, dst *float64, v float64) {
		if cmd.Flags().Changed(flag) {
			*dst = v
			changed++
		}
	}
	set("calories", &current.Calories, goalCalories)
	set("protein", &current.Protein, goalProtein)
	set("carbs", &current.Carbs, goalCarbs)
	set("fat", &current.Fat, goalFat)
	set("water", &current.Water, goalWater)
	return current, changed
}

var goalSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Set one or more base goals",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withTracker(func(tracker *service.Tracker) error {
			goals, changed := goalsFromFlags(cmd, tracker.Settings().Goals)
			if changed == 0 {
				return fmt.Errorf("set at least one flag")
			}
			if err := tracker.SetBaseGoals(goals); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %d goal value(s)\n", changed)
			return nil
		})
	},
}

var goalShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show base goals and today's calorie goal",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withTracker(func(tracker *service.Tracker) error {
			printGoals(cmd.OutOrStdout(), tracker)
			return nil
		})
	},
}

func printGoals(w io.Writer, tracker *service.Tracker) {
	s := tracker.Settings()
	today := tracker.Today()
	fmt.Fprintf(w, "Calories: %.0f kcal\n", s.Goals.Calories)
	fmt.Fprintf(w, "Protein: %.1fg\nCarbs: %.1fg\nFat: %.1fg\n", s.Goals.Protein, s.Goals.Carbs, s.Goals.Fat)
	fmt.Fprintf(w, "Water: %.0f ml\n", s.Goals.Water)
	fmt.Fprintf(w, "Weekly balancing: %s\n", onOff(s.WeeklyBalancing))
	fmt.Fprintf(w, "Onboarding complete: %t\n", s.OnboardingComplete)
	fmt.Fprintf(w, "Today's calorie goal (%s): %.0f kcal\n", today, tracker.CalorieGoal(today))
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}

var onboardCmd = &cobra.Command{
	Use:   "onboard",
	Short: "Set starting goals and finish onboarding",
	Long:  "Sets any goals given as flags and marks onboarding complete. Adjusted weekly goals are only shown after onboarding.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withTracker(func(tracker *service.Tracker) error {
			goals, changed := goalsFromFlags(cmd, tracker.Settings().Goals)
			if changed > 0 {
				if err := tracker.SetBaseGoals(goals); err != nil {
					return err
				}
			}
			if err := tracker.CompleteOnboarding(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Onboarding complete")
			printGoals(cmd.OutOrStdout(), tracker)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(goalCmd, onboardCmd)
	goalCmd.AddCommand(goalSetCmd, goalShowCmd)
	registerGoalFlags(goalSetCmd)
	registerGoalFlags(onboardCmd)
}
