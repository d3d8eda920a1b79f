package nutri

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/saadjs/nutri/internal/service"
)

var todayDate string

var todayCmd = &cobra.Command{
	Use:   "today",
	Short: "Show a day's intake, plan, water and goal status",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withTracker(func(tracker *service.Tracker) error {
			day, err := tracker.Day(dateOrToday(todayDate, tracker))
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Date: %s\n", day.Date)
			fmt.Fprintf(out, "Intake: %.0f kcal\n", day.Totals.Calories)
			fmt.Fprintf(out, "Macros: P %.1fg | C %.1fg | F %.1fg\n", day.Totals.Protein, day.Totals.Carbs, day.Totals.Fat)
			goal := fmt.Sprintf("%.0f kcal", day.CalorieGoal)
			if day.Adjusted {
				goal += fmt.Sprintf(" (adjusted from %.0f)", day.Goals.Calories)
			}
			fmt.Fprintf(out, "Goal: %s | P %.1fg | C %.1fg | F %.1fg\n", goal, day.Goals.Protein, day.Goals.Carbs, day.Goals.Fat)
			fmt.Fprintf(out, "Remaining: %.0f kcal\n", day.CalorieGoal-day.Totals.Calories)
			fmt.Fprintf(out, "Status: %s | P %s | C %s | F %s\n", day.Status, day.MacroStatus.Protein, day.MacroStatus.Carbs, day.MacroStatus.Fat)
			fmt.Fprintf(out, "Water: %.0f / %.0f ml\n", day.Water, day.Goals.Water)
			if len(day.Entries) > 0 {
				fmt.Fprintln(out)
				printEntries(out, day.Entries)
			}
			if len(day.Planned) > 0 {
				fmt.Fprintf(out, "\nPlanned: %.0f kcal\n", day.PlannedTotals.Calories)
				printEntries(out, day.Planned)
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(todayCmd)
	todayCmd.Flags().StringVar(&todayDate, "date", "", "Date YYYY-MM-DD (default today)")
}
