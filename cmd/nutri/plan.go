package nutri

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/saadjs/nutri/internal/model"
	"github.com/saadjs/nutri/internal/service"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Plan meals ahead and log them when eaten",
}

var planAdd entryFlags

var planAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a planned food",
	RunE: func(cmd *cobra.Command, args []string) error {
		in, err := planAdd.input()
		if err != nil {
			return err
		}
		return withTracker(func(tracker *service.Tracker) error {
			e, err := tracker.AddPlanned(dateOrToday(planAdd.date, tracker), in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Planned entry %s\n", e.ID)
			return nil
		})
	},
}

var planDate string

var planListCmd = &cobra.Command{
	Use:   "list",
	Short: "List planned foods for a day",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withTracker(func(tracker *service.Tracker) error {
			date := dateOrToday(planDate, tracker)
			if _, err := service.ParseDateKey(date, nil); err != nil {
				return fmt.Errorf("invalid --date %q (expected YYYY-MM-DD)", date)
			}
			entries := tracker.Entries(model.LedgerPlan, date)
			printEntries(cmd.OutOrStdout(), entries)
			fmt.Fprintf(cmd.OutOrStdout(), "Total: %.0f kcal\n", service.Totals(entries).Calories)
			return nil
		})
	},
}

var planRemoveCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Remove a planned food",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withTracker(func(tracker *service.Tracker) error {
			if err := tracker.RemovePlanned(dateOrToday(planDate, tracker), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed planned entry %s\n", args[0])
			return nil
		})
	},
}

var planLogCmd = &cobra.Command{
	Use:   "log",
	Short: "Log every planned food for a day; the plan is kept",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withTracker(func(tracker *service.Tracker) error {
			date := dateOrToday(planDate, tracker)
			ids, err := tracker.LogPlan(date)
			if err != nil {
				return err
			}
			if len(ids) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "Nothing planned for %s\n", date)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged %d planned entries for %s\n", len(ids), date)
			return nil
		})
	},
}

var (
	suggestWeek    bool
	suggestDryRun  bool
	suggestTimeout time.Duration
)

var planSuggestCmd = &cobra.Command{
	Use:   "suggest",
	Short: "Ask Gemini for a meal plan near your goals and add it to the plan",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cliLogger(), func(s *session) error {
			estimator, err := newEstimator(s.cfg, s.logger)
			if err != nil {
				return err
			}
			start, err := service.ParseDateKey(dateOrToday(planDate, s.tracker), nil)
			if err != nil {
				return fmt.Errorf("invalid --date %q (expected YYYY-MM-DD)", planDate)
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), suggestTimeout)
			defer cancel()

			goals := s.tracker.Settings().Goals
			var plans []model.SuggestedPlan
			if suggestWeek {
				plans, err = estimator.SuggestWeekPlan(ctx, goals)
			} else {
				var plan model.SuggestedPlan
				plan, err = estimator.SuggestDayPlan(ctx, goals)
				plans = []model.SuggestedPlan{plan}
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for i, plan := range plans {
				date := service.DateKey(start.AddDate(0, 0, i))
				fmt.Fprintf(out, "%s\n", date)
				for _, mt := range model.MealTypes {
					for _, est := range plan[mt] {
						fmt.Fprintf(out, "  %s\t%s\t%s\t%.0f kcal\n", mt, est.Name, est.ServingSize, est.Calories)
					}
				}
				if suggestDryRun {
					continue
				}
				if _, err := s.tracker.ApplySuggestedPlan(date, plan); err != nil {
					return err
				}
			}
			if !suggestDryRun {
				fmt.Fprintf(out, "Added suggestions to the plan for %d day(s)\n", len(plans))
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(planCmd)
	planCmd.AddCommand(planAddCmd, planListCmd, planRemoveCmd, planLogCmd, planSuggestCmd)

	planAdd.register(planAddCmd)
	for _, c := range []*cobra.Command{planListCmd, planRemoveCmd, planLogCmd, planSuggestCmd} {
		c.Flags().StringVar(&planDate, "date", "", "Date YYYY-MM-DD (default today)")
	}
	planSuggestCmd.Flags().BoolVar(&suggestWeek, "week", false, "Suggest seven days starting at --date")
	planSuggestCmd.Flags().BoolVar(&suggestDryRun, "dry-run", false, "Print the suggestion without adding it")
	planSuggestCmd.Flags().DurationVar(&suggestTimeout, "timeout", 2*time.Minute, "Give up after this long")
}
