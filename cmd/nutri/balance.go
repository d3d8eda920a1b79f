package nutri

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/saadjs/nutri/internal/service"
)

var balanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "Spread calorie surplus or deficit over the rest of the week",
}

func setBalancing(enabled bool) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		return withTracker(func(tracker *service.Tracker) error {
			if err := tracker.SetWeeklyBalancing(enabled); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Weekly balancing %s\n", onOff(enabled))
			return nil
		})
	}
}

var balanceOnCmd = &cobra.Command{
	Use:   "on",
	Short: "Enable weekly balancing",
	RunE:  setBalancing(true),
}

var balanceOffCmd = &cobra.Command{
	Use:   "off",
	Short: "Disable weekly balancing and clear adjustments",
	RunE:  setBalancing(false),
}

var balanceShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show this week's adjusted calorie goals",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withTracker(func(tracker *service.Tracker) error {
			s := tracker.Settings()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Weekly balancing: %s\n", onOff(s.WeeklyBalancing))
			adj := tracker.Adjustments()
			if len(adj) == 0 {
				fmt.Fprintln(out, "No adjustments")
				return nil
			}
			if !s.OnboardingComplete {
				fmt.Fprintln(out, "Adjustments are applied once onboarding is complete")
			}
			keys := make([]string, 0, len(adj))
			for k := range adj {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintln(out, "DATE\tGOAL\tBASE")
			for _, k := range keys {
				fmt.Fprintf(out, "%s\t%.0f\t%.0f\n", k, adj[k], s.Goals.Calories)
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(balanceCmd)
	balanceCmd.AddCommand(balanceOnCmd, balanceOffCmd, balanceShowCmd)
}
