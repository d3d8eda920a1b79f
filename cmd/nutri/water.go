package nutri

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/saadjs/nutri/internal/service"
)

var waterCmd = &cobra.Command{
	Use:   "water",
	Short: "Track water intake",
}

var waterDate string

func changeWater(sign float64) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ml, err := parseFloatArg("amount", args[0])
		if err != nil {
			return err
		}
		if ml < 0 {
			return fmt.Errorf("amount must be >= 0")
		}
		return withTracker(func(tracker *service.Tracker) error {
			date := dateOrToday(waterDate, tracker)
			total, err := tracker.AddWater(date, sign*ml)
			if err != nil {
				return err
			}
			goal := tracker.Settings().Goals.Water
			fmt.Fprintf(cmd.OutOrStdout(), "Water on %s: %.0f / %.0f ml\n", date, total, goal)
			return nil
		})
	}
}

var waterAddCmd = &cobra.Command{
	Use:   "add <ml>",
	Short: "Add water in millilitres",
	Args:  cobra.ExactArgs(1),
	RunE:  changeWater(1),
}

var waterRemoveCmd = &cobra.Command{
	Use:   "rm <ml>",
	Short: "Remove water in millilitres (never below zero)",
	Args:  cobra.ExactArgs(1),
	RunE:  changeWater(-1),
}

func init() {
	rootCmd.AddCommand(waterCmd)
	waterCmd.AddCommand(waterAddCmd, waterRemoveCmd)
	waterCmd.PersistentFlags().StringVar(&waterDate, "date", "", "Date YYYY-MM-DD (default today)")
}
