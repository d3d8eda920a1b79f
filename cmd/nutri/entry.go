package nutri

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/saadjs/nutri/internal/model"
	"github.com/saadjs/nutri/internal/service"
)

var entryCmd = &cobra.Command{
	Use:   "entry",
	Short: "Manage logged food entries",
}

var entryAdd entryFlags

var entryAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Log a food entry",
	RunE: func(cmd *cobra.Command, args []string) error {
		in, err := entryAdd.input()
		if err != nil {
			return err
		}
		return withTracker(func(tracker *service.Tracker) error {
			e, err := tracker.AddFood(dateOrToday(entryAdd.date, tracker), in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added entry %s\n", e.ID)
			return nil
		})
	},
}

var listDate string

var entryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List logged entries for a day",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withTracker(func(tracker *service.Tracker) error {
			day, err := tracker.Day(dateOrToday(listDate, tracker))
			if err != nil {
				return err
			}
			printEntries(cmd.OutOrStdout(), day.Entries)
			return nil
		})
	},
}

var (
	updateDate     string
	updateQuantity float64
	updateMeal     string
)

var entryUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Change the quantity or meal type of a logged entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var upd service.EntryUpdate
		if cmd.Flags().Changed("quantity") {
			q := updateQuantity
			upd.Quantity = &q
		}
		if cmd.Flags().Changed("meal") {
			mt, err := parseMealType(updateMeal)
			if err != nil {
				return err
			}
			upd.MealType = &mt
		}
		if upd.Quantity == nil && upd.MealType == nil {
			return fmt.Errorf("set --quantity and/or --meal")
		}
		return withTracker(func(tracker *service.Tracker) error {
			e, err := tracker.UpdateFood(dateOrToday(updateDate, tracker), args[0], upd)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated entry %s (%s x%g)\n", e.ID, e.MealType, e.Quantity)
			return nil
		})
	},
}

var removeDate string

var entryRemoveCmd = &cobra.Command{
	Use:     "rm <id>",
	Aliases: []string{"delete"},
	Short:   "Remove a logged entry",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withTracker(func(tracker *service.Tracker) error {
			if err := tracker.RemoveFood(dateOrToday(removeDate, tracker), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed entry %s\n", args[0])
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(entryCmd)
	entryCmd.AddCommand(entryAddCmd, entryListCmd, entryUpdateCmd, entryRemoveCmd)

	entryAdd.register(entryAddCmd)
	entryListCmd.Flags().StringVar(&listDate, "date", "", "Date YYYY-MM-DD (default today)")

	entryUpdateCmd.Flags().StringVar(&updateDate, "date", "", "Date of the entry YYYY-MM-DD (default today)")
	entryUpdateCmd.Flags().Float64Var(&updateQuantity, "quantity", 1, "New number of servings")
	entryUpdateCmd.Flags().StringVar(&updateMeal, "meal", string(model.MealSnack), "New meal type")

	entryRemoveCmd.Flags().StringVar(&removeDate, "date", "", "Date of the entry YYYY-MM-DD (default today)")
}
