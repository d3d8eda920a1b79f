package nutri

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/saadjs/nutri/internal/service"
)

var progressView string

const progressBarWidth = 30

var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Show the last seven days against your goals",
	RunE: func(cmd *cobra.Command, args []string) error {
		view, err := service.ParseProgressView(progressView)
		if err != nil {
			return err
		}
		return withTracker(func(tracker *service.Tracker) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "DATE\tDAY\t%s\tGOAL\t%%\tSTATUS\n", strings.ToUpper(string(view)))
			for _, p := range tracker.Progress(view) {
				bar := strings.Repeat("#", int(p.Percent/150*progressBarWidth))
				fmt.Fprintf(out, "%s\t%s\t%.0f\t%.0f\t%.0f\t%s\t%s\n", p.Date, p.Label, p.Intake, p.Goal, p.Percent, p.Status, bar)
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(progressCmd)
	progressCmd.Flags().StringVar(&progressView, "view", "calories", "calories, protein, carbs or fat")
}
