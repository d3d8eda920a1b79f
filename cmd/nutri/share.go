package nutri

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/saadjs/nutri/internal/share"
)

var (
	shareDate    string
	shareBaseURL string
)

var shareCmd = &cobra.Command{
	Use:   "share",
	Short: "Print a shareable link for a day's summary",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cliLogger(), func(s *session) error {
			summary, err := s.tracker.Summary(dateOrToday(shareDate, s.tracker))
			if err != nil {
				return err
			}
			base := s.cfg.ShareBaseURL
			if shareBaseURL != "" {
				base = shareBaseURL
			}
			link, err := share.Link(base, summary)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), link)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(shareCmd)
	shareCmd.Flags().StringVar(&shareDate, "date", "", "Date YYYY-MM-DD (default today)")
	shareCmd.Flags().StringVar(&shareBaseURL, "base-url", "", "Override SHARE_BASE_URL")
}
