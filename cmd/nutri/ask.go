package nutri

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var askTimeout time.Duration

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask the nutrition assistant a question",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		question := strings.Join(args, " ")
		return withSession(cliLogger(), func(s *session) error {
			estimator, err := newEstimator(s.cfg, s.logger)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), askTimeout)
			defer cancel()

			reply, err := estimator.Chat(ctx, nil, question)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), reply)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(askCmd)
	askCmd.Flags().DurationVar(&askTimeout, "timeout", time.Minute, "Give up after this long")
}
