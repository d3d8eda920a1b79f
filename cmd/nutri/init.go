package nutri

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/saadjs/nutri/internal/app"
	"github.com/saadjs/nutri/internal/db"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize local nutri database",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := resolveDBPath()
		if err != nil {
			return err
		}
		if err := app.EnsureDBDir(path); err != nil {
			return err
		}
		if err := db.ApplyMigrations(path); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Initialized nutri database at %s\n", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
