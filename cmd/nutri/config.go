package nutri

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show nutri configuration",
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show environment settings and stored values",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cliLogger(), func(s *session) error {
			out := cmd.OutOrStdout()
			cfg := s.cfg
			fmt.Fprintf(out, "db_path=%s\n", cfg.DBPath)
			fmt.Fprintf(out, "port=%s\n", cfg.Port)
			fmt.Fprintf(out, "log_level=%s\n", cfg.LogLevel)
			fmt.Fprintf(out, "gemini_api_key=%s\n", maskSecret(cfg.GeminiAPIKey))
			fmt.Fprintf(out, "gemini_model=%s\n", cfg.GeminiModel)
			fmt.Fprintf(out, "gemini_base_url=%s\n", cfg.GeminiBaseURL)
			fmt.Fprintf(out, "openfoodfacts_base_url=%s\n", cfg.FoodDBBaseURL)
			fmt.Fprintf(out, "share_base_url=%s\n", cfg.ShareBaseURL)
			fmt.Fprintf(out, "search_cache_size=%d\n", cfg.SearchCacheSize)
			fmt.Fprintf(out, "search_cache_ttl=%s\n", cfg.SearchCacheTTL)

			stored, err := s.repo.ListScalars()
			if err != nil {
				return err
			}
			keys := make([]string, 0, len(stored))
			for k := range stored {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				fmt.Fprintf(out, "%s=%s\n", k, stored[k])
			}
			return nil
		})
	},
}

func maskSecret(v string) string {
	switch {
	case v == "":
		return "(not set)"
	case len(v) <= 4:
		return "****"
	default:
		return "****" + v[len(v)-4:]
	}
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configListCmd)
}
