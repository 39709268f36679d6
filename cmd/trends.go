package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/lpdesign/prospector/pkg/trends"
)

var trendsRegion string

var trendsCmd = &cobra.Command{
	Use:   "trends <keyword>...",
	Short: "Look up search interest for keywords",
	Long:  "Queries Google Trends (via SerpAPI) for each keyword's interest over the last week. Needs trends.key configured.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("trends"); err != nil {
			return err
		}

		client := trends.NewClient(cfg.Trends.Key,
			trends.WithBaseURL(cfg.Trends.BaseURL),
			trends.WithHTTPClient(&http.Client{Timeout: time.Duration(cfg.Trends.TimeoutSecs) * time.Second}),
		)

		for _, keyword := range args {
			values, err := client.InterestOverTime(cmd.Context(), keyword, trendsRegion)
			if err != nil {
				return err
			}
			avg := trends.Average(values)
			// Rough volume estimate from relative interest.
			fmt.Printf("%s\tinteresse médio %.0f/100\t~%.0f buscas/dia\n", keyword, avg, avg*50)
		}
		return nil
	},
}

func init() {
	trendsCmd.Flags().StringVar(&trendsRegion, "region", "BR", "region code, e.g. BR or BR-ES")
	rootCmd.AddCommand(trendsCmd)
}
