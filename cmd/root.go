package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lpdesign/prospector/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "prospector",
	Short: "Local business lead prospecting",
	Long:  "Finds local businesses via OpenStreetMap, checks their digital presence, scores each one as a design/marketing opportunity, and prepares WhatsApp outreach.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
