package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/finsight/kpiscan/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "kpiscan",
	Short: "Operational KPI extraction from financial documents",
	Long:  "Extracts operational metrics (subscribers, store counts, ARPU, active users, gaming revenue, headcount) from earnings releases, transcripts, and filings using a declarative pattern catalog.",
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
