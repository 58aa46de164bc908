package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Adda-Baaj/news-digest/internal/config"
	"github.com/Adda-Baaj/news-digest/internal/logger"
)

var (
	cfg        *config.Config
	log        logger.Logger
	configPath string
)

var rootCmd = &cobra.Command{
	Use:   "newsdigest",
	Short: "Scrape and summarize technology news articles",
	Long:  "Fetches articles from supported news sites, extracts title, date and body, and condenses the body into a two-line summary.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		l, err := logger.New(logger.Options{Level: cfg.Log.Level, Format: cfg.Log.Format})
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		log = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if log != nil {
			_ = log.Sync()
		}
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ./newsdigest.yaml if present)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
