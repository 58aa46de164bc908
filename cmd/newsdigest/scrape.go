package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Adda-Baaj/news-digest/internal/delivery"
	"github.com/Adda-Baaj/news-digest/internal/domain"
)

var (
	scrapeFormat  string
	scrapePublish bool
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape [urls...]",
	Short: "Scrape a batch of article URLs and print the digest",
	Args:  cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		format := strings.ToLower(scrapeFormat)
		if format != "json" && format != "text" {
			return fmt.Errorf("unknown --format %q (want json or text)", scrapeFormat)
		}

		ctx := cmd.Context()
		a, err := newApp(ctx, cfg, log, scrapePublish)
		if err != nil {
			return err
		}
		defer a.Close()

		outcomes, batchErr := a.scraper.ScrapeBatch(ctx, args)
		if errors.Is(batchErr, domain.ErrNoURLs) {
			return fmt.Errorf("no URLs submitted: pass one or more article URLs")
		}

		out := cmd.OutOrStdout()
		if format == "json" {
			err = delivery.WriteJSON(out, outcomes, batchErr)
		} else {
			err = delivery.WriteText(out, outcomes, batchErr)
		}
		if err != nil {
			return err
		}

		if a.dispatcher != nil {
			a.dispatcher.Dispatch(ctx, outcomes)
		}

		return batchErr
	},
}

func init() {
	scrapeCmd.Flags().StringVar(&scrapeFormat, "format", "text", "output format: json or text")
	scrapeCmd.Flags().BoolVar(&scrapePublish, "publish", false, "publish extracted articles to the configured publishers")
	rootCmd.AddCommand(scrapeCmd)
}
