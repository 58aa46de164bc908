package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Adda-Baaj/news-digest/internal/crawler"
	"github.com/Adda-Baaj/news-digest/internal/delivery"
	"github.com/Adda-Baaj/news-digest/internal/domain"
)

var streamCmd = &cobra.Command{
	Use:   "stream [urls...]",
	Short: "Scrape article URLs and print progress as server-sent events",
	Args:  cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx, cfg, log, false)
		if err != nil {
			return err
		}
		defer a.Close()

		events, err := a.scraper.Stream(ctx, args)
		if errors.Is(err, domain.ErrNoURLs) {
			return fmt.Errorf("no URLs submitted: pass one or more article URLs")
		}
		if err != nil {
			return err
		}

		var failed error
		out := cmd.OutOrStdout()
		for ev := range events {
			if ev.Status == crawler.StatusError {
				failed = ev.Err
			}
			if err := delivery.WriteSSE(out, ev); err != nil {
				return err
			}
		}
		return failed
	},
}

func init() {
	rootCmd.AddCommand(streamCmd)
}
