package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/quizdeck/internal/cli"
	"github.com/at-ishikawa/quizdeck/internal/history"
)

func newStatsCommand() *cobra.Command {
	var month string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show daily and monthly solve statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			filterYear, filterMonth, err := parseMonthFilter(month)
			if err != nil {
				return err
			}

			records, err := history.NewStore(cfg.Deck.HistoryFile).Load()
			if err != nil && !errors.Is(err, history.ErrNotFound) {
				return fmt.Errorf("load history: %w", err)
			}

			cli.RunStatsReport(cmd.OutOrStdout(), records, filterYear, filterMonth)
			return nil
		},
	}

	cmd.Flags().StringVar(&month, "month", "", "filter by month (yyyy-MM)")
	return cmd
}

func parseMonthFilter(value string) (int, int, error) {
	if value == "" {
		return 0, 0, nil
	}
	parts := strings.SplitN(value, "-", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid month filter %q, want yyyy-MM", value)
	}
	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid year in month filter %q", value)
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil || month < 1 || month > 12 {
		return 0, 0, fmt.Errorf("invalid month in month filter %q", value)
	}
	return year, month, nil
}
