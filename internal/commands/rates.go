// Finpick - Personal Finance Product Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finpick

package commands

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
)

const dayLayout = "2006-01-02"

// compactDayLayout is the form Koreaexim uses for searchdate.
const compactDayLayout = "20060102"

func newRatesCommand(open Opener) *cobra.Command {
	var date string
	var days int

	cmd := &cobra.Command{
		Use:   "rates",
		Short: "Record Koreaexim exchange rates into history",
		Long:  "Fetch the published rate table for a day (default today) and store it.\nWith --days, backfill that many calendar days ending at --date.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			end, err := parseDay(date, time.Now())
			if err != nil {
				return err
			}
			return withServices(open, func(svc *Services) error {
				return runRates(cmd.Context(), svc.Rates, end, days, cmd.OutOrStdout())
			})
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "day to record, YYYY-MM-DD or YYYYMMDD (default today)")
	cmd.Flags().IntVar(&days, "days", 1, "number of days to record, ending at --date")

	return cmd
}

func parseDay(value string, now time.Time) (time.Time, error) {
	if value == "" {
		return now, nil
	}
	for _, layout := range []string{dayLayout, compactDayLayout} {
		if day, err := time.Parse(layout, value); err == nil {
			return day, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid --date %q: want YYYY-MM-DD or YYYYMMDD", value)
}

// runRates records days calendar days ending at end, oldest first.
// Weekends record zero rates and are not errors.
func runRates(ctx context.Context, rates RateRecorder, end time.Time, days int, out io.Writer) error {
	if days < 1 || days > 366 {
		return fmt.Errorf("--days must be between 1 and 366, got %d", days)
	}

	total := 0
	for i := days - 1; i >= 0; i-- {
		day := end.AddDate(0, 0, -i)
		n, err := rates.Record(ctx, day)
		if err != nil {
			return fmt.Errorf("record %s: %w", day.Format(dayLayout), err)
		}
		total += n
		if _, err := fmt.Fprintf(out, "%s: %d rates\n", day.Format(dayLayout), n); err != nil {
			return err
		}
	}
	if days > 1 {
		_, err := fmt.Fprintf(out, "total: %d rates over %d days\n", total, days)
		return err
	}
	return nil
}
