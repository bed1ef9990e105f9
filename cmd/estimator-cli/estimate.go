package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/spherical-ai/spherical/libs/move-estimator/internal/estimate"
)

type quoteOutput struct {
	Source             string  `json:"source,omitempty"`
	RoundedTotalVolume float64 `json:"roundedTotalVolume"`
	*estimate.Quote
}

// newEstimateCmd creates the estimate subcommand.
func newEstimateCmd() *cobra.Command {
	var batch bool

	cmd := &cobra.Command{
		Use:   "estimate [file...]",
		Short: "Estimate the volume of an inventory",
		Long: `Estimate reads an inventory from the given files, or from stdin when no file
is given, and prints the breakdown, total volume and recommended vehicle.

With --batch every file is quoted separately.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
			defer cancel()

			ui := newCommandUI(cmd)
			defer ui.Close()

			est, err := loadEstimator(ctx, ui)
			if err != nil {
				return err
			}

			if batch {
				if len(args) == 0 {
					return fmt.Errorf("--batch needs at least one file")
				}
				return runBatch(ctx, ui, est, args)
			}

			text, err := readInventory(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}

			q, err := est.Estimate(ctx, text)
			if err != nil {
				return fmt.Errorf("estimate: %w", err)
			}

			if outputJSON {
				return ui.JSON(quoteOutput{RoundedTotalVolume: q.RoundedTotal(), Quote: q})
			}
			printQuote(ui, q)
			return nil
		},
	}

	cmd.Flags().BoolVar(&batch, "batch", false, "quote each file separately")
	return cmd
}

func runBatch(ctx context.Context, ui *UI, est *estimate.Estimator, paths []string) error {
	bar := ui.ProgressBar("Quoting", int64(len(paths)))

	results := make([]quoteOutput, 0, len(paths))
	for _, p := range paths {
		text, err := readInventory(nil, []string{p})
		if err != nil {
			return err
		}
		q, err := est.Estimate(ctx, text)
		if err != nil {
			return fmt.Errorf("estimate %s: %w", p, err)
		}
		results = append(results, quoteOutput{Source: p, RoundedTotalVolume: q.RoundedTotal(), Quote: q})
		logger.Debug().Str("file", p).Str("summary", estimate.Describe(q)).Msg("Quoted")

		if bar != nil {
			bar.Increment()
		}
	}

	if outputJSON {
		return ui.JSON(results)
	}

	rows := make([][]string, 0, len(results))
	for _, r := range results {
		rows = append(rows, []string{
			filepath.Base(r.Source),
			formatVolume(r.TotalVolume),
			r.Recommendation.Vehicle,
			strconv.Itoa(r.Recommendation.Crew),
			strconv.Itoa(len(r.Unmatched)),
		})
	}
	ui.Section("Batch")
	ui.Table([]string{"FILE", "CU FT", "VEHICLE", "CREW", "UNMATCHED"}, rows)
	ui.Success("Quoted %d inventories", len(results))
	return nil
}

func printQuote(ui *UI, q *estimate.Quote) {
	rows := make([][]string, 0, len(q.Breakdown))
	for _, b := range q.Breakdown {
		rows = append(rows, []string{
			b.Name,
			strconv.Itoa(b.Quantity),
			formatUnitVolume(b.UnitVolume),
			formatUnitVolume(b.TotalVolume),
			string(b.Kind),
		})
	}

	ui.Section("Breakdown")
	ui.Table([]string{"ITEM", "QTY", "UNIT", "TOTAL", "HOW"}, rows)

	ui.Section("Quote")
	ui.Success("Total volume: %s cu ft", formatVolume(q.TotalVolume))
	ui.Info("Vehicle: %s, crew of %d", q.Recommendation.Vehicle, q.Recommendation.Crew)
	if q.Price != nil {
		ui.Info("Estimated price: %.2f %s", q.Price.Amount, q.Price.Currency)
	}
	for _, u := range q.Unmatched {
		ui.Warning("Not recognised, counted as a guess: %s", u)
	}
}
