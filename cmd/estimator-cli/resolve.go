package main

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/spherical-ai/spherical/libs/move-estimator/internal/estimate"
)

type resolveOutput struct {
	Phrase     string              `json:"phrase"`
	Normalized string              `json:"normalized"`
	Quantity   int                 `json:"quantity"`
	Residual   string              `json:"residual"`
	Items      []estimate.LineItem `json:"items"`
	Match      *estimate.Match     `json:"match,omitempty"`
}

// newResolveCmd creates the resolve subcommand.
func newResolveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <phrase>",
		Short: "Show how a phrase is interpreted",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ui := newCommandUI(cmd)
			defer ui.Close()

			est, err := loadEstimator(cmd.Context(), ui)
			if err != nil {
				return err
			}

			phrase := strings.Join(args, " ")
			normalized := estimate.Normalize(phrase)
			qty := estimate.ExtractQuantity(normalized)
			out := resolveOutput{
				Phrase:     phrase,
				Normalized: normalized,
				Quantity:   qty.Value,
				Residual:   qty.Residual(normalized),
				Items:      estimate.NewParser(est.Resolver(), estimate.ParserConfigFrom(cfg.Estimate)).ParseEntry(phrase),
			}
			if m, ok := est.Resolver().Resolve(out.Residual); ok {
				out.Match = &m
			}

			if outputJSON {
				return ui.JSON(out)
			}

			ui.Step("normalized: %q", out.Normalized)
			ui.Step("quantity:   %d (%s)", qty.Value, qty.Method)
			ui.Step("residual:   %q", out.Residual)
			if out.Match != nil {
				ui.Success("%s (%s cu ft) via %s, distance %d", out.Match.Key, formatUnitVolume(out.Match.Volume), out.Match.Layer, out.Match.Distance)
			} else {
				ui.Warning("no dictionary match")
			}

			rows := make([][]string, 0, len(out.Items))
			for _, item := range out.Items {
				rows = append(rows, []string{item.Name, strconv.Itoa(item.Quantity), formatUnitVolume(item.UnitVolume), string(item.Kind)})
			}
			ui.Section("Line items")
			ui.Table([]string{"ITEM", "QTY", "UNIT", "HOW"}, rows)
			return nil
		},
	}
}
