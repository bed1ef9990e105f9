package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/spherical-ai/spherical/libs/move-estimator/internal/estimate"
)

// newBandsCmd creates the bands subcommand.
func newBandsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bands",
		Short: "Print the vehicle recommendation table",
		RunE: func(cmd *cobra.Command, args []string) error {
			ui := newCommandUI(cmd)
			defer ui.Close()

			bands, err := estimate.BandsFrom(cfg.Bands)
			if err != nil {
				return err
			}

			if outputJSON {
				return ui.JSON(bands)
			}

			rows := make([][]string, 0, len(bands))
			lower := 0.0
			for _, b := range bands {
				upTo := fmt.Sprintf("%s - %s", formatUnitVolume(lower), formatUnitVolume(b.MaxVolume))
				if b.Open() {
					upTo = fmt.Sprintf("over %s", formatUnitVolume(lower))
				}
				rows = append(rows, []string{upTo, b.Vehicle, strconv.Itoa(b.Crew)})
				lower = b.MaxVolume
			}
			ui.Table([]string{"CU FT", "VEHICLE", "CREW"}, rows)
			return nil
		},
	}
}
