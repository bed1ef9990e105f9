package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/spherical-ai/spherical/libs/move-estimator/internal/dictionary"
)

// newDictionaryCmd creates the dictionary command group.
func newDictionaryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dictionary",
		Short: "Inspect and publish the item dictionary",
	}
	cmd.AddCommand(newDictionaryListCmd())
	cmd.AddCommand(newDictionarySeedCmd())
	return cmd
}

func newDictionaryListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List dictionary entries in resolution order",
		RunE: func(cmd *cobra.Command, args []string) error {
			ui := newCommandUI(cmd)
			defer ui.Close()

			d, err := loadDictionary(cmd.Context(), ui)
			if err != nil {
				return err
			}

			if outputJSON {
				return ui.JSON(map[string]interface{}{
					"source":      cfg.Dictionary.Source,
					"fingerprint": d.Fingerprint(),
					"entries":     d.Entries(),
				})
			}

			rows := make([][]string, 0, d.Len())
			for i, e := range d.Entries() {
				rows = append(rows, []string{strconv.Itoa(i + 1), e.Name, formatUnitVolume(e.Volume)})
			}
			ui.Table([]string{"#", "NAME", "CU FT"}, rows)
			ui.Info("%d entries from %s (fingerprint %s)", d.Len(), cfg.Dictionary.Source, d.Fingerprint())
			return nil
		},
	}
}

func newDictionarySeedCmd() *cobra.Command {
	var (
		driver string
		dsn    string
		table  string
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Copy the configured dictionary into a SQL table",
		Long: `Seed replaces the contents of a SQL dictionary table with the configured
dictionary, keeping its order. Use it to publish the built-in table, or a
YAML/JSON file, to a shared SQLite or Postgres database.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ui := newCommandUI(cmd)
			defer ui.Close()

			if dsn == "" {
				return fmt.Errorf("--dsn is required")
			}

			d, err := loadDictionary(ctx, ui)
			if err != nil {
				return err
			}

			db, err := dictionary.OpenDB(dictionary.Dialect(driver), dsn)
			if err != nil {
				return err
			}
			defer db.Close()

			src, err := dictionary.NewSQLSource(db, dictionary.Dialect(driver), table)
			if err != nil {
				return err
			}

			bar := ui.SeedBar(d.Len(), "Seeding")
			if err := src.Replace(ctx, d, func(n int) { _ = bar.Set(n) }); err != nil {
				return fmt.Errorf("seed dictionary: %w", err)
			}
			_ = bar.Finish()

			logger.Info().Str("driver", driver).Str("table", table).Int("entries", d.Len()).Msg("Dictionary seeded")

			// Quotes in a shared cache were computed against the previous table.
			invalidated := false
			if cfg.Cache.Enabled && cfg.Cache.Driver == "redis" {
				if err := invalidateSharedQuotes(ctx); err != nil {
					logger.Warn().Err(err).Msg("Could not clear cached quotes")
				} else {
					invalidated = true
				}
			}

			if outputJSON {
				return ui.JSON(map[string]interface{}{
					"driver":            driver,
					"table":             table,
					"entries":           d.Len(),
					"fingerprint":       d.Fingerprint(),
					"quotesInvalidated": invalidated,
				})
			}
			ui.Success("Seeded %d entries into %s", d.Len(), table)
			if invalidated {
				ui.Info("Cleared cached quotes")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&driver, "driver", string(dictionary.DialectSQLite), "database driver: sqlite or postgres")
	cmd.Flags().StringVar(&dsn, "dsn", "", "database file (sqlite) or connection string (postgres)")
	cmd.Flags().StringVar(&table, "table", "dictionary_entries", "table name")
	return cmd
}
