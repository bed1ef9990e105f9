package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/spherical-ai/spherical/libs/move-estimator/internal/cache"
	"github.com/spherical-ai/spherical/libs/move-estimator/internal/dictionary"
	"github.com/spherical-ai/spherical/libs/move-estimator/internal/estimate"
)

func newCommandUI(cmd *cobra.Command) *UI {
	return NewUI(cmd.OutOrStdout(), outputJSON, noColor)
}

// loadDictionary opens the configured dictionary, with a spinner for database sources.
func loadDictionary(ctx context.Context, ui *UI) (*dictionary.Dictionary, error) {
	source := cfg.Dictionary.Source
	if source == "sqlite" || source == "postgres" {
		s := ui.Spinner(fmt.Sprintf("Loading dictionary from %s", source))
		defer s.Stop()
	}

	d, err := dictionary.Open(ctx, cfg.Dictionary)
	if err != nil {
		return nil, fmt.Errorf("load dictionary: %w", err)
	}

	logger.Debug().
		Str("source", source).
		Int("entries", d.Len()).
		Str("fingerprint", d.Fingerprint()).
		Msg("Dictionary loaded")
	return d, nil
}

func loadEstimator(ctx context.Context, ui *UI) (*estimate.Estimator, error) {
	d, err := loadDictionary(ctx, ui)
	if err != nil {
		return nil, err
	}
	opts, err := estimate.OptionsFrom(cfg)
	if err != nil {
		return nil, fmt.Errorf("estimator options: %w", err)
	}
	return estimate.New(d, opts, logger)
}

func invalidateSharedQuotes(ctx context.Context) error {
	client, err := cache.Open(ctx, cfg.Cache)
	if err != nil {
		return err
	}
	defer client.Close()
	return invalidateQuotes(ctx, client)
}

// invalidateQuotes drops every cached quote held by client.
func invalidateQuotes(ctx context.Context, client cache.Client) error {
	rc := estimate.NewResponseCache(client, logger, estimate.ResponseCacheConfig{
		TTL:     cfg.Cache.TTL,
		Enabled: true,
	})
	return rc.Invalidate(ctx)
}

// readInventory reads and joins the given files, or stdin when there are none.
func readInventory(in io.Reader, paths []string) (string, error) {
	if len(paths) == 0 {
		data, err := io.ReadAll(in)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}

	parts := make([]string, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return "", fmt.Errorf("read %s: %w", p, err)
		}
		parts = append(parts, string(data))
	}
	return strings.Join(parts, "\n"), nil
}

func formatVolume(v float64) string {
	return fmt.Sprintf("%.0f", estimate.RoundVolume(v))
}

func formatUnitVolume(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.2f", v)
}
