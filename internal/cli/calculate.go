package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/woolshed/flockmark/internal/app"
	"github.com/woolshed/flockmark/internal/config"
	"github.com/woolshed/flockmark/internal/domain/model"
	"github.com/woolshed/flockmark/internal/importer"
	"github.com/woolshed/flockmark/pkg/logger"
)

var calculateFlags struct {
	batches    []string
	rubricPath string
	workers    int
	out        string
}

var calculateCmd = &cobra.Command{
	Use:   "calculate",
	Short: "Fuse and score CSV batches without running the service",
	Long: `calculate reads event batches from CSV files, fuses them into one
animal list, scores every animal, and writes the scored list as JSON.

Batches are given as type=path pairs, for example:

  flockmark calculate \
    --batch registrations=reg.csv \
    --batch w1=weights1.csv \
    --batch w2=weights2.csv`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return calculate(cmd.Context())
	},
}

func init() {
	calculateCmd.Flags().StringArrayVar(&calculateFlags.batches, "batch", nil, "batch as type=path (repeatable)")
	calculateCmd.Flags().StringVar(&calculateFlags.rubricPath, "rubric", "", "rubric YAML file (default: built-in rubric)")
	calculateCmd.Flags().IntVar(&calculateFlags.workers, "workers", 0, "scoring workers (default: CPU count)")
	calculateCmd.Flags().StringVar(&calculateFlags.out, "out", "-", "output file, - for stdout")
	_ = calculateCmd.MarkFlagRequired("batch")
	rootCmd.AddCommand(calculateCmd)
}

func calculate(ctx context.Context) error {
	if err := logger.Init(); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	opts := []app.Option{
		app.WithWorkerCount(calculateFlags.workers),
	}
	if calculateFlags.rubricPath != "" {
		rubric, err := config.LoadRubric(calculateFlags.rubricPath)
		if err != nil {
			return fmt.Errorf("load rubric: %w", err)
		}
		opts = append(opts, app.WithRubric(rubric))
	}

	service := app.New(opts...)
	if err := service.Start(ctx); err != nil {
		return fmt.Errorf("start service: %w", err)
	}
	defer service.Stop()

	for _, pair := range calculateFlags.batches {
		batch, path, ok := strings.Cut(pair, "=")
		if !ok {
			return fmt.Errorf("invalid batch %q, expected type=path", pair)
		}
		records, err := readBatchFile(model.BatchType(batch), path)
		if err != nil {
			return err
		}
		if err := service.LoadBatch(ctx, model.BatchType(batch), records); err != nil {
			return err
		}
	}

	stats, err := service.Calculate(ctx)
	if err != nil {
		return fmt.Errorf("calculate: %w", err)
	}
	fmt.Fprintf(os.Stderr, "records=%d animals=%d dropped=%d\n", stats.Records, stats.Animals, stats.Dropped)

	out := os.Stdout
	if calculateFlags.out != "-" {
		f, err := os.Create(calculateFlags.out)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer f.Close()
		out = f
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(service.Animals(ctx))
}

func readBatchFile(batch model.BatchType, path string) ([]model.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open batch %s: %w", batch, err)
	}
	defer f.Close()

	records, err := importer.ReadCSV(batch, f)
	if err != nil {
		return nil, fmt.Errorf("read batch %s: %w", batch, err)
	}
	return records, nil
}
