package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/alexanderramin/chronicle/internal/cli/formatter"
	"github.com/alexanderramin/chronicle/internal/domain"
	"github.com/alexanderramin/chronicle/internal/importer"
	"github.com/alexanderramin/chronicle/internal/service"
	"github.com/spf13/cobra"
)

func newRunCmd(app *App) *cobra.Command {
	var (
		snapshotPath string
		batchSize    int
		patterns     bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a full reconciliation over a snapshot file",
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, evidence, err := loadSnapshot(snapshotPath)
			if err != nil {
				return err
			}

			if batchSize == 0 {
				batchSize = batchSizeFromEnv()
			}

			result, err := app.Reconcile.Run(context.Background(), service.RunRequest{
				Entries:          entries,
				Evidence:         evidence,
				BatchSize:        batchSize,
				DiscoverPatterns: patterns,
			})
			if err != nil {
				return err
			}

			fmt.Printf("%s\n", formatter.FormatRunSummary(result))
			return nil
		},
	}

	cmd.Flags().StringVar(&snapshotPath, "snapshot", "", "Snapshot JSON file with entries and evidence")
	cmd.Flags().IntVar(&batchSize, "batch-size", 0, "Enrichment batch size (default 10)")
	cmd.Flags().BoolVar(&patterns, "patterns", false, "Discover shorthand ticket prefixes before matching")
	_ = cmd.MarkFlagRequired("snapshot")

	return cmd
}

// batchSizeFromEnv reads CHRONICLE_BATCH_SIZE; 0 lets the engine default win.
func batchSizeFromEnv() int {
	v := os.Getenv("CHRONICLE_BATCH_SIZE")
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0
	}
	return n
}

func loadSnapshot(path string) ([]domain.TimeEntry, []domain.EvidenceRecord, error) {
	schema, err := importer.LoadSnapshot(path)
	if err != nil {
		return nil, nil, fmt.Errorf("loading snapshot: %w", err)
	}
	if errs := importer.ValidateSnapshot(schema); len(errs) > 0 {
		msg := fmt.Sprintf("snapshot validation failed (%d errors):", len(errs))
		for _, e := range errs {
			msg += "\n  - " + e.Error()
		}
		return nil, nil, fmt.Errorf("%s", msg)
	}
	entries, evidence := importer.Convert(schema)
	return entries, evidence, nil
}
