package cli

import (
	"fmt"

	"github.com/alexanderramin/chronicle/internal/cli/formatter"
	"github.com/alexanderramin/chronicle/internal/domain"
	"github.com/alexanderramin/chronicle/internal/engine"
	"github.com/spf13/cobra"
)

// newMatchCmd previews the deterministic matching phase without touching the
// generator or the ledger. Useful for checking a snapshot before a full run.
func newMatchCmd(app *App) *cobra.Command {
	var snapshotPath string

	cmd := &cobra.Command{
		Use:   "match",
		Short: "Preview evidence matching for a snapshot (no generator calls)",
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, evidence, err := loadSnapshot(snapshotPath)
			if err != nil {
				return err
			}

			matcher := engine.NewMatcher(evidence, nil)
			results := make([]domain.MatchResult, 0, len(entries))
			for _, entry := range entries {
				results = append(results, matcher.Match(entry))
			}

			fmt.Printf("%s\n", formatter.FormatMatchPreview(results))
			return nil
		},
	}

	cmd.Flags().StringVar(&snapshotPath, "snapshot", "", "Snapshot JSON file with entries and evidence")
	_ = cmd.MarkFlagRequired("snapshot")

	return cmd
}
