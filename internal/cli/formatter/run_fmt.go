package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/chronicle/internal/domain"
	"github.com/alexanderramin/chronicle/internal/service"
)

// FormatRunSummary renders the outcome of a reconciliation run: counters,
// token usage, and one table row per final work item.
func FormatRunSummary(result *service.RunResult) string {
	var b strings.Builder

	b.WriteString(Header("run summary"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("Entries: %d   Exact: %d   Semantic: %d   Decomposed groups: %d\n",
		result.EntryCount, result.ExactMatched, result.SemanticResolved, result.GroupsDecomposed))
	b.WriteString(fmt.Sprintf("Work items: %d   Skipped (ledgered): %d   Batches enriched: %d\n",
		result.WorkItemCount, result.SkippedLedgered, result.BatchesEnriched))
	b.WriteString(Dim(fmt.Sprintf("Generator: %d calls, %d tokens\n",
		result.Usage.Calls, result.Usage.TotalTokens())))
	b.WriteString("\n")

	rows := make([][]string, 0, len(result.Items))
	for _, item := range result.Items {
		rows = append(rows, []string{
			item.Item.Key.String(),
			formatWindow(item.Window),
			FormatHours(item.Item.Hours),
			ConfidencePill(item.Confidence),
			itemStatus(item),
			item.Description,
		})
	}
	b.WriteString(RenderTable(
		[]string{"Key", "Window", "Hours", "Confidence", "Status", "Description"},
		rows,
	))
	return b.String()
}

// FormatLedgerList renders ledger records as a table.
func FormatLedgerList(records []*domain.LedgerRecord) string {
	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		rows = append(rows, []string{
			rec.Key.String(),
			ConfidencePill(rec.Confidence),
			Dim(rec.Model),
			rec.CreatedAt.Format("2006-01-02 15:04"),
			rec.Description,
		})
	}
	return RenderTable(
		[]string{"Key", "Confidence", "Model", "Recorded", "Description"},
		rows,
	)
}

// FormatMatchPreview renders deterministic match results, one row per entry.
func FormatMatchPreview(results []domain.MatchResult) string {
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		ids := strings.Join(r.Identifiers, ", ")
		if ids == "" {
			ids = Dim("--")
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", r.Entry.Index),
			r.Entry.Date(),
			FormatHours(r.Entry.Hours),
			ids,
			fmt.Sprintf("%d", len(r.Evidence)),
			PhasePill(r.Phase),
			ConfidencePill(r.Confidence),
			r.Entry.Description,
		})
	}
	return RenderTable(
		[]string{"#", "Date", "Hours", "Identifiers", "Evidence", "Phase", "Confidence", "Description"},
		rows,
	)
}

// FormatHours renders fractional hours compactly: "1h", "0.5h", "2.25h".
func FormatHours(h float64) string {
	s := fmt.Sprintf("%.2f", h)
	s = strings.TrimRight(s, "0")
	s = strings.TrimRight(s, ".")
	return s + "h"
}

func formatWindow(w domain.TimeWindow) string {
	return fmt.Sprintf("%s–%s", w.Start.Format("15:04"), w.End.Format("15:04"))
}

func itemStatus(item service.FinalItem) string {
	switch {
	case item.Pending:
		return StyleYellow.Render("pending")
	case item.FromLedger:
		return Dim("ledgered")
	default:
		return StyleGreen.Render("enriched")
	}
}
