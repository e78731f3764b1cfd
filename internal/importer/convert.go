package importer

import (
	"strings"
	"time"

	"github.com/alexanderramin/chronicle/internal/domain"
	"github.com/alexanderramin/chronicle/internal/engine"
)

// Convert transforms a validated snapshot into domain objects ready for a
// run. Call ValidateSnapshot first; Convert assumes the schema is valid.
// Evidence order from the file is preserved, since matching and weighting
// depend on it.
func Convert(schema *SnapshotSchema) ([]domain.TimeEntry, []domain.EvidenceRecord) {
	entries := make([]domain.TimeEntry, 0, len(schema.Entries))
	for i, e := range schema.Entries {
		start, _ := time.Parse(time.RFC3339, e.Start)
		end, _ := time.Parse(time.RFC3339, e.End)

		hours := end.Sub(start).Hours()
		if e.Hours != nil {
			hours = *e.Hours
		}

		entries = append(entries, domain.TimeEntry{
			Index:       i,
			Description: strings.TrimSpace(e.Description),
			Start:       start,
			End:         end,
			Hours:       hours,
		})
	}

	evidence := make([]domain.EvidenceRecord, 0, len(schema.Evidence))
	for _, ev := range schema.Evidence {
		ts, _ := time.Parse(time.RFC3339, ev.Timestamp)

		rec := domain.EvidenceRecord{
			Kind:      domain.EvidenceKind(ev.Kind),
			ID:        ev.ID,
			Timestamp: ts,
			Text:      ev.Text,
		}
		if ev.LinesChanged != nil {
			rec.LinesChanged = *ev.LinesChanged
		}
		if ev.StoryPoints != nil {
			rec.StoryPoints = *ev.StoryPoints
		}

		// A ticket's own key is always one of its refs; commits carry the
		// keys mentioned in their messages.
		rec.Refs = engine.ExtractIdentifiers(ev.Text)
		if rec.Kind == domain.EvidenceTicket {
			rec.Refs = prependRef(rec.Refs, strings.ToUpper(ev.ID))
		}

		evidence = append(evidence, rec)
	}

	return entries, evidence
}

func prependRef(refs []string, key string) []string {
	for i, r := range refs {
		if r == key {
			if i == 0 {
				return refs
			}
			return append([]string{key}, append(refs[:i:i], refs[i+1:]...)...)
		}
	}
	return append([]string{key}, refs...)
}
