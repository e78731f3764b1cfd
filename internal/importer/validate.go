package importer

import (
	"fmt"
	"math"
	"time"

	"github.com/alexanderramin/chronicle/internal/domain"
)

// hoursTolerance is the accepted drift between a declared duration and the
// entry's start/end window, in hours.
const hoursTolerance = 1e-6

// ValidateSnapshot checks the snapshot for errors before conversion.
// Returns a slice of all validation errors found.
func ValidateSnapshot(schema *SnapshotSchema) []error {
	var errs []error
	errs = append(errs, validateEntries(schema.Entries)...)
	errs = append(errs, validateEvidence(schema.Evidence)...)
	return errs
}

func validateEntries(entries []EntryImport) []error {
	var errs []error

	if len(entries) == 0 {
		errs = append(errs, fmt.Errorf("entries: at least one entry is required"))
	}

	for i, e := range entries {
		start, err := time.Parse(time.RFC3339, e.Start)
		if err != nil {
			errs = append(errs, fmt.Errorf("entries[%d].start: invalid timestamp %q (expected RFC3339)", i, e.Start))
		}
		end, err2 := time.Parse(time.RFC3339, e.End)
		if err2 != nil {
			errs = append(errs, fmt.Errorf("entries[%d].end: invalid timestamp %q (expected RFC3339)", i, e.End))
		}
		if err != nil || err2 != nil {
			continue
		}

		if !end.After(start) {
			errs = append(errs, fmt.Errorf("entries[%d]: end %q must be after start %q", i, e.End, e.Start))
			continue
		}
		if e.Hours != nil {
			if *e.Hours <= 0 {
				errs = append(errs, fmt.Errorf("entries[%d].hours: must be > 0, got %g", i, *e.Hours))
			} else if math.Abs(*e.Hours-end.Sub(start).Hours()) > hoursTolerance {
				errs = append(errs, fmt.Errorf("entries[%d].hours: %g does not match the %q..%q window",
					i, *e.Hours, e.Start, e.End))
			}
		}
	}

	return errs
}

func validateEvidence(evidence []EvidenceImport) []error {
	var errs []error

	seen := make(map[string]bool, len(evidence))
	for i, ev := range evidence {
		if !domain.ValidEvidenceKinds[ev.Kind] {
			errs = append(errs, fmt.Errorf("evidence[%d].kind: unknown kind %q", i, ev.Kind))
		}
		if ev.ID == "" {
			errs = append(errs, fmt.Errorf("evidence[%d].id is required", i))
		} else {
			key := ev.Kind + ":" + ev.ID
			if seen[key] {
				errs = append(errs, fmt.Errorf("evidence[%d]: duplicate %s id %q", i, ev.Kind, ev.ID))
			}
			seen[key] = true
		}
		if _, err := time.Parse(time.RFC3339, ev.Timestamp); err != nil {
			errs = append(errs, fmt.Errorf("evidence[%d].timestamp: invalid timestamp %q (expected RFC3339)", i, ev.Timestamp))
		}
		if ev.LinesChanged != nil && *ev.LinesChanged < 0 {
			errs = append(errs, fmt.Errorf("evidence[%d].lines_changed: must be >= 0", i))
		}
		if ev.StoryPoints != nil && *ev.StoryPoints < 0 {
			errs = append(errs, fmt.Errorf("evidence[%d].story_points: must be >= 0", i))
		}
	}

	return errs
}
