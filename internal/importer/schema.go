package importer

import (
	"encoding/json"
	"fmt"
	"os"
)

// SnapshotSchema is the top-level JSON structure for a run's inputs: the raw
// time entries plus the evidence snapshot fetched ahead of time.
type SnapshotSchema struct {
	Entries  []EntryImport    `json:"entries"`
	Evidence []EvidenceImport `json:"evidence"`
}

// EntryImport defines one time-tracking entry in the snapshot file.
type EntryImport struct {
	Description string   `json:"description"`
	Start       string   `json:"start"`
	End         string   `json:"end"`
	Hours       *float64 `json:"hours,omitempty"` // defaults to the window length
}

// EvidenceImport defines one commit-like or ticket-like record.
type EvidenceImport struct {
	Kind         string   `json:"kind"` // "commit" or "ticket"
	ID           string   `json:"id"`
	Timestamp    string   `json:"timestamp"`
	Text         string   `json:"text"`
	LinesChanged *int     `json:"lines_changed,omitempty"`
	StoryPoints  *float64 `json:"story_points,omitempty"`
}

// LoadSnapshot reads and parses a snapshot JSON file.
func LoadSnapshot(path string) (*SnapshotSchema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var schema SnapshotSchema
	if err := json.Unmarshal(data, &schema); err != nil {
		return nil, fmt.Errorf("parsing snapshot file: %w", err)
	}
	return &schema, nil
}
