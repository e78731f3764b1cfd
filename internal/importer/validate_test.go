package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateSnapshot_Valid(t *testing.T) {
	errs := ValidateSnapshot(validMinimalSnapshot())
	assert.Empty(t, errs)
}

func TestValidateSnapshot_NoEntries(t *testing.T) {
	schema := validMinimalSnapshot()
	schema.Entries = nil

	errs := ValidateSnapshot(schema)

	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "at least one entry")
}

func TestValidateSnapshot_BadTimestamps(t *testing.T) {
	schema := validMinimalSnapshot()
	schema.Entries[0].Start = "2025-03-10"
	schema.Evidence[0].Timestamp = "yesterday"

	errs := ValidateSnapshot(schema)

	require.Len(t, errs, 2)
	assert.Contains(t, errs[0].Error(), "entries[0].start")
	assert.Contains(t, errs[1].Error(), "evidence[0].timestamp")
}

func TestValidateSnapshot_EndBeforeStart(t *testing.T) {
	schema := validMinimalSnapshot()
	schema.Entries[0].End = "2025-03-10T08:00:00Z"

	errs := ValidateSnapshot(schema)

	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "must be after start")
}

func TestValidateSnapshot_HoursMismatch(t *testing.T) {
	schema := validMinimalSnapshot()
	schema.Entries[0].Hours = ptrFloat(3.0) // window is 2h

	errs := ValidateSnapshot(schema)

	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "does not match")
}

func TestValidateSnapshot_NonPositiveHours(t *testing.T) {
	schema := validMinimalSnapshot()
	schema.Entries[0].Hours = ptrFloat(0)

	errs := ValidateSnapshot(schema)

	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "must be > 0")
}

func TestValidateSnapshot_UnknownKind(t *testing.T) {
	schema := validMinimalSnapshot()
	schema.Evidence[0].Kind = "email"

	errs := ValidateSnapshot(schema)

	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), `unknown kind "email"`)
}

func TestValidateSnapshot_DuplicateEvidence(t *testing.T) {
	schema := validMinimalSnapshot()
	schema.Evidence = append(schema.Evidence, schema.Evidence[0])

	errs := ValidateSnapshot(schema)

	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "duplicate")
}

func TestValidateSnapshot_SameIDDifferentKindAllowed(t *testing.T) {
	schema := validMinimalSnapshot()
	schema.Evidence = append(schema.Evidence, EvidenceImport{
		Kind:      "ticket",
		ID:        schema.Evidence[0].ID,
		Timestamp: "2025-03-10T10:00:00Z",
		Text:      "ticket sharing a commit's id",
	})

	errs := ValidateSnapshot(schema)

	assert.Empty(t, errs)
}

func TestValidateSnapshot_NegativeSignals(t *testing.T) {
	schema := validMinimalSnapshot()
	schema.Evidence[0].LinesChanged = ptrInt(-1)

	errs := ValidateSnapshot(schema)

	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "lines_changed")
}
