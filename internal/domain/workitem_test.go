package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkItemKey_RoundTrip(t *testing.T) {
	k := WorkItemKey{EntryIndex: 12, SubIndex: 3}
	assert.Equal(t, "12:3", k.String())

	parsed, err := ParseWorkItemKey("12:3")
	require.NoError(t, err)
	assert.Equal(t, k, parsed)
}

func TestParseWorkItemKey_LegacyBareIndex(t *testing.T) {
	parsed, err := ParseWorkItemKey("7")
	require.NoError(t, err)
	assert.Equal(t, WorkItemKey{EntryIndex: 7, SubIndex: 0}, parsed)
}

func TestParseWorkItemKey_Invalid(t *testing.T) {
	_, err := ParseWorkItemKey("abc:0")
	assert.Error(t, err)

	_, err = ParseWorkItemKey("3:x")
	assert.Error(t, err)
}

func TestWorkItem_BatchKey(t *testing.T) {
	withID := WorkItem{Identifiers: []string{"SD-1"}, EntryDate: "2024-03-15"}
	assert.Equal(t, "SD-1", withID.BatchKey())

	dateOnly := WorkItem{EntryDate: "2024-03-15"}
	assert.Equal(t, "2024-03-15", dateOnly.BatchKey())

	bare := WorkItem{}
	assert.Equal(t, UnknownBatchSentinel, bare.BatchKey())
}

func TestAggregationGroup_DecompositionEligible(t *testing.T) {
	multi := AggregationGroup{Members: []MatchResult{{}, {}}}
	assert.True(t, multi.DecompositionEligible())

	singleMultiID := AggregationGroup{Members: []MatchResult{
		{Identifiers: []string{"SD-1", "SD-2"}},
	}}
	assert.True(t, singleMultiID.DecompositionEligible())

	singleOneID := AggregationGroup{Members: []MatchResult{
		{Identifiers: []string{"SD-1"}},
	}}
	assert.False(t, singleOneID.DecompositionEligible())
}

func TestAggregationGroup_DistinctEvidence(t *testing.T) {
	a := EvidenceRecord{Kind: EvidenceCommit, ID: "c1"}
	b := EvidenceRecord{Kind: EvidenceTicket, ID: "SD-1"}
	g := AggregationGroup{Evidence: []EvidenceRecord{a, b, a, b, a}}

	distinct := g.DistinctEvidence()
	require.Len(t, distinct, 2)
	assert.Equal(t, "c1", distinct[0].ID)
	assert.Equal(t, "SD-1", distinct[1].ID)
}
