package engine

import (
	"testing"

	"github.com/alexanderramin/chronicle/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildGroups_ClustersByPrimaryKey(t *testing.T) {
	ev := commit("c1", "2024-03-14", "SD-5 work", 10)
	results := []domain.MatchResult{
		{Entry: entryAt(0, "SD-5 day one", "2024-03-14", 3), Identifiers: []string{"SD-5"}, Evidence: []domain.EvidenceRecord{ev}},
		{Entry: entryAt(1, "standup", "2024-03-14", 0.5)},
		{Entry: entryAt(2, "SD-5 day two", "2024-03-15", 2), Identifiers: []string{"SD-5"}, Evidence: []domain.EvidenceRecord{ev}},
	}

	groups := BuildGroups(results)
	require.Len(t, groups, 2)

	sd := groups[0]
	assert.Equal(t, "SD-5", sd.Key)
	assert.True(t, sd.MultiDay)
	assert.InDelta(t, 5.0, sd.TotalHours, 1e-9)
	assert.Len(t, sd.Evidence, 2, "duplicates tolerated for weighting")
	assert.Len(t, sd.DistinctEvidence(), 1)

	standup := groups[1]
	assert.Equal(t, "standup", standup.Key)
	assert.False(t, standup.MultiDay)
	assert.InDelta(t, 0.5, standup.TotalHours, 1e-9)
}

func TestBuildGroups_SentinelKeyForBlankEntries(t *testing.T) {
	results := []domain.MatchResult{
		{Entry: entryAt(0, "", "2024-03-14", 1)},
		{Entry: entryAt(1, "", "2024-03-15", 1)},
	}
	groups := BuildGroups(results)
	require.Len(t, groups, 1)
	assert.Equal(t, domain.NoKeySentinel, groups[0].Key)
	assert.True(t, groups[0].MultiDay)
}

func TestPreweightEvidence_TicketWeightDominatesChurn(t *testing.T) {
	heavy := ticket("SD-1", "2024-03-14", "big feature", 8)
	light := ticket("SD-2", "2024-03-14", "small tweak", 1)
	// Huge churn on the light ticket's commit must not outrank the heavy ticket.
	churny := commit("c1", "2024-03-14", "SD-2 sweeping rename", 5000)

	targets := PreweightEvidence([]domain.EvidenceRecord{heavy, light, churny}, 10)
	require.Len(t, targets, 3)
	assert.Greater(t, targets[0].Hours, targets[1].Hours)
	assert.Greater(t, targets[0].Hours, targets[2].Hours)

	var total float64
	for _, tgt := range targets {
		total += tgt.Hours
	}
	assert.InDelta(t, 10.0, total, 1e-9)
}

func TestPreweightEvidence_CommitInheritsReferencedTicketWeight(t *testing.T) {
	tk := ticket("SD-1", "2024-03-14", "feature", 5)
	linked := commit("c1", "2024-03-14", "SD-1 implement", 10)
	orphan := commit("c2", "2024-03-14", "drive-by fix", 10)

	targets := PreweightEvidence([]domain.EvidenceRecord{tk, linked, orphan}, 6)
	require.Len(t, targets, 3)
	assert.Greater(t, targets[1].Hours, targets[2].Hours,
		"a commit referencing a weighted ticket outranks an orphan commit")
}

func TestPreweightEvidence_AllZeroScoresSplitEqually(t *testing.T) {
	a := domain.EvidenceRecord{Kind: domain.EvidenceCommit, ID: "a"}
	b := domain.EvidenceRecord{Kind: domain.EvidenceCommit, ID: "b"}

	targets := PreweightEvidence([]domain.EvidenceRecord{a, b}, 4)
	require.Len(t, targets, 2)
	assert.InDelta(t, 2.0, targets[0].Hours, 1e-9)
	assert.InDelta(t, 2.0, targets[1].Hours, 1e-9)
}

func TestPreweightEvidence_FewerThanTwoUnits(t *testing.T) {
	assert.Nil(t, PreweightEvidence(nil, 4))
	assert.Nil(t, PreweightEvidence([]domain.EvidenceRecord{{ID: "a"}}, 4))
}
