package domain

// MatchPhase records which stage of the pipeline produced an entry's match.
type MatchPhase string

const (
	PhaseExact    MatchPhase = "exact"
	PhaseSemantic MatchPhase = "semantic"
	PhaseNone     MatchPhase = "none"
)

// Confidence grades how well an entry is corroborated by evidence.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// validConfidences is the set of accepted confidence labels.
var validConfidences = map[Confidence]bool{
	ConfidenceHigh: true, ConfidenceMedium: true, ConfidenceLow: true,
}

// IsValidConfidence returns true if the given label is a known confidence grade.
func IsValidConfidence(c Confidence) bool {
	return validConfidences[c]
}

// ParseConfidence normalizes an externally supplied confidence label,
// falling back to low for anything unrecognized.
func ParseConfidence(s string) Confidence {
	c := Confidence(s)
	if validConfidences[c] {
		return c
	}
	return ConfidenceLow
}

// EvidenceKind discriminates the closed set of evidence variants.
type EvidenceKind string

const (
	EvidenceCommit EvidenceKind = "commit"
	EvidenceTicket EvidenceKind = "ticket"
)

// ValidEvidenceKinds is the canonical set of accepted evidence kind strings.
var ValidEvidenceKinds = map[string]bool{
	"commit": true, "ticket": true,
}
