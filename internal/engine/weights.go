package engine

import "github.com/alexanderramin/chronicle/internal/domain"

// primaryScale lifts the ticket-weight signal far enough above the churn
// tie-break that churn can never reorder units with different ticket weights.
const primaryScale = 10000

// churnCap bounds the tie-break contribution below one primaryScale step.
const churnCap = primaryScale - 1

// AdvisoryTarget is one unit's deterministic pre-weighting, passed to the
// decomposition request as context only; the generator may diverge from it.
type AdvisoryTarget struct {
	Evidence domain.EvidenceRecord
	Score    float64
	Hours    float64
}

// PreweightEvidence splits totalHours across distinct evidence units in
// proportion to a deterministic score: the maximum ticket weight among the
// tickets a unit references, scaled to dominate a lines-changed tie-break.
// When every score is zero the split is equal. Fewer than two units yield no
// targets, since there is nothing to apportion.
func PreweightEvidence(units []domain.EvidenceRecord, totalHours float64) []AdvisoryTarget {
	if len(units) < 2 {
		return nil
	}

	// Ticket weights by identifier, so commits can inherit the weight of the
	// tickets they reference.
	ticketWeight := make(map[string]float64)
	for _, u := range units {
		if u.Kind == domain.EvidenceTicket && u.StoryPoints > 0 {
			for _, ref := range u.Refs {
				if u.StoryPoints > ticketWeight[ref] {
					ticketWeight[ref] = u.StoryPoints
				}
			}
		}
	}

	targets := make([]AdvisoryTarget, len(units))
	var totalScore float64
	for i, u := range units {
		primary := u.Weight()
		for _, ref := range u.Refs {
			if w := ticketWeight[ref]; w > primary {
				primary = w
			}
		}
		churn := u.Churn()
		if churn > churnCap {
			churn = churnCap
		}
		score := primary*primaryScale + float64(churn)
		targets[i] = AdvisoryTarget{Evidence: u, Score: score}
		totalScore += score
	}

	if totalScore == 0 {
		equal := totalHours / float64(len(units))
		for i := range targets {
			targets[i].Hours = equal
		}
		return targets
	}

	for i := range targets {
		targets[i].Hours = totalHours * (targets[i].Score / totalScore)
	}
	return targets
}
