package engine

import "github.com/alexanderramin/chronicle/internal/domain"

// allocEpsilon is the floating-point slack below which a member's remaining
// need or a queue head's remaining hours count as exhausted.
const allocEpsilon = 1e-9

// QueueState is an explicit cursor over the shared sub-task queue. The queue
// snapshot itself is never mutated; consumption advances the index and
// shrinks the remaining hours of the current head.
type QueueState struct {
	Index     int
	Remaining float64
}

// NewQueueState positions the cursor at the head of the queue.
func NewQueueState(subs []domain.SubTask) QueueState {
	s := QueueState{}
	if len(subs) > 0 {
		s.Remaining = subs[0].Hours
	}
	return s
}

// Exhausted reports whether the queue has been fully consumed.
func (s QueueState) Exhausted(subs []domain.SubTask) bool {
	return s.Index >= len(subs) || (s.Index == len(subs)-1 && s.Remaining <= allocEpsilon)
}

// AllocateNext draws sub-tasks from the queue until `need` hours are covered,
// returning the allocated copies and the updated queue state. A head whose
// remaining hours fit within the need is assigned whole; otherwise a partial
// copy sized exactly to the need is taken and the head shrinks in place.
func AllocateNext(subs []domain.SubTask, state QueueState, need float64) ([]domain.SubTask, QueueState) {
	var allocated []domain.SubTask

	for need > allocEpsilon && state.Index < len(subs) {
		head := subs[state.Index]

		if state.Remaining <= need+allocEpsilon {
			piece := head
			piece.Hours = state.Remaining
			allocated = append(allocated, piece)
			need -= state.Remaining

			state.Index++
			if state.Index < len(subs) {
				state.Remaining = subs[state.Index].Hours
			} else {
				state.Remaining = 0
			}
			continue
		}

		piece := head
		piece.Hours = need
		allocated = append(allocated, piece)
		state.Remaining -= need
		need = 0
	}

	return allocated, state
}

// AllocateToMembers distributes one reconciled sub-task queue across the
// group's members in original order. Each member's allocation sums exactly to
// its entry hours: any floating-point residue is folded into that member's
// last assigned sub-task, never into another member's share.
func AllocateToMembers(members []domain.TimeEntry, subs []domain.SubTask) [][]domain.SubTask {
	out := make([][]domain.SubTask, len(members))
	state := NewQueueState(subs)

	for i, member := range members {
		var allocated []domain.SubTask
		allocated, state = AllocateNext(subs, state, member.Hours)

		if len(allocated) > 0 {
			var sum float64
			for _, st := range allocated {
				sum += st.Hours
			}
			allocated[len(allocated)-1].Hours += member.Hours - sum
		}
		out[i] = allocated
	}
	return out
}
