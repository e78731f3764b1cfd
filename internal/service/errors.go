package service

import "fmt"

// RunStep identifies the pipeline step a fatal error surfaced in, so the
// operator knows where a resumed run picks up.
type RunStep string

const (
	StepEnrichment RunStep = "batch_enrichment"
	StepSplit      RunStep = "time_split"
)

// RunError is a run-fatal failure. For enrichment failures the ledger keeps
// every batch committed before the abort, so re-running resumes from the
// failed batch.
type RunError struct {
	Step     RunStep
	BatchKey string
	Err      error
}

func (e *RunError) Error() string {
	if e.BatchKey != "" {
		return fmt.Sprintf("run aborted at %s (batch %q): %v; ledger retained, re-run to resume", e.Step, e.BatchKey, e.Err)
	}
	return fmt.Sprintf("run aborted at %s: %v", e.Step, e.Err)
}

func (e *RunError) Unwrap() error {
	return e.Err
}
