package report

// Status is the result of a test as seen by the harness.
type Status string

const (
	StatusPassed  Status = "passed"
	StatusFailed  Status = "failed"
	StatusErrored Status = "errored"
	StatusSkipped Status = "skipped"
)

// Phase is the part of the test lifecycle an outcome belongs to.
type Phase string

const (
	PhaseSetup    Phase = "setup"
	PhaseCall     Phase = "call"
	PhaseTeardown Phase = "teardown"
)

// Outcome combines status and phase. It is produced by the harness and only read by collectors.
type Outcome struct {
	Status Status
	Phase  Phase
}

// FailedInCall reports whether the test body itself failed.
func (o Outcome) FailedInCall() bool {
	return o.Status == StatusFailed && o.Phase == PhaseCall
}
