package plan

// Status tracks a work unit's lifecycle. Ready is the only non-terminal
// state; the executor moves each dispatched unit to exactly one terminal
// state.
type Status string

const (
	// StatusReady marks a unit eligible for execution.
	StatusReady Status = "ready"
	// StatusSkippedExists marks a unit whose destination already exists
	// and whose overwrite policy forbids replacing it. Not a failure.
	StatusSkippedExists Status = "skipped-exists"
	// StatusCompleted marks a successful copy or transcode.
	StatusCompleted Status = "completed"
	// StatusFailedIO marks a failed directory creation or file copy.
	StatusFailedIO Status = "failed-io"
	// StatusFailedEncoder marks a failed encoder invocation.
	StatusFailedEncoder Status = "failed-encoder"
	// StatusFailedAborted marks a unit interrupted mid-operation.
	StatusFailedAborted Status = "failed-aborted"
)

// IsFailed reports whether the unit ended in a failure state.
func (s Status) IsFailed() bool {
	switch s {
	case StatusFailedIO, StatusFailedEncoder, StatusFailedAborted:
		return true
	}
	return false
}

// IsSkipped reports whether the unit was skipped by overwrite policy.
func (s Status) IsSkipped() bool {
	return s == StatusSkippedExists
}

// IsCompleted reports whether the unit finished successfully.
func (s Status) IsCompleted() bool {
	return s == StatusCompleted
}

// IsTerminal reports whether the status has no further transitions.
func (s Status) IsTerminal() bool {
	return s != StatusReady
}
