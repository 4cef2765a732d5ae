package model

//go:generate go run github.com/dmarkham/enumer -type RunStatus -trimprefix RunStatus -transform lower -json -output runstatus.gen.go

// RunStatus is the lifecycle state of a collection run.
type RunStatus int

const (
	RunStatusPending RunStatus = iota
	RunStatusRunning
	RunStatusSucceeded
	RunStatusFailed
	RunStatusSkipped
)

// Terminal reports whether the status is an end state.
func (s RunStatus) Terminal() bool {
	switch s {
	case RunStatusSucceeded, RunStatusFailed, RunStatusSkipped:
		return true
	default:
		return false
	}
}
