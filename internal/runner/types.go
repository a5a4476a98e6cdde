package runner

import (
	"errors"
	"fmt"
)

var (
	// ErrNoInputFiles means the input pattern matched nothing; no process
	// was started.
	ErrNoInputFiles = errors.New("no input files match pattern")
	// ErrAlreadyRunning rejects a run requested while another is active.
	ErrAlreadyRunning = errors.New("a run is already active")
	// ErrLaunchFailed wraps the OS error from starting the encoder.
	ErrLaunchFailed = errors.New("failed to launch encoder")
)

// LaunchError reports an encoder that could not be started. It matches
// ErrLaunchFailed and unwraps to the OS error.
type LaunchError struct {
	Binary string
	Err    error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("%s %s: %v", ErrLaunchFailed, e.Binary, e.Err)
}

func (e *LaunchError) Unwrap() []error {
	return []error{ErrLaunchFailed, e.Err}
}

// Outcome is the terminal status the failed launch stands for.
func (e *LaunchError) Outcome() Outcome {
	return Outcome{Status: StatusLaunchFailed, ExitCode: -1, Err: e.Err}
}

// Status is a step of the run state machine.
type Status int

const (
	StatusIdle Status = iota
	StatusRunning
	StatusCompleted
	StatusCancelled
	StatusLaunchFailed
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusRunning:
		return "running"
	case StatusCompleted:
		return "completed"
	case StatusCancelled:
		return "cancelled"
	case StatusLaunchFailed:
		return "launch failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether s ends a run.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled || s == StatusLaunchFailed
}

// Outcome is the terminal status of one run. ExitCode is meaningful only
// for StatusCompleted; a nonzero code is not an error.
type Outcome struct {
	Status   Status
	ExitCode int
	Err      error
}

func (o Outcome) String() string {
	switch o.Status {
	case StatusCompleted:
		return fmt.Sprintf("completed with exit code %d", o.ExitCode)
	case StatusLaunchFailed:
		return fmt.Sprintf("launch failed: %v", o.Err)
	default:
		return o.Status.String()
	}
}

// Success reports a clean exit.
func (o Outcome) Success() bool {
	return o.Status == StatusCompleted && o.ExitCode == 0
}
