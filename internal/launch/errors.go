package launch

import (
	"errors"
	"fmt"
	"time"
)

// ErrNoEndpoint reports a node that exited cleanly without ever advertising
// its RPC URL. The message is surfaced verbatim to tool callers.
var ErrNoEndpoint = errors.New("Failed to parse websocket URL from output")

// ResolutionError means no usable pop binary was found. Resolution itself
// never fails, so this only surfaces when the resolved path cannot be
// executed at spawn time.
type ResolutionError struct {
	Bin string
	Err error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("resolve %s: %v", e.Bin, e.Err)
}

func (e *ResolutionError) Unwrap() error { return e.Err }

// LaunchError means the child process could not be spawned at all.
type LaunchError struct {
	Bin  string
	Args []string
	Err  error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("start %s: %v", e.Bin, e.Err)
}

func (e *LaunchError) Unwrap() error { return e.Err }

// FatalOutputError means a fatal marker appeared in the child's output
// before it reached readiness. Error returns the full captured output so
// callers can pass the diagnostics straight through.
type FatalOutputError struct {
	Marker string
	Output string
}

func (e *FatalOutputError) Error() string {
	if e.Output != "" {
		return e.Output
	}
	return e.Marker
}

// TimeoutError means a readiness or extraction budget elapsed. Err, when
// set, is the last failure observed while waiting.
type TimeoutError struct {
	Stage  string
	Budget time.Duration
	Err    error
}

func (e *TimeoutError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("Timed out waiting for %s: %v", e.Stage, e.Err)
	}
	return "Timed out waiting for " + e.Stage
}

func (e *TimeoutError) Unwrap() error { return e.Err }

// ParseError means the topology descriptor could not be read, decoded, or
// was missing a required field.
type ParseError struct {
	Op    string // "read" or "parse"
	Path  string
	Field string // the missing field, e.g. "relay ws_uri"
	Err   error
}

func (e *ParseError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("Missing %s in zombie.json", e.Field)
	}
	op := e.Op
	if op == "" {
		op = "parse"
	}
	if e.Path != "" {
		return fmt.Sprintf("Failed to %s zombie.json at %s: %v", op, e.Path, e.Err)
	}
	return fmt.Sprintf("%s descriptor: %v", op, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// TeardownError means a process refused to die or a port stayed bound past
// the teardown budget.
type TeardownError struct {
	PID  int
	Port int
	Err  error
}

func (e *TeardownError) Error() string {
	if e.Port != 0 {
		return fmt.Sprintf("port %d still bound after teardown", e.Port)
	}
	return fmt.Sprintf("kill pid %d: %v", e.PID, e.Err)
}

func (e *TeardownError) Unwrap() error { return e.Err }
