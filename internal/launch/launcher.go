package launch

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os/exec"

	"popmcp/internal/logging"
)

// Launcher spawns pop processes without blocking on their completion.
// Children are deliberately not tied to any context: a launched node or
// network supervisor outlives the call that started it, and budgets are
// enforced by the watch loops rather than by process-group cancellation.
type Launcher struct {
	bin string
	log *slog.Logger
}

// NewLauncher wraps a resolved pop binary path.
func NewLauncher(bin string) *Launcher {
	return &Launcher{bin: bin, log: logging.New("launch")}
}

// Bin returns the binary path launches will execute.
func (l *Launcher) Bin() string { return l.bin }

// Handle tracks one spawned child.
type Handle struct {
	PID     int
	LogPath string

	cmd    *exec.Cmd
	stdout io.ReadCloser
	stderr io.ReadCloser
}

// StartPiped spawns the binary with both output streams piped back to the
// caller. Stdin is /dev/null; the serving transport owns the real one.
func (l *Launcher) StartPiped(args ...string) (*Handle, error) {
	cmd := exec.Command(l.bin, args...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, &LaunchError{Bin: l.bin, Args: args, Err: err}
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, &LaunchError{Bin: l.bin, Args: args, Err: err}
	}
	if err := cmd.Start(); err != nil {
		return nil, l.startErr(args, err)
	}
	l.log.Debug("spawned", "pid", cmd.Process.Pid, "args", args)
	return &Handle{PID: cmd.Process.Pid, cmd: cmd, stdout: stdout, stderr: stderr}, nil
}

// StartToFile spawns the binary with stdout and stderr appended to one log
// file, the shape long-running supervisors want: their output survives the
// call and can be re-read while polling.
func (l *Launcher) StartToFile(logPath string, args ...string) (*Handle, error) {
	f, err := logging.OpenLogFile(logPath)
	if err != nil {
		return nil, fmt.Errorf("open launch log: %w", err)
	}
	cmd := exec.Command(l.bin, args...)
	cmd.Stdout = f
	cmd.Stderr = f
	if err := cmd.Start(); err != nil {
		f.Close()
		return nil, l.startErr(args, err)
	}
	// The child holds its own descriptor once started.
	f.Close()
	l.log.Debug("spawned", "pid", cmd.Process.Pid, "args", args, "log", logPath)
	return &Handle{PID: cmd.Process.Pid, LogPath: logPath, cmd: cmd}, nil
}

func (l *Launcher) startErr(args []string, err error) error {
	if errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist) {
		return &ResolutionError{Bin: l.bin, Err: err}
	}
	return &LaunchError{Bin: l.bin, Args: args, Err: err}
}

// Kill force-terminates the child. A child that is already gone is fine.
func (h *Handle) Kill() {
	if h.cmd.Process != nil {
		_ = h.cmd.Process.Kill()
	}
}

// Wait reaps the child and returns its exit error, if any.
func (h *Handle) Wait() error { return h.cmd.Wait() }

// Release leaves the child running and reaps it in the background whenever
// it eventually exits. Used when the process is meant to outlive the call.
func (h *Handle) Release() {
	go func() { _ = h.cmd.Wait() }()
}
