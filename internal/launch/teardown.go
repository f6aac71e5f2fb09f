package launch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"syscall"
	"time"

	"popmcp/internal/logging"
	"popmcp/internal/pop"
)

// DefaultTeardownTimeout bounds the wait for ports to free up after a
// teardown.
const DefaultTeardownTimeout = 10 * time.Second

// KillProcess force-kills one pid. A pid that is already gone counts as
// success: teardown must be idempotent, and pop-managed nodes regularly
// die on their own before anyone cleans them up.
func KillProcess(pid int) error {
	err := syscall.Kill(pid, syscall.SIGKILL)
	if err == nil || errors.Is(err, syscall.ESRCH) {
		return nil
	}
	return &TeardownError{PID: pid, Err: err}
}

// ProcessAlive reports whether pid refers to a live, non-zombie process.
func ProcessAlive(pid int) bool {
	if pid <= 0 {
		return false
	}
	err := syscall.Kill(pid, 0)
	if err == nil {
		return !isZombie(pid)
	}
	// EPERM means it exists but belongs to someone else.
	return errors.Is(err, syscall.EPERM)
}

// isZombie inspects /proc/<pid>/stat; the state field follows the last ')'
// because the command name may itself contain parentheses.
func isZombie(pid int) bool {
	data, err := os.ReadFile(fmt.Sprintf("/proc/%d/stat", pid))
	if err != nil {
		return false
	}
	s := string(data)
	i := strings.LastIndexByte(s, ')')
	if i < 0 || i+2 >= len(s) {
		return false
	}
	return s[i+2] == 'Z'
}

// Coordinator tears launched processes down, both directly by pid and by
// delegating to pop's own clean subcommands, and verifies their ports
// actually free up.
type Coordinator struct {
	runner  pop.Runner
	timeout time.Duration
	log     *slog.Logger
}

// NewCoordinator builds a Coordinator around a pop runner. timeout bounds
// port-release waits; zero picks DefaultTeardownTimeout.
func NewCoordinator(runner pop.Runner, timeout time.Duration) *Coordinator {
	if timeout <= 0 {
		timeout = DefaultTeardownTimeout
	}
	return &Coordinator{runner: runner, timeout: timeout, log: logging.New("teardown")}
}

// KillAll kills every pid, collecting failures instead of stopping at the
// first one. Missing processes are fine.
func (c *Coordinator) KillAll(pids ...int) error {
	var errs []error
	for _, pid := range pids {
		if err := KillProcess(pid); err != nil {
			errs = append(errs, err)
			continue
		}
		c.log.Debug("killed", "pid", pid)
	}
	return errors.Join(errs...)
}

// CleanNodes delegates node cleanup to pop. Without pids every cached dev
// node goes; with pids only those are stopped.
func (c *Coordinator) CleanNodes(ctx context.Context, pids ...int) (string, error) {
	args := []string{"clean", "node"}
	if len(pids) == 0 {
		args = append(args, "--all")
	} else {
		args = append(args, "--pid")
		for _, pid := range pids {
			args = append(args, strconv.Itoa(pid))
		}
	}
	return c.runner.Run(ctx, args...)
}

// CleanNetwork removes network state via pop. Path selects one network's
// base directory, all selects every known one, and keepState leaves the
// chain databases in place for a later relaunch.
func (c *Coordinator) CleanNetwork(ctx context.Context, path string, all, keepState bool) (string, error) {
	args := []string{"clean", "network"}
	if all {
		args = append(args, "--all")
	} else if path != "" {
		args = append(args, path)
	}
	if keepState {
		args = append(args, "--keep-state")
	}
	return c.runner.Run(ctx, args...)
}

// WaitPortsFree polls until every endpoint's port stops accepting
// connections, bounded by the coordinator's timeout per port. Teardown
// callers rely on this: a reported teardown with a still-bound port makes
// the next launch fail in a much more confusing place.
func (c *Coordinator) WaitPortsFree(ctx context.Context, eps ...Endpoint) error {
	for _, ep := range eps {
		if err := WaitPortClosed(ctx, ep.Host, ep.Port, c.timeout); err != nil {
			return err
		}
		c.log.Debug("port released", "host", ep.Host, "port", ep.Port)
	}
	return nil
}
