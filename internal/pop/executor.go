package pop

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// CommandOutput is the captured result of one CLI invocation.
type CommandOutput struct {
	Stdout  string
	Stderr  string
	Success bool
}

// Combined folds both streams into one diagnostic text, stderr first
// since the Pop CLI writes its interesting lines there.
func (o CommandOutput) Combined() string {
	var b strings.Builder
	if o.Stderr != "" {
		b.WriteString(o.Stderr)
	}
	if o.Stdout != "" {
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(o.Stdout)
	}
	if b.Len() == 0 {
		return "(Command succeeded but produced no output)"
	}
	return b.String()
}

// Runner runs the Pop CLI once and returns its combined output. Tool
// handlers depend on this interface so tests can substitute a fake.
type Runner interface {
	Run(ctx context.Context, args ...string) (string, error)
}

// ExitError reports a command that ran but exited non-zero. Its message is
// the combined output, which is where the CLI explains itself.
type ExitError struct {
	Args   []string
	Output string
}

func (e *ExitError) Error() string { return e.Output }

// Executor invokes the resolved Pop binary. Zero value is not usable;
// construct with NewExecutor.
type Executor struct {
	bin string
	dir string
	env []string
}

// Option adjusts an Executor, mainly for test isolation.
type Option func(*Executor)

// WithDir sets the working directory for invocations.
func WithDir(dir string) Option {
	return func(e *Executor) { e.dir = dir }
}

// WithEnv appends KEY=VALUE pairs to the child environment.
func WithEnv(pairs ...string) Option {
	return func(e *Executor) { e.env = append(e.env, pairs...) }
}

// NewExecutor returns an Executor invoking bin (a path from Resolve, or
// anything exec-able for tests).
func NewExecutor(bin string, opts ...Option) *Executor {
	e := &Executor{bin: bin}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Bin returns the binary this executor invokes.
func (e *Executor) Bin() string { return e.bin }

// Capture runs the command to completion and returns both streams. The
// error is non-nil only when the spawn itself failed.
func (e *Executor) Capture(ctx context.Context, args ...string) (CommandOutput, error) {
	cmd := exec.CommandContext(ctx, e.bin, args...)
	if e.dir != "" {
		cmd.Dir = e.dir
	}
	if len(e.env) > 0 {
		cmd.Env = append(os.Environ(), e.env...)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	out := CommandOutput{
		Stdout:  stdout.String(),
		Stderr:  stderr.String(),
		Success: err == nil,
	}
	if err != nil {
		if _, ok := err.(*exec.ExitError); ok {
			return out, nil
		}
		return out, fmt.Errorf("run %s: %w", e.bin, err)
	}
	return out, nil
}

// Run executes the command and returns the combined output on success.
// A non-zero exit returns *ExitError carrying the combined output.
func (e *Executor) Run(ctx context.Context, args ...string) (string, error) {
	out, err := e.Capture(ctx, args...)
	if err != nil {
		return "", err
	}
	if !out.Success {
		// Failure text is the raw stream concatenation, no placeholder.
		msg := out.Stderr
		if out.Stdout != "" {
			if msg != "" {
				msg += "\n\n"
			}
			msg += out.Stdout
		}
		return "", &ExitError{Args: args, Output: msg}
	}
	return out.Combined(), nil
}
