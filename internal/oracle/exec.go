package oracle

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os/exec"
	"time"
)

// Result captures the output streams of a finished command.
type Result struct {
	Stdout []byte
	Stderr []byte
}

// Combined returns stdout followed by stderr.
func (r Result) Combined() string {
	return string(r.Stdout) + string(r.Stderr)
}

// Executor abstracts command execution for testability.
type Executor interface {
	Run(ctx context.Context, binary string, args []string, stdin []byte) (Result, error)
}

// Option configures a client.
type Option func(*runner)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) Option {
	return func(r *runner) {
		if exec != nil {
			r.exec = exec
		}
	}
}

// WithTimeout bounds every invocation. Zero disables the bound.
func WithTimeout(timeout time.Duration) Option {
	return func(r *runner) {
		if timeout > 0 {
			r.timeout = timeout
		}
	}
}

type runner struct {
	exec    Executor
	timeout time.Duration
}

func newRunner(opts []Option) runner {
	r := runner{exec: commandExecutor{}}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// run executes binary and classifies launch failures. A non-nil *Error is
// returned for non-zero exits so callers can inspect the exit code.
func (r runner) run(ctx context.Context, binary string, args []string, stdin []byte) (Result, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	res, err := r.exec.Run(ctx, binary, args, stdin)
	if err == nil {
		return res, nil
	}
	if isNotFound(err) {
		return res, fmt.Errorf("%w: %s: %w", ErrNotFound, binary, err)
	}

	exitCode := -1
	var coder interface{ ExitCode() int }
	if errors.As(err, &coder) {
		exitCode = coder.ExitCode()
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		err = errors.Join(err, ctxErr)
	}
	return res, &Error{
		Tool:     binary,
		Args:     append([]string(nil), args...),
		ExitCode: exitCode,
		Output:   res.Combined(),
		Err:      err,
	}
}

func isNotFound(err error) bool {
	var coder interface{ ExitCode() int }
	if errors.As(err, &coder) {
		return false
	}
	return errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist)
}

// pipeWaitDelay bounds how long a killed command may keep its output pipes
// open through surviving child processes.
const pipeWaitDelay = 2 * time.Second

type commandExecutor struct{}

func (commandExecutor) Run(ctx context.Context, binary string, args []string, stdin []byte) (Result, error) {
	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec
	cmd.Stdin = bytes.NewReader(stdin)
	cmd.WaitDelay = pipeWaitDelay
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return Result{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}, err
}
