package santa

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
)

// cancelGrace is how long a cancelled subprocess is given to exit after
// SIGTERM before Run escalates to SIGKILL.
const cancelGrace = 2 * time.Second

// ProcessResult is the captured outcome of a single subprocess invocation.
type ProcessResult struct {
	Stdout   string
	Stderr   string
	Code     int
	Duration time.Duration
}

// ProcessDriver spawns subprocesses with an explicit argv and a deadline,
// classifying failures into the package's error taxonomy.
type ProcessDriver struct {
	logger zerolog.Logger
}

// NewProcessDriver constructs a ProcessDriver.
func NewProcessDriver(logger zerolog.Logger) *ProcessDriver {
	return &ProcessDriver{logger: logger.With().Str("component", "process-driver").Logger()}
}

// Run executes name with args under ctx, killing the process if ctx is
// done or deadline elapses first, whichever comes first. No intermediate
// shell is used; the template layer is responsible for
// wrapping argv[0] as "sh"/"pwsh" with "-c" when the source's command
// genuinely requires shell features.
func (d *ProcessDriver) Run(ctx context.Context, deadline time.Duration, name string, args ...string) (*ProcessResult, error) {
	runCtx := ctx
	var cancel context.CancelFunc
	if deadline > 0 {
		runCtx, cancel = context.WithTimeout(ctx, deadline)
		defer cancel()
	}

	start := time.Now()
	cmd := exec.CommandContext(runCtx, name, args...)
	// On cancellation, ask nicely first: send SIGTERM and give the process
	// cancelGrace to exit before the context machinery escalates to
	// SIGKILL. Without this, ctx's default Cancel sends SIGKILL
	// immediately, giving the package manager no chance to release locks
	// or clean up a partial install.
	cmd.Cancel = func() error {
		return cmd.Process.Signal(syscall.SIGTERM)
	}
	cmd.WaitDelay = cancelGrace
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	d.logger.Debug().Str("cmd", name).Strs("args", args).Msg("spawning subprocess")
	err := cmd.Run()
	duration := time.Since(start)

	result := &ProcessResult{
		Stdout:   strings.TrimSpace(stdout.String()),
		Stderr:   strings.TrimSpace(stderr.String()),
		Duration: duration,
	}
	if cmd.ProcessState != nil {
		result.Code = cmd.ProcessState.ExitCode()
	}

	if runCtx.Err() == context.DeadlineExceeded {
		d.logger.Warn().Str("cmd", name).Dur("after", duration).Msg("subprocess timed out")
		return result, NewTimeoutError("process deadline exceeded", runCtx.Err())
	}
	if ctx.Err() == context.Canceled {
		return result, NewCancelledError("process cancelled", ctx.Err())
	}
	if err != nil {
		if _, ok := err.(*exec.ExitError); ok {
			return result, NewCommandFailedError(
				fmt.Sprintf("command exited with code %d", result.Code),
				err,
			)
		}
		return result, NewIOError("failed to run process", err)
	}
	return result, nil
}
