/*
Copyright © 2025 Stackup Authors
SPDX-License-Identifier: Apache-2.0
*/
package runner

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"
)

// Runner executes host commands. The bootstrap steps depend on this
// interface rather than os/exec so tests can record and fake invocations.
type Runner interface {
	// Run executes a command, streaming stdout/stderr to the process
	// streams. Stdin is attached when in is non-nil.
	Run(ctx context.Context, in io.Reader, name string, args ...string) error

	// Output executes a command and returns its combined output.
	Output(ctx context.Context, name string, args ...string) (string, error)
}

// ExecRunner runs commands with os/exec and logs every invocation.
type ExecRunner struct {
	// Env entries are appended to the inherited environment.
	Env []string
}

// New creates an ExecRunner.
func New() *ExecRunner {
	return &ExecRunner{}
}

// Run implements Runner.
func (r *ExecRunner) Run(ctx context.Context, in io.Reader, name string, args ...string) error {
	start := time.Now()
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = in
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Env = append(os.Environ(), r.Env...)

	slog.Debug("running command", "cmd", name, "args", strings.Join(args, " "))

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("command %s failed: %w", name, err)
	}

	slog.Debug("command completed",
		"cmd", name,
		"duration_sec", time.Since(start).Seconds(),
	)
	return nil
}

// Output implements Runner.
func (r *ExecRunner) Output(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Env = append(os.Environ(), r.Env...)

	slog.Debug("running command", "cmd", name, "args", strings.Join(args, " "))

	out, err := cmd.CombinedOutput()
	if err != nil {
		return string(out), fmt.Errorf("command %s failed: %w", name, err)
	}
	return string(out), nil
}

// LookPath reports whether a binary is resolvable on PATH.
func LookPath(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}
