/*
Copyright © 2025 Stackup Authors
SPDX-License-Identifier: Apache-2.0
*/
package runner

import (
	"context"
	"fmt"
	"io"
	"strings"
)

// Fake is a Runner for tests. It records every invocation and replies from
// canned results keyed by the command line prefix.
type Fake struct {
	// Calls holds each invocation as "name arg1 arg2 ...".
	Calls []string

	// Outputs maps a command-line prefix to canned output.
	Outputs map[string]string

	// Errors maps a command-line prefix to a canned error.
	Errors map[string]error
}

// NewFake creates an empty Fake runner.
func NewFake() *Fake {
	return &Fake{
		Outputs: make(map[string]string),
		Errors:  make(map[string]error),
	}
}

// Run implements Runner.
func (f *Fake) Run(ctx context.Context, _ io.Reader, name string, args ...string) error {
	_, err := f.Output(ctx, name, args...)
	return err
}

// Output implements Runner.
func (f *Fake) Output(_ context.Context, name string, args ...string) (string, error) {
	line := strings.TrimSpace(name + " " + strings.Join(args, " "))
	f.Calls = append(f.Calls, line)

	for prefix, err := range f.Errors {
		if strings.HasPrefix(line, prefix) {
			return "", err
		}
	}
	for prefix, out := range f.Outputs {
		if strings.HasPrefix(line, prefix) {
			return out, nil
		}
	}
	return "", nil
}

// Called reports whether any recorded invocation starts with prefix.
func (f *Fake) Called(prefix string) bool {
	for _, c := range f.Calls {
		if strings.HasPrefix(c, prefix) {
			return true
		}
	}
	return false
}

// FailWith registers err for every command line starting with prefix.
func (f *Fake) FailWith(prefix string, err error) {
	f.Errors[prefix] = err
}

// RespondWith registers canned output for command lines starting with prefix.
func (f *Fake) RespondWith(prefix, out string) {
	f.Outputs[prefix] = out
}

var _ Runner = (*Fake)(nil)

// String renders the recorded calls, useful in test failure messages.
func (f *Fake) String() string {
	return fmt.Sprintf("calls: %s", strings.Join(f.Calls, "; "))
}
