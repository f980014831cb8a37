/*
Copyright © 2025 Stackup Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package apt ensures Debian packages are present on the host. Only apt is
// supported; other package managers are out of scope.
package apt

import (
	"context"
	"log/slog"

	"github.com/adhikarS/stackup/pkg/defaults"
	"github.com/adhikarS/stackup/pkg/errors"
	"github.com/adhikarS/stackup/pkg/host/runner"
)

// Manager installs OS packages through apt-get.
type Manager struct {
	run runner.Runner
}

// New creates a Manager using the given runner.
func New(run runner.Runner) *Manager {
	return &Manager{run: run}
}

// Installed reports whether the package is already installed, probed with
// dpkg -s. A non-zero dpkg exit means not installed.
func (m *Manager) Installed(ctx context.Context, pkg string) bool {
	_, err := m.run.Output(ctx, "dpkg", "-s", pkg)
	return err == nil
}

// EnsurePackages installs the packages that are not already present.
// Running it a second time performs no install invocations.
func (m *Manager) EnsurePackages(ctx context.Context, pkgs []string) error {
	missing := make([]string, 0, len(pkgs))
	for _, pkg := range pkgs {
		if m.Installed(ctx, pkg) {
			slog.Debug("package already installed", "package", pkg)
			continue
		}
		missing = append(missing, pkg)
	}

	if len(missing) == 0 {
		slog.Info("all required packages present", "packages", pkgs)
		return nil
	}

	slog.Info("installing packages", "packages", missing)

	ctx, cancel := context.WithTimeout(ctx, defaults.AptTimeout)
	defer cancel()

	args := append([]string{"install", "-y"}, missing...)
	if err := m.run.Run(ctx, nil, "apt-get", args...); err != nil {
		return errors.WrapWithContext(errors.ErrCodeUnavailable,
			"apt package install failed", err,
			map[string]any{"packages": missing})
	}

	return nil
}
