/*
Copyright © 2025 Stackup Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package k3s ensures the single-node cluster runtime is installed and
// running, and installs its client credentials for the invoking user.
package k3s

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/adhikarS/stackup/pkg/defaults"
	"github.com/adhikarS/stackup/pkg/errors"
	"github.com/adhikarS/stackup/pkg/host/runner"
)

const (
	// UnitName is the systemd unit created by the upstream installer.
	UnitName = "k3s.service"

	// InstallerURL is the upstream installer script location.
	InstallerURL = "https://get.k3s.io"
)

// UnitProber answers systemd unit activity queries.
type UnitProber interface {
	UnitActive(ctx context.Context, unit string) (bool, error)
}

// Downloader fetches remote content.
type Downloader interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

// Manager installs and verifies the cluster runtime.
type Manager struct {
	run   runner.Runner
	probe UnitProber
	fetch Downloader

	// InstallerSource overrides the installer URL, used in tests.
	InstallerSource string
}

// New creates a Manager.
func New(run runner.Runner, probe UnitProber, fetch Downloader) *Manager {
	return &Manager{
		run:             run,
		probe:           probe,
		fetch:           fetch,
		InstallerSource: InstallerURL,
	}
}

// Active reports whether the runtime unit is active.
func (m *Manager) Active(ctx context.Context) (bool, error) {
	return m.probe.UnitActive(ctx, UnitName)
}

// Ensure installs the cluster runtime if its unit is not already active.
// When the unit is active the installer is never invoked.
func (m *Manager) Ensure(ctx context.Context) error {
	active, err := m.Active(ctx)
	if err != nil {
		return fmt.Errorf("failed to probe cluster runtime state: %w", err)
	}
	if active {
		slog.Info("cluster runtime already running", "unit", UnitName)
		return nil
	}

	slog.Info("installing cluster runtime", "source", m.InstallerSource)

	script, err := m.fetch.Get(ctx, m.InstallerSource)
	if err != nil {
		return fmt.Errorf("failed to download installer: %w", err)
	}

	installCtx, cancel := context.WithTimeout(ctx, defaults.InstallerTimeout)
	defer cancel()

	// Mirrors the upstream invocation: curl -sfL https://get.k3s.io |
	// sh -s - --write-kubeconfig-mode 644
	if err := m.run.Run(installCtx, bytes.NewReader(script),
		"sh", "-s", "-", "--write-kubeconfig-mode", "644"); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, "cluster runtime install failed", err)
	}

	active, err = m.Active(ctx)
	if err != nil {
		return fmt.Errorf("failed to verify cluster runtime state: %w", err)
	}
	if !active {
		return errors.New(errors.ErrCodeUnavailable,
			"cluster runtime unit not active after install")
	}

	slog.Info("cluster runtime installed", "unit", UnitName)
	return nil
}
