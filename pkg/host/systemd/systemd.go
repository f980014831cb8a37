/*
Copyright © 2025 Stackup Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package systemd probes unit state over the systemd D-Bus API.
package systemd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/coreos/go-systemd/v22/dbus"

	"github.com/adhikarS/stackup/pkg/defaults"
	"github.com/adhikarS/stackup/pkg/errors"
)

// unitConn is the slice of the go-systemd connection used here, extracted
// so tests can substitute a fake.
type unitConn interface {
	ListUnitsByNamesContext(ctx context.Context, units []string) ([]dbus.UnitStatus, error)
	Close()
}

// Prober answers unit activity queries.
type Prober struct {
	// connect opens the D-Bus connection; overridable in tests.
	connect func(ctx context.Context) (unitConn, error)
}

// New creates a Prober talking to the local systemd instance.
func New() *Prober {
	return &Prober{
		connect: func(ctx context.Context) (unitConn, error) {
			return dbus.NewSystemdConnectionContext(ctx)
		},
	}
}

// UnitActive reports whether the named unit is in the "active" state.
// A missing unit reports false without error.
func (p *Prober) UnitActive(ctx context.Context, unit string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaults.SystemdQueryTimeout)
	defer cancel()

	conn, err := p.connect(ctx)
	if err != nil {
		return false, errors.Wrap(errors.ErrCodeUnavailable,
			"failed to connect to systemd", err)
	}
	defer conn.Close()

	units, err := conn.ListUnitsByNamesContext(ctx, []string{unit})
	if err != nil {
		return false, fmt.Errorf("failed to query unit %s: %w", unit, err)
	}

	for _, u := range units {
		if u.Name == unit {
			slog.Debug("unit state", "unit", unit, "active", u.ActiveState, "sub", u.SubState)
			return u.ActiveState == "active", nil
		}
	}

	return false, nil
}
