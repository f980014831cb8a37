/*
Copyright © 2025 Stackup Authors
SPDX-License-Identifier: Apache-2.0
*/
package systemd

import (
	"context"
	"errors"
	"testing"

	"github.com/coreos/go-systemd/v22/dbus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	stackerr "github.com/adhikarS/stackup/pkg/errors"
)

type fakeConn struct {
	units []dbus.UnitStatus
	err   error
}

func (f *fakeConn) ListUnitsByNamesContext(_ context.Context, _ []string) ([]dbus.UnitStatus, error) {
	return f.units, f.err
}

func (f *fakeConn) Close() {}

func proberWith(conn unitConn, err error) *Prober {
	return &Prober{
		connect: func(context.Context) (unitConn, error) {
			if err != nil {
				return nil, err
			}
			return conn, nil
		},
	}
}

func TestUnitActive(t *testing.T) {
	tests := []struct {
		name  string
		units []dbus.UnitStatus
		want  bool
	}{
		{
			name:  "active unit",
			units: []dbus.UnitStatus{{Name: "k3s.service", ActiveState: "active", SubState: "running"}},
			want:  true,
		},
		{
			name:  "inactive unit",
			units: []dbus.UnitStatus{{Name: "k3s.service", ActiveState: "inactive", SubState: "dead"}},
			want:  false,
		},
		{
			name:  "unknown unit",
			units: []dbus.UnitStatus{},
			want:  false,
		},
		{
			name: "other units ignored",
			units: []dbus.UnitStatus{
				{Name: "containerd.service", ActiveState: "active"},
			},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := proberWith(&fakeConn{units: tt.units}, nil)
			active, err := p.UnitActive(t.Context(), "k3s.service")
			require.NoError(t, err)
			assert.Equal(t, tt.want, active)
		})
	}
}

func TestUnitActiveConnectFailure(t *testing.T) {
	p := proberWith(nil, errors.New("no such socket"))

	_, err := p.UnitActive(t.Context(), "k3s.service")
	require.Error(t, err)
	assert.Equal(t, stackerr.ErrCodeUnavailable, stackerr.CodeOf(err))
}

func TestUnitActiveQueryFailure(t *testing.T) {
	p := proberWith(&fakeConn{err: errors.New("bus error")}, nil)

	_, err := p.UnitActive(t.Context(), "k3s.service")
	require.Error(t, err)
}
