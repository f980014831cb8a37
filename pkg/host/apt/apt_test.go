/*
Copyright © 2025 Stackup Authors
SPDX-License-Identifier: Apache-2.0
*/
package apt

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adhikarS/stackup/pkg/host/runner"
)

func TestEnsurePackagesInstallsMissing(t *testing.T) {
	fake := runner.NewFake()
	fake.FailWith("dpkg -s curl", errors.New("dpkg: package 'curl' is not installed"))

	m := New(fake)
	err := m.EnsurePackages(t.Context(), []string{"curl", "git"})
	require.NoError(t, err)

	assert.True(t, fake.Called("apt-get install -y curl"), fake.String())
	assert.False(t, fake.Called("apt-get install -y curl git"), fake.String())
}

func TestEnsurePackagesIdempotent(t *testing.T) {
	fake := runner.NewFake()

	m := New(fake)
	require.NoError(t, m.EnsurePackages(t.Context(), []string{"curl", "git"}))
	require.NoError(t, m.EnsurePackages(t.Context(), []string{"curl", "git"}))

	// dpkg probes only, no install attempts on either run
	assert.False(t, fake.Called("apt-get"), fake.String())
	assert.Len(t, fake.Calls, 4)
}

func TestEnsurePackagesInstallFailure(t *testing.T) {
	fake := runner.NewFake()
	fake.FailWith("dpkg -s git", errors.New("not installed"))
	fake.FailWith("apt-get install -y git", errors.New("exit status 100"))

	m := New(fake)
	err := m.EnsurePackages(t.Context(), []string{"git"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SERVICE_UNAVAILABLE")
}
