/*
Copyright © 2025 Stackup Authors
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adhikarS/stackup/pkg/gitops/argocd"
)

func TestSourceFromArgsDefaults(t *testing.T) {
	src, err := sourceFromArgs(nil)
	require.NoError(t, err)

	assert.Equal(t, argocd.AppSource{
		RepoURL:  "https://github.com/adhikarS/blue-green.git",
		Revision: "main",
		Path:     "manifests",
	}, src)
}

func TestSourceFromArgsPassThrough(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want argocd.AppSource
	}{
		{
			name: "repo only",
			args: []string{"https://github.com/example/app.git"},
			want: argocd.AppSource{
				RepoURL:  "https://github.com/example/app.git",
				Revision: DefaultRevision,
				Path:     DefaultPath,
			},
		},
		{
			name: "repo and revision",
			args: []string{"https://github.com/example/app.git", "v1.2.0"},
			want: argocd.AppSource{
				RepoURL:  "https://github.com/example/app.git",
				Revision: "v1.2.0",
				Path:     DefaultPath,
			},
		},
		{
			name: "all three untransformed",
			args: []string{"git@github.com:example/app.git", "release/1.0", "deploy/envs/dev"},
			want: argocd.AppSource{
				RepoURL:  "git@github.com:example/app.git",
				Revision: "release/1.0",
				Path:     "deploy/envs/dev",
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			src, err := sourceFromArgs(tc.args)
			require.NoError(t, err)
			assert.Equal(t, tc.want, src)
		})
	}
}

func TestSourceFromArgsTooMany(t *testing.T) {
	_, err := sourceFromArgs([]string{"a", "b", "c", "d"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at most 3")
}

func TestSourceFromArgsEmptyValueRejected(t *testing.T) {
	_, err := sourceFromArgs([]string{""})
	require.Error(t, err)
}

func TestUpCmdDefaults(t *testing.T) {
	cmd := upCmd()
	assert.Equal(t, "up", cmd.Name)

	var names []string
	for _, f := range cmd.Flags {
		names = append(names, f.Names()[0])
	}
	assert.Contains(t, names, "kubeconfig")
	assert.Contains(t, names, "node-timeout")
	assert.Contains(t, names, "controller-timeout")
	assert.Contains(t, names, "status-delay")
	assert.Contains(t, names, "skip-host-setup")
}

func TestRootCmdDefaultsToUp(t *testing.T) {
	cmd := rootCmd()
	assert.Equal(t, "up", cmd.DefaultCommand)

	var names []string
	for _, sub := range cmd.Commands {
		names = append(names, sub.Name)
	}
	assert.ElementsMatch(t, []string{"up", "app", "status"}, names)
}
