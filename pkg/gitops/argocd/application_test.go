/*
Copyright © 2025 Stackup Authors
SPDX-License-Identifier: Apache-2.0
*/
package argocd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/client-go/dynamic"
	dynamicfake "k8s.io/client-go/dynamic/fake"
)

func newFakeDynamic(objects ...runtime.Object) dynamic.Interface {
	return dynamicfake.NewSimpleDynamicClientWithCustomListKinds(
		runtime.NewScheme(),
		map[schema.GroupVersionResource]string{applicationGVR: "ApplicationList"},
		objects...,
	)
}

func testSource() AppSource {
	return AppSource{
		RepoURL:  "https://github.com/adhikarS/blue-green.git",
		Revision: "main",
		Path:     "manifests",
	}
}

func getApp(t *testing.T, dyn dynamic.Interface) *unstructured.Unstructured {
	t.Helper()
	app, err := dyn.Resource(applicationGVR).Namespace(Namespace).Get(t.Context(), AppName, metav1.GetOptions{})
	require.NoError(t, err)
	return app
}

func TestEnsureApplicationCreates(t *testing.T) {
	dyn := newFakeDynamic()
	m := NewAppManager(dyn)

	require.NoError(t, m.EnsureApplication(t.Context(), testSource()))

	app := getApp(t, dyn)
	repo, _, _ := unstructured.NestedString(app.Object, "spec", "source", "repoURL")
	assert.Equal(t, "https://github.com/adhikarS/blue-green.git", repo)
	revision, _, _ := unstructured.NestedString(app.Object, "spec", "source", "targetRevision")
	assert.Equal(t, "main", revision)
	path, _, _ := unstructured.NestedString(app.Object, "spec", "source", "path")
	assert.Equal(t, "manifests", path)
	server, _, _ := unstructured.NestedString(app.Object, "spec", "destination", "server")
	assert.Equal(t, "https://kubernetes.default.svc", server)
}

func TestEnsureApplicationSyncPolicy(t *testing.T) {
	dyn := newFakeDynamic()
	m := NewAppManager(dyn)

	require.NoError(t, m.EnsureApplication(t.Context(), testSource()))

	app := getApp(t, dyn)
	prune, found, err := unstructured.NestedBool(app.Object, "spec", "syncPolicy", "automated", "prune")
	require.NoError(t, err)
	require.True(t, found)
	assert.True(t, prune)

	selfHeal, _, _ := unstructured.NestedBool(app.Object, "spec", "syncPolicy", "automated", "selfHeal")
	assert.True(t, selfHeal)

	options, _, _ := unstructured.NestedSlice(app.Object, "spec", "syncPolicy", "syncOptions")
	assert.Contains(t, options, "CreateNamespace=true")
}

func TestEnsureApplicationReplacesExisting(t *testing.T) {
	existing := newApplication(AppSource{
		RepoURL:  "https://github.com/other/repo.git",
		Revision: "v1",
		Path:     "old",
	})
	dyn := newFakeDynamic(existing)
	m := NewAppManager(dyn)

	require.NoError(t, m.EnsureApplication(t.Context(), testSource()))

	app := getApp(t, dyn)
	repo, _, _ := unstructured.NestedString(app.Object, "spec", "source", "repoURL")
	assert.Equal(t, "https://github.com/adhikarS/blue-green.git", repo)
	path, _, _ := unstructured.NestedString(app.Object, "spec", "source", "path")
	assert.Equal(t, "manifests", path)
}

func TestEnsureApplicationRejectsIncompleteSource(t *testing.T) {
	m := NewAppManager(newFakeDynamic())

	tests := []struct {
		name string
		src  AppSource
	}{
		{"missing repo", AppSource{Revision: "main", Path: "manifests"}},
		{"missing revision", AppSource{RepoURL: "https://example.com/r.git", Path: "manifests"}},
		{"missing path", AppSource{RepoURL: "https://example.com/r.git", Revision: "main"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Error(t, m.EnsureApplication(t.Context(), tc.src))
		})
	}
}

func TestStatus(t *testing.T) {
	app := newApplication(testSource())
	require.NoError(t, unstructured.SetNestedField(app.Object, "Synced", "status", "sync", "status"))
	require.NoError(t, unstructured.SetNestedField(app.Object, "Healthy", "status", "health", "status"))
	require.NoError(t, unstructured.SetNestedField(app.Object, "abc123", "status", "sync", "revision"))

	m := NewAppManager(newFakeDynamic(app))

	status, err := m.Status(t.Context())
	require.NoError(t, err)
	assert.Equal(t, AppName, status.Name)
	assert.Equal(t, "Synced", status.Sync)
	assert.Equal(t, "Healthy", status.Health)
	assert.Equal(t, "abc123", status.Revision)
}

func TestStatusUnpopulated(t *testing.T) {
	m := NewAppManager(newFakeDynamic(newApplication(testSource())))

	status, err := m.Status(t.Context())
	require.NoError(t, err)
	assert.Empty(t, status.Sync)
	assert.Empty(t, status.Health)
}

func TestStatusMissingApplication(t *testing.T) {
	m := NewAppManager(newFakeDynamic())

	_, err := m.Status(t.Context())
	require.Error(t, err)
}
