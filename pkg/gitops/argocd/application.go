/*
Copyright © 2025 Stackup Authors
SPDX-License-Identifier: Apache-2.0
*/
package argocd

import (
	"context"
	"fmt"
	"log/slog"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/client-go/dynamic"

	"github.com/adhikarS/stackup/pkg/errors"
)

const (
	// AppName is the name of the bootstrap Application resource.
	AppName = "blue-green-app"

	// destinationServer targets the cluster Argo CD itself runs in.
	destinationServer = "https://kubernetes.default.svc"

	// destinationNamespace is where the managed workloads land.
	destinationNamespace = "default"
)

// applicationGVR addresses the Argo CD Application custom resource.
var applicationGVR = schema.GroupVersionResource{
	Group:    "argoproj.io",
	Version:  "v1alpha1",
	Resource: "applications",
}

// AppSource identifies the Git repository a managed Application tracks.
type AppSource struct {
	RepoURL  string
	Revision string
	Path     string
}

// Validate checks that all source coordinates are set.
func (s AppSource) Validate() error {
	if s.RepoURL == "" {
		return errors.New(errors.ErrCodeInvalidRequest, "application repo URL is required")
	}
	if s.Revision == "" {
		return errors.New(errors.ErrCodeInvalidRequest, "application revision is required")
	}
	if s.Path == "" {
		return errors.New(errors.ErrCodeInvalidRequest, "application path is required")
	}
	return nil
}

// AppManager creates and inspects the bootstrap Application resource.
type AppManager struct {
	dyn dynamic.Interface
}

// NewAppManager creates an AppManager.
func NewAppManager(dyn dynamic.Interface) *AppManager {
	return &AppManager{dyn: dyn}
}

// EnsureApplication registers the Application pointing at src, with automated
// sync (prune and self-heal) and namespace auto-creation. An existing
// Application with the same name has its spec replaced.
func (m *AppManager) EnsureApplication(ctx context.Context, src AppSource) error {
	if err := src.Validate(); err != nil {
		return err
	}

	app := newApplication(src)
	apps := m.dyn.Resource(applicationGVR).Namespace(Namespace)

	_, err := apps.Create(ctx, app, metav1.CreateOptions{})
	if err == nil {
		slog.Info("application created", "name", AppName, "repo", src.RepoURL, "revision", src.Revision)
		return nil
	}
	if !apierrors.IsAlreadyExists(err) {
		return errors.Wrap(errors.ErrCodeInternal,
			fmt.Sprintf("failed to create application %s", AppName), err)
	}

	existing, err := apps.Get(ctx, AppName, metav1.GetOptions{})
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal,
			fmt.Sprintf("failed to get application %s", AppName), err)
	}

	app.SetResourceVersion(existing.GetResourceVersion())
	if _, err := apps.Update(ctx, app, metav1.UpdateOptions{}); err != nil {
		return errors.Wrap(errors.ErrCodeInternal,
			fmt.Sprintf("failed to update application %s", AppName), err)
	}

	slog.Info("application updated", "name", AppName, "repo", src.RepoURL, "revision", src.Revision)
	return nil
}

func newApplication(src AppSource) *unstructured.Unstructured {
	return &unstructured.Unstructured{Object: map[string]any{
		"apiVersion": "argoproj.io/v1alpha1",
		"kind":       "Application",
		"metadata": map[string]any{
			"name":      AppName,
			"namespace": Namespace,
		},
		"spec": map[string]any{
			"project": "default",
			"source": map[string]any{
				"repoURL":        src.RepoURL,
				"targetRevision": src.Revision,
				"path":           src.Path,
			},
			"destination": map[string]any{
				"server":    destinationServer,
				"namespace": destinationNamespace,
			},
			"syncPolicy": map[string]any{
				"automated": map[string]any{
					"prune":    true,
					"selfHeal": true,
				},
				"syncOptions": []any{
					"CreateNamespace=true",
				},
			},
		},
	}}
}
