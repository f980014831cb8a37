/*
Copyright © 2025 Stackup Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package argocd installs the Argo CD controller stack and manages the
// Application resource that points it at a GitOps repository.
package argocd

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"

	"github.com/adhikarS/stackup/pkg/defaults"
	"github.com/adhikarS/stackup/pkg/errors"
	"github.com/adhikarS/stackup/pkg/k8s/wait"
)

const (
	// Namespace is where the Argo CD control plane runs.
	Namespace = "argocd"

	// ManifestURL is the pinned Argo CD install bundle.
	ManifestURL = "https://raw.githubusercontent.com/argoproj/argo-cd/v2.11.3/manifests/install.yaml"
)

// controllerDeployments are the deployments that must report Available
// before Argo CD is usable.
var controllerDeployments = []string{
	"argocd-server",
	"argocd-repo-server",
	"argocd-applicationset-controller",
}

// Downloader retrieves a manifest bundle by URL.
type Downloader interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

// BundleApplier applies a multi-document manifest into the cluster.
type BundleApplier interface {
	Bundle(ctx context.Context, manifest []byte, defaultNamespace string) (int, error)
}

// Installer provisions the Argo CD controller stack.
type Installer struct {
	client kubernetes.Interface
	apply  BundleApplier
	fetch  Downloader

	// ManifestSource overrides ManifestURL, used in tests.
	ManifestSource string

	// WaitTimeout bounds the controller rollout wait.
	WaitTimeout time.Duration
}

// NewInstaller creates an Installer with the default manifest source.
func NewInstaller(client kubernetes.Interface, apply BundleApplier, fetch Downloader) *Installer {
	return &Installer{
		client:         client,
		apply:          apply,
		fetch:          fetch,
		ManifestSource: ManifestURL,
		WaitTimeout:    defaults.ControllerRolloutTimeout,
	}
}

// Install ensures the argocd namespace exists, applies the install bundle,
// and blocks until the controller deployments are available.
func (i *Installer) Install(ctx context.Context) error {
	if err := EnsureNamespace(ctx, i.client, Namespace); err != nil {
		return err
	}

	manifest, err := i.fetch.Get(ctx, i.ManifestSource)
	if err != nil {
		return errors.Wrap(errors.ErrCodeUnavailable, "failed to download argocd manifest", err)
	}

	applied, err := i.apply.Bundle(ctx, manifest, Namespace)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, "failed to apply argocd manifest", err)
	}
	slog.Info("argocd manifest applied", "documents", applied)

	return wait.ForDeploymentsAvailable(ctx, i.client, Namespace,
		controllerDeployments, i.WaitTimeout)
}

// EnsureNamespace creates the namespace if it does not already exist.
func EnsureNamespace(ctx context.Context, client kubernetes.Interface, name string) error {
	ns := &corev1.Namespace{ObjectMeta: metav1.ObjectMeta{Name: name}}
	_, err := client.CoreV1().Namespaces().Create(ctx, ns, metav1.CreateOptions{})
	if err != nil && !apierrors.IsAlreadyExists(err) {
		return errors.Wrap(errors.ErrCodeInternal,
			fmt.Sprintf("failed to create namespace %s", name), err)
	}
	return nil
}
