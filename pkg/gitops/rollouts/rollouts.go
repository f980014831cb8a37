/*
Copyright © 2025 Stackup Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package rollouts installs the Argo Rollouts progressive delivery
// controller.
package rollouts

import (
	"context"
	"log/slog"
	"time"

	"k8s.io/client-go/kubernetes"

	"github.com/adhikarS/stackup/pkg/defaults"
	"github.com/adhikarS/stackup/pkg/errors"
	"github.com/adhikarS/stackup/pkg/gitops/argocd"
	"github.com/adhikarS/stackup/pkg/k8s/wait"
)

const (
	// Namespace is where the rollouts controller runs.
	Namespace = "argo-rollouts"

	// ManifestURL tracks the latest published controller release.
	ManifestURL = "https://github.com/argoproj/argo-rollouts/releases/latest/download/install.yaml"

	// controllerDeployment must report Available before rollouts work.
	controllerDeployment = "argo-rollouts"
)

// Installer provisions the rollouts controller.
type Installer struct {
	client kubernetes.Interface
	apply  argocd.BundleApplier
	fetch  argocd.Downloader

	// ManifestSource overrides ManifestURL, used in tests.
	ManifestSource string

	// WaitTimeout bounds the controller rollout wait.
	WaitTimeout time.Duration
}

// NewInstaller creates an Installer with the default manifest source.
func NewInstaller(client kubernetes.Interface, apply argocd.BundleApplier, fetch argocd.Downloader) *Installer {
	return &Installer{
		client:         client,
		apply:          apply,
		fetch:          fetch,
		ManifestSource: ManifestURL,
		WaitTimeout:    defaults.ControllerRolloutTimeout,
	}
}

// Install ensures the argo-rollouts namespace exists, applies the controller
// manifest, and blocks until the controller deployment is available.
func (i *Installer) Install(ctx context.Context) error {
	if err := argocd.EnsureNamespace(ctx, i.client, Namespace); err != nil {
		return err
	}

	manifest, err := i.fetch.Get(ctx, i.ManifestSource)
	if err != nil {
		return errors.Wrap(errors.ErrCodeUnavailable, "failed to download rollouts manifest", err)
	}

	applied, err := i.apply.Bundle(ctx, manifest, Namespace)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, "failed to apply rollouts manifest", err)
	}
	slog.Info("rollouts manifest applied", "documents", applied)

	return wait.ForDeploymentAvailable(ctx, i.client, Namespace,
		controllerDeployment, i.WaitTimeout)
}
