/*
Copyright © 2025 Stackup Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package bootstrap sequences the full stack provisioning run: host
// packages, cluster runtime, credentials, controllers, and the GitOps
// Application declaration.
package bootstrap

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/adhikarS/stackup/pkg/defaults"
	"github.com/adhikarS/stackup/pkg/gitops/argocd"
)

// RequiredPackages are the host packages the runtime installer depends on.
var RequiredPackages = []string{"curl", "git"}

// PackageEnsurer installs missing host packages.
type PackageEnsurer interface {
	EnsurePackages(ctx context.Context, pkgs []string) error
}

// RuntimeEnsurer installs the cluster runtime when it is not running.
type RuntimeEnsurer interface {
	Ensure(ctx context.Context) error
}

// ControllerInstaller installs a controller stack and waits for it.
type ControllerInstaller interface {
	Install(ctx context.Context) error
}

// ApplicationManager declares and inspects the GitOps Application.
type ApplicationManager interface {
	EnsureApplication(ctx context.Context, src argocd.AppSource) error
	Status(ctx context.Context) (*argocd.AppStatus, error)
}

// ClusterOps are the cluster-facing collaborators. They are built lazily
// because on a first run no credentials exist until the runtime is
// installed.
type ClusterOps struct {
	ArgoCD   ControllerInstaller
	Rollouts ControllerInstaller
	Apps     ApplicationManager

	// WaitNodes blocks until the cluster nodes are ready.
	WaitNodes func(ctx context.Context) error

	// AdminPassword reads the controller's generated admin password.
	AdminPassword func(ctx context.Context) (string, error)
}

// Bootstrapper runs the provisioning sequence. Every collaborator is
// injected so the sequence and its error policy are testable without a
// host or a cluster.
type Bootstrapper struct {
	Packages PackageEnsurer
	Runtime  RuntimeEnsurer

	// InstallCredentials installs the cluster credentials for the user
	// and returns the destination path.
	InstallCredentials func() (string, error)

	// Cluster builds the cluster collaborators from the credentials
	// path, invoked after the host phase completed.
	Cluster func(kubeconfig string) (*ClusterOps, error)

	// SkipHostSetup bypasses the package and runtime steps, for runs
	// against an already provisioned host.
	SkipHostSetup bool

	// StatusDelay is how long to wait before the final status report.
	StatusDelay time.Duration

	// Out receives the human-readable completion report.
	Out io.Writer

	// sleep is the delay implementation, overridable in tests.
	sleep func(ctx context.Context, d time.Duration) error
}

func (b *Bootstrapper) init() {
	if b.StatusDelay == 0 {
		b.StatusDelay = defaults.StatusDelay
	}
	if b.Out == nil {
		b.Out = os.Stdout
	}
	if b.sleep == nil {
		b.sleep = sleepCtx
	}
}

// Run executes the provisioning sequence for the given Application source.
// Controller install failures are fatal and halt the run before the
// Application is declared; node readiness and the final status report are
// best-effort.
func (b *Bootstrapper) Run(ctx context.Context, src argocd.AppSource) error {
	b.init()

	runID := uuid.NewString()
	log := slog.With("run", runID)
	log.Info("bootstrap starting",
		"repo", src.RepoURL, "revision", src.Revision, "path", src.Path)

	kubeconfig := ""
	if b.SkipHostSetup {
		log.Info("host setup skipped")
	} else {
		log.Info("ensuring host packages", "packages", RequiredPackages)
		if err := b.Packages.EnsurePackages(ctx, RequiredPackages); err != nil {
			return fmt.Errorf("host package setup failed: %w", err)
		}

		log.Info("ensuring cluster runtime")
		if err := b.Runtime.Ensure(ctx); err != nil {
			return fmt.Errorf("cluster runtime setup failed: %w", err)
		}

		path, err := b.InstallCredentials()
		if err != nil {
			return fmt.Errorf("credentials install failed: %w", err)
		}
		log.Info("credentials installed", "path", path)
		kubeconfig = path
	}

	ops, err := b.Cluster(kubeconfig)
	if err != nil {
		return fmt.Errorf("cluster connection failed: %w", err)
	}

	log.Info("waiting for nodes")
	if err := ops.WaitNodes(ctx); err != nil {
		// A slow node should not abort the run; the controllers below
		// surface a real cluster problem through their own waits.
		log.Warn("nodes not ready, continuing", "error", err)
	}

	log.Info("installing gitops controller")
	if err := ops.ArgoCD.Install(ctx); err != nil {
		return fmt.Errorf("gitops controller install failed: %w", err)
	}

	log.Info("installing progressive delivery controller")
	if err := ops.Rollouts.Install(ctx); err != nil {
		return fmt.Errorf("progressive delivery controller install failed: %w", err)
	}

	log.Info("declaring application", "name", argocd.AppName)
	if err := ops.Apps.EnsureApplication(ctx, src); err != nil {
		return fmt.Errorf("application declaration failed: %w", err)
	}

	log.Info("waiting before status report", "delay", b.StatusDelay)
	if err := b.sleep(ctx, b.StatusDelay); err != nil {
		return err
	}

	b.report(ctx, log, ops)

	log.Info("bootstrap complete")
	return nil
}

// report prints the completion summary. Lookups are best-effort; a
// controller that has not reconciled yet must not fail the run.
func (b *Bootstrapper) report(ctx context.Context, log *slog.Logger, ops *ClusterOps) {
	fmt.Fprintln(b.Out)
	fmt.Fprintln(b.Out, "Bootstrap complete.")

	if status, err := ops.Apps.Status(ctx); err != nil {
		log.Warn("application status unavailable", "error", err)
	} else {
		fmt.Fprintf(b.Out, "Application %s: sync=%s health=%s\n",
			status.Name, orPending(status.Sync), orPending(status.Health))
	}

	if password, err := ops.AdminPassword(ctx); err != nil {
		log.Warn("admin password unavailable", "error", err)
	} else {
		fmt.Fprintf(b.Out, "Argo CD admin password: %s\n", password)
	}

	fmt.Fprintln(b.Out)
	fmt.Fprintln(b.Out, "Next steps:")
	fmt.Fprintf(b.Out, "  kubectl -n %s port-forward svc/argocd-server 8080:443\n", argocd.Namespace)
	fmt.Fprintln(b.Out, "  open https://localhost:8080 and log in as admin")
}

func orPending(s string) string {
	if s == "" {
		return "Pending"
	}
	return s
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
