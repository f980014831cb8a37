/*
Copyright © 2025 Stackup Authors
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/adhikarS/stackup/pkg/bootstrap"
	"github.com/adhikarS/stackup/pkg/cluster/k3s"
	"github.com/adhikarS/stackup/pkg/defaults"
	"github.com/adhikarS/stackup/pkg/fetch"
	"github.com/adhikarS/stackup/pkg/gitops/argocd"
	"github.com/adhikarS/stackup/pkg/gitops/rollouts"
	"github.com/adhikarS/stackup/pkg/host/apt"
	"github.com/adhikarS/stackup/pkg/host/runner"
	"github.com/adhikarS/stackup/pkg/host/systemd"
	"github.com/adhikarS/stackup/pkg/k8s/apply"
	"github.com/adhikarS/stackup/pkg/k8s/client"
	"github.com/adhikarS/stackup/pkg/k8s/wait"
)

// Default Application source coordinates when no positional args are given.
const (
	DefaultRepoURL  = "https://github.com/adhikarS/blue-green.git"
	DefaultRevision = "main"
	DefaultPath     = "manifests"
)

// upCmdOptions holds parsed options for the up command.
type upCmdOptions struct {
	source            argocd.AppSource
	kubeconfig        string
	nodeTimeout       time.Duration
	controllerTimeout time.Duration
	statusDelay       time.Duration
	skipHostSetup     bool
	argocdManifest    string
	rolloutsManifest  string
}

// sourceFromArgs builds the Application source from up to three positional
// arguments, filling the literal defaults for any that are missing. Values
// pass through untransformed.
func sourceFromArgs(args []string) (argocd.AppSource, error) {
	if len(args) > 3 {
		return argocd.AppSource{}, fmt.Errorf(
			"expected at most 3 arguments (REPO_URL REVISION PATH), got %d", len(args))
	}

	src := argocd.AppSource{
		RepoURL:  DefaultRepoURL,
		Revision: DefaultRevision,
		Path:     DefaultPath,
	}
	if len(args) > 0 {
		src.RepoURL = args[0]
	}
	if len(args) > 1 {
		src.Revision = args[1]
	}
	if len(args) > 2 {
		src.Path = args[2]
	}
	return src, src.Validate()
}

// parseUpCmdOptions parses and validates command options.
func parseUpCmdOptions(cmd *cli.Command) (*upCmdOptions, error) {
	src, err := sourceFromArgs(cmd.Args().Slice())
	if err != nil {
		return nil, err
	}

	return &upCmdOptions{
		source:            src,
		kubeconfig:        cmd.String("kubeconfig"),
		nodeTimeout:       cmd.Duration("node-timeout"),
		controllerTimeout: cmd.Duration("controller-timeout"),
		statusDelay:       cmd.Duration("status-delay"),
		skipHostSetup:     cmd.Bool("skip-host-setup"),
		argocdManifest:    cmd.String("argocd-manifest-url"),
		rolloutsManifest:  cmd.String("rollouts-manifest-url"),
	}, nil
}

func upCmd() *cli.Command {
	return &cli.Command{
		Name:                  "up",
		EnableShellCompletion: true,
		Usage:                 "Provision the cluster, controllers, and GitOps application",
		ArgsUsage:             "[REPO_URL [REVISION [PATH]]]",
		Description: `Provisions the full stack on the local host:

  1. Installs required packages (curl, git) via apt
  2. Installs k3s unless its systemd unit is already active
  3. Copies the cluster credentials to ~/.kube/config
  4. Waits for the node to become Ready (best effort)
  5. Installs Argo CD and waits for its deployments
  6. Installs Argo Rollouts and waits for its deployment
  7. Declares the Application tracking REPO_URL at REVISION under PATH
  8. Reports sync status and the initial admin password

# Examples

Bootstrap with the default application source:
  stackup up

Bootstrap tracking a custom repository:
  stackup up https://github.com/example/app.git v1.2.0 deploy/manifests`,
		Flags: []cli.Flag{
			kubeconfigFlag,
			&cli.DurationFlag{
				Name:  "node-timeout",
				Value: defaults.NodeReadyTimeout,
				Usage: "How long to wait for nodes to become Ready (non-fatal on expiry)",
			},
			&cli.DurationFlag{
				Name:  "controller-timeout",
				Value: defaults.ControllerRolloutTimeout,
				Usage: "How long to wait for each controller deployment to become Available",
			},
			&cli.DurationFlag{
				Name:  "status-delay",
				Value: defaults.StatusDelay,
				Usage: "Delay before the final application status report",
			},
			&cli.BoolFlag{
				Name:  "skip-host-setup",
				Usage: "Skip apt packages and k3s install (host already provisioned)",
			},
			&cli.StringFlag{
				Name:  "argocd-manifest-url",
				Value: argocd.ManifestURL,
				Usage: "Argo CD install manifest location",
			},
			&cli.StringFlag{
				Name:  "rollouts-manifest-url",
				Value: rollouts.ManifestURL,
				Usage: "Argo Rollouts install manifest location",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			opts, err := parseUpCmdOptions(cmd)
			if err != nil {
				return err
			}
			return runUp(ctx, opts)
		},
	}
}

func runUp(ctx context.Context, opts *upCmdOptions) error {
	run := runner.New()
	fetcher := fetch.New()

	b := &bootstrap.Bootstrapper{
		Packages: apt.New(run),
		Runtime:  k3s.New(run, systemd.New(), fetcher),
		InstallCredentials: func() (string, error) {
			return k3s.InstallKubeconfig(k3s.KubeconfigOptions{})
		},
		Cluster: func(kubeconfig string) (*bootstrap.ClusterOps, error) {
			if opts.kubeconfig != "" {
				kubeconfig = opts.kubeconfig
			}
			return buildClusterOps(kubeconfig, opts, fetcher)
		},
		SkipHostSetup: opts.skipHostSetup,
		StatusDelay:   opts.statusDelay,
	}

	return b.Run(ctx, opts.source)
}

func buildClusterOps(kubeconfig string, opts *upCmdOptions, fetcher *fetch.Fetcher) (*bootstrap.ClusterOps, error) {
	clients, err := client.Build(kubeconfig)
	if err != nil {
		return nil, err
	}

	mapper, err := clients.NewRESTMapper()
	if err != nil {
		return nil, err
	}
	applier := apply.New(clients.Dynamic, mapper)

	argoInst := argocd.NewInstaller(clients.Typed, applier, fetcher)
	argoInst.ManifestSource = opts.argocdManifest
	argoInst.WaitTimeout = opts.controllerTimeout

	rollInst := rollouts.NewInstaller(clients.Typed, applier, fetcher)
	rollInst.ManifestSource = opts.rolloutsManifest
	rollInst.WaitTimeout = opts.controllerTimeout

	return &bootstrap.ClusterOps{
		ArgoCD:   argoInst,
		Rollouts: rollInst,
		Apps:     argocd.NewAppManager(clients.Dynamic),
		WaitNodes: func(ctx context.Context) error {
			return wait.ForNodesReady(ctx, clients.Typed, opts.nodeTimeout)
		},
		AdminPassword: func(ctx context.Context) (string, error) {
			return argocd.AdminPassword(ctx, clients.Typed)
		},
	}, nil
}
