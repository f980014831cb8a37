/*
Copyright © 2025 Stackup Authors
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/adhikarS/stackup/pkg/gitops/argocd"
	"github.com/adhikarS/stackup/pkg/k8s/client"
)

func appCmd() *cli.Command {
	return &cli.Command{
		Name:                  "app",
		EnableShellCompletion: true,
		Usage:                 "Declare (create or update) the GitOps application only",
		ArgsUsage:             "[REPO_URL [REVISION [PATH]]]",
		Description: `Declares the Application custom resource against an already running
cluster, without touching the host or the controllers. Useful for
repointing the stack at a different repository, revision, or path.

# Examples

Declare with the default source:
  stackup app

Track a release branch:
  stackup app https://github.com/example/app.git release-1.0 manifests`,
		Flags: []cli.Flag{
			kubeconfigFlag,
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			src, err := sourceFromArgs(cmd.Args().Slice())
			if err != nil {
				return err
			}

			clients, err := client.Build(cmd.String("kubeconfig"))
			if err != nil {
				return err
			}

			if err := argocd.NewAppManager(clients.Dynamic).EnsureApplication(ctx, src); err != nil {
				return err
			}

			slog.Info("application declared",
				"name", argocd.AppName,
				"repo", src.RepoURL,
				"revision", src.Revision,
				"path", src.Path,
			)
			return nil
		},
	}
}
