/*
Copyright © 2025 Stackup Authors
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/adhikarS/stackup/pkg/gitops/argocd"
	"github.com/adhikarS/stackup/pkg/k8s/client"
	"github.com/adhikarS/stackup/pkg/serializer"
)

// nodeStatus is one row of the node summary.
type nodeStatus struct {
	Name    string `json:"name" yaml:"name"`
	Ready   bool   `json:"ready" yaml:"ready"`
	Version string `json:"version,omitempty" yaml:"version,omitempty"`
}

// statusReport is the full status output. Sections the cluster could not
// answer are left empty.
type statusReport struct {
	Nodes         []nodeStatus      `json:"nodes,omitempty" yaml:"nodes,omitempty"`
	Application   *argocd.AppStatus `json:"application,omitempty" yaml:"application,omitempty"`
	AdminPassword string            `json:"adminPassword,omitempty" yaml:"adminPassword,omitempty"`
}

func statusCmd() *cli.Command {
	return &cli.Command{
		Name:                  "status",
		EnableShellCompletion: true,
		Usage:                 "Report node, application, and admin credential status",
		Description: `Reports the cluster node summary, the Application sync and health
state, and the Argo CD initial admin password. Every lookup is best
effort: sections the cluster cannot answer yet are omitted.`,
		Flags: []cli.Flag{
			kubeconfigFlag,
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output file path (default: stdout)",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Value:   string(serializer.FormatYAML),
				Usage:   fmt.Sprintf("Output format: %v", serializer.SupportedFormats()),
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			format, err := parseFormat(cmd)
			if err != nil {
				return err
			}

			clients, err := client.Build(cmd.String("kubeconfig"))
			if err != nil {
				return err
			}

			report := collectStatus(ctx, clients)

			var out io.Writer = os.Stdout
			if path := cmd.String("output"); path != "" {
				file, err := os.Create(path)
				if err != nil {
					return fmt.Errorf("failed to create output file: %w", err)
				}
				defer file.Close()
				out = file
			}

			return serializer.NewWriter(format, out).Serialize(report)
		},
	}
}

// collectStatus gathers every report section, logging and skipping the
// ones that fail.
func collectStatus(ctx context.Context, clients *client.Clients) *statusReport {
	report := &statusReport{}

	if nodes, err := clients.Typed.CoreV1().Nodes().List(ctx, metav1.ListOptions{}); err != nil {
		slog.Warn("node summary unavailable", "error", err)
	} else {
		for _, node := range nodes.Items {
			report.Nodes = append(report.Nodes, nodeStatus{
				Name:    node.Name,
				Ready:   isNodeReady(&node),
				Version: node.Status.NodeInfo.KubeletVersion,
			})
		}
	}

	if status, err := argocd.NewAppManager(clients.Dynamic).Status(ctx); err != nil {
		slog.Warn("application status unavailable", "error", err)
	} else {
		report.Application = status
	}

	if password, err := argocd.AdminPassword(ctx, clients.Typed); err != nil {
		slog.Warn("admin password unavailable", "error", err)
	} else {
		report.AdminPassword = password
	}

	return report
}

func isNodeReady(node *corev1.Node) bool {
	for _, cond := range node.Status.Conditions {
		if cond.Type == corev1.NodeReady {
			return cond.Status == corev1.ConditionTrue
		}
	}
	return false
}
