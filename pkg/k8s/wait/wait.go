/*
Copyright © 2025 Stackup Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package wait provides bounded readiness polls for nodes and controller
// deployments.
package wait

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	utilwait "k8s.io/apimachinery/pkg/util/wait"
	"k8s.io/client-go/kubernetes"

	"github.com/adhikarS/stackup/pkg/defaults"
	"github.com/adhikarS/stackup/pkg/errors"
)

// ForNodesReady polls until every node in the cluster reports the Ready
// condition true. A cluster with no registered nodes is not ready.
func ForNodesReady(ctx context.Context, client kubernetes.Interface, timeout time.Duration) error {
	err := utilwait.PollUntilContextTimeout(ctx, defaults.WaitPollInterval, timeout, true,
		func(ctx context.Context) (bool, error) {
			nodes, err := client.CoreV1().Nodes().List(ctx, metav1.ListOptions{})
			if err != nil {
				slog.Debug("node list failed, retrying", "error", err)
				return false, nil
			}
			if len(nodes.Items) == 0 {
				return false, nil
			}
			for _, node := range nodes.Items {
				if !nodeReady(&node) {
					return false, nil
				}
			}
			return true, nil
		},
	)
	if err != nil {
		return errors.Wrap(errors.ErrCodeTimeout,
			fmt.Sprintf("nodes not ready after %s", timeout), err)
	}
	return nil
}

// ForDeploymentAvailable polls until the deployment reports the Available
// condition true. A deployment that does not exist yet keeps the poll going.
func ForDeploymentAvailable(ctx context.Context, client kubernetes.Interface, namespace, name string, timeout time.Duration) error {
	err := utilwait.PollUntilContextTimeout(ctx, defaults.WaitPollInterval, timeout, true,
		func(ctx context.Context) (bool, error) {
			dep, err := client.AppsV1().Deployments(namespace).Get(ctx, name, metav1.GetOptions{})
			if err != nil {
				if apierrors.IsNotFound(err) {
					return false, nil
				}
				slog.Debug("deployment get failed, retrying",
					"deployment", name, "namespace", namespace, "error", err)
				return false, nil
			}
			return deploymentAvailable(dep), nil
		},
	)
	if err != nil {
		return errors.WrapWithContext(errors.ErrCodeTimeout,
			fmt.Sprintf("deployment not available after %s", timeout), err,
			map[string]any{"deployment": name, "namespace": namespace})
	}

	slog.Info("deployment available", "deployment", name, "namespace", namespace)
	return nil
}

// ForDeploymentsAvailable waits for all named deployments in parallel.
// The first failure cancels the remaining waits.
func ForDeploymentsAvailable(ctx context.Context, client kubernetes.Interface, namespace string, names []string, timeout time.Duration) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, name := range names {
		g.Go(func() error {
			return ForDeploymentAvailable(gctx, client, namespace, name, timeout)
		})
	}
	return g.Wait()
}

func nodeReady(node *corev1.Node) bool {
	for _, cond := range node.Status.Conditions {
		if cond.Type == corev1.NodeReady {
			return cond.Status == corev1.ConditionTrue
		}
	}
	return false
}

func deploymentAvailable(dep *appsv1.Deployment) bool {
	for _, cond := range dep.Status.Conditions {
		if cond.Type == appsv1.DeploymentAvailable {
			return cond.Status == corev1.ConditionTrue
		}
	}
	return false
}
