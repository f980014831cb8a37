/*
Copyright © 2025 Stackup Authors
SPDX-License-Identifier: Apache-2.0
*/
package wait

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	k8sfake "k8s.io/client-go/kubernetes/fake"
	"k8s.io/utils/ptr"

	stackerr "github.com/adhikarS/stackup/pkg/errors"
)

const testTimeout = 50 * time.Millisecond

func readyNode(name string) *corev1.Node {
	return &corev1.Node{
		ObjectMeta: metav1.ObjectMeta{Name: name},
		Status: corev1.NodeStatus{
			Conditions: []corev1.NodeCondition{
				{Type: corev1.NodeReady, Status: corev1.ConditionTrue},
			},
		},
	}
}

func notReadyNode(name string) *corev1.Node {
	return &corev1.Node{
		ObjectMeta: metav1.ObjectMeta{Name: name},
		Status: corev1.NodeStatus{
			Conditions: []corev1.NodeCondition{
				{Type: corev1.NodeReady, Status: corev1.ConditionFalse},
			},
		},
	}
}

func deployment(namespace, name string, available bool) *appsv1.Deployment {
	status := corev1.ConditionFalse
	if available {
		status = corev1.ConditionTrue
	}
	return &appsv1.Deployment{
		ObjectMeta: metav1.ObjectMeta{Name: name, Namespace: namespace},
		Spec:       appsv1.DeploymentSpec{Replicas: ptr.To(int32(1))},
		Status: appsv1.DeploymentStatus{
			Conditions: []appsv1.DeploymentCondition{
				{Type: appsv1.DeploymentAvailable, Status: status},
			},
		},
	}
}

func TestForNodesReady(t *testing.T) {
	//nolint:staticcheck // SA1019: NewSimpleClientset is adequate for basic test needs
	client := k8sfake.NewSimpleClientset(readyNode("node-1"))

	require.NoError(t, ForNodesReady(t.Context(), client, testTimeout))
}

func TestForNodesReadyTimeoutOnNotReady(t *testing.T) {
	//nolint:staticcheck // SA1019: NewSimpleClientset is adequate for basic test needs
	client := k8sfake.NewSimpleClientset(readyNode("node-1"), notReadyNode("node-2"))

	err := ForNodesReady(t.Context(), client, testTimeout)
	require.Error(t, err)
	assert.Equal(t, stackerr.ErrCodeTimeout, stackerr.CodeOf(err))
}

func TestForNodesReadyTimeoutOnEmptyCluster(t *testing.T) {
	//nolint:staticcheck // SA1019: NewSimpleClientset is adequate for basic test needs
	client := k8sfake.NewSimpleClientset()

	err := ForNodesReady(t.Context(), client, testTimeout)
	require.Error(t, err)
}

func TestForDeploymentAvailable(t *testing.T) {
	//nolint:staticcheck // SA1019: NewSimpleClientset is adequate for basic test needs
	client := k8sfake.NewSimpleClientset(deployment("argocd", "argocd-server", true))

	require.NoError(t, ForDeploymentAvailable(t.Context(), client, "argocd", "argocd-server", testTimeout))
}

func TestForDeploymentAvailableTimeout(t *testing.T) {
	//nolint:staticcheck // SA1019: NewSimpleClientset is adequate for basic test needs
	client := k8sfake.NewSimpleClientset(deployment("argocd", "argocd-server", false))

	err := ForDeploymentAvailable(t.Context(), client, "argocd", "argocd-server", testTimeout)
	require.Error(t, err)
	assert.Equal(t, stackerr.ErrCodeTimeout, stackerr.CodeOf(err))
}

func TestForDeploymentAvailableMissingDeploymentTimesOut(t *testing.T) {
	//nolint:staticcheck // SA1019: NewSimpleClientset is adequate for basic test needs
	client := k8sfake.NewSimpleClientset()

	err := ForDeploymentAvailable(t.Context(), client, "argocd", "argocd-server", testTimeout)
	require.Error(t, err)
	assert.Equal(t, stackerr.ErrCodeTimeout, stackerr.CodeOf(err))
}

func TestForDeploymentsAvailable(t *testing.T) {
	//nolint:staticcheck // SA1019: NewSimpleClientset is adequate for basic test needs
	client := k8sfake.NewSimpleClientset(
		deployment("argocd", "argocd-server", true),
		deployment("argocd", "argocd-repo-server", true),
		deployment("argocd", "argocd-applicationset-controller", true),
	)

	err := ForDeploymentsAvailable(t.Context(), client, "argocd",
		[]string{"argocd-server", "argocd-repo-server", "argocd-applicationset-controller"},
		testTimeout)
	require.NoError(t, err)
}

func TestForDeploymentsAvailableOneFailing(t *testing.T) {
	//nolint:staticcheck // SA1019: NewSimpleClientset is adequate for basic test needs
	client := k8sfake.NewSimpleClientset(
		deployment("argocd", "argocd-server", true),
		deployment("argocd", "argocd-repo-server", false),
	)

	err := ForDeploymentsAvailable(t.Context(), client, "argocd",
		[]string{"argocd-server", "argocd-repo-server"}, testTimeout)
	require.Error(t, err)
}
