/*
Copyright © 2025 Stackup Authors
SPDX-License-Identifier: Apache-2.0
*/
package argocd

import (
	"context"
	"fmt"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/client-go/kubernetes"

	"github.com/adhikarS/stackup/pkg/errors"
)

// adminSecretName holds the generated initial admin password.
const adminSecretName = "argocd-initial-admin-secret"

// AppStatus is the sync and health summary of an Application.
type AppStatus struct {
	Name     string `json:"name" yaml:"name"`
	Sync     string `json:"sync" yaml:"sync"`
	Health   string `json:"health" yaml:"health"`
	Revision string `json:"revision,omitempty" yaml:"revision,omitempty"`
}

// Status reads the current sync and health state of the bootstrap
// Application. Fields the controller has not populated yet come back empty.
func (m *AppManager) Status(ctx context.Context) (*AppStatus, error) {
	app, err := m.dyn.Resource(applicationGVR).Namespace(Namespace).Get(ctx, AppName, metav1.GetOptions{})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNotFound,
			fmt.Sprintf("failed to get application %s", AppName), err)
	}

	sync, _, _ := unstructured.NestedString(app.Object, "status", "sync", "status")
	health, _, _ := unstructured.NestedString(app.Object, "status", "health", "status")
	revision, _, _ := unstructured.NestedString(app.Object, "status", "sync", "revision")

	return &AppStatus{
		Name:     AppName,
		Sync:     sync,
		Health:   health,
		Revision: revision,
	}, nil
}

// AdminPassword reads the generated initial admin password. Argo CD deletes
// the secret once the password is rotated, in which case this errors.
func AdminPassword(ctx context.Context, client kubernetes.Interface) (string, error) {
	secret, err := client.CoreV1().Secrets(Namespace).Get(ctx, adminSecretName, metav1.GetOptions{})
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeNotFound,
			fmt.Sprintf("failed to get secret %s", adminSecretName), err)
	}

	password, ok := secret.Data["password"]
	if !ok {
		return "", errors.New(errors.ErrCodeNotFound,
			fmt.Sprintf("secret %s has no password key", adminSecretName))
	}
	return string(password), nil
}
