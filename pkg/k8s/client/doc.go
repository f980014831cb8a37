// Package client creates Kubernetes clients from ambient configuration.
// It resolves the kubeconfig from an explicit path, the KUBECONFIG
// environment variable, the default home location, or the in-cluster
// service account, in that order.
package client
