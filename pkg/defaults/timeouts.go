/*
Copyright © 2025 Stackup Authors
SPDX-License-Identifier: Apache-2.0
*/
package defaults

import "time"

// Bootstrap wait budgets. The node wait is advisory (a timeout is logged
// and the procedure continues); controller waits are fatal.
const (
	// NodeReadyTimeout bounds the wait for all nodes to report Ready.
	NodeReadyTimeout = 120 * time.Second

	// ControllerRolloutTimeout bounds the wait for each controller
	// deployment to report Available.
	ControllerRolloutTimeout = 180 * time.Second

	// WaitPollInterval is the probe interval for readiness polls.
	WaitPollInterval = 2 * time.Second

	// StatusDelay is how long to let the GitOps controller reconcile
	// before the first sync-status report.
	StatusDelay = 60 * time.Second
)

// Host operation timeouts.
const (
	// AptTimeout bounds a single apt-get invocation, including any
	// dpkg lock wait.
	AptTimeout = 5 * time.Minute

	// InstallerTimeout bounds the cluster runtime installer script run.
	InstallerTimeout = 10 * time.Minute

	// SystemdQueryTimeout bounds a unit state query over the system bus.
	SystemdQueryTimeout = 10 * time.Second
)

// HTTP client timeouts for manifest and installer downloads.
const (
	// HTTPClientTimeout is the total timeout for a single download.
	HTTPClientTimeout = 60 * time.Second

	// HTTPConnectTimeout is the timeout for establishing connections.
	HTTPConnectTimeout = 5 * time.Second

	// HTTPTLSHandshakeTimeout is the timeout for TLS handshake.
	HTTPTLSHandshakeTimeout = 5 * time.Second

	// HTTPResponseHeaderTimeout is the timeout for response headers.
	HTTPResponseHeaderTimeout = 10 * time.Second

	// HTTPKeepAlive is the keep-alive duration for connections.
	HTTPKeepAlive = 30 * time.Second
)

// Kubernetes API operation timeouts.
const (
	// K8sRequestTimeout bounds individual API requests outside of the
	// poll loops (namespace/Application create, secret read).
	K8sRequestTimeout = 30 * time.Second
)
