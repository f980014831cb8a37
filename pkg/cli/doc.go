/*
Copyright © 2025 Stackup Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package cli implements the stackup command line interface: the up
// bootstrap command, the app declaration command, and the status report.
package cli
