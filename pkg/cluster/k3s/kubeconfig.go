/*
Copyright © 2025 Stackup Authors
SPDX-License-Identifier: Apache-2.0
*/
package k3s

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	// SystemKubeconfigPath is where the runtime writes its credentials.
	SystemKubeconfigPath = "/etc/rancher/k3s/k3s.yaml"

	// serverMarker identifies a credentials file previously written by
	// this runtime; its presence means overwrite without backup.
	serverMarker = "https://127.0.0.1:6443"
)

// KubeconfigOptions controls the credentials install.
type KubeconfigOptions struct {
	// SourcePath is the runtime-generated credentials file.
	// Defaults to SystemKubeconfigPath.
	SourcePath string

	// DestPath is the user credentials file. Defaults to ~/.kube/config.
	DestPath string

	// now is the backup timestamp source, overridable in tests.
	now func() time.Time
}

func (o *KubeconfigOptions) defaults() error {
	if o.SourcePath == "" {
		o.SourcePath = SystemKubeconfigPath
	}
	if o.DestPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to resolve home directory: %w", err)
		}
		o.DestPath = filepath.Join(home, ".kube", "config")
	}
	if o.now == nil {
		o.now = time.Now
	}
	return nil
}

// InstallKubeconfig copies the runtime credentials to the user location and
// returns the destination path. A pre-existing destination without the
// runtime marker is preserved as a timestamped backup first; one carrying
// the marker is overwritten in place.
func InstallKubeconfig(opts KubeconfigOptions) (string, error) {
	if err := opts.defaults(); err != nil {
		return "", err
	}

	src, err := os.ReadFile(opts.SourcePath)
	if err != nil {
		return "", fmt.Errorf("failed to read cluster credentials %s: %w", opts.SourcePath, err)
	}

	if err := os.MkdirAll(filepath.Dir(opts.DestPath), 0700); err != nil {
		return "", fmt.Errorf("failed to create credentials directory: %w", err)
	}

	if existing, err := os.ReadFile(opts.DestPath); err == nil {
		if !strings.Contains(string(existing), serverMarker) {
			backup := fmt.Sprintf("%s.bak.%d", opts.DestPath, opts.now().Unix())
			if err := os.WriteFile(backup, existing, 0600); err != nil {
				return "", fmt.Errorf("failed to back up existing credentials: %w", err)
			}
			slog.Info("backed up existing credentials", "backup", backup)
		}
	} else if !os.IsNotExist(err) {
		return "", fmt.Errorf("failed to inspect existing credentials: %w", err)
	}

	if err := os.WriteFile(opts.DestPath, src, 0600); err != nil {
		return "", fmt.Errorf("failed to write credentials %s: %w", opts.DestPath, err)
	}

	slog.Info("cluster credentials installed", "path", opts.DestPath)
	return opts.DestPath, nil
}
