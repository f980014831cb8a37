/*
Copyright © 2025 Stackup Authors
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/adhikarS/stackup/pkg/logging"
	"github.com/adhikarS/stackup/pkg/serializer"
)

const (
	name           = "stackup"
	versionDefault = "dev"
)

var (
	// overridden during build with ldflags
	version = versionDefault
	commit  = "unknown"
	date    = "unknown"
)

var kubeconfigFlag = &cli.StringFlag{
	Name:    "kubeconfig",
	Aliases: []string{"k"},
	Usage:   "Path to kubeconfig (falls back to KUBECONFIG, then ~/.kube/config)",
}

func rootCmd() *cli.Command {
	return &cli.Command{
		Name:    name,
		Usage:   "Bootstrap a single-node GitOps stack (k3s, Argo CD, Argo Rollouts)",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "info",
				Sources: cli.EnvVars("LOG_LEVEL"),
				Usage:   "Log level (debug, info, warn, error)",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			logging.SetDefaultStructuredLoggerWithLevel(name, version, cmd.String("log-level"))
			return ctx, nil
		},
		Commands: []*cli.Command{
			upCmd(),
			appCmd(),
			statusCmd(),
		},
		DefaultCommand: "up",
	}
}

// Execute runs the CLI. Called by main.
func Execute() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\nReceived interrupt signal, shutting down gracefully...")
		cancel()
	}()

	if err := rootCmd().Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// parseFormat resolves the shared --format flag.
func parseFormat(cmd *cli.Command) (serializer.Format, error) {
	f := serializer.Format(cmd.String("format"))
	if f.IsUnknown() {
		return "", fmt.Errorf("--format must be one of %v, got %q",
			serializer.SupportedFormats(), cmd.String("format"))
	}
	return f, nil
}
