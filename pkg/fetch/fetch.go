/*
Copyright © 2025 Stackup Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package fetch downloads installer scripts and manifest bundles over
// HTTPS. Sources are trusted by URL; no signature or checksum verification
// is performed.
package fetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/adhikarS/stackup/pkg/defaults"
	"github.com/adhikarS/stackup/pkg/errors"
)

// maxBodySize caps manifest downloads. The Argo CD install bundle is ~2MB;
// anything past this limit indicates a wrong URL.
const maxBodySize = 64 << 20

// Fetcher downloads remote content with bounded timeouts.
type Fetcher struct {
	client *http.Client
}

// New creates a Fetcher with the default timeout profile.
func New() *Fetcher {
	return &Fetcher{
		client: &http.Client{
			Timeout: defaults.HTTPClientTimeout,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout:   defaults.HTTPConnectTimeout,
					KeepAlive: defaults.HTTPKeepAlive,
				}).DialContext,
				TLSHandshakeTimeout:   defaults.HTTPTLSHandshakeTimeout,
				ResponseHeaderTimeout: defaults.HTTPResponseHeaderTimeout,
			},
		},
	}
}

// NewWithClient creates a Fetcher with a custom HTTP client, used in tests.
func NewWithClient(client *http.Client) *Fetcher {
	return &Fetcher{client: client}
}

// Get downloads the content at url. Redirects are followed; any non-2xx
// terminal status is an error.
func (f *Fetcher) Get(ctx context.Context, url string) ([]byte, error) {
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidRequest, "invalid download URL", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, errors.WrapWithContext(errors.ErrCodeUnavailable,
			"download failed", err, map[string]any{"url": url})
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errors.New(errors.ErrCodeUnavailable,
			fmt.Sprintf("unexpected status %d downloading %s", resp.StatusCode, url))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if len(body) > maxBodySize {
		return nil, errors.New(errors.ErrCodeInvalidRequest, "response body exceeds size limit")
	}

	slog.Debug("download complete",
		"url", url,
		"size_bytes", len(body),
		"duration_sec", time.Since(start).Seconds(),
	)
	return body, nil
}
