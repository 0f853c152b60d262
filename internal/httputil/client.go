// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers shared across stages.
package httputil

import (
	"net/http"
	"time"

	"github.com/pdiddy/docpipe/pkg/types"
)

const defaultTimeout = 120 * time.Second

// NewClient builds an *http.Client from cfg. Every request carries the
// configured User-Agent header. Requests are never retried: a failed call
// surfaces immediately so the operator can rerun or switch strategy.
func NewClient(cfg types.HTTPConfig) *http.Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &http.Client{
		Timeout: timeout,
		Transport: &userAgentTransport{
			userAgent: cfg.UserAgent,
			next:      http.DefaultTransport,
		},
	}
}

// userAgentTransport stamps the User-Agent header on outgoing requests that
// do not already set one.
type userAgentTransport struct {
	userAgent string
	next      http.RoundTripper
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.userAgent != "" && req.Header.Get("User-Agent") == "" {
		clone := req.Clone(req.Context())
		clone.Header.Set("User-Agent", t.userAgent)
		return t.next.RoundTrip(clone)
	}
	return t.next.RoundTrip(req)
}
