// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/docpipe/pkg/types"
)

func TestNewClientSetsUserAgent(t *testing.T) {
	var got string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("User-Agent")
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	client := NewClient(types.HTTPConfig{Timeout: 5 * time.Second, UserAgent: "docpipe/0.1"})
	resp, err := client.Get(ts.URL)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, "docpipe/0.1", got)
}

func TestNewClientKeepsExplicitUserAgent(t *testing.T) {
	var got string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("User-Agent")
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	client := NewClient(types.HTTPConfig{UserAgent: "docpipe/0.1"})
	req, err := http.NewRequest(http.MethodGet, ts.URL, nil)
	require.NoError(t, err)
	req.Header.Set("User-Agent", "custom/1.0")

	resp, err := client.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, "custom/1.0", got)
}

func TestNewClientDefaultTimeout(t *testing.T) {
	client := NewClient(types.HTTPConfig{})
	assert.Equal(t, defaultTimeout, client.Timeout)

	client = NewClient(types.HTTPConfig{Timeout: time.Second})
	assert.Equal(t, time.Second, client.Timeout)
}
