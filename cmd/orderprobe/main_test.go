package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rafabd1/orderprobe/internal/variants"
)

func executeContext(ctx context.Context, args ...string) (string, error) {
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(ctx)
	return out.String(), err
}

func newOrdersServer(t *testing.T) (*httptest.Server, func() []string) {
	t.Helper()

	var mu sync.Mutex
	var auth []string

	r := chi.NewRouter()
	r.Post("/api/orders/createOrder", func(w http.ResponseWriter, req *http.Request) {
		mu.Lock()
		auth = append(auth, req.Header.Get("Authorization"))
		mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"orderId":42}`))
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	return srv, func() []string {
		mu.Lock()
		defer mu.Unlock()
		return append([]string(nil), auth...)
	}
}

func TestRunUsesEnvironment(t *testing.T) {
	srv, seen := newOrdersServer(t)
	t.Setenv("BASE_URL", srv.URL)
	t.Setenv("API_TOKEN", "abc")

	out, err := executeContext(context.Background(), "run", "--silent")
	require.NoError(t, err)

	assert.Equal(t, 7, strings.Count(out, "Status: 201"))
	assert.Contains(t, out, "BASE_URL = "+srv.URL)
	assert.Contains(t, out, "Using API_TOKEN from environment")
	assert.NotContains(t, out, "Bearer abc")

	auth := seen()
	require.Len(t, auth, 7)
	for _, h := range auth {
		assert.Equal(t, "Bearer abc", h)
	}
}

func TestRunFlagsOverrideEnvironment(t *testing.T) {
	srv, seen := newOrdersServer(t)
	t.Setenv("BASE_URL", "http://127.0.0.1:1")
	t.Setenv("API_TOKEN", "")

	out, err := executeContext(context.Background(), "--silent", "--base-url", srv.URL, "--variant", variants.NameFull)
	require.NoError(t, err)

	assert.Equal(t, 1, strings.Count(out, "Status: 201"))
	assert.Contains(t, out, "No API_TOKEN set")
	require.Len(t, seen(), 1)
	assert.Empty(t, seen()[0])
}

func TestRunJSONSummary(t *testing.T) {
	srv, _ := newOrdersServer(t)
	t.Setenv("BASE_URL", srv.URL)
	t.Setenv("API_TOKEN", "")

	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs([]string{"--silent", "--format", "json"})
	require.NoError(t, cmd.Execute())

	var doc struct {
		RunID   string `json:"run_id"`
		Total   int    `json:"total"`
		Failed  int    `json:"failed"`
		Results []struct {
			Variant    string `json:"variant"`
			StatusCode int    `json:"status_code"`
		} `json:"results"`
	}
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &doc))
	assert.NotEmpty(t, doc.RunID)
	assert.Equal(t, 7, doc.Total)
	assert.Zero(t, doc.Failed)
	for _, r := range doc.Results {
		assert.Equal(t, http.StatusCreated, r.StatusCode, r.Variant)
	}
	assert.Contains(t, stderr.String(), "=== Variant: "+variants.NameFull)
}

func TestRunDryRunNeedsNoServer(t *testing.T) {
	t.Setenv("BASE_URL", "http://127.0.0.1:1")
	t.Setenv("API_TOKEN", "")

	out, err := executeContext(context.Background(), "--silent", "--dry-run")
	require.NoError(t, err)
	assert.Equal(t, 7, strings.Count(out, "Dry run: request not sent"))
}

func TestRunRejectsBadInput(t *testing.T) {
	t.Setenv("API_TOKEN", "")

	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "scheme", args: []string{"--base-url", "ftp://example.com"}, want: "invalid configuration"},
		{name: "format", args: []string{"--format", "xml"}, want: "invalid configuration"},
		{name: "raw with proxy", args: []string{"--transport", "raw", "--proxy", "127.0.0.1:8080"}, want: "invalid configuration"},
		{name: "unknown variant", args: []string{"--variant", "no-such-variant"}, want: "no-such-variant"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := executeContext(context.Background(), append([]string{"--silent"}, tt.args...)...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestListPrintsEveryVariant(t *testing.T) {
	out, err := executeContext(context.Background(), "list")
	require.NoError(t, err)

	for _, name := range variants.Names() {
		assert.Contains(t, out, "=== "+name+"\n")
	}
}

func TestVersion(t *testing.T) {
	out, err := executeContext(context.Background(), "version")
	require.NoError(t, err)
	assert.Equal(t, "orderprobe dev\n", out)
}
