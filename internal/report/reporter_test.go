package report

import (
	"bytes"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requestHeaders() http.Header {
	h := http.Header{}
	h.Set("Content-Type", "application/json")
	h.Set("Authorization", "Bearer tok-123456")
	return h
}

func TestRequestMasksTokenByDefault(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	r := NewReporter(&buf, Options{})
	r.Request("full", http.MethodPost, "http://x/api/orders/createOrder", requestHeaders(), []byte(`{"a":1}`))

	out := buf.String()
	assert.Contains(t, out, "=== Variant: full")
	assert.Contains(t, out, "--- POST http://x/api/orders/createOrder")
	assert.Contains(t, out, `Body: {"a":1}`)
	assert.NotContains(t, out, "tok-123456")
	assert.Contains(t, out, "3456")
}

func TestRequestShowToken(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	NewReporter(&buf, Options{ShowToken: true}).Request("full", http.MethodPost, "http://x", requestHeaders(), nil)
	assert.Contains(t, buf.String(), "Bearer tok-123456")
}

func TestResultVariants(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		res     ProbeResult
		want    []string
		notWant []string
	}{
		{
			name: "success",
			res: ProbeResult{
				StatusCode: 201,
				Status:     "201 Created",
				Headers:    http.Header{"Content-Type": {"application/json"}},
				Body:       `{"id":7}`,
			},
			want:    []string{"Status: 201", `Response headers: {"Content-Type": "application/json"}`, `Response body: {"id":7}`},
			notWant: []string{"Request failed", "page title"},
		},
		{
			name: "html_error_page",
			res: ProbeResult{
				StatusCode: 502,
				Headers:    http.Header{"Content-Type": {"text/html"}},
				Body:       "<html><head><title>502 Bad Gateway</title></head></html>",
			},
			want: []string{"Status: 502", "Response page title: 502 Bad Gateway"},
		},
		{
			name:    "failure",
			res:     ProbeResult{Err: errors.New("dial tcp: connection refused")},
			want:    []string{"Request failed: dial tcp: connection refused"},
			notWant: []string{"Status:"},
		},
		{
			name:    "dry_run",
			res:     ProbeResult{Skipped: true},
			want:    []string{"Dry run: request not sent"},
			notWant: []string{"Status:", "Request failed"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			NewReporter(&buf, Options{}).Result(tt.res)
			for _, w := range tt.want {
				assert.Contains(t, buf.String(), w)
			}
			for _, nw := range tt.notWant {
				assert.NotContains(t, buf.String(), nw)
			}
		})
	}
}

func sampleResults() []ProbeResult {
	return []ProbeResult{
		{Variant: "full", URL: "http://x", StatusCode: 400, Status: "400 Bad Request", Duration: 12 * time.Millisecond},
		{Variant: "minimal", URL: "http://x", Err: errors.New("timeout"), Duration: 15 * time.Second},
	}
}

func TestSummaryText(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, NewReporter(&buf, Options{}).Summary(sampleResults()))

	out := buf.String()
	assert.Contains(t, out, "=== Summary (2 variants, 1 failed)")
	assert.Contains(t, out, "400 Bad Request")
	assert.Contains(t, out, "error: timeout")
	assert.Equal(t, 0, strings.Count(out, "Status: "))
	assert.Equal(t, 0, strings.Count(out, "Request failed"))
}

func TestSummaryJSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, NewReporter(&buf, Options{Format: "json", RunID: "run-1"}).Summary(sampleResults()))

	var decoded summary
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "run-1", decoded.RunID)
	assert.Equal(t, 2, decoded.Total)
	assert.Equal(t, 1, decoded.Failed)
	require.Len(t, decoded.Results, 2)
	assert.Equal(t, 400, decoded.Results[0].StatusCode)
	assert.Equal(t, "timeout", decoded.Results[1].Error)
	assert.Equal(t, int64(15000), decoded.Results[1].DurationMs)
}

func TestStartBanner(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	NewReporter(&buf, Options{RunID: "abc"}).Start("/api/orders/createOrder", "http://x", false)
	assert.Contains(t, buf.String(), "Starting probe testing for /api/orders/createOrder")
	assert.Contains(t, buf.String(), "No API_TOKEN set")
	assert.Contains(t, buf.String(), "Run ID = abc")
}
