package report

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/rafabd1/orderprobe/internal/utils"
)

// ProbeResult is the outcome of one variant. It lives only for the run.
type ProbeResult struct {
	Variant    string
	URL        string
	StatusCode int // 0 when no response was received
	Status     string
	Headers    http.Header
	Body       string
	Err        error
	Skipped    bool // Dry run: the request was printed but not sent
	Duration   time.Duration
}

// Failed reports whether the exchange itself failed. A 4xx/5xx is not a failure.
func (r ProbeResult) Failed() bool {
	return r.Err != nil
}

// Options controls how a Reporter prints.
type Options struct {
	Format        string // "text" or "json"; only the summary honours json
	ShowToken     bool
	RunID         string
	SummaryWriter io.Writer // Defaults to the traffic writer
}

// Reporter prints probe traffic for a human reader. Nothing is written to disk.
type Reporter struct {
	out  io.Writer
	opts Options
}

// NewReporter creates a new Reporter.
func NewReporter(out io.Writer, opts Options) *Reporter {
	if opts.Format == "" {
		opts.Format = "text"
	}
	if opts.SummaryWriter == nil {
		opts.SummaryWriter = out
	}
	return &Reporter{out: out, opts: opts}
}

// Start prints the run banner.
func (r *Reporter) Start(endpoint string, baseURL string, tokenSet bool) {
	fmt.Fprintf(r.out, "Starting probe testing for %s\n", endpoint)
	fmt.Fprintf(r.out, "BASE_URL = %s\n", baseURL)
	if r.opts.RunID != "" {
		fmt.Fprintf(r.out, "Run ID = %s\n", r.opts.RunID)
	}
	if tokenSet {
		fmt.Fprintln(r.out, "Using API_TOKEN from environment")
	} else {
		fmt.Fprintln(r.out, "No API_TOKEN set; requests may be unauthorized (401)")
	}
}

// Request prints what is about to be sent for a variant.
func (r *Reporter) Request(variant string, method string, url string, headers http.Header, body []byte) {
	fmt.Fprintf(r.out, "\n=== Variant: %s\n", variant)
	fmt.Fprintf(r.out, "\n--- %s %s\n", method, url)
	fmt.Fprintf(r.out, "Headers: %s\n", utils.FormatHeaders(headers, !r.opts.ShowToken))
	fmt.Fprintf(r.out, "Body: %s\n", body)
}

// Result prints the outcome of a variant: the response, the failure, or the dry-run marker.
func (r *Reporter) Result(res ProbeResult) {
	switch {
	case res.Skipped:
		fmt.Fprintln(r.out, "Dry run: request not sent")
	case res.Failed():
		fmt.Fprintf(r.out, "Request failed: %v\n", res.Err)
	default:
		fmt.Fprintf(r.out, "Status: %d\n", res.StatusCode)
		fmt.Fprintf(r.out, "Response headers: %s\n", utils.FormatHeaders(res.Headers, false))
		fmt.Fprintf(r.out, "Response body: %s\n", res.Body)
		if utils.IsHTMLContent(res.Headers.Get("Content-Type")) {
			if title, ok := utils.ExtractHTMLTitle([]byte(res.Body)); ok {
				fmt.Fprintf(r.out, "Response page title: %s\n", title)
			}
		}
	}
}

type summaryEntry struct {
	Variant    string `json:"variant"`
	URL        string `json:"url"`
	StatusCode int    `json:"status_code,omitempty"`
	Status     string `json:"status,omitempty"`
	Error      string `json:"error,omitempty"`
	Skipped    bool   `json:"skipped,omitempty"`
	DurationMs int64  `json:"duration_ms"`
}

type summary struct {
	RunID   string         `json:"run_id,omitempty"`
	Total   int            `json:"total"`
	Failed  int            `json:"failed"`
	Results []summaryEntry `json:"results"`
}

func buildSummary(runID string, results []ProbeResult) summary {
	s := summary{RunID: runID, Total: len(results), Results: make([]summaryEntry, 0, len(results))}
	for _, res := range results {
		entry := summaryEntry{
			Variant:    res.Variant,
			URL:        res.URL,
			StatusCode: res.StatusCode,
			Status:     res.Status,
			Skipped:    res.Skipped,
			DurationMs: res.Duration.Milliseconds(),
		}
		if res.Err != nil {
			entry.Error = res.Err.Error()
			s.Failed++
		}
		s.Results = append(s.Results, entry)
	}
	return s
}

// Summary prints one line per variant, or a JSON document when the format is json.
func (r *Reporter) Summary(results []ProbeResult) error {
	s := buildSummary(r.opts.RunID, results)
	w := r.opts.SummaryWriter

	if r.opts.Format == "json" {
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(s)
	}

	if _, err := fmt.Fprintf(w, "\n=== Summary (%d variants, %d failed)\n", s.Total, s.Failed); err != nil {
		return err
	}
	for _, e := range s.Results {
		outcome := e.Status
		switch {
		case e.Skipped:
			outcome = "not sent (dry run)"
		case e.Error != "":
			outcome = "error: " + e.Error
		}
		if _, err := fmt.Fprintf(w, "  %-26s %-40s %dms\n", e.Variant, outcome, e.DurationMs); err != nil {
			return err
		}
	}
	return nil
}
