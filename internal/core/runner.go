package core

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/rafabd1/orderprobe/internal/config"
	"github.com/rafabd1/orderprobe/internal/networking"
	"github.com/rafabd1/orderprobe/internal/report"
	"github.com/rafabd1/orderprobe/internal/utils"
	"github.com/rafabd1/orderprobe/internal/variants"
)

// Runner sends each variant to the createOrder endpoint, one at a time, and
// reports every exchange as it happens.
type Runner struct {
	config    *config.Config
	transport networking.Transport
	variants  []variants.Variant
	reporter  *report.Reporter
	logger    utils.Logger
}

// NewRunner creates a new Runner. The transport is whatever the caller picked;
// the runner only needs Send.
func NewRunner(cfg *config.Config, transport networking.Transport, vs []variants.Variant, reporter *report.Reporter, logger utils.Logger) *Runner {
	return &Runner{
		config:    cfg,
		transport: transport,
		variants:  vs,
		reporter:  reporter,
		logger:    logger,
	}
}

// TargetURL is the endpoint every variant is posted to.
func (r *Runner) TargetURL() string {
	return utils.JoinURL(r.config.BaseURL, r.config.Path)
}

// Headers returns the request headers shared by every probe.
// Authorization is present only when a token is configured.
func (r *Runner) Headers() http.Header {
	h := http.Header{}
	h.Set("Content-Type", "application/json")
	if r.config.UserAgent != "" {
		h.Set("User-Agent", r.config.UserAgent)
	}
	if r.config.APIToken != "" {
		h.Set("Authorization", "Bearer "+r.config.APIToken)
	}
	return h
}

// Run probes every variant in order. Transport failures are reported and the
// run continues; only an encoding failure aborts it. A cancelled ctx stops the
// run before the next variant.
func (r *Runner) Run(ctx context.Context) ([]report.ProbeResult, error) {
	target := r.TargetURL()
	r.reporter.Start(r.config.Path, r.config.BaseURL, r.config.APIToken != "")
	r.logger.Debugf("Probing %s with %d variants (timeout %s, dry run %t)", target, len(r.variants), r.config.RequestTimeout, r.config.DryRun)

	results := make([]report.ProbeResult, 0, len(r.variants))
	for _, v := range r.variants {
		if err := ctx.Err(); err != nil {
			r.logger.Warnf("Run interrupted, %d of %d variants attempted: %v", len(results), len(r.variants), err)
			break
		}

		res, err := r.probe(ctx, target, v)
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}

	failed := 0
	for _, res := range results {
		if res.Failed() {
			failed++
		}
	}
	r.logger.Infof("Probe finished: %d variants attempted, %d transport failures.", len(results), failed)
	return results, nil
}

func (r *Runner) probe(ctx context.Context, target string, v variants.Variant) (report.ProbeResult, error) {
	body, err := json.Marshal(v.Payload)
	if err != nil {
		return report.ProbeResult{}, fmt.Errorf("failed to encode variant %s: %w", v.Name, err)
	}

	reqData := networking.RequestData{
		URL:     target,
		Method:  http.MethodPost,
		Headers: r.Headers(),
		Body:    body,
	}
	r.reporter.Request(v.Name, reqData.Method, reqData.URL, reqData.Headers, reqData.Body)

	res := report.ProbeResult{Variant: v.Name, URL: target}
	if r.config.DryRun {
		res.Skipped = true
		r.reporter.Result(res)
		return res, nil
	}

	callCtx, cancel := context.WithTimeout(ctx, r.config.RequestTimeout)
	defer cancel()

	start := time.Now()
	resp, err := r.transport.Send(callCtx, reqData)
	res.Duration = time.Since(start)

	if err != nil {
		r.logger.Debugf("Variant %s failed after %s: %v", v.Name, res.Duration, err)
		res.Err = err
	} else {
		res.StatusCode = resp.StatusCode
		res.Status = resp.Status
		res.Headers = resp.Headers
		res.Body = string(resp.Body)
	}

	r.reporter.Result(res)
	return res, nil
}
