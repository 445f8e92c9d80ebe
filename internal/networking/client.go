package networking

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rafabd1/orderprobe/internal/utils"
)

var ErrUnsupportedScheme = errors.New("unsupported URL scheme")

// Transport sends one request and returns the raw outcome.
// A non-2xx status is a valid response, not an error.
type Transport interface {
	Send(ctx context.Context, reqData RequestData) (ResponseData, error)
}

// RequestData encapsulates all necessary data for making a request.
type RequestData struct {
	URL     string
	Method  string
	Headers http.Header
	Body    []byte
}

// ResponseData holds the outcome of a completed HTTP exchange.
type ResponseData struct {
	StatusCode int
	Status     string
	Headers    http.Header
	Body       []byte
}

// ClientConfig configures both transports.
type ClientConfig struct {
	Timeout            time.Duration
	ProxyURL           *url.URL // nil sends direct
	InsecureSkipVerify bool
}

// Client is the net/http transport. It never retries and never follows redirects.
type Client struct {
	baseClient *http.Client
	logger     utils.Logger
}

var _ Transport = (*Client)(nil)

// NewClient creates a new HTTP Client with specified configurations.
func NewClient(cfg ClientConfig, logger utils.Logger) (*Client, error) {
	if cfg.Timeout <= 0 {
		return nil, fmt.Errorf("client timeout must be positive, got %s", cfg.Timeout)
	}

	baseTransport := &http.Transport{
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: cfg.InsecureSkipVerify,
		},
		MaxIdleConns:        10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}
	if cfg.ProxyURL != nil {
		baseTransport.Proxy = http.ProxyURL(cfg.ProxyURL)
		logger.Debugf("Routing requests through proxy %s", cfg.ProxyURL.Redacted())
	}

	return &Client{
		baseClient: &http.Client{
			Transport: baseTransport,
			Timeout:   cfg.Timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse // Show the redirect itself
			},
		},
		logger: logger,
	}, nil
}

// Send performs a single HTTP exchange.
func (c *Client) Send(ctx context.Context, reqData RequestData) (ResponseData, error) {
	req, err := http.NewRequestWithContext(ctx, reqData.Method, reqData.URL, bytes.NewReader(reqData.Body))
	if err != nil {
		return ResponseData{}, fmt.Errorf("failed to build request for %s: %w", reqData.URL, err)
	}
	for key, values := range reqData.Headers {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}

	c.logger.Debugf("Sending %s to %s (%d byte body)", reqData.Method, reqData.URL, len(reqData.Body))

	resp, err := c.baseClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			c.logger.Debugf("Request to %s timed out", reqData.URL)
		}
		return ResponseData{}, fmt.Errorf("failed to execute request for %s: %w", reqData.URL, err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return ResponseData{}, fmt.Errorf("failed to read response body for %s: %w", reqData.URL, err)
	}

	c.logger.Debugf("Request to %s completed. Status: %s. Body size: %d", reqData.URL, resp.Status, len(bodyBytes))

	return ResponseData{
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Headers:    resp.Header,
		Body:       bodyBytes,
	}, nil
}
