package networking

import (
	"bufio"
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/rafabd1/orderprobe/internal/utils"
)

// RawClient writes HTTP/1.1 straight onto a TCP (or TLS) connection, one
// connection per request. It skips the pooling, redirect and proxy layers of
// http.Client, so the server sees exactly the headers we set plus Host and
// Content-Length.
type RawClient struct {
	timeout  time.Duration
	insecure bool
	dialer   *net.Dialer
	logger   utils.Logger
}

var _ Transport = (*RawClient)(nil)

// NewRawClient creates the fallback transport. cfg.ProxyURL is ignored.
func NewRawClient(cfg ClientConfig, logger utils.Logger) (*RawClient, error) {
	if cfg.Timeout <= 0 {
		return nil, fmt.Errorf("client timeout must be positive, got %s", cfg.Timeout)
	}
	if cfg.ProxyURL != nil {
		logger.Warnf("Raw transport ignores proxy %s", cfg.ProxyURL.Redacted())
	}
	return &RawClient{
		timeout:  cfg.Timeout,
		insecure: cfg.InsecureSkipVerify,
		dialer:   &net.Dialer{},
		logger:   logger,
	}, nil
}

func dialAddress(u *url.URL) (string, error) {
	port := u.Port()
	switch u.Scheme {
	case "http":
		if port == "" {
			port = "80"
		}
	case "https":
		if port == "" {
			port = "443"
		}
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedScheme, u.Scheme)
	}
	return net.JoinHostPort(u.Hostname(), port), nil
}

// Send dials, writes the request, and reads the full response, all within the timeout.
func (c *RawClient) Send(ctx context.Context, reqData RequestData) (ResponseData, error) {
	u, err := url.Parse(reqData.URL)
	if err != nil {
		return ResponseData{}, fmt.Errorf("failed to parse URL %s: %w", reqData.URL, err)
	}
	addr, err := dialAddress(u)
	if err != nil {
		return ResponseData{}, fmt.Errorf("failed to build request for %s: %w", reqData.URL, err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	conn, err := c.dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return ResponseData{}, fmt.Errorf("failed to connect to %s: %w", addr, err)
	}
	defer conn.Close()

	// Unblock reads and writes as soon as ctx ends.
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	if u.Scheme == "https" {
		tlsConn := tls.Client(conn, &tls.Config{
			ServerName:         u.Hostname(),
			InsecureSkipVerify: c.insecure,
		})
		if err := tlsConn.HandshakeContext(ctx); err != nil {
			return ResponseData{}, fmt.Errorf("TLS handshake with %s failed: %w", addr, c.ctxErr(ctx, err))
		}
		conn = tlsConn
	}

	req, err := http.NewRequest(reqData.Method, reqData.URL, bytes.NewReader(reqData.Body))
	if err != nil {
		return ResponseData{}, fmt.Errorf("failed to build request for %s: %w", reqData.URL, err)
	}
	req.Header = reqData.Headers.Clone()
	if req.Header == nil {
		req.Header = http.Header{}
	}
	req.Close = true

	c.logger.Debugf("Writing raw %s to %s (%d byte body)", reqData.Method, addr, len(reqData.Body))

	if err := req.Write(conn); err != nil {
		return ResponseData{}, fmt.Errorf("failed to write request for %s: %w", reqData.URL, c.ctxErr(ctx, err))
	}

	resp, err := http.ReadResponse(bufio.NewReader(conn), req)
	if err != nil {
		return ResponseData{}, fmt.Errorf("failed to read response for %s: %w", reqData.URL, c.ctxErr(ctx, err))
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return ResponseData{}, fmt.Errorf("failed to read response body for %s: %w", reqData.URL, c.ctxErr(ctx, err))
	}

	return ResponseData{
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Headers:    resp.Header,
		Body:       bodyBytes,
	}, nil
}

// ctxErr prefers the context's error over the "use of closed connection" noise
// produced when AfterFunc tears the socket down.
func (c *RawClient) ctxErr(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("%w (%v)", ctxErr, err)
	}
	return err
}
