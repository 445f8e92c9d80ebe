package utils

import (
	"fmt"
	"net"
	"net/url"
	"strings"
)

// ParseProxyInput parses a single proxy specification into a URL.
// Accepted forms: host:port, user:pass@host:port and scheme://[user:pass@]host:port.
// An empty input yields a nil URL and no error.
func ParseProxyInput(proxyInput string, logger Logger) (*url.URL, error) {
	trimmed := strings.TrimSpace(proxyInput)
	if trimmed == "" {
		return nil, nil
	}

	urlStr := trimmed
	if !strings.Contains(urlStr, "://") {
		urlStr = "http://" + urlStr // Default scheme for bare host:port
	}

	parsedURL, err := url.Parse(urlStr)
	if err != nil {
		return nil, fmt.Errorf("invalid proxy %q: %w", trimmed, err)
	}

	switch parsedURL.Scheme {
	case "http", "https", "socks5":
	default:
		return nil, fmt.Errorf("invalid proxy %q: unsupported scheme %q", trimmed, parsedURL.Scheme)
	}

	host := parsedURL.Hostname()
	port := parsedURL.Port()
	if host == "" {
		return nil, fmt.Errorf("invalid proxy %q: empty host", trimmed)
	}
	if port == "" {
		return nil, fmt.Errorf("invalid proxy %q: missing port", trimmed)
	}

	proxyURL := &url.URL{
		Scheme: parsedURL.Scheme,
		Host:   net.JoinHostPort(host, port),
		User:   parsedURL.User,
	}

	if logger != nil {
		logger.Debugf("Parsed proxy details: Scheme: %s, Host: %s, Username: %s", proxyURL.Scheme, proxyURL.Host, proxyURL.User.Username())
	}
	return proxyURL, nil
}
