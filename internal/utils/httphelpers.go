package utils

import (
	"bytes"
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"golang.org/x/net/html"
)

const bearerPrefix = "Bearer "

// JoinURL builds the full request URL from a base URL and an endpoint path.
// A trailing slash on the base is dropped and the path always starts with "/".
func JoinURL(baseURL, path string) string {
	base := strings.TrimRight(baseURL, "/")

	if path == "" {
		path = "/"
	} else if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	// Paths under the base are kept; ResolveReference would drop a base path prefix.
	parsed, err := url.Parse(base)
	if err != nil || parsed.Host == "" {
		return base + path
	}
	parsed.Path = strings.TrimRight(parsed.Path, "/") + path
	parsed.RawPath = ""
	return parsed.String()
}

// MaskBearer hides all but the last four characters of a bearer credential.
func MaskBearer(value string) string {
	if !strings.HasPrefix(value, bearerPrefix) {
		return value
	}
	token := strings.TrimPrefix(value, bearerPrefix)
	if len(token) <= 4 {
		return bearerPrefix + strings.Repeat("*", len(token))
	}
	return bearerPrefix + strings.Repeat("*", len(token)-4) + token[len(token)-4:]
}

// FormatHeaders renders headers as a single line with keys in sorted order.
// When maskAuth is set the Authorization value is passed through MaskBearer.
func FormatHeaders(headers http.Header, maskAuth bool) string {
	if len(headers) == 0 {
		return "{}"
	}

	keys := make([]string, 0, len(headers))
	for k := range headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString("{")
	for i, k := range keys {
		if i > 0 {
			b.WriteString(", ")
		}
		value := strings.Join(headers[k], ", ")
		if maskAuth && http.CanonicalHeaderKey(k) == "Authorization" {
			value = MaskBearer(value)
		}
		fmt.Fprintf(&b, "%q: %q", k, value)
	}
	b.WriteString("}")
	return b.String()
}

// IsHTMLContent reports whether a Content-Type header value denotes an HTML document.
func IsHTMLContent(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "text/html" || mediaType == "application/xhtml+xml"
}

// ExtractHTMLTitle returns the text of the first <title> element in body.
// Gateways and reverse proxies usually answer with an HTML error page, and its
// title is a quicker read than the full document.
func ExtractHTMLTitle(body []byte) (string, bool) {
	if len(body) == 0 {
		return "", false
	}

	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return "", false
	}

	var title string
	var found bool

	var f func(*html.Node)
	f = func(n *html.Node) {
		if found {
			return
		}
		if n.Type == html.ElementNode && n.Data == "title" {
			var b strings.Builder
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				if c.Type == html.TextNode {
					b.WriteString(c.Data)
				}
			}
			title = strings.Join(strings.Fields(b.String()), " ")
			found = title != ""
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			f(c)
			if found {
				return
			}
		}
	}

	f(doc)

	return title, found
}
