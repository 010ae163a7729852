package objstore

import (
	"net/url"
	"strings"
)

// internalHosts are hostnames that only resolve inside the deployment
// network. URLs pointing at them are rewritten to the public endpoint.
var internalHosts = []string{"minio", "localhost", "127.0.0.1", "nca-toolkit"}

// internalPrefixes are private IP ranges checked by hostname prefix.
var internalPrefixes = []string{"172.", "10.", "192.168."}

// FixPublicURL rewrites raw into its publicly reachable form. It is total
// and idempotent: it never fails, and a URL already in public form comes
// back unchanged. Strategies are tried in order, first match wins:
//
//  1. path-style bucket URL: the first path segment is the bucket, so the
//     origin is swapped for the public endpoint;
//  2. known-internal hostname: origin swapped for the public endpoint;
//  3. protocol mismatch: same host as the public endpoint but plain http
//     while the endpoint is https.
//
// Relative URLs get the public endpoint prefixed. Data URIs and anything
// unparsable pass through untouched.
func (c *Client) FixPublicURL(raw string) string {
	if raw == "" || c == nil || c.publicBase == "" {
		return raw
	}
	if strings.HasPrefix(raw, "data:") {
		return raw
	}

	base, err := url.Parse(c.publicBase)
	if err != nil || base.Host == "" {
		return raw
	}

	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		return c.publicBase + "/" + strings.TrimPrefix(raw, "/")
	}

	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return raw
	}

	if c.bucketInPath(u) || isInternalHost(u.Hostname()) {
		u.Scheme = base.Scheme
		u.Host = base.Host
		return u.String()
	}

	if u.Host == base.Host && u.Scheme == "http" && base.Scheme == "https" {
		u.Scheme = "https"
		return u.String()
	}

	return raw
}

func (c *Client) bucketInPath(u *url.URL) bool {
	if c.bucket == "" {
		return false
	}
	first, _, _ := strings.Cut(strings.TrimPrefix(u.Path, "/"), "/")
	return first == c.bucket
}

func isInternalHost(host string) bool {
	host = strings.ToLower(host)
	for _, h := range internalHosts {
		if host == h {
			return true
		}
	}
	for _, p := range internalPrefixes {
		if strings.HasPrefix(host, p) {
			return true
		}
	}
	return false
}
