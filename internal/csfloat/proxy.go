package csfloat

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
)

// ErrNoProxies is returned by NewProxyRotator for an empty proxy list.
var ErrNoProxies = errors.New("no proxies configured")

// ProxyRotator hands out proxy URLs in round-robin order. It is safe for
// concurrent use.
type ProxyRotator struct {
	proxies []*url.URL
	next    atomic.Uint64
}

// NewProxyRotator parses rawURLs. Supported schemes are http, https and
// socks5.
func NewProxyRotator(rawURLs []string) (*ProxyRotator, error) {
	if len(rawURLs) == 0 {
		return nil, ErrNoProxies
	}

	r := &ProxyRotator{proxies: make([]*url.URL, 0, len(rawURLs))}
	for _, raw := range rawURLs {
		u, err := url.Parse(strings.TrimSpace(raw))
		if err != nil {
			return nil, fmt.Errorf("parsing proxy URL: %w", err)
		}
		switch strings.ToLower(u.Scheme) {
		case "http", "https", "socks5":
		default:
			return nil, fmt.Errorf("unsupported proxy scheme %q", u.Scheme)
		}
		if u.Host == "" {
			return nil, fmt.Errorf("proxy URL %q has no host", u.Redacted())
		}
		r.proxies = append(r.proxies, u)
	}
	return r, nil
}

// Next returns the following proxy in rotation.
func (r *ProxyRotator) Next() *url.URL {
	n := r.next.Add(1) - 1
	return r.proxies[n%uint64(len(r.proxies))]
}

// Len returns the number of proxies in rotation.
func (r *ProxyRotator) Len() int {
	return len(r.proxies)
}

// Proxy satisfies http.Transport.Proxy, picking a new proxy per request.
func (r *ProxyRotator) Proxy(_ *http.Request) (*url.URL, error) {
	return r.Next(), nil
}
