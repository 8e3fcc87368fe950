package proxy

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/williampepple1/trust-score-scraper/internal/config"
)

// ErrInvalidProxy means a configured proxy is not an absolute http(s) or socks5 URL
var ErrInvalidProxy = errors.New("invalid proxy url")

// Manager hands out proxies from the configured list, rotating through it
// in order when rotation is on.
type Manager struct {
	Config *config.ProxyConfig

	mu   sync.Mutex
	next int
}

// NewManager creates a new proxy manager
func NewManager(config *config.ProxyConfig) *Manager {
	return &Manager{Config: config}
}

// Next returns the proxy for the next request, or nil when proxies are off
func (m *Manager) Next() (*url.URL, error) {
	if !m.Config.Enabled || len(m.Config.List) == 0 {
		return nil, nil
	}

	m.mu.Lock()
	raw := m.Config.List[m.next%len(m.Config.List)]
	if m.Config.Rotate {
		m.next++
	}
	m.mu.Unlock()

	proxyURL, err := Parse(raw)
	if err != nil {
		return nil, err
	}
	if m.Config.Auth.Username != "" && m.Config.Auth.Password != "" {
		proxyURL.User = url.UserPassword(m.Config.Auth.Username, m.Config.Auth.Password)
	}
	return proxyURL, nil
}

// ApplyToTransport points the transport at the next proxy and returns it
// without credentials for reporting
func (m *Manager) ApplyToTransport(transport *http.Transport) (string, error) {
	proxyURL, err := m.Next()
	if err != nil {
		return "", err
	}
	if proxyURL == nil {
		return "", nil
	}

	transport.Proxy = http.ProxyURL(proxyURL)
	log.Debug().Str("proxy", proxyURL.Redacted()).Msg("Using proxy")
	return proxyURL.Redacted(), nil
}

// Parse validates a proxy address
func Parse(raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidProxy, err)
	}
	switch u.Scheme {
	case "http", "https", "socks5":
	default:
		return nil, fmt.Errorf("%w: unsupported scheme %q", ErrInvalidProxy, u.Scheme)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("%w: missing host in %q", ErrInvalidProxy, raw)
	}
	return u, nil
}
