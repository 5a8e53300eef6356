package proxmox

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"net/http"
	"os"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/pvekit/pvekit/internal/config"
	"github.com/pvekit/pvekit/internal/log"
)

// apiBasePath is where the JSON API lives on every Proxmox VE host.
const apiBasePath = "/api2/json"

// Client implements ClusterManager against a real Proxmox VE endpoint.
type Client struct {
	baseURL    string
	conn       config.Connection
	httpClient *http.Client
	limiter    *rate.Limiter
	timeouts   *config.Timeouts
	log        zerolog.Logger

	// mu protects the ticket credentials obtained via Login.
	mu     sync.RWMutex
	ticket string
	csrf   string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithTimeouts sets custom timeouts for the client.
func WithTimeouts(t *config.Timeouts) ClientOption {
	return func(c *Client) { c.timeouts = t }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = hc }
}

// WithBaseURL overrides the API base URL, including scheme and the
// /api2/json prefix. Used by tests to point at an httptest server.
func WithBaseURL(u string) ClientOption {
	return func(c *Client) { c.baseURL = u }
}

// WithRateLimit caps outgoing requests per second.
func WithRateLimit(rps float64, burst int) ClientOption {
	return func(c *Client) { c.limiter = rate.NewLimiter(rate.Limit(rps), burst) }
}

// NewClient creates a client for the given connection settings.
func NewClient(conn *config.Connection, opts ...ClientOption) (*Client, error) {
	if err := conn.Validate(); err != nil {
		return nil, err
	}

	transport, err := buildTransport(conn)
	if err != nil {
		return nil, err
	}

	c := &Client{
		baseURL: fmt.Sprintf("https://%s:%d%s", conn.Host, conn.Port, apiBasePath),
		conn:    *conn,
		httpClient: &http.Client{
			Timeout:   conn.Timeout,
			Transport: transport,
		},
		// The pvedaemon is easy to starve; stay well under its limits.
		limiter:  rate.NewLimiter(rate.Limit(10), 20),
		timeouts: config.LoadTimeouts(),
		log:      log.WithComponent("proxmox"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func buildTransport(conn *config.Connection) (*http.Transport, error) {
	tlsConfig := &tls.Config{MinVersion: tls.VersionTLS12}
	if !conn.VerifyTLS() {
		tlsConfig.InsecureSkipVerify = true
	} else if conn.CAPath != "" {
		// #nosec G304
		pem, err := os.ReadFile(conn.CAPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read CA bundle: %w", err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(pem) {
			return nil, fmt.Errorf("no certificates found in %s", conn.CAPath)
		}
		tlsConfig.RootCAs = pool
	}
	return &http.Transport{TLSClientConfig: tlsConfig}, nil
}

// Login establishes credentials. With token authentication this only
// verifies connectivity; with password authentication it obtains a ticket
// and CSRF prevention token for subsequent requests.
func (c *Client) Login(ctx context.Context) error {
	if c.conn.UseTokenAuth() {
		if _, err := c.Version(ctx); err != nil {
			return fmt.Errorf("token authentication failed: %w", err)
		}
		return nil
	}

	var result struct {
		Ticket string `json:"ticket"`
		CSRF   string `json:"CSRFPreventionToken"`
	}
	params := NewParams().
		Set("username", c.conn.User).
		Set("password", c.conn.Password)
	if err := c.post(ctx, "/access/ticket", params, &result); err != nil {
		return fmt.Errorf("ticket login failed: %w", err)
	}

	c.mu.Lock()
	c.ticket = result.Ticket
	c.csrf = result.CSRF
	c.mu.Unlock()
	return nil
}

// authorize attaches credentials to a request. Token auth uses a static
// Authorization header; ticket auth uses a cookie plus a CSRF token on
// mutating verbs.
func (c *Client) authorize(req *http.Request) {
	if c.conn.UseTokenAuth() {
		req.Header.Set("Authorization", fmt.Sprintf("PVEAPIToken=%s!%s=%s",
			c.conn.User, c.conn.TokenID, c.conn.TokenSecret))
		return
	}

	c.mu.RLock()
	ticket, csrf := c.ticket, c.csrf
	c.mu.RUnlock()
	if ticket == "" {
		return // login request itself
	}
	req.AddCookie(&http.Cookie{Name: "PVEAuthCookie", Value: ticket})
	if req.Method != http.MethodGet {
		req.Header.Set("CSRFPreventionToken", csrf)
	}
}

// Version returns the API version of the connected cluster.
func (c *Client) Version(ctx context.Context) (*VersionInfo, error) {
	var v VersionInfo
	if err := c.get(ctx, "/version", nil, &v); err != nil {
		return nil, fmt.Errorf("failed to retrieve version: %w", err)
	}
	return &v, nil
}
