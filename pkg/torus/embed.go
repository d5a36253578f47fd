package torus

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
)

// DefaultBaseURL is the default hosted wallet service endpoint.
const DefaultBaseURL = "https://app.tor.us"

// HostedEmbed drives a wallet session on the hosted wallet service. The
// session lifecycle maps onto HTTP calls and provider notifications arrive
// over a websocket event stream.
type HostedEmbed struct {
	opts       Options
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger

	mu          sync.Mutex
	sessionID   string
	initialized bool
	loggedIn    bool
	provider    *StreamProvider
}

var _ Embed = (*HostedEmbed)(nil)

type sessionInitRequest struct {
	Options Options        `json:"options"`
	Network *NetworkConfig `json:"network,omitempty"`
}

type sessionInitResponse struct {
	SessionID string `json:"sessionId"`
}

type loginResponse struct {
	Accounts []string `json:"accounts"`
}

// NewHostedEmbed creates an embed handle. No network traffic happens until
// Init is called.
func NewHostedEmbed(opts Options, logger *slog.Logger) *HostedEmbed {
	baseURL := strings.TrimSuffix(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &HostedEmbed{
		opts:       opts,
		baseURL:    baseURL,
		httpClient: newSessionHTTPClient(),
		logger:     logger,
	}
}

// Init implements Embed. It opens a session with the hosted service and
// attaches the event stream. Re-initialization is a no-op.
func (e *HostedEmbed) Init(ctx context.Context, params InitParams) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.initialized {
		return nil
	}

	resp, err := postJSON[sessionInitResponse](ctx, e.httpClient, e.baseURL+"/api/v1/session/init", e.opts.APIKey, sessionInitRequest{
		Options: e.opts,
		Network: params.Network,
	})
	if err != nil {
		return fmt.Errorf("session init failed: %w", err)
	}
	if resp.SessionID == "" {
		return fmt.Errorf("session init returned no session id")
	}

	provider := newStreamProvider(e.baseURL, resp.SessionID, e.opts.APIKey, e.httpClient, e.logger)
	if err := provider.openStream(ctx); err != nil {
		return fmt.Errorf("event stream attach failed: %w", err)
	}

	e.sessionID = resp.SessionID
	e.provider = provider
	e.initialized = true

	if params.ShowButton {
		e.showButtonLocked(ctx)
	}
	return nil
}

// Login implements Embed.
func (e *HostedEmbed) Login(ctx context.Context) error {
	e.mu.Lock()
	sessionID := e.sessionID
	e.mu.Unlock()

	if sessionID == "" {
		return fmt.Errorf("login before session init")
	}

	resp, err := postJSON[loginResponse](ctx, e.httpClient, e.sessionURL(sessionID, "login"), e.opts.APIKey, nil)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	e.mu.Lock()
	e.loggedIn = true
	e.mu.Unlock()

	e.logger.Debug("wallet login complete", "accounts", len(resp.Accounts))
	return nil
}

// Logout implements Embed.
func (e *HostedEmbed) Logout(ctx context.Context) error {
	e.mu.Lock()
	sessionID := e.sessionID
	e.mu.Unlock()

	if sessionID == "" {
		return nil
	}

	if _, err := postJSON[struct{}](ctx, e.httpClient, e.sessionURL(sessionID, "logout"), e.opts.APIKey, nil); err != nil {
		return fmt.Errorf("logout failed: %w", err)
	}

	e.mu.Lock()
	e.loggedIn = false
	e.mu.Unlock()
	return nil
}

// IsLoggedIn implements Embed.
func (e *HostedEmbed) IsLoggedIn() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.loggedIn
}

// IsInitialized implements Embed.
func (e *HostedEmbed) IsInitialized() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.initialized
}

// ShowButton implements Embed. Button display is best-effort; a failure is
// logged and not surfaced.
func (e *HostedEmbed) ShowButton() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.showButtonLocked(context.Background())
}

func (e *HostedEmbed) showButtonLocked(ctx context.Context) {
	if e.sessionID == "" {
		return
	}
	if _, err := postJSON[struct{}](ctx, e.httpClient, e.sessionURL(e.sessionID, "button/show"), e.opts.APIKey, nil); err != nil {
		e.logger.Warn("failed to show wallet button", "error", err)
	}
}

// SetProvider implements Embed.
func (e *HostedEmbed) SetProvider(ctx context.Context, network NetworkConfig) error {
	e.mu.Lock()
	sessionID := e.sessionID
	e.mu.Unlock()

	if sessionID == "" {
		return fmt.Errorf("set provider before session init")
	}

	if _, err := postJSON[struct{}](ctx, e.httpClient, e.sessionURL(sessionID, "network"), e.opts.APIKey, network); err != nil {
		return fmt.Errorf("network switch failed: %w", err)
	}
	return nil
}

// Provider implements Embed.
func (e *HostedEmbed) Provider() Provider {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.provider == nil {
		return nil
	}
	return e.provider
}

func (e *HostedEmbed) sessionURL(sessionID, path string) string {
	return fmt.Sprintf("%s/api/v1/session/%s/%s", e.baseURL, sessionID, path)
}
