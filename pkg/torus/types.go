// Package torus models the embedded wallet SDK the connector drives: the
// construction options, the session lifecycle (init, login, logout), and
// the request-capable provider the wallet exposes once a session is open.
package torus

import (
	"context"
	"encoding/json"
)

// ButtonPosition places the wallet button inside the host page.
type ButtonPosition string

const (
	ButtonBottomLeft  ButtonPosition = "bottom-left"
	ButtonBottomRight ButtonPosition = "bottom-right"
	ButtonTopLeft     ButtonPosition = "top-left"
	ButtonTopRight    ButtonPosition = "top-right"
)

// Options are the wallet construction parameters. They are fixed when the
// embed is created and never reloaded.
type Options struct {
	ButtonPosition ButtonPosition `json:"buttonPosition,omitempty"`
	ButtonSize     int            `json:"buttonSize,omitempty"`
	ZIndex         int            `json:"modalZIndex,omitempty"`
	APIKey         string         `json:"apiKey,omitempty"`

	// BaseURL overrides the hosted wallet service endpoint.
	BaseURL string `json:"-"`
}

// NetworkConfig is the network descriptor handed to the wallet when a
// session is initialized or the active network is switched.
type NetworkConfig struct {
	Host          string `json:"host"`
	ChainID       int64  `json:"chainId"`
	NetworkName   string `json:"networkName"`
	TickerName    string `json:"tickerName"`
	Ticker        string `json:"ticker"`
	BlockExplorer string `json:"blockExplorer,omitempty"`
}

// InitParams configures wallet initialization. A nil Network lets the
// wallet fall back to its own default network.
type InitParams struct {
	Network    *NetworkConfig
	ShowButton bool
}

// Provider is the request-capable object a live wallet session exposes.
type Provider interface {
	// Request issues a JSON-RPC style call (eth_accounts, eth_chainId, ...)
	// and returns the raw result payload.
	Request(ctx context.Context, method string, params ...any) (json.RawMessage, error)

	// On registers a handler for a provider notification
	// (accountsChanged, chainChanged, connect, disconnect). Handlers stay
	// registered for the provider's lifetime.
	On(event string, handler func(json.RawMessage))
}

// Embed is the wallet SDK handle. Implementations are not safe for
// concurrent use by multiple connectors; each connector owns one embed.
type Embed interface {
	// Init brings the wallet up with the given parameters. Calling Init on
	// an already initialized embed is a no-op.
	Init(ctx context.Context, params InitParams) error

	// Login runs the wallet's interactive login flow.
	Login(ctx context.Context) error

	// Logout tears down the current session.
	Logout(ctx context.Context) error

	IsLoggedIn() bool
	IsInitialized() bool

	// ShowButton asks the wallet to display its connect button.
	ShowButton()

	// SetProvider points the wallet at a different network.
	SetProvider(ctx context.Context, network NetworkConfig) error

	// Provider returns the session provider, or nil before Init completes.
	Provider() Provider
}
