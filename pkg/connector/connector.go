// Package connector bridges the wallet-framework connector contract onto
// the Torus embedded wallet: lifecycle calls map to wallet session calls,
// and wallet provider notifications are republished as framework events.
package connector

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/walletmesh/torus-connector/pkg/chains"
	"github.com/walletmesh/torus-connector/pkg/constants"
	"github.com/walletmesh/torus-connector/pkg/events"
	"github.com/walletmesh/torus-connector/pkg/torus"
	"github.com/walletmesh/torus-connector/pkg/utils"
)

// EmbedFactory builds the wallet SDK handle during Setup.
type EmbedFactory func(opts torus.Options, logger *slog.Logger) torus.Embed

// Config carries the construction-time configuration of a connector.
// None of it is runtime-reloadable.
type Config struct {
	// Chains is the set of supported chain descriptors.
	Chains chains.List

	// Options are passed to the wallet when the embed is created.
	Options torus.Options

	// ChainID selects the network resolved during Setup. Zero means
	// constants.DefaultChainID.
	ChainID int64

	// Host overrides the network host resolved during Setup. Empty means
	// the well-known host for ChainID, falling back to
	// constants.DefaultHost.
	Host string

	// HideButton suppresses the wallet's connect button when a provider is
	// obtained.
	HideButton bool

	// NewEmbed overrides the embed factory. Defaults to the hosted wallet
	// service implementation.
	NewEmbed EmbedFactory

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// ConnectParams optionally requests a target chain for Connect.
type ConnectParams struct {
	// ChainID is the requested chain. Zero means no preference.
	ChainID int64
}

// ConnectResult is what Connect reports back to the framework.
type ConnectResult struct {
	Accounts []string
	ChainID  int64
}

// Connector is the contract the wallet framework consumes.
type Connector interface {
	ID() string
	Name() string
	Type() string

	Setup() error
	Connect(ctx context.Context, params *ConnectParams) (*ConnectResult, error)
	Disconnect(ctx context.Context) error
	GetAccounts(ctx context.Context) ([]string, error)
	GetChainID(ctx context.Context) (int64, error)
	GetProvider(ctx context.Context) (torus.Provider, error)
	IsAuthorized(ctx context.Context) bool
	SwitchChain(ctx context.Context, chainID int64) error

	Events() *events.Emitter
}

// TorusConnector implements Connector against the Torus embedded wallet.
type TorusConnector struct {
	cfg     Config
	logger  *slog.Logger
	emitter *events.Emitter

	mu      sync.Mutex
	embed   torus.Embed
	network *torus.NetworkConfig
}

var _ Connector = (*TorusConnector)(nil)

// New creates a connector. The wallet instance itself is not created until
// Setup runs.
func New(cfg Config) *TorusConnector {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.NewEmbed == nil {
		cfg.NewEmbed = func(opts torus.Options, logger *slog.Logger) torus.Embed {
			return torus.NewHostedEmbed(opts, logger)
		}
	}
	return &TorusConnector{
		cfg:     cfg,
		logger:  logger,
		emitter: events.NewEmitter(),
	}
}

// ID implements Connector.
func (c *TorusConnector) ID() string { return constants.ConnectorID }

// Name implements Connector.
func (c *TorusConnector) Name() string { return constants.ConnectorName }

// Type implements Connector.
func (c *TorusConnector) Type() string { return constants.ConnectorType }

// Events returns the emitter the framework subscribes to.
func (c *TorusConnector) Events() *events.Emitter { return c.emitter }

// Setup creates the wallet handle and resolves the network descriptor from
// the configured chain id and host. Re-invocation replaces prior state.
func (c *TorusConnector) Setup() error {
	chainID := c.cfg.ChainID
	if chainID == 0 {
		chainID = constants.DefaultChainID
	}

	var network *torus.NetworkConfig
	chain, ok := c.cfg.Chains.Lookup(chainID)
	if !ok {
		c.logger.Warn("chain not configured, initializing wallet without network override", "chainId", chainID)
	} else {
		network = c.networkConfigFor(chain)
	}

	embed := c.cfg.NewEmbed(c.cfg.Options, c.logger)

	c.mu.Lock()
	c.embed = embed
	c.network = network
	c.mu.Unlock()
	return nil
}

// networkConfigFor derives the wallet network descriptor from one chain
// entry, so every field is sourced from the same descriptor.
func (c *TorusConnector) networkConfigFor(chain chains.Chain) *torus.NetworkConfig {
	host := c.cfg.Host
	if host == "" {
		host = constants.ChainIDToHost[chain.ID]
	}
	if host == "" {
		host = constants.DefaultHost
	}
	return &torus.NetworkConfig{
		Host:          host,
		ChainID:       chain.ID,
		NetworkName:   chain.Name,
		TickerName:    chain.NativeCurrency.Name,
		Ticker:        chain.NativeCurrency.Symbol,
		BlockExplorer: chain.DefaultBlockExplorerURL(),
	}
}

// Connect obtains a provider, logs in if needed, wires change
// notifications, and reports the current accounts and chain id.
//
// Provider handlers registered here are never unregistered; repeated
// Connect calls stack additional handlers.
func (c *TorusConnector) Connect(ctx context.Context, params *ConnectParams) (*ConnectResult, error) {
	provider, err := c.GetProvider(ctx)
	if err != nil {
		return nil, err
	}

	embed, err := c.embedHandle("Connect")
	if err != nil {
		return nil, err
	}
	if !embed.IsLoggedIn() {
		if err := embed.Login(ctx); err != nil {
			return nil, fmt.Errorf("wallet login failed: %w", err)
		}
	}

	provider.On(constants.EventAccountsChanged, c.onAccountsChangedRaw)
	provider.On(constants.EventChainChanged, c.onChainChangedRaw)

	var (
		accounts []string
		chainID  int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		accounts, err = fetchAccounts(gctx, provider)
		return err
	})
	g.Go(func() error {
		var err error
		chainID, err = fetchChainID(gctx, provider)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if params != nil && params.ChainID != 0 && params.ChainID != chainID {
		if err := c.SwitchChain(ctx, params.ChainID); err != nil {
			c.logger.Warn("chain switch during connect failed", "chainId", params.ChainID, "error", err)
		} else {
			chainID = params.ChainID
		}
	}

	if !c.cfg.Chains.Contains(chainID) {
		return nil, &UnsupportedChainError{ChainID: chainID, Err: fmt.Errorf("chain %d not in configured chain list", chainID)}
	}

	return &ConnectResult{Accounts: accounts, ChainID: chainID}, nil
}

// Disconnect logs the wallet out. Before Setup it is a no-op.
func (c *TorusConnector) Disconnect(ctx context.Context) error {
	c.mu.Lock()
	embed := c.embed
	c.mu.Unlock()

	if embed == nil {
		return nil
	}
	return embed.Logout(ctx)
}

// GetAccounts lists the wallet's accounts, checksummed, with empty and
// malformed entries dropped.
func (c *TorusConnector) GetAccounts(ctx context.Context) ([]string, error) {
	provider, err := c.GetProvider(ctx)
	if err != nil {
		return nil, err
	}
	return fetchAccounts(ctx, provider)
}

// GetChainID reports the provider's current chain id.
func (c *TorusConnector) GetChainID(ctx context.Context) (int64, error) {
	provider, err := c.GetProvider(ctx)
	if err != nil {
		return 0, err
	}
	return fetchChainID(ctx, provider)
}

// GetProvider returns the wallet's request-capable provider, initializing
// the wallet on first use. It fails with NotInitializedError if Setup has
// never run.
func (c *TorusConnector) GetProvider(ctx context.Context) (torus.Provider, error) {
	embed, err := c.embedHandle("GetProvider")
	if err != nil {
		return nil, err
	}

	if !embed.IsInitialized() {
		c.mu.Lock()
		network := c.network
		c.mu.Unlock()

		if err := embed.Init(ctx, torus.InitParams{Network: network}); err != nil {
			return nil, fmt.Errorf("wallet init failed: %w", err)
		}
	}

	if !c.cfg.HideButton {
		embed.ShowButton()
	}

	provider := embed.Provider()
	if provider == nil {
		return nil, fmt.Errorf("wallet returned no provider")
	}
	return provider, nil
}

// IsAuthorized reports whether a provider is obtainable and has at least
// one account. It never returns an error; any failure means false.
func (c *TorusConnector) IsAuthorized(ctx context.Context) bool {
	accounts, err := c.GetAccounts(ctx)
	if err != nil {
		return false
	}
	return len(accounts) > 0
}

// SwitchChain points the wallet at the chain with the given id. Unknown
// ids and failed switches both surface as UnsupportedChainError.
func (c *TorusConnector) SwitchChain(ctx context.Context, chainID int64) error {
	chain, ok := c.cfg.Chains.Lookup(chainID)
	if !ok {
		return &UnsupportedChainError{ChainID: chainID, Err: fmt.Errorf("chain %d not in configured chain list", chainID)}
	}

	embed, err := c.embedHandle("SwitchChain")
	if err != nil {
		return err
	}

	// Authorization state is recorded for the log only; the switch has
	// never been gated on it. See DESIGN.md before changing this.
	c.logger.Debug("switching chain", "chainId", chainID, "authorized", c.IsAuthorized(ctx))

	if err := embed.SetProvider(ctx, torus.NetworkConfig{
		Host:        chain.DefaultRPCURL(),
		ChainID:     chain.ID,
		NetworkName: chain.Name,
	}); err != nil {
		c.logger.Error("chain switch failed", "chainId", chainID, "error", err)
		return &UnsupportedChainError{ChainID: chainID, Err: err}
	}

	c.mu.Lock()
	c.network = c.networkConfigFor(chain)
	c.mu.Unlock()
	return nil
}

// OnAccountsChanged relays a wallet account change into the framework
// event channel. An empty list means the session ended.
func (c *TorusConnector) OnAccountsChanged(accounts []string) {
	filtered := utils.FilterAccounts(accounts)
	if len(filtered) == 0 {
		c.emitter.EmitDisconnect(events.DisconnectEvent{})
		return
	}
	// Only single-account wallets are modeled; relay the first address.
	c.emitter.EmitChange(events.ChangeEvent{Accounts: filtered[:1]})
}

// OnChainChanged relays a wallet chain change. Malformed ids are dropped
// with a warning rather than republished.
func (c *TorusConnector) OnChainChanged(chainID string) {
	id, err := utils.ParseChainID(chainID)
	if err != nil {
		c.logger.Warn("ignoring malformed chain id notification", "chainId", chainID, "error", err)
		return
	}
	c.emitter.EmitChange(events.ChangeEvent{ChainID: id})
}

// OnConnect relays the wallet's connect notification.
func (c *TorusConnector) OnConnect(chainID string) {
	id, err := utils.ParseChainID(chainID)
	if err != nil {
		c.logger.Warn("ignoring malformed connect notification", "chainId", chainID, "error", err)
		return
	}
	c.emitter.EmitConnect(events.ConnectEvent{ChainID: id})
}

// OnDisconnect relays the wallet's disconnect notification.
func (c *TorusConnector) OnDisconnect() {
	c.emitter.EmitDisconnect(events.DisconnectEvent{})
}

// embedHandle is the single accessor for the wallet instance. It never
// constructs one implicitly.
func (c *TorusConnector) embedHandle(op string) (torus.Embed, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.embed == nil {
		return nil, &NotInitializedError{Op: op}
	}
	return c.embed, nil
}

func (c *TorusConnector) onAccountsChangedRaw(data json.RawMessage) {
	var accounts []string
	if err := json.Unmarshal(data, &accounts); err != nil {
		c.logger.Warn("ignoring malformed accounts notification", "error", err)
		return
	}
	c.OnAccountsChanged(accounts)
}

func (c *TorusConnector) onChainChangedRaw(data json.RawMessage) {
	c.OnChainChanged(decodeStringPayload(data))
}

// decodeStringPayload accepts both a JSON string and a bare string frame.
func decodeStringPayload(data json.RawMessage) string {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return string(data)
	}
	return s
}

func fetchAccounts(ctx context.Context, provider torus.Provider) ([]string, error) {
	result, err := provider.Request(ctx, constants.MethodAccounts)
	if err != nil {
		return nil, fmt.Errorf("account listing failed: %w", err)
	}

	var raw []string
	if err := json.Unmarshal(result, &raw); err != nil {
		return nil, fmt.Errorf("malformed account listing: %w", err)
	}
	return utils.FilterAccounts(raw), nil
}

func fetchChainID(ctx context.Context, provider torus.Provider) (int64, error) {
	result, err := provider.Request(ctx, constants.MethodChainID)
	if err != nil {
		return 0, fmt.Errorf("chain id query failed: %w", err)
	}
	return utils.ParseChainID(decodeStringPayload(result))
}
