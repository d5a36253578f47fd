package torus

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// walletStub is a minimal hosted wallet service for tests: session init,
// login/logout, JSON-RPC relay, and a websocket event stream.
type walletStub struct {
	t *testing.T

	mu          sync.Mutex
	loginCalls  int
	logoutCalls int
	networks    []NetworkConfig
	stream      *websocket.Conn

	server *httptest.Server
}

func newWalletStub(t *testing.T) *walletStub {
	stub := &walletStub{t: t}
	mux := http.NewServeMux()

	mux.HandleFunc("/api/v1/session/init", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		writeJSON(w, map[string]string{"sessionId": "sess-1"})
	})
	mux.HandleFunc("/api/v1/session/sess-1/events", func(w http.ResponseWriter, r *http.Request) {
		upgrader := websocket.Upgrader{}
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		stub.mu.Lock()
		stub.stream = conn
		stub.mu.Unlock()
	})
	mux.HandleFunc("/api/v1/session/sess-1/login", func(w http.ResponseWriter, r *http.Request) {
		stub.mu.Lock()
		stub.loginCalls++
		stub.mu.Unlock()
		writeJSON(w, map[string]any{"accounts": []string{"0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed"}})
	})
	mux.HandleFunc("/api/v1/session/sess-1/logout", func(w http.ResponseWriter, r *http.Request) {
		stub.mu.Lock()
		stub.logoutCalls++
		stub.mu.Unlock()
		writeJSON(w, map[string]any{})
	})
	mux.HandleFunc("/api/v1/session/sess-1/network", func(w http.ResponseWriter, r *http.Request) {
		var network NetworkConfig
		require.NoError(t, json.NewDecoder(r.Body).Decode(&network))
		stub.mu.Lock()
		stub.networks = append(stub.networks, network)
		stub.mu.Unlock()
		writeJSON(w, map[string]any{})
	})
	mux.HandleFunc("/api/v1/session/sess-1/rpc", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Method string `json:"method"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		switch req.Method {
		case "eth_chainId":
			writeJSON(w, map[string]any{"result": "0x1"})
		case "eth_accounts":
			writeJSON(w, map[string]any{"result": []string{"0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed"}})
		default:
			writeJSON(w, map[string]any{"error": map[string]any{"code": -32601, "message": "method not found"}})
		}
	})
	mux.HandleFunc("/api/v1/session/sess-1/button/show", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{})
	})

	stub.server = httptest.NewServer(mux)
	t.Cleanup(stub.server.Close)
	return stub
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func (s *walletStub) pushEvent(event string, data any) {
	payload, err := json.Marshal(data)
	require.NoError(s.t, err)
	frame, err := json.Marshal(map[string]any{"event": event, "data": json.RawMessage(payload)})
	require.NoError(s.t, err)

	// The stream attaches asynchronously during Init
	deadline := time.Now().Add(2 * time.Second)
	for {
		s.mu.Lock()
		conn := s.stream
		s.mu.Unlock()
		if conn != nil {
			require.NoError(s.t, conn.WriteMessage(websocket.TextMessage, frame))
			return
		}
		if time.Now().After(deadline) {
			s.t.Fatal("event stream never attached")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func newTestEmbed(t *testing.T, stub *walletStub) *HostedEmbed {
	return NewHostedEmbed(Options{
		APIKey:  "test-key",
		BaseURL: stub.server.URL,
	}, slog.New(slog.DiscardHandler))
}

func TestHostedEmbedLifecycle(t *testing.T) {
	stub := newWalletStub(t)
	embed := newTestEmbed(t, stub)
	ctx := context.Background()

	assert.False(t, embed.IsInitialized())
	assert.Nil(t, embed.Provider())

	require.NoError(t, embed.Init(ctx, InitParams{Network: &NetworkConfig{Host: "mainnet", ChainID: 1}}))
	assert.True(t, embed.IsInitialized())
	require.NotNil(t, embed.Provider())

	// Re-init is a no-op
	require.NoError(t, embed.Init(ctx, InitParams{}))

	assert.False(t, embed.IsLoggedIn())
	require.NoError(t, embed.Login(ctx))
	assert.True(t, embed.IsLoggedIn())

	require.NoError(t, embed.Logout(ctx))
	assert.False(t, embed.IsLoggedIn())

	stub.mu.Lock()
	assert.Equal(t, 1, stub.loginCalls)
	assert.Equal(t, 1, stub.logoutCalls)
	stub.mu.Unlock()
}

func TestHostedEmbedLoginBeforeInit(t *testing.T) {
	stub := newWalletStub(t)
	embed := newTestEmbed(t, stub)

	assert.Error(t, embed.Login(context.Background()))
	assert.Error(t, embed.SetProvider(context.Background(), NetworkConfig{}))
	assert.NoError(t, embed.Logout(context.Background()), "logout without a session is a no-op")
}

func TestHostedEmbedSetProvider(t *testing.T) {
	stub := newWalletStub(t)
	embed := newTestEmbed(t, stub)
	ctx := context.Background()

	require.NoError(t, embed.Init(ctx, InitParams{}))
	require.NoError(t, embed.SetProvider(ctx, NetworkConfig{
		Host:        "https://polygon-rpc.com",
		ChainID:     137,
		NetworkName: "Polygon",
	}))

	stub.mu.Lock()
	require.Len(t, stub.networks, 1)
	assert.Equal(t, int64(137), stub.networks[0].ChainID)
	assert.Equal(t, "Polygon", stub.networks[0].NetworkName)
	stub.mu.Unlock()
}

func TestStreamProviderRequest(t *testing.T) {
	stub := newWalletStub(t)
	embed := newTestEmbed(t, stub)
	ctx := context.Background()

	require.NoError(t, embed.Init(ctx, InitParams{}))
	provider := embed.Provider()

	result, err := provider.Request(ctx, "eth_chainId")
	require.NoError(t, err)
	assert.JSONEq(t, `"0x1"`, string(result))

	result, err = provider.Request(ctx, "eth_accounts")
	require.NoError(t, err)
	assert.JSONEq(t, `["0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed"]`, string(result))
}

func TestStreamProviderRequestError(t *testing.T) {
	stub := newWalletStub(t)
	embed := newTestEmbed(t, stub)
	ctx := context.Background()

	require.NoError(t, embed.Init(ctx, InitParams{}))

	_, err := embed.Provider().Request(ctx, "eth_unknown")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "method not found")
}

func TestStreamProviderDispatchesEvents(t *testing.T) {
	stub := newWalletStub(t)
	embed := newTestEmbed(t, stub)
	ctx := context.Background()

	require.NoError(t, embed.Init(ctx, InitParams{}))

	received := make(chan json.RawMessage, 1)
	embed.Provider().On("accountsChanged", func(data json.RawMessage) {
		received <- data
	})

	stub.pushEvent("accountsChanged", []string{"0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed"})

	select {
	case data := <-received:
		assert.JSONEq(t, `["0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed"]`, string(data))
	case <-time.After(2 * time.Second):
		t.Fatal("accountsChanged never dispatched")
	}
}

func TestToWebsocketURL(t *testing.T) {
	assert.Equal(t, "wss://app.tor.us", toWebsocketURL("https://app.tor.us"))
	assert.True(t, strings.HasPrefix(toWebsocketURL("http://127.0.0.1:8080"), "ws://"))
}
