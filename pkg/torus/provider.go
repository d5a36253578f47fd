package torus

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/gorilla/websocket"

	"github.com/walletmesh/torus-connector/pkg/constants"
)

// StreamProvider is the request-capable provider for a hosted session.
// JSON-RPC calls are relayed over HTTP; provider notifications arrive on a
// websocket stream and are dispatched to On handlers.
type StreamProvider struct {
	baseURL    string
	sessionID  string
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger

	requestID atomic.Int64

	mu       sync.RWMutex
	handlers map[string][]func(json.RawMessage)
	conn     *websocket.Conn
}

var _ Provider = (*StreamProvider)(nil)

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int64  `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *rpcError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

// streamMessage is one notification frame from the event stream.
type streamMessage struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

func newStreamProvider(baseURL, sessionID, apiKey string, httpClient *http.Client, logger *slog.Logger) *StreamProvider {
	return &StreamProvider{
		baseURL:    baseURL,
		sessionID:  sessionID,
		apiKey:     apiKey,
		httpClient: httpClient,
		logger:     logger,
		handlers:   make(map[string][]func(json.RawMessage)),
	}
}

// Request implements Provider.
func (p *StreamProvider) Request(ctx context.Context, method string, params ...any) (json.RawMessage, error) {
	if params == nil {
		params = []any{}
	}

	reqCtx, cancel := context.WithTimeout(ctx, constants.RPCRequestTimeout)
	defer cancel()

	url := fmt.Sprintf("%s/api/v1/session/%s/rpc", p.baseURL, p.sessionID)
	resp, err := postJSON[rpcResponse](reqCtx, p.httpClient, url, p.apiKey, rpcRequest{
		JSONRPC: "2.0",
		ID:      p.requestID.Add(1),
		Method:  method,
		Params:  params,
	})
	if err != nil {
		return nil, err
	}
	if resp.Error != nil {
		return nil, resp.Error
	}
	return resp.Result, nil
}

// On implements Provider. Handlers are never removed; they live as long as
// the provider does.
func (p *StreamProvider) On(event string, handler func(json.RawMessage)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.handlers[event] = append(p.handlers[event], handler)
}

// openStream dials the session event stream and starts the read pump.
func (p *StreamProvider) openStream(ctx context.Context) error {
	wsURL := toWebsocketURL(p.baseURL) + fmt.Sprintf("/api/v1/session/%s/events", p.sessionID)

	dialer := websocket.Dialer{
		HandshakeTimeout: constants.StreamHandshakeWait,
	}
	header := http.Header{}
	if p.apiKey != "" {
		header.Set("Authorization", "Bearer "+p.apiKey)
	}

	conn, _, err := dialer.DialContext(ctx, wsURL, header)
	if err != nil {
		return fmt.Errorf("failed to dial event stream: %w", err)
	}

	p.mu.Lock()
	p.conn = conn
	p.mu.Unlock()

	go p.readPump(conn)
	return nil
}

// readPump reads stream frames until the socket closes and fans each one
// out to the handlers registered for its event.
func (p *StreamProvider) readPump(conn *websocket.Conn) {
	defer conn.Close()

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				p.logger.Warn("event stream closed unexpectedly", "error", err)
			}
			return
		}

		var msg streamMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			p.logger.Warn("dropping malformed stream frame", "error", err)
			continue
		}

		p.dispatch(msg.Event, msg.Data)
	}
}

func (p *StreamProvider) dispatch(event string, data json.RawMessage) {
	p.mu.RLock()
	handlers := make([]func(json.RawMessage), len(p.handlers[event]))
	copy(handlers, p.handlers[event])
	p.mu.RUnlock()

	for _, handler := range handlers {
		handler(data)
	}
}

func toWebsocketURL(baseURL string) string {
	switch {
	case strings.HasPrefix(baseURL, "https://"):
		return "wss://" + strings.TrimPrefix(baseURL, "https://")
	case strings.HasPrefix(baseURL, "http://"):
		return "ws://" + strings.TrimPrefix(baseURL, "http://")
	default:
		return baseURL
	}
}
