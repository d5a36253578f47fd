package constants

import "time"

const (
	SessionTimeout        = 30 * time.Second // timeout for hosted session HTTP calls
	RPCRequestTimeout     = 10 * time.Second // timeout for provider JSON-RPC calls
	TLSHandshakeTimeout   = 10 * time.Second // timeout for TLS handshake
	ResponseHeaderTimeout = 20 * time.Second // timeout for response header
	ExpectContinueTimeout = 1 * time.Second  // timeout for expect continue
	StreamHandshakeWait   = 10 * time.Second // handshake deadline for the event stream socket
	MaxResponseBodySize   = 10 * 1024 * 1024 // maximum response body size in bytes (10MB)
)

// Connector identity reported to the wallet framework
const (
	ConnectorID   = "torus"
	ConnectorName = "Torus"
	ConnectorType = "torus"
)

// Provider-side event names (what the embedded wallet emits)
const (
	EventAccountsChanged = "accountsChanged"
	EventChainChanged    = "chainChanged"
	EventConnect         = "connect"
	EventDisconnect      = "disconnect"
)

// JSON-RPC methods issued against the wallet provider
const (
	MethodAccounts = "eth_accounts"
	MethodChainID  = "eth_chainId"
)

// Well-known hosts accepted by the embedded wallet
const (
	HostMainnet = "mainnet"
	HostSepolia = "sepolia"
	HostMatic   = "matic"
)

const (
	DefaultChainID int64 = 1
	DefaultHost          = HostMainnet
)

// mapping from numeric chain ID to the embedded wallet's host name
var ChainIDToHost = map[int64]string{
	1:        HostMainnet,
	11155111: HostSepolia,
	137:      HostMatic,
}
