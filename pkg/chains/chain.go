package chains

// NativeCurrency describes the coin used to pay for gas on a chain.
type NativeCurrency struct {
	Name     string `yaml:"name"`
	Symbol   string `yaml:"symbol"`
	Decimals int    `yaml:"decimals"`
}

// Chain is the static descriptor for one blockchain network.
// Descriptors are supplied at construction time and never mutated.
type Chain struct {
	ID                int64          `yaml:"id"`
	Name              string         `yaml:"name"`
	NativeCurrency    NativeCurrency `yaml:"nativeCurrency"`
	BlockExplorerURLs []string       `yaml:"blockExplorerUrls"`
	RPCURLs           []string       `yaml:"rpcUrls"`
}

// DefaultRPCURL returns the first configured RPC endpoint, or "" if none.
func (c Chain) DefaultRPCURL() string {
	if len(c.RPCURLs) == 0 {
		return ""
	}
	return c.RPCURLs[0]
}

// DefaultBlockExplorerURL returns the first configured explorer URL, or "" if none.
func (c Chain) DefaultBlockExplorerURL() string {
	if len(c.BlockExplorerURLs) == 0 {
		return ""
	}
	return c.BlockExplorerURLs[0]
}

// List is the set of chains a connector supports.
type List []Chain

// Lookup returns the descriptor whose ID matches chainID.
func (l List) Lookup(chainID int64) (Chain, bool) {
	for _, c := range l {
		if c.ID == chainID {
			return c, true
		}
	}
	return Chain{}, false
}

// Contains reports whether some descriptor in the list has the given ID.
func (l List) Contains(chainID int64) bool {
	_, ok := l.Lookup(chainID)
	return ok
}

// IDs returns the chain IDs in list order.
func (l List) IDs() []int64 {
	ids := make([]int64, 0, len(l))
	for _, c := range l {
		ids = append(ids, c.ID)
	}
	return ids
}

// EthereumMainnet is the canonical descriptor used when no chain list is configured.
var EthereumMainnet = Chain{
	ID:   1,
	Name: "Ethereum",
	NativeCurrency: NativeCurrency{
		Name:     "Ether",
		Symbol:   "ETH",
		Decimals: 18,
	},
	BlockExplorerURLs: []string{"https://etherscan.io"},
	RPCURLs:           []string{"https://eth.llamarpc.com"},
}
