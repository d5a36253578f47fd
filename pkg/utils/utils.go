package utils

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// ChecksumAddress normalizes a hex address to its EIP-55 checksummed form.
func ChecksumAddress(address string) (string, error) {
	if strings.TrimSpace(address) == "" {
		return "", fmt.Errorf("empty address")
	}
	if !common.IsHexAddress(address) {
		return "", fmt.Errorf("invalid hex address: %s", address)
	}
	return common.HexToAddress(address).Hex(), nil
}

// FilterAccounts drops empty and malformed entries and checksums the rest.
// The result never contains empty strings.
func FilterAccounts(raw []string) []string {
	accounts := make([]string, 0, len(raw))
	for _, entry := range raw {
		checksummed, err := ChecksumAddress(entry)
		if err != nil {
			continue
		}
		accounts = append(accounts, checksummed)
	}
	return accounts
}

// AddressesEqual compares two addresses case-insensitively (EIP-55
// checksumming only varies letter case).
func AddressesEqual(addr1, addr2 string) bool {
	return strings.EqualFold(addr1, addr2)
}

// ParseChainID converts a provider chain-id response to a numeric ID.
// Providers answer eth_chainId with 0x-prefixed hex; some older wallets
// answer with a bare decimal string.
func ParseChainID(raw string) (int64, error) {
	raw = strings.TrimSpace(strings.Trim(raw, `"`))
	if raw == "" {
		return 0, fmt.Errorf("empty chain id")
	}

	if strings.HasPrefix(raw, "0x") || strings.HasPrefix(raw, "0X") {
		value, err := hexutil.DecodeUint64(strings.ToLower(raw))
		if err != nil {
			return 0, fmt.Errorf("invalid hex chain id %q: %w", raw, err)
		}
		return int64(value), nil
	}

	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid chain id %q: %w", raw, err)
	}
	return value, nil
}
