package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChecksumAddress(t *testing.T) {
	// EIP-55 reference vectors
	cases := map[string]string{
		"0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed": "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed",
		"0xFB6916095CA1DF60BB79CE92CE3EA74C37C5D359": "0xfB6916095ca1df60bB79Ce92cE3Ea74c37c5d359",
		"0xdbf03b407c01e7cd3cbea99509d93f8dddc8c6fb": "0xdbF03B407c01E7cD3CBea99509d93f8DDDC8C6FB",
	}

	for input, expected := range cases {
		got, err := ChecksumAddress(input)
		require.NoError(t, err)
		assert.Equal(t, expected, got)
	}
}

func TestChecksumAddressRejectsInvalid(t *testing.T) {
	invalid := []string{
		"",
		"   ",
		"0x123",
		"not-an-address",
		"0xZZf03b407c01e7cd3cbea99509d93f8dddc8c6fb",
	}

	for _, input := range invalid {
		_, err := ChecksumAddress(input)
		assert.Error(t, err, "expected error for %q", input)
	}
}

func TestFilterAccounts(t *testing.T) {
	raw := []string{
		"0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed",
		"",
		"garbage",
		"0xdbf03b407c01e7cd3cbea99509d93f8dddc8c6fb",
	}

	accounts := FilterAccounts(raw)
	require.Len(t, accounts, 2)
	assert.Equal(t, "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed", accounts[0])
	assert.Equal(t, "0xdbF03B407c01E7cD3CBea99509d93f8DDDC8C6FB", accounts[1])

	for _, account := range accounts {
		assert.NotEmpty(t, account)
	}
}

func TestFilterAccountsEmptyInput(t *testing.T) {
	assert.Empty(t, FilterAccounts(nil))
	assert.Empty(t, FilterAccounts([]string{"", ""}))
}

func TestAddressesEqual(t *testing.T) {
	assert.True(t, AddressesEqual(
		"0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed",
		"0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed",
	))
	assert.False(t, AddressesEqual(
		"0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed",
		"0xdbF03B407c01E7cD3CBea99509d93f8DDDC8C6FB",
	))
}

func TestParseChainID(t *testing.T) {
	cases := map[string]int64{
		"0x1":      1,
		"0x89":     137,
		"0xa4b1":   42161,
		"1":        1,
		"137":      137,
		`"0x89"`:   137,
		" 0x1 ":    1,
		"0xaa36a7": 11155111,
	}

	for input, expected := range cases {
		got, err := ParseChainID(input)
		require.NoError(t, err, "input %q", input)
		assert.Equal(t, expected, got, "input %q", input)
	}
}

func TestParseChainIDRejectsInvalid(t *testing.T) {
	for _, input := range []string{"", "0x", "xyz", "0xgg", "12.5"} {
		_, err := ParseChainID(input)
		assert.Error(t, err, "expected error for %q", input)
	}
}
