// Package units converts integer on-chain amounts into decimal display strings.
package units

import (
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	// EtherDecimals is the base-unit exponent of ETH (1 ETH = 10^18 wei).
	EtherDecimals = 18
	// DefaultFractionDigits is how many fractional digits are shown by default.
	DefaultFractionDigits = 6
	// MaxDecimals is the largest exponent an ERC-20 token can declare (uint8).
	MaxDecimals = 255
)

// WeiToDecimal renders a wei amount as ETH, truncated to fractionDigits.
// Unparseable input yields "0".
func WeiToDecimal(wei string, fractionDigits int) string {
	return TokenAmountToDecimal(wei, EtherDecimals, fractionDigits)
}

// TokenAmountToDecimal renders raw, an integer amount in a token's smallest
// unit, as value / 10^decimals. Digits past fractionDigits are dropped, not
// rounded, and trailing zeros are stripped ("1.230000" becomes "1.23", "2.0"
// becomes "2"). An empty raw counts as zero; anything else that does not parse
// as a non-negative integer yields "0". Amounts have no width limit, but
// decimals outside 0..MaxDecimals yield "0".
func TokenAmountToDecimal(raw string, decimals, fractionDigits int) string {
	if decimals < 0 || decimals > MaxDecimals {
		return "0"
	}
	n, ok := parseAmount(raw)
	if !ok {
		return "0"
	}
	if fractionDigits < 0 {
		fractionDigits = 0
	}
	return decimal.NewFromBigInt(n, -int32(decimals)).Truncate(int32(fractionDigits)).String()
}

// parseAmount accepts decimal or 0x-prefixed hex, like the explorer APIs emit.
func parseAmount(raw string) (*big.Int, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return new(big.Int), true
	}
	base := 10
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		s, base = s[2:], 16
	}
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return nil, false
	}
	n, ok := new(big.Int).SetString(s, base)
	if !ok {
		return nil, false
	}
	return n, true
}
