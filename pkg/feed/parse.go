package feed

import (
	"github.com/shopspring/decimal"
)

// Scale converts decimal strings from the wire into the fixed-point
// integers the book runs on. Funds carry the combined scale so that
// funds / price = size holds in integer arithmetic.
type Scale struct {
	PriceDecimals int32 `yaml:"price_decimals"`
	SizeDecimals  int32 `yaml:"size_decimals"`
}

// DefaultScale matches hundredths-of-a-cent prices and satoshi sizes.
var DefaultScale = Scale{PriceDecimals: 4, SizeDecimals: 8}

// ParsePrice converts a decimal string into a scaled price. Malformed
// or negative input yields Sentinel, never an error: the caller
// rejects the whole event instead.
func (s Scale) ParsePrice(raw string) int64 {
	return parseScaled(raw, s.PriceDecimals)
}

func (s Scale) ParseSize(raw string) int64 {
	return parseScaled(raw, s.SizeDecimals)
}

func (s Scale) ParseFunds(raw string) int64 {
	return parseScaled(raw, s.PriceDecimals+s.SizeDecimals)
}

func parseScaled(raw string, decimals int32) int64 {
	if raw == "" {
		return Sentinel
	}

	d, err := decimal.NewFromString(raw)
	if err != nil {
		return Sentinel
	}

	scaled := d.Shift(decimals)
	if !scaled.IsInteger() {
		// excess precision is truncated, not rejected
		scaled = scaled.Truncate(0)
	}
	if scaled.IsNegative() {
		return Sentinel
	}
	return scaled.IntPart()
}
