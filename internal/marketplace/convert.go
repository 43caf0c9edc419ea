package marketplace

import (
	"math/big"
	"strconv"
	"strings"
)

// bigintTag marks wei-denominated values in stats API responses
// (e.g. "123450000000000000000$bigint").
const bigintTag = "$bigint"

// ParseAmount normalizes an optional numeric string to a base-unit amount.
// Plain decimals ("0.45") are taken as base units; values carrying the
// $bigint tag are integer wei and are scaled down by 1e18. Returns nil for
// empty, malformed, or non-positive values — a non-positive price is never
// a valid signal.
func ParseAmount(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	if cleaned := strings.ReplaceAll(s, bigintTag, ""); cleaned != s {
		wei, ok := new(big.Int).SetString(cleaned, 10)
		if !ok {
			return nil
		}
		f, _ := new(big.Float).Quo(new(big.Float).SetInt(wei), big.NewFloat(1e18)).Float64()
		if f <= 0 {
			return nil
		}
		return &f
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f <= 0 {
		return nil
	}
	return &f
}

// flexAmount unmarshals a price encoded as either a JSON number or a
// numeric string; both shapes occur in listings payloads.
type flexAmount struct {
	val *float64
}

func (a *flexAmount) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		return nil
	}
	a.val = ParseAmount(s)
	return nil
}
