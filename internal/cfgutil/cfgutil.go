// Package cfgutil collects small parsing helpers shared by the CLI
// commands: decimal coin amounts, hex strings and file-or-literal
// arguments.
package cfgutil

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	// SatoshisPerCoin is the number of base units in one coin.
	SatoshisPerCoin = 100000000

	// MaxSatoshis is the supply ceiling, 21 million coins in base units.
	MaxSatoshis = 21000000 * SatoshisPerCoin

	maxFractionalDigits = 8
)

var (
	// ErrAmountOutOfRange ...
	ErrAmountOutOfRange = fmt.Errorf(
		"amount must be a positive number of at most %d coins",
		MaxSatoshis/SatoshisPerCoin,
	)
	// ErrAmountTooPrecise ...
	ErrAmountTooPrecise = fmt.Errorf(
		"amount must not have more than %d fractional digits",
		maxFractionalDigits,
	)
)

// ParseAmount converts a decimal coin amount like "0.015" to base units.
// Amounts are parsed exactly, never through a binary float, so every
// representable value round-trips.
func ParseAmount(s string) (int64, error) {
	amount, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("invalid amount: %v", err)
	}
	if amount.Exponent() < -maxFractionalDigits {
		return 0, ErrAmountTooPrecise
	}

	satoshis := amount.Mul(decimal.NewFromInt(SatoshisPerCoin))
	if !satoshis.IsInteger() {
		return 0, ErrAmountTooPrecise
	}
	if satoshis.Sign() <= 0 ||
		satoshis.Cmp(decimal.NewFromInt(MaxSatoshis)) > 0 {
		return 0, ErrAmountOutOfRange
	}
	return satoshis.IntPart(), nil
}

// FormatAmount renders base units as a decimal coin amount.
func FormatAmount(satoshis int64) string {
	return decimal.NewFromInt(satoshis).
		Div(decimal.NewFromInt(SatoshisPerCoin)).String()
}

// ParseHex decodes a hex string, tolerating surrounding whitespace.
func ParseHex(s string) ([]byte, error) {
	b, err := hex.DecodeString(strings.TrimSpace(s))
	if err != nil {
		return nil, fmt.Errorf("invalid hex: %v", err)
	}
	return b, nil
}

// ReadFileOrArg interprets arg as a file path when it carries the @ prefix
// and as a literal value otherwise. File contents are trimmed of the
// trailing newline editors append.
func ReadFileOrArg(arg string) (string, error) {
	if !strings.HasPrefix(arg, "@") {
		return arg, nil
	}
	buf, err := os.ReadFile(strings.TrimPrefix(arg, "@"))
	if err != nil {
		return "", err
	}
	content := strings.TrimRight(string(buf), "\r\n")
	if len(content) == 0 {
		return "", errors.New("file is empty")
	}
	return content, nil
}
