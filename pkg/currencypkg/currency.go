// Package currencypkg provides conversion of amounts into the settlement currency.
package currencypkg

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// Constants for the currencies known out of the box.
const (
	MYR = "MYR"
	USD = "USD"
	SGD = "SGD"
)

// ErrUnsupportedCurrency indicates that the currency is missing from the rate table.
var ErrUnsupportedCurrency = errors.New("unsupported currency")

// Rates maps a currency code to its conversion factor into the settlement currency.
type Rates map[string]decimal.Decimal

// DefaultRates returns the fixed rate table with MYR as the settlement currency.
func DefaultRates() Rates {
	return Rates{
		MYR: decimal.RequireFromString("1.0"),
		USD: decimal.RequireFromString("4.70"),
		SGD: decimal.RequireFromString("3.45"),
	}
}

// ParseRates parses a rate table written as "MYR:1.0,USD:4.70,SGD:3.45".
func ParseRates(s string) (Rates, error) {
	rates := Rates{}

	for _, pair := range strings.Split(s, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}

		code, rate, ok := strings.Cut(pair, ":")
		if !ok {
			return nil, fmt.Errorf("invalid rate %q: want CODE:RATE", pair)
		}

		code = strings.ToUpper(strings.TrimSpace(code))

		r, err := decimal.NewFromString(strings.TrimSpace(rate))
		if err != nil {
			return nil, fmt.Errorf("invalid rate for %s: %w", code, err)
		}

		if !r.IsPositive() {
			return nil, fmt.Errorf("rate for %s must be positive", code)
		}

		rates[code] = r
	}

	if len(rates) == 0 {
		return nil, errors.New("empty rate table")
	}

	return rates, nil
}

// Converter converts amounts into the settlement currency using a fixed rate table.
//
// A Converter is immutable and safe for concurrent use.
type Converter struct {
	settlement string
	rates      Rates
}

// NewConverter returns a Converter over a copy of the given rates.
func NewConverter(settlement string, rates Rates) (*Converter, error) {
	r, ok := rates[settlement]
	if !ok {
		return nil, fmt.Errorf("settlement currency %s is missing from the rate table", settlement)
	}

	if !r.Equal(decimal.NewFromInt(1)) {
		return nil, fmt.Errorf("settlement currency %s must have rate 1, got %s", settlement, r)
	}

	cp := make(Rates, len(rates))
	for code, rate := range rates {
		cp[code] = rate
	}

	return &Converter{settlement: settlement, rates: cp}, nil
}

// Settlement returns the settlement currency code.
func (c *Converter) Settlement() string {
	return c.settlement
}

// ToSettlement converts the amount in the given currency into the settlement currency.
func (c *Converter) ToSettlement(amount decimal.Decimal, currency string) (decimal.Decimal, error) {
	rate, ok := c.rates[currency]
	if !ok {
		return decimal.Zero, ErrUnsupportedCurrency
	}

	return amount.Mul(rate), nil
}

// IsSupported returns true if the currency is present in the rate table.
func (c *Converter) IsSupported(currency string) bool {
	_, ok := c.rates[currency]
	return ok
}

// Currencies returns the supported currency codes in sorted order.
func (c *Converter) Currencies() []string {
	codes := make([]string, 0, len(c.rates))
	for code := range c.rates {
		codes = append(codes, code)
	}

	sort.Strings(codes)

	return codes
}
