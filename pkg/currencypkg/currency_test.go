package currencypkg

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestToSettlement(t *testing.T) {
	converter, err := NewConverter(MYR, DefaultRates())
	require.NoError(t, err)

	testCases := []struct {
		name     string
		amount   string
		currency string
		want     string
		wantErr  error
	}{
		{name: "Settlement", amount: "30.00", currency: MYR, want: "30"},
		{name: "USD", amount: "9000", currency: USD, want: "42300"},
		{name: "NegativeSGD", amount: "-10", currency: SGD, want: "-34.5"},
		{name: "Unsupported", amount: "10", currency: "EUR", wantErr: ErrUnsupportedCurrency},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := converter.ToSettlement(decimal.RequireFromString(tc.amount), tc.currency)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}

			require.NoError(t, err)
			require.True(t, decimal.RequireFromString(tc.want).Equal(got), "got %s want %s", got, tc.want)
		})
	}
}

func TestParseRates(t *testing.T) {
	rates, err := ParseRates(" myr:1.0, USD:4.70,SGD:3.45 ")
	require.NoError(t, err)
	require.Len(t, rates, 3)
	require.True(t, rates[USD].Equal(decimal.RequireFromString("4.7")))

	_, err = ParseRates("USD=4.70")
	require.Error(t, err)

	_, err = ParseRates("USD:abc")
	require.Error(t, err)

	_, err = ParseRates("USD:-1")
	require.Error(t, err)

	_, err = ParseRates("")
	require.Error(t, err)
}

func TestNewConverter(t *testing.T) {
	_, err := NewConverter("EUR", DefaultRates())
	require.Error(t, err)

	_, err = NewConverter(USD, DefaultRates())
	require.Error(t, err)

	rates := DefaultRates()
	converter, err := NewConverter(MYR, rates)
	require.NoError(t, err)

	// Mutating the source table must not leak into the converter.
	delete(rates, USD)
	require.True(t, converter.IsSupported(USD))
	require.Equal(t, []string{MYR, SGD, USD}, converter.Currencies())
	require.Equal(t, MYR, converter.Settlement())
}
