package transactionservice

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/go-petr/wallet-ledger/internal/domain"
	"github.com/go-petr/wallet-ledger/pkg/currencypkg"
)

func TestPendingExposure(t *testing.T) {
	t.Parallel()

	c := NewBalanceCalculator(newTestConverter(t), "")

	got, err := c.PendingExposure(map[string]decimal.Decimal{
		currencypkg.MYR: dec("20"),
		currencypkg.USD: dec("10"),
		currencypkg.SGD: dec("-2"),
	})
	require.NoError(t, err)
	require.True(t, dec("73.90").Equal(got), got.String())

	got, err = c.PendingExposure(nil)
	require.NoError(t, err)
	require.True(t, got.IsZero())

	_, err = c.PendingExposure(map[string]decimal.Decimal{"EUR": dec("1")})
	require.ErrorIs(t, err, currencypkg.ErrUnsupportedCurrency)
}

func TestComputeNewBalance(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		mode     BalanceMode
		balance  string
		pending  string
		amount   string
		currency string
		txType   domain.TransactionType
		want     string
		wantErr  error
	}{
		{
			name: "Purchase without pending", mode: BalanceModeAvailable,
			balance: "100", pending: "0", amount: "-30", currency: "MYR", txType: domain.TypePurchase,
			want: "100.00",
		},
		{
			name: "Purchase with pending", mode: BalanceModeAvailable,
			balance: "100", pending: "40", amount: "-30", currency: "MYR", txType: domain.TypePurchase,
			want: "60.00",
		},
		{
			name: "Withdrawal equal to available", mode: BalanceModeAvailable,
			balance: "100", pending: "40", amount: "-60", currency: "MYR", txType: domain.TypeWithdrawal,
			want: "60.00",
		},
		{
			name: "Purchase above available", mode: BalanceModeAvailable,
			balance: "100", pending: "40", amount: "-60.01", currency: "MYR", txType: domain.TypePurchase,
			wantErr: domain.ErrInsufficientFunds,
		},
		{
			name: "Foreign purchase above balance", mode: BalanceModeAvailable,
			balance: "50", pending: "0", amount: "-9000", currency: "USD", txType: domain.TypePurchase,
			wantErr: domain.ErrInsufficientFunds,
		},
		{
			name: "Refund adds available", mode: BalanceModeAvailable,
			balance: "100", pending: "20", amount: "25", currency: "MYR", txType: domain.TypeRefund,
			want: "180.00",
		},
		{
			name: "Refund with pending above balance", mode: BalanceModeAvailable,
			balance: "10", pending: "30", amount: "5", currency: "MYR", txType: domain.TypeRefund,
			want: "30.00",
		},
		{
			name: "Topup", mode: BalanceModeAvailable,
			balance: "100", pending: "20", amount: "10", currency: "USD", txType: domain.TypeTopup,
			want: "147.00",
		},
		{
			name: "Direct purchase", mode: BalanceModeDirect,
			balance: "100", pending: "20", amount: "-10", currency: "SGD", txType: domain.TypePurchase,
			want: "65.50",
		},
		{
			name: "Direct refund", mode: BalanceModeDirect,
			balance: "100", pending: "20", amount: "25", currency: "MYR", txType: domain.TypeRefund,
			want: "125.00",
		},
		{
			name: "Direct withdrawal of whole balance", mode: BalanceModeDirect,
			balance: "100", pending: "0", amount: "-100", currency: "MYR", txType: domain.TypeWithdrawal,
			want: "0.00",
		},
		{
			name: "Rounds to cents", mode: BalanceModeDirect,
			balance: "100", pending: "0", amount: "0.333", currency: "SGD", txType: domain.TypeTopup,
			want: "101.15",
		},
		{
			name: "Zero amount", mode: BalanceModeAvailable,
			balance: "100", pending: "0", amount: "0", currency: "MYR", txType: domain.TypeTopup,
			wantErr: domain.ErrNonPositiveAmount,
		},
		{
			name: "Unsupported currency", mode: BalanceModeAvailable,
			balance: "100", pending: "0", amount: "10", currency: "EUR", txType: domain.TypeTopup,
			wantErr: domain.ErrUnsupportedCurrency,
		},
		{
			name: "Unsupported type", mode: BalanceModeAvailable,
			balance: "100", pending: "0", amount: "10", currency: "MYR", txType: "chargeback",
			wantErr: domain.ErrUnsupportedTransactionType,
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			c := NewBalanceCalculator(newTestConverter(t), tc.mode)
			account := domain.Account{Balance: dec(tc.balance), Status: domain.AccountStatusActive}

			got, err := c.ComputeNewBalance(account, dec(tc.pending), dec(tc.amount), tc.currency, tc.txType)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}

			require.NoError(t, err)
			require.True(t, dec(tc.want).Equal(got), "want %s, got %s", tc.want, got)
			require.False(t, got.IsNegative())
		})
	}
}
