package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	testCases := []struct {
		name string
		err  error
		want ErrorClass
	}{
		{name: "AccountNotFound", err: ErrAccountNotFound, want: ClassNotFound},
		{name: "TransactionNotFound", err: ErrTransactionNotFound, want: ClassNotFound},
		{name: "AmountTooLarge", err: ErrAmountTooLarge, want: ClassValidation},
		{name: "WrappedSignMismatch", err: fmt.Errorf("topup: %w", ErrSignMismatch), want: ClassValidation},
		{name: "AccountClosed", err: ErrAccountClosed, want: ClassStateConflict},
		{
			name: "WrappedIllegalTransition",
			err:  fmt.Errorf("%w: failed -> completed", ErrIllegalStatusTransition),
			want: ClassStateConflict,
		},
		{name: "InsufficientFunds", err: ErrInsufficientFunds, want: ClassInsufficientFunds},
		{name: "Unknown", err: errors.New("connection reset"), want: ClassUnknown},
		{name: "Nil", err: nil, want: ClassUnknown},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tc.want, Classify(tc.err))
		})
	}
}

func TestTransactionTypeSign(t *testing.T) {
	for _, tt := range TransactionTypes {
		require.True(t, tt.IsSupported())
		require.NotEqual(t, tt.IsCredit(), tt.IsDebit(), "type %s must be exactly one of credit or debit", tt)
	}

	require.False(t, TransactionType("transfer").IsSupported())
}
