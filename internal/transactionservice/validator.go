package transactionservice

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/go-petr/wallet-ledger/internal/domain"
)

// ValidateCanTransact checks that the account is allowed to move money.
func ValidateCanTransact(a domain.Account) error {
	switch a.Status {
	case domain.AccountStatusActive:
		return nil
	case domain.AccountStatusClosed:
		return domain.ErrAccountClosed
	case domain.AccountStatusSuspended:
		return domain.ErrAccountSuspended
	default:
		return domain.ErrAccountNotActive
	}
}

// AmountValidator checks requested amounts against the type sign rules and the
// limits expressed in the settlement currency.
type AmountValidator struct {
	converter Converter
	min       decimal.Decimal
	max       decimal.Decimal
}

// NewAmountValidator returns AmountValidator with inclusive limits min and max.
func NewAmountValidator(converter Converter, min, max decimal.Decimal) *AmountValidator {
	return &AmountValidator{
		converter: converter,
		min:       min,
		max:       max,
	}
}

// ValidateAmount checks the signed amount of a transaction of type t in the given currency.
//
// Credits (topup, refund) must be positive and debits (purchase, withdrawal) negative.
// The amount must have at most two fractional digits, and its magnitude converted to the
// settlement currency must lie within [min, max].
func (v *AmountValidator) ValidateAmount(amount decimal.Decimal, currency string, t domain.TransactionType) error {
	if !t.IsSupported() {
		return domain.ErrUnsupportedTransactionType
	}

	if amount.IsZero() {
		return domain.ErrAmountTooSmall
	}

	// Must run before the conversion, which rescales huge exponents.
	if err := domain.CheckAmountPrecision(amount); err != nil {
		return err
	}

	settled, err := v.converter.ToSettlement(amount.Abs(), currency)
	if err != nil {
		return fmt.Errorf("%w: %s", domain.ErrUnsupportedCurrency, currency)
	}

	if settled.LessThan(v.min) {
		return domain.ErrAmountTooSmall
	}

	if settled.GreaterThan(v.max) {
		return domain.ErrAmountTooLarge
	}

	if t.IsCredit() && !amount.IsPositive() {
		return domain.ErrSignMismatch
	}

	if t.IsDebit() && !amount.IsNegative() {
		return domain.ErrSignMismatch
	}

	return nil
}
