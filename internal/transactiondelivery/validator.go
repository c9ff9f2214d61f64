package transactiondelivery

import (
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/go-petr/wallet-ledger/internal/domain"
)

// NewValidCurrency returns a validator accepting the currencies isSupported knows.
func NewValidCurrency(isSupported func(currency string) bool) validator.Func {
	return func(fl validator.FieldLevel) bool {
		if c, ok := fl.Field().Interface().(string); ok {
			return isSupported(c)
		}
		return false
	}
}

// ValidTransactionType validates whether the transaction type is supported.
var ValidTransactionType validator.Func = func(fl validator.FieldLevel) bool {
	if t, ok := fl.Field().Interface().(string); ok {
		return domain.TransactionType(t).IsSupported()
	}
	return false
}

// ValidAmount validates whether the field is a non-zero decimal number with at most
// two fractional digits and a storable magnitude.
var ValidAmount validator.Func = func(fl validator.FieldLevel) bool {
	s, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return false
	}

	return !d.IsZero() && domain.CheckAmountPrecision(d) == nil
}
