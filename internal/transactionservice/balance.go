package transactionservice

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/go-petr/wallet-ledger/internal/domain"
)

// BalanceMode selects how debits and credits change the stored balance.
type BalanceMode string

const (
	// BalanceModeAvailable checks every movement against the available balance, that is the
	// stored balance less the pending purchases. Purchases and withdrawals leave the stored
	// balance less the pending exposure, refunds add the available balance and topups add
	// the amount.
	BalanceModeAvailable BalanceMode = "available"
	// BalanceModeDirect applies the converted amount to the stored balance.
	BalanceModeDirect BalanceMode = "direct"
)

// BalanceCalculator computes the account balance resulting from a transaction.
type BalanceCalculator struct {
	converter Converter
	mode      BalanceMode
}

// NewBalanceCalculator returns BalanceCalculator. An empty mode means BalanceModeAvailable.
func NewBalanceCalculator(converter Converter, mode BalanceMode) *BalanceCalculator {
	if mode == "" {
		mode = BalanceModeAvailable
	}

	return &BalanceCalculator{
		converter: converter,
		mode:      mode,
	}
}

// PendingExposure converts per-currency pending purchase totals into one settlement amount.
func (c *BalanceCalculator) PendingExposure(pending map[string]decimal.Decimal) (decimal.Decimal, error) {
	total := decimal.Zero

	for currency, sum := range pending {
		settled, err := c.converter.ToSettlement(sum.Abs(), currency)
		if err != nil {
			return decimal.Zero, fmt.Errorf("pending %s: %w", currency, err)
		}

		total = total.Add(settled)
	}

	return total, nil
}

// ComputeNewBalance returns the balance the account ends up with after the transaction.
//
// The result is rounded to cents and never negative.
func (c *BalanceCalculator) ComputeNewBalance(
	a domain.Account,
	pendingExposure decimal.Decimal,
	amount decimal.Decimal,
	currency string,
	t domain.TransactionType,
) (decimal.Decimal, error) {
	settled, err := c.converter.ToSettlement(amount.Abs(), currency)
	if err != nil {
		return decimal.Zero, domain.ErrUnsupportedCurrency
	}

	if !settled.IsPositive() {
		return decimal.Zero, domain.ErrNonPositiveAmount
	}

	available := a.Balance.Sub(pendingExposure)

	var balance decimal.Decimal

	switch t {
	case domain.TypePurchase, domain.TypeWithdrawal:
		if available.LessThan(settled) {
			return decimal.Zero, domain.ErrInsufficientFunds
		}

		if c.mode == BalanceModeDirect {
			balance = a.Balance.Sub(settled)
		} else {
			balance = a.Balance.Sub(pendingExposure)
		}
	case domain.TypeRefund:
		if c.mode == BalanceModeDirect {
			balance = a.Balance.Add(settled)
		} else {
			balance = a.Balance.Add(available.Abs())
		}
	case domain.TypeTopup:
		balance = a.Balance.Add(settled)
	default:
		return decimal.Zero, domain.ErrUnsupportedTransactionType
	}

	balance = balance.Round(2)

	if balance.IsNegative() {
		return decimal.Zero, domain.ErrNegativeBalanceResult
	}

	return balance, nil
}
