package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	// ErrTransactionNotFound indicates that the transaction is not found.
	ErrTransactionNotFound = errors.New("transaction not found")
	// ErrInvalidAmount indicates an amount that cannot be parsed or stored as is.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrAmountTooSmall indicates an amount below the minimum threshold.
	ErrAmountTooSmall = errors.New("amount is below the minimum")
	// ErrAmountTooLarge indicates an amount above the maximum threshold in settlement currency.
	ErrAmountTooLarge = errors.New("amount exceeds the maximum")
	// ErrSignMismatch indicates that the amount sign does not match the transaction type.
	ErrSignMismatch = errors.New("amount sign does not match transaction type")
	// ErrUnsupportedCurrency indicates a currency missing from the rate table.
	ErrUnsupportedCurrency = errors.New("unsupported currency")
	// ErrUnsupportedTransactionType indicates an unknown transaction type.
	ErrUnsupportedTransactionType = errors.New("unsupported transaction type")
	// ErrNonPositiveAmount indicates a settlement amount that is zero or less.
	ErrNonPositiveAmount = errors.New("amount must be positive")
	// ErrInsufficientFunds indicates that the available balance does not cover the amount.
	ErrInsufficientFunds = errors.New("insufficient available balance")
	// ErrNegativeBalanceResult indicates that the computed balance would go negative.
	ErrNegativeBalanceResult = errors.New("balance must not go negative")
	// ErrMissingIdempotencyKey indicates a request without an idempotency key.
	ErrMissingIdempotencyKey = errors.New("idempotency key is required")
)

// AmountScale is the number of fractional digits a stored amount keeps.
const AmountScale = 2

// maxAmountExponent bounds the exponent of a non-zero amount. Stored amounts have at most
// 13 integer digits, so anything at or above 10^13 cannot be stored.
const maxAmountExponent = 13

// CheckAmountPrecision rejects amounts that cannot be stored without rounding.
//
// It inspects the exponent only and does no arithmetic, so it is safe to run on untrusted
// input before any comparison rescales the coefficient.
func CheckAmountPrecision(amount decimal.Decimal) error {
	exp := amount.Exponent()

	switch {
	case exp < -AmountScale:
		return ErrInvalidAmount
	case exp >= maxAmountExponent && amount.IsZero():
		return ErrInvalidAmount
	case exp >= maxAmountExponent:
		return ErrAmountTooLarge
	default:
		return nil
	}
}

// TransactionType is the kind of money movement.
type TransactionType string

// Transaction types.
const (
	TypePurchase   TransactionType = "purchase"
	TypeTopup      TransactionType = "topup"
	TypeWithdrawal TransactionType = "withdrawal"
	TypeRefund     TransactionType = "refund"
)

// TransactionTypes holds all the supported transaction types.
var TransactionTypes = []TransactionType{
	TypePurchase,
	TypeTopup,
	TypeWithdrawal,
	TypeRefund,
}

// IsSupported reports whether t is a known transaction type.
func (t TransactionType) IsSupported() bool {
	switch t {
	case TypePurchase, TypeTopup, TypeWithdrawal, TypeRefund:
		return true
	default:
		return false
	}
}

// IsCredit reports whether the type must carry a positive amount.
func (t TransactionType) IsCredit() bool {
	return t == TypeTopup || t == TypeRefund
}

// IsDebit reports whether the type must carry a negative amount.
func (t TransactionType) IsDebit() bool {
	return t == TypePurchase || t == TypeWithdrawal
}

// Transaction is an immutable record of a money movement. Only Status changes after creation.
type Transaction struct {
	ID                    uuid.UUID       `json:"id"`
	AccountID             uuid.UUID       `json:"account_id"`
	Amount                decimal.Decimal `json:"amount"` // signed, the sign encodes direction
	Currency              string          `json:"currency"`
	MerchantName          string          `json:"merchant_name"`
	MerchantCategory      string          `json:"merchant_category"`
	Type                  TransactionType `json:"type"`
	Status                Status          `json:"status"`
	IdempotencyKey        string          `json:"-"`
	FraudScore            int32           `json:"-"`
	OriginalTransactionID uuid.NullUUID   `json:"original_transaction_id,omitempty"`
	CreatedAt             time.Time       `json:"created_at"`
}

// CreateTransactionParams is the input data to persist a transaction row.
type CreateTransactionParams struct {
	AccountID             uuid.UUID
	Amount                decimal.Decimal
	Currency              string
	MerchantName          string
	MerchantCategory      string
	Type                  TransactionType
	Status                Status
	IdempotencyKey        string
	OriginalTransactionID uuid.NullUUID
}

// TransactionResult is the result of processing a transaction request.
type TransactionResult struct {
	Transaction Transaction `json:"transaction"`
	// Replayed is set when the request repeated an earlier idempotency key.
	Replayed bool `json:"-"`
}

// ProcessTransactionParams is the caller-facing request to move money on an account.
type ProcessTransactionParams struct {
	AccountID             uuid.UUID
	Amount                decimal.Decimal
	Currency              string
	MerchantName          string
	MerchantCategory      string
	Type                  TransactionType
	IdempotencyKey        string
	OriginalTransactionID uuid.NullUUID
}
