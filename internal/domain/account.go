// Package domain provides defenitions of all entities.
package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	// ErrAccountNotFound indicates that the account is not found.
	ErrAccountNotFound = errors.New("account not found")
	// ErrAccountClosed indicates that the account is closed and cannot transact.
	ErrAccountClosed = errors.New("account is closed")
	// ErrAccountSuspended indicates that the account is suspended and cannot transact.
	ErrAccountSuspended = errors.New("account is suspended")
	// ErrAccountNotActive indicates that the account is in a status other than active.
	ErrAccountNotActive = errors.New("account must be active")
)

// AccountStatus is the lifecycle status of an account.
type AccountStatus string

// Account statuses.
const (
	AccountStatusActive    AccountStatus = "active"
	AccountStatusSuspended AccountStatus = "suspended"
	AccountStatusClosed    AccountStatus = "closed"
)

// Account holds user balance data in the settlement currency.
type Account struct {
	ID        uuid.UUID       `json:"id"`
	Owner     string          `json:"owner"`
	Balance   decimal.Decimal `json:"balance"`
	Currency  string          `json:"currency"`
	Status    AccountStatus   `json:"status"`
	CreatedAt time.Time       `json:"created_at"`
}

// CreateAccountParams is the input data to create an account.
type CreateAccountParams struct {
	Owner    string
	Balance  decimal.Decimal
	Currency string
	Status   AccountStatus
}
