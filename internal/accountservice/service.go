// Package accountservice manages business logic layer of accounts.
package accountservice

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/go-petr/wallet-ledger/internal/domain"
)

// Repo provides data access layer interface needed by account service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package accountservice
type Repo interface {
	Create(ctx context.Context, arg domain.CreateAccountParams) (domain.Account, error)
	Get(ctx context.Context, id uuid.UUID) (domain.Account, error)
}

// Service facilitates account service layer logic.
type Service struct {
	repo     Repo
	currency string
}

// New returns account service struct to manage account bussines logic.
// Accounts are held in the settlement currency.
func New(ar Repo, settlementCurrency string) *Service {
	return &Service{
		repo:     ar,
		currency: settlementCurrency,
	}
}

// Create opens an active account with zero balance for the given owner.
func (s *Service) Create(ctx context.Context, owner string) (domain.Account, error) {
	return s.repo.Create(ctx, domain.CreateAccountParams{
		Owner:    owner,
		Balance:  decimal.Zero,
		Currency: s.currency,
		Status:   domain.AccountStatusActive,
	})
}

// Get returns account for the given account ID.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (domain.Account, error) {
	return s.repo.Get(ctx, id)
}
