package integrationtest

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/go-petr/wallet-ledger/internal/accountrepo"
	"github.com/go-petr/wallet-ledger/internal/domain"
	"github.com/go-petr/wallet-ledger/internal/transactionrepo"
	"github.com/go-petr/wallet-ledger/pkg/dbpkg"
	"github.com/go-petr/wallet-ledger/pkg/randompkg"
)

// SeedAccount creates an account with a random owner, the given balance in MYR and the given status.
func SeedAccount(t *testing.T, db dbpkg.SQLInterface, balance string, status domain.AccountStatus) domain.Account {
	t.Helper()

	arg := domain.CreateAccountParams{
		Owner:    randompkg.Owner(),
		Balance:  decimal.RequireFromString(balance),
		Currency: "MYR",
		Status:   status,
	}

	account, err := accountrepo.NewRepoPGS(db).Create(context.Background(), arg)
	if err != nil {
		t.Fatalf("accountRepo.Create(context.Background(), %+v) returned error: %v", arg, err)
	}

	return account
}

// SeedTransaction creates a transaction of the account with a random merchant and idempotency key.
func SeedTransaction(
	t *testing.T,
	db dbpkg.SQLInterface,
	accountID uuid.UUID,
	amount, currency string,
	txType domain.TransactionType,
	status domain.Status,
) domain.Transaction {
	t.Helper()

	arg := domain.CreateTransactionParams{
		AccountID:        accountID,
		Amount:           decimal.RequireFromString(amount),
		Currency:         currency,
		MerchantName:     randompkg.Merchant(),
		MerchantCategory: "retail",
		Type:             txType,
		Status:           status,
		IdempotencyKey:   randompkg.IdempotencyKey(),
	}

	transaction, err := transactionrepo.NewRepoPGS(db).Create(context.Background(), arg)
	if err != nil {
		t.Fatalf("transactionRepo.Create(context.Background(), %+v) returned error: %v", arg, err)
	}

	return transaction
}
