// Package transactionservice manages business logic layer of wallet transactions.
package transactionservice

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/go-petr/wallet-ledger/internal/domain"
	"github.com/go-petr/wallet-ledger/pkg/errorspkg"
)

// AccountRepo provides account data access needed by the transaction service.
//
//go:generate mockgen -source service.go -destination service_mock.go -package transactionservice
type AccountRepo interface {
	Get(ctx context.Context, id uuid.UUID) (domain.Account, error)
	GetForUpdate(ctx context.Context, id uuid.UUID) (domain.Account, error)
	UpdateBalance(ctx context.Context, id uuid.UUID, balance decimal.Decimal) (domain.Account, error)
}

// TransactionRepo provides transaction data access needed by the transaction service.
type TransactionRepo interface {
	Get(ctx context.Context, id uuid.UUID) (domain.Transaction, error)
	Create(ctx context.Context, arg domain.CreateTransactionParams) (domain.Transaction, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.Status) (domain.Transaction, error)
	ListByAccount(ctx context.Context, accountID uuid.UUID, limit, offset int32) ([]domain.Transaction, error)
	SumPendingPurchases(ctx context.Context, accountID uuid.UUID) (map[string]decimal.Decimal, error)
	FindByIdempotencyKey(ctx context.Context, accountID uuid.UUID, key string, window time.Duration) (domain.Transaction, error)
}

// UnitOfWork is a single database transaction. Repositories it returns share that transaction.
//
// Rollback after a successful Commit is a no-op, so callers may always defer it.
type UnitOfWork interface {
	Accounts() AccountRepo
	Transactions() TransactionRepo
	Commit() error
	Rollback() error
}

// Store gives access to repositories outside of a transaction and starts units of work.
type Store interface {
	Accounts() AccountRepo
	Transactions() TransactionRepo
	Begin(ctx context.Context) (UnitOfWork, error)
}

// IdempotencyCache remembers recently committed transactions by account and idempotency key.
type IdempotencyCache interface {
	Get(ctx context.Context, accountID uuid.UUID, key string) (domain.Transaction, bool, error)
	Set(ctx context.Context, t domain.Transaction, ttl time.Duration) error
}

// Converter converts amounts into the settlement currency.
type Converter interface {
	ToSettlement(amount decimal.Decimal, currency string) (decimal.Decimal, error)
}

// Config holds the tunables of the transaction service.
type Config struct {
	IdempotencyWindow time.Duration
	MinAmount         decimal.Decimal
	MaxAmount         decimal.Decimal
	BalanceMode       BalanceMode
}

// Service facilitates transaction service layer logic.
type Service struct {
	store      Store
	validator  *AmountValidator
	calculator *BalanceCalculator
	guard      *IdempotencyGuard
}

// New returns transaction service struct to manage wallet transactions.
//
// cache may be nil, in which case duplicates are looked up in the store only.
func New(store Store, converter Converter, cache IdempotencyCache, config Config) *Service {
	return &Service{
		store:      store,
		validator:  NewAmountValidator(converter, config.MinAmount, config.MaxAmount),
		calculator: NewBalanceCalculator(converter, config.BalanceMode),
		guard:      NewIdempotencyGuard(store.Transactions(), cache, config.IdempotencyWindow),
	}
}

// Process validates the requested money movement and applies it to the account balance
// within a single unit of work.
//
// A request repeating the idempotency key of a transaction committed within the idempotency
// window returns that transaction unchanged with Replayed set.
func (s *Service) Process(ctx context.Context, arg domain.ProcessTransactionParams) (domain.TransactionResult, error) {
	l := zerolog.Ctx(ctx).With().
		Str("account_id", arg.AccountID.String()).
		Str("idempotency_key", arg.IdempotencyKey).
		Logger()
	ctx = l.WithContext(ctx)

	if arg.IdempotencyKey == "" {
		return domain.TransactionResult{}, domain.ErrMissingIdempotencyKey
	}

	account, err := s.store.Accounts().Get(ctx, arg.AccountID)
	if err != nil {
		return domain.TransactionResult{}, err
	}

	dup, ok, err := s.guard.FindDuplicate(ctx, arg.AccountID, arg.IdempotencyKey)
	if err != nil {
		return domain.TransactionResult{}, err
	}

	if ok {
		l.Info().Str("transaction_id", dup.ID.String()).Msg("duplicate request, returning original transaction")
		return domain.TransactionResult{Transaction: dup, Replayed: true}, nil
	}

	if err := ValidateCanTransact(account); err != nil {
		l.Info().Err(err).Send()
		return domain.TransactionResult{}, err
	}

	if err := s.validator.ValidateAmount(arg.Amount, arg.Currency, arg.Type); err != nil {
		l.Info().Err(err).Send()
		return domain.TransactionResult{}, err
	}

	result, err := s.apply(ctx, arg)
	if err != nil {
		return domain.TransactionResult{}, err
	}

	if !result.Replayed {
		s.guard.Remember(ctx, result.Transaction)
	}

	return result, nil
}

// apply runs the locked part of Process. Every exit path before Commit rolls the unit back.
func (s *Service) apply(ctx context.Context, arg domain.ProcessTransactionParams) (domain.TransactionResult, error) {
	l := zerolog.Ctx(ctx)

	uow, err := s.store.Begin(ctx)
	if err != nil {
		return domain.TransactionResult{}, err
	}

	defer func() {
		if err := uow.Rollback(); err != nil {
			l.Error().Err(err).Msg("rollback failed")
		}
	}()

	account, err := uow.Accounts().GetForUpdate(ctx, arg.AccountID)
	if err != nil {
		return domain.TransactionResult{}, err
	}

	// A concurrent request with the same key may have committed while we waited for the lock.
	dup, ok, err := s.guard.FindCommitted(ctx, uow.Transactions(), arg.AccountID, arg.IdempotencyKey)
	if err != nil {
		return domain.TransactionResult{}, err
	}

	if ok {
		l.Info().Str("transaction_id", dup.ID.String()).Msg("duplicate request committed concurrently")
		return domain.TransactionResult{Transaction: dup, Replayed: true}, nil
	}

	// Status may have changed between the unlocked read and the lock.
	if err := ValidateCanTransact(account); err != nil {
		l.Info().Err(err).Send()
		return domain.TransactionResult{}, err
	}

	if arg.OriginalTransactionID.Valid {
		original, err := uow.Transactions().Get(ctx, arg.OriginalTransactionID.UUID)
		if err != nil {
			return domain.TransactionResult{}, err
		}

		if original.AccountID != account.ID {
			l.Info().Str("original_transaction_id", original.ID.String()).Msg("original transaction belongs to another account")
			return domain.TransactionResult{}, domain.ErrTransactionNotFound
		}
	}

	pending, err := uow.Transactions().SumPendingPurchases(ctx, account.ID)
	if err != nil {
		return domain.TransactionResult{}, err
	}

	exposure, err := s.calculator.PendingExposure(pending)
	if err != nil {
		l.Error().Err(err).Msg("cannot convert pending purchases")
		return domain.TransactionResult{}, errorspkg.ErrInternal
	}

	newBalance, err := s.calculator.ComputeNewBalance(account, exposure, arg.Amount, arg.Currency, arg.Type)
	if err != nil {
		l.Info().Err(err).Str("pending_exposure", exposure.String()).Send()
		return domain.TransactionResult{}, err
	}

	t, err := uow.Transactions().Create(ctx, domain.CreateTransactionParams{
		AccountID:             account.ID,
		Amount:                arg.Amount,
		Currency:              arg.Currency,
		MerchantName:          arg.MerchantName,
		MerchantCategory:      arg.MerchantCategory,
		Type:                  arg.Type,
		Status:                domain.StatusPending,
		IdempotencyKey:        arg.IdempotencyKey,
		OriginalTransactionID: arg.OriginalTransactionID,
	})
	if err != nil {
		return domain.TransactionResult{}, err
	}

	if err := domain.Transition(&t, domain.StatusCompleted); err != nil {
		l.Error().Err(err).Str("transaction_id", t.ID.String()).Send()
		return domain.TransactionResult{}, err
	}

	t, err = uow.Transactions().UpdateStatus(ctx, t.ID, t.Status)
	if err != nil {
		return domain.TransactionResult{}, err
	}

	if _, err := uow.Accounts().UpdateBalance(ctx, account.ID, newBalance); err != nil {
		return domain.TransactionResult{}, err
	}

	if err := uow.Commit(); err != nil {
		l.Error().Err(err).Msg("commit failed")
		return domain.TransactionResult{}, errorspkg.ErrInternal
	}

	l.Info().
		Str("transaction_id", t.ID.String()).
		Str("type", string(t.Type)).
		Str("balance_before", account.Balance.String()).
		Str("balance_after", newBalance.String()).
		Msg("transaction completed")

	return domain.TransactionResult{Transaction: t}, nil
}

// Get returns the transaction with the given id.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (domain.Transaction, error) {
	return s.store.Transactions().Get(ctx, id)
}

// ListByAccount returns a page of the account's transactions, newest first.
func (s *Service) ListByAccount(ctx context.Context, accountID uuid.UUID, pageSize, pageID int32) ([]domain.Transaction, error) {
	if _, err := s.store.Accounts().Get(ctx, accountID); err != nil {
		return nil, err
	}

	limit := pageSize
	offset := (pageID - 1) * pageSize

	return s.store.Transactions().ListByAccount(ctx, accountID, limit, offset)
}
