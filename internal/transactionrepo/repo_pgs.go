// Package transactionrepo manages repository layer of transactions.
package transactionrepo

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/go-petr/wallet-ledger/internal/domain"
	"github.com/go-petr/wallet-ledger/pkg/dbpkg"
	"github.com/go-petr/wallet-ledger/pkg/errorspkg"
)

// RepoPGS facilitates transaction repository layer logic.
type RepoPGS struct {
	db dbpkg.SQLInterface
}

// NewRepoPGS returns transaction RepoPGS.
func NewRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{
		db: db,
	}
}

const columns = `id, account_id, amount, currency, merchant_name, merchant_category,
	type, status, idempotency_key, fraud_score, original_transaction_id, created_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row scanner) (domain.Transaction, error) {
	var t domain.Transaction

	err := row.Scan(
		&t.ID,
		&t.AccountID,
		&t.Amount,
		&t.Currency,
		&t.MerchantName,
		&t.MerchantCategory,
		&t.Type,
		&t.Status,
		&t.IdempotencyKey,
		&t.FraudScore,
		&t.OriginalTransactionID,
		&t.CreatedAt,
	)

	return t, err
}

const createQuery = `
INSERT INTO
    transactions (id, account_id, amount, currency, merchant_name, merchant_category,
                  type, status, idempotency_key, original_transaction_id)
VALUES
    ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
RETURNING ` + columns

// Create creates the transaction with a freshly generated id and then returns it.
func (r *RepoPGS) Create(ctx context.Context, arg domain.CreateTransactionParams) (domain.Transaction, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, createQuery,
		uuid.New(),
		arg.AccountID,
		arg.Amount,
		arg.Currency,
		arg.MerchantName,
		arg.MerchantCategory,
		arg.Type,
		arg.Status,
		arg.IdempotencyKey,
		arg.OriginalTransactionID,
	)

	t, err := scanTransaction(row)
	if err != nil {
		l.Error().Err(err).Msgf("Create(ctx context.Context, %+v)", arg)

		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			switch pqErr.Constraint {
			case "transactions_account_id_fkey":
				return t, domain.ErrAccountNotFound
			case "transactions_original_transaction_id_fkey":
				return t, domain.ErrTransactionNotFound
			case "transactions_amount_check":
				return t, domain.ErrInvalidAmount
			}
		}

		return t, errorspkg.ErrInternal
	}

	return t, nil
}

const getQuery = `
SELECT ` + columns + `
FROM transactions
WHERE id = $1
`

// Get returns the transaction with the given id.
func (r *RepoPGS) Get(ctx context.Context, id uuid.UUID) (domain.Transaction, error) {
	l := zerolog.Ctx(ctx)

	t, err := scanTransaction(r.db.QueryRowContext(ctx, getQuery, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			l.Info().Err(err).Str("transaction_id", id.String()).Send()
			return t, domain.ErrTransactionNotFound
		}

		l.Error().Err(err).Send()

		return t, errorspkg.ErrInternal
	}

	return t, nil
}

const updateStatusQuery = `
UPDATE transactions
SET status = $1
WHERE id = $2
RETURNING ` + columns

// UpdateStatus persists the transaction status. The legality of the move is checked by the caller.
func (r *RepoPGS) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.Status) (domain.Transaction, error) {
	l := zerolog.Ctx(ctx)

	t, err := scanTransaction(r.db.QueryRowContext(ctx, updateStatusQuery, status, id))
	if err != nil {
		l.Error().Err(err).Str("transaction_id", id.String()).Str("status", string(status)).Send()

		if errors.Is(err, sql.ErrNoRows) {
			return t, domain.ErrTransactionNotFound
		}

		return t, errorspkg.ErrInternal
	}

	return t, nil
}

const listByAccountQuery = `
SELECT ` + columns + `
FROM transactions
WHERE account_id = $1
ORDER BY created_at DESC, id
LIMIT $2 OFFSET $3
`

// ListByAccount returns the specified number of transactions of the account, newest first.
func (r *RepoPGS) ListByAccount(ctx context.Context, accountID uuid.UUID, limit, offset int32) ([]domain.Transaction, error) {
	l := zerolog.Ctx(ctx)

	rows, err := r.db.QueryContext(ctx, listByAccountQuery, accountID, limit, offset)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}
	defer rows.Close()

	items := []domain.Transaction{}

	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			l.Error().Err(err).Send()
			return nil, errorspkg.ErrInternal
		}

		items = append(items, t)
	}

	if err := rows.Close(); err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}

	if err := rows.Err(); err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}

	return items, nil
}

const sumPendingPurchasesQuery = `
SELECT currency, COALESCE(SUM(ABS(amount)), 0)
FROM transactions
WHERE account_id = $1 AND status = 'pending' AND type = 'purchase'
GROUP BY currency
`

// SumPendingPurchases returns the absolute total of the account's pending purchases per currency.
//
// Amounts are kept in their origin currency, conversion is left to the caller.
func (r *RepoPGS) SumPendingPurchases(ctx context.Context, accountID uuid.UUID) (map[string]decimal.Decimal, error) {
	l := zerolog.Ctx(ctx)

	rows, err := r.db.QueryContext(ctx, sumPendingPurchasesQuery, accountID)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}
	defer rows.Close()

	sums := map[string]decimal.Decimal{}

	for rows.Next() {
		var (
			currency string
			sum      decimal.Decimal
		)

		if err := rows.Scan(&currency, &sum); err != nil {
			l.Error().Err(err).Send()
			return nil, errorspkg.ErrInternal
		}

		sums[currency] = sum
	}

	if err := rows.Err(); err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}

	return sums, nil
}

const findByIdempotencyKeyQuery = `
SELECT ` + columns + `
FROM transactions
WHERE account_id = $1 AND idempotency_key = $2 AND created_at >= now() - make_interval(secs => $3)
ORDER BY created_at
LIMIT 1
`

// FindByIdempotencyKey returns the first transaction of the account with the given key
// created within the window before the database's current time.
//
// The window start is computed by Postgres, the same clock that sets created_at.
func (r *RepoPGS) FindByIdempotencyKey(ctx context.Context, accountID uuid.UUID, key string, window time.Duration) (domain.Transaction, error) {
	l := zerolog.Ctx(ctx)

	t, err := scanTransaction(r.db.QueryRowContext(ctx, findByIdempotencyKeyQuery, accountID, key, window.Seconds()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return t, domain.ErrTransactionNotFound
		}

		l.Error().Err(err).Send()

		return t, errorspkg.ErrInternal
	}

	return t, nil
}
