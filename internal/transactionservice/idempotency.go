package transactionservice

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/go-petr/wallet-ledger/internal/domain"
)

// DefaultIdempotencyWindow is used when no window is configured.
const DefaultIdempotencyWindow = 5 * time.Minute

// IdempotencyGuard detects requests repeating an idempotency key of the same account
// within the window.
type IdempotencyGuard struct {
	repo   TransactionRepo
	cache  IdempotencyCache
	window time.Duration
	now    func() time.Time
}

// NewIdempotencyGuard returns IdempotencyGuard. cache may be nil.
func NewIdempotencyGuard(repo TransactionRepo, cache IdempotencyCache, window time.Duration) *IdempotencyGuard {
	if window <= 0 {
		window = DefaultIdempotencyWindow
	}

	return &IdempotencyGuard{
		repo:   repo,
		cache:  cache,
		window: window,
		now:    time.Now,
	}
}

// FindDuplicate returns the transaction previously created for the key within the window.
//
// The cache is consulted first. Cache failures are logged and fall through to the repository.
func (g *IdempotencyGuard) FindDuplicate(ctx context.Context, accountID uuid.UUID, key string) (domain.Transaction, bool, error) {
	l := zerolog.Ctx(ctx)

	if g.cache != nil {
		t, ok, err := g.cache.Get(ctx, accountID, key)
		switch {
		case err != nil:
			l.Warn().Err(err).Msg("idempotency cache lookup failed")
		case ok && !t.CreatedAt.Before(g.since()):
			return t, true, nil
		}
	}

	return g.FindCommitted(ctx, g.repo, accountID, key)
}

// FindCommitted looks the key up in repo only. Inside a unit of work it sees the rows
// committed before the account lock was taken.
func (g *IdempotencyGuard) FindCommitted(ctx context.Context, repo TransactionRepo, accountID uuid.UUID, key string) (domain.Transaction, bool, error) {
	t, err := repo.FindByIdempotencyKey(ctx, accountID, key, g.window)
	if err != nil {
		if errors.Is(err, domain.ErrTransactionNotFound) {
			return domain.Transaction{}, false, nil
		}

		return domain.Transaction{}, false, err
	}

	return t, true, nil
}

// Remember stores a committed transaction in the cache until its window ends.
func (g *IdempotencyGuard) Remember(ctx context.Context, t domain.Transaction) {
	if g.cache == nil {
		return
	}

	ttl := t.CreatedAt.Add(g.window).Sub(g.now())
	if ttl <= 0 {
		return
	}

	if err := g.cache.Set(ctx, t, ttl); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("transaction_id", t.ID.String()).Msg("idempotency cache store failed")
	}
}

// since is the window start on the local clock. Only cached entries are judged by it, so
// clock skew against the database shifts how long a cache hit is trusted, never the
// repository lookup.
func (g *IdempotencyGuard) since() time.Time {
	return g.now().Add(-g.window)
}
