package transactionservice

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/go-petr/wallet-ledger/internal/domain"
	"github.com/go-petr/wallet-ledger/pkg/errorspkg"
)

func TestIdempotencyGuard(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	window := 5 * time.Minute
	accountID := uuid.New()
	key := "key-1"

	fresh := domain.Transaction{ID: uuid.New(), AccountID: accountID, IdempotencyKey: key, CreatedAt: now.Add(-time.Minute)}
	stale := domain.Transaction{ID: uuid.New(), AccountID: accountID, IdempotencyKey: key, CreatedAt: now.Add(-10 * time.Minute)}

	testCases := []struct {
		name          string
		buildStubs    func(repo *MockTransactionRepo, cache *MockIdempotencyCache)
		checkResponse func(t *testing.T, res domain.Transaction, ok bool, err error)
	}{
		{
			name: "Cache hit",
			buildStubs: func(repo *MockTransactionRepo, cache *MockIdempotencyCache) {
				cache.EXPECT().Get(gomock.Any(), accountID, key).Times(1).Return(fresh, true, nil)
				repo.EXPECT().FindByIdempotencyKey(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(t *testing.T, res domain.Transaction, ok bool, err error) {
				require.NoError(t, err)
				require.True(t, ok)
				require.Equal(t, fresh, res)
			},
		},
		{
			name: "Stale cache entry falls through",
			buildStubs: func(repo *MockTransactionRepo, cache *MockIdempotencyCache) {
				cache.EXPECT().Get(gomock.Any(), accountID, key).Times(1).Return(stale, true, nil)
				repo.EXPECT().FindByIdempotencyKey(gomock.Any(), accountID, key, window).
					Times(1).
					Return(domain.Transaction{}, domain.ErrTransactionNotFound)
			},
			checkResponse: func(t *testing.T, res domain.Transaction, ok bool, err error) {
				require.NoError(t, err)
				require.False(t, ok)
				require.Empty(t, res)
			},
		},
		{
			name: "Repository hit",
			buildStubs: func(repo *MockTransactionRepo, cache *MockIdempotencyCache) {
				cache.EXPECT().Get(gomock.Any(), accountID, key).Times(1).Return(domain.Transaction{}, false, nil)
				repo.EXPECT().FindByIdempotencyKey(gomock.Any(), accountID, key, window).Times(1).Return(fresh, nil)
			},
			checkResponse: func(t *testing.T, res domain.Transaction, ok bool, err error) {
				require.NoError(t, err)
				require.True(t, ok)
				require.Equal(t, fresh, res)
			},
		},
		{
			name: "Cache error falls through",
			buildStubs: func(repo *MockTransactionRepo, cache *MockIdempotencyCache) {
				cache.EXPECT().Get(gomock.Any(), accountID, key).Times(1).Return(domain.Transaction{}, false, errors.New("timeout"))
				repo.EXPECT().FindByIdempotencyKey(gomock.Any(), accountID, key, gomock.Any()).Times(1).Return(fresh, nil)
			},
			checkResponse: func(t *testing.T, res domain.Transaction, ok bool, err error) {
				require.NoError(t, err)
				require.True(t, ok)
			},
		},
		{
			name: "Repository error",
			buildStubs: func(repo *MockTransactionRepo, cache *MockIdempotencyCache) {
				cache.EXPECT().Get(gomock.Any(), accountID, key).Times(1).Return(domain.Transaction{}, false, nil)
				repo.EXPECT().FindByIdempotencyKey(gomock.Any(), accountID, key, gomock.Any()).
					Times(1).
					Return(domain.Transaction{}, errorspkg.ErrInternal)
			},
			checkResponse: func(t *testing.T, res domain.Transaction, ok bool, err error) {
				require.ErrorIs(t, err, errorspkg.ErrInternal)
				require.False(t, ok)
			},
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := NewMockTransactionRepo(ctrl)
			cache := NewMockIdempotencyCache(ctrl)
			tc.buildStubs(repo, cache)

			g := NewIdempotencyGuard(repo, cache, window)
			g.now = func() time.Time { return now }

			res, ok, err := g.FindDuplicate(context.Background(), accountID, key)
			tc.checkResponse(t, res, ok, err)
		})
	}
}

func TestIdempotencyGuardRemember(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	cache := NewMockIdempotencyCache(ctrl)

	g := NewIdempotencyGuard(NewMockTransactionRepo(ctrl), cache, 5*time.Minute)
	g.now = func() time.Time { return now }

	recent := domain.Transaction{ID: uuid.New(), CreatedAt: now.Add(-2 * time.Minute)}
	expired := domain.Transaction{ID: uuid.New(), CreatedAt: now.Add(-6 * time.Minute)}

	cache.EXPECT().Set(gomock.Any(), recent, 3*time.Minute).Times(1).Return(nil)
	cache.EXPECT().Set(gomock.Any(), expired, gomock.Any()).Times(0)

	g.Remember(context.Background(), recent)
	g.Remember(context.Background(), expired)
}

func TestIdempotencyGuardDefaultWindow(t *testing.T) {
	t.Parallel()

	g := NewIdempotencyGuard(nil, nil, 0)
	require.Equal(t, DefaultIdempotencyWindow, g.window)

	// Without a cache Remember is a no-op.
	g.Remember(context.Background(), domain.Transaction{CreatedAt: time.Now()})
}
