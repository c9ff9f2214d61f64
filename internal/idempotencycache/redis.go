// Package idempotencycache keeps recently committed transactions in Redis keyed by
// account and idempotency key.
package idempotencycache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/go-petr/wallet-ledger/internal/domain"
)

// DefaultKeyPrefix is used when no prefix is configured.
const DefaultKeyPrefix = "wallet:idempotency"

// RedisCache stores transactions as JSON with a TTL.
type RedisCache struct {
	client redis.UniversalClient
	prefix string
}

// NewRedisCache returns RedisCache. Keys are "<prefix>:<account id>:<idempotency key>".
func NewRedisCache(client redis.UniversalClient, prefix string) *RedisCache {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}

	return &RedisCache{
		client: client,
		prefix: prefix,
	}
}

// record mirrors domain.Transaction including the fields hidden from API responses.
type record struct {
	ID                    uuid.UUID              `json:"id"`
	AccountID             uuid.UUID              `json:"account_id"`
	Amount                decimal.Decimal        `json:"amount"`
	Currency              string                 `json:"currency"`
	MerchantName          string                 `json:"merchant_name"`
	MerchantCategory      string                 `json:"merchant_category"`
	Type                  domain.TransactionType `json:"type"`
	Status                domain.Status          `json:"status"`
	IdempotencyKey        string                 `json:"idempotency_key"`
	FraudScore            int32                  `json:"fraud_score"`
	OriginalTransactionID uuid.NullUUID          `json:"original_transaction_id"`
	CreatedAt             time.Time              `json:"created_at"`
}

func (c *RedisCache) key(accountID uuid.UUID, idempotencyKey string) string {
	return fmt.Sprintf("%s:%s:%s", c.prefix, accountID, idempotencyKey)
}

// Get returns the cached transaction. Missing keys are reported with ok set to false.
func (c *RedisCache) Get(ctx context.Context, accountID uuid.UUID, idempotencyKey string) (domain.Transaction, bool, error) {
	val, err := c.client.Get(ctx, c.key(accountID, idempotencyKey)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Transaction{}, false, nil
	}

	if err != nil {
		return domain.Transaction{}, false, fmt.Errorf("redis get: %w", err)
	}

	var r record
	if err := json.Unmarshal(val, &r); err != nil {
		return domain.Transaction{}, false, fmt.Errorf("decode cached transaction: %w", err)
	}

	return domain.Transaction(r), true, nil
}

// Set stores the transaction under its account and idempotency key for ttl.
func (c *RedisCache) Set(ctx context.Context, t domain.Transaction, ttl time.Duration) error {
	if t.IdempotencyKey == "" {
		return nil
	}

	val, err := json.Marshal(record(t))
	if err != nil {
		return fmt.Errorf("encode transaction: %w", err)
	}

	if err := c.client.Set(ctx, c.key(t.AccountID, t.IdempotencyKey), val, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}

	return nil
}
