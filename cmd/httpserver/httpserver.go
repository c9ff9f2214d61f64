// Package httpserver manages server creation and api routing.
package httpserver

import (
	"database/sql"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/go-petr/wallet-ledger/internal/accountdelivery"
	"github.com/go-petr/wallet-ledger/internal/accountrepo"
	"github.com/go-petr/wallet-ledger/internal/accountservice"
	"github.com/go-petr/wallet-ledger/internal/idempotencycache"
	"github.com/go-petr/wallet-ledger/internal/middleware"
	"github.com/go-petr/wallet-ledger/internal/transactiondelivery"
	"github.com/go-petr/wallet-ledger/internal/transactionservice"
	"github.com/go-petr/wallet-ledger/internal/unitofwork"
	"github.com/go-petr/wallet-ledger/pkg/configpkg"
	"github.com/go-petr/wallet-ledger/pkg/currencypkg"
)

// Server holds db connection, handlers router and configuration.
type Server struct {
	DB     *sql.DB
	Redis  *redis.Client // nil when the idempotency cache is disabled
	Engine *gin.Engine
	Config configpkg.Config
}

// ServeHTTP implements the http.Handler interface for the Server type.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Engine.ServeHTTP(w, r)
}

// Close releases the Redis client. The database connection is owned by the caller.
func (s *Server) Close() error {
	if s.Redis == nil {
		return nil
	}

	return s.Redis.Close()
}

// New creates Server type with instantiated domains and routes.
func New(conn *sql.DB, logger zerolog.Logger, config configpkg.Config) (*Server, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	rates, err := currencypkg.ParseRates(config.FXRates)
	if err != nil {
		return nil, fmt.Errorf("cannot parse rates: %w", err)
	}

	converter, err := currencypkg.NewConverter(config.SettlementCurrency, rates)
	if err != nil {
		return nil, fmt.Errorf("cannot create converter: %w", err)
	}

	server := &Server{
		DB:     conn,
		Config: config,
	}

	var cache transactionservice.IdempotencyCache

	if config.RedisAddr != "" {
		server.Redis = redis.NewClient(&redis.Options{
			Addr:     config.RedisAddr,
			Password: config.RedisPassword,
			DB:       config.RedisDB,
		})
		cache = idempotencycache.NewRedisCache(server.Redis, config.RedisKeyPrefix)
	}

	minAmount, maxAmount := config.Limits()

	store := unitofwork.NewStorePGS(conn)
	accountRepo := accountrepo.NewRepoPGS(conn)

	accountService := accountservice.New(accountRepo, converter.Settlement())
	transactionService := transactionservice.New(store, converter, cache, transactionservice.Config{
		IdempotencyWindow: config.IdempotencyWindow,
		MinAmount:         minAmount,
		MaxAmount:         maxAmount,
		BalanceMode:       transactionservice.BalanceMode(config.BalanceMode),
	})

	accountHandler := accountdelivery.NewHandler(accountService)
	transactionHandler := transactiondelivery.NewHandler(transactionService)

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		validators := map[string]validator.Func{
			"currency": transactiondelivery.NewValidCurrency(converter.IsSupported),
			"txtype":   transactiondelivery.ValidTransactionType,
			"amount":   transactiondelivery.ValidAmount,
		}

		for tag, fn := range validators {
			if err := v.RegisterValidation(tag, fn); err != nil {
				return nil, fmt.Errorf("cannot register %s validator: %w", tag, err)
			}
		}
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	// RequestLogger also recovers panics, so gin.Recovery is not installed.
	engine.Use(middleware.RequestLogger(logger))

	engine.POST("/accounts", accountHandler.Create)
	engine.GET("/accounts/:id", accountHandler.Get)
	engine.GET("/accounts/:id/transactions", transactionHandler.ListByAccount)

	engine.POST("/transactions", transactionHandler.Create)
	engine.GET("/transactions/:id", transactionHandler.Get)

	server.Engine = engine

	return server, nil
}
