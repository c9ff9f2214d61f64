// Package transactiondelivery manages delivery layer of transactions.
package transactiondelivery

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/go-petr/wallet-ledger/internal/domain"
	"github.com/go-petr/wallet-ledger/pkg/errorspkg"
	"github.com/go-petr/wallet-ledger/pkg/web"
)

const (
	// IdempotencyKeyHeader carries the client key that makes a request safe to retry.
	IdempotencyKeyHeader = "Idempotency-Key"
	// ReplayedHeader is set on responses that return an earlier result for a repeated key.
	ReplayedHeader = "Idempotent-Replayed"
)

// Service provides service layer interface needed by transaction delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package transactiondelivery
type Service interface {
	Process(ctx context.Context, arg domain.ProcessTransactionParams) (domain.TransactionResult, error)
	Get(ctx context.Context, id uuid.UUID) (domain.Transaction, error)
	ListByAccount(ctx context.Context, accountID uuid.UUID, pageSize, pageID int32) ([]domain.Transaction, error)
}

// Handler facilitates transaction delivery layer logic.
type Handler struct {
	service Service
}

// NewHandler returns transaction handler.
func NewHandler(ts Service) *Handler {
	return &Handler{
		service: ts,
	}
}

type createRequest struct {
	AccountID             string `json:"account_id" binding:"required,uuid"`
	Amount                string `json:"amount" binding:"required,amount"`
	Currency              string `json:"currency" binding:"required,currency"`
	MerchantName          string `json:"merchant_name" binding:"max=255"`
	MerchantCategory      string `json:"merchant_category" binding:"max=100"`
	Type                  string `json:"type" binding:"required,txtype"`
	OriginalTransactionID string `json:"original_transaction_id" binding:"omitempty,uuid"`
}

type data struct {
	Transaction domain.Transaction `json:"transaction"`
}

type dataTransactions struct {
	Transactions []domain.Transaction `json:"transactions"`
}

// Create handles http request to process a money movement on an account.
func (h *Handler) Create(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	key := gctx.GetHeader(IdempotencyKeyHeader)
	if key == "" {
		l.Info().Err(domain.ErrMissingIdempotencyKey).Send()
		gctx.JSON(http.StatusBadRequest, web.Error(domain.ErrMissingIdempotencyKey))

		return
	}

	var req createRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Response{Error: web.ValidationMessage(err)})

		return
	}

	// Formats were checked by the binding validators.
	arg := domain.ProcessTransactionParams{
		AccountID:        uuid.MustParse(req.AccountID),
		Amount:           decimal.RequireFromString(req.Amount),
		Currency:         req.Currency,
		MerchantName:     req.MerchantName,
		MerchantCategory: req.MerchantCategory,
		Type:             domain.TransactionType(req.Type),
		IdempotencyKey:   key,
	}

	if req.OriginalTransactionID != "" {
		arg.OriginalTransactionID = uuid.NullUUID{UUID: uuid.MustParse(req.OriginalTransactionID), Valid: true}
	}

	result, err := h.service.Process(ctx, arg)
	if err != nil {
		writeError(gctx, err)
		return
	}

	status := http.StatusCreated
	if result.Replayed {
		gctx.Header(ReplayedHeader, "true")

		status = http.StatusOK
	}

	gctx.JSON(status, web.Data(data{result.Transaction}))
}

type getRequest struct {
	ID string `uri:"id" binding:"required,uuid"`
}

// Get handles http request to get transaction.
func (h *Handler) Get(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req getRequest
	if err := gctx.ShouldBindUri(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Response{Error: web.ValidationMessage(err)})

		return
	}

	t, err := h.service.Get(ctx, uuid.MustParse(req.ID))
	if err != nil {
		writeError(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, web.Data(data{t}))
}

type listURI struct {
	ID string `uri:"id" binding:"required,uuid"`
}

type listQuery struct {
	PageID   int32 `form:"page_id" binding:"required,min=1"`
	PageSize int32 `form:"page_size" binding:"required,min=1,max=100"`
}

// ListByAccount handles http request to list transactions of an account.
func (h *Handler) ListByAccount(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var uri listURI
	if err := gctx.ShouldBindUri(&uri); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Response{Error: web.ValidationMessage(err)})

		return
	}

	var query listQuery
	if err := gctx.ShouldBindQuery(&query); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Response{Error: web.ValidationMessage(err)})

		return
	}

	items, err := h.service.ListByAccount(ctx, uuid.MustParse(uri.ID), query.PageSize, query.PageID)
	if err != nil {
		writeError(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, web.Data(dataTransactions{items}))
}

// StatusCode maps a service error to the HTTP status returned to clients.
func StatusCode(err error) int {
	switch domain.Classify(err) {
	case domain.ClassNotFound:
		return http.StatusNotFound
	case domain.ClassValidation, domain.ClassInsufficientFunds:
		return http.StatusBadRequest
	case domain.ClassStateConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeError(gctx *gin.Context, err error) {
	l := zerolog.Ctx(gctx.Request.Context())

	status := StatusCode(err)
	if status == http.StatusInternalServerError {
		l.Error().Err(err).Send()
		gctx.JSON(status, web.Error(errorspkg.ErrInternal))

		return
	}

	l.Info().Err(err).Send()
	gctx.JSON(status, web.Error(err))
}
