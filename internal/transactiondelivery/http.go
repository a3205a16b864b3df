// Package transactiondelivery manages delivery layer of the transaction ledger.
package transactiondelivery

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/octacity/octa-bank/internal/domain"
	"github.com/octacity/octa-bank/internal/middleware"
	"github.com/octacity/octa-bank/pkg/errorspkg"
	"github.com/octacity/octa-bank/pkg/web"
)

// Service provides service layer interface needed by transaction delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package transactiondelivery
type Service interface {
	RecordTransaction(ctx context.Context, arg domain.CreateTransactionParams) (domain.TransactionResult, error)
	TransitionStatus(ctx context.Context, id int64, newStatus string) (domain.Transaction, error)
	ListForAccount(ctx context.Context, principal domain.Principal, userID string) ([]domain.Transaction, error)
	ListAll(ctx context.Context, principal domain.Principal) ([]domain.TransactionWithUser, error)
}

// Handler facilitates transaction delivery layer logic.
type Handler struct {
	service Service
}

// NewHandler returns transaction handler.
func NewHandler(ts Service) *Handler {
	return &Handler{service: ts}
}

// List handles http request to list ledger entries. Admins without a
// userId filter get the ledger across all accounts.
func (h *Handler) List(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	principal := middleware.Principal(gctx)
	userID := gctx.Query("userId")

	if principal.IsAdmin() && userID == "" {
		transactions, err := h.service.ListAll(ctx, principal)
		if err != nil {
			gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))
			return
		}

		res := web.Response{
			Data: struct {
				Transactions []domain.TransactionWithUser `json:"transactions"`
			}{transactions},
		}

		gctx.JSON(http.StatusOK, res)

		return
	}

	transactions, err := h.service.ListForAccount(ctx, principal, userID)
	if err != nil {
		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))
		return
	}

	res := web.Response{
		Data: struct {
			Transactions []domain.Transaction `json:"transactions"`
		}{transactions},
	}

	gctx.JSON(http.StatusOK, res)
}

type createRequest struct {
	UserID       string     `json:"userId" binding:"required"`
	Type         string     `json:"type" binding:"required"`
	Amount       string     `json:"amount" binding:"required"`
	Currency     string     `json:"currency" binding:"omitempty,currency"`
	Status       string     `json:"status"`
	Description  string     `json:"description"`
	SenderName   string     `json:"senderName"`
	ReceiverName string     `json:"receiverName"`
	EffectiveAt  *time.Time `json:"transactionDate"`
	// UpdateBalance defaults to true when absent.
	UpdateBalance *bool `json:"updateBalance"`
}

// Create handles http request to record a ledger entry.
func (h *Handler) Create(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req createRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		l.Info().Err(err).Send()

		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			gctx.JSON(http.StatusBadRequest, web.Response{Error: web.GetErrorMsg(ve)})
			return
		}

		gctx.JSON(http.StatusBadRequest, web.Error(err))

		return
	}

	applyBalance := true
	if req.UpdateBalance != nil {
		applyBalance = *req.UpdateBalance
	}

	arg := domain.CreateTransactionParams{
		UserID:       req.UserID,
		Type:         req.Type,
		Amount:       req.Amount,
		Currency:     req.Currency,
		Status:       req.Status,
		Description:  req.Description,
		SenderName:   req.SenderName,
		ReceiverName: req.ReceiverName,
		EffectiveAt:  req.EffectiveAt,
		ApplyBalance: applyBalance,
	}

	result, err := h.service.RecordTransaction(ctx, arg)
	if err != nil {
		switch err {
		case domain.ErrInvalidAmount, domain.ErrInvalidTransactionType, domain.ErrInvalidTransactionStatus:
			gctx.JSON(http.StatusBadRequest, web.Error(err))
			return
		case domain.ErrUserNotFound:
			gctx.JSON(http.StatusNotFound, web.Error(err))
			return
		}

		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	res := web.Response{Data: result}

	gctx.JSON(http.StatusCreated, res)
}

type updateRequest struct {
	TransactionID int64  `json:"transactionId" binding:"required"`
	Status        string `json:"status" binding:"required"`
}

// Update handles http request to transition a ledger entry's status.
func (h *Handler) Update(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req updateRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		l.Info().Err(err).Send()

		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			gctx.JSON(http.StatusBadRequest, web.Response{Error: web.GetErrorMsg(ve)})
			return
		}

		gctx.JSON(http.StatusBadRequest, web.Error(err))

		return
	}

	transaction, err := h.service.TransitionStatus(ctx, req.TransactionID, req.Status)
	if err != nil {
		switch err {
		case domain.ErrInvalidTransactionStatus, domain.ErrInvalidAmount:
			gctx.JSON(http.StatusBadRequest, web.Error(err))
			return
		case domain.ErrTransactionNotFound:
			gctx.JSON(http.StatusNotFound, web.Error(err))
			return
		case domain.ErrUserNotFound:
			gctx.JSON(http.StatusNotFound, web.Error(err))
			return
		}

		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	res := web.Response{
		Data: struct {
			Transaction domain.Transaction `json:"transaction"`
		}{transaction},
	}

	gctx.JSON(http.StatusOK, res)
}
