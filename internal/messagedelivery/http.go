// Package messagedelivery manages delivery layer of conversation threads.
package messagedelivery

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/octacity/octa-bank/internal/domain"
	"github.com/octacity/octa-bank/internal/middleware"
	"github.com/octacity/octa-bank/pkg/errorspkg"
	"github.com/octacity/octa-bank/pkg/web"
)

// Service provides service layer interface needed by message delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package messagedelivery
type Service interface {
	Send(ctx context.Context, principal domain.Principal, receiverID, content string) (domain.Message, error)
	ListThread(ctx context.Context, principal domain.Principal, userID string) ([]domain.Message, error)
	MarkRead(ctx context.Context, principal domain.Principal, userID string) (int64, error)
	ListThreadSummaries(ctx context.Context, principal domain.Principal) ([]domain.ThreadSummary, error)
}

// Handler facilitates message delivery layer logic.
type Handler struct {
	service Service
}

// NewHandler returns message handler.
func NewHandler(ms Service) *Handler {
	return &Handler{service: ms}
}

// List handles http request to read a thread. Admins without a userId
// filter get the per-thread summaries instead.
func (h *Handler) List(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	principal := middleware.Principal(gctx)
	userID := gctx.Query("userId")

	if principal.IsAdmin() && userID == "" {
		threads, err := h.service.ListThreadSummaries(ctx, principal)
		if err != nil {
			gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))
			return
		}

		res := web.Response{
			Data: struct {
				Threads []domain.ThreadSummary `json:"threads"`
			}{threads},
		}

		gctx.JSON(http.StatusOK, res)

		return
	}

	messages, err := h.service.ListThread(ctx, principal, userID)
	if err != nil {
		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))
		return
	}

	res := web.Response{
		Data: struct {
			Messages []domain.Message `json:"messages"`
		}{messages},
	}

	gctx.JSON(http.StatusOK, res)
}

type sendRequest struct {
	Content    string `json:"content" binding:"required"`
	ReceiverID string `json:"receiverId"`
}

// Send handles http request to append a message.
func (h *Handler) Send(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req sendRequest
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

	message, err := h.service.Send(ctx, middleware.Principal(gctx), req.ReceiverID, req.Content)
	if err != nil {
		switch err {
		case domain.ErrEmptyMessageContent:
			gctx.JSON(http.StatusBadRequest, web.Error(err))
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
			Message domain.Message `json:"message"`
		}{message},
	}

	gctx.JSON(http.StatusCreated, res)
}

type markReadRequest struct {
	UserID string `json:"userId"`
}

// MarkRead handles http request to flip unread messages to read.
func (h *Handler) MarkRead(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	// The body is optional: a user marking their own thread sends nothing.
	var req markReadRequest
	if err := gctx.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Error(err))

		return
	}

	updated, err := h.service.MarkRead(ctx, middleware.Principal(gctx), req.UserID)
	if err != nil {
		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))
		return
	}

	res := web.Response{
		Data: struct {
			Updated int64 `json:"updated"`
		}{updated},
	}

	gctx.JSON(http.StatusOK, res)
}
