// Package userdelivery manages delivery layer of users.
package userdelivery

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
	"github.com/octacity/octa-bank/pkg/tokenpkg"
	"github.com/octacity/octa-bank/pkg/web"
)

// Service provides service layer interface needed by user delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package userdelivery
type Service interface {
	Create(ctx context.Context, fullName, email, phone, address, password string) (domain.User, error)
	CheckPassword(ctx context.Context, email, password string) (domain.User, error)
	Get(ctx context.Context, id string) (domain.User, error)
	List(ctx context.Context, principal domain.Principal) ([]domain.User, error)
	Update(ctx context.Context, principal domain.Principal, arg domain.UpdateUserParams) (domain.User, error)
}

// Handler facilitates user delivery layer logic.
type Handler struct {
	service       Service
	tokenMaker    tokenpkg.Maker
	tokenDuration time.Duration
}

// NewHandler returns user handler.
func NewHandler(us Service, tm tokenpkg.Maker, tokenDuration time.Duration) *Handler {
	return &Handler{
		service:       us,
		tokenMaker:    tm,
		tokenDuration: tokenDuration,
	}
}

type registerRequest struct {
	FullName string `json:"fullName" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone" binding:"required"`
	Address  string `json:"address" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
}

// Register handles http request to create a user account.
func (h *Handler) Register(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req registerRequest
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

	createdUser, err := h.service.Create(ctx, req.FullName, req.Email, req.Phone, req.Address, req.Password)
	if err != nil {
		if err == domain.ErrEmailAlreadyExists {
			gctx.JSON(http.StatusConflict, web.Error(err))
			return
		}

		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	res := web.Response{
		Data: struct {
			UserID string `json:"userId"`
		}{createdUser.ID},
	}

	gctx.JSON(http.StatusCreated, res)
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// Login handles http login request, sets the token cookie and returns the user.
func (h *Handler) Login(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req loginRequest
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

	user, err := h.service.CheckPassword(ctx, req.Email, req.Password)
	if err != nil {
		switch err {
		case domain.ErrUserNotFound:
			gctx.JSON(http.StatusNotFound, web.Error(err))
			return
		case domain.ErrWrongPassword:
			gctx.JSON(http.StatusUnauthorized, web.Error(err))
			return
		}

		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	accessToken, payload, err := h.tokenMaker.CreateToken(user.ID, user.Role, h.tokenDuration)
	if err != nil {
		l.Error().Err(err).Send()
		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	middleware.SetTokenCookie(gctx, accessToken, h.tokenDuration)

	res := web.Response{
		AccessToken:          accessToken,
		AccessTokenExpiresAt: payload.ExpiredAt.Format(time.RFC3339),
		Data: struct {
			User domain.User `json:"user"`
		}{user},
	}

	gctx.JSON(http.StatusOK, res)
}

// Logout handles http request to clear the token cookie.
func (h *Handler) Logout(gctx *gin.Context) {
	middleware.ClearTokenCookie(gctx)

	gctx.JSON(http.StatusOK, web.Response{})
}

// Me handles http request to get the authenticated user.
func (h *Handler) Me(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	principal := middleware.Principal(gctx)

	user, err := h.service.Get(ctx, principal.UserID)
	if err != nil {
		if err == domain.ErrUserNotFound {
			gctx.JSON(http.StatusNotFound, web.Error(err))
			return
		}

		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	res := web.Response{
		Data: struct {
			User domain.User `json:"user"`
		}{user},
	}

	gctx.JSON(http.StatusOK, res)
}

// List handles http request to list all user accounts.
func (h *Handler) List(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	users, err := h.service.List(ctx, middleware.Principal(gctx))
	if err != nil {
		if err == domain.ErrAdminRequired {
			gctx.JSON(http.StatusForbidden, web.Error(err))
			return
		}

		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	res := web.Response{
		Data: struct {
			Users []domain.User `json:"users"`
		}{users},
	}

	gctx.JSON(http.StatusOK, res)
}

type updateRequest struct {
	UserID     string  `json:"userId" binding:"required"`
	Balance    *string `json:"balance"`
	IsVerified *bool   `json:"isVerified"`
	Role       *string `json:"role"`
}

// Update handles http request to update a user account. A balance value
// replaces the stored balance outright.
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

	arg := domain.UpdateUserParams{
		UserID:     req.UserID,
		Balance:    req.Balance,
		IsVerified: req.IsVerified,
		Role:       req.Role,
	}

	user, err := h.service.Update(ctx, middleware.Principal(gctx), arg)
	if err != nil {
		switch err {
		case domain.ErrAdminRequired:
			gctx.JSON(http.StatusForbidden, web.Error(err))
			return
		case domain.ErrUserNotFound:
			gctx.JSON(http.StatusNotFound, web.Error(err))
			return
		case domain.ErrInvalidAmount, domain.ErrInvalidRole:
			gctx.JSON(http.StatusBadRequest, web.Error(err))
			return
		}

		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	res := web.Response{
		Data: struct {
			User domain.User `json:"user"`
		}{user},
	}

	gctx.JSON(http.StatusOK, res)
}
