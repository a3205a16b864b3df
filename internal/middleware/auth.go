// Package middleware provides gin middlewares for authentication and logging.
package middleware

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/octacity/octa-bank/internal/domain"
	"github.com/octacity/octa-bank/pkg/tokenpkg"
	"github.com/octacity/octa-bank/pkg/web"
)

// TokenCookieName is the cookie carrying the signed bearer credential.
const TokenCookieName = "token"

// AuthPayloadKey is the gin context key holding the verified token payload.
const AuthPayloadKey = "authorization_payload"

// ErrNotAuthenticated indicates a missing bearer credential.
var ErrNotAuthenticated = errors.New("not authenticated")

// AuthMiddleware resolves the token cookie to a verified payload and aborts
// with 401 when it is absent or invalid.
func AuthMiddleware(tokenMaker tokenpkg.Maker) gin.HandlerFunc {
	return func(gctx *gin.Context) {
		cookie, err := gctx.Cookie(TokenCookieName)
		if err != nil || cookie == "" {
			gctx.AbortWithStatusJSON(http.StatusUnauthorized, web.Error(ErrNotAuthenticated))
			return
		}

		payload, err := tokenMaker.VerifyToken(cookie)
		if err != nil {
			gctx.AbortWithStatusJSON(http.StatusUnauthorized, web.Error(err))
			return
		}

		gctx.Set(AuthPayloadKey, payload)
		gctx.Next()
	}
}

// RequireAdmin aborts with 403 unless the verified payload carries the
// admin role. Must run after AuthMiddleware.
func RequireAdmin() gin.HandlerFunc {
	return func(gctx *gin.Context) {
		payload := gctx.MustGet(AuthPayloadKey).(*tokenpkg.Payload)

		if payload.Role != domain.RoleAdmin {
			gctx.AbortWithStatusJSON(http.StatusForbidden, web.Error(domain.ErrAdminRequired))
			return
		}

		gctx.Next()
	}
}

// Principal returns the authenticated principal of the request.
func Principal(gctx *gin.Context) domain.Principal {
	payload := gctx.MustGet(AuthPayloadKey).(*tokenpkg.Payload)

	return domain.Principal{
		UserID: payload.UserID,
		Role:   payload.Role,
	}
}

// SetTokenCookie attaches the credential cookie to the response.
func SetTokenCookie(gctx *gin.Context, token string, duration time.Duration) {
	gctx.SetCookie(TokenCookieName, token, int(duration.Seconds()), "/", "", false, true)
}

// ClearTokenCookie expires the credential cookie.
func ClearTokenCookie(gctx *gin.Context) {
	gctx.SetCookie(TokenCookieName, "", -1, "/", "", false, true)
}

// AddAuthorization issues a token for the given identity and attaches it to
// the request as the token cookie. Test helper.
func AddAuthorization(r *http.Request, tokenMaker tokenpkg.Maker, userID, role string, duration time.Duration) error {
	token, _, err := tokenMaker.CreateToken(userID, role, duration)
	if err != nil {
		return err
	}

	r.AddCookie(&http.Cookie{Name: TokenCookieName, Value: token})

	return nil
}
