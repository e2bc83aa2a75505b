package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/storefront/backend/internal/infrastructure/auth"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

const (
	PrincipalKey  = "principal"
	AuthHeaderKey = "Authorization"
	BearerPrefix  = "Bearer "
)

// TokenVerifier turns a bearer token into the caller it identifies
type TokenVerifier interface {
	Verify(token string) (auth.Principal, error)
}

type JWTMiddlewareConfig struct {
	Verifier TokenVerifier
	Logger   *zap.Logger
}

// JWTAuth reads the bearer token when one is sent and stores the caller in
// the context. Requests without an Authorization header continue as
// anonymous; a header that does not carry a valid token is rejected with 401.
// Routes that need a caller add RequireAuth or RequireStaff.
func JWTAuth(cfg JWTMiddlewareConfig) gin.HandlerFunc {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return func(c *gin.Context) {
		authHeader := c.GetHeader(AuthHeaderKey)
		if authHeader == "" {
			c.Next()
			return
		}

		tokenString, ok := strings.CutPrefix(authHeader, BearerPrefix)
		if !ok || strings.TrimSpace(tokenString) == "" {
			abortUnauthorized(c, log, auth.ErrInvalidToken)
			return
		}

		principal, err := cfg.Verifier.Verify(strings.TrimSpace(tokenString))
		if err != nil {
			abortUnauthorized(c, log, err)
			return
		}

		SetPrincipal(c, principal)
		ctx, _ := logger.WithUserID(c.Request.Context(), logger.FromContext(c.Request.Context()), principal.UserID.String())
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// RequireAuth rejects anonymous requests with 401
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetJWTUserID(c) == "" {
			abortWith(c, dto.ErrCodeUnauthorized, "Authentication credentials were not provided.")
			return
		}
		c.Next()
	}
}

// RequireStaff rejects anonymous requests with 401 and non-staff callers with 403
func RequireStaff() gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetJWTUserID(c) == "" {
			abortWith(c, dto.ErrCodeUnauthorized, "Authentication credentials were not provided.")
			return
		}
		if !IsStaff(c) {
			abortWith(c, dto.ErrCodeForbidden, "You do not have permission to perform this action.")
			return
		}
		c.Next()
	}
}

// StaffOrReadOnly lets anyone read and requires staff for every other method
func StaffOrReadOnly() gin.HandlerFunc {
	requireStaff := RequireStaff()
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
		default:
			requireStaff(c)
		}
	}
}

func abortUnauthorized(c *gin.Context, log *zap.Logger, err error) {
	log.Warn("JWT authentication failed",
		zap.Error(err),
		zap.String("path", c.Request.URL.Path),
	)

	code, message := dto.ErrCodeTokenInvalid, "Given token not valid for any token type"
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		code, message = dto.ErrCodeTokenExpired, "Token has expired"
	case errors.Is(err, auth.ErrTokenNotYetValid):
		message = "Token is not yet valid"
	}
	abortWith(c, code, message)
}

func abortWith(c *gin.Context, code, message string) {
	c.AbortWithStatusJSON(dto.GetHTTPStatus(code), dto.NewErrorResponseWithRequestID(code, message, GetRequestID(c)))
}

// SetPrincipal records the authenticated caller on the request
func SetPrincipal(c *gin.Context, p auth.Principal) {
	c.Set(PrincipalKey, p)
}

func principal(c *gin.Context) (auth.Principal, bool) {
	v, ok := c.Get(PrincipalKey)
	if !ok {
		return auth.Principal{}, false
	}
	p, ok := v.(auth.Principal)
	return p, ok
}

// GetJWTUserID returns the caller's user ID, or "" for anonymous requests
func GetJWTUserID(c *gin.Context) string {
	if p, ok := principal(c); ok {
		return p.UserID.String()
	}
	return ""
}

// GetJWTUserUUID returns the caller's user ID; ok is false for anonymous callers
func GetJWTUserUUID(c *gin.Context) (uuid.UUID, bool) {
	p, ok := principal(c)
	return p.UserID, ok
}

func IsStaff(c *gin.Context) bool {
	p, _ := principal(c)
	return p.IsStaff
}
