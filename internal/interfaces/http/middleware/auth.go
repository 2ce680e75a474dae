package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"payportal.backend/internal/domain/entities"
	domainerrors "payportal.backend/internal/domain/errors"
	"payportal.backend/internal/interfaces/http/response"
	"payportal.backend/internal/usecases"
	"payportal.backend/pkg/logger"
)

const (
	// AuthorizationHeader is the header key for authorization
	AuthorizationHeader = "Authorization"
	// BearerPrefix is the prefix for bearer tokens
	BearerPrefix = "Bearer "
	// PrincipalKey is the context key for the resolved principal
	PrincipalKey = "principal"
	// CredentialKey is the context key for the raw bearer credential
	CredentialKey = "credential"
)

// Authenticate resolves the bearer credential (session token or signed
// token) to a principal and attaches it to the request context. Validation
// failures are 401 regardless of which path rejected the credential.
func Authenticate(auth *usecases.AuthUsecase) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader(AuthorizationHeader)
		if authHeader == "" {
			response.AbortError(c, domainerrors.Unauthorized("Authorization header is required"))
			return
		}
		if !strings.HasPrefix(authHeader, BearerPrefix) {
			response.AbortError(c, domainerrors.Unauthorized("Invalid authorization format. Use: Bearer <token>"))
			return
		}

		credential := strings.TrimPrefix(authHeader, BearerPrefix)
		principal, err := auth.Validate(c.Request.Context(), credential, c.ClientIP(), c.Request.UserAgent())
		if err != nil {
			logger.Debug(c.Request.Context(), "Credential validation failed",
				zap.String("path", c.Request.URL.Path), zap.Error(err))
			response.AbortError(c, domainerrors.Unauthorized("invalid or expired credentials"))
			return
		}

		c.Set(PrincipalKey, principal)
		c.Set(CredentialKey, credential)
		c.Next()
	}
}

// GetPrincipal gets the resolved principal from context.
func GetPrincipal(c *gin.Context) (*entities.Principal, bool) {
	v, exists := c.Get(PrincipalKey)
	if !exists {
		return nil, false
	}
	principal, ok := v.(*entities.Principal)
	return principal, ok
}

// GetCredential gets the raw bearer credential from context.
func GetCredential(c *gin.Context) (string, bool) {
	v, exists := c.Get(CredentialKey)
	if !exists {
		return "", false
	}
	credential, ok := v.(string)
	return credential, ok
}

// RequireStaff rejects non-staff principals with 403. Runs after
// Authenticate; a missing principal fails closed with 401.
func RequireStaff() gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := GetPrincipal(c)
		if !ok {
			response.AbortError(c, domainerrors.Unauthorized("authentication required"))
			return
		}
		if !principal.IsStaff {
			response.AbortError(c, domainerrors.Forbidden("staff access required"))
			return
		}
		c.Next()
	}
}
