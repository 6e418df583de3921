package middleware

import (
	"net/http"
	"strings"

	"github.com/Payphone-Digital/eventhub/internal/constants"
	apperrors "github.com/Payphone-Digital/eventhub/internal/errors"
	"github.com/Payphone-Digital/eventhub/internal/service"
	ctxutil "github.com/Payphone-Digital/eventhub/pkg/context"
	"github.com/Payphone-Digital/eventhub/pkg/logger"
	"github.com/gin-gonic/gin"
)

// AuthMiddleware verifies bearer access tokens and attaches the identity to
// both the gin context and the request context.
type AuthMiddleware struct {
	tokens *service.TokenService
}

func NewAuthMiddleware(tokens *service.TokenService) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

// RequireAuth rejects the request unless it carries a valid access token.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		token, ok := bearerToken(c.GetHeader(constants.HeaderAuthorization))
		if !ok {
			logger.WarnWithContext(ctx, "Missing or malformed Authorization header").
				Method(c.Request.Method).
				Path(c.Request.URL.Path).
				Log()
			c.AbortWithStatusJSON(http.StatusUnauthorized, constants.BuildErrorResponse(constants.MsgMissingToken, nil))
			return
		}

		identity, err := m.tokens.VerifyAccessToken(token)
		if err != nil {
			logger.WarnWithContext(ctx, "Access token rejected").
				Method(c.Request.Method).
				Path(c.Request.URL.Path).
				String("code", apperrors.GetErrorCode(err)).
				Log()
			if apperrors.GetErrorCode(err) == apperrors.CodeTokenExpired {
				c.AbortWithStatusJSON(http.StatusUnauthorized, constants.BuildCodedErrorResponse(constants.MsgTokenExpired, apperrors.CodeTokenExpired))
				return
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, constants.BuildCodedErrorResponse(constants.MsgInvalidToken, apperrors.CodeInvalidToken))
			return
		}

		attach(c, identity)
		c.Next()
	}
}

// OptionalAuth attaches the identity when a valid token is present and
// otherwise lets the request through anonymously.
func (m *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, ok := bearerToken(c.GetHeader(constants.HeaderAuthorization)); ok {
			if identity, err := m.tokens.VerifyAccessToken(token); err == nil {
				attach(c, identity)
			} else {
				logger.DebugWithContext(c.Request.Context(), "Ignoring invalid optional token").
					Err(err).
					Log()
			}
		}
		c.Next()
	}
}

// RequireRoles admits only callers whose role is in the allow-list. It must
// run after RequireAuth.
func RequireRoles(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}

	return func(c *gin.Context) {
		identity, ok := IdentityFrom(c)
		if _, permitted := allowed[identity.Role]; !ok || !permitted {
			logger.WarnWithContext(c.Request.Context(), "Role not permitted").
				String("role", identity.Role).
				Strings("allowed", roles).
				Path(c.Request.URL.Path).
				Log()
			c.AbortWithStatusJSON(http.StatusForbidden, constants.BuildErrorResponse(constants.MsgForbidden, nil))
			return
		}
		c.Next()
	}
}

// IdentityFrom returns the identity attached by the auth middleware.
func IdentityFrom(c *gin.Context) (service.Identity, bool) {
	value, exists := c.Get(constants.GinKeyIdentity)
	if !exists {
		return service.Identity{}, false
	}
	identity, ok := value.(service.Identity)
	return identity, ok && identity.ID != ""
}

func attach(c *gin.Context, identity service.Identity) {
	c.Set(constants.GinKeyIdentity, identity)
	c.Request = c.Request.WithContext(ctxutil.WithIdentity(c.Request.Context(), identity.ID, identity.Role))
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || scheme != constants.AuthScheme {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
