package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	appErrors "github.com/noah-isme/scanova-console/pkg/errors"
	"github.com/noah-isme/scanova-console/pkg/response"
)

// ContextPrincipalKey is the gin context key storing the authenticated caller.
const ContextPrincipalKey = "principal"

// Principal is the caller behind a bearer token, as currently stored.
type Principal struct {
	UserID string
	Role   string
	OrgID  string
}

// Authenticator resolves a bearer token into a principal.
type Authenticator interface {
	Authenticate(token string) (*Principal, error)
}

// JWT protects routes by requiring a valid bearer token.
func JWT(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "Not authenticated"))
			return
		}

		scheme, token, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "Not authenticated"))
			return
		}

		principal, err := auth.Authenticate(strings.TrimSpace(token))
		if err != nil {
			response.Error(c, err)
			return
		}

		c.Set(ContextPrincipalKey, principal)
		c.Next()
	}
}

// CurrentPrincipal returns the principal set by JWT, or nil.
func CurrentPrincipal(c *gin.Context) *Principal {
	v, ok := c.Get(ContextPrincipalKey)
	if !ok {
		return nil
	}
	p, _ := v.(*Principal)
	return p
}
