package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	appErrors "github.com/noah-isme/scanova-console/pkg/errors"
	"github.com/noah-isme/scanova-console/pkg/response"
)

// RequireOrganization rejects callers that belong to no organization.
func RequireOrganization() gin.HandlerFunc {
	return func(c *gin.Context) {
		p := CurrentPrincipal(c)
		if p == nil {
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "Not authenticated"))
			return
		}
		if p.OrgID == "" {
			response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "You do not belong to an organization"))
			return
		}
		c.Next()
	}
}

// RequireRoles lets through only principals holding one of roles.
func RequireRoles(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[strings.ToLower(r)] = struct{}{}
	}
	return func(c *gin.Context) {
		p := CurrentPrincipal(c)
		if p == nil {
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "Not authenticated"))
			return
		}
		if _, ok := allowed[strings.ToLower(p.Role)]; !ok || p.OrgID == "" {
			response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "Owner permission required"))
			return
		}
		c.Next()
	}
}
