package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/michaelayoade/dotmac-insights/internal/logger"
	"github.com/michaelayoade/dotmac-insights/internal/scope"
)

// RequireScopes gates a route group behind the given scopes. Requests
// without a bearer token get 401; tokens whose scope check cannot be
// resolved get 401 too (a failed check never opens the gate); tokens missing
// a required scope get 403 with the missing scopes listed, which is the
// access-denied state clients render instead of the view.
func RequireScopes(gate *scope.Gate, required ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "missing bearer token",
			})
			return
		}

		decision, err := gate.Check(c.Request.Context(), token, required...)
		if err != nil {
			logger.WithComponent("middleware").Warnf("scope check failed for %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "cannot verify scopes",
			})
			return
		}
		if !decision.Granted {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error":   "access denied",
				"missing": decision.Missing,
			})
			return
		}

		c.Next()
	}
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return ""
}
