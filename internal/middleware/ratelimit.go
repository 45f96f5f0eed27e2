package middleware

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/testflowhq/testflow-api/internal/service"
	"github.com/testflowhq/testflow-api/pkg/config"
	appErrors "github.com/testflowhq/testflow-api/pkg/errors"
	"github.com/testflowhq/testflow-api/pkg/response"
)

// RateLimit enforces a fixed-window quota for one endpoint class. The
// identifier is the authenticated user id when available, falling back to
// the client IP for anonymous routes such as login.
func RateLimit(limiter *service.RateLimitService, class string, rule config.RateLimitRule) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.Enabled() {
			c.Next()
			return
		}

		identifier := c.ClientIP()
		if claims, ok := CurrentUser(c); ok {
			identifier = fmt.Sprintf("user:%d", claims.UserID)
		}

		result := limiter.Admit(c.Request.Context(), class, identifier, rule)
		c.Header("X-RateLimit-Limit", strconv.Itoa(rule.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
		if result.ResetAt > 0 {
			c.Header("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt, 10))
		}

		if !result.Allowed {
			response.Error(c, appErrors.ErrRateLimited)
			c.Abort()
			return
		}

		c.Next()
	}
}
