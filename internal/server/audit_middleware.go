package server

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/loanhub/internal/auditcontext"
)

// auditContextMiddleware copies request identity onto the context so audit
// entries written further down carry the caller. Actor headers are optional;
// absent ones leave the audit service's system default in place.
func auditContextMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		if requestID, ok := c.Get("request_id"); ok {
			if id, ok := requestID.(string); ok {
				ctx = auditcontext.WithRequestID(ctx, id)
			}
		}
		ctx = auditcontext.WithIPAddress(ctx, c.ClientIP())
		ctx = auditcontext.WithUserAgent(ctx, c.Request.UserAgent())

		actorType := strings.TrimSpace(c.GetHeader("X-Actor-Type"))
		actorID := strings.TrimSpace(c.GetHeader("X-Actor-Id"))
		if actorType != "" {
			ctx = auditcontext.WithActor(ctx, actorType, actorID)
		}

		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
