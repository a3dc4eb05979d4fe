package server

import (
	"strings"

	"github.com/boqbill/boqbill/internal/actorcontext"
	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
)

// ActorMiddleware lifts the X-Actor-Id header onto the request context.
// Operations that require an acting user reject requests without it.
func ActorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.GetHeader("X-Actor-Id"))
		if raw != "" {
			if parsed, err := snowflake.ParseString(raw); err == nil && parsed != 0 {
				ctx := actorcontext.WithActorID(c.Request.Context(), parsed.Int64())
				c.Request = c.Request.WithContext(ctx)
			}
		}
		c.Next()
	}
}
