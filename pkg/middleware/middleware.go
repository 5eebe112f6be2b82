package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"itams/pkg/response"
)

const (
	requestIDHeader = "X-Request-Id"
	actorIDHeader   = "X-Actor-ID"
	actorKey        = "actor_id"
)

// RequestLogger attaches a request scoped logger carrying the request id and
// writes one access log line per request.
func RequestLogger(base zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := c.GetHeader(requestIDHeader)
		if reqID == "" {
			reqID = uuid.NewString()
		}
		c.Header(requestIDHeader, reqID)

		log := base.With().
			Str("request_id", reqID).
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Logger()
		c.Request = c.Request.WithContext(log.WithContext(c.Request.Context()))

		start := time.Now()
		c.Next()

		log.Info().
			Int("status", c.Writer.Status()).
			Int64("duration_ms", time.Since(start).Milliseconds()).
			Msg("request.complete")
	}
}

// Recoverer converts panics into a 500 envelope.
func Recoverer() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				zerolog.Ctx(c.Request.Context()).Error().
					Err(fmt.Errorf("panic: %v", rec)).
					Msg("panic.recovered")
				c.Abort()
				response.SendAPIResponse(c, http.StatusInternalServerError, false, "internal server error", nil)
			}
		}()
		c.Next()
	}
}

// Actor reads the acting user id forwarded by the upstream auth layer.
// Requests without a valid id are rejected with 401.
func Actor() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseInt(c.GetHeader(actorIDHeader), 10, 64)
		if err != nil || id <= 0 {
			c.Abort()
			response.SendAPIResponse(c, http.StatusUnauthorized, false, "actor required", nil)
			return
		}
		c.Set(actorKey, id)
		ctx := zerolog.Ctx(c.Request.Context()).With().Int64("actor_id", id).Logger().WithContext(c.Request.Context())
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// ActorID returns the id stored by Actor, or 0 when the route is public.
func ActorID(c *gin.Context) int64 {
	return c.GetInt64(actorKey)
}
