package middleware

import (
    "time"

    "github.com/gin-gonic/gin"
    "github.com/google/uuid"
    "github.com/rs/zerolog/log"
)

// RequestIDHeader carries the request id back to the caller.
const RequestIDHeader = "X-Request-Id"

// LoggingMiddleware logs basic request/response details and injects a request_id into context.
func LoggingMiddleware() gin.HandlerFunc {
    return func(c *gin.Context) {
        start := time.Now()
        path := c.Request.URL.Path

        // Generate request ID
        requestID := uuid.New().String()[:8]
        c.Set("request_id", requestID)
        c.Header(RequestIDHeader, requestID)

        // Process request
        c.Next()

        // Log after response
        latency := time.Since(start)
        status := c.Writer.Status()

        event := log.Info()
        if status >= 500 {
            event = log.Error()
        }
        event = event.
            Str("request_id", requestID).
            Str("method", c.Request.Method).
            Str("path", path).
            Int("status", status).
            Dur("latency", latency).
            Str("ip", c.ClientIP())
        if userID := c.GetInt64("user_id"); userID != 0 {
            event = event.Int64("admin_id", userID)
        }
        if len(c.Errors) > 0 {
            event = event.Str("errors", c.Errors.String())
        }
        event.Msg("HTTP Request")
    }
}
