package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/foodgram/backend/internal/logger"
)

const HeaderRequestID = "X-Request-ID"

// RequestLogger tags each request with an id, stores a child logger in the
// request context and logs the outcome.
func RequestLogger(base zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader(HeaderRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header(HeaderRequestID, requestID)

		reqLogger := base.With().Str(logger.FieldRequestID, requestID).Logger()
		c.Request = c.Request.WithContext(logger.WithLogger(c.Request.Context(), reqLogger))

		c.Next()

		status := c.Writer.Status()
		var event *zerolog.Event
		switch {
		case status >= 500:
			event = reqLogger.Error()
		case status >= 400:
			event = reqLogger.Warn()
		default:
			event = reqLogger.Info()
		}
		if userID := UserID(c); userID != 0 {
			event = event.Uint(logger.FieldUserID, userID)
		}
		if len(c.Errors) > 0 {
			event = event.Str("error", c.Errors.Last().Error())
		}
		event.
			Str(logger.FieldMethod, c.Request.Method).
			Str(logger.FieldPath, c.Request.URL.Path).
			Int(logger.FieldStatus, status).
			Int64(logger.FieldLatency, time.Since(start).Milliseconds()).
			Str(logger.FieldClientIP, c.ClientIP()).
			Msg("request completed")
	}
}
