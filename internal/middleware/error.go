package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/foodgram/backend/internal/apperr"
	"github.com/foodgram/backend/internal/logger"
)

// ErrorResponse is the JSON body of every failed request.
type ErrorResponse struct {
	Errors  string `json:"errors"`
	Details any    `json:"details,omitempty"`
}

// AbortWithError writes err as an ErrorResponse with the status matching its
// code and stops the handler chain. Errors without a code are treated as
// internal and their message is not exposed.
func AbortWithError(c *gin.Context, err error) {
	appErr := apperr.From(err)
	status := appErr.HTTPStatus()

	if status >= http.StatusInternalServerError {
		logger.Ctx(c.Request.Context()).Error().Err(err).
			Str(logger.FieldPath, c.Request.URL.Path).
			Msg("request failed")
		c.AbortWithStatusJSON(status, ErrorResponse{Errors: "internal server error"})
		return
	}

	_ = c.Error(err)
	c.AbortWithStatusJSON(status, ErrorResponse{Errors: appErr.Message, Details: appErr.Details})
}

// Recovery turns panics into a logged 500 response.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logger.Ctx(c.Request.Context()).Error().
			Interface("panic", recovered).
			Str(logger.FieldPath, c.Request.URL.Path).
			Msg("panic recovered")
		c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{Errors: "internal server error"})
	})
}
