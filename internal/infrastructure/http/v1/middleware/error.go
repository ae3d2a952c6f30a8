package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"timebill/internal/core/apperror"
	"timebill/internal/infrastructure/http/v1/dto"
	"timebill/pkg/logger"
)

// ErrorHandler middleware transforms errors into the uniform response
// envelope. Hides internal errors from clients while logging full details.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err

		// If response already written by handler, do not override it.
		if c.Writer.Written() {
			return
		}

		if appErr, ok := apperror.AsAppError(err); ok {
			// Log internal error if present
			if appErr.Err != nil {
				logger.Error(c.Request.Context(), "request error",
					"code", appErr.Code,
					"cause", appErr.Err,
				)
			}

			var errors any
			if len(appErr.Details) > 0 {
				errors = appErr.Details
			}
			c.JSON(appErr.HTTPStatus, dto.Fail(appErr.Message, errors))
			return
		}

		// Unknown error, log and return generic message
		logger.Error(c.Request.Context(), "unhandled error",
			"error", err,
		)

		c.JSON(http.StatusInternalServerError, dto.Fail("internal server error", map[string]any{
			"request_id": c.GetString("request_id"),
		}))
	}
}
