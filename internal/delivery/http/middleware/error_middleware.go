package middleware

import (
	"errors"
	"net/http"

	"hr-portal-backend/internal/delivery/http/response"
	"hr-portal-backend/pkg/apperror"
	"hr-portal-backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		// Check if there are errors appended to the context
		if len(c.Errors) > 0 {
			err := c.Errors.Last().Err
			var appErr *apperror.AppError
			if errors.As(err, &appErr) {
				if appErr.Kind == apperror.KindStorage || appErr.Kind == apperror.KindPersistence {
					// Server-side failures carry a wrapped cause that must
					// reach the operator log, never the client.
					logger.Log.Error("request failed",
						"kind", string(appErr.Kind), "path", c.FullPath(), "error", appErr.Err)
				}
				response.Error(c, appErr.Code, appErr.Message, string(appErr.Kind), nil)
			} else {
				// Never expose internal error details to clients.
				logger.Log.Error("unhandled internal error", "path", c.FullPath(), "error", err)
				response.Error(c, http.StatusInternalServerError, "An unexpected error occurred. Please try again later.", string(apperror.KindInternal), nil)
			}
		}
	}
}
