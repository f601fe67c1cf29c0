package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/volpulse/internal/domain/dto"
	"github.com/guttosm/volpulse/internal/logger"
)

// RecoveryMiddleware returns a Gin middleware that gracefully recovers from
// panics, logs the stack trace, and returns the standardized JSON error body.
//
// A recovered panic produces:
//
//	HTTP/1.1 500 Internal Server Error
//	{"error": "Internal Server Error", "message": "Something bad happened."}
func RecoveryMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.L().Error().
					Str("panic", fmt.Sprintf("%v", r)).
					Bytes("stack", debug.Stack()).
					Msg("panic recovered")

				errResponse := dto.NewErrorResponse(dto.CategoryInternalError, "Something bad happened.")
				c.AbortWithStatusJSON(http.StatusInternalServerError, errResponse)
			}
		}()

		c.Next()
	}
}
