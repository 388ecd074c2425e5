package middleware

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/princeade/taskvault/apperrors"
)

// ErrorHandler is the single translator every endpoint error funnels
// through: handlers record an error with c.Error and abort, and the
// response always comes out as {success:false, message, code}. Anything
// that is not an AppError surfaces as a generic 500.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		ae := apperrors.From(err)
		if ae.Status == http.StatusInternalServerError {
			log.Printf("internal error on %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		}
		c.JSON(ae.Status, gin.H{
			"success": false,
			"message": ae.Message,
			"code":    ae.Code,
		})
	}
}
