package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/princeade/taskvault/apperrors"
	"github.com/princeade/taskvault/store"
	"github.com/princeade/taskvault/utils"
)

// AuthMiddleware is the gate in front of every owner-scoped route. It
// validates the bearer token and attaches the claims to the context, so
// downstream handlers can trust userID/email to be present. Failures
// abort with a machine-distinguishable 401 code: expiry is the only one
// clients renew on.
func AuthMiddleware(ledger store.TokenLedger, secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			abortWith(c, apperrors.TokenMissing())
			return
		}

		tokenStr := strings.TrimPrefix(header, "Bearer ")
		claims, err := utils.ValidateToken(tokenStr, secret)
		if err != nil {
			if errors.Is(err, utils.ErrTokenExpired) {
				abortWith(c, apperrors.TokenExpired())
			} else {
				abortWith(c, apperrors.TokenMalformed())
			}
			return
		}

		// Exact-string blacklist lookup. Only refresh tokens are
		// ledgered today, so this is a no-op for access tokens unless an
		// operator starts ledgering those too.
		blacklisted, err := ledger.IsBlacklisted(c.Request.Context(), tokenStr)
		if err != nil {
			abortWith(c, apperrors.Internal())
			return
		}
		if blacklisted {
			abortWith(c, apperrors.TokenRevoked())
			return
		}

		c.Set("userID", claims.UserID)
		c.Set("email", claims.Email)
		c.Next()
	}
}

func abortWith(c *gin.Context, err *apperrors.AppError) {
	_ = c.Error(err)
	c.Abort()
}
