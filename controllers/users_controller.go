package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/princeade/taskvault/apperrors"
	"github.com/princeade/taskvault/dto"
	"github.com/princeade/taskvault/models"
	"github.com/princeade/taskvault/store"
	"github.com/princeade/taskvault/utils"
)

func abort(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

func Register(cfg *utils.Config, users store.UserStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body dto.RegisterDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			abort(c, apperrors.InvalidInput("Name, Email and password are required"))
			return
		}

		hash, err := utils.HashPassword(body.Password, cfg.BcryptCost)
		if err != nil {
			abort(c, err)
			return
		}

		user := models.User{
			Name:         body.Name,
			Email:        body.Email,
			PasswordHash: hash,
		}
		if err := users.Insert(c.Request.Context(), &user); err != nil {
			if errors.Is(err, store.ErrDuplicate) {
				abort(c, apperrors.AlreadyExists("User already exists"))
				return
			}
			abort(c, err)
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"success": true,
			"message": "User registered successfully",
		})
	}
}

func Login(cfg *utils.Config, users store.UserStore, ledger store.TokenLedger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body dto.LoginDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			abort(c, apperrors.InvalidInput("Email and password are required"))
			return
		}

		// Unknown email and wrong password take the same exit: no
		// user-existence oracle.
		user, err := users.FindByEmail(c.Request.Context(), body.Email)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				abort(c, apperrors.InvalidCredentials())
				return
			}
			abort(c, err)
			return
		}
		if err := utils.CheckPassword(user.PasswordHash, body.Password); err != nil {
			abort(c, apperrors.InvalidCredentials())
			return
		}

		accessToken, err := utils.GenerateAccessToken(user.ID.Hex(), user.Email, cfg.JWTSecret, cfg.AccessTTL)
		if err != nil {
			abort(c, err)
			return
		}
		refreshToken, err := utils.GenerateRefreshToken(user.ID.Hex(), cfg.JWTRefreshSecret, cfg.RefreshTTL)
		if err != nil {
			abort(c, err)
			return
		}

		record := models.RefreshTokenRecord{
			Token:       refreshToken,
			UserID:      user.ID,
			Type:        models.TokenTypeRefresh,
			Blacklisted: false,
			ExpiresAt:   time.Now().UTC().Add(cfg.RefreshTTL),
		}
		if err := ledger.Insert(c.Request.Context(), &record); err != nil {
			abort(c, err)
			return
		}

		utils.SetRefreshCookie(c, refreshToken, cfg.RefreshTTL, cfg.CookieSecure, cfg.CookieDomain)
		c.JSON(http.StatusOK, gin.H{
			"success":     true,
			"message":     "Logged in successfully",
			"accessToken": accessToken,
		})
	}
}

// Protected is the probe the client verifies its session against.
func Protected(users store.UserStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := bson.ObjectIDFromHex(c.GetString("userID"))
		if err != nil {
			abort(c, apperrors.TokenMalformed())
			return
		}

		user, err := users.FindByID(c.Request.Context(), userID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				abort(c, apperrors.NotFound("User not found"))
				return
			}
			abort(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Access granted",
			"user": gin.H{
				"_id":   user.ID.Hex(),
				"email": user.Email,
				"name":  user.Name,
			},
		})
	}
}

// RefreshToken exchanges the cookie-delivered refresh token for a new
// access token. The token is accepted from the cookie only — a stolen
// access token can never mint new ones. The ledger lookup and the
// signature check are independent; both must pass.
func RefreshToken(cfg *utils.Config, users store.UserStore, ledger store.TokenLedger) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, err := c.Cookie(utils.RefreshCookieName)
		if err != nil || tokenStr == "" {
			abort(c, apperrors.New(http.StatusUnauthorized, apperrors.CodeTokenMissing, "Refresh token not found"))
			return
		}

		record, err := ledger.Find(c.Request.Context(), tokenStr)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				// A valid signature with no ledger record still fails
				// closed.
				abort(c, apperrors.New(http.StatusUnauthorized, apperrors.CodeTokenMalformed, "Invalid refresh token"))
				return
			}
			abort(c, err)
			return
		}
		if record.Blacklisted {
			abort(c, apperrors.TokenRevoked())
			return
		}
		if record.ExpiresAt.Before(time.Now().UTC()) {
			abort(c, apperrors.New(http.StatusUnauthorized, apperrors.CodeTokenExpired, "RefreshToken expired"))
			return
		}

		claims, err := utils.ValidateToken(tokenStr, cfg.JWTRefreshSecret)
		if err != nil {
			if errors.Is(err, utils.ErrTokenExpired) {
				abort(c, apperrors.New(http.StatusUnauthorized, apperrors.CodeTokenExpired, "RefreshToken expired"))
				return
			}
			abort(c, apperrors.TokenMalformed())
			return
		}

		userID, err := bson.ObjectIDFromHex(claims.UserID)
		if err != nil {
			abort(c, apperrors.TokenMalformed())
			return
		}
		user, err := users.FindByID(c.Request.Context(), userID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				abort(c, apperrors.NotFound("User not found"))
				return
			}
			abort(c, err)
			return
		}

		// No rotation: the refresh token stays valid, so concurrent tabs
		// never invalidate each other.
		accessToken, err := utils.GenerateAccessToken(user.ID.Hex(), user.Email, cfg.JWTSecret, cfg.AccessTTL)
		if err != nil {
			abort(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success":     true,
			"accessToken": accessToken,
		})
	}
}

// Logout revokes the ledger record behind the cookie and clears the
// cookie. It never fails visibly: an absent or already-revoked token
// still gets a 200, so nothing about server state leaks.
func Logout(cfg *utils.Config, ledger store.TokenLedger) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, _ := c.Cookie(utils.RefreshCookieName)
		utils.ClearRefreshCookie(c, cfg.CookieSecure, cfg.CookieDomain)

		if tokenStr != "" {
			// best effort revoke
			_ = ledger.Revoke(c.Request.Context(), tokenStr)
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Logged out successfully",
		})
	}
}

// GetCurrentUser returns the caller's own user document. Requesting any
// other id is Forbidden, not NotFound.
func GetCurrentUser(users store.UserStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		idParam := c.Param("id")
		if idParam == "" {
			abort(c, apperrors.InvalidInput("User ID is required"))
			return
		}
		if c.GetString("userID") != idParam {
			abort(c, apperrors.Forbidden("Not authorized to access this user data"))
			return
		}

		userID, err := bson.ObjectIDFromHex(idParam)
		if err != nil {
			abort(c, apperrors.InvalidInput("Invalid user ID"))
			return
		}
		user, err := users.FindByID(c.Request.Context(), userID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				abort(c, apperrors.NotFound("User not found"))
				return
			}
			abort(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "User data retrieved successfully",
			"data": gin.H{
				"_id":       user.ID.Hex(),
				"email":     user.Email,
				"createdAt": user.CreatedAt,
				"updatedAt": user.UpdatedAt,
			},
		})
	}
}
