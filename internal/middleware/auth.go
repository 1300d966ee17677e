package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/taskmate-dev/taskmate/db"
	"github.com/taskmate-dev/taskmate/internal/auth"
	"github.com/taskmate-dev/taskmate/internal/models"
	"github.com/taskmate-dev/taskmate/internal/types"
)

type AuthenticatedUser struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Image string `json:"image"`
}

// AuthMiddleware guards API routes: a missing or invalid session yields
// a 401 and the resolved user lands in the gin context otherwise.
func AuthMiddleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		user, err := resolveUser(ctx)

		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}

		ctx.Set(types.ContextUserKey, user)
		ctx.Next()
	}
}

// PageAuthMiddleware guards HTML routes: browsers get redirected to the
// sign-in page instead of receiving a JSON error.
func PageAuthMiddleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		user, err := resolveUser(ctx)

		if err != nil {
			ctx.Redirect(http.StatusFound, "/login")
			ctx.Abort()
			return
		}

		ctx.Set(types.ContextUserKey, user)
		ctx.Next()
	}
}

func resolveUser(ctx *gin.Context) (AuthenticatedUser, error) {
	tokenString := extractToken(ctx)

	if tokenString == "" {
		return AuthenticatedUser{}, errors.New("Authorization token is required")
	}

	token, err := auth.VerifyJWT(tokenString)

	if err != nil || !token.Valid {
		return AuthenticatedUser{}, errors.New("Invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)

	if !ok {
		return AuthenticatedUser{}, errors.New("Invalid token claims")
	}

	userIDFloat, ok := claims["user_id"].(float64)

	if !ok {
		return AuthenticatedUser{}, errors.New("Invalid user ID in token claims")
	}

	userID := uint(userIDFloat)

	var user models.User

	if err := db.DB.Where("id = ?", userID).First(&user).Error; err != nil {
		return AuthenticatedUser{}, errors.New("User not found")
	}

	return AuthenticatedUser{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
		Image: user.Image,
	}, nil
}

// extractToken prefers the session cookie and falls back to a Bearer
// header for non-browser clients.
func extractToken(ctx *gin.Context) string {
	if cookie, err := ctx.Cookie("token"); err == nil && cookie != "" {
		return cookie
	}

	authHeader := ctx.GetHeader("Authorization")

	if authHeader == "" {
		return ""
	}

	parts := strings.SplitN(authHeader, " ", 2)

	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}

	return parts[1]
}
