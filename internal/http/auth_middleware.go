package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"vidtube/internal/service"
)

const authUserKey = "auth_user_id"

// AuthMiddleware valida el access token (header Bearer o cookie) y guarda la
// identidad en el contexto. Sin token válido la request se corta con 401.
func AuthMiddleware(tokens *service.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := tokens.VerifyAccess(extractAccessToken(c))
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or missing token"})
			c.Abort()
			return
		}
		c.Set(authUserKey, userID)
		c.Next()
	}
}

// OptionalAuthMiddleware intenta resolver la identidad pero nunca corta la
// request: las vistas de canal aceptan viewers anónimos.
func OptionalAuthMiddleware(tokens *service.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID, err := tokens.VerifyAccess(extractAccessToken(c)); err == nil {
			c.Set(authUserKey, userID)
		}
		c.Next()
	}
}

// GetAuthUserID obtiene la identidad autenticada desde el contexto.
func GetAuthUserID(c *gin.Context) (string, bool) {
	val, ok := c.Get(authUserKey)
	if !ok {
		return "", false
	}
	userID, ok := val.(string)
	return userID, ok && userID != ""
}

func extractAccessToken(c *gin.Context) string {
	header := strings.TrimSpace(c.GetHeader("Authorization"))
	if header != "" && strings.HasPrefix(strings.ToLower(header), "bearer ") {
		return strings.TrimSpace(header[len("Bearer "):])
	}
	if cookie, err := c.Cookie(accessTokenCookie); err == nil {
		return cookie
	}
	return ""
}
