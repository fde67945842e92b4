package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"vidtube/internal/service"
)

// NewRouter configura el router de Gin con middlewares y rutas.
func NewRouter(
	logger *zap.Logger,
	tokens *service.TokenService,
	userH *UserHandler,
	mediaH *MediaHandler,
	channelH *ChannelHandler,
) *gin.Engine {
	r := gin.New()

	// Middlewares basicos: logging y recovery.
	r.Use(zapLoggerMiddleware(logger), gin.Recovery())

	auth := AuthMiddleware(tokens)

	users := r.Group("/api/v1/users")
	users.POST("/register", userH.Register)
	users.POST("/login", userH.Login)
	users.POST("/refresh-token", userH.Refresh)
	users.POST("/logout", auth, userH.Logout)
	users.POST("/changePass", auth, userH.ChangePassword)
	users.GET("/currentUser", auth, userH.CurrentUser)
	users.PATCH("/account", auth, userH.UpdateAccount)
	users.POST("/avatar", auth, mediaH.UpdateAvatar)
	users.POST("/coverImage", auth, mediaH.UpdateCoverImage)
	users.GET("/getuser/:username", OptionalAuthMiddleware(tokens), channelH.GetChannelProfile)
	users.GET("/watchHistory", auth, channelH.GetWatchHistory)

	return r
}

// zapLoggerMiddleware crea un middleware simple de logging con zap.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}
