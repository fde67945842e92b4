package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"vidtube/internal/service"
)

const (
	accessTokenCookie  = "accessToken"
	refreshTokenCookie = "refreshToken"
)

// CookieConfig son los flags de transporte para las cookies de sesión.
type CookieConfig struct {
	Domain string
	Secure bool
}

// setTokenCookies fija ambos tokens como cookies httpOnly en cada issue/refresh.
func setTokenCookies(c *gin.Context, cfg CookieConfig, pair service.TokenPair, accessMaxAge, refreshMaxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(accessTokenCookie, pair.AccessToken, accessMaxAge, "/", cfg.Domain, cfg.Secure, true)
	c.SetCookie(refreshTokenCookie, pair.RefreshToken, refreshMaxAge, "/", cfg.Domain, cfg.Secure, true)
}

func clearTokenCookies(c *gin.Context, cfg CookieConfig) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(accessTokenCookie, "", -1, "/", cfg.Domain, cfg.Secure, true)
	c.SetCookie(refreshTokenCookie, "", -1, "/", cfg.Domain, cfg.Secure, true)
}
