package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"vidtube/internal/service"
)

// UserHandler mantiene dependencias para endpoints de cuentas y sesiones.
type UserHandler struct {
	logger    *zap.Logger
	userServ  *service.UserService
	tokenServ *service.TokenService
	mediaServ *service.MediaService
	cookies   CookieConfig
}

// NewUserHandler crea una instancia de UserHandler con dependencias necesarias.
func NewUserHandler(logger *zap.Logger, userServ *service.UserService, tokenServ *service.TokenService, mediaServ *service.MediaService, cookies CookieConfig) *UserHandler {
	return &UserHandler{
		logger:    logger,
		userServ:  userServ,
		tokenServ: tokenServ,
		mediaServ: mediaServ,
		cookies:   cookies,
	}
}

// respondError traduce la taxonomía de errores del dominio a códigos HTTP.
// Es el único punto donde esa traducción ocurre.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrInvalidSession),
		errors.Is(err, service.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrUpload):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	default:
		logger.Error("request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// Register maneja POST /users/register (multipart con avatar y coverImage).
func (h *UserHandler) Register(c *gin.Context) {
	fullName := c.PostForm("fullName")
	username := c.PostForm("username")
	email := c.PostForm("email")
	password := c.PostForm("password")

	avatarFile, err := formFile(c, "avatar")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "avatar file is required"})
		return
	}
	defer avatarFile.close()

	avatar, err := h.mediaServ.Upload(c.Request.Context(), avatarFile.upload)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	input := service.RegisterInput{
		FullName: fullName,
		Username: username,
		Email:    email,
		Password: password,
		Avatar:   avatar,
	}

	// El cover es opcional: su ausencia es un estado válido, no un error.
	if coverFile, err := formFile(c, "coverImage"); err == nil {
		defer coverFile.close()
		cover, err := h.mediaServ.Upload(c.Request.Context(), coverFile.upload)
		if err != nil {
			h.mediaServ.Discard(c.Request.Context(), avatar)
			respondError(c, h.logger, err)
			return
		}
		input.CoverImage = cover
	}

	user, err := h.userServ.Register(c.Request.Context(), input)
	if err != nil {
		// Un registro rechazado no debe dejar objetos huérfanos en el store.
		h.mediaServ.Discard(c.Request.Context(), input.Avatar)
		h.mediaServ.Discard(c.Request.Context(), input.CoverImage)
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"user": user})
}

// Login maneja POST /users/login. Acepta username o email como credencial.
func (h *UserHandler) Login(c *gin.Context) {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid login request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	login := req.Username
	if login == "" {
		login = req.Email
	}

	user, err := h.userServ.Authenticate(c.Request.Context(), login, req.Password)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	pair, err := h.tokenServ.Issue(c.Request.Context(), user.ID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.setCookies(c, pair)
	c.JSON(http.StatusOK, gin.H{"user": user, "tokens": pair})
}

// Refresh maneja POST /users/refresh-token. El token viene de la cookie o,
// como fallback, del body.
func (h *UserHandler) Refresh(c *gin.Context) {
	presented, err := c.Cookie(refreshTokenCookie)
	if err != nil || presented == "" {
		var req struct {
			RefreshToken string `json:"refresh_token"`
		}
		if err := c.ShouldBindJSON(&req); err != nil || req.RefreshToken == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "refresh token is required"})
			return
		}
		presented = req.RefreshToken
	}

	pair, err := h.tokenServ.Refresh(c.Request.Context(), presented)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.setCookies(c, pair)
	c.JSON(http.StatusOK, gin.H{"tokens": pair})
}

// Logout maneja POST /users/logout. Revocar dos veces no es un error.
func (h *UserHandler) Logout(c *gin.Context) {
	userID, ok := GetAuthUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not logged in"})
		return
	}
	if err := h.tokenServ.Revoke(c.Request.Context(), userID); err != nil {
		respondError(c, h.logger, err)
		return
	}
	clearTokenCookies(c, h.cookies)
	c.Status(http.StatusNoContent)
}

// ChangePassword maneja POST /users/changePass. Cambiar la contraseña
// invalida la confianza en la sesión previa, así que acá mismo se invoca la
// revocación: contrato explícito entre componentes.
func (h *UserHandler) ChangePassword(c *gin.Context) {
	userID, ok := GetAuthUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not logged in"})
		return
	}
	var req struct {
		OldPassword string `json:"old_password" binding:"required"`
		NewPassword string `json:"new_password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	if err := h.userServ.ChangePassword(c.Request.Context(), userID, req.OldPassword, req.NewPassword); err != nil {
		respondError(c, h.logger, err)
		return
	}
	if err := h.tokenServ.Revoke(c.Request.Context(), userID); err != nil {
		respondError(c, h.logger, err)
		return
	}
	clearTokenCookies(c, h.cookies)
	c.JSON(http.StatusOK, gin.H{"status": "password_changed"})
}

// CurrentUser maneja GET /users/currentUser.
func (h *UserHandler) CurrentUser(c *gin.Context) {
	userID, ok := GetAuthUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not logged in"})
		return
	}
	user, err := h.userServ.GetByID(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// UpdateAccount maneja PATCH /users/account (allow-list: full_name y email).
func (h *UserHandler) UpdateAccount(c *gin.Context) {
	userID, ok := GetAuthUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not logged in"})
		return
	}
	var req struct {
		FullName string `json:"full_name"`
		Email    string `json:"email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	user, err := h.userServ.UpdateAccount(c.Request.Context(), userID, req.FullName, req.Email)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

func (h *UserHandler) setCookies(c *gin.Context, pair service.TokenPair) {
	setTokenCookies(c, h.cookies, pair,
		int(h.tokenServ.AccessTTL().Seconds()),
		int(h.tokenServ.RefreshTTL().Seconds()),
	)
}
