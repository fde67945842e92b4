package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"vidtube/internal/service"
)

// MediaHandler mantiene dependencias para endpoints de media de perfil.
type MediaHandler struct {
	logger    *zap.Logger
	mediaServ *service.MediaService
}

func NewMediaHandler(logger *zap.Logger, mediaServ *service.MediaService) *MediaHandler {
	return &MediaHandler{
		logger:    logger,
		mediaServ: mediaServ,
	}
}

type openedFile struct {
	upload *service.FileUpload
	close  func()
}

// formFile abre el archivo multipart del campo dado. El handle no se
// reutiliza después de la request.
func formFile(c *gin.Context, field string) (*openedFile, error) {
	header, err := c.FormFile(field)
	if err != nil {
		return nil, err
	}
	f, err := header.Open()
	if err != nil {
		return nil, err
	}
	return &openedFile{
		upload: &service.FileUpload{
			Body:        f,
			ContentType: header.Header.Get("Content-Type"),
		},
		close: func() { _ = f.Close() },
	}, nil
}

// UpdateAvatar maneja POST /users/avatar.
func (h *MediaHandler) UpdateAvatar(c *gin.Context) {
	userID, ok := GetAuthUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not logged in"})
		return
	}
	file, err := formFile(c, "avatar")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "avatar file is required"})
		return
	}
	defer file.close()

	obj, err := h.mediaServ.ReplaceAvatar(c.Request.Context(), userID, file.upload)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"avatar": obj.URL})
}

// UpdateCoverImage maneja POST /users/coverImage.
func (h *MediaHandler) UpdateCoverImage(c *gin.Context) {
	userID, ok := GetAuthUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not logged in"})
		return
	}
	file, err := formFile(c, "coverImage")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cover image file is required"})
		return
	}
	defer file.close()

	obj, err := h.mediaServ.ReplaceCoverImage(c.Request.Context(), userID, file.upload)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cover_image": obj.URL})
}
