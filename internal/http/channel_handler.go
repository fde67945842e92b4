package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"vidtube/internal/service"
)

// ChannelHandler mantiene dependencias para las vistas derivadas.
type ChannelHandler struct {
	logger      *zap.Logger
	channelServ *service.ChannelService
	historyServ *service.HistoryService
}

func NewChannelHandler(logger *zap.Logger, channelServ *service.ChannelService, historyServ *service.HistoryService) *ChannelHandler {
	return &ChannelHandler{
		logger:      logger,
		channelServ: channelServ,
		historyServ: historyServ,
	}
}

// GetChannelProfile maneja GET /users/getuser/:username. Admite viewers
// anónimos: sin identidad, is_subscribed es false.
func (h *ChannelHandler) GetChannelProfile(c *gin.Context) {
	viewerID, _ := GetAuthUserID(c)
	profile, err := h.channelServ.GetChannelProfile(c.Request.Context(), viewerID, c.Param("username"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"channel": profile})
}

// GetWatchHistory maneja GET /users/watchHistory.
func (h *ChannelHandler) GetWatchHistory(c *gin.Context) {
	userID, ok := GetAuthUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not logged in"})
		return
	}
	videos, err := h.historyServ.GetWatchHistory(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"watch_history": videos})
}
