package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/onegreenvn/campaign-dashboard-backend/internal/config"
)

type PlatformHandler struct{}

func NewPlatformHandler() *PlatformHandler {
	return &PlatformHandler{}
}

// GetPlatforms godoc
// @Summary Get platforms
// @Description Get the advertising platforms a campaign can target
// @Tags platforms
// @Produce json
// @Success 200 {array} config.Platform
// @Failure 401 {object} map[string]interface{}
// @Router /api/v1/platforms [get]
func (h *PlatformHandler) GetPlatforms(c *gin.Context) {
	c.JSON(http.StatusOK, config.GetPlatforms())
}

// GetPlatform godoc
// @Summary Get platform
// @Description Get one advertising platform by id
// @Tags platforms
// @Produce json
// @Param platform path string true "Platform id (reddit, facebook, instagram, hackernews)"
// @Success 200 {object} config.Platform
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/platforms/{platform} [get]
func (h *PlatformHandler) GetPlatform(c *gin.Context) {
	platform, ok := config.GetPlatformByID(c.Param("platform"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{
			"error":               "Platform not supported",
			"supported_platforms": config.GetPlatforms(),
		})
		return
	}
	c.JSON(http.StatusOK, platform)
}
