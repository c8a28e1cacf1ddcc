package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"tripcraft/internal/services"
	"tripcraft/pkg/utils"
)

type MediaURLResponse struct {
	URL string `json:"url"`
}

type MediaController struct {
	media services.MediaServiceInterface
}

func NewMediaController(media services.MediaServiceInterface) *MediaController {
	return &MediaController{media: media}
}

// GetPhoto godoc
// @Summary Resolve a photo for an activity or restaurant
// @Description Always answers with a URL; the curated fallback image when nothing better is found
// @Tags Media
// @Produce json
// @Param subject query string true "Activity title or restaurant name"
// @Param location query string false "Where the subject is"
// @Param kind query string false "activity or restaurant" default(activity)
// @Success 200 {object} MediaURLResponse
// @Failure 400 {object} utils.APIResponse
// @Router /media/photo [get]
func (mc *MediaController) GetPhoto(c *gin.Context) {
	subject := strings.TrimSpace(c.Query("subject"))
	if subject == "" {
		utils.RespondError(c, http.StatusBadRequest, "subject is required")
		return
	}
	kind := services.ParsePhotoKind(c.DefaultQuery("kind", string(services.PhotoKindActivity)))

	url := mc.media.PhotoFor(c.Request.Context(), subject, c.Query("location"), kind)
	utils.RespondSuccess(c, MediaURLResponse{URL: url}, "Photo resolved")
}

// GetMap godoc
// @Summary Resolve a static map image
// @Tags Media
// @Produce json
// @Param location query string true "Place to center the map on"
// @Param title query string false "Marker label"
// @Param width query int false "Width in pixels"
// @Param height query int false "Height in pixels"
// @Param zoom query int false "Zoom level"
// @Param style query string false "Map style"
// @Param marker query bool false "Draw a marker"
// @Success 200 {object} MediaURLResponse
// @Router /media/map [get]
func (mc *MediaController) GetMap(c *gin.Context) {
	var req services.MapRequest
	if err := c.ShouldBindQuery(&req); err != nil || strings.TrimSpace(req.Location) == "" {
		utils.RespondError(c, http.StatusBadRequest, "location is required")
		return
	}

	url := mc.media.MapFor(c.Request.Context(), req)
	utils.RespondSuccess(c, MediaURLResponse{URL: url}, "Map resolved")
}
