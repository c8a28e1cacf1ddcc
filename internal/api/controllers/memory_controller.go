package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"tripcraft/internal/models/request_models"
	"tripcraft/internal/services"
	"tripcraft/pkg/utils"
)

type SaveTripRequest struct {
	Destination string                         `json:"destination"`
	Preferences request_models.TripPreferences `json:"preferences"`
	Feedback    string                         `json:"feedback"`
	Rating      int                            `json:"rating"`
}

type FeedbackRequest struct {
	Feedback string `json:"feedback"`
	Rating   int    `json:"rating"`
}

type MemoryController struct {
	memory services.MemoryServiceInterface
	logger *zap.Logger
}

func NewMemoryController(memory services.MemoryServiceInterface, logger *zap.Logger) *MemoryController {
	return &MemoryController{memory: memory, logger: logger}
}

// GetProfile godoc
// @Summary Get the user profile
// @Description Returns preferences, travel history and insights. A profile is created on first access.
// @Tags Memory
// @Produce json
// @Success 200 {object} response_models.UserProfile
// @Router /memory/profile [get]
func (mc *MemoryController) GetProfile(c *gin.Context) {
	profile, err := mc.memory.LoadProfile(c.Request.Context())
	if err != nil {
		utils.HandleServiceError(c, mc.logger, err)
		return
	}
	utils.RespondSuccess(c, profile, "Profile fetched successfully")
}

// SaveTrip godoc
// @Summary Save a rated trip
// @Tags Memory
// @Accept json
// @Produce json
// @Param request body SaveTripRequest true "Destination, preferences, feedback, rating 1-5"
// @Success 200 {object} response_models.TripMemory
// @Failure 400 {object} utils.APIResponse
// @Router /memory/trips [post]
func (mc *MemoryController) SaveTrip(c *gin.Context) {
	var req SaveTripRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Destination) == "" {
		utils.RespondError(c, http.StatusBadRequest, "Destination is required")
		return
	}

	memory, err := mc.memory.SaveTrip(c.Request.Context(), req.Destination, req.Preferences, req.Feedback, req.Rating)
	if err != nil {
		utils.HandleServiceError(c, mc.logger, err)
		return
	}
	utils.RespondSuccess(c, memory, "Trip saved successfully")
}

// UpdateFeedback godoc
// @Summary Change feedback and rating of a saved trip
// @Tags Memory
// @Accept json
// @Produce json
// @Param id path string true "Trip memory ID"
// @Param request body FeedbackRequest true "Feedback and rating"
// @Success 200 {object} response_models.UserProfile
// @Failure 404 {object} utils.APIResponse
// @Router /memory/trips/{id}/feedback [put]
func (mc *MemoryController) UpdateFeedback(c *gin.Context) {
	id := c.Param("id")
	var req FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil || id == "" {
		utils.RespondError(c, http.StatusBadRequest, "Trip ID, feedback and rating are required")
		return
	}

	profile, err := mc.memory.UpdateFeedback(c.Request.Context(), id, req.Feedback, req.Rating)
	if err != nil {
		utils.HandleServiceError(c, mc.logger, err)
		return
	}
	utils.RespondSuccess(c, profile, "Feedback updated successfully")
}

// UpdatePreferences godoc
// @Summary Replace the stored preferences
// @Tags Memory
// @Accept json
// @Produce json
// @Param request body request_models.TripPreferences true "Trip styles, cuisines, dietary tags"
// @Success 200 {object} response_models.UserProfile
// @Router /memory/preferences [put]
func (mc *MemoryController) UpdatePreferences(c *gin.Context) {
	var prefs request_models.TripPreferences
	if err := c.ShouldBindJSON(&prefs); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid preferences")
		return
	}

	profile, err := mc.memory.UpdatePreferences(c.Request.Context(), prefs)
	if err != nil {
		utils.HandleServiceError(c, mc.logger, err)
		return
	}
	utils.RespondSuccess(c, profile, "Preferences updated successfully")
}

// ClearHistory godoc
// @Summary Forget every saved trip
// @Tags Memory
// @Produce json
// @Success 200 {object} response_models.UserProfile
// @Router /memory/history [delete]
func (mc *MemoryController) ClearHistory(c *gin.Context) {
	profile, err := mc.memory.ClearHistory(c.Request.Context())
	if err != nil {
		utils.HandleServiceError(c, mc.logger, err)
		return
	}
	utils.RespondSuccess(c, profile, "Travel history cleared")
}

// ResetProfile godoc
// @Summary Delete the stored profile
// @Description Removes preferences, history and insights. The next request starts a new profile.
// @Tags Memory
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Router /memory/profile [delete]
func (mc *MemoryController) ResetProfile(c *gin.Context) {
	if err := mc.memory.ResetProfile(c.Request.Context()); err != nil {
		utils.HandleServiceError(c, mc.logger, err)
		return
	}
	utils.RespondSuccess(c, gin.H{"reset": true}, "Profile reset")
}

// Export streams the profile as an indented JSON document.
func (mc *MemoryController) Export(c *gin.Context) {
	blob, err := mc.memory.Export(c.Request.Context())
	if err != nil {
		utils.HandleServiceError(c, mc.logger, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="travel-profile.json"`)
	c.Data(http.StatusOK, "application/json", blob)
}

// Import replaces the profile with an exported document. The stored profile is untouched
// when the document does not validate.
func (mc *MemoryController) Import(c *gin.Context) {
	blob, err := c.GetRawData()
	if err != nil || len(blob) == 0 {
		utils.RespondError(c, http.StatusBadRequest, "Profile document is required")
		return
	}

	if !mc.memory.Import(c.Request.Context(), blob) {
		utils.RespondError(c, http.StatusBadRequest, utils.ErrInvalidProfile.Error())
		return
	}
	utils.RespondSuccess(c, gin.H{"imported": true}, "Profile imported successfully")
}
