package controllers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"tripcraft/internal/models/request_models"
	"tripcraft/internal/models/response_models"
	"tripcraft/internal/services"
	"tripcraft/pkg/utils"
)

type GenerateItineraryRequest struct {
	Params      request_models.TripParameters  `json:"params"`
	Preferences request_models.TripPreferences `json:"preferences"`
	UseHistory  bool                           `json:"useHistory"`
}

type RegenerateDayRequest struct {
	Itinerary   response_models.Itinerary      `json:"itinerary"`
	DayNumber   int                            `json:"dayNumber"`
	Params      request_models.TripParameters  `json:"params"`
	Preferences request_models.TripPreferences `json:"preferences"`
}

type UpdateItineraryRequest struct {
	Itinerary   response_models.Itinerary `json:"itinerary"`
	Instruction string                    `json:"instruction"`
}

// ActivityEditRequest covers add, delete, update and soft delete. Which fields matter
// depends on the route.
type ActivityEditRequest struct {
	Itinerary  response_models.Itinerary `json:"itinerary"`
	DayNumber  int                       `json:"dayNumber"`
	ActivityID string                    `json:"activityId"`
	Activity   response_models.Activity  `json:"activity"`
	Patch      services.ActivityPatch    `json:"patch"`
}

type UpdateItineraryResponse struct {
	Itinerary response_models.Itinerary `json:"itinerary"`
	Applied   bool                      `json:"applied"`
}

type ItineraryController struct {
	generator services.ItineraryServiceInterface
	mutator   services.ItineraryMutatorInterface
	memory    services.MemoryServiceInterface
	logger    *zap.Logger
}

func NewItineraryController(
	generator services.ItineraryServiceInterface,
	mutator services.ItineraryMutatorInterface,
	memory services.MemoryServiceInterface,
	logger *zap.Logger,
) *ItineraryController {
	return &ItineraryController{
		generator: generator,
		mutator:   mutator,
		memory:    memory,
		logger:    logger,
	}
}

// Generate godoc
// @Summary Generate an itinerary
// @Description Build a day-by-day itinerary from trip parameters and preferences. Falls back to curated content when no model is configured.
// @Tags Itinerary
// @Accept json
// @Produce json
// @Param request body GenerateItineraryRequest true "Trip parameters, preferences, useHistory"
// @Success 200 {object} response_models.Itinerary
// @Failure 400 {object} utils.APIResponse
// @Router /itineraries/generate [post]
func (ic *ItineraryController) Generate(c *gin.Context) {
	var req GenerateItineraryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Params.Destination) == "" {
		utils.RespondError(c, http.StatusBadRequest, "Destination is required")
		return
	}
	if req.Params.RequestedDays() > utils.MaxTripDays {
		utils.RespondError(c, http.StatusBadRequest, fmt.Sprintf("Trips are limited to %d days", utils.MaxTripDays))
		return
	}

	var history []response_models.TripMemory
	if req.UseHistory {
		h, err := ic.memory.History(c.Request.Context())
		if err != nil {
			// generation goes ahead without personalization
			ic.logger.Warn("travel history unavailable", zap.Error(err), zap.String("trace_id", c.GetString("trace_id")))
		} else {
			history = h
		}
	}

	itin := ic.generator.Generate(c.Request.Context(), req.Params, req.Preferences, history)
	utils.RespondSuccess(c, itin, "Itinerary generated successfully")
}

// RegenerateDay godoc
// @Summary Regenerate one day
// @Description Replace the activities and meals of one day with an alternative plan
// @Tags Itinerary
// @Accept json
// @Produce json
// @Param request body RegenerateDayRequest true "Itinerary, day number, trip parameters, preferences"
// @Success 200 {object} response_models.Itinerary
// @Failure 400 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /itineraries/regenerate-day [post]
func (ic *ItineraryController) RegenerateDay(c *gin.Context) {
	var req RegenerateDayRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.DayNumber < 1 {
		utils.RespondError(c, http.StatusBadRequest, "Itinerary and a positive dayNumber are required")
		return
	}

	itin, err := ic.mutator.RegenerateDay(c.Request.Context(), req.Itinerary, req.DayNumber, req.Params, req.Preferences)
	if err != nil {
		utils.HandleServiceError(c, ic.logger, err)
		return
	}

	utils.RespondSuccess(c, itin, "Day regenerated successfully")
}

// Update godoc
// @Summary Apply a free-text change
// @Description Ask the model to rewrite the itinerary. When the reply is unusable the itinerary comes back unchanged with applied=false.
// @Tags Itinerary
// @Accept json
// @Produce json
// @Param request body UpdateItineraryRequest true "Itinerary and instruction"
// @Success 200 {object} UpdateItineraryResponse
// @Failure 400 {object} utils.APIResponse
// @Router /itineraries/update [post]
func (ic *ItineraryController) Update(c *gin.Context) {
	var req UpdateItineraryRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Instruction) == "" {
		utils.RespondError(c, http.StatusBadRequest, "Itinerary and instruction are required")
		return
	}

	itin, applied := ic.mutator.ApplyFreeTextUpdate(c.Request.Context(), req.Itinerary, req.Instruction)
	message := "Itinerary updated successfully"
	if !applied {
		message = "Could not apply the change, itinerary left as it was"
	}
	utils.RespondSuccess(c, UpdateItineraryResponse{Itinerary: itin, Applied: applied}, message)
}

// AddActivity godoc
// @Summary Add an activity to a day
// @Tags Itinerary
// @Accept json
// @Produce json
// @Param request body ActivityEditRequest true "Itinerary, dayNumber, activity"
// @Success 200 {object} response_models.Itinerary
// @Failure 400 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /itineraries/activities/add [post]
func (ic *ItineraryController) AddActivity(c *gin.Context) {
	req, ok := ic.bindActivityEdit(c, false)
	if !ok {
		return
	}
	ic.respondEdit(c, "Activity added successfully")(ic.mutator.AddActivity(req.Itinerary, req.DayNumber, req.Activity))
}

// DeleteActivity godoc
// @Summary Remove an activity from a day
// @Description Remaining activities of the day get fresh positional ids
// @Tags Itinerary
// @Accept json
// @Produce json
// @Param request body ActivityEditRequest true "Itinerary, dayNumber, activityId"
// @Success 200 {object} response_models.Itinerary
// @Router /itineraries/activities/delete [post]
func (ic *ItineraryController) DeleteActivity(c *gin.Context) {
	req, ok := ic.bindActivityEdit(c, true)
	if !ok {
		return
	}
	ic.respondEdit(c, "Activity removed successfully")(ic.mutator.DeleteActivity(req.Itinerary, req.DayNumber, req.ActivityID))
}

// UpdateActivity godoc
// @Summary Patch fields of an activity
// @Tags Itinerary
// @Accept json
// @Produce json
// @Param request body ActivityEditRequest true "Itinerary, dayNumber, activityId, patch"
// @Success 200 {object} response_models.Itinerary
// @Router /itineraries/activities/update [post]
func (ic *ItineraryController) UpdateActivity(c *gin.Context) {
	req, ok := ic.bindActivityEdit(c, true)
	if !ok {
		return
	}
	ic.respondEdit(c, "Activity updated successfully")(ic.mutator.UpdateActivity(req.Itinerary, req.DayNumber, req.ActivityID, req.Patch))
}

// SoftDeleteActivity godoc
// @Summary Mark an activity deleted without removing it
// @Tags Itinerary
// @Accept json
// @Produce json
// @Param request body ActivityEditRequest true "Itinerary, dayNumber, activityId"
// @Success 200 {object} response_models.Itinerary
// @Router /itineraries/activities/soft-delete [post]
func (ic *ItineraryController) SoftDeleteActivity(c *gin.Context) {
	req, ok := ic.bindActivityEdit(c, true)
	if !ok {
		return
	}
	ic.respondEdit(c, "Activity marked deleted")(ic.mutator.SoftDeleteActivity(req.Itinerary, req.DayNumber, req.ActivityID))
}

func (ic *ItineraryController) bindActivityEdit(c *gin.Context, needID bool) (ActivityEditRequest, bool) {
	var req ActivityEditRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.DayNumber < 1 {
		utils.RespondError(c, http.StatusBadRequest, "Itinerary and a positive dayNumber are required")
		return req, false
	}
	if needID && req.ActivityID == "" {
		utils.RespondError(c, http.StatusBadRequest, "activityId is required")
		return req, false
	}
	return req, true
}

func (ic *ItineraryController) respondEdit(c *gin.Context, message string) func(response_models.Itinerary, error) {
	return func(itin response_models.Itinerary, err error) {
		if err != nil {
			utils.HandleServiceError(c, ic.logger, err)
			return
		}
		utils.RespondSuccess(c, itin, message)
	}
}
