package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"shift_scheduler_backend/internal/middleware"
	"shift_scheduler_backend/internal/models"
	"shift_scheduler_backend/internal/services"
	"shift_scheduler_backend/pkg/utils"
)

const AvailabilitiesIndexPath = "/Availabilities/"

type AvailabilityHandler struct {
	availabilityService services.AvailabilityService
}

func NewAvailabilityHandler(s services.AvailabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{availabilityService: s}
}

// GetAvailabilities lists the caller's weekly availability.
func (h *AvailabilityHandler) GetAvailabilities(c *gin.Context) {
	list, err := h.availabilityService.GetAvailabilities(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		utils.RespondInternalError(c, err, "Failed to fetch availabilities.")
		return
	}
	if list == nil {
		list = []models.Availability{}
	}
	c.JSON(http.StatusOK, gin.H{"data": list})
}

func (h *AvailabilityHandler) CreateAvailability(c *gin.Context) {
	var req services.AvailabilityRequest
	if err := c.ShouldBind(&req); err != nil {
		respondBindError(c, err, &req, "CreateAvailability")
		return
	}

	userID := middleware.CurrentUserID(c)
	availability, err := h.availabilityService.CreateAvailability(c.Request.Context(), userID, req)
	if err != nil {
		var verr *services.ValidationError
		switch {
		case errors.As(err, &verr):
			respondValidationError(c, verr)
		case errors.Is(err, services.ErrAccountGone):
			respondAccountGone(c, err)
		default:
			utils.RespondInternalError(c, err, "Failed to create availability.")
		}
		return
	}
	utils.LogDebug("Availability created", map[string]interface{}{"availability_id": availability.ID, "user_id": userID})
	c.Redirect(http.StatusSeeOther, AvailabilitiesIndexPath)
}

func (h *AvailabilityHandler) DeleteAvailability(c *gin.Context) {
	id, ok := utils.ParseID(c.Param("id"))
	if !ok {
		c.Redirect(http.StatusSeeOther, AvailabilitiesIndexPath)
		return
	}
	if err := h.availabilityService.DeleteAvailability(c.Request.Context(), middleware.CurrentUserID(c), id); err != nil {
		if errors.Is(err, services.ErrForbidden) {
			respondForbidden(c, err)
		} else {
			utils.RespondInternalError(c, err, "Failed to delete availability.")
		}
		return
	}
	c.Redirect(http.StatusSeeOther, AvailabilitiesIndexPath)
}
