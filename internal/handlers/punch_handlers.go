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

type PunchHandler struct {
	punchService services.PunchService
}

func NewPunchHandler(s services.PunchService) *PunchHandler {
	return &PunchHandler{punchService: s}
}

func (h *PunchHandler) GetPunches(c *gin.Context) {
	punches, err := h.punchService.GetPunches(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		utils.RespondInternalError(c, err, "Failed to fetch punches.")
		return
	}
	if punches == nil {
		punches = []models.Punch{}
	}
	c.JSON(http.StatusOK, gin.H{"data": punches})
}

// PunchIn opens a punch for the caller.
func (h *PunchHandler) PunchIn(c *gin.Context) {
	var req services.PunchRequest
	if err := c.ShouldBind(&req); err != nil {
		respondBindError(c, err, &req, "PunchIn")
		return
	}

	punch, err := h.punchService.PunchIn(c.Request.Context(), middleware.CurrentUserID(c), req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrPunchAlreadyOpen):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "You are already punched in.", err.Error()))
		case errors.Is(err, services.ErrAccountGone):
			respondAccountGone(c, err)
		default:
			utils.RespondInternalError(c, err, "Failed to punch in.")
		}
		return
	}
	c.JSON(http.StatusCreated, punch)
}

// PunchOut closes the caller's open punch.
func (h *PunchHandler) PunchOut(c *gin.Context) {
	punch, err := h.punchService.PunchOut(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		if errors.Is(err, services.ErrNoOpenPunch) {
			respondNotFound(c, "You are not punched in.")
		} else {
			utils.RespondInternalError(c, err, "Failed to punch out.")
		}
		return
	}
	c.JSON(http.StatusOK, punch)
}
