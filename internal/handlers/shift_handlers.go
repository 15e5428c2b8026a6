package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"shift_scheduler_backend/internal/models"
	"shift_scheduler_backend/internal/services"
	"shift_scheduler_backend/pkg/utils"
)

const ShiftsIndexPath = "/Shifts/"

// ShiftHandler serves the /Shifts routes.
type ShiftHandler struct {
	shiftService services.ShiftService
}

func NewShiftHandler(s services.ShiftService) *ShiftHandler {
	return &ShiftHandler{shiftService: s}
}

// GetShifts lists shifts, optionally for one employee (?employee_id=).
func (h *ShiftHandler) GetShifts(c *gin.Context) {
	var employeeID *string
	if v := strings.TrimSpace(c.Query("employee_id")); v != "" {
		employeeID = &v
	}

	shifts, err := h.shiftService.GetShifts(c.Request.Context(), employeeID)
	if err != nil {
		utils.RespondInternalError(c, err, "Failed to fetch shifts.")
		return
	}
	if shifts == nil {
		shifts = []models.Shift{}
	}
	c.JSON(http.StatusOK, gin.H{"data": shifts})
}

func (h *ShiftHandler) GetShiftByID(c *gin.Context) {
	id, ok := utils.ParseID(c.Param("id"))
	if !ok {
		respondNotFound(c, "Shift not found.")
		return
	}
	shift, err := h.shiftService.GetShiftByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrShiftNotFound) {
			respondNotFound(c, "Shift not found.")
		} else {
			utils.RespondInternalError(c, err, "Failed to fetch shift.")
		}
		return
	}
	c.JSON(http.StatusOK, shift)
}

func (h *ShiftHandler) CreateShift(c *gin.Context) {
	var req services.ShiftRequest
	if err := c.ShouldBind(&req); err != nil {
		respondBindError(c, err, &req, "CreateShift")
		return
	}

	principal := principalFrom(c)
	shift, err := h.shiftService.CreateShift(c.Request.Context(), principal, req)
	if err != nil {
		var verr *services.ValidationError
		switch {
		case errors.As(err, &verr):
			respondValidationError(c, verr)
		case errors.Is(err, services.ErrForbidden):
			respondForbidden(c, err)
		case errors.Is(err, services.ErrAccountGone):
			respondAccountGone(c, err)
		default:
			utils.RespondInternalError(c, err, "Failed to create shift.")
		}
		return
	}

	utils.LogInfo("Shift created", map[string]interface{}{"shift_id": shift.ID, "employee_id": shift.EmployeeID, "user_id": principal.UserID})
	c.Redirect(http.StatusSeeOther, ShiftsIndexPath)
}

func (h *ShiftHandler) UpdateShift(c *gin.Context) {
	id, ok := utils.ParseID(c.Param("id"))
	if !ok {
		respondNotFound(c, "Shift not found.")
		return
	}
	var req services.ShiftRequest
	if err := c.ShouldBind(&req); err != nil {
		respondBindError(c, err, &req, "UpdateShift")
		return
	}

	principal := principalFrom(c)
	shift, err := h.shiftService.UpdateShift(c.Request.Context(), principal, id, req)
	if err != nil {
		var verr *services.ValidationError
		switch {
		case errors.Is(err, services.ErrShiftNotFound):
			respondNotFound(c, "Shift not found.")
		case errors.Is(err, services.ErrForbidden):
			respondForbidden(c, err)
		case errors.As(err, &verr):
			respondValidationError(c, verr)
		case errors.Is(err, services.ErrConcurrentUpdate):
			utils.LogError(err, "UpdateShift: write conflict for shift "+utils.Int64ToStr(id))
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict,
				"The shift was changed by someone else. Reload it and try again.", err.Error()))
		default:
			utils.RespondInternalError(c, err, "Failed to update shift.")
		}
		return
	}

	utils.LogInfo("Shift updated", map[string]interface{}{"shift_id": shift.ID, "version": shift.Version, "user_id": principal.UserID})
	c.Redirect(http.StatusSeeOther, ShiftsIndexPath)
}

// DeleteShift removes a shift and its details, redirecting to the list.
func (h *ShiftHandler) DeleteShift(c *gin.Context) {
	id, ok := utils.ParseID(c.Param("id"))
	if !ok {
		c.Redirect(http.StatusSeeOther, ShiftsIndexPath)
		return
	}

	principal := principalFrom(c)
	if err := h.shiftService.DeleteShift(c.Request.Context(), principal, id); err != nil {
		if errors.Is(err, services.ErrForbidden) {
			respondForbidden(c, err)
		} else {
			utils.RespondInternalError(c, err, "Failed to delete shift.")
		}
		return
	}

	utils.LogInfo("Shift deleted", map[string]interface{}{"shift_id": id, "user_id": principal.UserID})
	c.Redirect(http.StatusSeeOther, ShiftsIndexPath)
}
