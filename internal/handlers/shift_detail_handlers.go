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

// ShiftDetailsIndexPath is where successful writes redirect to.
const ShiftDetailsIndexPath = "/ShiftDetails/"

// ShiftDetailHandler serves the /ShiftDetails routes.
type ShiftDetailHandler struct {
	shiftDetailService services.ShiftDetailService
}

// NewShiftDetailHandler creates a new ShiftDetailHandler.
func NewShiftDetailHandler(s services.ShiftDetailService) *ShiftDetailHandler {
	return &ShiftDetailHandler{shiftDetailService: s}
}

// GetShiftDetails lists every shift detail with its shift.
func (h *ShiftDetailHandler) GetShiftDetails(c *gin.Context) {
	details, err := h.shiftDetailService.GetShiftDetails(c.Request.Context())
	if err != nil {
		utils.RespondInternalError(c, err, "Failed to fetch shift details.")
		return
	}
	if details == nil {
		details = []models.ShiftDetail{}
	}
	c.JSON(http.StatusOK, gin.H{"data": details})
}

// GetShiftDetailByID returns one shift detail. Anyone may read it.
func (h *ShiftDetailHandler) GetShiftDetailByID(c *gin.Context) {
	id, ok := utils.ParseID(c.Param("id"))
	if !ok {
		respondNotFound(c, "Shift detail not found.")
		return
	}

	detail, err := h.shiftDetailService.GetShiftDetailByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrShiftDetailNotFound) {
			respondNotFound(c, "Shift detail not found.")
		} else {
			utils.RespondInternalError(c, err, "Failed to fetch shift detail.")
		}
		return
	}
	c.JSON(http.StatusOK, detail)
}

// CreateForm returns what a client needs to render the create form.
func (h *ShiftDetailHandler) CreateForm(c *gin.Context) {
	ids, err := h.shiftDetailService.SelectableShiftIDs(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		utils.RespondInternalError(c, err, "Failed to load shifts.")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"shift_ids":         ids,
		"antiforgery_token": c.GetString(middleware.AntiforgeryTokenKey),
	})
}

// CreateShiftDetail adds a detail under a shift the caller owns.
func (h *ShiftDetailHandler) CreateShiftDetail(c *gin.Context) {
	var req services.ShiftDetailRequest
	if err := c.ShouldBind(&req); err != nil {
		respondBindError(c, err, &req, "CreateShiftDetail")
		return
	}

	principal := principalFrom(c)
	detail, err := h.shiftDetailService.CreateShiftDetail(c.Request.Context(), principal.UserID, req)
	if err != nil {
		var verr *services.ValidationError
		switch {
		case errors.As(err, &verr):
			h.redisplay(c, req, verr.Fields)
		case errors.Is(err, services.ErrForbidden):
			utils.LogWarn(err, "CreateShiftDetail: ownership check failed", map[string]interface{}{"user_id": principal.UserID, "shift_id": req.ShiftID})
			respondForbidden(c, err)
		default:
			utils.RespondInternalError(c, err, "Failed to create shift detail.")
		}
		return
	}

	utils.LogInfo("Shift detail created", map[string]interface{}{"shift_detail_id": detail.ID, "shift_id": detail.ShiftID, "user_id": principal.UserID})
	c.Redirect(http.StatusSeeOther, ShiftDetailsIndexPath)
}

// EditForm returns a detail the caller owns along with the shift choices.
func (h *ShiftDetailHandler) EditForm(c *gin.Context) {
	detail, ok := h.ownedDetail(c, "EditForm")
	if !ok {
		return
	}
	ids, err := h.shiftDetailService.SelectableShiftIDs(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		utils.RespondInternalError(c, err, "Failed to load shifts.")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"shift_detail":      detail,
		"shift_ids":         ids,
		"antiforgery_token": c.GetString(middleware.AntiforgeryTokenKey),
	})
}

// UpdateShiftDetail applies an edit. The payload must carry the id from the
// path and the version the client read.
func (h *ShiftDetailHandler) UpdateShiftDetail(c *gin.Context) {
	id, ok := utils.ParseID(c.Param("id"))
	if !ok {
		respondNotFound(c, "Shift detail not found.")
		return
	}

	var req services.ShiftDetailRequest
	if err := c.ShouldBind(&req); err != nil {
		respondBindError(c, err, &req, "UpdateShiftDetail")
		return
	}

	principal := principalFrom(c)
	detail, err := h.shiftDetailService.UpdateShiftDetail(c.Request.Context(), principal.UserID, id, req)
	if err != nil {
		var verr *services.ValidationError
		switch {
		case errors.Is(err, services.ErrShiftDetailNotFound):
			respondNotFound(c, "Shift detail not found.")
		case errors.Is(err, services.ErrShiftNotFound):
			respondNotFound(c, "Shift not found.")
		case errors.Is(err, services.ErrForbidden):
			utils.LogWarn(err, "UpdateShiftDetail: ownership check failed", map[string]interface{}{"user_id": principal.UserID, "shift_detail_id": id})
			respondForbidden(c, err)
		case errors.As(err, &verr):
			h.redisplay(c, req, verr.Fields)
		case errors.Is(err, services.ErrConcurrentUpdate):
			utils.LogError(err, "UpdateShiftDetail: write conflict for shift detail "+utils.Int64ToStr(id))
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict,
				"The shift detail was changed by someone else. Reload it and try again.", err.Error()))
		default:
			utils.RespondInternalError(c, err, "Failed to update shift detail.")
		}
		return
	}

	utils.LogInfo("Shift detail updated", map[string]interface{}{"shift_detail_id": detail.ID, "version": detail.Version, "user_id": principal.UserID})
	c.Redirect(http.StatusSeeOther, ShiftDetailsIndexPath)
}

// DeleteForm returns the detail to confirm its deletion.
func (h *ShiftDetailHandler) DeleteForm(c *gin.Context) {
	detail, ok := h.ownedDetail(c, "DeleteForm")
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"shift_detail":      detail,
		"antiforgery_token": c.GetString(middleware.AntiforgeryTokenKey),
	})
}

// DeleteShiftDetail removes the detail if it still exists and redirects to
// the list either way.
func (h *ShiftDetailHandler) DeleteShiftDetail(c *gin.Context) {
	id, ok := utils.ParseID(c.Param("id"))
	if !ok {
		c.Redirect(http.StatusSeeOther, ShiftDetailsIndexPath)
		return
	}

	principal := principalFrom(c)
	if err := h.shiftDetailService.DeleteShiftDetail(c.Request.Context(), principal.UserID, id); err != nil {
		if errors.Is(err, services.ErrForbidden) {
			utils.LogWarn(err, "DeleteShiftDetail: ownership check failed", map[string]interface{}{"user_id": principal.UserID, "shift_detail_id": id})
			respondForbidden(c, err)
		} else {
			utils.RespondInternalError(c, err, "Failed to delete shift detail.")
		}
		return
	}

	utils.LogInfo("Shift detail deleted", map[string]interface{}{"shift_detail_id": id, "user_id": principal.UserID})
	c.Redirect(http.StatusSeeOther, ShiftDetailsIndexPath)
}

// ownedDetail loads the path's detail for an owner-only form, answering the
// request itself when that fails.
func (h *ShiftDetailHandler) ownedDetail(c *gin.Context, op string) (*models.ShiftDetail, bool) {
	id, ok := utils.ParseID(c.Param("id"))
	if !ok {
		respondNotFound(c, "Shift detail not found.")
		return nil, false
	}
	detail, err := h.shiftDetailService.GetOwnedShiftDetail(c.Request.Context(), middleware.CurrentUserID(c), id)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrShiftDetailNotFound):
			respondNotFound(c, "Shift detail not found.")
		case errors.Is(err, services.ErrForbidden):
			utils.LogWarn(err, op+": ownership check failed", map[string]interface{}{"shift_detail_id": id})
			respondForbidden(c, err)
		default:
			utils.RespondInternalError(c, err, "Failed to fetch shift detail.")
		}
		return nil, false
	}
	return detail, true
}

// redisplay answers 400 with the submitted values so the form can be shown again.
func (h *ShiftDetailHandler) redisplay(c *gin.Context, req services.ShiftDetailRequest, fields map[string]string) {
	ids, err := h.shiftDetailService.SelectableShiftIDs(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		utils.LogError(err, "redisplay: failed to load selectable shifts")
		ids = []int64{}
	}
	apiErr := utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Input validation failed", "")
	apiErr.FieldErrors = fields
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
		"error":             apiErr,
		"shift_detail":      req,
		"shift_ids":         ids,
		"field_errors":      fields,
		"antiforgery_token": c.GetString(middleware.AntiforgeryTokenKey),
	})
}
