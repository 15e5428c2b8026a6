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

type PayStubHandler struct {
	payStubService services.PayStubService
}

func NewPayStubHandler(s services.PayStubService) *PayStubHandler {
	return &PayStubHandler{payStubService: s}
}

// GetPayStubs lists the caller's own pay stubs.
func (h *PayStubHandler) GetPayStubs(c *gin.Context) {
	stubs, err := h.payStubService.GetPayStubs(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		utils.RespondInternalError(c, err, "Failed to fetch pay stubs.")
		return
	}
	if stubs == nil {
		stubs = []models.PayStub{}
	}
	c.JSON(http.StatusOK, gin.H{"data": stubs})
}

func (h *PayStubHandler) GetPayStubByID(c *gin.Context) {
	id, ok := utils.ParseID(c.Param("id"))
	if !ok {
		respondNotFound(c, "Pay stub not found.")
		return
	}
	stub, err := h.payStubService.GetPayStub(c.Request.Context(), principalFrom(c), id)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrPayStubNotFound):
			respondNotFound(c, "Pay stub not found.")
		case errors.Is(err, services.ErrForbidden):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusForbidden, utils.ErrCodeForbidden, "You cannot view this pay stub.", ""))
		default:
			utils.RespondInternalError(c, err, "Failed to fetch pay stub.")
		}
		return
	}
	c.JSON(http.StatusOK, stub)
}

// CreatePayStub issues a pay stub. Managers only.
func (h *PayStubHandler) CreatePayStub(c *gin.Context) {
	var req services.PayStubRequest
	if err := c.ShouldBind(&req); err != nil {
		respondBindError(c, err, &req, "CreatePayStub")
		return
	}

	stub, err := h.payStubService.CreatePayStub(c.Request.Context(), principalFrom(c), req)
	if err != nil {
		var verr *services.ValidationError
		switch {
		case errors.As(err, &verr):
			respondValidationError(c, verr)
		case errors.Is(err, services.ErrForbidden):
			respondForbidden(c, err)
		case errors.Is(err, services.ErrEmployeeNotFound):
			respondNotFound(c, "Employee not found.")
		default:
			utils.RespondInternalError(c, err, "Failed to issue pay stub.")
		}
		return
	}
	c.JSON(http.StatusCreated, stub)
}
