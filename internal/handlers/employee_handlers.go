package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"shift_scheduler_backend/internal/services"
	"shift_scheduler_backend/pkg/utils"
)

// EmployeeHandler serves the manager's employee directory.
type EmployeeHandler struct {
	employeeService services.EmployeeService
}

func NewEmployeeHandler(s services.EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{employeeService: s}
}

// GetEmployees lists accounts with pagination (?page=, ?page_size=) and an
// optional ?search= over username, full name and email.
func (h *EmployeeHandler) GetEmployees(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", strconv.Itoa(services.DefaultPageSize)))

	result, err := h.employeeService.GetEmployees(c.Request.Context(), page, pageSize, c.Query("search"))
	if err != nil {
		utils.RespondInternalError(c, err, "Failed to fetch employees.")
		return
	}
	c.JSON(http.StatusOK, result)
}
