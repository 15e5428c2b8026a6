package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"shift_scheduler_backend/internal/services"
	"shift_scheduler_backend/pkg/utils"
)

type ReportHandler struct {
	reportService services.ReportService
}

func NewReportHandler(s services.ReportService) *ReportHandler {
	return &ReportHandler{reportService: s}
}

// GetHoursReport compares scheduled and punched hours per employee for
// ?start_date= to ?end_date= (YYYY-MM-DD, end exclusive). Without dates the
// current week is reported.
func (h *ReportHandler) GetHoursReport(c *gin.Context) {
	report, err := h.reportService.GetHoursReport(c.Request.Context(), c.Query("start_date"), c.Query("end_date"))
	if err != nil {
		var verr *services.ValidationError
		if errors.As(err, &verr) {
			respondValidationError(c, verr)
		} else {
			utils.RespondInternalError(c, err, "Failed to build hours report.")
		}
		return
	}
	c.JSON(http.StatusOK, report)
}
