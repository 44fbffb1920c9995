package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dnoglop/task-joule/models"
	"github.com/dnoglop/task-joule/services"
)

type ReportHandler struct {
	reportService services.ReportService
}

func NewReportHandler(reportService services.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

func (h *ReportHandler) Summary(c *gin.Context) {
	req, ok := requester(c)
	if !ok {
		return
	}

	summary, err := h.reportService.Summary(c.Request.Context(), req, time.Now())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse("summary computed", summary))
}

func (h *ReportHandler) Programs(c *gin.Context) {
	reports, err := h.reportService.Programs(c.Request.Context(), time.Now())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse("program reports computed", reports))
}

func (h *ReportHandler) Employees(c *gin.Context) {
	req, ok := requester(c)
	if !ok {
		return
	}

	reports, err := h.reportService.Employees(c.Request.Context(), req, time.Now())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse("employee reports computed", reports))
}

func (h *ReportHandler) EmployeeMetrics(c *gin.Context) {
	req, ok := requester(c)
	if !ok {
		return
	}
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	rollup, err := h.reportService.EmployeeMetrics(c.Request.Context(), req, id, time.Now())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse("employee metrics computed", rollup))
}
