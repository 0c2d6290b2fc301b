package handlers

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/ballotline/ballotline-api/internal/logger"
	"github.com/ballotline/ballotline-api/internal/middleware"
	"github.com/ballotline/ballotline-api/internal/response"
	"github.com/ballotline/ballotline-api/internal/services"
)

// ReportHandler serves the content reporting surface
type ReportHandler struct {
	reports *services.ReportService
	log     *log.Logger
}

// NewReportHandler creates a new report handler
func NewReportHandler(reports *services.ReportService) *ReportHandler {
	return &ReportHandler{
		reports: reports,
		log:     logger.Handler("report"),
	}
}

// CreateReport handles POST /api/reports
func (h *ReportHandler) CreateReport(c *gin.Context) {
	var req services.ReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequestError(c, "invalid request payload: "+err.Error())
		return
	}

	report, err := h.reports.CreateReport(middleware.UserID(c), req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.SuccessResponse(c, http.StatusCreated, "report filed", report)
}

// ListReports handles GET /api/reports?status=
func (h *ReportHandler) ListReports(c *gin.Context) {
	reports, err := h.reports.ListReports(c.Query("status"))
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.SuccessResponse(c, http.StatusOK, "", gin.H{
		"reports": reports,
		"count":   len(reports),
	})
}

// ResolveReportRequest carries the moderator notes for a resolution
type ResolveReportRequest struct {
	Notes string `json:"notes"`
}

// ResolveReport handles PATCH /api/reports/:id/resolve
func (h *ReportHandler) ResolveReport(c *gin.Context) {
	reportID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req ResolveReportRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequestError(c, "invalid request payload: "+err.Error())
			return
		}
	}

	report, err := h.reports.ResolveReport(reportID, req.Notes)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.SuccessResponse(c, http.StatusOK, "report resolved", report)
}
