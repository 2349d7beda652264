package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/mslade/expensemate/internal/core/ports/services"
	"github.com/mslade/expensemate/internal/dto"
	"github.com/mslade/expensemate/internal/middleware"
)

// reportingHandler handles summary and export requests.
type reportingHandler struct {
	reportingService portssvc.ReportingSvcFacade
	exportService    portssvc.ExportSvc
}

// RegisterReportingRoutes registers reporting routes.
func RegisterReportingRoutes(rg *gin.RouterGroup, reporting portssvc.ReportingSvcFacade, export portssvc.ExportSvc) {
	h := &reportingHandler{reportingService: reporting, exportService: export}

	reports := rg.Group("/reports")
	{
		reports.GET("/summary", h.getSummary)
		reports.GET("/export", h.exportReport)
	}
}

// getSummary godoc
// @Summary Base-currency expense summary
// @Description Totals per type, net, counts and top vendors over confirmed records
// @Tags reports
// @Produce json
// @Success 200 {object} dto.SummaryResponse
// @Router /reports/summary [get]
func (h *reportingHandler) getSummary(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	summary, err := h.reportingService.Summary(c.Request.Context())
	if err != nil {
		logger.Error("Failed to compute summary", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute summary"})
		return
	}
	c.JSON(http.StatusOK, dto.ToSummaryResponse(summary))
}

// exportReport godoc
// @Summary Download the xlsx expense report
// @Tags reports
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} binary
// @Router /reports/export [get]
func (h *reportingHandler) exportReport(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	filename, content, err := h.exportService.GenerateReport(c.Request.Context())
	if err != nil {
		logger.Error("Failed to generate export", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate export"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", content)
}
