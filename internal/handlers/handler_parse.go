package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mslade/expensemate/internal/apperrors"
	"github.com/mslade/expensemate/internal/core/domain"
	portssvc "github.com/mslade/expensemate/internal/core/ports/services"
	"github.com/mslade/expensemate/internal/dto"
	"github.com/mslade/expensemate/internal/middleware"
)

// maxUploadSize caps PDF uploads at 10 MiB.
const maxUploadSize = 10 << 20

// parseHandler handles AI-extraction requests.
type parseHandler struct {
	extractionService portssvc.ExtractionSvcFacade
	expenseService    portssvc.ExpenseSvcFacade
}

// RegisterParseRoutes registers routes for AI-assisted expense creation.
func RegisterParseRoutes(rg *gin.RouterGroup, extraction portssvc.ExtractionSvcFacade, expenses portssvc.ExpenseSvcFacade) {
	h := &parseHandler{extractionService: extraction, expenseService: expenses}

	parse := rg.Group("/parse")
	{
		parse.POST("/text", h.parseText)
		parse.POST("/pdf", h.parsePDF)
	}
}

// parseText godoc
// @Summary Create a draft expense from free text
// @Description Runs AI extraction over the text and persists the result as a draft
// @Tags parse
// @Accept json
// @Produce json
// @Param request body dto.ParseTextRequest true "Text to parse"
// @Success 201 {object} dto.ExpenseResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 422 {object} map[string]string "Extraction failed"
// @Router /parse/text [post]
func (h *parseHandler) parseText(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.ParseTextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	extracted, err := h.extractionService.ParseText(c.Request.Context(), req.Text, req.Subject)
	if err != nil {
		respondExtractionError(c, err)
		return
	}

	expense, err := h.expenseService.CreateFromExtraction(c.Request.Context(), *extracted, domain.SourceTextExtract, "", nil)
	if err != nil {
		respondExpenseError(c, "Failed to save extracted expense", err)
		return
	}
	logger.Info("Created draft expense from text", slog.String("expense_id", expense.ExpenseID))
	c.JSON(http.StatusCreated, dto.ToExpenseResponse(expense))
}

// parsePDF godoc
// @Summary Create a draft expense from an uploaded PDF
// @Description Extracts the PDF text, runs AI extraction and stores the PDF as an attachment
// @Tags parse
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "PDF document"
// @Success 201 {object} dto.ExpenseResponse
// @Failure 400 {object} map[string]string "Invalid upload"
// @Failure 422 {object} map[string]string "No extractable text or extraction failed"
// @Router /parse/pdf [post]
func (h *parseHandler) parsePDF(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing file upload"})
		return
	}
	if fileHeader.Size > maxUploadSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File too large"})
		return
	}
	if !strings.HasSuffix(strings.ToLower(fileHeader.Filename), ".pdf") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Only PDF uploads are supported"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to open upload"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read upload"})
		return
	}

	extracted, err := h.extractionService.ParsePDF(c.Request.Context(), data, fileHeader.Filename)
	if err != nil {
		respondExtractionError(c, err)
		return
	}

	expense, err := h.expenseService.CreateFromExtraction(c.Request.Context(), *extracted, domain.SourcePDFExtract, fileHeader.Filename, data)
	if err != nil {
		respondExpenseError(c, "Failed to save extracted expense", err)
		return
	}
	logger.Info("Created draft expense from PDF",
		slog.String("expense_id", expense.ExpenseID),
		slog.String("filename", fileHeader.Filename))
	c.JSON(http.StatusCreated, dto.ToExpenseResponse(expense))
}

// respondExtractionError maps extraction errors onto HTTP responses. No
// partial record exists at this point; the caller simply gets the failure.
func respondExtractionError(c *gin.Context, err error) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	switch {
	case errors.Is(err, apperrors.ErrNoExtractableText):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Could not extract text from PDF. The PDF may be image-based or empty."})
	case errors.Is(err, apperrors.ErrMalformedAIResponse):
		logger.Warn("AI returned malformed expense data", slog.String("error", err.Error()))
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "AI response could not be interpreted as expense data"})
	case errors.Is(err, apperrors.ErrExtractionFailed):
		logger.Error("AI extraction failed", slog.String("error", err.Error()))
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Expense extraction failed"})
	default:
		logger.Error("Unexpected extraction error", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Expense extraction failed"})
	}
}
