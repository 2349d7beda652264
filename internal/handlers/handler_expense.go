package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mslade/expensemate/internal/apperrors"
	portssvc "github.com/mslade/expensemate/internal/core/ports/services"
	"github.com/mslade/expensemate/internal/dto"
	"github.com/mslade/expensemate/internal/middleware"
)

// expenseHandler handles HTTP requests related to expense records.
type expenseHandler struct {
	expenseService portssvc.ExpenseSvcFacade
}

// newExpenseHandler creates a new expenseHandler.
func newExpenseHandler(es portssvc.ExpenseSvcFacade) *expenseHandler {
	return &expenseHandler{expenseService: es}
}

// RegisterExpenseRoutes registers routes related to expense records.
func RegisterExpenseRoutes(rg *gin.RouterGroup, expenseService portssvc.ExpenseSvcFacade) {
	h := newExpenseHandler(expenseService)

	expenses := rg.Group("/expenses")
	{
		expenses.POST("", h.createExpense)
		expenses.GET("", h.listExpenses)
		expenses.GET("/:id", h.getExpenseByID)
		expenses.PUT("/:id", h.updateExpense)
		expenses.DELETE("/:id", h.deleteExpense)
		expenses.POST("/:id/confirm", h.confirmExpense)
		expenses.GET("/:id/attachment", h.downloadAttachment)
	}
	rg.POST("/backfill", h.backfillConversions)
}

// createExpense godoc
// @Summary Create a manual expense
// @Description Creates an expense record; the amount is converted to the base currency before persisting
// @Tags expenses
// @Accept json
// @Produce json
// @Param expense body dto.CreateExpenseRequest true "Expense details"
// @Success 201 {object} dto.ExpenseResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 503 {object} map[string]string "Rate source unavailable"
// @Router /expenses [post]
func (h *expenseHandler) createExpense(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateExpense", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	expense, err := h.expenseService.CreateExpense(c.Request.Context(), req)
	if err != nil {
		respondExpenseError(c, "Failed to create expense", err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToExpenseResponse(expense))
}

// listExpenses godoc
// @Summary List expenses
// @Description Lists expenses newest first, optionally filtered by type and status
// @Tags expenses
// @Produce json
// @Param type query string false "income or cost"
// @Param status query string false "draft or confirmed"
// @Success 200 {array} dto.ExpenseResponse
// @Router /expenses [get]
func (h *expenseHandler) listExpenses(c *gin.Context) {
	expenses, err := h.expenseService.ListExpenses(c.Request.Context(), c.Query("type"), c.Query("status"))
	if err != nil {
		respondExpenseError(c, "Failed to list expenses", err)
		return
	}
	c.JSON(http.StatusOK, dto.ToListExpenseResponse(expenses))
}

// getExpenseByID godoc
// @Summary Get one expense
// @Tags expenses
// @Produce json
// @Param id path string true "Expense ID"
// @Success 200 {object} dto.ExpenseResponse
// @Failure 404 {object} map[string]string "Not found"
// @Router /expenses/{id} [get]
func (h *expenseHandler) getExpenseByID(c *gin.Context) {
	expense, err := h.expenseService.GetExpenseByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondExpenseError(c, "Failed to get expense", err)
		return
	}
	c.JSON(http.StatusOK, dto.ToExpenseResponse(expense))
}

// updateExpense godoc
// @Summary Edit an expense
// @Description Applies a partial edit; changing amount or currency re-runs the base-currency conversion
// @Tags expenses
// @Accept json
// @Produce json
// @Param id path string true "Expense ID"
// @Param expense body dto.UpdateExpenseRequest true "Fields to change"
// @Success 200 {object} dto.ExpenseResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "Not found"
// @Router /expenses/{id} [put]
func (h *expenseHandler) updateExpense(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.UpdateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateExpense", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	expense, err := h.expenseService.UpdateExpense(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondExpenseError(c, "Failed to update expense", err)
		return
	}
	c.JSON(http.StatusOK, dto.ToExpenseResponse(expense))
}

// confirmExpense godoc
// @Summary Confirm a draft expense
// @Description One-way transition from draft to confirmed
// @Tags expenses
// @Produce json
// @Param id path string true "Expense ID"
// @Success 200 {object} dto.ExpenseResponse
// @Failure 404 {object} map[string]string "Not found"
// @Router /expenses/{id}/confirm [post]
func (h *expenseHandler) confirmExpense(c *gin.Context) {
	expense, err := h.expenseService.ConfirmExpense(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondExpenseError(c, "Failed to confirm expense", err)
		return
	}
	c.JSON(http.StatusOK, dto.ToExpenseResponse(expense))
}

// deleteExpense godoc
// @Summary Delete an expense
// @Tags expenses
// @Param id path string true "Expense ID"
// @Success 204
// @Failure 404 {object} map[string]string "Not found"
// @Router /expenses/{id} [delete]
func (h *expenseHandler) deleteExpense(c *gin.Context) {
	if err := h.expenseService.DeleteExpense(c.Request.Context(), c.Param("id")); err != nil {
		respondExpenseError(c, "Failed to delete expense", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// downloadAttachment godoc
// @Summary Download the stored source document
// @Tags expenses
// @Produce application/pdf
// @Param id path string true "Expense ID"
// @Success 200 {file} binary
// @Failure 404 {object} map[string]string "No attachment"
// @Router /expenses/{id}/attachment [get]
func (h *expenseHandler) downloadAttachment(c *gin.Context) {
	expense, err := h.expenseService.GetExpenseByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondExpenseError(c, "Failed to get expense", err)
		return
	}
	if !expense.HasAttachment() {
		c.JSON(http.StatusNotFound, gin.H{"error": "No attachment"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+expense.AttachmentFilename+`"`)
	c.Data(http.StatusOK, "application/pdf", expense.AttachmentData)
}

// backfillConversions godoc
// @Summary Retry missing base-currency conversions
// @Description Idempotent sweep over records whose conversion is absent
// @Tags expenses
// @Produce json
// @Success 200 {object} dto.BackfillResponse
// @Failure 503 {object} map[string]string "Rate source unavailable"
// @Router /backfill [post]
func (h *expenseHandler) backfillConversions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	converted, err := h.expenseService.BackfillConversions(c.Request.Context())
	if err != nil {
		logger.Error("Backfill sweep failed", slog.Int("converted", converted), slog.String("error", err.Error()))
		respondExpenseError(c, "Backfill sweep failed", err)
		return
	}
	logger.Info("Backfill sweep completed", slog.Int("converted", converted))
	c.JSON(http.StatusOK, dto.BackfillResponse{Converted: converted})
}

// respondExpenseError maps service errors onto HTTP responses.
func respondExpenseError(c *gin.Context, msg string, err error) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Expense not found"})
	case errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrRateSourceUnavailable):
		logger.Error(msg, slog.String("error", err.Error()))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Exchange rate source is unavailable"})
	default:
		logger.Error(msg, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
	}
}
