package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mslade/expensemate/internal/apperrors"
	portssvc "github.com/mslade/expensemate/internal/core/ports/services"
	"github.com/mslade/expensemate/internal/middleware"
)

// currencyHandler exposes the currencies known to the rate provider.
type currencyHandler struct {
	rateService portssvc.RateProviderSvc
	converter   portssvc.ConverterSvc
}

// RegisterCurrencyRoutes registers routes related to currencies.
func RegisterCurrencyRoutes(rg *gin.RouterGroup, rates portssvc.RateProviderSvc, converter portssvc.ConverterSvc) {
	h := &currencyHandler{rateService: rates, converter: converter}
	rg.GET("/currencies", h.listCurrencies)
}

// listCurrencies godoc
// @Summary List supported currencies
// @Description Currency codes known to the daily rate feed, plus the base currency
// @Tags currencies
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]string "Rate source unavailable"
// @Router /currencies [get]
func (h *currencyHandler) listCurrencies(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	codes, err := h.rateService.SupportedCurrencies(c.Request.Context())
	if err != nil {
		if errors.Is(err, apperrors.ErrRateSourceUnavailable) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Exchange rate source is unavailable"})
			return
		}
		logger.Error("Failed to list currencies", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list currencies"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"baseCurrency": h.converter.BaseCurrency(),
		"currencies":   codes,
	})
}
