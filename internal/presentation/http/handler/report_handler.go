package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/canteenhq/finance-api/internal/application/service"
	"github.com/canteenhq/finance-api/internal/presentation/http/dto/response"
)

// ReportHandler handles financial report HTTP requests
type ReportHandler struct {
	profitService *service.ProfitService
}

// NewReportHandler creates a new report handler
func NewReportHandler(profitService *service.ProfitService) *ReportHandler {
	return &ReportHandler{profitService: profitService}
}

// NetProfit handles the net-profit report
// @Summary Net profit report
// @Description Per-settlement-period net profit: confirmed revenue minus the amount settled
// @Tags reports
// @Security BearerAuth
// @Produce json
// @Param vendor_id query string false "Limit to one vendor"
// @Param from query string false "Feed window start (YYYY-MM-DD)"
// @Param till query string false "Feed window end (YYYY-MM-DD)"
// @Success 200 {object} response.APIResponse
// @Router /reports/net-profit [get]
func (h *ReportHandler) NetProfit(c *gin.Context) {
	var vendorID *uuid.UUID
	if v := c.Query("vendor_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			response.BadRequest(c, "Invalid vendor ID")
			return
		}
		vendorID = &id
	}

	var from, till *time.Time
	if f := c.Query("from"); f != "" {
		parsed, err := parseDay(f)
		if err != nil {
			response.BadRequest(c, "from must be in YYYY-MM-DD form")
			return
		}
		from = &parsed
	}
	if t := c.Query("till"); t != "" {
		parsed, err := parseDay(t)
		if err != nil {
			response.BadRequest(c, "till must be in YYYY-MM-DD form")
			return
		}
		till = &parsed
	}

	report, err := h.profitService.ComputeNetProfit(c.Request.Context(), vendorID, from, till)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Net profit report generated successfully", report)
}
