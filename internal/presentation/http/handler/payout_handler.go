package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/canteenhq/finance-api/internal/application/service"
	"github.com/canteenhq/finance-api/internal/presentation/http/dto/request"
	"github.com/canteenhq/finance-api/internal/presentation/http/dto/response"
)

// PayoutHandler handles vendor settlement HTTP requests
type PayoutHandler struct {
	payoutService *service.PayoutService
}

// NewPayoutHandler creates a new payout handler
func NewPayoutHandler(payoutService *service.PayoutService) *PayoutHandler {
	return &PayoutHandler{payoutService: payoutService}
}

// ListSettlements handles fetching a vendor's settlement sheet
// @Summary Vendor settlements
// @Description Per-day settlement sheet for one vendor, newest day first
// @Tags payouts
// @Security BearerAuth
// @Produce json
// @Param id path string true "Vendor ID"
// @Success 200 {object} response.APIResponse
// @Router /vendors/{id}/settlements [get]
func (h *PayoutHandler) ListSettlements(c *gin.Context) {
	vendorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid vendor ID")
		return
	}

	settlements, err := h.payoutService.ListVendorSettlements(c.Request.Context(), vendorID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Settlements retrieved successfully", settlements)
}

// UpdateSettlement handles a settlement status change for one vendor/day
// @Summary Settle vendor payout
// @Description Freeze the vendor's payout for one day; the only supported transition is to settled
// @Tags payouts
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Vendor ID"
// @Param date path string true "Payout day (YYYY-MM-DD)"
// @Param request body request.SettlementStatusRequest true "Status change"
// @Success 200 {object} response.APIResponse
// @Failure 409 {object} response.APIResponse
// @Router /vendors/{id}/settlements/{date} [put]
func (h *PayoutHandler) UpdateSettlement(c *gin.Context) {
	vendorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid vendor ID")
		return
	}

	day, err := parseDay(c.Param("date"))
	if err != nil {
		response.BadRequest(c, "date must be in YYYY-MM-DD form")
		return
	}

	var req request.SettlementStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	var settlementDate *time.Time
	if req.SettlementDate != nil {
		parsed, err := parseDay(*req.SettlementDate)
		if err != nil {
			response.BadRequest(c, "settlement_date must be in YYYY-MM-DD form")
			return
		}
		settlementDate = &parsed
	}

	payout, err := h.payoutService.UpdateSettlementStatus(c.Request.Context(), vendorID, day, req.Status, settlementDate)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Payout settled successfully", payout)
}
