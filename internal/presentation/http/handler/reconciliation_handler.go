package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/canteenhq/finance-api/internal/application/service"
	"github.com/canteenhq/finance-api/internal/presentation/http/dto/request"
	"github.com/canteenhq/finance-api/internal/presentation/http/dto/response"
)

// ReconciliationHandler handles settlement reconciliation HTTP requests
type ReconciliationHandler struct {
	reconciliationService *service.ReconciliationService
}

// NewReconciliationHandler creates a new reconciliation handler
func NewReconciliationHandler(reconciliationService *service.ReconciliationService) *ReconciliationHandler {
	return &ReconciliationHandler{reconciliationService: reconciliationService}
}

// Sync handles a reconciliation run
// @Summary Sync processor settlements
// @Description Mirror recent settlement batches into the ledger; safe to re-run over overlapping windows
// @Tags reconciliation
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body request.SyncRequest false "Sync window"
// @Success 200 {object} response.APIResponse
// @Router /reconciliation/sync [post]
func (h *ReconciliationHandler) Sync(c *gin.Context) {
	var req request.SyncRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, "Invalid request body")
			return
		}
	}

	result, err := h.reconciliationService.SyncToLedger(c.Request.Context(), req.WindowDays)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Reconciliation completed", result)
}
