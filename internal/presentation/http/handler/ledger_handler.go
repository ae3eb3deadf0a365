package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/canteenhq/finance-api/internal/application/service"
	"github.com/canteenhq/finance-api/internal/domain/enum"
	"github.com/canteenhq/finance-api/internal/domain/repository"
	"github.com/canteenhq/finance-api/internal/presentation/http/dto/request"
	"github.com/canteenhq/finance-api/internal/presentation/http/dto/response"
	"github.com/canteenhq/finance-api/pkg/pagination"
)

// LedgerHandler handles cash ledger HTTP requests
type LedgerHandler struct {
	ledgerService *service.LedgerService
}

// NewLedgerHandler creates a new ledger handler
func NewLedgerHandler(ledgerService *service.LedgerService) *LedgerHandler {
	return &LedgerHandler{ledgerService: ledgerService}
}

// List handles listing ledger entries
// @Summary List ledger entries
// @Description List ledger entries newest first, with optional type, source and date filters
// @Tags ledger
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.APIResponse
// @Router /ledger [get]
func (h *LedgerHandler) List(c *gin.Context) {
	var pg pagination.PaginationParams
	if err := c.ShouldBindQuery(&pg); err != nil {
		response.BadRequest(c, "Invalid pagination parameters")
		return
	}
	pg.Validate()

	params := &repository.TransactionFilterParams{Pagination: &pg}

	if t := c.Query("type"); t != "" {
		txType := enum.TransactionType(t)
		if !txType.Valid() {
			response.BadRequest(c, "Unknown transaction type: "+t)
			return
		}
		params.Type = &txType
	}
	if s := c.Query("source"); s != "" {
		source := enum.TransactionSource(s)
		if !source.Valid() {
			response.BadRequest(c, "Unknown transaction source: "+s)
			return
		}
		params.Source = &source
	}
	if from := c.Query("start_date"); from != "" {
		start, err := parseDay(from)
		if err != nil {
			response.BadRequest(c, "start_date must be in YYYY-MM-DD form")
			return
		}
		params.StartDate = &start
	}
	if to := c.Query("end_date"); to != "" {
		end, err := parseDay(to)
		if err != nil {
			response.BadRequest(c, "end_date must be in YYYY-MM-DD form")
			return
		}
		params.EndDate = &end
	}

	result, err := h.ledgerService.List(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Ledger entries retrieved successfully", result)
}

// Get handles fetching a single ledger entry
func (h *LedgerHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid transaction ID")
		return
	}

	transaction, err := h.ledgerService.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Transaction retrieved successfully", transaction)
}

// Create handles appending a ledger entry
// @Summary Create ledger entry
// @Description Append a manual credit or debit to the ledger
// @Tags ledger
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body request.CreateTransactionRequest true "Ledger entry"
// @Success 201 {object} response.APIResponse
// @Failure 422 {object} response.APIResponse
// @Router /ledger [post]
func (h *LedgerHandler) Create(c *gin.Context) {
	var req request.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	date, err := parseDay(req.Date)
	if err != nil {
		response.BadRequest(c, "date must be in YYYY-MM-DD form")
		return
	}

	transaction, err := h.ledgerService.Append(c.Request.Context(), &service.CreateTransactionInput{
		Date:        date,
		Description: req.Description,
		Type:        enum.TransactionType(req.Type),
		Amount:      req.Amount,
		Source:      enum.TransactionSource(req.Source),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Transaction created successfully", transaction)
}

// Update handles editing a manual ledger entry
func (h *LedgerHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid transaction ID")
		return
	}

	var req request.UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	input := &service.UpdateTransactionInput{
		Description: req.Description,
		Amount:      req.Amount,
	}
	if req.Date != nil {
		date, err := parseDay(*req.Date)
		if err != nil {
			response.BadRequest(c, "date must be in YYYY-MM-DD form")
			return
		}
		input.Date = &date
	}
	if req.Type != nil {
		txType := enum.TransactionType(*req.Type)
		input.Type = &txType
	}
	if req.Source != nil {
		source := enum.TransactionSource(*req.Source)
		input.Source = &source
	}

	transaction, err := h.ledgerService.Update(c.Request.Context(), id, input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Transaction updated successfully", transaction)
}

// Delete handles removing a manual ledger entry
func (h *LedgerHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid transaction ID")
		return
	}

	if err := h.ledgerService.Remove(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Transaction deleted successfully", nil)
}

// Balance handles fetching the ledger's running balance
// @Summary Ledger balance
// @Description Current running balance with credit and debit totals
// @Tags ledger
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.APIResponse
// @Router /ledger/balance [get]
func (h *LedgerHandler) Balance(c *gin.Context) {
	balance, err := h.ledgerService.Balance(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Balance retrieved successfully", balance)
}
