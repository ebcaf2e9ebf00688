package handlers

import (
	"log/slog"
	"net/http"

	"github.com/atlas-voyages/accounting-backend/internal/core/domain"
	portsrepo "github.com/atlas-voyages/accounting-backend/internal/core/ports/repositories"
	portssvc "github.com/atlas-voyages/accounting-backend/internal/core/ports/services"
	"github.com/atlas-voyages/accounting-backend/internal/dto"
	"github.com/atlas-voyages/accounting-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// cashBoxHandler handles HTTP requests related to cash boxes and their transactions.
type cashBoxHandler struct {
	cashBoxService portssvc.CashBoxSvcFacade
}

// newCashBoxHandler creates a new cashBoxHandler.
func newCashBoxHandler(cs portssvc.CashBoxSvcFacade) *cashBoxHandler {
	return &cashBoxHandler{cashBoxService: cs}
}

// RegisterCashBoxRoutes registers routes related to cash boxes and transactions.
func RegisterCashBoxRoutes(rg *gin.RouterGroup, cs portssvc.CashBoxSvcFacade) {
	h := newCashBoxHandler(cs)

	boxes := rg.Group("/cashboxes")
	{
		boxes.POST("", h.createCashBox)
		boxes.GET("", h.listCashBoxes)
		boxes.GET("/:id", h.getCashBox)
		boxes.PUT("/:id", h.updateCashBox)
		boxes.DELETE("/:id", h.deleteCashBox)
		boxes.GET("/:id/balance", h.getCashBoxBalance)
		boxes.GET("/:id/report", h.getMonthlyReport)
		boxes.POST("/:id/transactions", h.createTransaction)
		boxes.GET("/:id/transactions", h.listTransactions)
	}

	txns := rg.Group("/transactions")
	{
		txns.GET("/:id", h.getTransaction)
		txns.PUT("/:id", h.updateTransaction)
		txns.DELETE("/:id", h.deleteTransaction)
	}
}

// createCashBox godoc
// @Summary Create a new cash box
// @Tags cashboxes
// @Accept  json
// @Produce  json
// @Param   cashbox body dto.CreateCashBoxRequest true "Cash box details"
// @Success 201 {object} dto.CashBoxResponse
// @Failure 409 {object} map[string]string "Duplicate cash box code"
// @Security BearerAuth
// @Router /cashboxes [post]
func (h *cashBoxHandler) createCashBox(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateCashBoxRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateCashBox", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	box, err := h.cashBoxService.CreateCashBox(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to create cash box")
		return
	}

	logger.Info("Cash box created successfully",
		slog.Int64("cash_box_id", box.CashBoxID),
		slog.String("code", box.Code))
	c.JSON(http.StatusCreated, dto.ToCashBoxResponse(box))
}

// listCashBoxes godoc
// @Summary List cash boxes
// @Tags cashboxes
// @Produce  json
// @Param   activeOnly query bool false "List only active cash boxes"
// @Success 200 {array} dto.CashBoxResponse
// @Security BearerAuth
// @Router /cashboxes [get]
func (h *cashBoxHandler) listCashBoxes(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params struct {
		ActiveOnly bool `form:"activeOnly"`
	}
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	boxes, err := h.cashBoxService.ListCashBoxes(c.Request.Context(), params.ActiveOnly)
	if err != nil {
		respondError(c, logger, err, "Failed to list cash boxes")
		return
	}

	c.JSON(http.StatusOK, dto.ToListCashBoxResponse(boxes))
}

// getCashBox godoc
// @Summary Get a cash box by ID
// @Tags cashboxes
// @Produce  json
// @Param   id path int true "Cash box ID"
// @Success 200 {object} dto.CashBoxResponse
// @Failure 404 {object} map[string]string "Cash box not found"
// @Security BearerAuth
// @Router /cashboxes/{id} [get]
func (h *cashBoxHandler) getCashBox(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	cashBoxID, ok := idParam(c, "id")
	if !ok {
		return
	}

	box, err := h.cashBoxService.GetCashBoxByID(c.Request.Context(), cashBoxID)
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve cash box")
		return
	}

	c.JSON(http.StatusOK, dto.ToCashBoxResponse(box))
}

// updateCashBox godoc
// @Summary Update a cash box
// @Description Updates name, notes or active flag; balances move only through transactions
// @Tags cashboxes
// @Accept  json
// @Produce  json
// @Param   id path int true "Cash box ID"
// @Param   cashbox body dto.UpdateCashBoxRequest true "Fields to update"
// @Success 200 {object} dto.CashBoxResponse
// @Failure 404 {object} map[string]string "Cash box not found"
// @Security BearerAuth
// @Router /cashboxes/{id} [put]
func (h *cashBoxHandler) updateCashBox(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	cashBoxID, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateCashBoxRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateCashBox", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	box, err := h.cashBoxService.UpdateCashBox(c.Request.Context(), cashBoxID, req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to update cash box")
		return
	}

	logger.Info("Cash box updated successfully", slog.Int64("cash_box_id", cashBoxID))
	c.JSON(http.StatusOK, dto.ToCashBoxResponse(box))
}

// deleteCashBox godoc
// @Summary Delete a cash box
// @Description Permanently removes the cash box and every transaction recorded against it
// @Tags cashboxes
// @Produce  json
// @Param   id path int true "Cash box ID"
// @Success 204 "No Content"
// @Failure 404 {object} map[string]string "Cash box not found"
// @Security BearerAuth
// @Router /cashboxes/{id} [delete]
func (h *cashBoxHandler) deleteCashBox(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	cashBoxID, ok := idParam(c, "id")
	if !ok {
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.cashBoxService.DeleteCashBox(c.Request.Context(), cashBoxID, userID); err != nil {
		respondError(c, logger, err, "Failed to delete cash box")
		return
	}

	logger.Info("Cash box deleted successfully", slog.Int64("cash_box_id", cashBoxID))
	c.Status(http.StatusNoContent)
}

// getCashBoxBalance godoc
// @Summary Get the authoritative running balance of a cash box
// @Tags cashboxes
// @Produce  json
// @Param   id path int true "Cash box ID"
// @Success 200 {object} dto.CashBoxBalanceResponse
// @Failure 404 {object} map[string]string "Cash box not found"
// @Security BearerAuth
// @Router /cashboxes/{id}/balance [get]
func (h *cashBoxHandler) getCashBoxBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	cashBoxID, ok := idParam(c, "id")
	if !ok {
		return
	}

	box, err := h.cashBoxService.GetCashBoxByID(c.Request.Context(), cashBoxID)
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve cash box balance")
		return
	}

	c.JSON(http.StatusOK, dto.CashBoxBalanceResponse{
		CashBoxID: box.CashBoxID,
		Code:      box.Code,
		Balance:   box.CurrentBalance,
		Currency:  box.Currency,
	})
}

// getMonthlyReport godoc
// @Summary Get the monthly report of a cash box
// @Description Aggregates one calendar month of activity: totals, category breakdowns and transactions
// @Tags cashboxes
// @Produce  json
// @Param   id path int true "Cash box ID"
// @Param   month query int true "Calendar month (1-12)"
// @Param   year query int true "Calendar year"
// @Success 200 {object} dto.MonthlyReportResponse
// @Failure 400 {object} map[string]string "Month out of range"
// @Security BearerAuth
// @Router /cashboxes/{id}/report [get]
func (h *cashBoxHandler) getMonthlyReport(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	cashBoxID, ok := idParam(c, "id")
	if !ok {
		return
	}

	var params struct {
		Month int `form:"month" binding:"required"`
		Year  int `form:"year" binding:"required"`
	}
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	report, err := h.cashBoxService.MonthlyReport(c.Request.Context(), cashBoxID, params.Month, params.Year)
	if err != nil {
		respondError(c, logger, err, "Failed to build monthly report")
		return
	}

	c.JSON(http.StatusOK, dto.ToMonthlyReportResponse(report))
}

// createTransaction godoc
// @Summary Record a cash movement against a cash box
// @Description Records an income or expense, moves the balance and best-effort posts to the ledger
// @Tags cashboxes
// @Accept  json
// @Produce  json
// @Param   id path int true "Cash box ID"
// @Param   transaction body dto.CreateTransactionRequest true "Transaction details"
// @Success 201 {object} dto.TransactionResponse
// @Failure 422 {object} map[string]string "Insufficient funds"
// @Security BearerAuth
// @Router /cashboxes/{id}/transactions [post]
func (h *cashBoxHandler) createTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	cashBoxID, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req dto.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateTransaction", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	// The path parameter is authoritative.
	req.CashBoxID = cashBoxID

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	txn, err := h.cashBoxService.CreateTransaction(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to create transaction")
		return
	}

	logger.Info("Cash transaction created successfully",
		slog.Int64("transaction_id", txn.TransactionID),
		slog.String("voucher_number", txn.VoucherNumber))
	c.JSON(http.StatusCreated, dto.ToTransactionResponse(txn))
}

// listTransactions godoc
// @Summary List transactions of a cash box
// @Tags cashboxes
// @Produce  json
// @Param   id path int true "Cash box ID"
// @Param   type query string false "Income or Expense"
// @Param   category query string false "Category filter"
// @Param   month query int false "Calendar month filter"
// @Param   year query int false "Calendar year filter"
// @Param   limit query int false "Limit number of results" default(50)
// @Param   offset query int false "Offset for pagination" default(0)
// @Success 200 {array} dto.TransactionResponse
// @Security BearerAuth
// @Router /cashboxes/{id}/transactions [get]
func (h *cashBoxHandler) listTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	cashBoxID, ok := idParam(c, "id")
	if !ok {
		return
	}

	var params dto.ListTransactionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	filter := portsrepo.TransactionListFilter{
		CashBoxID: &cashBoxID,
		Month:     params.Month,
		Year:      params.Year,
		Limit:     params.Limit,
		Offset:    params.Offset,
	}
	if params.Type != "" {
		txnType := domain.TransactionType(params.Type)
		filter.Type = &txnType
	}
	if params.Category != "" {
		filter.Category = &params.Category
	}

	txns, err := h.cashBoxService.ListTransactions(c.Request.Context(), filter)
	if err != nil {
		respondError(c, logger, err, "Failed to list transactions")
		return
	}

	c.JSON(http.StatusOK, dto.ToListTransactionResponse(txns))
}

// getTransaction godoc
// @Summary Get a cash transaction by ID
// @Tags transactions
// @Produce  json
// @Param   id path int true "Transaction ID"
// @Success 200 {object} dto.TransactionResponse
// @Failure 404 {object} map[string]string "Transaction not found"
// @Security BearerAuth
// @Router /transactions/{id} [get]
func (h *cashBoxHandler) getTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	transactionID, ok := idParam(c, "id")
	if !ok {
		return
	}

	txn, err := h.cashBoxService.GetTransactionByID(c.Request.Context(), transactionID)
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve transaction")
		return
	}

	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}

// updateTransaction godoc
// @Summary Update a cash transaction
// @Description Reverses the old balance effect and applies the new one in a single write
// @Tags transactions
// @Accept  json
// @Produce  json
// @Param   id path int true "Transaction ID"
// @Param   transaction body dto.UpdateTransactionRequest true "New transaction details"
// @Success 200 {object} dto.TransactionResponse
// @Failure 404 {object} map[string]string "Transaction not found"
// @Failure 422 {object} map[string]string "Insufficient funds"
// @Security BearerAuth
// @Router /transactions/{id} [put]
func (h *cashBoxHandler) updateTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	transactionID, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateTransaction", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	txn, err := h.cashBoxService.UpdateTransaction(c.Request.Context(), transactionID, req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to update transaction")
		return
	}

	logger.Info("Cash transaction updated successfully", slog.Int64("transaction_id", transactionID))
	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}

// deleteTransaction godoc
// @Summary Delete a cash transaction
// @Description Soft-deletes the transaction and reverses its full balance effect
// @Tags transactions
// @Produce  json
// @Param   id path int true "Transaction ID"
// @Success 204 "No Content"
// @Failure 404 {object} map[string]string "Transaction not found"
// @Failure 422 {object} map[string]string "Reversal would overdraw the cash box"
// @Security BearerAuth
// @Router /transactions/{id} [delete]
func (h *cashBoxHandler) deleteTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	transactionID, ok := idParam(c, "id")
	if !ok {
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.cashBoxService.DeleteTransaction(c.Request.Context(), transactionID, userID); err != nil {
		respondError(c, logger, err, "Failed to delete transaction")
		return
	}

	logger.Info("Cash transaction deleted successfully", slog.Int64("transaction_id", transactionID))
	c.Status(http.StatusNoContent)
}
