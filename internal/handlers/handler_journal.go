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

// journalHandler handles HTTP requests related to journal entries.
type journalHandler struct {
	journalService portssvc.JournalSvcFacade
}

// newJournalHandler creates a new journalHandler.
func newJournalHandler(js portssvc.JournalSvcFacade) *journalHandler {
	return &journalHandler{journalService: js}
}

// RegisterJournalRoutes registers routes related to journal entries.
func RegisterJournalRoutes(rg *gin.RouterGroup, js portssvc.JournalSvcFacade) {
	h := newJournalHandler(js)

	entries := rg.Group("/journal-entries")
	{
		entries.POST("", h.createManualEntry)
		entries.GET("", h.listEntries)
		entries.GET("/:id", h.getEntry)
		entries.GET("/by-number/:entryNumber", h.getEntryByNumber)
		entries.DELETE("/:id", h.deleteEntry)
		entries.POST("/sales-invoice", h.postSalesInvoice)
		entries.POST("/purchase-invoice", h.postPurchaseInvoice)
	}
}

// createManualEntry godoc
// @Summary Create a manual journal entry
// @Description Validates and persists a balanced manual entry with at least two lines
// @Tags journal
// @Accept  json
// @Produce  json
// @Param   entry body dto.CreateJournalEntryRequest true "Entry details"
// @Success 201 {object} dto.JournalEntryResponse
// @Failure 400 {object} map[string]string "Unbalanced or malformed entry"
// @Security BearerAuth
// @Router /journal-entries [post]
func (h *journalHandler) createManualEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateJournalEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateManualEntry", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	entry, err := h.journalService.CreateManualEntry(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to create journal entry")
		return
	}

	logger.Info("Journal entry created successfully",
		slog.Int64("journal_entry_id", entry.JournalEntryID),
		slog.String("entry_number", entry.EntryNumber))
	c.JSON(http.StatusCreated, dto.ToJournalEntryResponse(entry))
}

// listEntries godoc
// @Summary List journal entries
// @Tags journal
// @Produce  json
// @Param   referenceType query string false "Source document type"
// @Param   referenceID query int false "Source document ID"
// @Param   entryType query string false "Manual or Auto"
// @Param   dateFrom query string false "Inclusive start date (YYYY-MM-DD)"
// @Param   dateTo query string false "Inclusive end date (YYYY-MM-DD)"
// @Param   limit query int false "Limit number of results" default(50)
// @Param   offset query int false "Offset for pagination" default(0)
// @Success 200 {array} dto.JournalEntryResponse
// @Security BearerAuth
// @Router /journal-entries [get]
func (h *journalHandler) listEntries(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListJournalEntriesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for ListEntries", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	filter := portsrepo.JournalListFilter{
		ReferenceID: params.ReferenceID,
		DateFrom:    params.DateFrom,
		DateTo:      params.DateTo,
		Limit:       params.Limit,
		Offset:      params.Offset,
	}
	if params.ReferenceType != "" {
		filter.ReferenceType = &params.ReferenceType
	}
	if params.EntryType != "" {
		entryType := domain.EntryType(params.EntryType)
		filter.EntryType = &entryType
	}

	entries, err := h.journalService.ListEntries(c.Request.Context(), filter)
	if err != nil {
		respondError(c, logger, err, "Failed to list journal entries")
		return
	}

	c.JSON(http.StatusOK, dto.ToListJournalEntryResponse(entries))
}

// getEntry godoc
// @Summary Get a journal entry by ID
// @Tags journal
// @Produce  json
// @Param   id path int true "Journal entry ID"
// @Success 200 {object} dto.JournalEntryResponse
// @Failure 404 {object} map[string]string "Entry not found"
// @Security BearerAuth
// @Router /journal-entries/{id} [get]
func (h *journalHandler) getEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	journalEntryID, ok := idParam(c, "id")
	if !ok {
		return
	}

	entry, err := h.journalService.GetEntryByID(c.Request.Context(), journalEntryID)
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve journal entry")
		return
	}

	c.JSON(http.StatusOK, dto.ToJournalEntryResponse(entry))
}

// getEntryByNumber godoc
// @Summary Get a journal entry by entry number
// @Tags journal
// @Produce  json
// @Param   entryNumber path string true "Entry number, e.g. JE-000042"
// @Success 200 {object} dto.JournalEntryResponse
// @Failure 404 {object} map[string]string "Entry not found"
// @Security BearerAuth
// @Router /journal-entries/by-number/{entryNumber} [get]
func (h *journalHandler) getEntryByNumber(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	entry, err := h.journalService.GetEntryByNumber(c.Request.Context(), c.Param("entryNumber"))
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve journal entry")
		return
	}

	c.JSON(http.StatusOK, dto.ToJournalEntryResponse(entry))
}

// deleteEntry godoc
// @Summary Delete a journal entry
// @Description Removes the entry and its lines; account display balances are unaffected
// @Tags journal
// @Produce  json
// @Param   id path int true "Journal entry ID"
// @Success 204 "No Content"
// @Failure 404 {object} map[string]string "Entry not found"
// @Security BearerAuth
// @Router /journal-entries/{id} [delete]
func (h *journalHandler) deleteEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	journalEntryID, ok := idParam(c, "id")
	if !ok {
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.journalService.DeleteEntry(c.Request.Context(), journalEntryID, userID); err != nil {
		respondError(c, logger, err, "Failed to delete journal entry")
		return
	}

	logger.Info("Journal entry deleted successfully", slog.Int64("journal_entry_id", journalEntryID))
	c.Status(http.StatusNoContent)
}

// postSalesInvoice godoc
// @Summary Post a sales invoice to the general ledger
// @Description Generates the receivables / revenue / tax entry for an externally managed sales invoice
// @Tags journal
// @Accept  json
// @Produce  json
// @Param   invoice body dto.SalesInvoiceRequest true "Invoice details"
// @Success 201 {object} dto.JournalEntryResponse
// @Failure 422 {object} map[string]string "Posting account mapping incomplete"
// @Security BearerAuth
// @Router /journal-entries/sales-invoice [post]
func (h *journalHandler) postSalesInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.SalesInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for PostSalesInvoice", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	entry, err := h.journalService.PostSalesInvoice(c.Request.Context(), req.ToSalesInvoice(), userID)
	if err != nil {
		respondError(c, logger, err, "Failed to post sales invoice")
		return
	}

	logger.Info("Sales invoice posted successfully",
		slog.String("invoice_number", req.InvoiceNumber),
		slog.String("entry_number", entry.EntryNumber))
	c.JSON(http.StatusCreated, dto.ToJournalEntryResponse(entry))
}

// postPurchaseInvoice godoc
// @Summary Post a purchase invoice to the general ledger
// @Description Generates the expense / tax / payables entry for an externally managed purchase invoice
// @Tags journal
// @Accept  json
// @Produce  json
// @Param   invoice body dto.PurchaseInvoiceRequest true "Invoice details"
// @Success 201 {object} dto.JournalEntryResponse
// @Failure 422 {object} map[string]string "Posting account mapping incomplete"
// @Security BearerAuth
// @Router /journal-entries/purchase-invoice [post]
func (h *journalHandler) postPurchaseInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.PurchaseInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for PostPurchaseInvoice", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	entry, err := h.journalService.PostPurchaseInvoice(c.Request.Context(), req.ToPurchaseInvoice(), userID)
	if err != nil {
		respondError(c, logger, err, "Failed to post purchase invoice")
		return
	}

	logger.Info("Purchase invoice posted successfully",
		slog.String("invoice_number", req.InvoiceNumber),
		slog.String("entry_number", entry.EntryNumber))
	c.JSON(http.StatusCreated, dto.ToJournalEntryResponse(entry))
}
