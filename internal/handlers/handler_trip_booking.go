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

// tripBookingHandler handles HTTP requests related to group trip bookings.
type tripBookingHandler struct {
	tripBookingService portssvc.TripBookingSvcFacade
}

// newTripBookingHandler creates a new tripBookingHandler.
func newTripBookingHandler(ts portssvc.TripBookingSvcFacade) *tripBookingHandler {
	return &tripBookingHandler{tripBookingService: ts}
}

// RegisterTripBookingRoutes registers routes related to trip bookings.
func RegisterTripBookingRoutes(rg *gin.RouterGroup, ts portssvc.TripBookingSvcFacade) {
	h := newTripBookingHandler(ts)

	bookings := rg.Group("/trip-bookings")
	{
		bookings.POST("", h.createTripBooking)
		bookings.GET("", h.listTripBookings)
		bookings.GET("/:id", h.getTripBooking)
		bookings.PUT("/:id", h.updateTripBooking)
		bookings.POST("/:id/status", h.changeStatus)
		bookings.DELETE("/:id", h.deleteTripBooking)
	}
}

// createTripBooking godoc
// @Summary Create a trip booking
// @Description Creates a trip booking in Draft with a generated booking number
// @Tags trip-bookings
// @Accept  json
// @Produce  json
// @Param   booking body dto.CreateTripBookingRequest true "Booking details"
// @Success 201 {object} dto.TripBookingResponse
// @Security BearerAuth
// @Router /trip-bookings [post]
func (h *tripBookingHandler) createTripBooking(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateTripBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateTripBooking", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	booking, err := h.tripBookingService.CreateTripBooking(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to create trip booking")
		return
	}

	logger.Info("Trip booking created successfully",
		slog.Int64("trip_booking_id", booking.TripBookingID),
		slog.String("booking_number", booking.BookingNumber))
	c.JSON(http.StatusCreated, dto.ToTripBookingResponse(booking))
}

// listTripBookings godoc
// @Summary List trip bookings
// @Tags trip-bookings
// @Produce  json
// @Param   status query string false "Lifecycle status filter"
// @Param   limit query int false "Limit number of results" default(50)
// @Param   offset query int false "Offset for pagination" default(0)
// @Success 200 {array} dto.TripBookingResponse
// @Security BearerAuth
// @Router /trip-bookings [get]
func (h *tripBookingHandler) listTripBookings(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListBookingsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	filter := portsrepo.BookingListFilter{Limit: params.Limit, Offset: params.Offset}
	if params.Status != "" {
		status := domain.BookingStatus(params.Status)
		if !status.IsValid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status: " + params.Status})
			return
		}
		filter.Status = &status
	}

	bookings, err := h.tripBookingService.ListTripBookings(c.Request.Context(), filter)
	if err != nil {
		respondError(c, logger, err, "Failed to list trip bookings")
		return
	}

	c.JSON(http.StatusOK, dto.ToListTripBookingResponse(bookings))
}

// getTripBooking godoc
// @Summary Get a trip booking by ID
// @Tags trip-bookings
// @Produce  json
// @Param   id path int true "Trip booking ID"
// @Success 200 {object} dto.TripBookingResponse
// @Failure 404 {object} map[string]string "Trip booking not found"
// @Security BearerAuth
// @Router /trip-bookings/{id} [get]
func (h *tripBookingHandler) getTripBooking(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tripBookingID, ok := idParam(c, "id")
	if !ok {
		return
	}

	booking, err := h.tripBookingService.GetTripBookingByID(c.Request.Context(), tripBookingID)
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve trip booking")
		return
	}

	c.JSON(http.StatusOK, dto.ToTripBookingResponse(booking))
}

// updateTripBooking godoc
// @Summary Update a trip booking
// @Description Updates booking details; terminal bookings reject updates
// @Tags trip-bookings
// @Accept  json
// @Produce  json
// @Param   id path int true "Trip booking ID"
// @Param   booking body dto.UpdateTripBookingRequest true "Fields to update"
// @Success 200 {object} dto.TripBookingResponse
// @Failure 409 {object} map[string]string "Booking is in a terminal state"
// @Security BearerAuth
// @Router /trip-bookings/{id} [put]
func (h *tripBookingHandler) updateTripBooking(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tripBookingID, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateTripBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateTripBooking", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	booking, err := h.tripBookingService.UpdateTripBooking(c.Request.Context(), tripBookingID, req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to update trip booking")
		return
	}

	logger.Info("Trip booking updated successfully", slog.Int64("trip_booking_id", tripBookingID))
	c.JSON(http.StatusOK, dto.ToTripBookingResponse(booking))
}

// changeStatus godoc
// @Summary Change the lifecycle status of a trip booking
// @Description Confirming with a cash box collects payment and posts revenue; cancelling reverses them
// @Tags trip-bookings
// @Accept  json
// @Produce  json
// @Param   id path int true "Trip booking ID"
// @Param   status body dto.ChangeStatusRequest true "Target status and optional payment details"
// @Success 200 {object} dto.TripBookingResponse
// @Failure 409 {object} map[string]string "Transition not permitted"
// @Security BearerAuth
// @Router /trip-bookings/{id}/status [post]
func (h *tripBookingHandler) changeStatus(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tripBookingID, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req dto.ChangeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for ChangeTripBookingStatus", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger.Info("Received request to change trip booking status",
		slog.Int64("trip_booking_id", tripBookingID),
		slog.String("target_status", string(req.Status)))

	booking, err := h.tripBookingService.ChangeTripBookingStatus(c.Request.Context(), tripBookingID, req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to change trip booking status")
		return
	}

	logger.Info("Trip booking status changed successfully",
		slog.Int64("trip_booking_id", tripBookingID),
		slog.String("status", string(booking.Status)))
	c.JSON(http.StatusOK, dto.ToTripBookingResponse(booking))
}

// deleteTripBooking godoc
// @Summary Delete a trip booking
// @Description Removes a booking that is Draft or Cancelled
// @Tags trip-bookings
// @Produce  json
// @Param   id path int true "Trip booking ID"
// @Success 204 "No Content"
// @Failure 409 {object} map[string]string "Booking is Confirmed or Completed"
// @Security BearerAuth
// @Router /trip-bookings/{id} [delete]
func (h *tripBookingHandler) deleteTripBooking(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tripBookingID, ok := idParam(c, "id")
	if !ok {
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.tripBookingService.DeleteTripBooking(c.Request.Context(), tripBookingID, userID); err != nil {
		respondError(c, logger, err, "Failed to delete trip booking")
		return
	}

	logger.Info("Trip booking deleted successfully", slog.Int64("trip_booking_id", tripBookingID))
	c.Status(http.StatusNoContent)
}
