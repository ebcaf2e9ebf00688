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

// reservationHandler handles HTTP requests related to service reservations.
type reservationHandler struct {
	reservationService portssvc.ReservationSvcFacade
}

// newReservationHandler creates a new reservationHandler.
func newReservationHandler(rs portssvc.ReservationSvcFacade) *reservationHandler {
	return &reservationHandler{reservationService: rs}
}

// RegisterReservationRoutes registers routes related to reservations.
func RegisterReservationRoutes(rg *gin.RouterGroup, rs portssvc.ReservationSvcFacade) {
	h := newReservationHandler(rs)

	reservations := rg.Group("/reservations")
	{
		reservations.POST("", h.createReservation)
		reservations.GET("", h.listReservations)
		reservations.GET("/:id", h.getReservation)
		reservations.PUT("/:id", h.updateReservation)
		reservations.POST("/:id/status", h.changeStatus)
		reservations.DELETE("/:id", h.deleteReservation)
	}
}

// createReservation godoc
// @Summary Create a reservation
// @Description Creates a reservation in Draft with a generated reservation number
// @Tags reservations
// @Accept  json
// @Produce  json
// @Param   reservation body dto.CreateReservationRequest true "Reservation details"
// @Success 201 {object} dto.ReservationResponse
// @Security BearerAuth
// @Router /reservations [post]
func (h *reservationHandler) createReservation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateReservation", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	reservation, err := h.reservationService.CreateReservation(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to create reservation")
		return
	}

	logger.Info("Reservation created successfully",
		slog.Int64("reservation_id", reservation.ReservationID),
		slog.String("reservation_number", reservation.ReservationNumber))
	c.JSON(http.StatusCreated, dto.ToReservationResponse(reservation))
}

// listReservations godoc
// @Summary List reservations
// @Tags reservations
// @Produce  json
// @Param   status query string false "Lifecycle status filter"
// @Param   limit query int false "Limit number of results" default(50)
// @Param   offset query int false "Offset for pagination" default(0)
// @Success 200 {array} dto.ReservationResponse
// @Security BearerAuth
// @Router /reservations [get]
func (h *reservationHandler) listReservations(c *gin.Context) {
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

	reservations, err := h.reservationService.ListReservations(c.Request.Context(), filter)
	if err != nil {
		respondError(c, logger, err, "Failed to list reservations")
		return
	}

	c.JSON(http.StatusOK, dto.ToListReservationResponse(reservations))
}

// getReservation godoc
// @Summary Get a reservation by ID
// @Tags reservations
// @Produce  json
// @Param   id path int true "Reservation ID"
// @Success 200 {object} dto.ReservationResponse
// @Failure 404 {object} map[string]string "Reservation not found"
// @Security BearerAuth
// @Router /reservations/{id} [get]
func (h *reservationHandler) getReservation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	reservationID, ok := idParam(c, "id")
	if !ok {
		return
	}

	reservation, err := h.reservationService.GetReservationByID(c.Request.Context(), reservationID)
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve reservation")
		return
	}

	c.JSON(http.StatusOK, dto.ToReservationResponse(reservation))
}

// updateReservation godoc
// @Summary Update a reservation
// @Description Updates reservation details; terminal reservations reject updates
// @Tags reservations
// @Accept  json
// @Produce  json
// @Param   id path int true "Reservation ID"
// @Param   reservation body dto.UpdateReservationRequest true "Fields to update"
// @Success 200 {object} dto.ReservationResponse
// @Failure 409 {object} map[string]string "Reservation is in a terminal state"
// @Security BearerAuth
// @Router /reservations/{id} [put]
func (h *reservationHandler) updateReservation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	reservationID, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateReservation", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	reservation, err := h.reservationService.UpdateReservation(c.Request.Context(), reservationID, req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to update reservation")
		return
	}

	logger.Info("Reservation updated successfully", slog.Int64("reservation_id", reservationID))
	c.JSON(http.StatusOK, dto.ToReservationResponse(reservation))
}

// changeStatus godoc
// @Summary Change the lifecycle status of a reservation
// @Description Confirming with a cash box collects payment and posts revenue; cancelling reverses them
// @Tags reservations
// @Accept  json
// @Produce  json
// @Param   id path int true "Reservation ID"
// @Param   status body dto.ChangeStatusRequest true "Target status and optional payment details"
// @Success 200 {object} dto.ReservationResponse
// @Failure 409 {object} map[string]string "Transition not permitted"
// @Security BearerAuth
// @Router /reservations/{id}/status [post]
func (h *reservationHandler) changeStatus(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	reservationID, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req dto.ChangeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for ChangeReservationStatus", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger.Info("Received request to change reservation status",
		slog.Int64("reservation_id", reservationID),
		slog.String("target_status", string(req.Status)))

	reservation, err := h.reservationService.ChangeReservationStatus(c.Request.Context(), reservationID, req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to change reservation status")
		return
	}

	logger.Info("Reservation status changed successfully",
		slog.Int64("reservation_id", reservationID),
		slog.String("status", string(reservation.Status)))
	c.JSON(http.StatusOK, dto.ToReservationResponse(reservation))
}

// deleteReservation godoc
// @Summary Delete a reservation
// @Description Removes a reservation that is Draft or Cancelled
// @Tags reservations
// @Produce  json
// @Param   id path int true "Reservation ID"
// @Success 204 "No Content"
// @Failure 409 {object} map[string]string "Reservation is Confirmed or Completed"
// @Security BearerAuth
// @Router /reservations/{id} [delete]
func (h *reservationHandler) deleteReservation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	reservationID, ok := idParam(c, "id")
	if !ok {
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.reservationService.DeleteReservation(c.Request.Context(), reservationID, userID); err != nil {
		respondError(c, logger, err, "Failed to delete reservation")
		return
	}

	logger.Info("Reservation deleted successfully", slog.Int64("reservation_id", reservationID))
	c.Status(http.StatusNoContent)
}
