package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"restaurant-seating-backend/internal/seating"
)

const missingParams = "missing required parameters (partySize, date, startTime, duration, areaId)"

// slotParams are the fields shared by availability queries and reservation requests.
type slotParams struct {
	AreaID    string `form:"areaId" json:"areaId" binding:"required"`
	Date      string `form:"date" json:"date" binding:"required"`
	StartTime string `form:"startTime" json:"startTime" binding:"required"`
	Duration  int    `form:"duration" json:"duration" binding:"required"`
	PartySize int    `form:"partySize" json:"partySize" binding:"required"`
}

func (p slotParams) request() seating.ReservationRequest {
	return seating.ReservationRequest{
		AreaID:    p.AreaID,
		Date:      p.Date,
		StartTime: p.StartTime,
		Duration:  p.Duration,
		PartySize: p.PartySize,
	}
}

// GetAvailability handles GET /availability.
func (h *Handler) GetAvailability(c *gin.Context) {
	var params slotParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": missingParams})
		return
	}

	availability, err := h.seating.CheckAvailability(c.Request.Context(), params.request())
	if err != nil {
		h.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, availability)
}

// PostReservation handles POST /reservations.
func (h *Handler) PostReservation(c *gin.Context) {
	var params slotParams
	if err := c.ShouldBindJSON(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": missingParams})
		return
	}

	reservation, err := h.seating.CreateReservation(c.Request.Context(), params.request())
	if err != nil {
		h.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, reservation)
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

// PatchReservationStatus handles PATCH /reservations/:id/status.
func (h *Handler) PatchReservationStatus(c *gin.Context) {
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	reservation, err := h.seating.SetReservationStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		h.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, reservation)
}

// GetReservations handles GET /reservations with optional date and areaId filters.
func (h *Handler) GetReservations(c *gin.Context) {
	reservations, err := h.seating.ListReservations(c.Request.Context(), c.Query("date"), c.Query("areaId"))
	if err != nil {
		h.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, reservations)
}
