package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetAreas handles GET /areas.
func (h *Handler) GetAreas(c *gin.Context) {
	areas, err := h.seating.ListAreas(c.Request.Context())
	if err != nil {
		h.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, areas)
}

type createTableRequest struct {
	Capacity int    `json:"capacity"`
	Type     string `json:"type"`
}

// PostTable handles POST /areas/:areaId/tables.
func (h *Handler) PostTable(c *gin.Context) {
	var req createTableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	table, err := h.seating.CreateTable(c.Request.Context(), c.Param("areaId"), req.Capacity, req.Type)
	if err != nil {
		h.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, table)
}
