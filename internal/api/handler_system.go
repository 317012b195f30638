package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const welcomeBanner = "Welcome to the La Terraza seating API. The server is up and ready."

// GetRoot handles GET /.
func (h *Handler) GetRoot(c *gin.Context) {
	c.String(http.StatusOK, welcomeBanner)
}

// GetHealth handles GET /health.
func (h *Handler) GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// PostSeed handles POST /seed, dropping all data and reloading the layout.
func (h *Handler) PostSeed(c *gin.Context) {
	if err := h.seating.Reseed(c.Request.Context()); err != nil {
		h.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Data reset and seeded successfully"})
}
