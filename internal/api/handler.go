package api

import (
	"go.uber.org/zap"

	"restaurant-seating-backend/internal/seating"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	seating *seating.Service
	logger  *zap.Logger
}

// NewHandler creates a new API handler.
func NewHandler(svc *seating.Service, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		seating: svc,
		logger:  logger,
	}
}
