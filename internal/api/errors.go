package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"restaurant-seating-backend/internal/seating"
)

// errorMapping maps one domain error to a status. An empty message means the
// error's own text is returned to the client.
type errorMapping struct {
	err     error
	status  int
	message string
}

// errorMapper translates service errors into HTTP responses. Mappings are
// checked in order, so more specific errors go first.
type errorMapper struct {
	mappings []errorMapping
}

func newErrorMapper() *errorMapper {
	return &errorMapper{}
}

func (m *errorMapper) with(err error, status int, message string) *errorMapper {
	m.mappings = append(m.mappings, errorMapping{err: err, status: status, message: message})
	return m
}

func (m *errorMapper) resolve(err error) (int, string) {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "request timeout"
	case errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable, "request cancelled"
	}
	for _, mapping := range m.mappings {
		if errors.Is(err, mapping.err) {
			if mapping.message != "" {
				return mapping.status, mapping.message
			}
			return mapping.status, err.Error()
		}
	}
	return http.StatusInternalServerError, "internal server error"
}

var seatingErrors = newErrorMapper().
	with(seating.ErrInvalidDate, http.StatusUnprocessableEntity, "date must be today or a future date").
	with(seating.ErrValidation, http.StatusBadRequest, "").
	with(seating.ErrAreaNotFound, http.StatusNotFound, "area not found").
	with(seating.ErrReservationNotFound, http.StatusNotFound, "reservation not found").
	with(seating.ErrCapacityUnavailable, http.StatusUnprocessableEntity, "").
	with(seating.ErrScheduleConflict, http.StatusConflict, "").
	with(seating.ErrAreaTableLimit, http.StatusConflict, "")

// abortWithError writes the mapped error and logs anything that is not a client error.
func (h *Handler) abortWithError(c *gin.Context, err error) {
	status, message := seatingErrors.resolve(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed",
			zap.String("path", c.FullPath()),
			zap.Error(err))
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, gin.H{"error": message})
}
