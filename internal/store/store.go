package store

import (
	"context"
	"errors"

	"restaurant-seating-backend/internal/model"
)

// ErrNotFound is returned when a looked-up record does not exist.
var ErrNotFound = errors.New("record not found")

// ReservationFilter narrows ListReservations. Empty fields match everything.
type ReservationFilter struct {
	Date   string
	AreaID string
}

func (f ReservationFilter) match(r *model.Reservation) bool {
	if f.Date != "" && r.Date != f.Date {
		return false
	}
	if f.AreaID != "" && r.AreaID != f.AreaID {
		return false
	}
	return true
}

// Store defines the repository of areas, tables and reservations.
// All listings come back in insertion order.
type Store interface {
	ListAreas(ctx context.Context) ([]model.Area, error)
	GetArea(ctx context.Context, id string) (*model.Area, error)
	// ListTables returns the tables of one area, or of every area when areaID is empty.
	ListTables(ctx context.Context, areaID string) ([]model.Table, error)
	CreateTable(ctx context.Context, table *model.Table) error

	ListReservations(ctx context.Context, filter ReservationFilter) ([]model.Reservation, error)
	GetReservation(ctx context.Context, id string) (*model.Reservation, error)
	CreateReservation(ctx context.Context, reservation *model.Reservation) error
	UpdateReservationStatus(ctx context.Context, id string, status model.ReservationStatus) (*model.Reservation, error)

	// Reset drops every reservation, table and area and loads the given layout.
	Reset(ctx context.Context, areas []model.Area, tables []model.Table) error
}
