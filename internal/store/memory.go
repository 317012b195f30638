package store

import (
	"context"
	"fmt"
	"sync"

	"restaurant-seating-backend/internal/model"
)

// memoryStore keeps everything in ordered slices. It is the default backend
// since durability is not required.
type memoryStore struct {
	mu           sync.RWMutex
	areas        []model.Area
	tables       []model.Table
	reservations []model.Reservation
	position     int64
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() Store {
	return &memoryStore{}
}

func (s *memoryStore) nextPosition() int64 {
	s.position++
	return s.position
}

func (s *memoryStore) ListAreas(_ context.Context) ([]model.Area, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Area(nil), s.areas...), nil
}

func (s *memoryStore) GetArea(_ context.Context, id string) (*model.Area, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.areas {
		if s.areas[i].ID == id {
			area := s.areas[i]
			return &area, nil
		}
	}
	return nil, ErrNotFound
}

func (s *memoryStore) ListTables(_ context.Context, areaID string) ([]model.Table, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Table, 0, len(s.tables))
	for _, t := range s.tables {
		if areaID == "" || t.AreaID == areaID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *memoryStore) CreateTable(_ context.Context, table *model.Table) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.hasArea(table.AreaID) {
		return fmt.Errorf("create table %s: area %s: %w", table.ID, table.AreaID, ErrNotFound)
	}
	for _, t := range s.tables {
		if t.ID == table.ID {
			return fmt.Errorf("create table %s: duplicate id", table.ID)
		}
	}
	table.Position = s.nextPosition()
	s.tables = append(s.tables, *table)
	return nil
}

func (s *memoryStore) hasArea(id string) bool {
	for _, a := range s.areas {
		if a.ID == id {
			return true
		}
	}
	return false
}

func (s *memoryStore) ListReservations(_ context.Context, filter ReservationFilter) ([]model.Reservation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Reservation, 0, len(s.reservations))
	for i := range s.reservations {
		if filter.match(&s.reservations[i]) {
			out = append(out, s.reservations[i])
		}
	}
	return out, nil
}

func (s *memoryStore) GetReservation(_ context.Context, id string) (*model.Reservation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.reservations {
		if s.reservations[i].ID == id {
			r := s.reservations[i]
			return &r, nil
		}
	}
	return nil, ErrNotFound
}

func (s *memoryStore) CreateReservation(_ context.Context, reservation *model.Reservation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.reservations {
		if r.ID == reservation.ID {
			return fmt.Errorf("create reservation %s: duplicate id", reservation.ID)
		}
	}
	reservation.Position = s.nextPosition()
	s.reservations = append(s.reservations, *reservation)
	return nil
}

func (s *memoryStore) UpdateReservationStatus(_ context.Context, id string, status model.ReservationStatus) (*model.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.reservations {
		if s.reservations[i].ID == id {
			s.reservations[i].Status = status
			r := s.reservations[i]
			return &r, nil
		}
	}
	return nil, ErrNotFound
}

// Reset leaves the store untouched when the layout is rejected.
func (s *memoryStore) Reset(_ context.Context, areas []model.Area, tables []model.Table) error {
	known := make(map[string]struct{}, len(areas))
	for _, a := range areas {
		known[a.ID] = struct{}{}
	}
	for _, t := range tables {
		if _, ok := known[t.AreaID]; !ok {
			return fmt.Errorf("reset: table %s references unknown area %s", t.ID, t.AreaID)
		}
	}

	var position int64
	newAreas := make([]model.Area, 0, len(areas))
	for _, a := range areas {
		position++
		a.Position = position
		newAreas = append(newAreas, a)
	}
	newTables := make([]model.Table, 0, len(tables))
	for _, t := range tables {
		position++
		t.Position = position
		newTables = append(newTables, t)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.areas = newAreas
	s.tables = newTables
	s.reservations = nil
	s.position = position
	return nil
}
