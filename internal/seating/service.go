// Package seating allocates restaurant tables to reservation requests.
package seating

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"restaurant-seating-backend/internal/events"
	"restaurant-seating-backend/internal/metrics"
	"restaurant-seating-backend/internal/model"
	"restaurant-seating-backend/internal/parse"
	"restaurant-seating-backend/internal/store"
)

// Options configures a Service. Zero values fall back to sensible defaults.
type Options struct {
	Layout         Layout
	ConflictGroups []ConflictGroup
	// Location decides what "today" is when rejecting past dates.
	Location  *time.Location
	Now       func() time.Time
	NewID     func() string
	Publisher events.Publisher
	Metrics   *metrics.Metrics
	Logger    *zap.Logger
}

// Service is the allocation core. It is safe for concurrent use.
type Service struct {
	store     store.Store
	layout    Layout
	groups    *ConflictGroups
	loc       *time.Location
	now       func() time.Time
	newID     func() string
	publisher events.Publisher
	metrics   *metrics.Metrics
	logger    *zap.Logger

	// mu is held exclusively by Reseed and shared by everything else.
	mu        sync.RWMutex
	areaMu    sync.Mutex
	areaLocks map[string]*sync.Mutex
}

func NewService(st store.Store, opts Options) *Service {
	s := &Service{
		store:     st,
		layout:    opts.Layout,
		groups:    NewConflictGroups(opts.ConflictGroups...),
		loc:       opts.Location,
		now:       opts.Now,
		newID:     opts.NewID,
		publisher: opts.Publisher,
		metrics:   opts.Metrics,
		logger:    opts.Logger,
		areaLocks: make(map[string]*sync.Mutex),
	}
	if len(s.layout.Areas) == 0 {
		s.layout = DefaultLayout()
		if len(opts.ConflictGroups) == 0 {
			s.groups = NewConflictGroups(DefaultConflictGroups()...)
		}
	}
	if s.loc == nil {
		s.loc = time.UTC
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.newID == nil {
		s.newID = func() string { return "res_" + uuid.NewString() }
	}
	if s.publisher == nil {
		s.publisher = events.NopPublisher{}
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	return s
}

// AreaSummary is an area together with the number of tables it currently holds.
type AreaSummary struct {
	model.Area
	CurrentTableCount int `json:"currentTableCount"`
}

// ReservationRequest is the input shared by availability checks and allocation.
type ReservationRequest struct {
	AreaID    string
	Date      string
	StartTime string
	Duration  int
	PartySize int
}

// Availability is the result of CheckAvailability. Tables is sorted by capacity.
type Availability struct {
	Available bool          `json:"available"`
	Message   string        `json:"message,omitempty"`
	Tables    []model.Table `json:"tables,omitempty"`
}

const unavailableMessage = "No tables available for that party size or time."

// Reseed drops all data and loads the configured layout.
func (s *Service) Reseed(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	l := s.layout.clone()
	if err := s.store.Reset(ctx, l.Areas, l.Tables); err != nil {
		return fmt.Errorf("reseed: %w", err)
	}
	s.logger.Info("seating layout loaded",
		zap.Int("areas", len(l.Areas)),
		zap.Int("tables", len(l.Tables)))
	return nil
}

// ListAreas returns every area with its current table count, composite tables included.
func (s *Service) ListAreas(ctx context.Context) ([]AreaSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	areas, err := s.store.ListAreas(ctx)
	if err != nil {
		return nil, fmt.Errorf("list areas: %w", err)
	}
	tables, err := s.store.ListTables(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	counts := make(map[string]int, len(areas))
	for _, t := range tables {
		counts[t.AreaID]++
	}

	out := make([]AreaSummary, 0, len(areas))
	for _, a := range areas {
		out = append(out, AreaSummary{Area: a, CurrentTableCount: counts[a.ID]})
	}
	return out, nil
}

// CreateTable adds a table to an area. The area's limit counts non-composite tables only.
// The new table is named <AREA>-<n+1> where n is that count, skipping ids already taken.
func (s *Service) CreateTable(ctx context.Context, areaID string, capacity int, tableType string) (*model.Table, error) {
	if areaID == "" {
		return nil, required("areaId")
	}
	if capacity <= 0 {
		return nil, &ValidationError{Field: "capacity", Reason: "must be a positive number"}
	}
	typ, err := parseTableType(tableType)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	unlock := s.lockArea(areaID)
	defer unlock()

	area, err := s.store.GetArea(ctx, areaID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrAreaNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get area %s: %w", areaID, err)
	}

	tables, err := s.store.ListTables(ctx, areaID)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	taken := make(map[string]struct{}, len(tables))
	regular := 0
	for _, t := range tables {
		taken[t.ID] = struct{}{}
		if !s.groups.IsComposite(t.ID) {
			regular++
		}
	}
	if regular >= area.MaxTables {
		return nil, fmt.Errorf("%w for %s (max: %d)", ErrAreaTableLimit, area.Name, area.MaxTables)
	}

	n := regular + 1
	id := fmt.Sprintf("%s-%d", areaID, n)
	for {
		if _, ok := taken[id]; !ok {
			break
		}
		n++
		id = fmt.Sprintf("%s-%d", areaID, n)
	}

	table := &model.Table{ID: id, AreaID: areaID, Capacity: capacity, Type: typ}
	if err := s.store.CreateTable(ctx, table); err != nil {
		return nil, fmt.Errorf("create table: %w", err)
	}
	s.logger.Info("table created",
		zap.String("areaId", areaID),
		zap.String("tableId", id),
		zap.Int("capacity", capacity))
	return table, nil
}

// validate checks the request fields and returns it with the date and start time
// normalized. When forBooking is set the date must also not be in the past.
func (s *Service) validate(req ReservationRequest, forBooking bool) (ReservationRequest, Window, error) {
	switch {
	case strings.TrimSpace(req.AreaID) == "":
		return req, Window{}, required("areaId")
	case strings.TrimSpace(req.Date) == "":
		return req, Window{}, required("date")
	case strings.TrimSpace(req.StartTime) == "":
		return req, Window{}, required("startTime")
	case req.Duration <= 0:
		return req, Window{}, &ValidationError{Field: "duration", Reason: "must be a positive number of minutes"}
	case req.PartySize <= 0:
		return req, Window{}, &ValidationError{Field: "partySize", Reason: "must be a positive number"}
	}

	day, err := parse.Date(req.Date, s.loc)
	if err != nil {
		if forBooking {
			return req, Window{}, ErrInvalidDate
		}
		return req, Window{}, &ValidationError{Field: "date", Reason: "must be YYYY-MM-DD"}
	}
	if forBooking {
		y, m, d := s.now().In(s.loc).Date()
		if day.Before(time.Date(y, m, d, 0, 0, 0, 0, s.loc)) {
			return req, Window{}, ErrInvalidDate
		}
	}

	start, err := parse.TimeOfDay(req.StartTime)
	if err != nil {
		return req, Window{}, &ValidationError{Field: "startTime", Reason: "must be HH:MM"}
	}
	req.AreaID = strings.TrimSpace(req.AreaID)
	req.Date = day.Format(parse.DateLayout)
	w := Window{Start: start, End: start + req.Duration}
	req.StartTime = w.StartTime()
	return req, w, nil
}

// CheckAvailability lists the free tables of the area seating at least the raw party size.
// An empty result is reported as unavailable, not as an error.
func (s *Service) CheckAvailability(ctx context.Context, req ReservationRequest) (*Availability, error) {
	req, w, err := s.validate(req, false)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	tables, err := s.store.ListTables(ctx, req.AreaID)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	existing, err := s.store.ListReservations(ctx, store.ReservationFilter{Date: req.Date})
	if err != nil {
		return nil, fmt.Errorf("list reservations: %w", err)
	}

	free := make([]model.Table, 0, len(tables))
	for _, t := range tables {
		if t.Capacity >= req.PartySize && IsFree(t.ID, req.Date, w, existing, s.groups) {
			free = append(free, t)
		}
	}
	sortByCapacity(free)

	s.metrics.AvailabilityChecked(req.AreaID, len(free) > 0)
	if len(free) == 0 {
		return &Availability{Available: false, Message: unavailableMessage}, nil
	}
	return &Availability{Available: true, Tables: free}, nil
}

// CreateReservation assigns the smallest free table that seats the party rounded up
// to its capacity tier, and stores a confirmed reservation for it.
func (s *Service) CreateReservation(ctx context.Context, req ReservationRequest) (*model.Reservation, error) {
	req, w, err := s.validate(req, true)
	if err != nil {
		return nil, err
	}

	reservation, err := s.allocate(ctx, req, w)
	if err != nil {
		return nil, err
	}
	s.metrics.ReservationCreated(reservation.AreaID)
	s.logger.Info("reservation created",
		zap.String("reservationId", reservation.ID),
		zap.String("tableId", reservation.TableID),
		zap.String("date", reservation.Date),
		zap.String("startTime", reservation.StartTime),
		zap.String("endTime", reservation.EndTime))
	s.publish(ctx, events.TypeReservationCreated, *reservation)
	return reservation, nil
}

func (s *Service) allocate(ctx context.Context, req ReservationRequest, w Window) (*model.Reservation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	unlock := s.lockArea(req.AreaID)
	defer unlock()

	tables, err := s.store.ListTables(ctx, req.AreaID)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	ideal := NormalizeCapacity(req.PartySize)
	candidates := make([]model.Table, 0, len(tables))
	for _, t := range tables {
		if t.Capacity >= ideal {
			candidates = append(candidates, t)
		}
	}
	if len(candidates) == 0 {
		s.metrics.AllocationFailed(req.AreaID, "capacity")
		return nil, ErrCapacityUnavailable
	}
	sortByCapacity(candidates)

	existing, err := s.store.ListReservations(ctx, store.ReservationFilter{Date: req.Date})
	if err != nil {
		return nil, fmt.Errorf("list reservations: %w", err)
	}

	for _, t := range candidates {
		if !IsFree(t.ID, req.Date, w, existing, s.groups) {
			continue
		}
		reservation := &model.Reservation{
			ID:        s.newID(),
			TableID:   t.ID,
			AreaID:    req.AreaID,
			PartySize: req.PartySize,
			Date:      req.Date,
			StartTime: w.StartTime(),
			EndTime:   w.EndTime(),
			Status:    model.StatusConfirmed,
			CreatedAt: s.now().UTC(),
		}
		if err := s.store.CreateReservation(ctx, reservation); err != nil {
			return nil, fmt.Errorf("create reservation: %w", err)
		}
		return reservation, nil
	}

	s.metrics.AllocationFailed(req.AreaID, "conflict")
	return nil, ErrScheduleConflict
}

// SetReservationStatus moves a reservation to CONFIRMED or CANCELLED. Confirming a
// cancelled reservation fails with ErrScheduleConflict when its table has since been taken.
func (s *Service) SetReservationStatus(ctx context.Context, id, status string) (*model.Reservation, error) {
	updated, err := s.setStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}
	s.metrics.StatusChanged(string(updated.Status))
	s.logger.Info("reservation status changed",
		zap.String("reservationId", updated.ID),
		zap.String("status", string(updated.Status)))
	s.publish(ctx, events.TypeReservationStatusChanged, *updated)
	return updated, nil
}

func (s *Service) setStatus(ctx context.Context, id, status string) (*model.Reservation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	current, err := s.store.GetReservation(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrReservationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get reservation %s: %w", id, err)
	}

	target := model.ReservationStatus(strings.ToUpper(strings.TrimSpace(status)))
	if target != model.StatusConfirmed && target != model.StatusCancelled {
		return nil, &ValidationError{Field: "status", Reason: "must be CONFIRMED or CANCELLED"}
	}

	unlock := s.lockArea(current.AreaID)
	defer unlock()

	if target == model.StatusConfirmed && current.Status == model.StatusCancelled {
		w, err := reservationWindow(*current)
		if err != nil {
			return nil, fmt.Errorf("reservation %s: %w", id, err)
		}
		existing, err := s.store.ListReservations(ctx, store.ReservationFilter{Date: current.Date})
		if err != nil {
			return nil, fmt.Errorf("list reservations: %w", err)
		}
		others := existing[:0:0]
		for _, r := range existing {
			if r.ID != current.ID {
				others = append(others, r)
			}
		}
		if !IsFree(current.TableID, current.Date, w, others, s.groups) {
			return nil, ErrScheduleConflict
		}
	}

	updated, err := s.store.UpdateReservationStatus(ctx, id, target)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrReservationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update reservation %s: %w", id, err)
	}
	return updated, nil
}

// ListReservations returns reservations in creation order. Empty filters match everything.
func (s *Service) ListReservations(ctx context.Context, date, areaID string) ([]model.Reservation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out, err := s.store.ListReservations(ctx, store.ReservationFilter{Date: date, AreaID: areaID})
	if err != nil {
		return nil, fmt.Errorf("list reservations: %w", err)
	}
	return out, nil
}

func (s *Service) lockArea(areaID string) func() {
	s.areaMu.Lock()
	l, ok := s.areaLocks[areaID]
	if !ok {
		l = &sync.Mutex{}
		s.areaLocks[areaID] = l
	}
	s.areaMu.Unlock()

	l.Lock()
	return l.Unlock
}

func (s *Service) publish(ctx context.Context, eventType string, r model.Reservation) {
	if err := s.publisher.Publish(ctx, events.NewReservationEvent(eventType, r, s.now())); err != nil {
		s.logger.Warn("failed to publish reservation event",
			zap.String("type", eventType),
			zap.String("reservationId", r.ID),
			zap.Error(err))
	}
}

// sortByCapacity orders tables by ascending capacity, keeping insertion order for ties.
func sortByCapacity(tables []model.Table) {
	sort.SliceStable(tables, func(i, j int) bool {
		return tables[i].Capacity < tables[j].Capacity
	})
}
