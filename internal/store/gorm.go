package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"restaurant-seating-backend/internal/model"
)

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) ListAreas(ctx context.Context) ([]model.Area, error) {
	var areas []model.Area
	if err := s.db.WithContext(ctx).Order("position, id").Find(&areas).Error; err != nil {
		return nil, fmt.Errorf("failed to list areas: %w", err)
	}
	return areas, nil
}

func (s *gormStore) GetArea(ctx context.Context, id string) (*model.Area, error) {
	var area model.Area
	if err := s.db.WithContext(ctx).First(&area, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get area %s: %w", id, err)
	}
	return &area, nil
}

func (s *gormStore) ListTables(ctx context.Context, areaID string) ([]model.Table, error) {
	var tables []model.Table
	q := s.db.WithContext(ctx).Order("position, id")
	if areaID != "" {
		q = q.Where("area_id = ?", areaID)
	}
	if err := q.Find(&tables).Error; err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	return tables, nil
}

func (s *gormStore) CreateTable(ctx context.Context, table *model.Table) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var areas int64
		if err := tx.Model(&model.Area{}).Where("id = ?", table.AreaID).Count(&areas).Error; err != nil {
			return fmt.Errorf("failed to look up area %s: %w", table.AreaID, err)
		}
		if areas == 0 {
			return fmt.Errorf("create table %s: area %s: %w", table.ID, table.AreaID, ErrNotFound)
		}
		pos, err := nextPosition(tx, &model.Table{})
		if err != nil {
			return err
		}
		table.Position = pos
		if err := tx.Create(table).Error; err != nil {
			return fmt.Errorf("failed to create table %s: %w", table.ID, err)
		}
		return nil
	})
}

func (s *gormStore) ListReservations(ctx context.Context, filter ReservationFilter) ([]model.Reservation, error) {
	var reservations []model.Reservation
	q := s.db.WithContext(ctx).Order("position, id")
	if filter.Date != "" {
		q = q.Where("date = ?", filter.Date)
	}
	if filter.AreaID != "" {
		q = q.Where("area_id = ?", filter.AreaID)
	}
	if err := q.Find(&reservations).Error; err != nil {
		return nil, fmt.Errorf("failed to list reservations: %w", err)
	}
	return reservations, nil
}

func (s *gormStore) GetReservation(ctx context.Context, id string) (*model.Reservation, error) {
	var r model.Reservation
	if err := s.db.WithContext(ctx).First(&r, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get reservation %s: %w", id, err)
	}
	return &r, nil
}

func (s *gormStore) CreateReservation(ctx context.Context, reservation *model.Reservation) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		pos, err := nextPosition(tx, &model.Reservation{})
		if err != nil {
			return err
		}
		reservation.Position = pos
		if err := tx.Create(reservation).Error; err != nil {
			return fmt.Errorf("failed to create reservation %s: %w", reservation.ID, err)
		}
		return nil
	})
}

func (s *gormStore) UpdateReservationStatus(ctx context.Context, id string, status model.ReservationStatus) (*model.Reservation, error) {
	res := s.db.WithContext(ctx).Model(&model.Reservation{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return nil, fmt.Errorf("failed to update reservation %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return s.GetReservation(ctx, id)
}

func (s *gormStore) Reset(ctx context.Context, areas []model.Area, tables []model.Table) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		all := tx.Session(&gorm.Session{AllowGlobalUpdate: true})
		for _, m := range []any{&model.Reservation{}, &model.Table{}, &model.Area{}} {
			if err := all.Delete(m).Error; err != nil {
				return fmt.Errorf("failed to clear %T: %w", m, err)
			}
		}

		var pos int64
		if len(areas) > 0 {
			rows := make([]model.Area, len(areas))
			for i, a := range areas {
				pos++
				a.Position = pos
				rows[i] = a
			}
			if err := tx.Create(&rows).Error; err != nil {
				return fmt.Errorf("failed to seed areas: %w", err)
			}
		}
		if len(tables) > 0 {
			rows := make([]model.Table, len(tables))
			for i, t := range tables {
				pos++
				t.Position = pos
				rows[i] = t
			}
			if err := tx.Create(&rows).Error; err != nil {
				return fmt.Errorf("failed to seed tables: %w", err)
			}
		}
		return nil
	})
}

// nextPosition returns the next insertion-order value for the table backing m.
func nextPosition(tx *gorm.DB, m any) (int64, error) {
	var max int64
	if err := tx.Model(m).Select("COALESCE(MAX(position), 0)").Scan(&max).Error; err != nil {
		return 0, fmt.Errorf("failed to read position for %T: %w", m, err)
	}
	return max + 1, nil
}
