package model

import "time"

// ReservationStatus is the lifecycle state of a reservation.
type ReservationStatus string

const (
	StatusPending   ReservationStatus = "PENDING"
	StatusConfirmed ReservationStatus = "CONFIRMED"
	StatusCancelled ReservationStatus = "CANCELLED"
)

// Reservation is a booked time window for a party at one table.
// Date is YYYY-MM-DD; StartTime and EndTime are HH:MM, and EndTime may run past 24:00.
type Reservation struct {
	ID        string            `gorm:"primaryKey;size:64" json:"id"`
	TableID   string            `gorm:"size:64;index;not null" json:"tableId"`
	AreaID    string            `gorm:"size:64;index;not null" json:"areaId"`
	PartySize int               `gorm:"not null" json:"partySize"`
	Date      string            `gorm:"size:10;index;not null" json:"date"`
	StartTime string            `gorm:"size:8;not null" json:"startTime"`
	EndTime   string            `gorm:"size:8;not null" json:"endTime"`
	Status    ReservationStatus `gorm:"size:16;not null" json:"status"`
	Position  int64             `gorm:"index;not null" json:"-"`
	CreatedAt time.Time         `gorm:"not null" json:"createdAt"`
}
