package model

// Area is a named seating section of the restaurant.
type Area struct {
	ID        string `gorm:"primaryKey;size:64" json:"id"`
	Name      string `gorm:"size:128;not null" json:"name"`
	MaxTables int    `gorm:"not null" json:"maxTables"`
	Position  int64  `gorm:"index;not null" json:"-"` // insertion order
}
