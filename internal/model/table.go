package model

// TableType describes the physical shape of a table.
type TableType string

const (
	TableTypeStandard  TableType = "STANDARD"
	TableTypeCircular  TableType = "CIRCULAR"
	TableTypeVIPSquare TableType = "VIP_SQUARE"
)

// Valid reports whether t is one of the known table types.
func (t TableType) Valid() bool {
	switch t {
	case TableTypeStandard, TableTypeCircular, TableTypeVIPSquare:
		return true
	}
	return false
}

// Table is a seating unit inside an area.
type Table struct {
	ID       string    `gorm:"primaryKey;size:64" json:"id"`
	AreaID   string    `gorm:"size:64;index;not null" json:"areaId"`
	Capacity int       `gorm:"not null" json:"capacity"`
	Type     TableType `gorm:"size:32;not null" json:"type"`
	Position int64     `gorm:"index;not null" json:"-"`
}
