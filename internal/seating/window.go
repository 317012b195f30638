package seating

import (
	"restaurant-seating-backend/internal/model"
	"restaurant-seating-backend/internal/parse"
)

// Window is a half-open [Start, End) span in minutes since midnight of a single date.
// End may exceed 24*60 when a reservation runs past midnight.
type Window struct {
	Start int
	End   int
}

// NewWindow builds the window starting at start (HH:MM) and lasting duration minutes.
func NewWindow(start string, duration int) (Window, error) {
	begin, err := parse.Clock(start)
	if err != nil {
		return Window{}, err
	}
	return Window{Start: begin, End: begin + duration}, nil
}

// EndTime returns start plus duration minutes as HH:MM. The hour is not wrapped,
// so "23:30" plus 60 minutes is "24:30".
func EndTime(start string, duration int) (string, error) {
	w, err := NewWindow(start, duration)
	if err != nil {
		return "", err
	}
	return parse.FormatClock(w.End), nil
}

// Overlaps reports whether the two windows share any minute. Touching windows do not overlap.
func (w Window) Overlaps(o Window) bool {
	return w.Start < o.End && w.End > o.Start
}

func (w Window) StartTime() string { return parse.FormatClock(w.Start) }
func (w Window) EndTime() string   { return parse.FormatClock(w.End) }

func reservationWindow(r model.Reservation) (Window, error) {
	start, err := parse.Clock(r.StartTime)
	if err != nil {
		return Window{}, err
	}
	end, err := parse.Clock(r.EndTime)
	if err != nil {
		return Window{}, err
	}
	return Window{Start: start, End: end}, nil
}
