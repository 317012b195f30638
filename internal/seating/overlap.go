package seating

import "restaurant-seating-backend/internal/model"

// Conflicts reports whether the existing reservation blocks tableID on date during w.
// Cancelled reservations never block. A reservation whose stored times cannot be
// read is treated as blocking.
func Conflicts(existing model.Reservation, tableID, date string, w Window, groups *ConflictGroups) bool {
	if existing.Date != date || existing.Status == model.StatusCancelled {
		return false
	}
	if !groups.Conflicts(existing.TableID, tableID) {
		return false
	}
	held, err := reservationWindow(existing)
	if err != nil {
		return true
	}
	return w.Overlaps(held)
}

// IsFree reports whether none of the reservations blocks tableID on date during w.
func IsFree(tableID, date string, w Window, reservations []model.Reservation, groups *ConflictGroups) bool {
	for _, r := range reservations {
		if Conflicts(r, tableID, date, w, groups) {
			return false
		}
	}
	return true
}
