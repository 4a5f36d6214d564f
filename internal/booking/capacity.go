package booking

import "rezerva/internal/domain/reservations"

// CanAdmit is the greedy capacity check: the guests already reserved in the
// window plus the requested guests must not exceed the venue's maximum
// capacity. When a reservation is being updated its own prior contribution is
// excluded via excludeID (0 means exclude nothing). The check is stateless
// and does not reserve capacity ahead of the write; two concurrent admits are
// kept from overbooking by the storage layer's transaction isolation.
func CanAdmit(maxCapacity int, windowReservations []reservations.Reservation, requestedGuests int, excludeID int64) bool {
	booked := 0
	for _, res := range windowReservations {
		if excludeID != 0 && res.ID == excludeID {
			continue
		}
		booked += res.NumberOfGuests
	}
	return booked+requestedGuests <= maxCapacity
}

// BookedGuests sums the guests of the given window reservations.
func BookedGuests(windowReservations []reservations.Reservation) int {
	total := 0
	for _, res := range windowReservations {
		total += res.NumberOfGuests
	}
	return total
}
