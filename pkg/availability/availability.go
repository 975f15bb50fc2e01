// Package availability holds the date-range overlap rule shared by every
// availability answer in the system. Ranges are half-open: a stay occupies
// [check-in, check-out), so a check-out and a check-in on the same instant
// never collide.
package availability

import (
	"guesthouse/pkg/model"
	"time"
)

type Range struct {
	Start time.Time
	End   time.Time
}

func NewRange(start, end time.Time) Range {
	return Range{Start: start, End: end}
}

func (r Range) Valid() bool {
	return r.Start.Before(r.End)
}

// Overlaps reports whether existing and candidate share at least one instant.
func Overlaps(existing, candidate Range) bool {
	return existing.Start.Before(candidate.End) && existing.End.After(candidate.Start)
}

// Conflicts returns the bookings of roomID that block candidate.
func Conflicts(bookings []*model.Booking, roomID string, candidate Range) []*model.Booking {
	var out []*model.Booking
	for _, b := range bookings {
		if b == nil || b.RoomID != roomID || !b.Status.Blocks() {
			continue
		}
		if Overlaps(NewRange(b.CheckIn, b.CheckOut), candidate) {
			out = append(out, b)
		}
	}
	return out
}

func IsAvailable(bookings []*model.Booking, roomID string, candidate Range) bool {
	return len(Conflicts(bookings, roomID, candidate)) == 0
}
