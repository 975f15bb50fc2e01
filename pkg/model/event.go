package model

import "time"

type BookingEventType string

const (
	BookingEventCreated   BookingEventType = "booking.created"
	BookingEventConfirmed BookingEventType = "booking.confirmed"
	BookingEventCancelled BookingEventType = "booking.cancelled"
	BookingEventCompleted BookingEventType = "booking.completed"
)

// BookingEventFor maps the status a booking just entered to the event announcing it.
func BookingEventFor(status BookingStatus) BookingEventType {
	switch status {
	case BookingStatusConfirmed:
		return BookingEventConfirmed
	case BookingStatusCancelled:
		return BookingEventCancelled
	case BookingStatusCompleted:
		return BookingEventCompleted
	default:
		return BookingEventCreated
	}
}

type BookingEvent struct {
	Type       BookingEventType `json:"type"`
	BookingID  string           `json:"booking_id"`
	UserID     string           `json:"user_id"`
	RoomID     string           `json:"room_id"`
	CheckIn    time.Time        `json:"check_in"`
	CheckOut   time.Time        `json:"check_out"`
	Guests     int              `json:"guests"`
	TotalPrice float64          `json:"total_price"`
	Status     BookingStatus    `json:"status"`
	OccurredAt time.Time        `json:"occurred_at"`
}

func NewBookingEvent(eventType BookingEventType, b *Booking, at time.Time) BookingEvent {
	return BookingEvent{
		Type:       eventType,
		BookingID:  b.ID,
		UserID:     b.UserID,
		RoomID:     b.RoomID,
		CheckIn:    b.CheckIn,
		CheckOut:   b.CheckOut,
		Guests:     b.Guests,
		TotalPrice: b.TotalPrice,
		Status:     b.Status,
		OccurredAt: at,
	}
}
