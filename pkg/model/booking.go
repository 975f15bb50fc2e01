package model

import (
	"time"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusCompleted BookingStatus = "completed"
)

// bookingTransitions is the whole lifecycle. Statuses missing from the map are terminal.
var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingStatusPending:   {BookingStatusConfirmed, BookingStatusCancelled},
	BookingStatusConfirmed: {BookingStatusCompleted, BookingStatusCancelled},
}

func (s BookingStatus) IsValid() bool {
	switch s {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusCancelled, BookingStatusCompleted:
		return true
	}
	return false
}

// Blocks reports whether a booking in this status occupies its room.
func (s BookingStatus) Blocks() bool {
	return s != BookingStatusCancelled
}

func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	for _, allowed := range bookingTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s BookingStatus) String() string {
	return string(s)
}

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusPaid, PaymentStatusRefunded:
		return true
	}
	return false
}

type Booking struct {
	ID              string        `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	UserID          string        `json:"user_id" bson:"user_id" validate:"required,mongodb"`
	RoomID          string        `json:"room_id" bson:"room_id" validate:"required,mongodb"`
	CheckIn         time.Time     `json:"check_in" bson:"check_in" validate:"required"`
	CheckOut        time.Time     `json:"check_out" bson:"check_out" validate:"required,gtfield=CheckIn"`
	Guests          int           `json:"guests" bson:"guests" validate:"required,min=1,max=20"`
	TotalPrice      float64       `json:"total_price" bson:"total_price" validate:"min=0"`
	Status          BookingStatus `json:"status" bson:"status" validate:"required,booking_status"`
	PaymentStatus   PaymentStatus `json:"payment_status" bson:"payment_status" validate:"required,payment_status"`
	SpecialRequests string        `json:"special_requests,omitempty" bson:"special_requests,omitempty" validate:"omitempty,max=1000"`
	CreatedAt       time.Time     `json:"created_at" bson:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at" bson:"updated_at"`
}

// BookingWithRoom is a booking joined with its room. Room is nil when the room
// document is gone.
type BookingWithRoom struct {
	*Booking
	Room *Room `json:"room,omitempty"`
}

type CreateBookingRequest struct {
	RoomID          string    `json:"room_id" validate:"required,mongodb"`
	CheckIn         time.Time `json:"check_in" validate:"required"`
	CheckOut        time.Time `json:"check_out" validate:"required,gtfield=CheckIn"`
	Guests          int       `json:"guests" validate:"required,min=1,max=20"`
	SpecialRequests string    `json:"special_requests,omitempty" validate:"omitempty,max=1000"`
}

type AvailabilityQuery struct {
	RoomID   string    `validate:"required,mongodb"`
	CheckIn  time.Time `validate:"required"`
	CheckOut time.Time `validate:"required,gtfield=CheckIn"`
}
