package validator

import (
	"errors"
	"guesthouse/pkg/logger"
	"guesthouse/pkg/model"
	"strings"
	"testing"
	"time"
)

const (
	roomHex = "665f1c2e8a1b2c3d4e5f6a7b"
	userHex = "665f1c2e8a1b2c3d4e5f6a7c"
)

func validBooking() *model.Booking {
	return &model.Booking{
		UserID:        userHex,
		RoomID:        roomHex,
		CheckIn:       time.Date(2030, 6, 1, 0, 0, 0, 0, time.UTC),
		CheckOut:      time.Date(2030, 6, 3, 0, 0, 0, 0, time.UTC),
		Guests:        2,
		Status:        model.BookingStatusPending,
		PaymentStatus: model.PaymentStatusPending,
	}
}

func TestValidate_Booking(t *testing.T) {
	v := NewBookingValidator(logger.Discard())

	tests := []struct {
		name      string
		mutate    func(b *model.Booking)
		wantField string
		wantMsg   string
	}{
		{name: "valid"},
		{name: "unknown status", mutate: func(b *model.Booking) { b.Status = "archived" }, wantField: "Status", wantMsg: "must be one of"},
		{name: "missing status", mutate: func(b *model.Booking) { b.Status = "" }, wantField: "Status", wantMsg: "is required"},
		{name: "unknown payment status", mutate: func(b *model.Booking) { b.PaymentStatus = "overdue" }, wantField: "PaymentStatus", wantMsg: "pending paid refunded"},
		{name: "missing payment status", mutate: func(b *model.Booking) { b.PaymentStatus = "" }, wantField: "PaymentStatus", wantMsg: "is required"},
		{name: "bad room id", mutate: func(b *model.Booking) { b.RoomID = "room-1" }, wantField: "RoomID", wantMsg: "ObjectID"},
		{name: "reversed dates", mutate: func(b *model.Booking) { b.CheckOut = b.CheckIn.Add(-time.Hour) }, wantField: "CheckOut", wantMsg: "must be after CheckIn"},
		{name: "equal dates", mutate: func(b *model.Booking) { b.CheckOut = b.CheckIn }, wantField: "CheckOut", wantMsg: "must be after CheckIn"},
		{name: "zero guests", mutate: func(b *model.Booking) { b.Guests = 0 }, wantField: "Guests", wantMsg: "is required"},
		{name: "too many guests", mutate: func(b *model.Booking) { b.Guests = 21 }, wantField: "Guests", wantMsg: "at most 20"},
		{name: "negative price", mutate: func(b *model.Booking) { b.TotalPrice = -1 }, wantField: "TotalPrice", wantMsg: "at least 0"},
		{name: "long requests", mutate: func(b *model.Booking) { b.SpecialRequests = strings.Repeat("x", 1001) }, wantField: "SpecialRequests", wantMsg: "at most 1000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := validBooking()
			if tt.mutate != nil {
				tt.mutate(b)
			}

			err := v.Validate(b)
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				return
			}

			var verrs ValidationErrors
			if !errors.As(err, &verrs) {
				t.Fatalf("expected ValidationErrors, got %v", err)
			}
			found := false
			for _, e := range verrs {
				if e.Field == tt.wantField && strings.Contains(e.Message, tt.wantMsg) {
					found = true
				}
			}
			if !found {
				t.Errorf("expected %s error containing %q, got %v", tt.wantField, tt.wantMsg, verrs)
			}
		})
	}
}

func TestValidateCreate(t *testing.T) {
	v := NewBookingValidator(logger.Discard())
	in := time.Date(2030, 6, 1, 0, 0, 0, 0, time.UTC)

	ok := &model.CreateBookingRequest{RoomID: roomHex, CheckIn: in, CheckOut: in.AddDate(0, 0, 1), Guests: 1}
	if err := v.ValidateCreate(ok); err != nil {
		t.Fatalf("expected valid request, got %v", err)
	}

	bad := &model.CreateBookingRequest{CheckIn: in, CheckOut: in}
	err := v.ValidateCreate(bad)
	var verrs ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("expected ValidationErrors, got %v", err)
	}
	fields := map[string]bool{}
	for _, e := range verrs {
		fields[e.Field] = true
	}
	for _, f := range []string{"RoomID", "CheckOut", "Guests"} {
		if !fields[f] {
			t.Errorf("missing error for %s in %v", f, verrs)
		}
	}
}

func TestValidateAvailability(t *testing.T) {
	v := NewBookingValidator(logger.Discard())
	in := time.Date(2030, 6, 1, 0, 0, 0, 0, time.UTC)

	if err := v.ValidateAvailability(&model.AvailabilityQuery{RoomID: roomHex, CheckIn: in, CheckOut: in.AddDate(0, 0, 2)}); err != nil {
		t.Errorf("expected valid query, got %v", err)
	}
	if err := v.ValidateAvailability(&model.AvailabilityQuery{RoomID: roomHex, CheckIn: in, CheckOut: in}); err == nil {
		t.Error("expected zero-length range to fail")
	}
	if err := v.ValidateAvailability(&model.AvailabilityQuery{RoomID: roomHex}); err == nil {
		t.Error("expected missing dates to fail")
	}
}
