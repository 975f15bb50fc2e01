package handler

import (
	"bytes"
	"context"
	"errors"
	"guesthouse/pkg/kafka"
	"guesthouse/pkg/logger"
	"guesthouse/pkg/model"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	sent []Notification
	err  error
}

func (f *fakeSender) Send(_ context.Context, n Notification) error {
	f.sent = append(f.sent, n)
	return f.err
}

func eventMessage(t *testing.T, eventType model.BookingEventType) kafka.Message {
	t.Helper()
	in := time.Date(2030, 6, 1, 0, 0, 0, 0, time.UTC)
	event := model.NewBookingEvent(eventType, &model.Booking{
		ID:         "665f1c2e8a1b2c3d4e5f6a7b",
		UserID:     "665f1c2e8a1b2c3d4e5f6a7c",
		RoomID:     "665f1c2e8a1b2c3d4e5f6a7d",
		CheckIn:    in,
		CheckOut:   in.AddDate(0, 0, 3),
		Guests:     2,
		TotalPrice: 807.3,
		Status:     model.BookingStatusPending,
	}, in)

	msg, err := kafka.NewMessage().
		WithKey(event.BookingID).
		WithValue(event).
		WithEventType(string(eventType)).
		WithCorrelationID("req-9").
		Build()
	require.NoError(t, err)
	return msg
}

func TestHandle_ComposesPerEventType(t *testing.T) {
	tests := []struct {
		eventType   model.BookingEventType
		wantSubject string
		wantBody    string
	}{
		{model.BookingEventCreated, "Booking received", "3 night(s), 2 guest(s)). Total 807.30"},
		{model.BookingEventConfirmed, "Booking confirmed", "Sat 1 Jun 2030 to Tue 4 Jun 2030 is confirmed"},
		{model.BookingEventCancelled, "Booking cancelled", "has been cancelled"},
		{model.BookingEventCompleted, "Thanks for staying with us", "is complete"},
	}

	for _, tt := range tests {
		t.Run(string(tt.eventType), func(t *testing.T) {
			sender := &fakeSender{}
			h := NewNotificationHandler(sender, logger.Discard())

			require.NoError(t, h.Handle(context.Background(), eventMessage(t, tt.eventType)))
			require.Len(t, sender.sent, 1)

			n := sender.sent[0]
			assert.Equal(t, tt.wantSubject, n.Subject)
			assert.Contains(t, n.Body, tt.wantBody)
			assert.Equal(t, "665f1c2e8a1b2c3d4e5f6a7c", n.UserID)
			assert.Equal(t, "req-9", n.CorrelationID)
		})
	}
}

func TestHandle_InvalidPayloadIsPermanent(t *testing.T) {
	sender := &fakeSender{}
	h := NewNotificationHandler(sender, logger.Discard())

	err := h.Handle(context.Background(), kafka.Message{Value: []byte("{not json"), Headers: map[string]string{}})
	require.Error(t, err)
	assert.Equal(t, kafka.ErrorTypePermanent, kafka.ClassifyError(err))
	assert.Empty(t, sender.sent)
}

func TestHandle_UnknownEventIsSkipped(t *testing.T) {
	sender := &fakeSender{}
	h := NewNotificationHandler(sender, logger.Discard())

	msg := eventMessage(t, model.BookingEventType("booking.archived"))
	assert.NoError(t, h.Handle(context.Background(), msg))
	assert.Empty(t, sender.sent)
}

func TestHandle_SendFailureIsRetryable(t *testing.T) {
	sender := &fakeSender{err: errors.New("smtp unavailable")}
	h := NewNotificationHandler(sender, logger.Discard())

	err := h.Handle(context.Background(), eventMessage(t, model.BookingEventConfirmed))
	require.Error(t, err)
	assert.Equal(t, kafka.ErrorTypeTransient, kafka.ClassifyError(err))
}

func TestLogSender_WritesNotification(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Output: &buf, Level: logger.INFO, Format: logger.JSON})

	err := NewLogSender(log).Send(context.Background(), Notification{
		BookingID: "b1",
		UserID:    "u1",
		EventType: model.BookingEventCancelled,
		Subject:   "Booking cancelled",
	})
	require.NoError(t, err)

	out := buf.String()
	assert.True(t, strings.Contains(out, `"msg":"Guest notification"`), out)
	assert.Contains(t, out, `"booking_id":"b1"`)
	assert.Contains(t, out, `"event_type":"booking.cancelled"`)
}
