package handler

import (
	"context"
	"fmt"
	"guesthouse/pkg/kafka"
	"guesthouse/pkg/logger"
	"guesthouse/pkg/model"
)

const dateLayout = "Mon 2 Jan 2006"

type Notification struct {
	BookingID     string
	UserID        string
	EventType     model.BookingEventType
	Subject       string
	Body          string
	CorrelationID string
}

// Sender delivers a notification to the guest.
type Sender interface {
	Send(ctx context.Context, n Notification) error
}

// LogSender writes notifications to the structured log. It stands in for a
// mail or push provider.
type LogSender struct {
	log *logger.Logger
}

func NewLogSender(log *logger.Logger) *LogSender {
	return &LogSender{log: log}
}

func (s *LogSender) Send(_ context.Context, n Notification) error {
	s.log.Info("Guest notification",
		"booking_id", n.BookingID,
		"user_id", n.UserID,
		"event_type", n.EventType,
		"subject", n.Subject,
		"body", n.Body,
		"correlation_id", n.CorrelationID,
	)
	return nil
}

type NotificationHandler struct {
	sender Sender
	log    *logger.Logger
}

func NewNotificationHandler(sender Sender, log *logger.Logger) *NotificationHandler {
	return &NotificationHandler{sender: sender, log: log}
}

// Handle is a kafka.MessageHandler for the booking events topic. Payloads that
// cannot be decoded are permanent failures and end up in the DLQ.
func (h *NotificationHandler) Handle(ctx context.Context, msg kafka.Message) error {
	var event model.BookingEvent
	if err := msg.DecodeValue(&event); err != nil {
		return kafka.NewPermanentError("invalid booking event payload", err)
	}
	if event.Type == "" {
		event.Type = model.BookingEventType(msg.GetEventType())
	}

	subject, body, ok := compose(event)
	if !ok {
		h.log.Warn("Skipping unknown booking event",
			"event_type", event.Type,
			"event_id", msg.GetEventID(),
			"booking_id", event.BookingID,
		)
		return nil
	}

	err := h.sender.Send(ctx, Notification{
		BookingID:     event.BookingID,
		UserID:        event.UserID,
		EventType:     event.Type,
		Subject:       subject,
		Body:          body,
		CorrelationID: msg.GetCorrelationID(),
	})
	if err != nil {
		return kafka.NewTransientError("failed to send notification", err)
	}
	return nil
}

func compose(e model.BookingEvent) (subject, body string, ok bool) {
	stay := fmt.Sprintf("%s to %s", e.CheckIn.Format(dateLayout), e.CheckOut.Format(dateLayout))
	nights := model.Nights(e.CheckIn, e.CheckOut)

	switch e.Type {
	case model.BookingEventCreated:
		return "Booking received",
			fmt.Sprintf("We received your booking for %s (%d night(s), %d guest(s)). Total %.2f. It is pending confirmation.",
				stay, nights, e.Guests, e.TotalPrice), true
	case model.BookingEventConfirmed:
		return "Booking confirmed",
			fmt.Sprintf("Your stay from %s is confirmed. We look forward to welcoming you.", stay), true
	case model.BookingEventCancelled:
		return "Booking cancelled",
			fmt.Sprintf("Your booking for %s has been cancelled.", stay), true
	case model.BookingEventCompleted:
		return "Thanks for staying with us",
			fmt.Sprintf("Your stay from %s is complete. We hope to see you again.", stay), true
	}
	return "", "", false
}
