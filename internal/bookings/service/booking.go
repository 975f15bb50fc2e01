package service

import (
	"context"
	"errors"
	bookingserrors "guesthouse/internal/bookings/errors"
	"guesthouse/internal/bookings/repository"
	"guesthouse/internal/bookings/validator"
	roomserrors "guesthouse/internal/rooms/errors"
	roomsrepo "guesthouse/internal/rooms/repository"
	userserrors "guesthouse/internal/users/errors"
	usersrepo "guesthouse/internal/users/repository"
	"guesthouse/pkg/auth"
	"guesthouse/pkg/availability"
	"guesthouse/pkg/config"
	apperrors "guesthouse/pkg/errors"
	"guesthouse/pkg/model"
	"guesthouse/pkg/sanitizer"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
)

const publishTimeout = 5 * time.Second

// EventPublisher announces booking lifecycle changes. Publishing happens after
// the write commits and its failures never fail the request.
type EventPublisher interface {
	Publish(ctx context.Context, event model.BookingEvent) error
}

type BookingService interface {
	CheckAvailability(ctx context.Context, query *model.AvailabilityQuery) (bool, error)
	Create(ctx context.Context, req *model.CreateBookingRequest) (*model.Booking, error)
	GetByID(ctx context.Context, id string) (*model.Booking, error)
	ListMine(ctx context.Context, limit int, offset int64) ([]*model.BookingWithRoom, int64, error)
	ListRecent(ctx context.Context, limit int) ([]*model.Booking, error)
	Cancel(ctx context.Context, id string) (*model.Booking, error)
	Confirm(ctx context.Context, id string) (*model.Booking, error)
	Complete(ctx context.Context, id string) (*model.Booking, error)
}

type bookingService struct {
	repo      repository.BookingRepository
	rooms     roomsrepo.RoomRepository
	users     usersrepo.UserRepository
	validator *validator.BookingValidator
	events    EventPublisher
	cfg       *config.Config
	now       func() time.Time
}

// NewBookingService wires the booking use cases. events may be nil when event
// publishing is disabled.
func NewBookingService(
	repo repository.BookingRepository,
	rooms roomsrepo.RoomRepository,
	users usersrepo.UserRepository,
	validator *validator.BookingValidator,
	events EventPublisher,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		repo:      repo,
		rooms:     rooms,
		users:     users,
		validator: validator,
		events:    events,
		cfg:       cfg,
		now:       func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
	}
}

func (s *bookingService) CheckAvailability(ctx context.Context, query *model.AvailabilityQuery) (bool, error) {
	if _, err := auth.RequireIdentity(ctx); err != nil {
		return false, err
	}
	if err := s.validator.ValidateAvailability(query); err != nil {
		return false, apperrors.Validation("Invalid availability query", map[string]any{"error": err.Error()})
	}

	existing, err := s.repo.FindOverlapping(ctx, query.RoomID, query.CheckIn, query.CheckOut)
	if err != nil {
		s.cfg.Log.Error("Failed to check availability", "room_id", query.RoomID, "error", err)
		return false, apperrors.Internal("Failed to check availability", err)
	}

	return availability.IsAvailable(existing, query.RoomID, availability.NewRange(query.CheckIn, query.CheckOut)), nil
}

func (s *bookingService) Create(ctx context.Context, req *model.CreateBookingRequest) (*model.Booking, error) {
	user, err := s.currentUser(ctx)
	if err != nil {
		if apperrors.HasCode(err, apperrors.CodeForbidden) {
			return nil, apperrors.NotFound("User")
		}
		return nil, err
	}

	s.sanitize(req)
	if err := s.validator.ValidateCreate(req); err != nil {
		s.cfg.Log.Warn("Booking validation failed", "error", err)
		return nil, apperrors.Validation("Booking validation failed", map[string]any{"error": err.Error()})
	}

	now := s.now()
	if req.CheckIn.Before(startOfDay(now)) {
		return nil, apperrors.Validation("Booking validation failed", map[string]any{"check_in": "check_in cannot be in the past"})
	}

	room, err := s.rooms.FindByID(ctx, req.RoomID)
	if err != nil {
		return nil, mapRoomError(err, req.RoomID)
	}
	if !room.IsAvailable {
		return nil, apperrors.RoomUnavailable("Room is not available for booking")
	}
	if req.Guests > room.Capacity {
		return nil, apperrors.Validation("Booking validation failed", map[string]any{
			"guests": "guests exceed room capacity",
			"max":    room.Capacity,
		})
	}

	booking := &model.Booking{
		UserID:          user.ID,
		RoomID:          req.RoomID,
		CheckIn:         req.CheckIn,
		CheckOut:        req.CheckOut,
		Guests:          req.Guests,
		TotalPrice:      room.TotalPrice(req.CheckIn, req.CheckOut),
		Status:          model.BookingStatusPending,
		PaymentStatus:   model.PaymentStatusPending,
		SpecialRequests: req.SpecialRequests,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.validator.Validate(booking); err != nil {
		s.cfg.Log.Warn("Booking validation failed", "error", err)
		return nil, apperrors.Validation("Booking validation failed", map[string]any{"error": err.Error()})
	}

	stay := availability.NewRange(booking.CheckIn, booking.CheckOut)
	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		// The driver re-runs this body after a write conflict.
		booking.ID = ""

		if err := s.repo.ReserveRoom(sessCtx, booking.RoomID); err != nil {
			if errors.Is(err, bookingserrors.ErrRoomNotFound) {
				return apperrors.NotFoundWithID("Room", booking.RoomID)
			}
			return err
		}

		existing, err := s.repo.FindOverlapping(sessCtx, booking.RoomID, booking.CheckIn, booking.CheckOut)
		if err != nil {
			return err
		}
		if !availability.IsAvailable(existing, booking.RoomID, stay) {
			return apperrors.RoomUnavailable("Room is already booked for selected dates")
		}

		return s.repo.Create(sessCtx, booking)
	})
	if err != nil {
		if apperrors.IsAppError(err) {
			s.cfg.Log.Info("Booking rejected", "room_id", booking.RoomID, "user_id", user.ID, "reason", err)
			return nil, err
		}
		s.cfg.Log.Error("Failed to create booking", "room_id", booking.RoomID, "error", err)
		return nil, apperrors.Internal("Failed to create booking", err)
	}

	s.cfg.Log.Info("Booking created successfully",
		"id", booking.ID,
		"room_id", booking.RoomID,
		"user_id", booking.UserID,
		"check_in", booking.CheckIn,
		"check_out", booking.CheckOut,
		"total_price", booking.TotalPrice,
	)
	s.publish(ctx, model.BookingEventCreated, booking)
	return booking, nil
}

func (s *bookingService) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	if _, err := auth.RequireIdentity(ctx); err != nil {
		return nil, err
	}

	booking, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, booking, "view"); err != nil {
		return nil, err
	}
	return booking, nil
}

func (s *bookingService) ListMine(ctx context.Context, limit int, offset int64) ([]*model.BookingWithRoom, int64, error) {
	user, err := s.currentUser(ctx)
	if err != nil {
		if apperrors.HasCode(err, apperrors.CodeForbidden) {
			return []*model.BookingWithRoom{}, 0, nil
		}
		return nil, 0, err
	}

	var count int64
	var bookings []*model.Booking
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		var err error
		count, err = s.repo.CountByUser(ctx, user.ID)
		if err != nil {
			s.cfg.Log.Error("Failed to count bookings", "user_id", user.ID, "error", err)
			errCount = apperrors.Internal("Failed to count bookings", err)
		}
	}()

	go func() {
		defer wg.Done()
		var err error
		bookings, err = s.repo.FindByUser(ctx, user.ID, limit, offset)
		if err != nil {
			s.cfg.Log.Error("Failed to list bookings",
				"user_id", user.ID,
				"limit", limit,
				"offset", offset,
				"error", err,
			)
			errFind = apperrors.Internal("Failed to retrieve bookings", err)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	joined, err := s.withRooms(ctx, bookings)
	if err != nil {
		return nil, 0, err
	}
	return joined, count, nil
}

func (s *bookingService) ListRecent(ctx context.Context, limit int) ([]*model.Booking, error) {
	if limit <= 0 {
		limit = s.cfg.RecentBookingsLimit
	}
	limit = config.NormalizePaginationLimit(limit)

	user, err := s.currentUser(ctx)
	if err != nil {
		if apperrors.HasCode(err, apperrors.CodeForbidden) {
			return []*model.Booking{}, nil
		}
		return nil, err
	}

	bookings, err := s.repo.FindByUser(ctx, user.ID, limit, 0)
	if err != nil {
		s.cfg.Log.Error("Failed to list recent bookings", "user_id", user.ID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve bookings", err)
	}
	return bookings, nil
}

func (s *bookingService) Cancel(ctx context.Context, id string) (*model.Booking, error) {
	return s.transition(ctx, id, model.BookingStatusCancelled)
}

func (s *bookingService) Confirm(ctx context.Context, id string) (*model.Booking, error) {
	return s.transition(ctx, id, model.BookingStatusConfirmed)
}

func (s *bookingService) Complete(ctx context.Context, id string) (*model.Booking, error) {
	return s.transition(ctx, id, model.BookingStatusCompleted)
}

// --- Helpers ---

func (s *bookingService) transition(ctx context.Context, id string, next model.BookingStatus) (*model.Booking, error) {
	if _, err := auth.RequireIdentity(ctx); err != nil {
		return nil, err
	}

	booking, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, booking, "modify"); err != nil {
		return nil, err
	}

	from := booking.Status
	if !from.CanTransitionTo(next) {
		return nil, apperrors.InvalidStateTransition(from.String(), next.String())
	}

	now := s.now()
	if err := s.repo.UpdateStatus(ctx, id, from, next, now); err != nil {
		if errors.Is(err, bookingserrors.ErrStatusChanged) {
			s.cfg.Log.Warn("Booking status changed concurrently", "id", id, "from", from, "to", next)
			return nil, apperrors.InvalidStateTransition(from.String(), next.String())
		}
		s.cfg.Log.Error("Failed to update booking status", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to update booking", err)
	}

	booking.Status = next
	booking.UpdatedAt = now

	s.cfg.Log.Info("Booking status updated", "id", id, "from", from, "to", next)
	s.publish(ctx, model.BookingEventFor(next), booking)
	return booking, nil
}

// withRooms attaches each booking's room using one lookup for the whole page.
func (s *bookingService) withRooms(ctx context.Context, bookings []*model.Booking) ([]*model.BookingWithRoom, error) {
	joined := make([]*model.BookingWithRoom, 0, len(bookings))
	if len(bookings) == 0 {
		return joined, nil
	}

	seen := make(map[string]bool, len(bookings))
	ids := make([]string, 0, len(bookings))
	for _, b := range bookings {
		if !seen[b.RoomID] {
			seen[b.RoomID] = true
			ids = append(ids, b.RoomID)
		}
	}

	rooms, err := s.rooms.FindByIDs(ctx, ids)
	if err != nil {
		s.cfg.Log.Error("Failed to load rooms for bookings", "room_ids", ids, "error", err)
		return nil, apperrors.Internal("Failed to retrieve rooms", err)
	}
	byID := make(map[string]*model.Room, len(rooms))
	for _, room := range rooms {
		byID[room.ID] = room
	}

	for _, b := range bookings {
		joined = append(joined, &model.BookingWithRoom{Booking: b, Room: byID[b.RoomID]})
	}
	return joined, nil
}

func (s *bookingService) find(ctx context.Context, id string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", id)
		}
		if errors.Is(err, bookingserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid booking ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve booking", err)
	}
	return booking, nil
}

// currentUser resolves the synced user behind the request identity. An identity
// that was never synced yields FORBIDDEN.
func (s *bookingService) currentUser(ctx context.Context) (*model.User, error) {
	identity, err := auth.RequireIdentity(ctx)
	if err != nil {
		return nil, err
	}

	user, err := s.users.FindByTokenIdentifier(ctx, identity.TokenIdentifier)
	if err != nil {
		if errors.Is(err, userserrors.ErrNotFound) {
			return nil, apperrors.Forbidden("No user record for this identity")
		}
		s.cfg.Log.Error("Failed to resolve user", "token_identifier", identity.TokenIdentifier, "error", err)
		return nil, apperrors.Internal("Failed to resolve user", err)
	}
	return user, nil
}

func (s *bookingService) authorize(ctx context.Context, booking *model.Booking, action string) error {
	user, err := s.currentUser(ctx)
	if err != nil {
		if apperrors.HasCode(err, apperrors.CodeForbidden) {
			return apperrors.Forbidden("Not authorized to " + action + " this booking")
		}
		return err
	}
	if booking.UserID != user.ID {
		s.cfg.Log.Warn("Booking access denied", "id", booking.ID, "user_id", user.ID, "action", action)
		return apperrors.Forbidden("Not authorized to " + action + " this booking")
	}
	return nil
}

func (s *bookingService) sanitize(req *model.CreateBookingRequest) {
	req.SpecialRequests = sanitizer.NormalizeFreeText(req.SpecialRequests)
	req.CheckIn = req.CheckIn.UTC().Truncate(time.Millisecond)
	req.CheckOut = req.CheckOut.UTC().Truncate(time.Millisecond)
}

func (s *bookingService) publish(ctx context.Context, eventType model.BookingEventType, booking *model.Booking) {
	if s.events == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if err := s.events.Publish(ctx, model.NewBookingEvent(eventType, booking, s.now())); err != nil {
		s.cfg.Log.Error("Failed to publish booking event",
			"id", booking.ID,
			"event_type", eventType,
			"error", err,
		)
	}
}

func mapRoomError(err error, roomID string) error {
	if errors.Is(err, roomserrors.ErrNotFound) {
		return apperrors.NotFoundWithID("Room", roomID)
	}
	if errors.Is(err, roomserrors.ErrInvalidID) {
		return apperrors.InvalidInput("Invalid room ID format")
	}
	return apperrors.Internal("Failed to retrieve room", err)
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
