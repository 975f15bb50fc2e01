package service

import (
	"context"
	"errors"
	roomserrors "guesthouse/internal/rooms/errors"
	"guesthouse/internal/rooms/repository"
	"guesthouse/pkg/availability"
	"guesthouse/pkg/config"
	apperrors "guesthouse/pkg/errors"
	"guesthouse/pkg/model"
	"sync"
	"time"
)

const (
	ReasonRoomDisabled = "Room is not available for booking"
	ReasonRoomBooked   = "Room is already booked for selected dates"
)

// OverlapFinder returns the active bookings of a room that intersect [checkIn, checkOut).
type OverlapFinder interface {
	FindOverlapping(ctx context.Context, roomID string, checkIn, checkOut time.Time) ([]*model.Booking, error)
}

type RoomService interface {
	List(ctx context.Context, filter model.RoomFilter, limit int, offset int64) ([]*model.Room, int64, error)
	Featured(ctx context.Context) ([]*model.Room, error)
	GetByID(ctx context.Context, id string) (*model.Room, error)
	Availability(ctx context.Context, id string, checkIn, checkOut time.Time) (*model.RoomAvailability, error)
}

type roomService struct {
	repo     repository.RoomRepository
	bookings OverlapFinder
	cfg      *config.Config
}

func NewRoomService(repo repository.RoomRepository, bookings OverlapFinder, cfg *config.Config) RoomService {
	return &roomService{
		repo:     repo,
		bookings: bookings,
		cfg:      cfg,
	}
}

func (s *roomService) List(ctx context.Context, filter model.RoomFilter, limit int, offset int64) ([]*model.Room, int64, error) {
	if err := validateFilter(filter); err != nil {
		return nil, 0, err
	}

	var count int64
	var rooms []*model.Room
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		var err error
		count, err = s.repo.Count(ctx, filter)
		if err != nil {
			s.cfg.Log.Error("Failed to count rooms", "error", err)
			errCount = apperrors.Internal("Failed to count rooms", err)
		}
	}()

	go func() {
		defer wg.Done()
		var err error
		rooms, err = s.repo.Find(ctx, filter, limit, offset)
		if err != nil {
			s.cfg.Log.Error("Failed to list rooms", "limit", limit, "offset", offset, "error", err)
			errFind = apperrors.Internal("Failed to retrieve rooms", err)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return rooms, count, nil
}

func (s *roomService) Featured(ctx context.Context) ([]*model.Room, error) {
	rooms, err := s.repo.FindFeatured(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to list featured rooms", "error", err)
		return nil, apperrors.Internal("Failed to retrieve featured rooms", err)
	}
	return rooms, nil
}

func (s *roomService) GetByID(ctx context.Context, id string) (*model.Room, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Room ID cannot be empty")
	}

	room, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, roomserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Room", id)
		}
		if errors.Is(err, roomserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid room ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve room", err)
	}

	return room, nil
}

func (s *roomService) Availability(ctx context.Context, id string, checkIn, checkOut time.Time) (*model.RoomAvailability, error) {
	stay := availability.NewRange(checkIn, checkOut)
	if !stay.Valid() {
		return nil, apperrors.Validation("Invalid stay", map[string]any{"error": "check_out must be after check_in"})
	}

	room, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !room.IsAvailable {
		return &model.RoomAvailability{Available: false, Reason: ReasonRoomDisabled}, nil
	}

	existing, err := s.bookings.FindOverlapping(ctx, room.ID, checkIn, checkOut)
	if err != nil {
		s.cfg.Log.Error("Failed to check room availability", "room_id", id, "error", err)
		return nil, apperrors.Internal("Failed to check room availability", err)
	}
	if !availability.IsAvailable(existing, room.ID, stay) {
		return &model.RoomAvailability{Available: false, Reason: ReasonRoomBooked}, nil
	}

	return &model.RoomAvailability{Available: true}, nil
}

func validateFilter(f model.RoomFilter) error {
	details := map[string]any{}
	if f.Type != "" && !f.Type.IsValid() {
		details["type"] = "type must be one of: standard deluxe suite"
	}
	if f.MinPrice != nil && *f.MinPrice < 0 {
		details["min_price"] = "min_price cannot be negative"
	}
	if f.MinPrice != nil && f.MaxPrice != nil && *f.MinPrice > *f.MaxPrice {
		details["max_price"] = "max_price must not be below min_price"
	}
	if f.Capacity < 0 {
		details["capacity"] = "capacity cannot be negative"
	}
	if len(details) > 0 {
		return apperrors.Validation("Invalid room filter", details)
	}
	return nil
}
