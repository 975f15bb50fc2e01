package repository

import (
	"context"
	"guesthouse/pkg/cache"
	"guesthouse/pkg/logger"
	"guesthouse/pkg/model"
)

const featuredKey = "featured"

// cachedRoomRepository is a read-through cache over the catalogue. Rooms are
// reference data, so entries only expire by TTL. Cache failures are logged and
// the call falls through to the wrapped repository.
type cachedRoomRepository struct {
	next  RoomRepository
	cache cache.Cache
	log   *logger.Logger
}

func NewCachedRoomRepository(next RoomRepository, c cache.Cache, log *logger.Logger) RoomRepository {
	return &cachedRoomRepository{next: next, cache: c, log: log}
}

func (r *cachedRoomRepository) FindByID(ctx context.Context, id string) (*model.Room, error) {
	key := "id:" + id

	var cached model.Room
	if ok, err := r.cache.Get(ctx, key, &cached); err != nil {
		r.log.Warn("Room cache read failed", "key", key, "error", err)
	} else if ok {
		return &cached, nil
	}

	room, err := r.next.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := r.cache.Set(ctx, key, room); err != nil {
		r.log.Warn("Room cache write failed", "key", key, "error", err)
	}
	return room, nil
}

func (r *cachedRoomRepository) FindByIDs(ctx context.Context, ids []string) ([]*model.Room, error) {
	return r.next.FindByIDs(ctx, ids)
}

func (r *cachedRoomRepository) Find(ctx context.Context, filter model.RoomFilter, limit int, offset int64) ([]*model.Room, error) {
	return r.next.Find(ctx, filter, limit, offset)
}

func (r *cachedRoomRepository) Count(ctx context.Context, filter model.RoomFilter) (int64, error) {
	return r.next.Count(ctx, filter)
}

func (r *cachedRoomRepository) FindFeatured(ctx context.Context) ([]*model.Room, error) {
	var cached []*model.Room
	if ok, err := r.cache.Get(ctx, featuredKey, &cached); err != nil {
		r.log.Warn("Room cache read failed", "key", featuredKey, "error", err)
	} else if ok {
		return cached, nil
	}

	rooms, err := r.next.FindFeatured(ctx)
	if err != nil {
		return nil, err
	}

	if err := r.cache.Set(ctx, featuredKey, rooms); err != nil {
		r.log.Warn("Room cache write failed", "key", featuredKey, "error", err)
	}
	return rooms, nil
}
