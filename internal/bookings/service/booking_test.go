package service

import (
	"context"
	"errors"
	bookingserrors "guesthouse/internal/bookings/errors"
	"guesthouse/internal/bookings/validator"
	roomserrors "guesthouse/internal/rooms/errors"
	userserrors "guesthouse/internal/users/errors"
	"guesthouse/pkg/auth"
	"guesthouse/pkg/availability"
	"guesthouse/pkg/config"
	mongotx "guesthouse/pkg/db/mongo"
	apperrors "guesthouse/pkg/errors"
	"guesthouse/pkg/logger"
	"guesthouse/pkg/model"
	"sort"
	"sync"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ────────────────────────────────────────────────
// In-memory booking repository
// ────────────────────────────────────────────────

// memoryBookingRepository runs transactions one at a time and rolls back the
// staged writes when the body fails, which is the isolation Mongo gives the
// booking_version write conflict.
type memoryBookingRepository struct {
	txMu sync.Mutex

	mu       sync.Mutex
	bookings map[string]*model.Booking
	rooms    map[string]int64

	updateStatusErr error
}

func newMemoryRepo(roomIDs ...string) *memoryBookingRepository {
	repo := &memoryBookingRepository{
		bookings: map[string]*model.Booking{},
		rooms:    map[string]int64{},
	}
	for _, id := range roomIDs {
		repo.rooms[id] = 0
	}
	return repo
}

func (r *memoryBookingRepository) Create(_ context.Context, booking *model.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	booking.ID = primitive.NewObjectID().Hex()
	stored := *booking
	r.bookings[booking.ID] = &stored
	return nil
}

func (r *memoryBookingRepository) FindByID(_ context.Context, id string) (*model.Booking, error) {
	if !primitive.IsValidObjectID(id) {
		return nil, bookingserrors.ErrInvalidID
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, bookingserrors.ErrNotFound
	}
	out := *b
	return &out, nil
}

func (r *memoryBookingRepository) FindByUser(_ context.Context, userID string, limit int, offset int64) ([]*model.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Booking
	for _, b := range r.bookings {
		if b.UserID == userID {
			c := *b
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if int(offset) >= len(out) {
		return []*model.Booking{}, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memoryBookingRepository) CountByUser(_ context.Context, userID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, b := range r.bookings {
		if b.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (r *memoryBookingRepository) FindOverlapping(_ context.Context, roomID string, checkIn, checkOut time.Time) ([]*model.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var all []*model.Booking
	for _, b := range r.bookings {
		all = append(all, b)
	}
	return availability.Conflicts(all, roomID, availability.NewRange(checkIn, checkOut)), nil
}

func (r *memoryBookingRepository) ReserveRoom(_ context.Context, roomID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rooms[roomID]; !ok {
		return bookingserrors.ErrRoomNotFound
	}
	r.rooms[roomID]++
	return nil
}

func (r *memoryBookingRepository) UpdateStatus(_ context.Context, id string, from, to model.BookingStatus, at time.Time) error {
	if r.updateStatusErr != nil {
		return r.updateStatusErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok || b.Status != from {
		return bookingserrors.ErrStatusChanged
	}
	b.Status = to
	b.UpdatedAt = at
	return nil
}

func (r *memoryBookingRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	r.txMu.Lock()
	defer r.txMu.Unlock()

	r.mu.Lock()
	snapshot := make(map[string]*model.Booking, len(r.bookings))
	for k, v := range r.bookings {
		snapshot[k] = v
	}
	r.mu.Unlock()

	if err := fn(nil); err != nil {
		r.mu.Lock()
		r.bookings = snapshot
		r.mu.Unlock()
		return err
	}
	return nil
}

func (r *memoryBookingRepository) put(b *model.Booking) *model.Booking {
	r.mu.Lock()
	defer r.mu.Unlock()
	if b.ID == "" {
		b.ID = primitive.NewObjectID().Hex()
	}
	r.bookings[b.ID] = b
	return b
}

// ────────────────────────────────────────────────
// Room, user and event mocks
// ────────────────────────────────────────────────

type mockRoomRepository struct {
	rooms map[string]*model.Room
	err   error
}

func (m *mockRoomRepository) FindByID(_ context.Context, id string) (*model.Room, error) {
	if !primitive.IsValidObjectID(id) {
		return nil, roomserrors.ErrInvalidID
	}
	room, ok := m.rooms[id]
	if !ok {
		return nil, roomserrors.ErrNotFound
	}
	return room, nil
}

func (m *mockRoomRepository) FindByIDs(_ context.Context, ids []string) ([]*model.Room, error) {
	if m.err != nil {
		return nil, m.err
	}
	rooms := []*model.Room{}
	for _, id := range ids {
		if room, ok := m.rooms[id]; ok {
			rooms = append(rooms, room)
		}
	}
	return rooms, nil
}

func (m *mockRoomRepository) Find(context.Context, model.RoomFilter, int, int64) ([]*model.Room, error) {
	return nil, nil
}

func (m *mockRoomRepository) Count(context.Context, model.RoomFilter) (int64, error) {
	return 0, nil
}

func (m *mockRoomRepository) FindFeatured(context.Context) ([]*model.Room, error) {
	return nil, nil
}

type mockUserRepository struct {
	users map[string]*model.User
	err   error
}

func (m *mockUserRepository) FindByTokenIdentifier(_ context.Context, tokenIdentifier string) (*model.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	user, ok := m.users[tokenIdentifier]
	if !ok {
		return nil, userserrors.ErrNotFound
	}
	return user, nil
}

func (m *mockUserRepository) FindByEmail(context.Context, string) (*model.User, error) {
	return nil, userserrors.ErrNotFound
}

func (m *mockUserRepository) Upsert(_ context.Context, user *model.User) (*model.User, error) {
	return user, nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []model.BookingEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, event model.BookingEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

func (p *recordingPublisher) types() []model.BookingEventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []model.BookingEventType
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

// ────────────────────────────────────────────────
// Fixtures
// ────────────────────────────────────────────────

var (
	suiteID    = primitive.NewObjectID().Hex()
	closedID   = primitive.NewObjectID().Hex()
	guestID    = primitive.NewObjectID().Hex()
	strangerID = primitive.NewObjectID().Hex()
	fixedNow   = time.Date(2030, time.May, 1, 9, 0, 0, 0, time.UTC)
)

type fixture struct {
	svc    *bookingService
	repo   *memoryBookingRepository
	events *recordingPublisher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	discount := 10.0
	log := logger.Discard()
	cfg := &config.Config{Log: log, RecentBookingsLimit: 5}

	repo := newMemoryRepo(suiteID, closedID)
	rooms := &mockRoomRepository{rooms: map[string]*model.Room{
		suiteID:  {ID: suiteID, Name: "Mountain View Suite", Price: 299, Capacity: 4, Discount: &discount, IsAvailable: true},
		closedID: {ID: closedID, Name: "Standard Garden Room", Price: 149, Capacity: 2, IsAvailable: false},
	}}
	users := &mockUserRepository{users: map[string]*model.User{
		"clerk:guest":    {ID: guestID, TokenIdentifier: "clerk:guest"},
		"clerk:stranger": {ID: strangerID, TokenIdentifier: "clerk:stranger"},
	}}
	events := &recordingPublisher{}

	svc := NewBookingService(repo, rooms, users, validator.NewBookingValidator(log), events, cfg).(*bookingService)
	svc.now = func() time.Time { return fixedNow }

	return &fixture{svc: svc, repo: repo, events: events}
}

func as(token string) context.Context {
	return auth.WithIdentity(context.Background(), &auth.Identity{Subject: token, TokenIdentifier: "clerk:" + token})
}

func june(d int) time.Time {
	return time.Date(2030, time.June, d, 0, 0, 0, 0, time.UTC)
}

func stay(roomID string, in, out int) *model.CreateBookingRequest {
	return &model.CreateBookingRequest{RoomID: roomID, CheckIn: june(in), CheckOut: june(out), Guests: 2}
}

// ────────────────────────────────────────────────
// Create
// ────────────────────────────────────────────────

func TestCreate_PricingAndDefaults(t *testing.T) {
	f := newFixture(t)

	booking, err := f.svc.Create(as("guest"), stay(suiteID, 1, 4))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if booking.ID == "" {
		t.Error("expected generated ID")
	}
	if booking.UserID != guestID {
		t.Errorf("UserID = %s, want the synced user", booking.UserID)
	}
	if booking.Status != model.BookingStatusPending {
		t.Errorf("Status = %s, want pending", booking.Status)
	}
	if booking.PaymentStatus != model.PaymentStatusPending {
		t.Errorf("PaymentStatus = %s, want pending", booking.PaymentStatus)
	}
	if stored := f.repo.bookings[booking.ID]; stored == nil || stored.PaymentStatus != model.PaymentStatusPending {
		t.Errorf("stored booking = %+v", stored)
	}
	// 3 nights at 299 less 10%.
	if booking.TotalPrice != 807.3 {
		t.Errorf("TotalPrice = %v, want 807.3", booking.TotalPrice)
	}
	if !booking.CreatedAt.Equal(fixedNow) || !booking.UpdatedAt.Equal(fixedNow) {
		t.Errorf("timestamps = %v/%v, want %v", booking.CreatedAt, booking.UpdatedAt, fixedNow)
	}
	if got := f.events.types(); len(got) != 1 || got[0] != model.BookingEventCreated {
		t.Errorf("events = %v", got)
	}
}

func TestCreate_PartialDayRoundsUp(t *testing.T) {
	f := newFixture(t)
	req := &model.CreateBookingRequest{
		RoomID:   suiteID,
		CheckIn:  june(1).Add(14 * time.Hour),
		CheckOut: june(2).Add(16 * time.Hour),
		Guests:   1,
	}

	booking, err := f.svc.Create(as("guest"), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if booking.TotalPrice != 538.2 {
		t.Errorf("TotalPrice = %v, want two nights (538.2)", booking.TotalPrice)
	}
}

func TestCreate_Rejections(t *testing.T) {
	tests := []struct {
		name     string
		ctx      context.Context
		req      *model.CreateBookingRequest
		wantCode string
	}{
		{name: "anonymous", ctx: context.Background(), req: stay(suiteID, 1, 3), wantCode: apperrors.CodeUnauthorized},
		{name: "identity never synced", ctx: as("ghost"), req: stay(suiteID, 1, 3), wantCode: apperrors.CodeNotFound},
		{name: "unknown room", ctx: as("guest"), req: stay(primitive.NewObjectID().Hex(), 1, 3), wantCode: apperrors.CodeNotFound},
		{name: "malformed room id", ctx: as("guest"), req: stay("room-1", 1, 3), wantCode: apperrors.CodeValidation},
		{name: "room flagged off", ctx: as("guest"), req: stay(closedID, 1, 3), wantCode: apperrors.CodeRoomUnavailable},
		{name: "check-out before check-in", ctx: as("guest"), req: stay(suiteID, 4, 2), wantCode: apperrors.CodeValidation},
		{name: "zero-length stay", ctx: as("guest"), req: stay(suiteID, 4, 4), wantCode: apperrors.CodeValidation},
		{
			name:     "too many guests",
			ctx:      as("guest"),
			req:      &model.CreateBookingRequest{RoomID: suiteID, CheckIn: june(1), CheckOut: june(2), Guests: 5},
			wantCode: apperrors.CodeValidation,
		},
		{
			name: "check-in in the past",
			ctx:  as("guest"),
			req: &model.CreateBookingRequest{
				RoomID: suiteID, CheckIn: fixedNow.AddDate(0, 0, -2), CheckOut: fixedNow.AddDate(0, 0, 1), Guests: 1,
			},
			wantCode: apperrors.CodeValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			_, err := f.svc.Create(tt.ctx, tt.req)
			if !apperrors.HasCode(err, tt.wantCode) {
				t.Errorf("expected code %s, got %v", tt.wantCode, err)
			}
			if len(f.events.types()) != 0 {
				t.Error("rejected booking must not publish events")
			}
		})
	}
}

func TestCreate_CheckInTodayAllowed(t *testing.T) {
	f := newFixture(t)
	today := time.Date(2030, time.May, 1, 0, 0, 0, 0, time.UTC)

	_, err := f.svc.Create(as("guest"), &model.CreateBookingRequest{
		RoomID: suiteID, CheckIn: today, CheckOut: today.AddDate(0, 0, 1), Guests: 1,
	})
	if err != nil {
		t.Fatalf("same-day check-in should be accepted: %v", err)
	}
}

func TestCreate_OverlapRules(t *testing.T) {
	tests := []struct {
		name      string
		existing  [2]int
		status    model.BookingStatus
		candidate [2]int
		wantErr   bool
	}{
		{name: "back to back after", existing: [2]int{3, 5}, status: model.BookingStatusPending, candidate: [2]int{1, 3}},
		{name: "back to back before", existing: [2]int{1, 3}, status: model.BookingStatusConfirmed, candidate: [2]int{3, 5}},
		{name: "partial overlap", existing: [2]int{2, 4}, status: model.BookingStatusPending, candidate: [2]int{1, 3}, wantErr: true},
		{name: "contained", existing: [2]int{1, 10}, status: model.BookingStatusConfirmed, candidate: [2]int{3, 5}, wantErr: true},
		{name: "containing", existing: [2]int{3, 5}, status: model.BookingStatusCompleted, candidate: [2]int{1, 10}, wantErr: true},
		{name: "cancelled never blocks", existing: [2]int{1, 10}, status: model.BookingStatusCancelled, candidate: [2]int{3, 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.repo.put(&model.Booking{
				UserID: strangerID, RoomID: suiteID,
				CheckIn: june(tt.existing[0]), CheckOut: june(tt.existing[1]),
				Status: tt.status,
			})

			_, err := f.svc.Create(as("guest"), stay(suiteID, tt.candidate[0], tt.candidate[1]))
			if tt.wantErr {
				if !apperrors.HasCode(err, apperrors.CodeRoomUnavailable) {
					t.Errorf("expected ROOM_UNAVAILABLE, got %v", err)
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestCreate_ConcurrentSameInterval(t *testing.T) {
	f := newFixture(t)
	const attempts = 8

	var wg sync.WaitGroup
	errs := make([]error, attempts)
	start := make(chan struct{})
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			_, errs[i] = f.svc.Create(as("guest"), stay(suiteID, 10, 12))
		}(i)
	}
	close(start)
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case !apperrors.HasCode(err, apperrors.CodeRoomUnavailable):
			t.Errorf("loser failed with %v, want ROOM_UNAVAILABLE", err)
		}
	}
	if succeeded != 1 {
		t.Fatalf("expected exactly one booking, got %d", succeeded)
	}
	if n, _ := f.repo.CountByUser(context.Background(), guestID); n != 1 {
		t.Errorf("stored bookings = %d, want 1", n)
	}
}

func TestCreate_PublishFailureDoesNotFailRequest(t *testing.T) {
	f := newFixture(t)
	f.events.err = errors.New("broker down")

	if _, err := f.svc.Create(as("guest"), stay(suiteID, 1, 2)); err != nil {
		t.Fatalf("publish failure leaked into the request: %v", err)
	}
}

func TestCreate_NilPublisher(t *testing.T) {
	f := newFixture(t)
	f.svc.events = nil

	if _, err := f.svc.Create(as("guest"), stay(suiteID, 1, 2)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCreate_SanitizesSpecialRequests(t *testing.T) {
	f := newFixture(t)
	req := stay(suiteID, 1, 2)
	req.SpecialRequests = "  late   check-in \n\n\n\n extra pillow "

	booking, err := f.svc.Create(as("guest"), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if booking.SpecialRequests != "late check-in\n\nextra pillow" {
		t.Errorf("SpecialRequests = %q", booking.SpecialRequests)
	}
}

// ────────────────────────────────────────────────
// Status transitions
// ────────────────────────────────────────────────

func TestTransitions(t *testing.T) {
	type op func(s *bookingService, ctx context.Context, id string) (*model.Booking, error)
	cancel := func(s *bookingService, ctx context.Context, id string) (*model.Booking, error) {
		return s.Cancel(ctx, id)
	}
	confirm := func(s *bookingService, ctx context.Context, id string) (*model.Booking, error) {
		return s.Confirm(ctx, id)
	}
	complete := func(s *bookingService, ctx context.Context, id string) (*model.Booking, error) {
		return s.Complete(ctx, id)
	}

	tests := []struct {
		name      string
		from      model.BookingStatus
		apply     op
		want      model.BookingStatus
		wantCode  string
		wantEvent model.BookingEventType
	}{
		{name: "confirm pending", from: model.BookingStatusPending, apply: confirm, want: model.BookingStatusConfirmed, wantEvent: model.BookingEventConfirmed},
		{name: "cancel pending", from: model.BookingStatusPending, apply: cancel, want: model.BookingStatusCancelled, wantEvent: model.BookingEventCancelled},
		{name: "complete confirmed", from: model.BookingStatusConfirmed, apply: complete, want: model.BookingStatusCompleted, wantEvent: model.BookingEventCompleted},
		{name: "cancel confirmed", from: model.BookingStatusConfirmed, apply: cancel, want: model.BookingStatusCancelled, wantEvent: model.BookingEventCancelled},
		{name: "cancel completed", from: model.BookingStatusCompleted, apply: cancel, wantCode: apperrors.CodeInvalidStateTransition},
		{name: "confirm completed", from: model.BookingStatusCompleted, apply: confirm, wantCode: apperrors.CodeInvalidStateTransition},
		{name: "complete pending", from: model.BookingStatusPending, apply: complete, wantCode: apperrors.CodeInvalidStateTransition},
		{name: "confirm cancelled", from: model.BookingStatusCancelled, apply: confirm, wantCode: apperrors.CodeInvalidStateTransition},
		{name: "cancel cancelled", from: model.BookingStatusCancelled, apply: cancel, wantCode: apperrors.CodeInvalidStateTransition},
		{name: "confirm confirmed", from: model.BookingStatusConfirmed, apply: confirm, wantCode: apperrors.CodeInvalidStateTransition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			b := f.repo.put(&model.Booking{UserID: guestID, RoomID: suiteID, CheckIn: june(1), CheckOut: june(2), Status: tt.from})

			got, err := tt.apply(f.svc, as("guest"), b.ID)
			if tt.wantCode != "" {
				if !apperrors.HasCode(err, tt.wantCode) {
					t.Fatalf("expected %s, got %v", tt.wantCode, err)
				}
				stored, _ := f.repo.FindByID(context.Background(), b.ID)
				if stored.Status != tt.from {
					t.Errorf("status changed to %s on a rejected transition", stored.Status)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Status != tt.want || !got.UpdatedAt.Equal(fixedNow) {
				t.Errorf("got status %s updated %v", got.Status, got.UpdatedAt)
			}
			if ev := f.events.types(); len(ev) != 1 || ev[0] != tt.wantEvent {
				t.Errorf("events = %v, want [%s]", ev, tt.wantEvent)
			}
		})
	}
}

func TestTransition_OwnershipAndLookup(t *testing.T) {
	f := newFixture(t)
	b := f.repo.put(&model.Booking{UserID: guestID, RoomID: suiteID, CheckIn: june(1), CheckOut: june(2), Status: model.BookingStatusPending})

	tests := []struct {
		name     string
		ctx      context.Context
		id       string
		wantCode string
	}{
		{name: "other user", ctx: as("stranger"), id: b.ID, wantCode: apperrors.CodeForbidden},
		{name: "identity never synced", ctx: as("ghost"), id: b.ID, wantCode: apperrors.CodeForbidden},
		{name: "anonymous", ctx: context.Background(), id: b.ID, wantCode: apperrors.CodeUnauthorized},
		{name: "missing booking", ctx: as("guest"), id: primitive.NewObjectID().Hex(), wantCode: apperrors.CodeNotFound},
		{name: "malformed id", ctx: as("guest"), id: "nope", wantCode: apperrors.CodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := f.svc.Cancel(tt.ctx, tt.id); !apperrors.HasCode(err, tt.wantCode) {
				t.Errorf("expected %s, got %v", tt.wantCode, err)
			}
		})
	}
}

func TestTransition_LostRace(t *testing.T) {
	f := newFixture(t)
	b := f.repo.put(&model.Booking{UserID: guestID, RoomID: suiteID, CheckIn: june(1), CheckOut: june(2), Status: model.BookingStatusPending})
	f.repo.updateStatusErr = bookingserrors.ErrStatusChanged

	_, err := f.svc.Confirm(as("guest"), b.ID)
	if !apperrors.HasCode(err, apperrors.CodeInvalidStateTransition) {
		t.Fatalf("expected INVALID_STATE_TRANSITION, got %v", err)
	}
	if len(f.events.types()) != 0 {
		t.Error("lost transition must not publish")
	}
}

func TestTransition_ConcurrentCancelAndComplete(t *testing.T) {
	f := newFixture(t)
	b := f.repo.put(&model.Booking{UserID: guestID, RoomID: suiteID, CheckIn: june(1), CheckOut: june(2), Status: model.BookingStatusConfirmed})

	var wg sync.WaitGroup
	errs := make([]error, 2)
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, errs[0] = f.svc.Cancel(as("guest"), b.ID)
	}()
	go func() {
		defer wg.Done()
		_, errs[1] = f.svc.Complete(as("guest"), b.ID)
	}()
	wg.Wait()

	ok := 0
	for _, err := range errs {
		if err == nil {
			ok++
		} else if !apperrors.HasCode(err, apperrors.CodeInvalidStateTransition) {
			t.Errorf("unexpected error: %v", err)
		}
	}
	if ok != 1 {
		t.Errorf("expected exactly one transition to win, got %d", ok)
	}
}

// ────────────────────────────────────────────────
// Reads
// ────────────────────────────────────────────────

func TestGetByID_OwnerOnly(t *testing.T) {
	f := newFixture(t)
	b := f.repo.put(&model.Booking{UserID: guestID, RoomID: suiteID, CheckIn: june(1), CheckOut: june(2), Status: model.BookingStatusPending})

	if got, err := f.svc.GetByID(as("guest"), b.ID); err != nil || got.ID != b.ID {
		t.Fatalf("owner read failed: %v", err)
	}
	if _, err := f.svc.GetByID(as("stranger"), b.ID); !apperrors.HasCode(err, apperrors.CodeForbidden) {
		t.Errorf("expected FORBIDDEN, got %v", err)
	}
}

func TestListMine(t *testing.T) {
	f := newFixture(t)
	for i := 1; i <= 3; i++ {
		f.repo.put(&model.Booking{UserID: guestID, RoomID: suiteID, Status: model.BookingStatusPending, CreatedAt: fixedNow.Add(time.Duration(i) * time.Hour)})
	}
	f.repo.put(&model.Booking{UserID: strangerID, RoomID: suiteID, Status: model.BookingStatusPending})

	bookings, total, err := f.svc.ListMine(as("guest"), 2, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 3 || len(bookings) != 2 {
		t.Fatalf("total=%d len=%d", total, len(bookings))
	}
	if !bookings[0].CreatedAt.After(bookings[1].CreatedAt) {
		t.Error("expected newest first")
	}
	for _, b := range bookings {
		if b.Room == nil || b.Room.Name != "Mountain View Suite" {
			t.Errorf("booking %s room = %+v", b.ID, b.Room)
		}
	}

	empty, total, err := f.svc.ListMine(as("ghost"), 10, 0)
	if err != nil || total != 0 || len(empty) != 0 {
		t.Errorf("unsynced identity: %v %d %d", err, total, len(empty))
	}
}

func TestListMine_RoomJoin(t *testing.T) {
	f := newFixture(t)
	gone := primitive.NewObjectID().Hex()
	f.repo.put(&model.Booking{UserID: guestID, RoomID: closedID, Status: model.BookingStatusPending, CreatedAt: fixedNow.Add(time.Hour)})
	f.repo.put(&model.Booking{UserID: guestID, RoomID: gone, Status: model.BookingStatusPending, CreatedAt: fixedNow})

	bookings, _, err := f.svc.ListMine(as("guest"), 10, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bookings) != 2 {
		t.Fatalf("len = %d", len(bookings))
	}
	if bookings[0].Room == nil || bookings[0].Room.ID != closedID {
		t.Errorf("first room = %+v", bookings[0].Room)
	}
	if bookings[1].Room != nil {
		t.Errorf("missing room should stay nil, got %+v", bookings[1].Room)
	}

	f.svc.rooms = &mockRoomRepository{err: errors.New("connection refused")}
	if _, _, err := f.svc.ListMine(as("guest"), 10, 0); !apperrors.HasCode(err, apperrors.CodeInternal) {
		t.Errorf("expected INTERNAL_ERROR, got %v", err)
	}
}

func TestListRecent_DefaultLimit(t *testing.T) {
	f := newFixture(t)
	for i := 0; i < 8; i++ {
		f.repo.put(&model.Booking{UserID: guestID, RoomID: suiteID, Status: model.BookingStatusPending, CreatedAt: fixedNow.Add(time.Duration(i) * time.Minute)})
	}

	recent, err := f.svc.ListRecent(as("guest"), 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recent) != 5 {
		t.Errorf("len = %d, want default of 5", len(recent))
	}

	recent, _ = f.svc.ListRecent(as("guest"), 2)
	if len(recent) != 2 {
		t.Errorf("len = %d, want 2", len(recent))
	}
}

func TestCheckAvailability(t *testing.T) {
	f := newFixture(t)
	f.repo.put(&model.Booking{UserID: strangerID, RoomID: suiteID, CheckIn: june(3), CheckOut: june(5), Status: model.BookingStatusConfirmed})

	tests := []struct {
		name string
		in   int
		out  int
		want bool
	}{
		{name: "ends at existing check-in", in: 1, out: 3, want: true},
		{name: "overlaps", in: 2, out: 4, want: false},
		{name: "starts at existing check-out", in: 5, out: 7, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := f.svc.CheckAvailability(as("guest"), &model.AvailabilityQuery{RoomID: suiteID, CheckIn: june(tt.in), CheckOut: june(tt.out)})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("available = %v, want %v", got, tt.want)
			}
		})
	}

	if _, err := f.svc.CheckAvailability(context.Background(), &model.AvailabilityQuery{RoomID: suiteID, CheckIn: june(1), CheckOut: june(2)}); !apperrors.HasCode(err, apperrors.CodeUnauthorized) {
		t.Errorf("expected UNAUTHORIZED, got %v", err)
	}
	if _, err := f.svc.CheckAvailability(as("guest"), &model.AvailabilityQuery{RoomID: suiteID, CheckIn: june(4), CheckOut: june(2)}); !apperrors.HasCode(err, apperrors.CodeValidation) {
		t.Errorf("expected VALIDATION_ERROR, got %v", err)
	}
}

func TestUserLookupFailureIsInternal(t *testing.T) {
	f := newFixture(t)
	f.svc.users = &mockUserRepository{err: errors.New("connection refused")}

	if _, err := f.svc.Create(as("guest"), stay(suiteID, 1, 2)); !apperrors.HasCode(err, apperrors.CodeInternal) {
		t.Errorf("expected INTERNAL_ERROR, got %v", err)
	}
}
