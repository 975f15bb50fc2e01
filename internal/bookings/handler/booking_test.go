package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"guesthouse/internal/bookings/service"
	apperrors "guesthouse/pkg/errors"
	"guesthouse/pkg/logger"
	"guesthouse/pkg/model"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/julienschmidt/httprouter"
)

type mockBookingService struct {
	checkAvailabilityFunc func(ctx context.Context, query *model.AvailabilityQuery) (bool, error)
	createFunc            func(ctx context.Context, req *model.CreateBookingRequest) (*model.Booking, error)
	getByIDFunc           func(ctx context.Context, id string) (*model.Booking, error)
	listMineFunc          func(ctx context.Context, limit int, offset int64) ([]*model.BookingWithRoom, int64, error)
	listRecentFunc        func(ctx context.Context, limit int) ([]*model.Booking, error)
	cancelFunc            func(ctx context.Context, id string) (*model.Booking, error)
	confirmFunc           func(ctx context.Context, id string) (*model.Booking, error)
	completeFunc          func(ctx context.Context, id string) (*model.Booking, error)
}

func (m *mockBookingService) CheckAvailability(ctx context.Context, query *model.AvailabilityQuery) (bool, error) {
	if m.checkAvailabilityFunc != nil {
		return m.checkAvailabilityFunc(ctx, query)
	}
	return true, nil
}

func (m *mockBookingService) Create(ctx context.Context, req *model.CreateBookingRequest) (*model.Booking, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, req)
	}
	return &model.Booking{ID: "b1", Status: model.BookingStatusPending}, nil
}

func (m *mockBookingService) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return &model.Booking{ID: id}, nil
}

func (m *mockBookingService) ListMine(ctx context.Context, limit int, offset int64) ([]*model.BookingWithRoom, int64, error) {
	if m.listMineFunc != nil {
		return m.listMineFunc(ctx, limit, offset)
	}
	return []*model.BookingWithRoom{}, 0, nil
}

func (m *mockBookingService) ListRecent(ctx context.Context, limit int) ([]*model.Booking, error) {
	if m.listRecentFunc != nil {
		return m.listRecentFunc(ctx, limit)
	}
	return []*model.Booking{}, nil
}

func (m *mockBookingService) Cancel(ctx context.Context, id string) (*model.Booking, error) {
	if m.cancelFunc != nil {
		return m.cancelFunc(ctx, id)
	}
	return &model.Booking{ID: id, Status: model.BookingStatusCancelled}, nil
}

func (m *mockBookingService) Confirm(ctx context.Context, id string) (*model.Booking, error) {
	if m.confirmFunc != nil {
		return m.confirmFunc(ctx, id)
	}
	return &model.Booking{ID: id, Status: model.BookingStatusConfirmed}, nil
}

func (m *mockBookingService) Complete(ctx context.Context, id string) (*model.Booking, error) {
	if m.completeFunc != nil {
		return m.completeFunc(ctx, id)
	}
	return &model.Booking{ID: id, Status: model.BookingStatusCompleted}, nil
}

var _ service.BookingService = (*mockBookingService)(nil)

func serve(svc service.BookingService, method, target string, body []byte) *httptest.ResponseRecorder {
	router := httprouter.New()
	NewBookingHandler(svc, logger.Discard()).RegisterRoutes(router)

	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode error body: %v", err)
	}
	return resp.Code
}

func TestCreate_ParsesDates(t *testing.T) {
	tests := []struct {
		name     string
		checkIn  string
		checkOut string
		wantIn   time.Time
	}{
		{
			name:     "plain dates",
			checkIn:  "2030-06-01",
			checkOut: "2030-06-03",
			wantIn:   time.Date(2030, time.June, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "rfc3339 with offset",
			checkIn:  "2030-06-01T14:00:00+02:00",
			checkOut: "2030-06-03T11:00:00+02:00",
			wantIn:   time.Date(2030, time.June, 1, 12, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got *model.CreateBookingRequest
			svc := &mockBookingService{
				createFunc: func(_ context.Context, req *model.CreateBookingRequest) (*model.Booking, error) {
					got = req
					return &model.Booking{ID: "b1", RoomID: req.RoomID, Status: model.BookingStatusPending}, nil
				},
			}

			body, _ := json.Marshal(map[string]any{
				"room_id":   "665f1c2e8a1b2c3d4e5f6a7b",
				"check_in":  tt.checkIn,
				"check_out": tt.checkOut,
				"guests":    2,
			})
			w := serve(svc, http.MethodPost, "/api/v1/bookings", body)

			if w.Code != http.StatusCreated {
				t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
			}
			if !got.CheckIn.Equal(tt.wantIn) {
				t.Errorf("CheckIn = %v, want %v", got.CheckIn, tt.wantIn)
			}
			if got.Guests != 2 || got.RoomID != "665f1c2e8a1b2c3d4e5f6a7b" {
				t.Errorf("unexpected request: %+v", got)
			}
		})
	}
}

func TestCreate_BadBodies(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "not json", body: "{"},
		{name: "unknown field", body: `{"room_id":"r","check_in":"2030-06-01","check_out":"2030-06-02","guests":1,"price":1}`},
		{name: "missing dates", body: `{"room_id":"r","guests":1}`},
		{name: "unparseable date", body: `{"room_id":"r","check_in":"June 1st","check_out":"2030-06-02","guests":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockBookingService{
				createFunc: func(context.Context, *model.CreateBookingRequest) (*model.Booking, error) {
					t.Fatal("service must not be called")
					return nil, nil
				},
			}
			w := serve(svc, http.MethodPost, "/api/v1/bookings", []byte(tt.body))
			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", w.Code)
			}
			if code := decodeError(t, w); code != apperrors.CodeInvalidInput {
				t.Errorf("code = %s", code)
			}
		})
	}
}

func TestCreate_ServiceErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{name: "conflict", err: apperrors.RoomUnavailable("Room is already booked for selected dates"), wantStatus: http.StatusConflict},
		{name: "anonymous", err: apperrors.Unauthorized("Authentication required"), wantStatus: http.StatusUnauthorized},
		{name: "unknown user", err: apperrors.NotFound("User"), wantStatus: http.StatusNotFound},
		{name: "validation", err: apperrors.Validation("Booking validation failed", nil), wantStatus: http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockBookingService{
				createFunc: func(context.Context, *model.CreateBookingRequest) (*model.Booking, error) {
					return nil, tt.err
				},
			}
			body := []byte(`{"room_id":"665f1c2e8a1b2c3d4e5f6a7b","check_in":"2030-06-01","check_out":"2030-06-02","guests":1}`)
			w := serve(svc, http.MethodPost, "/api/v1/bookings", body)
			if w.Code != tt.wantStatus {
				t.Errorf("expected %d, got %d: %s", tt.wantStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestAvailability(t *testing.T) {
	var got *model.AvailabilityQuery
	svc := &mockBookingService{
		checkAvailabilityFunc: func(_ context.Context, q *model.AvailabilityQuery) (bool, error) {
			got = q
			return false, nil
		},
	}

	w := serve(svc, http.MethodGet, "/api/v1/bookings/availability?room_id=r1&check_in=2030-06-01&check_out=2030-06-04", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Data availabilityResponse `json:"data"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Data.Available {
		t.Error("expected available=false")
	}
	if got.RoomID != "r1" || !got.CheckOut.Equal(time.Date(2030, time.June, 4, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected query: %+v", got)
	}
}

func TestAvailability_MissingParameters(t *testing.T) {
	for _, target := range []string{
		"/api/v1/bookings/availability?check_in=2030-06-01&check_out=2030-06-04",
		"/api/v1/bookings/availability?room_id=r1&check_out=2030-06-04",
		"/api/v1/bookings/availability?room_id=r1&check_in=2030-06-01&check_out=soon",
	} {
		w := serve(&mockBookingService{}, http.MethodGet, target, nil)
		if w.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", target, w.Code)
		}
	}
}

func TestListMine_Pagination(t *testing.T) {
	var gotLimit int
	var gotOffset int64
	svc := &mockBookingService{
		listMineFunc: func(_ context.Context, limit int, offset int64) ([]*model.BookingWithRoom, int64, error) {
			gotLimit, gotOffset = limit, offset
			return []*model.BookingWithRoom{{
				Booking: &model.Booking{ID: "b1", PaymentStatus: model.PaymentStatusPending},
				Room:    &model.Room{ID: "r1", Name: "Deluxe Valley Room"},
			}}, 7, nil
		},
	}

	w := serve(svc, http.MethodGet, "/api/v1/bookings?limit=5&offset=5", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if gotLimit != 5 || gotOffset != 5 {
		t.Errorf("limit/offset = %d/%d", gotLimit, gotOffset)
	}

	var resp struct {
		Data []struct {
			ID            string `json:"id"`
			PaymentStatus string `json:"payment_status"`
			Room          struct {
				Name string `json:"name"`
			} `json:"room"`
		} `json:"data"`
		TotalCount int64 `json:"total_count"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.TotalCount != 7 {
		t.Errorf("total_count = %d", resp.TotalCount)
	}
	if len(resp.Data) != 1 {
		t.Fatalf("data = %+v", resp.Data)
	}
	// The booking fields stay at the top level next to the joined room.
	if got := resp.Data[0]; got.ID != "b1" || got.PaymentStatus != "pending" || got.Room.Name != "Deluxe Valley Room" {
		t.Errorf("unexpected item: %+v", got)
	}
}

func TestListRecent_PassesLimit(t *testing.T) {
	var gotLimit = -1
	svc := &mockBookingService{
		listRecentFunc: func(_ context.Context, limit int) ([]*model.Booking, error) {
			gotLimit = limit
			return []*model.Booking{}, nil
		},
	}

	serve(svc, http.MethodGet, "/api/v1/bookings/recent", nil)
	if gotLimit != 0 {
		t.Errorf("expected 0 so the service applies its default, got %d", gotLimit)
	}

	if w := serve(svc, http.MethodGet, "/api/v1/bookings/recent?limit=abc", nil); w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for bad limit, got %d", w.Code)
	}
}

func TestTransitionRoutes(t *testing.T) {
	called := map[string]string{}
	record := func(name string) func(context.Context, string) (*model.Booking, error) {
		return func(_ context.Context, id string) (*model.Booking, error) {
			called[name] = id
			return &model.Booking{ID: id}, nil
		}
	}
	svc := &mockBookingService{
		cancelFunc:   record("cancel"),
		confirmFunc:  record("confirm"),
		completeFunc: record("complete"),
	}

	for _, action := range []string{"cancel", "confirm", "complete"} {
		w := serve(svc, http.MethodPost, "/api/v1/bookings/id/b42/"+action, nil)
		if w.Code != http.StatusOK {
			t.Errorf("%s: expected 200, got %d", action, w.Code)
		}
		if called[action] != "b42" {
			t.Errorf("%s: service got id %q", action, called[action])
		}
	}
}

func TestTransition_ErrorStatuses(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{name: "terminal status", err: apperrors.InvalidStateTransition("completed", "cancelled"), wantStatus: http.StatusConflict, wantCode: apperrors.CodeInvalidStateTransition},
		{name: "not owner", err: apperrors.Forbidden("Not authorized to modify this booking"), wantStatus: http.StatusForbidden, wantCode: apperrors.CodeForbidden},
		{name: "missing", err: apperrors.NotFoundWithID("Booking", "b42"), wantStatus: http.StatusNotFound, wantCode: apperrors.CodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockBookingService{
				cancelFunc: func(context.Context, string) (*model.Booking, error) { return nil, tt.err },
			}
			w := serve(svc, http.MethodPost, "/api/v1/bookings/id/b42/cancel", nil)
			if w.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d", tt.wantStatus, w.Code)
			}
			if code := decodeError(t, w); code != tt.wantCode {
				t.Errorf("code = %s, want %s", code, tt.wantCode)
			}
		})
	}
}

func TestGetByID(t *testing.T) {
	w := serve(&mockBookingService{}, http.MethodGet, "/api/v1/bookings/id/b7", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp struct {
		Data model.Booking `json:"data"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Data.ID != "b7" {
		t.Errorf("id = %s", resp.Data.ID)
	}
}
