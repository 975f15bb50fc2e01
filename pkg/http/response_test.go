package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	apperrors "guesthouse/pkg/errors"
)

func TestWriteError_UsesAppErrorStatus(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"not found", apperrors.NotFoundWithID("Booking", "abc"), http.StatusNotFound, apperrors.CodeNotFound},
		{"forbidden", apperrors.Forbidden("not yours"), http.StatusForbidden, apperrors.CodeForbidden},
		{"unauthorized", apperrors.Unauthorized("login"), http.StatusUnauthorized, apperrors.CodeUnauthorized},
		{"state transition", apperrors.InvalidStateTransition("completed", "cancelled"), http.StatusConflict, apperrors.CodeInvalidStateTransition},
		{"room unavailable", apperrors.RoomUnavailable("taken"), http.StatusConflict, apperrors.CodeRoomUnavailable},
		{"validation", apperrors.Validation("bad", nil), http.StatusUnprocessableEntity, apperrors.CodeValidation},
		{"plain error", errors.New("boom"), http.StatusInternalServerError, apperrors.CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			if err := WriteError(rec, tt.err); err != nil {
				t.Fatalf("WriteError() error = %v", err)
			}
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			var body ErrorResponse
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", body.Code, tt.wantCode)
			}
			if body.Error == "" {
				t.Error("expected a message")
			}
		})
	}
}

func TestWriteError_HidesInternalCause(t *testing.T) {
	rec := httptest.NewRecorder()
	_ = WriteError(rec, errors.New("mongo: connection refused at 10.0.0.3"))
	if strings.Contains(rec.Body.String(), "10.0.0.3") {
		t.Errorf("internal detail leaked: %s", rec.Body.String())
	}
}

func TestWritePaginated(t *testing.T) {
	rec := httptest.NewRecorder()
	_ = WritePaginated(rec, []string{"a"}, 7, 10, 20)

	var body PaginatedResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.TotalCount != 7 || body.Limit != 10 || body.Offset != 20 {
		t.Errorf("unexpected body: %+v", body)
	}
}

func TestExtractLimitOffset(t *testing.T) {
	tests := []struct {
		query      string
		wantLimit  int
		wantOffset int64
		wantErr    bool
	}{
		{"", 10, 0, false},
		{"limit=5&offset=15", 5, 15, false},
		{"limit=1000", 100, 0, false},
		{"offset=-4", 10, 0, false},
		{"limit=abc", 0, 0, true},
		{"offset=x", 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/?"+tt.query, nil)
			limit, offset, err := ExtractLimitOffset(r)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if limit != tt.wantLimit || offset != tt.wantOffset {
				t.Errorf("got (%d, %d), want (%d, %d)", limit, offset, tt.wantLimit, tt.wantOffset)
			}
		})
	}
}

func TestParseTime(t *testing.T) {
	got, err := ParseTime("2026-05-01")
	if err != nil || !got.Equal(time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("date only: got %v, %v", got, err)
	}

	got, err = ParseTime("2026-05-01T14:00:00+02:00")
	if err != nil || !got.Equal(time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)) {
		t.Errorf("rfc3339: got %v, %v", got, err)
	}

	if _, err := ParseTime("tomorrow"); err == nil {
		t.Error("expected error")
	}
}
