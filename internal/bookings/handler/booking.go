package handler

import (
	"context"
	"net/http"

	"guesthouse/internal/bookings/service"
	apperrors "guesthouse/pkg/errors"
	httputil "guesthouse/pkg/http"
	"guesthouse/pkg/logger"
	"guesthouse/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type BookingHandler struct {
	service service.BookingService
	log     *logger.Logger
}

func NewBookingHandler(service service.BookingService, log *logger.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		log:     log,
	}
}

// createBookingBody accepts dates as RFC 3339 timestamps or plain YYYY-MM-DD.
type createBookingBody struct {
	RoomID          string `json:"room_id"`
	CheckIn         string `json:"check_in"`
	CheckOut        string `json:"check_out"`
	Guests          int    `json:"guests"`
	SpecialRequests string `json:"special_requests,omitempty"`
}

type availabilityResponse struct {
	Available bool `json:"available"`
}

func (h *BookingHandler) Availability(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	roomID := r.URL.Query().Get("room_id")
	if roomID == "" {
		h.writeError(w, "Availability", apperrors.InvalidInput("missing room_id parameter"))
		return
	}
	checkIn, err := httputil.QueryTime(r, "check_in")
	if err != nil {
		h.writeError(w, "Availability", err)
		return
	}
	checkOut, err := httputil.QueryTime(r, "check_out")
	if err != nil {
		h.writeError(w, "Availability", err)
		return
	}

	available, err := h.service.CheckAvailability(r.Context(), &model.AvailabilityQuery{
		RoomID:   roomID,
		CheckIn:  checkIn,
		CheckOut: checkOut,
	})
	if err != nil {
		h.writeError(w, "Availability", err)
		return
	}

	if err := httputil.WriteSuccess(w, availabilityResponse{Available: available}); err != nil {
		h.log.Error("failed to write success response", "handler", "Availability", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var body createBookingBody
	if err := httputil.DecodeJSON(r, &body, false); err != nil {
		h.writeError(w, "Create", err)
		return
	}

	req, err := body.toRequest()
	if err != nil {
		h.writeError(w, "Create", err)
		return
	}

	booking, err := h.service.Create(r.Context(), req)
	if err != nil {
		h.writeError(w, "Create", err)
		return
	}

	if err := httputil.WriteCreated(w, booking); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *BookingHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	booking, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "GetByID", err)
		return
	}

	if err := httputil.WriteSuccess(w, booking); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) ListMine(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, "ListMine", err)
		return
	}

	bookings, total, err := h.service.ListMine(r.Context(), limit, offset)
	if err != nil {
		h.writeError(w, "ListMine", err)
		return
	}

	if err := httputil.WritePaginated(w, bookings, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "ListMine", "operation", "WritePaginated", "error", err)
	}
}

func (h *BookingHandler) ListRecent(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, err := httputil.QueryInt(r, "limit", 0)
	if err != nil {
		h.writeError(w, "ListRecent", err)
		return
	}

	bookings, err := h.service.ListRecent(r.Context(), limit)
	if err != nil {
		h.writeError(w, "ListRecent", err)
		return
	}

	if err := httputil.WriteSuccess(w, bookings); err != nil {
		h.log.Error("failed to write success response", "handler", "ListRecent", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	h.transition(w, r, "Cancel", ps.ByName("id"), h.service.Cancel)
}

func (h *BookingHandler) Confirm(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	h.transition(w, r, "Confirm", ps.ByName("id"), h.service.Confirm)
}

func (h *BookingHandler) Complete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	h.transition(w, r, "Complete", ps.ByName("id"), h.service.Complete)
}

func (h *BookingHandler) transition(
	w http.ResponseWriter,
	r *http.Request,
	name string,
	id string,
	apply func(ctx context.Context, id string) (*model.Booking, error),
) {
	booking, err := apply(r.Context(), id)
	if err != nil {
		h.writeError(w, name, err)
		return
	}

	if err := httputil.WriteSuccess(w, booking); err != nil {
		h.log.Error("failed to write success response", "handler", name, "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/bookings/availability", h.Availability)
	router.POST("/api/v1/bookings", h.Create)
	router.GET("/api/v1/bookings", h.ListMine)
	router.GET("/api/v1/bookings/recent", h.ListRecent)
	router.GET("/api/v1/bookings/id/:id", h.GetByID)
	router.POST("/api/v1/bookings/id/:id/cancel", h.Cancel)
	router.POST("/api/v1/bookings/id/:id/confirm", h.Confirm)
	router.POST("/api/v1/bookings/id/:id/complete", h.Complete)
}

func (h *BookingHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func (b createBookingBody) toRequest() (*model.CreateBookingRequest, error) {
	if b.CheckIn == "" || b.CheckOut == "" {
		return nil, apperrors.InvalidInput("check_in and check_out are required")
	}
	checkIn, err := httputil.ParseTime(b.CheckIn)
	if err != nil {
		return nil, apperrors.InvalidInput("invalid check_in: " + b.CheckIn)
	}
	checkOut, err := httputil.ParseTime(b.CheckOut)
	if err != nil {
		return nil, apperrors.InvalidInput("invalid check_out: " + b.CheckOut)
	}

	return &model.CreateBookingRequest{
		RoomID:          b.RoomID,
		CheckIn:         checkIn,
		CheckOut:        checkOut,
		Guests:          b.Guests,
		SpecialRequests: b.SpecialRequests,
	}, nil
}
