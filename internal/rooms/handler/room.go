package handler

import (
	"net/http"

	"guesthouse/internal/rooms/service"
	httputil "guesthouse/pkg/http"
	"guesthouse/pkg/logger"
	"guesthouse/pkg/model"
	"guesthouse/pkg/sanitizer"

	"github.com/julienschmidt/httprouter"
)

type RoomHandler struct {
	service service.RoomService
	log     *logger.Logger
}

func NewRoomHandler(service service.RoomService, log *logger.Logger) *RoomHandler {
	return &RoomHandler{
		service: service,
		log:     log,
	}
}

func (h *RoomHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, "List", err)
		return
	}

	filter, err := parseFilter(r)
	if err != nil {
		h.writeError(w, "List", err)
		return
	}

	rooms, total, err := h.service.List(r.Context(), filter, limit, offset)
	if err != nil {
		h.writeError(w, "List", err)
		return
	}

	if err := httputil.WritePaginated(w, rooms, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "List", "operation", "WritePaginated", "error", err)
	}
}

func (h *RoomHandler) Featured(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	rooms, err := h.service.Featured(r.Context())
	if err != nil {
		h.writeError(w, "Featured", err)
		return
	}

	if err := httputil.WriteSuccess(w, rooms); err != nil {
		h.log.Error("failed to write success response", "handler", "Featured", "operation", "WriteSuccess", "error", err)
	}
}

func (h *RoomHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	room, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "GetByID", err)
		return
	}

	if err := httputil.WriteSuccess(w, room); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

func (h *RoomHandler) Availability(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
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

	result, err := h.service.Availability(r.Context(), ps.ByName("id"), checkIn, checkOut)
	if err != nil {
		h.writeError(w, "Availability", err)
		return
	}

	if err := httputil.WriteSuccess(w, result); err != nil {
		h.log.Error("failed to write success response", "handler", "Availability", "operation", "WriteSuccess", "error", err)
	}
}

func (h *RoomHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/rooms", h.List)
	router.GET("/api/v1/rooms/featured", h.Featured)
	router.GET("/api/v1/rooms/id/:id", h.GetByID)
	router.GET("/api/v1/rooms/id/:id/availability", h.Availability)
}

func (h *RoomHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func parseFilter(r *http.Request) (model.RoomFilter, error) {
	minPrice, err := httputil.QueryFloat(r, "min_price")
	if err != nil {
		return model.RoomFilter{}, err
	}
	maxPrice, err := httputil.QueryFloat(r, "max_price")
	if err != nil {
		return model.RoomFilter{}, err
	}
	capacity, err := httputil.QueryInt(r, "capacity", 0)
	if err != nil {
		return model.RoomFilter{}, err
	}

	return model.RoomFilter{
		Type:     model.RoomType(sanitizer.NormalizeLabel(r.URL.Query().Get("type"))),
		MinPrice: minPrice,
		MaxPrice: maxPrice,
		Capacity: capacity,
	}, nil
}
