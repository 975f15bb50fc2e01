package handler

import (
	"net/http"

	"guesthouse/internal/foodorders/service"
	httputil "guesthouse/pkg/http"
	"guesthouse/pkg/logger"
	"guesthouse/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type FoodOrderHandler struct {
	service service.FoodOrderService
	log     *logger.Logger
}

func NewFoodOrderHandler(service service.FoodOrderService, log *logger.Logger) *FoodOrderHandler {
	return &FoodOrderHandler{
		service: service,
		log:     log,
	}
}

func (h *FoodOrderHandler) Menu(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	items, err := h.service.Menu(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		h.writeError(w, "Menu", err)
		return
	}

	if err := httputil.WriteSuccess(w, items); err != nil {
		h.log.Error("failed to write success response", "handler", "Menu", "operation", "WriteSuccess", "error", err)
	}
}

func (h *FoodOrderHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.CreateFoodOrderRequest
	if err := httputil.DecodeJSON(r, &req, false); err != nil {
		h.writeError(w, "Create", err)
		return
	}

	order, err := h.service.Create(r.Context(), &req)
	if err != nil {
		h.writeError(w, "Create", err)
		return
	}

	if err := httputil.WriteCreated(w, order); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *FoodOrderHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	order, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "GetByID", err)
		return
	}

	if err := httputil.WriteSuccess(w, order); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

func (h *FoodOrderHandler) ListForBooking(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	orders, err := h.service.ListForBooking(r.Context(), r.URL.Query().Get("booking_id"))
	if err != nil {
		h.writeError(w, "ListForBooking", err)
		return
	}

	if err := httputil.WriteSuccess(w, orders); err != nil {
		h.log.Error("failed to write success response", "handler", "ListForBooking", "operation", "WriteSuccess", "error", err)
	}
}

func (h *FoodOrderHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/food/menu", h.Menu)
	router.POST("/api/v1/food/orders", h.Create)
	router.GET("/api/v1/food/orders", h.ListForBooking)
	router.GET("/api/v1/food/orders/id/:id", h.GetByID)
}

func (h *FoodOrderHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}
