package handler

import (
	"encoding/json"
	"net/http"

	"hotelier/internal/parking/service"
	apperrors "hotelier/pkg/errors"
	httputil "hotelier/pkg/http"
	"hotelier/pkg/logger"
	"hotelier/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type ParkingHandler struct {
	service service.ParkingService
	log     *logger.Logger
}

func NewParkingHandler(service service.ParkingService, log *logger.Logger) *ParkingHandler {
	return &ParkingHandler{service: service, log: log}
}

func (h *ParkingHandler) Availability(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	query := r.URL.Query()
	date := query.Get("date")
	if date == "" {
		httputil.WriteError(w, apperrors.InvalidInput("'date' query parameter is required"))
		return
	}

	availability, err := h.service.Availability(r.Context(), date, query.Get("user_id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, availability)
}

func (h *ParkingHandler) Quote(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	query := r.URL.Query()
	slot := query.Get("slot")
	duration := query.Get("duration")
	if slot == "" || duration == "" {
		httputil.WriteError(w, apperrors.InvalidInput("'slot' and 'duration' query parameters are required"))
		return
	}

	price, err := h.service.Quote(slot, duration)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, map[string]any{
		"slot":     slot,
		"duration": duration,
		"price":    price,
	})
}

func (h *ParkingHandler) Book(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var booking model.ParkingBooking
	if err := json.NewDecoder(r.Body).Decode(&booking); err != nil {
		httputil.WriteError(w, apperrors.InvalidInput("Invalid request body"))
		return
	}

	if err := h.service.Book(r.Context(), &booking); err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteCreated(w, booking)
}

func (h *ParkingHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if email := r.URL.Query().Get("email"); email != "" {
		bookings, err := h.service.GetByUser(r.Context(), email, limit, offset)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		httputil.WriteSuccess(w, bookings)
		return
	}

	bookings, total, err := h.service.GetAll(r.Context(), limit, offset)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WritePaginated(w, bookings, total, limit, offset)
}

func (h *ParkingHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	booking, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, booking)
}

func (h *ParkingHandler) Cancel(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.Cancel(r.Context(), ps.ByName("id")); err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteNoContent(w)
}

func (h *ParkingHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/parking/availability", h.Availability)
	router.GET("/api/v1/parking/price", h.Quote)
	router.POST("/api/v1/parking/bookings", h.Book)
	router.GET("/api/v1/parking/bookings", h.GetAll)
	router.GET("/api/v1/parking/bookings/id/:id", h.GetByID)
	router.DELETE("/api/v1/parking/bookings/id/:id", h.Cancel)
}
