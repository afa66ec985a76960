package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"hotelier/internal/orders/repository"
	"hotelier/internal/orders/service"
	apperrors "hotelier/pkg/errors"
	httputil "hotelier/pkg/http"
	"hotelier/pkg/logger"
	"hotelier/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type OrderHandler struct {
	service service.OrderService
	log     *logger.Logger
}

func NewOrderHandler(service service.OrderService, log *logger.Logger) *OrderHandler {
	return &OrderHandler{service: service, log: log}
}

func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var order model.Order
	if err := json.NewDecoder(r.Body).Decode(&order); err != nil {
		httputil.WriteError(w, apperrors.InvalidInput("Invalid request body"))
		return
	}

	if err := h.service.Create(r.Context(), time.Now(), &order); err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteCreated(w, order)
}

func (h *OrderHandler) TakeawaySlots(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	slots, err := h.service.TakeawaySlots(r.Context(), time.Now())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, slots)
}

func (h *OrderHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	query := r.URL.Query()
	filter := repository.Filter{
		Type:   query.Get("type"),
		Status: query.Get("status"),
		Email:  query.Get("email"),
	}

	orders, total, err := h.service.GetAll(r.Context(), filter, limit, offset)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WritePaginated(w, orders, total, limit, offset)
}

func (h *OrderHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	order, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, order)
}

func (h *OrderHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var updates model.OrderUpdate
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		httputil.WriteError(w, apperrors.InvalidInput("Invalid request body"))
		return
	}

	if err := h.service.Update(r.Context(), ps.ByName("id"), &updates); err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, map[string]string{"message": "Order updated successfully"})
}

func (h *OrderHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.Delete(r.Context(), ps.ByName("id")); err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteNoContent(w)
}

func (h *OrderHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/orders", h.Create)
	router.GET("/api/v1/orders", h.GetAll)
	router.GET("/api/v1/orders/takeaway/slots", h.TakeawaySlots)
	router.GET("/api/v1/orders/id/:id", h.GetByID)
	router.PATCH("/api/v1/orders/id/:id", h.Update)
	router.DELETE("/api/v1/orders/id/:id", h.Delete)
}
