package handler

import (
	"encoding/json"
	"net/http"

	"hotelier/internal/reminders/service"
	apperrors "hotelier/pkg/errors"
	httputil "hotelier/pkg/http"
	"hotelier/pkg/logger"
	"hotelier/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type ReminderHandler struct {
	service service.ReminderService
	log     *logger.Logger
}

func NewReminderHandler(service service.ReminderService, log *logger.Logger) *ReminderHandler {
	return &ReminderHandler{service: service, log: log}
}

func (h *ReminderHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var reminder model.Reminder
	if err := json.NewDecoder(r.Body).Decode(&reminder); err != nil {
		httputil.WriteError(w, apperrors.InvalidInput("Invalid request body"))
		return
	}

	if err := h.service.Create(r.Context(), &reminder); err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteCreated(w, reminder)
}

func (h *ReminderHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	reminders, total, err := h.service.GetAll(r.Context(), limit, offset)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WritePaginated(w, reminders, total, limit, offset)
}

func (h *ReminderHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	reminder, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, reminder)
}

func (h *ReminderHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.Delete(r.Context(), ps.ByName("id")); err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteNoContent(w)
}

func (h *ReminderHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/reminders", h.Create)
	router.GET("/api/v1/reminders", h.GetAll)
	router.GET("/api/v1/reminders/id/:id", h.GetByID)
	router.DELETE("/api/v1/reminders/id/:id", h.Delete)
}
