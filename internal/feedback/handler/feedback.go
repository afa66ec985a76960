package handler

import (
	"encoding/json"
	"net/http"

	"hotelier/internal/feedback/service"
	apperrors "hotelier/pkg/errors"
	httputil "hotelier/pkg/http"
	"hotelier/pkg/logger"
	"hotelier/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type FeedbackHandler struct {
	service service.FeedbackService
	log     *logger.Logger
}

func NewFeedbackHandler(service service.FeedbackService, log *logger.Logger) *FeedbackHandler {
	return &FeedbackHandler{service: service, log: log}
}

func (h *FeedbackHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var feedback model.Feedback
	if err := json.NewDecoder(r.Body).Decode(&feedback); err != nil {
		httputil.WriteError(w, apperrors.InvalidInput("Invalid request body"))
		return
	}

	if err := h.service.Create(r.Context(), &feedback); err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteCreated(w, feedback)
}

func (h *FeedbackHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	feedback, total, err := h.service.GetAll(r.Context(), limit, offset)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WritePaginated(w, feedback, total, limit, offset)
}

func (h *FeedbackHandler) Summary(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	buckets, err := h.service.Summary(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, buckets)
}

func (h *FeedbackHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.Delete(r.Context(), ps.ByName("id")); err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteNoContent(w)
}

func (h *FeedbackHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/feedback", h.Create)
	router.GET("/api/v1/feedback", h.GetAll)
	router.GET("/api/v1/feedback/summary", h.Summary)
	router.DELETE("/api/v1/feedback/id/:id", h.Delete)
}
