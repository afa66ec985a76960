package handler

import (
	"encoding/json"
	"net/http"

	"hotelier/internal/employees/service"
	apperrors "hotelier/pkg/errors"
	httputil "hotelier/pkg/http"
	"hotelier/pkg/logger"
	"hotelier/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type EmployeeHandler struct {
	service service.EmployeeService
	log     *logger.Logger
}

func NewEmployeeHandler(service service.EmployeeService, log *logger.Logger) *EmployeeHandler {
	return &EmployeeHandler{service: service, log: log}
}

func (h *EmployeeHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var employee model.Employee
	if err := json.NewDecoder(r.Body).Decode(&employee); err != nil {
		httputil.WriteError(w, apperrors.InvalidInput("Invalid request body"))
		return
	}

	if err := h.service.Create(r.Context(), &employee); err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteCreated(w, employee)
}

func (h *EmployeeHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	employees, total, err := h.service.GetAll(r.Context(), limit, offset)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WritePaginated(w, employees, total, limit, offset)
}

func (h *EmployeeHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	employee, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, employee)
}

func (h *EmployeeHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var updates model.EmployeeUpdate
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		httputil.WriteError(w, apperrors.InvalidInput("Invalid request body"))
		return
	}

	if err := h.service.Update(r.Context(), ps.ByName("id"), &updates); err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, map[string]string{"message": "Employee updated successfully"})
}

func (h *EmployeeHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.Delete(r.Context(), ps.ByName("id")); err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteNoContent(w)
}

func (h *EmployeeHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/employees", h.Create)
	router.GET("/api/v1/employees", h.GetAll)
	router.GET("/api/v1/employees/id/:id", h.GetByID)
	router.PATCH("/api/v1/employees/id/:id", h.Update)
	router.DELETE("/api/v1/employees/id/:id", h.Delete)
}
