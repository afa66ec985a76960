package handler

import (
	"encoding/json"
	"net/http"

	"hotelier/internal/catalog/service"
	apperrors "hotelier/pkg/errors"
	httputil "hotelier/pkg/http"
	"hotelier/pkg/logger"
	"hotelier/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type CatalogHandler struct {
	service service.CatalogService
	log     *logger.Logger
}

func NewCatalogHandler(service service.CatalogService, log *logger.Logger) *CatalogHandler {
	return &CatalogHandler{service: service, log: log}
}

func (h *CatalogHandler) CreateRoom(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var room model.Room
	if err := json.NewDecoder(r.Body).Decode(&room); err != nil {
		httputil.WriteError(w, apperrors.InvalidInput("Invalid request body"))
		return
	}

	if err := h.service.CreateRoom(r.Context(), &room); err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteCreated(w, room)
}

func (h *CatalogHandler) GetRooms(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	rooms, total, err := h.service.GetRooms(r.Context(), limit, offset)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WritePaginated(w, rooms, total, limit, offset)
}

func (h *CatalogHandler) GetRoom(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	room, err := h.service.GetRoom(r.Context(), ps.ByName("id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, room)
}

func (h *CatalogHandler) UpdateRoom(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var updates model.RoomUpdate
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		httputil.WriteError(w, apperrors.InvalidInput("Invalid request body"))
		return
	}

	if err := h.service.UpdateRoom(r.Context(), ps.ByName("id"), &updates); err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, map[string]string{"message": "Room updated successfully"})
}

func (h *CatalogHandler) DeleteRoom(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.DeleteRoom(r.Context(), ps.ByName("id")); err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteNoContent(w)
}

func (h *CatalogHandler) CreatePackage(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var pkg model.Package
	if err := json.NewDecoder(r.Body).Decode(&pkg); err != nil {
		httputil.WriteError(w, apperrors.InvalidInput("Invalid request body"))
		return
	}

	if err := h.service.CreatePackage(r.Context(), &pkg); err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteCreated(w, pkg)
}

func (h *CatalogHandler) GetPackages(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	packages, total, err := h.service.GetPackages(r.Context(), limit, offset)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WritePaginated(w, packages, total, limit, offset)
}

func (h *CatalogHandler) GetPackage(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	pkg, err := h.service.GetPackage(r.Context(), ps.ByName("id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, pkg)
}

func (h *CatalogHandler) UpdatePackage(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var updates model.PackageUpdate
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		httputil.WriteError(w, apperrors.InvalidInput("Invalid request body"))
		return
	}

	if err := h.service.UpdatePackage(r.Context(), ps.ByName("id"), &updates); err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, map[string]string{"message": "Package updated successfully"})
}

func (h *CatalogHandler) DeletePackage(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.DeletePackage(r.Context(), ps.ByName("id")); err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteNoContent(w)
}

func (h *CatalogHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/rooms", h.CreateRoom)
	router.GET("/api/v1/rooms", h.GetRooms)
	router.GET("/api/v1/rooms/id/:id", h.GetRoom)
	router.PATCH("/api/v1/rooms/id/:id", h.UpdateRoom)
	router.DELETE("/api/v1/rooms/id/:id", h.DeleteRoom)

	router.POST("/api/v1/packages", h.CreatePackage)
	router.GET("/api/v1/packages", h.GetPackages)
	router.GET("/api/v1/packages/id/:id", h.GetPackage)
	router.PATCH("/api/v1/packages/id/:id", h.UpdatePackage)
	router.DELETE("/api/v1/packages/id/:id", h.DeletePackage)
}
