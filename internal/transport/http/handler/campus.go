package handler

import (
	"net/http"

	"github.com/campus-explorer-api/internal/application/campus"
	"github.com/campus-explorer-api/internal/domain"
	"github.com/go-chi/chi/v5"
)

// CampusHandler serves universities and buildings.
type CampusHandler struct {
	svc campus.Service
}

func NewCampusHandler(svc campus.Service) *CampusHandler { return &CampusHandler{svc: svc} }

func (h *CampusHandler) ListUniversities(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.ListUniversities(r.Context())
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, UniversitiesEnvelope{Data: nonNilUniversities(list)})
}

func (h *CampusHandler) ListBuildings(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.ListBuildings(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, BuildingsEnvelope{Data: nonNilBuildings(list)})
}

func (h *CampusHandler) GetUniversity(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	u, err := h.svc.GetUniversity(r.Context(), actor)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (h *CampusHandler) UpdateUniversity(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	var req domain.UpdateUniversityRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	u, err := h.svc.UpdateUniversity(r.Context(), actor, chi.URLParam(r, "id"), req)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (h *CampusHandler) CreateBuilding(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	var req domain.CreateBuildingRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	b, err := h.svc.AddBuilding(r.Context(), actor, req)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, b)
}

func (h *CampusHandler) UpdateBuilding(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	var req domain.UpdateBuildingRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	b, err := h.svc.UpdateBuilding(r.Context(), actor, chi.URLParam(r, "id"), req)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (h *CampusHandler) DeleteBuilding(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	if err := h.svc.DeleteBuilding(r.Context(), actor, chi.URLParam(r, "id")); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "building deleted"})
}

func (h *CampusHandler) DeleteUniversity(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	if err := h.svc.DeleteUniversity(r.Context(), actor, chi.URLParam(r, "id")); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "university deleted"})
}

func (h *CampusHandler) Stats(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	stats, err := h.svc.Stats(r.Context(), actor)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// ListAdmins lists every admin account for the super admin console.
func (h *CampusHandler) ListAdmins(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	list, err := h.svc.ListAdmins(r.Context(), actor)
	if err != nil {
		httpError(w, err)
		return
	}
	if list == nil {
		list = []domain.AdminListing{}
	}
	writeJSON(w, http.StatusOK, AdminsEnvelope{Data: list})
}

// Search serves the map's search box. university_id narrows it to one campus.
func (h *CampusHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	res, err := h.svc.Search(r.Context(), q.Get("q"), q.Get("university_id"))
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// actorFrom returns the console's current admin session.
func actorFrom(w http.ResponseWriter, r *http.Request) (domain.Session, bool) {
	console, ok := consoleFrom(w, r)
	if !ok {
		return nil, false
	}
	sess := console.Snapshot().Session
	if sess == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return nil, false
	}
	return sess, true
}

func nonNilUniversities(list []domain.University) []domain.University {
	if list == nil {
		return []domain.University{}
	}
	return list
}

func nonNilBuildings(list []domain.Building) []domain.Building {
	if list == nil {
		return []domain.Building{}
	}
	return list
}
