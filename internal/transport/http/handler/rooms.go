package handler

import (
	"net/http"

	"github.com/campus-explorer-api/internal/domain"
	"github.com/go-chi/chi/v5"
)

// BulkRoomsRequest is the body of a CSV room import, already parsed by the console.
type BulkRoomsRequest struct {
	Rooms []domain.CreateRoomRequest `json:"rooms"`
}

func (h *CampusHandler) ListRooms(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.ListRooms(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, RoomsEnvelope{Data: nonNilRooms(list)})
}

func (h *CampusHandler) ListUniversityRooms(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	list, err := h.svc.ListUniversityRooms(r.Context(), actor)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, RoomsEnvelope{Data: nonNilRooms(list)})
}

func (h *CampusHandler) CreateRoom(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	var req domain.CreateRoomRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	room, err := h.svc.AddRoom(r.Context(), actor, req)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, room)
}

func (h *CampusHandler) CreateRooms(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	var req BulkRoomsRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	rooms, err := h.svc.AddRooms(r.Context(), actor, req.Rooms)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, RoomsEnvelope{Data: nonNilRooms(rooms)})
}

func (h *CampusHandler) UpdateRoom(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	var req domain.UpdateRoomRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	room, err := h.svc.UpdateRoom(r.Context(), actor, chi.URLParam(r, "id"), req)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, room)
}

func (h *CampusHandler) DeleteRoom(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	if err := h.svc.DeleteRoom(r.Context(), actor, chi.URLParam(r, "id")); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "room deleted"})
}

func (h *CampusHandler) SetTimetable(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	var tt domain.Timetable
	if !decodeJSON(w, r, &tt) {
		return
	}
	room, err := h.svc.SetRoomTimetable(r.Context(), actor, chi.URLParam(r, "id"), tt)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, room)
}

func (h *CampusHandler) ClearTimetable(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	room, err := h.svc.ClearRoomTimetable(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, room)
}

func nonNilRooms(list []domain.Room) []domain.Room {
	if list == nil {
		return []domain.Room{}
	}
	return list
}
