package campus

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/campus-explorer-api/internal/domain"
	"github.com/campus-explorer-api/internal/pkg/id"
	"github.com/campus-explorer-api/internal/pkg/validate"
)

// Room attributes used in partial updates.
const (
	fieldBuildingID   = "building_id"
	fieldUniversityID = "university_id"
	fieldRoomNumber   = "room_number"
	fieldRoomName     = "room_name"
	fieldFloor        = "floor"
	fieldIsOffice     = "is_office"
	fieldPurpose      = "purpose"
	fieldTimetable    = "timetable"
)

// maxBulkRooms bounds one CSV import.
const maxBulkRooms = 500

func (s *service) ListRooms(ctx context.Context, buildingID string) ([]domain.Room, error) {
	if !id.Valid(buildingID) {
		return nil, fmt.Errorf("invalid building id: %w", domain.ErrBadRequest)
	}
	list, err := s.rooms.ListByBuilding(ctx, buildingID)
	if err != nil {
		return nil, err
	}
	sortRooms(list)
	return list, nil
}

// ListUniversityRooms returns every room of the actor's university.
func (s *service) ListUniversityRooms(ctx context.Context, actor domain.Session) ([]domain.Room, error) {
	reg, err := regularActor(actor)
	if err != nil {
		return nil, err
	}
	list, err := s.rooms.ListByUniversity(ctx, reg.UniversityID)
	if err != nil {
		return nil, err
	}
	sortRooms(list)
	return list, nil
}

func (s *service) AddRoom(ctx context.Context, actor domain.Session, req domain.CreateRoomRequest) (*domain.Room, error) {
	if actor == nil {
		return nil, domain.ErrUnauthorized
	}
	if err := validate.Struct(&req); err != nil {
		return nil, fmt.Errorf("%s: %w", err.Error(), domain.ErrBadRequest)
	}
	b, err := s.ownedBuilding(ctx, actor, req.BuildingID)
	if err != nil {
		return nil, err
	}
	existing, err := s.rooms.ListByBuilding(ctx, b.ID)
	if err != nil {
		return nil, err
	}
	number := strings.TrimSpace(req.RoomNumber)
	if roomNumberTaken(existing, number, "") {
		return nil, fmt.Errorf("room %s already exists in %s: %w", number, b.Name, domain.ErrConflict)
	}
	room := s.newRoom(b, req)
	if err := s.rooms.Put(ctx, &room); err != nil {
		return nil, err
	}
	return &room, nil
}

// AddRooms imports rooms in one request. The whole batch is validated before anything is
// written: every building must be modifiable by the actor and no room number may repeat within
// a building, in the batch or against stored rooms.
func (s *service) AddRooms(ctx context.Context, actor domain.Session, reqs []domain.CreateRoomRequest) ([]domain.Room, error) {
	if actor == nil {
		return nil, domain.ErrUnauthorized
	}
	if len(reqs) == 0 {
		return nil, fmt.Errorf("no rooms to import: %w", domain.ErrBadRequest)
	}
	if len(reqs) > maxBulkRooms {
		return nil, fmt.Errorf("at most %d rooms per import: %w", maxBulkRooms, domain.ErrBadRequest)
	}

	buildings := map[string]*domain.Building{}
	numbers := map[string]map[string]bool{}
	rooms := make([]domain.Room, 0, len(reqs))
	for i, req := range reqs {
		if err := validate.Struct(&req); err != nil {
			return nil, fmt.Errorf("row %d: %s: %w", i+1, err.Error(), domain.ErrBadRequest)
		}
		b, ok := buildings[req.BuildingID]
		if !ok {
			var err error
			b, err = s.ownedBuilding(ctx, actor, req.BuildingID)
			if err != nil {
				return nil, fmt.Errorf("row %d: %w", i+1, err)
			}
			existing, err := s.rooms.ListByBuilding(ctx, b.ID)
			if err != nil {
				return nil, err
			}
			taken := make(map[string]bool, len(existing))
			for _, r := range existing {
				taken[r.RoomNumber] = true
			}
			buildings[b.ID] = b
			numbers[b.ID] = taken
		}
		number := strings.TrimSpace(req.RoomNumber)
		if numbers[b.ID][number] {
			return nil, fmt.Errorf("row %d: room %s already exists in %s: %w", i+1, number, b.Name, domain.ErrConflict)
		}
		numbers[b.ID][number] = true
		rooms = append(rooms, s.newRoom(b, req))
	}

	if err := s.rooms.PutBatch(ctx, rooms); err != nil {
		return nil, err
	}
	return rooms, nil
}

func (s *service) UpdateRoom(ctx context.Context, actor domain.Session, roomID string, req domain.UpdateRoomRequest) (*domain.Room, error) {
	room, err := s.ownedRoom(ctx, actor, roomID)
	if err != nil {
		return nil, err
	}
	if err := validate.Struct(&req); err != nil {
		return nil, fmt.Errorf("%s: %w", err.Error(), domain.ErrBadRequest)
	}

	buildingID := room.BuildingID
	updates := map[string]interface{}{}
	if req.BuildingID != nil && *req.BuildingID != room.BuildingID {
		target, err := s.ownedBuilding(ctx, actor, *req.BuildingID)
		if err != nil {
			return nil, err
		}
		if target.UniversityID != room.UniversityID {
			return nil, fmt.Errorf("rooms cannot move between universities: %w", domain.ErrBadRequest)
		}
		buildingID = target.ID
		updates[fieldBuildingID] = target.ID
		updates[fieldUniversityID] = target.UniversityID
	}
	number := room.RoomNumber
	if req.RoomNumber != nil {
		number = strings.TrimSpace(*req.RoomNumber)
		updates[fieldRoomNumber] = number
	}
	if number != room.RoomNumber || buildingID != room.BuildingID {
		existing, err := s.rooms.ListByBuilding(ctx, buildingID)
		if err != nil {
			return nil, err
		}
		if roomNumberTaken(existing, number, room.ID) {
			return nil, fmt.Errorf("room %s already exists: %w", number, domain.ErrConflict)
		}
	}
	if req.RoomName != nil {
		updates[fieldRoomName] = strings.TrimSpace(*req.RoomName)
	}
	if req.Floor != nil {
		updates[fieldFloor] = *req.Floor
	}
	if req.IsOffice != nil {
		updates[fieldIsOffice] = *req.IsOffice
	}
	if req.Purpose != nil {
		updates[fieldPurpose] = *req.Purpose
	}
	if req.Hours != nil {
		updates[fieldHours] = *req.Hours
	}
	if len(updates) == 0 {
		return room, nil
	}
	return s.applyRoomUpdate(ctx, room.ID, updates)
}

func (s *service) DeleteRoom(ctx context.Context, actor domain.Session, roomID string) error {
	if _, err := s.ownedRoom(ctx, actor, roomID); err != nil {
		return err
	}
	return s.rooms.Delete(ctx, roomID)
}

// SetRoomTimetable replaces the room's timetable.
func (s *service) SetRoomTimetable(ctx context.Context, actor domain.Session, roomID string, tt domain.Timetable) (*domain.Room, error) {
	if _, err := s.ownedRoom(ctx, actor, roomID); err != nil {
		return nil, err
	}
	if err := validate.Struct(&tt); err != nil {
		return nil, fmt.Errorf("%s: %w", err.Error(), domain.ErrBadRequest)
	}
	if tt.Services == nil {
		tt.Services = []string{}
	}
	if tt.Schedule == nil {
		tt.Schedule = map[string]map[string]domain.TimeSlot{}
	}
	return s.applyRoomUpdate(ctx, roomID, map[string]interface{}{fieldTimetable: tt})
}

func (s *service) ClearRoomTimetable(ctx context.Context, actor domain.Session, roomID string) (*domain.Room, error) {
	room, err := s.ownedRoom(ctx, actor, roomID)
	if err != nil {
		return nil, err
	}
	if room.Timetable == nil {
		return room, nil
	}
	return s.applyRoomUpdate(ctx, roomID, map[string]interface{}{fieldTimetable: nil})
}

func (s *service) applyRoomUpdate(ctx context.Context, roomID string, updates map[string]interface{}) (*domain.Room, error) {
	updates[fieldUpdatedAt] = s.now()
	if err := s.rooms.Update(ctx, roomID, updates); err != nil {
		return nil, err
	}
	return s.rooms.Get(ctx, roomID)
}

// ownedRoom loads a room the actor may modify, judged by the university it belongs to.
func (s *service) ownedRoom(ctx context.Context, actor domain.Session, roomID string) (*domain.Room, error) {
	if actor == nil {
		return nil, domain.ErrUnauthorized
	}
	if !id.Valid(roomID) {
		return nil, fmt.Errorf("invalid room id: %w", domain.ErrBadRequest)
	}
	room, err := s.rooms.Get(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if actor.IsSuperAdmin() {
		return room, nil
	}
	reg, err := regularActor(actor)
	if err != nil {
		return nil, err
	}
	if room.UniversityID != reg.UniversityID {
		return nil, fmt.Errorf("room belongs to another university: %w", domain.ErrForbidden)
	}
	return room, nil
}

func (s *service) newRoom(b *domain.Building, req domain.CreateRoomRequest) domain.Room {
	now := s.now()
	return domain.Room{
		ID:           id.New(),
		BuildingID:   b.ID,
		UniversityID: b.UniversityID,
		RoomNumber:   strings.TrimSpace(req.RoomNumber),
		RoomName:     strings.TrimSpace(req.RoomName),
		Floor:        req.Floor,
		IsOffice:     req.IsOffice,
		Purpose:      req.Purpose,
		Hours:        req.Hours,
		Timetable:    req.Timetable,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// deleteRooms removes rooms one by one; rooms already gone are skipped.
func (s *service) deleteRooms(ctx context.Context, rooms []domain.Room) error {
	for _, r := range rooms {
		if err := s.rooms.Delete(ctx, r.ID); err != nil && !errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("delete room %s: %w", r.ID, err)
		}
	}
	return nil
}

func roomNumberTaken(rooms []domain.Room, number, except string) bool {
	for _, r := range rooms {
		if r.RoomNumber == number && r.ID != except {
			return true
		}
	}
	return false
}

func sortRooms(list []domain.Room) {
	sort.Slice(list, func(i, j int) bool { return list[i].RoomNumber < list[j].RoomNumber })
}
