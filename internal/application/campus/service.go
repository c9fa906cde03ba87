package campus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/campus-explorer-api/internal/domain"
	"github.com/campus-explorer-api/internal/pkg/id"
	"github.com/campus-explorer-api/internal/pkg/validate"
)

// DynamoDB attribute names used in partial building updates.
const (
	fieldName            = "name"
	fieldCoordinates     = "coordinates"
	fieldCategory        = "category"
	fieldDescription     = "description"
	fieldFacilities      = "facilities"
	fieldDepartments     = "departments"
	fieldHours           = "hours"
	fieldIsAdminBuilding = "is_admin_building"
	fieldKeyOffices      = "key_offices"
	fieldUpdatedAt       = "updated_at"
	fieldCity            = "city"
	fieldAdminEmail      = "admin_email"
)

type Service interface {
	ListUniversities(ctx context.Context) ([]domain.University, error)
	ListBuildings(ctx context.Context, universityID string) ([]domain.Building, error)
	GetUniversity(ctx context.Context, actor domain.Session) (*domain.University, error)
	UpdateUniversity(ctx context.Context, actor domain.Session, universityID string, req domain.UpdateUniversityRequest) (*domain.University, error)
	AddBuilding(ctx context.Context, actor domain.Session, req domain.CreateBuildingRequest) (*domain.Building, error)
	UpdateBuilding(ctx context.Context, actor domain.Session, buildingID string, req domain.UpdateBuildingRequest) (*domain.Building, error)
	DeleteBuilding(ctx context.Context, actor domain.Session, buildingID string) error
	DeleteUniversity(ctx context.Context, actor domain.Session, universityID string) error
	Stats(ctx context.Context, actor domain.Session) (*domain.Stats, error)
	ListAdmins(ctx context.Context, actor domain.Session) ([]domain.AdminListing, error)

	ListRooms(ctx context.Context, buildingID string) ([]domain.Room, error)
	ListUniversityRooms(ctx context.Context, actor domain.Session) ([]domain.Room, error)
	AddRoom(ctx context.Context, actor domain.Session, req domain.CreateRoomRequest) (*domain.Room, error)
	AddRooms(ctx context.Context, actor domain.Session, reqs []domain.CreateRoomRequest) ([]domain.Room, error)
	UpdateRoom(ctx context.Context, actor domain.Session, roomID string, req domain.UpdateRoomRequest) (*domain.Room, error)
	DeleteRoom(ctx context.Context, actor domain.Session, roomID string) error
	SetRoomTimetable(ctx context.Context, actor domain.Session, roomID string, tt domain.Timetable) (*domain.Room, error)
	ClearRoomTimetable(ctx context.Context, actor domain.Session, roomID string) (*domain.Room, error)

	Search(ctx context.Context, query, universityID string) (*domain.SearchResult, error)
}

type universityStore interface {
	Get(ctx context.Context, universityID string) (*domain.University, error)
	List(ctx context.Context) ([]domain.University, error)
	Update(ctx context.Context, universityID string, updates map[string]interface{}) error
	Delete(ctx context.Context, universityID string) error
	Count(ctx context.Context) (int, error)
}

type buildingStore interface {
	Put(ctx context.Context, b *domain.Building) error
	PutAdminBuilding(ctx context.Context, b *domain.Building, demote []string) error
	Get(ctx context.Context, buildingID string) (*domain.Building, error)
	Update(ctx context.Context, buildingID string, updates map[string]interface{}) error
	UpdateAdminBuilding(ctx context.Context, buildingID string, updates map[string]interface{}, demote []string) error
	ListByUniversity(ctx context.Context, universityID string) ([]domain.Building, error)
	List(ctx context.Context) ([]domain.Building, error)
	Delete(ctx context.Context, buildingID string) error
	Count(ctx context.Context) (int, error)
}

type roomStore interface {
	Put(ctx context.Context, room *domain.Room) error
	PutBatch(ctx context.Context, rooms []domain.Room) error
	Get(ctx context.Context, roomID string) (*domain.Room, error)
	Update(ctx context.Context, roomID string, updates map[string]interface{}) error
	ListByBuilding(ctx context.Context, buildingID string) ([]domain.Room, error)
	ListByUniversity(ctx context.Context, universityID string) ([]domain.Room, error)
	List(ctx context.Context) ([]domain.Room, error)
	Delete(ctx context.Context, roomID string) error
	Count(ctx context.Context) (int, error)
}

type adminStore interface {
	List(ctx context.Context) ([]domain.AdminRow, error)
	ListByUniversity(ctx context.Context, universityID string) ([]domain.AdminRow, error)
	Delete(ctx context.Context, adminID string) error
	Count(ctx context.Context) (int, error)
}

type service struct {
	universities universityStore
	buildings    buildingStore
	rooms        roomStore
	admins       adminStore
	now          func() time.Time
}

type ServiceDeps struct {
	UniversityRepo universityStore
	BuildingRepo   buildingStore
	RoomRepo       roomStore
	AdminRepo      adminStore
	Now            func() time.Time
}

func NewService(deps ServiceDeps) Service {
	now := deps.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &service{
		universities: deps.UniversityRepo,
		buildings:    deps.BuildingRepo,
		rooms:        deps.RoomRepo,
		admins:       deps.AdminRepo,
		now:          now,
	}
}

func (s *service) ListUniversities(ctx context.Context) ([]domain.University, error) {
	list, err := s.universities.List(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}

func (s *service) ListBuildings(ctx context.Context, universityID string) ([]domain.Building, error) {
	if !id.Valid(universityID) {
		return nil, fmt.Errorf("invalid university id: %w", domain.ErrBadRequest)
	}
	list, err := s.buildings.ListByUniversity(ctx, universityID)
	if err != nil {
		return nil, err
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}

func (s *service) GetUniversity(ctx context.Context, actor domain.Session) (*domain.University, error) {
	reg, err := regularActor(actor)
	if err != nil {
		return nil, err
	}
	u, err := s.universities.Get(ctx, reg.UniversityID)
	if err != nil {
		return nil, err
	}
	buildings, err := s.ListBuildings(ctx, reg.UniversityID)
	if err != nil {
		return nil, err
	}
	u.Buildings = buildings
	return u, nil
}

// UpdateUniversity edits a university's profile. Regular admins may only edit their own.
func (s *service) UpdateUniversity(ctx context.Context, actor domain.Session, universityID string, req domain.UpdateUniversityRequest) (*domain.University, error) {
	if actor == nil {
		return nil, domain.ErrUnauthorized
	}
	if !id.Valid(universityID) {
		return nil, fmt.Errorf("invalid university id: %w", domain.ErrBadRequest)
	}
	if !actor.IsSuperAdmin() {
		reg, err := regularActor(actor)
		if err != nil {
			return nil, err
		}
		if reg.UniversityID != universityID {
			return nil, fmt.Errorf("university belongs to another admin: %w", domain.ErrForbidden)
		}
	}
	if err := validate.Struct(&req); err != nil {
		return nil, fmt.Errorf("%s: %w", err.Error(), domain.ErrBadRequest)
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates[fieldName] = *req.Name
	}
	if req.City != nil {
		updates[fieldCity] = *req.City
	}
	if req.AdminEmail != nil {
		updates[fieldAdminEmail] = *req.AdminEmail
	}
	if len(updates) > 0 {
		if err := s.universities.Update(ctx, universityID, updates); err != nil {
			return nil, err
		}
	}
	return s.universities.Get(ctx, universityID)
}

func (s *service) AddBuilding(ctx context.Context, actor domain.Session, req domain.CreateBuildingRequest) (*domain.Building, error) {
	if actor != nil && actor.IsSuperAdmin() {
		return nil, fmt.Errorf("super admin cannot add buildings: %w", domain.ErrForbidden)
	}
	reg, err := regularActor(actor)
	if err != nil {
		return nil, err
	}
	if err := validate.Struct(&req); err != nil {
		return nil, fmt.Errorf("%s: %w", err.Error(), domain.ErrBadRequest)
	}
	now := s.now()
	b := &domain.Building{
		ID:              id.New(),
		UniversityID:    reg.UniversityID,
		Name:            req.Name,
		Coordinates:     req.Coordinates,
		Category:        req.Category,
		Description:     req.Description,
		Facilities:      nonNil(req.Facilities),
		Departments:     nonNil(req.Departments),
		Hours:           req.Hours,
		IsAdminBuilding: req.IsAdminBuilding,
		KeyOffices:      req.KeyOffices,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if b.KeyOffices == nil {
		b.KeyOffices = []domain.KeyOffice{}
	}
	if !b.IsAdminBuilding {
		if err := s.buildings.Put(ctx, b); err != nil {
			return nil, err
		}
		return b, nil
	}
	demote, err := s.adminBuildings(ctx, reg.UniversityID, b.ID)
	if err != nil {
		return nil, err
	}
	if err := s.buildings.PutAdminBuilding(ctx, b, demote); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *service) UpdateBuilding(ctx context.Context, actor domain.Session, buildingID string, req domain.UpdateBuildingRequest) (*domain.Building, error) {
	b, err := s.ownedBuilding(ctx, actor, buildingID)
	if err != nil {
		return nil, err
	}
	if err := validate.Struct(&req); err != nil {
		return nil, fmt.Errorf("%s: %w", err.Error(), domain.ErrBadRequest)
	}
	if req.KeyOffices != nil {
		for _, ko := range *req.KeyOffices {
			if ko.Name == "" {
				return nil, fmt.Errorf("key office name is required: %w", domain.ErrBadRequest)
			}
		}
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates[fieldName] = *req.Name
	}
	if req.Coordinates != nil {
		updates[fieldCoordinates] = *req.Coordinates
	}
	if req.Category != nil {
		updates[fieldCategory] = *req.Category
	}
	if req.Description != nil {
		updates[fieldDescription] = *req.Description
	}
	if req.Facilities != nil {
		updates[fieldFacilities] = req.Facilities
	}
	if req.Departments != nil {
		updates[fieldDepartments] = req.Departments
	}
	if req.Hours != nil {
		updates[fieldHours] = *req.Hours
	}
	if req.KeyOffices != nil {
		updates[fieldKeyOffices] = *req.KeyOffices
	}
	if req.IsAdminBuilding != nil {
		updates[fieldIsAdminBuilding] = *req.IsAdminBuilding
	}
	if len(updates) == 0 {
		return b, nil
	}
	updates[fieldUpdatedAt] = s.now()

	if req.IsAdminBuilding != nil && *req.IsAdminBuilding && !b.IsAdminBuilding {
		demote, err := s.adminBuildings(ctx, b.UniversityID, b.ID)
		if err != nil {
			return nil, err
		}
		err = s.buildings.UpdateAdminBuilding(ctx, buildingID, updates, demote)
		if err != nil {
			return nil, err
		}
	} else if err := s.buildings.Update(ctx, buildingID, updates); err != nil {
		return nil, err
	}
	return s.buildings.Get(ctx, buildingID)
}

func (s *service) DeleteBuilding(ctx context.Context, actor domain.Session, buildingID string) error {
	if _, err := s.ownedBuilding(ctx, actor, buildingID); err != nil {
		return err
	}
	rooms, err := s.rooms.ListByBuilding(ctx, buildingID)
	if err != nil {
		return err
	}
	if err := s.deleteRooms(ctx, rooms); err != nil {
		return err
	}
	return s.buildings.Delete(ctx, buildingID)
}

// DeleteUniversity removes the university with its rooms, buildings and the admin rows bound
// to it. Identities of those admins stay with the provider; without a directory entry their
// next sign-in is refused.
func (s *service) DeleteUniversity(ctx context.Context, actor domain.Session, universityID string) error {
	if err := superActor(actor); err != nil {
		return err
	}
	if !id.Valid(universityID) {
		return fmt.Errorf("invalid university id: %w", domain.ErrBadRequest)
	}
	if _, err := s.universities.Get(ctx, universityID); err != nil {
		return err
	}

	rooms, err := s.rooms.ListByUniversity(ctx, universityID)
	if err != nil {
		return err
	}
	if err := s.deleteRooms(ctx, rooms); err != nil {
		return err
	}
	buildings, err := s.buildings.ListByUniversity(ctx, universityID)
	if err != nil {
		return err
	}
	for _, b := range buildings {
		if err := s.buildings.Delete(ctx, b.ID); err != nil && !errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("delete building %s: %w", b.ID, err)
		}
	}
	admins, err := s.admins.ListByUniversity(ctx, universityID)
	if err != nil {
		return err
	}
	for _, a := range admins {
		if a.IsSuperAdmin {
			continue
		}
		if err := s.admins.Delete(ctx, a.AdminID); err != nil && !errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("delete admin %s: %w", a.AdminID, err)
		}
	}
	if err := s.universities.Delete(ctx, universityID); err != nil {
		return err
	}
	slog.Info("university deleted",
		"university_id", universityID,
		"buildings", len(buildings),
		"rooms", len(rooms),
		"admins", len(admins),
		"by", actor.AccountEmail(),
	)
	return nil
}

func (s *service) Stats(ctx context.Context, actor domain.Session) (*domain.Stats, error) {
	if err := superActor(actor); err != nil {
		return nil, err
	}
	universities, err := s.universities.Count(ctx)
	if err != nil {
		return nil, err
	}
	buildings, err := s.buildings.Count(ctx)
	if err != nil {
		return nil, err
	}
	rooms, err := s.rooms.Count(ctx)
	if err != nil {
		return nil, err
	}
	admins, err := s.admins.Count(ctx)
	if err != nil {
		return nil, err
	}
	return &domain.Stats{
		TotalUniversities: universities,
		TotalBuildings:    buildings,
		TotalRooms:        rooms,
		TotalAdmins:       admins,
	}, nil
}

// ListAdmins returns every directory entry, newest first, labelled with its university.
func (s *service) ListAdmins(ctx context.Context, actor domain.Session) ([]domain.AdminListing, error) {
	if err := superActor(actor); err != nil {
		return nil, err
	}
	rows, err := s.admins.List(ctx)
	if err != nil {
		return nil, err
	}
	universities, err := s.universities.List(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]domain.UniversityRef, len(universities))
	for _, u := range universities {
		byID[u.ID] = domain.UniversityRef{Name: u.Name, City: u.City}
	}

	out := make([]domain.AdminListing, 0, len(rows))
	for _, row := range rows {
		listing := domain.AdminListing{AdminRow: row}
		if ref, ok := byID[row.UniversityID]; ok {
			listing.University = &ref
		}
		out = append(out, listing)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// ownedBuilding loads a building the actor may modify: any building for a super admin,
// otherwise only buildings of the actor's own university.
func (s *service) ownedBuilding(ctx context.Context, actor domain.Session, buildingID string) (*domain.Building, error) {
	if actor == nil {
		return nil, domain.ErrUnauthorized
	}
	if !id.Valid(buildingID) {
		return nil, fmt.Errorf("invalid building id: %w", domain.ErrBadRequest)
	}
	b, err := s.buildings.Get(ctx, buildingID)
	if err != nil {
		return nil, err
	}
	if actor.IsSuperAdmin() {
		return b, nil
	}
	reg, err := regularActor(actor)
	if err != nil {
		return nil, err
	}
	if b.UniversityID != reg.UniversityID {
		return nil, fmt.Errorf("building belongs to another university: %w", domain.ErrForbidden)
	}
	return b, nil
}

// adminBuildings returns the ids of the university's admin buildings other than keep.
func (s *service) adminBuildings(ctx context.Context, universityID, keep string) ([]string, error) {
	list, err := s.buildings.ListByUniversity(ctx, universityID)
	if err != nil {
		return nil, err
	}
	var ids []string
	for _, b := range list {
		if b.IsAdminBuilding && b.ID != keep {
			ids = append(ids, b.ID)
		}
	}
	return ids, nil
}

func regularActor(actor domain.Session) (domain.RegularAdminSession, error) {
	if actor == nil {
		return domain.RegularAdminSession{}, domain.ErrUnauthorized
	}
	reg, ok := actor.(domain.RegularAdminSession)
	if !ok {
		return domain.RegularAdminSession{}, fmt.Errorf("university admin access required: %w", domain.ErrForbidden)
	}
	return reg, nil
}

func superActor(actor domain.Session) error {
	if actor == nil {
		return domain.ErrUnauthorized
	}
	if !actor.IsSuperAdmin() {
		return fmt.Errorf("super admin access required: %w", domain.ErrForbidden)
	}
	return nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
