package campus

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/campus-explorer-api/internal/domain"
	"github.com/campus-explorer-api/internal/pkg/id"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockUniversityStore struct{ mock.Mock }

func (m *mockUniversityStore) Get(ctx context.Context, universityID string) (*domain.University, error) {
	args := m.Called(ctx, universityID)
	if u, _ := args.Get(0).(*domain.University); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockUniversityStore) List(ctx context.Context) ([]domain.University, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.University), args.Error(1)
}
func (m *mockUniversityStore) Update(ctx context.Context, universityID string, updates map[string]interface{}) error {
	return m.Called(ctx, universityID, updates).Error(0)
}
func (m *mockUniversityStore) Delete(ctx context.Context, universityID string) error {
	return m.Called(ctx, universityID).Error(0)
}
func (m *mockUniversityStore) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

type mockBuildingStore struct{ mock.Mock }

func (m *mockBuildingStore) Put(ctx context.Context, b *domain.Building) error {
	return m.Called(ctx, b).Error(0)
}
func (m *mockBuildingStore) PutAdminBuilding(ctx context.Context, b *domain.Building, demote []string) error {
	return m.Called(ctx, b, demote).Error(0)
}
func (m *mockBuildingStore) Get(ctx context.Context, buildingID string) (*domain.Building, error) {
	args := m.Called(ctx, buildingID)
	if b, _ := args.Get(0).(*domain.Building); b != nil {
		return b, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockBuildingStore) Update(ctx context.Context, buildingID string, updates map[string]interface{}) error {
	return m.Called(ctx, buildingID, updates).Error(0)
}
func (m *mockBuildingStore) UpdateAdminBuilding(ctx context.Context, buildingID string, updates map[string]interface{}, demote []string) error {
	return m.Called(ctx, buildingID, updates, demote).Error(0)
}
func (m *mockBuildingStore) ListByUniversity(ctx context.Context, universityID string) ([]domain.Building, error) {
	args := m.Called(ctx, universityID)
	return args.Get(0).([]domain.Building), args.Error(1)
}
func (m *mockBuildingStore) List(ctx context.Context) ([]domain.Building, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Building), args.Error(1)
}
func (m *mockBuildingStore) Delete(ctx context.Context, buildingID string) error {
	return m.Called(ctx, buildingID).Error(0)
}
func (m *mockBuildingStore) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

type mockRoomStore struct{ mock.Mock }

func (m *mockRoomStore) Put(ctx context.Context, room *domain.Room) error {
	return m.Called(ctx, room).Error(0)
}
func (m *mockRoomStore) PutBatch(ctx context.Context, rooms []domain.Room) error {
	return m.Called(ctx, rooms).Error(0)
}
func (m *mockRoomStore) Get(ctx context.Context, roomID string) (*domain.Room, error) {
	args := m.Called(ctx, roomID)
	if r, _ := args.Get(0).(*domain.Room); r != nil {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockRoomStore) Update(ctx context.Context, roomID string, updates map[string]interface{}) error {
	return m.Called(ctx, roomID, updates).Error(0)
}
func (m *mockRoomStore) ListByBuilding(ctx context.Context, buildingID string) ([]domain.Room, error) {
	args := m.Called(ctx, buildingID)
	return args.Get(0).([]domain.Room), args.Error(1)
}
func (m *mockRoomStore) ListByUniversity(ctx context.Context, universityID string) ([]domain.Room, error) {
	args := m.Called(ctx, universityID)
	return args.Get(0).([]domain.Room), args.Error(1)
}
func (m *mockRoomStore) List(ctx context.Context) ([]domain.Room, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Room), args.Error(1)
}
func (m *mockRoomStore) Delete(ctx context.Context, roomID string) error {
	return m.Called(ctx, roomID).Error(0)
}
func (m *mockRoomStore) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

type mockAdminStore struct{ mock.Mock }

func (m *mockAdminStore) List(ctx context.Context) ([]domain.AdminRow, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.AdminRow), args.Error(1)
}
func (m *mockAdminStore) ListByUniversity(ctx context.Context, universityID string) ([]domain.AdminRow, error) {
	args := m.Called(ctx, universityID)
	return args.Get(0).([]domain.AdminRow), args.Error(1)
}
func (m *mockAdminStore) Delete(ctx context.Context, adminID string) error {
	return m.Called(ctx, adminID).Error(0)
}
func (m *mockAdminStore) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

// --- helpers ---

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type stores struct {
	universities *mockUniversityStore
	buildings    *mockBuildingStore
	rooms        *mockRoomStore
	admins       *mockAdminStore
}

func newTestService() (*service, stores) {
	m := stores{
		universities: &mockUniversityStore{},
		buildings:    &mockBuildingStore{},
		rooms:        &mockRoomStore{},
		admins:       &mockAdminStore{},
	}
	svc := NewService(ServiceDeps{
		UniversityRepo: m.universities,
		BuildingRepo:   m.buildings,
		RoomRepo:       m.rooms,
		AdminRepo:      m.admins,
		Now:            func() time.Time { return fixedNow },
	}).(*service)
	return svc, m
}

func regularAdmin(universityID string) domain.Session {
	return domain.RegularAdminSession{UserID: id.New(), Email: "admin@uni.edu", UniversityID: universityID}
}

func superAdmin() domain.Session {
	return domain.SuperAdminSession{AdminID: id.New(), Email: "root@campus.dev", LoginTime: fixedNow, Keyless: true}
}

// --- tests ---

func TestListUniversities_SortedByName(t *testing.T) {
	svc, m := newTestService()
	u := m.universities
	u.On("List", mock.Anything).Return([]domain.University{{Name: "Zeta"}, {Name: "Alpha"}}, nil)

	list, err := svc.ListUniversities(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Alpha", list[0].Name)
	assert.Equal(t, "Zeta", list[1].Name)
}

func TestListBuildings_InvalidID(t *testing.T) {
	svc, _ := newTestService()
	_, err := svc.ListBuildings(context.Background(), "not-a-ulid")
	assert.ErrorIs(t, err, domain.ErrBadRequest)
}

func TestGetUniversity_IncludesBuildings(t *testing.T) {
	svc, m := newTestService()
	u, b := m.universities, m.buildings
	uniID := id.New()
	u.On("Get", mock.Anything, uniID).Return(&domain.University{ID: uniID, Name: "Test U"}, nil)
	b.On("ListByUniversity", mock.Anything, uniID).Return([]domain.Building{{Name: "Library"}}, nil)

	got, err := svc.GetUniversity(context.Background(), regularAdmin(uniID))
	require.NoError(t, err)
	assert.Len(t, got.Buildings, 1)
}

func TestGetUniversity_SuperAdminForbidden(t *testing.T) {
	svc, _ := newTestService()
	_, err := svc.GetUniversity(context.Background(), superAdmin())
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestAddBuilding_SuperAdminRejected(t *testing.T) {
	svc, m := newTestService()
	b := m.buildings
	_, err := svc.AddBuilding(context.Background(), superAdmin(), domain.CreateBuildingRequest{Name: "Hall"})
	require.ErrorIs(t, err, domain.ErrForbidden)
	assert.Contains(t, err.Error(), "super admin cannot add buildings")
	b.AssertNotCalled(t, "Put", mock.Anything, mock.Anything)
}

func TestAddBuilding_Unauthenticated(t *testing.T) {
	svc, _ := newTestService()
	_, err := svc.AddBuilding(context.Background(), nil, domain.CreateBuildingRequest{Name: "Hall"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestAddBuilding_ValidationError(t *testing.T) {
	svc, _ := newTestService()
	req := domain.CreateBuildingRequest{Coordinates: domain.Coordinates{Lat: 10, Lng: 10}}
	_, err := svc.AddBuilding(context.Background(), regularAdmin(id.New()), req)
	assert.ErrorIs(t, err, domain.ErrBadRequest)
}

func TestAddBuilding_PlacedInActorUniversity(t *testing.T) {
	svc, m := newTestService()
	b := m.buildings
	uniID := id.New()
	b.On("Put", mock.Anything, mock.MatchedBy(func(x *domain.Building) bool {
		return x.UniversityID == uniID && x.CreatedAt.Equal(fixedNow) && id.Valid(x.ID)
	})).Return(nil)

	req := domain.CreateBuildingRequest{Name: "Library", Coordinates: domain.Coordinates{Lat: 40.1, Lng: -74.2}}
	got, err := svc.AddBuilding(context.Background(), regularAdmin(uniID), req)
	require.NoError(t, err)
	assert.Equal(t, uniID, got.UniversityID)
	assert.NotNil(t, got.Facilities)
	assert.NotNil(t, got.KeyOffices)
	b.AssertNotCalled(t, "ListByUniversity", mock.Anything, mock.Anything)
}

func TestAddBuilding_AdminBuildingDemotesOthersInOneWrite(t *testing.T) {
	svc, m := newTestService()
	b := m.buildings
	uniID := id.New()
	oldAdmin := domain.Building{ID: id.New(), UniversityID: uniID, IsAdminBuilding: true}
	plain := domain.Building{ID: id.New(), UniversityID: uniID}
	b.On("ListByUniversity", mock.Anything, uniID).Return([]domain.Building{oldAdmin, plain}, nil)
	b.On("PutAdminBuilding", mock.Anything, mock.MatchedBy(func(x *domain.Building) bool {
		return x.IsAdminBuilding && x.UniversityID == uniID
	}), []string{oldAdmin.ID}).Return(nil)

	req := domain.CreateBuildingRequest{Name: "Admin Hall", Coordinates: domain.Coordinates{Lat: 1, Lng: 1}, IsAdminBuilding: true}
	got, err := svc.AddBuilding(context.Background(), regularAdmin(uniID), req)
	require.NoError(t, err)
	assert.True(t, got.IsAdminBuilding)
	b.AssertExpectations(t)
	b.AssertNotCalled(t, "Put", mock.Anything, mock.Anything)
}

func TestAddBuilding_AdminBuildingRaceIsConflict(t *testing.T) {
	svc, m := newTestService()
	b := m.buildings
	uniID := id.New()
	b.On("ListByUniversity", mock.Anything, uniID).Return([]domain.Building{{ID: id.New(), UniversityID: uniID, IsAdminBuilding: true}}, nil)
	b.On("PutAdminBuilding", mock.Anything, mock.Anything, mock.Anything).Return(domain.ErrConflict)

	req := domain.CreateBuildingRequest{Name: "Admin Hall", Coordinates: domain.Coordinates{Lat: 1, Lng: 1}, IsAdminBuilding: true}
	_, err := svc.AddBuilding(context.Background(), regularAdmin(uniID), req)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestUpdateBuilding_OtherUniversityForbidden(t *testing.T) {
	svc, m := newTestService()
	b := m.buildings
	bID := id.New()
	b.On("Get", mock.Anything, bID).Return(&domain.Building{ID: bID, UniversityID: id.New()}, nil)

	name := "Renamed"
	_, err := svc.UpdateBuilding(context.Background(), regularAdmin(id.New()), bID, domain.UpdateBuildingRequest{Name: &name})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	b.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateBuilding_SuperAdminAllowed(t *testing.T) {
	svc, m := newTestService()
	b := m.buildings
	bID := id.New()
	current := &domain.Building{ID: bID, UniversityID: id.New(), Name: "Old"}
	b.On("Get", mock.Anything, bID).Return(current, nil)
	b.On("Update", mock.Anything, bID, mock.MatchedBy(func(u map[string]interface{}) bool {
		return u[fieldName] == "New" && u[fieldUpdatedAt] == fixedNow
	})).Return(nil)

	name := "New"
	_, err := svc.UpdateBuilding(context.Background(), superAdmin(), bID, domain.UpdateBuildingRequest{Name: &name})
	require.NoError(t, err)
	b.AssertExpectations(t)
}

func TestUpdateBuilding_MarkAdminBuildingKeepsSelf(t *testing.T) {
	svc, m := newTestService()
	b := m.buildings
	uniID := id.New()
	target := domain.Building{ID: id.New(), UniversityID: uniID}
	other := domain.Building{ID: id.New(), UniversityID: uniID, IsAdminBuilding: true}
	b.On("Get", mock.Anything, target.ID).Return(&target, nil)
	b.On("ListByUniversity", mock.Anything, uniID).Return([]domain.Building{target, other}, nil)
	b.On("UpdateAdminBuilding", mock.Anything, target.ID, mock.MatchedBy(func(u map[string]interface{}) bool {
		return u[fieldIsAdminBuilding] == true
	}), []string{other.ID}).Return(nil)

	yes := true
	_, err := svc.UpdateBuilding(context.Background(), regularAdmin(uniID), target.ID, domain.UpdateBuildingRequest{IsAdminBuilding: &yes})
	require.NoError(t, err)
	b.AssertExpectations(t)
	b.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateBuilding_AlreadyAdminBuildingUsesPlainUpdate(t *testing.T) {
	svc, m := newTestService()
	b := m.buildings
	uniID := id.New()
	target := domain.Building{ID: id.New(), UniversityID: uniID, IsAdminBuilding: true}
	b.On("Get", mock.Anything, target.ID).Return(&target, nil)
	b.On("Update", mock.Anything, target.ID, mock.Anything).Return(nil)

	yes := true
	_, err := svc.UpdateBuilding(context.Background(), regularAdmin(uniID), target.ID, domain.UpdateBuildingRequest{IsAdminBuilding: &yes})
	require.NoError(t, err)
	b.AssertNotCalled(t, "ListByUniversity", mock.Anything, mock.Anything)
}

func TestUpdateBuilding_EmptyPatchIsNoop(t *testing.T) {
	svc, m := newTestService()
	b := m.buildings
	uniID := id.New()
	bID := id.New()
	b.On("Get", mock.Anything, bID).Return(&domain.Building{ID: bID, UniversityID: uniID}, nil)

	got, err := svc.UpdateBuilding(context.Background(), regularAdmin(uniID), bID, domain.UpdateBuildingRequest{})
	require.NoError(t, err)
	assert.Equal(t, bID, got.ID)
	b.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateBuilding_KeyOfficeNameRequired(t *testing.T) {
	svc, m := newTestService()
	b := m.buildings
	uniID := id.New()
	bID := id.New()
	b.On("Get", mock.Anything, bID).Return(&domain.Building{ID: bID, UniversityID: uniID}, nil)

	offices := []domain.KeyOffice{{Name: ""}}
	_, err := svc.UpdateBuilding(context.Background(), regularAdmin(uniID), bID, domain.UpdateBuildingRequest{KeyOffices: &offices})
	assert.ErrorIs(t, err, domain.ErrBadRequest)
}

func TestDeleteBuilding_NotFound(t *testing.T) {
	svc, m := newTestService()
	b := m.buildings
	bID := id.New()
	b.On("Get", mock.Anything, bID).Return(nil, domain.ErrNotFound)

	err := svc.DeleteBuilding(context.Background(), regularAdmin(id.New()), bID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeleteBuilding_RemovesRoomsFirst(t *testing.T) {
	svc, m := newTestService()
	b, r := m.buildings, m.rooms
	uniID := id.New()
	bID := id.New()
	roomID := id.New()
	b.On("Get", mock.Anything, bID).Return(&domain.Building{ID: bID, UniversityID: uniID}, nil)
	r.On("ListByBuilding", mock.Anything, bID).Return([]domain.Room{{ID: roomID}}, nil)
	r.On("Delete", mock.Anything, roomID).Return(nil)
	b.On("Delete", mock.Anything, bID).Return(nil)

	require.NoError(t, svc.DeleteBuilding(context.Background(), regularAdmin(uniID), bID))
	b.AssertExpectations(t)
	r.AssertExpectations(t)
}

func TestDeleteUniversity_RequiresSuperAdmin(t *testing.T) {
	svc, m := newTestService()
	u := m.universities
	err := svc.DeleteUniversity(context.Background(), regularAdmin(id.New()), id.New())
	assert.ErrorIs(t, err, domain.ErrForbidden)
	u.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestDeleteUniversity_RemovesContentAndOrphanedAdmins(t *testing.T) {
	svc, m := newTestService()
	u, b, r, a := m.universities, m.buildings, m.rooms, m.admins
	uniID := id.New()
	b1, b2 := id.New(), id.New()
	roomID := id.New()
	u.On("Get", mock.Anything, uniID).Return(&domain.University{ID: uniID}, nil)
	r.On("ListByUniversity", mock.Anything, uniID).Return([]domain.Room{{ID: roomID}}, nil)
	r.On("Delete", mock.Anything, roomID).Return(nil)
	b.On("ListByUniversity", mock.Anything, uniID).Return([]domain.Building{{ID: b1}, {ID: b2}}, nil)
	b.On("Delete", mock.Anything, b1).Return(nil)
	b.On("Delete", mock.Anything, b2).Return(domain.ErrNotFound)
	a.On("ListByUniversity", mock.Anything, uniID).Return([]domain.AdminRow{
		{AdminID: "dean", UniversityID: uniID, Role: domain.RoleUniversityAdmin},
		{AdminID: "registrar", UniversityID: uniID, Role: domain.RoleUniversityAdmin},
	}, nil)
	a.On("Delete", mock.Anything, "dean").Return(nil)
	a.On("Delete", mock.Anything, "registrar").Return(domain.ErrNotFound)
	u.On("Delete", mock.Anything, uniID).Return(nil)

	require.NoError(t, svc.DeleteUniversity(context.Background(), superAdmin(), uniID))
	u.AssertExpectations(t)
	b.AssertExpectations(t)
	r.AssertExpectations(t)
	a.AssertExpectations(t)
}

func TestDeleteUniversity_AdminDeleteFailureKeepsUniversity(t *testing.T) {
	svc, m := newTestService()
	u, b, r, a := m.universities, m.buildings, m.rooms, m.admins
	uniID := id.New()
	u.On("Get", mock.Anything, uniID).Return(&domain.University{ID: uniID}, nil)
	r.On("ListByUniversity", mock.Anything, uniID).Return([]domain.Room{}, nil)
	b.On("ListByUniversity", mock.Anything, uniID).Return([]domain.Building{}, nil)
	a.On("ListByUniversity", mock.Anything, uniID).Return([]domain.AdminRow{{AdminID: "dean", UniversityID: uniID}}, nil)
	a.On("Delete", mock.Anything, "dean").Return(errors.New("throttled"))

	err := svc.DeleteUniversity(context.Background(), superAdmin(), uniID)
	require.Error(t, err)
	u.AssertNotCalled(t, "Delete", mock.Anything, uniID)
}

func TestDeleteUniversity_BuildingDeleteFailureStops(t *testing.T) {
	svc, m := newTestService()
	u, b := m.universities, m.buildings
	uniID := id.New()
	bID := id.New()
	u.On("Get", mock.Anything, uniID).Return(&domain.University{ID: uniID}, nil)
	m.rooms.On("ListByUniversity", mock.Anything, uniID).Return([]domain.Room{}, nil)
	b.On("ListByUniversity", mock.Anything, uniID).Return([]domain.Building{{ID: bID}}, nil)
	b.On("Delete", mock.Anything, bID).Return(errors.New("throttled"))

	err := svc.DeleteUniversity(context.Background(), superAdmin(), uniID)
	require.Error(t, err)
	u.AssertNotCalled(t, "Delete", mock.Anything, uniID)
}

func TestStats(t *testing.T) {
	svc, m := newTestService()
	m.universities.On("Count", mock.Anything).Return(3, nil)
	m.buildings.On("Count", mock.Anything).Return(17, nil)
	m.rooms.On("Count", mock.Anything).Return(240, nil)
	m.admins.On("Count", mock.Anything).Return(4, nil)

	got, err := svc.Stats(context.Background(), superAdmin())
	require.NoError(t, err)
	assert.Equal(t, domain.Stats{TotalUniversities: 3, TotalBuildings: 17, TotalRooms: 240, TotalAdmins: 4}, *got)

	_, err = svc.Stats(context.Background(), regularAdmin(id.New()))
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestUpdateUniversity(t *testing.T) {
	svc, m := newTestService()
	u := m.universities
	uniID := id.New()
	u.On("Update", mock.Anything, uniID, map[string]interface{}{fieldName: "North State", fieldCity: "Fargo"}).Return(nil)
	u.On("Get", mock.Anything, uniID).Return(&domain.University{ID: uniID, Name: "North State", City: "Fargo"}, nil)

	name, city := "North State", "Fargo"
	got, err := svc.UpdateUniversity(context.Background(), regularAdmin(uniID), uniID, domain.UpdateUniversityRequest{Name: &name, City: &city})
	require.NoError(t, err)
	assert.Equal(t, "North State", got.Name)
	u.AssertExpectations(t)
}

func TestUpdateUniversity_Rejections(t *testing.T) {
	empty, badEmail, name := "", "not-an-email", "X"
	tests := []struct {
		name    string
		actor   domain.Session
		uniID   string
		req     domain.UpdateUniversityRequest
		wantErr error
	}{
		{name: "anonymous", actor: nil, uniID: id.New(), req: domain.UpdateUniversityRequest{Name: &name}, wantErr: domain.ErrUnauthorized},
		{name: "invalid id", actor: superAdmin(), uniID: "nope", wantErr: domain.ErrBadRequest},
		{name: "other university", actor: regularAdmin(id.New()), uniID: id.New(), req: domain.UpdateUniversityRequest{Name: &name}, wantErr: domain.ErrForbidden},
		{name: "blank name", actor: superAdmin(), uniID: id.New(), req: domain.UpdateUniversityRequest{Name: &empty}, wantErr: domain.ErrBadRequest},
		{name: "bad email", actor: superAdmin(), uniID: id.New(), req: domain.UpdateUniversityRequest{AdminEmail: &badEmail}, wantErr: domain.ErrBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newTestService()
			_, err := svc.UpdateUniversity(context.Background(), tt.actor, tt.uniID, tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
			m.universities.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestListAdmins_NewestFirstWithUniversity(t *testing.T) {
	svc, m := newTestService()
	uniID := id.New()
	m.admins.On("List", mock.Anything).Return([]domain.AdminRow{
		{AdminID: "old", UniversityID: uniID, CreatedAt: fixedNow.Add(-time.Hour)},
		{AdminID: "root", IsSuperAdmin: true, CreatedAt: fixedNow.Add(-48 * time.Hour)},
		{AdminID: "new", UniversityID: uniID, CreatedAt: fixedNow},
	}, nil)
	m.universities.On("List", mock.Anything).Return([]domain.University{{ID: uniID, Name: "State University", City: "Springfield"}}, nil)

	got, err := svc.ListAdmins(context.Background(), superAdmin())
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "new", got[0].AdminID)
	assert.Equal(t, "old", got[1].AdminID)
	assert.Equal(t, "root", got[2].AdminID)
	require.NotNil(t, got[0].University)
	assert.Equal(t, "Springfield", got[0].University.City)
	assert.Nil(t, got[2].University)

	_, err = svc.ListAdmins(context.Background(), regularAdmin(uniID))
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
