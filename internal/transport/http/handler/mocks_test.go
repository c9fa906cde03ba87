package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"

	"github.com/campus-explorer-api/internal/application/session"
	"github.com/campus-explorer-api/internal/domain"
	"github.com/campus-explorer-api/internal/transport/http/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/mock"
)

// --- mocks ---

type mockConsole struct{ mock.Mock }

func (m *mockConsole) Snapshot() session.Snapshot {
	return m.Called().Get(0).(session.Snapshot)
}
func (m *mockConsole) Login(ctx context.Context, email, password string) domain.Result {
	return m.Called(ctx, email, password).Get(0).(domain.Result)
}
func (m *mockConsole) Register(ctx context.Context, email, password, universityName, city string) domain.Result {
	return m.Called(ctx, email, password, universityName, city).Get(0).(domain.Result)
}
func (m *mockConsole) Logout(ctx context.Context) domain.Result {
	return m.Called(ctx).Get(0).(domain.Result)
}
func (m *mockConsole) SendPasswordResetEmail(ctx context.Context, email string) domain.Result {
	return m.Called(ctx, email).Get(0).(domain.Result)
}
func (m *mockConsole) RecoverPassword(ctx context.Context, identityID, token string) domain.Result {
	return m.Called(ctx, identityID, token).Get(0).(domain.Result)
}
func (m *mockConsole) UpdatePassword(ctx context.Context, password, confirm string) domain.Result {
	return m.Called(ctx, password, confirm).Get(0).(domain.Result)
}
func (m *mockConsole) ConfirmEmail(ctx context.Context, identityID, token string) domain.Result {
	return m.Called(ctx, identityID, token).Get(0).(domain.Result)
}
func (m *mockConsole) ResendConfirmation(ctx context.Context, email string) domain.Result {
	return m.Called(ctx, email).Get(0).(domain.Result)
}
func (m *mockConsole) RequestKey(ctx context.Context) domain.Result {
	return m.Called(ctx).Get(0).(domain.Result)
}
func (m *mockConsole) RetryKeyDispatch(ctx context.Context) domain.Result {
	return m.Called(ctx).Get(0).(domain.Result)
}
func (m *mockConsole) VerifyKey(ctx context.Context, input string) domain.Result {
	return m.Called(ctx, input).Get(0).(domain.Result)
}
func (m *mockConsole) ExtendSession(ctx context.Context) domain.Result {
	return m.Called(ctx).Get(0).(domain.Result)
}

type mockCampusSvc struct{ mock.Mock }

func (m *mockCampusSvc) ListUniversities(ctx context.Context) ([]domain.University, error) {
	args := m.Called(ctx)
	list, _ := args.Get(0).([]domain.University)
	return list, args.Error(1)
}
func (m *mockCampusSvc) ListBuildings(ctx context.Context, universityID string) ([]domain.Building, error) {
	args := m.Called(ctx, universityID)
	list, _ := args.Get(0).([]domain.Building)
	return list, args.Error(1)
}
func (m *mockCampusSvc) GetUniversity(ctx context.Context, actor domain.Session) (*domain.University, error) {
	args := m.Called(ctx, actor)
	if u, _ := args.Get(0).(*domain.University); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockCampusSvc) AddBuilding(ctx context.Context, actor domain.Session, req domain.CreateBuildingRequest) (*domain.Building, error) {
	args := m.Called(ctx, actor, req)
	if b, _ := args.Get(0).(*domain.Building); b != nil {
		return b, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockCampusSvc) UpdateBuilding(ctx context.Context, actor domain.Session, buildingID string, req domain.UpdateBuildingRequest) (*domain.Building, error) {
	args := m.Called(ctx, actor, buildingID, req)
	if b, _ := args.Get(0).(*domain.Building); b != nil {
		return b, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockCampusSvc) DeleteBuilding(ctx context.Context, actor domain.Session, buildingID string) error {
	return m.Called(ctx, actor, buildingID).Error(0)
}
func (m *mockCampusSvc) DeleteUniversity(ctx context.Context, actor domain.Session, universityID string) error {
	return m.Called(ctx, actor, universityID).Error(0)
}
func (m *mockCampusSvc) Stats(ctx context.Context, actor domain.Session) (*domain.Stats, error) {
	args := m.Called(ctx, actor)
	if s, _ := args.Get(0).(*domain.Stats); s != nil {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockCampusSvc) UpdateUniversity(ctx context.Context, actor domain.Session, universityID string, req domain.UpdateUniversityRequest) (*domain.University, error) {
	args := m.Called(ctx, actor, universityID, req)
	if u, _ := args.Get(0).(*domain.University); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockCampusSvc) ListAdmins(ctx context.Context, actor domain.Session) ([]domain.AdminListing, error) {
	args := m.Called(ctx, actor)
	list, _ := args.Get(0).([]domain.AdminListing)
	return list, args.Error(1)
}
func (m *mockCampusSvc) ListRooms(ctx context.Context, buildingID string) ([]domain.Room, error) {
	args := m.Called(ctx, buildingID)
	list, _ := args.Get(0).([]domain.Room)
	return list, args.Error(1)
}
func (m *mockCampusSvc) ListUniversityRooms(ctx context.Context, actor domain.Session) ([]domain.Room, error) {
	args := m.Called(ctx, actor)
	list, _ := args.Get(0).([]domain.Room)
	return list, args.Error(1)
}
func (m *mockCampusSvc) AddRoom(ctx context.Context, actor domain.Session, req domain.CreateRoomRequest) (*domain.Room, error) {
	return roomResult(m.Called(ctx, actor, req))
}
func (m *mockCampusSvc) AddRooms(ctx context.Context, actor domain.Session, reqs []domain.CreateRoomRequest) ([]domain.Room, error) {
	args := m.Called(ctx, actor, reqs)
	list, _ := args.Get(0).([]domain.Room)
	return list, args.Error(1)
}
func (m *mockCampusSvc) UpdateRoom(ctx context.Context, actor domain.Session, roomID string, req domain.UpdateRoomRequest) (*domain.Room, error) {
	return roomResult(m.Called(ctx, actor, roomID, req))
}
func (m *mockCampusSvc) DeleteRoom(ctx context.Context, actor domain.Session, roomID string) error {
	return m.Called(ctx, actor, roomID).Error(0)
}
func (m *mockCampusSvc) SetRoomTimetable(ctx context.Context, actor domain.Session, roomID string, tt domain.Timetable) (*domain.Room, error) {
	return roomResult(m.Called(ctx, actor, roomID, tt))
}
func (m *mockCampusSvc) ClearRoomTimetable(ctx context.Context, actor domain.Session, roomID string) (*domain.Room, error) {
	return roomResult(m.Called(ctx, actor, roomID))
}
func (m *mockCampusSvc) Search(ctx context.Context, query, universityID string) (*domain.SearchResult, error) {
	args := m.Called(ctx, query, universityID)
	if res, _ := args.Get(0).(*domain.SearchResult); res != nil {
		return res, args.Error(1)
	}
	return nil, args.Error(1)
}

func roomResult(args mock.Arguments) (*domain.Room, error) {
	if r, _ := args.Get(0).(*domain.Room); r != nil {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

// --- helpers ---

// consoleReq builds a request carrying the console, as WithConsole would.
func consoleReq(c middleware.Console, method, target, body string) *http.Request {
	var r *http.Request
	if body != "" {
		r = httptest.NewRequest(method, target, bytes.NewBufferString(body))
	} else {
		r = httptest.NewRequest(method, target, nil)
	}
	return r.WithContext(middleware.ContextWithConsole(r.Context(), c))
}

// withChiID injects a chi URL param "id" into the request context.
func withChiID(r *http.Request, id string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}
