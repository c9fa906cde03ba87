package domain

import "time"

type University struct {
	ID         string     `json:"id" dynamodbav:"university_id"`
	Name       string     `json:"name" dynamodbav:"name"`
	City       string     `json:"city" dynamodbav:"city"`
	AdminEmail string     `json:"admin_email" dynamodbav:"admin_email"`
	CreatedAt  time.Time  `json:"created" dynamodbav:"created_at"`
	Buildings  []Building `json:"buildings,omitempty" dynamodbav:"-"`
}

type Coordinates struct {
	Lat float64 `json:"lat" dynamodbav:"lat" validate:"gte=-90,lte=90"`
	Lng float64 `json:"lng" dynamodbav:"lng" validate:"gte=-180,lte=180"`
}

type KeyOffice struct {
	Name       string  `json:"name" dynamodbav:"name" validate:"required"`
	Purpose    *string `json:"purpose" dynamodbav:"purpose"`
	Hours      *string `json:"hours" dynamodbav:"hours"`
	RoomNumber *string `json:"room_number" dynamodbav:"room_number"`
}

// Building is a mapped campus building. Key offices are embedded in the item.
type Building struct {
	ID              string      `json:"id" dynamodbav:"building_id"`
	UniversityID    string      `json:"university_id" dynamodbav:"university_id"`
	Name            string      `json:"name" dynamodbav:"name"`
	Coordinates     Coordinates `json:"coordinates" dynamodbav:"coordinates"`
	Category        *string     `json:"category" dynamodbav:"category"`
	Description     *string     `json:"description" dynamodbav:"description"`
	Facilities      []string    `json:"facilities" dynamodbav:"facilities"`
	Departments     []string    `json:"departments" dynamodbav:"departments"`
	Hours           *string     `json:"hours" dynamodbav:"hours"`
	IsAdminBuilding bool        `json:"is_admin_building" dynamodbav:"is_admin_building"`
	KeyOffices      []KeyOffice `json:"key_offices" dynamodbav:"key_offices"`
	CreatedAt       time.Time   `json:"created" dynamodbav:"created_at"`
	UpdatedAt       time.Time   `json:"updated" dynamodbav:"updated_at"`
}

type CreateBuildingRequest struct {
	Name            string      `json:"name" validate:"required"`
	Coordinates     Coordinates `json:"coordinates" validate:"required"`
	Category        *string     `json:"category"`
	Description     *string     `json:"description"`
	Facilities      []string    `json:"facilities"`
	Departments     []string    `json:"departments"`
	Hours           *string     `json:"hours"`
	IsAdminBuilding bool        `json:"is_admin_building"`
	KeyOffices      []KeyOffice `json:"key_offices" validate:"dive"`
}

// UpdateBuildingRequest is a partial update; a non-nil KeyOffices replaces the whole list.
type UpdateBuildingRequest struct {
	Name            *string      `json:"name" validate:"omitempty,min=1"`
	Coordinates     *Coordinates `json:"coordinates"`
	Category        *string      `json:"category"`
	Description     *string      `json:"description"`
	Facilities      []string     `json:"facilities"`
	Departments     []string     `json:"departments"`
	Hours           *string      `json:"hours"`
	IsAdminBuilding *bool        `json:"is_admin_building"`
	KeyOffices      *[]KeyOffice `json:"key_offices"`
}

// UpdateUniversityRequest is a partial update of a university's profile.
type UpdateUniversityRequest struct {
	Name       *string `json:"name" validate:"omitempty,min=1"`
	City       *string `json:"city" validate:"omitempty,min=1"`
	AdminEmail *string `json:"admin_email" validate:"omitempty,email"`
}

// TimeSlot is one named block of a room's weekly schedule.
type TimeSlot struct {
	Time     string   `json:"time" dynamodbav:"time" validate:"required"`
	Services []string `json:"services" dynamodbav:"services"`
}

// Timetable lists the services a room offers and, per weekday, the slots offering them.
// Schedule is keyed by lower-case weekday, then by slot key.
type Timetable struct {
	Services []string                       `json:"services" dynamodbav:"services"`
	Schedule map[string]map[string]TimeSlot `json:"schedule" dynamodbav:"schedule" validate:"dive,keys,oneof=monday tuesday wednesday thursday friday saturday sunday,endkeys,dive"`
	Notes    string                         `json:"notes" dynamodbav:"notes"`
}

// Room is a room inside a building. UniversityID is copied from the building so rooms can be
// listed and searched per university.
type Room struct {
	ID           string     `json:"id" dynamodbav:"room_id"`
	BuildingID   string     `json:"building_id" dynamodbav:"building_id"`
	UniversityID string     `json:"university_id" dynamodbav:"university_id"`
	RoomNumber   string     `json:"room_number" dynamodbav:"room_number"`
	RoomName     string     `json:"room_name" dynamodbav:"room_name"`
	Floor        *int       `json:"floor" dynamodbav:"floor"`
	IsOffice     bool       `json:"is_office" dynamodbav:"is_office"`
	Purpose      *string    `json:"purpose" dynamodbav:"purpose"`
	Hours        *string    `json:"hours" dynamodbav:"hours"`
	Timetable    *Timetable `json:"timetable" dynamodbav:"timetable"`
	CreatedAt    time.Time  `json:"created" dynamodbav:"created_at"`
	UpdatedAt    time.Time  `json:"updated" dynamodbav:"updated_at"`
}

type CreateRoomRequest struct {
	BuildingID string     `json:"building_id" validate:"required"`
	RoomNumber string     `json:"room_number" validate:"required"`
	RoomName   string     `json:"room_name" validate:"required"`
	Floor      *int       `json:"floor"`
	IsOffice   bool       `json:"is_office"`
	Purpose    *string    `json:"purpose"`
	Hours      *string    `json:"hours"`
	Timetable  *Timetable `json:"timetable"`
}

// UpdateRoomRequest is a partial update. A new BuildingID moves the room within the university.
// The timetable has its own endpoints.
type UpdateRoomRequest struct {
	BuildingID *string `json:"building_id" validate:"omitempty,min=1"`
	RoomNumber *string `json:"room_number" validate:"omitempty,min=1"`
	RoomName   *string `json:"room_name" validate:"omitempty,min=1"`
	Floor      *int    `json:"floor"`
	IsOffice   *bool   `json:"is_office"`
	Purpose    *string `json:"purpose"`
	Hours      *string `json:"hours"`
}

// SearchResult is the combined building and room search.
type SearchResult struct {
	Buildings []Building `json:"buildings"`
	Rooms     []Room     `json:"rooms"`
}

// Stats is the super-admin overview.
type Stats struct {
	TotalUniversities int `json:"total_universities"`
	TotalBuildings    int `json:"total_buildings"`
	TotalRooms        int `json:"total_rooms"`
	TotalAdmins       int `json:"total_admins"`
}
