package dynamo

// DynamoDB attribute names used in update expressions across all repos.
// Using constants prevents silent runtime bugs caused by key typos.
const (
	fieldUpdatedAt       = "updated_at"
	fieldUsed            = "used"
	fieldUsedAt          = "used_at"
	fieldIsAdminBuilding = "is_admin_building"
	fieldUniversityID    = "university_id"
	fieldBuildingID      = "building_id"
	fieldRoomID          = "room_id"
	fieldRole            = "role"
	fieldEmail           = "email"
	fieldSecretKey       = "secret_key"
	fieldPasswordHash    = "password_hash"
	fieldEmailConfirmed  = "email_confirmed"
)

// GSI names created by Bootstrap.
const (
	indexEmail      = "email-index"
	indexRole       = "role-index"
	indexUniversity = "university_id-index"
	indexBuilding   = "building_id-index"
	indexSecretKey  = "secret_key-index"
)
