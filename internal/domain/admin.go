package domain

import (
	"fmt"
	"time"
)

// Admin roles stored alongside is_super_admin; role backs the role-index GSI.
const (
	RoleSuperAdmin      = "super_admin"
	RoleUniversityAdmin = "university_admin"
)

// AdminRow is the persisted shape of an admin directory entry.
// It is only ever handed to business logic after DecodeAdmin.
type AdminRow struct {
	AdminID      string    `json:"id" dynamodbav:"admin_id"`
	Email        string    `json:"email" dynamodbav:"email"`
	UniversityID string    `json:"university_id,omitempty" dynamodbav:"university_id,omitempty"`
	IsSuperAdmin bool      `json:"is_super_admin" dynamodbav:"is_super_admin"`
	Role         string    `json:"role" dynamodbav:"role"`
	CreatedAt    time.Time `json:"created" dynamodbav:"created_at"`
}

// AdminRecord is a decoded directory entry: SuperAdminRecord or UniversityAdminRecord.
type AdminRecord interface {
	AdminID() string
	AdminEmail() string
	isAdminRecord()
}

// SuperAdminRecord is the platform operator. It has no university.
type SuperAdminRecord struct {
	ID    string
	Email string
}

func (r SuperAdminRecord) AdminID() string    { return r.ID }
func (r SuperAdminRecord) AdminEmail() string { return r.Email }
func (SuperAdminRecord) isAdminRecord()       {}

// UniversityAdminRecord is a regular admin bound to exactly one existing university.
type UniversityAdminRecord struct {
	ID           string
	Email        string
	UniversityID string
	University   University
}

func (r UniversityAdminRecord) AdminID() string    { return r.ID }
func (r UniversityAdminRecord) AdminEmail() string { return r.Email }
func (UniversityAdminRecord) isAdminRecord()       {}

// DecodeAdmin turns a persisted row plus its (optional) university into an AdminRecord.
// A regular admin without a resolvable university is rejected with ErrCorruptRecord.
func DecodeAdmin(row AdminRow, university *University) (AdminRecord, error) {
	if row.AdminID == "" {
		return nil, fmt.Errorf("admin row without id: %w", ErrCorruptRecord)
	}
	if row.IsSuperAdmin {
		return SuperAdminRecord{ID: row.AdminID, Email: row.Email}, nil
	}
	if row.UniversityID == "" {
		return nil, fmt.Errorf("admin %s has no university: %w", row.AdminID, ErrCorruptRecord)
	}
	if university == nil || university.ID != row.UniversityID {
		return nil, fmt.Errorf("admin %s references missing university %s: %w", row.AdminID, row.UniversityID, ErrCorruptRecord)
	}
	return UniversityAdminRecord{
		ID:           row.AdminID,
		Email:        row.Email,
		UniversityID: row.UniversityID,
		University:   *university,
	}, nil
}

// NewUniversityAdminRow builds the row written at registration.
func NewUniversityAdminRow(identityID, email, universityID string, now time.Time) *AdminRow {
	return &AdminRow{
		AdminID:      identityID,
		Email:        email,
		UniversityID: universityID,
		IsSuperAdmin: false,
		Role:         RoleUniversityAdmin,
		CreatedAt:    now,
	}
}

// UniversityRef is the short university label shown next to an admin.
type UniversityRef struct {
	Name string `json:"name"`
	City string `json:"city"`
}

// AdminListing is one row of the super-admin directory view.
type AdminListing struct {
	AdminRow
	University *UniversityRef `json:"university"`
}
