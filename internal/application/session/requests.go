package session

// Inputs validated through internal/pkg/validate before any collaborator is called.

type credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type registration struct {
	Email          string `json:"email" validate:"required,email"`
	Password       string `json:"password" validate:"required,min=6"`
	UniversityName string `json:"university_name" validate:"required"`
	City           string `json:"city" validate:"required"`
}

type emailOnly struct {
	Email string `json:"email" validate:"required,email"`
}

type linkToken struct {
	IdentityID string `json:"identity_id" validate:"required"`
	Token      string `json:"token" validate:"required"`
}

type newPassword struct {
	Password string `json:"password" validate:"required,min=6"`
	Confirm  string `json:"confirm_password" validate:"required,eqfield=Password"`
}

type secretKeyInput struct {
	Key string `json:"secret_key" validate:"required,len=6,number"`
}
