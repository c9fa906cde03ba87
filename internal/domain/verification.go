package domain

// Verification types issued by the identity provider.
const (
	VerificationEmailConfirm  = "email_confirm"
	VerificationPasswordReset = "password_reset"
)

// Verification stores email confirmation and password recovery tokens.
// PK: identity_id, SK: type.
// ExpiresAt is a Unix timestamp used as DynamoDB TTL.
type Verification struct {
	IdentityID string `json:"identity_id" dynamodbav:"identity_id"`
	Type       string `json:"type" dynamodbav:"type"`
	Code       string `json:"code" dynamodbav:"code"`
	ExpiresAt  int64  `json:"expires_at" dynamodbav:"expires_at"`
}
