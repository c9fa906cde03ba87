package domain

import "time"

// OneTimeKey is a short-lived numeric code authorising a keyless super-admin session.
// TTL is a Unix timestamp used by DynamoDB to purge old rows; it trails ExpiresAt.
type OneTimeKey struct {
	ID        string     `json:"id" dynamodbav:"key_id"`
	SecretKey string     `json:"-" dynamodbav:"secret_key"`
	ExpiresAt time.Time  `json:"expires_at" dynamodbav:"expires_at"`
	Used      bool       `json:"used" dynamodbav:"used"`
	UsedAt    *time.Time `json:"used_at,omitempty" dynamodbav:"used_at"`
	CreatedAt time.Time  `json:"created" dynamodbav:"created_at"`
	TTL       int64      `json:"-" dynamodbav:"ttl"`
}

// Expired reports whether the key can no longer authorise a session at now.
func (k *OneTimeKey) Expired(now time.Time) bool {
	return k.ExpiresAt.Before(now)
}
