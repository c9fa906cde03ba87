package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppPort        string
	AppEnv         string
	LogLevel       string
	PublicBaseURL  string // used to build confirmation and recovery links
	AWSRegion      string
	AWSEndpointURL string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID string
	AWSSecretKey   string
	DynamoTables   DynamoTables

	JWTPrivateKeyPath string
	JWTPublicKeyPath  string
	JWTExpiry         time.Duration

	RequireEmailConfirmation bool

	SMTPHost     string
	SMTPPort     string
	SMTPFrom     string
	SMTPUsername string
	SMTPPassword string
	SNSRegion    string

	SuperAdminEmail      string // operator address receiving one-time keys
	SuperAdminPhone      string // optional SMS copy of one-time keys
	SuperAdminKeyTTL     time.Duration
	SuperAdminSessionTTL time.Duration

	ConsoleIdleTimeout time.Duration
	AllowedOrigins     []string // CORS allowed origins (admin portal + embed hosts)
	TrustedProxy       bool     // honour X-Forwarded-For / X-Real-IP from a reverse proxy
}

// DynamoTables holds the DynamoDB table name for each entity.
type DynamoTables struct {
	Identities    string
	Verifications string
	Admins        string
	Universities  string
	Buildings     string
	Rooms         string
	SecretKeys    string
}

// Load reads all configuration from environment variables.
func Load() *Config {
	return &Config{
		AppPort:        getEnv("APP_PORT", "3000"),
		AppEnv:         getEnv("APP_ENV", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		PublicBaseURL:  getEnv("PUBLIC_BASE_URL", "http://localhost:5173"),
		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		AWSEndpointURL: getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID: getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),
		DynamoTables: DynamoTables{
			Identities:    getEnv("DYNAMO_TABLE_IDENTITIES", "identities"),
			Verifications: getEnv("DYNAMO_TABLE_VERIFICATIONS", "identity_verifications"),
			Admins:        getEnv("DYNAMO_TABLE_ADMINS", "admins"),
			Universities:  getEnv("DYNAMO_TABLE_UNIVERSITIES", "universities"),
			Buildings:     getEnv("DYNAMO_TABLE_BUILDINGS", "buildings"),
			Rooms:         getEnv("DYNAMO_TABLE_ROOMS", "rooms"),
			SecretKeys:    getEnv("DYNAMO_TABLE_SECRET_KEYS", "super_admin_keys"),
		},
		JWTPrivateKeyPath:        getEnv("JWT_PRIVATE_KEY_PATH", "./private_key.pem"),
		JWTPublicKeyPath:         getEnv("JWT_PUBLIC_KEY_PATH", "./public_key.pem"),
		JWTExpiry:                getEnvDuration("JWT_EXPIRY", time.Hour),
		RequireEmailConfirmation: getEnvBool("REQUIRE_EMAIL_CONFIRMATION", true),
		SMTPHost:                 getEnv("SMTP_HOST", "localhost"),
		SMTPPort:                 getEnv("SMTP_PORT", "1025"),
		SMTPFrom:                 getEnv("SMTP_FROM", "noreply@example.com"),
		SMTPUsername:             getEnv("SMTP_USERNAME", ""),
		SMTPPassword:             getEnv("SMTP_PASSWORD", ""),
		SNSRegion:                getEnv("SNS_REGION", "us-east-1"),
		SuperAdminEmail:          getEnv("SUPER_ADMIN_EMAIL", "operator@example.com"),
		SuperAdminPhone:          getEnv("SUPER_ADMIN_PHONE", ""),
		SuperAdminKeyTTL:         getEnvDuration("SUPER_ADMIN_KEY_TTL", 10*time.Minute),
		SuperAdminSessionTTL:     getEnvDuration("SUPER_ADMIN_SESSION_TTL", 10*time.Minute),
		ConsoleIdleTimeout:       getEnvDuration("CONSOLE_IDLE_TIMEOUT", 30*time.Minute),
		AllowedOrigins:           strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
		TrustedProxy:             getEnvBool("TRUSTED_PROXY", false),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

// getEnvDuration accepts Go duration strings ("10m") or a bare number of seconds.
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		if n := getEnvInt(key, -1); n >= 0 {
			return time.Duration(n) * time.Second
		}
	}
	return fallback
}
