package app

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/aussiebroadwan/auth0mgmt/pkg/httpx"
)

// DefaultSeedScopes is granted to the seed client when
// AUTH0EMU_SEED_CLIENT_SCOPES is not set.
var DefaultSeedScopes = []string{
	"read:users", "create:users", "update:users", "delete:users",
	"read:roles", "create:roles", "update:roles", "delete:roles",
	"read:organizations", "create:organizations", "update:organizations", "delete:organizations",
	"read:clients", "create:clients", "delete:clients",
}

type Config struct {
	Domain string // Tenant host the emulator answers for (default: localhost:8443)

	DatabaseFile   string // Optional: path to SQLite database file (default: ./auth0emu.db)
	PepperFile     string // Optional: path to file containing pepper for secret hashing (default: ./pepper)
	SigningKeyFile string // Optional: PEM Ed25519 key; generated per start when empty

	TLSMode     string // self-signed or off (default: self-signed)
	TLSCertFile string // Optional: serve this certificate instead of a self-signed one
	TLSKeyFile  string

	SeedClientID     string   // Optional: fixed seed client id
	SeedClientSecret string   // Optional: fixed seed client secret
	SeedClientScopes []string // Optional: space separated (default: DefaultSeedScopes)

	AccessTokenTTL time.Duration // Lifetime of issued tokens (default: 24h)

	ManagementLimit httpx.RateLimitConfig // RATELIMIT_MANAGEMENT_*
	TokenLimit      httpx.RateLimitConfig // RATELIMIT_TOKEN_*

	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8443)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

func LoadConfig() Config {
	cfg := Config{
		Domain:           getEnvOrDefault("AUTH0EMU_DOMAIN", "localhost:8443"),
		DatabaseFile:     getEnvOrDefault("AUTH0EMU_DATABASE_FILE", "auth0emu.db"),
		PepperFile:       getEnvOrDefault("AUTH0EMU_PEPPER_FILE", "pepper"),
		SigningKeyFile:   os.Getenv("AUTH0EMU_SIGNING_KEY_FILE"),
		TLSMode:          strings.ToLower(getEnvOrDefault("AUTH0EMU_TLS_MODE", "self-signed")),
		TLSCertFile:      os.Getenv("AUTH0EMU_TLS_CERT_FILE"),
		TLSKeyFile:       os.Getenv("AUTH0EMU_TLS_KEY_FILE"),
		SeedClientID:     os.Getenv("AUTH0EMU_SEED_CLIENT_ID"),
		SeedClientSecret: os.Getenv("AUTH0EMU_SEED_CLIENT_SECRET"),
		SeedClientScopes: DefaultSeedScopes,
		AccessTokenTTL:   getEnvDurationOrDefault("AUTH0EMU_ACCESS_TOKEN_TTL", 24*time.Hour),

		ManagementLimit: httpx.ParseRateLimitFromEnv("MANAGEMENT", httpx.ManagementLimit),
		TokenLimit:      httpx.ParseRateLimitFromEnv("TOKEN", httpx.TokenLimit),

		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8443),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}

	if scopes := strings.Fields(os.Getenv("AUTH0EMU_SEED_CLIENT_SCOPES")); len(scopes) > 0 {
		cfg.SeedClientScopes = scopes
	}

	return cfg
}

// Issuer is the iss claim of issued tokens, "https://<domain>/".
func (c Config) Issuer() string {
	return "https://" + c.Domain + "/"
}

// Audience is the Management API identifier, "https://<domain>/api/v2/".
func (c Config) Audience() string {
	return "https://" + c.Domain + "/api/v2/"
}

// Host is the domain without its port.
func (c Config) Host() string {
	host := c.Domain
	if i := strings.LastIndexByte(host, ':'); i >= 0 && !strings.HasSuffix(host, "]") {
		host = host[:i]
	}
	return strings.Trim(host, "[]")
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Plain integers are seconds
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second
	}

	return defaultValue
}
