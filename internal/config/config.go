package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Auth modes. Asserted trusts the ownerId clients send; token requires a
// bearer token on every mutating request.
const (
	AuthModeAsserted = "asserted"
	AuthModeToken    = "token"
)

type Config struct {
	Environment    string // ENV: production, development, etc.
	Port           string
	Host           string   // Raw HOST env (e.g. https://api.bookswap.app)
	AllowedHost    string   // Hostname only for strict host check (production only)
	AllowedOrigins []string // from ALLOWED_ORIGINS or FRONTEND_URL(s)

	StoreDriver string // mongo | postgres | memory
	MongoURI    string
	PostgresURI string
	RedisURI    string // empty disables the redis rate limiter

	JWTSecret string
	TokenTTL  time.Duration
	AuthMode  string

	ImageDriver         string // local | s3 | cloudinary
	UploadDir           string
	S3Bucket            string
	S3Region            string
	S3Key               string
	S3Secret            string
	S3Endpoint          string
	S3URL               string
	CloudinaryName      string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string
	CloudinaryFolder    string

	EnrichConcurrency int
}

func Load() *Config {
	env := strings.ToLower(strings.TrimSpace(getEnv("ENV", "development")))
	host := getEnv("HOST", "http://localhost:5000")

	// Host check is skipped outside production.
	var allowedHost string
	if env == "production" {
		allowedHost = hostname(host)
	}

	allowedOrigins := parseOrigins(getEnv("ALLOWED_ORIGINS", ""))
	if len(allowedOrigins) == 0 {
		for _, u := range []string{getEnv("FRONTEND_URL", "http://localhost:3000"), getEnv("FRONTEND_URL_2", "")} {
			u = strings.TrimSpace(u)
			if u != "" && !containsOrigin(allowedOrigins, u) {
				allowedOrigins = append(allowedOrigins, u)
			}
		}
	}
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"http://localhost:3000"}
	}

	authMode := strings.ToLower(strings.TrimSpace(getEnv("AUTH_MODE", AuthModeAsserted)))
	if authMode != AuthModeToken {
		authMode = AuthModeAsserted
	}

	return &Config{
		Environment:    env,
		Port:           getEnv("PORT", "5000"),
		Host:           host,
		AllowedHost:    allowedHost,
		AllowedOrigins: allowedOrigins,

		StoreDriver: strings.ToLower(getEnv("STORE_DRIVER", "mongo")),
		MongoURI:    getEnv("MONGODB_URI", getEnv("MONGO_URI", "mongodb://localhost:27017/bookswap")),
		PostgresURI: getEnv("POSTGRES_URI", "postgres://localhost:5432/bookswap?sslmode=disable"),
		RedisURI:    os.Getenv("REDIS_URI"),

		JWTSecret: os.Getenv("JWT_SECRET"),
		TokenTTL:  getDuration("TOKEN_TTL", 24*time.Hour),
		AuthMode:  authMode,

		ImageDriver:         strings.ToLower(getEnv("IMAGE_DRIVER", "local")),
		UploadDir:           getEnv("UPLOAD_DIR", "uploads"),
		S3Bucket:            os.Getenv("S3_BUCKET"),
		S3Region:            getEnv("S3_REGION", "us-east-1"),
		S3Key:               os.Getenv("S3_KEY"),
		S3Secret:            os.Getenv("S3_SECRET"),
		S3Endpoint:          os.Getenv("S3_ENDPOINT"),
		S3URL:               os.Getenv("S3_URL"),
		CloudinaryName:      os.Getenv("CLOUDINARY_CLOUD_NAME"),
		CloudinaryAPIKey:    os.Getenv("CLOUDINARY_API_KEY"),
		CloudinaryAPISecret: os.Getenv("CLOUDINARY_API_SECRET"),
		CloudinaryFolder:    getEnv("CLOUDINARY_FOLDER", "bookswap/books"),

		EnrichConcurrency: getInt("ENRICH_CONCURRENCY", 8),
	}
}

// hostname strips scheme, path and port from a HOST value.
func hostname(host string) string {
	for _, prefix := range []string{"https://", "http://"} {
		host = strings.TrimPrefix(host, prefix)
	}
	if idx := strings.Index(host, "/"); idx != -1 {
		host = host[:idx]
	}
	if idx := strings.Index(host, ":"); idx != -1 {
		host = host[:idx]
	}
	return strings.TrimSpace(host)
}

func parseOrigins(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func containsOrigin(list []string, o string) bool {
	o = strings.TrimSpace(strings.ToLower(o))
	for _, v := range list {
		if strings.TrimSpace(strings.ToLower(v)) == o {
			return true
		}
	}
	return false
}

// IsProduction returns true when ENV is set to "production".
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// TokensEnabled reports whether identity tokens are issued and verified.
func (c *Config) TokensEnabled() bool {
	return c.JWTSecret != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil && n > 0 {
		return n
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(key)); err == nil && d > 0 {
		return d
	}
	return defaultValue
}
