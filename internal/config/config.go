package config

import (
	"crypto/rand"
	"encoding/hex"
	"log"
	"os"
	"strconv"
)

type Config struct {
	// Database
	DBHost           string
	DBPort           int
	DBUser           string
	DBPassword       string
	DBName           string
	DBMaxOpenConns   int
	DBMaxIdleConns   int
	DBConnectRetries int

	// Redis
	RedisHost     string
	RedisPort     int
	RedisPassword string

	// JWT (admin tokens + signed download URLs)
	JWTSecret      string
	JWTExpireHours int

	// API
	APIPort int

	// Event webhooks (storage finalize, engagement triggers)
	WebhookSecret string

	// Admin API key, stored as a bcrypt hash
	AdminAPIKeyHash string

	// Object storage gateway
	StorageBaseURL      string
	StorageBucket       string
	StorageServiceToken string
	SignedURLTTLMinutes int

	// Transcoding provider
	TranscoderBaseURL string
	TranscoderAPIKey  string
	TranscoderName    string

	// Quota record retention
	QuotaRetentionDays int
}

// generateSecureSecret generates a cryptographically secure random secret
func generateSecureSecret(length int) string {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		// Fallback to a hostname-based value if crypto/rand fails
		return hex.EncodeToString([]byte(os.Getenv("HOSTNAME") + string(rune(length))))
	}
	return hex.EncodeToString(bytes)
}

func Load() *Config {
	// JWT Secret - generate random if not provided
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = generateSecureSecret(32) // 64 character hex string
		log.Println("WARNING: JWT_SECRET not set - generated random secret. Signed URLs will not survive restarts.")
	}

	// Database password - warn if using default
	dbPassword := getEnv("DB_PASSWORD", "")
	if dbPassword == "" {
		log.Println("WARNING: DB_PASSWORD not set - this is insecure for production!")
		dbPassword = "changeme"
	}

	// Redis password - warn if using default
	redisPassword := getEnv("REDIS_PASSWORD", "")
	if redisPassword == "" {
		log.Println("WARNING: REDIS_PASSWORD not set - Redis is not secured!")
	}

	// Webhook secret - events are unauthenticated without it
	webhookSecret := getEnv("WEBHOOK_SECRET", "")
	if webhookSecret == "" {
		log.Println("WARNING: WEBHOOK_SECRET not set - event webhooks accept unauthenticated callers!")
	}

	return &Config{
		// Database
		DBHost:           getEnv("DB_HOST", "localhost"),
		DBPort:           getEnvInt("DB_PORT", 5432),
		DBUser:           getEnv("DB_USER", "snapflow"),
		DBPassword:       dbPassword,
		DBName:           getEnv("DB_NAME", "snapflow"),
		DBMaxOpenConns:   getEnvInt("DB_MAX_OPEN_CONNS", 50),
		DBMaxIdleConns:   getEnvInt("DB_MAX_IDLE_CONNS", 10),
		DBConnectRetries: getEnvInt("DB_CONNECT_RETRIES", 30),

		// Redis
		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnvInt("REDIS_PORT", 6379),
		RedisPassword: redisPassword,

		// JWT
		JWTSecret:      jwtSecret,
		JWTExpireHours: getEnvInt("JWT_EXPIRE_HOURS", 168), // 7 days default

		// API
		APIPort: getEnvInt("API_PORT", 8080),

		// Webhooks / admin
		WebhookSecret:   webhookSecret,
		AdminAPIKeyHash: getEnv("ADMIN_API_KEY_HASH", ""),

		// Object storage gateway
		StorageBaseURL:      getEnv("STORAGE_BASE_URL", "http://localhost:9000"),
		StorageBucket:       getEnv("STORAGE_BUCKET", "snapflow-media"),
		StorageServiceToken: getEnv("STORAGE_SERVICE_TOKEN", ""),
		SignedURLTTLMinutes: getEnvInt("SIGNED_URL_TTL_MINUTES", 15),

		// Transcoding provider
		TranscoderBaseURL: getEnv("TRANSCODER_BASE_URL", "https://api.streamforge.io"),
		TranscoderAPIKey:  getEnv("TRANSCODER_API_KEY", ""),
		TranscoderName:    getEnv("TRANSCODER_NAME", "streamforge"),

		// Quota retention
		QuotaRetentionDays: getEnvInt("QUOTA_RETENTION_DAYS", 40),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
