package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	APIPort string
	Mode    string // "debug" or "release"

	JWTKey []byte
	JWTExp time.Duration

	AdminUsername     string
	AdminPasswordHash string // bcrypt hash of the admin password

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string
	DBConnStr  string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// QuotaBackend selects the quota store: "redis" (durable, survives
	// restarts) or "memory" (single node only).
	QuotaBackend string

	// AttestationSeed is the hex-encoded 32-byte Ed25519 seed used to sign
	// score claims. The process refuses to start without it.
	AttestationSeed string

	LedgerRPCURL         string
	LeaderboardObjectID  string
	LeaderboardPageSize  int
	LeaderboardInFlight  int
	LeaderboardTimeout   time.Duration
	LedgerRequestTimeout time.Duration
}

var AppConfig *Config

func Load() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	AppConfig = &Config{
		APIPort: getEnv("API_PORT", "8080"),
		Mode:    getEnv("APP_MODE", "release"),

		JWTKey: []byte(getEnv("JWT_SECRET", "defaultsecret")),
		JWTExp: time.Duration(getEnvAsInt("JWT_EXPIRATION_HOURS", 72)) * time.Hour,

		AdminUsername:     getEnv("ADMIN_USERNAME", "admin"),
		AdminPasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "user"),
		DBPassword: getEnv("DB_PASSWORD", "password"),
		DBName:     getEnv("DB_NAME", "suiquiz_db"),
		DBSslMode:  getEnv("DB_SSLMODE", "disable"),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),

		QuotaBackend: getEnv("QUOTA_BACKEND", "redis"),

		AttestationSeed: getEnv("ATTESTATION_SIGNING_SEED", ""),

		LedgerRPCURL:         getEnv("LEDGER_RPC_URL", "https://fullnode.testnet.sui.io:443"),
		LeaderboardObjectID:  getEnv("LEADERBOARD_OBJECT_ID", ""),
		LeaderboardPageSize:  getEnvAsInt("LEADERBOARD_PAGE_SIZE", 50),
		LeaderboardInFlight:  getEnvAsInt("LEADERBOARD_IN_FLIGHT", 8),
		LeaderboardTimeout:   time.Duration(getEnvAsInt("LEADERBOARD_TIMEOUT_SECONDS", 15)) * time.Second,
		LedgerRequestTimeout: time.Duration(getEnvAsInt("LEDGER_REQUEST_TIMEOUT_SECONDS", 10)) * time.Second,
	}

	AppConfig.DBConnStr = "host=" + AppConfig.DBHost +
		" port=" + AppConfig.DBPort +
		" user=" + AppConfig.DBUser +
		" password=" + AppConfig.DBPassword +
		" dbname=" + AppConfig.DBName +
		" sslmode=" + AppConfig.DBSslMode
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return fallback
}
